package spreadsheet

import (
	"fmt"
)

// eachRow calls fn for every data row below the header. A panic in fn is
// recorded as a RowError and the scan continues.
func eachRow(sheet string, rows [][]any, headerRow int, fn func(row []any, rowNumber int) error) []error {
	var errs []error
	for i := headerRow + 1; i < len(rows); i++ {
		if isBlank(rows[i]) {
			continue
		}
		if err := safeRow(rows[i], i+1, fn); err != nil {
			errs = append(errs, &RowError{Sheet: sheet, Row: i + 1, Err: err})
		}
	}
	return errs
}

func safeRow(row []any, rowNumber int, fn func(row []any, rowNumber int) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected value: %v", r)
		}
	}()
	return fn(row, rowNumber)
}

func isBlank(row []any) bool {
	for _, c := range row {
		if ToText(c) != "" {
			return false
		}
	}
	return true
}
