package spreadsheet

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Legacy .xls files are OLE compound documents.
var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0}

// Sheet is one decoded worksheet. Numeric cells are float64, everything else
// is a string. Err is set when the sheet could not be decoded.
type Sheet struct {
	Name string
	Rows [][]any
	Err  error
}

// ReadWorkbook decodes every sheet of an .xlsx workbook in tab order.
func ReadWorkbook(data []byte) ([]Sheet, error) {
	if bytes.HasPrefix(data, oleMagic) {
		return nil, fmt.Errorf("%w: legacy .xls files must be saved as .xlsx", ErrUnsupportedWorkbook)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedWorkbook, err)
	}
	defer f.Close()

	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		rows, err := readSheet(f, name)
		sheets = append(sheets, Sheet{Name: name, Rows: rows, Err: err})
	}
	return sheets, nil
}

func readSheet(f *excelize.File, name string) (rows [][]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("failed to decode sheet: %v", r)
		}
	}()

	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	rows = make([][]any, len(raw))
	for r, cells := range raw {
		row := make([]any, len(cells))
		for c, value := range cells {
			row[c] = typedCell(f, name, c+1, r+1, value)
		}
		rows[r] = row
	}
	return rows, nil
}

// typedCell keeps text cells as strings so identifiers like "00123" survive,
// and turns numeric and date cells into float64.
func typedCell(f *excelize.File, sheet string, col, row int, value string) any {
	if value == "" {
		return ""
	}
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return value
	}
	cellType, err := f.GetCellType(sheet, axis)
	if err != nil {
		return value
	}
	switch cellType {
	case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeDate:
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			return n
		}
	}
	return value
}
