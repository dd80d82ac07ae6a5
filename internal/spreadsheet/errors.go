package spreadsheet

import (
	"errors"
	"fmt"
)

// ErrUnsupportedWorkbook is returned for input that is not an .xlsx workbook.
var ErrUnsupportedWorkbook = errors.New("unsupported workbook format")

// SheetError is a failure that stopped one sheet from being parsed.
type SheetError struct {
	Sheet string
	Err   error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("Error parsing sheet %q: %v", e.Sheet, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}

// RowError is a failure confined to one row. Row is 1-based as shown in
// spreadsheet applications.
type RowError struct {
	Sheet string
	Row   int
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("Sheet %q row %d: %v", e.Sheet, e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
