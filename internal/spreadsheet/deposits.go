package spreadsheet

import (
	"time"

	"github.com/shopspring/decimal"
)

type DepositRow struct {
	Sheet       string
	Row         int
	SoldDate    *time.Time
	Description string
	Total       decimal.Decimal
	NetProfit   *decimal.Decimal
}

// ExtractDeposits reads rows with a description and a nonzero total.
func ExtractDeposits(sheet string, rows [][]any, headerRow int) ([]DepositRow, []error, error) {
	if headerRow >= len(rows) {
		return nil, nil, nil
	}
	cols := resolveColumns(HeaderCells(rows[headerRow]), depositColumns)
	if !cols.has(colDescription) {
		return nil, nil, errNoIdentityColumns
	}

	var deposits []DepositRow
	rowErrs := eachRow(sheet, rows, headerRow, func(row []any, rowNumber int) error {
		description := cols.text(row, colDescription)
		total := ToNumber(cols.get(row, colTotal))
		if description == "" || total.IsZero() {
			return nil
		}

		deposits = append(deposits, DepositRow{
			Sheet:       sheet,
			Row:         rowNumber,
			SoldDate:    ToDate(cols.get(row, colDate)),
			Description: description,
			Total:       total,
			NetProfit:   nonZero(ToNumber(cols.get(row, colNet))),
		})
		return nil
	})
	return deposits, rowErrs, nil
}
