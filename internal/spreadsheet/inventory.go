package spreadsheet

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type InventoryRow struct {
	Sheet        string
	Row          int
	ItemNumber   *string
	Description  string
	MinimumPrice *decimal.Decimal
	Cost         *decimal.Decimal
	DateAdded    *time.Time
}

var soldMarkers = map[string]bool{"yes": true, "sold": true, "x": true}

// ExtractInventory reads unsold inventory rows below headerRow.
func ExtractInventory(sheet string, rows [][]any, headerRow int) ([]InventoryRow, []error, error) {
	if headerRow >= len(rows) {
		return nil, nil, nil
	}
	cols := resolveColumns(HeaderCells(rows[headerRow]), inventoryColumns)
	if !cols.has(colItem) && !cols.has(colDescription) {
		return nil, nil, errNoIdentityColumns
	}

	var items []InventoryRow
	rowErrs := eachRow(sheet, rows, headerRow, func(row []any, rowNumber int) error {
		itemNumber := cols.text(row, colItem)
		description := cols.text(row, colDescription)
		if itemNumber == "" && description == "" {
			return nil
		}
		if soldMarkers[strings.ToLower(cols.text(row, colSold))] {
			return nil
		}

		item := InventoryRow{
			Sheet:        sheet,
			Row:          rowNumber,
			Description:  description,
			MinimumPrice: nonZero(ToNumber(cols.get(row, colMinimumPrice))),
			Cost:         nonZero(ToNumber(cols.get(row, colCost))),
			DateAdded:    ToDate(cols.get(row, colDate)),
		}
		if itemNumber != "" {
			item.ItemNumber = &itemNumber
		}
		if item.Description == "" {
			item.Description = itemNumber
		}
		items = append(items, item)
		return nil
	})
	return items, rowErrs, nil
}

func nonZero(d decimal.Decimal) *decimal.Decimal {
	if d.IsZero() {
		return nil
	}
	return &d
}
