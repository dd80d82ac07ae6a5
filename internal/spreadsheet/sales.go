package spreadsheet

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SaleRow is one accepted sale from a sales sheet.
type SaleRow struct {
	Sheet               string
	Row                 int
	ItemNumber          string
	Description         string
	ListedPrice         decimal.Decimal
	SalePrice           decimal.Decimal
	ShippingCost        decimal.Decimal
	SuppliesCost        decimal.Decimal
	NetProfit           decimal.Decimal
	ListedDate          *time.Time
	SaleDate            *time.Time
	OfferStartDate      *time.Time
	OfferExpirationDate *time.Time
}

type salesLayout string

const (
	layoutSimple     salesLayout = "simple"
	layoutPositional salesLayout = "positional"
	layoutSoldByMe   salesLayout = "sold_by_me"
)

var salesLayoutColumns = map[salesLayout][]columnDef{
	layoutSimple:     simpleSalesColumns,
	layoutPositional: positionalSalesColumns,
	layoutSoldByMe:   soldByMeColumns,
}

// Descriptions in positional sheets that are account activity, not sales.
var nonSaleDescriptions = []string{"payment", "purchase", "refund", "shipping label error", "ups shipping"}

func selectSalesLayout(header []string, variant SalesVariant, dialect Dialect) (salesLayout, error) {
	if variant == VariantSoldByMe {
		return layoutSoldByMe, nil
	}
	resolved, err := detectDialect(header, dialect)
	if err != nil {
		return "", err
	}
	if resolved == DialectPositional {
		return layoutPositional, nil
	}
	return layoutSimple, nil
}

// ExtractSales reads the sales rows below headerRow. The returned error is
// sheet-level; per-row failures are in the error slice.
func ExtractSales(sheet string, rows [][]any, headerRow int, variant SalesVariant, dialect Dialect) ([]SaleRow, []error, error) {
	if headerRow >= len(rows) {
		return nil, nil, nil
	}
	header := HeaderCells(rows[headerRow])

	layout, err := selectSalesLayout(header, variant, dialect)
	if err != nil {
		return nil, nil, err
	}
	cols := resolveColumns(header, salesLayoutColumns[layout])
	if !cols.has(colItem) && !cols.has(colDescription) {
		return nil, nil, errNoIdentityColumns
	}

	var sales []SaleRow
	rowErrs := eachRow(sheet, rows, headerRow, func(row []any, rowNumber int) error {
		sale, ok := extractSale(layout, cols, row)
		if !ok {
			return nil
		}
		sale.Sheet = sheet
		sale.Row = rowNumber
		if sale.ItemNumber == "" {
			sale.ItemNumber = fmt.Sprintf("%s-%d", sheet, rowNumber)
		}
		if sale.Description == "" {
			sale.Description = "Unknown Item"
		}
		sales = append(sales, sale)
		return nil
	})
	return sales, rowErrs, nil
}

func extractSale(layout salesLayout, cols columns, row []any) (SaleRow, bool) {
	sale := SaleRow{
		ItemNumber:          cols.text(row, colItem),
		Description:         cols.text(row, colDescription),
		ListedPrice:         ToNumber(cols.get(row, colListedPrice)),
		SalePrice:           ToNumber(cols.get(row, colSalePrice)),
		ShippingCost:        ToNumber(cols.get(row, colShipping)),
		SuppliesCost:        ToNumber(cols.get(row, colSupplies)),
		ListedDate:          ToDate(cols.get(row, colListedDate)),
		SaleDate:            ToDate(cols.get(row, colSaleDate)),
		OfferStartDate:      ToDate(cols.get(row, colOfferStart)),
		OfferExpirationDate: ToDate(cols.get(row, colOfferExpiry)),
	}
	if sale.ItemNumber == "" && sale.Description == "" {
		return sale, false
	}

	fallback := sale.SalePrice.Sub(sale.SuppliesCost)

	switch layout {
	case layoutPositional:
		status := strings.ToLower(cols.text(row, colStatus))
		if containsAny(status, "cancel", "error") {
			return sale, false
		}
		if containsAny(strings.ToLower(sale.Description), nonSaleDescriptions...) {
			return sale, false
		}
		subTotal := ToNumber(cols.get(row, colSubTotal))
		ninetyDay := ToNumber(cols.get(row, colNinetyDay))
		sold := strings.Contains(status, "sold") && !containsAny(status, "unsold", "not sold")
		if !sold && subTotal.IsZero() && ninetyDay.IsZero() {
			return sale, false
		}

	case layoutSimple:
		if sale.ListedPrice.IsZero() && sale.SalePrice.IsZero() {
			return sale, false
		}
		if cols.has(colSubTotal) {
			fallback = ToNumber(cols.get(row, colSubTotal))
		}

	case layoutSoldByMe:
		if sale.ListedPrice.IsZero() && sale.SalePrice.IsZero() {
			return sale, false
		}
	}

	if net := cols.text(row, colNet); net != "" {
		sale.NetProfit = ToNumber(net)
	} else {
		sale.NetProfit = fallback
	}
	return sale, true
}
