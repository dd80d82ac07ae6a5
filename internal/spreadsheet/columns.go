package spreadsheet

import (
	"errors"
	"fmt"
	"strings"
)

// Sale columns in the positional dialect live after this index; earlier
// columns reuse labels like "Date" for unrelated data.
const positionalBoundary = 15

type field string

const (
	colItem         field = "item"
	colDescription  field = "description"
	colListedPrice  field = "listed_price"
	colSalePrice    field = "sale_price"
	colShipping     field = "shipping"
	colSupplies     field = "supplies"
	colNet          field = "net"
	colListedDate   field = "listed_date"
	colSaleDate     field = "sale_date"
	colOfferStart   field = "offer_start"
	colOfferExpiry  field = "offer_expiry"
	colSubTotal     field = "sub_total"
	colNinetyDay    field = "ninety_day_total"
	colStatus       field = "status"
	colSold         field = "sold"
	colMinimumPrice field = "minimum_price"
	colCost         field = "cost"
	colDate         field = "date"
	colTotal        field = "total"
)

type columnDef struct {
	field      field
	candidates []string
	// positional columns are only searched after positionalBoundary.
	positional bool
}

var ninetyDayCandidates = []string{"90 day total"}

var simpleSalesColumns = []columnDef{
	{field: colItem, candidates: []string{"item #", "item number", "item"}},
	{field: colDescription, candidates: []string{"description", "desc", "item description"}},
	{field: colListedPrice, candidates: []string{"listed price", "list price", "asking"}},
	{field: colSalePrice, candidates: []string{"sale price", "sold price", "sold for", "price"}},
	{field: colShipping, candidates: []string{"shipping", "ship cost", "shipping cost"}},
	{field: colSupplies, candidates: []string{"supplies", "supplies cost", "cost"}},
	{field: colNet, candidates: []string{"net", "net sales", "net profit", "profit"}},
	{field: colListedDate, candidates: []string{"date listed", "listed date", "list date"}},
	{field: colSaleDate, candidates: []string{"date sold", "sold date", "sale date"}},
	{field: colOfferStart, candidates: []string{"offer start", "offer begins"}},
	{field: colOfferExpiry, candidates: []string{"offer exp", "offer expiration", "offer ends"}},
	{field: colSubTotal, candidates: []string{"sub-total", "subtotal", "sub total"}},
}

var positionalSalesColumns = []columnDef{
	{field: colItem, candidates: []string{"item #", "item number", "item"}},
	{field: colDescription, candidates: []string{"description", "desc"}},
	{field: colListedPrice, candidates: []string{"listed price", "list price", "asking"}},
	{field: colListedDate, candidates: []string{"date listed", "listed date", "list date"}},
	{field: colOfferStart, candidates: []string{"offer start", "offer begins"}},
	{field: colOfferExpiry, candidates: []string{"offer exp", "offer expiration", "offer ends"}},
	{field: colStatus, candidates: []string{"status"}, positional: true},
	{field: colSaleDate, candidates: []string{"date sold", "sold date", "sale date", "date"}, positional: true},
	{field: colSalePrice, candidates: []string{"sale price", "sold price", "sold for", "sale", "price"}, positional: true},
	{field: colShipping, candidates: []string{"shipping", "ship"}, positional: true},
	{field: colSupplies, candidates: []string{"supplies", "cost"}, positional: true},
	{field: colSubTotal, candidates: []string{"sub-total", "subtotal", "sub total"}, positional: true},
	{field: colNinetyDay, candidates: ninetyDayCandidates, positional: true},
	{field: colNet, candidates: []string{"net profit", "net"}, positional: true},
}

var soldByMeColumns = []columnDef{
	{field: colItem, candidates: []string{"item #", "item number", "item"}},
	{field: colDescription, candidates: []string{"description", "desc"}},
	{field: colListedPrice, candidates: []string{"listed price", "list price", "asking"}},
	{field: colSalePrice, candidates: []string{"sold for", "sale price", "sold price"}},
	{field: colListedDate, candidates: []string{"date listed", "listed date"}},
	{field: colSaleDate, candidates: []string{"date sold", "sold date", "sale date"}},
	{field: colShipping, candidates: []string{"shipping"}},
	{field: colSupplies, candidates: []string{"supplies", "cost"}},
	{field: colNet, candidates: []string{"net profit", "profit", "net"}},
}

var inventoryColumns = []columnDef{
	{field: colItem, candidates: []string{"item #", "item number", "item"}},
	{field: colDescription, candidates: []string{"description", "desc"}},
	{field: colMinimumPrice, candidates: []string{"minimum", "min price", "internet price"}},
	{field: colCost, candidates: []string{"cost"}},
	{field: colDate, candidates: []string{"date added", "date"}},
	{field: colSold, candidates: []string{"sold"}},
}

var depositColumns = []columnDef{
	{field: colDate, candidates: []string{"sold date", "date"}},
	{field: colDescription, candidates: []string{"description", "desc"}},
	{field: colTotal, candidates: []string{"total"}},
	{field: colNet, candidates: []string{"net profit", "net"}},
}

// columns maps each resolved field to its index, -1 when absent.
type columns map[field]int

func resolveColumns(header []string, defs []columnDef) columns {
	cols := make(columns, len(defs))
	for _, col := range defs {
		if col.positional {
			cols[col.field] = FindColumnAfter(header, col.candidates, positionalBoundary)
		} else {
			cols[col.field] = FindColumn(header, col.candidates)
		}
	}
	return cols
}

func (c columns) index(f field) int {
	idx, ok := c[f]
	if !ok {
		return -1
	}
	return idx
}

func (c columns) has(f field) bool {
	return c.index(f) >= 0
}

func (c columns) get(row []any, f field) any {
	return cell(row, c.index(f))
}

func (c columns) text(row []any, f field) string {
	return ToText(c.get(row, f))
}

// Dialect is the layout family of eBay sales sheets.
type Dialect string

const (
	DialectAuto       Dialect = "auto"
	DialectSimple     Dialect = "simple"
	DialectPositional Dialect = "positional"
)

func ParseDialect(s string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(strings.TrimSpace(s))); d {
	case DialectAuto, DialectSimple, DialectPositional:
		return d, nil
	case "":
		return DialectAuto, nil
	}
	return "", fmt.Errorf("unknown sales dialect %q", s)
}

var errNoIdentityColumns = errors.New("no item number or description column found")

// detectDialect resolves auto detection from the "90 day total" column.
func detectDialect(header []string, configured Dialect) (Dialect, error) {
	if configured != DialectAuto {
		return configured, nil
	}
	idx := FindColumn(header, ninetyDayCandidates)
	switch {
	case idx < 0:
		return DialectSimple, nil
	case idx > positionalBoundary:
		return DialectPositional, nil
	}
	return "", fmt.Errorf("ambiguous sales layout: %q column at position %d; set the sales dialect to simple or positional",
		ninetyDayCandidates[0], idx+1)
}
