package spreadsheet

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var numberReplacer = strings.NewReplacer("$", "", "£", "", "€", "", ",", "", " ", "", "\t", "", "\u00a0", "")

// ToNumber coerces a cell to a decimal. Anything unparseable is zero.
func ToNumber(v any) decimal.Decimal {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(val)
	case int:
		return decimal.NewFromInt(int64(val))
	case decimal.Decimal:
		return val
	case string:
		cleaned := numberReplacer.Replace(strings.TrimSpace(val))
		if cleaned == "" {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			return decimal.Zero
		}
		return d
	}
	return decimal.Zero
}

// ToDate coerces a cell to a UTC time. Native times, spreadsheet serials
// (1900 date system) and free text are accepted; anything else is nil.
func ToDate(v any) *time.Time {
	switch val := v.(type) {
	case time.Time:
		if val.IsZero() {
			return nil
		}
		t := val.UTC()
		return &t
	case float64:
		return fromSerial(val)
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil
		}
		if serial, err := strconv.ParseFloat(s, 64); err == nil {
			return fromSerial(serial)
		}
		t, err := dateparse.ParseIn(s, time.UTC)
		if err != nil {
			return nil
		}
		t = t.UTC()
		return &t
	}
	return nil
}

func fromSerial(serial float64) *time.Time {
	if serial < 1 || math.IsNaN(serial) || math.IsInf(serial, 0) {
		return nil
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

// ToText renders a cell as trimmed text.
func ToText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case time.Time:
		return val.Format("2006-01-02")
	case decimal.Decimal:
		return val.String()
	}
	return ""
}

// cell returns row[idx], or nil when the column is missing or out of range.
func cell(row []any, idx int) any {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}
