package spreadsheet

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToNumber(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"currency with thousands", "$1,234.50", "1234.5"},
		{"pound sign and spaces", " £ 12.00 ", "12"},
		{"euro with nbsp", "€ 99", "99"},
		{"negative", "-3.25", "-3.25"},
		{"not a number", "N/A", "0"},
		{"empty", "", "0"},
		{"float cell", 45.5, "45.5"},
		{"nil", nil, "0"},
		{"bool", true, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToNumber(tt.in)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestToDate(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name string
		in   any
		want *time.Time
	}{
		{"serial", 45000.0, ptr(day(2023, 3, 15))},
		{"serial as text", "45000", ptr(day(2023, 3, 15))},
		{"iso text", "2024-03-01", ptr(day(2024, 3, 1))},
		{"us text", "3/1/2024", ptr(day(2024, 3, 1))},
		{"native time", time.Date(2024, 3, 1, 5, 0, 0, 0, time.FixedZone("x", 3600)), ptr(time.Date(2024, 3, 1, 4, 0, 0, 0, time.UTC))},
		{"zero serial", 0.0, nil},
		{"garbage", "N/A", nil},
		{"empty", "  ", nil},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDate(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestToText(t *testing.T) {
	assert.Equal(t, "1001", ToText(1001.0))
	assert.Equal(t, "12.5", ToText(12.5))
	assert.Equal(t, "00123", ToText(" 00123 "))
	assert.Equal(t, "", ToText(nil))
}

func ptr[T any](v T) *T {
	return &v
}
