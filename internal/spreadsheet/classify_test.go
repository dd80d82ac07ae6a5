package spreadsheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	sales := Classification{Role: RoleSales, Variant: VariantEbay}
	soldByMe := Classification{Role: RoleSales, Variant: VariantSoldByMe}
	inventory := Classification{Role: RoleInventory}
	deposits := Classification{Role: RoleDeposits}

	tests := []struct {
		sheet string
		want  []Classification
	}{
		{"eBay 2024", []Classification{sales}},
		{"EBAY SALES 2023", []Classification{sales}},
		{"eBay", nil},
		{"eBay 2024 Sold by Me", []Classification{soldByMe}},
		{"Sold By Me", []Classification{soldByMe}},
		{"Items to Sell", []Classification{inventory}},
		{"Inventory", []Classification{inventory}},
		{"USB Deposits", []Classification{deposits}},
		{"eBay 2024 Deposits", []Classification{deposits}},
		{"Inventory deposits", []Classification{inventory, deposits}},
		{"Notes", nil},
	}

	for _, tt := range tests {
		t.Run(tt.sheet, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.sheet))
		})
	}
}
