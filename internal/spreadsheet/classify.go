package spreadsheet

import (
	"regexp"
	"strings"
)

type Role string

const (
	RoleSales     Role = "sales"
	RoleInventory Role = "inventory"
	RoleDeposits  Role = "deposits"
)

// SalesVariant selects the column layout of a sales sheet.
type SalesVariant string

const (
	VariantNone     SalesVariant = ""
	VariantEbay     SalesVariant = "ebay"
	VariantSoldByMe SalesVariant = "sold_by_me"
)

// Classification is one role a sheet plays.
type Classification struct {
	Role    Role
	Variant SalesVariant
}

var yearToken = regexp.MustCompile(`202\d`)

type classifyRule struct {
	match  func(name string) bool
	result Classification
}

func containsAny(name string, fragments ...string) bool {
	for _, f := range fragments {
		if strings.Contains(name, f) {
			return true
		}
	}
	return false
}

// Sheet names are matched lower-cased. Rules are evaluated in order and all
// matches are returned.
var classifyRules = []classifyRule{
	{
		match: func(name string) bool {
			return strings.Contains(name, "ebay") && yearToken.MatchString(name) &&
				!containsAny(name, "sold by me", "usb", "deposit")
		},
		result: Classification{Role: RoleSales, Variant: VariantEbay},
	},
	{
		match:  func(name string) bool { return strings.Contains(name, "sold by me") },
		result: Classification{Role: RoleSales, Variant: VariantSoldByMe},
	},
	{
		match:  func(name string) bool { return containsAny(name, "items to sell", "inventory") },
		result: Classification{Role: RoleInventory},
	},
	{
		match:  func(name string) bool { return containsAny(name, "usb", "deposit") },
		result: Classification{Role: RoleDeposits},
	},
}

// Classify returns the roles of a sheet by name. Unmatched sheets get none.
func Classify(sheetName string) []Classification {
	name := strings.ToLower(sheetName)
	var out []Classification
	for _, rule := range classifyRules {
		if rule.match(name) {
			out = append(out, rule.result)
		}
	}
	return out
}
