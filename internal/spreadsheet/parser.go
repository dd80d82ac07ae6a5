package spreadsheet

import (
	"sellsync/internal/logger"
)

// ParseResult collects everything extracted from a workbook. Errors holds
// sheet and row failures in the order they were found.
type ParseResult struct {
	Sales     []SaleRow
	Inventory []InventoryRow
	Deposits  []DepositRow
	Errors    []string
}

type Parser struct {
	dialect Dialect
	logger  *logger.Logger
}

func NewParser(dialect Dialect, logger *logger.Logger) *Parser {
	if dialect == "" {
		dialect = DialectAuto
	}
	return &Parser{dialect: dialect, logger: logger}
}

// Parse decodes the workbook and extracts every classified sheet. Only an
// unreadable workbook is returned as an error.
func (p *Parser) Parse(data []byte) (*ParseResult, error) {
	sheets, err := ReadWorkbook(data)
	if err != nil {
		return nil, err
	}
	return p.ParseSheets(sheets), nil
}

func (p *Parser) ParseSheets(sheets []Sheet) *ParseResult {
	result := &ParseResult{}
	for _, sheet := range sheets {
		p.parseSheet(sheet, result)
	}
	return result
}

func (p *Parser) parseSheet(sheet Sheet, result *ParseResult) {
	if sheet.Err != nil {
		result.addSheetError(sheet.Name, sheet.Err)
		return
	}

	classes := Classify(sheet.Name)
	if len(classes) == 0 {
		p.logger.Debug("Skipping unclassified sheet %q", sheet.Name)
		return
	}

	headerRow := FindHeaderRow(sheet.Rows)
	for _, class := range classes {
		var (
			found   int
			rowErrs []error
			err     error
		)
		switch class.Role {
		case RoleSales:
			var sales []SaleRow
			sales, rowErrs, err = ExtractSales(sheet.Name, sheet.Rows, headerRow, class.Variant, p.dialect)
			result.Sales = append(result.Sales, sales...)
			found = len(sales)
		case RoleInventory:
			var items []InventoryRow
			items, rowErrs, err = ExtractInventory(sheet.Name, sheet.Rows, headerRow)
			result.Inventory = append(result.Inventory, items...)
			found = len(items)
		case RoleDeposits:
			var deposits []DepositRow
			deposits, rowErrs, err = ExtractDeposits(sheet.Name, sheet.Rows, headerRow)
			result.Deposits = append(result.Deposits, deposits...)
			found = len(deposits)
		}

		if err != nil {
			p.logger.Warn("Sheet %q (%s) rejected: %v", sheet.Name, class.Role, err)
			result.addSheetError(sheet.Name, err)
			continue
		}
		for _, rowErr := range rowErrs {
			result.Errors = append(result.Errors, rowErr.Error())
		}
		p.logger.Info("Sheet %q (%s): %d rows extracted, %d row errors", sheet.Name, class.Role, found, len(rowErrs))
	}
}

func (r *ParseResult) addSheetError(sheet string, err error) {
	r.Errors = append(r.Errors, (&SheetError{Sheet: sheet, Err: err}).Error())
}
