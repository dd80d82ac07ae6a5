package importer

import (
	"context"
	"fmt"
	"time"

	"sellsync/internal/logger"
	"sellsync/internal/models"
	"sellsync/internal/spreadsheet"
)

// Store is the persistence the importer writes through.
type Store interface {
	FindOrCreateItem(ctx context.Context, accountID, itemNumber, description string) (*models.Item, error)
	CreateSaleIfAbsent(ctx context.Context, sale *models.Sale, matchDate bool) (bool, error)
	CreateInventoryItemIfAbsent(ctx context.Context, item *models.InventoryItem) (bool, error)
	CreateDepositIfAbsent(ctx context.Context, deposit *models.Deposit, matchDate bool) (bool, error)
}

// Outcome reports what an import created. Errors carries sheet, row and
// persistence failures; none of them abort the import.
type Outcome struct {
	SalesCreated      int      `json:"salesCreated"`
	InventoryCreated  int      `json:"inventoryCreated"`
	DepositsCreated   int      `json:"depositsCreated"`
	DuplicatesSkipped int      `json:"duplicatesSkipped"`
	Errors            []string `json:"errors"`
}

type Service struct {
	parser *spreadsheet.Parser
	store  Store
	logger *logger.Logger
	now    func() time.Time
}

func NewService(parser *spreadsheet.Parser, store Store, logger *logger.Logger) *Service {
	return &Service{
		parser: parser,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Import parses the workbook and stores every extracted row that is not
// already present. The error is only set when the workbook cannot be read.
func (s *Service) Import(ctx context.Context, accountID string, data []byte) (*Outcome, error) {
	result, err := s.parser.Parse(data)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{Errors: append([]string{}, result.Errors...)}
	today := s.now().UTC().Truncate(24 * time.Hour)

	for _, row := range result.Sales {
		created, err := s.importSale(ctx, accountID, row, today)
		outcome.record(created, err, &outcome.SalesCreated, row.Sheet, row.Row)
	}
	for _, row := range result.Inventory {
		created, err := s.importInventory(ctx, accountID, row, today)
		outcome.record(created, err, &outcome.InventoryCreated, row.Sheet, row.Row)
	}
	for _, row := range result.Deposits {
		created, err := s.importDeposit(ctx, accountID, row, today)
		outcome.record(created, err, &outcome.DepositsCreated, row.Sheet, row.Row)
	}

	s.logger.Info("Import for account %s: %d sales, %d inventory, %d deposits created, %d duplicates, %d errors",
		accountID, outcome.SalesCreated, outcome.InventoryCreated, outcome.DepositsCreated,
		outcome.DuplicatesSkipped, len(outcome.Errors))

	return outcome, nil
}

func (o *Outcome) record(created bool, err error, counter *int, sheet string, row int) {
	switch {
	case err != nil:
		o.Errors = append(o.Errors, (&spreadsheet.RowError{Sheet: sheet, Row: row, Err: err}).Error())
	case created:
		*counter++
	default:
		o.DuplicatesSkipped++
	}
}

func (s *Service) importSale(ctx context.Context, accountID string, row spreadsheet.SaleRow, today time.Time) (bool, error) {
	item, err := s.store.FindOrCreateItem(ctx, accountID, row.ItemNumber, row.Description)
	if err != nil {
		return false, err
	}

	// Without a parsed sale date the date cannot be part of the dedupe key.
	saleDate, matchDate := today, false
	if row.SaleDate != nil {
		saleDate, matchDate = *row.SaleDate, true
	} else if row.ListedDate != nil {
		saleDate = *row.ListedDate
	}

	sale := &models.Sale{
		AccountID:           accountID,
		ItemID:              item.ID,
		ListedDate:          row.ListedDate,
		SaleDate:            saleDate,
		ListedPrice:         row.ListedPrice,
		SalePrice:           row.SalePrice,
		ShippingCost:        row.ShippingCost,
		SuppliesCost:        row.SuppliesCost,
		NetProfit:           row.NetProfit,
		OfferStartDate:      row.OfferStartDate,
		OfferExpirationDate: row.OfferExpirationDate,
	}
	return s.store.CreateSaleIfAbsent(ctx, sale, matchDate)
}

func (s *Service) importInventory(ctx context.Context, accountID string, row spreadsheet.InventoryRow, today time.Time) (bool, error) {
	dateAdded := today
	if row.DateAdded != nil {
		dateAdded = *row.DateAdded
	}
	return s.store.CreateInventoryItemIfAbsent(ctx, &models.InventoryItem{
		AccountID:    accountID,
		ItemNumber:   row.ItemNumber,
		Description:  row.Description,
		MinimumPrice: row.MinimumPrice,
		Cost:         row.Cost,
		DateAdded:    dateAdded,
	})
}

func (s *Service) importDeposit(ctx context.Context, accountID string, row spreadsheet.DepositRow, today time.Time) (bool, error) {
	soldDate, matchDate := today, false
	if row.SoldDate != nil {
		soldDate, matchDate = *row.SoldDate, true
	}
	created, err := s.store.CreateDepositIfAbsent(ctx, &models.Deposit{
		AccountID:   accountID,
		SoldDate:    soldDate,
		Description: row.Description,
		Total:       row.Total,
		NetProfit:   row.NetProfit,
	}, matchDate)
	if err != nil {
		return false, fmt.Errorf("deposit %q: %w", row.Description, err)
	}
	return created, nil
}
