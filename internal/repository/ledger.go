package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sellsync/internal/models"

	"gorm.io/gorm"
)

// FindOrCreateItem returns the item with the given number, creating it when
// missing. An existing item keeps its description.
func (s *Store) FindOrCreateItem(ctx context.Context, accountID, itemNumber, description string) (*models.Item, error) {
	db := s.db.WithContext(ctx)

	var item models.Item
	err := db.Where("account_id = ? AND item_number = ?", accountID, itemNumber).First(&item).Error
	if err == nil {
		return &item, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up item %s: %w", itemNumber, err)
	}

	item = models.Item{AccountID: accountID, ItemNumber: itemNumber, Description: description}
	if err := db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to create item %s: %w", itemNumber, err)
	}
	return &item, nil
}

// CreateSaleIfAbsent inserts the sale unless one already exists for the same
// item and price. When matchDate is set the sale date is part of the key.
func (s *Store) CreateSaleIfAbsent(ctx context.Context, sale *models.Sale, matchDate bool) (bool, error) {
	db := s.db.WithContext(ctx)

	query := db.Model(&models.Sale{}).
		Where("account_id = ? AND item_id = ? AND sale_price = ?", sale.AccountID, sale.ItemID, sale.SalePrice)
	if matchDate {
		query = query.Where("sale_date = ?", sale.SaleDate)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to look up sale: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	if err := db.Create(sale).Error; err != nil {
		return false, fmt.Errorf("failed to create sale: %w", err)
	}
	return true, nil
}

// CreateInventoryItemIfAbsent dedupes on (item number, description).
func (s *Store) CreateInventoryItemIfAbsent(ctx context.Context, item *models.InventoryItem) (bool, error) {
	db := s.db.WithContext(ctx)

	query := db.Model(&models.InventoryItem{}).
		Where("account_id = ? AND description = ?", item.AccountID, item.Description)
	if item.ItemNumber != nil {
		query = query.Where("item_number = ?", *item.ItemNumber)
	} else {
		query = query.Where("item_number IS NULL")
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to look up inventory item: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	if err := db.Create(item).Error; err != nil {
		return false, fmt.Errorf("failed to create inventory item: %w", err)
	}
	return true, nil
}

// CreateDepositIfAbsent dedupes on (sold date, description, total). The date
// is left out of the key when matchDate is false.
func (s *Store) CreateDepositIfAbsent(ctx context.Context, deposit *models.Deposit, matchDate bool) (bool, error) {
	db := s.db.WithContext(ctx)

	query := db.Model(&models.Deposit{}).
		Where("account_id = ? AND description = ? AND total = ?", deposit.AccountID, deposit.Description, deposit.Total)
	if matchDate {
		query = query.Where("sold_date = ?", deposit.SoldDate)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to look up deposit: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	if err := db.Create(deposit).Error; err != nil {
		return false, fmt.Errorf("failed to create deposit: %w", err)
	}
	return true, nil
}

// SaleQuery filters and orders the sales listing.
type SaleQuery struct {
	Page
	Search    string
	SortBy    string
	SortOrder string
}

var saleSortColumns = map[string]string{
	"sale_date":  "sales.sale_date",
	"sale_price": "sales.sale_price",
	"net_profit": "sales.net_profit",
	"created_at": "sales.created_at",
}

func (q SaleQuery) orderClause() string {
	column, ok := saleSortColumns[q.SortBy]
	if !ok {
		column = saleSortColumns["sale_date"]
	}
	if strings.EqualFold(q.SortOrder, "asc") {
		return column + " ASC"
	}
	return column + " DESC"
}

func (s *Store) ListSales(ctx context.Context, accountID string, q SaleQuery) ([]models.Sale, int64, error) {
	page := q.Page.normalize()

	query := s.db.WithContext(ctx).Model(&models.Sale{}).Where("sales.account_id = ?", accountID)
	if search := strings.TrimSpace(q.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Joins("JOIN items ON items.id = sales.item_id").
			Where("LOWER(items.item_number) LIKE ? OR LOWER(items.description) LIKE ?", like, like)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count sales: %w", err)
	}

	var sales []models.Sale
	err := query.Preload("Item").
		Order(q.orderClause()).
		Offset(page.offset()).
		Limit(page.Limit).
		Find(&sales).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch sales: %w", err)
	}
	return sales, total, nil
}

func (s *Store) ListInventory(ctx context.Context, accountID string) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := s.db.WithContext(ctx).Where("account_id = ?", accountID).Order("date_added DESC").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inventory: %w", err)
	}
	return items, nil
}

func (s *Store) ListDeposits(ctx context.Context, accountID string) ([]models.Deposit, error) {
	var deposits []models.Deposit
	err := s.db.WithContext(ctx).Where("account_id = ?", accountID).Order("sold_date DESC").Find(&deposits).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deposits: %w", err)
	}
	return deposits, nil
}
