package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sellsync/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UpsertOrder inserts the order or overwrites the stored one with the same
// (account, order id). Reconciled fees survive an update that carries none.
func (s *Store) UpsertOrder(ctx context.Context, order *models.EbayOrder) (bool, error) {
	db := s.db.WithContext(ctx)

	var existing models.EbayOrder
	err := db.Where("account_id = ? AND order_id = ?", order.AccountID, order.OrderID).First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := db.Create(order).Error; err != nil {
			return false, fmt.Errorf("failed to create order %s: %w", order.OrderID, err)
		}
		return true, nil
	} else if err != nil {
		return false, fmt.Errorf("failed to look up order %s: %w", order.OrderID, err)
	}

	order.ID = existing.ID
	order.CreatedAt = existing.CreatedAt
	if order.EbayFees.IsZero() {
		order.EbayFees = existing.EbayFees
	}
	if err := db.Save(order).Error; err != nil {
		return false, fmt.Errorf("failed to update order %s: %w", order.OrderID, err)
	}
	return false, nil
}

// UpsertListing inserts or overwrites the listing keyed by (account, listing id).
func (s *Store) UpsertListing(ctx context.Context, listing *models.EbayListing) (bool, error) {
	db := s.db.WithContext(ctx)

	var existing models.EbayListing
	err := db.Where("account_id = ? AND listing_id = ?", listing.AccountID, listing.ListingID).First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := db.Create(listing).Error; err != nil {
			return false, fmt.Errorf("failed to create listing %s: %w", listing.ListingID, err)
		}
		return true, nil
	} else if err != nil {
		return false, fmt.Errorf("failed to look up listing %s: %w", listing.ListingID, err)
	}

	listing.ID = existing.ID
	listing.CreatedAt = existing.CreatedAt
	if err := db.Save(listing).Error; err != nil {
		return false, fmt.Errorf("failed to update listing %s: %w", listing.ListingID, err)
	}
	return false, nil
}

// CreatePayoutIfAbsent inserts the payout unless one with the same id exists.
func (s *Store) CreatePayoutIfAbsent(ctx context.Context, payout *models.EbayPayout) (bool, error) {
	db := s.db.WithContext(ctx)

	var count int64
	err := db.Model(&models.EbayPayout{}).
		Where("account_id = ? AND payout_id = ?", payout.AccountID, payout.PayoutID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to look up payout %s: %w", payout.PayoutID, err)
	}
	if count > 0 {
		return false, nil
	}

	if err := db.Create(payout).Error; err != nil {
		return false, fmt.Errorf("failed to create payout %s: %w", payout.PayoutID, err)
	}
	return true, nil
}

// OrdersWithoutFees lists the orders whose fee has not been reconciled yet.
func (s *Store) OrdersWithoutFees(ctx context.Context, accountID string) ([]models.EbayOrder, error) {
	var orders []models.EbayOrder
	err := s.db.WithContext(ctx).
		Select("id", "order_id").
		Where("account_id = ? AND ebay_fees = ?", accountID, decimal.Zero).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders without fees: %w", err)
	}
	return orders, nil
}

func (s *Store) UpdateOrderFees(ctx context.Context, id string, fees decimal.Decimal) error {
	err := s.db.WithContext(ctx).Model(&models.EbayOrder{}).Where("id = ?", id).Update("ebay_fees", fees).Error
	if err != nil {
		return fmt.Errorf("failed to update fees: %w", err)
	}
	return nil
}

// TouchLastSync records when the account was last synchronized.
func (s *Store) TouchLastSync(ctx context.Context, accountID string, at time.Time) error {
	err := s.db.WithContext(ctx).Model(&models.Account{}).Where("id = ?", accountID).Update("last_sync", at).Error
	if err != nil {
		return fmt.Errorf("failed to record last sync: %w", err)
	}
	return nil
}

// SyncCounts summarizes what is stored for an account.
type SyncCounts struct {
	Orders   int64      `json:"sales_count"`
	Listings int64      `json:"listings_count"`
	Payouts  int64      `json:"payouts_count"`
	LastSync *time.Time `json:"last_sync"`
}

func (s *Store) Counts(ctx context.Context, accountID string) (*SyncCounts, error) {
	db := s.db.WithContext(ctx)
	counts := &SyncCounts{}

	if err := db.Model(&models.EbayOrder{}).Where("account_id = ?", accountID).Count(&counts.Orders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := db.Model(&models.EbayListing{}).Where("account_id = ?", accountID).Count(&counts.Listings).Error; err != nil {
		return nil, fmt.Errorf("failed to count listings: %w", err)
	}
	if err := db.Model(&models.EbayPayout{}).Where("account_id = ?", accountID).Count(&counts.Payouts).Error; err != nil {
		return nil, fmt.Errorf("failed to count payouts: %w", err)
	}

	var account models.Account
	err := db.Select("last_sync").Where("id = ?", accountID).First(&account).Error
	if err == nil {
		counts.LastSync = account.LastSync
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch last sync: %w", err)
	}

	return counts, nil
}

// Page is a 1-based pagination request.
type Page struct {
	Page  int
	Limit int
}

func (p Page) normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 || p.Limit > 200 {
		p.Limit = 20
	}
	return p
}

func (p Page) offset() int {
	return (p.Page - 1) * p.Limit
}

func (s *Store) ListOrders(ctx context.Context, accountID string, page Page) ([]models.EbayOrder, int64, error) {
	page = page.normalize()
	query := s.db.WithContext(ctx).Model(&models.EbayOrder{}).Where("account_id = ?", accountID).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.EbayOrder
	err := query.Omit("raw_order_data").Order("order_date DESC").Offset(page.offset()).Limit(page.Limit).Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return orders, total, nil
}

func (s *Store) ListListings(ctx context.Context, accountID string) ([]models.EbayListing, error) {
	var listings []models.EbayListing
	err := s.db.WithContext(ctx).Where("account_id = ?", accountID).Order("created_at DESC").Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}
	return listings, nil
}
