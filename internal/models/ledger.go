package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Item is found-or-created by item number when a spreadsheet sale references it.
type Item struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	AccountID   string    `json:"account_id" gorm:"type:uuid;not null;uniqueIndex:idx_items_account_number"`
	ItemNumber  string    `json:"item_number" gorm:"not null;uniqueIndex:idx_items_account_number"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Sale struct {
	ID                  string          `json:"id" gorm:"type:uuid;primaryKey"`
	AccountID           string          `json:"account_id" gorm:"type:uuid;not null;index"`
	ItemID              string          `json:"item_id" gorm:"type:uuid;not null;index"`
	Item                *Item           `json:"item,omitempty" gorm:"foreignKey:ItemID"`
	ListedDate          *time.Time      `json:"listed_date"`
	SaleDate            time.Time       `json:"sale_date"`
	ListedPrice         decimal.Decimal `json:"listed_price" gorm:"type:decimal(12,2)"`
	SalePrice           decimal.Decimal `json:"sale_price" gorm:"type:decimal(12,2)"`
	ShippingCost        decimal.Decimal `json:"shipping_cost" gorm:"type:decimal(12,2)"`
	SuppliesCost        decimal.Decimal `json:"supplies_cost" gorm:"type:decimal(12,2)"`
	NetProfit           decimal.Decimal `json:"net_profit" gorm:"type:decimal(12,2)"`
	OfferStartDate      *time.Time      `json:"offer_start_date"`
	OfferExpirationDate *time.Time      `json:"offer_expiration_date"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

type InventoryItem struct {
	ID           string           `json:"id" gorm:"type:uuid;primaryKey"`
	AccountID    string           `json:"account_id" gorm:"type:uuid;not null;index"`
	ItemNumber   *string          `json:"item_number"`
	Description  string           `json:"description" gorm:"not null"`
	MinimumPrice *decimal.Decimal `json:"minimum_price" gorm:"type:decimal(12,2)"`
	Cost         *decimal.Decimal `json:"cost" gorm:"type:decimal(12,2)"`
	DateAdded    time.Time        `json:"date_added"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

type Deposit struct {
	ID          string           `json:"id" gorm:"type:uuid;primaryKey"`
	AccountID   string           `json:"account_id" gorm:"type:uuid;not null;index"`
	SoldDate    time.Time        `json:"sold_date"`
	Description string           `json:"description" gorm:"not null"`
	Total       decimal.Decimal  `json:"total" gorm:"type:decimal(12,2)"`
	NetProfit   *decimal.Decimal `json:"net_profit" gorm:"type:decimal(12,2)"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

func (d *Deposit) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}
