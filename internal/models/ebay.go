package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type EbayOrder struct {
	ID            string          `json:"id" gorm:"type:uuid;primaryKey"`
	AccountID     string          `json:"account_id" gorm:"type:uuid;not null;uniqueIndex:idx_ebay_orders_account_order"`
	OrderID       string          `json:"order_id" gorm:"not null;uniqueIndex:idx_ebay_orders_account_order"`
	LegacyOrderID *string         `json:"legacy_order_id"`
	BuyerUsername *string         `json:"buyer_username"`
	ItemID        *string         `json:"item_id"`
	Title         string          `json:"title" gorm:"not null"`
	SKU           *string         `json:"sku"`
	Quantity      int             `json:"quantity" gorm:"default:1"`
	ItemPrice     decimal.Decimal `json:"item_price" gorm:"type:decimal(12,2)"`
	ShippingCost  decimal.Decimal `json:"shipping_cost" gorm:"type:decimal(12,2)"`
	SalesTax      decimal.Decimal `json:"sales_tax" gorm:"type:decimal(12,2)"`
	EbayFees      decimal.Decimal `json:"ebay_fees" gorm:"type:decimal(12,2)"`
	TotalAmount   decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2)"`
	OrderDate     time.Time       `json:"order_date"`
	Status        OrderStatus     `json:"status" gorm:"not null;default:PENDING"`
	RawOrderData  datatypes.JSON  `json:"raw_order_data,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
)

type EbayListing struct {
	ID                string           `json:"id" gorm:"type:uuid;primaryKey"`
	AccountID         string           `json:"account_id" gorm:"type:uuid;not null;uniqueIndex:idx_ebay_listings_account_listing"`
	ListingID         string           `json:"listing_id" gorm:"not null;uniqueIndex:idx_ebay_listings_account_listing"`
	Title             string           `json:"title" gorm:"not null"`
	SKU               *string          `json:"sku"`
	CurrentPrice      decimal.Decimal  `json:"current_price" gorm:"type:decimal(12,2)"`
	OriginalPrice     *decimal.Decimal `json:"original_price" gorm:"type:decimal(12,2)"`
	QuantityAvailable int              `json:"quantity_available"`
	Status            ListingStatus    `json:"status" gorm:"not null;default:ACTIVE"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

type ListingStatus string

const (
	ListingStatusActive ListingStatus = "ACTIVE"
	ListingStatusEnded  ListingStatus = "ENDED"
)

// EbayPayout is immutable once stored.
type EbayPayout struct {
	ID               string          `json:"id" gorm:"type:uuid;primaryKey"`
	AccountID        string          `json:"account_id" gorm:"type:uuid;not null;uniqueIndex:idx_ebay_payouts_account_payout"`
	PayoutID         string          `json:"payout_id" gorm:"not null;uniqueIndex:idx_ebay_payouts_account_payout"`
	Amount           decimal.Decimal `json:"amount" gorm:"type:decimal(12,2)"`
	PayoutDate       time.Time       `json:"payout_date"`
	PayoutStatus     string          `json:"payout_status"`
	BankAccountLast4 *string         `json:"bank_account_last4"`
	CreatedAt        time.Time       `json:"created_at"`
}

func (o *EbayOrder) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

func (l *EbayListing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

func (p *EbayPayout) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
