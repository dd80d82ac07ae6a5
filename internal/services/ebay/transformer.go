package ebay

import (
	"strings"
	"time"

	"sellsync/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Transformer struct {
	now func() time.Time
}

func NewTransformer() *Transformer {
	return &Transformer{now: time.Now}
}

// TransformOrder converts a Fulfillment API order to the canonical order.
// Only the first line item is summarized. Fees are reconciled separately.
func (t *Transformer) TransformOrder(accountID string, order *Order) *models.EbayOrder {
	out := &models.EbayOrder{
		AccountID:     accountID,
		OrderID:       order.OrderID,
		LegacyOrderID: optional(order.LegacyOrderID),
		Title:         "Unknown Item",
		Quantity:      1,
		ShippingCost:  parseAmount(order.PricingSummary.DeliveryCost),
		SalesTax:      parseAmount(order.PricingSummary.Tax),
		EbayFees:      decimal.Zero,
		TotalAmount:   parseAmount(order.PricingSummary.Total),
		OrderDate:     t.parseTime(order.CreationDate),
		Status:        MapOrderStatus(order.OrderFulfillmentStatus, order.OrderPaymentStatus),
		RawOrderData:  datatypes.JSON(order.Raw),
	}
	if order.Buyer != nil {
		out.BuyerUsername = optional(order.Buyer.Username)
	}

	if len(order.LineItems) > 0 {
		item := order.LineItems[0]
		out.ItemID = optional(item.LegacyItemID)
		out.SKU = optional(item.SKU)
		out.ItemPrice = parseAmount(item.LineItemCost)
		if item.Title != "" {
			out.Title = item.Title
		}
		if item.Quantity > 0 {
			out.Quantity = item.Quantity
		}
	}

	return out
}

// MapOrderStatus collapses fulfillment and payment status into one value.
// Fulfillment wins over payment.
func MapOrderStatus(fulfillmentStatus, paymentStatus string) models.OrderStatus {
	switch fulfillmentStatus {
	case "FULFILLED":
		return models.OrderStatusDelivered
	case "IN_PROGRESS":
		return models.OrderStatusShipped
	}
	if paymentStatus == "PAID" {
		return models.OrderStatusPaid
	}
	return models.OrderStatusPending
}

// TransformOffer converts an Inventory API offer to the canonical listing.
func (t *Transformer) TransformOffer(accountID string, offer *Offer) *models.EbayListing {
	listingID := offer.OfferID
	if offer.Listing != nil && offer.Listing.ListingID != "" {
		listingID = offer.Listing.ListingID
	}

	title := offer.ListingDescription
	if title == "" {
		title = "SKU: " + offer.SKU
	}

	status := models.ListingStatusEnded
	if offer.Status == "ACTIVE" || offer.Status == "PUBLISHED" {
		status = models.ListingStatusActive
	}

	out := &models.EbayListing{
		AccountID:         accountID,
		ListingID:         listingID,
		Title:             title,
		SKU:               optional(offer.SKU),
		CurrentPrice:      parseAmount(offer.PricingSummary.Price),
		QuantityAvailable: offer.AvailableQuantity,
		Status:            status,
	}
	if offer.PricingSummary.OriginalRetailPrice != nil {
		original := parseAmount(offer.PricingSummary.OriginalRetailPrice)
		out.OriginalPrice = &original
	}
	return out
}

func (t *Transformer) TransformPayout(accountID string, payout *Payout) *models.EbayPayout {
	out := &models.EbayPayout{
		AccountID:    accountID,
		PayoutID:     payout.PayoutID,
		Amount:       parseAmount(payout.Amount),
		PayoutDate:   t.parseTime(payout.PayoutDate),
		PayoutStatus: payout.PayoutStatus,
	}
	if payout.PayoutInstrument != nil {
		out.BankAccountLast4 = optional(payout.PayoutInstrument.AccountLastFourDigits)
	}
	return out
}

// OrderFees sums the absolute amounts of the fee transactions referencing orderID.
func OrderFees(orderID string, transactions []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range transactions {
		if tx.TransactionType != "NON_SALE_CHARGE" && tx.FeeType == "" {
			continue
		}
		if !references(tx, orderID) {
			continue
		}
		total = total.Add(parseAmount(tx.Amount).Abs())
	}
	return total
}

func references(tx Transaction, orderID string) bool {
	for _, ref := range tx.References {
		if ref.ReferenceID == orderID {
			return true
		}
	}
	return false
}

// parseAmount treats a missing or malformed amount as zero.
func parseAmount(a *Amount) decimal.Decimal {
	if a == nil {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(strings.TrimSpace(a.Value))
	if err != nil {
		return decimal.Zero
	}
	return v
}

func (t *Transformer) parseTime(s string) time.Time {
	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return parsed
	}
	return t.now()
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
