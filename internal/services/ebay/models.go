package ebay

import "encoding/json"

// Amount is a monetary value as returned by the Sell APIs.
type Amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// Order is a Fulfillment API order.
type Order struct {
	OrderID                string         `json:"orderId"`
	LegacyOrderID          string         `json:"legacyOrderId"`
	CreationDate           string         `json:"creationDate"`
	Buyer                  *Buyer         `json:"buyer,omitempty"`
	OrderFulfillmentStatus string         `json:"orderFulfillmentStatus"`
	OrderPaymentStatus     string         `json:"orderPaymentStatus"`
	PricingSummary         PricingSummary `json:"pricingSummary"`
	LineItems              []LineItem     `json:"lineItems"`

	// Raw is the order exactly as received.
	Raw json.RawMessage `json:"-"`
}

type Buyer struct {
	Username string `json:"username"`
}

type PricingSummary struct {
	Total        *Amount `json:"total,omitempty"`
	DeliveryCost *Amount `json:"deliveryCost,omitempty"`
	Tax          *Amount `json:"tax,omitempty"`
}

type LineItem struct {
	LineItemID                string  `json:"lineItemId"`
	LegacyItemID              string  `json:"legacyItemId"`
	Title                     string  `json:"title"`
	SKU                       string  `json:"sku,omitempty"`
	Quantity                  int     `json:"quantity"`
	LineItemCost              *Amount `json:"lineItemCost,omitempty"`
	DeliveryCost              *Amount `json:"deliveryCost,omitempty"`
	LineItemFulfillmentStatus string  `json:"lineItemFulfillmentStatus"`
}

// UnmarshalJSON keeps the raw payload next to the decoded fields.
func (o *Order) UnmarshalJSON(data []byte) error {
	type plain Order
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*o = Order(decoded)
	o.Raw = append(json.RawMessage(nil), data...)
	return nil
}

type OrdersResponse struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
	Offset int     `json:"offset"`
	Limit  int     `json:"limit"`
	Next   string  `json:"next,omitempty"`
}

// Offer is an Inventory API offer, the seller's view of a listing.
type Offer struct {
	OfferID            string            `json:"offerId"`
	SKU                string            `json:"sku"`
	MarketplaceID      string            `json:"marketplaceId"`
	Format             string            `json:"format"`
	ListingDescription string            `json:"listingDescription,omitempty"`
	AvailableQuantity  int               `json:"availableQuantity"`
	PricingSummary     OfferPricing      `json:"pricingSummary"`
	Listing            *OfferListingInfo `json:"listing,omitempty"`
	Status             string            `json:"status"`
}

type OfferPricing struct {
	Price               *Amount `json:"price,omitempty"`
	OriginalRetailPrice *Amount `json:"originalRetailPrice,omitempty"`
}

type OfferListingInfo struct {
	ListingID string `json:"listingId"`
}

type OffersResponse struct {
	Offers []Offer `json:"offers"`
	Total  int     `json:"total"`
	Size   int     `json:"size"`
	Offset int     `json:"offset"`
	Limit  int     `json:"limit"`
}

type Payout struct {
	PayoutID                string            `json:"payoutId"`
	PayoutStatus            string            `json:"payoutStatus"`
	PayoutStatusDescription string            `json:"payoutStatusDescription,omitempty"`
	Amount                  *Amount           `json:"amount,omitempty"`
	PayoutDate              string            `json:"payoutDate"`
	PayoutInstrument        *PayoutInstrument `json:"payoutInstrument,omitempty"`
}

type PayoutInstrument struct {
	InstrumentType        string `json:"instrumentType"`
	Nickname              string `json:"nickname,omitempty"`
	AccountLastFourDigits string `json:"accountLastFourDigits,omitempty"`
}

type PayoutsResponse struct {
	Payouts []Payout `json:"payouts"`
	Total   int      `json:"total"`
	Offset  int      `json:"offset"`
	Limit   int      `json:"limit"`
}

// Transaction is a Finances API money movement, used to reconcile fees.
type Transaction struct {
	TransactionID     string      `json:"transactionId"`
	TransactionType   string      `json:"transactionType"`
	TransactionStatus string      `json:"transactionStatus"`
	Amount            *Amount     `json:"amount,omitempty"`
	TransactionDate   string      `json:"transactionDate"`
	OrderID           string      `json:"orderId,omitempty"`
	References        []Reference `json:"references,omitempty"`
	FeeType           string      `json:"feeType,omitempty"`
}

type Reference struct {
	ReferenceID   string `json:"referenceId"`
	ReferenceType string `json:"referenceType"`
}

type TransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
	Total        int           `json:"total"`
	Offset       int           `json:"offset"`
	Limit        int           `json:"limit"`
}

// Profile is the Identity API view of the authenticated seller.
type Profile struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// PageOptions are the paging and filter query parameters shared by list calls.
type PageOptions struct {
	Limit  int
	Offset int
	Filter string
}
