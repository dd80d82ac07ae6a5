package syncer

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"sellsync/internal/database"
	"sellsync/internal/logger"
	"sellsync/internal/models"
	"sellsync/internal/repository"
	"sellsync/internal/services/ebay"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMarketplace struct {
	orders       []ebay.Order
	offers       []ebay.Offer
	payouts      []ebay.Payout
	transactions []ebay.Transaction

	ordersErr   error
	offersErr   error
	payoutsErr  error
	filters     []string
	offerCalls  int
	payoutCalls int
}

func window[T any](items []T, opts ebay.PageOptions) []T {
	if opts.Offset >= len(items) {
		return nil
	}
	end := opts.Offset + opts.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[opts.Offset:end]
}

func (f *fakeMarketplace) ListOrders(ctx context.Context, accountID string, opts ebay.PageOptions) (*ebay.OrdersResponse, error) {
	f.filters = append(f.filters, opts.Filter)
	if f.ordersErr != nil {
		return nil, f.ordersErr
	}
	return &ebay.OrdersResponse{Orders: window(f.orders, opts), Total: len(f.orders)}, nil
}

func (f *fakeMarketplace) ListOffers(ctx context.Context, accountID string, opts ebay.PageOptions) (*ebay.OffersResponse, error) {
	f.offerCalls++
	if f.offersErr != nil {
		return nil, f.offersErr
	}
	return &ebay.OffersResponse{Offers: window(f.offers, opts), Total: len(f.offers)}, nil
}

func (f *fakeMarketplace) ListPayouts(ctx context.Context, accountID string, opts ebay.PageOptions) (*ebay.PayoutsResponse, error) {
	f.payoutCalls++
	if f.payoutsErr != nil {
		return nil, f.payoutsErr
	}
	return &ebay.PayoutsResponse{Payouts: window(f.payouts, opts), Total: len(f.payouts)}, nil
}

func (f *fakeMarketplace) ListTransactions(ctx context.Context, accountID string, opts ebay.PageOptions) (*ebay.TransactionsResponse, error) {
	return &ebay.TransactionsResponse{Transactions: window(f.transactions, opts)}, nil
}

func makeOrders(n int) []ebay.Order {
	orders := make([]ebay.Order, n)
	for i := range orders {
		orders[i] = ebay.Order{
			OrderID:                fmt.Sprintf("O-%03d", i),
			CreationDate:           "2024-05-01T10:00:00.000Z",
			OrderFulfillmentStatus: "FULFILLED",
			PricingSummary:         ebay.PricingSummary{Total: &ebay.Amount{Value: "12.00"}},
			LineItems:              []ebay.LineItem{{Title: "Item", Quantity: 1, LineItemCost: &ebay.Amount{Value: "10.00"}}},
		}
	}
	return orders
}

func makeOffers(n int) []ebay.Offer {
	offers := make([]ebay.Offer, n)
	for i := range offers {
		offers[i] = ebay.Offer{
			OfferID:        fmt.Sprintf("OF-%d", i),
			SKU:            fmt.Sprintf("SKU-%d", i),
			Status:         "ACTIVE",
			PricingSummary: ebay.OfferPricing{Price: &ebay.Amount{Value: "9.99"}},
		}
	}
	return offers
}

func makePayouts(n int) []ebay.Payout {
	payouts := make([]ebay.Payout, n)
	for i := range payouts {
		payouts[i] = ebay.Payout{
			PayoutID:     fmt.Sprintf("P-%d", i),
			PayoutStatus: "SUCCEEDED",
			PayoutDate:   "2024-05-02T00:00:00.000Z",
			Amount:       &ebay.Amount{Value: "100.00"},
		}
	}
	return payouts
}

func newTestStore(t *testing.T) (*repository.Store, string) {
	t.Helper()
	db, err := database.New("sqlite://file:" + uuid.New().String() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := repository.New(db.DB)
	account, err := store.EnsureAccount(context.Background(), uuid.New().String())
	require.NoError(t, err)
	return store, account.ID
}

func newTestEngine(t *testing.T, market Marketplace) (*Engine, *repository.Store, string) {
	t.Helper()
	store, accountID := newTestStore(t)
	engine := NewEngine(market, store, NewMemoryLocker(), Config{PageSize: 50, DefaultDaysBack: 90}, logger.Nop())
	engine.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return engine, store, accountID
}

func TestSyncAll_IsIdempotent(t *testing.T) {
	market := &fakeMarketplace{orders: makeOrders(120), offers: makeOffers(3), payouts: makePayouts(2)}
	engine, store, accountID := newTestEngine(t, market)
	ctx := context.Background()

	first, err := engine.SyncAll(ctx, accountID)
	require.NoError(t, err)
	assert.Empty(t, first.Errors)
	assert.Equal(t, Outcome{Imported: 120}, first.Orders)
	assert.Equal(t, Outcome{Imported: 3}, first.Listings)
	assert.Equal(t, Outcome{Imported: 2}, first.Payouts)

	second, err := engine.SyncAll(ctx, accountID)
	require.NoError(t, err)
	assert.Empty(t, second.Errors)
	assert.Equal(t, Outcome{Updated: 120}, second.Orders)
	assert.Equal(t, Outcome{Updated: 3}, second.Listings)
	assert.Equal(t, Outcome{}, second.Payouts)

	counts, err := store.Counts(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, int64(120), counts.Orders)
	assert.Equal(t, int64(3), counts.Listings)
	assert.Equal(t, int64(2), counts.Payouts)

	account, err := store.GetAccount(ctx, accountID)
	require.NoError(t, err)
	assert.NotNil(t, account.LastSync)
}

func TestSyncAll_PartialFailureIsIsolated(t *testing.T) {
	market := &fakeMarketplace{
		orders:    makeOrders(2),
		payouts:   makePayouts(1),
		offersErr: fmt.Errorf("failed to get offers: %w", &ebay.UpstreamError{StatusCode: 500, Body: "boom"}),
	}
	engine, _, accountID := newTestEngine(t, market)

	result, err := engine.SyncAll(context.Background(), accountID)

	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.True(t, strings.HasPrefix(result.Errors[0], "Listings sync failed: "))
	assert.Contains(t, result.Errors[0], "500")
	assert.Equal(t, 2, result.Orders.Imported)
	assert.Equal(t, 1, result.Payouts.Imported)
}

func TestSyncAll_SkipsAfterDisconnect(t *testing.T) {
	market := &fakeMarketplace{ordersErr: fmt.Errorf("failed to get orders: %w", ebay.ErrNotConnected)}
	engine, _, accountID := newTestEngine(t, market)

	result, err := engine.SyncAll(context.Background(), accountID)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"Orders sync failed: failed to get orders: marketplace account not connected",
		"Listings sync skipped: marketplace account not connected",
		"Payouts sync skipped: marketplace account not connected",
	}, result.Errors)
	assert.Zero(t, market.offerCalls)
	assert.Zero(t, market.payoutCalls)
}

func TestSyncResource_PagesUntilShortPage(t *testing.T) {
	market := &fakeMarketplace{orders: makeOrders(50)}
	engine, _, accountID := newTestEngine(t, market)

	outcome, err := engine.SyncResource(context.Background(), accountID, ResourceOrders, Options{DaysBack: 30})

	require.NoError(t, err)
	assert.Equal(t, 50, outcome.Imported)
	require.Len(t, market.filters, 2)
	assert.Equal(t, "creationdate:[2024-05-02T00:00:00.000Z..]", market.filters[0])
}

func TestSyncResource_LockedAccount(t *testing.T) {
	locker := NewMemoryLocker()
	store, accountID := newTestStore(t)
	engine := NewEngine(&fakeMarketplace{}, store, locker, Config{}, logger.Nop())

	release, err := locker.Acquire(context.Background(), accountID, time.Minute)
	require.NoError(t, err)

	_, err = engine.SyncResource(context.Background(), accountID, ResourceListings, Options{})
	assert.ErrorIs(t, err, ErrSyncInProgress)

	_, err = engine.SyncAll(context.Background(), accountID)
	assert.ErrorIs(t, err, ErrSyncInProgress)

	release()
	_, err = engine.SyncResource(context.Background(), accountID, ResourceListings, Options{})
	assert.NoError(t, err)
}

func TestSyncFees_ReconcilesAndSurvivesResync(t *testing.T) {
	ref := []ebay.Reference{{ReferenceID: "O-000", ReferenceType: "ORDER_ID"}}
	market := &fakeMarketplace{
		orders: makeOrders(2),
		transactions: []ebay.Transaction{
			{TransactionType: "SALE", OrderID: "O-000", Amount: &ebay.Amount{Value: "12.00"}, References: ref},
			{TransactionType: "NON_SALE_CHARGE", FeeType: "FINAL_VALUE_FEE", Amount: &ebay.Amount{Value: "-1.80"}, References: ref},
		},
	}
	engine, store, accountID := newTestEngine(t, market)
	ctx := context.Background()

	_, err := engine.SyncResource(ctx, accountID, ResourceOrders, Options{})
	require.NoError(t, err)

	updated, err := engine.SyncFees(ctx, accountID, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	_, err = engine.SyncResource(ctx, accountID, ResourceOrders, Options{})
	require.NoError(t, err)

	var order models.EbayOrder
	require.NoError(t, store.DB().Where("account_id = ? AND order_id = ?", accountID, "O-000").First(&order).Error)
	assert.True(t, decimal.RequireFromString("1.80").Equal(order.EbayFees))

	remaining, err := store.OrdersWithoutFees(ctx, accountID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "O-001", remaining[0].OrderID)
}

func TestParseResource(t *testing.T) {
	r, err := ParseResource("payouts")
	require.NoError(t, err)
	assert.Equal(t, ResourcePayouts, r)

	_, err = ParseResource("refunds")
	assert.Error(t, err)
}
