package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sellsync/internal/logger"
	"sellsync/internal/models"
	"sellsync/internal/services/ebay"

	"github.com/shopspring/decimal"
)

// Resource is a category of marketplace data.
type Resource string

const (
	ResourceOrders   Resource = "orders"
	ResourceListings Resource = "listings"
	ResourcePayouts  Resource = "payouts"
)

// Resources lists the categories in the order SyncAll runs them.
var Resources = []Resource{ResourceOrders, ResourceListings, ResourcePayouts}

func ParseResource(s string) (Resource, error) {
	for _, r := range Resources {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown sync type %q", s)
}

func (r Resource) label() string {
	switch r {
	case ResourceOrders:
		return "Orders"
	case ResourceListings:
		return "Listings"
	case ResourcePayouts:
		return "Payouts"
	}
	return string(r)
}

// Marketplace is the subset of the API client the engine pages through.
type Marketplace interface {
	ListOrders(ctx context.Context, accountID string, opts ebay.PageOptions) (*ebay.OrdersResponse, error)
	ListOffers(ctx context.Context, accountID string, opts ebay.PageOptions) (*ebay.OffersResponse, error)
	ListPayouts(ctx context.Context, accountID string, opts ebay.PageOptions) (*ebay.PayoutsResponse, error)
	ListTransactions(ctx context.Context, accountID string, opts ebay.PageOptions) (*ebay.TransactionsResponse, error)
}

// Store persists canonical marketplace records.
type Store interface {
	UpsertOrder(ctx context.Context, order *models.EbayOrder) (bool, error)
	UpsertListing(ctx context.Context, listing *models.EbayListing) (bool, error)
	CreatePayoutIfAbsent(ctx context.Context, payout *models.EbayPayout) (bool, error)
	OrdersWithoutFees(ctx context.Context, accountID string) ([]models.EbayOrder, error)
	UpdateOrderFees(ctx context.Context, id string, fees decimal.Decimal) error
	TouchLastSync(ctx context.Context, accountID string, at time.Time) error
}

// Options tunes a single sync run.
type Options struct {
	// DaysBack bounds orders, payouts and fee transactions. Zero means the default.
	DaysBack int
}

// Outcome counts what one resource sync did.
type Outcome struct {
	Imported int      `json:"imported"`
	Updated  int      `json:"updated"`
	Errors   []string `json:"errors,omitempty"`
}

// Result aggregates a full sync. Failures are reported in Errors.
type Result struct {
	Orders   Outcome  `json:"orders"`
	Listings Outcome  `json:"listings"`
	Payouts  Outcome  `json:"payouts"`
	Errors   []string `json:"errors"`
}

type Config struct {
	PageSize        int
	DefaultDaysBack int
	LockTTL         time.Duration
}

type Engine struct {
	marketplace Marketplace
	store       Store
	transformer *ebay.Transformer
	locker      Locker
	config      Config
	logger      *logger.Logger
	now         func() time.Time
}

func NewEngine(marketplace Marketplace, store Store, locker Locker, cfg Config, logger *logger.Logger) *Engine {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	if cfg.DefaultDaysBack <= 0 {
		cfg.DefaultDaysBack = 90
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 15 * time.Minute
	}
	if locker == nil {
		locker = NewMemoryLocker()
	}
	return &Engine{
		marketplace: marketplace,
		store:       store,
		transformer: ebay.NewTransformer(),
		locker:      locker,
		config:      cfg,
		logger:      logger,
		now:         time.Now,
	}
}

// SyncAll runs orders, listings and payouts in turn. A failing category does
// not stop the others, except that once the account is known to be
// disconnected the remaining categories are skipped. The returned error is
// only set when the account lock could not be taken.
func (e *Engine) SyncAll(ctx context.Context, accountID string) (Result, error) {
	release, err := e.locker.Acquire(ctx, accountID, e.config.LockTTL)
	if err != nil {
		return Result{}, err
	}
	defer release()

	result := Result{Errors: []string{}}
	disconnected := false

	for _, resource := range Resources {
		if disconnected {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s sync skipped: %s", resource.label(), ebay.ErrNotConnected))
			continue
		}

		outcome, err := e.run(ctx, accountID, resource, Options{})
		switch resource {
		case ResourceOrders:
			result.Orders = outcome
		case ResourceListings:
			result.Listings = outcome
		case ResourcePayouts:
			result.Payouts = outcome
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s sync failed: %v", resource.label(), err))
			if errors.Is(err, ebay.ErrNotConnected) {
				disconnected = true
			}
		}
	}

	if err := e.store.TouchLastSync(ctx, accountID, e.now()); err != nil {
		e.logger.Warn("Failed to record last sync for account %s: %v", accountID, err)
	}

	e.logger.Info("Sync finished for account %s: orders %d/%d, listings %d/%d, payouts %d, %d errors",
		accountID,
		result.Orders.Imported, result.Orders.Updated,
		result.Listings.Imported, result.Listings.Updated,
		result.Payouts.Imported, len(result.Errors))

	return result, nil
}

// SyncResource syncs a single category under the account lock.
func (e *Engine) SyncResource(ctx context.Context, accountID string, resource Resource, opts Options) (Outcome, error) {
	release, err := e.locker.Acquire(ctx, accountID, e.config.LockTTL)
	if err != nil {
		return Outcome{}, err
	}
	defer release()

	outcome, err := e.run(ctx, accountID, resource, opts)
	if err != nil {
		return outcome, err
	}

	if err := e.store.TouchLastSync(ctx, accountID, e.now()); err != nil {
		e.logger.Warn("Failed to record last sync for account %s: %v", accountID, err)
	}
	return outcome, nil
}

func (e *Engine) run(ctx context.Context, accountID string, resource Resource, opts Options) (Outcome, error) {
	var (
		outcome Outcome
		err     error
	)
	switch resource {
	case ResourceOrders:
		outcome, err = e.syncOrders(ctx, accountID, opts)
	case ResourceListings:
		outcome, err = e.syncListings(ctx, accountID)
	case ResourcePayouts:
		outcome, err = e.syncPayouts(ctx, accountID, opts)
	default:
		return Outcome{}, fmt.Errorf("unknown sync type %q", resource)
	}

	if err != nil {
		e.logger.Error("%s sync failed for account %s after %d imported, %d updated: %v",
			resource.label(), accountID, outcome.Imported, outcome.Updated, err)
		return outcome, err
	}
	e.logger.Info("%s sync for account %s: %d imported, %d updated",
		resource.label(), accountID, outcome.Imported, outcome.Updated)
	return outcome, nil
}

// window renders the marketplace date filter lower bound.
func (e *Engine) window(opts Options) string {
	days := opts.DaysBack
	if days <= 0 {
		days = e.config.DefaultDaysBack
	}
	return e.now().AddDate(0, 0, -days).UTC().Format("2006-01-02T15:04:05.000Z")
}

// Pagination stops at the first short page. The marketplace's total and
// next fields are not consulted.
func (e *Engine) syncOrders(ctx context.Context, accountID string, opts Options) (Outcome, error) {
	var outcome Outcome
	filter := fmt.Sprintf("creationdate:[%s..]", e.window(opts))
	limit := e.config.PageSize

	for offset := 0; ; offset += limit {
		page, err := e.marketplace.ListOrders(ctx, accountID, ebay.PageOptions{Limit: limit, Offset: offset, Filter: filter})
		if err != nil {
			return outcome, err
		}

		for i := range page.Orders {
			created, err := e.store.UpsertOrder(ctx, e.transformer.TransformOrder(accountID, &page.Orders[i]))
			if err != nil {
				return outcome, err
			}
			count(&outcome, created)
		}

		if len(page.Orders) < limit {
			return outcome, nil
		}
	}
}

func (e *Engine) syncListings(ctx context.Context, accountID string) (Outcome, error) {
	var outcome Outcome
	limit := e.config.PageSize

	for offset := 0; ; offset += limit {
		page, err := e.marketplace.ListOffers(ctx, accountID, ebay.PageOptions{Limit: limit, Offset: offset})
		if err != nil {
			return outcome, err
		}

		for i := range page.Offers {
			created, err := e.store.UpsertListing(ctx, e.transformer.TransformOffer(accountID, &page.Offers[i]))
			if err != nil {
				return outcome, err
			}
			count(&outcome, created)
		}

		if len(page.Offers) < limit {
			return outcome, nil
		}
	}
}

// Payouts are immutable, so an existing one is left alone and not counted.
func (e *Engine) syncPayouts(ctx context.Context, accountID string, opts Options) (Outcome, error) {
	var outcome Outcome
	filter := fmt.Sprintf("payoutDate:[%s..]", e.window(opts))
	limit := e.config.PageSize

	for offset := 0; ; offset += limit {
		page, err := e.marketplace.ListPayouts(ctx, accountID, ebay.PageOptions{Limit: limit, Offset: offset, Filter: filter})
		if err != nil {
			return outcome, err
		}

		for i := range page.Payouts {
			created, err := e.store.CreatePayoutIfAbsent(ctx, e.transformer.TransformPayout(accountID, &page.Payouts[i]))
			if err != nil {
				return outcome, err
			}
			if created {
				outcome.Imported++
			}
		}

		if len(page.Payouts) < limit {
			return outcome, nil
		}
	}
}

// SyncFees fills in fees for orders that have none, using the finances
// transaction history. It returns how many orders were updated.
func (e *Engine) SyncFees(ctx context.Context, accountID string, opts Options) (int, error) {
	release, err := e.locker.Acquire(ctx, accountID, e.config.LockTTL)
	if err != nil {
		return 0, err
	}
	defer release()

	orders, err := e.store.OrdersWithoutFees(ctx, accountID)
	if err != nil {
		return 0, err
	}
	if len(orders) == 0 {
		return 0, nil
	}

	var transactions []ebay.Transaction
	filter := fmt.Sprintf("transactionDate:[%s..]", e.window(opts))
	limit := e.config.PageSize
	for offset := 0; ; offset += limit {
		page, err := e.marketplace.ListTransactions(ctx, accountID, ebay.PageOptions{Limit: limit, Offset: offset, Filter: filter})
		if err != nil {
			return 0, fmt.Errorf("fee sync failed: %w", err)
		}
		transactions = append(transactions, page.Transactions...)
		if len(page.Transactions) < limit {
			break
		}
	}

	updated := 0
	for _, order := range orders {
		fees := ebay.OrderFees(order.OrderID, transactions)
		if fees.IsZero() {
			continue
		}
		if err := e.store.UpdateOrderFees(ctx, order.ID, fees); err != nil {
			return updated, err
		}
		updated++
	}

	e.logger.Info("Fee sync for account %s: %d of %d orders updated", accountID, updated, len(orders))
	return updated, nil
}

func count(outcome *Outcome, created bool) {
	if created {
		outcome.Imported++
	} else {
		outcome.Updated++
	}
}
