package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"sellsync/internal/logger"
)

// TokenSource supplies a valid access token for an account.
type TokenSource interface {
	ValidAccessToken(ctx context.Context, accountID string) (string, error)
}

// Client calls the Sell, Finances and Identity APIs on behalf of an account.
type Client struct {
	baseURL       string
	marketplaceID string
	tokens        TokenSource
	httpClient    *http.Client
	logger        *logger.Logger
}

func NewClient(endpoints Endpoints, tokens TokenSource, logger *logger.Logger) *Client {
	return &Client{
		baseURL:       endpoints.APIBaseURL,
		marketplaceID: endpoints.MarketplaceID,
		tokens:        tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// ListOrders fetches a page of orders from the Fulfillment API.
func (c *Client) ListOrders(ctx context.Context, accountID string, opts PageOptions) (*OrdersResponse, error) {
	var resp OrdersResponse
	if err := c.get(ctx, accountID, "/sell/fulfillment/v1/order", opts.query(), &resp); err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	return &resp, nil
}

// ListOffers fetches a page of offers from the Inventory API.
func (c *Client) ListOffers(ctx context.Context, accountID string, opts PageOptions) (*OffersResponse, error) {
	var resp OffersResponse
	if err := c.get(ctx, accountID, "/sell/inventory/v1/offer", opts.query(), &resp); err != nil {
		return nil, fmt.Errorf("failed to get offers: %w", err)
	}
	return &resp, nil
}

func (c *Client) ListPayouts(ctx context.Context, accountID string, opts PageOptions) (*PayoutsResponse, error) {
	var resp PayoutsResponse
	if err := c.get(ctx, accountID, "/sell/finances/v1/payout", opts.query(), &resp); err != nil {
		return nil, fmt.Errorf("failed to get payouts: %w", err)
	}
	return &resp, nil
}

func (c *Client) ListTransactions(ctx context.Context, accountID string, opts PageOptions) (*TransactionsResponse, error) {
	var resp TransactionsResponse
	if err := c.get(ctx, accountID, "/sell/finances/v1/transaction", opts.query(), &resp); err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return &resp, nil
}

// GetProfile returns the seller identity behind the account's token.
func (c *Client) GetProfile(ctx context.Context, accountID string) (*Profile, error) {
	var profile Profile
	if err := c.get(ctx, accountID, "/commerce/identity/v1/user/", nil, &profile); err != nil {
		return nil, fmt.Errorf("failed to get seller profile: %w", err)
	}
	return &profile, nil
}

func (o PageOptions) query() url.Values {
	q := url.Values{}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Offset > 0 {
		q.Set("offset", strconv.Itoa(o.Offset))
	}
	if o.Filter != "" {
		q.Set("filter", o.Filter)
	}
	return q
}

func (c *Client) get(ctx context.Context, accountID, path string, query url.Values, target interface{}) error {
	token, err := c.tokens.ValidAccessToken(ctx, accountID)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-EBAY-C-MARKETPLACE-ID", c.marketplaceID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Debug("Marketplace returned %d for %s", resp.StatusCode, path)
		return &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
