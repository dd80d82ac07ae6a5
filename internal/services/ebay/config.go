package ebay

import (
	"strings"

	"sellsync/internal/config"
)

const (
	productionAuthURL  = "https://auth.ebay.com/oauth2/authorize"
	productionTokenURL = "https://api.ebay.com/identity/v1/oauth2/token"
	productionAPIURL   = "https://api.ebay.com"

	sandboxAuthURL  = "https://auth.sandbox.ebay.com/oauth2/authorize"
	sandboxTokenURL = "https://api.sandbox.ebay.com/identity/v1/oauth2/token"
	sandboxAPIURL   = "https://api.sandbox.ebay.com"

	defaultMarketplaceID = "EBAY_US"
)

// DefaultScopes grants read access to orders, inventory and finances.
var DefaultScopes = []string{
	"https://api.ebay.com/oauth/api_scope",
	"https://api.ebay.com/oauth/api_scope/sell.fulfillment.readonly",
	"https://api.ebay.com/oauth/api_scope/sell.fulfillment",
	"https://api.ebay.com/oauth/api_scope/sell.inventory.readonly",
	"https://api.ebay.com/oauth/api_scope/sell.inventory",
	"https://api.ebay.com/oauth/api_scope/sell.finances",
	"https://api.ebay.com/oauth/api_scope/sell.analytics.readonly",
}

// Endpoints resolves the URLs for the configured environment.
type Endpoints struct {
	AuthURL       string
	TokenURL      string
	APIBaseURL    string
	MarketplaceID string
	Scopes        []string
}

func EndpointsFor(cfg config.EbayConfig) Endpoints {
	ep := Endpoints{
		AuthURL:       productionAuthURL,
		TokenURL:      productionTokenURL,
		APIBaseURL:    productionAPIURL,
		MarketplaceID: cfg.MarketplaceID,
		Scopes:        cfg.Scopes,
	}
	if cfg.Sandbox {
		ep.AuthURL = sandboxAuthURL
		ep.TokenURL = sandboxTokenURL
		ep.APIBaseURL = sandboxAPIURL
	}

	if cfg.AuthURL != "" {
		ep.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		ep.TokenURL = cfg.TokenURL
	}
	if cfg.APIBaseURL != "" {
		ep.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	}
	if ep.MarketplaceID == "" {
		ep.MarketplaceID = defaultMarketplaceID
	}
	if len(ep.Scopes) == 0 {
		ep.Scopes = DefaultScopes
	}
	return ep
}

func (e Endpoints) scope() string {
	return strings.Join(e.Scopes, " ")
}
