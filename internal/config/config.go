package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" default:"sqlite://sellsync.db"`

	// Redis (optional, enables the shared sync lock)
	RedisURL string `envconfig:"REDIS_URL" default:""`

	// Kafka (optional, enables async sync jobs)
	KafkaBrokers   string `envconfig:"KAFKA_BROKERS" default:""`
	KafkaSyncTopic string `envconfig:"KAFKA_SYNC_TOPIC" default:"sync-requests"`

	// API Configuration
	APIPort string `envconfig:"API_PORT" default:"8080"`
	APIHost string `envconfig:"API_HOST" default:"0.0.0.0"`

	// CORS
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	// JWT, signs the OAuth state parameter
	JWTSecret string `envconfig:"JWT_SECRET" default:"your-jwt-secret-key-here"`

	Ebay        EbayConfig
	Sync        SyncConfig
	Spreadsheet SpreadsheetConfig

	// Environment
	Env      string `envconfig:"ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// EbayConfig holds the marketplace OAuth application and endpoint settings.
type EbayConfig struct {
	ClientID      string   `envconfig:"EBAY_CLIENT_ID" default:""`
	ClientSecret  string   `envconfig:"EBAY_CLIENT_SECRET" default:""`
	RedirectURI   string   `envconfig:"EBAY_REDIRECT_URI" default:"http://localhost:8080/api/v1/ebay/callback"`
	Sandbox       bool     `envconfig:"EBAY_SANDBOX" default:"false"`
	MarketplaceID string   `envconfig:"EBAY_MARKETPLACE_ID" default:"EBAY_US"`
	Scopes        []string `envconfig:"EBAY_SCOPES"`

	// Overrides used by tests and local mocks.
	APIBaseURL string `envconfig:"EBAY_API_BASE_URL" default:""`
	AuthURL    string `envconfig:"EBAY_AUTH_URL" default:""`
	TokenURL   string `envconfig:"EBAY_TOKEN_URL" default:""`
}

// SyncConfig controls marketplace pagination.
type SyncConfig struct {
	PageSize        int           `envconfig:"SYNC_PAGE_SIZE" default:"50"`
	DefaultDaysBack int           `envconfig:"SYNC_DEFAULT_DAYS_BACK" default:"90"`
	LockTTL         time.Duration `envconfig:"SYNC_LOCK_TTL" default:"15m"`
}

// SpreadsheetConfig controls workbook uploads.
type SpreadsheetConfig struct {
	MaxUploadBytes int64  `envconfig:"IMPORT_MAX_UPLOAD_BYTES" default:"10485760"`
	SalesDialect   string `envconfig:"SPREADSHEET_SALES_DIALECT" default:"auto"`
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	switch strings.ToLower(cfg.Spreadsheet.SalesDialect) {
	case "auto", "simple", "positional":
		cfg.Spreadsheet.SalesDialect = strings.ToLower(cfg.Spreadsheet.SalesDialect)
	default:
		return nil, fmt.Errorf("invalid SPREADSHEET_SALES_DIALECT %q", cfg.Spreadsheet.SalesDialect)
	}

	if cfg.Sync.PageSize <= 0 {
		return nil, fmt.Errorf("SYNC_PAGE_SIZE must be positive, got %d", cfg.Sync.PageSize)
	}

	return &cfg, nil
}

// EbayConfigured reports whether OAuth client credentials are present.
func (c *Config) EbayConfigured() bool {
	return c.Ebay.ClientID != "" && c.Ebay.ClientSecret != ""
}
