package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/ixoye/storefront/internal/domain/quote"
)

// Config holds the complete application configuration, loadable from
// environment variables (TIENDA_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string        `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL string        `usage:"PostgreSQL connection URL; when empty the catalog is served from the feed file (TIENDA_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	FeedSource  string        `default:"products.json" usage:"Product feed: file path (.json or .json.gz) or http(s) URL" flag:"feed-source"`
	FeedRefresh time.Duration `default:"0" usage:"How often the feed-backed catalog is reloaded (0 disables)" flag:"feed-refresh"`

	Store     StoreConfig
	Pricing   PricingConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Graceful  GracefulConfig
}

// StoreConfig identifies the shop receiving the WhatsApp orders.
type StoreConfig struct {
	Name     string `default:"Ixoye" usage:"Store name shown in the order message header"`
	Whatsapp string `default:"" usage:"Store WhatsApp number, international format without + (empty opens the contact picker)"`
}

// PricingConfig holds the totals constants. Amounts are decimal strings.
type PricingConfig struct {
	FreeShippingThreshold decimal.Decimal `default:"5000" usage:"Subtotal from which shipping is free" flag:"free-shipping-threshold"`
	ShippingFee           decimal.Decimal `default:"800" usage:"Flat shipping fee below the threshold" flag:"shipping-fee"`
	CashDiscountRate      decimal.Decimal `default:"0.10" usage:"Discount fraction for the cash payment method" flag:"cash-discount-rate"`
	CashMethod            string          `default:"Efectivo" usage:"Payment method value that earns the cash discount" flag:"cash-method"`
	FreeShippingLabel     string          `default:"Gratis" usage:"Label shown when shipping is free" flag:"free-shipping-label"`
	PickupLabel           string          `default:"Retiro" usage:"Label shown for in-store pickup" flag:"pickup-label"`
}

// SessionConfig controls cart session lifetime.
type SessionConfig struct {
	TTL           time.Duration `default:"24h" usage:"Cart session idle expiry"`
	SweepInterval time.Duration `default:"10m" usage:"How often expired sessions are evicted" flag:"sweep-interval"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// Quote returns the pricing rules in domain form.
func (c PricingConfig) Quote() quote.Pricing {
	return quote.Pricing{
		FreeShippingThreshold: c.FreeShippingThreshold,
		ShippingFee:           c.ShippingFee,
		CashDiscountRate:      c.CashDiscountRate,
		CashMethod:            c.CashMethod,
		FreeShippingLabel:     c.FreeShippingLabel,
		PickupLabel:           c.PickupLabel,
	}
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "TIENDA",
		Files:     []string{"config.yaml", "/etc/tienda/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) that use standard names like DATABASE_URL and PORT
// to the application's TIENDA_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
