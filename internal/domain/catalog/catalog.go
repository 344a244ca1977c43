package catalog

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase. PaymentLink is an
// optional external checkout URL for the single product; when present it is
// listed in the outbound order message.
type Product struct {
	ID          string
	SKU         string
	Title       string
	Price       decimal.Decimal
	Image       string
	PaymentLink string
}

// Resolver provides read access to the live catalog. Implementations may
// serve a changing catalog: two calls within one session are allowed to
// return different results.
type Resolver interface {
	Resolve(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context) ([]Product, error)
}

// Normalize canonicalizes a raw feed entry into a Product. Feeds disagree on
// field names, so the identity falls back from id to sku and the title from
// title to name. Prices are clamped to non-negative; a missing price is zero.
// It returns false when the entry carries no identity at all.
func Normalize(p Product) (Product, bool) {
	p.ID = strings.TrimSpace(p.ID)
	p.SKU = strings.TrimSpace(p.SKU)

	if p.ID == "" {
		p.ID = p.SKU
	}
	if p.ID == "" {
		return Product{}, false
	}
	if p.SKU == "" {
		p.SKU = p.ID
	}

	if p.Title == "" {
		p.Title = p.ID
	}
	if p.Price.IsNegative() {
		p.Price = decimal.Zero
	}
	p.PaymentLink = strings.TrimSpace(p.PaymentLink)

	return p, true
}
