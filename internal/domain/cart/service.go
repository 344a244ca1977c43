package cart

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/ixoye/storefront/internal/domain/catalog"
)

// ErrCartNotFound is returned when the referenced cart session does not exist
// or has expired.
var ErrCartNotFound = errors.New("cart not found")

// Store holds carts keyed by session id. Update runs fn with exclusive access
// to the cart; the mutated cart is visible to subsequent calls once Update
// returns.
type Store interface {
	Create(ctx context.Context) (string, error)
	Get(ctx context.Context, id string) (*Cart, error)
	Update(ctx context.Context, id string, fn func(*Cart)) error
	Delete(ctx context.Context, id string) error
}

// Service exposes the cart mutation operations, guarding them with catalog
// resolution where required.
type Service struct {
	carts   Store
	catalog catalog.Resolver
}

// NewService creates a cart Service backed by the given store and catalog.
func NewService(carts Store, cat catalog.Resolver) *Service {
	return &Service{carts: carts, catalog: cat}
}

// Create opens a new cart session and returns its id.
func (s *Service) Create(ctx context.Context) (string, error) {
	return s.carts.Create(ctx)
}

// Get returns the current cart for the given session.
func (s *Service) Get(ctx context.Context, cartID string) (*Cart, error) {
	return s.carts.Get(ctx, cartID)
}

// Add puts qty units of the given product into the cart. Products that do
// not resolve in the catalog are silently ignored: the storefront can only
// offer what the catalog contains, so an unknown id means the catalog moved
// underneath the client, not a caller bug. Quantities below 1 add one unit.
func (s *Service) Add(ctx context.Context, cartID, productID string, qty int) error {
	if _, err := s.catalog.Resolve(ctx, productID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			zctx.From(ctx).Debug("ignoring add of unknown product",
				zap.String("product_id", productID),
			)
			return nil
		}
		return errors.Wrap(err, "resolve product")
	}

	return s.carts.Update(ctx, cartID, func(c *Cart) {
		c.Add(productID, qty)
	})
}

// SetQuantity replaces the quantity of an existing line; zero or negative
// removes it. The product is not re-resolved here: a line whose product has
// vanished from the catalog stays adjustable and is simply excluded from
// totals until the catalog reload brings it back.
func (s *Service) SetQuantity(ctx context.Context, cartID, productID string, qty int) error {
	return s.carts.Update(ctx, cartID, func(c *Cart) {
		c.SetQuantity(productID, qty)
	})
}

// Remove deletes the line for the given product.
func (s *Service) Remove(ctx context.Context, cartID, productID string) error {
	return s.carts.Update(ctx, cartID, func(c *Cart) {
		c.Remove(productID)
	})
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context, cartID string) error {
	return s.carts.Update(ctx, cartID, func(c *Cart) {
		c.Clear()
	})
}
