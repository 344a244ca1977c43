package memory

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/ixoye/storefront/internal/domain/catalog"
)

// snapshot is one immutable catalog generation.
type snapshot struct {
	ordered []catalog.Product
	byID    map[string]*catalog.Product
}

// Catalog is an in-memory catalog.Resolver fed from a product feed. The
// whole catalog is swapped atomically on reload, so a refresh between two
// checkout attempts is observed without locking readers.
type Catalog struct {
	current atomic.Pointer[snapshot]
}

var _ catalog.Resolver = (*Catalog)(nil)

// NewCatalog creates a Catalog holding the given products. products may be
// empty: the degraded empty-catalog state is a valid catalog.
func NewCatalog(products []catalog.Product) *Catalog {
	c := &Catalog{}
	c.Replace(products)
	return c
}

// Replace swaps in a new catalog generation. Duplicate ids keep the first
// occurrence, matching feed order precedence.
func (c *Catalog) Replace(products []catalog.Product) {
	snap := &snapshot{
		ordered: make([]catalog.Product, 0, len(products)),
		byID:    make(map[string]*catalog.Product, len(products)),
	}
	for _, p := range products {
		if _, ok := snap.byID[p.ID]; ok {
			continue
		}
		snap.ordered = append(snap.ordered, p)
		snap.byID[p.ID] = &snap.ordered[len(snap.ordered)-1]
	}
	c.current.Store(snap)
}

// StartRefresh launches a background goroutine that reloads the catalog
// through load at the given interval, swapping in the new generation on
// success. A failed load keeps the current generation serving. It stops when
// ctx is cancelled.
func (c *Catalog) StartRefresh(ctx context.Context, interval time.Duration, load func(context.Context) ([]catalog.Product, error)) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				products, err := load(ctx)
				if err != nil {
					zctx.From(ctx).Warn("catalog refresh failed", zap.Error(err))
					continue
				}
				c.Replace(products)
				zctx.From(ctx).Debug("catalog refreshed", zap.Int("products", len(products)))
			}
		}
	}()
}

// Resolve returns the product with the given canonical id.
func (c *Catalog) Resolve(_ context.Context, id string) (*catalog.Product, error) {
	if p, ok := c.current.Load().byID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, catalog.ErrNotFound
}

// List returns all products in feed order.
func (c *Catalog) List(_ context.Context) ([]catalog.Product, error) {
	snap := c.current.Load()
	out := make([]catalog.Product, len(snap.ordered))
	copy(out, snap.ordered)
	return out, nil
}
