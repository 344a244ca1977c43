package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ixoye/storefront/internal/domain/catalog"
)

const (
	listProductsSQL = `SELECT id, sku, title, price, image, payment_link
		FROM products ORDER BY id`

	getProductByIDSQL = `SELECT id, sku, title, price, image, payment_link
		FROM products WHERE id = $1`

	upsertProductSQL = `INSERT INTO products (id, sku, title, price, image, payment_link, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (id) DO UPDATE SET
			sku = EXCLUDED.sku,
			title = EXCLUDED.title,
			price = EXCLUDED.price,
			image = EXCLUDED.image,
			payment_link = EXCLUDED.payment_link,
			updated_at = now()`
)

var _ catalog.Resolver = (*CatalogRepository)(nil)

// CatalogRepository implements catalog.Resolver backed by PostgreSQL.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a CatalogRepository that uses the given pool.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// List returns all products ordered by id.
func (r *CatalogRepository) List(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// Resolve returns a single product by its canonical id.
func (r *CatalogRepository) Resolve(ctx context.Context, id string) (*catalog.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	return &p, nil
}

// Upsert inserts or refreshes one catalog product.
func (r *CatalogRepository) Upsert(ctx context.Context, p catalog.Product) error {
	_, err := r.pool.Exec(ctx, upsertProductSQL, p.ID, p.SKU, p.Title, p.Price, p.Image, p.PaymentLink)
	if err != nil {
		return fmt.Errorf("upserting product %q: %w", p.ID, err)
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (catalog.Product, error) {
	var (
		p     catalog.Product
		price decimal.Decimal
	)
	err := row.Scan(&p.ID, &p.SKU, &p.Title, &price, &p.Image, &p.PaymentLink)
	p.Price = price
	return p, err
}
