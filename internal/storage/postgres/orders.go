package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ixoye/storefront/internal/domain/checkout"
)

const insertOrderSQL = `INSERT INTO orders
	(id, buyer_name, buyer_phone, buyer_address, delivery, payment_method,
	 lines, subtotal, shipping_cost, discount, total, message, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

var _ checkout.Recorder = (*OrderArchive)(nil)

// OrderArchive records submitted orders in PostgreSQL. It is an archive, not
// an order pipeline: rows are written once and never updated.
type OrderArchive struct {
	pool *pgxpool.Pool
}

// NewOrderArchive returns an OrderArchive that uses the given pool.
func NewOrderArchive(pool *pgxpool.Pool) *OrderArchive {
	return &OrderArchive{pool: pool}
}

// archivedLine is the JSONB shape for one summary line.
type archivedLine struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

// Record persists one submitted order.
func (a *OrderArchive) Record(ctx context.Context, o *checkout.Order) error {
	s := o.Summary

	lines := make([]archivedLine, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = archivedLine{
			ProductID: l.Product.ID,
			Title:     l.Product.Title,
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal.String(),
		}
	}
	linesJSON, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshaling order lines: %w", err)
	}

	address := strings.Join(nonEmpty(o.Buyer.Address, o.Buyer.Neighborhood, o.Buyer.City), ", ")

	_, err = a.pool.Exec(ctx, insertOrderSQL,
		o.ID, o.Buyer.Name, o.Buyer.Phone, address,
		string(s.Delivery), s.PaymentMethod,
		linesJSON, s.Subtotal, s.ShippingCost, s.Discount, s.Total,
		o.Message, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("recording order %q: %w", o.ID, err)
	}

	return nil
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
