// Package checkout turns a cart session plus buyer details into a submitted
// order: the summary is computed once, the outbound message is rendered from
// it, and the result is archived. Totals are never recomputed downstream.
package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ixoye/storefront/internal/domain/cart"
	"github.com/ixoye/storefront/internal/domain/quote"
)

// ErrEmptyCart is returned when checkout is attempted with nothing to order.
var ErrEmptyCart = errors.New("cart is empty")

// MissingFieldError indicates a required buyer field was left blank.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// Buyer holds the free-text details the shopper fills in at checkout.
// Only Name and Phone are required.
type Buyer struct {
	Name         string
	Phone        string
	Address      string
	Neighborhood string
	City         string
	Notes        string
}

// Request is the checkout input for one cart session.
type Request struct {
	Buyer         Buyer
	Delivery      quote.Delivery
	PaymentMethod string
}

// Order is a submitted order: the summary it was quoted with, the buyer, and
// the rendered outbound message.
type Order struct {
	ID        string
	Buyer     Buyer
	Summary   *quote.Summary
	Message   string
	Link      string
	CreatedAt time.Time
}

// Formatter renders the outbound order message and its delivery link from a
// finished order. The summary inside the order is the single source of truth
// for every amount the formatter emits.
type Formatter interface {
	Format(o *Order) (message, link string)
}

// Recorder archives submitted orders. Archiving is best effort: a recorder
// failure never blocks the shopper.
type Recorder interface {
	Record(ctx context.Context, o *Order) error
}

// Service performs checkout validation and assembly.
type Service struct {
	carts     cart.Store
	quotes    *quote.Builder
	formatter Formatter
	archive   Recorder
	now       func() time.Time
}

// NewService creates a checkout Service. archive may be nil when no order
// archive is configured.
func NewService(carts cart.Store, quotes *quote.Builder, formatter Formatter, archive Recorder) *Service {
	return &Service{
		carts:     carts,
		quotes:    quotes,
		formatter: formatter,
		archive:   archive,
		now:       time.Now,
	}
}

// Checkout validates the request and produces the submitted order. It is
// refused with ErrEmptyCart when the cart has no lines (or none of its lines
// still resolves in the catalog), and with MissingFieldError when name or
// phone is blank. The cart itself is left untouched so the shopper can retry
// or keep browsing.
func (s *Service) Checkout(ctx context.Context, cartID string, req Request) (*Order, error) {
	req.Buyer.Name = strings.TrimSpace(req.Buyer.Name)
	req.Buyer.Phone = strings.TrimSpace(req.Buyer.Phone)
	if req.Buyer.Name == "" {
		return nil, &MissingFieldError{Field: "name"}
	}
	if req.Buyer.Phone == "" {
		return nil, &MissingFieldError{Field: "phone"}
	}

	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, errors.Wrap(err, "get cart")
	}
	if c.Len() == 0 {
		return nil, ErrEmptyCart
	}

	summary, err := s.quotes.Build(ctx, c.Lines(), req.Delivery, req.PaymentMethod)
	if err != nil {
		return nil, errors.Wrap(err, "build summary")
	}
	// Every line may have dropped out of the catalog since being added.
	// A message with no item lines is never sent.
	if len(summary.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	o := &Order{
		ID:        uuid.New().String(),
		Buyer:     req.Buyer,
		Summary:   summary,
		CreatedAt: s.now(),
	}
	o.Message, o.Link = s.formatter.Format(o)

	if s.archive != nil {
		if err := s.archive.Record(ctx, o); err != nil {
			zctx.From(ctx).Warn("order archive failed",
				zap.String("order_id", o.ID),
				zap.Error(err),
			)
		}
	}

	return o, nil
}
