// Package quote derives an order summary from the current cart and the
// shopper's delivery and payment selections. A summary is a pure projection:
// it is recomputed on every read and never stored, so it cannot drift from
// cart state.
package quote

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/ixoye/storefront/internal/domain/cart"
	"github.com/ixoye/storefront/internal/domain/catalog"
)

// Delivery selects how the order reaches the buyer.
type Delivery string

const (
	// DeliveryShipping ships the order to the buyer's address.
	DeliveryShipping Delivery = "envio"
	// DeliveryPickup has the buyer collect the order in store.
	DeliveryPickup Delivery = "retiro"
)

// ParseDelivery maps the widget's wire value to a Delivery. Anything
// unrecognized falls back to shipping, the storefront default.
func ParseDelivery(s string) Delivery {
	if s == string(DeliveryPickup) {
		return DeliveryPickup
	}
	return DeliveryShipping
}

// Pricing holds the storefront's totals constants. Defaults mirror the shop's
// published terms: free shipping from $5.000, flat $800 fee below, 10% off
// for cash payments.
type Pricing struct {
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
	CashDiscountRate      decimal.Decimal // fraction, e.g. 0.10
	CashMethod            string

	FreeShippingLabel string
	PickupLabel       string
}

// DefaultPricing returns the storefront's standard pricing rules.
func DefaultPricing() Pricing {
	return Pricing{
		FreeShippingThreshold: decimal.NewFromInt(5000),
		ShippingFee:           decimal.NewFromInt(800),
		CashDiscountRate:      decimal.RequireFromString("0.10"),
		CashMethod:            "Efectivo",
		FreeShippingLabel:     "Gratis",
		PickupLabel:           "Retiro",
	}
}

// SummaryLine is one resolved cart line with its extended total.
type SummaryLine struct {
	Product   catalog.Product
	Quantity  int
	LineTotal decimal.Decimal
}

// Summary is the derived order summary. Lines that no longer resolve in the
// catalog are absent: they contribute nothing to the subtotal rather than
// corrupting it with unknown prices.
type Summary struct {
	Lines         []SummaryLine
	Subtotal      decimal.Decimal
	ShippingCost  decimal.Decimal
	ShippingLabel string
	Discount      decimal.Decimal
	Total         decimal.Decimal

	Delivery      Delivery
	PaymentMethod string
}

// Builder computes summaries against a live catalog.
type Builder struct {
	pricing Pricing
	catalog catalog.Resolver
}

// NewBuilder creates a Builder with the given pricing rules and catalog.
func NewBuilder(pricing Pricing, cat catalog.Resolver) *Builder {
	return &Builder{pricing: pricing, catalog: cat}
}

// Build derives the summary for the given cart lines and selections.
// Products are re-resolved from the live catalog on every call, so a price
// change between quote and checkout is always reflected.
func (b *Builder) Build(ctx context.Context, lines []cart.Line, delivery Delivery, payMethod string) (*Summary, error) {
	s := &Summary{
		Delivery:      delivery,
		PaymentMethod: payMethod,
		Subtotal:      decimal.Zero,
	}

	for _, l := range lines {
		p, err := b.catalog.Resolve(ctx, l.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				continue
			}
			return nil, errors.Wrapf(err, "resolve product %s", l.ProductID)
		}

		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		s.Lines = append(s.Lines, SummaryLine{
			Product:   *p,
			Quantity:  l.Quantity,
			LineTotal: lineTotal,
		})
		s.Subtotal = s.Subtotal.Add(lineTotal)
	}

	s.ShippingCost = b.shippingCost(delivery, s.Subtotal)
	s.ShippingLabel = b.shippingLabel(delivery, s.ShippingCost)
	s.Discount = b.discount(payMethod, s.Subtotal)

	// Total is floored at zero. A rate-based discount cannot push it below,
	// but the invariant holds regardless of where the discount comes from.
	total := s.Subtotal.Add(s.ShippingCost).Sub(s.Discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	s.Total = total

	return s, nil
}

// shippingCost is zero for pickup, an empty cart, and subtotals at or above
// the free-shipping threshold; otherwise the flat fee applies.
func (b *Builder) shippingCost(delivery Delivery, subtotal decimal.Decimal) decimal.Decimal {
	if delivery == DeliveryPickup {
		return decimal.Zero
	}
	if subtotal.IsZero() {
		return decimal.Zero
	}
	if subtotal.GreaterThanOrEqual(b.pricing.FreeShippingThreshold) {
		return decimal.Zero
	}
	return b.pricing.ShippingFee
}

func (b *Builder) shippingLabel(delivery Delivery, cost decimal.Decimal) string {
	if delivery == DeliveryPickup {
		return b.pricing.PickupLabel
	}
	if cost.IsZero() {
		return b.pricing.FreeShippingLabel
	}
	return FormatAmount(cost)
}

// discount applies the cash rate, rounded to whole currency units. Any other
// payment method earns nothing.
func (b *Builder) discount(payMethod string, subtotal decimal.Decimal) decimal.Decimal {
	if payMethod != b.pricing.CashMethod {
		return decimal.Zero
	}
	return subtotal.Mul(b.pricing.CashDiscountRate).Round(0)
}
