// Package whatsapp renders the outbound order message and its wa.me link.
// Every amount in the message comes from the order summary; nothing is
// recomputed here.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ixoye/storefront/internal/domain/checkout"
	"github.com/ixoye/storefront/internal/domain/quote"
)

// Config identifies the store on the receiving end of the message.
type Config struct {
	// StoreName appears in the message header.
	StoreName string
	// Phone is the store's WhatsApp number in international format without
	// the plus sign (e.g. "5492235551421"). When empty, the link opens the
	// WhatsApp contact picker instead of a fixed chat.
	Phone string
}

// Formatter builds WhatsApp order messages.
type Formatter struct {
	cfg Config
}

var _ checkout.Formatter = (*Formatter)(nil)

// NewFormatter creates a Formatter for the given store.
func NewFormatter(cfg Config) *Formatter {
	return &Formatter{cfg: cfg}
}

// Format renders the line-oriented order message and the wa.me link carrying
// it. Layout follows the storefront's fixed order: item lines, subtotal,
// shipping, discount (only when earned), total, the buyer block, and finally
// the per-product payment links when any line carries one.
func (f *Formatter) Format(o *checkout.Order) (message, link string) {
	s := o.Summary

	lines := []string{
		fmt.Sprintf("*Pedido %s*", f.cfg.StoreName),
		"",
	}

	for _, l := range s.Lines {
		lines = append(lines, fmt.Sprintf("• %s x%d — %s",
			l.Product.Title, l.Quantity, quote.FormatAmount(l.LineTotal)))
	}

	lines = append(lines,
		"",
		"Subtotal: "+quote.FormatAmount(s.Subtotal),
		"Envío: "+s.ShippingLabel,
	)
	if !s.Discount.IsZero() {
		lines = append(lines, "Descuento: -"+quote.FormatAmount(s.Discount))
	}
	lines = append(lines,
		fmt.Sprintf("*Total: %s*", quote.FormatAmount(s.Total)),
		"",
		"Nombre: "+o.Buyer.Name,
		"WhatsApp: "+o.Buyer.Phone,
	)

	if addr := joinAddress(o.Buyer); addr != "" {
		lines = append(lines, "Dirección: "+addr)
	}
	lines = append(lines,
		"Entrega: "+deliveryLabel(s.Delivery),
		"Pago: "+s.PaymentMethod,
	)
	if notes := strings.TrimSpace(o.Buyer.Notes); notes != "" {
		lines = append(lines, "Notas: "+notes)
	}

	if payLinks := paymentLinks(s.Lines); len(payLinks) > 0 {
		lines = append(lines, "", "Links de pago por producto (si aplica):")
		lines = append(lines, payLinks...)
	}

	message = strings.Join(lines, "\n")
	link = fmt.Sprintf("https://wa.me/%s?text=%s", f.cfg.Phone, url.QueryEscape(message))
	return message, link
}

// paymentLinks lists the per-product external checkout URLs, one line per
// resolved product that carries one.
func paymentLinks(summaryLines []quote.SummaryLine) []string {
	var out []string
	for _, l := range summaryLines {
		if l.Product.PaymentLink != "" {
			out = append(out, fmt.Sprintf("- %s: %s", l.Product.Title, l.Product.PaymentLink))
		}
	}
	return out
}

func joinAddress(b checkout.Buyer) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{b.Address, b.Neighborhood, b.City} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func deliveryLabel(d quote.Delivery) string {
	if d == quote.DeliveryPickup {
		return "Retira"
	}
	return "Envío"
}
