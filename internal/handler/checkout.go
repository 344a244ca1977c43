package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ixoye/storefront/internal/domain/checkout"
	"github.com/ixoye/storefront/internal/domain/quote"
)

type checkoutRequest struct {
	Buyer         buyerRequest `json:"buyer"`
	Delivery      string       `json:"delivery"`
	PaymentMethod string       `json:"paymentMethod"`
}

type buyerRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	Notes        string `json:"notes"`
}

type checkoutResponse struct {
	OrderID     string        `json:"orderId"`
	Message     string        `json:"message"`
	WhatsappURL string        `json:"whatsappUrl"`
	Summary     quoteResponse `json:"summary"`
}

// postCheckout submits the cart as an order. On success the response carries
// the rendered WhatsApp message and link; the cart stays as it was.
func (h *Handler) postCheckout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "cartID")

	var req checkoutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	order, err := h.checkout.Checkout(r.Context(), id, checkout.Request{
		Buyer: checkout.Buyer{
			Name:         req.Buyer.Name,
			Phone:        req.Buyer.Phone,
			Address:      req.Buyer.Address,
			Neighborhood: req.Buyer.Neighborhood,
			City:         req.Buyer.City,
			Notes:        req.Buyer.Notes,
		},
		Delivery:      quote.ParseDelivery(req.Delivery),
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, checkoutResponse{
		OrderID:     order.ID,
		Message:     order.Message,
		WhatsappURL: order.Link,
		Summary:     toQuoteResponse(order.Summary),
	})
}
