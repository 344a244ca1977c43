package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ixoye/storefront/internal/domain/cart"
	"github.com/ixoye/storefront/internal/domain/quote"
)

// cartResponse is the wire shape for a cart session.
type cartResponse struct {
	ID         string             `json:"id"`
	Items      []cartItemResponse `json:"items"`
	TotalUnits int                `json:"totalUnits"`
}

type cartItemResponse struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func toCartResponse(id string, c *cart.Cart) cartResponse {
	lines := c.Lines()
	items := make([]cartItemResponse, len(lines))
	for i, l := range lines {
		items[i] = cartItemResponse{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	return cartResponse{ID: id, Items: items, TotalUnits: c.TotalUnits()}
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) createCart(w http.ResponseWriter, r *http.Request) {
	id, err := h.carts.Create(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, cartResponse{ID: id, Items: []cartItemResponse{}})
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "cartID")

	c, err := h.carts.Get(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(id, c))
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "cartID")

	var req addItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "productId is required")
		return
	}

	if err := h.carts.Add(r.Context(), id, req.ProductID, req.Quantity); err != nil {
		respondDomainError(w, r, err)
		return
	}
	h.respondCart(w, r, id)
}

func (h *Handler) setItemQuantity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "cartID")
	productID := chi.URLParam(r, "productID")

	var req setQuantityRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.carts.SetQuantity(r.Context(), id, productID, req.Quantity); err != nil {
		respondDomainError(w, r, err)
		return
	}
	h.respondCart(w, r, id)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "cartID")
	productID := chi.URLParam(r, "productID")

	if err := h.carts.Remove(r.Context(), id, productID); err != nil {
		respondDomainError(w, r, err)
		return
	}
	h.respondCart(w, r, id)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "cartID")

	if err := h.carts.Clear(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	h.respondCart(w, r, id)
}

func (h *Handler) respondCart(w http.ResponseWriter, r *http.Request, id string) {
	c, err := h.carts.Get(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(id, c))
}

// quoteResponse is the wire shape for a derived order summary.
type quoteResponse struct {
	Lines         []quoteLineResponse `json:"lines"`
	Subtotal      float64             `json:"subtotal"`
	ShippingCost  float64             `json:"shippingCost"`
	ShippingLabel string              `json:"shippingLabel"`
	Discount      float64             `json:"discount"`
	Total         float64             `json:"total"`
	Delivery      string              `json:"delivery"`
	PaymentMethod string              `json:"paymentMethod"`
}

type quoteLineResponse struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"lineTotal"`
}

func toQuoteResponse(s *quote.Summary) quoteResponse {
	lines := make([]quoteLineResponse, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = quoteLineResponse{
			ProductID: l.Product.ID,
			Title:     l.Product.Title,
			Quantity:  l.Quantity,
			UnitPrice: l.Product.Price.InexactFloat64(),
			LineTotal: l.LineTotal.InexactFloat64(),
		}
	}
	return quoteResponse{
		Lines:         lines,
		Subtotal:      s.Subtotal.InexactFloat64(),
		ShippingCost:  s.ShippingCost.InexactFloat64(),
		ShippingLabel: s.ShippingLabel,
		Discount:      s.Discount.InexactFloat64(),
		Total:         s.Total.InexactFloat64(),
		Delivery:      string(s.Delivery),
		PaymentMethod: s.PaymentMethod,
	}
}

// getQuote derives the order summary for the cart's current contents. The
// call is read-only and idempotent: quoting twice without a mutation in
// between returns identical output.
func (h *Handler) getQuote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "cartID")

	c, err := h.carts.Get(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	delivery := quote.ParseDelivery(r.URL.Query().Get("delivery"))
	payment := r.URL.Query().Get("payment")

	s, err := h.quotes.Build(r.Context(), c.Lines(), delivery, payment)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toQuoteResponse(s))
}
