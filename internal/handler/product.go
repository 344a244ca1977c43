package handler

import (
	"net/http"

	"github.com/ixoye/storefront/internal/domain/catalog"
)

// productResponse is the wire shape for one catalog product.
type productResponse struct {
	ID          string  `json:"id"`
	SKU         string  `json:"sku"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
	PaymentLink string  `json:"paymentLink,omitempty"`
}

func toProductResponse(p catalog.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Title:       p.Title,
		Price:       p.Price.InexactFloat64(),
		Image:       p.Image,
		PaymentLink: p.PaymentLink,
	}
}

// listProducts serves the catalog. An empty catalog is a valid, empty list:
// the widget renders its empty state from it.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	respondJSON(w, http.StatusOK, out)
}
