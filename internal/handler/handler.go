// Package handler exposes the storefront over HTTP. It only translates wire
// shapes to domain calls and back; every business rule lives in the domain
// packages.
package handler

import (
	"github.com/go-chi/chi/v5"

	"github.com/ixoye/storefront/internal/domain/cart"
	"github.com/ixoye/storefront/internal/domain/catalog"
	"github.com/ixoye/storefront/internal/domain/checkout"
	"github.com/ixoye/storefront/internal/domain/quote"
)

// Handler serves the storefront API.
type Handler struct {
	catalog  catalog.Resolver
	carts    *cart.Service
	quotes   *quote.Builder
	checkout *checkout.Service
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	cat catalog.Resolver,
	carts *cart.Service,
	quotes *quote.Builder,
	co *checkout.Service,
) *Handler {
	return &Handler{
		catalog:  cat,
		carts:    carts,
		quotes:   quotes,
		checkout: co,
	}
}

// Routes returns the API router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/products", h.listProducts)

	r.Route("/carts", func(r chi.Router) {
		r.Post("/", h.createCart)
		r.Route("/{cartID}", func(r chi.Router) {
			r.Get("/", h.getCart)
			r.Delete("/", h.clearCart)
			r.Get("/quote", h.getQuote)
			r.Post("/checkout", h.postCheckout)
			r.Post("/items", h.addItem)
			r.Put("/items/{productID}", h.setItemQuantity)
			r.Delete("/items/{productID}", h.removeItem)
		})
	})

	return r
}
