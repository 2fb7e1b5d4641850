package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all universe routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/universe", func(r chi.Router) {
		r.Get("/securities", h.HandleListSecurities)
		r.Post("/securities", h.HandleUpsertSecurity)
		r.Post("/securities/{symbol}/prices", h.HandleAddPrices)
		r.Get("/securities/{symbol}/prices", h.HandleGetPrices)
	})
}
