package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all allocation routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/allocation", func(r chi.Router) {
		r.Post("/run", h.HandleRun)
		r.Get("/runs", h.HandleListRuns)
		r.Get("/runs/latest", h.HandleGetLatestRun)
		r.Get("/runs/{id}", h.HandleGetRun)
		r.Get("/runs/{id}/dendrogram", h.HandleGetDendrogram)
	})
}
