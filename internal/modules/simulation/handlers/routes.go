package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers Monte Carlo simulation routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/simulations", func(r chi.Router) {
		r.Post("/", h.HandleRun)
		r.Get("/stream", h.HandleStream)
	})
}
