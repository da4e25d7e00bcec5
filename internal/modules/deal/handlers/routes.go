package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers deal analysis routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/deals", func(r chi.Router) {
		r.Post("/analyse", h.HandleAnalyse)
		r.Post("/report", h.HandleReport)
	})
}
