package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers saved analysis routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/analyses", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)
		r.Get("/{id}", h.HandleGet)
		r.Get("/{id}/report", h.HandleReport)
		r.Delete("/{id}", h.HandleDelete)
	})
}
