package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers goal seek routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/goal-seek", h.HandleSeek)
}
