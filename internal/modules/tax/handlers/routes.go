package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers tax routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tax", func(r chi.Router) {
		r.Post("/transaction", h.HandleTransactionTax)
		r.Post("/income", h.HandleRentalIncomeTax)
		r.Post("/capital-gains", h.HandleCapitalGainsTax)
		r.Post("/section24", h.HandleSection24)
		r.Get("/rules", h.HandleGetRules)
	})
}
