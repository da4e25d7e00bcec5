// Package handlers provides HTTP handlers for the standalone tax calculators.
package handlers

import (
	"net/http"

	"github.com/damo1005/dealflow-properties-sub003/internal/api"
	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/tax"
	"github.com/rs/zerolog"
)

// Handler serves transaction, income and capital gains tax calculations
type Handler struct {
	calc *tax.Calculator
	log  zerolog.Logger
}

// NewHandler creates a new tax handler
func NewHandler(calc *tax.Calculator, log zerolog.Logger) *Handler {
	return &Handler{
		calc: calc,
		log:  log.With().Str("handler", "tax").Logger(),
	}
}

// HandleTransactionTax handles POST /api/tax/transaction
func (h *Handler) HandleTransactionTax(w http.ResponseWriter, r *http.Request) {
	var in domain.TransactionTaxInput
	if err := api.DecodeRequest(w, r, &in); err != nil {
		api.WriteError(w, err, h.log)
		return
	}

	result, err := h.calc.TransactionTax(in)
	if err != nil {
		api.WriteError(w, err, h.log)
		return
	}
	api.WriteData(w, http.StatusOK, result, h.log)
}

// HandleRentalIncomeTax handles POST /api/tax/income
func (h *Handler) HandleRentalIncomeTax(w http.ResponseWriter, r *http.Request) {
	var in domain.IncomeTaxInput
	if err := api.DecodeRequest(w, r, &in); err != nil {
		api.WriteError(w, err, h.log)
		return
	}

	result, err := h.calc.RentalIncomeTax(in)
	if err != nil {
		api.WriteError(w, err, h.log)
		return
	}
	api.WriteData(w, http.StatusOK, result, h.log)
}

// HandleCapitalGainsTax handles POST /api/tax/capital-gains
func (h *Handler) HandleCapitalGainsTax(w http.ResponseWriter, r *http.Request) {
	var in domain.CGTInput
	if err := api.DecodeRequest(w, r, &in); err != nil {
		api.WriteError(w, err, h.log)
		return
	}

	result, err := h.calc.CapitalGainsTax(in)
	if err != nil {
		api.WriteError(w, err, h.log)
		return
	}
	api.WriteData(w, http.StatusOK, result, h.log)
}

// HandleSection24 handles POST /api/tax/section24
func (h *Handler) HandleSection24(w http.ResponseWriter, r *http.Request) {
	var in domain.IncomeTaxInput
	if err := api.DecodeRequest(w, r, &in); err != nil {
		api.WriteError(w, err, h.log)
		return
	}

	result, err := h.calc.Section24Impact(in)
	if err != nil {
		api.WriteError(w, err, h.log)
		return
	}
	api.WriteData(w, http.StatusOK, result, h.log)
}

// HandleGetRules handles GET /api/tax/rules
func (h *Handler) HandleGetRules(w http.ResponseWriter, r *http.Request) {
	api.WriteData(w, http.StatusOK, h.calc.Rules(), h.log)
}
