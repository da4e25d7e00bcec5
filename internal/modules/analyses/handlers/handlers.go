// Package handlers provides HTTP handlers for saved deal analyses.
package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/damo1005/dealflow-properties-sub003/internal/api"
	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/analyses"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/deal"
	"github.com/damo1005/dealflow-properties-sub003/internal/report"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CreateRequest analyses a deal and stores the result.
type CreateRequest struct {
	UserID     string           `json:"user_id"`
	PropertyID string           `json:"property_id"`
	Deal       domain.DealInput `json:"deal"`
}

// Handler serves saved analyses
type Handler struct {
	repo *analyses.Repository
	calc *deal.Calculator
	log  zerolog.Logger
}

// NewHandler creates a new analyses handler
func NewHandler(repo *analyses.Repository, calc *deal.Calculator, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		calc: calc,
		log:  log.With().Str("handler", "analyses").Logger(),
	}
}

// HandleCreate handles POST /api/analyses
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := api.DecodeRequest(w, r, &req); err != nil {
		api.WriteError(w, err, h.log)
		return
	}
	if req.UserID == "" || req.PropertyID == "" {
		api.WriteError(w, fmt.Errorf("%w: user_id and property_id are required", domain.ErrInvalidInput), h.log)
		return
	}

	result, err := h.calc.Analyse(req.Deal)
	if err != nil {
		api.WriteError(w, err, h.log)
		return
	}

	rec, err := h.repo.Save(r.Context(), req.UserID, req.PropertyID, req.Deal, result)
	if err != nil {
		api.WriteError(w, err, h.log)
		return
	}

	h.log.Info().
		Str("id", rec.ID).
		Str("user_id", rec.UserID).
		Int("score", rec.Score).
		Msg("Analysis saved")
	api.WriteData(w, http.StatusCreated, rec, h.log)
}

// HandleList handles GET /api/analyses?user_id=|property_id=&limit=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			api.WriteError(w, fmt.Errorf("%w: limit must be a non-negative integer", domain.ErrInvalidInput), h.log)
			return
		}
		limit = n
	}

	var (
		records []analyses.Record
		err     error
	)
	switch {
	case q.Get("user_id") != "":
		records, err = h.repo.ListByUser(r.Context(), q.Get("user_id"), limit)
	case q.Get("property_id") != "":
		records, err = h.repo.ListByProperty(r.Context(), q.Get("property_id"), limit)
	default:
		err = fmt.Errorf("%w: user_id or property_id is required", domain.ErrInvalidInput)
	}
	if err != nil {
		api.WriteError(w, err, h.log)
		return
	}

	api.WriteData(w, http.StatusOK, map[string]interface{}{
		"analyses": records,
		"count":    len(records),
	}, h.log)
}

// HandleGet handles GET /api/analyses/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := h.repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, err, h.log)
		return
	}
	api.WriteData(w, http.StatusOK, rec, h.log)
}

// HandleReport handles GET /api/analyses/{id}/report
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	rec, err := h.repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, err, h.log)
		return
	}

	doc, err := report.DealPDF(rec.Input, rec.Result, rec.CreatedAt)
	if err != nil {
		api.WriteError(w, err, h.log)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="analysis-%s.pdf"`, rec.ID))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		h.log.Error().Err(err).Msg("Failed to write report")
	}
}

// HandleDelete handles DELETE /api/analyses/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.repo.Delete(r.Context(), id); err != nil {
		api.WriteError(w, err, h.log)
		return
	}
	api.WriteData(w, http.StatusOK, map[string]interface{}{
		"id":         id,
		"deleted_at": time.Now().Format(time.RFC3339),
	}, h.log)
}
