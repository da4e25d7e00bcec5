// Package handlers provides HTTP handlers for deal analysis.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/damo1005/dealflow-properties-sub003/internal/api"
	"github.com/damo1005/dealflow-properties-sub003/internal/cache"
	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/deal"
	"github.com/damo1005/dealflow-properties-sub003/internal/report"
	"github.com/rs/zerolog"
)

// Handler serves deal analyses and rendered reports
type Handler struct {
	calc     *deal.Calculator
	cache    cache.Cache
	cacheTTL time.Duration
	log      zerolog.Logger
}

// NewHandler creates a new deal handler. A nil cache disables result caching.
func NewHandler(calc *deal.Calculator, c cache.Cache, cacheTTL time.Duration, log zerolog.Logger) *Handler {
	return &Handler{
		calc:     calc,
		cache:    c,
		cacheTTL: cacheTTL,
		log:      log.With().Str("handler", "deal").Logger(),
	}
}

// analyse runs an analysis for a raw request body, consulting the cache first. Analyses are
// pure functions of the input and the tax year, so the body hash is a safe key.
func (h *Handler) analyse(ctx context.Context, body []byte) (domain.DealInput, *domain.DealAnalysisResult, bool, error) {
	var in domain.DealInput
	if err := api.Decode(body, &in); err != nil {
		return in, nil, false, err
	}

	key := cache.Key("deal:analyse:"+h.calc.Tax().TaxYear(), body)
	if cached, ok, err := cache.GetValue[domain.DealAnalysisResult](ctx, h.cache, key); err != nil {
		h.log.Warn().Err(err).Msg("Cache read failed")
	} else if ok {
		return in, &cached, true, nil
	}

	result, err := h.calc.Analyse(in)
	if err != nil {
		return in, nil, false, err
	}

	if err := cache.SetValue(ctx, h.cache, key, *result, h.cacheTTL); err != nil {
		h.log.Warn().Err(err).Msg("Cache write failed")
	}
	return in, result, false, nil
}

// HandleAnalyse handles POST /api/deals/analyse
func (h *Handler) HandleAnalyse(w http.ResponseWriter, r *http.Request) {
	body, err := api.ReadBody(w, r)
	if err != nil {
		api.WriteError(w, err, h.log)
		return
	}

	_, result, hit, err := h.analyse(r.Context(), body)
	if err != nil {
		api.WriteError(w, err, h.log)
		return
	}

	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	api.WriteData(w, http.StatusOK, result, h.log)
}

// HandleReport handles POST /api/deals/report?format=pdf|markdown
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "pdf"
	}
	if format != "pdf" && format != "markdown" {
		api.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "format must be pdf or markdown"}, h.log)
		return
	}

	body, err := api.ReadBody(w, r)
	if err != nil {
		api.WriteError(w, err, h.log)
		return
	}

	in, result, _, err := h.analyse(r.Context(), body)
	if err != nil {
		api.WriteError(w, err, h.log)
		return
	}

	if format == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(report.DealMarkdown(in, result))); err != nil {
			h.log.Error().Err(err).Msg("Failed to write report")
		}
		return
	}

	doc, err := report.DealPDF(in, result, time.Now())
	if err != nil {
		api.WriteError(w, err, h.log)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="deal-analysis.pdf"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		h.log.Error().Err(err).Msg("Failed to write report")
	}
}
