// Package handlers provides HTTP handlers for goal seeking.
package handlers

import (
	"net/http"

	"github.com/damo1005/dealflow-properties-sub003/internal/api"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/goalseek"
	"github.com/rs/zerolog"
)

// Handler serves goal seek requests
type Handler struct {
	engine *goalseek.Engine
	log    zerolog.Logger
}

// NewHandler creates a new goal seek handler
func NewHandler(engine *goalseek.Engine, log zerolog.Logger) *Handler {
	return &Handler{
		engine: engine,
		log:    log.With().Str("handler", "goal_seek").Logger(),
	}
}

// HandleSeek handles POST /api/goal-seek
func (h *Handler) HandleSeek(w http.ResponseWriter, r *http.Request) {
	var req goalseek.Request
	if err := api.DecodeRequest(w, r, &req); err != nil {
		api.WriteError(w, err, h.log)
		return
	}

	result, err := h.engine.Seek(r.Context(), req)
	if err != nil {
		api.WriteError(w, err, h.log)
		return
	}
	api.WriteData(w, http.StatusOK, result, h.log)
}
