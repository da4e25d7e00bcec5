// Package handlers provides HTTP and WebSocket handlers for Monte Carlo simulations.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/damo1005/dealflow-properties-sub003/internal/api"
	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/simulation"
	"github.com/damo1005/dealflow-properties-sub003/internal/progress"
	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const frameWriteTimeout = 5 * time.Second

// Request is the body of a simulation run
type Request struct {
	Deal   domain.DealInput        `json:"deal"`
	Config domain.SimulationConfig `json:"config"`
	// OmitSamples drops the per-trial arrays from the response, leaving the statistics.
	OmitSamples bool `json:"omit_samples,omitempty"`
}

// Frame is one message sent to a streaming client.
type Frame struct {
	Type     string                   `json:"type"`
	Progress *progress.Update         `json:"progress,omitempty"`
	Data     *domain.SimulationOutput `json:"data,omitempty"`
	Error    string                   `json:"error,omitempty"`
}

// Frame types
const (
	FrameProgress  = "progress"
	FrameResult    = "result"
	FrameError     = "error"
	FrameCancelled = "cancelled"
)

// Handler serves simulation runs
type Handler struct {
	engine *simulation.Engine
	log    zerolog.Logger
}

// NewHandler creates a new simulation handler
func NewHandler(engine *simulation.Engine, log zerolog.Logger) *Handler {
	return &Handler{
		engine: engine,
		log:    log.With().Str("handler", "simulation").Logger(),
	}
}

// HandleRun handles POST /api/simulations
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := api.DecodeRequest(w, r, &req); err != nil {
		api.WriteError(w, err, h.log)
		return
	}

	out, err := h.engine.Run(r.Context(), req.Deal, req.Config, nil)
	if err != nil {
		api.WriteError(w, err, h.log)
		return
	}
	if req.OmitSamples {
		out.Results = domain.SimulationResult{}
	}
	api.WriteData(w, http.StatusOK, out, h.log)
}

// HandleStream handles GET /api/simulations/stream.
//
// The client sends one Request as its first message and then receives progress frames
// followed by a single result, error or cancelled frame. Any message sent by the client
// while the simulation runs cancels it.
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: []string{"*"}})
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "unexpected exit")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var req Request
	if err := wsjson.Read(ctx, conn, &req); err != nil {
		h.log.Debug().Err(err).Msg("Failed to read simulation request")
		h.send(conn, Frame{Type: FrameError, Error: "invalid simulation request"})
		conn.Close(websocket.StatusUnsupportedData, "invalid request")
		return
	}

	go func() {
		var msg map[string]interface{}
		if err := wsjson.Read(ctx, conn, &msg); err == nil {
			h.log.Debug().Msg("Client cancelled simulation")
		}
		cancel()
	}()

	cb := progress.Forward("simulating", func(u progress.Update) {
		if err := h.send(conn, Frame{Type: FrameProgress, Progress: &u}); err != nil {
			cancel()
		}
	})

	out, err := h.engine.Run(ctx, req.Deal, req.Config, cb)
	switch {
	case errors.Is(err, context.Canceled):
		h.send(conn, Frame{Type: FrameCancelled})
	case err != nil:
		msg := err.Error()
		if api.StatusFor(err) == http.StatusInternalServerError {
			h.log.Error().Err(err).Msg("Simulation failed")
			msg = "internal error"
		}
		h.send(conn, Frame{Type: FrameError, Error: msg})
	default:
		if req.OmitSamples {
			out.Results = domain.SimulationResult{}
		}
		h.send(conn, Frame{Type: FrameResult, Data: out})
	}

	conn.Close(websocket.StatusNormalClosure, "")
}

// send writes one frame. Writes never share the run's context: a cancelled context
// passed to the connection closes it, and the cancelled frame must still get through.
func (h *Handler) send(conn *websocket.Conn, f Frame) error {
	ctx, cancel := context.WithTimeout(context.Background(), frameWriteTimeout)
	defer cancel()

	if err := wsjson.Write(ctx, conn, f); err != nil {
		h.log.Debug().Err(err).Str("frame", f.Type).Msg("Failed to send frame")
		return err
	}
	return nil
}
