// Package server provides the HTTP server and routing for the deal analysis API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/damo1005/dealflow-properties-sub003/internal/config"
	"github.com/damo1005/dealflow-properties-sub003/internal/di"
	analyseshandlers "github.com/damo1005/dealflow-properties-sub003/internal/modules/analyses/handlers"
	dealhandlers "github.com/damo1005/dealflow-properties-sub003/internal/modules/deal/handlers"
	goalseekhandlers "github.com/damo1005/dealflow-properties-sub003/internal/modules/goalseek/handlers"
	simulationhandlers "github.com/damo1005/dealflow-properties-sub003/internal/modules/simulation/handlers"
	taxhandlers "github.com/damo1005/dealflow-properties-sub003/internal/modules/tax/handlers"
)

// Version is reported by the health endpoint. Overridden at build time with -ldflags.
var Version = "dev"

// Config holds server configuration
type Config struct {
	Log       zerolog.Logger
	Config    *config.Config
	Container *di.Container
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	cfg            *config.Config
	container      *di.Container
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		cfg:       cfg.Config,
		container: cfg.Container,
	}

	var backups BackupLister
	if cfg.Container.BackupService != nil {
		backups = cfg.Container.BackupService
	}
	s.systemHandlers = NewSystemHandlers(
		cfg.Log,
		cfg.Container.Databases(),
		cfg.Container.Scheduler,
		backups,
	)

	s.setupMiddleware(cfg.Config.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "X-Cache"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	c := s.container
	s.router.Route("/api", func(r chi.Router) {
		// The simulation stream is a long-lived websocket and must not sit behind the timeout.
		simulationhandlers.NewHandler(c.SimulationEngine, s.log).RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			taxhandlers.NewHandler(c.TaxCalculator, s.log).RegisterRoutes(r)
			dealhandlers.NewHandler(c.DealCalculator, c.Cache, s.cfg.CacheTTL, s.log).RegisterRoutes(r)
			goalseekhandlers.NewHandler(c.GoalSeekEngine, s.log).RegisterRoutes(r)
			analyseshandlers.NewHandler(c.AnalysisRepo, c.DealCalculator, s.log).RegisterRoutes(r)

			s.systemHandlers.RegisterRoutes(r)
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
