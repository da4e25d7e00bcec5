package server

import (
	"net/http"

	"github.com/damo1005/dealflow-properties-sub003/internal/api"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	state := "healthy"
	if err := s.container.AnalysesDB.HealthCheck(r.Context()); err != nil {
		s.log.Warn().Err(err).Msg("Health check failed")
		status = http.StatusServiceUnavailable
		state = "unhealthy"
	}

	api.WriteJSON(w, status, map[string]interface{}{
		"status":   state,
		"version":  Version,
		"service":  "dealflow",
		"tax_year": s.container.TaxCalculator.TaxYear(),
	}, s.log)
}
