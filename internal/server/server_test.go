package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damo1005/dealflow-properties-sub003/internal/config"
	"github.com/damo1005/dealflow-properties-sub003/internal/di"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/tax"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		DataDir:  t.TempDir(),
		Port:     8080,
		DevMode:  true,
		TaxYear:  tax.DefaultTaxYear,
		CacheTTL: time.Minute,
		Simulation: config.SimulationConfig{
			MaxIterations: 1000,
			ChunkSize:     100,
			Workers:       2,
		},
		GoalSeekTimeout:       time.Second,
		AnalysisRetentionDays: 30,
	}
	log := zerolog.New(nil).Level(zerolog.Disabled)

	container, _, err := di.Wire(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })

	return New(Config{Log: log, Config: cfg, Container: container})
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, tax.DefaultTaxYear, body["tax_year"])
}

func TestServer_RoutesMounted(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/tax/rules", http.StatusOK},
		{http.MethodGet, "/api/system/jobs", http.StatusOK},
		{http.MethodGet, "/api/analyses?user_id=u1", http.StatusOK},
		{http.MethodGet, "/api/analyses/missing", http.StatusNotFound},
		{http.MethodGet, "/api/system/backups", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/does-not-exist", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}
