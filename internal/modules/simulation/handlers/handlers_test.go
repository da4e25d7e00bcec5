package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/deal"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/simulation"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/tax"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

func btlDeal() domain.DealInput {
	return domain.DealInput{
		Financing: domain.FinancingInput{
			AskingPrice:  200000,
			LTV:          75,
			InterestRate: 5,
			TermYears:    25,
			InterestOnly: true,
			FinanceType:  domain.FinanceMortgage,
		},
		Strategy: domain.NewBTL(1200, 2),
		Costs:    domain.OperatingCosts{ManagementPercent: 10, MaintenancePercent: 10},
	}
}

func rentRequest(iterations int) Request {
	return Request{
		Deal: btlDeal(),
		Config: domain.SimulationConfig{
			Iterations: iterations,
			Seed:       7,
			Variables: map[domain.Variable]domain.VariableRange{
				domain.VarMonthlyRent: {Min: 1080, MostLikely: 1200, Max: 1320, Distribution: domain.DistributionNormal},
			},
		},
	}
}

func setupRouter(t *testing.T, cfg simulation.Config) http.Handler {
	t.Helper()
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	taxCalc, err := tax.NewDefaultCalculator()
	require.NoError(t, err)
	engine := simulation.NewEngine(deal.NewCalculator(taxCalc, logger), cfg, logger)

	router := chi.NewRouter()
	NewHandler(engine, logger).RegisterRoutes(router)
	return router
}

func TestHandleRun(t *testing.T) {
	router := setupRouter(t, simulation.DefaultConfig())

	body, err := json.Marshal(rentRequest(1000))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/simulations/", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data domain.SimulationOutput `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 1000, response.Data.Iterations)
	assert.Len(t, response.Data.Results.MonthlyCashFlow, 1000)
	assert.InDelta(t, 298.08, response.Data.BaselineMonthlyCashFlow, 0.01)
}

func TestHandleRun_OmitSamplesAndErrors(t *testing.T) {
	router := setupRouter(t, simulation.DefaultConfig())

	r := rentRequest(500)
	r.OmitSamples = true
	body, err := json.Marshal(r)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/simulations/", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data domain.SimulationOutput `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Empty(t, response.Data.Results.MonthlyCashFlow)
	assert.NotZero(t, response.Data.CashFlowStats.Mean)

	bad := rentRequest(0)
	body, err = json.Marshal(bad)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/simulations/", bytes.NewReader(body))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func dialStream(t *testing.T, router http.Handler) (*websocket.Conn, context.Context) {
	t.Helper()
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/simulations/stream"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn, ctx
}

func TestHandleStream_ProgressThenResult(t *testing.T) {
	conn, ctx := dialStream(t, setupRouter(t, simulation.DefaultConfig()))

	require.NoError(t, wsjson.Write(ctx, conn, rentRequest(1000)))

	var progressed []int
	for {
		var f Frame
		require.NoError(t, wsjson.Read(ctx, conn, &f))
		if f.Type == FrameProgress {
			require.NotNil(t, f.Progress)
			progressed = append(progressed, f.Progress.Current)
			continue
		}

		require.Equal(t, FrameResult, f.Type)
		require.NotNil(t, f.Data)
		assert.Equal(t, 1000, f.Data.Iterations)
		break
	}

	assert.Equal(t, []int{250, 500, 750, 1000}, progressed)
}

func TestHandleStream_ValidationError(t *testing.T) {
	conn, ctx := dialStream(t, setupRouter(t, simulation.DefaultConfig()))

	require.NoError(t, wsjson.Write(ctx, conn, rentRequest(0)))

	var f Frame
	require.NoError(t, wsjson.Read(ctx, conn, &f))
	assert.Equal(t, FrameError, f.Type)
	assert.Contains(t, f.Error, "invalid input")
}

func TestHandleStream_ClientCancels(t *testing.T) {
	cfg := simulation.DefaultConfig()
	cfg.Workers = 1
	cfg.ChunkSize = 10
	cfg.SourceFactory = func(seed, chunk uint64) rand.Source {
		time.Sleep(2 * time.Millisecond)
		return simulation.PCGSource(seed, chunk)
	}
	conn, ctx := dialStream(t, setupRouter(t, cfg))

	require.NoError(t, wsjson.Write(ctx, conn, rentRequest(10000)))

	var f Frame
	require.NoError(t, wsjson.Read(ctx, conn, &f))
	require.Equal(t, FrameProgress, f.Type)

	require.NoError(t, wsjson.Write(ctx, conn, map[string]string{"type": "cancel"}))

	for f.Type == FrameProgress {
		f = Frame{}
		require.NoError(t, wsjson.Read(ctx, conn, &f))
	}
	assert.Equal(t, FrameCancelled, f.Type)
	assert.Nil(t, f.Data)
}
