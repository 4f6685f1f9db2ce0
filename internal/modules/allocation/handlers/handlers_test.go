package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/praxos/vaults/internal/events"
	"github.com/praxos/vaults/internal/modules/allocation"
	"github.com/praxos/vaults/internal/modules/recommendation"
	"github.com/praxos/vaults/internal/modules/risk"
	testingpkg "github.com/praxos/vaults/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*chi.Mux, *allocation.Service) {
	t.Helper()
	log := zerolog.Nop()
	bus := events.NewBus(log)
	sim := testingpkg.NewMockSimulator(testingpkg.NewSignatureFixtures()...)
	svc := allocation.NewService(allocation.NewEngine(nil, log), sim, nil, events.NewManager(bus, log), log)

	h := NewHandler(svc, recommendation.NewRanker(log), log)
	r := chi.NewRouter()
	r.Route("/api", h.RegisterRoutes)
	return r, svc
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleGenerate(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/vaults/generate", map[string]interface{}{
		"rwa_tokens": testingpkg.NewTokenFixtures(),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Strategies []allocation.VaultStrategy `json:"strategies"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Strategies)
	for _, s := range resp.Strategies {
		total := 0
		for _, bps := range s.Weights {
			total += bps
		}
		assert.Equal(t, allocation.TotalBasisPoints, total, s.StrategyID)
	}
}

func TestHandleGenerate_StrategyFilter(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/vaults/generate", map[string]interface{}{
		"rwa_tokens":     testingpkg.NewTokenFixtures(),
		"strategy_types": []string{"conservative-short-term", "unknown"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Strategies []allocation.VaultStrategy `json:"strategies"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Strategies, 1)
	assert.Equal(t, "conservative-short-term", resp.Strategies[0].StrategyID)
}

func TestHandleGenerate_BadRequests(t *testing.T) {
	r, _ := setupRouter(t)

	t.Run("missing tokens", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/vaults/generate", map[string]interface{}{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "rwa_tokens is required")
	})

	t.Run("invalid json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/vaults/generate", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("tier out of range", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/vaults/generate", map[string]interface{}{
			"rwa_tokens": []risk.Token{{Address: "0xabc", AssetType: "treasury", RiskTier: 9}},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleRecommend(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/vaults/recommend", map[string]interface{}{
		"user_risk_tolerance":     1,
		"investment_horizon_days": 180,
		"available_rwa_tokens":    testingpkg.NewTokenFixtures(),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Recommendations []recommendation.Recommendation `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Recommendations)
	for i := 1; i < len(resp.Recommendations); i++ {
		assert.GreaterOrEqual(t, resp.Recommendations[i-1].MatchScore, resp.Recommendations[i].MatchScore)
	}
	assert.Equal(t, "conservative-short-term", resp.Recommendations[0].StrategyID)
}

func TestHandleRecommend_MissingTokens(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/vaults/recommend", map[string]interface{}{
		"user_risk_tolerance": 3,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "available_rwa_tokens is required")
}

func TestHandleStrategies(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/vaults/strategies", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"strategies":[],"count":0}`, w.Body.String())

	doJSON(t, r, http.MethodPost, "/api/vaults/generate", map[string]interface{}{
		"rwa_tokens": testingpkg.NewTokenFixtures(),
	})

	w = doJSON(t, r, http.MethodGet, "/api/vaults/strategies", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Greater(t, resp.Count, 0)

	w = doJSON(t, r, http.MethodGet, "/api/vaults/strategies/conservative-short-term", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var s allocation.VaultStrategy
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, "conservative-short-term", s.StrategyID)

	w = doJSON(t, r, http.MethodGet, "/api/vaults/strategies/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleDeployment(t *testing.T) {
	r, _ := setupRouter(t)

	doJSON(t, r, http.MethodPost, "/api/vaults/generate", map[string]interface{}{
		"rwa_tokens": testingpkg.NewTokenFixtures(),
	})

	w := doJSON(t, r, http.MethodGet, "/api/vaults/strategies/balanced-diversified/deployment", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/vaults/strategies/balanced-diversified/deployment?base_asset=0xusdc", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cfg allocation.DeploymentConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	assert.Equal(t, "0xusdc", cfg.BaseAsset)
	assert.Equal(t, "BALANCEDDIVERSIFIED", cfg.Symbol)
	assert.Equal(t, len(cfg.Assets), len(cfg.Weights))

	w = doJSON(t, r, http.MethodGet, "/api/vaults/strategies/nope/deployment?base_asset=0xusdc", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleExport(t *testing.T) {
	r, svc := setupRouter(t)

	_, err := svc.GenerateFromSignatures(context.Background(), testingpkg.NewSignatureFixtures(), []string{"high-yield-long-term"})
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodGet, "/api/vaults/strategies/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "vault_strategies.json")

	var out []allocation.VaultStrategy
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "high-yield-long-term", out[0].StrategyID)
}
