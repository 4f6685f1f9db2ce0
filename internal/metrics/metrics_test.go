package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Generation(t *testing.T) {
	r := New()

	r.ObserveGeneration(10*time.Millisecond, 5, 3)
	r.ObserveGeneration(5*time.Millisecond, 1, 1)
	r.StrategyGenerated("conservative-short-term")
	r.StrategyGenerated("conservative-short-term")
	r.StrategyGenerated("startup-exposure")
	r.MalformedInput()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.generationRequests))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.templatesSkipped))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.strategiesTotal.WithLabelValues("conservative-short-term")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.strategiesTotal.WithLabelValues("startup-exposure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.malformedInputs))
}

func TestRegistry_Exports(t *testing.T) {
	r := New()

	r.ExportSucceeded(512)
	r.ExportFailed()

	assert.Equal(t, 1.0, testutil.ToFloat64(r.exportsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.exportsTotal.WithLabelValues("failure")))
	assert.Equal(t, 512.0, testutil.ToFloat64(r.exportBytes))
}

func TestRegistry_NilSafe(t *testing.T) {
	var r *Registry
	assert.NotPanics(t, func() {
		r.ObserveGeneration(time.Second, 1, 0)
		r.StrategyGenerated("x")
		r.MalformedInput()
		r.ExportSucceeded(1)
		r.ExportFailed()
	})
}

func TestRegistry_Handler(t *testing.T) {
	r := New()
	r.StrategyGenerated("balanced-diversified")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `vaults_strategies_generated_total{strategy_id="balanced-diversified"} 1`)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
