package risk

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestSimulator() *HeuristicSimulator {
	return NewHeuristicSimulator(zerolog.Nop()).WithClock(func() time.Time { return fixedNow })
}

func TestHeuristicSimulator_Simulate(t *testing.T) {
	sim := newTestSimulator()

	token := Token{
		Address:           "0xBOND",
		AssetType:         "corporate-bond",
		AnnualYieldBps:    500,
		MaturityTimestamp: fixedNow.Add(90 * 24 * time.Hour).Unix(),
		RiskTier:          1,
	}

	sig, err := sim.Simulate(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, "0xBOND", sig.AssetAddress)
	assert.Equal(t, "corporate-bond", sig.AssetType)
	assert.Equal(t, 1, sig.RiskTier)
	assert.Equal(t, 5.0, sig.AnnualYield)
	assert.Equal(t, 90, sig.MaturityDays)
	// tier 1 contributes nothing, 5% yield adds 0.3*0.25
	assert.InDelta(t, 0.075, sig.RiskScore, 1e-9)
	assert.InDelta(t, 92.5, sig.CreditScore, 1e-9)
	assert.InDelta(t, 0.05, sig.Volatility, 1e-9)
	assert.NoError(t, sig.Validate())
	assert.Equal(t, 0.7, sig.CorrelationFactors["rates"])
}

func TestHeuristicSimulator_Deterministic(t *testing.T) {
	sim := newTestSimulator()
	token := Token{Address: "0xRE", AssetType: "real-estate", AnnualYieldBps: 800, RiskTier: 3}

	a, err := sim.Simulate(context.Background(), token)
	require.NoError(t, err)
	b, err := sim.Simulate(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestHeuristicSimulator_MaturityDays(t *testing.T) {
	sim := newTestSimulator()

	tests := []struct {
		name     string
		ts       int64
		expected int
	}{
		{"open-ended", 0, 0},
		{"already matured", fixedNow.Add(-48 * time.Hour).Unix(), 0},
		{"one year", fixedNow.Add(365 * 24 * time.Hour).Unix(), 365},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, err := sim.Simulate(context.Background(), Token{
				Address: "0x1", AssetType: "treasury", RiskTier: 1, MaturityTimestamp: tt.ts,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, sig.MaturityDays)
		})
	}
}

func TestHeuristicSimulator_CreditScoreFallsWithTier(t *testing.T) {
	sim := newTestSimulator()
	prev := 101.0
	for tier := MinTier; tier <= MaxTier; tier++ {
		sig, err := sim.Simulate(context.Background(), Token{
			Address: "0x1", AssetType: "private-credit", AnnualYieldBps: 600, RiskTier: tier,
		})
		require.NoError(t, err)
		assert.Less(t, sig.CreditScore, prev, "tier %d", tier)
		assert.GreaterOrEqual(t, sig.CreditScore, 0.0)
		prev = sig.CreditScore
	}
}

func TestHeuristicSimulator_UnknownTypeUsesDefaults(t *testing.T) {
	sig, err := newTestSimulator().Simulate(context.Background(), Token{
		Address: "0x1", AssetType: "art", RiskTier: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.5, sig.LiquidityScore)
	assert.NotEmpty(t, sig.CorrelationFactors)
}

func TestHeuristicSimulator_RejectsMalformed(t *testing.T) {
	_, err := newTestSimulator().Simulate(context.Background(), Token{Address: "0x1", AssetType: "treasury", RiskTier: 0})
	assert.ErrorIs(t, err, ErrMalformedSignature)
}

func TestHeuristicSimulator_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestSimulator().Simulate(ctx, Token{Address: "0x1", AssetType: "treasury", RiskTier: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulateAll(t *testing.T) {
	sim := newTestSimulator()
	tokens := []Token{
		{Address: "0x1", AssetType: "treasury", AnnualYieldBps: 400, RiskTier: 1},
		{Address: "0x2", AssetType: "startup-fund", AnnualYieldBps: 1500, RiskTier: 5},
	}

	pool, err := SimulateAll(context.Background(), sim, tokens)
	require.NoError(t, err)
	require.Len(t, pool, 2)
	assert.Equal(t, "0x1", pool[0].AssetAddress)
	assert.Equal(t, "0x2", pool[1].AssetAddress)

	tokens = append(tokens, Token{Address: "0x3", RiskTier: 2})
	_, err = SimulateAll(context.Background(), sim, tokens)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedSignature)
	assert.Contains(t, err.Error(), "token 2")
}
