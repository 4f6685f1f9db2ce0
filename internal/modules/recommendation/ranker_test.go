package recommendation

import (
	"testing"

	"github.com/praxos/vaults/internal/modules/allocation"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strategy(id string, tier, duration int, yield float64) allocation.VaultStrategy {
	return allocation.VaultStrategy{
		StrategyID:           id,
		Name:                 id,
		RiskTier:             tier,
		TargetDuration:       duration,
		Assets:               []string{"0x" + id},
		Weights:              []int{10000},
		ExpectedYield:        yield,
		DiversificationScore: 10,
	}
}

func TestParseRiskTolerance(t *testing.T) {
	assert.Equal(t, Conservative, ParseRiskTolerance(1))
	assert.Equal(t, Aggressive, ParseRiskTolerance(5))
	assert.Equal(t, Balanced, ParseRiskTolerance(0))
	assert.Equal(t, Balanced, ParseRiskTolerance(9))
	assert.Equal(t, "GROWTH", Growth.String())
	assert.Equal(t, "UNKNOWN", RiskTolerance(42).String())
}

func TestTimeframeForDays(t *testing.T) {
	tests := []struct {
		days     int
		expected Timeframe
	}{
		{0, ShortTerm},
		{365, ShortTerm},
		{366, MediumTerm},
		{1095, MediumTerm},
		{1096, LongTerm},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, TimeframeForDays(tt.days), "days=%d", tt.days)
	}
}

func TestPreferences(t *testing.T) {
	p := Preferences{RiskTolerance: Balanced, HorizonDays: 730, TargetYieldBps: 650}
	assert.Equal(t, MediumTerm, p.Timeframe())
	assert.Equal(t, 6.5, p.MinYield())
}

func TestRanker_Rank(t *testing.T) {
	ranker := NewRanker(zerolog.Nop())
	prefs := Preferences{RiskTolerance: Balanced, HorizonDays: 1000, TargetYieldBps: 600}

	recs := ranker.Rank(prefs, []allocation.VaultStrategy{
		strategy("conservative", 1, 90, 4.0),
		strategy("balanced", 3, 1095, 7.0),
		strategy("startup", 4, 0, 15.0),
	})
	require.Len(t, recs, 3)

	// balanced: 0.4*1 + 0.3*1 + 0.3*1
	assert.Equal(t, "balanced", recs[0].StrategyID)
	assert.Equal(t, 1.0, recs[0].MatchScore)
	assert.True(t, recs[0].TimeframeMatch)
	assert.Equal(t, "0xbalanced", recs[0].VaultAddress)

	// startup: 0.4*0.75 + 0.3*1 + 0.3*1
	assert.Equal(t, "startup", recs[1].StrategyID)
	assert.InDelta(t, 0.9, recs[1].MatchScore, 1e-9)
	assert.True(t, recs[1].TimeframeMatch)
	assert.Contains(t, recs[1].Reasoning, "No fixed duration")

	// conservative: 0.4*0.5 + 0.3*0.5 + 0.3*(4/6)
	assert.Equal(t, "conservative", recs[2].StrategyID)
	assert.InDelta(t, 0.55, recs[2].MatchScore, 1e-9)
	assert.False(t, recs[2].TimeframeMatch)
	assert.Contains(t, recs[2].Reasoning, "falls short of your 6.00% target")
	assert.Contains(t, recs[2].Reasoning, "2 below your balanced tolerance")
}

func TestRanker_StableTies(t *testing.T) {
	ranker := NewRanker(zerolog.Nop())
	prefs := Preferences{RiskTolerance: Growth, HorizonDays: 365}

	recs := ranker.Rank(prefs, []allocation.VaultStrategy{
		strategy("first", 4, 0, 10),
		strategy("second", 4, 0, 10),
		strategy("third", 4, 0, 10),
	})

	ids := []string{recs[0].StrategyID, recs[1].StrategyID, recs[2].StrategyID}
	assert.Equal(t, []string{"first", "second", "third"}, ids)
}

func TestRanker_NoYieldTarget(t *testing.T) {
	ranker := NewRanker(zerolog.Nop())

	recs := ranker.Rank(Preferences{RiskTolerance: Aggressive, HorizonDays: 4000}, []allocation.VaultStrategy{
		strategy("hy", 5, 3650, 0.5),
	})
	require.Len(t, recs, 1)
	assert.Equal(t, 1.0, recs[0].MatchScore)
	assert.Contains(t, recs[0].Reasoning, "Expected yield 0.50%")
}

func TestRanker_InvalidToleranceTreatedAsBalanced(t *testing.T) {
	ranker := NewRanker(zerolog.Nop())

	recs := ranker.Rank(Preferences{RiskTolerance: 0, HorizonDays: 365}, []allocation.VaultStrategy{
		strategy("b", 3, 0, 5),
	})
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].Reasoning, "matches your balanced tolerance")
}

func TestRanker_EmptyAssets(t *testing.T) {
	ranker := NewRanker(zerolog.Nop())

	s := strategy("x", 3, 0, 5)
	s.Assets = nil
	recs := ranker.Rank(Preferences{RiskTolerance: Balanced}, []allocation.VaultStrategy{s})
	assert.Equal(t, "0x0", recs[0].VaultAddress)

	assert.Empty(t, ranker.Rank(Preferences{}, nil))
}
