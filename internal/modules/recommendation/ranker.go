package recommendation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/praxos/vaults/internal/modules/allocation"
	"github.com/rs/zerolog"
)

// Score weights
const (
	riskWeight      = 0.4
	timeframeWeight = 0.3
	yieldWeight     = 0.3
)

// placeholderVaultAddress stands in when a strategy has no assets to identify it
const placeholderVaultAddress = "0x0"

// Ranker scores strategies against investor preferences
type Ranker struct {
	log zerolog.Logger
}

// NewRanker creates a new ranker
func NewRanker(log zerolog.Logger) *Ranker {
	return &Ranker{
		log: log.With().Str("component", "recommendation_ranker").Logger(),
	}
}

// Rank scores every strategy and returns them best first. Ties keep input order.
func (r *Ranker) Rank(prefs Preferences, strategies []allocation.VaultStrategy) []Recommendation {
	prefs.RiskTolerance = ParseRiskTolerance(int(prefs.RiskTolerance))

	recs := make([]Recommendation, 0, len(strategies))
	for _, s := range strategies {
		recs = append(recs, r.score(prefs, s))
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].MatchScore > recs[j].MatchScore
	})

	r.log.Debug().
		Str("risk_tolerance", prefs.RiskTolerance.String()).
		Str("timeframe", string(prefs.Timeframe())).
		Int("candidates", len(strategies)).
		Msg("Ranked vault strategies")

	return recs
}

func (r *Ranker) score(prefs Preferences, s allocation.VaultStrategy) Recommendation {
	riskScore := 1 - math.Abs(float64(s.RiskTier-int(prefs.RiskTolerance)))/4
	riskScore = math.Max(0, riskScore)

	strategyFrame := strategyTimeframe(s)
	timeframeMatch := strategyFrame == AnyTerm || strategyFrame == prefs.Timeframe()
	timeframeScore := timeframeDistanceScore(strategyFrame, prefs.Timeframe())

	yieldScore := 1.0
	minYield := prefs.MinYield()
	if minYield > 0 {
		yieldScore = math.Min(1, math.Max(0, s.ExpectedYield/minYield))
	}

	total := riskWeight*riskScore + timeframeWeight*timeframeScore + yieldWeight*yieldScore

	address := placeholderVaultAddress
	if len(s.Assets) > 0 {
		address = s.Assets[0]
	}

	return Recommendation{
		VaultAddress:   address,
		VaultName:      s.Name,
		StrategyID:     s.StrategyID,
		MatchScore:     math.Round(total*10000) / 10000,
		RiskTier:       s.RiskTier,
		ExpectedYield:  s.ExpectedYield,
		TimeframeMatch: timeframeMatch,
		Reasoning:      reasoning(prefs, s, strategyFrame, timeframeMatch, minYield),
		Strategy:       s,
	}
}

func strategyTimeframe(s allocation.VaultStrategy) Timeframe {
	if s.TargetDuration == 0 {
		return AnyTerm
	}
	return TimeframeForDays(s.TargetDuration)
}

var timeframeRank = map[Timeframe]int{ShortTerm: 0, MediumTerm: 1, LongTerm: 2}

// timeframeDistanceScore is 1 for a match, 0.5 for an adjacent bucket, 0 otherwise.
func timeframeDistanceScore(strategy, wanted Timeframe) float64 {
	if strategy == AnyTerm {
		return 1
	}
	switch d := timeframeRank[strategy] - timeframeRank[wanted]; {
	case d == 0:
		return 1
	case d == 1 || d == -1:
		return 0.5
	default:
		return 0
	}
}

func reasoning(prefs Preferences, s allocation.VaultStrategy, frame Timeframe, frameMatch bool, minYield float64) string {
	var parts []string

	diff := s.RiskTier - int(prefs.RiskTolerance)
	switch {
	case diff == 0:
		parts = append(parts, fmt.Sprintf("Risk tier %d matches your %s tolerance", s.RiskTier, strings.ToLower(prefs.RiskTolerance.String())))
	case diff > 0:
		parts = append(parts, fmt.Sprintf("Risk tier %d is %d above your %s tolerance", s.RiskTier, diff, strings.ToLower(prefs.RiskTolerance.String())))
	default:
		parts = append(parts, fmt.Sprintf("Risk tier %d is %d below your %s tolerance", s.RiskTier, -diff, strings.ToLower(prefs.RiskTolerance.String())))
	}

	switch {
	case frame == AnyTerm:
		parts = append(parts, "No fixed duration, suits any horizon")
	case frameMatch:
		parts = append(parts, fmt.Sprintf("Targets %s holdings like your horizon", strings.ReplaceAll(string(frame), "_", "-")))
	default:
		parts = append(parts, fmt.Sprintf("Targets %s holdings, your horizon is %s",
			strings.ReplaceAll(string(frame), "_", "-"),
			strings.ReplaceAll(string(prefs.Timeframe()), "_", "-")))
	}

	if minYield > 0 {
		verb := "meets"
		if s.ExpectedYield < minYield {
			verb = "falls short of"
		}
		parts = append(parts, fmt.Sprintf("Expected yield %.2f%% %s your %.2f%% target", s.ExpectedYield, verb, minYield))
	} else {
		parts = append(parts, fmt.Sprintf("Expected yield %.2f%%", s.ExpectedYield))
	}

	parts = append(parts, fmt.Sprintf("Diversification %.1f/100 across %d assets", s.DiversificationScore, len(s.Assets)))

	return strings.Join(parts, "; ")
}
