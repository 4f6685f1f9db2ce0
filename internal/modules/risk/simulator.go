package risk

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// Simulator derives a risk signature for a tokenized asset.
type Simulator interface {
	Simulate(ctx context.Context, token Token) (Signature, error)
}

// assetProfile holds per-asset-type baselines for the heuristic model.
type assetProfile struct {
	volatility  float64
	liquidity   float64
	correlation map[string]float64
}

var assetProfiles = map[string]assetProfile{
	"treasury": {
		volatility:  0.02,
		liquidity:   0.95,
		correlation: map[string]float64{"rates": 0.9, "equity": 0.1, "real_estate": 0.1},
	},
	"corporate-bond": {
		volatility:  0.05,
		liquidity:   0.8,
		correlation: map[string]float64{"rates": 0.7, "equity": 0.3, "real_estate": 0.2},
	},
	"private-credit": {
		volatility:  0.08,
		liquidity:   0.5,
		correlation: map[string]float64{"rates": 0.5, "equity": 0.4, "real_estate": 0.3},
	},
	"real-estate": {
		volatility:  0.12,
		liquidity:   0.4,
		correlation: map[string]float64{"rates": 0.4, "equity": 0.3, "real_estate": 0.9},
	},
	"commodity": {
		volatility:  0.2,
		liquidity:   0.7,
		correlation: map[string]float64{"rates": 0.2, "equity": 0.3, "real_estate": 0.1},
	},
	"startup-fund": {
		volatility:  0.35,
		liquidity:   0.2,
		correlation: map[string]float64{"rates": 0.1, "equity": 0.8, "real_estate": 0.1},
	},
}

var defaultProfile = assetProfile{
	volatility:  0.15,
	liquidity:   0.5,
	correlation: map[string]float64{"rates": 0.3, "equity": 0.5, "real_estate": 0.3},
}

// HeuristicSimulator scores assets from their tier, yield, type and maturity.
// The output is deterministic for a fixed clock.
type HeuristicSimulator struct {
	now func() time.Time
	log zerolog.Logger
}

// NewHeuristicSimulator creates a simulator using the wall clock
func NewHeuristicSimulator(log zerolog.Logger) *HeuristicSimulator {
	return &HeuristicSimulator{
		now: time.Now,
		log: log.With().Str("component", "risk_simulator").Logger(),
	}
}

// WithClock replaces the clock used to compute maturity days.
func (s *HeuristicSimulator) WithClock(now func() time.Time) *HeuristicSimulator {
	s.now = now
	return s
}

// Simulate implements Simulator.
func (s *HeuristicSimulator) Simulate(ctx context.Context, token Token) (Signature, error) {
	if err := ctx.Err(); err != nil {
		return Signature{}, err
	}
	if err := token.Validate(); err != nil {
		return Signature{}, err
	}

	profile, ok := assetProfiles[token.AssetType]
	if !ok {
		profile = defaultProfile
	}

	yield := token.YieldPercent()
	maturityDays := s.maturityDays(token.MaturityTimestamp)

	// Tier dominates, yield premium adds up to 0.3 at 20% and above.
	tierComponent := float64(token.RiskTier-MinTier) / float64(MaxTier-MinTier)
	yieldComponent := math.Min(yield/20.0, 1.0)
	riskScore := round(0.7*tierComponent+0.3*yieldComponent, 4)

	liquidity := profile.liquidity - math.Min(0.3, float64(maturityDays)/3650.0*0.3)

	correlation := make(map[string]float64, len(profile.correlation))
	for k, v := range profile.correlation {
		correlation[k] = v
	}

	sig := Signature{
		AssetAddress:       token.Address,
		AssetType:          token.AssetType,
		RiskTier:           token.RiskTier,
		CreditScore:        round(100*(1-riskScore), 2),
		AnnualYield:        yield,
		MaturityDays:       maturityDays,
		RiskScore:          riskScore,
		Volatility:         round(profile.volatility*(1+tierComponent), 4),
		LiquidityScore:     round(math.Max(0, liquidity), 4),
		CorrelationFactors: correlation,
	}

	s.log.Debug().
		Str("asset", sig.AssetAddress).
		Str("asset_type", sig.AssetType).
		Float64("risk_score", sig.RiskScore).
		Float64("credit_score", sig.CreditScore).
		Msg("Simulated risk signature")

	return sig, nil
}

func (s *HeuristicSimulator) maturityDays(ts int64) int {
	if ts <= 0 {
		return 0
	}
	remaining := time.Unix(ts, 0).Sub(s.now())
	if remaining <= 0 {
		return 0
	}
	return int(remaining.Hours() / 24)
}

// SimulateAll runs the simulator over every token in order. The first failure
// aborts the batch.
func SimulateAll(ctx context.Context, sim Simulator, tokens []Token) ([]Signature, error) {
	pool := make([]Signature, 0, len(tokens))
	for i, token := range tokens {
		sig, err := sim.Simulate(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("failed to simulate token %d (%s): %w", i, token.Address, err)
		}
		pool = append(pool, sig)
	}
	return pool, nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
