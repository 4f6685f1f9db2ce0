// Package recommendation ranks generated vault strategies against an
// investor's risk tolerance, horizon and yield target.
package recommendation

import (
	"github.com/praxos/vaults/internal/modules/allocation"
)

// RiskTolerance mirrors the 1-5 risk tier scale
type RiskTolerance int

const (
	Conservative RiskTolerance = iota + 1
	Moderate
	Balanced
	Growth
	Aggressive
)

// ParseRiskTolerance maps a 1-5 value onto a tolerance. Anything else is Balanced.
func ParseRiskTolerance(v int) RiskTolerance {
	if v < int(Conservative) || v > int(Aggressive) {
		return Balanced
	}
	return RiskTolerance(v)
}

func (t RiskTolerance) String() string {
	switch t {
	case Conservative:
		return "CONSERVATIVE"
	case Moderate:
		return "MODERATE"
	case Balanced:
		return "BALANCED"
	case Growth:
		return "GROWTH"
	case Aggressive:
		return "AGGRESSIVE"
	default:
		return "UNKNOWN"
	}
}

// Timeframe buckets an investment horizon
type Timeframe string

const (
	ShortTerm  Timeframe = "short_term"
	MediumTerm Timeframe = "medium_term"
	LongTerm   Timeframe = "long_term"
	// AnyTerm is used for duration-agnostic strategies
	AnyTerm Timeframe = "any"
)

// TimeframeForDays buckets a number of days
func TimeframeForDays(days int) Timeframe {
	switch {
	case days <= 365:
		return ShortTerm
	case days <= 1095:
		return MediumTerm
	default:
		return LongTerm
	}
}

// Default preference values
const (
	DefaultRiskTolerance  = 3
	DefaultHorizonDays    = 365
	DefaultTargetYieldBps = 600
)

// Preferences describes what an investor is looking for
type Preferences struct {
	RiskTolerance  RiskTolerance
	HorizonDays    int
	TargetYieldBps int
}

// Timeframe returns the horizon bucket
func (p Preferences) Timeframe() Timeframe {
	return TimeframeForDays(p.HorizonDays)
}

// MinYield returns the target yield in percent. Zero means no target.
func (p Preferences) MinYield() float64 {
	return float64(p.TargetYieldBps) / 100.0
}

// Recommendation is one ranked strategy
type Recommendation struct {
	VaultAddress   string                   `json:"vault_address"`
	VaultName      string                   `json:"vault_name"`
	StrategyID     string                   `json:"strategy_id"`
	MatchScore     float64                  `json:"match_score"`
	RiskTier       int                      `json:"risk_tier"`
	ExpectedYield  float64                  `json:"expected_yield"`
	TimeframeMatch bool                     `json:"timeframe_match"`
	Reasoning      string                   `json:"reasoning"`
	Strategy       allocation.VaultStrategy `json:"-"`
}
