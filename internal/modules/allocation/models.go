// Package allocation turns a pool of risk signatures into diversified vault
// strategies using a fixed catalog of strategy templates.
package allocation

import (
	"errors"

	"github.com/praxos/vaults/internal/modules/risk"
)

// TotalBasisPoints is the sum every strategy's weights must reach.
const TotalBasisPoints = 10000

// DefaultMinDiversification applies when a template sets no floor.
const DefaultMinDiversification = 2

var (
	// ErrMalformedSignature is risk.ErrMalformedSignature, re-exported for callers of this package.
	ErrMalformedSignature = risk.ErrMalformedSignature
	// ErrStrategyNotFound is returned when a strategy id is not in history.
	ErrStrategyNotFound = errors.New("strategy not found")
)

// StrategyTemplate is a named recipe for building one vault strategy.
type StrategyTemplate struct {
	RiskTier       int `json:"risk_tier"`
	TargetDuration int `json:"target_duration"` // days, 0 = duration-agnostic
	MaxAssets      int `json:"max_assets"`

	MinCreditScore     *float64 `json:"min_credit_score,omitempty"`
	PreferredTypes     []string `json:"preferred_types,omitempty"` // informational only
	MinYield           *float64 `json:"min_yield,omitempty"`
	MinDiversification *int     `json:"min_diversification,omitempty"`
}

// MinDiversificationOrDefault returns the template's floor on selected assets.
func (t StrategyTemplate) MinDiversificationOrDefault() int {
	if t.MinDiversification == nil {
		return DefaultMinDiversification
	}
	return *t.MinDiversification
}

func (t StrategyTemplate) clone() StrategyTemplate {
	c := t
	if t.MinCreditScore != nil {
		v := *t.MinCreditScore
		c.MinCreditScore = &v
	}
	if t.MinYield != nil {
		v := *t.MinYield
		c.MinYield = &v
	}
	if t.MinDiversification != nil {
		v := *t.MinDiversification
		c.MinDiversification = &v
	}
	if t.PreferredTypes != nil {
		c.PreferredTypes = append([]string(nil), t.PreferredTypes...)
	}
	return c
}

// VaultStrategy is a generated allocation. Assets and Weights are parallel
// and Weights sum to TotalBasisPoints.
type VaultStrategy struct {
	StrategyID           string   `json:"strategy_id"`
	Name                 string   `json:"name"`
	RiskTier             int      `json:"risk_tier"`
	TargetDuration       int      `json:"target_duration"`
	Assets               []string `json:"assets"`
	Weights              []int    `json:"weights"`
	ExpectedYield        float64  `json:"expected_yield"`
	DiversificationScore float64  `json:"diversification_score"`
}

func (s VaultStrategy) clone() VaultStrategy {
	c := s
	c.Assets = append([]string(nil), s.Assets...)
	c.Weights = append([]int(nil), s.Weights...)
	return c
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
