// Package risk defines the per-asset risk signature consumed by vault
// allocation and the simulator that derives signatures from tokenized assets.
package risk

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrMalformedSignature is returned when a signature is missing a required field
// or carries an out-of-range value.
var ErrMalformedSignature = errors.New("malformed risk signature")

// Tier bounds. Tier 1 is the safest, tier 5 the riskiest.
const (
	MinTier = 1
	MaxTier = 5
)

// Signature is the risk profile of a single real-world asset.
//
// CreditScore has no upper bound, higher is safer. AnnualYield is a percentage
// (7.5 means 7.5%). MaturityDays of 0 means open-ended.
type Signature struct {
	AssetAddress string  `json:"asset_address"`
	AssetType    string  `json:"asset_type"`
	RiskTier     int     `json:"risk_tier"`
	CreditScore  float64 `json:"credit_score"`
	AnnualYield  float64 `json:"annual_yield"`
	MaturityDays int     `json:"maturity_days"`

	// Descriptive outputs of the simulator. Allocation never reads these.
	RiskScore          float64            `json:"risk_score"`
	Volatility         float64            `json:"volatility"`
	LiquidityScore     float64            `json:"liquidity_score"`
	CorrelationFactors map[string]float64 `json:"correlation_factors,omitempty"`
}

// Validate reports whether the signature can take part in allocation.
func (s Signature) Validate() error {
	if strings.TrimSpace(s.AssetAddress) == "" {
		return fmt.Errorf("%w: asset_address is required", ErrMalformedSignature)
	}
	if strings.TrimSpace(s.AssetType) == "" {
		return fmt.Errorf("%w: asset_type is required for %s", ErrMalformedSignature, s.AssetAddress)
	}
	if s.RiskTier < MinTier || s.RiskTier > MaxTier {
		return fmt.Errorf("%w: risk_tier %d out of range for %s", ErrMalformedSignature, s.RiskTier, s.AssetAddress)
	}
	if s.MaturityDays < 0 {
		return fmt.Errorf("%w: negative maturity_days for %s", ErrMalformedSignature, s.AssetAddress)
	}
	// Credit and yield feed the weights and must be finite and non-negative
	if !nonNegativeFinite(s.CreditScore) {
		return fmt.Errorf("%w: credit_score %v invalid for %s", ErrMalformedSignature, s.CreditScore, s.AssetAddress)
	}
	if !nonNegativeFinite(s.AnnualYield) {
		return fmt.Errorf("%w: annual_yield %v invalid for %s", ErrMalformedSignature, s.AnnualYield, s.AssetAddress)
	}
	return nil
}

func nonNegativeFinite(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1) && !math.IsNaN(v)
}

// ValidateAll validates every signature in the pool and stops at the first failure.
func ValidateAll(pool []Signature) error {
	for i := range pool {
		if err := pool[i].Validate(); err != nil {
			return fmt.Errorf("signature %d: %w", i, err)
		}
	}
	return nil
}
