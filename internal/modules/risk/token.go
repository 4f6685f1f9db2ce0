package risk

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Token is a tokenized real-world asset as submitted by clients.
//
// AnnualYieldBps is in basis points (750 = 7.5%). MaturityTimestamp is unix
// seconds, 0 for open-ended assets.
type Token struct {
	Address           string `json:"address" yaml:"address" validate:"required"`
	AssetType         string `json:"asset_type" yaml:"asset_type" validate:"required"`
	AnnualYieldBps    int64  `json:"annual_yield" yaml:"annual_yield" validate:"gte=0"`
	MaturityTimestamp int64  `json:"maturity_timestamp" yaml:"maturity_timestamp" validate:"gte=0"`
	RiskTier          int    `json:"risk_tier" yaml:"risk_tier" validate:"min=1,max=5"`
}

var bpsPerPercent = decimal.NewFromInt(100)

// YieldPercent converts the basis-point yield into a percentage.
func (t Token) YieldPercent() float64 {
	return decimal.NewFromInt(t.AnnualYieldBps).Div(bpsPerPercent).InexactFloat64()
}

// Validate checks the fields the simulator depends on.
func (t Token) Validate() error {
	if strings.TrimSpace(t.Address) == "" {
		return fmt.Errorf("%w: token address is required", ErrMalformedSignature)
	}
	if strings.TrimSpace(t.AssetType) == "" {
		return fmt.Errorf("%w: asset_type is required for %s", ErrMalformedSignature, t.Address)
	}
	if t.RiskTier < MinTier || t.RiskTier > MaxTier {
		return fmt.Errorf("%w: risk_tier %d out of range for %s", ErrMalformedSignature, t.RiskTier, t.Address)
	}
	if t.AnnualYieldBps < 0 {
		return fmt.Errorf("%w: negative annual_yield for %s", ErrMalformedSignature, t.Address)
	}
	if t.MaturityTimestamp < 0 {
		return fmt.Errorf("%w: negative maturity_timestamp for %s", ErrMalformedSignature, t.Address)
	}
	return nil
}
