package testing

import (
	"math"

	"github.com/praxos/vaults/internal/modules/risk"
)

// NewSignatureFixtures returns a pool that produces at least one strategy for
// every built-in template.
func NewSignatureFixtures() []risk.Signature {
	return []risk.Signature{
		{AssetAddress: "0x1000000000000000000000000000000000000001", AssetType: "treasury", RiskTier: 1, CreditScore: 95, AnnualYield: 4.2, MaturityDays: 90},
		{AssetAddress: "0x1000000000000000000000000000000000000002", AssetType: "corporate-bond", RiskTier: 2, CreditScore: 84, AnnualYield: 5.6, MaturityDays: 110},
		{AssetAddress: "0x1000000000000000000000000000000000000003", AssetType: "real-estate", RiskTier: 3, CreditScore: 71, AnnualYield: 8.1, MaturityDays: 1825},
		{AssetAddress: "0x1000000000000000000000000000000000000004", AssetType: "private-credit", RiskTier: 3, CreditScore: 69, AnnualYield: 9.4, MaturityDays: 1095},
		{AssetAddress: "0x1000000000000000000000000000000000000005", AssetType: "commodity", RiskTier: 4, CreditScore: 58, AnnualYield: 11.2, MaturityDays: 1200},
		{AssetAddress: "0x1000000000000000000000000000000000000006", AssetType: "startup-fund", RiskTier: 5, CreditScore: 31, AnnualYield: 18.5, MaturityDays: 3650},
		{AssetAddress: "0x1000000000000000000000000000000000000007", AssetType: "startup-fund", RiskTier: 4, CreditScore: 42, AnnualYield: 14.0, MaturityDays: 0},
	}
}

// NewTokenFixtures returns tokens matching NewSignatureFixtures, without maturities.
func NewTokenFixtures() []risk.Token {
	sigs := NewSignatureFixtures()
	tokens := make([]risk.Token, len(sigs))
	for i, s := range sigs {
		tokens[i] = risk.Token{
			Address:        s.AssetAddress,
			AssetType:      s.AssetType,
			AnnualYieldBps: int64(math.Round(s.AnnualYield * 100)),
			RiskTier:       s.RiskTier,
		}
	}
	return tokens
}
