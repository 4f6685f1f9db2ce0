package allocation

import (
	"fmt"
	"strings"
)

// DeploymentConfig is the payload the vault factory contract expects.
type DeploymentConfig struct {
	BaseAsset      string   `json:"baseAsset"`
	Name           string   `json:"name"`
	Symbol         string   `json:"symbol"`
	Strategy       string   `json:"strategy"`
	RiskTier       int      `json:"riskTier"`
	TargetDuration int      `json:"targetDuration"`
	Assets         []string `json:"assets"`
	Weights        []int    `json:"weights"`
}

// NewDeploymentConfig builds a factory payload for strategy. Empty name and
// symbol default to the strategy name and the upper-cased id without dashes.
func NewDeploymentConfig(strategy VaultStrategy, baseAsset, name, symbol string) (*DeploymentConfig, error) {
	if strings.TrimSpace(baseAsset) == "" {
		return nil, fmt.Errorf("base asset address is required")
	}
	if name == "" {
		name = strategy.Name
	}
	if symbol == "" {
		symbol = DefaultSymbol(strategy.StrategyID)
	}

	s := strategy.clone()
	return &DeploymentConfig{
		BaseAsset:      baseAsset,
		Name:           name,
		Symbol:         symbol,
		Strategy:       s.StrategyID,
		RiskTier:       s.RiskTier,
		TargetDuration: s.TargetDuration,
		Assets:         s.Assets,
		Weights:        s.Weights,
	}, nil
}

// DefaultSymbol derives a token symbol from a strategy id.
func DefaultSymbol(strategyID string) string {
	return strings.ReplaceAll(strings.ToUpper(strategyID), "-", "")
}
