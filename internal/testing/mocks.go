package testing

import (
	"context"
	"sync"

	"github.com/praxos/vaults/internal/modules/risk"
)

// MockSimulator returns canned signatures keyed by token address.
// Unknown tokens get a signature copied from the token fields.
type MockSimulator struct {
	mu         sync.Mutex
	signatures map[string]risk.Signature
	err        error
	calls      int
}

// NewMockSimulator creates a mock preloaded with signatures
func NewMockSimulator(signatures ...risk.Signature) *MockSimulator {
	m := &MockSimulator{signatures: make(map[string]risk.Signature)}
	for _, s := range signatures {
		m.signatures[s.AssetAddress] = s
	}
	return m
}

// SetError makes every subsequent Simulate call fail with err
func (m *MockSimulator) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Simulate ran
func (m *MockSimulator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Simulate implements risk.Simulator
func (m *MockSimulator) Simulate(ctx context.Context, token risk.Token) (risk.Signature, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if m.err != nil {
		return risk.Signature{}, m.err
	}
	if err := token.Validate(); err != nil {
		return risk.Signature{}, err
	}
	if s, ok := m.signatures[token.Address]; ok {
		return s, nil
	}
	return risk.Signature{
		AssetAddress: token.Address,
		AssetType:    token.AssetType,
		RiskTier:     token.RiskTier,
		CreditScore:  50,
		AnnualYield:  token.YieldPercent(),
	}, nil
}
