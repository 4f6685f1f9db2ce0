package allocation

import (
	"fmt"
	"sync"

	"github.com/praxos/vaults/internal/modules/risk"
	"github.com/rs/zerolog"
)

// Engine builds vault strategies from a catalog and remembers every strategy it
// has produced. It is safe for concurrent use.
type Engine struct {
	catalog *Catalog

	mu      sync.RWMutex
	history []VaultStrategy

	log zerolog.Logger
}

// NewEngine creates an engine over catalog. A nil catalog uses DefaultCatalog.
func NewEngine(catalog *Catalog, log zerolog.Logger) *Engine {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Engine{
		catalog: catalog,
		log:     log.With().Str("component", "allocation_engine").Logger(),
	}
}

// Catalog returns the engine's template catalog.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Generate runs every requested template against pool. Empty templateIDs means
// the whole catalog. Unknown ids and templates that select nothing are skipped.
// Produced strategies are appended to history in the order returned.
func (e *Engine) Generate(pool []risk.Signature, templateIDs []string) ([]VaultStrategy, error) {
	if err := risk.ValidateAll(pool); err != nil {
		return nil, fmt.Errorf("failed to validate signature pool: %w", err)
	}

	if len(templateIDs) == 0 {
		templateIDs = e.catalog.IDs()
	}

	strategies := make([]VaultStrategy, 0, len(templateIDs))
	for _, id := range templateIDs {
		tmpl, ok := e.catalog.Get(id)
		if !ok {
			e.log.Debug().Str("strategy_id", id).Msg("Skipping unknown strategy template")
			continue
		}

		strategy, ok := e.construct(id, tmpl, pool)
		if !ok {
			e.log.Debug().Str("strategy_id", id).Msg("No eligible assets for template")
			continue
		}
		strategies = append(strategies, strategy)
	}

	e.mu.Lock()
	for _, s := range strategies {
		e.history = append(e.history, s.clone())
	}
	e.mu.Unlock()

	e.log.Info().
		Int("pool_size", len(pool)).
		Int("requested", len(templateIDs)).
		Int("generated", len(strategies)).
		Msg("Generated vault strategies")

	return strategies, nil
}

func (e *Engine) construct(id string, tmpl StrategyTemplate, pool []risk.Signature) (VaultStrategy, bool) {
	candidates := filterCandidates(pool, tmpl)
	if len(candidates) == 0 {
		return VaultStrategy{}, false
	}

	selected := selectAssets(candidates, tmpl)
	if len(selected) == 0 {
		return VaultStrategy{}, false
	}

	weights := calculateWeights(selected)
	assets := make([]string, len(selected))
	for i, sig := range selected {
		assets[i] = sig.AssetAddress
	}

	return VaultStrategy{
		StrategyID:           id,
		Name:                 strategyName(e.catalog, id, len(selected)),
		RiskTier:             tmpl.RiskTier,
		TargetDuration:       tmpl.TargetDuration,
		Assets:               assets,
		Weights:              weights,
		ExpectedYield:        expectedYield(selected, weights),
		DiversificationScore: diversificationScore(selected),
	}, true
}

// Lookup returns the earliest strategy in history with the given id.
func (e *Engine) Lookup(strategyID string) (VaultStrategy, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, s := range e.history {
		if s.StrategyID == strategyID {
			return s.clone(), true
		}
	}
	return VaultStrategy{}, false
}

// History returns a copy of every generated strategy in generation order.
func (e *Engine) History() []VaultStrategy {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]VaultStrategy, len(e.history))
	for i, s := range e.history {
		out[i] = s.clone()
	}
	return out
}

// Restore prepends previously persisted strategies to history. It is meant to
// run once at startup before any Generate call.
func (e *Engine) Restore(strategies []VaultStrategy) {
	if len(strategies) == 0 {
		return
	}

	e.mu.Lock()
	restored := make([]VaultStrategy, 0, len(strategies)+len(e.history))
	for _, s := range strategies {
		restored = append(restored, s.clone())
	}
	e.history = append(restored, e.history...)
	e.mu.Unlock()

	e.log.Info().Int("count", len(strategies)).Msg("Restored strategy history")
}
