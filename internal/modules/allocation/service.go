package allocation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/praxos/vaults/internal/events"
	"github.com/praxos/vaults/internal/modules/risk"
	"github.com/rs/zerolog"
)

// Recorder receives generation metrics
type Recorder interface {
	ObserveGeneration(duration time.Duration, requested, generated int)
	StrategyGenerated(strategyID string)
	MalformedInput()
}

type noopRecorder struct{}

func (noopRecorder) ObserveGeneration(time.Duration, int, int) {}
func (noopRecorder) StrategyGenerated(string)                  {}
func (noopRecorder) MalformedInput()                           {}

// Service runs the vault generation pipeline: simulate, allocate, persist, publish.
type Service struct {
	engine       *Engine
	simulator    risk.Simulator
	store        HistoryStore
	eventManager *events.Manager
	metrics      Recorder
	log          zerolog.Logger
}

// NewService creates a new vault generation service. A nil store disables persistence.
func NewService(
	engine *Engine,
	simulator risk.Simulator,
	store HistoryStore,
	eventManager *events.Manager,
	log zerolog.Logger,
) *Service {
	if store == nil {
		store = NoopHistoryStore{}
	}
	return &Service{
		engine:       engine,
		simulator:    simulator,
		store:        store,
		eventManager: eventManager,
		metrics:      noopRecorder{},
		log:          log.With().Str("service", "allocation").Logger(),
	}
}

// SetRecorder installs a metrics recorder
func (s *Service) SetRecorder(r Recorder) {
	if r == nil {
		r = noopRecorder{}
	}
	s.metrics = r
}

// Engine returns the underlying allocation engine
func (s *Service) Engine() *Engine {
	return s.engine
}

// Restore loads persisted history into the engine
func (s *Service) Restore(ctx context.Context) error {
	strategies, err := s.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load strategy history: %w", err)
	}
	s.engine.Restore(strategies)
	return nil
}

// GenerateFromTokens simulates risk for each token, then generates strategies
// for strategyTypes (all templates when empty).
func (s *Service) GenerateFromTokens(ctx context.Context, tokens []risk.Token, strategyTypes []string) ([]VaultStrategy, error) {
	pool, err := risk.SimulateAll(ctx, s.simulator, tokens)
	if err != nil {
		s.metrics.MalformedInput()
		return nil, err
	}
	return s.GenerateFromSignatures(ctx, pool, strategyTypes)
}

// GenerateFromSignatures generates strategies from an already simulated pool.
func (s *Service) GenerateFromSignatures(ctx context.Context, pool []risk.Signature, strategyTypes []string) ([]VaultStrategy, error) {
	start := time.Now()

	strategies, err := s.engine.Generate(pool, strategyTypes)
	if err != nil {
		s.metrics.MalformedInput()
		return nil, err
	}

	elapsed := time.Since(start)
	requested := len(strategyTypes)
	if requested == 0 {
		requested = s.engine.Catalog().Len()
	}
	s.metrics.ObserveGeneration(elapsed, requested, len(strategies))

	batchID := uuid.NewString()
	if err := s.store.SaveBatch(ctx, batchID, strategies); err != nil {
		// In-memory history already holds the batch
		s.log.Error().Err(err).Str("batch_id", batchID).Msg("Failed to persist strategy batch")
	}

	for _, strategy := range strategies {
		s.metrics.StrategyGenerated(strategy.StrategyID)
		s.eventManager.EmitTyped("allocation", &events.StrategyGeneratedData{
			BatchID:              batchID,
			StrategyID:           strategy.StrategyID,
			Name:                 strategy.Name,
			RiskTier:             strategy.RiskTier,
			Assets:               strategy.Assets,
			Weights:              strategy.Weights,
			ExpectedYield:        strategy.ExpectedYield,
			DiversificationScore: strategy.DiversificationScore,
		})
	}
	s.eventManager.EmitTyped("allocation", &events.GenerationCompletedData{
		BatchID:    batchID,
		PoolSize:   len(pool),
		Requested:  requested,
		Generated:  len(strategies),
		DurationMs: elapsed.Milliseconds(),
	})

	return strategies, nil
}

// Strategies returns the full generation history
func (s *Service) Strategies() []VaultStrategy {
	return s.engine.History()
}

// Lookup returns the first generated strategy with the given id
func (s *Service) Lookup(strategyID string) (VaultStrategy, error) {
	strategy, ok := s.engine.Lookup(strategyID)
	if !ok {
		return VaultStrategy{}, fmt.Errorf("%w: %s", ErrStrategyNotFound, strategyID)
	}
	return strategy, nil
}

// DeploymentConfig returns the factory payload for a generated strategy
func (s *Service) DeploymentConfig(strategyID, baseAsset, name, symbol string) (*DeploymentConfig, error) {
	strategy, err := s.Lookup(strategyID)
	if err != nil {
		return nil, err
	}
	return NewDeploymentConfig(strategy, baseAsset, name, symbol)
}

// ExportJSON writes the history as an indented JSON array and returns the
// number of strategies written.
func (s *Service) ExportJSON(w io.Writer) (int, error) {
	history := s.engine.History()
	if history == nil {
		history = []VaultStrategy{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(history); err != nil {
		return 0, fmt.Errorf("failed to encode strategies: %w", err)
	}
	return len(history), nil
}
