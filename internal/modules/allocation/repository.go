package allocation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/praxos/vaults/internal/database"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// HistoryStore persists generated strategies across restarts.
type HistoryStore interface {
	SaveBatch(ctx context.Context, batchID string, strategies []VaultStrategy) error
	LoadAll(ctx context.Context) ([]VaultStrategy, error)
}

// NoopHistoryStore discards everything. Used when persistence is disabled.
type NoopHistoryStore struct{}

// SaveBatch implements HistoryStore
func (NoopHistoryStore) SaveBatch(context.Context, string, []VaultStrategy) error { return nil }

// LoadAll implements HistoryStore
func (NoopHistoryStore) LoadAll(context.Context) ([]VaultStrategy, error) { return nil, nil }

// Repository stores strategy history in the vaults database
// Database: vaults.db (strategies table)
type Repository struct {
	db  *sql.DB
	now func() time.Time
	log zerolog.Logger
}

// NewRepository creates a new strategy history repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		now: time.Now,
		log: log.With().Str("repo", "strategies").Logger(),
	}
}

// SaveBatch appends strategies in order under a single batch id
func (r *Repository) SaveBatch(ctx context.Context, batchID string, strategies []VaultStrategy) error {
	if len(strategies) == 0 {
		return nil
	}

	createdAt := r.now().Unix()
	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO strategies (
				id, batch_id, strategy_id, name, risk_tier, target_duration,
				assets, weights, expected_yield, diversification_score, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare strategy insert: %w", err)
		}
		defer stmt.Close()

		for _, s := range strategies {
			assets, err := msgpack.Marshal(s.Assets)
			if err != nil {
				return fmt.Errorf("failed to encode assets for %s: %w", s.StrategyID, err)
			}
			weights, err := msgpack.Marshal(s.Weights)
			if err != nil {
				return fmt.Errorf("failed to encode weights for %s: %w", s.StrategyID, err)
			}

			if _, err := stmt.ExecContext(ctx,
				uuid.NewString(), batchID, s.StrategyID, s.Name, s.RiskTier, s.TargetDuration,
				assets, weights, s.ExpectedYield, s.DiversificationScore, createdAt,
			); err != nil {
				return fmt.Errorf("failed to insert strategy %s: %w", s.StrategyID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save strategy batch %s: %w", batchID, err)
	}

	r.log.Debug().Str("batch_id", batchID).Int("count", len(strategies)).Msg("Saved strategy batch")
	return nil
}

// LoadAll returns every stored strategy in insertion order
func (r *Repository) LoadAll(ctx context.Context) ([]VaultStrategy, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT strategy_id, name, risk_tier, target_duration, assets, weights,
		       expected_yield, diversification_score
		FROM strategies
		ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query strategies: %w", err)
	}
	defer rows.Close()

	var strategies []VaultStrategy
	for rows.Next() {
		s, err := scanStrategy(rows)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating strategies: %w", err)
	}

	return strategies, nil
}

// CountByStrategy returns how many strategies were stored per strategy id
func (r *Repository) CountByStrategy(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT strategy_id, COUNT(*) FROM strategies GROUP BY strategy_id")
	if err != nil {
		return nil, fmt.Errorf("failed to count strategies: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("failed to scan strategy count: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStrategy(row rowScanner) (VaultStrategy, error) {
	var s VaultStrategy
	var assets, weights []byte

	if err := row.Scan(
		&s.StrategyID, &s.Name, &s.RiskTier, &s.TargetDuration,
		&assets, &weights, &s.ExpectedYield, &s.DiversificationScore,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s, err
		}
		return s, fmt.Errorf("failed to scan strategy: %w", err)
	}

	if err := msgpack.Unmarshal(assets, &s.Assets); err != nil {
		return s, fmt.Errorf("failed to decode assets for %s: %w", s.StrategyID, err)
	}
	if err := msgpack.Unmarshal(weights, &s.Weights); err != nil {
		return s, fmt.Errorf("failed to decode weights for %s: %w", s.StrategyID, err)
	}
	return s, nil
}
