package metadata

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Repository stores vault metadata in SQLite
// Database: vaults.db (vault_metadata table)
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new metadata repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "vault_metadata").Logger(),
	}
}

// Get implements Store
func (r *Repository) Get(ctx context.Context, vaultAddress string) (*VaultMetadata, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT vault_address, description, apr, is_new, assets
		FROM vault_metadata WHERE address = ?`, Key(vaultAddress))

	m, err := scanMetadata(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, vaultAddress)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Set implements Store
func (r *Repository) Set(ctx context.Context, meta VaultMetadata) error {
	key := Key(meta.VaultAddress)
	if key == "" {
		return fmt.Errorf("vault address is required")
	}

	assets := meta.Assets
	if assets == nil {
		assets = []AssetInfo{}
	}
	assetsJSON, err := json.Marshal(assets)
	if err != nil {
		return fmt.Errorf("failed to encode assets for %s: %w", meta.VaultAddress, err)
	}

	isNew := 0
	if meta.IsNew {
		isNew = 1
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO vault_metadata (address, vault_address, description, apr, is_new, assets, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(address) DO UPDATE SET
			vault_address = excluded.vault_address,
			description = excluded.description,
			apr = excluded.apr,
			is_new = excluded.is_new,
			assets = excluded.assets,
			updated_at = excluded.updated_at`,
		key, meta.VaultAddress, meta.Description, meta.APR, isNew, string(assetsJSON), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert metadata for %s: %w", meta.VaultAddress, err)
	}

	r.log.Debug().Str("vault", key).Int("assets", len(assets)).Msg("Stored vault metadata")
	return nil
}

// Batch implements Store
func (r *Repository) Batch(ctx context.Context, vaultAddresses []string) (map[string]VaultMetadata, error) {
	out := make(map[string]VaultMetadata, len(vaultAddresses))
	if len(vaultAddresses) == 0 {
		return out, nil
	}

	requested := make(map[string][]string, len(vaultAddresses))
	args := make([]interface{}, 0, len(vaultAddresses))
	for _, addr := range vaultAddresses {
		key := Key(addr)
		if _, seen := requested[key]; !seen {
			args = append(args, key)
		}
		requested[key] = append(requested[key], addr)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(args)), ",")
	rows, err := r.db.QueryContext(ctx, `
		SELECT address, vault_address, description, apr, is_new, assets
		FROM vault_metadata WHERE address IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query vault metadata batch: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		m, err := scanMetadata(rows, &key)
		if err != nil {
			return nil, err
		}
		for _, addr := range requested[key] {
			out[addr] = m.clone()
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vault metadata: %w", err)
	}

	return out, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanMetadata scans a metadata row. prefix receives any leading columns.
func scanMetadata(row rowScanner, prefix ...interface{}) (VaultMetadata, error) {
	var m VaultMetadata
	var isNew int
	var assetsJSON string

	dest := append(prefix, &m.VaultAddress, &m.Description, &m.APR, &isNew, &assetsJSON)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return m, err
		}
		return m, fmt.Errorf("failed to scan vault metadata: %w", err)
	}

	m.IsNew = isNew != 0
	if err := json.Unmarshal([]byte(assetsJSON), &m.Assets); err != nil {
		return m, fmt.Errorf("failed to decode assets for %s: %w", m.VaultAddress, err)
	}
	return m, nil
}
