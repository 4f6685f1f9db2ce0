// Package di provides dependency injection for database connections.
package di

import (
	"fmt"

	"github.com/praxos/vaults/internal/config"
	"github.com/praxos/vaults/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens and migrates the vaults database when history
// persistence is enabled
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{Config: cfg}

	if !cfg.PersistHistory {
		log.Info().Msg("History persistence disabled, using in-memory stores")
		return container, nil
	}

	db, err := database.New(database.Config{
		Path:    cfg.DatabasePath(),
		Profile: database.ProfileDurable,
		Name:    "vaults",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vaults database: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate vaults database: %w", err)
	}

	container.DB = db
	log.Info().Str("path", db.Path()).Msg("Vaults database ready")

	return container, nil
}
