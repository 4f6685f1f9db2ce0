// Package di provides service initialization for dependency injection.
package di

import (
	"context"
	"fmt"
	"time"

	"github.com/praxos/vaults/internal/config"
	"github.com/praxos/vaults/internal/events"
	"github.com/praxos/vaults/internal/metrics"
	"github.com/praxos/vaults/internal/modules/allocation"
	"github.com/praxos/vaults/internal/modules/metadata"
	"github.com/praxos/vaults/internal/modules/recommendation"
	"github.com/praxos/vaults/internal/modules/risk"
	"github.com/praxos/vaults/internal/reliability"
	"github.com/rs/zerolog"
)

// InitializeServices creates repositories and services and restores
// persisted history into the engine
func InitializeServices(ctx context.Context, container *Container, cfg *config.Config, log zerolog.Logger) error {
	container.EventBus = events.NewBus(log)
	container.EventManager = events.NewManager(container.EventBus, log)
	container.Metrics = metrics.New()

	// Repositories
	if container.DB != nil {
		container.HistoryStore = allocation.NewRepository(container.DB.Conn(), log)
		container.MetadataStore = metadata.NewRepository(container.DB.Conn(), log)
	} else {
		container.HistoryStore = allocation.NoopHistoryStore{}
		container.MetadataStore = metadata.NewMemoryStore()
	}

	// Allocation pipeline
	container.Simulator = risk.NewHeuristicSimulator(log)
	container.Engine = allocation.NewEngine(allocation.DefaultCatalog(), log)
	container.AllocationService = allocation.NewService(
		container.Engine,
		container.Simulator,
		container.HistoryStore,
		container.EventManager,
		log,
	)
	container.AllocationService.SetRecorder(container.Metrics)
	container.Ranker = recommendation.NewRanker(log)

	restoreCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := container.AllocationService.Restore(restoreCtx); err != nil {
		return fmt.Errorf("failed to restore strategy history: %w", err)
	}

	// Export (optional)
	if cfg.Export.Enabled() {
		uploader, err := reliability.NewS3Uploader(ctx, cfg.Export, log)
		if err != nil {
			return fmt.Errorf("failed to create export uploader: %w", err)
		}
		container.ExportService = reliability.NewExportService(
			container.AllocationService,
			uploader,
			container.EventManager,
			cfg.Export.Prefix,
			log,
		)
		container.ExportService.SetRecorder(container.Metrics)
	} else {
		log.Info().Msg("Strategy export disabled (no bucket or credentials)")
	}

	return nil
}
