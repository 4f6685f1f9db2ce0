// Package di provides job registration for dependency injection.
package di

import (
	"fmt"

	"github.com/praxos/vaults/internal/config"
	"github.com/praxos/vaults/internal/reliability"
	"github.com/praxos/vaults/internal/scheduler"
	"github.com/rs/zerolog"
)

// maintenanceSchedule runs database maintenance daily at 02:00
const maintenanceSchedule = "0 0 2 * * *"

// RegisterJobs creates the scheduler and registers background jobs.
// The scheduler is not started here.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	sched := scheduler.New(log)
	container.Scheduler = sched

	instances := &JobInstances{}

	if container.ExportService != nil {
		exportJob := scheduler.NewExportJob(container.ExportService)
		if err := sched.AddJob(cfg.ExportSchedule, exportJob); err != nil {
			return nil, fmt.Errorf("failed to register export job: %w", err)
		}
		instances.Export = exportJob
	}

	if container.DB != nil {
		maintenanceJob := reliability.NewMaintenanceJob(container.DB, cfg.DataDir, log)
		if err := sched.AddJob(maintenanceSchedule, maintenanceJob); err != nil {
			return nil, fmt.Errorf("failed to register maintenance job: %w", err)
		}
		instances.Maintenance = maintenanceJob
	}

	log.Info().Int("jobs", len(instances.All())).Msg("Jobs registered")

	return instances, nil
}
