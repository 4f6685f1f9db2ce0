// Package di provides dependency injection type definitions.
package di

import (
	"github.com/praxos/vaults/internal/config"
	"github.com/praxos/vaults/internal/database"
	"github.com/praxos/vaults/internal/events"
	"github.com/praxos/vaults/internal/metrics"
	"github.com/praxos/vaults/internal/modules/allocation"
	"github.com/praxos/vaults/internal/modules/metadata"
	"github.com/praxos/vaults/internal/modules/recommendation"
	"github.com/praxos/vaults/internal/modules/risk"
	"github.com/praxos/vaults/internal/reliability"
	"github.com/praxos/vaults/internal/scheduler"
)

// Container holds all dependencies for the application.
//
// DB is nil when history persistence is disabled; repositories then fall
// back to in-memory stores. ExportService is nil when object storage is not
// configured.
type Container struct {
	Config *config.Config

	// Database
	DB *database.DB

	// Events
	EventBus     *events.Bus
	EventManager *events.Manager

	// Observability
	Metrics *metrics.Registry

	// Repositories
	HistoryStore  allocation.HistoryStore
	MetadataStore metadata.Store

	// Services
	Simulator         risk.Simulator
	Engine            *allocation.Engine
	AllocationService *allocation.Service
	Ranker            *recommendation.Ranker
	ExportService     *reliability.ExportService

	// Background jobs
	Scheduler *scheduler.Scheduler
}

// JobInstances holds the registered jobs for manual triggering
type JobInstances struct {
	Export      scheduler.Job // nil when export is disabled
	Maintenance scheduler.Job // nil when persistence is disabled
}

// All returns the non-nil jobs keyed by name
func (j *JobInstances) All() map[string]scheduler.Job {
	out := make(map[string]scheduler.Job)
	if j == nil {
		return out
	}
	for _, job := range []scheduler.Job{j.Export, j.Maintenance} {
		if job != nil {
			out[job.Name()] = job
		}
	}
	return out
}

// Close releases resources held by the container
func (c *Container) Close() error {
	if c == nil || c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
