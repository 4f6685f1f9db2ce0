package scheduler

import (
	"context"
	"time"

	"github.com/praxos/vaults/internal/reliability"
)

// ExportJob uploads a snapshot of the strategy history
type ExportJob struct {
	exporter *reliability.ExportService
	timeout  time.Duration
}

// NewExportJob creates a new export job
func NewExportJob(exporter *reliability.ExportService) *ExportJob {
	return &ExportJob{
		exporter: exporter,
		timeout:  2 * time.Minute,
	}
}

// Name returns the job name
func (j *ExportJob) Name() string {
	return "strategy_export"
}

// Run executes the export
func (j *ExportJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	_, err := j.exporter.ExportStrategies(ctx)
	return err
}
