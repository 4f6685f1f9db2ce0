package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/praxos/vaults/internal/database"
	"github.com/praxos/vaults/internal/modules/allocation"
	"github.com/praxos/vaults/internal/scheduler"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemStatusResponse represents system status
type SystemStatusResponse struct {
	Status         string  `json:"status"`
	UptimeSeconds  int64   `json:"uptime_seconds"`
	CPUPercent     float64 `json:"cpu_percent"`
	MemoryPercent  float64 `json:"memory_percent"`
	StrategyCount  int     `json:"strategy_count"`
	PersistHistory bool    `json:"persist_history"`
	ExportEnabled  bool    `json:"export_enabled"`
	LastChecked    string  `json:"last_checked"`
}

// JobInfo describes a registered background job
type JobInfo struct {
	Name string `json:"name"`
}

// JobsStatusResponse lists registered jobs
type JobsStatusResponse struct {
	TotalJobs int       `json:"total_jobs"`
	Jobs      []JobInfo `json:"jobs"`
}

// StrategyCounter reports stored strategies per strategy id
type StrategyCounter interface {
	CountByStrategy(ctx context.Context) (map[string]int, error)
}

// SystemHandlers handles system-wide monitoring and operations endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	startupTime time.Time
	db          *database.DB
	service     *allocation.Service
	jobs        map[string]scheduler.Job
	counter     StrategyCounter
	exportJob   bool
	systemStats func() (float64, float64)
}

// NewSystemHandlers creates a new system handlers instance. db may be nil
// when persistence is disabled.
func NewSystemHandlers(
	db *database.DB,
	service *allocation.Service,
	jobs map[string]scheduler.Job,
	log zerolog.Logger,
) *SystemHandlers {
	if jobs == nil {
		jobs = map[string]scheduler.Job{}
	}
	h := &SystemHandlers{
		log:         log.With().Str("handler", "system").Logger(),
		startupTime: time.Now(),
		db:          db,
		service:     service,
		jobs:        jobs,
	}
	_, h.exportJob = jobs["strategy_export"]
	h.systemStats = h.getSystemStats
	return h
}

// HandleSystemStatus returns uptime, host load and strategy counts
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, memPercent := h.systemStats()

	h.writeJSON(w, http.StatusOK, SystemStatusResponse{
		Status:         "healthy",
		UptimeSeconds:  int64(time.Since(h.startupTime).Seconds()),
		CPUPercent:     cpuPercent,
		MemoryPercent:  memPercent,
		StrategyCount:  len(h.service.Strategies()),
		PersistHistory: h.db != nil,
		ExportEnabled:  h.exportJob,
		LastChecked:    time.Now().Format(time.RFC3339),
	})
}

// HandleDatabaseStats returns vaults database statistics
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		h.writeJSON(w, http.StatusOK, map[string]interface{}{
			"enabled": false,
		})
		return
	}

	stats, err := h.db.GetStats()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get database stats")
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to get database stats"})
		return
	}

	response := map[string]interface{}{
		"enabled": true,
		"name":    h.db.Name(),
		"path":    h.db.Path(),
		"stats":   stats,
	}
	if h.counter != nil {
		counts, err := h.counter.CountByStrategy(r.Context())
		if err != nil {
			h.log.Warn().Err(err).Msg("Failed to count stored strategies")
		} else {
			response["strategies_by_id"] = counts
		}
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleJobsStatus lists the registered background jobs
func (h *SystemHandlers) HandleJobsStatus(w http.ResponseWriter, r *http.Request) {
	jobs := make([]JobInfo, 0, len(h.jobs))
	for name := range h.jobs {
		jobs = append(jobs, JobInfo{Name: name})
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Name < jobs[j].Name })

	h.writeJSON(w, http.StatusOK, JobsStatusResponse{
		TotalJobs: len(jobs),
		Jobs:      jobs,
	})
}

// HandleTriggerJob runs a registered job immediately
// POST /api/system/jobs/{name}
func (h *SystemHandlers) HandleTriggerJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	job, ok := h.jobs[name]
	if !ok {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "Unknown job: " + name})
		return
	}

	h.log.Info().Str("job", name).Msg("Manually triggering job")
	if err := job.Run(); err != nil {
		h.log.Error().Err(err).Str("job", name).Msg("Job failed")
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"job":     name,
			"message": err.Error(),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"status": "success",
		"job":    name,
	})
}

// getSystemStats calculates CPU and RAM usage percentages
// Uses a short interval (100ms) so status calls stay fast
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
