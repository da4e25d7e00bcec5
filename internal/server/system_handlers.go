package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/damo1005/dealflow-properties-sub003/internal/api"
	"github.com/damo1005/dealflow-properties-sub003/internal/database"
	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
	"github.com/damo1005/dealflow-properties-sub003/internal/reliability"
	"github.com/damo1005/dealflow-properties-sub003/internal/scheduler"
)

// BackupLister lists the backups held in remote storage.
type BackupLister interface {
	ListBackups(ctx context.Context) ([]reliability.BackupInfo, error)
}

// JobRunner exposes the scheduler's registered jobs.
type JobRunner interface {
	Status() []scheduler.JobStatus
	RunNow(name string) error
}

// SystemHandlers handles system monitoring and operations endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	startupTime time.Time
	databases   []*database.DB
	jobs        JobRunner
	backups     BackupLister // nil when backups are disabled
	systemStats func() (cpuPercent, memPercent float64)
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(log zerolog.Logger, databases []*database.DB, jobs JobRunner, backups BackupLister) *SystemHandlers {
	h := &SystemHandlers{
		log:         log.With().Str("handler", "system").Logger(),
		startupTime: time.Now(),
		databases:   databases,
		jobs:        jobs,
		backups:     backups,
	}
	h.systemStats = h.getSystemStats
	return h
}

// RegisterRoutes registers system routes
func (h *SystemHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/system", func(r chi.Router) {
		r.Get("/status", h.HandleSystemStatus)
		r.Get("/databases", h.HandleDatabaseStats)
		r.Get("/jobs", h.HandleJobsStatus)
		r.Post("/jobs/{name}", h.HandleTriggerJob)
		r.Get("/backups", h.HandleListBackups)
	})
}

// SystemStatusResponse represents system status
type SystemStatusResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds int64   `json:"uptime_seconds"`
	Goroutines    int     `json:"goroutines"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	BackupsOn     bool    `json:"backups_enabled"`
	CheckedAt     string  `json:"checked_at"`
}

// DBInfo represents information about a single database
type DBInfo struct {
	Name         string  `json:"name"`
	Path         string  `json:"path"`
	SizeMB       float64 `json:"size_mb"`
	WALSizeMB    float64 `json:"wal_size_mb"`
	FreelistPage int64   `json:"freelist_pages"`
	Error        string  `json:"error,omitempty"`
}

// DatabaseStatsResponse represents database statistics
type DatabaseStatsResponse struct {
	Databases   []DBInfo `json:"databases"`
	TotalSizeMB float64  `json:"total_size_mb"`
	LastChecked string   `json:"last_checked"`
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, memPercent := h.systemStats()

	status := "healthy"
	for _, db := range h.databases {
		if err := db.HealthCheck(r.Context()); err != nil {
			h.log.Warn().Err(err).Str("database", db.Name()).Msg("Database health check failed")
			status = "degraded"
		}
	}

	api.WriteData(w, http.StatusOK, SystemStatusResponse{
		Status:        status,
		UptimeSeconds: int64(time.Since(h.startupTime).Seconds()),
		Goroutines:    runtime.NumGoroutine(),
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
		BackupsOn:     h.backups != nil,
		CheckedAt:     time.Now().Format(time.RFC3339),
	}, h.log)
}

// HandleDatabaseStats handles GET /api/system/databases
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	response := DatabaseStatsResponse{
		Databases:   make([]DBInfo, 0, len(h.databases)),
		LastChecked: time.Now().Format(time.RFC3339),
	}

	for _, db := range h.databases {
		info := DBInfo{Name: db.Name(), Path: db.Path()}
		stats, err := db.GetStats()
		if err != nil {
			h.log.Warn().Err(err).Str("database", db.Name()).Msg("Failed to get database stats")
			info.Error = err.Error()
		} else {
			info.SizeMB = bytesToMB(stats.SizeBytes)
			info.WALSizeMB = bytesToMB(stats.WALSizeBytes)
			info.FreelistPage = stats.FreelistCount
			response.TotalSizeMB += info.SizeMB + info.WALSizeMB
		}
		response.Databases = append(response.Databases, info)
	}

	api.WriteData(w, http.StatusOK, response, h.log)
}

// HandleJobsStatus handles GET /api/system/jobs
func (h *SystemHandlers) HandleJobsStatus(w http.ResponseWriter, r *http.Request) {
	jobs := h.jobs.Status()
	api.WriteData(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobs,
		"count": len(jobs),
	}, h.log)
}

// HandleTriggerJob runs a registered job immediately.
// POST /api/system/jobs/{name}
func (h *SystemHandlers) HandleTriggerJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	start := time.Now()

	if err := h.jobs.RunNow(name); err != nil {
		if errors.Is(err, scheduler.ErrUnknownJob) {
			api.WriteError(w, fmt.Errorf("%w: %v", domain.ErrNotFound, err), h.log)
			return
		}
		h.log.Error().Err(err).Str("job", name).Msg("Manually triggered job failed")
		api.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"status": "failed",
			"job":    name,
			"error":  err.Error(),
		}, h.log)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "success",
		"job":         name,
		"duration_ms": time.Since(start).Milliseconds(),
	}, h.log)
}

// HandleListBackups handles GET /api/system/backups
func (h *SystemHandlers) HandleListBackups(w http.ResponseWriter, r *http.Request) {
	if h.backups == nil {
		api.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "backups are not configured"}, h.log)
		return
	}

	backups, err := h.backups.ListBackups(r.Context())
	if err != nil {
		api.WriteError(w, err, h.log)
		return
	}
	api.WriteData(w, http.StatusOK, map[string]interface{}{
		"backups": backups,
		"count":   len(backups),
	}, h.log)
}

// getSystemStats samples CPU over 100ms so the status call stays fast.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil || len(cpuPercent) == 0 {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return cpuPercent[0], 0
	}

	return cpuPercent[0], memStat.UsedPercent
}

func bytesToMB(n int64) float64 {
	return float64(n) / 1024 / 1024
}
