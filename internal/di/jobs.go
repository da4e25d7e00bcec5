package di

import (
	"fmt"

	"github.com/damo1005/dealflow-properties-sub003/internal/config"
	"github.com/damo1005/dealflow-properties-sub003/internal/reliability"
	"github.com/damo1005/dealflow-properties-sub003/internal/scheduler"
	"github.com/rs/zerolog"
)

// Job schedules (standard five-field cron).
const (
	pruneSchedule       = "30 2 * * *"
	maintenanceSchedule = "0 4 * * 0"
	walCheckSchedule    = "*/30 * * * *"
)

// RegisterJobs creates the scheduler and registers the background jobs with it.
// Returns JobInstances for manual triggering via API.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}

	sched := scheduler.New(log)
	instances := &JobInstances{
		PruneAnalyses:       scheduler.NewPruneAnalysesJob(container.AnalysisRepo, cfg.AnalysisRetentionDays, log),
		Maintenance:         reliability.NewMaintenanceJob(container.Databases(), cfg.DataDir, log),
		CheckWALCheckpoints: scheduler.NewCheckWALCheckpointsJob(container.Databases(), log),
	}

	registrations := []struct {
		schedule string
		job      scheduler.Job
	}{
		{pruneSchedule, instances.PruneAnalyses},
		{maintenanceSchedule, instances.Maintenance},
		{walCheckSchedule, instances.CheckWALCheckpoints},
	}

	if container.BackupService != nil && cfg.BackupSchedule != "" {
		instances.Backup = scheduler.NewBackupJob(container.BackupService, cfg.AnalysisRetentionDays, log)
		registrations = append(registrations, struct {
			schedule string
			job      scheduler.Job
		}{cfg.BackupSchedule, instances.Backup})
	}

	for _, reg := range registrations {
		if err := sched.AddJob(reg.schedule, reg.job); err != nil {
			return nil, fmt.Errorf("failed to register job %s: %w", reg.job.Name(), err)
		}
	}

	container.Scheduler = sched
	return instances, nil
}
