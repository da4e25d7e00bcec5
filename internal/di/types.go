// Package di provides dependency injection type definitions.
package di

import (
	"github.com/damo1005/dealflow-properties-sub003/internal/cache"
	"github.com/damo1005/dealflow-properties-sub003/internal/database"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/analyses"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/deal"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/goalseek"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/simulation"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/tax"
	"github.com/damo1005/dealflow-properties-sub003/internal/reliability"
	"github.com/damo1005/dealflow-properties-sub003/internal/scheduler"
)

// Container holds all dependencies for the application.
//
// It is created by Wire and passed to the server, which mounts handlers over the services.
// BackupService is nil when no S3 bucket is configured.
type Container struct {
	// Databases
	AnalysesDB *database.DB

	// Calculation services
	TaxCalculator    *tax.Calculator
	DealCalculator   *deal.Calculator
	SimulationEngine *simulation.Engine
	GoalSeekEngine   *goalseek.Engine

	// Storage
	AnalysisRepo *analyses.Repository
	Cache        cache.Cache

	// Reliability
	BackupService *reliability.BackupService

	Scheduler *scheduler.Scheduler

	closers []func() error
}

// Databases returns every open database, for jobs that operate on all of them.
func (c *Container) Databases() []*database.DB {
	return []*database.DB{c.AnalysesDB}
}

// JobInstances holds the registered background jobs for manual triggering.
type JobInstances struct {
	PruneAnalyses       scheduler.Job
	Maintenance         scheduler.Job
	CheckWALCheckpoints scheduler.Job
	Backup              scheduler.Job // nil when backups are disabled
}
