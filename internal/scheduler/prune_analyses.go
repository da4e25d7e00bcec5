package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// AnalysisPruner deletes analyses created before a cutoff.
type AnalysisPruner interface {
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// PruneAnalysesJob deletes saved analyses older than the retention period
type PruneAnalysesJob struct {
	pruner        AnalysisPruner
	retentionDays int
	now           func() time.Time
	log           zerolog.Logger
}

// NewPruneAnalysesJob creates a new PruneAnalysesJob. A retention of 0 disables pruning.
func NewPruneAnalysesJob(pruner AnalysisPruner, retentionDays int, log zerolog.Logger) *PruneAnalysesJob {
	return &PruneAnalysesJob{
		pruner:        pruner,
		retentionDays: retentionDays,
		now:           time.Now,
		log:           log.With().Str("job", "prune_analyses").Logger(),
	}
}

// Name returns the job name
func (j *PruneAnalysesJob) Name() string {
	return "prune_analyses"
}

// Run executes the prune job
func (j *PruneAnalysesJob) Run() error {
	if j.retentionDays <= 0 {
		return nil
	}

	cutoff := j.now().AddDate(0, 0, -j.retentionDays)
	deleted, err := j.pruner.PruneOlderThan(context.Background(), cutoff)
	if err != nil {
		return err
	}

	j.log.Info().
		Int64("deleted", deleted).
		Time("cutoff", cutoff).
		Msg("Pruned old analyses")
	return nil
}
