package reliability

import (
	"context"
	"fmt"

	"github.com/damo1005/dealflow-properties-sub003/internal/database"
	"github.com/damo1005/dealflow-properties-sub003/internal/utils"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/disk"
)

// MinFreeDiskBytes is the free space below which maintenance refuses to VACUUM.
const MinFreeDiskBytes = 500 * 1000 * 1000

// MaintenanceJob checks integrity, checkpoints the WAL and vacuums every database.
type MaintenanceJob struct {
	databases []*database.DB
	dataDir   string
	freeSpace func(path string) (uint64, error)
	log       zerolog.Logger
}

// NewMaintenanceJob creates a maintenance job over databases stored in dataDir.
func NewMaintenanceJob(databases []*database.DB, dataDir string, log zerolog.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		databases: databases,
		dataDir:   dataDir,
		freeSpace: diskFree,
		log:       log.With().Str("job", "database_maintenance").Logger(),
	}
}

func diskFree(path string) (uint64, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return 0, err
	}
	return usage.Free, nil
}

// Name returns the job name
func (j *MaintenanceJob) Name() string {
	return "database_maintenance"
}

// Run executes the maintenance job. A failed integrity check aborts the run; checkpoint
// failures are logged and skipped.
func (j *MaintenanceJob) Run() error {
	j.log.Info().Msg("Starting database maintenance")
	elapsed := utils.OperationTimer("database_maintenance", utils.SlowOperation, j.log)
	ctx := context.Background()

	for _, db := range j.databases {
		if err := db.HealthCheck(ctx); err != nil {
			j.log.Error().Err(err).Str("database", db.Name()).Msg("Integrity check failed")
			return err
		}

		if _, err := db.Conn().ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
			j.log.Warn().Err(err).Str("database", db.Name()).Msg("WAL checkpoint failed")
		}
	}

	free, err := j.freeSpace(j.dataDir)
	if err != nil {
		return fmt.Errorf("failed to read free disk space: %w", err)
	}
	if free < MinFreeDiskBytes {
		j.log.Error().Uint64("free_bytes", free).Msg("Insufficient disk space, skipping VACUUM")
		return fmt.Errorf("only %d bytes free in %s", free, j.dataDir)
	}

	for _, db := range j.databases {
		if err := j.vacuum(ctx, db); err != nil {
			return err
		}
	}

	j.log.Info().Dur("duration_ms", elapsed()).Msg("Database maintenance completed")
	return nil
}

func (j *MaintenanceJob) vacuum(ctx context.Context, db *database.DB) error {
	before, err := db.GetStats()
	if err != nil {
		return err
	}

	if _, err := db.Conn().ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("VACUUM failed for %s: %w", db.Name(), err)
	}

	after, err := db.GetStats()
	if err != nil {
		return err
	}
	j.log.Info().
		Str("database", db.Name()).
		Int64("size_before", before.SizeBytes).
		Int64("size_after", after.SizeBytes).
		Msg("VACUUM completed")
	return nil
}
