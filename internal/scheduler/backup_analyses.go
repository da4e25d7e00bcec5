package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Backuper creates remote backups and rotates old ones.
type Backuper interface {
	CreateAndUploadBackup(ctx context.Context) (string, error)
	RotateOldBackups(ctx context.Context, retentionDays int) (int, error)
}

// BackupJob uploads a database backup and rotates expired ones
type BackupJob struct {
	backups       Backuper
	retentionDays int
	timeout       time.Duration
	log           zerolog.Logger
}

// NewBackupJob creates a new BackupJob
func NewBackupJob(backups Backuper, retentionDays int, log zerolog.Logger) *BackupJob {
	return &BackupJob{
		backups:       backups,
		retentionDays: retentionDays,
		timeout:       30 * time.Minute,
		log:           log.With().Str("job", "backup_analyses").Logger(),
	}
}

// Name returns the job name
func (j *BackupJob) Name() string {
	return "backup_analyses"
}

// Run executes the backup job. Rotation failures are logged but do not fail the job once
// the new backup is safely uploaded.
func (j *BackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if _, err := j.backups.CreateAndUploadBackup(ctx); err != nil {
		return err
	}

	if _, err := j.backups.RotateOldBackups(ctx, j.retentionDays); err != nil {
		j.log.Warn().Err(err).Msg("Backup rotation failed")
	}
	return nil
}
