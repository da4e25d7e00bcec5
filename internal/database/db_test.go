package database

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T, name string) *DB {
	t.Helper()
	db, err := New(Config{Path: filepath.Join(t.TempDir(), name+".db"), Name: name})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNew_AppliesPragmas(t *testing.T) {
	db := newDB(t, "analyses")

	var journalMode string
	require.NoError(t, db.Conn().QueryRow(`PRAGMA journal_mode`).Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var synchronous int
	require.NoError(t, db.Conn().QueryRow(`PRAGMA synchronous`).Scan(&synchronous))
	assert.Equal(t, 1, synchronous) // NORMAL

	var busyTimeout int
	require.NoError(t, db.Conn().QueryRow(`PRAGMA busy_timeout`).Scan(&busyTimeout))
	assert.Equal(t, 5000, busyTimeout)
}

func TestMigrate_CreatesAnalysesTableIdempotently(t *testing.T) {
	db := newDB(t, "analyses")

	require.NoError(t, db.Migrate())
	require.NoError(t, db.Migrate())

	var count int
	err := db.Conn().QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'analyses'`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMigrate_UnknownNameIsNoop(t *testing.T) {
	db := newDB(t, "scratch")
	assert.NoError(t, db.Migrate())
}

func TestWithTransaction(t *testing.T) {
	db := newDB(t, "scratch")
	_, err := db.Conn().Exec(`CREATE TABLE items (name TEXT)`)
	require.NoError(t, err)

	ctx := context.Background()
	err = WithTransaction(ctx, db.Conn(), func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO items VALUES ('kept')`)
		return err
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = WithTransaction(ctx, db.Conn(), func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO items VALUES ('dropped')`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = WithTransaction(ctx, db.Conn(), func(tx *sql.Tx) error {
		_, _ = tx.Exec(`INSERT INTO items VALUES ('panicked')`)
		panic("bad")
	})
	assert.ErrorContains(t, err, "panic in transaction")

	var count int
	require.NoError(t, db.Conn().QueryRow(`SELECT COUNT(*) FROM items`).Scan(&count))
	assert.Equal(t, 1, count)

	assert.Error(t, WithTransaction(ctx, nil, func(*sql.Tx) error { return nil }))
}

func TestHealthCheckAndStats(t *testing.T) {
	db := newDB(t, "analyses")
	require.NoError(t, db.Migrate())

	require.NoError(t, db.HealthCheck(context.Background()))

	stats, err := db.GetStats()
	require.NoError(t, err)
	assert.Greater(t, stats.PageCount, int64(0))
	assert.Greater(t, stats.PageSize, int64(0))
}

func TestVacuumInto(t *testing.T) {
	db := newDB(t, "analyses")
	require.NoError(t, db.Migrate())

	dest := filepath.Join(t.TempDir(), "snapshot.db")
	require.NoError(t, db.VacuumInto(context.Background(), dest))

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	assert.Error(t, db.VacuumInto(context.Background(), dest), "existing destination is rejected")
}
