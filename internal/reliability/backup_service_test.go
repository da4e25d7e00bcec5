package reliability

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/damo1005/dealflow-properties-sub003/internal/database"
	testingpkg "github.com/damo1005/dealflow-properties-sub003/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory ObjectStore.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newMemStore(keys ...string) *memStore {
	s := &memStore{objects: map[string][]byte{}}
	for _, k := range keys {
		s.objects[k] = []byte("x")
	}
	return s
}

func (s *memStore) Upload(_ context.Context, key string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *memStore) List(_ context.Context, prefix string) ([]Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Object
	for k, v := range s.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, Object{Key: k, SizeBytes: int64(len(v))})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func untar(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	gz, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	tr := tar.NewReader(gz)

	files := map[string][]byte{}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		body, err := io.ReadAll(tr)
		require.NoError(t, err)
		files[hdr.Name] = body
	}
	return files
}

func TestCreateAndUploadBackup(t *testing.T) {
	db, cleanup := testingpkg.NewTestDB(t, "analyses")
	t.Cleanup(cleanup)

	store := newMemStore()
	svc := NewBackupService([]*database.DB{db}, store, t.TempDir(), zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 3, 0, 0, 0, time.UTC) }

	name, err := svc.CreateAndUploadBackup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "dealflow-backup-2024-06-01-030000.tar.gz", name)

	files := untar(t, store.objects[name])
	require.Contains(t, files, "analyses.db")
	require.Contains(t, files, "backup-metadata.json")
	assert.True(t, bytes.HasPrefix(files["analyses.db"], []byte("SQLite format 3")))

	var meta BackupMetadata
	require.NoError(t, json.Unmarshal(files["backup-metadata.json"], &meta))
	require.Len(t, meta.Databases, 1)
	assert.Equal(t, "analyses", meta.Databases[0].Name)
	assert.Equal(t, int64(len(files["analyses.db"])), meta.Databases[0].SizeBytes)
	assert.Equal(t, fmt.Sprintf("sha256:%x", sha256.Sum256(files["analyses.db"])), meta.Databases[0].Checksum)
}

func TestListBackups_NewestFirstAndFiltered(t *testing.T) {
	store := newMemStore(
		"dealflow-backup-2024-05-01-030000.tar.gz",
		"dealflow-backup-2024-06-01-030000.tar.gz",
		"dealflow-backup-garbage.tar.gz",
		"dealflow-backup-2024-05-15-030000.zip",
	)
	svc := NewBackupService(nil, store, t.TempDir(), zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2024, 6, 2, 3, 0, 0, 0, time.UTC) }

	backups, err := svc.ListBackups(context.Background())
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, "dealflow-backup-2024-06-01-030000.tar.gz", backups[0].Filename)
	assert.Equal(t, int64(24), backups[0].AgeHours)
	assert.Equal(t, "dealflow-backup-2024-05-01-030000.tar.gz", backups[1].Filename)
}

func TestRotateOldBackups(t *testing.T) {
	var keys []string
	for day := 1; day <= 6; day++ {
		keys = append(keys, fmt.Sprintf("dealflow-backup-2024-01-%02d-030000.tar.gz", day))
	}
	now := func() time.Time { return time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name          string
		keys          []string
		retentionDays int
		wantDeleted   int
	}{
		{"keeps everything with zero retention", keys, 0, 0},
		{"keeps minimum even when all are old", keys[:3], 1, 0},
		{"deletes old beyond the newest three", keys, 7, 2},
		{"deletes all old beyond the newest three", keys, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore(tt.keys...)
			svc := NewBackupService(nil, store, t.TempDir(), zerolog.Nop())
			svc.now = now

			deleted, err := svc.RotateOldBackups(context.Background(), tt.retentionDays)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDeleted, deleted)
			assert.Len(t, store.deleted, tt.wantDeleted)
			for _, k := range store.deleted {
				assert.NotContains(t, k, "2024-01-06")
			}
		})
	}
}
