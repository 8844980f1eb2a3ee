package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"namegen/internal/models"
	"namegen/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, records []models.Record) (*Service, *store.Store) {
	t.Helper()
	s := store.New(filepath.Join(t.TempDir(), "data.json"), records)
	t.Cleanup(func() { s.Close() })

	svc := NewService(s)
	svc.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 30, 0, time.UTC) }
	return svc, s
}

func seed() []models.Record {
	return []models.Record{
		{Type: "core", StateID: 1, StateName: "One", Provinces: []models.Province{{ID: 3, Name: "Three"}}},
		{Type: "alt", StateID: 2, StateName: "Two", Provinces: []models.Province{}},
	}
}

func TestBackupAndRestoreJSON(t *testing.T) {
	svc, s := newService(t, seed())
	out := t.TempDir()

	path, err := svc.BackupStore(out, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "backup_records_20240309_140530.json"), path)
	require.NoError(t, svc.ValidateBackupFile(path, FormatJSON))

	require.NoError(t, s.Replace(nil))
	n, err := svc.RestoreStore(path, FormatJSON, false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// JSON snapshots are written sorted, like the data file
	got := s.Records()
	assert.Equal(t, "alt", got[0].Type)
	assert.Equal(t, "core", got[1].Type)
}

func TestBackupAndRestoreCSVMerge(t *testing.T) {
	svc, s := newService(t, seed())

	path, err := svc.BackupStore(t.TempDir(), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, ".csv", filepath.Ext(path))

	n, err := svc.RestoreStore(path, FormatCSV, true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 4, s.Len())

	got := s.Records()
	assert.Equal(t, got[0], got[2])
}

func TestBackupInvalidFormat(t *testing.T) {
	svc, _ := newService(t, nil)
	_, err := svc.BackupStore(t.TempDir(), "bson")
	assert.Error(t, err)
}

func TestValidateBackupFile(t *testing.T) {
	svc, _ := newService(t, nil)
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	assert.Error(t, svc.ValidateBackupFile(empty, FormatJSON))

	csvFile := filepath.Join(dir, "x.csv")
	require.NoError(t, os.WriteFile(csvFile, []byte("type\n"), 0644))
	assert.Error(t, svc.ValidateBackupFile(csvFile, FormatJSON))
	assert.NoError(t, svc.ValidateBackupFile(csvFile, FormatCSV))

	assert.Error(t, svc.ValidateBackupFile(filepath.Join(dir, "missing.json"), FormatJSON))
}

func TestDetectFormat(t *testing.T) {
	f, err := DetectFormat("data.json.bak")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = DetectFormat("states.CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = DetectFormat("states.txt")
	assert.Error(t, err)
}

func TestRestoreCorruptJSON(t *testing.T) {
	svc, s := newService(t, seed())
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("[{"), 0644))

	_, err := svc.RestoreStore(path, FormatJSON, false)
	assert.ErrorIs(t, err, store.ErrCorrupt)
	assert.Equal(t, 2, s.Len())
}
