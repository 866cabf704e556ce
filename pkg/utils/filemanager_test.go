package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAppendSyncLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output", "updated_mapping_log.txt")
	ts := time.Date(2024, time.March, 15, 10, 4, 5, 0, time.UTC)

	require.NoError(t, AppendSyncLog(path, SyncLogEntry{
		RunID:     "run-1",
		Timestamp: ts,
		Added:     []string{"Rent Received", "Salary"},
	}))
	require.NoError(t, AppendSyncLog(path, SyncLogEntry{
		RunID:     "run-2",
		Timestamp: ts,
		Added:     []string{"Electricity"},
	}))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	want := "\n--- Sync Run 2024-03-15 10:04:05 (run-1) ---\n" +
		"Added 2 ledgers:\n  Rent Received\n  Salary\n" +
		"\n--- Sync Run 2024-03-15 10:04:05 (run-2) ---\n" +
		"Added 1 ledgers:\n  Electricity\n"
	require.Equal(t, want, string(got))
}

func TestAppendSyncLogSkipsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	require.NoError(t, AppendSyncLog(path, SyncLogEntry{}))
	require.False(t, FileExists(path))
}

func TestAppendSyncLogGeneratesRunID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	require.NoError(t, AppendSyncLog(path, SyncLogEntry{Added: []string{"Cash"}}))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Regexp(t, `--- Sync Run \d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} \([0-9a-f-]{36}\) ---`, string(got))
}
