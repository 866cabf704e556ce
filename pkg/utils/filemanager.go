// =============================================================================
// Kannada P&L Generator - File Manager Utility
// =============================================================================
//
// This module provides small file utilities shared by the pipeline stages:
//   - Directory management
//   - Sync log entries (append-only audit of ledger additions)
//   - File existence checks
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// =============================================================================
// SYNC LOG
// =============================================================================

// SyncLogEntry is one ledger sync run that added names.
type SyncLogEntry struct {
	// RunID identifies the run across log lines. Generated when empty.
	RunID string

	// Timestamp is when the sync ran.
	Timestamp time.Time

	// Added lists the new English ledger names.
	Added []string
}

// AppendSyncLog appends an entry to the sync log at logPath.
//
// Entries look like:
//
//	--- Sync Run 2024-03-15 10:04:05 (5f0c...) ---
//	Added 2 ledgers:
//	  Rent Received
//	  Salary
//
// Entries with no additions are not written.
func AppendSyncLog(logPath string, entry SyncLogEntry) error {
	if len(entry.Added) == 0 {
		return nil
	}
	if entry.RunID == "" {
		entry.RunID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	if err := EnsureParentDir(logPath); err != nil {
		return err
	}

	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open sync log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	fmt.Fprintf(writer, "\n--- Sync Run %s (%s) ---\n",
		entry.Timestamp.Format("2006-01-02 15:04:05"), entry.RunID)
	fmt.Fprintf(writer, "Added %d ledgers:\n", len(entry.Added))
	for _, name := range entry.Added {
		fmt.Fprintf(writer, "  %s\n", name)
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush sync log: %w", err)
	}
	return nil
}
