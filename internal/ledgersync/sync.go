// Package ledgersync keeps the translation table in step with the ledgers
// defined in Tally.
package ledgersync

import (
	"context"
	"fmt"
	"time"

	"github.com/ginjaninja78/tally-kannada-pnl/internal/ledgermap"
	"github.com/ginjaninja78/tally-kannada-pnl/internal/logging"
	"github.com/ginjaninja78/tally-kannada-pnl/pkg/utils"
)

// LedgerSource lists ledger names. *tally.Client implements it.
type LedgerSource interface {
	FetchLedgerNames(ctx context.Context) ([]string, error)
}

// Result summarizes a sync run.
type Result struct {
	// Fetched is the number of names Tally returned.
	Fetched int

	// Added lists the names appended to the table.
	Added []string

	// Saved is true when the table file was rewritten.
	Saved bool
}

// Syncer merges Tally's ledger list into the translation table file.
type Syncer struct {
	source      LedgerSource
	mappingPath string
	logPath     string
	logger      logging.Logger
	now         func() time.Time
}

// NewSyncer creates a Syncer.
func NewSyncer(source LedgerSource, mappingPath, logPath string, logger logging.Logger) *Syncer {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Syncer{
		source:      source,
		mappingPath: mappingPath,
		logPath:     logPath,
		logger:      logger,
		now:         time.Now,
	}
}

// Sync fetches the ledger list, adds unseen names to the table and, only
// if something was added, saves the sorted table and appends a log entry.
//
// The returned table is ready for lookups without re-reading the file.
// When Tally is unreachable the error wraps tally.ErrUnreachable and the
// table file is not touched.
func (s *Syncer) Sync(ctx context.Context) (*ledgermap.Table, Result, error) {
	var res Result

	s.logger.Info("Syncing ledgers from Tally...")
	names, err := s.source.FetchLedgerNames(ctx)
	if err != nil {
		return nil, res, err
	}
	res.Fetched = len(names)
	s.logger.Info("Received %d ledgers from Tally", len(names))

	table, err := ledgermap.Load(s.mappingPath)
	if err != nil {
		return nil, res, fmt.Errorf("failed to load mapping: %w", err)
	}
	if table.Recreated {
		s.logger.Warn("Mapping file %s missing or without %s/%s columns; starting a new table",
			s.mappingPath, ledgermap.EnglishColumn, ledgermap.KannadaColumn)
	}

	res.Added = table.Merge(names)
	if len(res.Added) == 0 {
		s.logger.Info("No new ledgers; mapping file already up-to-date")
		return table, res, nil
	}

	s.logger.Info("Found %d new ledgers; updating mapping file", len(res.Added))
	table.Sort()
	if err := table.Save(s.mappingPath); err != nil {
		return nil, res, err
	}
	res.Saved = true

	if err := utils.AppendSyncLog(s.logPath, utils.SyncLogEntry{
		Timestamp: s.now(),
		Added:     res.Added,
	}); err != nil {
		// The table is already saved; a lost log entry does not invalidate it.
		s.logger.Warn("Failed to append sync log: %v", err)
	}

	s.logger.Info("Mapping updated -> %s", s.mappingPath)
	return table, res, nil
}
