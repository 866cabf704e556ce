package ledgersync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/tally-kannada-pnl/internal/ledgermap"
	"github.com/ginjaninja78/tally-kannada-pnl/internal/tally"
)

type stubSource struct {
	names []string
	err   error
	calls int
}

func (s *stubSource) FetchLedgerNames(context.Context) ([]string, error) {
	s.calls++
	return s.names, s.err
}

func newTestSyncer(t *testing.T, src LedgerSource) (*Syncer, string, string) {
	t.Helper()
	dir := t.TempDir()
	mapping := filepath.Join(dir, "config", "ledger_mapping.xlsx")
	logPath := filepath.Join(dir, "output", "updated_mapping_log.txt")
	s := NewSyncer(src, mapping, logPath, nil)
	s.now = func() time.Time { return time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC) }
	return s, mapping, logPath
}

func TestSyncCreatesTableAndLog(t *testing.T) {
	src := &stubSource{names: []string{"Salary", "Cash", "Rent Received"}}
	s, mapping, logPath := newTestSyncer(t, src)

	table, res, err := s.Sync(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, res.Fetched)
	require.Equal(t, []string{"Salary", "Cash", "Rent Received"}, res.Added)
	require.True(t, res.Saved)

	require.Equal(t, []ledgermap.Row{
		{English: "Cash", Kannada: "Cash"},
		{English: "Rent Received", Kannada: "Rent Received"},
		{English: "Salary", Kannada: "Salary"},
	}, table.Rows)

	reloaded, err := ledgermap.Load(mapping)
	require.NoError(t, err)
	require.Equal(t, table.Rows, reloaded.Rows)

	log, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Contains(t, string(log), "Added 3 ledgers:\n  Salary\n  Cash\n  Rent Received\n")
	require.Contains(t, string(log), "2024-03-15 09:00:00")
}

func TestSyncTwiceLeavesFilesUnchanged(t *testing.T) {
	src := &stubSource{names: []string{"Cash", "Salary"}}
	s, mapping, logPath := newTestSyncer(t, src)

	_, _, err := s.Sync(context.Background())
	require.NoError(t, err)

	mappingBefore, err := os.ReadFile(mapping)
	require.NoError(t, err)
	logBefore, err := os.ReadFile(logPath)
	require.NoError(t, err)

	src.names = []string{"CASH", "salary"}
	table, res, err := s.Sync(context.Background())
	require.NoError(t, err)
	require.Empty(t, res.Added)
	require.False(t, res.Saved)
	require.Equal(t, 2, table.Len())

	mappingAfter, err := os.ReadFile(mapping)
	require.NoError(t, err)
	logAfter, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Equal(t, mappingBefore, mappingAfter)
	require.Equal(t, logBefore, logAfter)
}

func TestSyncKeepsExistingTranslations(t *testing.T) {
	src := &stubSource{names: []string{"Rent Received", "Salary"}}
	s, mapping, _ := newTestSyncer(t, src)

	existing := ledgermap.New()
	existing.Merge([]string{"Rent Received"})
	existing.Set("Rent Received", "ಬಾಡಿಗೆ ಆದಾಯ")
	require.NoError(t, existing.Save(mapping))

	table, res, err := s.Sync(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"Salary"}, res.Added)

	kn, ok := table.Lookup("rent received")
	require.True(t, ok)
	require.Equal(t, "ಬಾಡಿಗೆ ಆದಾಯ", kn)
}

func TestSyncUnreachableTouchesNothing(t *testing.T) {
	src := &stubSource{err: fmt.Errorf("%w: connection refused", tally.ErrUnreachable)}
	s, mapping, logPath := newTestSyncer(t, src)

	table, _, err := s.Sync(context.Background())
	require.ErrorIs(t, err, tally.ErrUnreachable)
	require.Nil(t, table)
	require.NoFileExists(t, mapping)
	require.NoFileExists(t, logPath)
}
