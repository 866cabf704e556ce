package tally

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/tally-kannada-pnl/internal/period"
)

const ledgerListResponse = `<LEDGERLIST>
  <LEDGER><NAME>Cash</NAME></LEDGER>
  <LEDGER><NAME> Rent Received </NAME></LEDGER>
  <LEDGER><NAME></NAME></LEDGER>
  <LEDGER><NAME>Salary</NAME></LEDGER>
</LEDGERLIST>`

const pnlResponse = `<ENVELOPE><DSPDISPNAME>Direct Incomes</DSPDISPNAME></ENVELOPE>`

// fakeTally records the last POST body and answers by request kind.
type fakeTally struct {
	lastBody string
	status   int
}

func (f *fakeTally) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if f.status != 0 {
		w.WriteHeader(f.status)
		return
	}
	if r.Method == http.MethodGet {
		_, _ = io.WriteString(w, "<RESPONSE>TallyPrime Server is Running</RESPONSE>")
		return
	}
	b, _ := io.ReadAll(r.Body)
	f.lastBody = string(b)
	if strings.Contains(f.lastBody, LedgerListReport) {
		_, _ = io.WriteString(w, ledgerListResponse)
		return
	}
	_, _ = io.WriteString(w, pnlResponse)
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, time.Second, 5*time.Second, nil)
}

func TestPing(t *testing.T) {
	ctx := context.Background()

	c := newTestClient(t, &fakeTally{})
	require.NoError(t, c.Ping(ctx))

	c = newTestClient(t, &fakeTally{status: http.StatusServiceUnavailable})
	require.ErrorIs(t, c.Ping(ctx), ErrUnreachable)
}

func TestPingClosedPort(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, 200*time.Millisecond, 0, nil)
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnreachable)
}

func TestFetchLedgerNames(t *testing.T) {
	fake := &fakeTally{}
	c := newTestClient(t, fake)

	names, err := c.FetchLedgerNames(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"Cash", "Rent Received", "Salary"}, names)
	require.Contains(t, fake.lastBody, "<ID>SimpleLedgerList</ID>")
	require.Contains(t, fake.lastBody, "<SVEXPORTFORMAT>$$SysName:XML</SVEXPORTFORMAT>")
}

func TestExportProfitAndLossEnvelope(t *testing.T) {
	fake := &fakeTally{}
	c := newTestClient(t, fake)
	r, err := period.ParseRange("01-04-2024", "31-03-2025")
	require.NoError(t, err)

	body, err := c.ExportProfitAndLoss(context.Background(), r)
	require.NoError(t, err)
	require.Equal(t, pnlResponse, string(body))

	require.Contains(t, fake.lastBody, "<REPORTNAME>Profit and Loss</REPORTNAME>")
	require.Contains(t, fake.lastBody, "<SVFROMDATE>20240401</SVFROMDATE>")
	require.Contains(t, fake.lastBody, "<SVTODATE>20250331</SVTODATE>")
	require.Contains(t, fake.lastBody, "<EXPLODEFLAG>Yes</EXPLODEFLAG>")
}

func TestExporterWritesRawResponse(t *testing.T) {
	c := newTestClient(t, &fakeTally{})
	path := filepath.Join(t.TempDir(), "exports", "PandL.xml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))

	r, err := period.ParseRange("01-03-2024", "15-03-2024")
	require.NoError(t, err)

	res, err := NewExporter(c, path, nil).Export(context.Background(), r)
	require.NoError(t, err)
	require.Equal(t, path, res.Path)
	require.Equal(t, r.To, res.ToDate)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, pnlResponse, string(got))
}

func TestExporterUnreachableWritesNothing(t *testing.T) {
	c := newTestClient(t, &fakeTally{status: http.StatusInternalServerError})
	path := filepath.Join(t.TempDir(), "PandL.xml")

	r, err := period.ParseRange("01-03-2024", "31-03-2024")
	require.NoError(t, err)

	_, err = NewExporter(c, path, nil).Export(context.Background(), r)
	require.ErrorIs(t, err, ErrUnreachable)
	require.NoFileExists(t, path)
}
