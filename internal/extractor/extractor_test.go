package extractor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/tally-kannada-pnl/internal/types"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// entry builds an expected LedgerEntry.
func entry(name, amount string) types.LedgerEntry {
	return types.LedgerEntry{Name: name, Amount: dec(amount)}
}

// requireEntries compares entries by name and numeric value.
func requireEntries(t *testing.T, want, got []types.LedgerEntry) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.Equal(t, want[i].Name, got[i].Name, "entry %d", i)
		require.True(t, want[i].Amount.Equal(got[i].Amount),
			"entry %d: want %s got %s", i, want[i].Amount, got[i].Amount)
	}
}

func parse(t *testing.T, doc string) types.Report {
	t.Helper()
	r, err := Parse(strings.NewReader(doc), DefaultSectionLabels())
	require.NoError(t, err)
	return r
}

const sampleExport = `<ENVELOPE>
  <DSPACCNAME><DSPDISPNAME>Direct Incomes</DSPDISPNAME></DSPACCNAME>
  <DSPACCNAME><DSPDISPNAME>Rent Received</DSPDISPNAME></DSPACCNAME>
  <PLAMT><BSSUBAMT>-5000.00</BSSUBAMT></PLAMT>
  <DSPACCNAME><DSPDISPNAME>Commission Received</DSPDISPNAME></DSPACCNAME>
  <PLAMT><BSSUBAMT>1250.50</BSSUBAMT></PLAMT>
  <DSPACCNAME><DSPDISPNAME>Direct Expenses</DSPDISPNAME></DSPACCNAME>
  <DSPACCNAME><DSPDISPNAME>Salary</DSPDISPNAME></DSPACCNAME>
  <PLAMT><BSSUBAMT>-12000</BSSUBAMT></PLAMT>
  <DSPACCNAME><DSPDISPNAME>Indirect Incomes</DSPDISPNAME></DSPACCNAME>
  <DSPACCNAME><DSPDISPNAME>Interest Received</DSPDISPNAME></DSPACCNAME>
  <PLAMT><BSSUBAMT>-300</BSSUBAMT></PLAMT>
  <DSPACCNAME><DSPDISPNAME>Indirect Expenses</DSPDISPNAME></DSPACCNAME>
  <DSPACCNAME><DSPDISPNAME>Electricity</DSPDISPNAME></DSPACCNAME>
  <PLAMT><BSSUBAMT>-800.25</BSSUBAMT></PLAMT>
</ENVELOPE>`

func TestParseSampleExport(t *testing.T) {
	r := parse(t, sampleExport)

	requireEntries(t, []types.LedgerEntry{
		entry("Rent Received", "5000"),
		entry("Commission Received", "1250.50"),
		entry("Interest Received", "300"),
	}, r.Income)

	requireEntries(t, []types.LedgerEntry{
		entry("Salary", "12000"),
		entry("Electricity", "800.25"),
	}, r.Expense)
}

func TestParseRentReceivedScenario(t *testing.T) {
	r := parse(t, `<R>
		<DSPDISPNAME>Direct Incomes</DSPDISPNAME>
		<DSPDISPNAME>Rent Received</DSPDISPNAME>
		<BSSUBAMT>-5000.00</BSSUBAMT>
	</R>`)

	requireEntries(t, []types.LedgerEntry{entry("Rent Received", "5000.00")}, r.Income)
	require.Empty(t, r.Expense)
}

func TestParseMalformedAmountIsDropped(t *testing.T) {
	r := parse(t, `<R>
		<DSPDISPNAME>Direct Expenses</DSPDISPNAME>
		<DSPDISPNAME>Bad Amount</DSPDISPNAME>
		<BSSUBAMT>12,34x</BSSUBAMT>
		<DSPDISPNAME>Empty Amount</DSPDISPNAME>
		<BSSUBAMT></BSSUBAMT>
		<DSPDISPNAME>Good</DSPDISPNAME>
		<BSSUBAMT>-10</BSSUBAMT>
	</R>`)

	requireEntries(t, []types.LedgerEntry{entry("Good", "10")}, r.Expense)
}

func TestParseAmountConsumesCandidateEvenWhenZero(t *testing.T) {
	// "Zero Ledger" is consumed by its zero amount, so the next amount has
	// no candidate and must not be attributed to it.
	r := parse(t, `<R>
		<DSPDISPNAME>Direct Incomes</DSPDISPNAME>
		<DSPDISPNAME>Zero Ledger</DSPDISPNAME>
		<BSSUBAMT>0.00</BSSUBAMT>
		<BSSUBAMT>-99</BSSUBAMT>
	</R>`)

	require.Empty(t, r.Income)
}

func TestParseSectionHeaderClearsPendingCandidate(t *testing.T) {
	r := parse(t, `<R>
		<DSPDISPNAME>Direct Incomes</DSPDISPNAME>
		<DSPDISPNAME>Orphan</DSPDISPNAME>
		<DSPDISPNAME>Direct Expenses</DSPDISPNAME>
		<BSSUBAMT>-50</BSSUBAMT>
	</R>`)

	require.Empty(t, r.Income)
	require.Empty(t, r.Expense)
}

func TestParseLaterCandidateOverwritesEarlier(t *testing.T) {
	r := parse(t, `<R>
		<DSPDISPNAME>Indirect Expenses</DSPDISPNAME>
		<DSPDISPNAME>First</DSPDISPNAME>
		<DSPDISPNAME>Second</DSPDISPNAME>
		<BSSUBAMT>-7</BSSUBAMT>
	</R>`)

	requireEntries(t, []types.LedgerEntry{entry("Second", "7")}, r.Expense)
}

func TestParseIgnoresLedgersBeforeAnySection(t *testing.T) {
	r := parse(t, `<R>
		<DSPDISPNAME>Opening Stock</DSPDISPNAME>
		<BSSUBAMT>-1000</BSSUBAMT>
		<DSPDISPNAME>Direct Incomes</DSPDISPNAME>
		<DSPDISPNAME>Sales</DSPDISPNAME>
		<BSSUBAMT>-2000</BSSUBAMT>
	</R>`)

	requireEntries(t, []types.LedgerEntry{entry("Sales", "2000")}, r.Income)
	require.Empty(t, r.Expense)
}

func TestParseTagsAreCaseInsensitive(t *testing.T) {
	r := parse(t, `<r>
		<dspdispname>Direct Incomes</dspdispname>
		<DspDispName> Sales </DspDispName>
		<bssubamt> -42.5 </bssubamt>
	</r>`)

	requireEntries(t, []types.LedgerEntry{entry("Sales", "42.5")}, r.Income)
}

func TestParseUnknownHeaderIsCandidate(t *testing.T) {
	r := parse(t, `<R>
		<DSPDISPNAME>Direct Incomes</DSPDISPNAME>
		<DSPDISPNAME>Sales Accounts</DSPDISPNAME>
		<BSSUBAMT>-10</BSSUBAMT>
	</R>`)

	requireEntries(t, []types.LedgerEntry{entry("Sales Accounts", "10")}, r.Income)
}

func TestParseMalformedXML(t *testing.T) {
	_, err := Parse(strings.NewReader(`<R><DSPDISPNAME>Direct Incomes</R>`), DefaultSectionLabels())
	require.Error(t, err)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PandL.xml")
	require.NoError(t, os.WriteFile(path, []byte(sampleExport), 0644))

	r, err := ParseFile(path, DefaultSectionLabels())
	require.NoError(t, err)
	require.Len(t, r.Income, 3)
	require.Len(t, r.Expense, 2)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.xml"), DefaultSectionLabels())
	require.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	require.True(t, ParseAmount("-5000.00").Equal(dec("-5000")))
	require.True(t, ParseAmount(" 12.5 ").Equal(dec("12.5")))
	require.True(t, ParseAmount("abc").IsZero())
	require.True(t, ParseAmount("").IsZero())
}

// mapTranslator is a Translator backed by a lowercase-keyed map.
type mapTranslator map[string]string

func (m mapTranslator) Lookup(english string) (string, bool) {
	v, ok := m[strings.ToLower(strings.TrimSpace(english))]
	return v, ok
}

func TestTranslate(t *testing.T) {
	tr := mapTranslator{
		"rent received": "ಬಾಡಿಗೆ ಆದಾಯ",
		"salary":        "ಸಂಬಳ",
		"blank":         "",
	}

	got := Translate([]types.LedgerEntry{
		entry("Rent Received", "5000.00"),
		entry("Unmapped Ledger", "999"),
		entry(" SALARY ", "12000"),
		entry("Salary", "0"),
		entry("Blank", "5"),
	}, tr)

	requireEntries(t, []types.LedgerEntry{
		entry("ಬಾಡಿಗೆ ಆದಾಯ", "5000.00"),
		entry("ಸಂಬಳ", "12000"),
	}, got)
}

func TestTranslateReport(t *testing.T) {
	r := parse(t, sampleExport)
	got := TranslateReport(r, mapTranslator{"rent received": "ಬಾಡಿಗೆ ಆದಾಯ", "electricity": "ವಿದ್ಯುತ್"})

	requireEntries(t, []types.LedgerEntry{entry("ಬಾಡಿಗೆ ಆದಾಯ", "5000")}, got.Income)
	requireEntries(t, []types.LedgerEntry{entry("ವಿದ್ಯುತ್", "800.25")}, got.Expense)
}
