// =============================================================================
// Kannada P&L Generator - Report Extractor
// =============================================================================
//
// This module turns Tally's Profit and Loss XML export into two flat ledger
// lists (income and expense) and translates them.
//
// EXPORT SHAPE:
//   Tally emits section headers and ledger/amount pairs as a flat sequence
//   of sibling elements, without nesting ledgers under their section:
//
//   <DSPDISPNAME>Direct Incomes</DSPDISPNAME>      <- section header
//   <DSPDISPNAME>Rent Received</DSPDISPNAME>       <- ledger candidate
//   <BSSUBAMT>-5000.00</BSSUBAMT>                  <- amount for candidate
//   <DSPDISPNAME>Direct Expenses</DSPDISPNAME>     <- next section
//   ...
//
//   Section membership is therefore tracked as state while walking the
//   document in order.
//
// SIGN CONVENTION:
//   Ledger amounts are taken as absolute values. Tally signs income and
//   expense amounts differently; only the magnitude is printed.
//
// =============================================================================

package extractor

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/tally-kannada-pnl/internal/types"
)

// Element names in the Tally export.
const (
	DisplayNameTag = "DSPDISPNAME"
	AmountTag      = "BSSUBAMT"
)

// =============================================================================
// SECTION LABELS
// =============================================================================

// SectionLabels lists the header texts that open each section.
type SectionLabels struct {
	Income  []string
	Expense []string
}

// DefaultSectionLabels returns Tally's standard P&L group names.
func DefaultSectionLabels() SectionLabels {
	return SectionLabels{
		Income:  []string{"Direct Incomes", "Indirect Incomes"},
		Expense: []string{"Direct Expenses", "Indirect Expenses"},
	}
}

// classify returns the section a label opens, or SectionNone when the
// label is not a section header.
func (l SectionLabels) classify(label string) types.Section {
	for _, s := range l.Income {
		if label == s {
			return types.SectionIncome
		}
	}
	for _, s := range l.Expense {
		if label == s {
			return types.SectionExpense
		}
	}
	return types.SectionNone
}

// =============================================================================
// PARSING
// =============================================================================

// walker holds the state of one pass over the export.
type walker struct {
	labels  SectionLabels
	section types.Section
	pending string
	report  types.Report
}

// displayName handles a DSPDISPNAME element.
func (w *walker) displayName(text string) {
	if s := w.labels.classify(text); s != types.SectionNone {
		w.section = s
		w.pending = ""
		return
	}
	w.pending = text
}

// amount handles a BSSUBAMT element. It consumes the pending candidate
// whenever a section is active, whether or not an entry is emitted.
func (w *walker) amount(text string) {
	if w.pending == "" || w.section == types.SectionNone {
		return
	}

	amt := ParseAmount(text)
	if !amt.IsZero() {
		entry := types.LedgerEntry{Name: w.pending, Amount: amt.Abs()}
		switch w.section {
		case types.SectionIncome:
			w.report.Income = append(w.report.Income, entry)
		case types.SectionExpense:
			w.report.Expense = append(w.report.Expense, entry)
		}
	}
	w.pending = ""
}

// Parse walks the export in document order and returns the income and
// expense ledgers it finds. Element names are matched case-insensitively.
func Parse(r io.Reader, labels SectionLabels) (types.Report, error) {
	w := &walker{labels: labels}
	dec := xml.NewDecoder(r)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return w.report, nil
		}
		if err != nil {
			return types.Report{}, fmt.Errorf("failed to parse export: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		tag := strings.ToUpper(start.Name.Local)
		if tag != DisplayNameTag && tag != AmountTag {
			continue
		}

		var text string
		if err := dec.DecodeElement(&text, &start); err != nil {
			return types.Report{}, fmt.Errorf("failed to read %s: %w", tag, err)
		}
		text = strings.TrimSpace(text)

		if tag == DisplayNameTag {
			w.displayName(text)
		} else {
			w.amount(text)
		}
	}
}

// ParseFile opens path and parses it.
func ParseFile(path string, labels SectionLabels) (types.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Report{}, fmt.Errorf("failed to open export: %w", err)
	}
	defer f.Close()
	return Parse(f, labels)
}

// ParseAmount parses an amount; malformed or empty text is zero.
func ParseAmount(text string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// TRANSLATION
// =============================================================================

// Translator maps English ledger names to display names.
// *ledgermap.Table implements it.
type Translator interface {
	Lookup(english string) (string, bool)
}

// Translate replaces each entry's name with its translation. Entries with
// no translation or a zero amount are dropped; order is preserved.
func Translate(entries []types.LedgerEntry, tr Translator) []types.LedgerEntry {
	out := make([]types.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if e.Amount.IsZero() {
			continue
		}
		name, ok := tr.Lookup(e.Name)
		if !ok || name == "" {
			continue
		}
		out = append(out, types.LedgerEntry{Name: name, Amount: e.Amount})
	}
	return out
}

// TranslateReport translates both sides of a report.
func TranslateReport(r types.Report, tr Translator) types.Report {
	return types.Report{
		Income:  Translate(r.Income, tr),
		Expense: Translate(r.Expense, tr),
	}
}
