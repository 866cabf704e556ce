// =============================================================================
// Kannada P&L Generator - Ledger Translation Table
// =============================================================================
//
// This module loads, updates and saves the translation table that maps
// English ledger names (as Tally exports them) to the Kannada names printed
// on the report.
//
// TABLE STRUCTURE (first sheet of ledger_mapping.xlsx):
//
//   | Column A      | Column B          |
//   |---------------|-------------------|
//   | EnglishLedger | KannadaLedger     |
//   | Rent Received | ಬಾಡಿಗೆ ಆದಾಯ        |
//   | Salary        | Salary            |   <- untranslated, defaults to English
//
// Columns are located by header name, so they may appear in any position.
// Lookups are keyed by the lowercased, trimmed English name.
//
// =============================================================================

package ledgermap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Column headers of the table file.
const (
	EnglishColumn = "EnglishLedger"
	KannadaColumn = "KannadaLedger"
)

// =============================================================================
// TABLE STRUCTURE
// =============================================================================

// Row is one line of the translation table.
type Row struct {
	English string
	Kannada string
}

// Table is the in-memory translation table.
type Table struct {
	// Rows are kept in file order until Sort is called. Change
	// translations through Set so lookups stay in step.
	Rows []Row

	// Recreated is true when the file was missing or lacked the required
	// columns and an empty table was started instead.
	Recreated bool

	lookup map[string]string
	known  map[string]bool
}

// New returns an empty table.
func New() *Table {
	return &Table{
		lookup: make(map[string]string),
		known:  make(map[string]bool),
	}
}

// Key normalizes an English ledger name for lookup.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the table from an .xlsx file.
//
// A missing file, an unreadable workbook or a sheet without both header
// columns yields an empty table with Recreated set; only unexpected I/O
// errors are returned.
func Load(path string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			t := New()
			t.Recreated = true
			return t, nil
		}
		return nil, fmt.Errorf("failed to stat mapping file: %w", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t := New()
		t.Recreated = true
		return t, nil
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		t := New()
		t.Recreated = true
		return t, nil
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping rows: %w", err)
	}

	return fromRows(rows), nil
}

// fromRows builds a table from raw sheet rows; the first row is the header.
func fromRows(rows [][]string) *Table {
	t := New()
	if len(rows) == 0 {
		t.Recreated = true
		return t
	}

	engCol, knCol := -1, -1
	for i, h := range rows[0] {
		switch strings.TrimSpace(h) {
		case EnglishColumn:
			engCol = i
		case KannadaColumn:
			knCol = i
		}
	}
	if engCol < 0 || knCol < 0 {
		t.Recreated = true
		return t
	}

	getCell := func(row []string, index int) string {
		if index < len(row) {
			return strings.TrimSpace(row[index])
		}
		return ""
	}

	for _, row := range rows[1:] {
		eng := getCell(row, engCol)
		kn := getCell(row, knCol)
		if eng == "" && kn == "" {
			continue
		}
		t.add(Row{English: eng, Kannada: kn})
	}

	return t
}

// add appends a row and indexes it. Later rows overwrite earlier
// translations for the same key.
func (t *Table) add(r Row) {
	t.Rows = append(t.Rows, r)
	if r.English == "" {
		return
	}
	key := Key(r.English)
	t.known[key] = true
	if r.Kannada != "" {
		t.lookup[key] = r.Kannada
	}
}

// =============================================================================
// LOOKUP AND MERGE
// =============================================================================

// Lookup returns the translation for an English ledger name.
func (t *Table) Lookup(english string) (string, bool) {
	kn, ok := t.lookup[Key(english)]
	return kn, ok
}

// Set records the Kannada name for an English ledger. Every row with the
// same key is updated; a name not yet in the table is appended. An empty
// kannada clears the translation.
func (t *Table) Set(english, kannada string) {
	english = strings.TrimSpace(english)
	if english == "" {
		return
	}
	key := Key(english)
	if !t.known[key] {
		t.add(Row{English: english, Kannada: kannada})
		return
	}
	for i := range t.Rows {
		if Key(t.Rows[i].English) == key {
			t.Rows[i].Kannada = kannada
		}
	}
	if kannada == "" {
		delete(t.lookup, key)
		return
	}
	t.lookup[key] = kannada
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Merge appends every name not already present (case-insensitive) with its
// Kannada name defaulting to the English name. It never removes rows and
// returns the names that were added, in input order.
func (t *Table) Merge(names []string) []string {
	var added []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || t.known[Key(name)] {
			continue
		}
		t.add(Row{English: name, Kannada: name})
		added = append(added, name)
	}
	return added
}

// Sort orders rows by English name. Equal names keep their relative order.
func (t *Table) Sort() {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		return t.Rows[i].English < t.Rows[j].English
	})
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the table to path as a single-sheet workbook with the two
// header columns, creating parent directories as needed.
func (t *Table) Save(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{EnglishColumn, KannadaColumn}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{r.English, r.Kannada}); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create mapping directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save mapping file: %w", err)
	}
	return nil
}
