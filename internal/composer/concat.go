package composer

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/tally-kannada-pnl/internal/logging"
	"github.com/ginjaninja78/tally-kannada-pnl/pkg/utils"
)

// Fragment is one workbook stacked into the final report.
type Fragment struct {
	// Name labels the fragment in logs and Stats ("header", "body", ...).
	Name string

	// Path is the workbook file. Its active sheet is copied.
	Path string

	// FillMonth replaces the placeholder inside every cell of the fragment
	// before it is copied. Set for the header.
	FillMonth bool
}

// ConcatOptions configures Concatenate.
type ConcatOptions struct {
	// Output is where the final report is saved.
	Output string

	// Placeholder is the token substituted in FillMonth fragments.
	Placeholder string

	// HeaderWithMonth, when set, receives a copy of each FillMonth
	// fragment after substitution.
	HeaderWithMonth string

	Logger logging.Logger
}

// FragmentStats describes where one fragment landed.
type FragmentStats struct {
	Name string

	// FirstRow is the destination row of the fragment's row 1.
	FirstRow int

	Rows int
}

// Stats summarizes a Concatenate run.
type Stats struct {
	Fragments     []FragmentStats
	TotalRows     int
	SkippedMerges int
	SkippedStyles int
}

// Concatenate stacks the fragments, in order, into the first sheet of a
// new workbook and saves it to opts.Output. Each fragment starts on the
// row after the previous one ends.
//
// Cell styles that cannot be copied and merged ranges that overlap an
// earlier merge are logged and skipped; they never abort the run.
func Concatenate(opts ConcatOptions, monthYear string, fragments ...Fragment) (Stats, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	var stats Stats

	dst := excelize.NewFile()
	defer dst.Close()
	dstSheet := dst.GetSheetName(0)

	a := &appender{
		dst:    dst,
		sheet:  dstSheet,
		logger: logger,
		stats:  &stats,
		cursor: 1,
	}

	for _, frag := range fragments {
		src, err := excelize.OpenFile(frag.Path)
		if err != nil {
			return stats, fmt.Errorf("failed to open %s fragment: %w", frag.Name, err)
		}

		if frag.FillMonth {
			if err := fillMonth(src, opts, monthYear, logger); err != nil {
				src.Close()
				return stats, fmt.Errorf("failed to fill %s fragment: %w", frag.Name, err)
			}
		}

		fs, err := a.append(src, frag.Name)
		src.Close()
		if err != nil {
			return stats, fmt.Errorf("failed to copy %s fragment: %w", frag.Name, err)
		}
		stats.Fragments = append(stats.Fragments, fs)
		logger.Debug("%s fragment: %d row(s) at row %d", fs.Name, fs.Rows, fs.FirstRow)
	}
	stats.TotalRows = a.cursor - 1

	if err := utils.EnsureParentDir(opts.Output); err != nil {
		return stats, err
	}
	if err := dst.SaveAs(opts.Output); err != nil {
		return stats, fmt.Errorf("failed to save report: %w", err)
	}

	logger.Info("Report written: %d row(s) -> %s", stats.TotalRows, opts.Output)
	if stats.SkippedMerges > 0 || stats.SkippedStyles > 0 {
		logger.Warn("%d merged range(s) and %d cell style(s) were skipped", stats.SkippedMerges, stats.SkippedStyles)
	}
	return stats, nil
}

// fillMonth substitutes the placeholder in every cell of the active sheet
// and optionally saves the result.
func fillMonth(f *excelize.File, opts ConcatOptions, monthYear string, logger logging.Logger) error {
	sheet := activeSheet(f)
	n, err := replaceInSheet(f, sheet, func(v string) string {
		return strings.ReplaceAll(v, opts.Placeholder, monthYear)
	})
	if err != nil {
		return err
	}
	logger.Debug("replaced placeholder in %d cell(s) of %s", n, sheet)

	if opts.HeaderWithMonth == "" {
		return nil
	}
	if err := utils.EnsureParentDir(opts.HeaderWithMonth); err != nil {
		return err
	}
	return f.SaveAs(opts.HeaderWithMonth)
}

// appender copies fragments into one destination sheet.
type appender struct {
	dst    *excelize.File
	sheet  string
	logger logging.Logger
	stats  *Stats

	// cursor is the destination row for the next fragment's row 1.
	cursor int

	// merges placed so far, in destination coordinates.
	merges []cellRange
}

func (a *appender) append(src *excelize.File, name string) (FragmentStats, error) {
	srcSheet := activeSheet(src)
	maxRow, maxCol := bounds(src, srcSheet)
	offset := a.cursor - 1

	if err := a.copyWidths(src, srcSheet, maxCol); err != nil {
		return FragmentStats{}, err
	}

	styles := map[int]int{}
	for r := 1; r <= maxRow; r++ {
		for c := 1; c <= maxCol; c++ {
			srcCell, err := excelize.CoordinatesToCellName(c, r)
			if err != nil {
				return FragmentStats{}, err
			}
			dstCell, err := excelize.CoordinatesToCellName(c, r+offset)
			if err != nil {
				return FragmentStats{}, err
			}

			if err := copyValue(src, srcSheet, srcCell, a.dst, a.sheet, dstCell); err != nil {
				return FragmentStats{}, fmt.Errorf("cell %s: %w", srcCell, err)
			}
			a.copyCellStyle(src, srcSheet, srcCell, dstCell, styles)
		}
	}

	a.copyMerges(src, srcSheet, offset)

	fs := FragmentStats{Name: name, FirstRow: a.cursor, Rows: maxRow}
	a.cursor += maxRow
	return fs, nil
}

// copyWidths carries explicit column widths. Columns at the sheet's
// default width are left alone.
func (a *appender) copyWidths(src *excelize.File, sheet string, maxCol int) error {
	def, err := src.GetColWidth(sheet, probeColumn)
	if err != nil {
		return err
	}
	for c := 1; c <= maxCol; c++ {
		col, err := excelize.ColumnNumberToName(c)
		if err != nil {
			return err
		}
		w, err := src.GetColWidth(sheet, col)
		if err != nil || w == def {
			continue
		}
		if err := a.dst.SetColWidth(a.sheet, col, col, w); err != nil {
			a.logger.Warn("cannot set width of column %s: %v", col, err)
		}
	}
	return nil
}

func (a *appender) copyCellStyle(src *excelize.File, srcSheet, srcCell, dstCell string, cache map[int]int) {
	srcID, err := src.GetCellStyle(srcSheet, srcCell)
	if err != nil {
		a.logger.Warn("cannot read style of %s: %v", srcCell, err)
		a.stats.SkippedStyles++
		return
	}
	if srcID == 0 {
		return
	}

	dstID, ok := cache[srcID]
	if !ok {
		var complete bool
		dstID, complete = CopyStyle(src, srcID, a.dst, nil, a.logger)
		if !complete {
			a.stats.SkippedStyles++
		}
		cache[srcID] = dstID
	}
	if dstID == 0 {
		return
	}

	if err := a.dst.SetCellStyle(a.sheet, dstCell, dstCell, dstID); err != nil {
		a.logger.Warn("cannot style %s: %v", dstCell, err)
		a.stats.SkippedStyles++
	}
}

// copyMerges re-creates the fragment's merged ranges shifted down by
// offset rows. A range overlapping one already placed is skipped.
func (a *appender) copyMerges(src *excelize.File, sheet string, offset int) {
	merges, err := src.GetMergeCells(sheet)
	if err != nil {
		a.logger.Warn("cannot read merged cells of %s: %v", sheet, err)
		return
	}

	for _, m := range merges {
		rng, err := parseRange(m.GetStartAxis(), m.GetEndAxis())
		if err != nil {
			a.logger.Warn("skipping merge %s:%s: %v", m.GetStartAxis(), m.GetEndAxis(), err)
			a.stats.SkippedMerges++
			continue
		}
		rng.minRow += offset
		rng.maxRow += offset

		start, end, err := rng.cells()
		if err != nil {
			a.logger.Warn("skipping merge %s:%s: %v", m.GetStartAxis(), m.GetEndAxis(), err)
			a.stats.SkippedMerges++
			continue
		}

		if a.collides(rng) {
			a.logger.Warn("skipping merge %s:%s: overlaps an existing merge", start, end)
			a.stats.SkippedMerges++
			continue
		}
		if err := a.dst.MergeCell(a.sheet, start, end); err != nil {
			a.logger.Warn("skipping merge %s:%s: %v", start, end, err)
			a.stats.SkippedMerges++
			continue
		}
		a.merges = append(a.merges, rng)
	}
}

func (a *appender) collides(rng cellRange) bool {
	for _, m := range a.merges {
		if m.overlaps(rng) {
			return true
		}
	}
	return false
}
