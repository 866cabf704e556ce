package composer

import (
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// probeColumn is never given an explicit width by the report templates, so
// its width is the sheet's default.
const probeColumn = "XFD"

// activeSheet returns the name of the workbook's active sheet.
func activeSheet(f *excelize.File) string {
	name := f.GetSheetName(f.GetActiveSheetIndex())
	if name == "" {
		name = f.GetSheetName(0)
	}
	return name
}

// bounds returns the used row and column count of a sheet. Rows and
// columns that only carry styles or merges count as used.
func bounds(f *excelize.File, sheet string) (maxRow, maxCol int) {
	if dim, err := f.GetSheetDimension(sheet); err == nil && dim != "" {
		parts := strings.Split(dim, ":")
		if c, r, err := excelize.CellNameToCoordinates(parts[len(parts)-1]); err == nil {
			maxRow, maxCol = r, c
		}
	}

	if rows, err := f.Rows(sheet); err == nil {
		n := 0
		for rows.Next() {
			n++
			if cols, err := rows.Columns(); err == nil && len(cols) > maxCol {
				maxCol = len(cols)
			}
		}
		_ = rows.Close()
		if n > maxRow {
			maxRow = n
		}
	}

	if merges, err := f.GetMergeCells(sheet); err == nil {
		for _, m := range merges {
			if c, r, err := excelize.CellNameToCoordinates(m.GetEndAxis()); err == nil {
				maxRow = max(maxRow, r)
				maxCol = max(maxCol, c)
			}
		}
	}

	return maxRow, maxCol
}

// copyValue copies a cell's value, keeping numbers numeric and formulas
// as formulas.
func copyValue(src *excelize.File, srcSheet, srcCell string, dst *excelize.File, dstSheet, dstCell string) error {
	if formula, err := src.GetCellFormula(srcSheet, srcCell); err == nil && formula != "" {
		return dst.SetCellFormula(dstSheet, dstCell, formula)
	}

	raw, err := src.GetCellValue(srcSheet, srcCell, excelize.Options{RawCellValue: true})
	if err != nil {
		return err
	}
	if raw == "" {
		return nil
	}

	typ, err := src.GetCellType(srcSheet, srcCell)
	if err != nil {
		return err
	}
	switch typ {
	case excelize.CellTypeBool:
		return dst.SetCellBool(dstSheet, dstCell, raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return dst.SetCellFloat(dstSheet, dstCell, n, -1, 64)
		}
	}
	return dst.SetCellStr(dstSheet, dstCell, raw)
}

// cellRange is a rectangular merged area in 1-based coordinates.
type cellRange struct {
	minCol, minRow, maxCol, maxRow int
}

func parseRange(start, end string) (cellRange, error) {
	c1, r1, err := excelize.CellNameToCoordinates(start)
	if err != nil {
		return cellRange{}, err
	}
	c2, r2, err := excelize.CellNameToCoordinates(end)
	if err != nil {
		return cellRange{}, err
	}
	return cellRange{
		minCol: min(c1, c2), minRow: min(r1, r2),
		maxCol: max(c1, c2), maxRow: max(r1, r2),
	}, nil
}

func (a cellRange) overlaps(b cellRange) bool {
	return a.minCol <= b.maxCol && b.minCol <= a.maxCol &&
		a.minRow <= b.maxRow && b.minRow <= a.maxRow
}

func (a cellRange) cells() (string, string, error) {
	start, err := excelize.CoordinatesToCellName(a.minCol, a.minRow)
	if err != nil {
		return "", "", err
	}
	end, err := excelize.CoordinatesToCellName(a.maxCol, a.maxRow)
	if err != nil {
		return "", "", err
	}
	return start, end, nil
}

// replaceInSheet rewrites every string cell of sheet through replace.
// Cells whose value does not change are left untouched.
func replaceInSheet(f *excelize.File, sheet string, replace func(string) string) (int, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return 0, err
	}

	replaced := 0
	for r, row := range rows {
		for c, value := range row {
			if value == "" {
				continue
			}
			next := replace(value)
			if next == value {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return replaced, err
			}
			if err := f.SetCellStr(sheet, cell, next); err != nil {
				return replaced, err
			}
			replaced++
		}
	}
	return replaced, nil
}
