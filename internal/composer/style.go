package composer

import (
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/tally-kannada-pnl/internal/logging"
)

// styleAttribute copies one named part of a cell style.
type styleAttribute struct {
	name string
	copy func(dst, src *excelize.Style)
}

// styleAttributes is the fixed set of attributes carried from a source
// cell to a destination cell.
var styleAttributes = []styleAttribute{
	{"font", func(dst, src *excelize.Style) {
		if src.Font != nil {
			f := *src.Font
			dst.Font = &f
		}
	}},
	{"border", func(dst, src *excelize.Style) {
		dst.Border = append([]excelize.Border(nil), src.Border...)
	}},
	{"fill", func(dst, src *excelize.Style) {
		dst.Fill = src.Fill
		dst.Fill.Color = append([]string(nil), src.Fill.Color...)
	}},
	{"number format", func(dst, src *excelize.Style) {
		dst.NumFmt = src.NumFmt
		dst.DecimalPlaces = src.DecimalPlaces
		dst.CustomNumFmt = src.CustomNumFmt
		dst.NegRed = src.NegRed
	}},
	{"protection", func(dst, src *excelize.Style) {
		if src.Protection != nil {
			p := *src.Protection
			dst.Protection = &p
		}
	}},
	{"alignment", func(dst, src *excelize.Style) {
		if src.Alignment != nil {
			a := *src.Alignment
			dst.Alignment = &a
		}
	}},
}

// CopyStyle registers the style srcID of src in dst and returns its id in
// dst. adjust, when non-nil, edits the copied style before registration.
//
// If the full style cannot be registered, attributes are copied one at a
// time and any attribute dst rejects is logged and left out. The boolean
// reports whether every attribute made it across.
func CopyStyle(src *excelize.File, srcID int, dst *excelize.File, adjust func(*excelize.Style), logger logging.Logger) (int, bool) {
	if logger == nil {
		logger = logging.Nop()
	}
	if srcID == 0 && adjust == nil {
		return 0, true
	}

	source := &excelize.Style{}
	complete := true
	if srcID != 0 {
		s, err := src.GetStyle(srcID)
		if err != nil {
			logger.Warn("cannot read style %d: %v", srcID, err)
			complete = false
		} else {
			source = s
		}
	}

	full := &excelize.Style{}
	for _, attr := range styleAttributes {
		attr.copy(full, source)
	}
	if adjust != nil {
		adjust(full)
	}
	if id, err := dst.NewStyle(full); err == nil {
		return id, complete
	}

	// Rebuild attribute by attribute, keeping only what dst accepts.
	built := &excelize.Style{}
	for _, attr := range styleAttributes {
		candidate := *built
		attr.copy(&candidate, source)
		if _, err := dst.NewStyle(&candidate); err != nil {
			logger.Warn("skipping %s of style %d: %v", attr.name, srcID, err)
			complete = false
			continue
		}
		built = &candidate
	}
	if adjust != nil {
		adjust(built)
	}

	id, err := dst.NewStyle(built)
	if err != nil {
		logger.Warn("cannot register style %d: %v", srcID, err)
		return 0, false
	}
	return id, complete
}

// withWrapText turns on text wrapping, keeping the rest of the alignment.
func withWrapText(s *excelize.Style) {
	if s.Alignment == nil {
		s.Alignment = &excelize.Alignment{}
	}
	s.Alignment.WrapText = true
}

// withNumberFormat replaces the number format with a custom format code.
func withNumberFormat(code string) func(*excelize.Style) {
	return func(s *excelize.Style) {
		c := code
		s.NumFmt = 0
		s.DecimalPlaces = nil
		s.CustomNumFmt = &c
	}
}
