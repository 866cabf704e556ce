// =============================================================================
// Kannada P&L Generator - Report Period
// =============================================================================
//
// This module validates the operator-supplied date range and renders the
// report month in Kannada.
//
// INPUT FORMAT:
//   Dates are entered as DD-MM-YYYY (e.g. 01-04-2024).
//
// TALLY FORMAT:
//   Tally static variables expect YYYYMMDD (e.g. 20240401).
//
// =============================================================================

package period

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// InputLayout is the canonical day-month-year layout used when echoing dates.
const InputLayout = "02-01-2006"

// parseLayout also accepts single-digit days and months such as 1-4-2024.
const parseLayout = "2-1-2006"

// TallyLayout is the layout Tally expects in SVFROMDATE/SVTODATE.
const TallyLayout = "20060102"

var (
	// ErrInvalidDate is returned when a date is not in DD-MM-YYYY form.
	ErrInvalidDate = errors.New("invalid date format, use DD-MM-YYYY")

	// ErrInvalidRange is returned when the From date is after the To date.
	ErrInvalidRange = errors.New("from date is after to date")
)

// monthsKannada is indexed by time.Month.
var monthsKannada = [...]string{
	time.January:   "ಜನವರಿ",
	time.February:  "ಫೆಬ್ರವರಿ",
	time.March:     "ಮಾರ್ಚ್",
	time.April:     "ಏಪ್ರಿಲ್",
	time.May:       "ಮೇ",
	time.June:      "ಜೂನ್",
	time.July:      "ಜುಲೈ",
	time.August:    "ಆಗಸ್ಟ್",
	time.September: "ಸೆಪ್ಟೆಂಬರ್",
	time.October:   "ಅಕ್ಟೋಬರ್",
	time.November:  "ನವೆಂಬರ್",
	time.December:  "ಡಿಸೆಂಬರ್",
}

// Range is a validated, inclusive reporting period.
type Range struct {
	From time.Time
	To   time.Time
}

// ParseDate parses a single DD-MM-YYYY date. The day and month may be
// written with one or two digits.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(parseLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return t, nil
}

// ParseRange parses and validates a From/To pair.
func ParseRange(from, to string) (Range, error) {
	f, err := ParseDate(from)
	if err != nil {
		return Range{}, fmt.Errorf("from date: %w", err)
	}
	t, err := ParseDate(to)
	if err != nil {
		return Range{}, fmt.Errorf("to date: %w", err)
	}
	if f.After(t) {
		return Range{}, fmt.Errorf("%w: %s > %s", ErrInvalidRange, from, to)
	}
	return Range{From: f, To: t}, nil
}

// TallyFrom returns the From date as YYYYMMDD.
func (r Range) TallyFrom() string { return r.From.Format(TallyLayout) }

// TallyTo returns the To date as YYYYMMDD.
func (r Range) TallyTo() string { return r.To.Format(TallyLayout) }

// String renders the range in input form for console messages.
func (r Range) String() string {
	return r.From.Format(InputLayout) + " to " + r.To.Format(InputLayout)
}

// MonthName returns the Kannada name of m, or "" for an invalid month.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthsKannada[m]
}

// MonthYear renders t as "<Kannada month> <year>", e.g. "ಮಾರ್ಚ್ 2024".
func MonthYear(t time.Time) string {
	return fmt.Sprintf("%s %d", MonthName(t.Month()), t.Year())
}
