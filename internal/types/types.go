// =============================================================================
// Kannada P&L Generator - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - extractor
//   - composer
//   - pipeline
//
// =============================================================================

package types

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// SECTION TYPES
// =============================================================================

// Section identifies which side of the Profit & Loss statement a ledger
// belongs to.
type Section int

const (
	// SectionNone means no section header has been seen yet.
	SectionNone Section = iota

	// SectionIncome covers "Direct Incomes" and "Indirect Incomes".
	SectionIncome

	// SectionExpense covers "Direct Expenses" and "Indirect Expenses".
	SectionExpense
)

// String returns the lowercase section name used in log output.
func (s Section) String() string {
	switch s {
	case SectionIncome:
		return "income"
	case SectionExpense:
		return "expense"
	default:
		return "none"
	}
}

// =============================================================================
// LEDGER TYPES
// =============================================================================

// LedgerEntry is a single ledger line of the report.
type LedgerEntry struct {
	// Name is the English ledger name as exported, or its translation once
	// the entry has passed through the translation table.
	Name string

	// Amount is always non-negative.
	Amount decimal.Decimal
}

// Report holds the two ordered ledger lists of a Profit & Loss statement.
// Both lists preserve document order.
type Report struct {
	Income  []LedgerEntry
	Expense []LedgerEntry
}
