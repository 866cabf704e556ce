// =============================================================================
// Kannada P&L Generator - Report Composer
// =============================================================================
//
// This module fills the body template with translated ledgers and stitches
// the header, body and footer workbooks into the final report.
//
// BODY LAYOUT (default columns):
//
//   |   | B (expense name) | C (amount) | D | E (income name) | F (amount) |
//   |---|------------------|------------|---|-----------------|------------|
//   | 1 | template heading ...                                            |
//   | 2 | Salary           | 12,000.00  |   | Rent Received   | 5,000.00   |
//   | 3 | Electricity      | 800.25     |   |                 |            |
//
// Row 2 of the template carries the reference styles. Every written cell
// receives its column's reference style, so rows past the styled area
// look the same as the first.
//
// =============================================================================

package composer

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/tally-kannada-pnl/internal/config"
	"github.com/ginjaninja78/tally-kannada-pnl/internal/logging"
	"github.com/ginjaninja78/tally-kannada-pnl/internal/types"
	"github.com/ginjaninja78/tally-kannada-pnl/pkg/utils"
)

// BodyOptions configures Body.
type BodyOptions struct {
	// Template is the body template workbook.
	Template string

	// Output is where the filled body is saved.
	Output string

	// Layout places the ledger columns.
	Layout config.LayoutConfig

	Logger logging.Logger
}

// column is one side of the body: where names and amounts go and the
// style ids applied to them.
type column struct {
	name, amount           string
	nameStyle, amountStyle int
}

// Body writes the expense and income ledgers into a copy of the body
// template and saves it to opts.Output.
func Body(opts BodyOptions, income, expense []types.LedgerEntry, monthYear string) error {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	layout := opts.Layout

	f, err := excelize.OpenFile(opts.Template)
	if err != nil {
		return fmt.Errorf("failed to open body template: %w", err)
	}
	defer f.Close()

	sheet := activeSheet(f)

	n, err := replaceInSheet(f, sheet, func(v string) string {
		if strings.TrimSpace(v) == layout.Placeholder {
			return monthYear
		}
		return v
	})
	if err != nil {
		return fmt.Errorf("failed to replace placeholder: %w", err)
	}
	logger.Debug("replaced %d placeholder cell(s) in body template", n)

	for _, col := range []string{layout.ExpenseNameColumn, layout.IncomeNameColumn} {
		if err := f.SetColWidth(sheet, col, col, layout.NameWidth); err != nil {
			return fmt.Errorf("failed to set width of column %s: %w", col, err)
		}
	}
	for _, col := range []string{layout.ExpenseAmountColumn, layout.IncomeAmountColumn} {
		if err := f.SetColWidth(sheet, col, col, layout.AmountWidth); err != nil {
			return fmt.Errorf("failed to set width of column %s: %w", col, err)
		}
	}

	expenseCol, err := referenceColumn(f, sheet, layout, layout.ExpenseNameColumn, layout.ExpenseAmountColumn, logger)
	if err != nil {
		return err
	}
	incomeCol, err := referenceColumn(f, sheet, layout, layout.IncomeNameColumn, layout.IncomeAmountColumn, logger)
	if err != nil {
		return err
	}

	if err := writeEntries(f, sheet, layout.StartRow, expenseCol, expense); err != nil {
		return fmt.Errorf("failed to write expense ledgers: %w", err)
	}
	if err := writeEntries(f, sheet, layout.StartRow, incomeCol, income); err != nil {
		return fmt.Errorf("failed to write income ledgers: %w", err)
	}

	if err := utils.EnsureParentDir(opts.Output); err != nil {
		return err
	}
	if err := f.SaveAs(opts.Output); err != nil {
		return fmt.Errorf("failed to save body: %w", err)
	}

	logger.Info("Body written: %d expense, %d income ledger(s) -> %s", len(expense), len(income), opts.Output)
	return nil
}

// referenceColumn derives the name and amount styles from the reference
// row of the template.
func referenceColumn(f *excelize.File, sheet string, layout config.LayoutConfig, nameCol, amountCol string, logger logging.Logger) (column, error) {
	c := column{name: nameCol, amount: amountCol}

	nameID, err := f.GetCellStyle(sheet, fmt.Sprintf("%s%d", nameCol, layout.StartRow))
	if err != nil {
		return c, fmt.Errorf("failed to read reference style of column %s: %w", nameCol, err)
	}
	amountID, err := f.GetCellStyle(sheet, fmt.Sprintf("%s%d", amountCol, layout.StartRow))
	if err != nil {
		return c, fmt.Errorf("failed to read reference style of column %s: %w", amountCol, err)
	}

	c.nameStyle, _ = CopyStyle(f, nameID, f, withWrapText, logger)
	c.amountStyle, _ = CopyStyle(f, amountID, f, withNumberFormat(layout.CurrencyFormat), logger)
	return c, nil
}

func writeEntries(f *excelize.File, sheet string, startRow int, c column, entries []types.LedgerEntry) error {
	for i, e := range entries {
		row := startRow + i
		nameCell := fmt.Sprintf("%s%d", c.name, row)
		amountCell := fmt.Sprintf("%s%d", c.amount, row)

		if err := f.SetCellStr(sheet, nameCell, e.Name); err != nil {
			return err
		}
		if err := f.SetCellFloat(sheet, amountCell, e.Amount.InexactFloat64(), -1, 64); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, nameCell, nameCell, c.nameStyle); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, amountCell, amountCell, c.amountStyle); err != nil {
			return err
		}
	}
	return nil
}
