// =============================================================================
// Kannada P&L Generator - Report Generation
// =============================================================================
//
// This file runs the full pipeline for the root command: ask for (or read)
// the period, then export, sync, extract and compose.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"

	"github.com/ginjaninja78/tally-kannada-pnl/internal/pipeline"
	"github.com/ginjaninja78/tally-kannada-pnl/internal/prompt"
)

// fromDate and toDate bypass the interactive prompt when both are set.
var (
	fromDate string
	toDate   string
)

func runGenerate(ctx context.Context) error {
	cfg, logger, sync, err := setup()
	if err != nil {
		return err
	}
	defer sync()

	from, to := fromDate, toDate
	if from == "" || to == "" {
		from, to, err = prompt.Dates(from, to)
		if err != nil {
			return err
		}
	}

	fmt.Println("=== Kannada P&L Generator ===")

	result := pipeline.New(cfg, logger).Run(ctx, from, to)
	if !result.Success {
		return result.Error
	}

	s := result.Stats
	fmt.Println("\n=== Report Complete ===")
	fmt.Printf("Period:          %s (%s)\n", result.Range, result.MonthYear)
	fmt.Printf("Ledgers synced:  %d (%d new)\n", s.LedgersFetched, s.LedgersAdded)
	fmt.Printf("Income:          %d of %d ledger(s)\n", s.IncomeWritten, s.IncomeParsed)
	fmt.Printf("Expense:         %d of %d ledger(s)\n", s.ExpenseWritten, s.ExpenseParsed)
	fmt.Printf("Report rows:     %d\n", s.ReportRows)
	fmt.Printf("Output:          %s\n", result.OutputFile)
	fmt.Printf("Time elapsed:    %s\n", s.ProcessingTime)

	return nil
}
