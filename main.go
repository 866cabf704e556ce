// =============================================================================
// Kannada P&L Generator - Main Entry Point
// =============================================================================
//
// USAGE:
//   pnlgen            - Generate the Kannada Profit & Loss report
//   pnlgen sync       - Update the ledger mapping workbook only
//   pnlgen version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : pipeline stages and their support packages
//   - pkg/       : shared file utilities
//   - config/    : ledger mapping and report templates (runtime data)
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/tally-kannada-pnl/cmd"
)

func main() {
	cmd.Execute()
}
