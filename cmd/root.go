// =============================================================================
// Kannada P&L Generator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Running the binary
// with no subcommand generates the report.
//
// COBRA CLI STRUCTURE:
//   rootCmd (pnlgen)          generate the report
//   ├── syncCmd (pnlgen sync) update the translation table only
//   └── versionCmd            print build information
//
// The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/tally-kannada-pnl/internal/config"
	"github.com/ginjaninja78/tally-kannada-pnl/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "pnlgen",
	Short: "Kannada P&L Generator - Build a Kannada Profit & Loss report from Tally",
	Long: `pnlgen exports the Profit and Loss statement from a running Tally instance,
translates ledger names through the ledger mapping workbook and writes a
styled Kannada report built from header, body and footer templates.

Tally must have its HTTP XML server enabled (default http://localhost:9000).

Example Usage:
  pnlgen                                        # prompt for the period
  pnlgen --from 01-04-2023 --to 31-03-2024      # scripted run
  pnlgen sync                                   # only add new ledgers to the mapping
  pnlgen --config ./pnl.yaml -v                 # custom config, debug logging`,

	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd.Context())
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
// Ctrl-C cancels in-flight requests to Tally.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file (optional)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	rootCmd.Flags().StringVar(&fromDate, "from", "", "Start of the period (DD-MM-YYYY); skips the prompt with --to")
	rootCmd.Flags().StringVar(&toDate, "to", "", "End of the period (DD-MM-YYYY); skips the prompt with --from")
}

// setup loads the configuration and builds the logger shared by the
// commands. The returned function flushes the logger.
func setup() (*config.Config, logging.Logger, func(), error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, nil, err
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger, sync, err := logging.New(level)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, sync, nil
}
