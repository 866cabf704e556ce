package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/tally-kannada-pnl/internal/pipeline"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Add ledgers new to Tally to the mapping workbook",
	Long: `Fetch the ledger list from Tally and append every ledger missing from the
mapping workbook, with its English name as a placeholder translation.
Nothing is written when there is nothing new.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, logger, sync, err := setup()
		if err != nil {
			return err
		}
		defer sync()

		res, err := pipeline.New(cfg, logger).Sync(ctx)
		if err != nil {
			return err
		}

		if len(res.Added) == 0 {
			fmt.Printf("No new ledgers (%d checked)\n", res.Fetched)
			return nil
		}
		fmt.Printf("Added %d ledger(s) to %s:\n", len(res.Added), cfg.Resolve(cfg.Paths.MappingFile))
		for _, name := range res.Added {
			fmt.Printf("  + %s\n", name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
