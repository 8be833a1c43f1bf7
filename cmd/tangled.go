package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/untangling-bench/lltc4j-export/internal/gateway"
	"github.com/untangling-bench/lltc4j-export/internal/usecase"
)

var tangledCmd = &cobra.Command{
	Use:   "tangled <commits_file>",
	Short: "Reports tangled lines and hunks for an exported commit list",
	Long: `Reads an exported commit list CSV, looks each commit up in the SmartSHARK
database, and reports the lines that were manually labelled with more than
one change type as well as the hunks mixing bug-fixing and non-bug-fixing
code changes, with a short summary at the end.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd)

		store, err := gateway.Connect(ctx, loadStoreConfig(logger), logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to the SmartSHARK database: %v\n", err)
			os.Exit(1)
		}
		defer store.Close(ctx)

		reporter := usecase.NewTangledReporter(store, logger)
		if err := reporter.Report(ctx, args[0], os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Tangled commit report failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(tangledCmd)
}
