package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/untangling-bench/lltc4j-export/internal/gateway"
	"github.com/untangling-bench/lltc4j-export/internal/usecase"
)

var labelsCmd = &cobra.Command{
	Use:   "labels <commit_hash>",
	Short: "Prints the manual labels of a commit, line by line",
	Long: `Looks a commit up in the SmartSHARK database and prints every manually
labelled changed line as "<label> -> <line>", followed by the set of distinct
labels in the commit. Useful for inspecting how the dataset authors labelled
a particular commit.`,
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

		printer := usecase.NewLabelPrinter(store, logger)
		if err := printer.Print(ctx, args[0], os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Label dump failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(labelsCmd)
}
