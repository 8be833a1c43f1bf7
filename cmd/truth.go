package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/untangling-bench/lltc4j-export/internal/domain"
	"github.com/untangling-bench/lltc4j-export/internal/gateway"
	"github.com/untangling-bench/lltc4j-export/internal/usecase"
)

var truthCmd = &cobra.Command{
	Use:   "export-truth",
	Short: "Exports the commit list together with per-commit ground truth files",
	Long: `Exports the full dataset to a directory: lltc4j-commits.csv at the root,
plus one <project>_<short-hash>/truth.csv per commit labelling every changed
code line as bugfix or nonbugfix. Only validated bug-fixing commits with a
single parent and at least one labelled code change in a non-test Java file
are exported.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd)

		outDir, _ := cmd.Flags().GetString("outdir")
		flagProjects, _ := cmd.Flags().GetStringSlice("projects")
		number, _ := cmd.Flags().GetInt("number")
		configPath, _ := cmd.Flags().GetString("config")

		projects, err := resolveProjects(flagProjects, configPath, domain.Projects)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}

		store, err := gateway.Connect(ctx, loadStoreConfig(logger), logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to the SmartSHARK database: %v\n", err)
			os.Exit(1)
		}
		defer store.Close(ctx)

		exporter := usecase.NewTruthExporter(store, logger)
		count, err := exporter.Export(ctx, projects, number, outDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ground truth export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Processed %d commits.\n", count)
	},
}

func init() {
	rootCmd.AddCommand(truthCmd)
	truthCmd.Flags().StringP("outdir", "o", "", "Directory storing the commit list and the ground truth CSVs (required)")
	truthCmd.MarkFlagRequired("outdir")
	truthCmd.Flags().StringSliceP("projects", "p", nil, "Projects to export (default: all dataset projects)")
	truthCmd.Flags().IntP("number", "n", 0, "Maximum number of commits to export (0 = all)")
	truthCmd.Flags().String("config", "", "Path to a YAML config file listing the projects to export")
}
