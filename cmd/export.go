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

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Exports the list of validated bug-fixing commits as CSV",
	Long: `Exports the commits labelled as validated bug fixes with manually labelled
changed lines, one CSV row per commit, to standard output. The connection to
the SmartSHARK database is configured through the environment (DB_HOST,
DB_PORT, DB_USER, DB_PASSWORD, DB_NAME, DB_AUTH_SOURCE, DB_SSL); a .env file
in the working directory is honored.

When no commit matches, the output contains only the header row.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd)

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

		exporter := usecase.NewExporter(store, logger)
		count, err := exporter.Export(ctx, projects, number, os.Stdout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		logger.Printf("Exported %d commits.", count)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringSliceP("projects", "p", nil, "Projects to export (default: all dataset projects)")
	exportCmd.Flags().IntP("number", "n", 0, "Maximum number of commits to export (0 = all)")
	exportCmd.Flags().String("config", "", "Path to a YAML config file listing the projects to export")
}
