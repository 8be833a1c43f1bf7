// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lltc4j",
	Short: "Tools to export the LLTC4J dataset from a SmartSHARK snapshot.",
	Long: `lltc4j exports the Line-Labelled Tangled Commits for Java dataset from a
pre-populated SmartSHARK database snapshot as CSV files, for consumption by an
external untangling-evaluation framework. It also ships small maintenance
commands for already-exported files.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}
