package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/untangling-bench/lltc4j-export/internal/rewrite"
)

// The wss4j repository was renamed to ws-wss4j on its hosting platform after
// the dataset was published, so exported commit lists carry a stale URL.
const (
	staleRepoSlug   = "apache/wss4j.git"
	currentRepoSlug = "apache/ws-wss4j.git"
)

var fixCmd = &cobra.Command{
	Use:   "fix-repo-urls <commits_file>",
	Short: "Rewrites the renamed wss4j repository URL in an exported commit list",
	Long: `Rewrites every occurrence of the stale wss4j repository URL in an exported
commit list file to its current name, in place. The file's rows and columns
are otherwise untouched, and running the command on an already-corrected file
is a no-op.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger(cmd)

		count, err := rewrite.ReplaceInFile(args[0], staleRepoSlug, currentRepoSlug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger.Printf("Replaced %d occurrence(s) of %s in %s.", count, staleRepoSlug, args[0])
	},
}

func init() {
	rootCmd.AddCommand(fixCmd)
}
