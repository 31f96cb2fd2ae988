package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the knowledge-base index",
	Long: `Reads all published articles from storage and rebuilds the lexical
index. Safe to run at any time; concurrent lookups see the old or the
new index, never a partial one.`,
	RunE: runReindex,
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, _ []string) error {
	if triageService == nil {
		return errors.New("triage service not configured")
	}
	if err := triageService.ReindexKnowledge(cmd.Context()); err != nil {
		return err
	}
	health := triageService.Health(cmd.Context())
	cmd.Printf("Indexed %d articles.\n", health.IndexedArticleCount)
	return nil
}
