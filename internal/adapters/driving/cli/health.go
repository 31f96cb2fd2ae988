package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var healthJSON bool

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Show a pipeline diagnostic snapshot",
	RunE:  runHealth,
}

func init() {
	healthCmd.Flags().BoolVar(&healthJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	if triageService == nil {
		return errors.New("triage service not configured")
	}

	health := triageService.Health(cmd.Context())

	if healthJSON {
		data, err := json.MarshalIndent(health, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal health: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Status:               %s\n", health.Status)
	cmd.Printf("Indexed articles:     %d\n", health.IndexedArticleCount)
	cmd.Printf("Duplicate cache:      %d\n", health.DuplicateCacheSize)
	cmd.Printf("Retrieval cache:      %d\n", health.RetrievalCacheSize)
	cmd.Printf("Rate limiter tokens:  %.1f\n", health.RateLimiterTokens)
	if health.ProviderModel != "" {
		cmd.Printf("Provider model:       %s\n", health.ProviderModel)
	} else {
		cmd.Println("Provider model:       (none configured)")
	}
	if sqliteStore != nil {
		cmd.Printf("Database:             %s\n", sqliteStore.Path())
	}
	return nil
}
