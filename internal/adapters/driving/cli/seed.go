package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/akash-d122/helpdesk-triage/internal/core/domain"
)

var seedCmd = &cobra.Command{
	Use:   "seed [articles.json]",
	Short: "Load knowledge-base articles into storage",
	Long: `Reads a JSON array of knowledge-base articles and writes them to the
configured store. Existing articles with the same ID are replaced.
Run "reindex" (or any "process") afterwards to pick them up.`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

// articleFile is the on-disk article shape accepted by seed.
type articleFile struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Summary          string    `json:"summary"`
	Body             string    `json:"body"`
	Category         string    `json:"category"`
	Tags             []string  `json:"tags"`
	ViewCount        int       `json:"view_count"`
	HelpfulnessRatio float64   `json:"helpfulness_ratio"`
	Published        bool      `json:"published"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func runSeed(cmd *cobra.Command, args []string) error {
	if articleStore == nil {
		return errors.New("article store not configured")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read articles file: %w", err)
	}
	var files []articleFile
	if err := json.Unmarshal(data, &files); err != nil {
		return fmt.Errorf("parse articles file: %w", err)
	}

	ctx := cmd.Context()
	for _, af := range files {
		if af.ID == "" {
			return fmt.Errorf("%w: article without id", domain.ErrInvalidInput)
		}
		article := domain.Article{
			ID:               af.ID,
			Title:            af.Title,
			Summary:          af.Summary,
			Body:             af.Body,
			Category:         af.Category,
			Tags:             af.Tags,
			ViewCount:        af.ViewCount,
			HelpfulnessRatio: af.HelpfulnessRatio,
			Published:        af.Published,
			UpdatedAt:        af.UpdatedAt,
		}
		if err := articleStore.Save(ctx, article); err != nil {
			return fmt.Errorf("save article %s: %w", af.ID, err)
		}
	}

	cmd.Printf("Seeded %d articles.\n", len(files))
	return nil
}
