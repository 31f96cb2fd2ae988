package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/akash-d122/helpdesk-triage/internal/core/domain"
)

var feedbackDetails string

var feedbackCmd = &cobra.Command{
	Use:   "feedback [suggestion-id] [correct|incorrect|partial]",
	Short: "Record a reviewer's verdict on a suggestion",
	Long: `Applies a human review outcome to a stored suggestion and folds it
into the calibration statistics, so future confidence scores reflect
how past suggestions actually fared.`,
	Args: cobra.ExactArgs(2),
	RunE: runFeedback,
}

func init() {
	feedbackCmd.Flags().StringVar(&feedbackDetails, "details", "", "free-form reviewer commentary")
	rootCmd.AddCommand(feedbackCmd)
}

func runFeedback(cmd *cobra.Command, args []string) error {
	if triageService == nil {
		return errors.New("triage service not configured")
	}

	outcome := domain.ReviewOutcome(args[1])
	if err := triageService.RecordReviewFeedback(cmd.Context(), args[0], outcome, feedbackDetails); err != nil {
		return err
	}
	cmd.Printf("Recorded %s for suggestion %s.\n", outcome, args[0])
	return nil
}
