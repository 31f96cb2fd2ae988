package driving

import (
	"context"

	"github.com/akash-d122/helpdesk-triage/internal/core/domain"
)

// TriageService is the single entry point to the analysis pipeline.
type TriageService interface {
	// ProcessTicket runs the four analysis stages for one ticket and
	// returns the assembled suggestion. It never fails for
	// business-logic reasons: degraded stages produce a complete,
	// annotated suggestion with a conservative recommendation. An
	// error indicates a programmer or configuration mistake.
	ProcessTicket(ctx context.Context, ticket domain.Ticket) (*domain.Suggestion, error)

	// ReindexKnowledge rebuilds the lexical index from the article
	// store. Idempotent; readers see the old or new index atomically.
	ReindexKnowledge(ctx context.Context) error

	// RecordReviewFeedback applies a reviewer's verdict to a stored
	// suggestion and folds it into the calibration statistics.
	RecordReviewFeedback(ctx context.Context, suggestionID string, outcome domain.ReviewOutcome, details string) error

	// Health returns a diagnostic snapshot.
	Health(ctx context.Context) domain.Health
}
