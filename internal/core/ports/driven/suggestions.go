package driven

import (
	"context"

	"github.com/akash-d122/helpdesk-triage/internal/core/domain"
)

// SuggestionStore persists pipeline suggestions.
type SuggestionStore interface {
	// Save stores a new suggestion.
	Save(ctx context.Context, s *domain.Suggestion) error

	// Get retrieves a suggestion by ID.
	// Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, id string) (*domain.Suggestion, error)

	// UpdateStatus transitions a suggestion's lifecycle state and,
	// when review is non-nil, records the review outcome.
	UpdateStatus(ctx context.Context, id string, status domain.SuggestionStatus, review *domain.Review) error
}
