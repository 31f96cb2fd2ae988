package domain

import "time"

// SuggestionStatus is the lifecycle state of a suggestion.
type SuggestionStatus string

// Suggestion lifecycle states. Pipeline runs end in completed, or
// auto_applied when the auto-resolve policy fires; even a fully
// degraded run completes with an escalate recommendation. Review
// transitions produce reviewed/approved/rejected/modified. failed is
// reserved for external systems recording a suggestion they could not
// apply.
const (
	StatusPending     SuggestionStatus = "pending"
	StatusCompleted   SuggestionStatus = "completed"
	StatusFailed      SuggestionStatus = "failed"
	StatusReviewed    SuggestionStatus = "reviewed"
	StatusApproved    SuggestionStatus = "approved"
	StatusRejected    SuggestionStatus = "rejected"
	StatusModified    SuggestionStatus = "modified"
	StatusAutoApplied SuggestionStatus = "auto_applied"
)

// ReviewOutcome is a human reviewer's verdict on a suggestion.
type ReviewOutcome string

// Review outcomes.
const (
	OutcomeCorrect   ReviewOutcome = "correct"
	OutcomeIncorrect ReviewOutcome = "incorrect"
	OutcomePartial   ReviewOutcome = "partial"
)

// Valid reports whether the outcome is one of the known verdicts.
func (o ReviewOutcome) Valid() bool {
	switch o {
	case OutcomeCorrect, OutcomeIncorrect, OutcomePartial:
		return true
	}
	return false
}

// Review is the recorded outcome of a human review.
type Review struct {
	// Outcome is the reviewer's verdict.
	Outcome ReviewOutcome

	// Details is free-form reviewer commentary.
	Details string

	// ReviewedAt is when the review was recorded.
	ReviewedAt time.Time
}

// Suggestion is the aggregate produced by one pipeline run.
// It is created once per run; status transitions are driven by human
// review or by auto-apply when the recommendation permits.
type Suggestion struct {
	// ID is the unique suggestion identifier.
	ID string

	// TicketID references the analysed ticket.
	TicketID string

	// TraceID links the suggestion to pipeline logs.
	TraceID string

	// Classification is the classification stage output.
	Classification ClassificationResult

	// KnowledgeMatches is the retrieval stage output.
	KnowledgeMatches []KnowledgeMatch

	// Draft is the drafting stage output.
	Draft DraftResponse

	// Confidence is the confidence stage output.
	Confidence ConfidenceAssessment

	// Status is the lifecycle state.
	Status SuggestionStatus

	// Annotations records degraded stages so reviewers can tell a
	// fallback result from a genuine high-confidence analysis.
	Annotations []string

	// Review holds the human review outcome, if any.
	Review *Review

	// CreatedAt is when processing started.
	CreatedAt time.Time

	// CompletedAt is when processing finished.
	CompletedAt time.Time
}

// Degraded reports whether any stage recorded a degradation.
func (s *Suggestion) Degraded() bool {
	return len(s.Annotations) > 0
}
