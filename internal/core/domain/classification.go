package domain

// CategoryResult is the category decision for a ticket.
type CategoryResult struct {
	// Value is the decided category name.
	Value string

	// Confidence is the normalised keyword-match score in [0,1].
	Confidence float64

	// MatchedKeywords are the category keywords found in the text.
	MatchedKeywords []string
}

// PriorityResult is the priority decision for a ticket.
type PriorityResult struct {
	// Value is the decided priority.
	Value Priority

	// Confidence is the decision confidence in [0,1].
	Confidence float64

	// Reasoning records the rule(s) that triggered the decision.
	Reasoning []string

	// UrgencyScore is the normalised urgency-keyword density in [0,1].
	UrgencyScore float64

	// Sentiment is the lexicon polarity score in [-1,1].
	Sentiment float64
}

// RoutingResult is the routing suggestion for a ticket.
type RoutingResult struct {
	// SuggestedAgentGroups are candidate queues for assignment.
	SuggestedAgentGroups []string

	// Department is the owning department.
	Department string

	// EscalationLevel is the suggested escalation floor (0 = none).
	EscalationLevel int

	// Reasoning records why the routing was chosen.
	Reasoning []string
}

// DuplicateMatch references a recently seen ticket whose text is
// similar enough to flag as a likely duplicate.
type DuplicateMatch struct {
	// TicketID is the earlier ticket's identifier.
	TicketID string

	// Similarity is the Jaccard similarity in [0,1].
	Similarity float64

	// Reason is a human-readable explanation of the flag.
	Reason string
}

// TextMetadata captures surface properties of the ticket text.
type TextMetadata struct {
	// WordCount is the number of words across subject and description.
	WordCount int

	// HasAttachments mirrors the ticket's attachment presence.
	HasAttachments bool

	// Language is the detected language code.
	Language string

	// Entities are extracted references (emails, URLs, ticket refs).
	Entities []string

	// Keywords are the most frequent non-stopword terms.
	Keywords []string
}

// ClassificationResult is the complete output of the classification
// stage. Produced once per pipeline run and never mutated afterwards.
type ClassificationResult struct {
	Category   CategoryResult
	Priority   PriorityResult
	Routing    RoutingResult
	Duplicates []DuplicateMatch
	Metadata   TextMetadata
}
