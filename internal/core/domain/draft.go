package domain

// DraftStrategy identifies how a candidate reply was produced.
type DraftStrategy string

// Drafting strategies in descending order of reliability.
const (
	DraftTemplate   DraftStrategy = "template"
	DraftGenerative DraftStrategy = "generative"
	DraftHybrid     DraftStrategy = "hybrid"
	DraftFallback   DraftStrategy = "fallback"
)

// DraftResponse is a candidate reply to the requester.
type DraftResponse struct {
	// Content is the reply text.
	Content string

	// Strategy identifies how the content was produced.
	Strategy DraftStrategy

	// Confidence is the drafter's own confidence in [0,1].
	Confidence float64

	// SourceID identifies the template or provider model used.
	SourceID string

	// GenerationTimeMs is the wall-clock drafting time in milliseconds.
	GenerationTimeMs int64

	// Truncated reports whether the content was cut at the length cap.
	Truncated bool
}
