package domain

import "time"

// Article is a knowledge-base article as supplied by the article store.
type Article struct {
	// ID is the unique article identifier.
	ID string

	// Title is the human-readable title.
	Title string

	// Summary is a short abstract shown in match listings.
	Summary string

	// Body is the full article text.
	Body string

	// Category is the article's knowledge-base category.
	Category string

	// Tags are labels attached to the article.
	Tags []string

	// ViewCount is the number of times the article has been viewed.
	ViewCount int

	// HelpfulnessRatio is the fraction of helpful votes in [0,1].
	HelpfulnessRatio float64

	// Published reports whether the article is visible to requesters.
	// Only published articles are indexed.
	Published bool

	// UpdatedAt is when the article content last changed.
	UpdatedAt time.Time
}

// SearchableText returns the concatenated text the index is built over.
func (a Article) SearchableText() string {
	text := a.Title + " " + a.Summary + " " + a.Body
	for _, tag := range a.Tags {
		text += " " + tag
	}
	return text
}

// SourceStrategy identifies which retrieval strategy produced a match.
type SourceStrategy string

// Retrieval strategies. Combination marks a match contributed by more
// than one strategy.
const (
	StrategySemantic    SourceStrategy = "semantic"
	StrategyCategory    SourceStrategy = "category"
	StrategyTags        SourceStrategy = "tags"
	StrategyKeyword     SourceStrategy = "keyword"
	StrategyCombination SourceStrategy = "combination"
)

// KnowledgeMatch is a single ranked retrieval result. The list returned
// by retrieval is sorted descending by Score, deduplicated by ID, and
// capped at the configured maximum.
type KnowledgeMatch struct {
	// ID is the matched article's identifier.
	ID string

	// Title is the article title.
	Title string

	// Summary is the article summary.
	Summary string

	// Category is the article category.
	Category string

	// Tags are the article tags.
	Tags []string

	// Score is the final merged relevance score in [0,1].
	Score float64

	// SourceStrategy identifies the contributing strategy or strategies.
	SourceStrategy SourceStrategy

	// HelpfulnessRatio is the article's helpful-vote fraction in [0,1].
	HelpfulnessRatio float64

	// ViewCount is the article's view count.
	ViewCount int
}
