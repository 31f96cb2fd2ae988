package driven

import (
	"context"

	"github.com/akash-d122/helpdesk-triage/internal/core/domain"
)

// ArticleStore provides access to knowledge-base articles.
// The pipeline only ever reads; article authoring lives elsewhere.
type ArticleStore interface {
	// ListPublished returns all published articles. Used to (re)build
	// the lexical index.
	ListPublished(ctx context.Context) ([]domain.Article, error)
}
