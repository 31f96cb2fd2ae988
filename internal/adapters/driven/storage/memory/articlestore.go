// Package memory provides in-memory implementations of the driven
// storage ports. They back tests and the in-memory storage driver.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/akash-d122/helpdesk-triage/internal/core/domain"
	"github.com/akash-d122/helpdesk-triage/internal/core/ports/driven"
)

// Ensure ArticleStore implements the interface.
var _ driven.ArticleStore = (*ArticleStore)(nil)

// ArticleStore is an in-memory implementation of driven.ArticleStore.
type ArticleStore struct {
	mu       sync.RWMutex
	articles map[string]domain.Article
}

// NewArticleStore creates an empty in-memory article store.
func NewArticleStore() *ArticleStore {
	return &ArticleStore{articles: make(map[string]domain.Article)}
}

// Save stores or replaces an article.
func (s *ArticleStore) Save(_ context.Context, article domain.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles[article.ID] = article
	return nil
}

// ListPublished returns all published articles, ordered by ID for
// deterministic indexing.
func (s *ArticleStore) ListPublished(_ context.Context) ([]domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Article
	for _, a := range s.articles {
		if a.Published {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
