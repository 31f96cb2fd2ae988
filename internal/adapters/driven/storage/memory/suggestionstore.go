package memory

import (
	"context"
	"sync"

	"github.com/akash-d122/helpdesk-triage/internal/core/domain"
	"github.com/akash-d122/helpdesk-triage/internal/core/ports/driven"
)

// Ensure SuggestionStore implements the interface.
var _ driven.SuggestionStore = (*SuggestionStore)(nil)

// SuggestionStore is an in-memory implementation of
// driven.SuggestionStore.
type SuggestionStore struct {
	mu          sync.RWMutex
	suggestions map[string]domain.Suggestion
}

// NewSuggestionStore creates an empty in-memory suggestion store.
func NewSuggestionStore() *SuggestionStore {
	return &SuggestionStore{suggestions: make(map[string]domain.Suggestion)}
}

// Save stores a new suggestion.
func (s *SuggestionStore) Save(_ context.Context, suggestion *domain.Suggestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggestions[suggestion.ID] = *suggestion
	return nil
}

// Get retrieves a suggestion by ID.
func (s *SuggestionStore) Get(_ context.Context, id string) (*domain.Suggestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	suggestion, ok := s.suggestions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &suggestion, nil
}

// UpdateStatus transitions a suggestion's lifecycle state.
func (s *SuggestionStore) UpdateStatus(_ context.Context, id string, status domain.SuggestionStatus, review *domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	suggestion, ok := s.suggestions[id]
	if !ok {
		return domain.ErrNotFound
	}
	suggestion.Status = status
	if review != nil {
		suggestion.Review = review
	}
	s.suggestions[id] = suggestion
	return nil
}
