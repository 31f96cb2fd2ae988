package memory

import (
	"context"
	"sync"

	"github.com/akash-d122/helpdesk-triage/internal/core/domain"
	"github.com/akash-d122/helpdesk-triage/internal/core/ports/driven"
)

// Ensure MetricsStore implements the interface.
var _ driven.MetricsStore = (*MetricsStore)(nil)

// MetricsStore is an in-memory implementation of driven.MetricsStore.
type MetricsStore struct {
	mu    sync.RWMutex
	stats domain.HistoricalStats
	set   bool
}

// NewMetricsStore creates an in-memory metrics store seeded with the
// default stats.
func NewMetricsStore() *MetricsStore {
	return &MetricsStore{}
}

// LoadStats returns the stored stats, or defaults when nothing has
// been saved yet.
func (s *MetricsStore) LoadStats(_ context.Context) (domain.HistoricalStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return domain.DefaultStats(), nil
	}
	return s.stats, nil
}

// SaveStats replaces the stored stats.
func (s *MetricsStore) SaveStats(_ context.Context, stats domain.HistoricalStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = stats
	s.set = true
	return nil
}
