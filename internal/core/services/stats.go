package services

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/akash-d122/helpdesk-triage/internal/core/domain"
	"github.com/akash-d122/helpdesk-triage/internal/core/ports/driven"
	"github.com/akash-d122/helpdesk-triage/internal/logger"
)

// statsAlpha is the exponential update rate for online accuracy
// figures: new = (1-alpha)*old + alpha*observed.
const statsAlpha = 0.1

// neutralAccuracy is assumed for categories and strategies that have
// no recorded feedback yet.
const neutralAccuracy = 0.8

// StatsTracker holds the historical accuracy figures in memory and
// writes them through to the metrics store on every feedback update.
// Reads are served from memory so assessment never blocks on I/O.
//
// Safe for concurrent use.
type StatsTracker struct {
	mu    sync.RWMutex
	stats domain.HistoricalStats
	store driven.MetricsStore
}

// NewStatsTracker loads persisted stats, falling back to defaults when
// the store is empty or nil.
func NewStatsTracker(ctx context.Context, store driven.MetricsStore) (*StatsTracker, error) {
	tracker := &StatsTracker{stats: domain.DefaultStats(), store: store}
	if store == nil {
		return tracker, nil
	}
	stats, err := store.LoadStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("load historical stats: %w", err)
	}
	if stats.Bins == nil {
		stats = domain.DefaultStats()
	}
	tracker.stats = stats
	return tracker, nil
}

// Snapshot returns a copy of the current stats.
func (t *StatsTracker) Snapshot() domain.HistoricalStats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return copyStats(t.stats)
}

// CategoryAccuracy returns the observed accuracy for a category.
func (t *StatsTracker) CategoryAccuracy(category string) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if acc, ok := t.stats.CategoryAccuracy[category]; ok {
		return acc
	}
	return neutralAccuracy
}

// StrategyAccuracy returns the observed accuracy for a draft strategy.
func (t *StatsTracker) StrategyAccuracy(strategy domain.DraftStrategy) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if acc, ok := t.stats.StrategyAccuracy[strategy]; ok {
		return acc
	}
	return neutralAccuracy
}

// RetrievalAccuracy returns the observed retrieval accuracy.
func (t *StatsTracker) RetrievalAccuracy() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.stats.RetrievalAccuracy
}

// OverallAccuracy returns the observed system-wide accuracy.
func (t *StatsTracker) OverallAccuracy() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.stats.OverallAccuracy
}

// ArticleSuccess returns the success rate for an article and whether
// any feedback has been recorded for it.
func (t *StatsTracker) ArticleSuccess(articleID string) (float64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rate, ok := t.stats.ArticleSuccess[articleID]
	return rate, ok
}

// Bins returns the calibration table.
func (t *StatsTracker) Bins() []domain.CalibrationBin {
	t.mu.RLock()
	defer t.mu.RUnlock()
	bins := make([]domain.CalibrationBin, len(t.stats.Bins))
	copy(bins, t.stats.Bins)
	return bins
}

// RecordOutcome folds one reviewed suggestion into the accuracy
// figures and persists the result. Partial outcomes count as half
// correct.
func (t *StatsTracker) RecordOutcome(ctx context.Context, s *domain.Suggestion, outcome domain.ReviewOutcome) error {
	observed := 0.0
	switch outcome {
	case domain.OutcomeCorrect:
		observed = 1.0
	case domain.OutcomePartial:
		observed = 0.5
	case domain.OutcomeIncorrect:
		observed = 0.0
	default:
		return fmt.Errorf("%w: %q", domain.ErrInvalidOutcome, outcome)
	}

	t.mu.Lock()
	category := s.Classification.Category.Value
	t.stats.CategoryAccuracy[category] = blend(lookup(t.stats.CategoryAccuracy, category), observed)
	t.stats.StrategyAccuracy[s.Draft.Strategy] = blend(lookupStrategy(t.stats.StrategyAccuracy, s.Draft.Strategy), observed)
	t.stats.RetrievalAccuracy = blend(t.stats.RetrievalAccuracy, observed)
	t.stats.OverallAccuracy = blend(t.stats.OverallAccuracy, observed)
	for _, match := range s.KnowledgeMatches {
		prev, ok := t.stats.ArticleSuccess[match.ID]
		if !ok {
			prev = observed
		}
		t.stats.ArticleSuccess[match.ID] = blend(prev, observed)
	}
	for i := range t.stats.Bins {
		if t.stats.Bins[i].Contains(s.Confidence.Overall) {
			t.stats.Bins[i].Accuracy = blend(t.stats.Bins[i].Accuracy, observed)
			break
		}
	}
	snapshot := copyStats(t.stats)
	t.mu.Unlock()

	logger.Info("review feedback recorded",
		zap.String("suggestion_id", s.ID),
		zap.String("outcome", string(outcome)),
		zap.String("category", category))

	if t.store == nil {
		return nil
	}
	if err := t.store.SaveStats(ctx, snapshot); err != nil {
		return fmt.Errorf("persist historical stats: %w", err)
	}
	return nil
}

func blend(old, observed float64) float64 {
	return (1-statsAlpha)*old + statsAlpha*observed
}

func lookup(m map[string]float64, key string) float64 {
	if v, ok := m[key]; ok {
		return v
	}
	return neutralAccuracy
}

func lookupStrategy(m map[domain.DraftStrategy]float64, key domain.DraftStrategy) float64 {
	if v, ok := m[key]; ok {
		return v
	}
	return neutralAccuracy
}

func copyStats(s domain.HistoricalStats) domain.HistoricalStats {
	out := domain.HistoricalStats{
		CategoryAccuracy:  make(map[string]float64, len(s.CategoryAccuracy)),
		StrategyAccuracy:  make(map[domain.DraftStrategy]float64, len(s.StrategyAccuracy)),
		ArticleSuccess:    make(map[string]float64, len(s.ArticleSuccess)),
		RetrievalAccuracy: s.RetrievalAccuracy,
		OverallAccuracy:   s.OverallAccuracy,
		Bins:              make([]domain.CalibrationBin, len(s.Bins)),
	}
	for k, v := range s.CategoryAccuracy {
		out.CategoryAccuracy[k] = v
	}
	for k, v := range s.StrategyAccuracy {
		out.StrategyAccuracy[k] = v
	}
	for k, v := range s.ArticleSuccess {
		out.ArticleSuccess[k] = v
	}
	copy(out.Bins, s.Bins)
	return out
}
