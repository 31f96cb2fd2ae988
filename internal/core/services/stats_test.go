package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akash-d122/helpdesk-triage/internal/core/domain"
)

// recordingMetricsStore implements driven.MetricsStore for testing.
type recordingMetricsStore struct {
	stats   domain.HistoricalStats
	saved   []domain.HistoricalStats
	loadErr error
	saveErr error
}

func newRecordingMetricsStore() *recordingMetricsStore {
	return &recordingMetricsStore{stats: domain.DefaultStats()}
}

func (s *recordingMetricsStore) LoadStats(_ context.Context) (domain.HistoricalStats, error) {
	if s.loadErr != nil {
		return domain.HistoricalStats{}, s.loadErr
	}
	return s.stats, nil
}

func (s *recordingMetricsStore) SaveStats(_ context.Context, stats domain.HistoricalStats) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, stats)
	s.stats = stats
	return nil
}

func reviewedSuggestion() *domain.Suggestion {
	return &domain.Suggestion{
		ID: "s-1",
		Classification: domain.ClassificationResult{
			Category: domain.CategoryResult{Value: "billing", Confidence: 0.6},
		},
		KnowledgeMatches: []domain.KnowledgeMatch{{ID: "kb-1", Score: 0.7}},
		Draft:            domain.DraftResponse{Strategy: domain.DraftTemplate, Confidence: 0.8},
		Confidence:       domain.ConfidenceAssessment{Overall: 0.65},
	}
}

func TestNewStatsTracker_NilStoreUsesDefaults(t *testing.T) {
	tracker, err := NewStatsTracker(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, neutralAccuracy, tracker.CategoryAccuracy("billing"))
	assert.Equal(t, 0.8, tracker.RetrievalAccuracy())
	assert.Len(t, tracker.Bins(), 5)
}

func TestNewStatsTracker_LoadErrorSurfaces(t *testing.T) {
	store := newRecordingMetricsStore()
	store.loadErr = errors.New("disk gone")

	_, err := NewStatsTracker(context.Background(), store)

	assert.Error(t, err)
}

func TestNewStatsTracker_EmptyStoreFallsBackToDefaults(t *testing.T) {
	store := &recordingMetricsStore{} // zero-value stats, no bins

	tracker, err := NewStatsTracker(context.Background(), store)

	require.NoError(t, err)
	assert.Len(t, tracker.Bins(), 5)
	assert.Equal(t, 0.8, tracker.OverallAccuracy())
}

func TestRecordOutcome_CorrectRaisesAccuracies(t *testing.T) {
	store := newRecordingMetricsStore()
	tracker, err := NewStatsTracker(context.Background(), store)
	require.NoError(t, err)

	err = tracker.RecordOutcome(context.Background(), reviewedSuggestion(), domain.OutcomeCorrect)
	require.NoError(t, err)

	// new = 0.9*0.8 + 0.1*1.0
	assert.InDelta(t, 0.82, tracker.CategoryAccuracy("billing"), 1e-9)
	assert.InDelta(t, 0.82, tracker.StrategyAccuracy(domain.DraftTemplate), 1e-9)
	assert.InDelta(t, 0.82, tracker.RetrievalAccuracy(), 1e-9)
	assert.InDelta(t, 0.82, tracker.OverallAccuracy(), 1e-9)
	require.Len(t, store.saved, 1)
}

func TestRecordOutcome_IncorrectLowersAccuracies(t *testing.T) {
	tracker, err := NewStatsTracker(context.Background(), nil)
	require.NoError(t, err)

	err = tracker.RecordOutcome(context.Background(), reviewedSuggestion(), domain.OutcomeIncorrect)
	require.NoError(t, err)

	// new = 0.9*0.8 + 0.1*0.0
	assert.InDelta(t, 0.72, tracker.CategoryAccuracy("billing"), 1e-9)
}

func TestRecordOutcome_PartialCountsAsHalf(t *testing.T) {
	tracker, err := NewStatsTracker(context.Background(), nil)
	require.NoError(t, err)

	err = tracker.RecordOutcome(context.Background(), reviewedSuggestion(), domain.OutcomePartial)
	require.NoError(t, err)

	// new = 0.9*0.8 + 0.1*0.5
	assert.InDelta(t, 0.77, tracker.CategoryAccuracy("billing"), 1e-9)
}

func TestRecordOutcome_UpdatesCitedArticleSuccess(t *testing.T) {
	tracker, err := NewStatsTracker(context.Background(), nil)
	require.NoError(t, err)

	err = tracker.RecordOutcome(context.Background(), reviewedSuggestion(), domain.OutcomeCorrect)
	require.NoError(t, err)

	rate, ok := tracker.ArticleSuccess("kb-1")
	require.True(t, ok)
	// First observation seeds the rate, so a correct outcome lands at 1.
	assert.InDelta(t, 1.0, rate, 1e-9)

	_, ok = tracker.ArticleSuccess("kb-unseen")
	assert.False(t, ok)
}

func TestRecordOutcome_AdjustsContainingCalibrationBin(t *testing.T) {
	tracker, err := NewStatsTracker(context.Background(), nil)
	require.NoError(t, err)

	// Overall 0.65 falls in the [0.6, 0.8) bin, default accuracy 0.7.
	err = tracker.RecordOutcome(context.Background(), reviewedSuggestion(), domain.OutcomeCorrect)
	require.NoError(t, err)

	bins := tracker.Bins()
	assert.InDelta(t, 0.73, bins[3].Accuracy, 1e-9)
	assert.InDelta(t, 0.5, bins[2].Accuracy, 1e-9, "other bins unchanged")
}

func TestRecordOutcome_UnknownOutcomeRejected(t *testing.T) {
	tracker, err := NewStatsTracker(context.Background(), nil)
	require.NoError(t, err)

	err = tracker.RecordOutcome(context.Background(), reviewedSuggestion(), domain.ReviewOutcome("maybe"))

	assert.ErrorIs(t, err, domain.ErrInvalidOutcome)
}

func TestRecordOutcome_PersistErrorSurfaces(t *testing.T) {
	store := newRecordingMetricsStore()
	store.saveErr = errors.New("disk full")
	tracker, err := NewStatsTracker(context.Background(), store)
	require.NoError(t, err)

	err = tracker.RecordOutcome(context.Background(), reviewedSuggestion(), domain.OutcomeCorrect)

	assert.Error(t, err)
}

func TestSnapshot_ReturnsIndependentCopy(t *testing.T) {
	tracker, err := NewStatsTracker(context.Background(), nil)
	require.NoError(t, err)

	snap := tracker.Snapshot()
	snap.CategoryAccuracy["billing"] = 0.1
	snap.Bins[0].Accuracy = 0.99

	assert.Equal(t, neutralAccuracy, tracker.CategoryAccuracy("billing"))
	assert.InDelta(t, 0.1, tracker.Bins()[0].Accuracy, 1e-9)
}
