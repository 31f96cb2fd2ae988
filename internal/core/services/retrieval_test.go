package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akash-d122/helpdesk-triage/internal/core/domain"
)

func newTestRetriever(t *testing.T, articles []domain.Article) *Retriever {
	t.Helper()
	idx := NewIndex()
	idx.Rebuild(articles)
	return NewRetriever(idx, nil, DefaultRetrievalConfig())
}

func TestRetriever_UnbuiltIndexReturnsNothing(t *testing.T) {
	r := NewRetriever(NewIndex(), nil, DefaultRetrievalConfig())

	assert.Nil(t, r.Search("password reset", "account", nil))
}

func TestRetriever_EmptyIndexReturnsNothing(t *testing.T) {
	r := newTestRetriever(t, nil)

	assert.Nil(t, r.Search("password reset", "account", nil))
}

func TestRetriever_FindsRelevantArticle(t *testing.T) {
	r := newTestRetriever(t, indexFixtures())

	matches := r.Search("how do I reset my password", "account", nil)

	require.NotEmpty(t, matches)
	assert.Equal(t, "kb-1", matches[0].ID)
}

func TestRetriever_ResultsSortedDescendingWithoutDuplicateIDs(t *testing.T) {
	r := newTestRetriever(t, indexFixtures())

	matches := r.Search("invoice password api", "billing", []string{"api", "invoice"})

	seen := map[string]bool{}
	for i, m := range matches {
		assert.False(t, seen[m.ID], "duplicate article %s in results", m.ID)
		seen[m.ID] = true
		if i > 0 {
			assert.GreaterOrEqual(t, matches[i-1].Score, m.Score)
		}
		assert.GreaterOrEqual(t, m.Score, r.cfg.MinScore)
		assert.LessOrEqual(t, m.Score, 1.0)
	}
}

func TestRetriever_CapsAtMaxResults(t *testing.T) {
	articles := make([]domain.Article, 0, 10)
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		articles = append(articles, domain.Article{
			ID:       "kb-" + id,
			Title:    "Billing guide " + id,
			Category: "billing",
		})
	}
	cfg := DefaultRetrievalConfig()
	cfg.MaxResults = 3
	idx := NewIndex()
	idx.Rebuild(articles)
	r := NewRetriever(idx, nil, cfg)

	matches := r.Search("billing guide", "billing", nil)

	assert.Len(t, matches, 3)
}

func TestRetriever_MultipleStrategiesMarkCombination(t *testing.T) {
	r := newTestRetriever(t, indexFixtures())

	// kb-2 matches by category, tags, and text all at once.
	matches := r.Search("invoice", "billing", []string{"invoice"})

	require.NotEmpty(t, matches)
	assert.Equal(t, "kb-2", matches[0].ID)
	assert.Equal(t, domain.StrategyCombination, matches[0].SourceStrategy)
}

func TestRetriever_SingleStrategyKeepsItsName(t *testing.T) {
	r := newTestRetriever(t, indexFixtures())

	// No query text and no tags: only the category strategy can fire.
	matches := r.Search("", "billing", nil)

	require.NotEmpty(t, matches)
	assert.Equal(t, domain.StrategyCategory, matches[0].SourceStrategy)
}

func TestRetriever_MinScoreFiltersWeakMatches(t *testing.T) {
	cfg := DefaultRetrievalConfig()
	cfg.MinScore = 0.99
	idx := NewIndex()
	idx.Rebuild(indexFixtures())
	r := NewRetriever(idx, nil, cfg)

	assert.Empty(t, r.Search("password", "account", nil))
}

func TestRetriever_CachesByFingerprint(t *testing.T) {
	r := newTestRetriever(t, indexFixtures())

	first := r.Search("password reset", "account", []string{"login"})
	assert.Equal(t, 1, r.CacheSize())

	second := r.Search("password reset", "account", []string{"login"})
	assert.Equal(t, first, second)
	assert.Equal(t, 1, r.CacheSize())

	r.Search("invoice", "billing", nil)
	assert.Equal(t, 2, r.CacheSize())
}

func TestRetriever_FingerprintIgnoresTagOrder(t *testing.T) {
	r := newTestRetriever(t, indexFixtures())

	a := r.fingerprint("query", "billing", []string{"x", "y"})
	b := r.fingerprint("query", "billing", []string{"y", "x"})
	c := r.fingerprint("query", "billing", []string{"z"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestRetriever_ClearCacheDropsResults(t *testing.T) {
	r := newTestRetriever(t, indexFixtures())

	r.Search("password", "account", nil)
	require.Equal(t, 1, r.CacheSize())

	r.ClearCache()
	assert.Equal(t, 0, r.CacheSize())
}

func TestRelevance_AccumulatesQualitySignals(t *testing.T) {
	r := newTestRetriever(t, nil)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	article := domain.Article{
		HelpfulnessRatio: 1.0,
		ViewCount:        500,
		Category:         "billing",
		UpdatedAt:        now.Add(-24 * time.Hour),
	}
	assert.InDelta(t, 1.0, r.relevance(article, "billing", now), 1e-9)

	stale := domain.Article{UpdatedAt: now.Add(-90 * 24 * time.Hour)}
	assert.Equal(t, 0.0, r.relevance(stale, "billing", now))
}

func TestRetriever_ArticleSuccessBoostsScore(t *testing.T) {
	articles := []domain.Article{{ID: "kb-1", Title: "Billing guide", Category: "billing"}}

	idx := NewIndex()
	idx.Rebuild(articles)
	neutral := NewRetriever(idx, nil, DefaultRetrievalConfig())
	base := neutral.Search("", "billing", nil)
	require.Len(t, base, 1)

	store := newRecordingMetricsStore()
	store.stats.ArticleSuccess["kb-1"] = 1.0
	stats, err := NewStatsTracker(context.Background(), store)
	require.NoError(t, err)

	boosted := NewRetriever(idx, stats, DefaultRetrievalConfig())
	matches := boosted.Search("", "billing", nil)

	require.Len(t, matches, 1)
	// A perfect success rate lifts the score by 10%.
	assert.InDelta(t, base[0].Score*1.1, matches[0].Score, 1e-9)
}
