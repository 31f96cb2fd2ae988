package services

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/akash-d122/helpdesk-triage/internal/core/domain"
	"github.com/akash-d122/helpdesk-triage/internal/logger"
)

// RetrievalConfig tunes the knowledge retrieval stage.
type RetrievalConfig struct {
	// MaxResults caps the returned match list.
	MaxResults int

	// MinScore drops matches scoring below it.
	MinScore float64

	// SemanticTopN is how many candidates the term-weighting strategy
	// keeps before merging.
	SemanticTopN int

	// CategoryScore is the fixed score for a category match.
	CategoryScore float64

	// TagScore is the additive score per shared tag, capped at 1.
	TagScore float64

	// KeywordScore is the additive score per contained query token,
	// capped at 1.
	KeywordScore float64

	// RecencyWindow is how recently an article must have been updated
	// to earn the recency bonus.
	RecencyWindow time.Duration

	// PopularViewCount is the view-count threshold for the popularity
	// bonus.
	PopularViewCount int

	// CacheSize bounds the retrieval result cache.
	CacheSize int
}

// DefaultRetrievalConfig returns the production defaults.
func DefaultRetrievalConfig() RetrievalConfig {
	return RetrievalConfig{
		MaxResults:       5,
		MinScore:         0.2,
		SemanticTopN:     20,
		CategoryScore:    0.8,
		TagScore:         0.3,
		KeywordScore:     0.15,
		RecencyWindow:    30 * 24 * time.Hour,
		PopularViewCount: 100,
		CacheSize:        128,
	}
}

// Relevance and merged-score fusion weights.
const (
	mergedScoreWeight = 0.7
	relevanceWeight   = 0.3
)

// mergedHit accumulates one article's scores across strategies.
type mergedHit struct {
	pos        int
	score      float64
	strategies []domain.SourceStrategy
}

// Retriever runs the four retrieval strategies over the lexical index
// and merges their results. Results are cached by a fingerprint of
// (query, category, tags) with oldest-first eviction.
//
// Safe for concurrent use; the index is read through an atomic
// snapshot.
type Retriever struct {
	index *Index
	stats *StatsTracker
	cache *boundedCache[[]domain.KnowledgeMatch]
	cfg   RetrievalConfig
	now   func() time.Time
}

// NewRetriever creates a retriever over the shared index. stats may be
// nil, in which case no historical boost is applied.
func NewRetriever(index *Index, stats *StatsTracker, cfg RetrievalConfig) *Retriever {
	return &Retriever{
		index: index,
		stats: stats,
		cache: newBoundedCache[[]domain.KnowledgeMatch](cfg.CacheSize),
		cfg:   cfg,
		now:   time.Now,
	}
}

// Search returns the ranked knowledge matches for the query. An
// unbuilt or empty index yields an empty result, never an error.
func (r *Retriever) Search(query, category string, tags []string) []domain.KnowledgeMatch {
	idx := r.index.snapshot()
	if idx == nil || len(idx.articles) == 0 {
		return nil
	}

	key := r.fingerprint(query, category, tags)
	if cached, ok := r.cache.get(key); ok {
		logger.Debug("retrieval cache hit", zap.String("fingerprint", key))
		return cached
	}

	merged := make(map[string]*mergedHit)
	accumulate := func(pos int, score float64, strategy domain.SourceStrategy) {
		id := idx.articles[pos].article.ID
		hit, ok := merged[id]
		if !ok {
			merged[id] = &mergedHit{pos: pos, score: score, strategies: []domain.SourceStrategy{strategy}}
			return
		}
		if score > hit.score {
			hit.score = score
		}
		hit.strategies = append(hit.strategies, strategy)
	}

	for _, sp := range r.semanticStrategy(idx, query) {
		accumulate(sp.pos, sp.score, domain.StrategySemantic)
	}
	for _, sp := range r.categoryStrategy(idx, category) {
		accumulate(sp.pos, sp.score, domain.StrategyCategory)
	}
	for _, sp := range r.tagStrategy(idx, tags) {
		accumulate(sp.pos, sp.score, domain.StrategyTags)
	}
	for _, sp := range r.keywordStrategy(idx, query) {
		accumulate(sp.pos, sp.score, domain.StrategyKeyword)
	}

	matches := r.finalize(idx, merged, category)
	r.cache.put(key, matches)
	logger.Debug("retrieval complete",
		zap.String("category", category),
		zap.Int("candidates", len(merged)),
		zap.Int("results", len(matches)))
	return matches
}

// ClearCache drops all cached results. Called after reindexing.
func (r *Retriever) ClearCache() {
	r.cache.clear()
}

// CacheSize returns the number of cached retrieval results.
func (r *Retriever) CacheSize() int {
	return r.cache.size()
}

// semanticStrategy scores every indexed article against the stemmed
// query with the term-weighting model.
func (r *Retriever) semanticStrategy(idx *lexicalIndex, query string) []scoredPosition {
	return idx.rank(stemText(query), r.cfg.SemanticTopN)
}

// categoryStrategy gives every article in the matching category a
// fixed high score.
func (r *Retriever) categoryStrategy(idx *lexicalIndex, category string) []scoredPosition {
	if category == "" {
		return nil
	}
	positions := idx.byCategory[strings.ToLower(category)]
	out := make([]scoredPosition, 0, len(positions))
	for _, pos := range positions {
		out = append(out, scoredPosition{pos: pos, score: r.cfg.CategoryScore})
	}
	return out
}

// tagStrategy accumulates additive score per shared tag, capped at 1.
func (r *Retriever) tagStrategy(idx *lexicalIndex, tags []string) []scoredPosition {
	if len(tags) == 0 {
		return nil
	}
	scores := make(map[int]float64)
	for _, tag := range tags {
		for _, pos := range idx.byTag[strings.ToLower(tag)] {
			scores[pos] += r.cfg.TagScore
		}
	}
	out := make([]scoredPosition, 0, len(scores))
	for pos, score := range scores {
		if score > 1 {
			score = 1
		}
		out = append(out, scoredPosition{pos: pos, score: score})
	}
	return out
}

// keywordStrategy is the substring-containment fallback: each query
// token found in an article's searchable text adds a small score,
// capped at 1.
func (r *Retriever) keywordStrategy(idx *lexicalIndex, query string) []scoredPosition {
	tokens := tokenize(query)
	var out []scoredPosition
	for pos := range idx.articles {
		var score float64
		for _, tok := range tokens {
			if _, skip := stopwords[tok]; skip {
				continue
			}
			if strings.Contains(idx.articles[pos].searchable, tok) {
				score += r.cfg.KeywordScore
			}
		}
		if score > 0 {
			if score > 1 {
				score = 1
			}
			out = append(out, scoredPosition{pos: pos, score: score})
		}
	}
	return out
}

// finalize applies the relevance adjustment and historical boost,
// filters, sorts, truncates, and flattens to the public match view.
func (r *Retriever) finalize(idx *lexicalIndex, merged map[string]*mergedHit, category string) []domain.KnowledgeMatch {
	now := r.now()
	matches := make([]domain.KnowledgeMatch, 0, len(merged))
	for id, hit := range merged {
		article := idx.articles[hit.pos].article
		relevance := r.relevance(article, category, now)
		final := mergedScoreWeight*hit.score + relevanceWeight*relevance
		if r.stats != nil {
			if rate, ok := r.stats.ArticleSuccess(id); ok {
				// Tracked articles drift the score up to ±10% around
				// a neutral 0.5 success rate.
				final *= 1 + 0.2*(rate-0.5)
			}
		}
		final = clamp01(final)
		if final < r.cfg.MinScore {
			continue
		}
		matches = append(matches, domain.KnowledgeMatch{
			ID:               article.ID,
			Title:            article.Title,
			Summary:          article.Summary,
			Category:         article.Category,
			Tags:             article.Tags,
			Score:            final,
			SourceStrategy:   combineStrategies(hit.strategies),
			HelpfulnessRatio: article.HelpfulnessRatio,
			ViewCount:        article.ViewCount,
		})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ID < matches[j].ID
	})
	if len(matches) > r.cfg.MaxResults {
		matches = matches[:r.cfg.MaxResults]
	}
	return matches
}

// relevance scores an article's intrinsic quality: helpfulness,
// recency, popularity, and category agreement.
func (r *Retriever) relevance(article domain.Article, category string, now time.Time) float64 {
	rel := 0.5 * article.HelpfulnessRatio
	if now.Sub(article.UpdatedAt) <= r.cfg.RecencyWindow {
		rel += 0.2
	}
	if article.ViewCount >= r.cfg.PopularViewCount {
		rel += 0.15
	}
	if category != "" && strings.EqualFold(article.Category, category) {
		rel += 0.15
	}
	return clamp01(rel)
}

// combineStrategies reduces the contributing strategy list to the
// public enum: the single strategy, or combination for several.
func combineStrategies(strategies []domain.SourceStrategy) domain.SourceStrategy {
	uniq := make(map[domain.SourceStrategy]struct{}, len(strategies))
	for _, s := range strategies {
		uniq[s] = struct{}{}
	}
	if len(uniq) == 1 {
		return strategies[0]
	}
	return domain.StrategyCombination
}

// fingerprint derives the cache key from the query inputs.
func (r *Retriever) fingerprint(query, category string, tags []string) string {
	sorted := make([]string, len(tags))
	copy(sorted, tags)
	sort.Strings(sorted)
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s", strings.ToLower(query), strings.ToLower(category), strings.Join(sorted, ","))
	return fmt.Sprintf("%x", h.Sum64())
}
