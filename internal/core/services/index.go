package services

import (
	"math"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/akash-d122/helpdesk-triage/internal/core/domain"
)

// indexedArticle is an article plus its precomputed index fields.
type indexedArticle struct {
	article    domain.Article
	vector     map[string]float64
	searchable string
}

// lexicalIndex is an immutable term-weighted snapshot of the published
// knowledge base. Rebuilds produce a fresh index that replaces the old
// one atomically, so concurrent searches never see a half-built index.
type lexicalIndex struct {
	articles   []indexedArticle
	byID       map[string]int
	byCategory map[string][]int
	byTag      map[string][]int
	df         map[string]int
	builtAt    time.Time
}

// buildIndex constructs a TF-IDF index over the articles' concatenated
// title, summary, body, and tags.
func buildIndex(articles []domain.Article) *lexicalIndex {
	idx := &lexicalIndex{
		articles:   make([]indexedArticle, 0, len(articles)),
		byID:       make(map[string]int, len(articles)),
		byCategory: make(map[string][]int),
		byTag:      make(map[string][]int),
		df:         make(map[string]int),
		builtAt:    time.Now(),
	}

	termFreqs := make([]map[string]int, 0, len(articles))
	for _, article := range articles {
		tokens := stemText(article.SearchableText())
		tf := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			tf[tok]++
		}
		for tok := range tf {
			idx.df[tok]++
		}
		termFreqs = append(termFreqs, tf)
	}

	n := float64(len(articles))
	for i, article := range articles {
		vector := make(map[string]float64, len(termFreqs[i]))
		var norm float64
		for tok, count := range termFreqs[i] {
			w := float64(count) * math.Log(1+n/float64(idx.df[tok]))
			vector[tok] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for tok := range vector {
				vector[tok] /= norm
			}
		}

		pos := len(idx.articles)
		idx.articles = append(idx.articles, indexedArticle{
			article:    article,
			vector:     vector,
			searchable: strings.ToLower(article.SearchableText()),
		})
		idx.byID[article.ID] = pos
		cat := strings.ToLower(article.Category)
		idx.byCategory[cat] = append(idx.byCategory[cat], pos)
		for _, tag := range article.Tags {
			t := strings.ToLower(tag)
			idx.byTag[t] = append(idx.byTag[t], pos)
		}
	}
	return idx
}

// score returns the cosine similarity between the query tokens and an
// indexed article's TF-IDF vector.
func (idx *lexicalIndex) score(queryVector map[string]float64, pos int) float64 {
	var dot float64
	for tok, qw := range queryVector {
		if aw, ok := idx.articles[pos].vector[tok]; ok {
			dot += qw * aw
		}
	}
	return dot
}

// queryVector builds a unit-normalised TF-IDF vector for query tokens.
func (idx *lexicalIndex) queryVector(tokens []string) map[string]float64 {
	tf := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		tf[tok]++
	}
	n := float64(len(idx.articles))
	vector := make(map[string]float64, len(tf))
	var norm float64
	for tok, count := range tf {
		df := idx.df[tok]
		if df == 0 {
			continue
		}
		w := float64(count) * math.Log(1+n/float64(df))
		vector[tok] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for tok := range vector {
			vector[tok] /= norm
		}
	}
	return vector
}

// rank scores every indexed article against the query and returns the
// top n positions with non-zero scores, best first.
func (idx *lexicalIndex) rank(tokens []string, n int) []scoredPosition {
	queryVector := idx.queryVector(tokens)
	if len(queryVector) == 0 {
		return nil
	}
	scored := make([]scoredPosition, 0, len(idx.articles))
	for pos := range idx.articles {
		if s := idx.score(queryVector, pos); s > 0 {
			scored = append(scored, scoredPosition{pos: pos, score: s})
		}
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return idx.articles[scored[i].pos].article.ID < idx.articles[scored[j].pos].article.ID
	})
	if len(scored) > n {
		scored = scored[:n]
	}
	return scored
}

// scoredPosition pairs an article position with a strategy score.
type scoredPosition struct {
	pos   int
	score float64
}

// Index is the shared, swappable handle to the current lexical index.
// Reindexing builds a complete replacement and swaps the pointer;
// readers always observe either the old or the new snapshot.
type Index struct {
	current atomic.Pointer[lexicalIndex]
}

// NewIndex returns an empty handle. Searches against an unbuilt index
// return no results rather than an error.
func NewIndex() *Index {
	return &Index{}
}

// Rebuild constructs a fresh index from articles and swaps it in.
func (i *Index) Rebuild(articles []domain.Article) {
	i.current.Store(buildIndex(articles))
}

// snapshot returns the current index, nil when never built.
func (i *Index) snapshot() *lexicalIndex {
	return i.current.Load()
}

// ArticleCount returns the number of indexed articles.
func (i *Index) ArticleCount() int {
	idx := i.snapshot()
	if idx == nil {
		return 0
	}
	return len(idx.articles)
}
