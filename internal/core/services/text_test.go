package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize_LowercasesAndSplits(t *testing.T) {
	tokens := tokenize("Payment FAILED: can't log-in!")
	assert.Equal(t, []string{"payment", "failed", "can't", "log", "in"}, tokens)
}

func TestTokenize_EmptyText(t *testing.T) {
	assert.Empty(t, tokenize(""))
	assert.Empty(t, tokenize("   \t\n"))
}

func TestStemTokens_DropsStopwords(t *testing.T) {
	tokens := stemTokens([]string{"the", "payments", "are", "failing"})
	assert.Equal(t, []string{"payment", "fail"}, tokens)
}

func TestStemText_RelatedFormsShareStems(t *testing.T) {
	a := stemText("payment failing")
	b := stemText("payments failed")
	assert.Equal(t, a, b)
}

func TestJaccard_Identical(t *testing.T) {
	set := tokenSet([]string{"a", "b", "c"})
	assert.Equal(t, 1.0, jaccard(set, set))
}

func TestJaccard_Disjoint(t *testing.T) {
	a := tokenSet([]string{"a", "b"})
	b := tokenSet([]string{"c", "d"})
	assert.Equal(t, 0.0, jaccard(a, b))
}

func TestJaccard_PartialOverlap(t *testing.T) {
	a := tokenSet([]string{"a", "b", "c"})
	b := tokenSet([]string{"b", "c", "d"})
	// 2 shared out of 4 total.
	assert.InDelta(t, 0.5, jaccard(a, b), 1e-9)
}

func TestJaccard_BothEmpty(t *testing.T) {
	assert.Equal(t, 0.0, jaccard(map[string]struct{}{}, map[string]struct{}{}))
}

func TestTopKeywords_OrdersByFrequencyThenAlpha(t *testing.T) {
	tokens := []string{"beta", "alpha", "beta", "gamma", "alpha", "beta"}
	assert.Equal(t, []string{"beta", "alpha", "gamma"}, topKeywords(tokens, 3))
}

func TestTopKeywords_CapsAtN(t *testing.T) {
	tokens := []string{"a", "b", "c", "d"}
	assert.Len(t, topKeywords(tokens, 2), 2)
}

func TestTopKeywords_EmptyInput(t *testing.T) {
	assert.Nil(t, topKeywords(nil, 5))
	assert.Nil(t, topKeywords([]string{"a"}, 0))
}

func TestExtractEntities_FindsEmailsURLsAndRefs(t *testing.T) {
	text := "Contact me at jane@example.com, see https://status.example.com and ticket #4521"
	entities := extractEntities(text)
	assert.Equal(t, []string{"jane@example.com", "https://status.example.com", "#4521"}, entities)
}

func TestExtractEntities_Deduplicates(t *testing.T) {
	text := "Email a@b.co and again a@b.co"
	assert.Equal(t, []string{"a@b.co"}, extractEntities(text))
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-0.5))
	assert.Equal(t, 1.0, clamp01(1.5))
	assert.Equal(t, 0.7, clamp01(0.7))
}
