package services

import (
	"regexp"
	"sort"
	"strings"

	"github.com/kljensen/snowball/english"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9']+`)

// stopwords are dropped before stemming and indexing.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"but": {}, "by": {}, "for": {}, "from": {}, "has": {}, "have": {},
	"he": {}, "her": {}, "his": {}, "i": {}, "in": {}, "is": {}, "it": {},
	"its": {}, "me": {}, "my": {}, "of": {}, "on": {}, "or": {}, "our": {},
	"she": {}, "that": {}, "the": {}, "their": {}, "them": {}, "they": {},
	"this": {}, "to": {}, "was": {}, "we": {}, "were": {}, "will": {},
	"with": {}, "would": {}, "you": {}, "your": {}, "please": {}, "hi": {},
	"hello": {}, "thanks": {}, "thank": {}, "regards": {}, "dear": {},
}

// tokenize lowercases s and splits it into word tokens.
func tokenize(s string) []string {
	return tokenPattern.FindAllString(strings.ToLower(s), -1)
}

// stem reduces a single lowercased word to its stem.
func stem(word string) string {
	return english.Stem(word, false)
}

// stemTokens stems tokens and drops stopwords.
func stemTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, skip := stopwords[tok]; skip {
			continue
		}
		out = append(out, stem(tok))
	}
	return out
}

// stemText tokenizes and stems a raw string in one step.
func stemText(s string) []string {
	return stemTokens(tokenize(s))
}

// tokenSet builds the bag-of-tokens set used for Jaccard comparison.
func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

// jaccard returns |a∩b| / |a∪b|, or 0 when both sets are empty.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// topKeywords returns up to n of the most frequent stemmed tokens,
// most frequent first. Ties break alphabetically for determinism.
func topKeywords(tokens []string, n int) []string {
	if len(tokens) == 0 || n <= 0 {
		return nil
	}
	freq := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		freq[tok]++
	}
	keys := make([]string, 0, len(freq))
	for k := range freq {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if freq[keys[i]] != freq[keys[j]] {
			return freq[keys[i]] > freq[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

var entityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`),
	regexp.MustCompile(`https?://[^\s]+`),
	regexp.MustCompile(`#\d+`),
}

// extractEntities pulls emails, URLs, and ticket references out of the
// raw (uncased) text, preserving first-seen order without duplicates.
func extractEntities(text string) []string {
	var entities []string
	seen := map[string]struct{}{}
	for _, pat := range entityPatterns {
		for _, m := range pat.FindAllString(text, -1) {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			entities = append(entities, m)
		}
	}
	return entities
}

// clamp01 bounds v to [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
