package search

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/Sergio973-web/buscador-mega/internal/domain/catalog"
	"github.com/Sergio973-web/buscador-mega/internal/domain/search/result"
	"github.com/Sergio973-web/buscador-mega/internal/domain/text"
)

// Text scoring constants. Every exact match scores at least exactBase, every fuzzy
// match strictly below it.
const (
	exactBase       = 100.0
	tokenBoost      = 10.0
	sameOrderBoost  = 5.0
	lastTokenBoost  = 3.0
	fuzzyCeiling    = 99.0
	minFuzzyRunes   = 3
	DefaultFuzzyMax = 0.34

	// Queries shorter than oneEditRunes tolerate no edits; up to twoEditRunes-1 runes
	// they tolerate one. Longer queries get the full ratio budget.
	oneEditRunes = 5
	twoEditRunes = 9
)

// TextMatcher scores catalog items against a free-text query by combining an
// all-tokens substring pass with a Levenshtein-based approximate pass.
type TextMatcher struct {
	maxRatio float64
}

// NewTextMatcher creates a matcher. maxRatio is the largest accepted edit distance
// relative to the query length; <= 0 means DefaultFuzzyMax. Short queries accept
// fewer edits than the ratio alone would allow.
func NewTextMatcher(maxRatio float64) *TextMatcher {
	if maxRatio <= 0 {
		maxRatio = DefaultFuzzyMax
	}
	return &TextMatcher{maxRatio: maxRatio}
}

// Match returns exact matches followed by fuzzy-only matches, in catalog order.
// A query without meaningful tokens returns every item with score 0.
func (m *TextMatcher) Match(query string, items []catalog.Item) []result.Candidate {
	tokens := text.Tokenize(query)
	if len(tokens) == 0 {
		out := make([]result.Candidate, len(items))
		for i := range items {
			out[i] = result.Scored(items[i], 0)
		}
		return out
	}

	out := make([]result.Candidate, 0)
	exact := make(map[string]struct{})
	for i := range items {
		if score, ok := exactScore(tokens, &items[i]); ok {
			out = append(out, result.Scored(items[i], score))
			exact[items[i].Key()] = struct{}{}
		}
	}

	joined := strings.Join(tokens, " ")
	qLen := utf8.RuneCountInString(joined)
	if qLen < minFuzzyRunes {
		return out
	}
	budget := m.editBudget(qLen)
	for i := range items {
		if _, ok := exact[items[i].Key()]; ok {
			continue
		}
		d := bestDistance(joined, &items[i])
		if d <= budget {
			ratio := float64(d) / float64(qLen)
			out = append(out, result.Scored(items[i], fuzzyCeiling*(1-ratio)))
		}
	}
	return out
}

// editBudget is the largest edit distance accepted for a query of qLen runes.
func (m *TextMatcher) editBudget(qLen int) int {
	budget := int(m.maxRatio * float64(qLen))
	switch {
	case qLen < oneEditRunes:
		return 0
	case qLen < twoEditRunes:
		return min(budget, 1)
	default:
		return budget
	}
}

// exactScore applies AND semantics: every token must be a substring of the folded title.
func exactScore(tokens []string, item *catalog.Item) (float64, bool) {
	title := text.Fold(item.Title())
	for _, tok := range tokens {
		if !strings.Contains(title, tok) {
			return 0, false
		}
	}

	words := text.Words(item.Title())
	score := exactBase + tokenBoost*float64(len(tokens))
	for qi, tok := range tokens {
		if wordIndex(words, tok) == qi {
			score += sameOrderBoost
		}
	}
	// Trailing qualifiers (material, variant) tend to carry the intent.
	if strings.Contains(title, tokens[len(tokens)-1]) {
		score += lastTokenBoost
	}
	return score, true
}

func wordIndex(words []string, tok string) int {
	for i, w := range words {
		if strings.Contains(w, tok) {
			return i
		}
	}
	return -1
}

// bestDistance is the smallest edit distance between the query and any run of
// title or provider terms of roughly the query's word count.
func bestDistance(query string, item *catalog.Item) int {
	qWords := strings.Count(query, " ") + 1

	best := windowDistance(query, qWords, terms(item.Title()))
	if p := item.Provider(); p != "" {
		best = min(best, windowDistance(query, qWords, terms(p)))
	}
	return best
}

func windowDistance(query string, qWords int, words []string) int {
	best := math.MaxInt
	if len(words) == 0 {
		return best
	}
	lo, hi := max(1, qWords-1), min(qWords+1, len(words))
	if lo > hi {
		lo = hi
	}
	for size := lo; size <= hi; size++ {
		for start := 0; start+size <= len(words); start++ {
			candidate := strings.Join(words[start:start+size], " ")
			best = min(best, fuzzy.LevenshteinDistance(query, candidate))
		}
	}
	return best
}

// terms normalizes text into comparable words without stopwords.
func terms(s string) []string {
	words := text.Words(s)
	out := words[:0]
	for _, w := range words {
		if text.IsStopword(w) {
			continue
		}
		out = append(out, text.Normalize(w))
	}
	return out
}
