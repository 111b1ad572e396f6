package search

import (
	"github.com/Sergio973-web/buscador-mega/internal/domain/catalog"
	"github.com/Sergio973-web/buscador-mega/internal/domain/search/mode"
	"github.com/Sergio973-web/buscador-mega/internal/domain/search/request"
	"github.com/Sergio973-web/buscador-mega/internal/domain/search/result"
)

// Ranker turns a catalog snapshot into ranked candidates for one query.
type Ranker interface {
	Mode() mode.Mode
	Rank(items []catalog.Item) []result.Candidate
}

// TextRanker is the exact-and-fuzzy text strategy. Its output is unsorted.
type TextRanker struct {
	query   string
	matcher *TextMatcher
}

// VectorRanker is the cosine-similarity strategy.
type VectorRanker struct {
	vector []float32
	topK   int
}

// HashRanker is the perceptual-hash strategy.
type HashRanker struct {
	hash catalog.Hash
	topK int
}

var (
	_ Ranker = (*TextRanker)(nil)
	_ Ranker = (*VectorRanker)(nil)
	_ Ranker = (*HashRanker)(nil)
)

// NewTextRanker creates the text strategy.
func NewTextRanker(query string, matcher *TextMatcher) *TextRanker {
	return &TextRanker{query: query, matcher: matcher}
}

// Mode implements Ranker.
func (r *TextRanker) Mode() mode.Mode { return mode.Text }

// Rank implements Ranker.
func (r *TextRanker) Rank(items []catalog.Item) []result.Candidate {
	return r.matcher.Match(r.query, items)
}

// Mode implements Ranker.
func (r *VectorRanker) Mode() mode.Mode { return mode.Vector }

// Rank implements Ranker.
func (r *VectorRanker) Rank(items []catalog.Item) []result.Candidate {
	return RankByVector(r.vector, items, r.topK)
}

// Mode implements Ranker.
func (r *HashRanker) Mode() mode.Mode { return mode.PerceptualHash }

// Rank implements Ranker.
func (r *HashRanker) Rank(items []catalog.Item) []result.Candidate {
	return RankByHash(r.hash, items, r.topK)
}

// ForImage selects the image strategy from the query shape: a hash query ranks by
// Hamming distance, anything else by cosine similarity.
func ForImage(req *request.Image) Ranker {
	if req.Mode() == mode.PerceptualHash {
		return &HashRanker{hash: req.Hash(), topK: req.TopK()}
	}
	return &VectorRanker{vector: req.Vector(), topK: req.TopK()}
}
