package search

import (
	"math"
	"sort"

	"github.com/Sergio973-web/buscador-mega/internal/domain/catalog"
	"github.com/Sergio973-web/buscador-mega/internal/domain/search/result"
)

// CosineSimilarity returns dot(a,b)/(|a|·|b|) accumulated in float64.
// Empty vectors, vectors of different dimension and zero-norm vectors all yield 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// RankByVector scores every item against query and keeps the topK most similar.
// Items without an embedding stay in the ranking with score 0.
func RankByVector(query []float32, items []catalog.Item, topK int) []result.Candidate {
	out := make([]result.Candidate, len(items))
	for i := range items {
		var sim float64
		if items[i].HasVector() {
			sim = CosineSimilarity(query, items[i].Vector())
		}
		out[i] = result.Scored(items[i], sim)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score() > out[j].Score()
	})
	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}

	for i := range out {
		out[i] = result.Scored(*out[i].Item(), roundTo(out[i].Score(), 4))
	}
	return out
}

func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
