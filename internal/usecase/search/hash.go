package search

import (
	"sort"

	"github.com/Sergio973-web/buscador-mega/internal/domain/catalog"
	"github.com/Sergio973-web/buscador-mega/internal/domain/search/result"
)

// DefaultHashTopK is the number of hash-ranked results kept when none is configured.
const DefaultHashTopK = 16

// RankByHash orders items by ascending Hamming distance to query and keeps topK.
// Items without a hash, or with a hash of another length, get +Inf and sort last.
func RankByHash(query catalog.Hash, items []catalog.Item, topK int) []result.Candidate {
	out := make([]result.Candidate, len(items))
	for i := range items {
		out[i] = result.Distant(items[i], query.Distance(items[i].Hash()))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Distance() < out[j].Distance()
	})
	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out
}
