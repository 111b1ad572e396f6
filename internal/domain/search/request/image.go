package request

import (
	"github.com/Sergio973-web/buscador-mega/internal/domain/catalog"
	"github.com/Sergio973-web/buscador-mega/internal/domain/search/filter"
	"github.com/Sergio973-web/buscador-mega/internal/domain/search/mode"
)

// DefaultTopK is the number of image-similarity results returned.
const DefaultTopK = 10

// Image is an image-similarity query carrying either an embedding or a content hash.
type Image struct {
	vector []float32
	hash   catalog.Hash
	filter filter.Filter
	topK   int
}

// NewVectorQuery builds a query ranked by cosine similarity.
func NewVectorQuery(vector []float32, f filter.Filter, topK int) Image {
	return Image{vector: vector, filter: f, topK: normalizeTopK(topK)}
}

// NewHashQuery builds a query ranked by Hamming distance.
func NewHashQuery(hash catalog.Hash, f filter.Filter, topK int) Image {
	return Image{hash: hash, filter: f, topK: normalizeTopK(topK)}
}

// Mode returns the ranking strategy implied by the query shape.
func (r *Image) Mode() mode.Mode {
	if len(r.hash) > 0 {
		return mode.PerceptualHash
	}
	return mode.Vector
}

// Vector returns the query embedding.
func (r *Image) Vector() []float32 { return r.vector }

// Hash returns the query content hash.
func (r *Image) Hash() catalog.Hash { return r.hash }

// Filter returns the optional provider/price filter.
func (r *Image) Filter() filter.Filter { return r.filter }

// TopK returns the number of results to keep.
func (r *Image) TopK() int { return r.topK }

// IsEmpty reports whether the query has nothing to compare against.
func (r *Image) IsEmpty() bool { return len(r.vector) == 0 && len(r.hash) == 0 }

func normalizeTopK(k int) int {
	if k <= 0 {
		return DefaultTopK
	}
	return k
}
