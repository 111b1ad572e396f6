package result

import (
	"math"

	"github.com/Sergio973-web/buscador-mega/internal/domain/catalog"
)

// Candidate is a catalog item with its ranking outcome.
// Text and vector rankings fill score (higher is better); hash ranking fills
// distance (lower is better, +Inf when incomparable).
type Candidate struct {
	item     catalog.Item
	score    float64
	distance float64
}

// Scored creates a candidate ranked by score.
func Scored(item catalog.Item, score float64) Candidate {
	return Candidate{item: item, score: score}
}

// Distant creates a candidate ranked by distance.
func Distant(item catalog.Item, distance float64) Candidate {
	return Candidate{item: item, distance: distance}
}

// Item returns the underlying catalog item.
func (c *Candidate) Item() *catalog.Item { return &c.item }

// Score returns the relevance score.
func (c *Candidate) Score() float64 { return c.score }

// Distance returns the hash distance.
func (c *Candidate) Distance() float64 { return c.distance }

// Comparable reports whether a distance-ranked candidate had a hash to compare.
func (c *Candidate) Comparable() bool { return !math.IsInf(c.distance, 1) }

// Page is one slice of a filtered, ordered result set.
type Page struct {
	Total   int
	Page    int
	PerPage int
	Results []Candidate
}
