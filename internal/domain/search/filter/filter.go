package filter

import (
	"strings"

	"github.com/Sergio973-web/buscador-mega/internal/domain/catalog"
)

// Filter restricts candidates by provider and by an inclusive price range.
type Filter struct {
	providers map[string]struct{}
	minPrice  *float64
	maxPrice  *float64
}

// New creates a Filter. Blank provider names are ignored; an empty provider set
// and nil bounds disable the respective checks.
func New(providers []string, minPrice, maxPrice *float64) Filter {
	f := Filter{minPrice: minPrice, maxPrice: maxPrice}
	for _, p := range providers {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if f.providers == nil {
			f.providers = make(map[string]struct{}, len(providers))
		}
		f.providers[p] = struct{}{}
	}
	return f
}

// Providers returns the requested provider names.
func (f Filter) Providers() []string {
	out := make([]string, 0, len(f.providers))
	for p := range f.providers {
		out = append(out, p)
	}
	return out
}

// MinPrice returns the lower price bound (nil if unset).
func (f Filter) MinPrice() *float64 { return f.minPrice }

// MaxPrice returns the upper price bound (nil if unset).
func (f Filter) MaxPrice() *float64 { return f.maxPrice }

// IsEmpty reports whether the filter lets every item through.
func (f Filter) IsEmpty() bool {
	return len(f.providers) == 0 && !f.HasPriceBounds()
}

// HasPriceBounds reports whether either price bound is set.
func (f Filter) HasPriceBounds() bool {
	return f.minPrice != nil || f.maxPrice != nil
}

// Matches reports whether item passes the filter.
// An item without a parsable price fails whenever a price bound is set.
func (f Filter) Matches(item *catalog.Item) bool {
	if len(f.providers) > 0 {
		if _, ok := f.providers[strings.TrimSpace(item.Provider())]; !ok {
			return false
		}
	}
	if !f.HasPriceBounds() {
		return true
	}
	price, ok := item.Price()
	if !ok {
		return false
	}
	if f.minPrice != nil && price < *f.minPrice {
		return false
	}
	if f.maxPrice != nil && price > *f.maxPrice {
		return false
	}
	return true
}
