package request

import (
	"unicode/utf8"

	"github.com/Sergio973-web/buscador-mega/internal/domain/search/filter"
)

// Pagination limits.
const (
	// MaxQueryLength is the maximum search query length; longer input is truncated.
	MaxQueryLength = 512
	DefaultPerPage = 24
	MinPerPage     = 5
	MaxPerPage     = 100
)

// Sort is the final ordering rule.
type Sort string

// Sort modes.
const (
	Relevance Sort = "relevance"
	PriceAsc  Sort = "price_asc"
	PriceDesc Sort = "price_desc"
)

// ParseSort maps user input to a Sort; anything unknown means relevance.
func ParseSort(s string) Sort {
	switch Sort(s) {
	case PriceAsc, PriceDesc:
		return Sort(s)
	default:
		return Relevance
	}
}

// Text is a normalized text search query.
type Text struct {
	query      string
	filter     filter.Filter
	sort       Sort
	page       int
	perPage    int
	stockFirst bool
}

// NewText clamps and normalizes text search parameters.
// page < 1 becomes 1; perPage 0 means the default, otherwise it is clamped to [5, 100].
// stockFirst puts in-stock items ahead of the rest in relevance order.
func NewText(query string, f filter.Filter, sort Sort, page, perPage int, stockFirst bool) Text {
	if len(query) > MaxQueryLength {
		n := MaxQueryLength
		for n > 0 && !utf8.RuneStart(query[n]) {
			n--
		}
		query = query[:n]
	}
	if page < 1 {
		page = 1
	}
	if perPage == 0 {
		perPage = DefaultPerPage
	}
	perPage = min(MaxPerPage, max(MinPerPage, perPage))
	if sort == "" {
		sort = Relevance
	}
	return Text{
		query:      query,
		filter:     f,
		sort:       sort,
		page:       page,
		perPage:    perPage,
		stockFirst: stockFirst,
	}
}

// Query returns the raw query text.
func (r *Text) Query() string { return r.query }

// Filter returns the provider/price filter.
func (r *Text) Filter() filter.Filter { return r.filter }

// Sort returns the ordering rule.
func (r *Text) Sort() Sort { return r.sort }

// Page returns the 1-based page number.
func (r *Text) Page() int { return r.page }

// PerPage returns the page size.
func (r *Text) PerPage() int { return r.perPage }

// StockFirst reports whether in-stock items lead the relevance order.
func (r *Text) StockFirst() bool { return r.stockFirst }
