package search

import (
	"sort"

	"github.com/Sergio973-web/buscador-mega/internal/domain/search/filter"
	"github.com/Sergio973-web/buscador-mega/internal/domain/search/request"
	"github.com/Sergio973-web/buscador-mega/internal/domain/search/result"
)

// Paginate filters, orders and slices candidates for one page of a text search.
// Total is the filtered count before slicing.
func Paginate(cands []result.Candidate, req *request.Text) result.Page {
	filtered := applyFilter(cands, req.Filter())
	orderCandidates(filtered, req.Sort(), req.StockFirst())

	page := result.Page{
		Total:   len(filtered),
		Page:    req.Page(),
		PerPage: req.PerPage(),
		Results: []result.Candidate{},
	}

	// Compare page indexes before multiplying so huge page numbers cannot overflow.
	lastPage := (len(filtered) + req.PerPage() - 1) / req.PerPage()
	if req.Page() > lastPage {
		return page
	}
	start := (req.Page() - 1) * req.PerPage()
	end := min(start+req.PerPage(), len(filtered))
	page.Results = filtered[start:end]
	return page
}

// applyFilter returns the candidates passing f, reusing no memory of the input.
func applyFilter(cands []result.Candidate, f filter.Filter) []result.Candidate {
	out := make([]result.Candidate, 0, len(cands))
	for i := range cands {
		if f.IsEmpty() || f.Matches(cands[i].Item()) {
			out = append(out, cands[i])
		}
	}
	return out
}

// orderCandidates sorts in place. Price modes ignore score and treat a missing
// price as 0; relevance sorts by descending score, optionally in-stock first.
func orderCandidates(cands []result.Candidate, s request.Sort, stockFirst bool) {
	switch s {
	case request.PriceAsc:
		sort.SliceStable(cands, func(i, j int) bool {
			return priceOrZero(&cands[i]) < priceOrZero(&cands[j])
		})
	case request.PriceDesc:
		sort.SliceStable(cands, func(i, j int) bool {
			return priceOrZero(&cands[i]) > priceOrZero(&cands[j])
		})
	default:
		sort.SliceStable(cands, func(i, j int) bool {
			if stockFirst {
				si, sj := cands[i].Item().InStock(), cands[j].Item().InStock()
				if si != sj {
					return si
				}
			}
			return cands[i].Score() > cands[j].Score()
		})
	}
}

func priceOrZero(c *result.Candidate) float64 {
	p, ok := c.Item().Price()
	if !ok {
		return 0
	}
	return p
}
