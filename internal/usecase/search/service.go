package search

import (
	"context"

	"go.uber.org/zap"

	"github.com/Sergio973-web/buscador-mega/internal/domain/catalog"
	"github.com/Sergio973-web/buscador-mega/internal/domain/search/filter"
	"github.com/Sergio973-web/buscador-mega/internal/domain/search/request"
	"github.com/Sergio973-web/buscador-mega/internal/domain/search/result"
	logpkg "github.com/Sergio973-web/buscador-mega/internal/logger"
)

// Service is the transport-independent search boundary over two catalogs: the
// product catalog for text search and the embedding catalog for image search.
type Service struct {
	products CatalogReader
	images   CatalogReader
	matcher  *TextMatcher
}

// New creates a search service. images may be the same reader as products.
func New(products, images CatalogReader, matcher *TextMatcher) *Service {
	if matcher == nil {
		matcher = NewTextMatcher(0)
	}
	return &Service{products: products, images: images, matcher: matcher}
}

// Search runs a text query: normalize, match, then filter, order and paginate.
// An unavailable catalog yields an empty page.
func (s *Service) Search(ctx context.Context, req *request.Text) (result.Page, error) {
	items := s.load(ctx, s.products, "products")

	cands := NewTextRanker(req.Query(), s.matcher).Rank(items)
	return Paginate(cands, req), nil
}

// SearchByImage ranks the embedding catalog against a query vector or hash and
// returns the unpaginated top-K. The optional filter is applied before ranking.
func (s *Service) SearchByImage(ctx context.Context, req *request.Image) ([]result.Candidate, error) {
	if req.IsEmpty() {
		return []result.Candidate{}, nil
	}

	items := s.load(ctx, s.images, "images")
	if len(items) == 0 {
		return []result.Candidate{}, nil
	}
	items = filterItems(items, req.Filter())

	return ForImage(req).Rank(items), nil
}

// Providers lists the distinct providers of the product catalog.
func (s *Service) Providers(ctx context.Context) ([]string, error) {
	return ListProviders(s.load(ctx, s.products, "products")), nil
}

// ListProviders returns the distinct, trimmed, non-empty provider names.
func ListProviders(items []catalog.Item) []string {
	return catalog.Providers(items)
}

func (s *Service) load(ctx context.Context, r CatalogReader, name string) []catalog.Item {
	items, err := r.Items(ctx)
	if err != nil {
		logpkg.FromContext(ctx).Warn("Catalog unavailable, serving empty result",
			zap.String("catalog", name), zap.Error(err))
		return nil
	}
	return items
}

func filterItems(items []catalog.Item, f filter.Filter) []catalog.Item {
	if f.IsEmpty() {
		return items
	}
	out := make([]catalog.Item, 0, len(items))
	for i := range items {
		if f.Matches(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}
