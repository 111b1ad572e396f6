package search

import (
	"context"

	"github.com/Sergio973-web/buscador-mega/internal/domain/catalog"
)

// mockCatalog implements CatalogReader for tests.
type mockCatalog struct {
	items []catalog.Item
	err   error
	calls int
}

func (m *mockCatalog) Items(_ context.Context) ([]catalog.Item, error) {
	m.calls++
	return m.items, m.err
}

// buildItems assigns positions the way a snapshot loader does.
func buildItems(attrs ...catalog.Attrs) []catalog.Item {
	out := make([]catalog.Item, len(attrs))
	for i, a := range attrs {
		out[i] = catalog.NewItem(a, i)
	}
	return out
}
