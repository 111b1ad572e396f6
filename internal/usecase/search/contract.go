package search

import (
	"context"

	"github.com/Sergio973-web/buscador-mega/internal/domain/catalog"
)

// CatalogReader returns the current catalog snapshot.
type CatalogReader interface {
	Items(ctx context.Context) ([]catalog.Item, error)
}
