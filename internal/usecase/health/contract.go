package health

import (
	"context"

	"github.com/Sergio973-web/buscador-mega/internal/domain/catalog"
)

// CatalogChecker exposes a named catalog snapshot.
type CatalogChecker interface {
	Name() string
	Items(ctx context.Context) ([]catalog.Item, error)
}

// Pinger checks the fragment key-value store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker checks the description/embedding provider.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}
