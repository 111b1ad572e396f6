// Package metrics holds the Prometheus collectors of the search service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "buscador"

// OpenAI metrics.
var (
	OpenAIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "openai_requests_total",
			Help:      "Total number of OpenAI requests",
		},
		[]string{"operation", "model", "status"}, // operation: "describe" / "embed"
	)

	OpenAIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "openai_request_duration_seconds",
			Help:      "OpenAI request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation", "model"},
	)

	OpenAITokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "openai_tokens_total",
			Help:      "Total OpenAI tokens consumed",
		},
		[]string{"operation", "model", "type"},
	)

	OpenAIErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "openai_errors_total",
			Help:      "Total OpenAI errors",
		},
		[]string{"operation", "model", "error_type"},
	)
)

// Catalog metrics.
var (
	CatalogRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_refresh_total",
			Help:      "Catalog snapshot refreshes",
		},
		[]string{"catalog", "result"}, // "ok" / "error"
	)

	CatalogFragmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_fragments_total",
			Help:      "Catalog fragment downloads",
		},
		[]string{"catalog", "result"}, // "ok" / "error"
	)

	CatalogItems = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_items",
			Help:      "Items in the current catalog snapshot",
		},
		[]string{"catalog"},
	)
)

// Image search metrics.
var ImageSearchTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_search_total",
		Help:      "Image searches by strategy and outcome",
	},
	[]string{"strategy", "outcome"}, // outcome: "ok" / "empty" / "invalid" / "upload_error" / "describe_error" / "embed_error"
)

// EmbeddingCacheTotal counts description embedding cache lookups.
var EmbeddingCacheTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "embedding_cache_total",
		Help:      "Embedding cache lookups",
	},
	[]string{"result"}, // "hit" / "miss"
)

var registerOnce sync.Once

// Register registers the service collectors. Must be called once from main.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			OpenAIRequestsTotal,
			OpenAIRequestDuration,
			OpenAITokensTotal,
			OpenAIErrorsTotal,
			CatalogRefreshTotal,
			CatalogFragmentsTotal,
			CatalogItems,
			ImageSearchTotal,
			EmbeddingCacheTotal,
		)
	})
}
