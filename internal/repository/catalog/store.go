package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Sergio973-web/buscador-mega/internal/domain"
	domcat "github.com/Sergio973-web/buscador-mega/internal/domain/catalog"
	logpkg "github.com/Sergio973-web/buscador-mega/internal/logger"
)

// loader is the consumer interface for snapshot construction (ISP).
type loader interface {
	Load(ctx context.Context, src Source) ([]domcat.Item, error)
}

// Metrics are the collectors a Store reports to. Nil fields are skipped.
type Metrics struct {
	Refreshes *prometheus.CounterVec // labels: catalog, result
	Items     *prometheus.GaugeVec   // labels: catalog
}

// DefaultRetryBackoff is how long a Store waits after a failed rebuild before
// asking the loader again.
const DefaultRetryBackoff = 30 * time.Second

// Store serves an in-memory catalog snapshot and rebuilds it once the TTL has
// elapsed. Concurrent callers that find the snapshot expired share one rebuild.
// A failed rebuild keeps the previous snapshot; reads within the retry back-off
// reuse the outcome of that failure instead of calling the loader again.
type Store struct {
	src     Source
	loader  loader
	ttl     time.Duration
	backoff time.Duration
	now     func() time.Time
	metrics Metrics

	mu       sync.RWMutex
	items    []domcat.Item
	loadedAt time.Time
	loaded   bool
	failedAt time.Time
	lastErr  error

	group singleflight.Group
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRetryBackoff sets the pause after a failed rebuild. d <= 0 retries on every call.
func WithRetryBackoff(d time.Duration) Option {
	return func(s *Store) { s.backoff = d }
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// NewStore creates a lazily loaded store. ttl <= 0 loads once and never expires.
func NewStore(src Source, l loader, ttl time.Duration, opts ...Option) *Store {
	s := &Store{src: src, loader: l, ttl: ttl, backoff: DefaultRetryBackoff, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Name returns the catalog name.
func (s *Store) Name() string { return s.src.Name }

// Items returns the current snapshot, rebuilding it first if it has expired.
// The returned slice is shared and must not be modified.
func (s *Store) Items(ctx context.Context) ([]domcat.Item, error) {
	if items, ok := s.fresh(); ok {
		return items, nil
	}

	s.mu.RLock()
	stale, loaded, lastErr := s.items, s.loaded, s.lastErr
	cooling := s.coolingDown()
	s.mu.RUnlock()
	if cooling {
		if loaded {
			return stale, nil
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, lastErr)
	}

	items, err := s.refresh(ctx, false)
	if err == nil {
		return items, nil
	}

	s.mu.RLock()
	stale, loaded = s.items, s.loaded
	s.mu.RUnlock()
	if loaded {
		logpkg.FromContext(ctx).Warn("Catalog refresh failed, serving stale snapshot",
			zap.String("catalog", s.src.Name), zap.Error(err))
		return stale, nil
	}
	return nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
}

// Refresh rebuilds the snapshot regardless of its age.
func (s *Store) Refresh(ctx context.Context) error {
	_, err := s.refresh(ctx, true)
	return err
}

// LoadedAt reports when the current snapshot was built; zero if never.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

func (s *Store) fresh() ([]domcat.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, false
	}
	if s.ttl > 0 && s.now().Sub(s.loadedAt) >= s.ttl {
		return nil, false
	}
	return s.items, true
}

// coolingDown reports whether the last rebuild failed within the back-off.
// Callers hold s.mu.
func (s *Store) coolingDown() bool {
	return s.backoff > 0 && s.lastErr != nil && s.now().Sub(s.failedAt) < s.backoff
}

func (s *Store) refresh(ctx context.Context, force bool) ([]domcat.Item, error) {
	// The shared rebuild must outlive any single caller's cancellation.
	ctx = context.WithoutCancel(ctx)

	v, err, _ := s.group.Do("refresh", func() (interface{}, error) {
		if !force {
			if items, ok := s.fresh(); ok {
				return items, nil
			}
		}

		items, err := s.loader.Load(ctx, s.src)
		if err != nil {
			s.incRefresh("error")
			err = fmt.Errorf("load catalog %s: %w", s.src.Name, err)
			s.mu.Lock()
			s.failedAt = s.now()
			s.lastErr = err
			s.mu.Unlock()
			return nil, err
		}

		s.mu.Lock()
		s.items = items
		s.loadedAt = s.now()
		s.loaded = true
		s.lastErr = nil
		s.mu.Unlock()

		s.incRefresh("ok")
		if s.metrics.Items != nil {
			s.metrics.Items.WithLabelValues(s.src.Name).Set(float64(len(items)))
		}
		return items, nil
	})
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped inside the flight
	}
	return v.([]domcat.Item), nil
}

func (s *Store) incRefresh(result string) {
	if s.metrics.Refreshes != nil {
		s.metrics.Refreshes.WithLabelValues(s.src.Name, result).Inc()
	}
}
