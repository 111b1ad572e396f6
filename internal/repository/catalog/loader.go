// Package catalog loads catalog snapshots from sharded JSON fragments and keeps
// them in memory behind a time-to-live.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	domcat "github.com/Sergio973-web/buscador-mega/internal/domain/catalog"
	logpkg "github.com/Sergio973-web/buscador-mega/internal/logger"
)

// DefaultWorkers bounds concurrent fragment downloads when none is configured.
const DefaultWorkers = 8

// Source describes where a catalog lives. Index, when set, is a document listing
// fragment locations; Fragments are fixed locations loaded after the indexed ones.
type Source struct {
	Name      string
	Index     string
	Fragments []string
}

// fetcher is the consumer interface for raw document access (ISP).
type fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// Loader downloads and merges catalog fragments on a bounded worker pool.
type Loader struct {
	fetcher        fetcher
	pool           *ants.Pool
	fragmentsTotal *prometheus.CounterVec
}

// NewLoader creates a loader with at most workers concurrent downloads.
// fragmentsTotal is a counter vec with labels "catalog" and "result", passed explicitly.
func NewLoader(f fetcher, workers int, fragmentsTotal *prometheus.CounterVec) (*Loader, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create fragment pool: %w", err)
	}
	return &Loader{fetcher: f, pool: pool, fragmentsTotal: fragmentsTotal}, nil
}

// Release stops the worker pool. The loader must not be used afterwards.
func (l *Loader) Release() {
	l.pool.Release()
}

// Load builds a fresh snapshot. Fragments are concatenated in location order;
// a fragment that fails to download or decode is skipped and logged. Failing to
// read the index fails the whole load.
func (l *Loader) Load(ctx context.Context, src Source) ([]domcat.Item, error) {
	log := logpkg.FromContext(ctx).With(zap.String("catalog", src.Name))

	locations, err := l.locations(ctx, src)
	if err != nil {
		return nil, err
	}
	if len(locations) == 0 {
		return nil, fmt.Errorf("catalog %s: no fragments configured", src.Name)
	}

	parts := make([][]itemDTO, len(locations))
	errs := make([]error, len(locations))
	var wg sync.WaitGroup
	for i, loc := range locations {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			parts[i], errs[i] = l.fragment(ctx, loc)
		}
		if err := l.pool.Submit(task); err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("submit fragment: %w", err)
		}
	}
	wg.Wait()

	var items []domcat.Item
	var failed int
	for i := range parts {
		if errs[i] != nil {
			failed++
			l.incFragment(src.Name, "error")
			log.Warn("Skipping catalog fragment",
				zap.String("location", locations[i]), zap.Error(errs[i]))
			continue
		}
		l.incFragment(src.Name, "ok")
		for j := range parts[i] {
			items = append(items, domcat.NewItem(parts[i][j].attrs(), len(items)))
		}
	}

	if failed == len(locations) {
		return nil, fmt.Errorf("catalog %s: all %d fragments failed: %w",
			src.Name, failed, errors.Join(errs...))
	}

	log.Info("Catalog loaded",
		zap.Int("items", len(items)),
		zap.Int("fragments", len(locations)-failed),
		zap.Int("failed_fragments", failed))
	return items, nil
}

func (l *Loader) locations(ctx context.Context, src Source) ([]string, error) {
	var out []string
	if src.Index != "" {
		data, err := l.fetcher.Fetch(ctx, src.Index)
		if err != nil {
			return nil, fmt.Errorf("fetch index %s: %w", src.Index, err)
		}
		if out, err = decodeIndex(data); err != nil {
			return nil, fmt.Errorf("index %s: %w", src.Index, err)
		}
	}
	return append(out, src.Fragments...), nil
}

func (l *Loader) fragment(ctx context.Context, location string) ([]itemDTO, error) {
	data, err := l.fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, err //nolint:wrapcheck // fetcher errors already carry the location
	}
	return decodeFragment(data)
}

func (l *Loader) incFragment(catalog, result string) {
	if l.fragmentsTotal != nil {
		l.fragmentsTotal.WithLabelValues(catalog, result).Inc()
	}
}
