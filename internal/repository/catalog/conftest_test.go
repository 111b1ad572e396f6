package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	domcat "github.com/Sergio973-web/buscador-mega/internal/domain/catalog"
)

var errNotFound = errors.New("not found")

// mockFetcher serves documents from a map.
type mockFetcher struct {
	mu    sync.Mutex
	docs  map[string]string
	errs  map[string]error
	calls map[string]int
}

func newMockFetcher(docs map[string]string) *mockFetcher {
	return &mockFetcher{docs: docs, errs: map[string]error{}, calls: map[string]int{}}
}

func (m *mockFetcher) Fetch(_ context.Context, location string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[location]++
	if err, ok := m.errs[location]; ok {
		return nil, err
	}
	doc, ok := m.docs[location]
	if !ok {
		return nil, errNotFound
	}
	return []byte(doc), nil
}

// mockLoader returns canned snapshots and counts calls.
type mockLoader struct {
	calls  atomic.Int32
	loadFn func(ctx context.Context, src Source) ([]domcat.Item, error)
}

func (m *mockLoader) Load(ctx context.Context, src Source) ([]domcat.Item, error) {
	m.calls.Add(1)
	return m.loadFn(ctx, src)
}

func snapshot(titles ...string) []domcat.Item {
	out := make([]domcat.Item, len(titles))
	for i, t := range titles {
		out[i] = domcat.NewItem(domcat.Attrs{Title: t}, i)
	}
	return out
}
