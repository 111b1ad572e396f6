package embcache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Sergio973-web/buscador-mega/internal/db"
	"github.com/Sergio973-web/buscador-mega/internal/domain"
)

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	return m.result, m.err
}

// blockingEmbedder holds every call until release is closed.
type blockingEmbedder struct {
	release chan struct{}
	vec     []float32
	calls   atomic.Int32
}

func (b *blockingEmbedder) Embed(ctx context.Context, _ string) (domain.EmbeddingResult, error) {
	b.calls.Add(1)
	select {
	case <-b.release:
		return domain.EmbeddingResult{Embedding: b.vec}, nil
	case <-ctx.Done():
		return domain.EmbeddingResult{}, ctx.Err()
	}
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCachedEmbedder(t *testing.T, inner *mockEmbedder) (*CachedEmbedder, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	ce := New(inner, ms, "text-embedding-3-small", time.Hour, nil, zap.NewNop())
	return ce, ms
}
