package db

import (
	"context"
	"time"
)

// Store is the database facade used for catalog fragments and the embedding cache.
type Store interface {
	Pinger
	KVReader
	KVWriter
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVReader provides read access to string values.
type KVReader interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// KVWriter stores string values. A zero ttl keeps the key forever.
type KVWriter interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
