// Package db defines the key-value store behind the embedding cache.
// Values are opaque bytes; the cache owns the encoding.
package db

import (
	"context"
	"time"
)

// Store is the cache backend facade.
type Store interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks connectivity. The health check uses it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SetItem is one key and value for SetMulti.
type SetItem struct {
	Key   string
	Value []byte
}

// KVStore provides the reads and writes the cache needs.
// A zero ttl stores the value without expiry.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// GetMulti returns one entry per key, nil for misses.
	GetMulti(ctx context.Context, keys []string) ([][]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	SetMulti(ctx context.Context, items []SetItem, ttl time.Duration) error
}
