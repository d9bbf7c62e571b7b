package cache

import (
	"context"
	"time"
)

// Store is the raw byte-level backend behind the query cache. Keys are
// resource+parameter strings; values are encoded query results.
type Store interface {
	// Get returns the cached value and whether it was present and fresh
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes one key
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every key starting with the prefix. List
	// invalidation uses this: one resource's pages share a key prefix.
	DeletePrefix(ctx context.Context, prefix string) error

	// Close releases any resources held by the store
	Close() error
}
