package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Constants for in-memory store configuration
const (
	defaultCleanupInterval = 30 * time.Second
)

// MemoryStore implements Store using process-local memory. It is the
// default backend for a single back-office terminal.
type MemoryStore struct {
	entries sync.Map // map[string]*memoryEntry
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	// Stats for monitoring
	hits   int64
	misses int64
}

// memoryEntry wraps a cached value with its expiration time
type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// isExpired checks if the entry has expired
func (e *memoryEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// MemoryStoreOption is a functional option for configuring the store
type MemoryStoreOption func(*MemoryStore)

// WithMemoryLogger sets the logger for the store
func WithMemoryLogger(logger *zap.Logger) MemoryStoreOption {
	return func(s *MemoryStore) {
		s.logger = logger
	}
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	store := &MemoryStore{
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(store)
	}

	go store.cleanupExpired()

	return store
}

// Get retrieves a value from the store
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if value, ok := s.entries.Load(key); ok {
		entry := value.(*memoryEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&s.hits, 1)
			return entry.value, true, nil
		}
		s.entries.Delete(key)
	}

	atomic.AddInt64(&s.misses, 1)
	return nil, false, nil
}

// Set stores a value with a TTL
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.entries.Store(key, &memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

// Delete removes one key
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.entries.Delete(key)
	return nil
}

// DeletePrefix removes every key starting with the prefix
func (s *MemoryStore) DeletePrefix(_ context.Context, prefix string) error {
	var removed int
	s.entries.Range(func(key, _ any) bool {
		if strings.HasPrefix(key.(string), prefix) {
			s.entries.Delete(key)
			removed++
		}
		return true
	})
	s.logger.Debug("invalidated cache prefix",
		zap.String("prefix", prefix),
		zap.Int("removed", removed))
	return nil
}

// Close stops the cleanup goroutine. Only the first call has an effect.
func (s *MemoryStore) Close() error {
	if atomic.CompareAndSwapInt32(&s.stopped, 0, 1) {
		close(s.stopCh)
	}
	return nil
}

// Stats returns hit and miss counts
func (s *MemoryStore) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&s.hits), atomic.LoadInt64(&s.misses)
}

// cleanupExpired periodically removes expired entries
func (s *MemoryStore) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.doCleanup()
		}
	}
}

// doCleanup removes expired entries
func (s *MemoryStore) doCleanup() {
	var removed int
	s.entries.Range(func(key, value any) bool {
		if value.(*memoryEntry).isExpired() {
			s.entries.Delete(key)
			removed++
		}
		return true
	})
	if removed > 0 {
		s.logger.Debug("cleaned up expired cache entries", zap.Int("removed", removed))
	}
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)
