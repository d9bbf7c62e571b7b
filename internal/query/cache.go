package query

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/atelier/backoffice/internal/infrastructure/cache"
)

// Cache coordinates reads against the REST API: results are kept in the
// backing store until a mutation invalidates their resource, concurrent
// fetches for the same key collapse into one request, and live watchers are
// refetched in the background after invalidation.
type Cache struct {
	store  cache.Store
	ttl    time.Duration
	logger *zap.Logger
	group  singleflight.Group

	mu       sync.Mutex
	inflight map[string]context.CancelFunc
	watchers map[int64]*watcher
	nextID   int64
}

type watcher struct {
	resource string
	refetch  func()
}

// New creates a query cache over the given store
func New(store cache.Store, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		store:    store,
		ttl:      ttl,
		logger:   logger,
		inflight: make(map[string]context.CancelFunc),
		watchers: make(map[int64]*watcher),
	}
}

// Fetch returns the cached value for key, or runs fn to produce it.
// Concurrent callers with the same key share one execution.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	k := key.String()

	if raw, ok, err := c.store.Get(ctx, k); err == nil && ok {
		var value T
		if json.Unmarshal(raw, &value) == nil {
			return value, nil
		}
		// unreadable entry, refetch below
		_ = c.store.Delete(ctx, k)
	}

	result, err, _ := c.group.Do(k, func() (any, error) {
		fctx, cancel := context.WithCancel(ctx)
		defer cancel()
		c.track(k, cancel)
		defer c.untrack(k)

		value, err := fn(fctx)
		if err != nil {
			return nil, err
		}
		if raw, merr := json.Marshal(value); merr == nil {
			if serr := c.store.Set(ctx, k, raw, c.ttl); serr != nil {
				c.logger.Warn("Failed to cache query result", zap.String("key", k), zap.Error(serr))
			}
		}
		return value, nil
	})
	if err != nil {
		return zero, err
	}
	return result.(T), nil
}

// Invalidate drops every cached entry for the named resources, cancels
// their in-flight fetches, and refetches live watchers in the background.
// Mutations call this with their own resource plus any dependent ones.
func (c *Cache) Invalidate(ctx context.Context, resources ...string) {
	for _, resource := range resources {
		c.cancelInflight(resource)
		if err := c.store.DeletePrefix(ctx, resource); err != nil {
			c.logger.Warn("Failed to invalidate resource", zap.String("resource", resource), zap.Error(err))
		}
	}
	c.notifyWatchers(resources)
}

// Watch registers a live query: whenever the key's resource is invalidated
// the fetch runs again in the background and onUpdate receives the result.
// The returned stop function deregisters the watcher.
func Watch[T any](c *Cache, key Key, fn func(context.Context) (T, error), onUpdate func(T, error)) func() {
	w := &watcher{
		resource: key.prefix(),
		refetch: func() {
			go func() {
				value, err := Fetch(context.Background(), c, key, fn)
				onUpdate(value, err)
			}()
		},
	}

	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.watchers[id] = w
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.watchers, id)
		c.mu.Unlock()
	}
}

func (c *Cache) track(key string, cancel context.CancelFunc) {
	c.mu.Lock()
	c.inflight[key] = cancel
	c.mu.Unlock()
}

func (c *Cache) untrack(key string) {
	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()
}

func (c *Cache) cancelInflight(resource string) {
	c.mu.Lock()
	for key, cancel := range c.inflight {
		if strings.HasPrefix(key, resource) {
			cancel()
			c.group.Forget(key)
			delete(c.inflight, key)
		}
	}
	c.mu.Unlock()
}

func (c *Cache) notifyWatchers(resources []string) {
	c.mu.Lock()
	var pending []func()
	for _, w := range c.watchers {
		for _, resource := range resources {
			if w.resource == resource {
				pending = append(pending, w.refetch)
				break
			}
		}
	}
	c.mu.Unlock()

	for _, refetch := range pending {
		refetch()
	}
}
