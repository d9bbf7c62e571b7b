package api

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/atelier/backoffice/internal/infrastructure/rest"
	"github.com/atelier/backoffice/internal/query"
)

// Permissions covers the current user's permission set
type Permissions struct {
	rest  *rest.Client
	cache *query.Cache
}

// Mine fetches the caller's permission names
func (r *Permissions) Mine(ctx context.Context) ([]string, error) {
	key := query.NewKey(resourcePermissions, nil)
	return query.Fetch(ctx, r.cache, key, func(ctx context.Context) ([]string, error) {
		return r.fetch(ctx)
	})
}

// Watch polls the permission set on a fixed interval, independent of any
// other activity, and pushes each successful read to subscribers. The caller
// starts and stops the returned poller.
func (r *Permissions) Watch(interval time.Duration, logger *zap.Logger) (*query.Poller[[]string], error) {
	return query.NewPoller(interval, r.fetch, logger)
}

// fetch reads the permission set directly, bypassing the cache so the
// poller always sees the server's current state
func (r *Permissions) fetch(ctx context.Context) ([]string, error) {
	var permissions []string
	if err := r.rest.Get(ctx, "/my-permissions", nil, &permissions); err != nil {
		return nil, err
	}
	return permissions, nil
}
