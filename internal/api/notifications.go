package api

import (
	"context"
	"fmt"
	"time"

	"github.com/atelier/backoffice/internal/infrastructure/rest"
	"github.com/atelier/backoffice/internal/query"
)

// Notification is one entry in the user's notification feed
type Notification struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifications covers the notification feed
type Notifications struct {
	rest  *rest.Client
	cache *query.Cache
}

// List fetches one page of notifications
func (r *Notifications) List(ctx context.Context, page int) (*rest.Page[Notification], error) {
	key := query.NewKey(resourceNotifications, pageParams(page))
	return query.Fetch(ctx, r.cache, key, func(ctx context.Context) (*rest.Page[Notification], error) {
		return rest.GetPage[Notification](ctx, r.rest, "/notifications", pageParams(page))
	})
}

// MarkRead marks one notification as read
func (r *Notifications) MarkRead(ctx context.Context, id int64) error {
	if err := r.rest.Post(ctx, fmt.Sprintf("/notifications/%d/read", id), nil, nil); err != nil {
		return err
	}
	r.cache.Invalidate(ctx, resourceNotifications)
	return nil
}
