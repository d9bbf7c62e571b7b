package api

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/atelier/backoffice/internal/domain/order"
	"github.com/atelier/backoffice/internal/infrastructure/rest"
	"github.com/atelier/backoffice/internal/query"
)

// Orders covers the order book. Creation carries an idempotency key so a
// retried submission cannot double-book.
type Orders struct {
	rest  *rest.Client
	cache *query.Cache
}

// List fetches one page of orders
func (r *Orders) List(ctx context.Context, page int) (*rest.Page[order.Order], error) {
	key := query.NewKey(resourceOrders, pageParams(page))
	return query.Fetch(ctx, r.cache, key, func(ctx context.Context) (*rest.Page[order.Order], error) {
		return rest.GetPage[order.Order](ctx, r.rest, "/orders", pageParams(page))
	})
}

// Get fetches one order by ID
func (r *Orders) Get(ctx context.Context, id int64) (*order.Order, error) {
	key := query.NewKey(resourceOrders, idParams(id))
	return query.Fetch(ctx, r.cache, key, func(ctx context.Context) (*order.Order, error) {
		return rest.GetOne[order.Order](ctx, r.rest, fmt.Sprintf("/orders/%d", id), nil)
	})
}

// Create submits an assembled order payload. Renting changes cloth
// availability, so the catalog lists are invalidated alongside the orders.
func (r *Orders) Create(ctx context.Context, payload map[string]any) (*order.Order, error) {
	created, err := rest.PostOne[order.Order](ctx, r.rest, "/orders", payload,
		rest.WithHeader("Idempotency-Key", uuid.NewString()))
	if err != nil {
		return nil, err
	}
	r.cache.Invalidate(ctx, resourceOrders, resourceCloths)
	return created, nil
}

// Approve confirms a pending order
func (r *Orders) Approve(ctx context.Context, id int64) error {
	if err := r.rest.Post(ctx, fmt.Sprintf("/orders/%d/approve", id), nil, nil); err != nil {
		return err
	}
	r.cache.Invalidate(ctx, resourceOrders)
	return nil
}

// Reject cancels a pending order, releasing its cloths back to the catalog
func (r *Orders) Reject(ctx context.Context, id int64) error {
	if err := r.rest.Post(ctx, fmt.Sprintf("/orders/%d/reject", id), nil, nil); err != nil {
		return err
	}
	r.cache.Invalidate(ctx, resourceOrders, resourceCloths)
	return nil
}
