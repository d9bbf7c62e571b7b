package api

import (
	"context"
	"fmt"

	"github.com/atelier/backoffice/internal/domain/client"
	"github.com/atelier/backoffice/internal/infrastructure/rest"
	"github.com/atelier/backoffice/internal/query"
)

// Clients covers the client book: the active list, the recycle bin, and the
// block/restore lifecycle between them.
type Clients struct {
	rest  *rest.Client
	cache *query.Cache
}

// List fetches one page of active clients
func (r *Clients) List(ctx context.Context, page int) (*rest.Page[client.Client], error) {
	key := query.NewKey(resourceClients, pageParams(page))
	return query.Fetch(ctx, r.cache, key, func(ctx context.Context) (*rest.Page[client.Client], error) {
		return rest.GetPage[client.Client](ctx, r.rest, "/clients", pageParams(page))
	})
}

// RecycleBin fetches one page of blocked and deleted clients
func (r *Clients) RecycleBin(ctx context.Context, page int) (*rest.Page[client.Client], error) {
	key := query.NewKey(resourceClientsRecycle, pageParams(page))
	return query.Fetch(ctx, r.cache, key, func(ctx context.Context) (*rest.Page[client.Client], error) {
		return rest.GetPage[client.Client](ctx, r.rest, "/clients/recycle-bin", pageParams(page))
	})
}

// Get fetches one client by ID
func (r *Clients) Get(ctx context.Context, id int64) (*client.Client, error) {
	key := query.NewKey(resourceClients, idParams(id))
	return query.Fetch(ctx, r.cache, key, func(ctx context.Context) (*client.Client, error) {
		return rest.GetOne[client.Client](ctx, r.rest, fmt.Sprintf("/clients/%d", id), nil)
	})
}

// Create registers a new client from a validated form
func (r *Clients) Create(ctx context.Context, form *client.Form) (*client.Client, error) {
	created, err := rest.PostOne[client.Client](ctx, r.rest, "/clients", form.Payload())
	if err != nil {
		return nil, err
	}
	r.cache.Invalidate(ctx, resourceClients)
	return created, nil
}

// Update overwrites a client's details
func (r *Clients) Update(ctx context.Context, id int64, form *client.Form) error {
	if err := r.rest.Put(ctx, fmt.Sprintf("/clients/%d", id), form.Payload(), nil); err != nil {
		return err
	}
	r.cache.Invalidate(ctx, resourceClients)
	return nil
}

// Delete moves a client to the recycle bin
func (r *Clients) Delete(ctx context.Context, id int64) error {
	if err := r.rest.Delete(ctx, fmt.Sprintf("/clients/%d", id)); err != nil {
		return err
	}
	r.cache.Invalidate(ctx, resourceClients, resourceClientsRecycle)
	return nil
}

// Block suspends a client; blocked clients appear in the recycle bin
func (r *Clients) Block(ctx context.Context, id int64) error {
	if err := r.rest.Post(ctx, fmt.Sprintf("/clients/%d/block", id), nil, nil); err != nil {
		return err
	}
	r.cache.Invalidate(ctx, resourceClients, resourceClientsRecycle)
	return nil
}

// Restore returns a client from the recycle bin to the active list
func (r *Clients) Restore(ctx context.Context, id int64) error {
	if err := r.rest.Post(ctx, fmt.Sprintf("/clients/%d/restore", id), nil, nil); err != nil {
		return err
	}
	r.cache.Invalidate(ctx, resourceClients, resourceClientsRecycle)
	return nil
}
