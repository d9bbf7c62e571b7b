package api

import (
	"context"

	"github.com/atelier/backoffice/internal/infrastructure/rest"
	"github.com/atelier/backoffice/internal/query"
)

// City is a reference entry for client addresses
type City struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Cities covers the city reference list backing the new-client form
type Cities struct {
	rest  *rest.Client
	cache *query.Cache
}

// List fetches one page of cities
func (r *Cities) List(ctx context.Context, page int) (*rest.Page[City], error) {
	key := query.NewKey(resourceCities, pageParams(page))
	return query.Fetch(ctx, r.cache, key, func(ctx context.Context) (*rest.Page[City], error) {
		return rest.GetPage[City](ctx, r.rest, "/cities", pageParams(page))
	})
}
