package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/atelier/backoffice/internal/domain/catalog"
	"github.com/atelier/backoffice/internal/infrastructure/rest"
	"github.com/atelier/backoffice/internal/query"
)

// Cloths covers the garment catalog
type Cloths struct {
	rest  *rest.Client
	cache *query.Cache
}

// List fetches one page of the catalog matching the filter
func (r *Cloths) List(ctx context.Context, filter catalog.ClothFilter) (*rest.Page[catalog.Cloth], error) {
	params := clothParams(filter)
	key := query.NewKey(resourceCloths, params)
	return query.Fetch(ctx, r.cache, key, func(ctx context.Context) (*rest.Page[catalog.Cloth], error) {
		return rest.GetPage[catalog.Cloth](ctx, r.rest, "/cloths", params)
	})
}

// Get fetches one cloth by ID
func (r *Cloths) Get(ctx context.Context, id int64) (*catalog.Cloth, error) {
	key := query.NewKey(resourceCloths, idParams(id))
	return query.Fetch(ctx, r.cache, key, func(ctx context.Context) (*catalog.Cloth, error) {
		return rest.GetOne[catalog.Cloth](ctx, r.rest, fmt.Sprintf("/cloths/%d", id), nil)
	})
}

// Create registers a new cloth
func (r *Cloths) Create(ctx context.Context, cloth catalog.Cloth) (*catalog.Cloth, error) {
	created, err := rest.PostOne[catalog.Cloth](ctx, r.rest, "/cloths", cloth)
	if err != nil {
		return nil, err
	}
	r.cache.Invalidate(ctx, resourceCloths)
	return created, nil
}

// Update overwrites a cloth's details
func (r *Cloths) Update(ctx context.Context, id int64, cloth catalog.Cloth) error {
	if err := r.rest.Put(ctx, fmt.Sprintf("/cloths/%d", id), cloth, nil); err != nil {
		return err
	}
	r.cache.Invalidate(ctx, resourceCloths)
	return nil
}

// UpdateStatus transitions a cloth to a new status
func (r *Cloths) UpdateStatus(ctx context.Context, id int64, status catalog.ClothStatus) error {
	body := map[string]any{"status": status.String()}
	if err := r.rest.Post(ctx, fmt.Sprintf("/cloths/%d/status", id), body, nil); err != nil {
		return err
	}
	r.cache.Invalidate(ctx, resourceCloths)
	return nil
}

// clothParams flattens the filter into query parameters. Zero values are
// omitted; subcategories repeat.
func clothParams(filter catalog.ClothFilter) url.Values {
	params := pageParams(filter.Page)
	if filter.Name != "" {
		params.Set("name", filter.Name)
	}
	if filter.Category != "" {
		params.Set("category", filter.Category)
	}
	for _, sub := range filter.SubCategories {
		params.Add("sub_categories[]", sub)
	}
	if filter.Location != nil && filter.Location.IsSet() {
		params.Set("entity_type", filter.Location.EntityType.String())
		params.Set("entity_id", strconv.FormatInt(filter.Location.EntityID, 10))
	}
	if filter.Status != "" {
		params.Set("status", filter.Status.String())
	}
	return params
}
