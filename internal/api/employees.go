package api

import (
	"context"
	"fmt"

	"github.com/atelier/backoffice/internal/infrastructure/rest"
	"github.com/atelier/backoffice/internal/query"
)

// Employee is the staff member assignable to an order
type Employee struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Phone  string `json:"phone"`
	Active bool   `json:"active"`
}

// Employees covers the staff directory
type Employees struct {
	rest  *rest.Client
	cache *query.Cache
}

// List fetches one page of employees
func (r *Employees) List(ctx context.Context, page int) (*rest.Page[Employee], error) {
	key := query.NewKey(resourceEmployees, pageParams(page))
	return query.Fetch(ctx, r.cache, key, func(ctx context.Context) (*rest.Page[Employee], error) {
		return rest.GetPage[Employee](ctx, r.rest, "/employees", pageParams(page))
	})
}

// Get fetches one employee by ID
func (r *Employees) Get(ctx context.Context, id int64) (*Employee, error) {
	key := query.NewKey(resourceEmployees, idParams(id))
	return query.Fetch(ctx, r.cache, key, func(ctx context.Context) (*Employee, error) {
		return rest.GetOne[Employee](ctx, r.rest, fmt.Sprintf("/employees/%d", id), nil)
	})
}
