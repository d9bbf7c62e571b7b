// Package api exposes one typed resource client per back-office endpoint
// group. Every resource follows the same convention: paginated lists with a
// fixed page size, cached reads keyed by resource and filters, and mutations
// that declare which cached lists they invalidate on success.
package api

import (
	"net/url"
	"strconv"

	"github.com/atelier/backoffice/internal/infrastructure/rest"
	"github.com/atelier/backoffice/internal/query"
)

// Cache resource prefixes. Mutations invalidate by prefix, so every cached
// page and detail fetch of a resource shares it.
const (
	resourceClients        = "clients"
	resourceClientsRecycle = "clients:recycle-bin"
	resourceCloths         = "cloths"
	resourceOrders         = "orders"
	resourceEmployees      = "employees"
	resourceCities         = "cities"
	resourceNotifications  = "notifications"
	resourcePermissions    = "permissions"
)

// API bundles the resource clients over one transport and one query cache
type API struct {
	Clients       *Clients
	Cloths        *Cloths
	Orders        *Orders
	Employees     *Employees
	Cities        *Cities
	Notifications *Notifications
	Permissions   *Permissions
}

// New wires every resource client
func New(rc *rest.Client, qc *query.Cache) *API {
	return &API{
		Clients:       &Clients{rest: rc, cache: qc},
		Cloths:        &Cloths{rest: rc, cache: qc},
		Orders:        &Orders{rest: rc, cache: qc},
		Employees:     &Employees{rest: rc, cache: qc},
		Cities:        &Cities{rest: rc, cache: qc},
		Notifications: &Notifications{rest: rc, cache: qc},
		Permissions:   &Permissions{rest: rc, cache: qc},
	}
}

// pageParams builds the query for a 1-based page number
func pageParams(page int) url.Values {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	return params
}

func idParams(id int64) url.Values {
	params := url.Values{}
	params.Set("id", strconv.FormatInt(id, 10))
	return params
}
