package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier/backoffice/internal/domain/catalog"
	"github.com/atelier/backoffice/internal/infrastructure/cache"
	"github.com/atelier/backoffice/internal/infrastructure/rest"
	"github.com/atelier/backoffice/internal/query"
)

type staticTokens struct{}

func (staticTokens) Token() string { return "test-token" }
func (staticTokens) Logout()       {}

// newTestAPI wires the resource clients against an httptest server
func newTestAPI(t *testing.T, handler http.Handler) *API {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := cache.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	rc := rest.NewClient(server.URL, 5*time.Second, staticTokens{})
	return New(rc, query.New(store, time.Minute, nil))
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestClients_ListCachedUntilMutation(t *testing.T) {
	var listCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /clients", func(w http.ResponseWriter, r *http.Request) {
		listCalls.Add(1)
		writeJSON(t, w, map[string]any{
			"data":         []map[string]any{{"id": 1, "name": "Mona Hassan"}},
			"current_page": 1,
			"total":        1,
			"total_pages":  1,
		})
	})
	mux.HandleFunc("POST /clients/1/block", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"data": nil})
	})
	apiClient := newTestAPI(t, mux)

	page, err := apiClient.Clients.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Mona Hassan", page.Data[0].Name)

	_, err = apiClient.Clients.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int32(1), listCalls.Load(), "second read should come from cache")

	require.NoError(t, apiClient.Clients.Block(context.Background(), 1))

	_, err = apiClient.Clients.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int32(2), listCalls.Load(), "block must invalidate the client list")
}

func TestClients_BlockInvalidatesRecycleBin(t *testing.T) {
	var recycleCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /clients/recycle-bin", func(w http.ResponseWriter, r *http.Request) {
		recycleCalls.Add(1)
		writeJSON(t, w, map[string]any{"data": []any{}, "current_page": 1, "total": 0})
	})
	mux.HandleFunc("POST /clients/7/block", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"data": nil})
	})
	apiClient := newTestAPI(t, mux)

	_, err := apiClient.Clients.RecycleBin(context.Background(), 1)
	require.NoError(t, err)

	require.NoError(t, apiClient.Clients.Block(context.Background(), 7))

	_, err = apiClient.Clients.RecycleBin(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int32(2), recycleCalls.Load(), "blocked clients land in the recycle bin")
}

func TestCloths_ListSendsFilterParams(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /cloths", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "silk", q.Get("name"))
		assert.Equal(t, "dresses", q.Get("category"))
		assert.Equal(t, []string{"evening", "wedding"}, q["sub_categories[]"])
		assert.Equal(t, "branch", q.Get("entity_type"))
		assert.Equal(t, "3", q.Get("entity_id"))
		assert.Equal(t, "ready_for_rent", q.Get("status"))
		assert.Equal(t, "2", q.Get("page"))
		writeJSON(t, w, map[string]any{"data": []any{}, "current_page": 2, "total": 0})
	})
	apiClient := newTestAPI(t, mux)

	_, err := apiClient.Cloths.List(context.Background(), catalog.ClothFilter{
		Name:          "silk",
		Category:      "dresses",
		SubCategories: []string{"evening", "wedding"},
		Location:      &catalog.Location{EntityType: catalog.EntityTypeBranch, EntityID: 3},
		Status:        catalog.ClothStatusReadyForRent,
		Page:          2,
	})
	require.NoError(t, err)
}

func TestOrders_CreateSendsIdempotencyKey(t *testing.T) {
	var keys []string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /orders", func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		writeJSON(t, w, map[string]any{"data": map[string]any{"id": 10, "status": "pending"}})
	})
	apiClient := newTestAPI(t, mux)

	created, err := apiClient.Orders.Create(context.Background(), map[string]any{"existing_client": true})
	require.NoError(t, err)
	assert.Equal(t, int64(10), created.ID)

	_, err = apiClient.Orders.Create(context.Background(), map[string]any{"existing_client": true})
	require.NoError(t, err)

	require.Len(t, keys, 2)
	assert.NotEmpty(t, keys[0])
	assert.NotEqual(t, keys[0], keys[1], "each submission gets a fresh key")
}

func TestOrders_CreateInvalidatesCatalog(t *testing.T) {
	var clothCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /cloths", func(w http.ResponseWriter, r *http.Request) {
		clothCalls.Add(1)
		writeJSON(t, w, map[string]any{"data": []any{}, "current_page": 1, "total": 0})
	})
	mux.HandleFunc("POST /orders", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"data": map[string]any{"id": 1}})
	})
	apiClient := newTestAPI(t, mux)

	_, err := apiClient.Cloths.List(context.Background(), catalog.ClothFilter{})
	require.NoError(t, err)

	_, err = apiClient.Orders.Create(context.Background(), map[string]any{})
	require.NoError(t, err)

	_, err = apiClient.Cloths.List(context.Background(), catalog.ClothFilter{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), clothCalls.Load(), "renting changes cloth availability")
}

func TestOrders_CreateFailureReturnsServerMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /orders", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		writeJSON(t, w, map[string]any{
			"message": "Validation failed",
			"errors":  map[string]any{"items": []string{"The cloth is no longer available"}},
		})
	})
	apiClient := newTestAPI(t, mux)

	_, err := apiClient.Orders.Create(context.Background(), map[string]any{})
	require.Error(t, err)
	var apiErr *rest.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "The cloth is no longer available", apiErr.Message)
}

func TestPermissions_Mine(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /my-permissions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"data": []string{"orders.create", "clients.view"}})
	})
	apiClient := newTestAPI(t, mux)

	perms, err := apiClient.Permissions.Mine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"orders.create", "clients.view"}, perms)
}

func TestNotifications_MarkReadInvalidatesFeed(t *testing.T) {
	var feedCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /notifications", func(w http.ResponseWriter, r *http.Request) {
		feedCalls.Add(1)
		writeJSON(t, w, map[string]any{"data": []any{}, "current_page": 1, "total": 0})
	})
	mux.HandleFunc("POST /notifications/5/read", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"data": nil})
	})
	apiClient := newTestAPI(t, mux)

	_, err := apiClient.Notifications.List(context.Background(), 1)
	require.NoError(t, err)

	require.NoError(t, apiClient.Notifications.MarkRead(context.Background(), 5))

	_, err = apiClient.Notifications.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int32(2), feedCalls.Load())
}
