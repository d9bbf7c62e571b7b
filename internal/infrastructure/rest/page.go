package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// PageSize is fixed across every list endpoint
const PageSize = 10

// Page is one page of a list endpoint's results
type Page[T any] struct {
	Data        []T `json:"data"`
	CurrentPage int `json:"current_page"`
	Total       int `json:"total"`
	TotalPages  int `json:"total_pages"`
}

// GetPage fetches one 1-based page of a list endpoint. When the server
// omits total_pages it is derived as ceil(total / PageSize).
func GetPage[T any](ctx context.Context, c *Client, path string, query url.Values) (*Page[T], error) {
	if query == nil {
		query = url.Values{}
	}
	if query.Get("page") == "" {
		query.Set("page", "1")
	}

	target := c.baseURL + "/" + trimSlash(path) + "?" + query.Encode()
	raw, err := c.getRaw(ctx, target, path)
	if err != nil {
		return nil, err
	}

	var page Page[T]
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, &APIError{Message: FallbackMessage, Err: fmt.Errorf("decode page: %w", err)}
	}
	if page.TotalPages == 0 && page.Total > 0 {
		page.TotalPages = (page.Total + PageSize - 1) / PageSize
	}
	if page.CurrentPage == 0 {
		page.CurrentPage, _ = strconv.Atoi(query.Get("page"))
	}
	return &page, nil
}

// GetOne fetches a single entity from a {data: T} envelope
func GetOne[T any](ctx context.Context, c *Client, path string, query url.Values) (*T, error) {
	var out T
	if err := c.Get(ctx, path, query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PostOne issues a create/transition request and decodes the returned entity
func PostOne[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*T, error) {
	var out T
	if err := c.Post(ctx, path, body, &out, opts...); err != nil {
		return nil, err
	}
	return &out, nil
}
