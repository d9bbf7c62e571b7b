package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// TokenSource provides the bearer token and receives the global logout
// signal when any request comes back 401.
type TokenSource interface {
	Token() string
	Logout()
}

// Client is the shared REST client every resource client goes through.
// It injects the bearer token, unwraps {data} envelopes, normalizes error
// bodies, and propagates 401 responses as a session logout.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *zap.Logger
}

// Option is a functional option for configuring the client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a REST client for the given base URL
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestOption mutates a single outgoing request
type RequestOption func(*http.Request)

// WithHeader sets one header on the request
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

// Get issues a GET request and decodes the {data} envelope into out
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

// Post issues a POST request with a JSON body
func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out, opts...)
}

// Put issues a PUT request with a JSON body
func (c *Client) Put(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.doJSON(ctx, http.MethodPut, path, body, out, opts...)
}

// Delete issues a DELETE request
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, "", nil)
}

// FormFile is one file part for a multipart request
type FormFile struct {
	Field    string
	Name     string
	Contents io.Reader
}

// PostMultipart issues a POST with multipart/form-data. File-bearing
// payloads (document uploads) go through here; everything else is JSON.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, files []FormFile, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return fmt.Errorf("write form field %s: %w", key, err)
		}
	}
	for _, file := range files {
		part, err := w.CreateFormFile(file.Field, file.Name)
		if err != nil {
			return fmt.Errorf("create form file %s: %w", file.Field, err)
		}
		if _, err := io.Copy(part, file.Contents); err != nil {
			return fmt.Errorf("copy form file %s: %w", file.Field, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	return c.do(ctx, http.MethodPost, path, nil, &buf, w.FormDataContentType(), out)
}

// doJSON marshals body and issues the request with a JSON content type
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	return c.do(ctx, method, path, nil, reader, "application/json", out, opts...)
}

// do builds, sends, and decodes one request
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any, opts ...RequestOption) error {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, opt := range opts {
		opt(req)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return newTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return newTransportError(err)
	}

	c.logger.Debug("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)))

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.Info("received 401, ending session", zap.String("path", path))
		c.tokens.Logout()
		return newStatusError(resp.StatusCode, raw)
	}
	if resp.StatusCode >= 400 {
		return newStatusError(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	return decodeEnvelope(raw, out)
}

// getRaw issues a GET to a fully built URL and returns the raw body.
// List endpoints use this: their pagination fields live beside data in the
// envelope itself, so the generic unwrap does not apply.
func (c *Client) getRaw(ctx context.Context, target, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("path", path), zap.Error(err))
		return nil, newTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newTransportError(err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.Info("received 401, ending session", zap.String("path", path))
		c.tokens.Logout()
		return nil, newStatusError(resp.StatusCode, raw)
	}
	if resp.StatusCode >= 400 {
		return nil, newStatusError(resp.StatusCode, raw)
	}
	return raw, nil
}

// trimSlash strips a leading slash so paths join cleanly with the base URL
func trimSlash(path string) string {
	return strings.TrimLeft(path, "/")
}

// envelope is the {data} wrapper every successful response uses
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// decodeEnvelope unwraps {data: ...} into out. A missing or malformed
// envelope is reported with the generic fallback message.
func decodeEnvelope(raw []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &APIError{Message: FallbackMessage, Err: fmt.Errorf("decode envelope: %w", err)}
	}
	if len(env.Data) == 0 {
		return &APIError{Message: FallbackMessage, Err: fmt.Errorf("response has no data field")}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &APIError{Message: FallbackMessage, Err: fmt.Errorf("decode data: %w", err)}
	}
	return nil
}
