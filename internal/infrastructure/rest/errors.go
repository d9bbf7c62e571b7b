package rest

import (
	"encoding/json"
	"fmt"
	"sort"
)

// FallbackMessage is surfaced when a response is absent or malformed
const FallbackMessage = "Something went wrong"

// APIError is a request failure normalized to one human-readable message
type APIError struct {
	Status  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying transport error, if any
func (e *APIError) Unwrap() error {
	return e.Err
}

// errorBody is the error shape the server may return
type errorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// ResolveErrorMessage extracts a human-readable message from an error
// response body. Preference order: first nested field error, then the
// top-level message, then the generic fallback.
func ResolveErrorMessage(body []byte) string {
	if len(body) == 0 {
		return FallbackMessage
	}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return FallbackMessage
	}

	if len(parsed.Errors) > 0 {
		// Field iteration order is randomized; sort for a stable choice.
		fields := make([]string, 0, len(parsed.Errors))
		for field := range parsed.Errors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			if msgs := parsed.Errors[field]; len(msgs) > 0 && msgs[0] != "" {
				return msgs[0]
			}
		}
	}

	if parsed.Message != "" {
		return parsed.Message
	}
	return FallbackMessage
}

// newStatusError builds an APIError for a non-2xx response
func newStatusError(status int, body []byte) *APIError {
	return &APIError{
		Status:  status,
		Message: ResolveErrorMessage(body),
	}
}

// newTransportError builds an APIError for a failed or absent response
func newTransportError(err error) *APIError {
	return &APIError{
		Message: FallbackMessage,
		Err:     fmt.Errorf("request failed: %w", err),
	}
}
