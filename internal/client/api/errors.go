package api

import (
	"errors"
	"fmt"
)

// APIError carries the HTTP status and the server-supplied message of a
// rejected request, wrapped around the matching sentinel from
// internal/common so callers can branch with errors.Is.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error (status %d): %v", e.Status, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// ServerMessage extracts the server-supplied error message from err, or
// returns an empty string when there is none. Notifications prefer this
// over a generic fallback.
func ServerMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
