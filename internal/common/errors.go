// Package common defines shared constants and sentinel errors used across
// the fintrack client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Lookup errors (missing group, transaction, cached record).
	ErrorNotFound = errors.New("not found")

	// Auth errors: bad credentials, expired or rejected token.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")

	// Request validation errors (missing fields, malformed email).
	ErrValidation = errors.New("validation error")

	// Network errors: connection failure, request timeout.
	ErrUnavailable = errors.New("server unavailable")

	// Generic internal failure.
	ErrorInternal = errors.New("internal error")
)
