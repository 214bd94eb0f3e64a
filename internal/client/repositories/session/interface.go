// Package session implements the persisted key-value slots backing the
// client session: the bearer token and the cached user record.
package session

import "context"

// Repository is a small key-value store over the local cache database.
// Get returns common.ErrorNotFound when the key is absent.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
