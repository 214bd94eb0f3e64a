// Package token wraps the persisted slot holding the bearer token.
//
// The store is safe to call before any session exists: Get returns an empty
// token and IsExpired returns true rather than failing.
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sumit8974/fintrack-cli/internal/client/repositories/session"
	"github.com/sumit8974/fintrack-cli/internal/common"
)

// Key is the session slot holding the bearer token.
const Key = "access_token"

type Store struct {
	repo session.Repository
}

func NewStore(repo session.Repository) *Store {
	return &Store{repo: repo}
}

// Get returns the stored token, or an empty string when none is stored.
func (s *Store) Get(ctx context.Context) (string, error) {
	value, err := s.repo.Get(ctx, Key)
	if errors.Is(err, common.ErrorNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set replaces the stored token.
func (s *Store) Set(ctx context.Context, tok string) error {
	return s.repo.Set(ctx, Key, tok)
}

// Remove discards the stored token. Removing an absent token is not an error.
func (s *Store) Remove(ctx context.Context) error {
	return s.repo.Delete(ctx, Key)
}

// ExpiresAt decodes the stored token's embedded exp claim without verifying
// the signature (the server remains the authority; this is only a local
// read). It returns common.ErrorNotFound when no token is stored and
// common.ErrInvalidToken when the token or its exp claim cannot be decoded.
func (s *Store) ExpiresAt(ctx context.Context) (time.Time, error) {
	raw, err := s.Get(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if raw == "" {
		return time.Time{}, common.ErrorNotFound
	}

	tok, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to decode token: %w", common.ErrInvalidToken)
	}

	exp, err := tok.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("token has no usable exp claim: %w", common.ErrInvalidToken)
	}

	return exp.Time, nil
}

// IsExpired reports whether the stored token is past its embedded expiry.
// An absent or malformed token counts as expired.
func (s *Store) IsExpired(ctx context.Context) bool {
	exp, err := s.ExpiresAt(ctx)
	if err != nil {
		return true
	}
	return time.Now().After(exp)
}
