// Package services contains the application services of the fintrack
// client: the auth session manager and the transaction/group store.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sumit8974/fintrack-cli/internal/client/api"
	"github.com/sumit8974/fintrack-cli/internal/client/models"
	"github.com/sumit8974/fintrack-cli/internal/client/notify"
	"github.com/sumit8974/fintrack-cli/internal/client/repositories/session"
	"github.com/sumit8974/fintrack-cli/internal/client/token"
	"github.com/sumit8974/fintrack-cli/internal/common"
	"github.com/sumit8974/fintrack-cli/internal/dbx"
	"github.com/sumit8974/fintrack-cli/internal/logging"
)

// SessionState tracks where the session is in its lifecycle.
type SessionState string

const (
	StateAnonymous      SessionState = "anonymous"
	StateAuthenticating SessionState = "authenticating"
	StateAuthenticated  SessionState = "authenticated"
)

// userKey is the session slot holding the cached user record.
const userKey = "user"

// Session owns the current-user identity and the login/register/logout
// flows, including silent restoration from the persisted cache.
//
// Login failures leave the previous state untouched: the token and the user
// record are adopted together or not at all.
type Session struct {
	mu       sync.Mutex
	client   api.Client
	tokens   *token.Store
	db       *sql.DB
	notifier notify.Notifier
	logger   logging.Logger

	user  *models.User
	state SessionState
}

func NewSession(client api.Client, tokens *token.Store, db *sql.DB, notifier notify.Notifier, logger logging.Logger) *Session {
	return &Session{
		client:   client,
		tokens:   tokens,
		db:       db,
		notifier: notifier,
		logger:   logger,
		state:    StateAnonymous,
	}
}

func (s *Session) getSessionRepo() session.Repository {
	return session.NewSQLiteRepository(s.db)
}

// Restore adopts a persisted user and token without a network round-trip.
// A stale token is only discovered on the next failing request, at which
// point the adapter's 401 handling forces a logout. Malformed persisted
// state degrades to anonymous instead of failing.
func (s *Session) Restore(ctx context.Context) {
	repo := s.getSessionRepo()

	tok, err := s.tokens.Get(ctx)
	if err != nil || tok == "" {
		return
	}

	// An expired token is still adopted (the next 401 sorts it out), but a
	// token that cannot be decoded at all is corrupt cache state.
	if _, err := s.tokens.ExpiresAt(ctx); errors.Is(err, common.ErrInvalidToken) {
		s.logger.Warn(ctx, "cached token is malformed, discarding", "error", err)
		_ = repo.Delete(ctx, userKey)
		_ = s.tokens.Remove(ctx)
		return
	}

	raw, err := repo.Get(ctx, userKey)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "failed to read cached user", "error", err)
		}
		return
	}

	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.logger.Warn(ctx, "cached user record is malformed, discarding", "error", err)
		_ = repo.Delete(ctx, userKey)
		_ = s.tokens.Remove(ctx)
		return
	}

	s.mu.Lock()
	s.user = &u
	s.state = StateAuthenticated
	s.mu.Unlock()

	s.logger.Info(ctx, "session restored", "user_id", u.ID)
}

// Login exchanges credentials for a token, fetches the profile with that
// token, and persists token and user together. The returned error lets the
// caller stay on the login form; the user-facing message has already been
// surfaced through the notifier.
func (s *Session) Login(ctx context.Context, email, password string) error {
	s.mu.Lock()
	prevState, prevUser := s.state, s.user
	s.state = StateAuthenticating
	s.mu.Unlock()

	fail := func(err error) error {
		s.mu.Lock()
		s.state, s.user = prevState, prevUser
		s.mu.Unlock()
		s.notifier.Error("Login failed", failureDetail(err))
		return err
	}

	tok, err := s.client.Login(ctx, email, password)
	if err != nil {
		return fail(err)
	}

	user, err := s.client.Profile(ctx, tok)
	if err != nil {
		return fail(err)
	}

	if err := s.saveSession(ctx, tok, user); err != nil {
		return fail(err)
	}

	s.mu.Lock()
	s.user = user
	s.state = StateAuthenticated
	s.mu.Unlock()

	s.logger.Info(ctx, "login succeeded", "user_id", user.ID)
	s.notifier.Success("Login successful", "Welcome back!")
	return nil
}

// saveSession persists the token and the user record in one transaction so
// a crash cannot leave a token without a matching user or vice versa.
func (s *Session) saveSession(ctx context.Context, tok string, user *models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := session.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, token.Key, tok); err != nil {
			return err
		}
		return repo.Set(ctx, userKey, string(raw))
	})
}

// Register creates the account but does not authenticate: the account must
// be activated through the emailed link before login is possible.
func (s *Session) Register(ctx context.Context, name, email, password string) error {
	if err := s.client.Register(ctx, name, email, password); err != nil {
		s.notifier.Error("Registration failed", failureDetail(err))
		return err
	}
	s.notifier.Success("Registration successful", "Your account has been created, check your email to activate it")
	return nil
}

// Logout clears the persisted token and user and resets to anonymous.
// Calling it while already anonymous is a no-op.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateAnonymous {
		s.mu.Unlock()
		return nil
	}
	s.user = nil
	s.state = StateAnonymous
	s.mu.Unlock()

	if err := s.getSessionRepo().Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	s.notifier.Success("Logged out", "You have been logged out successfully")
	return nil
}

// ForceLogout is the 401 policy hook: the adapter has already cleared the
// token, this drops the in-memory identity and the cached user.
func (s *Session) ForceLogout(ctx context.Context) {
	s.mu.Lock()
	wasAuthenticated := s.state != StateAnonymous
	s.user = nil
	s.state = StateAnonymous
	s.mu.Unlock()

	if !wasAuthenticated {
		return
	}

	if err := s.getSessionRepo().Clear(ctx); err != nil {
		s.logger.Error(ctx, "failed to clear session after 401", "error", err)
	}
	s.notifier.Error("Session expired", "Please log in again")
}

// CurrentUser returns the authenticated user, or nil while anonymous.
func (s *Session) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

// failureDetail prefers the server-supplied error message over a generic
// fallback.
func failureDetail(err error) string {
	if msg := api.ServerMessage(err); msg != "" {
		return msg
	}
	return "An error occurred"
}
