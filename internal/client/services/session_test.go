package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumit8974/fintrack-cli/internal/client/api"
	"github.com/sumit8974/fintrack-cli/internal/client/models"
	"github.com/sumit8974/fintrack-cli/internal/client/notify"
	"github.com/sumit8974/fintrack-cli/internal/client/repositories/session"
	"github.com/sumit8974/fintrack-cli/internal/client/token"
	"github.com/sumit8974/fintrack-cli/internal/common"
	"github.com/sumit8974/fintrack-cli/internal/logging"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE session (
  key        TEXT PRIMARY KEY,
  value      TEXT NOT NULL,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`)
	require.NoError(t, err)
	return db
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.DiscardHandler))
}

func newSession(t *testing.T, fc *fakeClient) (*Session, *notify.Recorder, *token.Store, *sql.DB) {
	t.Helper()
	db := setupDB(t)
	tokens := token.NewStore(session.NewSQLiteRepository(db))
	rec := &notify.Recorder{}
	s := NewSession(fc, tokens, db, rec, discardLogger())
	return s, rec, tokens, db
}

func insertSessionKV(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO session(key, value) VALUES(?, ?)`, key, value)
	require.NoError(t, err)
}

// mintSessionToken produces a decodable bearer token for the restore tests.
func mintSessionToken(t *testing.T) string {
	t.Helper()
	claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestRestore_AdoptsPersistedSession(t *testing.T) {
	s, _, _, db := newSession(t, &fakeClient{})
	ctx := context.Background()

	user := models.User{ID: "3", Name: "alice", Email: "a@b.com", RoleID: "1"}
	raw, err := json.Marshal(user)
	require.NoError(t, err)
	insertSessionKV(t, db, token.Key, mintSessionToken(t))
	insertSessionKV(t, db, userKey, string(raw))

	s.Restore(ctx)

	assert.Equal(t, StateAuthenticated, s.State())
	require.NotNil(t, s.CurrentUser())
	assert.Equal(t, "alice", s.CurrentUser().Name)
}

func TestRestore_NoPersistedState(t *testing.T) {
	s, _, _, _ := newSession(t, &fakeClient{})
	s.Restore(context.Background())
	assert.Equal(t, StateAnonymous, s.State())
	assert.Nil(t, s.CurrentUser())
}

func TestRestore_MalformedUserDegradesToAnonymous(t *testing.T) {
	s, _, tokens, db := newSession(t, &fakeClient{})
	ctx := context.Background()

	insertSessionKV(t, db, token.Key, mintSessionToken(t))
	insertSessionKV(t, db, userKey, "{not json")

	s.Restore(ctx)

	assert.Equal(t, StateAnonymous, s.State())
	got, err := tokens.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, got, "malformed cache must be wiped")
}

func TestRestore_MalformedTokenDegradesToAnonymous(t *testing.T) {
	s, _, tokens, db := newSession(t, &fakeClient{})
	ctx := context.Background()

	user := models.User{ID: "3", Name: "alice", Email: "a@b.com", RoleID: "1"}
	raw, err := json.Marshal(user)
	require.NoError(t, err)
	insertSessionKV(t, db, token.Key, "not-a-jwt")
	insertSessionKV(t, db, userKey, string(raw))

	s.Restore(ctx)

	assert.Equal(t, StateAnonymous, s.State())
	assert.Nil(t, s.CurrentUser())
	got, err := tokens.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, got, "malformed cache must be wiped")
}

func TestLogin_Success(t *testing.T) {
	fc := &fakeClient{
		LoginToken:  "fresh-token",
		ProfileUser: &models.User{ID: "3", Name: "alice", Email: "a@b.com", RoleID: "1"},
	}
	s, rec, tokens, db := newSession(t, fc)
	ctx := context.Background()

	require.NoError(t, s.Login(ctx, "a@b.com", "secret1"))

	assert.Equal(t, StateAuthenticated, s.State())
	require.NotNil(t, s.CurrentUser())
	assert.Equal(t, "3", s.CurrentUser().ID)
	assert.Equal(t, "fresh-token", fc.LastProfileToken, "profile must use the freshly issued token")

	stored, err := tokens.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", stored)

	var rawUser string
	require.NoError(t, db.QueryRow(`SELECT value FROM session WHERE key = ?`, userKey).Scan(&rawUser))
	var u models.User
	require.NoError(t, json.Unmarshal([]byte(rawUser), &u))
	assert.Equal(t, "alice", u.Name)

	assert.Equal(t, "success", rec.Last().Kind)
	assert.Equal(t, "Login successful", rec.Last().Title)
}

func TestLogin_BadCredentialsLeavesStateUnchanged(t *testing.T) {
	fc := &fakeClient{
		LoginErr: &api.APIError{Status: 401, Message: "invalid credentials", Err: common.ErrUnauthorized},
	}
	s, rec, tokens, _ := newSession(t, fc)
	ctx := context.Background()

	err := s.Login(ctx, "a@b.com", "wrong")
	require.ErrorIs(t, err, common.ErrUnauthorized)

	assert.Equal(t, StateAnonymous, s.State())
	assert.Nil(t, s.CurrentUser())

	stored, err := tokens.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)

	assert.Equal(t, "error", rec.Last().Kind)
	assert.Equal(t, "Login failed", rec.Last().Title)
	assert.Equal(t, "invalid credentials", rec.Last().Detail, "server message must win over the generic fallback")
}

func TestLogin_ProfileFailureMeansNoPartialAdoption(t *testing.T) {
	fc := &fakeClient{
		LoginToken: "fresh-token",
		ProfileErr: common.ErrUnavailable,
	}
	s, rec, tokens, _ := newSession(t, fc)
	ctx := context.Background()

	err := s.Login(ctx, "a@b.com", "secret1")
	require.ErrorIs(t, err, common.ErrUnavailable)

	assert.Equal(t, StateAnonymous, s.State())
	stored, err := tokens.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored, "token must not be persisted without a matching user")
	assert.Equal(t, "An error occurred", rec.Last().Detail)
}

func TestRegister_DoesNotAuthenticate(t *testing.T) {
	fc := &fakeClient{}
	s, rec, _, _ := newSession(t, fc)

	require.NoError(t, s.Register(context.Background(), "alice", "a@b.com", "secret1"))

	assert.Equal(t, 1, fc.RegisterCalls)
	assert.Equal(t, StateAnonymous, s.State(), "registration must not open a session")
	assert.Equal(t, "Registration successful", rec.Last().Title)
}

func TestRegister_Failure(t *testing.T) {
	fc := &fakeClient{
		RegisterErr: &api.APIError{Status: 400, Message: "email already taken", Err: common.ErrValidation},
	}
	s, rec, _, _ := newSession(t, fc)

	err := s.Register(context.Background(), "alice", "a@b.com", "secret1")
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, "email already taken", rec.Last().Detail)
}

func TestLogout_Idempotent(t *testing.T) {
	fc := &fakeClient{
		LoginToken:  "tok",
		ProfileUser: &models.User{ID: "3", Name: "alice"},
	}
	s, rec, tokens, _ := newSession(t, fc)
	ctx := context.Background()

	require.NoError(t, s.Login(ctx, "a@b.com", "secret1"))
	require.NoError(t, s.Logout(ctx))

	assert.Equal(t, StateAnonymous, s.State())
	assert.Nil(t, s.CurrentUser())
	stored, err := tokens.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)

	notificationsAfterFirst := len(rec.Notifications)
	require.NoError(t, s.Logout(ctx))
	assert.Equal(t, StateAnonymous, s.State())
	assert.Len(t, rec.Notifications, notificationsAfterFirst, "second logout must be side-effect-free")
}

func TestForceLogout_DropsSessionOnce(t *testing.T) {
	fc := &fakeClient{
		LoginToken:  "tok",
		ProfileUser: &models.User{ID: "3", Name: "alice"},
	}
	s, rec, _, _ := newSession(t, fc)
	ctx := context.Background()

	require.NoError(t, s.Login(ctx, "a@b.com", "secret1"))

	s.ForceLogout(ctx)
	assert.Equal(t, StateAnonymous, s.State())
	assert.Equal(t, "Session expired", rec.Last().Title)

	n := len(rec.Notifications)
	s.ForceLogout(ctx)
	assert.Len(t, rec.Notifications, n, "repeated force-logout must stay silent")
}
