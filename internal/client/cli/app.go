// Package cli implements the interactive terminal front end: a command
// loop over the auth session and the transaction/group store.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"

	"github.com/sumit8974/fintrack-cli/internal/client/api"
	"github.com/sumit8974/fintrack-cli/internal/client/config"
	"github.com/sumit8974/fintrack-cli/internal/client/notify"
	"github.com/sumit8974/fintrack-cli/internal/client/repositories"
	"github.com/sumit8974/fintrack-cli/internal/client/repositories/session"
	"github.com/sumit8974/fintrack-cli/internal/client/services"
	"github.com/sumit8974/fintrack-cli/internal/client/token"
	"github.com/sumit8974/fintrack-cli/internal/logging"
)

// App owns the wired client: one session, one store, one API pipeline.
type App struct {
	config  *config.Config
	db      *sql.DB
	client  api.Client
	session *services.Session
	store   *services.Store
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp constructs the full client from config: local cache db, token
// store, HTTP pipeline, session, and store. The 401 hook is wired here so
// a rejected token anywhere drops the session and empties the store.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	db, err := repositories.InitDatabase(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	tokens := token.NewStore(session.NewSQLiteRepository(db))
	notifier := notify.NewConsoleNotifier(os.Stdout)

	client := api.NewHTTPClient(cfg.APIBaseURL, cfg.RequestTimeout, tokens, logger)
	sess := services.NewSession(client, tokens, db, notifier, logger)
	store := services.NewStore(client, sess, notifier, logger)

	client.SetUnauthorizedHandler(func() {
		sess.ForceLogout(context.Background())
		store.Reset()
	})

	return &App{
		config:  cfg,
		db:      db,
		client:  client,
		session: sess,
		store:   store,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// Run restores any persisted session, loads the store, and enters the
// command loop.
func (a *App) Run(ctx context.Context) error {
	a.session.Restore(ctx)
	if a.session.IsAuthenticated() {
		a.store.Load(ctx)
	}

	a.Main(ctx)
	return a.Close()
}

func (a *App) Close() error {
	if err := a.client.Close(); err != nil {
		return err
	}
	return a.db.Close()
}
