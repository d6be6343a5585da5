package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophaccount/internal/client/client"
	"github.com/dmitrijs2005/gophaccount/internal/client/config"
	"github.com/dmitrijs2005/gophaccount/internal/client/models"
	"github.com/dmitrijs2005/gophaccount/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophaccount/internal/client/services"
	"github.com/dmitrijs2005/gophaccount/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// sessionService is the part of services.SessionService the CLI drives.
type sessionService interface {
	State() models.SessionState
	Restore(ctx context.Context) error
	Register(ctx context.Context, form *models.RegisterForm) error
	Login(ctx context.Context, form *models.LoginForm) error
	Logout(ctx context.Context) error
	Navigate(ctx context.Context, target models.View) error
	UploadAvatar(ctx context.Context, image []byte) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type App struct {
	config  *config.Config
	session sessionService
	logger  logging.Logger
	db      *sql.DB
	reader  *bufio.Reader
	out     io.Writer

	mu   sync.Mutex
	mode Mode
	// last rendered view, empty until the first render
	lastView models.View
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	logger, err := logging.New(c.LogFormat, c.LogLevel, os.Stderr)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err, "path", c.DatabasePath)
		return nil, err
	}

	apiClient, err := client.NewHTTPClient(client.HTTPConfig{
		EndpointURL: c.ServerEndpointURL,
		AvatarURL:   c.AvatarEndpointURL,
		Timeout:     c.RequestTimeout,
	}, nil, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := &App{
		config: c,
		logger: logger,
		db:     db,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	store := services.NewMetadataUserStore(metadata.NewSQLiteRepository(db))
	a.session = services.NewSessionService(apiClient, store, newConsoleNotifier(a.out), logger,
		services.WithSessionTTL(c.SessionTTL),
		services.WithStateListener(a.onStateChange),
	)

	return a, nil
}

// Run restores the previous session and serves the REPL until the user
// leaves or ctx is cancelled. A pending read from stdin is abandoned on
// cancellation.
func (a *App) Run(ctx context.Context) {
	defer a.close(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		a.Root(ctx)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		printlnFn("Interrupted, bye!")
	}
}

func (a *App) close(ctx context.Context) {
	if err := a.session.Close(ctx); err != nil {
		a.logger.Warn(ctx, "closing session", "error", err)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn(ctx, "closing database", "error", err)
		}
	}
}

// onStateChange renders the new view whenever the view switches.
func (a *App) onStateChange(st models.SessionState) {
	a.mu.Lock()
	changed := st.View != a.lastView
	a.lastView = st.View
	a.mu.Unlock()

	if changed {
		fmt.Fprintln(a.out, renderView(st))
	}
}

func (a *App) view() models.View {
	return a.session.State().View
}

func (a *App) getMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(context.Background(), "connectivity changed", "mode", mode)
	}
}

// StartOnlineStatusWatcher pings the service every interval and flips the
// mode shown in the prompt. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)

		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.session.Ping(pingCtx)
	cancel()

	if err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}
