package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dmitrijs2005/smartcalc/internal/client/client"
	"github.com/dmitrijs2005/smartcalc/internal/client/config"
	"github.com/dmitrijs2005/smartcalc/internal/client/services"
	"github.com/dmitrijs2005/smartcalc/internal/client/session"
	"github.com/dmitrijs2005/smartcalc/internal/client/storage"
	"github.com/dmitrijs2005/smartcalc/internal/common"
	"github.com/dmitrijs2005/smartcalc/internal/logging"
)

type Mode string

const (
	ModeUnknown Mode = ""
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

const msgSessionExpired = "session expired, please log in again"

// runProgram is a test seam around the bubbletea runtime.
var runProgram = func(ctx context.Context, m tea.Model, in io.Reader, out io.Writer) error {
	_, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out)).Run()
	return err
}

var _ execIface = (*App)(nil)

type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB

	api            client.Client
	session        *session.Store
	authService    services.AuthService
	calcService    services.CalculatorService
	historyService services.HistoryService

	reader *bufio.Reader
	in     io.Reader
	out    io.Writer

	mode    atomic.Value // Mode
	expired atomic.Bool
}

// NewApp opens the session database and wires the API client and services.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Nop()
	}

	db, err := storage.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	a := &App{
		config:  c,
		log:     log,
		db:      db,
		session: session.NewStore(db),
		reader:  bufio.NewReader(os.Stdin),
		in:      os.Stdin,
		out:     os.Stdout,
	}

	api, err := client.NewHTTPClient(client.Options{
		BaseURL:        c.ServerURL,
		Timeout:        c.RequestTimeout,
		Tokens:         a.session,
		OnUnauthorized: a.onUnauthorized,
		Logger:         log.With("component", "api"),
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Debug(ctx, "api client configured", "base_url", api.BaseURL(), "timeout", c.RequestTimeout)

	a.wire(api)
	return a, nil
}

func (a *App) wire(api client.Client) {
	a.api = api
	a.authService = services.NewAuthService(api, a.session)
	a.calcService = services.NewCalculatorService(api)
	a.historyService = services.NewHistoryService(api, a.config.PageSize)
}

// onUnauthorized runs inside the HTTP transport when the server rejects the
// stored token.
func (a *App) onUnauthorized(ctx context.Context) {
	a.expired.Store(true)
	if err := a.authService.HandleUnauthorized(ctx); err != nil {
		a.log.Error(ctx, "failed to clear session", "error", err)
	}
}

func (a *App) Close() error {
	return a.db.Close()
}

// Run restores a persisted session, starts the connectivity watcher and
// blocks in the REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.Close(); err != nil {
			a.log.Error(ctx, "failed to close database", "error", err)
		}
	}()

	printlnFn("smartcalc (type 'help' for commands)")
	a.restoreSession(ctx)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) restoreSession(ctx context.Context) {
	err := a.authService.CheckAuth(ctx)
	switch {
	case err == nil:
		st := a.authService.State()
		printlnFn(okText(fmt.Sprintf("Welcome back, %s", st.User.Username)))
	case errors.Is(err, common.ErrNotLoggedIn):
	case errors.Is(err, common.ErrTokenExpired):
		printlnFn(errText(msgSessionExpired))
	case errors.Is(err, common.ErrCorruptedUser):
		a.log.Warn(ctx, "stored session discarded", "error", err)
	default:
		a.log.Error(ctx, "failed to restore session", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.authService.State().IsAuthenticated
}

func (a *App) useAI() bool {
	return a.calcService.State().UseAI
}

func (a *App) currentMode() Mode {
	m, _ := a.mode.Load().(Mode)
	return m
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	if old := a.currentMode(); old != mode {
		a.mode.Store(mode)
		a.log.Info(ctx, "connectivity changed", "mode", string(mode))
	}
}

// StartOnlineStatusWatcher pings the server every interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

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
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.api.Ping(pctx)
	cancel()

	if err != nil {
		if ctx.Err() != nil {
			return
		}
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// getStatus renders the prompt status, e.g. "(alice ai online)".
func (a *App) getStatus() string {
	s := ""
	if st := a.authService.State(); st.User != nil {
		s = st.User.Username + " "
	}
	if a.useAI() {
		s += "ai "
	}
	switch a.currentMode() {
	case ModeOnline:
		s += onlineText(string(ModeOnline))
	case ModeOffline:
		s += offlineText(string(ModeOffline))
	}
	if s == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", s)
}
