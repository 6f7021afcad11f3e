package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/smartcalc/internal/client/client"
	"github.com/dmitrijs2005/smartcalc/internal/client/models"
	"github.com/dmitrijs2005/smartcalc/internal/client/session"
	"github.com/dmitrijs2005/smartcalc/internal/client/storage"
)

// fakeClient implements client.Client. Unset funcs panic so a test notices
// unexpected calls.
type fakeClient struct {
	mu    sync.Mutex
	calls []string

	RegisterFn     func(models.RegisterRequest) (*models.User, error)
	LoginFn        func(models.LoginRequest) (*models.AuthResponse, error)
	MeFn           func() (*models.User, error)
	CalculateFn    func(string) (*models.CalculateResponse, error)
	ValidateFn     func(string) (*models.ValidateResponse, error)
	AICalculateFn  func(string) (*models.AICalculateResponse, error)
	HistoryFn      func(page, size int) (*models.HistoryPage, error)
	DeleteFn       func(id string) error
	ClearHistoryFn func() (*models.ClearHistoryResponse, error)
	StatsFn        func() (*models.AIUsageStats, error)
	PingErr        error
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) Register(_ context.Context, req models.RegisterRequest) (*models.User, error) {
	f.record("register")
	return f.RegisterFn(req)
}

func (f *fakeClient) Login(_ context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	f.record("login")
	return f.LoginFn(req)
}

func (f *fakeClient) Me(context.Context) (*models.User, error) {
	f.record("me")
	return f.MeFn()
}

func (f *fakeClient) Calculate(_ context.Context, expr string) (*models.CalculateResponse, error) {
	f.record("calculate")
	return f.CalculateFn(expr)
}

func (f *fakeClient) ValidateExpression(_ context.Context, expr string) (*models.ValidateResponse, error) {
	f.record("validate")
	return f.ValidateFn(expr)
}

func (f *fakeClient) AICalculate(_ context.Context, q string) (*models.AICalculateResponse, error) {
	f.record("ai")
	return f.AICalculateFn(q)
}

func (f *fakeClient) History(_ context.Context, page, size int) (*models.HistoryPage, error) {
	f.record("history")
	return f.HistoryFn(page, size)
}

func (f *fakeClient) DeleteHistory(_ context.Context, id string) error {
	f.record("delete")
	return f.DeleteFn(id)
}

func (f *fakeClient) ClearHistory(context.Context) (*models.ClearHistoryResponse, error) {
	f.record("clear")
	return f.ClearHistoryFn()
}

func (f *fakeClient) AIUsageStats(context.Context) (*models.AIUsageStats, error) {
	f.record("stats")
	return f.StatsFn()
}

func (f *fakeClient) Ping(context.Context) error {
	f.record("ping")
	return f.PingErr
}

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func setupSession(t *testing.T) *session.Store {
	t.Helper()
	return session.NewStore(setupDB(t))
}

func apiErr(status int, detail string) error {
	return &client.APIError{StatusCode: status, Detail: detail}
}
