package tui

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/smartcalc/internal/client/client"
	"github.com/dmitrijs2005/smartcalc/internal/client/models"
	"github.com/dmitrijs2005/smartcalc/internal/client/services"
)

// fakeHistory is a services.HistoryService over an in-memory list.
type fakeHistory struct {
	ids      []string
	state    services.HistoryState
	fetchErr error
	deleted  []string
}

var _ services.HistoryService = (*fakeHistory)(nil)

func newFakeHistory(n, size int) *fakeHistory {
	f := &fakeHistory{state: services.HistoryState{Page: 1, PageSize: size}}
	for i := 0; i < n; i++ {
		f.ids = append(f.ids, fmt.Sprintf("id-%02d", i))
	}
	return f
}

func (f *fakeHistory) State() services.HistoryState { return f.state }

func (f *fakeHistory) Fetch(context.Context) error {
	if f.fetchErr != nil {
		f.state.Error = client.DetailOf(f.fetchErr)
		return f.fetchErr
	}
	size, page := f.state.PageSize, f.state.Page
	total := len(f.ids)
	data := &models.HistoryPage{Total: total, Page: page, PageSize: size, TotalPages: (total + size - 1) / size}
	for i := (page - 1) * size; i < total && i < page*size; i++ {
		data.Items = append(data.Items, models.HistoryItem{
			ID: f.ids[i], Expression: f.ids[i] + "+1", CalculationType: models.CalculationBasic,
		})
	}
	f.state.Data = data
	f.state.Error = ""
	return nil
}

func (f *fakeHistory) SetPage(ctx context.Context, page, size int) error {
	if size == 0 {
		size = f.state.PageSize
	}
	f.state.Page, f.state.PageSize = client.ClampPage(page, size)
	return f.Fetch(ctx)
}

func (f *fakeHistory) NextPage(ctx context.Context) error {
	return f.SetPage(ctx, f.state.Page+1, 0)
}

func (f *fakeHistory) PrevPage(ctx context.Context) error {
	return f.SetPage(ctx, f.state.Page-1, 0)
}

func (f *fakeHistory) Delete(ctx context.Context, id string) error {
	for i, v := range f.ids {
		if v == id {
			f.ids = append(f.ids[:i], f.ids[i+1:]...)
			f.deleted = append(f.deleted, id)
			return f.Fetch(ctx)
		}
	}
	return &client.APIError{StatusCode: http.StatusNotFound, Detail: "Calculation not found"}
}

func (f *fakeHistory) ClearAll(ctx context.Context) (int, error) {
	n := len(f.ids)
	f.ids = nil
	f.state.Page = 1
	return n, f.Fetch(ctx)
}

func (f *fakeHistory) Stats(context.Context) (*models.AIUsageStats, error) {
	return &models.AIUsageStats{}, nil
}

func (f *fakeHistory) ClearError() { f.state.Error = "" }

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// drive runs cmd synchronously and feeds its message back into the model,
// the way the bubbletea runtime would. It reports whether tea.Quit fired.
func drive(t *testing.T, b *HistoryBrowser, cmd tea.Cmd) bool {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if _, ok := msg.(tea.QuitMsg); ok {
			return true
		}
		_, cmd = b.Update(msg)
	}
	return false
}

func press(t *testing.T, b *HistoryBrowser, keys ...string) bool {
	t.Helper()
	quit := false
	for _, k := range keys {
		_, cmd := b.Update(keyMsg(k))
		quit = drive(t, b, cmd) || quit
	}
	return quit
}

func start(t *testing.T, svc services.HistoryService) *HistoryBrowser {
	t.Helper()
	b := NewHistoryBrowser(context.Background(), svc)
	drive(t, b, b.Init())
	return b
}

func TestBrowser_InitialLoadAndView(t *testing.T) {
	svc := newFakeHistory(12, 5)
	b := start(t, svc)

	view := b.View()
	assert.Contains(t, view, "total 12")
	assert.Contains(t, view, "page 1/3")
	assert.Contains(t, view, "id-00+1")
	assert.NotContains(t, view, "id-05+1")
}

func TestBrowser_CursorMovement(t *testing.T) {
	svc := newFakeHistory(3, 5)
	b := start(t, svc)

	press(t, b, "up")
	assert.Equal(t, 0, b.cursor)
	press(t, b, "down", "down", "down", "down")
	assert.Equal(t, 2, b.cursor)
	press(t, b, "k")
	assert.Equal(t, 1, b.cursor)
}

func TestBrowser_Paging(t *testing.T) {
	svc := newFakeHistory(12, 5)
	b := start(t, svc)

	press(t, b, "right")
	assert.Equal(t, 2, svc.state.Page)
	press(t, b, "n", "n")
	assert.Equal(t, 3, svc.state.Page, "stops on the last page")
	press(t, b, "left", "p", "p")
	assert.Equal(t, 1, svc.state.Page, "stops on the first page")
}

func TestBrowser_PageSize(t *testing.T) {
	svc := newFakeHistory(30, 10)
	b := start(t, svc)
	press(t, b, "n")

	press(t, b, "+")
	assert.Equal(t, 20, svc.state.PageSize)
	assert.Equal(t, 1, svc.state.Page, "changing size restarts at page 1")
	press(t, b, "+", "+", "+")
	assert.Equal(t, 100, svc.state.PageSize)
	press(t, b, "-", "-", "-", "-", "-")
	assert.Equal(t, 5, svc.state.PageSize)
}

func TestNextPageSize(t *testing.T) {
	assert.Equal(t, 20, nextPageSize(10, 1))
	assert.Equal(t, 5, nextPageSize(10, -1))
	assert.Equal(t, 100, nextPageSize(100, 1))
	assert.Equal(t, 5, nextPageSize(5, -1))
	assert.Equal(t, 10, nextPageSize(7, 1))
	assert.Equal(t, 5, nextPageSize(7, -1))
}

func TestBrowser_DeleteWithConfirmation(t *testing.T) {
	svc := newFakeHistory(3, 5)
	b := start(t, svc)

	press(t, b, "down", "d")
	assert.Contains(t, b.View(), "(y/n)")
	press(t, b, "n")
	assert.Empty(t, svc.deleted)
	assert.Contains(t, b.View(), "cancelled")

	press(t, b, "d", "y")
	assert.Equal(t, []string{"id-01"}, svc.deleted)
	assert.Contains(t, b.View(), "deleted id-01+1")
	assert.Len(t, svc.state.Data.Items, 2)
}

func TestBrowser_ClearAll(t *testing.T) {
	svc := newFakeHistory(7, 5)
	b := start(t, svc)

	press(t, b, "c", "y")
	assert.Empty(t, svc.ids)
	view := b.View()
	assert.Contains(t, view, "deleted 7 records")
	assert.Contains(t, view, "no calculations yet")

	press(t, b, "c")
	assert.Equal(t, confirmNone, b.confirm, "nothing to clear")
}

func TestBrowser_ErrorShown(t *testing.T) {
	svc := newFakeHistory(3, 5)
	b := start(t, svc)

	svc.fetchErr = &client.APIError{StatusCode: http.StatusInternalServerError, Detail: "database is down"}
	quit := press(t, b, "r")
	assert.False(t, quit)
	assert.Contains(t, b.View(), "database is down")
}

func TestBrowser_UnauthorizedQuits(t *testing.T) {
	svc := newFakeHistory(3, 5)
	svc.fetchErr = &client.APIError{StatusCode: http.StatusUnauthorized, Detail: "Could not validate credentials"}

	b := NewHistoryBrowser(context.Background(), svc)
	quit := drive(t, b, b.Init())
	require.True(t, quit)
	assert.True(t, b.Unauthorized())
}

func TestBrowser_ForbiddenStaysOpenWithDetail(t *testing.T) {
	svc := newFakeHistory(3, 5)
	svc.fetchErr = &client.APIError{StatusCode: http.StatusForbidden, Detail: "account disabled"}

	b := NewHistoryBrowser(context.Background(), svc)
	quit := drive(t, b, b.Init())
	assert.False(t, quit)
	assert.False(t, b.Unauthorized())
	assert.Contains(t, b.View(), "account disabled")

	assert.True(t, press(t, b, "q"))
}

func TestBrowser_FooterListsBindings(t *testing.T) {
	b := start(t, newFakeHistory(1, 5))

	view := b.View()
	for _, h := range b.keys.footerBindings() {
		assert.Contains(t, view, h.Help().Desc)
	}
	assert.NotContains(t, view, "confirm")
}

func TestBrowser_AlternateSizeKeys(t *testing.T) {
	svc := newFakeHistory(30, 10)
	b := start(t, svc)

	press(t, b, "=")
	assert.Equal(t, 20, svc.state.PageSize)
	press(t, b, "_", "_")
	assert.Equal(t, 5, svc.state.PageSize)
}

func TestBrowser_Quit(t *testing.T) {
	for _, k := range []string{"q", "esc", "ctrl+c"} {
		b := start(t, newFakeHistory(1, 5))
		assert.True(t, press(t, b, k), k)
		assert.Empty(t, strings.TrimSpace(b.View()))
	}
}
