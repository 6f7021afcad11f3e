// Package tui implements the full-screen history browser and the styles
// shared with the line-oriented CLI.
package tui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dmitrijs2005/smartcalc/internal/client/client"
	"github.com/dmitrijs2005/smartcalc/internal/client/services"
)

// PageSizes are the sizes cycled through with + and -.
var PageSizes = []int{5, 10, 20, 50, 100}

type confirmAction int

const (
	confirmNone confirmAction = iota
	confirmDelete
	confirmClear
)

type loadedMsg struct{ err error }

type actionMsg struct {
	status string
	err    error
}

// HistoryBrowser is a bubbletea model paging through the calculation
// history held by a services.HistoryService.
type HistoryBrowser struct {
	ctx  context.Context
	svc  services.HistoryService
	keys keyMap

	cursor       int
	confirm      confirmAction
	status       string
	busy         bool
	unauthorized bool
	quitting     bool
}

func NewHistoryBrowser(ctx context.Context, svc services.HistoryService) *HistoryBrowser {
	return &HistoryBrowser{ctx: ctx, svc: svc, keys: newKeyMap()}
}

// Unauthorized reports whether the browser closed because the server
// rejected the session token (401). Other errors, 403 included, stay on
// screen.
func (b *HistoryBrowser) Unauthorized() bool { return b.unauthorized }

func (b *HistoryBrowser) Init() tea.Cmd {
	b.busy = true
	return b.fetch(func(ctx context.Context) error { return b.svc.Fetch(ctx) })
}

func (b *HistoryBrowser) fetch(fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: fn(b.ctx)}
	}
}

func (b *HistoryBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case loadedMsg:
		b.busy = false
		b.clampCursor()
		return b, b.checkErr(m.err)
	case actionMsg:
		b.busy = false
		b.clampCursor()
		cmd := b.checkErr(m.err)
		if m.err == nil || errors.Is(m.err, services.ErrRefreshFailed) {
			b.status = m.status
		}
		return b, cmd
	case tea.KeyMsg:
		return b.handleKey(m)
	}
	return b, nil
}

func (b *HistoryBrowser) checkErr(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		b.unauthorized = true
		b.quitting = true
		return tea.Quit
	}
	b.status = ""
	return nil
}

func (b *HistoryBrowser) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(k, b.keys.ForceQuit) {
		b.quitting = true
		return b, tea.Quit
	}

	if b.confirm != confirmNone {
		action := b.confirm
		b.confirm = confirmNone
		if !key.Matches(k, b.keys.Confirm) {
			b.status = "cancelled"
			return b, nil
		}
		return b, b.runConfirmed(action)
	}

	if b.busy {
		return b, nil
	}

	st := b.svc.State()
	switch {
	case key.Matches(k, b.keys.Quit):
		b.quitting = true
		return b, tea.Quit
	case key.Matches(k, b.keys.Up):
		if b.cursor > 0 {
			b.cursor--
		}
	case key.Matches(k, b.keys.Down):
		if b.cursor < b.rows()-1 {
			b.cursor++
		}
	case key.Matches(k, b.keys.NextPage):
		if st.Data.HasNext() {
			return b, b.load(func(ctx context.Context) error { return b.svc.NextPage(ctx) })
		}
	case key.Matches(k, b.keys.PrevPage):
		if st.Data.HasPrev() {
			return b, b.load(func(ctx context.Context) error { return b.svc.PrevPage(ctx) })
		}
	case key.Matches(k, b.keys.Grow):
		if size := nextPageSize(st.PageSize, 1); size != st.PageSize {
			return b, b.load(func(ctx context.Context) error { return b.svc.SetPage(ctx, 1, size) })
		}
	case key.Matches(k, b.keys.Shrink):
		if size := nextPageSize(st.PageSize, -1); size != st.PageSize {
			return b, b.load(func(ctx context.Context) error { return b.svc.SetPage(ctx, 1, size) })
		}
	case key.Matches(k, b.keys.Refresh):
		return b, b.load(func(ctx context.Context) error { return b.svc.Fetch(ctx) })
	case key.Matches(k, b.keys.Delete):
		if b.rows() > 0 {
			b.confirm = confirmDelete
		}
	case key.Matches(k, b.keys.Clear):
		if st.Data != nil && st.Data.Total > 0 {
			b.confirm = confirmClear
		}
	}
	return b, nil
}

func (b *HistoryBrowser) load(fn func(context.Context) error) tea.Cmd {
	b.busy = true
	b.status = ""
	b.cursor = 0
	return b.fetch(fn)
}

func (b *HistoryBrowser) runConfirmed(action confirmAction) tea.Cmd {
	st := b.svc.State()
	switch action {
	case confirmDelete:
		if st.Data == nil || b.cursor >= len(st.Data.Items) {
			return nil
		}
		item := st.Data.Items[b.cursor]
		b.busy = true
		return func() tea.Msg {
			err := b.svc.Delete(b.ctx, item.ID)
			return actionMsg{status: fmt.Sprintf("deleted %s", item.Expression), err: err}
		}
	case confirmClear:
		b.busy = true
		b.cursor = 0
		return func() tea.Msg {
			n, err := b.svc.ClearAll(b.ctx)
			return actionMsg{status: fmt.Sprintf("deleted %d records", n), err: err}
		}
	}
	return nil
}

func (b *HistoryBrowser) rows() int {
	st := b.svc.State()
	if st.Data == nil {
		return 0
	}
	return len(st.Data.Items)
}

func (b *HistoryBrowser) clampCursor() {
	n := b.rows()
	if b.cursor >= n {
		b.cursor = n - 1
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
}

// nextPageSize steps through PageSizes from the current size in direction
// dir (+1 larger, -1 smaller). Sizes outside the list snap to the nearest
// step in that direction.
func nextPageSize(current, dir int) int {
	if dir > 0 {
		for _, s := range PageSizes {
			if s > current {
				return s
			}
		}
		return current
	}
	for i := len(PageSizes) - 1; i >= 0; i-- {
		if PageSizes[i] < current {
			return PageSizes[i]
		}
	}
	return current
}

func (b *HistoryBrowser) View() string {
	if b.quitting {
		return ""
	}
	st := b.svc.State()

	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("Calculation history"))
	sb.WriteString("\n")

	if st.Data != nil {
		pages := st.Data.TotalPages
		if pages < 1 {
			pages = 1
		}
		sb.WriteString(MutedStyle.Render(fmt.Sprintf("total %d · page %d/%d · %d per page",
			st.Data.Total, st.Page, pages, st.PageSize)))
	}
	sb.WriteString("\n\n")

	switch {
	case st.Data == nil && b.busy:
		sb.WriteString(MutedStyle.Render("loading..."))
		sb.WriteString("\n")
	case st.Data == nil || len(st.Data.Items) == 0:
		sb.WriteString(MutedStyle.Render("no calculations yet"))
		sb.WriteString("\n")
	default:
		for i, it := range st.Data.Items {
			line := fmt.Sprintf("%s  %s %s = %s",
				it.CreatedAt.Local().Format("2006-01-02 15:04"),
				TypeTag(it.CalculationType),
				it.Expression,
				it.ResultText())
			if i == b.cursor {
				line = selectedStyle.Render("> " + line)
			} else {
				line = "  " + line
			}
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	switch {
	case b.confirm == confirmDelete:
		sb.WriteString(confirmStyle.Render("delete the selected record? (y/n)"))
		sb.WriteString("\n")
	case b.confirm == confirmClear:
		sb.WriteString(confirmStyle.Render("delete ALL history? (y/n)"))
		sb.WriteString("\n")
	default:
		if b.status != "" {
			sb.WriteString(SuccessStyle.Render(b.status))
			sb.WriteString("\n")
		}
		if st.Error != "" {
			sb.WriteString(ErrorStyle.Render(st.Error))
			sb.WriteString("\n")
		}
	}

	sb.WriteString(renderFooter(b.keys.footerBindings()))
	return sb.String()
}
