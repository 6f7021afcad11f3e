package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/smartcalc/internal/client/client"
	"github.com/dmitrijs2005/smartcalc/internal/client/models"
)

const (
	DefaultPageSize = 10

	msgHistoryFailed = "failed to load history"
	msgDeleteFailed  = "failed to delete record"
	msgClearFailed   = "failed to clear history"
	msgStatsFailed   = "failed to load statistics"
)

// ErrRefreshFailed is returned by Delete and ClearAll when the change was
// applied on the server but reloading the page afterwards failed. The
// wrapped error is the reload failure.
var ErrRefreshFailed = errors.New("history changed but could not be reloaded")

type HistoryState struct {
	Page      int
	PageSize  int
	Data      *models.HistoryPage
	IsLoading bool
	Error     string
}

type HistoryService interface {
	State() HistoryState
	Fetch(ctx context.Context) error
	SetPage(ctx context.Context, page, pageSize int) error
	NextPage(ctx context.Context) error
	PrevPage(ctx context.Context) error
	Delete(ctx context.Context, id string) error
	ClearAll(ctx context.Context) (int, error)
	Stats(ctx context.Context) (*models.AIUsageStats, error)
	ClearError()
}

type historyService struct {
	client client.Client

	mu    sync.Mutex
	state HistoryState
}

// NewHistoryService starts on page 1. pageSize outside [1, 100] falls back
// to DefaultPageSize.
func NewHistoryService(c client.Client, pageSize int) HistoryService {
	if pageSize < client.MinPageSize || pageSize > client.MaxPageSize {
		pageSize = DefaultPageSize
	}
	return &historyService{
		client: c,
		state:  HistoryState{Page: 1, PageSize: pageSize},
	}
}

func (h *historyService) State() HistoryState {
	h.mu.Lock()
	defer h.mu.Unlock()
	st := h.state
	if st.Data != nil {
		d := *st.Data
		d.Items = append([]models.HistoryItem(nil), st.Data.Items...)
		st.Data = &d
	}
	return st
}

func (h *historyService) update(fn func(*HistoryState)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(&h.state)
}

func (h *historyService) begin() (page, size int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state.IsLoading = true
	h.state.Error = ""
	return h.state.Page, h.state.PageSize
}

func (h *historyService) fail(err error, fallback string) {
	h.update(func(s *HistoryState) {
		s.IsLoading = false
		s.Error = errorMessage(err, fallback)
	})
}

// Fetch loads the current page.
func (h *historyService) Fetch(ctx context.Context) error {
	page, size := h.begin()

	data, err := h.client.History(ctx, page, size)
	if err != nil {
		h.fail(err, msgHistoryFailed)
		return fmt.Errorf("fetch history: %w", err)
	}

	h.update(func(s *HistoryState) {
		s.Data = data
		s.IsLoading = false
	})
	return nil
}

// SetPage moves to page with pageSize (both clamped) and fetches it. A
// pageSize of 0 keeps the current size.
func (h *historyService) SetPage(ctx context.Context, page, pageSize int) error {
	h.update(func(s *HistoryState) {
		if pageSize == 0 {
			pageSize = s.PageSize
		}
		s.Page, s.PageSize = client.ClampPage(page, pageSize)
	})
	return h.Fetch(ctx)
}

// NextPage is a no-op when the loaded page is the last one.
func (h *historyService) NextPage(ctx context.Context) error {
	st := h.State()
	if st.Data != nil && !st.Data.HasNext() {
		return nil
	}
	return h.SetPage(ctx, st.Page+1, st.PageSize)
}

// PrevPage is a no-op on the first page.
func (h *historyService) PrevPage(ctx context.Context) error {
	st := h.State()
	if st.Page <= 1 {
		return nil
	}
	return h.SetPage(ctx, st.Page-1, st.PageSize)
}

// Delete removes one record and reloads. When it was the only row of the
// last page the view steps back one page.
func (h *historyService) Delete(ctx context.Context, id string) error {
	h.begin()

	if err := h.client.DeleteHistory(ctx, id); err != nil {
		h.fail(err, msgDeleteFailed)
		return fmt.Errorf("delete history: %w", err)
	}
	h.update(func(s *HistoryState) {
		s.IsLoading = false
		if s.Page > 1 && s.Data != nil && len(s.Data.Items) == 1 && !s.Data.HasNext() {
			s.Page--
		}
	})
	return h.refresh(ctx)
}

// ClearAll deletes every record, returns the server's count and reloads
// from page 1.
func (h *historyService) ClearAll(ctx context.Context) (int, error) {
	h.begin()

	resp, err := h.client.ClearHistory(ctx)
	if err != nil {
		h.fail(err, msgClearFailed)
		return 0, fmt.Errorf("clear history: %w", err)
	}
	h.update(func(s *HistoryState) {
		s.IsLoading = false
		s.Page = 1
	})
	return resp.DeletedCount, h.refresh(ctx)
}

func (h *historyService) refresh(ctx context.Context) error {
	if err := h.Fetch(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	return nil
}

func (h *historyService) Stats(ctx context.Context) (*models.AIUsageStats, error) {
	h.begin()

	stats, err := h.client.AIUsageStats(ctx)
	if err != nil {
		h.fail(err, msgStatsFailed)
		return nil, fmt.Errorf("ai usage stats: %w", err)
	}
	h.update(func(s *HistoryState) { s.IsLoading = false })
	return stats, nil
}

func (h *historyService) ClearError() {
	h.update(func(s *HistoryState) { s.Error = "" })
}
