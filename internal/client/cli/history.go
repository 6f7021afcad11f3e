package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/smartcalc/internal/client/services"
	"github.com/dmitrijs2005/smartcalc/internal/client/tui"
)

var errUsage = errors.New("usage")

// History prints one page. args are the optional page number and page size.
func (a *App) History(ctx context.Context, args []string) error {
	st := a.historyService.State()
	page, size := st.Page, st.PageSize

	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			printlnFn("Usage: history [page] [size]")
			return errUsage
		}
		page = n
	}
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			printlnFn("Usage: history [page] [size]")
			return errUsage
		}
		size = n
	}

	if err := a.historyService.SetPage(ctx, page, size); err != nil {
		return a.report(err, a.historyService.State().Error)
	}
	a.printHistoryPage()
	return nil
}

func (a *App) printHistoryPage() {
	st := a.historyService.State()
	if st.Data == nil || len(st.Data.Items) == 0 {
		printlnFn(mutedText("no calculations yet"))
		return
	}
	for _, it := range st.Data.Items {
		printlnFn(formatHistoryRow(it))
	}
	pages := st.Data.TotalPages
	if pages < 1 {
		pages = 1
	}
	printlnFn(mutedText(fmt.Sprintf("page %d/%d · total %d", st.Page, pages, st.Data.Total)))
}

// Browse opens the full-screen history browser.
func (a *App) Browse(ctx context.Context) error {
	b := tui.NewHistoryBrowser(ctx, a.historyService)
	if err := runProgram(ctx, b, a.in, a.out); err != nil {
		return a.report(err, "")
	}
	if b.Unauthorized() && a.expired.Swap(false) {
		printlnFn(errText(msgSessionExpired))
		return nil
	}
	if msg := a.historyService.State().Error; msg != "" {
		printlnFn(errText("Error: " + msg))
	}
	return nil
}

// Delete removes one history record after confirmation. Ids that are not
// UUIDs are rejected without asking.
func (a *App) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		printlnFn(errText(fmt.Sprintf("Error: invalid calculation id %q", id)))
		return err
	}
	ok, err := confirm(a.reader, fmt.Sprintf("Delete record %s?", id), a.out)
	if err != nil {
		return err
	}
	if !ok {
		printlnFn("cancelled")
		return nil
	}
	if err := a.historyService.Delete(ctx, id); err != nil {
		if errors.Is(err, services.ErrRefreshFailed) {
			printlnFn(okText("deleted"))
			return a.reportRefresh(err)
		}
		return a.report(err, a.historyService.State().Error)
	}
	printlnFn(okText("deleted"))
	return nil
}

// ClearHistory deletes every record after confirmation.
func (a *App) ClearHistory(ctx context.Context) error {
	ok, err := confirm(a.reader, "Delete ALL history?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		printlnFn("cancelled")
		return nil
	}
	n, err := a.historyService.ClearAll(ctx)
	if err != nil && !errors.Is(err, services.ErrRefreshFailed) {
		return a.report(err, a.historyService.State().Error)
	}
	printlnFn(okText(fmt.Sprintf("deleted %d records", n)))
	if err != nil {
		return a.reportRefresh(err)
	}
	return nil
}

// reportRefresh notes that the list could not be reloaded after a change
// that the server already applied.
func (a *App) reportRefresh(err error) error {
	return a.report(err, "could not reload history: "+a.historyService.State().Error)
}

// Stats prints natural-language usage totals.
func (a *App) Stats(ctx context.Context) error {
	s, err := a.historyService.Stats(ctx)
	if err != nil {
		return a.report(err, a.historyService.State().Error)
	}
	printlnFn(fmt.Sprintf("AI queries: %d, tokens used: %d", s.TotalQueries, s.TotalTokens))
	return nil
}
