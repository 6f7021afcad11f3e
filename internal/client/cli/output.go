package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/smartcalc/internal/client/client"
	"github.com/dmitrijs2005/smartcalc/internal/client/models"
	"github.com/dmitrijs2005/smartcalc/internal/client/tui"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

func errText(s string) string     { return tui.ErrorStyle.Render(s) }
func okText(s string) string      { return tui.SuccessStyle.Render(s) }
func mutedText(s string) string   { return tui.MutedStyle.Render(s) }
func onlineText(s string) string  { return tui.OnlineStyle.Render(s) }
func offlineText(s string) string { return tui.OfflineStyle.Render(s) }
func tuiResult(s string) string   { return tui.ResultStyle.Render(s) }
func promptText(s string) string  { return tui.PromptStyle.Render(s) }

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// report prints the outcome of a failed command. A 401 that expired the
// session gets the fixed re-login message; otherwise stateMsg (the
// container's error) is preferred over the raw error text.
func (a *App) report(err error, stateMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, client.ErrUnauthorized) && a.expired.Swap(false) {
		printlnFn(errText(msgSessionExpired))
		return err
	}
	msg := stateMsg
	if msg == "" {
		msg = err.Error()
	}
	printlnFn(errText("Error: " + msg))
	return err
}

func formatHistoryRow(it models.HistoryItem) string {
	return fmt.Sprintf("%s  %s %s  %s = %s",
		it.CreatedAt.Local().Format("2006-01-02 15:04"),
		tui.TypeTag(it.CalculationType),
		mutedText(it.ID),
		it.Expression,
		it.ResultText())
}

func formatUser(u models.User) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s <%s>", u.Username, u.Email)
	if u.IsPremium {
		sb.WriteString(" [premium]")
	}
	if !u.IsActive {
		sb.WriteString(" [inactive]")
	}
	if !u.CreatedAt.IsZero() {
		fmt.Fprintf(&sb, "\nmember since %s", u.CreatedAt.Local().Format("2006-01-02"))
	}
	return sb.String()
}
