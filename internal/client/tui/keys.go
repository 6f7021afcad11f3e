package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextPage  key.Binding
	PrevPage  key.Binding
	Grow      key.Binding
	Shrink    key.Binding
	Refresh   key.Binding
	Delete    key.Binding
	Clear     key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
	Confirm   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NextPage:  key.NewBinding(key.WithKeys("right", "n"), key.WithHelp("→/n", "next")),
		PrevPage:  key.NewBinding(key.WithKeys("left", "p"), key.WithHelp("←/p", "prev")),
		Grow:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "bigger page")),
		Shrink:    key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "smaller page")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Delete:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear all")),
		Quit:      key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
		Confirm:   key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
	}
}

func (k keyMap) footerBindings() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.PrevPage, k.NextPage, k.Grow, k.Shrink,
		k.Refresh, k.Delete, k.Clear, k.Quit,
	}
}

func renderFooter(bindings []key.Binding) string {
	space := lipgloss.NewStyle().Background(footerBg).Render(" ")
	sep := lipgloss.NewStyle().Background(footerBg).Render("  ")

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" && h.Desc == "" {
			continue
		}
		parts = append(parts, helpKeyStyle.Render(h.Key)+space+helpDescStyle.Render(h.Desc))
	}
	return footerStyle.Render(strings.Join(parts, sep))
}
