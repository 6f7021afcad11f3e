package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dmitrijs2005/smartcalc/internal/client/models"
)

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true)
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	ResultStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	PromptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	OnlineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	OfflineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	footerBg = lipgloss.Color("238")

	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(footerBg).Padding(0, 2)
	helpKeyStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")).Background(footerBg)
	helpDescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(footerBg)
	confirmStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("11")).Padding(0, 1)

	typeColors = map[models.CalculationType]lipgloss.Color{
		models.CalculationBasic:      lipgloss.Color("12"),
		models.CalculationScientific: lipgloss.Color("14"),
		models.CalculationAI:         lipgloss.Color("13"),
	}
)

// TypeTag renders a calculation type as a fixed-width coloured label.
// Types the client does not know are shown uncoloured.
func TypeTag(t models.CalculationType) string {
	style := lipgloss.NewStyle().Width(10)
	if t.Valid() {
		style = style.Foreground(typeColors[t])
	}
	if t == "" {
		t = "-"
	}
	return style.Render(string(t))
}
