package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
const (
	ColorHeader   = lipgloss.Color("39")
	ColorLabel    = lipgloss.Color("245")
	ColorValue    = lipgloss.Color("255")
	ColorIncome   = lipgloss.Color("42")
	ColorExpense  = lipgloss.Color("203")
	ColorWarning  = lipgloss.Color("214")
	ColorCritical = lipgloss.Color("196")
	ColorSubtle   = lipgloss.Color("240")
	ColorAccent   = lipgloss.Color("63")
)

//nolint:gochecknoglobals // Style definitions are read-only after init.
var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorHeader)
	LabelStyle  = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle  = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	InfoStyle   = lipgloss.NewStyle().Foreground(ColorAccent)
	SubtleStyle = lipgloss.NewStyle().Foreground(ColorSubtle)

	IncomeStyle   = lipgloss.NewStyle().Foreground(ColorIncome)
	ExpenseStyle  = lipgloss.NewStyle().Foreground(ColorExpense)
	WarningStyle  = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	CriticalStyle = lipgloss.NewStyle().Foreground(ColorCritical).Bold(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(0, 1)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorHeader).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(ColorSubtle)
	TableSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(ColorAccent).
				Bold(false)

	// Page selector.
	PageActiveStyle   = lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1)
	PageStyle         = lipgloss.NewStyle().Padding(0, 1)
	PageDisabledStyle = lipgloss.NewStyle().Foreground(ColorSubtle).Padding(0, 1)
)

// swatch renders a colored block for a category color such as "#ff6b6b".
func swatch(color string) string {
	if color == "" {
		return " "
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}
