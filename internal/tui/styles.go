package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/addrbook/internal/config"
)

// minColumnWidth is the narrowest a result table column may get.
const minColumnWidth = 10

// dim is the color for unfocused borders and muted text.
var dim = lipgloss.AdaptiveColor{Light: "240", Dark: "240"}

// Styles groups the lipgloss styles used by the form.
type Styles struct {
	Title         lipgloss.Style
	Input         lipgloss.Style
	InputFocused  lipgloss.Style
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	Message       lipgloss.Style
	Table         table.Styles
	TableFrame    lipgloss.Style
	TableFocused  lipgloss.Style
}

// NewStyles builds the form styles from a theme.
func NewStyles(theme config.Theme) Styles {
	accent := lipgloss.Color(theme.Accent)
	button := lipgloss.Color(theme.Button)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dim).
		BorderBottom(true).
		Bold(true)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color("230")).
		Background(accent).
		Bold(false)

	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: theme.Title, Dark: "15"}).
			MarginBottom(1),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dim).
			Padding(0, 1),
		InputFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		Button: lipgloss.NewStyle().
			Foreground(button).
			Padding(0, 2),
		ButtonFocused: lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(button).
			Bold(true).
			Padding(0, 2),
		Message: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Message)).
			MarginTop(1),
		Table: ts,
		TableFrame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dim),
		TableFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent),
	}
}

// ColumnWidths splits the usable width evenly across the three result
// columns, never going below minColumnWidth.
func ColumnWidths(totalWidth int) (name, phone, email int) {
	// Two border cells plus one padding cell on each side of every column.
	usable := totalWidth - 2 - 6
	w := usable / 3
	if w < minColumnWidth {
		w = minColumnWidth
	}
	email = usable - 2*w
	if email < minColumnWidth {
		email = minColumnWidth
	}
	return w, w, email
}
