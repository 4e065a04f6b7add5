package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the widget popup.
type Theme struct {
	Title    lipgloss.Style
	Row      RowTheme
	Stat     lipgloss.Style
	Grid     lipgloss.Style
	Empty    lipgloss.Style
	Feedback lipgloss.Style
	Footer   FooterTheme
}

// RowTheme styles item rows.
type RowTheme struct {
	Normal   lipgloss.Style
	Selected lipgloss.Style
	Done     lipgloss.Style
	Detail   lipgloss.Style
	Match    lipgloss.Style
}

// FooterTheme groups styles used by the bottom status/help line.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Key    lipgloss.Style
}

// Default returns the built-in theme.
func Default() Theme {
	selected := lipgloss.NewStyle().
		Foreground(lipgloss.Color("212")).
		Bold(true)

	return Theme{
		Title:    lipgloss.NewStyle().Bold(true).Underline(true),
		Stat:     lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		Grid:     lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		Empty:    lipgloss.NewStyle().Faint(true).Italic(true),
		Feedback: lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		Row: RowTheme{
			Normal:   lipgloss.NewStyle(),
			Selected: selected,
			Done:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true),
			Detail:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Match:    lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Reverse(true),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Key:    lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		},
	}
}
