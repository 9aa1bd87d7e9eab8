package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// palette is the colour scheme for terminal output.
type palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
}

func defaultPalette() palette {
	return palette{
		Primary:   lipgloss.Color("#7C3AED"), // Purple
		Secondary: lipgloss.Color("#06B6D4"), // Cyan
		Muted:     lipgloss.Color("#6C7086"), // Medium gray
		Success:   lipgloss.Color("#A6E3A1"), // Green
		Warning:   lipgloss.Color("#F9E2AF"), // Yellow
		Error:     lipgloss.Color("#F38BA8"), // Red
	}
}

// outputStyles are the lipgloss styles used by command output.
// Styling is dropped automatically when stdout is not a terminal.
type outputStyles struct {
	Title   lipgloss.Style
	Heading lipgloss.Style
	Muted   lipgloss.Style
	Score   lipgloss.Style
	Mark    lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
}

func newOutputStyles(p palette) outputStyles {
	return outputStyles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary),

		Heading: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Secondary),

		Muted: lipgloss.NewStyle().
			Foreground(p.Muted),

		Score: lipgloss.NewStyle().
			Foreground(p.Success),

		Mark: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Warning),

		Success: lipgloss.NewStyle().
			Foreground(p.Success),

		Warning: lipgloss.NewStyle().
			Foreground(p.Warning),
	}
}

var styles = newOutputStyles(defaultPalette())

// mark highlights a matched word.
func mark(word string) string {
	return styles.Mark.Render(word)
}
