package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"qsim/internal/console"
)

var (
	programStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(console.ColorPurple).
			Padding(0, 1)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(console.ColorBlue).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(console.ColorGreen).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(console.ColorOrange)

	cursorStyle = lipgloss.NewStyle().
			Foreground(console.ColorOrange).
			Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(console.ColorDim)

	pendingStyle = lipgloss.NewStyle().
			Foreground(console.ColorText)

	errorStyle = lipgloss.NewStyle().
			Foreground(console.ColorRed)

	outcomeStyle = lipgloss.NewStyle().
			Foreground(console.ColorYellow)

	barStyle = lipgloss.NewStyle().
			Foreground(console.ColorTeal)
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(console.ColorDim).
		BorderBottom(true).
		Bold(true).
		Foreground(console.ColorCyan)
	s.Selected = s.Selected.
		Foreground(console.ColorOrange).
		Bold(true)
	return s
}
