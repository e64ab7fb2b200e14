package console

import "github.com/charmbracelet/lipgloss"

// Palette shared with the interactive stepper.
const (
	ColorBlue   = lipgloss.Color("#7aa2f7")
	ColorPurple = lipgloss.Color("#bb9af7")
	ColorGreen  = lipgloss.Color("#9ece6a")
	ColorOrange = lipgloss.Color("#ff9e64")
	ColorYellow = lipgloss.Color("#e0af68")
	ColorTeal   = lipgloss.Color("#73daca")
	ColorCyan   = lipgloss.Color("#7dcfff")
	ColorRed    = lipgloss.Color("#f7768e")
	ColorDim    = lipgloss.Color("#565f89")
	ColorText   = lipgloss.Color("#c0caf5")
)

// Styles is the set of lipgloss styles used by Printer, bound to one
// renderer so colour detection follows the destination writer.
type Styles struct {
	Banner lipgloss.Style
	Tag    lipgloss.Style
	Info   lipgloss.Style
	Path   lipgloss.Style
	Ket    lipgloss.Style
	Value  lipgloss.Style
	Good   lipgloss.Style
	Warn   lipgloss.Style
	Error  lipgloss.Style
	Dim    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Banner: r.NewStyle().
			Bold(true).
			Foreground(ColorBlue).
			Border(lipgloss.DoubleBorder(), true, false).
			BorderForeground(ColorBlue).
			Padding(0, 4),
		Tag:   r.NewStyle().Bold(true).Foreground(ColorBlue),
		Info:  r.NewStyle().Foreground(ColorText),
		Path:  r.NewStyle().Bold(true).Foreground(ColorYellow),
		Ket:   r.NewStyle().Foreground(ColorCyan),
		Value: r.NewStyle().Foreground(ColorTeal),
		Good:  r.NewStyle().Bold(true).Foreground(ColorGreen),
		Warn:  r.NewStyle().Bold(true).Foreground(ColorOrange),
		Error: r.NewStyle().Bold(true).Foreground(ColorRed),
		Dim:   r.NewStyle().Foreground(ColorDim),
	}
}
