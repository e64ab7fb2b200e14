package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Step    key.Binding
	RunAll  key.Binding
	Restart key.Binding
	Shots   key.Binding
	Focus   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Step: key.NewBinding(
			key.WithKeys("n", "right"),
			key.WithHelp("n/→", "step"),
		),
		RunAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "run all"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Shots: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sample shots"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "edit QASM"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Step, k.RunAll, k.Restart, k.Shots, k.Focus, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Step, k.RunAll, k.Restart},
		{k.Shots, k.Focus},
		{k.Help, k.Quit},
	}
}
