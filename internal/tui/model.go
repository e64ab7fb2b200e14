// Package tui is an interactive stepper for QASM programs built on
// bubbletea. Each step feeds one source line through the same
// interpreter path the batch runner uses.
package tui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"qsim/internal/qasm"
	"qsim/internal/quantum"
	"qsim/internal/rng"
)

// DefaultShots is used by the sample key when Options.Shots is unset.
const DefaultShots = 1024

// focus represents which panel has keyboard input.
type focus int

const (
	focusProgram focus = iota
	focusEditor
)

// Options configures a Model.
type Options struct {
	Qubits   int
	Shots    int
	Source   rng.Source
	LogLevel log.Level
}

// Model is the stepper state.
type Model struct {
	interp *qasm.Interpreter
	logs   *bytes.Buffer
	qubits int
	shots  int

	editor   textarea.Model
	amps     table.Model
	help     help.Model
	keys     keyMap
	focus    focus
	lastQASM string

	lines  []string
	pc     int // next source line to run
	ran    int
	failed map[int]bool
	hist   quantum.Histogram
	status string

	width  int
	height int
}

// New builds a Model for source. The interpreter logs into the model's
// status panel rather than the terminal.
func New(source string, opts Options) (Model, error) {
	if opts.Qubits == 0 {
		opts.Qubits = qasm.DefaultQubits
	}
	if opts.Shots < 2 {
		opts.Shots = DefaultShots
	}
	if opts.Source == nil {
		opts.Source = rng.New()
	}

	logs := &bytes.Buffer{}
	logger := log.NewWithOptions(logs, log.Options{Level: opts.LogLevel})
	interp, err := qasm.New(
		qasm.WithQubits(opts.Qubits),
		qasm.WithSource(opts.Source),
		qasm.WithLogger(logger),
	)
	if err != nil {
		return Model{}, err
	}

	ta := textarea.New()
	ta.Placeholder = "Edit QASM here..."
	ta.SetWidth(40)
	ta.SetHeight(20)
	ta.ShowLineNumbers = true
	ta.SetValue(source)

	amps := table.New(
		table.WithHeight(10),
		table.WithFocused(true),
	)
	amps.SetStyles(tableStyles())

	m := Model{
		interp:   interp,
		logs:     logs,
		qubits:   opts.Qubits,
		shots:    opts.Shots,
		editor:   ta,
		amps:     amps,
		help:     help.New(),
		keys:     defaultKeyMap(),
		focus:    focusProgram,
		lastQASM: source,
		lines:    strings.Split(source, "\n"),
		failed:   make(map[int]bool),
	}
	m.syncTable()
	return m, nil
}

// Run starts the program on the alternate screen.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// restart rewinds to the first line with a fresh register.
func (m *Model) restart() {
	if err := m.interp.Reset(m.qubits); err != nil {
		m.status = err.Error()
		return
	}
	m.logs.Reset()
	m.pc = 0
	m.ran = 0
	m.failed = make(map[int]bool)
	m.hist = nil
	m.status = "restarted"
	m.syncTable()
}

// step runs the next non-blank line. It reports false at end of program.
func (m *Model) step() bool {
	for m.pc < len(m.lines) && qasm.Normalize(m.lines[m.pc]) == "" {
		m.pc++
	}
	if m.pc >= len(m.lines) {
		m.status = "end of program"
		return false
	}

	n := m.pc
	m.pc++
	m.hist = nil
	if err := m.interp.RunLine(m.lines[n]); err != nil {
		m.failed[n] = true
		m.status = fmt.Sprintf("line %d: %v", n+1, err)
	} else {
		m.ran++
		m.status = fmt.Sprintf("line %d: %s", n+1, strings.TrimSpace(m.lines[n]))
	}
	m.syncTable()
	return true
}

func (m *Model) runAll() {
	for m.step() {
	}
	m.status = fmt.Sprintf("ran %d line(s), %d failed", m.ran, len(m.failed))
}

func (m *Model) sample() {
	m.hist = m.interp.System().RunShots(m.shots)
	m.status = fmt.Sprintf("sampled %d shots", m.shots)
}

// syncTable rebuilds the amplitude rows from the register.
func (m *Model) syncTable() {
	sys := m.interp.System()
	m.amps.SetColumns([]table.Column{
		{Title: "State", Width: max(sys.NumQubits(), 5) + 2},
		{Title: "Amplitude", Width: 20},
		{Title: "Prob", Width: 8},
	})
	probs := sys.Probabilities()
	rows := make([]table.Row, 0, len(probs))
	for _, a := range sys.Amplitudes() {
		rows = append(rows, table.Row{
			"|" + a.Bits + "⟩",
			fmt.Sprintf("%+.4f%+.4fi", real(a.Value), imag(a.Value)),
			fmt.Sprintf("%.4f", probs[a.Index]),
		})
	}
	m.amps.SetRows(rows)
}

// parseQASMInput adopts edited source and restarts when it changed.
func (m *Model) parseQASMInput() {
	src := m.editor.Value()
	if src == m.lastQASM {
		return
	}
	m.lastQASM = src
	m.lines = strings.Split(src, "\n")
	m.restart()
	m.status = "program edited, restarted"
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.editor.SetWidth(max(msg.Width/3-6, 20))
		m.editor.SetHeight(max(msg.Height-12, 4))
		m.amps.SetHeight(max(msg.Height-16, 4))

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusEditor:
			if key.Matches(msg, m.keys.Focus) {
				m.focus = focusProgram
				m.editor.Blur()
				break
			}
			var cmd tea.Cmd
			m.editor, cmd = m.editor.Update(msg)
			cmds = append(cmds, cmd)
			m.parseQASMInput()

		case focusProgram:
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, m.keys.Focus):
				m.focus = focusEditor
				cmds = append(cmds, m.editor.Focus())
			case key.Matches(msg, m.keys.Step):
				m.step()
			case key.Matches(msg, m.keys.RunAll):
				m.runAll()
			case key.Matches(msg, m.keys.Restart):
				m.restart()
			case key.Matches(msg, m.keys.Shots):
				m.sample()
			case key.Matches(msg, m.keys.Help):
				m.help.ShowAll = !m.help.ShowAll
			default:
				var cmd tea.Cmd
				m.amps, cmd = m.amps.Update(msg)
				cmds = append(cmds, cmd)
			}
		}
	}

	return m, tea.Batch(cmds...)
}
