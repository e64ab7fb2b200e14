package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"qsim/internal/qasm"
)

const (
	logLines = 3
	barWidth = 24
)

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	programWidth := m.width / 3
	stateWidth := m.width - programWidth - 4
	statusHeight := logLines + 3
	topHeight := max(m.height-statusHeight-4, 6)

	left := m.renderProgramPanel(programWidth, topHeight)
	right := m.renderStatePanel(stateWidth, topHeight)
	bottom := m.renderStatusPanel(m.width-4, statusHeight)

	top := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom, m.help.View(m.keys))
}

// renderProgramPanel shows the editor while editing and the annotated
// listing while stepping.
func (m Model) renderProgramPanel(width, height int) string {
	var sb strings.Builder

	title := "QASM"
	if m.focus == focusEditor {
		title += " [EDITING]"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")

	if m.focus == focusEditor {
		sb.WriteString(m.editor.View())
	} else {
		sb.WriteString(m.renderListing())
	}
	return programStyle.Width(width).Height(height).Render(sb.String())
}

func (m Model) renderListing() string {
	var sb strings.Builder
	for i, line := range m.lines {
		marker := "  "
		style := pendingStyle
		switch {
		case i == m.nextLine():
			marker = cursorStyle.Render("▸ ")
			style = cursorStyle
		case m.failed[i]:
			style = errorStyle
		case i < m.pc:
			style = doneStyle
		}
		fmt.Fprintf(&sb, "%s%s %s\n", marker, doneStyle.Render(fmt.Sprintf("%3d", i+1)), style.Render(line))
	}
	return sb.String()
}

// nextLine is the index the next step will run, skipping blanks.
func (m Model) nextLine() int {
	for i := m.pc; i < len(m.lines); i++ {
		if qasm.Normalize(m.lines[i]) != "" {
			return i
		}
	}
	return -1
}

func (m Model) renderStatePanel(width, height int) string {
	var sb strings.Builder
	sys := m.interp.System()

	sb.WriteString(titleStyle.Render(fmt.Sprintf("State (%d qubits)", sys.NumQubits())))
	sb.WriteString("\n\n")
	sb.WriteString(m.amps.View())
	sb.WriteString("\n\n")
	sb.WriteString(m.renderMarginals())
	sb.WriteString("\n")

	if outcomes := m.renderOutcomes(); outcomes != "" {
		sb.WriteString("\n")
		sb.WriteString(outcomes)
		sb.WriteString("\n")
	}

	if m.hist != nil {
		sb.WriteString("\n")
		sb.WriteString(titleStyle.Render(fmt.Sprintf("Shots (%d)", m.hist.Total())))
		sb.WriteString("\n")
		for _, k := range m.hist.Keys() {
			n := m.hist[k]
			w := n * barWidth / m.hist.Total()
			fmt.Fprintf(&sb, "%s %s %d\n", k, barStyle.Render(strings.Repeat("█", w)), n)
		}
	}
	return stateStyle.Width(width).Height(height).Render(sb.String())
}

// renderMarginals lists P(1) of every qubit, highest qubit first to match
// the bitstring order.
func (m Model) renderMarginals() string {
	marginals := m.interp.System().Marginals()
	parts := make([]string, 0, len(marginals))
	for q := len(marginals) - 1; q >= 0; q-- {
		parts = append(parts, fmt.Sprintf("q[%d]=%.2f", q, marginals[q].P1))
	}
	return doneStyle.Render("P(1): ") + barStyle.Render(strings.Join(parts, "  "))
}

func (m Model) renderOutcomes() string {
	sys := m.interp.System()
	var parts []string
	for q := 0; q < sys.NumQubits(); q++ {
		if v, ok := sys.LastOutcome(q); ok {
			parts = append(parts, fmt.Sprintf("q[%d]=%d", q, v))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return outcomeStyle.Render("measured: " + strings.Join(parts, "  "))
}

func (m Model) renderStatusPanel(width, height int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Status: "))
	sb.WriteString(m.status)
	for _, l := range m.tailLogs() {
		sb.WriteString("\n")
		sb.WriteString(doneStyle.Render(l))
	}
	return statusStyle.Width(width).Height(height).Render(sb.String())
}

// tailLogs returns the most recent interpreter log lines.
func (m Model) tailLogs() []string {
	s := strings.TrimRight(m.logs.String(), "\n")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	return lines[max(len(lines)-logLines, 0):]
}
