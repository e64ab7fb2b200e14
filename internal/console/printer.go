// Package console prints simulator results for the batch runner.
package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"qsim/internal/qasm"
	"qsim/internal/quantum"
)

const tag = "[qs]"

// Printer writes styled lines to an output stream.
type Printer struct {
	w      io.Writer
	styles Styles
}

// New returns a Printer for w. Colour is only emitted when w is a terminal.
func New(w io.Writer) *Printer {
	return &Printer{w: w, styles: newStyles(lipgloss.NewRenderer(w))}
}

func (p *Printer) line(s string) {
	fmt.Fprintf(p.w, "%s   %s\n", p.styles.Tag.Render(tag), s)
}

// Infof prints an informational line.
func (p *Printer) Infof(format string, args ...any) {
	p.line(p.styles.Info.Render(fmt.Sprintf(format, args...)))
}

// Warnf prints a warning line.
func (p *Printer) Warnf(format string, args ...any) {
	p.line(p.styles.Warn.Render(fmt.Sprintf(format, args...)))
}

// Errorf prints an error line.
func (p *Printer) Errorf(format string, args ...any) {
	p.line(p.styles.Error.Render(fmt.Sprintf(format, args...)))
}

// Banner prints the program banner.
func (p *Printer) Banner() {
	fmt.Fprintf(p.w, "\n%s\n\n", p.styles.Banner.Render("Quantum Simulator"))
}

// Usage prints the command line synopsis followed by the flag table.
func (p *Printer) Usage(exe, flags string) {
	fmt.Fprintf(p.w, "%s\n  %s [flags] program.qasm\n\n", p.styles.Tag.Render(" Usage:"), exe)
	fmt.Fprintf(p.w, "%s\n%s\n", p.styles.Tag.Render(" Flags:"), flags)
}

// Loading announces the circuit about to run.
func (p *Printer) Loading(path string) {
	p.line(p.styles.Info.Render("Loading QASM program: ") + p.styles.Path.Render(path))
}

// Summary prints the per-line accounting of a run.
func (p *Printer) Summary(s qasm.RunSummary) {
	p.Infof("Run %s: %d lines, %d executed, %d skipped, %d failed",
		s.RunID, s.Lines, s.Executed, s.Skipped, s.Failed)
}

// State lists every amplitude as |bits⟩ = (re, im i), most significant
// qubit first.
func (p *Printer) State(sys *quantum.System) {
	p.Infof("Printing state...")
	for _, a := range sys.Amplitudes() {
		ket := p.styles.Ket.Render("|" + a.Bits + "⟩")
		val := p.styles.Value.Render(fmt.Sprintf("(%.4f, %.4fi)", real(a.Value), imag(a.Value)))
		fmt.Fprintf(p.w, "       %s = %s\n", ket, val)
	}
}

// Histogram prints one "bits : count" line per observed outcome.
func (p *Printer) Histogram(h quantum.Histogram) {
	p.Infof("Shots: %d", h.Total())
	keys := h.Keys()
	width := 0
	for _, k := range keys {
		width = max(width, runewidth.StringWidth(k))
	}
	for _, k := range keys {
		p.line(p.styles.Ket.Render(runewidth.FillRight(k, width)) + " : " + p.styles.Value.Render(fmt.Sprint(h[k])))
	}
}

// Exported announces a written state file.
func (p *Printer) Exported(path string) {
	p.line(p.styles.Info.Render("Exported to ") + p.styles.Path.Render(path))
}

// Teleport prints a verification report.
func (p *Printer) Teleport(r qasm.TeleportReport) {
	if r.Status == qasm.TeleportFailed {
		p.Errorf("Teleportation check failed")
		return
	}
	p.Infof("Applying correction...")
	p.Infof("m0 = %d, m1 = %d", r.M0, r.M1)
	if r.AppliedX {
		p.Infof("Applied X to qubit %d", qasm.TeleportTarget)
	}
	if r.AppliedZ {
		p.Infof("Applied Z to qubit %d", qasm.TeleportTarget)
	}
	p.Infof("Fidelity vs expected on qubit %d = %.4f", qasm.TeleportTarget, r.Fidelity)
	p.Infof("Fidelity vs |+⟩ after correction = %.4f (meaningful for an h q[0] input)", r.Restored)
	if r.Status == qasm.TeleportVerified {
		p.line(p.styles.Good.Render("Teleportation Verified!"))
		return
	}
	p.Warnf("Teleportation mismatch")
}

// Ket renders a single-qubit state for display.
func (p *Printer) Ket(label string, v []quantum.Complex) {
	p.line(p.styles.Dim.Render(label+": ") + p.styles.Ket.Render(quantum.FormatKet(v)))
}
