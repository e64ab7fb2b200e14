// Package repl is a line-at-a-time QASM shell.
package repl

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"qsim/internal/export"
	"qsim/internal/qasm"
	"qsim/internal/quantum"
)

var (
	// ErrQuit is returned by Handle for :quit.
	ErrQuit           = errors.New("quit")
	ErrUnknownCommand = errors.New("unknown command")
	ErrArgs           = errors.New("bad arguments")
)

const helpText = `QASM lines are executed as typed, e.g. "h q[0];" or "cx q[0], q[1];".
Commands:
  :state                  list all amplitudes
  :qubit N                approximate state and marginal of qubit N
  :shots N                sample the current state N times
  :reset [N]              start over with N qubits
  :export json|csv PATH   write the state to PATH
  :help                   show this text
  :quit                   leave the shell`

// Shell feeds typed lines to an interpreter.
type Shell struct {
	in *qasm.Interpreter
}

// New returns a Shell driving in.
func New(in *qasm.Interpreter) *Shell {
	return &Shell{in: in}
}

// Handle executes one input line and returns the text to show for it.
func (s *Shell) Handle(line string) (string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil
	}
	if strings.HasPrefix(line, ":") {
		return s.command(strings.Fields(line))
	}

	if err := s.in.RunLine(line); err != nil {
		return "", err
	}
	if ins, err := qasm.Parse(qasm.Normalize(line)); err == nil && ins.Op == qasm.OpMeasure {
		q := ins.Operands[0]
		if m, ok := s.in.System().LastOutcome(q); ok {
			return fmt.Sprintf("q[%d] -> %d", q, m), nil
		}
	}
	return "", nil
}

func (s *Shell) command(fields []string) (string, error) {
	sys := s.in.System()
	name, args := fields[0], fields[1:]

	switch name {
	case ":help", ":h":
		return helpText, nil
	case ":quit", ":q", ":exit":
		return "", ErrQuit
	case ":state":
		return formatState(sys), nil
	case ":qubit":
		q, err := intArg(args, 0)
		if err != nil {
			return "", err
		}
		v, err := sys.QubitState(q)
		if err != nil {
			return "", err
		}
		m, err := sys.Marginal(q)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s\nP(0) = %.4f  P(1) = %.4f", quantum.FormatKet(v), m.P0, m.P1), nil
	case ":shots":
		n, err := intArg(args, 1)
		if err != nil {
			return "", err
		}
		return formatHistogram(sys.RunShots(n)), nil
	case ":reset":
		n := sys.NumQubits()
		if len(args) > 0 {
			var err error
			if n, err = intArg(args, 1); err != nil {
				return "", err
			}
		}
		if err := s.in.Reset(n); err != nil {
			return "", err
		}
		return fmt.Sprintf("reset to %d qubits", n), nil
	case ":export":
		if len(args) != 2 {
			return "", fmt.Errorf("%w: :export json|csv PATH", ErrArgs)
		}
		f, err := export.ParseFormat(args[0])
		if err != nil {
			return "", err
		}
		if err := export.WriteFile(args[1], f, sys); err != nil {
			return "", err
		}
		return "Exported to " + args[1], nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownCommand, name)
}

func intArg(args []string, lo int) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: expected one number", ErrArgs)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < lo {
		return 0, fmt.Errorf("%w: %q", ErrArgs, args[0])
	}
	return n, nil
}

func formatState(sys *quantum.System) string {
	var sb strings.Builder
	for i, a := range sys.Amplitudes() {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "|%s⟩ = (%.4f, %.4fi)", a.Bits, real(a.Value), imag(a.Value))
	}
	return sb.String()
}

func formatHistogram(h quantum.Histogram) string {
	var sb strings.Builder
	for i, k := range h.Keys() {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%s : %d", k, h[k])
	}
	return sb.String()
}

// Run reads lines with readline until :quit, EOF or an interrupt on an
// empty line.
func (s *Shell) Run(historyFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "qsim> ",
		HistoryFile:     historyFile,
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       ":quit",
	})
	if err != nil {
		return fmt.Errorf("start readline: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(rl.Stdout(), `Type ":help" for commands.`)
	return s.loop(rl, rl.Stdout())
}

type lineReader interface {
	Readline() (string, error)
}

func (s *Shell) loop(r lineReader, out io.Writer) error {
	for {
		line, err := r.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if line == "" {
				return nil
			}
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		text, err := s.Handle(line)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		if text != "" {
			fmt.Fprintln(out, text)
		}
	}
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(":state"),
		readline.PcItem(":qubit"),
		readline.PcItem(":shots"),
		readline.PcItem(":reset"),
		readline.PcItem(":export", readline.PcItem("json"), readline.PcItem("csv")),
		readline.PcItem(":help"),
		readline.PcItem(":quit"),
		readline.PcItem("qreg"),
		readline.PcItem("measure"),
	)
}
