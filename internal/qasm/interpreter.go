package qasm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"qsim/internal/quantum"
	"qsim/internal/rng"
)

// DefaultQubits is the register size before any qreg declaration.
const DefaultQubits = 3

// Interpreter executes circuit source one line at a time. A bad line is
// logged and skipped; execution always continues with the next line.
type Interpreter struct {
	sys   *quantum.System
	log   Logger
	runID string
}

// Option configures an Interpreter.
type Option func(*interpreterOptions)

type interpreterOptions struct {
	log    Logger
	src    rng.Source
	qubits int
}

func WithLogger(l Logger) Option {
	return func(o *interpreterOptions) { o.log = l }
}

func WithSource(src rng.Source) Option {
	return func(o *interpreterOptions) { o.src = src }
}

// WithQubits sets the register size used until the circuit declares one.
func WithQubits(n int) Option {
	return func(o *interpreterOptions) { o.qubits = n }
}

// New creates an interpreter with a fresh system.
func New(opts ...Option) (*Interpreter, error) {
	o := interpreterOptions{log: nopLogger{}, src: rng.New(), qubits: DefaultQubits}
	for _, opt := range opts {
		opt(&o)
	}
	sys, err := quantum.NewSystem(o.qubits, quantum.WithSource(o.src))
	if err != nil {
		return nil, err
	}
	return &Interpreter{sys: sys, log: o.log, runID: uuid.NewString()}, nil
}

// System returns the system the interpreter mutates.
func (in *Interpreter) System() *quantum.System { return in.sys }

// RunID identifies the most recent Run.
func (in *Interpreter) RunID() string { return in.runID }

// Reset starts a fresh circuit of n qubits.
func (in *Interpreter) Reset(n int) error {
	if err := in.sys.Reset(n); err != nil {
		return err
	}
	in.log.Info("register reset", "run", in.runID, "qubits", n)
	return nil
}

// RunSummary counts what happened to the lines of one Run.
type RunSummary struct {
	RunID    string
	Lines    int
	Executed int
	Skipped  int
	Failed   int
}

// RunFile opens path and runs it. A file that cannot be opened is returned
// as an error and nothing is executed.
func (in *Interpreter) RunFile(path string) (RunSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		in.log.Error("failed to open circuit", "path", path, "err", err)
		return RunSummary{}, fmt.Errorf("open circuit: %w", err)
	}
	defer f.Close()
	return in.Run(f)
}

// Run executes every line of r, whatever its length. Only a read error
// aborts the run.
func (in *Interpreter) Run(r io.Reader) (RunSummary, error) {
	in.runID = uuid.NewString()
	summary := RunSummary{RunID: in.runID}

	br := bufio.NewReader(r)
	for {
		line, readErr := br.ReadString('\n')
		if line != "" {
			summary.Lines++
			executed, err := in.runLine(strings.TrimRight(line, "\r\n"))
			switch {
			case err != nil:
				summary.Failed++
			case executed:
				summary.Executed++
			default:
				summary.Skipped++
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return summary, fmt.Errorf("read circuit: %w", readErr)
		}
	}

	in.log.Debug("run complete", "run", in.runID, "lines", summary.Lines,
		"executed", summary.Executed, "skipped", summary.Skipped, "failed", summary.Failed)
	return summary, nil
}

// RunLine executes a single source line. The error, if any, has already
// been logged.
func (in *Interpreter) RunLine(line string) error {
	_, err := in.runLine(line)
	return err
}

func (in *Interpreter) runLine(raw string) (bool, error) {
	line := Normalize(raw)
	if line == "" || isHeader(line) {
		return false, nil
	}

	in.log.Debug("executing", "run", in.runID, "line", line)

	switch {
	case strings.HasPrefix(line, "qreg"):
		n, err := parseDeclaration(qregRegex, line)
		if err == nil {
			err = in.Reset(n)
		}
		if err != nil {
			in.log.Error("bad qreg declaration", "run", in.runID, "line", line, "err", err)
			return false, err
		}
		return true, nil
	case strings.HasPrefix(line, "creg"):
		if n, err := parseDeclaration(cregRegex, line); err == nil {
			in.sys.SetClassicalBits(n)
		}
		return false, nil
	}

	ins, err := Parse(line)
	if err != nil {
		in.log.Error("unsupported QASM", "run", in.runID, "line", line, "err", err)
		return false, err
	}
	if _, err := in.Execute(ins); err != nil {
		return false, err
	}
	return true, nil
}

// Execute applies one instruction. For a measurement the outcome is
// returned; for gates it is -1.
func (in *Interpreter) Execute(ins Instruction) (int, error) {
	outcome, err := in.execute(ins)
	if err != nil {
		in.log.Error("instruction failed", "run", in.runID, "instruction", ins.String(), "err", err)
	}
	return outcome, err
}

func (in *Interpreter) execute(ins Instruction) (int, error) {
	want := 1
	if ins.Op == OpCX {
		want = 2
	}

	switch ins.Op {
	case OpH, OpX, OpCX, OpMeasure:
		if len(ins.Operands) != want {
			return -1, fmt.Errorf("%w: %s expects %d operand(s), got %d", ErrMalformed, ins.Op, want, len(ins.Operands))
		}
	default:
		return -1, fmt.Errorf("%w: %q", ErrUnknownOpcode, ins.Op)
	}

	switch ins.Op {
	case OpH, OpX:
		g, err := quantum.GateByName(string(ins.Op))
		if err != nil {
			return -1, err
		}
		return -1, in.sys.ApplyGate(g, ins.Operands[0])
	case OpCX:
		return -1, in.sys.ApplyCNOT(ins.Operands[0], ins.Operands[1])
	default:
		q := ins.Operands[0]
		outcome, err := in.sys.MeasureQubit(q)
		if err != nil {
			return -1, err
		}
		in.log.Info("measured", "run", in.runID, "qubit", q, "outcome", outcome)
		return outcome, nil
	}
}
