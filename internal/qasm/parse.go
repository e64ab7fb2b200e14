// Package qasm interprets a restricted, line-oriented subset of OpenQASM 2.0
// and drives a quantum.System with it.
package qasm

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Op is an instruction opcode.
type Op string

const (
	OpH       Op = "h"
	OpX       Op = "x"
	OpCX      Op = "cx"
	OpMeasure Op = "measure"
)

var (
	ErrUnsupported   = errors.New("unsupported statement")
	ErrMalformed     = errors.New("malformed operand")
	ErrUnknownOpcode = errors.New("unknown opcode")
)

// Instruction is one parsed gate or measurement.
type Instruction struct {
	Op       Op
	Operands []int
}

func (ins Instruction) String() string {
	parts := make([]string, 0, len(ins.Operands)+1)
	parts = append(parts, string(ins.Op))
	for _, q := range ins.Operands {
		parts = append(parts, strconv.Itoa(q))
	}
	return strings.Join(parts, " ")
}

// Pre-compiled regexps for the supported statements. Input is normalized,
// so no trailing semicolons or comments remain.
var (
	measureRegex = regexp.MustCompile(`^measure\s+\w+\[(\d+)\](?:\s*->\s*\w+\[\d+\])?$`)
	cxRegex      = regexp.MustCompile(`^cx\s+\w+\[(\d+)\]\s*,\s*\w+\[(\d+)\]$`)
	singleRegex  = regexp.MustCompile(`^([hx])\s+\w+\[(\d+)\]$`)
	qregRegex    = regexp.MustCompile(`^qreg\s+\w+\[(\d+)\]$`)
	cregRegex    = regexp.MustCompile(`^creg\s+\w+\[(\d+)\]$`)
)

// Normalize strips a // comment, every semicolon and surrounding whitespace.
func Normalize(line string) string {
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}
	line = strings.ReplaceAll(line, ";", "")
	return strings.TrimSpace(line)
}

// Parse turns one source line into an Instruction. Only h, x, cx and measure
// are recognised; declarations and headers are handled by the Interpreter.
func Parse(line string) (Instruction, error) {
	cleaned := Normalize(line)

	var (
		op      Op
		matches []string
	)
	switch {
	case strings.HasPrefix(cleaned, "measure"):
		op, matches = OpMeasure, measureRegex.FindStringSubmatch(cleaned)
	case strings.HasPrefix(cleaned, "cx"):
		op, matches = OpCX, cxRegex.FindStringSubmatch(cleaned)
	case strings.HasPrefix(cleaned, "h"), strings.HasPrefix(cleaned, "x"):
		op = Op(cleaned[:1])
		if matches = singleRegex.FindStringSubmatch(cleaned); matches != nil {
			matches = matches[1:]
		}
	default:
		return Instruction{}, fmt.Errorf("%w: %q", ErrUnsupported, strings.TrimSpace(line))
	}
	if matches == nil {
		return Instruction{}, fmt.Errorf("%w: %q", ErrMalformed, strings.TrimSpace(line))
	}

	operands := make([]int, 0, len(matches)-1)
	for _, m := range matches[1:] {
		q, err := strconv.Atoi(m)
		if err != nil {
			return Instruction{}, fmt.Errorf("%w: %q: %v", ErrMalformed, m, err)
		}
		operands = append(operands, q)
	}
	return Instruction{Op: op, Operands: operands}, nil
}

// parseDeclaration reads the size out of a qreg or creg line.
func parseDeclaration(re *regexp.Regexp, line string) (int, error) {
	matches := re.FindStringSubmatch(line)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	n, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrMalformed, line, err)
	}
	return n, nil
}

// isHeader reports whether a line is an OPENQASM header or include.
func isHeader(line string) bool {
	lowered := strings.ToLower(line)
	return strings.Contains(lowered, "openqasm") || strings.Contains(lowered, "include")
}
