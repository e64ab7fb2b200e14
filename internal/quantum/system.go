// Package quantum implements a full state-vector simulator over a small
// number of qubits.
//
// Bitstrings produced by this package (MeasureAll, Amplitudes, Histogram
// keys) are most-significant qubit first: the leftmost character is qubit
// N-1 and the rightmost is qubit 0.
package quantum

import (
	"errors"
	"fmt"
	"maps"

	"qsim/internal/rng"
)

// MaxQubits bounds the register size; 2^24 amplitudes is 256 MiB.
const MaxQubits = 24

// Tolerances used when renormalising and reducing states.
const (
	MeasureTolerance = 1e-10
	ReduceTolerance  = 1e-8
)

var (
	ErrQubitCount         = errors.New("invalid qubit count")
	ErrQubitRange         = errors.New("qubit index out of range")
	ErrInvalidMeasurement = errors.New("invalid measurement: surviving norm is zero")
	ErrStateSize          = errors.New("amplitude count does not match register size")
)

// System owns one state vector together with its measurement history.
// It is not safe for concurrent use.
type System struct {
	state    *StateVector
	cbits    []int
	outcomes map[int]int
	src      rng.Source
}

// Option configures a System.
type Option func(*System)

// WithSource sets the randomness measurements sample from.
func WithSource(src rng.Source) Option {
	return func(s *System) {
		s.src = src
	}
}

// NewSystem creates a system of n qubits in |0…0⟩.
func NewSystem(n int, opts ...Option) (*System, error) {
	if n < 0 || n > MaxQubits {
		return nil, fmt.Errorf("%w: %d (allowed 0..%d)", ErrQubitCount, n, MaxQubits)
	}
	s := &System{
		state:    NewStateVector(n),
		outcomes: make(map[int]int),
		src:      rng.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Reset discards the whole state, the measurement history and the classical
// register, and starts over at |0…0⟩ with n qubits.
func (s *System) Reset(n int) error {
	if n < 0 || n > MaxQubits {
		return fmt.Errorf("%w: %d (allowed 0..%d)", ErrQubitCount, n, MaxQubits)
	}
	s.state = NewStateVector(n)
	s.outcomes = make(map[int]int)
	s.cbits = nil
	return nil
}

// SetClassicalBits sizes the classical placeholder register. Its contents
// are never read by the engine.
func (s *System) SetClassicalBits(n int) {
	if n <= 0 {
		s.cbits = nil
		return
	}
	s.cbits = make([]int, n)
}

// ClassicalBits returns the size of the classical placeholder register.
func (s *System) ClassicalBits() int { return len(s.cbits) }

func (s *System) NumQubits() int { return s.state.NumQubits }

// Clone returns an independent deep copy sharing only the random source.
func (s *System) Clone() *System {
	c := &System{
		state:    s.state.Clone(),
		outcomes: maps.Clone(s.outcomes),
		src:      s.src,
	}
	if s.cbits != nil {
		c.cbits = append([]int(nil), s.cbits...)
	}
	return c
}

func (s *System) checkQubit(q int) error {
	if q < 0 || q >= s.state.NumQubits {
		return fmt.Errorf("%w: qubit %d of %d", ErrQubitRange, q, s.state.NumQubits)
	}
	return nil
}

// ApplyGate applies a single-qubit gate to target.
func (s *System) ApplyGate(g Gate, target int) error {
	if err := s.checkQubit(target); err != nil {
		return err
	}
	s.state.apply(g, target)
	return nil
}

// ApplyCNOT flips target on every basis state where control is 1.
func (s *System) ApplyCNOT(control, target int) error {
	if err := s.checkQubit(control); err != nil {
		return err
	}
	if err := s.checkQubit(target); err != nil {
		return err
	}
	if control == target {
		return fmt.Errorf("%w: control and target are both qubit %d", ErrQubitRange, control)
	}
	s.state.applyCX(control, target)
	return nil
}

// LastOutcome returns the most recent MeasureQubit result for q.
func (s *System) LastOutcome(q int) (int, bool) {
	v, ok := s.outcomes[q]
	return v, ok
}

// Norm returns the total probability, 1 for a well-formed state.
func (s *System) Norm() float64 { return s.state.norm() }

// Probabilities returns |amplitude|² per basis index.
func (s *System) Probabilities() []float64 {
	probs := make([]float64, len(s.state.Amplitudes))
	for i, a := range s.state.Amplitudes {
		probs[i] = Norm2(a)
	}
	return probs
}

// Marginal is the probability of reading 0 or 1 from one qubit.
type Marginal struct {
	P0, P1 float64
}

// Marginal sums |amplitude|² on each side of qubit q's bit.
func (s *System) Marginal(q int) (Marginal, error) {
	if err := s.checkQubit(q); err != nil {
		return Marginal{}, err
	}
	var m Marginal
	mask := 1 << q
	for i, a := range s.state.Amplitudes {
		if i&mask == 0 {
			m.P0 += Norm2(a)
		} else {
			m.P1 += Norm2(a)
		}
	}
	return m, nil
}

// Marginals returns Marginal for every qubit, qubit 0 first.
func (s *System) Marginals() []Marginal {
	out := make([]Marginal, s.NumQubits())
	for q := range out {
		out[q], _ = s.Marginal(q)
	}
	return out
}

// Amplitude is one basis state of the register.
type Amplitude struct {
	Index int
	Bits  string
	Value Complex
}

// Amplitudes enumerates the state in basis-index order.
func (s *System) Amplitudes() []Amplitude {
	out := make([]Amplitude, len(s.state.Amplitudes))
	for i, a := range s.state.Amplitudes {
		out[i] = Amplitude{Index: i, Bits: s.Bitstring(i), Value: a}
	}
	return out
}

// Bitstring renders a basis index of this register.
func (s *System) Bitstring(index int) string {
	return Bitstring(index, s.state.NumQubits)
}

// SetAmplitudes replaces the state with amps. Only the length is checked;
// the caller is responsible for normalisation.
func (s *System) SetAmplitudes(amps []Complex) error {
	if len(amps) != len(s.state.Amplitudes) {
		return fmt.Errorf("%w: got %d, want %d", ErrStateSize, len(amps), len(s.state.Amplitudes))
	}
	s.state.Amplitudes = append([]Complex(nil), amps...)
	return nil
}
