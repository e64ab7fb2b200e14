// Package rng provides the randomness capability the simulator samples
// measurements from.
package rng

import "math/rand/v2"

// Source yields uniform values in [0, 1).
type Source interface {
	Float64() float64
}

type entropySource struct{}

func (entropySource) Float64() float64 { return rand.Float64() }

// New returns the production source. It draws from the runtime-seeded
// generator, so two runs of the same circuit are not reproducible.
func New() Source {
	return entropySource{}
}

// NewSeeded returns a reproducible source.
func NewSeeded(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Sequence replays a fixed list of values, wrapping around at the end.
// An empty Sequence always yields 0.
type Sequence struct {
	Values []float64
	next   int
}

// NewSequence returns a Sequence over vals.
func NewSequence(vals ...float64) *Sequence {
	return &Sequence{Values: vals}
}

func (s *Sequence) Float64() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.next%len(s.Values)]
	s.next++
	return v
}
