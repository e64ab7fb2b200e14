package quantum

import (
	"fmt"
	"math"
	"slices"
)

// Measure performs a projective measurement of the whole register. The
// outcome is the first index whose cumulative probability exceeds a uniform
// draw; if rounding keeps the sum from ever exceeding it, the last index is
// used. The state collapses to the sampled basis vector.
func (s *System) Measure() int {
	amps := s.state.Amplitudes
	r := s.src.Float64()

	result := len(amps) - 1
	cumulative := 0.0
	for i, a := range amps {
		cumulative += Norm2(a)
		if r < cumulative {
			result = i
			break
		}
	}

	s.state.collapseTo(result)
	return result
}

// MeasureQubit measures qubit q alone, keeping the superposition of the
// remaining qubits and renormalising it. If the surviving branch has no
// weight the state is left untouched and ErrInvalidMeasurement is returned.
func (s *System) MeasureQubit(q int) (int, error) {
	if err := s.checkQubit(q); err != nil {
		return -1, err
	}

	amps := s.state.Amplitudes
	p0 := 0.0
	for i, a := range amps {
		if (i>>q)&1 == 0 {
			p0 += Norm2(a)
		}
	}

	outcome := 1
	if s.src.Float64() < p0 {
		outcome = 0
	}

	collapsed := make([]Complex, len(amps))
	norm := 0.0
	for i, a := range amps {
		if (i>>q)&1 == outcome {
			collapsed[i] = a
			norm += Norm2(a)
		}
	}
	norm = math.Sqrt(norm)
	if almostZero(norm, MeasureTolerance) {
		return -1, fmt.Errorf("%w: qubit %d", ErrInvalidMeasurement, q)
	}

	scale := complex(1/norm, 0)
	for i := range collapsed {
		collapsed[i] *= scale
	}
	s.state.Amplitudes = collapsed
	s.outcomes[q] = outcome
	return outcome, nil
}

// MeasureAll measures the whole register and returns the outcome as a
// bitstring.
func (s *System) MeasureAll() string {
	return s.Bitstring(s.Measure())
}

// Histogram counts measured bitstrings.
type Histogram map[string]int

// Keys returns the bitstrings in lexical order.
func (h Histogram) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Total returns the number of recorded shots.
func (h Histogram) Total() int {
	total := 0
	for _, n := range h {
		total += n
	}
	return total
}

// RunShots samples the register n times. Every shot measures its own clone,
// so the receiver is never collapsed.
func (s *System) RunShots(n int) Histogram {
	counts := make(Histogram)
	for i := 0; i < n; i++ {
		counts[s.Clone().MeasureAll()]++
	}
	return counts
}
