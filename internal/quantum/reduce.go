package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
)

// QubitState approximates the state of one qubit by summing the amplitudes
// on each side of its bit and normalising the pair.
//
// This is not a partial trace. It is exact only when q is unentangled from
// the rest of the register, for instance once every other qubit has been
// measured. For entangled qubits the result has no physical meaning. When
// both sums cancel, |0⟩ is returned.
func (s *System) QubitState(q int) ([]Complex, error) {
	if err := s.checkQubit(q); err != nil {
		return nil, err
	}

	var amp0, amp1 Complex
	for i, a := range s.state.Amplitudes {
		if (i>>q)&1 == 0 {
			amp0 += a
		} else {
			amp1 += a
		}
	}

	norm := math.Sqrt(Norm2(amp0) + Norm2(amp1))
	if norm < ReduceTolerance {
		return []Complex{1, 0}, nil
	}
	scale := complex(1/norm, 0)
	return []Complex{amp0 * scale, amp1 * scale}, nil
}

// Fidelity returns |⟨expected|actual⟩|² between expected and the
// approximate state of qubit q. A mismatched dimension or an invalid qubit
// yields 0.
func (s *System) Fidelity(expected []Complex, q int) float64 {
	actual, err := s.QubitState(q)
	if err != nil || len(actual) != len(expected) {
		return 0
	}

	var inner Complex
	for i := range expected {
		inner += cmplx.Conj(expected[i]) * actual[i]
	}
	return Norm2(inner)
}

// PlusState and MinusState are the X-basis eigenstates |+⟩ and |−⟩.
func PlusState() []Complex {
	s := complex(1/math.Sqrt2, 0)
	return []Complex{s, s}
}

func MinusState() []Complex {
	s := complex(1/math.Sqrt2, 0)
	return []Complex{s, -s}
}

// FormatKet renders a single-qubit state as "a|0⟩ + b|1⟩".
func FormatKet(v []Complex) string {
	if len(v) != 2 {
		return fmt.Sprint(v)
	}
	return fmt.Sprintf("(%.4f%+.4fi)|0⟩ + (%.4f%+.4fi)|1⟩",
		real(v[0]), imag(v[0]), real(v[1]), imag(v[1]))
}
