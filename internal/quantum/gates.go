package quantum

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Complex is the scalar field of the state vector.
type Complex = complex128

// Norm2 returns |c|², the probability weight of an amplitude.
func Norm2(c Complex) float64 {
	return real(c)*real(c) + imag(c)*imag(c)
}

// Gate is a single-qubit unitary. Row and column indices are the output and
// input values of the target bit.
type Gate [2][2]Complex

// ErrUnknownGate is returned by GateByName.
var ErrUnknownGate = errors.New("unknown gate")

// Hadamard creates an equal superposition from a basis state.
func Hadamard() Gate {
	s := complex(1/math.Sqrt2, 0)
	return Gate{
		{s, s},
		{s, -s},
	}
}

// PauliX is the bit flip.
func PauliX() Gate {
	return Gate{
		{0, 1},
		{1, 0},
	}
}

// PauliZ is the phase flip.
func PauliZ() Gate {
	return Gate{
		{1, 0},
		{0, -1},
	}
}

// GateByName resolves a gate mnemonic such as "h" or "X".
func GateByName(name string) (Gate, error) {
	switch strings.ToLower(name) {
	case "h":
		return Hadamard(), nil
	case "x":
		return PauliX(), nil
	case "z":
		return PauliZ(), nil
	}
	return Gate{}, fmt.Errorf("%w: %q", ErrUnknownGate, name)
}
