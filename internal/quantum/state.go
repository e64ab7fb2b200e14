package quantum

import (
	"math"
	"strconv"
	"strings"
)

// StateVector holds 2^NumQubits amplitudes. Bit k of a basis index is the
// classical value of qubit k.
type StateVector struct {
	Amplitudes []Complex
	NumQubits  int
}

// NewStateVector returns |0…0⟩ over numQubits qubits.
func NewStateVector(numQubits int) *StateVector {
	n := 1 << numQubits
	amps := make([]Complex, n)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

func (s *StateVector) Clone() *StateVector {
	amps := make([]Complex, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: s.NumQubits}
}

// apply multiplies g into the target qubit. Amplitudes are read in pairs, so
// the result goes into a fresh slice before it replaces the old one.
func (s *StateVector) apply(g Gate, q int) {
	n := len(s.Amplitudes)
	bit := 1 << q
	newAmps := make([]Complex, n)
	for i := 0; i < n; i++ {
		b := (i >> q) & 1
		flipped := i ^ bit
		newAmps[i] = g[b][b]*s.Amplitudes[i] + g[b][1-b]*s.Amplitudes[flipped]
	}
	s.Amplitudes = newAmps
}

// applyCX visits each (control=1, target=0) index once and swaps it with its
// target-flipped partner.
func (s *StateVector) applyCX(control, target int) {
	n := len(s.Amplitudes)
	cBit := 1 << control
	tBit := 1 << target
	for i := 0; i < n; i++ {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

// collapseTo replaces the state with the basis vector at index.
func (s *StateVector) collapseTo(index int) {
	for i := range s.Amplitudes {
		s.Amplitudes[i] = 0
	}
	s.Amplitudes[index] = 1
}

// norm returns the sum of squared amplitude magnitudes.
func (s *StateVector) norm() float64 {
	total := 0.0
	for _, a := range s.Amplitudes {
		total += Norm2(a)
	}
	return total
}

// Bitstring renders a basis index most-significant qubit first: character 0
// is qubit numQubits-1 and the last character is qubit 0.
func Bitstring(index, numQubits int) string {
	if numQubits == 0 {
		return ""
	}
	bits := strconv.FormatUint(uint64(index), 2)
	if len(bits) < numQubits {
		bits = strings.Repeat("0", numQubits-len(bits)) + bits
	}
	return bits[len(bits)-numQubits:]
}

// almostZero reports whether x is below tol in magnitude.
func almostZero(x, tol float64) bool {
	return math.Abs(x) < tol
}
