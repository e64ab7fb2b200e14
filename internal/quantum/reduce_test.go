package quantum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQubitStateSeparable(t *testing.T) {
	s := newSystem(t, 3)
	require.NoError(t, s.ApplyGate(PauliX(), 0))
	require.NoError(t, s.ApplyGate(Hadamard(), 2))

	v, err := s.QubitState(2)
	require.NoError(t, err)
	plus := PlusState()
	assert.InDelta(t, real(plus[0]), real(v[0]), tol)
	assert.InDelta(t, real(plus[1]), real(v[1]), tol)

	assert.InDelta(t, 1.0, s.Fidelity(PlusState(), 2), tol)
	assert.InDelta(t, 0.0, s.Fidelity(MinusState(), 2), tol)
	assert.InDelta(t, 1.0, s.Fidelity([]Complex{0, 1}, 0), tol)
}

func TestQubitStateCancelledDefaultsToZero(t *testing.T) {
	s := newSystem(t, 1)
	require.NoError(t, s.SetAmplitudes([]Complex{0, 0}))
	v, err := s.QubitState(0)
	require.NoError(t, err)
	assert.Equal(t, []Complex{1, 0}, v)
}

func TestFidelityDimensionMismatch(t *testing.T) {
	s := newSystem(t, 1)
	assert.Equal(t, 0.0, s.Fidelity([]Complex{1, 0, 0}, 0))
	assert.Equal(t, 0.0, s.Fidelity(PlusState(), 4))
}

func TestFormatKet(t *testing.T) {
	assert.Equal(t, "(1.0000+0.0000i)|0⟩ + (0.0000+0.0000i)|1⟩", FormatKet([]Complex{1, 0}))
}
