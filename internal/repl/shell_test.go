package repl

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chzyer/readline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qsim/internal/export"
	"qsim/internal/qasm"
	"qsim/internal/quantum"
	"qsim/internal/rng"
)

func newShell(t *testing.T, draws ...float64) *Shell {
	t.Helper()
	in, err := qasm.New(qasm.WithQubits(2), qasm.WithSource(rng.NewSequence(draws...)))
	require.NoError(t, err)
	return New(in)
}

func TestHandleQASM(t *testing.T) {
	s := newShell(t, 0.9)

	out, err := s.Handle("x q[0];")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = s.Handle("measure q[0] -> c[0];")
	require.NoError(t, err)
	assert.Equal(t, "q[0] -> 1", out)

	_, err = s.Handle("swap q[0], q[1];")
	assert.ErrorIs(t, err, qasm.ErrUnsupported)

	out, err = s.Handle("   ")
	assert.NoError(t, err)
	assert.Empty(t, out)
}

func TestHandleState(t *testing.T) {
	s := newShell(t)
	_, err := s.Handle("x q[1];")
	require.NoError(t, err)

	out, err := s.Handle(":state")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"|00⟩ = (0.0000, 0.0000i)",
		"|01⟩ = (0.0000, 0.0000i)",
		"|10⟩ = (1.0000, 0.0000i)",
		"|11⟩ = (0.0000, 0.0000i)",
	}, "\n"), out)

	out, err = s.Handle(":qubit 1")
	require.NoError(t, err)
	assert.Equal(t, quantum.FormatKet([]quantum.Complex{0, 1})+"\nP(0) = 0.0000  P(1) = 1.0000", out)

	_, err = s.Handle(":qubit 5")
	assert.ErrorIs(t, err, quantum.ErrQubitRange)
}

func TestHandleShots(t *testing.T) {
	s := newShell(t, 0.1, 0.6, 0.2, 0.7)
	_, err := s.Handle("h q[0];")
	require.NoError(t, err)

	out, err := s.Handle(":shots 4")
	require.NoError(t, err)
	assert.Equal(t, "00 : 2\n01 : 2", out)

	_, err = s.Handle(":shots 0")
	assert.ErrorIs(t, err, ErrArgs)
	_, err = s.Handle(":shots")
	assert.ErrorIs(t, err, ErrArgs)
}

func TestHandleReset(t *testing.T) {
	s := newShell(t)
	_, err := s.Handle("x q[0];")
	require.NoError(t, err)

	out, err := s.Handle(":reset")
	require.NoError(t, err)
	assert.Equal(t, "reset to 2 qubits", out)
	assert.Equal(t, 1.0, s.in.System().Probabilities()[0])

	out, err = s.Handle(":reset 3")
	require.NoError(t, err)
	assert.Equal(t, "reset to 3 qubits", out)
	assert.Equal(t, 3, s.in.System().NumQubits())

	_, err = s.Handle(":reset 99")
	assert.ErrorIs(t, err, quantum.ErrQubitCount)
	_, err = s.Handle(":reset x")
	assert.ErrorIs(t, err, ErrArgs)
}

func TestHandleExport(t *testing.T) {
	s := newShell(t)
	path := filepath.Join(t.TempDir(), "out.csv")

	out, err := s.Handle(":export csv " + path)
	require.NoError(t, err)
	assert.Equal(t, "Exported to "+path, out)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	entries, err := export.ParseCSV(f)
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	_, err = s.Handle(":export xml " + path)
	assert.ErrorIs(t, err, export.ErrUnknownFormat)
	_, err = s.Handle(":export json")
	assert.ErrorIs(t, err, ErrArgs)
}

func TestHandleMeta(t *testing.T) {
	s := newShell(t)

	out, err := s.Handle(":help")
	require.NoError(t, err)
	assert.Contains(t, out, ":export json|csv PATH")

	_, err = s.Handle(":quit")
	assert.ErrorIs(t, err, ErrQuit)

	_, err = s.Handle(":teleport")
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

type scriptReader struct {
	lines []string
	errs  []error
}

func (r *scriptReader) Readline() (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line, err := r.lines[0], r.errs[0]
	r.lines, r.errs = r.lines[1:], r.errs[1:]
	return line, err
}

func TestLoop(t *testing.T) {
	s := newShell(t, 0.9)
	r := &scriptReader{
		lines: []string{"x q[0];", "half typed", "bogus", "measure q[0];", ":quit", ":state"},
		errs:  []error{nil, readline.ErrInterrupt, nil, nil, nil, nil},
	}
	var out bytes.Buffer

	require.NoError(t, s.loop(r, &out))
	assert.Equal(t, "error: "+mustErr(s.Handle("bogus")).Error()+"\nq[0] -> 1\n", out.String())
	assert.Len(t, r.lines, 1, "loop stops at :quit")
}

func TestLoopStopsOnEOF(t *testing.T) {
	s := newShell(t)
	assert.NoError(t, s.loop(&scriptReader{}, io.Discard))
}

func mustErr(_ string, err error) error { return err }
