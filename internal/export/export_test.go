package export

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qsim/internal/quantum"
)

func bellSystem(t *testing.T) *quantum.System {
	t.Helper()
	sys, err := quantum.NewSystem(2)
	require.NoError(t, err)
	require.NoError(t, sys.ApplyGate(quantum.Hadamard(), 0))
	require.NoError(t, sys.ApplyCNOT(0, 1))
	return sys
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		err  bool
	}{
		{"json", FormatJSON, false},
		{" CSV ", FormatCSV, false},
		{"xml", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.err {
			assert.ErrorIs(t, err, ErrUnknownFormat, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.Equal(t, "json", FormatJSON.String())
	assert.Equal(t, "csv", FormatCSV.String())
}

func TestEntriesOrder(t *testing.T) {
	sys, err := quantum.NewSystem(3)
	require.NoError(t, err)
	require.NoError(t, sys.ApplyGate(quantum.PauliX(), 0))

	es := Entries(sys)
	require.Len(t, es, 8)
	assert.Equal(t, "000", es[0].Bits)
	assert.Equal(t, Entry{Bits: "001", Real: 1}, es[1])
	assert.Equal(t, "100", es[4].Bits)
}

func TestJSON(t *testing.T) {
	data, err := JSON(bellSystem(t))
	require.NoError(t, err)

	s := string(data)
	assert.True(t, strings.HasPrefix(s, "{\n  \"00\": ["), s)
	assert.Less(t, strings.Index(s, `"00"`), strings.Index(s, `"01"`))
	assert.Less(t, strings.Index(s, `"10"`), strings.Index(s, `"11"`))
	assert.Contains(t, s, `"01": [`+"\n    0,\n    0\n  ]")
}

func TestCSV(t *testing.T) {
	data, err := CSV(bellSystem(t))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "state,real,imag", lines[0])
	assert.Equal(t, "00,"+formatFloat(1/math.Sqrt2)+",0", lines[1])
	assert.Equal(t, "01,0,0", lines[2])
	assert.Equal(t, "10,0,0", lines[3])
}

func TestRoundTrip(t *testing.T) {
	sys := bellSystem(t)
	require.NoError(t, sys.ApplyGate(quantum.PauliZ(), 1))
	want := Entries(sys)

	for _, f := range []Format{FormatJSON, FormatCSV} {
		data, err := Render(f, sys)
		require.NoError(t, err)

		var got []Entry
		if f == FormatJSON {
			got, err = ParseJSON(bytes.NewReader(data))
		} else {
			got, err = ParseCSV(bytes.NewReader(data))
		}
		require.NoError(t, err, f.String())
		assert.Equal(t, want, got, f.String())
	}
}

func TestParseErrors(t *testing.T) {
	_, err := ParseJSON(strings.NewReader(`{"0": "nope"}`))
	assert.ErrorIs(t, err, ErrBadRecord)

	_, err = ParseCSV(strings.NewReader("bits,re,im\n0,1,0\n"))
	assert.ErrorIs(t, err, ErrBadRecord)

	_, err = ParseCSV(strings.NewReader("state,real,imag\n0,one,0\n"))
	assert.ErrorIs(t, err, ErrBadRecord)

	_, err = ParseCSV(strings.NewReader("state,real,imag\n0,1\n"))
	assert.ErrorIs(t, err, ErrBadRecord)

	_, err = ParseCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrBadRecord)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	sys := bellSystem(t)

	path := filepath.Join(dir, "state.csv")
	require.NoError(t, WriteFile(path, FormatCSV, sys))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "state,real,imag\n"))

	err = WriteFile(filepath.Join(dir, "missing", "state.json"), FormatJSON, sys)
	assert.ErrorIs(t, err, os.ErrNotExist)

	err = WriteFile(filepath.Join(dir, "x"), Format(9), sys)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
