// Package export renders a register's amplitudes as JSON or CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"qsim/internal/quantum"
)

var (
	ErrUnknownFormat = errors.New("export: unknown format")
	ErrBadRecord     = errors.New("export: malformed record")
)

// Format selects a rendering.
type Format int

const (
	FormatJSON Format = iota
	FormatCSV
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatCSV:
		return "csv"
	}
	return "unknown"
}

// ParseFormat accepts "json" or "csv", case-insensitively.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

var csvHeader = []string{"state", "real", "imag"}

// Entry is one exported basis state.
type Entry struct {
	Bits string
	Real float64
	Imag float64
}

// Entries lists every basis state of sys in basis-index order.
func Entries(sys *quantum.System) []Entry {
	amps := sys.Amplitudes()
	out := make([]Entry, len(amps))
	for i, a := range amps {
		out[i] = Entry{Bits: a.Bits, Real: real(a.Value), Imag: imag(a.Value)}
	}
	return out
}

// JSON renders sys as an object keyed by bitstring, each value a
// [real, imag] pair. Bitstrings share one width, so the sorted keys
// follow basis-index order.
func JSON(sys *quantum.System) ([]byte, error) {
	obj := make(map[string][2]float64, 1<<sys.NumQubits())
	for _, e := range Entries(sys) {
		obj[e.Bits] = [2]float64{e.Real, e.Imag}
	}
	return json.MarshalIndent(obj, "", "  ")
}

// CSV renders sys with a state,real,imag header and one row per basis state.
func CSV(sys *quantum.System) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, e := range Entries(sys) {
		row := []string{e.Bits, formatFloat(e.Real), formatFloat(e.Imag)}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Render renders sys in the given format.
func Render(f Format, sys *quantum.System) ([]byte, error) {
	switch f {
	case FormatJSON:
		return JSON(sys)
	case FormatCSV:
		return CSV(sys)
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, int(f))
}

// WriteFile renders sys and writes it to path.
func WriteFile(path string, f Format, sys *quantum.System) error {
	data, err := Render(f, sys)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s export: %w", f, err)
	}
	return nil
}

// ParseJSON reads a JSON export back into entries sorted by bitstring.
func ParseJSON(r io.Reader) ([]Entry, error) {
	var obj map[string][2]float64
	if err := json.NewDecoder(r).Decode(&obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRecord, err)
	}
	out := make([]Entry, 0, len(obj))
	for bits, v := range obj {
		out = append(out, Entry{Bits: bits, Real: v[0], Imag: v[1]})
	}
	sortEntries(out)
	return out, nil
}

// ParseCSV reads a CSV export back into entries sorted by bitstring.
func ParseCSV(r io.Reader) ([]Entry, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRecord, err)
	}
	if len(records) == 0 || strings.Join(records[0], ",") != strings.Join(csvHeader, ",") {
		return nil, fmt.Errorf("%w: missing %q header", ErrBadRecord, strings.Join(csvHeader, ","))
	}
	out := make([]Entry, 0, len(records)-1)
	for i, rec := range records[1:] {
		re, err1 := strconv.ParseFloat(rec[1], 64)
		im, err2 := strconv.ParseFloat(rec[2], 64)
		if err := errors.Join(err1, err2); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrBadRecord, i+2, err)
		}
		out = append(out, Entry{Bits: rec[0], Real: re, Imag: im})
	}
	sortEntries(out)
	return out, nil
}

func sortEntries(es []Entry) {
	sort.Slice(es, func(i, j int) bool { return es[i].Bits < es[j].Bits })
}
