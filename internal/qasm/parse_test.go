package qasm

import (
	"errors"
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"h q[0];", "h q[0]"},
		{"  h q[0];  // comment", "h q[0]"},
		{"\tcx q[0], q[1];\r", "cx q[0], q[1]"},
		{"// only a comment", ""},
		{"", ""},
		{"measure q[1];;", "measure q[1]"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Instruction
	}{
		{"h q[0];", Instruction{Op: OpH, Operands: []int{0}}},
		{"x q[12];", Instruction{Op: OpX, Operands: []int{12}}},
		{"cx q[1], q[2];", Instruction{Op: OpCX, Operands: []int{1, 2}}},
		{"cx q[1],q[2]", Instruction{Op: OpCX, Operands: []int{1, 2}}},
		{"measure q[1];", Instruction{Op: OpMeasure, Operands: []int{1}}},
		{"measure q[0] -> c[0];", Instruction{Op: OpMeasure, Operands: []int{0}}},
		{"  h   data[3] ; // trailing", Instruction{Op: OpH, Operands: []int{3}}},
	}

	for _, tt := range tests {
		got, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q): unexpected error %v", tt.input, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestParseCommentEquivalence(t *testing.T) {
	a, errA := Parse("h q[0];  // comment")
	b, errB := Parse("h q[0];")
	if errA != nil || errB != nil {
		t.Fatalf("unexpected errors: %v, %v", errA, errB)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("commented line parsed to %+v, plain line to %+v", a, b)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"z q[0];", ErrUnsupported},
		{"barrier q[0], q[1];", ErrUnsupported},
		{"H q[0];", ErrUnsupported},
		{"h q0;", ErrMalformed},
		{"cx q[0];", ErrMalformed},
		{"measure;", ErrMalformed},
		{"x q[-1];", ErrMalformed},
		{"hadamard q[0];", ErrMalformed},
	}

	for _, tt := range tests {
		_, err := Parse(tt.input)
		if !errors.Is(err, tt.want) {
			t.Errorf("Parse(%q): error %v, want %v", tt.input, err, tt.want)
		}
	}
}

func TestInstructionString(t *testing.T) {
	ins := Instruction{Op: OpCX, Operands: []int{0, 1}}
	if got := ins.String(); got != "cx 0 1" {
		t.Errorf("String() = %q, want %q", got, "cx 0 1")
	}
}

func TestIsHeader(t *testing.T) {
	for _, line := range []string{"OPENQASM 2.0", "openqasm 3", `include "qelib1.inc"`, `INCLUDE "x"`} {
		if !isHeader(line) {
			t.Errorf("isHeader(%q) = false, want true", line)
		}
	}
	if isHeader("h q[0]") {
		t.Error(`isHeader("h q[0]") = true, want false`)
	}
}
