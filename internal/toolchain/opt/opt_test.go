package opt

import (
	"errors"
	"testing"
)

func TestParseClassifies(t *testing.T) {
	list, err := Parse([]string{"-msoft-float", "-mfloat-abi=hard", "-target", "simple-unknown-linux", "-mcpu=v1", "main.c", "-mno-vector", "-mvector", "-Wall", "-mfloat-abi="})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []struct {
		id    ID
		value string
		index int
	}{
		{OptMSoftFloat, "", 0},
		{OptMFloatABIEQ, "hard", 1},
		{OptTargetEQ, "simple-unknown-linux", 2},
		{OptMCPUEQ, "v1", 4},
		{OptInput, "main.c", 5},
		{OptMNoFeature, "vector", 6},
		{OptMFeature, "vector", 7},
		{OptUnknown, "", 8},
		{OptMFloatABIEQ, "", 9},
	}
	args := list.Args()
	if len(args) != len(want) {
		t.Fatalf("got %d args, want %d", len(args), len(want))
	}
	for i, w := range want {
		a := args[i]
		if a.ID != w.id || a.Value() != w.value || a.Index != w.index {
			t.Errorf("arg %d = {%v %q %d}, want {%v %q %d}", i, a.ID, a.Value(), a.Index, w.id, w.value, w.index)
		}
	}
	if got := args[2].AsString(); got != "-target simple-unknown-linux" {
		t.Errorf("AsString() = %q", got)
	}
	if args[8].HasValue() {
		t.Errorf("unknown flag must not carry a value")
	}
}

func TestLastArgFamily(t *testing.T) {
	list, err := Parse([]string{"-mfloat-abi=soft", "-mhard-float", "-mcpu=x"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	a := list.LastArg(OptMSoftFloat, OptMHardFloat, OptMFloatABIEQ)
	if !a.Matches(OptMHardFloat) {
		t.Fatalf("LastArg = %v, want -mhard-float", a.ID)
	}
	if list.LastArg(OptTargetEQ) != nil {
		t.Fatalf("expected nil for absent option")
	}
	if got := len(list.Filtered(OptMFloatABIEQ, OptMHardFloat)); got != 2 {
		t.Fatalf("Filtered returned %d args, want 2", got)
	}
}

func TestParseMissingValue(t *testing.T) {
	_, err := Parse([]string{"-msoft-float", "-target"})
	var merr *MissingValueError
	if !errors.As(err, &merr) || merr.Index != 1 {
		t.Fatalf("expected MissingValueError at 1, got %v", err)
	}
}
