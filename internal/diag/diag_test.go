package diag

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormatShortDiagnostics(t *testing.T) {
	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     TgtUnknownCPU,
			Message:  "unknown CPU 'v9'",
			Primary:  ArgRef{Index: 3, Text: "-mcpu=v9"},
		},
		{
			Severity: SevError,
			Code:     DrvInvalidFloatABI,
			Message:  "invalid float ABI\n'-mfloat-abi=x'",
			Primary:  ArgRef{Index: 1, Text: "-mfloat-abi=x"},
			Notes:    []Note{{Msg: "expected soft or hard"}},
		},
	}

	expected := "error DRV1001 -mfloat-abi=x: invalid float ABI '-mfloat-abi=x'\n" +
		"note DRV1001 expected soft or hard\n" +
		"warning TGT2002 -mcpu=v9: unknown CPU 'v9'"

	if got := FormatShortDiagnostics(diags, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
	if got := FormatShortDiagnostics(nil, true); got != "" {
		t.Fatalf("expected empty output for no diagnostics, got %q", got)
	}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		UnknownCode:          "E0000",
		DrvInvalidFloatABI:   "DRV1001",
		TgtUnknownCPU:        "TGT2002",
		AsmInvalidConstraint: "ASM3001",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("Code(%d).ID() = %q, want %q", code, got, want)
		}
	}
	if got := Code(9999).Title(); got != "Unknown error" {
		t.Errorf("unknown code title = %q", got)
	}
}

func TestBagLimitAndSort(t *testing.T) {
	bag := NewBag(2)
	r := BagReporter{Bag: bag}
	ReportWarning(r, TgtUnknownCPU, ArgRef{Index: 5, Text: "-mcpu=x"}, "w").Emit()
	ReportError(r, DrvInvalidFloatABI, ArgRef{Index: 2, Text: "-mfloat-abi=y"}, "e").Emit()
	ReportError(r, DrvInvalidFloatABI, ArgRef{Index: 0, Text: "-mfloat-abi=z"}, "dropped").Emit()

	if bag.Len() != 2 {
		t.Fatalf("expected bag to stop at its limit, got %d items", bag.Len())
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("expected both errors and warnings")
	}
	bag.Sort()
	got := []Code{bag.Items()[0].Code, bag.Items()[1].Code}
	want := []Code{DrvInvalidFloatABI, TgtUnknownCPU}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sorted codes mismatch (-want +got):\n%s", diff)
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(10)
	b := ReportError(BagReporter{Bag: bag}, AsmInvalidConstraint, NoArg, "bad").
		WithNote(NoArg, "letter 'z'")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("expected single emission, got %d", bag.Len())
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Fatalf("expected note to be carried, got %+v", bag.Items()[0])
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	arg := ArgRef{Index: 1, Text: "-mfloat-abi=q"}
	r.Report(DrvInvalidFloatABI, SevError, arg, "invalid", nil)
	r.Report(DrvInvalidFloatABI, SevError, arg, "invalid", nil)
	r.Report(DrvInvalidFloatABI, SevError, ArgRef{Index: 4, Text: "-mfloat-abi=q"}, "invalid", nil)
	if bag.Len() != 2 {
		t.Fatalf("expected 2 unique diagnostics, got %d", bag.Len())
	}
}

func TestBagMergeAndDedup(t *testing.T) {
	a, b := NewBag(1), NewBag(4)
	arg := ArgRef{Index: 1, Text: "-mfloat-abi=q"}
	BagReporter{Bag: a}.Report(DrvInvalidFloatABI, SevError, arg, "invalid", nil)
	BagReporter{Bag: b}.Report(DrvInvalidFloatABI, SevError, arg, "invalid", nil)
	BagReporter{Bag: b}.Report(DrvUnknownArgument, SevWarning, ArgRef{Index: 0, Text: "-fx"}, "unknown", nil)

	a.Merge(b)
	a.Merge(nil)
	if a.Len() != 3 {
		t.Fatalf("merge grew to %d items, want 3", a.Len())
	}
	a.Dedup()
	if a.Len() != 2 {
		t.Fatalf("dedup left %d items, want 2", a.Len())
	}
}

func TestArgRefString(t *testing.T) {
	if got := NoArg.String(); got != "<none>" {
		t.Errorf("NoArg.String() = %q", got)
	}
	if !NoArg.IsZero() {
		t.Errorf("NoArg should be zero")
	}
	if got := (ArgRef{Index: 2, Text: "-msoft-float"}).String(); got != `argv[2] "-msoft-float"` {
		t.Errorf("ArgRef.String() = %q", got)
	}
}
