package layout

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const simpleLayout = "e-m:e-p:32:32-i64:64-f128:64-n32-S64"

func TestParseDataLayoutSimple(t *testing.T) {
	dl, err := ParseDataLayout(simpleLayout)
	if err != nil {
		t.Fatalf("ParseDataLayout: %v", err)
	}
	if dl.BigEndian {
		t.Errorf("expected little endian")
	}
	if dl.Mangling != ManglingELF {
		t.Errorf("Mangling = %q, want 'e'", dl.Mangling)
	}
	if dl.PointerBits != 32 || dl.PointerAlign.ABI != 32 {
		t.Errorf("pointer = %d/%+v, want 32/32", dl.PointerBits, dl.PointerAlign)
	}
	if got := dl.IntAlign(64); got != 64 {
		t.Errorf("IntAlign(64) = %d, want 64", got)
	}
	if got := dl.FloatAlign(128); got != 64 {
		t.Errorf("FloatAlign(128) = %d, want 64", got)
	}
	if diff := cmp.Diff([]uint32{32}, dl.NativeIntBits); diff != "" {
		t.Errorf("native ints mismatch (-want +got):\n%s", diff)
	}
	if dl.StackAlignBits != 64 {
		t.Errorf("StackAlignBits = %d, want 64", dl.StackAlignBits)
	}
	if got := dl.Canonical(); got != simpleLayout {
		t.Errorf("Canonical() = %q, want %q", got, simpleLayout)
	}
}

func TestParseDataLayoutErrors(t *testing.T) {
	tests := []struct {
		in   string
		kind LayoutErrorKind
	}{
		{"e-q:1", LayoutErrUnknownSpec},
		{"e-p:32", LayoutErrMissingField},
		{"e-i64:x", LayoutErrBadNumber},
		{"e-i99999999999:64", LayoutErrBadNumber},
		{"e-S12", LayoutErrBadAlign},
		{"e--n32", LayoutErrMissingField},
		{"e-m:z", LayoutErrUnknownSpec},
	}
	for _, tt := range tests {
		_, err := ParseDataLayout(tt.in)
		var lerr *LayoutError
		if !errors.As(err, &lerr) {
			t.Fatalf("ParseDataLayout(%q) error = %v, want *LayoutError", tt.in, err)
		}
		if lerr.Kind != tt.kind {
			t.Errorf("ParseDataLayout(%q) kind = %d, want %d (%v)", tt.in, lerr.Kind, tt.kind, err)
		}
	}
}

func TestDataLayoutCloneIsDeep(t *testing.T) {
	orig := MustParseDataLayout(simpleLayout)
	c := orig.Clone()
	c.IntAligns[64] = Align{ABI: 32, Pref: 32}
	c.FloatAligns[32] = Align{ABI: 8, Pref: 8}
	c.NativeIntBits = append(c.NativeIntBits[:0], 16)

	if orig.IntAlign(64) != 64 || orig.FloatAlign(32) != 32 {
		t.Errorf("original aligns changed: i64=%d f32=%d", orig.IntAlign(64), orig.FloatAlign(32))
	}
	if !orig.IsNativeInt(32) || orig.IsNativeInt(16) {
		t.Errorf("original native ints changed: %v", orig.NativeIntBits)
	}
	if c.IntAlign(64) != 32 {
		t.Errorf("clone i64 align = %d, want 32", c.IntAlign(64))
	}
}

func TestLayoutEngineScalars(t *testing.T) {
	dl := MustParseDataLayout(simpleLayout)
	e := New(TargetFor("simple-unknown-linux", dl), dl)

	tests := []struct {
		s     Scalar
		size  int
		align int
	}{
		{Int(8), 1, 1},
		{Int(32), 4, 4},
		{Int(64), 8, 8},
		{Float(64), 8, 8},
		{Float(128), 16, 8},
		{Ptr(), 4, 4},
	}
	for _, tt := range tests {
		got := e.LayoutOf(tt.s)
		if got.Size != tt.size || got.Align != tt.align {
			t.Errorf("LayoutOf(%s) = %d/%d, want %d/%d", tt.s, got.Size, got.Align, tt.size, tt.align)
		}
	}
	if e.StackAlign() != 8 {
		t.Errorf("StackAlign() = %d, want 8", e.StackAlign())
	}
}

func TestStructLayout(t *testing.T) {
	dl := MustParseDataLayout(simpleLayout)
	e := New(TargetFor("simple-unknown-linux", dl), dl)

	got := e.StructLayout([]Scalar{Int(8), Int(64), Ptr()}, false)
	want := TypeLayout{Size: 24, Align: 8, FieldOffsets: []int{0, 8, 16}, FieldAligns: []int{1, 8, 4}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("struct layout mismatch (-want +got):\n%s", diff)
	}

	packed := e.StructLayout([]Scalar{Int(8), Int(64), Ptr()}, true)
	if packed.Size != 13 || packed.Align != 1 {
		t.Fatalf("packed layout = %d/%d, want 13/1", packed.Size, packed.Align)
	}

	arr := e.ArrayLayout(Float(128), 3)
	if arr.Size != 48 || arr.Align != 8 {
		t.Fatalf("array layout = %d/%d, want 48/8", arr.Size, arr.Align)
	}
}

func TestParseScalar(t *testing.T) {
	for _, in := range []string{"i8", "i64", "f128", "ptr"} {
		sc, err := ParseScalar(in)
		if err != nil {
			t.Fatalf("ParseScalar(%q): %v", in, err)
		}
		if sc.String() != in {
			t.Errorf("ParseScalar(%q) = %s", in, sc)
		}
	}
	for _, in := range []string{"", "i", "i0", "u32", "fx", "pointer"} {
		if _, err := ParseScalar(in); err == nil {
			t.Errorf("ParseScalar(%q): expected error", in)
		}
	}
}
