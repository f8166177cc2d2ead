package snapshot

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vmihailenco/msgpack/v5"

	"simplecc/internal/target"
	"simplecc/internal/triple"
)

func simpleSnapshot(t *testing.T, tr string, features ...string) *Snapshot {
	t.Helper()
	s := target.NewSimple(triple.MustParse(tr), target.Options{})
	s.HandleTargetFeatures(features, nil)
	return Take(s.Finalize(), target.LangOptions{})
}

func TestTakeSimple(t *testing.T) {
	snap := simpleSnapshot(t, "simple-unknown-netbsd", target.FeatureSoftFloat)
	if snap.SizeType != "long unsigned int" || snap.PtrDiffType != "long int" {
		t.Errorf("type profile = %q/%q", snap.SizeType, snap.PtrDiffType)
	}
	if snap.MaxAtomicPromoteWidth != 64 || snap.MaxAtomicInlineWidth != 32 {
		t.Errorf("atomic widths = %d/%d", snap.MaxAtomicPromoteWidth, snap.MaxAtomicInlineWidth)
	}
	if len(snap.Registers) != 32 || snap.Registers[31] != "r31" {
		t.Errorf("registers = %v", snap.Registers)
	}
	if snap.EHRegisters != [2]int{24, 25} {
		t.Errorf("EH registers = %v", snap.EHRegisters)
	}
	if !snap.SoftFloat || snap.Generation != "v1" || snap.CPU != "generic" {
		t.Errorf("unexpected cpu/float state: %+v", snap)
	}
}

func TestTakeScalarLayouts(t *testing.T) {
	snap := simpleSnapshot(t, "simple-unknown-linux")
	want := []ScalarLayout{
		{"i8", 1, 1}, {"i16", 2, 2}, {"i32", 4, 4}, {"i64", 8, 8},
		{"f32", 4, 4}, {"f64", 8, 8}, {"f128", 16, 8},
		{"ptr", 4, 4},
	}
	if diff := cmp.Diff(want, snap.Scalars); diff != "" {
		t.Errorf("scalars (-want +got):\n%s", diff)
	}
	if snap.StackAlign != 8 {
		t.Errorf("StackAlign = %d", snap.StackAlign)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	snap := simpleSnapshot(t, "simple-unknown-linux")
	data, err := snap.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(snap, got); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalSchemaMismatch(t *testing.T) {
	data, err := msgpack.Marshal(&Snapshot{Schema: SchemaVersion + 1})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	_, err = Unmarshal(data)
	var serr *SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
}

func TestDiskCache(t *testing.T) {
	c, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	key := KeyFor("simple-unknown-linux", "generic", []string{target.FeatureSoftFloat}, false)
	if key == KeyFor("simple-unknown-linux", "generic", nil, false) {
		t.Fatalf("features must change the key")
	}

	if _, ok, err := c.Get(key); err != nil || ok {
		t.Fatalf("expected miss on empty cache, ok=%v err=%v", ok, err)
	}
	snap := simpleSnapshot(t, "simple-unknown-linux", target.FeatureSoftFloat)
	if err := c.Put(key, snap); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := c.Get(key)
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if diff := cmp.Diff(snap, got); diff != "" {
		t.Fatalf("cached snapshot mismatch (-want +got):\n%s", diff)
	}

	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if _, ok, _ := c.Get(key); ok {
		t.Fatalf("expected miss after DropAll")
	}
}
