// Package snapshot captures the published facts of a finalized target in a
// serialisable form and caches them on disk.
package snapshot

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"simplecc/internal/layout"
	"simplecc/internal/target"
)

// SchemaVersion is bumped whenever Snapshot changes shape.
const SchemaVersion uint16 = 2

// Snapshot is the exported surface of a target.Info.
type Snapshot struct {
	Schema uint16 `msgpack:"schema" json:"schema"`

	Triple     string `msgpack:"triple" json:"triple"`
	DataLayout string `msgpack:"data_layout" json:"data_layout"`
	CPU        string `msgpack:"cpu" json:"cpu"`
	Generation string `msgpack:"generation" json:"generation"`
	SoftFloat  bool   `msgpack:"soft_float" json:"soft_float"`

	SizeType    string `msgpack:"size_type" json:"size_type"`
	IntPtrType  string `msgpack:"intptr_type" json:"intptr_type"`
	PtrDiffType string `msgpack:"ptrdiff_type" json:"ptrdiff_type"`
	SizeWidth   uint32 `msgpack:"size_width" json:"size_width"`
	PtrWidth    uint32 `msgpack:"pointer_width" json:"pointer_width"`

	MaxAtomicPromoteWidth uint32 `msgpack:"max_atomic_promote_width" json:"max_atomic_promote_width"`
	MaxAtomicInlineWidth  uint32 `msgpack:"max_atomic_inline_width" json:"max_atomic_inline_width"`

	Registers   []string `msgpack:"registers" json:"registers"`
	Clobbers    string   `msgpack:"clobbers" json:"clobbers"`
	EHRegisters [2]int   `msgpack:"eh_registers" json:"eh_registers"`
	VaList      string   `msgpack:"va_list" json:"va_list"`
	SjLj        bool     `msgpack:"sjlj" json:"sjlj"`

	Scalars    []ScalarLayout `msgpack:"scalars" json:"scalars"`
	StackAlign int            `msgpack:"stack_align" json:"stack_align"`

	Macros []target.Macro `msgpack:"macros" json:"macros"`
}

// ScalarLayout is the size and ABI alignment of a primitive type, in bytes.
type ScalarLayout struct {
	Type  string `msgpack:"type" json:"type"`
	Size  int    `msgpack:"size" json:"size"`
	Align int    `msgpack:"align" json:"align"`
}

var snapshotScalars = []layout.Scalar{
	layout.Int(8), layout.Int(16), layout.Int(32), layout.Int(64),
	layout.Float(32), layout.Float(64), layout.Float(128),
	layout.Ptr(),
}

func scalarLayouts(info target.Info) ([]ScalarLayout, int) {
	dl := info.DataLayout()
	eng := layout.New(layout.TargetFor(info.Triple().String(), dl), dl)
	out := make([]ScalarLayout, len(snapshotScalars))
	for i, sc := range snapshotScalars {
		out[i] = ScalarLayout{Type: sc.String(), Size: eng.SizeOf(sc), Align: eng.AlignOf(sc)}
	}
	return out, eng.StackAlign()
}

// Take records the facts of info. Macros are rendered for lang.
func Take(info target.Info, lang target.LangOptions) *Snapshot {
	var mb target.MacroBuilder
	info.TargetDefines(lang, &mb)
	scalars, stackAlign := scalarLayouts(info)

	return &Snapshot{
		Schema:                SchemaVersion,
		Triple:                info.Triple().String(),
		DataLayout:            info.DataLayoutString(),
		CPU:                   info.CPU().String(),
		Generation:            target.CPUGenerationOf(info.CPU()).String(),
		SoftFloat:             info.HasFeature("softfloat"),
		SizeType:              info.SizeType().String(),
		IntPtrType:            info.IntPtrType().String(),
		PtrDiffType:           info.PtrDiffType().String(),
		SizeWidth:             info.TypeWidth(info.SizeType()),
		PtrWidth:              info.PointerWidth(),
		MaxAtomicPromoteWidth: info.MaxAtomicPromoteWidth(),
		MaxAtomicInlineWidth:  info.MaxAtomicInlineWidth(),
		Registers:             info.GCCRegNames(),
		Clobbers:              info.Clobbers(),
		EHRegisters:           [2]int{info.EHDataRegisterNumber(0), info.EHDataRegisterNumber(1)},
		VaList:                info.BuiltinVaListKind().String(),
		SjLj:                  info.HasSjLjLowering(),
		Scalars:               scalars,
		StackAlign:            stackAlign,
		Macros:                mb.Macros(),
	}
}

// Marshal encodes s as msgpack.
func (s *Snapshot) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a msgpack snapshot and checks its schema.
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Schema != SchemaVersion {
		return nil, &SchemaError{Got: s.Schema, Want: SchemaVersion}
	}
	return &s, nil
}

// SchemaError reports a snapshot written by an incompatible version.
type SchemaError struct {
	Got, Want uint16
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("snapshot schema %d, want %d", e.Got, e.Want)
}
