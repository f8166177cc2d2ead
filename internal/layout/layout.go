package layout

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"
)

// ScalarKind classifies the primitive types a data layout describes.
type ScalarKind uint8

const (
	ScalarInt ScalarKind = iota + 1
	ScalarFloat
	ScalarPointer
)

// Scalar is a primitive type of a given bit width.
type Scalar struct {
	Kind ScalarKind
	Bits uint32 // ignored for pointers
}

func Int(bits uint32) Scalar   { return Scalar{Kind: ScalarInt, Bits: bits} }
func Float(bits uint32) Scalar { return Scalar{Kind: ScalarFloat, Bits: bits} }
func Ptr() Scalar              { return Scalar{Kind: ScalarPointer} }

func (s Scalar) String() string {
	switch s.Kind {
	case ScalarInt:
		return fmt.Sprintf("i%d", s.Bits)
	case ScalarFloat:
		return fmt.Sprintf("f%d", s.Bits)
	case ScalarPointer:
		return "ptr"
	}
	return "invalid"
}

// ParseScalar reads a scalar spelling as printed by Scalar.String:
// "i<bits>", "f<bits>" or "ptr".
func ParseScalar(s string) (Scalar, error) {
	if s == "ptr" {
		return Ptr(), nil
	}
	if len(s) < 2 || (s[0] != 'i' && s[0] != 'f') {
		return Scalar{}, fmt.Errorf("unknown scalar type %q", s)
	}
	bits, err := strconv.ParseUint(s[1:], 10, 32)
	if err != nil || bits == 0 {
		return Scalar{}, fmt.Errorf("unknown scalar type %q", s)
	}
	if s[0] == 'i' {
		return Int(uint32(bits)), nil
	}
	return Float(uint32(bits)), nil
}

// TypeLayout is the ABI layout of a type for a specific Target.
type TypeLayout struct {
	Size  int
	Align int

	// Struct-only:
	FieldOffsets []int
	FieldAligns  []int
}

// LayoutEngine computes memory layout for scalars and aggregates of
// scalars under one data layout.
type LayoutEngine struct {
	Target Target
	DL     DataLayout
}

// New creates a new LayoutEngine for the specified target.
func New(target Target, dl DataLayout) *LayoutEngine {
	return &LayoutEngine{
		Target: target,
		DL:     dl,
	}
}

// LayoutOf returns the allocation size and ABI alignment of s in bytes.
func (e *LayoutEngine) LayoutOf(s Scalar) TypeLayout {
	if e == nil {
		return TypeLayout{Size: 0, Align: 1}
	}
	switch s.Kind {
	case ScalarPointer:
		return e.ptrLayout()
	case ScalarInt:
		return scalarLayout(s.Bits, e.DL.IntAlign(s.Bits))
	case ScalarFloat:
		return scalarLayout(s.Bits, e.DL.FloatAlign(s.Bits))
	}
	return TypeLayout{Size: 0, Align: 1}
}

// SizeOf returns the allocation size of s in bytes.
func (e *LayoutEngine) SizeOf(s Scalar) int {
	return e.LayoutOf(s).Size
}

// AlignOf returns the ABI alignment of s in bytes.
func (e *LayoutEngine) AlignOf(s Scalar) int {
	return e.LayoutOf(s).Align
}

func (e *LayoutEngine) ptrLayout() TypeLayout {
	ptrSize := e.Target.PtrSize
	ptrAlign := e.Target.PtrAlign
	if ptrSize <= 0 {
		ptrSize = toBytes(e.DL.PointerBits)
	}
	if ptrAlign <= 0 {
		ptrAlign = toBytes(e.DL.PointerAlign.ABI)
	}
	if ptrAlign <= 0 {
		ptrAlign = ptrSize
	}
	return TypeLayout{Size: ptrSize, Align: ptrAlign}
}

func scalarLayout(bits, alignBits uint32) TypeLayout {
	store := toBytes(bits)
	if store <= 0 {
		return TypeLayout{Size: 0, Align: 1}
	}
	align := toBytes(alignBits)
	if align <= 0 {
		align = 1
	}
	return TypeLayout{Size: roundUp(store, align), Align: align}
}

func toBytes(bits uint32) int {
	n, err := safecast.Conv[int]((bits + 7) / 8)
	if err != nil {
		return 0
	}
	return n
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	r := n % align
	if r == 0 {
		return n
	}
	return n + (align - r)
}

// ArrayLayout lays out length elements of elem.
func (e *LayoutEngine) ArrayLayout(elem Scalar, length uint32) TypeLayout {
	elemLayout := e.LayoutOf(elem)
	elemAlign := elemLayout.Align
	if elemAlign <= 0 {
		elemAlign = 1
	}
	stride := roundUp(elemLayout.Size, elemAlign)
	n, err := safecast.Conv[int](length)
	if err != nil || n < 0 {
		n = 0
	}
	return TypeLayout{
		Size:  stride * n,
		Align: elemAlign,
	}
}

// StructLayout lays out fields in declaration order with C rules; packed
// drops all padding and uses alignment 1.
func (e *LayoutEngine) StructLayout(fields []Scalar, packed bool) TypeLayout {
	if len(fields) == 0 {
		return TypeLayout{Size: 0, Align: 1}
	}
	offsets := make([]int, len(fields))
	aligns := make([]int, len(fields))

	if packed {
		size := 0
		for i := range fields {
			fl := e.LayoutOf(fields[i])
			offsets[i] = size
			aligns[i] = 1
			size += fl.Size
		}
		return TypeLayout{
			Size:         size,
			Align:        1,
			FieldOffsets: offsets,
			FieldAligns:  aligns,
		}
	}

	size := 0
	align := 1
	for i := range fields {
		fl := e.LayoutOf(fields[i])
		fAlign := fl.Align
		if fAlign <= 0 {
			fAlign = 1
		}
		size = roundUp(size, fAlign)
		offsets[i] = size
		aligns[i] = fAlign
		size += fl.Size
		align = max(align, fAlign)
	}
	size = roundUp(size, align)

	return TypeLayout{
		Size:         size,
		Align:        align,
		FieldOffsets: offsets,
		FieldAligns:  aligns,
	}
}

// StackAlign returns the natural stack alignment in bytes, 0 if unspecified.
func (e *LayoutEngine) StackAlign() int {
	return toBytes(e.DL.StackAlignBits)
}
