// Package target publishes per-architecture facts (data layout, type
// widths, registers, macros, inline-assembly constraints) and absorbs the
// CPU and feature selections made by the driver.
//
// A target is configured once through a Configurable obtained from a
// Registry and then frozen with Finalize; the resulting Info is read-only
// and may be shared between goroutines.
package target

import (
	"simplecc/internal/diag"
	"simplecc/internal/layout"
	"simplecc/internal/triple"
)

// IntType names a C integer type used for size_t, intptr_t and friends.
type IntType uint8

const (
	NoInt IntType = iota
	SignedChar
	UnsignedChar
	SignedShort
	UnsignedShort
	SignedInt
	UnsignedInt
	SignedLong
	UnsignedLong
	SignedLongLong
	UnsignedLongLong
)

func (t IntType) String() string {
	switch t {
	case SignedChar:
		return "signed char"
	case UnsignedChar:
		return "unsigned char"
	case SignedShort:
		return "short"
	case UnsignedShort:
		return "unsigned short"
	case SignedInt:
		return "int"
	case UnsignedInt:
		return "unsigned int"
	case SignedLong:
		return "long int"
	case UnsignedLong:
		return "long unsigned int"
	case SignedLongLong:
		return "long long int"
	case UnsignedLongLong:
		return "long long unsigned int"
	}
	return "<none>"
}

// IsSigned reports whether t is a signed type.
func (t IntType) IsSigned() bool {
	switch t {
	case SignedChar, SignedShort, SignedInt, SignedLong, SignedLongLong:
		return true
	}
	return false
}

// BuiltinVaListKind selects the va_list representation.
type BuiltinVaListKind uint8

const (
	CharPtrBuiltinVaList BuiltinVaListKind = iota
	VoidPtrBuiltinVaList
	AArch64ABIBuiltinVaList
	X86_64ABIBuiltinVaList
)

func (k BuiltinVaListKind) String() string {
	switch k {
	case CharPtrBuiltinVaList:
		return "char*"
	case VoidPtrBuiltinVaList:
		return "void*"
	case AArch64ABIBuiltinVaList:
		return "aarch64-abi"
	case X86_64ABIBuiltinVaList:
		return "x86_64-abi"
	}
	return "unknown"
}

// GCCRegAlias maps alternate spellings to a canonical register name.
type GCCRegAlias struct {
	Aliases  []string
	Register string
}

// Builtin describes a target-specific builtin function.
type Builtin struct {
	Name       string
	Signature  string
	Attributes string
}

// Options is the target-options record handed over by the driver.
type Options struct {
	CPU      string
	Features []string
	ABI      string
}

// Info is the read-only capability surface every architecture publishes.
type Info interface {
	Triple() triple.Triple
	DataLayoutString() string
	DataLayout() layout.DataLayout

	SizeType() IntType
	IntPtrType() IntType
	PtrDiffType() IntType
	// TypeWidth returns the width in bits of t on this target.
	TypeWidth(t IntType) uint32
	PointerWidth() uint32

	MaxAtomicPromoteWidth() uint32
	MaxAtomicInlineWidth() uint32

	GCCRegNames() []string
	GCCRegAliases() []GCCRegAlias

	HasFeature(name string) bool
	IsValidCPUName(name string) bool
	CPU() CPUKind

	TargetDefines(lang LangOptions, sink MacroSink)

	ValidateAsmConstraint(c byte, info *ConstraintInfo) bool
	Clobbers() string
	EHDataRegisterNumber(regNo uint32) int

	HasSjLjLowering() bool
	BuiltinVaListKind() BuiltinVaListKind
	TargetBuiltins() []Builtin
}

// Configurable holds the construction-time mutators. It is used during
// target setup only; Finalize freezes the state into an Info.
type Configurable interface {
	SetCPU(name string) bool
	HandleTargetFeatures(features []string, r diag.Reporter) bool
	Finalize() Info
}
