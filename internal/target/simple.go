package target

import (
	"slices"

	"simplecc/internal/diag"
	"simplecc/internal/layout"
	"simplecc/internal/triple"
)

// SimpleArch is the architecture component of Simple triples and the
// family identifier answered by HasFeature.
const SimpleArch = "simple"

// SimpleDataLayout: little endian, ELF mangling, 32-bit pointers, 64-bit
// aligned i64 and f128, native 32-bit integers, 64-bit stack alignment.
const SimpleDataLayout = "e-m:e-p:32:32-i64:64-f128:64-n32-S64"

const (
	// Up to 32 bits are lock-free; atomics up to 64 bits go through libcalls.
	simpleMaxAtomicPromoteWidth = 64
	simpleMaxAtomicInlineWidth  = 32
)

// FeatureSoftFloat is the feature token that selects the soft-float ABI.
const FeatureSoftFloat = "+soft-float"

var simpleGCCRegNames = [32]string{
	"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7", "r8", "r9", "r10",
	"r11", "r12", "r13", "r14", "r15", "r16", "r17", "r18", "r19", "r20", "r21",
	"r22", "r23", "r24", "r25", "r26", "r27", "r28", "r29", "r30", "r31",
}

// CPUKind enumerates the Simple CPU variants.
type CPUKind uint8

const (
	CPUGeneric CPUKind = iota
)

func (k CPUKind) String() string {
	switch k {
	case CPUGeneric:
		return "generic"
	}
	return "unknown"
}

// CPUGeneration selects the generation-specific macro set.
type CPUGeneration uint8

const (
	CPUGenV1 CPUGeneration = iota + 1
)

func (g CPUGeneration) String() string {
	switch g {
	case CPUGenV1:
		return "v1"
	}
	return "unknown"
}

// CPUGenerationOf maps every CPUKind to its generation. An unmapped kind
// is an unreachable state and panics.
func CPUGenerationOf(k CPUKind) CPUGeneration {
	switch k {
	case CPUGeneric:
		return CPUGenV1
	}
	panic("target: unexpected CPU kind " + k.String())
}

// CPUKindOf resolves a CPU name. "generic" and every unknown name map to
// CPUGeneric.
func CPUKindOf(name string) CPUKind {
	switch name {
	case "generic":
		return CPUGeneric
	}
	return CPUGeneric
}

// knownSimpleFeatures lists the feature names HandleTargetFeatures accepts
// without a warning.
var knownSimpleFeatures = map[string]bool{
	"soft-float": true,
}

// Simple is the configuration-phase state of a Simple target.
type Simple struct {
	triple    triple.Triple
	dl        layout.DataLayout
	sizeType  IntType
	intPtr    IntType
	ptrDiff   IntType
	cpu       CPUKind
	softFloat bool
}

// NewSimple constructs a Simple target for t. It never fails.
func NewSimple(t triple.Triple, opts Options) *Simple {
	s := &Simple{
		triple: t,
		dl:     layout.MustParseDataLayout(SimpleDataLayout),
		cpu:    CPUGeneric,
	}
	// NetBSD and OpenBSD keep long for the pointer-sized types.
	switch t.OS {
	case triple.NetBSD, triple.OpenBSD:
		s.sizeType = UnsignedLong
		s.intPtr = SignedLong
		s.ptrDiff = SignedLong
	default:
		s.sizeType = UnsignedInt
		s.intPtr = SignedInt
		s.ptrDiff = SignedInt
	}
	return s
}

func newSimpleConfigurable(t triple.Triple, opts Options) Configurable {
	return NewSimple(t, opts)
}

// SetCPU stores the resolved kind; last write wins. It reports false when
// the name resolved to CPUGeneric, which includes "generic" itself.
func (s *Simple) SetCPU(name string) bool {
	s.cpu = CPUKindOf(name)
	return s.cpu != CPUGeneric
}

// HandleTargetFeatures turns SoftFloat on when "+soft-float" is present.
// SoftFloat is never turned off again. Unknown features are reported as
// warnings; the call always succeeds.
func (s *Simple) HandleTargetFeatures(features []string, r diag.Reporter) bool {
	if slices.Contains(features, FeatureSoftFloat) {
		s.softFloat = true
	}
	if r == nil {
		return true
	}
	for _, f := range features {
		if len(f) < 2 || (f[0] != '+' && f[0] != '-') || !knownSimpleFeatures[f[1:]] {
			diag.ReportWarning(r, diag.TgtUnknownFeature, diag.ArgRef{Index: -1, Text: f},
				"unknown target feature '"+f+"' for "+SimpleArch).Emit()
		}
	}
	return true
}

// SoftFloat reports the current soft-float state.
func (s *Simple) SoftFloat() bool { return s.softFloat }

// Finalize freezes the configuration.
func (s *Simple) Finalize() Info {
	return &SimpleInfo{
		triple:    s.triple,
		dl:        s.dl.Clone(),
		sizeType:  s.sizeType,
		intPtr:    s.intPtr,
		ptrDiff:   s.ptrDiff,
		cpu:       s.cpu,
		softFloat: s.softFloat,
	}
}

// SimpleInfo is the frozen, read-only description of a Simple target.
type SimpleInfo struct {
	triple    triple.Triple
	dl        layout.DataLayout
	sizeType  IntType
	intPtr    IntType
	ptrDiff   IntType
	cpu       CPUKind
	softFloat bool
}

var _ Info = (*SimpleInfo)(nil)

func (i *SimpleInfo) Triple() triple.Triple { return i.triple }
func (i *SimpleInfo) DataLayoutString() string { return SimpleDataLayout }
func (i *SimpleInfo) DataLayout() layout.DataLayout { return i.dl.Clone() }
func (i *SimpleInfo) SizeType() IntType { return i.sizeType }
func (i *SimpleInfo) IntPtrType() IntType { return i.intPtr }
func (i *SimpleInfo) PtrDiffType() IntType { return i.ptrDiff }
func (i *SimpleInfo) PointerWidth() uint32 { return i.dl.PointerBits }
func (i *SimpleInfo) MaxAtomicPromoteWidth() uint32 { return simpleMaxAtomicPromoteWidth }
func (i *SimpleInfo) MaxAtomicInlineWidth() uint32 { return simpleMaxAtomicInlineWidth }
func (i *SimpleInfo) CPU() CPUKind { return i.cpu }
func (i *SimpleInfo) SoftFloat() bool { return i.softFloat }
func (i *SimpleInfo) HasSjLjLowering() bool { return true }
func (i *SimpleInfo) BuiltinVaListKind() BuiltinVaListKind { return VoidPtrBuiltinVaList }

// TypeWidth follows ILP32: int, long and pointers are 32 bits.
func (i *SimpleInfo) TypeWidth(t IntType) uint32 {
	switch t {
	case SignedChar, UnsignedChar:
		return 8
	case SignedShort, UnsignedShort:
		return 16
	case SignedInt, UnsignedInt, SignedLong, UnsignedLong:
		return 32
	case SignedLongLong, UnsignedLongLong:
		return 64
	}
	return 0
}

// GCCRegNames returns a copy of the register table; index is the
// hardware register number.
func (i *SimpleInfo) GCCRegNames() []string {
	return slices.Clone(simpleGCCRegNames[:])
}

// GCCRegAliases is empty: Simple defines no alternate register spellings.
func (i *SimpleInfo) GCCRegAliases() []GCCRegAlias {
	return nil
}

func (i *SimpleInfo) HasFeature(name string) bool {
	switch name {
	case "softfloat":
		return i.softFloat
	case SimpleArch:
		return true
	}
	return false
}

func (i *SimpleInfo) IsValidCPUName(name string) bool {
	return CPUKindOf(name) != CPUGeneric
}

// TargetBuiltins is empty until the backend grows builtins.
func (i *SimpleInfo) TargetBuiltins() []Builtin {
	return nil
}

// TargetDefines writes the Simple macro set into sink.
func (i *SimpleInfo) TargetDefines(lang LangOptions, sink MacroSink) {
	DefineStd(sink, SimpleArch, lang)
	sink.DefineMacro("__REGISTER_PREFIX__", "")

	if i.softFloat {
		sink.DefineMacro("SOFT_FLOAT", "1")
	}

	switch CPUGenerationOf(i.cpu) {
	case CPUGenV1:
		sink.DefineMacro("__simple")
		// Bare-word macros collide with glibc headers on Linux.
		if i.triple.OS != triple.Linux {
			sink.DefineMacro("__simple__")
		}
	}
}

// ValidateAsmConstraint classifies a single Simple constraint letter.
func (i *SimpleInfo) ValidateAsmConstraint(c byte, info *ConstraintInfo) bool {
	switch c {
	case 'I', // signed 13-bit constant
		'J', // zero
		'K', // 32-bit constant with the low 12 bits clear
		'L', // 11-bit signed immediate
		'M', // 19-bit signed immediate
		'N', // same as 'K' but zero-extended
		'O': // the constant 4096
		return true
	case 'f', 'e':
		info.SetAllowsRegister()
		return true
	}
	return false
}

// Clobbers is empty; no registers are implicitly clobbered yet.
func (i *SimpleInfo) Clobbers() string {
	return ""
}

// EHDataRegisterNumber maps exception data register 0 and 1 to r24 and
// r25; -1 means no such register.
func (i *SimpleInfo) EHDataRegisterNumber(regNo uint32) int {
	switch regNo {
	case 0:
		return 24
	case 1:
		return 25
	}
	return -1
}
