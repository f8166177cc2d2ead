// Package simple holds the driver-side helpers for the Simple architecture:
// float ABI resolution and the target feature list handed to the target
// description.
package simple

import (
	"fmt"

	"simplecc/internal/diag"
	"simplecc/internal/toolchain/opt"
)

// FloatABI is the floating-point calling convention.
type FloatABI uint8

const (
	FloatABIInvalid FloatABI = iota
	FloatABISoft
	FloatABIHard
)

func (a FloatABI) String() string {
	switch a {
	case FloatABISoft:
		return "soft"
	case FloatABIHard:
		return "hard"
	}
	return "invalid"
}

// ParseFloatABI matches "soft" and "hard" case-sensitively; anything else
// is FloatABIInvalid.
func ParseFloatABI(s string) FloatABI {
	switch s {
	case "soft":
		return FloatABISoft
	case "hard":
		return FloatABIHard
	}
	return FloatABIInvalid
}

// Resolution is the outcome of ResolveFloatABI. ABI is never
// FloatABIInvalid; Diag is set when the user spelled an unknown value.
type Resolution struct {
	ABI  FloatABI
	Arg  *opt.Arg
	Diag *diag.Diagnostic
}

// ResolveFloatABI picks the float ABI from the last of -msoft-float,
// -mhard-float and -mfloat-abi=. Only the hard-float ABI is standardized
// for Simple, so it is the default when nothing (or nothing valid) is
// given. The resolver never reports; the caller decides what to do with
// Resolution.Diag.
func ResolveFloatABI(args *opt.ArgList) Resolution {
	res := Resolution{ABI: FloatABIInvalid}
	if a := args.LastArg(opt.OptMSoftFloat, opt.OptMHardFloat, opt.OptMFloatABIEQ); a != nil {
		res.Arg = a
		switch {
		case a.Matches(opt.OptMSoftFloat):
			res.ABI = FloatABISoft
		case a.Matches(opt.OptMHardFloat):
			res.ABI = FloatABIHard
		default:
			res.ABI = ParseFloatABI(a.Value())
			if res.ABI == FloatABIInvalid && a.Value() != "" {
				d := diag.NewError(diag.DrvInvalidFloatABI,
					diag.ArgRef{Index: a.Index, Text: a.AsString()},
					fmt.Sprintf("invalid float ABI '%s'", a.AsString())).
					WithNote(diag.NoArg, "valid values are 'soft' and 'hard'")
				res.Diag = &d
				res.ABI = FloatABIHard
			}
		}
	}

	if res.ABI == FloatABIInvalid {
		res.ABI = FloatABIHard
	}
	return res
}

// Driver is the slice of the compiler driver the helpers need.
type Driver interface {
	Reporter() diag.Reporter
}

// FloatABIFor resolves the float ABI and forwards a malformed-value
// diagnostic to the driver's reporter.
func FloatABIFor(d Driver, args *opt.ArgList) FloatABI {
	res := ResolveFloatABI(args)
	if res.Diag != nil && d != nil {
		diag.Emit(d.Reporter(), *res.Diag)
	}
	return res.ABI
}
