package target

import (
	"fmt"

	"simplecc/internal/diag"
)

type constraintFlags uint8

const (
	allowsRegister constraintFlags = 1 << iota
	allowsMemory
	allowsImmediate
	isReadWrite
	isEarlyClobber
)

// ConstraintInfo accumulates what an inline-assembly operand constraint
// permits.
type ConstraintInfo struct {
	Constraint string
	Name       string
	flags      constraintFlags
}

func NewConstraintInfo(constraint, name string) *ConstraintInfo {
	return &ConstraintInfo{Constraint: constraint, Name: name}
}

func (ci *ConstraintInfo) SetAllowsRegister()  { ci.flags |= allowsRegister }
func (ci *ConstraintInfo) SetAllowsMemory()    { ci.flags |= allowsMemory }
func (ci *ConstraintInfo) SetAllowsImmediate() { ci.flags |= allowsImmediate }
func (ci *ConstraintInfo) SetIsReadWrite()     { ci.flags |= isReadWrite }
func (ci *ConstraintInfo) SetEarlyClobber()    { ci.flags |= isEarlyClobber }

func (ci *ConstraintInfo) AllowsRegister() bool  { return ci.flags&allowsRegister != 0 }
func (ci *ConstraintInfo) AllowsMemory() bool    { return ci.flags&allowsMemory != 0 }
func (ci *ConstraintInfo) AllowsImmediate() bool { return ci.flags&allowsImmediate != 0 }
func (ci *ConstraintInfo) IsReadWrite() bool     { return ci.flags&isReadWrite != 0 }
func (ci *ConstraintInfo) EarlyClobber() bool    { return ci.flags&isEarlyClobber != 0 }

// ConstraintError reports the first letter no layer accepted.
type ConstraintError struct {
	Constraint string
	Offset     int
	Letter     byte
}

func (e *ConstraintError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Constraint == "" {
		return "empty inline assembly constraint"
	}
	return fmt.Sprintf("invalid inline assembly constraint %q: unknown letter '%c' at offset %d", e.Constraint, e.Letter, e.Offset)
}

// ValidateConstraintString checks a full operand constraint. Modifiers
// and the target-independent letters are handled here; every other letter
// is delegated to t.ValidateAsmConstraint. A rejected constraint is also
// reported through r when r is non-nil.
func ValidateConstraintString(t Info, constraint string, r diag.Reporter) (*ConstraintInfo, error) {
	ci := NewConstraintInfo(constraint, "")
	if constraint == "" {
		err := &ConstraintError{Constraint: constraint}
		if r != nil {
			diag.ReportError(r, diag.AsmEmptyConstraint, diag.NoArg, err.Error()).Emit()
		}
		return ci, err
	}
	for i := 0; i < len(constraint); i++ {
		c := constraint[i]
		switch c {
		case '=':
			continue
		case '+':
			ci.SetIsReadWrite()
			continue
		case '&':
			ci.SetEarlyClobber()
			continue
		case '%', ',', '*', '?', '!':
			continue
		case 'r':
			ci.SetAllowsRegister()
			continue
		case 'm', 'o', 'V', '<', '>':
			ci.SetAllowsMemory()
			continue
		case 'i', 'n', 's', 'E', 'F':
			ci.SetAllowsImmediate()
			continue
		case 'g', 'X':
			ci.SetAllowsRegister()
			ci.SetAllowsMemory()
			ci.SetAllowsImmediate()
			continue
		}
		if c >= '0' && c <= '9' {
			// matching constraint: ties to another operand's register
			ci.SetAllowsRegister()
			continue
		}
		if t.ValidateAsmConstraint(c, ci) {
			continue
		}
		err := &ConstraintError{Constraint: constraint, Offset: i, Letter: c}
		if r != nil {
			diag.ReportError(r, diag.AsmInvalidConstraint, diag.ArgRef{Index: -1, Text: constraint}, err.Error()).Emit()
		}
		return ci, err
	}
	return ci, nil
}
