package layout

import (
	"fmt"
)

// LayoutErrorKind enumerates data layout parse failures.
type LayoutErrorKind uint8

const (
	// LayoutErrUnknownSpec indicates a component with an unrecognised prefix.
	LayoutErrUnknownSpec LayoutErrorKind = iota + 1
	LayoutErrBadNumber
	LayoutErrMissingField
	LayoutErrBadAlign
)

// LayoutError represents an error while parsing a data layout string.
type LayoutError struct {
	Kind      LayoutErrorKind
	Component string // the dash-separated spec that failed
	Err       error  // for LayoutErrBadNumber
}

func (e *LayoutError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case LayoutErrUnknownSpec:
		return fmt.Sprintf("unknown data layout specification %q", e.Component)
	case LayoutErrBadNumber:
		if e.Err != nil {
			return fmt.Sprintf("invalid number in data layout specification %q: %v", e.Component, e.Err)
		}
		return fmt.Sprintf("invalid number in data layout specification %q", e.Component)
	case LayoutErrMissingField:
		return fmt.Sprintf("missing field in data layout specification %q", e.Component)
	case LayoutErrBadAlign:
		return fmt.Sprintf("alignment must be a multiple of 8 bits in %q", e.Component)
	default:
		return fmt.Sprintf("layout error kind=%d in %q", e.Kind, e.Component)
	}
}

func (e *LayoutError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
