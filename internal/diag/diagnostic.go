package diag

import "fmt"

// ArgRef points at the driver argument a diagnostic blames.
// Index is the position in the original argv; -1 when the finding
// is not tied to a single argument.
type ArgRef struct {
	Index int
	Text  string
}

// NoArg is the blame-less location.
var NoArg = ArgRef{Index: -1}

func (a ArgRef) IsZero() bool {
	return a.Index < 0 && a.Text == ""
}

func (a ArgRef) String() string {
	if a.Index < 0 {
		if a.Text == "" {
			return "<none>"
		}
		return a.Text
	}
	return fmt.Sprintf("argv[%d] %q", a.Index, a.Text)
}

type Note struct {
	Arg ArgRef
	Msg string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  ArgRef
	Notes    []Note
}
