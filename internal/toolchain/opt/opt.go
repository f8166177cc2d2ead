// Package opt models the driver's view of command-line arguments: a fixed
// option table and an ordered ArgList that supports "last occurrence of an
// option family" queries.
package opt

import (
	"fmt"
	"strings"
)

// ID identifies an option in the table.
type ID uint16

const (
	OptUnknown ID = iota
	OptInput
	OptMSoftFloat  // -msoft-float
	OptMHardFloat  // -mhard-float
	OptMFloatABIEQ // -mfloat-abi=<value>
	OptMCPUEQ      // -mcpu=<value>
	OptTargetEQ    // --target=<triple>, -target <triple>
	OptStdEQ       // -std=<standard>
	OptMFeature    // -m<feature>
	OptMNoFeature  // -mno-<feature>
)

type kind uint8

const (
	kindFlag     kind = iota // exact spelling, no value
	kindJoined               // spelling immediately followed by value
	kindSeparate             // spelling, value in next argument
	kindPrefix               // prefix match, remainder is the value
)

type optionInfo struct {
	id       ID
	spelling string
	kind     kind
}

// table is ordered: first match wins, so specific spellings precede the
// generic -m prefixes.
var table = []optionInfo{
	{OptMSoftFloat, "-msoft-float", kindFlag},
	{OptMHardFloat, "-mhard-float", kindFlag},
	{OptMFloatABIEQ, "-mfloat-abi=", kindJoined},
	{OptMCPUEQ, "-mcpu=", kindJoined},
	{OptTargetEQ, "--target=", kindJoined},
	{OptTargetEQ, "-target", kindSeparate},
	{OptStdEQ, "-std=", kindJoined},
	{OptMNoFeature, "-mno-", kindPrefix},
	{OptMFeature, "-m", kindPrefix},
}

func (id ID) String() string {
	switch id {
	case OptUnknown:
		return "unknown"
	case OptInput:
		return "input"
	}
	for _, o := range table {
		if o.id == id {
			return o.spelling
		}
	}
	return fmt.Sprintf("opt#%d", id)
}

// Arg is one parsed argument.
type Arg struct {
	ID       ID
	Spelling string // the table spelling that matched, or the raw text
	Index    int    // position of the argument in argv
	value    string
	hasValue bool
	raw      []string
}

// Matches reports whether a is an occurrence of id.
func (a *Arg) Matches(id ID) bool {
	return a != nil && a.ID == id
}

// Value returns the option value; "" for flags.
func (a *Arg) Value() string {
	if a == nil {
		return ""
	}
	return a.value
}

// HasValue reports whether the option carried a value.
func (a *Arg) HasValue() bool {
	return a != nil && a.hasValue
}

// AsString renders the argument as the user spelled it.
func (a *Arg) AsString() string {
	if a == nil {
		return ""
	}
	return strings.Join(a.raw, " ")
}

// ArgList is the ordered result of Parse.
type ArgList struct {
	args []*Arg
}

// MissingValueError is returned when a separate-value option ends argv.
type MissingValueError struct {
	Option string
	Index  int
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("argument to '%s' is missing (expected 1 value)", e.Option)
}

// Parse classifies argv. Unrecognised dash arguments are kept as
// OptUnknown and bare words as OptInput; only a separate-value option
// without its value is an error.
func Parse(argv []string) (*ArgList, error) {
	list := &ArgList{args: make([]*Arg, 0, len(argv))}
	for i := 0; i < len(argv); i++ {
		s := argv[i]
		if s == "" || s[0] != '-' || s == "-" {
			list.args = append(list.args, &Arg{ID: OptInput, Spelling: s, Index: i, value: s, hasValue: true, raw: []string{s}})
			continue
		}
		arg := &Arg{ID: OptUnknown, Spelling: s, Index: i, raw: []string{s}}
	match:
		for _, o := range table {
			switch o.kind {
			case kindFlag:
				if s != o.spelling {
					continue
				}
			case kindJoined, kindPrefix:
				if !strings.HasPrefix(s, o.spelling) || (o.kind == kindPrefix && len(s) == len(o.spelling)) {
					continue
				}
				arg.value = s[len(o.spelling):]
				arg.hasValue = true
			case kindSeparate:
				if s != o.spelling {
					continue
				}
				if i+1 >= len(argv) {
					return nil, &MissingValueError{Option: s, Index: i}
				}
				i++
				arg.value = argv[i]
				arg.hasValue = true
				arg.raw = append(arg.raw, argv[i])
			}
			arg.ID = o.id
			arg.Spelling = o.spelling
			break match
		}
		list.args = append(list.args, arg)
	}
	return list, nil
}

// Args returns the parsed arguments in order.
func (l *ArgList) Args() []*Arg {
	if l == nil {
		return nil
	}
	return l.args
}

// Len returns the number of parsed arguments.
func (l *ArgList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.args)
}

// LastArg returns the last argument matching any of ids, treating them as
// one mutually exclusive family; nil when none occurs.
func (l *ArgList) LastArg(ids ...ID) *Arg {
	if l == nil {
		return nil
	}
	for i := len(l.args) - 1; i >= 0; i-- {
		for _, id := range ids {
			if l.args[i].ID == id {
				return l.args[i]
			}
		}
	}
	return nil
}

// Filtered returns every argument matching one of ids, in order.
func (l *ArgList) Filtered(ids ...ID) []*Arg {
	if l == nil {
		return nil
	}
	var out []*Arg
	for _, a := range l.args {
		for _, id := range ids {
			if a.ID == id {
				out = append(out, a)
				break
			}
		}
	}
	return out
}
