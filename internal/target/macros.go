package target

import (
	"fmt"
	"io"
)

// Macro is a single preprocessor definition.
type Macro struct {
	Name  string
	Value string
}

// MacroSink is the append-only table targets write their macros into.
type MacroSink interface {
	DefineMacro(name string, value ...string)
}

// MacroBuilder is the default MacroSink: an ordered list of definitions.
// Redefinitions are kept in order, as a preprocessor would see them.
type MacroBuilder struct {
	macros []Macro
}

// DefineMacro appends name; the value defaults to "1".
func (b *MacroBuilder) DefineMacro(name string, value ...string) {
	v := "1"
	if len(value) > 0 {
		v = value[0]
	}
	b.macros = append(b.macros, Macro{Name: name, Value: v})
}

// Macros returns a copy of the definitions in emission order.
func (b *MacroBuilder) Macros() []Macro {
	return append([]Macro(nil), b.macros...)
}

// Lookup returns the last value defined for name.
func (b *MacroBuilder) Lookup(name string) (string, bool) {
	for i := len(b.macros) - 1; i >= 0; i-- {
		if b.macros[i].Name == name {
			return b.macros[i].Value, true
		}
	}
	return "", false
}

// Count returns how many times name was defined.
func (b *MacroBuilder) Count(name string) int {
	n := 0
	for _, m := range b.macros {
		if m.Name == name {
			n++
		}
	}
	return n
}

// Render writes "#define NAME VALUE" lines.
func (b *MacroBuilder) Render(w io.Writer) error {
	for _, m := range b.macros {
		if _, err := fmt.Fprintf(w, "#define %s %s\n", m.Name, m.Value); err != nil {
			return err
		}
	}
	return nil
}

// LangOptions carries the language-standard switches macro emission
// depends on.
type LangOptions struct {
	// GNUMode is set for -std=gnu* dialects.
	GNUMode bool
}

// DefineStd emits the standard identity family for name: "__name" always
// and the bare "name" in GNU mode. The decorated "__name__" spelling is
// left to the target, which gates it per OS.
func DefineStd(sink MacroSink, name string, lang LangOptions) {
	if lang.GNUMode {
		sink.DefineMacro(name)
	}
	sink.DefineMacro("__" + name)
}
