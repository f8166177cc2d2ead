package target

import (
	"fmt"
	"sort"
	"strings"

	"simplecc/internal/triple"
)

// Constructor builds the configuration-phase state for one architecture.
type Constructor func(t triple.Triple, opts Options) Configurable

// UnknownArchError is returned when no constructor serves a triple.
type UnknownArchError struct {
	Arch   string
	Triple string
}

func (e *UnknownArchError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("unknown target architecture %q in triple %q", e.Arch, e.Triple)
}

// Registry maps architecture names to constructors. Each caller owns its
// registry; there is no process-wide table.
type Registry struct {
	ctors map[string]Constructor
}

func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]Constructor)}
}

// DefaultRegistry returns a fresh registry with every built-in target.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(SimpleArch, newSimpleConfigurable)
	return r
}

// Register adds or replaces the constructor for arch.
func (r *Registry) Register(arch string, ctor Constructor) {
	r.ctors[strings.ToLower(arch)] = ctor
}

// Lookup returns the constructor for arch.
func (r *Registry) Lookup(arch string) (Constructor, bool) {
	if r == nil {
		return nil, false
	}
	ctor, ok := r.ctors[strings.ToLower(arch)]
	return ctor, ok
}

// New constructs the configuration state for t.
func (r *Registry) New(t triple.Triple, opts Options) (Configurable, error) {
	ctor, ok := r.Lookup(t.Arch)
	if !ok {
		return nil, &UnknownArchError{Arch: t.Arch, Triple: t.String()}
	}
	return ctor(t, opts), nil
}

// Arches lists registered architectures in sorted order.
func (r *Registry) Arches() []string {
	out := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
