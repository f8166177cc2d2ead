// Package triple parses and classifies target triples of the form
// <arch>-<vendor>-<os>[-<env>].
package triple

import (
	"fmt"
	"strings"
)

// OS is the operating-system component of a triple.
type OS uint8

const (
	UnknownOS OS = iota
	Linux
	NetBSD
	OpenBSD
	FreeBSD
	Darwin
	Windows
	RTEMS
	ELFIAMCU // Intel MCU
)

var osNames = map[OS]string{
	UnknownOS: "unknown",
	Linux:     "linux",
	NetBSD:    "netbsd",
	OpenBSD:   "openbsd",
	FreeBSD:   "freebsd",
	Darwin:    "darwin",
	Windows:   "windows",
	RTEMS:     "rtems",
	ELFIAMCU:  "elfiamcu",
}

func (o OS) String() string {
	if s, ok := osNames[o]; ok {
		return s
	}
	return "unknown"
}

// ParseOS maps an OS component to OS. Version suffixes such as
// "netbsd9.3" are accepted; unrecognised names yield UnknownOS.
func ParseOS(s string) OS {
	s = strings.ToLower(s)
	switch {
	case strings.HasPrefix(s, "linux"):
		return Linux
	case strings.HasPrefix(s, "netbsd"):
		return NetBSD
	case strings.HasPrefix(s, "openbsd"):
		return OpenBSD
	case strings.HasPrefix(s, "freebsd"):
		return FreeBSD
	case strings.HasPrefix(s, "darwin"), strings.HasPrefix(s, "macos"):
		return Darwin
	case strings.HasPrefix(s, "windows"), strings.HasPrefix(s, "win32"):
		return Windows
	case strings.HasPrefix(s, "rtems"):
		return RTEMS
	case s == "elfiamcu":
		return ELFIAMCU
	}
	return UnknownOS
}

// Triple is an immutable target triple.
type Triple struct {
	Arch   string
	Vendor string
	OS     OS
	Env    string

	osName string // spelling as given, preserved by String
}

// New builds a triple from components.
func New(arch, vendor string, os OS) Triple {
	return Triple{Arch: arch, Vendor: vendor, OS: os, osName: os.String()}
}

// Parse splits s into components. A two-component form "arch-os" is
// accepted with an "unknown" vendor, as drivers commonly do.
func Parse(s string) (Triple, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Triple{}, fmt.Errorf("empty target triple")
	}
	parts := strings.Split(s, "-")
	for _, p := range parts {
		if p == "" {
			return Triple{}, fmt.Errorf("malformed target triple %q: empty component", s)
		}
	}
	var t Triple
	switch len(parts) {
	case 1:
		return Triple{}, fmt.Errorf("malformed target triple %q: expected <arch>-<vendor>-<os>", s)
	case 2:
		t = Triple{Arch: parts[0], Vendor: "unknown", osName: parts[1]}
	case 3:
		t = Triple{Arch: parts[0], Vendor: parts[1], osName: parts[2]}
	case 4:
		t = Triple{Arch: parts[0], Vendor: parts[1], osName: parts[2], Env: parts[3]}
	default:
		return Triple{}, fmt.Errorf("malformed target triple %q: too many components", s)
	}
	t.Arch = strings.ToLower(t.Arch)
	t.OS = ParseOS(t.osName)
	return t, nil
}

// MustParse is Parse for constants in tests and tables.
func MustParse(s string) Triple {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// String renders the triple in canonical dash form.
func (t Triple) String() string {
	osName := t.osName
	if osName == "" {
		osName = t.OS.String()
	}
	parts := []string{t.Arch, t.Vendor, osName}
	if t.Env != "" {
		parts = append(parts, t.Env)
	}
	return strings.Join(parts, "-")
}

// WithOS returns a copy of t targeting os.
func (t Triple) WithOS(os OS) Triple {
	t.OS = os
	t.osName = os.String()
	return t
}
