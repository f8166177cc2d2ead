package main

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// progressMode selects when `matrix` draws its Bubble Tea progress view.
// It is a pflag.Value so a bad --ui value fails during flag parsing.
type progressMode string

const (
	progressAuto progressMode = "auto"
	progressOn   progressMode = "on"
	progressOff  progressMode = "off"
)

func (m *progressMode) String() string { return string(*m) }

func (m *progressMode) Type() string { return "auto|on|off" }

func (m *progressMode) Set(value string) error {
	switch v := progressMode(strings.ToLower(strings.TrimSpace(value))); v {
	case progressAuto, progressOn, progressOff:
		*m = v
		return nil
	case "":
		*m = progressAuto
		return nil
	}
	return fmt.Errorf("matrix progress view must be auto, on or off, not %q", value)
}

// enabled reports whether the progress view should run for output w; auto
// means only when w is a terminal.
func (m progressMode) enabled(w io.Writer) bool {
	switch m {
	case progressOn:
		return true
	case progressOff:
		return false
	}
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}
