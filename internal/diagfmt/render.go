// Package diagfmt renders diagnostic bags for people and for tools.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"simplecc/internal/diag"
)

// ParseFormat accepts pretty, short, json and sarif.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPretty, FormatShort, FormatJSON, FormatSARIF:
		return f, nil
	case "":
		return FormatPretty, nil
	}
	return "", fmt.Errorf("unsupported diagnostics format %q (must be pretty, short, json or sarif)", s)
}

// Short writes the compact one-line-per-diagnostic form.
func Short(w io.Writer, bag *diag.Bag, includeNotes bool) error {
	if bag == nil {
		return nil
	}
	out := diag.FormatShortDiagnostics(bag.Items(), includeNotes)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}

// Options bundles the settings Render needs for any format.
type Options struct {
	Format Format
	Pretty PrettyOpts
	JSON   JSONOpts
	Sarif  SarifRunMeta
}

// Render sorts bag and writes it in opts.Format. An empty bag writes
// nothing for pretty and short output.
func Render(w io.Writer, bag *diag.Bag, opts Options) error {
	if bag != nil {
		bag.Sort()
	}
	switch opts.Format {
	case FormatShort:
		return Short(w, bag, opts.Pretty.ShowNotes)
	case FormatJSON:
		return JSON(w, bag, opts.JSON)
	case FormatSARIF:
		return Sarif(w, bag, opts.Sarif)
	default:
		Pretty(w, bag, opts.Pretty)
		return nil
	}
}
