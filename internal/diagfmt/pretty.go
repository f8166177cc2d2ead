package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"simplecc/internal/diag"
)

// Pretty writes bag in a human-readable form:
//
//	error[DRV1001]: invalid float ABI '-mfloat-abi=bogus'
//	  --> argv[1] "-mfloat-abi=bogus"
//	   | simplecc main.c -mfloat-abi=bogus
//	   |                 ^~~~~~~~~~~~~~~~~
//	   = note: valid values are 'soft' and 'hard'
//
// bag is expected to be sorted already.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for i := range items {
		d := &items[i]
		fmt.Fprintf(w, "%s%s\n", p.severity(d.Severity, d.Code), p.bold.Sprintf(": %s", d.Message))
		if !d.Primary.IsZero() {
			fmt.Fprintf(w, "  %s %s\n", p.gutter.Sprint("-->"), d.Primary.String())
			writeArgvContext(w, p, opts, d.Primary)
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				label := "note"
				if !n.Arg.IsZero() {
					label = "note " + n.Arg.String()
				}
				fmt.Fprintf(w, "   %s %s: %s\n", p.gutter.Sprint("="), p.note.Sprint(label), n.Msg)
			}
		}
	}
}

func writeArgvContext(w io.Writer, p palette, opts PrettyOpts, ref diag.ArgRef) {
	if ref.Index < 0 || ref.Index >= len(opts.Argv) {
		return
	}
	prog := opts.Program
	if prog == "" {
		prog = "simplecc"
	}
	col := runewidth.StringWidth(prog) + 1
	for _, a := range opts.Argv[:ref.Index] {
		col += runewidth.StringWidth(a) + 1
	}
	width := runewidth.StringWidth(opts.Argv[ref.Index])
	if ref.Text != "" {
		width = max(width, runewidth.StringWidth(ref.Text))
	}
	underline := "^" + strings.Repeat("~", max(width-1, 0))

	bar := p.gutter.Sprint("|")
	fmt.Fprintf(w, "   %s %s %s\n", bar, prog, strings.Join(opts.Argv, " "))
	fmt.Fprintf(w, "   %s %s%s\n", bar, strings.Repeat(" ", col), p.caret.Sprint(underline))
}

type palette struct {
	err, warn, info *color.Color
	bold, gutter    *color.Color
	note, caret     *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		bold:   color.New(color.Bold),
		gutter: color.New(color.FgBlue, color.Bold),
		note:   color.New(color.FgCyan),
		caret:  color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.bold, p.gutter, p.note, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity, code diag.Code) string {
	c := p.info
	switch sev {
	case diag.SevError:
		c = p.err
	case diag.SevWarning:
		c = p.warn
	}
	return c.Sprintf("%s[%s]", strings.ToLower(sev.String()), code.ID())
}
