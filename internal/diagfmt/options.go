package diagfmt

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	ShowNotes bool
	// Argv, when set, is echoed under each diagnostic with the offending
	// argument underlined.
	Argv []string
	// Program is printed in front of the echoed argv.
	Program string
	Max     int // stop after Max diagnostics; 0 means no limit
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	Max          int // trims the output, not the Bag
	IncludeNotes bool
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
}

// Format selects a renderer.
type Format string

const (
	FormatPretty Format = "pretty"
	FormatShort  Format = "short"
	FormatJSON   Format = "json"
	FormatSARIF  Format = "sarif"
)
