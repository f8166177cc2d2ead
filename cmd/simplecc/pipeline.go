package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"simplecc/internal/diag"
	"simplecc/internal/diagfmt"
	"simplecc/internal/driver"
	"simplecc/internal/version"
)

// invocation is one configured command line.
type invocation struct {
	argv    []string // profile arguments followed by the command line
	profile *targetProfile
	result  *driver.Result
}

// commandArgv returns the profile arguments followed by args.
func commandArgv(cmd *cobra.Command, args []string) ([]string, *targetProfile, error) {
	profile, err := profileFor(cmd)
	if err != nil {
		return nil, nil, err
	}
	argv := append(profile.Args(), args...)
	return argv, profile, nil
}

func maxDiagnostics(cmd *cobra.Command) (int, error) {
	n, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return 0, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return n, nil
}

// configure runs the driver for args and prints its diagnostics. A
// configuration failure is returned as errReported once diagnostics have
// been shown; callers decide themselves what a non-fatal error bag means.
func configure(cmd *cobra.Command, args []string) (*invocation, error) {
	argv, profile, err := commandArgv(cmd, args)
	if err != nil {
		return nil, err
	}
	maxDiags, err := maxDiagnostics(cmd)
	if err != nil {
		return nil, err
	}

	res, cfgErr := driver.Configure(cmd.Context(), driver.Request{
		Argv:           argv,
		MaxDiagnostics: maxDiags,
	})
	inv := &invocation{argv: argv, profile: profile, result: res}

	if err := printDiagnostics(cmd, res.Bag, argv); err != nil {
		return inv, err
	}
	if err := printTimings(cmd, res); err != nil {
		return inv, err
	}
	if cfgErr != nil {
		if res.Bag.Len() == 0 {
			return inv, cfgErr
		}
		return inv, errReported
	}
	return inv, nil
}

func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, argv []string) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	root := cmd.Root().PersistentFlags()
	quiet, err := root.GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if quiet && !bag.HasErrors() {
		return nil
	}
	formatStr, err := root.GetString("diag-format")
	if err != nil {
		return fmt.Errorf("failed to get diag-format flag: %w", err)
	}
	format, err := diagfmt.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	return diagfmt.Render(cmd.ErrOrStderr(), bag, diagfmt.Options{
		Format: format,
		Pretty: diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			ShowNotes: !quiet,
			Argv:      argv,
		},
		JSON: diagfmt.JSONOpts{IncludeNotes: true},
		Sarif: diagfmt.SarifRunMeta{
			ToolName:       "simplecc",
			ToolVersion:    version.Version,
			InvocationArgs: argv,
		},
	})
}

func printTimings(cmd *cobra.Command, res *driver.Result) error {
	show, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	if !show || res == nil {
		return nil
	}
	_, err = fmt.Fprint(cmd.ErrOrStderr(), res.Timing.Summary())
	return err
}
