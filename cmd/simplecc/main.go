package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"simplecc/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "simplecc",
	Short: "Target description and ABI resolution for the Simple backend",
	Long: `simplecc inspects how a compiler command line configures the Simple target:
the resolved float ABI, the published type and register facts, predefined
macros and inline-assembly constraints.

Driver arguments follow "--", e.g.:
  simplecc describe -- -target simple-unknown-linux -msoft-float`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: prepareRun,
}

// errReported signals that diagnostics were already printed and the
// process should exit with status 1 without further output.
var errReported = errors.New("errors reported")

var cleanups []func()

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(definesCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(checkAsmCmd)
	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(matrixCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress warnings and notes when nothing failed")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to collect")
	pf.String("diag-format", "pretty", "diagnostics format (pretty|short|json|sarif)")
	pf.String("profile", "", "target profile (TOML); defaults to the nearest simple.toml")
	pf.String("trace", "", "write trace events to file (\"-\" for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")
}

func main() {
	err := rootCmd.Execute()
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "simplecc: %v\n", err)
		}
		os.Exit(1)
	}
}

// prepareRun wires tracing, profiling and colour before any subcommand runs.
func prepareRun(cmd *cobra.Command, _ []string) error {
	if err := applyColorFlag(cmd); err != nil {
		return err
	}
	stopProf, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	cleanups = append(cleanups, stopProf)
	stopTrace, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	cleanups = append(cleanups, stopTrace)
	return nil
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
