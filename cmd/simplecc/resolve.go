package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var resolveFormat string

func init() {
	resolveCmd.Flags().StringVar(&resolveFormat, "format", "pretty", "output format (pretty|json)")
}

type resolvePayload struct {
	Triple   string   `json:"triple"`
	CPU      string   `json:"cpu"`
	FloatABI string   `json:"float_abi"`
	Features []string `json:"features"`
	GNUMode  bool     `json:"gnu_mode"`
	Profile  string   `json:"profile,omitempty"`
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [-- driver args...]",
	Short: "Print the float ABI and target features a command line selects",
	Long: `Resolve applies the last-occurrence rule to -msoft-float, -mhard-float and
-mfloat-abi=, then prints the float ABI and the resulting feature list.
The exit status is 1 when any error was reported.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch resolveFormat {
		case "pretty", "json":
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", resolveFormat)
		}

		inv, err := configure(cmd, args)
		if inv == nil || inv.result.Args == nil {
			return err
		}
		res := inv.result
		payload := resolvePayload{
			Triple:   res.Triple.String(),
			CPU:      res.Options.CPU,
			FloatABI: res.FloatABI.String(),
			Features: append([]string{}, res.Options.Features...),
			GNUMode:  res.Lang.GNUMode,
		}
		if inv.profile != nil {
			payload.Profile = inv.profile.Path
		}
		// the float ABI is known once the triple is; setup may still fail
		if res.Triple.Arch != "" {
			if perr := printResolve(cmd.OutOrStdout(), payload); perr != nil {
				return perr
			}
		}
		if err != nil {
			return err
		}
		if res.Failed() {
			return errReported
		}
		return nil
	},
}

func printResolve(w io.Writer, p resolvePayload) error {
	if resolveFormat == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}
	features := strings.Join(p.Features, " ")
	if features == "" {
		features = "(none)"
	}
	_, err := fmt.Fprintf(w, "triple:    %s\ncpu:       %s\nfloat-abi: %s\nfeatures:  %s\n", p.Triple, p.CPU, p.FloatABI, features)
	return err
}
