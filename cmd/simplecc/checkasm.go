package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"simplecc/internal/diag"
	"simplecc/internal/target"
)

var checkAsmDriverArgs []string

func init() {
	checkAsmCmd.Flags().StringArrayVar(&checkAsmDriverArgs, "arg", nil, "driver argument used to configure the target (repeatable)")
}

var checkAsmCmd = &cobra.Command{
	Use:   "check-asm <constraint>...",
	Short: "Validate inline-assembly operand constraints",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, err := configure(cmd, checkAsmDriverArgs)
		if err != nil {
			return err
		}
		maxDiags, err := maxDiagnostics(cmd)
		if err != nil {
			return err
		}

		bag := diag.NewBag(maxDiags)
		results := make([]constraintResult, len(args))
		for i, c := range args {
			ci, verr := target.ValidateConstraintString(inv.result.Info, c, diag.BagReporter{Bag: bag})
			results[i] = constraintResult{constraint: c, info: ci, err: verr}
		}
		if err := writeConstraintTable(cmd.OutOrStdout(), results); err != nil {
			return err
		}
		if err := printDiagnostics(cmd, bag, nil); err != nil {
			return err
		}
		if bag.HasErrors() || inv.result.Failed() {
			return errReported
		}
		return nil
	},
}

type constraintResult struct {
	constraint string
	info       *target.ConstraintInfo
	err        error
}

func writeConstraintTable(w io.Writer, results []constraintResult) error {
	width := 0
	quoted := make([]string, len(results))
	for i, r := range results {
		quoted[i] = strconv.Quote(r.constraint)
		width = max(width, runewidth.StringWidth(quoted[i]))
	}
	for i, r := range results {
		status, detail := "ok", describeConstraint(r.info)
		if r.err != nil {
			status = "invalid"
			detail = r.err.Error()
			var ce *target.ConstraintError
			if errors.As(r.err, &ce) && ce.Constraint != "" {
				detail = fmt.Sprintf("unknown letter '%c' at offset %d", ce.Letter, ce.Offset)
			}
		}
		if _, err := fmt.Fprintf(w, "%s  %-7s  %s\n", runewidth.FillRight(quoted[i], width), status, detail); err != nil {
			return err
		}
	}
	return nil
}

func describeConstraint(ci *target.ConstraintInfo) string {
	if ci == nil {
		return ""
	}
	var parts []string
	if ci.AllowsRegister() {
		parts = append(parts, "register")
	}
	if ci.AllowsMemory() {
		parts = append(parts, "memory")
	}
	if ci.AllowsImmediate() {
		parts = append(parts, "immediate")
	}
	if ci.IsReadWrite() {
		parts = append(parts, "read-write")
	}
	if ci.EarlyClobber() {
		parts = append(parts, "early-clobber")
	}
	if len(parts) == 0 {
		return "(no operand kinds)"
	}
	return strings.Join(parts, ", ")
}
