package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"simplecc/internal/layout"
)

var (
	layoutDriverArgs []string
	layoutPacked     bool
	layoutArray      uint32
)

func init() {
	layoutCmd.Flags().StringArrayVar(&layoutDriverArgs, "arg", nil, "driver argument used to configure the target (repeatable)")
	layoutCmd.Flags().BoolVar(&layoutPacked, "packed", false, "lay the fields out without padding")
	layoutCmd.Flags().Uint32Var(&layoutArray, "array", 0, "lay out an array of this many elements of a single type")
}

var layoutCmd = &cobra.Command{
	Use:   "layout <type>...",
	Short: "Print the size, alignment and field offsets of a struct of scalars",
	Long:  "Types are i<bits>, f<bits> or ptr. Several types form a struct in declaration order.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields := make([]layout.Scalar, len(args))
		for i, a := range args {
			sc, err := layout.ParseScalar(a)
			if err != nil {
				return err
			}
			fields[i] = sc
		}
		if layoutArray > 0 && len(fields) != 1 {
			return errors.New("--array takes exactly one element type")
		}

		inv, err := configure(cmd, layoutDriverArgs)
		if err != nil {
			return err
		}
		info := inv.result.Info
		dl := info.DataLayout()
		eng := layout.New(layout.TargetFor(info.Triple().String(), dl), dl)

		out := cmd.OutOrStdout()
		if layoutArray > 0 {
			tl := eng.ArrayLayout(fields[0], layoutArray)
			_, err := fmt.Fprintf(out, "[%d]%s  size %d  align %d\n", layoutArray, fields[0], tl.Size, tl.Align)
			return err
		}
		return writeStructLayout(out, fields, eng.StructLayout(fields, layoutPacked), layoutPacked)
	},
}

func writeStructLayout(w io.Writer, fields []layout.Scalar, tl layout.TypeLayout, packed bool) error {
	names := make([]string, len(fields))
	width := 0
	for i, f := range fields {
		names[i] = f.String()
		width = max(width, runewidth.StringWidth(names[i]))
	}
	kind := "struct"
	if packed {
		kind = "packed struct"
	}
	if _, err := fmt.Fprintf(w, "%s { %s }  size %d  align %d\n", kind, strings.Join(names, ", "), tl.Size, tl.Align); err != nil {
		return err
	}
	for i := range fields {
		if _, err := fmt.Fprintf(w, "  %s  offset %d  align %d\n", runewidth.FillRight(names[i], width), tl.FieldOffsets[i], tl.FieldAligns[i]); err != nil {
			return err
		}
	}
	return nil
}
