package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"simplecc/internal/matrix"
)

var (
	matrixOSes []string
	matrixJobs int
	matrixUI   = progressOff
)

func init() {
	matrixCmd.Flags().StringSliceVar(&matrixOSes, "os", nil, "operating systems to configure (default: "+strings.Join(matrix.DefaultOSes(), ",")+")")
	matrixCmd.Flags().IntVar(&matrixJobs, "jobs", 0, "maximum concurrent jobs (0 = GOMAXPROCS)")
	matrixCmd.Flags().Var(&matrixUI, "ui", "progress view (auto|on|off)")
}

var matrixCmd = &cobra.Command{
	Use:   "matrix [-- driver args...]",
	Short: "Configure one command line for several operating systems",
	RunE: func(cmd *cobra.Command, args []string) error {
		argv, _, err := commandArgv(cmd, args)
		if err != nil {
			return err
		}
		maxDiags, err := maxDiagnostics(cmd)
		if err != nil {
			return err
		}

		req := matrix.Request{
			Argv:           argv,
			OSes:           matrixOSes,
			Jobs:           matrixJobs,
			MaxDiagnostics: maxDiags,
		}
		var res matrix.Result
		if matrixUI.enabled(os.Stdout) {
			res, err = runMatrixWithUI(cmd.Context(), "configuring targets", req)
		} else {
			res, err = matrix.Run(cmd.Context(), req)
		}
		if err != nil {
			return err
		}

		writeMatrixTable(cmd.OutOrStdout(), res, useColor(cmd, os.Stdout))
		if err := printDiagnostics(cmd, res.Diagnostics(maxDiags), argv); err != nil {
			return err
		}
		if res.Failed() {
			return errReported
		}
		return nil
	},
}

func writeMatrixTable(w io.Writer, res matrix.Result, colored bool) {
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)
	for _, c := range []*color.Color{ok, bad} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	header := []string{"OS", "TRIPLE", "FLOAT ABI", "MACROS", "STATUS"}
	rows := [][]string{header}
	for _, e := range res.Entries {
		row := []string{e.OS, "-", "-", "-", "ok"}
		if e.Result != nil && e.Result.Triple.Arch != "" {
			row[1] = e.Result.Triple.String()
			row[2] = e.Result.FloatABI.String()
		}
		if e.Snapshot != nil {
			row[3] = fmt.Sprint(len(e.Snapshot.Macros))
		}
		switch {
		case e.Err != nil:
			row[4] = "error: " + e.Err.Error()
		case e.Result.Failed():
			row[4] = "error"
		}
		rows = append(rows, row)
	}

	widths := make([]int, len(header))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	for r, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i == len(row)-1 {
				cells[i] = cell
				continue
			}
			cells[i] = runewidth.FillRight(cell, widths[i])
		}
		status := cells[len(cells)-1]
		if r > 0 {
			if status == "ok" {
				status = ok.Sprint(status)
			} else {
				status = bad.Sprint(status)
			}
		}
		cells[len(cells)-1] = status
		fmt.Fprintln(w, strings.Join(cells, "  "))
	}
}
