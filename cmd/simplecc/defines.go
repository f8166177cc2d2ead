package main

import (
	"github.com/spf13/cobra"

	"simplecc/internal/target"
)

var definesCmd = &cobra.Command{
	Use:   "defines [-- driver args...]",
	Short: "Print the predefined macros as #define lines",
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, err := configure(cmd, args)
		if err != nil {
			return err
		}
		res := inv.result
		var mb target.MacroBuilder
		res.Info.TargetDefines(res.Lang, &mb)
		if err := mb.Render(cmd.OutOrStdout()); err != nil {
			return err
		}
		if res.Failed() {
			return errReported
		}
		return nil
	},
}
