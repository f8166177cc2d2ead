package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"simplecc/internal/snapshot"
)

var (
	describeFormat string
	describeCache  bool
)

func init() {
	describeCmd.Flags().StringVar(&describeFormat, "format", "pretty", "output format (pretty|json|msgpack)")
	describeCmd.Flags().BoolVar(&describeCache, "cache", false, "reuse and store snapshots in the user cache directory")
}

var describeCmd = &cobra.Command{
	Use:   "describe [-- driver args...]",
	Short: "Print the target facts a command line configures",
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(describeFormat)
		switch format {
		case "pretty", "json", "msgpack":
		default:
			return fmt.Errorf("unsupported format %q (must be pretty, json or msgpack)", describeFormat)
		}

		inv, err := configure(cmd, args)
		if err != nil {
			return err
		}
		res := inv.result

		snap, err := describeSnapshot(cmd, inv)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch format {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(snap); err != nil {
				return err
			}
		case "msgpack":
			data, err := snap.Marshal()
			if err != nil {
				return err
			}
			if _, err := out.Write(data); err != nil {
				return err
			}
		default:
			renderDescribePretty(out, snap, useColor(cmd, os.Stdout))
		}
		if res.Failed() {
			return errReported
		}
		return nil
	},
}

func describeSnapshot(cmd *cobra.Command, inv *invocation) (*snapshot.Snapshot, error) {
	res := inv.result
	if !describeCache {
		return snapshot.Take(res.Info, res.Lang), nil
	}
	cache, err := snapshot.OpenDiskCache("simplecc")
	if err != nil {
		return nil, fmt.Errorf("open snapshot cache: %w", err)
	}
	key := snapshot.KeyFor(res.Triple.String(), res.Options.CPU, res.Options.Features, res.Lang.GNUMode)
	if snap, ok, err := cache.Get(key); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "snapshot cache: %v\n", err)
	} else if ok {
		return snap, nil
	}
	snap := snapshot.Take(res.Info, res.Lang)
	if err := cache.Put(key, snap); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "snapshot cache: %v\n", err)
	}
	return snap, nil
}

type describeRow struct {
	key, value string
}

func renderDescribePretty(w io.Writer, s *snapshot.Snapshot, colored bool) {
	r := lipgloss.NewRenderer(w)
	heading := r.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).MarginTop(1)
	keyColor := color.New(color.FgYellow)
	if colored {
		keyColor.EnableColor()
	} else {
		keyColor.DisableColor()
	}

	section := func(title string, rows []describeRow) {
		fmt.Fprintln(w, heading.Render(title))
		width := 0
		for _, row := range rows {
			width = max(width, runewidth.StringWidth(row.key))
		}
		for _, row := range rows {
			fmt.Fprintf(w, "  %s  %s\n", keyColor.Sprint(runewidth.FillRight(row.key, width)), row.value)
		}
	}

	section("Target", []describeRow{
		{"triple", s.Triple},
		{"cpu", s.CPU + " (" + s.Generation + ")"},
		{"float abi", floatABIName(s.SoftFloat)},
		{"data layout", s.DataLayout},
	})
	section("Types", []describeRow{
		{"size_t", fmt.Sprintf("%s (%d bits)", s.SizeType, s.SizeWidth)},
		{"intptr_t", s.IntPtrType},
		{"ptrdiff_t", s.PtrDiffType},
		{"pointer", fmt.Sprintf("%d bits", s.PtrWidth)},
		{"va_list", s.VaList},
	})
	section("Atomics", []describeRow{
		{"max promote width", strconv.FormatUint(uint64(s.MaxAtomicPromoteWidth), 10)},
		{"max inline width", strconv.FormatUint(uint64(s.MaxAtomicInlineWidth), 10)},
	})
	scalars := make([]describeRow, 0, len(s.Scalars)+1)
	for _, sc := range s.Scalars {
		scalars = append(scalars, describeRow{sc.Type, fmt.Sprintf("size %d, align %d", sc.Size, sc.Align)})
	}
	scalars = append(scalars, describeRow{"stack", fmt.Sprintf("align %d", s.StackAlign)})
	section("Layout", scalars)
	section("ABI", []describeRow{
		{"clobbers", quoteOrNone(s.Clobbers)},
		{"eh data registers", fmt.Sprintf("%d, %d", s.EHRegisters[0], s.EHRegisters[1])},
		{"sjlj lowering", strconv.FormatBool(s.SjLj)},
	})

	fmt.Fprintln(w, heading.Render("Registers"))
	const perRow = 8
	for i := 0; i < len(s.Registers); i += perRow {
		row := s.Registers[i:min(i+perRow, len(s.Registers))]
		cells := make([]string, len(row))
		for j, reg := range row {
			cells[j] = runewidth.FillRight(reg, 4)
		}
		fmt.Fprintf(w, "  %s\n", strings.TrimRight(strings.Join(cells, " "), " "))
	}

	macros := make([]describeRow, len(s.Macros))
	for i, m := range s.Macros {
		macros[i] = describeRow{m.Name, m.Value}
	}
	section("Macros", macros)
}

func floatABIName(soft bool) string {
	if soft {
		return "soft"
	}
	return "hard"
}

func quoteOrNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return strconv.Quote(s)
}
