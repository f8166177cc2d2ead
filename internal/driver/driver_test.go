package driver

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"simplecc/internal/diag"
	"simplecc/internal/target"
	"simplecc/internal/toolchain/opt"
	"simplecc/internal/toolchain/simple"
	"simplecc/internal/triple"
)

func TestConfigureSoftFloat(t *testing.T) {
	res, err := Configure(context.Background(), Request{
		Argv: []string{"-target", "simple-unknown-linux", "-msoft-float", "-std=gnu11", "main.c"},
	})
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if res.Failed() {
		t.Fatalf("unexpected diagnostics: %v", res.Bag.Items())
	}
	if res.FloatABI != simple.FloatABISoft {
		t.Errorf("FloatABI = %v", res.FloatABI)
	}
	if diff := cmp.Diff([]string{"+soft-float"}, res.Options.Features); diff != "" {
		t.Errorf("features (-want +got):\n%s", diff)
	}
	if !res.Lang.GNUMode {
		t.Error("GNUMode = false for -std=gnu11")
	}
	if res.Triple.OS != triple.Linux {
		t.Errorf("OS = %v", res.Triple.OS)
	}
	if !res.Info.HasFeature("softfloat") {
		t.Error("Info lacks softfloat")
	}
	if len(res.Timing.Phases) != 4 {
		t.Errorf("got %d timing phases", len(res.Timing.Phases))
	}
}

func TestConfigureBogusFloatABIContinues(t *testing.T) {
	res, err := Configure(context.Background(), Request{Argv: []string{"-mfloat-abi=bogus"}})
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if !res.Bag.HasCode(diag.DrvInvalidFloatABI) {
		t.Errorf("missing %v: %v", diag.DrvInvalidFloatABI, res.Bag.Items())
	}
	if res.Info == nil || res.Info.HasFeature("softfloat") {
		t.Error("expected a hard-float target")
	}
	if res.FloatABI != simple.FloatABIHard {
		t.Errorf("FloatABI = %v", res.FloatABI)
	}
	if res.Triple.String() != DefaultTriple {
		t.Errorf("Triple = %v", res.Triple)
	}
}

func TestConfigureMissingTargetValue(t *testing.T) {
	res, err := Configure(context.Background(), Request{Argv: []string{"-O2", "-target"}})
	var mv *opt.MissingValueError
	if !errors.As(err, &mv) {
		t.Fatalf("err = %v, want MissingValueError", err)
	}
	if !res.Bag.HasCode(diag.DrvMissingValue) {
		t.Errorf("missing %v", diag.DrvMissingValue)
	}
	if res.Info != nil {
		t.Error("Info set after failed parse")
	}
}

func TestConfigureInvalidTriple(t *testing.T) {
	res, err := Configure(context.Background(), Request{Argv: []string{"--target=simple"}})
	if err == nil {
		t.Fatal("expected error")
	}
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.DrvInvalidTriple || items[0].Primary.Index != 0 {
		t.Errorf("diagnostics = %+v", items)
	}
}

func TestConfigureUnknownArch(t *testing.T) {
	res, err := Configure(context.Background(), Request{Argv: []string{"--target=mips-unknown-linux"}})
	var ua *target.UnknownArchError
	if !errors.As(err, &ua) {
		t.Fatalf("err = %v, want UnknownArchError", err)
	}
	if !res.Bag.HasCode(diag.TgtUnknownArch) {
		t.Error("missing unknown-arch diagnostic")
	}
}

func TestConfigureOSOverrideAndWarnings(t *testing.T) {
	var events []PhaseEvent
	res, err := Configure(context.Background(), Request{
		Argv:     []string{"-Wall", "-Wall", "-mcpu=v9"},
		OS:       "netbsd",
		Observer: func(ev PhaseEvent) { events = append(events, ev) },
	})
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if res.Triple.OS != triple.NetBSD {
		t.Errorf("OS = %v", res.Triple.OS)
	}
	if res.Failed() {
		t.Errorf("warnings only expected: %v", res.Bag.Items())
	}
	// -Wall twice at different positions is two distinct findings.
	if n := countCode(res.Bag, diag.DrvUnknownArgument); n != 2 {
		t.Errorf("got %d unknown-argument warnings", n)
	}
	if !res.Bag.HasCode(diag.TgtUnknownCPU) {
		t.Error("missing unknown-cpu warning")
	}
	if len(events) != 8 {
		t.Fatalf("got %d phase events", len(events))
	}
	if events[0].Name != "parse-args" || events[0].Status != PhaseStart || events[7].Name != "setup" || events[7].Status != PhaseEnd {
		t.Errorf("events = %+v", events)
	}
}

func countCode(b *diag.Bag, code diag.Code) int {
	n := 0
	for _, d := range b.Items() {
		if d.Code == code {
			n++
		}
	}
	return n
}
