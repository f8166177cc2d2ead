package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"simplecc/internal/snapshot"
)

// resetFlags restores every flag of cmd and its children to its default.
func resetFlags(t *testing.T) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			if err := sv.Replace(nil); err != nil {
				t.Fatalf("reset %s: %v", f.Name, err)
			}
		} else if err := f.Value.Set(f.DefValue); err != nil {
			t.Fatalf("reset %s: %v", f.Name, err)
		}
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(reset)
	}
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(t)
	t.Cleanup(func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
		cleanups = nil
	})

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// emptyProfile keeps the nearest-simple.toml lookup out of the tests.
func emptyProfile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "simple.toml")
	if err := os.WriteFile(path, []byte("[target]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolveSoftFloat(t *testing.T) {
	out, _, err := runCLI(t, "resolve", "--profile", emptyProfile(t), "--", "-target", "simple-unknown-linux", "-msoft-float")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for _, want := range []string{"triple:    simple-unknown-linux\n", "float-abi: soft\n", "features:  +soft-float\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestResolveBogusFloatABI(t *testing.T) {
	out, errOut, err := runCLI(t, "resolve", "--profile", emptyProfile(t), "--diag-format", "short", "--", "-mfloat-abi=bogus")
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported", err)
	}
	if !strings.Contains(out, "float-abi: hard\n") || !strings.Contains(out, "features:  (none)\n") {
		t.Errorf("stdout:\n%s", out)
	}
	want := "error DRV1001 -mfloat-abi=bogus: invalid float ABI '-mfloat-abi=bogus'\n" +
		"note DRV1001 valid values are 'soft' and 'hard'\n"
	if errOut != want {
		t.Errorf("stderr = %q, want %q", errOut, want)
	}
}

func TestResolveJSON(t *testing.T) {
	out, _, err := runCLI(t, "resolve", "--profile", emptyProfile(t), "--format", "json", "--", "-mfloat-abi=soft", "-mhard-float")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	var p resolvePayload
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if p.FloatABI != "hard" || len(p.Features) != 0 {
		t.Errorf("payload = %+v", p)
	}
}

func TestDefinesLinuxGNU(t *testing.T) {
	out, _, err := runCLI(t, "defines", "--profile", emptyProfile(t), "--", "--target=simple-unknown-linux", "-std=gnu99")
	if err != nil {
		t.Fatalf("defines: %v", err)
	}
	for _, want := range []string{"#define simple 1\n", "#define __simple 1\n", "#define __REGISTER_PREFIX__ \n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "__simple__") || strings.Contains(out, "SOFT_FLOAT") {
		t.Errorf("unexpected macro:\n%s", out)
	}
}

func TestDescribeJSON(t *testing.T) {
	out, _, err := runCLI(t, "describe", "--profile", emptyProfile(t), "--format", "json", "--", "-msoft-float")
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	var s snapshot.Snapshot
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !s.SoftFloat || s.Triple != "simple-unknown-elf" || len(s.Registers) != 32 {
		t.Errorf("snapshot = %+v", s)
	}
}

func TestDescribePretty(t *testing.T) {
	out, _, err := runCLI(t, "describe", "--profile", emptyProfile(t))
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	for _, want := range []string{"Target", "Layout", "i64", "Registers", "float abi", "hard", "Macros"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDescribeUnknownArch(t *testing.T) {
	_, errOut, err := runCLI(t, "describe", "--profile", emptyProfile(t), "--diag-format", "short", "--", "--target=mips-unknown-linux")
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(errOut, "error TGT2001") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestCheckAsm(t *testing.T) {
	out, errOut, err := runCLI(t, "check-asm", "--profile", emptyProfile(t), "--diag-format", "short", "r", "=&r", "I", "q")
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	checks := []string{"ok       register", "ok       register, early-clobber", "ok       (no operand kinds)", "invalid  unknown letter 'q' at offset 0"}
	for i, want := range checks {
		if !strings.HasSuffix(lines[i], want) {
			t.Errorf("line %d = %q, want suffix %q", i, lines[i], want)
		}
	}
	if !strings.Contains(errOut, "ASM3001") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestLayoutCommand(t *testing.T) {
	prof := emptyProfile(t)
	out, _, err := runCLI(t, "layout", "--profile", prof, "i8", "i64", "ptr")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	want := "struct { i8, i64, ptr }  size 24  align 8\n" +
		"  i8   offset 0  align 1\n" +
		"  i64  offset 8  align 8\n" +
		"  ptr  offset 16  align 4\n"
	if out != want {
		t.Errorf("struct layout:\n%s\nwant:\n%s", out, want)
	}

	out, _, err = runCLI(t, "layout", "--profile", prof, "--array", "3", "f128")
	if err != nil {
		t.Fatalf("layout --array: %v", err)
	}
	if out != "[3]f128  size 48  align 8\n" {
		t.Errorf("array layout = %q", out)
	}

	if _, _, err := runCLI(t, "layout", "--profile", prof, "u7"); err == nil || !strings.Contains(err.Error(), "unknown scalar type") {
		t.Errorf("bad type err = %v", err)
	}
	if _, _, err := runCLI(t, "layout", "--profile", prof, "--array", "2", "i8", "i16"); err == nil {
		t.Error("--array with two types should fail")
	}
}

func TestMatrixCommand(t *testing.T) {
	out, _, err := runCLI(t, "matrix", "--profile", emptyProfile(t), "--os", "linux,rtems", "--ui", "off", "--", "-msoft-float")
	if err != nil {
		t.Fatalf("matrix: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "linux ") || !strings.Contains(lines[1], "simple-unknown-linux") || !strings.Contains(lines[1], "soft") {
		t.Errorf("linux row = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "rtems ") || !strings.HasSuffix(lines[2], "ok") {
		t.Errorf("rtems row = %q", lines[2])
	}
}

func TestMatrixReportsSharedDiagnosticsOnce(t *testing.T) {
	_, errOut, err := runCLI(t, "matrix", "--profile", emptyProfile(t), "--os", "linux,netbsd,rtems", "--diag-format", "short", "--", "-fbogus")
	if err != nil {
		t.Fatalf("matrix: %v", err)
	}
	if n := strings.Count(errOut, "DRV1002"); n != 1 {
		t.Errorf("DRV1002 reported %d times:\n%s", n, errOut)
	}
}

func TestMatrixRejectsBadUIMode(t *testing.T) {
	_, _, err := runCLI(t, "matrix", "--profile", emptyProfile(t), "--ui", "sometimes")
	if err == nil || !strings.Contains(err.Error(), "auto, on or off") {
		t.Fatalf("err = %v", err)
	}
}

func TestProgressModeEnabled(t *testing.T) {
	var m progressMode
	for in, want := range map[string]progressMode{"ON": progressOn, " off ": progressOff, "": progressAuto, "auto": progressAuto} {
		if err := m.Set(in); err != nil || m != want {
			t.Errorf("Set(%q) = %q, %v", in, m, err)
		}
	}
	var buf bytes.Buffer
	if progressAuto.enabled(&buf) || progressOff.enabled(&buf) || !progressOn.enabled(&buf) {
		t.Error("unexpected enabled() for a non-terminal writer")
	}
}

func TestVersionJSON(t *testing.T) {
	out, _, err := runCLI(t, "version", "--format", "json", "--hash")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var p versionPayload
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Tool != "simplecc" || p.GitCommit == "" {
		t.Errorf("payload = %+v", p)
	}
}
