package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"
)

const profileFileName = "simple.toml"

// targetProfile is a simple.toml file. Its settings become driver
// arguments placed before the command-line ones.
type targetProfile struct {
	Path   string
	Config profileConfig
}

type profileConfig struct {
	Target targetSection `toml:"target"`
	Lang   langSection   `toml:"lang"`
}

type targetSection struct {
	Triple   string   `toml:"triple"`
	CPU      string   `toml:"cpu"`
	FloatABI string   `toml:"float-abi"`
	Features []string `toml:"features"`
}

type langSection struct {
	GNU *bool `toml:"gnu"`
}

func findProfile(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, profileFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProfile(path string) (*targetProfile, error) {
	var cfg profileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if !meta.IsDefined("target") {
		return nil, fmt.Errorf("%s: missing [target]", path)
	}

	t := &cfg.Target
	t.Triple = normalizeValue(t.Triple)
	t.CPU = normalizeValue(t.CPU)
	t.FloatABI = normalizeValue(t.FloatABI)
	for i, f := range t.Features {
		f = normalizeValue(f)
		if len(f) < 2 || (f[0] != '+' && f[0] != '-') {
			return nil, fmt.Errorf("%s: [target].features[%d] must start with '+' or '-': %q", path, i, f)
		}
		t.Features[i] = f
	}
	if meta.IsDefined("target", "triple") && t.Triple == "" {
		return nil, fmt.Errorf("%s: [target].triple is empty", path)
	}
	return &targetProfile{Path: path, Config: cfg}, nil
}

// normalizeValue folds width variants and compatibility characters so
// values pasted from other documents compare equal to their ASCII form.
func normalizeValue(s string) string {
	return norm.NFKC.String(strings.TrimSpace(s))
}

// Args converts the profile into driver arguments.
func (p *targetProfile) Args() []string {
	if p == nil {
		return nil
	}
	var args []string
	t := p.Config.Target
	if t.Triple != "" {
		args = append(args, "--target="+t.Triple)
	}
	if t.CPU != "" {
		args = append(args, "-mcpu="+t.CPU)
	}
	if t.FloatABI != "" {
		args = append(args, "-mfloat-abi="+t.FloatABI)
	}
	for _, f := range t.Features {
		if f[0] == '+' {
			args = append(args, "-m"+f[1:])
		} else {
			args = append(args, "-mno-"+f[1:])
		}
	}
	if gnu := p.Config.Lang.GNU; gnu != nil {
		if *gnu {
			args = append(args, "-std=gnu11")
		} else {
			args = append(args, "-std=c11")
		}
	}
	return args
}

// profileFor loads the profile named by --profile, or the nearest
// simple.toml above the working directory. No profile is not an error.
func profileFor(cmd *cobra.Command) (*targetProfile, error) {
	path, err := cmd.Root().PersistentFlags().GetString("profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get profile flag: %w", err)
	}
	if path == "" {
		found, ok, err := findProfile(".")
		if err != nil || !ok {
			return nil, err
		}
		path = found
	}
	return loadProfile(path)
}
