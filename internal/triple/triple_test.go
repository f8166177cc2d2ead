package triple

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in     string
		arch   string
		vendor string
		os     OS
		env    string
	}{
		{"simple-unknown-linux-gnu", "simple", "unknown", Linux, "gnu"},
		{"simple-unknown-netbsd9.3", "simple", "unknown", NetBSD, ""},
		{"simple-pc-openbsd", "simple", "pc", OpenBSD, ""},
		{"simple-elf", "simple", "unknown", UnknownOS, ""},
		{"SIMPLE-unknown-none", "simple", "unknown", UnknownOS, ""},
		{"simple-unknown-elfiamcu", "simple", "unknown", ELFIAMCU, ""},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.in, err)
		}
		if got.Arch != tt.arch || got.Vendor != tt.vendor || got.OS != tt.os || got.Env != tt.env {
			t.Errorf("Parse(%q) = %+v", tt.in, got)
		}
	}
}

func TestParseOSNoneIsUnknown(t *testing.T) {
	if got := ParseOS("none"); got != UnknownOS {
		t.Errorf("ParseOS(none) = %v, want unknown", got)
	}
	if got := ParseOS("elfiamcu"); got != ELFIAMCU {
		t.Errorf("ParseOS(elfiamcu) = %v", got)
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "simple", "simple--linux", "a-b-c-d-e"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q): expected error", in)
		}
	}
}

func TestStringPreservesSpelling(t *testing.T) {
	tr := MustParse("simple-unknown-netbsd9.3")
	if got := tr.String(); got != "simple-unknown-netbsd9.3" {
		t.Fatalf("String() = %q", got)
	}
	if got := tr.WithOS(Linux).String(); got != "simple-unknown-linux" {
		t.Fatalf("WithOS(Linux).String() = %q", got)
	}
	if got := New("simple", "unknown", OpenBSD).String(); got != "simple-unknown-openbsd" {
		t.Fatalf("New().String() = %q", got)
	}
}
