package observ

import (
	"strings"
	"testing"
)

func TestTimerPhases(t *testing.T) {
	tm := NewTimer()
	a := tm.Begin("parse-args")
	tm.End(a, "3 args")
	b := tm.Begin("setup")
	tm.End(b, "")
	tm.End(42, "ignored")

	if got := tm.Phase(a); got.Name != "parse-args" || got.Note != "3 args" {
		t.Errorf("Phase(a) = %+v", got)
	}
	if got := tm.Phase(-1); got.Name != "" {
		t.Errorf("Phase(-1) = %+v", got)
	}

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("got %d phases", len(rep.Phases))
	}
	if rep.TotalMS < rep.Phases[0].DurationMS {
		t.Errorf("total %.3f below first phase %.3f", rep.TotalMS, rep.Phases[0].DurationMS)
	}

	sum := tm.Summary()
	for _, want := range []string{"timings:\n", "  parse-args ", "// 3 args", "  total      "} {
		if !strings.Contains(sum, want) {
			t.Errorf("summary missing %q:\n%s", want, sum)
		}
	}
}

func TestEmptyReport(t *testing.T) {
	if rep := NewTimer().Report(); rep.TotalMS != 0 || rep.Phases != nil {
		t.Errorf("Report() = %+v", rep)
	}
}
