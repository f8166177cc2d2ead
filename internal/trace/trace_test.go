package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestStreamTracerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)

	outer := Begin(tr, ScopeTarget, "target.setup", 0)
	inner := Begin(tr, ScopeStep, "target.construct", outer.ID())
	inner.End("")
	outer.WithExtra("triple", "simple-unknown-linux").End("ok")

	out := buf.String()
	if !strings.Contains(out, "→ target.setup") {
		t.Fatalf("expected begin event for target.setup, got:\n%s", out)
	}
	if !strings.Contains(out, "← target.setup (ok) {triple=simple-unknown-linux}") {
		t.Fatalf("expected end event with detail and extra, got:\n%s", out)
	}
	if strings.Contains(out, "target.construct") {
		t.Fatalf("step scope must be filtered at phase level, got:\n%s", out)
	}
}

func TestErrorPointBypassesLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelError, FormatNDJSON)
	Point(tr, ScopeDriver, "ignored", 0, "", nil)
	Errorf(tr, "resolve.float-abi", 0, "invalid value %q", "x")

	out := buf.String()
	if strings.Contains(out, "ignored") {
		t.Fatalf("point must not be emitted at error level: %s", out)
	}
	if !strings.Contains(out, `"kind":"error"`) || !strings.Contains(out, `invalid value \"x\"`) {
		t.Fatalf("expected NDJSON error event, got: %s", out)
	}
}

func TestNewOffReturnsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tr.Enabled() {
		t.Fatalf("expected disabled tracer")
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("expected Nop from empty context")
	}
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatText)
	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != Tracer(tr) {
		t.Fatalf("expected tracer from context")
	}
	span := Begin(tr, ScopeTarget, "x", 0)
	ctx = WithSpan(ctx, span)
	if CurrentSpan(ctx) != span.ID() {
		t.Fatalf("CurrentSpan = %d, want %d", CurrentSpan(ctx), span.ID())
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "error", "phase", "detail", "debug"} {
		lvl, err := ParseLevel(s)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", s, err)
		}
		if lvl.String() != s {
			t.Fatalf("round trip %q -> %q", s, lvl.String())
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
