package matrix

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"simplecc/internal/diag"
	"simplecc/internal/target"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) last(job string) Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out Event
	for _, ev := range s.events {
		if ev.Job == job {
			out = ev
		}
	}
	return out
}

func TestRunKeepsRequestOrder(t *testing.T) {
	oses := []string{"rtems", "linux", "netbsd", "freebsd"}
	sink := &recordingSink{}
	res, err := Run(context.Background(), Request{
		Argv:     []string{"-msoft-float"},
		OSes:     oses,
		Jobs:     2,
		Progress: sink,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Failed() {
		t.Fatal("unexpected failure")
	}
	for i, e := range res.Entries {
		if e.OS != oses[i] {
			t.Errorf("entry %d OS = %q, want %q", i, e.OS, oses[i])
		}
		if e.Snapshot == nil || !e.Snapshot.SoftFloat {
			t.Errorf("%s: missing soft-float snapshot", e.OS)
			continue
		}
		hasDunder := slices.ContainsFunc(e.Snapshot.Macros, func(m target.Macro) bool { return m.Name == "__simple__" })
		if hasDunder != (e.OS != "linux") {
			t.Errorf("%s: __simple__ defined = %v", e.OS, hasDunder)
		}
		if ev := sink.last(e.OS); ev.Status != StatusDone {
			t.Errorf("%s: last event %+v", e.OS, ev)
		}
	}
}

func TestRunJobErrorsDoNotCancel(t *testing.T) {
	res, err := Run(context.Background(), Request{
		Argv: []string{"--target=mips-unknown-elf"},
		OSes: []string{"linux", "rtems"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	var ua *target.UnknownArchError
	for _, e := range res.Entries {
		if !errors.As(e.Err, &ua) {
			t.Errorf("%s: err = %v", e.OS, e.Err)
		}
		if e.Snapshot != nil {
			t.Errorf("%s: snapshot taken after failure", e.OS)
		}
	}
	if !res.Failed() {
		t.Error("Failed() = false")
	}
}

func TestDiagnosticsMergesSharedFindings(t *testing.T) {
	res, err := Run(context.Background(), Request{
		Argv: []string{"-fbogus", "-mfloat-abi=q"},
		OSes: []string{"linux", "netbsd", "rtems"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, e := range res.Entries {
		if e.Result.Bag.Len() != 2 {
			t.Fatalf("%s: got %d diagnostics", e.OS, e.Result.Bag.Len())
		}
	}

	bag := res.Diagnostics(100)
	got := make([]diag.Code, 0, bag.Len())
	for _, d := range bag.Items() {
		got = append(got, d.Code)
	}
	want := []diag.Code{diag.DrvUnknownArgument, diag.DrvInvalidFloatABI}
	if !slices.Equal(got, want) {
		t.Fatalf("merged codes = %v, want %v", got, want)
	}
	if !bag.HasErrors() {
		t.Error("merged bag lost the error")
	}
}

func TestRunDefaultsAndCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Run(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(res.Entries) != len(DefaultOSes()) {
		t.Errorf("got %d entries", len(res.Entries))
	}
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{Job: "linux", Status: StatusDone})
	if ev := <-ch; ev.Job != "linux" {
		t.Errorf("got %+v", ev)
	}
	ChannelSink{}.OnEvent(Event{})
}
