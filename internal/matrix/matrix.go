// Package matrix configures the same command line for several operating
// systems at once and collects one target snapshot per OS.
package matrix

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"simplecc/internal/diag"
	"simplecc/internal/driver"
	"simplecc/internal/snapshot"
	"simplecc/internal/target"
)

// DefaultOSes is the OS list used when a request names none.
func DefaultOSes() []string {
	return []string{"linux", "netbsd", "openbsd", "freebsd", "rtems", "elfiamcu"}
}

// Request describes a matrix run.
type Request struct {
	Argv           []string
	OSes           []string
	Jobs           int // GOMAXPROCS when <= 0
	MaxDiagnostics int
	Registry       *target.Registry
	Progress       ProgressSink
}

// Entry is the outcome for one OS. Err is the configuration error, if any;
// Result.Bag carries the diagnostics either way.
type Entry struct {
	OS       string
	Result   *driver.Result
	Snapshot *snapshot.Snapshot
	Err      error
	Elapsed  time.Duration
}

// Result lists entries in request order.
type Result struct {
	Entries []Entry
}

// Failed reports whether any entry errored or collected an error diagnostic.
func (r Result) Failed() bool {
	for _, e := range r.Entries {
		if e.Err != nil || e.Result.Failed() {
			return true
		}
	}
	return false
}

// Diagnostics merges the per-OS bags into one sorted bag. Findings about
// the shared command line repeat in every entry and are kept once.
func (r Result) Diagnostics(max int) *diag.Bag {
	bag := diag.NewBag(max)
	for _, e := range r.Entries {
		if e.Result != nil {
			bag.Merge(e.Result.Bag)
		}
	}
	bag.Dedup()
	bag.Sort()
	return bag
}

// Run configures every OS concurrently, at most req.Jobs at a time. A
// failing job does not stop the others; only cancellation of ctx does,
// and then Run returns the context error alongside the partial result.
func Run(ctx context.Context, req Request) (Result, error) {
	oses := req.OSes
	if len(oses) == 0 {
		oses = DefaultOSes()
	}
	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	sink := req.Progress
	if sink == nil {
		sink = nopSink{}
	}

	entries := make([]Entry, len(oses))
	for i, os := range oses {
		entries[i].OS = os
		sink.OnEvent(Event{Job: os, Status: StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i := range entries {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			runJob(gctx, req, &entries[i], sink)
			return nil
		})
	}
	err := g.Wait()
	return Result{Entries: entries}, err
}

func runJob(ctx context.Context, req Request, e *Entry, sink ProgressSink) {
	start := time.Now()
	observer := func(ev driver.PhaseEvent) {
		if ev.Status != driver.PhaseStart {
			return
		}
		switch ev.Name {
		case "resolve":
			sink.OnEvent(Event{Job: e.OS, Stage: StageResolve, Status: StatusWorking, Elapsed: time.Since(start)})
		case "setup":
			sink.OnEvent(Event{Job: e.OS, Stage: StageSetup, Status: StatusWorking, Elapsed: time.Since(start)})
		}
	}

	res, err := driver.Configure(ctx, driver.Request{
		Argv:           req.Argv,
		OS:             e.OS,
		MaxDiagnostics: req.MaxDiagnostics,
		Registry:       req.Registry,
		Observer:       observer,
	})
	e.Result = res
	if err != nil {
		e.Err = err
		e.Elapsed = time.Since(start)
		sink.OnEvent(Event{Job: e.OS, Status: StatusError, Err: err, Elapsed: e.Elapsed})
		return
	}

	sink.OnEvent(Event{Job: e.OS, Stage: StageSnapshot, Status: StatusWorking, Elapsed: time.Since(start)})
	e.Snapshot = snapshot.Take(res.Info, res.Lang)
	e.Elapsed = time.Since(start)
	status := StatusDone
	if res.Failed() {
		status = StatusError
	}
	sink.OnEvent(Event{Job: e.OS, Stage: StageSnapshot, Status: status, Elapsed: e.Elapsed})
}
