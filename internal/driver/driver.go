// Package driver turns a compiler command line into a configured target:
// it classifies the arguments, picks the triple, resolves the float ABI and
// runs target setup, collecting every finding in one diagnostic bag.
package driver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"simplecc/internal/diag"
	"simplecc/internal/observ"
	"simplecc/internal/target"
	"simplecc/internal/toolchain/opt"
	"simplecc/internal/toolchain/simple"
	"simplecc/internal/trace"
	"simplecc/internal/triple"
)

// DefaultTriple is used when the command line carries no -target.
const DefaultTriple = "simple-unknown-elf"

// Request describes one configuration run.
type Request struct {
	Argv           []string
	DefaultTriple  string // DefaultTriple when empty
	OS             string // overrides the triple's OS when set
	MaxDiagnostics int
	Registry       *target.Registry // target.DefaultRegistry() when nil
	Observer       PhaseObserver
}

// Result holds everything Configure learned. Fields after a failed step
// are left zero; Bag is always set.
type Result struct {
	Args     *opt.ArgList
	Triple   triple.Triple
	FloatABI simple.FloatABI
	Options  target.Options
	Lang     target.LangOptions
	Info     target.Info
	Bag      *diag.Bag
	Timing   observ.Report
}

// Failed reports whether an error-level diagnostic was collected.
func (r *Result) Failed() bool {
	return r == nil || r.Bag.HasErrors()
}

// Session is the driver handle passed to the toolchain helpers.
type Session struct {
	bag *diag.Bag
	rep diag.Reporter
}

func NewSession(maxDiagnostics int) *Session {
	bag := diag.NewBag(maxDiagnostics)
	return &Session{bag: bag, rep: diag.NewDedupReporter(diag.BagReporter{Bag: bag})}
}

func (s *Session) Reporter() diag.Reporter { return s.rep }

func (s *Session) Bag() *diag.Bag { return s.bag }

// Configure runs parse-args, triple, resolve and setup in order. The
// returned error is non-nil only when a step could not produce its value;
// findings that let the run continue (an invalid float ABI, an unknown
// CPU) stay in Result.Bag.
func Configure(ctx context.Context, req Request) (*Result, error) {
	sess := NewSession(req.MaxDiagnostics)
	res := &Result{Bag: sess.bag}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "driver.configure", trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, span)
	defer span.End("")

	ph := newPhases(req.Observer)
	defer func() { res.Timing = ph.timer.Report() }()

	idx := ph.begin("parse-args")
	args, err := opt.Parse(req.Argv)
	if err != nil {
		var mv *opt.MissingValueError
		if errors.As(err, &mv) {
			diag.ReportError(sess.rep, diag.DrvMissingValue, diag.ArgRef{Index: mv.Index, Text: mv.Option}, mv.Error()).Emit()
		}
		ph.end(idx, "failed")
		return res, err
	}
	res.Args = args
	for _, a := range args.Filtered(opt.OptUnknown) {
		diag.ReportWarning(sess.rep, diag.DrvUnknownArgument, diag.ArgRef{Index: a.Index, Text: a.AsString()},
			fmt.Sprintf("unknown argument: '%s'", a.AsString())).Emit()
	}
	if std := args.LastArg(opt.OptStdEQ); std != nil {
		res.Lang.GNUMode = strings.HasPrefix(std.Value(), "gnu")
	}
	ph.end(idx, fmt.Sprintf("%d args", args.Len()))

	idx = ph.begin("triple")
	t, err := pickTriple(req, args, sess.rep)
	if err != nil {
		ph.end(idx, "failed")
		return res, err
	}
	res.Triple = t
	ph.end(idx, t.String())

	idx = ph.begin("resolve")
	res.Options = simple.TargetOptions(sess, args)
	res.FloatABI = simple.ParseFloatABI(res.Options.ABI)
	trace.Point(tracer, trace.ScopeDriver, "driver.float-abi", span.ID(), res.FloatABI.String(),
		map[string]string{"features": strings.Join(res.Options.Features, ",")})
	ph.end(idx, res.FloatABI.String())

	idx = ph.begin("setup")
	reg := req.Registry
	if reg == nil {
		reg = target.DefaultRegistry()
	}
	info, err := target.Setup(ctx, reg, t, res.Options, sess.rep)
	if err != nil {
		ph.end(idx, "failed")
		return res, err
	}
	res.Info = info
	ph.end(idx, info.CPU().String())
	return res, nil
}

func pickTriple(req Request, args *opt.ArgList, r diag.Reporter) (triple.Triple, error) {
	spelled := req.DefaultTriple
	if spelled == "" {
		spelled = DefaultTriple
	}
	ref := diag.NoArg
	if a := args.LastArg(opt.OptTargetEQ); a != nil {
		spelled = a.Value()
		ref = diag.ArgRef{Index: a.Index, Text: a.AsString()}
	}
	t, err := triple.Parse(spelled)
	if err != nil {
		diag.ReportError(r, diag.DrvInvalidTriple, ref, err.Error()).Emit()
		return triple.Triple{}, err
	}
	if req.OS != "" {
		t = t.WithOS(triple.ParseOS(req.OS))
	}
	return t, nil
}
