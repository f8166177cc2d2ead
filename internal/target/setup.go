package target

import (
	"context"
	"strings"

	"simplecc/internal/diag"
	"simplecc/internal/trace"
	"simplecc/internal/triple"
)

// Setup runs the configuration phase for t: construct, apply the CPU from
// opts (an unrecognised name is reported as a warning), apply the feature
// list, then freeze. Only an unknown architecture is an error.
func Setup(ctx context.Context, reg *Registry, t triple.Triple, opts Options, r diag.Reporter) (Info, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeTarget, "target.setup", trace.CurrentSpan(ctx))
	span.WithExtra("triple", t.String())
	defer span.End("")

	if r == nil {
		r = diag.NopReporter{}
	}

	step := trace.Begin(tracer, trace.ScopeStep, "target.construct", span.ID())
	cfg, err := reg.New(t, opts)
	if err != nil {
		step.End("failed")
		diag.ReportError(r, diag.TgtUnknownArch, diag.ArgRef{Index: -1, Text: t.String()}, err.Error()).Emit()
		trace.Errorf(tracer, "target.construct", span.ID(), "%v", err)
		return nil, err
	}
	step.End("")

	if opts.CPU != "" {
		step = trace.Begin(tracer, trace.ScopeStep, "target.set-cpu", span.ID())
		if !cfg.SetCPU(opts.CPU) && opts.CPU != "generic" {
			diag.ReportWarning(r, diag.TgtUnknownCPU, diag.ArgRef{Index: -1, Text: opts.CPU},
				"unknown target CPU '"+opts.CPU+"', using generic").Emit()
		}
		step.WithExtra("cpu", opts.CPU).End("")
	}

	step = trace.Begin(tracer, trace.ScopeStep, "target.features", span.ID())
	cfg.HandleTargetFeatures(opts.Features, r)
	step.WithExtra("features", strings.Join(opts.Features, ",")).End("")

	return cfg.Finalize(), nil
}
