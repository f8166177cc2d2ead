// Package trace provides the tracing subsystem used for logging target
// setup and option resolution.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	simplecc describe --trace=- --trace-level=detail -- -msoft-float
//
// # Tracers
//
//   - nopTracer: zero-overhead no-op tracer when disabled (see Nop)
//   - StreamTracer: immediate write to output (file/stderr), text or NDJSON
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only error points
//   - LevelPhase: driver and target setup boundaries
//   - LevelDetail: individual setup steps (construct, set-cpu, features)
//   - LevelDebug: everything, including fact queries
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeTarget, "target.setup", 0)
//	defer span.End("")
package trace
