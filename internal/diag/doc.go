// Package diag defines the diagnostic model shared by the driver, the
// target description and the inline-assembly checks.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for findings produced while
//     resolving driver options and configuring a target.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary – the ArgRef naming the offending driver argument, if any.
//   - Notes – optional secondary messages.
//
// # Emitting diagnostics
//
// Producers that must stay side-effect free (the float ABI resolver, for
// example) return a *Diagnostic to the caller. Everything else reports
// through a Reporter, either directly or via ReportError/ReportWarning and
// the chained ReportBuilder. BagReporter aggregates into a Bag, which
// supports sorting and deduplication.
package diag
