// Package diag defines the diagnostic model shared by every semantic pass.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced by
//     the collector, desugarer, validator, resolver and reducer.
//   - Offer light-weight utilities (Reporter, Bag) that let passes emit
//     diagnostics without coupling to storage or formatting layers.
//
// Package diag does not format anything. Rendering lives in internal/diagfmt,
// orchestration in internal/driver and abort handling in internal/session.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error).
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//     Ranges: SYM scope/symbol/usage, DSG desugaring, VAL validation,
//     RES resolution, RED reduction, IO loading, OBS observability.
//   - Message – short, actionable text.
//   - Primary span – the source.Span pointing to the issue.
//   - Notes – secondary spans, e.g. “previous declaration was here”.
//   - Fixes – optional plain text edits.
//
// # Emitting diagnostics
//
// Passes build a ReportBuilder via ReportError/ReportWarning/ReportInfo,
// chain WithNote and call Emit. BagReporter collects into a Bag, which
// supports limits, sorting and deduplication.
package diag
