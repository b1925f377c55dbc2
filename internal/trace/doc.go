// Package trace records what the compiler is doing.
//
// The front end has no logging library: user-facing problems are diagnostics
// (package diag), everything else is a trace event. Symbol-table debug output
// ("adding symbol", "adding import") is emitted as ScopeNode points and only
// shows up at LevelDebug.
//
// # Implementations
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write (text or NDJSON)
//   - RingTracer: last N events kept in memory
//   - MultiTracer: fan-out
//
// # Usage
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "collect", trace.CurrentSpan(ctx))
//	defer span.End("")
package trace
