// Package session carries the per-compilation context every pass receives:
// interner, file set, diagnostic sink, tracer and options. It replaces a
// process-wide logger with an explicit value.
package session

import (
	"fmt"
	"sync"

	"phs/internal/diag"
	"phs/internal/source"
	"phs/internal/trace"
)

// Options tune how diagnostics affect the pipeline.
type Options struct {
	// Strict escalates the first warning into an abort.
	Strict bool
	// Dedup suppresses repeated diagnostics with the same span and message.
	Dedup bool
}

// Session is shared by all passes of one compilation.
type Session struct {
	Strings *source.Interner
	Files   *source.FileSet
	Tracer  trace.Tracer
	Opts    Options

	reporter diag.Reporter
	parent   uint64 // span id для точек трейса

	mu       sync.Mutex
	errors   int
	warnings int
	aborted  bool
	onAbort  func(diag.Diagnostic)
}

// New builds a session around rep. A nil tracer means tracing is off.
func New(rep diag.Reporter, tr trace.Tracer, opts Options) *Session {
	if tr == nil {
		tr = trace.Nop
	}
	if rep == nil {
		rep = diag.NopReporter{}
	}
	if opts.Dedup {
		rep = diag.NewDedupReporter(rep)
	}
	s := &Session{
		Strings: source.NewInterner(),
		Files:   source.NewFileSet(),
		Tracer:  tr,
		Opts:    opts,
	}
	s.reporter = &countingReporter{sess: s, next: rep}
	return s
}

// Reporter returns the sink passes should emit into. It counts severities
// and fires the abort hook.
func (s *Session) Reporter() diag.Reporter {
	return s.reporter
}

// SetAbortHook installs fn, called once when the session aborts.
func (s *Session) SetAbortHook(fn func(diag.Diagnostic)) {
	s.mu.Lock()
	s.onAbort = fn
	s.mu.Unlock()
}

// SetTraceParent makes debug points children of the given span.
func (s *Session) SetTraceParent(id uint64) {
	s.parent = id
}

// Aborted reports whether an error (or a warning in strict mode) was seen.
// The driver polls it between passes.
func (s *Session) Aborted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aborted
}

// ErrorCount returns the number of errors reported so far.
func (s *Session) ErrorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors
}

// WarningCount returns the number of warnings reported so far.
func (s *Session) WarningCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.warnings
}

// Name returns the text of an interned id.
func (s *Session) Name(id source.StringID) string {
	return s.Strings.MustLookup(id)
}

// Errorf reports an error without notes.
func (s *Session) Errorf(code diag.Code, sp source.Span, format string, args ...any) {
	diag.ReportError(s.reporter, code, sp, fmt.Sprintf(format, args...)).Emit()
}

// Warnf reports a warning without notes.
func (s *Session) Warnf(code diag.Code, sp source.Span, format string, args ...any) {
	diag.ReportWarning(s.reporter, code, sp, fmt.Sprintf(format, args...)).Emit()
}

// Infof reports an informational diagnostic.
func (s *Session) Infof(code diag.Code, sp source.Span, format string, args ...any) {
	diag.ReportInfo(s.reporter, code, sp, fmt.Sprintf(format, args...)).Emit()
}

// Debugf emits a node-level trace point, visible at trace level debug.
func (s *Session) Debugf(sp source.Span, format string, args ...any) {
	if !s.Tracer.Enabled() || !s.Tracer.Level().ShouldEmit(trace.ScopeNode) {
		return
	}
	trace.Point(s.Tracer, trace.ScopeNode, "debug", fmt.Sprintf(format, args...), s.parent,
		"at", s.position(sp))
}

func (s *Session) position(sp source.Span) string {
	if s.Files != nil && s.Files.Has(sp.File) {
		return s.Files.Position(sp)
	}
	return sp.String()
}

type countingReporter struct {
	sess *Session
	next diag.Reporter
}

func (r *countingReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r.next.Report(code, sev, primary, msg, notes, fixes)

	s := r.sess
	s.mu.Lock()
	switch sev {
	case diag.SevError:
		s.errors++
	case diag.SevWarning:
		s.warnings++
	}
	fire := !s.aborted && (sev == diag.SevError || (sev == diag.SevWarning && s.Opts.Strict))
	if fire {
		s.aborted = true
	}
	hook := s.onAbort
	s.mu.Unlock()

	if sev == diag.SevError {
		trace.Point(s.Tracer, trace.ScopeError, code.ID(), msg, s.parent, "at", s.position(primary))
	}
	if fire && hook != nil {
		hook(diag.Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes, Fixes: fixes})
	}
}
