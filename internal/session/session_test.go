package session

import (
	"bytes"
	"strings"
	"testing"

	"phs/internal/diag"
	"phs/internal/source"
	"phs/internal/trace"
)

func TestAbortOnFirstError(t *testing.T) {
	bag := diag.NewBag(0)
	s := New(diag.BagReporter{Bag: bag}, nil, Options{})
	var hooked []diag.Code
	s.SetAbortHook(func(d diag.Diagnostic) { hooked = append(hooked, d.Code) })

	s.Warnf(diag.RedDivisionByZero, source.Span{}, "division by zero")
	if s.Aborted() {
		t.Fatalf("warning must not abort outside strict mode")
	}
	s.Errorf(diag.SymRedefinition, source.Span{}, "redefinition of symbol `%s`", "x")
	s.Errorf(diag.SymRedefinition, source.Span{}, "redefinition of symbol `%s`", "y")

	if !s.Aborted() {
		t.Fatalf("expected abort after error")
	}
	if len(hooked) != 1 || hooked[0] != diag.SymRedefinition {
		t.Fatalf("hook must fire exactly once, got %v", hooked)
	}
	if s.ErrorCount() != 2 || s.WarningCount() != 1 || bag.Len() != 3 {
		t.Fatalf("unexpected counters: errors=%d warnings=%d bag=%d", s.ErrorCount(), s.WarningCount(), bag.Len())
	}
}

func TestStrictAbortsOnWarning(t *testing.T) {
	s := New(diag.BagReporter{Bag: diag.NewBag(0)}, nil, Options{Strict: true})
	s.Warnf(diag.DsgDuplicateModifier, source.Span{}, "duplicate modifier `%s`", "public")
	if !s.Aborted() {
		t.Fatalf("strict session must abort on warning")
	}
}

func TestDebugfGoesToTrace(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.NewStreamTracer(&buf, trace.LevelDebug, trace.FormatText)
	s := New(nil, tr, Options{})
	id := s.Files.AddVirtual("u.phs", []byte("fn main() {}\n"))
	s.Debugf(source.Span{File: id, Start: 3, End: 7}, "adding symbol `%s`", "main")
	if !strings.Contains(buf.String(), "adding symbol `main`") || !strings.Contains(buf.String(), "u.phs:1:4") {
		t.Fatalf("unexpected trace output: %s", buf.String())
	}
}

func TestDedupOption(t *testing.T) {
	bag := diag.NewBag(0)
	s := New(diag.BagReporter{Bag: bag}, nil, Options{Dedup: true})
	for i := 0; i < 2; i++ {
		s.Errorf(diag.ResUndefinedSymbol, source.Span{Start: 1, End: 2}, "access to undefined symbol `x`")
	}
	if bag.Len() != 1 {
		t.Fatalf("expected dedup to keep one diagnostic, got %d", bag.Len())
	}
}
