package diag

import (
	"testing"

	"phs/internal/source"
)

func TestBagLimitAndCounts(t *testing.T) {
	bag := NewBag(2)
	r := BagReporter{Bag: bag}
	ReportWarning(r, RedDivisionByZero, source.Span{Start: 4, End: 5}, "division by zero").Emit()
	ReportError(r, SymRedefinition, source.Span{Start: 1, End: 2}, "redefinition of symbol `x`").
		WithNote(source.Span{Start: 0, End: 1}, "previous symbol was here").
		Emit()
	ReportError(r, SymRedefinition, source.Span{Start: 9, End: 9}, "dropped").Emit()

	if bag.Cap() != 2 {
		t.Fatalf("Cap = %d, want 2", bag.Cap())
	}
	if bag.Len() != 2 {
		t.Fatalf("expected limit to keep 2 items, got %d", bag.Len())
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("expected both errors and warnings")
	}
	if bag.Count(SevError) != 1 {
		t.Fatalf("expected one error, got %d", bag.Count(SevError))
	}

	bag.Sort()
	first := bag.Items()[0]
	if first.Code != SymRedefinition || len(first.Notes) != 1 {
		t.Fatalf("unexpected first item after sort: %+v", first)
	}
}

func TestEmitOnce(t *testing.T) {
	bag := NewBag(0)
	b := ReportInfo(BagReporter{Bag: bag}, ResInfo, source.Span{}, "hello")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("builder must emit once, got %d", bag.Len())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{File: 1, Start: 3, End: 7}
	for i := 0; i < 3; i++ {
		r.Report(ResUndefinedSymbol, SevError, sp, "access to undefined symbol `x`", nil, nil)
	}
	r.Report(ResUndefinedSymbol, SevError, sp, "access to undefined symbol `y`", nil, nil)
	if bag.Len() != 2 {
		t.Fatalf("expected 2 unique diagnostics, got %d", bag.Len())
	}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		SymRedefinition:   "SYM1001",
		ValGotoUndefined:  "VAL3023",
		RedDivisionByZero: "RED5001",
		IODecodeFailed:    "IO6002",
		UnknownCode:       "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Fatalf("%d: got %s, want %s", code, got, want)
		}
	}
	if Code(9999).Title() != "Unknown error" {
		t.Fatalf("unexpected title for unknown code")
	}
}
