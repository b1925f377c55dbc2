package source

import "testing"

func TestInternerRoundTrip(t *testing.T) {
	in := NewInterner()
	a := in.Intern("net")
	b := in.Intern("send")
	if a == NoStringID || b == NoStringID || a == b {
		t.Fatalf("unexpected ids %d %d", a, b)
	}
	if in.Intern("net") != a {
		t.Fatalf("re-interning must return the same id")
	}
	if got := in.MustLookup(b); got != "send" {
		t.Fatalf("lookup: %q", got)
	}
	if _, ok := in.Lookup(StringID(99)); ok {
		t.Fatalf("lookup of unknown id must fail")
	}
	if in.Len() != 3 {
		t.Fatalf("len = %d", in.Len())
	}
}

func TestInternerNFC(t *testing.T) {
	in := NewInterner()
	composed := in.Intern("caf\u00e9")
	decomposed := in.Intern("cafe\u0301")
	if composed != decomposed {
		t.Fatalf("NFC spellings must share an id: %d != %d", composed, decomposed)
	}
}
