package symbols

import (
	"testing"

	"phs/internal/diag"
	"phs/internal/source"
	"phs/internal/testkit"
)

func (f *fixture) path(parts ...string) []source.StringID { return f.t.internAll(parts) }

func (f *fixture) module(parent ScopeID, parts ...string) ScopeID {
	cur := parent
	for _, p := range parts {
		cur = f.t.Module(cur, f.t.Intern(p), f.span())
	}
	return cur
}

func TestLookupModulePath(t *testing.T) {
	f := newFixture(t)
	c := f.module(f.unit, "a", "b", "c")
	x := f.add(t, c, "x", SymbolVar, FlagNone)

	res := f.t.LookupPath(f.unit, false, f.path("a", "b", "c", "x"), NSAny)
	if !res.Found() || res.Symbol != x {
		t.Fatalf("expected x, got %+v", res)
	}
	for _, p := range [][]string{{"a", "b", "z"}, {"a", "q", "x"}, {"zz", "x"}, {"nothing"}} {
		if res := f.t.LookupPath(f.unit, false, f.path(p...), NSAny); res.Status != LookupNone {
			t.Fatalf("%v: expected none, got %s", p, res.Status)
		}
	}
	if f.bag.Len() != 0 {
		t.Fatalf("lookups must not report: %v", testkit.Messages(f.bag))
	}
	if got := f.t.PathString(f.t.ModulePath(c)); got != "a::b::c" {
		t.Fatalf("module path = %q", got)
	}
}

func TestModuleIsReusedOnReopen(t *testing.T) {
	f := newFixture(t)
	first := f.module(f.unit, "a", "b")
	second := f.module(f.unit, "a", "b")
	if first != second {
		t.Fatalf("reopened module must be the same scope")
	}
	if len(f.t.Scope(f.unit).ModOrder) != 1 {
		t.Fatalf("unit must own exactly one top-level module")
	}
}

func TestSymbolsWinOverModules(t *testing.T) {
	f := newFixture(t)
	f.module(f.unit, "a")
	x := f.add(t, f.unit, "a", SymbolVar, FlagNone)
	if res := f.t.LookupPath(f.unit, false, f.path("a"), NS0); res.Symbol != x {
		t.Fatalf("bare name must resolve to the symbol, got %+v", res)
	}
}

func TestUsageAliasExpansion(t *testing.T) {
	f := newFixture(t)
	b := testkit.NewBuilder(1)
	ab := f.module(f.unit, "a", "b")
	d := f.add(t, ab, "d", SymbolFn, FlagNone)

	// use a::b as c;
	cu := f.t.NewUsage(f.unit, false, b.Name("a", "b"), nil, b.Ident("c"))
	cid, ok := f.t.AddUsage(f.unit, cu)
	if !ok {
		t.Fatalf("add usage c failed")
	}
	// use c::d;
	du := f.t.NewUsage(f.unit, false, b.Name("c", "d"), f.t.Usage(cid), nil)
	if got := f.t.PathString(du.Path); got != "a::b::d" {
		t.Fatalf("expanded path = %q, want a::b::d", got)
	}
	if _, ok := f.t.AddUsage(f.unit, du); !ok {
		t.Fatalf("add usage d failed")
	}

	fn := f.t.NewScope(ScopeFn, f.unit, nil)
	res := f.t.LookupPath(fn, false, f.path("d"), NSAny)
	if !res.Found() || res.Symbol != d {
		t.Fatalf("expected d through usage, got %+v", res)
	}
	if res := f.t.LookupPath(fn, false, f.path("c", "d"), NSAny); res.Symbol != d {
		t.Fatalf("expected c::d to reach d, got %+v", res)
	}
}

func TestUsageGroupPaths(t *testing.T) {
	f := newFixture(t)
	b := testkit.NewBuilder(1)
	base := f.t.NewGroupBase(f.unit, false, b.Name("a", "b"), nil)
	x := f.t.NewUsage(f.unit, false, b.Name("x"), base, nil)
	y := f.t.NewUsage(f.unit, false, b.Name("y"), base, b.Ident("z"))
	if got := f.t.PathString(x.Path); got != "a::b::x" {
		t.Fatalf("x path = %q", got)
	}
	if got := f.t.PathString(y.Path); got != "a::b::y" || f.t.Name(y.Item) != "z" {
		t.Fatalf("y path = %q item = %q", got, f.t.Name(y.Item))
	}
}

func TestDuplicateImport(t *testing.T) {
	f := newFixture(t)
	b := testkit.NewBuilder(1)
	base := f.t.NewGroupBase(f.unit, false, b.Name("a"), nil)
	first := f.t.NewUsage(f.unit, false, b.Name("x"), base, nil)
	second := f.t.NewUsage(f.unit, false, b.Name("x"), base, nil)
	if _, ok := f.t.AddUsage(f.unit, first); !ok {
		t.Fatalf("first import rejected")
	}
	if _, ok := f.t.AddUsage(f.unit, second); ok {
		t.Fatalf("duplicate import accepted")
	}
	items := f.bag.Items()
	if len(items) != 1 || items[0].Code != diag.SymDuplicateImport {
		t.Fatalf("expected one duplicate import, got %v", testkit.Codes(f.bag))
	}
	if len(items[0].Notes) != 1 || items[0].Notes[0].Span != first.Span || items[0].Notes[0].Msg != "previous import was here" {
		t.Fatalf("note must cite the first import: %+v", items[0].Notes)
	}
}

func TestPrivateMember(t *testing.T) {
	f := newFixture(t)
	m := f.module(f.unit, "m")
	p := f.add(t, m, "p", SymbolFn, FlagPrivate)

	if res := f.t.LookupPath(f.unit, false, f.path("m", "p"), NS0); res.Status != LookupPrivate || res.Symbol != p {
		t.Fatalf("expected private result, got %+v", res)
	}
	inner := f.t.NewScope(ScopeFn, m, nil)
	if res := f.t.LookupPath(inner, false, f.path("m", "p"), NS0); !res.Found() {
		t.Fatalf("access from inside the module must succeed, got %s", res.Status)
	}
}

func TestPublicUsageInsideModule(t *testing.T) {
	f := newFixture(t)
	b := testkit.NewBuilder(1)
	lib := f.module(f.unit, "lib")
	impl := f.module(f.unit, "impl")
	run := f.add(t, impl, "run", SymbolFn, FlagNone)

	// module lib { pub use impl::run; }
	u := f.t.NewUsage(lib, true, b.Name("impl", "run"), nil, nil)
	if _, ok := f.t.AddUsage(lib, u); !ok {
		t.Fatalf("add usage failed")
	}
	res := f.t.LookupPath(f.unit, false, f.path("lib", "run"), NS0)
	if !res.Found() || res.Symbol != run || !res.Usage.IsValid() {
		t.Fatalf("expected run through lib's public import, got %+v", res)
	}
	if f.t.Usage(res.Usage).Symbol != run {
		t.Fatalf("resolved usage must cache its symbol")
	}
}

func TestSelfReferentialUsageTerminates(t *testing.T) {
	f := newFixture(t)
	b := testkit.NewBuilder(1)
	m := f.module(f.unit, "m")
	// module m { pub use m::y; } with no y anywhere
	u := f.t.NewUsage(m, true, b.Name("m", "y"), nil, nil)
	if _, ok := f.t.AddUsage(m, u); !ok {
		t.Fatalf("add usage failed")
	}
	if res := f.t.LookupPath(f.unit, false, f.path("m", "y"), NS0); res.Found() {
		t.Fatalf("expected no symbol, got %+v", res)
	}
}

func TestLookupName(t *testing.T) {
	f := newFixture(t)
	b := testkit.NewBuilder(1)
	m := f.module(f.unit, "m")
	x := f.add(t, m, "x", SymbolVar, FlagNone)
	fn := f.t.NewScope(ScopeFn, m, nil)
	if res := f.t.LookupName(fn, b.SelfName("x"), NS0); res.Symbol != x {
		t.Fatalf("self::x = %+v", res)
	}
	if res := f.t.LookupName(fn, b.RootName("m", "x"), NS0); res.Symbol != x {
		t.Fatalf("::m::x = %+v", res)
	}
}

func TestLookupMemberWalksSuper(t *testing.T) {
	f := newFixture(t)
	baseMembers := f.t.NewScope(ScopeMember, f.unit, nil)
	run := f.add(t, baseMembers, "run", SymbolFn, FlagNone)
	base := f.sym("Base", SymbolClass, FlagNone)
	base.Members = baseMembers
	baseID, _ := f.t.Add(f.unit, base)

	derived := f.sym("Derived", SymbolClass, FlagNone)
	derived.Members = f.t.NewScope(ScopeMember, f.unit, nil)
	derived.SuperSym = baseID
	derivedID, _ := f.t.Add(f.unit, derived)

	if got := f.t.LookupMember(derivedID, f.t.Intern("run"), NS0); got != run {
		t.Fatalf("expected inherited run, got %d", got)
	}
	// a cycle must not hang
	f.t.Symbol(baseID).SuperSym = derivedID
	if got := f.t.LookupMember(derivedID, f.t.Intern("nope"), NS0); got.IsValid() {
		t.Fatalf("unexpected member %d", got)
	}
}

func TestExportAcrossUnits(t *testing.T) {
	f := newFixture(t)
	net := f.module(f.unit, "net")
	send := f.add(t, net, "send", SymbolFn, FlagNone)
	f.t.Export(f.unit)

	other := f.t.NewUnit(source.FileID(2), nil)
	res := f.t.LookupPath(other, false, f.path("net", "send"), NS0)
	if !res.Found() || res.Symbol != send {
		t.Fatalf("expected exported send, got %+v", res)
	}
	if f.t.Symbol(send).Scope != net {
		t.Fatalf("export must not re-home symbols")
	}
	if err := f.t.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}
