package collect

import (
	"testing"

	"phs/internal/ast"
	"phs/internal/diag"
	"phs/internal/session"
	"phs/internal/source"
	"phs/internal/symbols"
	"phs/internal/testkit"
)

func setup(t *testing.T) (*symbols.Table, *diag.Bag, *testkit.Builder) {
	t.Helper()
	sess, bag := testkit.NewSession(session.Options{})
	return symbols.NewTable(sess, symbols.Hints{}), bag, testkit.NewBuilder(1)
}

func collect(t *testing.T, tab *symbols.Table, unit *ast.Unit) symbols.ScopeID {
	t.Helper()
	scope := Collect(tab, unit, Options{File: 1})
	if err := tab.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	return scope
}

func ids(tab *symbols.Table, parts ...string) []source.StringID {
	out := make([]source.StringID, len(parts))
	for i, p := range parts {
		out[i] = tab.Intern(p)
	}
	return out
}

func TestModuleUseEndToEnd(t *testing.T) {
	tab, bag, b := setup(t)
	sendDecl := b.Fn(nil, "send", nil, b.Block())
	mainDecl := b.Fn(nil, "main", nil, b.Block(b.Expr(b.Call(b.Name("send")))))
	unit := b.Unit(
		b.Module(b.Name("net"), sendDecl),
		b.Use(nil, b.Name("net", "send")),
		mainDecl,
	)
	scope := collect(t, tab, unit)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", testkit.Messages(bag))
	}

	net := tab.SubModule(scope, tab.Intern("net"))
	send := tab.SymbolOf(sendDecl)
	if !net.IsValid() || tab.Local(net, tab.Intern("send"), symbols.NS0) != send {
		t.Fatalf("module net must own send")
	}
	uid := tab.Scope(scope).Usages[tab.Intern("send")]
	if got := tab.PathString(tab.Usage(uid).Path); got != "net::send" {
		t.Fatalf("usage path = %q", got)
	}
	fn := tab.ScopeOf(mainDecl)
	res := tab.LookupPath(fn, false, ids(tab, "send"), symbols.NS0)
	if !res.Found() || res.Symbol != send {
		t.Fatalf("send inside main resolved to %+v, want %d", res, send)
	}
}

func TestQualifiedModule(t *testing.T) {
	tab, _, b := setup(t)
	x := b.Item("x", b.Int(1))
	unit := b.Unit(b.Module(b.Name("a", "b", "c"), b.Var(nil, x)))
	scope := collect(t, tab, unit)

	res := tab.LookupPath(scope, false, ids(tab, "a", "b", "c", "x"), symbols.NSAny)
	if !res.Found() || res.Symbol != tab.SymbolOf(x) {
		t.Fatalf("a::b::c::x = %+v", res)
	}
	if res := tab.LookupPath(scope, false, ids(tab, "a", "b", "z"), symbols.NSAny); res.Status != symbols.LookupNone {
		t.Fatalf("a::b::z = %s, want none", res.Status)
	}
}

func TestNestedModules(t *testing.T) {
	tab, _, b := setup(t)
	inner := b.Module(b.Name("b"))
	anchored := b.Module(b.RootName("z"))
	outer := b.Module(b.Name("a"), inner, anchored)
	unnamed := b.Module(nil, b.Let("q", nil))
	scope := collect(t, tab, b.Unit(outer, unnamed))

	mod := tab.ScopeOf(inner)
	if got := tab.PathString(tab.ModulePath(mod)); got != "a::b" {
		t.Fatalf("nested module path = %q", got)
	}
	if tab.Scope(mod).Prev != tab.ScopeOf(outer) {
		t.Fatalf("nested module must live in its enclosing module")
	}
	if tab.Scope(tab.ScopeOf(anchored)).Prev != scope {
		t.Fatalf("root-anchored module must live in the unit")
	}
	if tab.ScopeOf(unnamed) != scope || !tab.Local(scope, tab.Intern("q"), symbols.NS0).IsValid() {
		t.Fatalf("unnamed module must collect into the unit scope")
	}
}

func TestClassForwardDeclaration(t *testing.T) {
	tab, bag, b := setup(t)
	fwd := b.ClassFwd(nil, "Foo")
	full := b.Class(nil, "Foo", b.Name("Base"), nil, b.Fn(nil, "m", nil, b.Block()))
	scope := collect(t, tab, b.Unit(fwd, full))
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", testkit.Messages(bag))
	}
	id := tab.Local(scope, tab.Intern("Foo"), symbols.NS1)
	if id != tab.SymbolOf(fwd) {
		t.Fatalf("completion must keep the forward symbol")
	}
	sym := tab.Symbol(id)
	if sym.Flags.Has(symbols.FlagIncomplete) || !sym.Members.IsValid() || sym.Super == nil {
		t.Fatalf("class not completed: %+v", sym)
	}
	if !tab.Local(sym.Members, tab.Intern("m"), symbols.NS0).IsValid() {
		t.Fatalf("member m missing")
	}
}

func TestClassKindMismatch(t *testing.T) {
	tab, bag, b := setup(t)
	collect(t, tab, b.Unit(b.ClassFwd(nil, "Foo"), b.Trait(nil, "Foo")))
	if !bag.Has(diag.SymRefinementKind) {
		t.Fatalf("expected refinement kind error, got %v", testkit.Codes(bag))
	}
}

func TestClassMembers(t *testing.T) {
	tab, bag, b := setup(t)
	abstract := b.Fn(nil, "run", nil, nil)
	ext := b.Fn(b.Mods(ast.ModExtern), "native", nil, nil)
	ctor := b.Ctor(nil, testkit.Params(b.ThisParam("x", nil)), b.Block())
	dup := b.Ctor(nil, nil, b.Block())
	get := b.Getter(nil, "size", b.Int(1))
	set := b.Setter(nil, "size", testkit.Params(b.Param("v", nil)), b.Block())
	prop := b.Let("size", nil)
	class := b.Class(nil, "A", nil, nil, abstract, ext, ctor, dup, get, set, prop)
	scope := collect(t, tab, b.Unit(class))

	if got := testkit.Codes(bag); len(got) != 1 || got[0] != diag.SymDuplicateCtor {
		t.Fatalf("expected only a duplicate ctor warning, got %v", got)
	}
	sym := tab.Symbol(tab.Local(scope, tab.Intern("A"), symbols.NS1))
	members := tab.Scope(sym.Members)
	if members.Ctor != tab.SymbolOf(ctor) {
		t.Fatalf("ctor not registered")
	}
	if !tab.Symbol(tab.SymbolOf(abstract)).Flags.Has(symbols.FlagAbstract) {
		t.Fatalf("bodiless method must be abstract")
	}
	if tab.Symbol(tab.SymbolOf(ext)).Flags.Has(symbols.FlagAbstract) {
		t.Fatalf("extern method must not be abstract")
	}
	size := tab.Intern("size")
	if members.Getters[size] != tab.SymbolOf(get) || members.Setters[size] != tab.SymbolOf(set) {
		t.Fatalf("accessors not registered")
	}
	if !tab.Local(sym.Members, size, symbols.NS0).IsValid() {
		t.Fatalf("property must coexist with accessors")
	}
	this := tab.Local(tab.ScopeOf(ctor), tab.Intern("__this__x"), symbols.NS0)
	if !this.IsValid() || !tab.Symbol(this).Flags.Has(symbols.FlagParam) {
		t.Fatalf("this-param must be declared as __this__x")
	}
}

func TestNestedModifierGroups(t *testing.T) {
	tab, _, b := setup(t)
	f := b.Fn(nil, "f", nil, b.Block())
	g := b.Fn(b.Mods(ast.ModFinal), "g", nil, b.Block())
	h := b.Fn(nil, "h", nil, b.Block())
	inner := b.Nested(b.Mods(ast.ModStatic), g, h)
	class := b.Class(nil, "A", nil, nil, b.Nested(b.Mods(ast.ModPublic), f, inner))
	collect(t, tab, b.Unit(class))

	tests := []struct {
		decl ast.Node
		want symbols.SymbolFlags
	}{
		{f, symbols.FlagPublic},
		{g, symbols.FlagPublic | symbols.FlagStatic | symbols.FlagFinal},
		{h, symbols.FlagPublic | symbols.FlagStatic},
	}
	for _, tt := range tests {
		if got := tab.Symbol(tab.SymbolOf(tt.decl)).Flags; got != tt.want {
			t.Fatalf("%s: flags = %s, want %s", tt.decl.(*ast.FnDecl).ID.Name, got, tt.want)
		}
	}
}

func TestTraitUsages(t *testing.T) {
	tab, _, b := setup(t)
	use := b.TraitUse(b.Name("T"), b.TraitItem("a", b.Mods(ast.ModPrivate), "b"), b.TraitItem("c", nil, ""))
	all := b.TraitUse(b.Name("U"))
	class := b.Class(nil, "A", nil, nil, use, all)
	scope := collect(t, tab, b.Unit(class))

	sym := tab.Symbol(tab.Local(scope, tab.Intern("A"), symbols.NS1))
	if len(sym.Traits) != 3 {
		t.Fatalf("expected 3 trait usages, got %d", len(sym.Traits))
	}
	first := sym.Traits[0]
	if tab.Name(first.Orig) != "a" || tab.Name(first.Dest) != "b" || first.Flags != symbols.FlagPrivate {
		t.Fatalf("unexpected first usage: %+v", first)
	}
	if tab.Name(sym.Traits[1].Dest) != "c" || sym.Traits[2].Orig != 0 {
		t.Fatalf("unexpected trait usages: %+v", sym.Traits)
	}
}

func TestUseDeclarations(t *testing.T) {
	tab, bag, b := setup(t)
	unit := b.Unit(
		b.Use(nil, b.UseAlias(b.Name("a", "b"), "c")),
		b.Use(nil, b.Name("c", "d")),
		b.Use(nil, b.UseUnpack(b.Name("m"), b.Name("x"), b.Name("x"))),
		b.Use(b.Mods(ast.ModPublic), b.UseUnpack(b.Name("p", "q"), b.Name("r"), b.Name("r", "s"))),
	)
	scope := collect(t, tab, unit)

	path := func(item string) string {
		id, ok := tab.Scope(scope).Usages[tab.Intern(item)]
		if !ok {
			t.Fatalf("no usage %s", item)
		}
		return tab.PathString(tab.Usage(id).Path)
	}
	for item, want := range map[string]string{"c": "a::b", "d": "a::b::d", "x": "m::x", "r": "p::q::r", "s": "p::q::r::s"} {
		if got := path(item); got != want {
			t.Fatalf("usage %s: path %q, want %q", item, got, want)
		}
	}
	if !tab.Usage(tab.Scope(scope).Usages[tab.Intern("s")]).Pub {
		t.Fatalf("public group must produce public usages")
	}
	if got := testkit.Codes(bag); len(got) != 1 || got[0] != diag.SymDuplicateImport {
		t.Fatalf("expected one duplicate import, got %v", got)
	}
	if !testkit.HasNote(bag, diag.SymDuplicateImport, "previous import was here") {
		t.Fatalf("missing previous import note")
	}
}

func TestLoopAndCatchScopes(t *testing.T) {
	tab, _, b := setup(t)
	forIn := b.ForIn("k", "v", b.Name("list"), b.Block())
	catch := b.Catch(b.Name("Error"), "e", b.Block())
	loop := b.For(b.Let("i", b.Int(0)), nil, nil, b.Block())
	scope := collect(t, tab, b.Unit(forIn, b.Try(b.Block(), []*ast.CatchClause{catch}, nil), loop))

	for _, tt := range []struct {
		owner ast.Node
		name  string
	}{{forIn, "k"}, {forIn, "v"}, {catch, "e"}, {loop, "i"}} {
		sc := tab.ScopeOf(tt.owner)
		if !sc.IsValid() || tab.Scope(sc).Prev != scope {
			t.Fatalf("%s: scope must be opened below the unit", tt.name)
		}
		if !tab.Local(sc, tab.Intern(tt.name), symbols.NS0).IsValid() {
			t.Fatalf("%s not declared in its loop/catch scope", tt.name)
		}
	}
	if tab.Local(scope, tab.Intern("i"), symbols.NS0).IsValid() {
		t.Fatalf("loop variable leaked into the unit")
	}
}

func TestRedefinitionInUnit(t *testing.T) {
	tab, bag, b := setup(t)
	collect(t, tab, b.Unit(b.Let("x", nil), b.Let("x", nil)))
	if !bag.Has(diag.SymRedefinition) {
		t.Fatalf("expected redefinition, got %v", testkit.Codes(bag))
	}
}

func TestExportAcrossUnits(t *testing.T) {
	tab, _, b := setup(t)
	send := b.Fn(nil, "send", nil, b.Block())
	collect(t, tab, b.Unit(b.Module(b.Name("net"), send)))

	b2 := testkit.NewBuilder(2)
	other := Collect(tab, b2.Unit(b2.Let("y", nil)), Options{File: 2})
	res := tab.LookupPath(other, false, ids(tab, "net", "send"), symbols.NS0)
	if !res.Found() || res.Symbol != tab.SymbolOf(send) {
		t.Fatalf("net::send from another unit = %+v", res)
	}
}
