package sema

import (
	"path/filepath"
	"slices"
	"testing"

	"phs/internal/ast"
	"phs/internal/collect"
	"phs/internal/desugar"
	"phs/internal/diag"
	"phs/internal/session"
	"phs/internal/source"
	"phs/internal/symbols"
	"phs/internal/testkit"
	"phs/internal/validate"
	"phs/internal/value"
)

type fixture struct {
	sess *session.Session
	bag  *diag.Bag
	tab  *symbols.Table
	b    *testkit.Builder
}

func setup(t *testing.T) *fixture {
	t.Helper()
	sess, bag := testkit.NewSession(session.Options{})
	return &fixture{
		sess: sess,
		bag:  bag,
		tab:  symbols.NewTable(sess, symbols.Hints{}),
		b:    testkit.NewBuilder(1),
	}
}

// withFile registers a source file so engine constants and require paths
// have something to refer to.
func (f *fixture) withFile(path string) *fixture {
	id := f.sess.Files.AddVirtual(path, []byte("// test\n"))
	f.b = testkit.NewBuilder(id)
	return f
}

// run takes unit through every pass up to resolution.
func (f *fixture) run(t *testing.T, unit *ast.Unit, opts Options) Result {
	t.Helper()
	collect.Collect(f.tab, unit, collect.Options{File: f.b.File})
	desugar.Desugar(f.sess, unit, desugar.Options{Table: f.tab})
	validate.Validate(f.sess, unit)
	return Resolve(f.tab, unit, opts)
}

func (f *fixture) value(t *testing.T, item *ast.VarItem) value.Value {
	t.Helper()
	id := f.tab.SymbolOf(item)
	if !id.IsValid() {
		t.Fatalf("no symbol for `%s`", item.ID.Name)
	}
	return f.tab.Symbol(id).Value
}

func (f *fixture) codes(t *testing.T, want ...diag.Code) {
	t.Helper()
	if got := testkit.Codes(f.bag); !slices.Equal(got, want) {
		t.Fatalf("codes = %v, want %v (%v)", got, want, testkit.Messages(f.bag))
	}
}

func TestNameDiagnostics(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *testkit.Builder) *ast.Unit
		want  []diag.Code
	}{
		{"defined", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(b.Let("x", b.Int(1)), b.Print(b.Name("x")))
		}, nil},
		{"undefined", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(b.Print(b.Name("y")))
		}, []diag.Code{diag.ResUndefinedSymbol}},
		{"not yet reachable", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(b.Print(b.Name("x")), b.Let("x", b.Int(1)))
		}, []diag.Code{diag.ResUnreachableVar}},
		{"private module member", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(
				b.Module(b.Name("m"), b.Fn(b.Mods(ast.ModPrivate), "p", nil, b.Block())),
				b.Expr(b.Call(b.Name("m", "p"))),
			)
		}, []diag.Code{diag.ResPrivateAccess}},
		{"this outside class", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(b.Print(b.This()))
		}, []diag.Code{diag.ResThisOutside}},
		{"self outside class", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(b.Print(b.Self()))
		}, []diag.Code{diag.ResSelfOutside}},
		{"assign to function", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(
				b.Fn(nil, "f", nil, b.Block()),
				b.Expr(b.Assign(b.Name("f"), ast.OpAssign, b.Int(1))),
			)
		}, []diag.Code{diag.ResInvalidAssign}},
		{"re-assign constant", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(
				b.Var(b.Mods(ast.ModConst), b.Item("c", b.Int(5))),
				b.Expr(b.Assign(b.Name("c"), ast.OpAssign, b.Int(6))),
			)
		}, []diag.Code{diag.ResConstAssign}},
		{"update constant", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(
				b.Var(b.Mods(ast.ModConst), b.Item("c", b.Int(5))),
				b.Expr(b.Update(false, b.Name("c"), ast.OpInc)),
			)
		}, []diag.Code{diag.ResConstAssign}},
		{"enum not constant", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(
				b.Fn(nil, "g", nil, b.Block()),
				b.Enum(nil, b.Item("A", b.Call(b.Name("g")))),
			)
		}, []diag.Code{diag.ResEnumNotConst}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			f.run(t, tt.build(f.b), Options{})
			f.codes(t, tt.want...)
		})
	}
}

func TestUnreachableNote(t *testing.T) {
	f := setup(t)
	b := f.b
	f.run(t, b.Unit(b.Print(b.Name("x")), b.Let("x", b.Int(1))), Options{})
	if !testkit.HasNote(f.bag, diag.ResUnreachableVar, "a variable with the name `x` gets defined here but is not yet accessible") {
		t.Fatalf("missing note: %v", testkit.Messages(f.bag))
	}
}

func TestNameRefs(t *testing.T) {
	f := setup(t)
	b := f.b
	fn := b.Fn(nil, "f", nil, b.Block())
	callee := b.Name("f")
	res := f.run(t, b.Unit(fn, b.Expr(b.Call(callee))), Options{})
	f.codes(t)
	if got := res.Info.Ref(callee); got != f.tab.SymbolOf(fn) {
		t.Fatalf("callee resolved to %d, want %d", got, f.tab.SymbolOf(fn))
	}
}

func TestValues(t *testing.T) {
	f := setup(t)
	b := f.b
	a := b.Item("a", b.Int(1))
	sum := b.Item("s", b.Bin(b.Name("a"), ast.OpAdd, b.Int(2)))
	str := b.Item("t", b.Bin(b.Str("v"), ast.OpConcat, b.Name("s")))
	c := b.Item("c", b.Int(5))
	nul := b.Item("n", nil)
	f.run(t, b.Unit(
		b.Var(nil, a),
		b.Var(nil, sum),
		b.Var(nil, str),
		b.Var(b.Mods(ast.ModConst), c),
		b.Var(nil, nul),
	), Options{})
	f.codes(t)

	tests := []struct {
		item *ast.VarItem
		want value.Value
	}{
		{a, value.MakeInt(1)},
		{sum, value.MakeInt(3)},
		{str, value.MakeString("v3")},
		{c, value.MakeInt(5)},
		{nul, value.MakeNull()},
	}
	for _, tt := range tests {
		if got := f.value(t, tt.item); !same(got, tt.want) {
			t.Fatalf("%s = %s, want %s", tt.item.ID.Name, got, tt.want)
		}
	}
	if !f.value(t, c).Frozen() {
		t.Fatalf("constant value must be frozen")
	}
}

func TestEnumNumbering(t *testing.T) {
	f := setup(t)
	b := f.b
	x := b.Item("X", nil)
	y := b.Item("Y", b.Int(5))
	z := b.Item("Z", nil)
	f.run(t, b.Unit(b.Enum(nil, x, y, z)), Options{})
	f.codes(t)
	for _, tt := range []struct {
		item *ast.VarItem
		want int64
	}{{x, 0}, {y, 5}, {z, 6}} {
		if got := f.value(t, tt.item); got.Kind() != value.KindInt || got.Int() != tt.want {
			t.Fatalf("%s = %s, want %d", tt.item.ID.Name, got, tt.want)
		}
	}
}

// flow builds `let x = 1; <stmts>; let y = x;` and returns the value of y.
func flow(t *testing.T, stmts func(b *testkit.Builder) []ast.Node) value.Value {
	t.Helper()
	f := setup(t)
	b := f.b
	body := []ast.Node{b.Let("x", b.Int(1))}
	body = append(body, stmts(b)...)
	y := b.Item("y", b.Name("x"))
	body = append(body, b.Var(nil, y))
	f.run(t, b.Unit(body...), Options{})
	return f.value(t, y)
}

func assignX(b *testkit.Builder, v int64) ast.Node {
	return b.Expr(b.Assign(b.Name("x"), ast.OpAssign, b.Int(v)))
}

func TestFlow(t *testing.T) {
	tests := []struct {
		name  string
		stmts func(b *testkit.Builder) []ast.Node
		want  value.Value
	}{
		{"straight line", func(b *testkit.Builder) []ast.Node {
			return []ast.Node{assignX(b, 2)}
		}, value.MakeInt(2)},
		{"compound", func(b *testkit.Builder) []ast.Node {
			return []ast.Node{b.Expr(b.Assign(b.Name("x"), ast.OpMulAssign, b.Int(7)))}
		}, value.MakeInt(7)},
		{"increment", func(b *testkit.Builder) []ast.Node {
			return []ast.Node{b.Expr(b.Update(false, b.Name("x"), ast.OpInc))}
		}, value.MakeInt(2)},
		{"branch changes", func(b *testkit.Builder) []ast.Node {
			return []ast.Node{b.If(b.True(), b.Block(assignX(b, 2)), nil, nil)}
		}, value.Undef()},
		{"branch keeps", func(b *testkit.Builder) []ast.Node {
			return []ast.Node{b.If(b.True(), b.Block(assignX(b, 1)), nil, nil)}
		}, value.MakeInt(1)},
		{"else branch", func(b *testkit.Builder) []ast.Node {
			return []ast.Node{b.If(b.False(), b.Block(), nil, b.Block(assignX(b, 3)))}
		}, value.Undef()},
		{"nested branch", func(b *testkit.Builder) []ast.Node {
			inner := b.If(b.True(), b.Block(assignX(b, 4)), nil, nil)
			return []ast.Node{b.If(b.True(), b.Block(inner), nil, nil)}
		}, value.Undef()},
		{"switch case", func(b *testkit.Builder) []ast.Node {
			return []ast.Node{b.Switch(b.Int(1), b.Case([]ast.Node{b.Int(1)}, assignX(b, 9)))}
		}, value.Undef()},
		{"loop", func(b *testkit.Builder) []ast.Node {
			return []ast.Node{b.While(b.False(), b.Block(assignX(b, 2)))}
		}, value.Undef()},
		{"delete", func(b *testkit.Builder) []ast.Node {
			return []ast.Node{b.Expr(b.Del(b.Name("x")))}
		}, value.Undef()},
		{"written by function", func(b *testkit.Builder) []ast.Node {
			return []ast.Node{b.Fn(nil, "f", nil, b.Block(assignX(b, 2)))}
		}, value.Undef()},
		{"passed by value", func(b *testkit.Builder) []ast.Node {
			g := b.Fn(nil, "g", testkit.Params(b.Param("a", nil)), b.Block())
			return []ast.Node{g, b.Expr(b.Call(b.Name("g"), b.Name("x")))}
		}, value.MakeInt(1)},
		{"passed by reference", func(b *testkit.Builder) []ast.Node {
			p := b.Param("a", nil)
			p.Ref = true
			g := b.Fn(nil, "g", testkit.Params(p), b.Block())
			return []ast.Node{g, b.Expr(b.Call(b.Name("g"), b.Name("x")))}
		}, value.Undef()},
		{"referenced", func(b *testkit.Builder) []ast.Node {
			return []ast.Node{b.Let("r", b.Unary(ast.OpRef, b.Name("x")))}
		}, value.Undef()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flow(t, tt.stmts); !same(got, tt.want) {
				t.Fatalf("y = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEngineConstants(t *testing.T) {
	f := setup(t).withFile("src/app/main.phs")
	b := f.b
	file := b.Engine(ast.EngineFile)
	dir := b.Engine(ast.EngineDir)
	fnConst := b.Engine(ast.EngineFn)
	method := b.Engine(ast.EngineMethod)
	class := b.Engine(ast.EngineClass)
	closure := b.Engine(ast.EngineFn)
	unit := b.Unit(
		b.Print(file, dir),
		b.Module(b.Name("m"), b.Fn(nil, "f", nil, b.Block(b.Print(fnConst)))),
		b.Class(nil, "A", nil, nil,
			b.Fn(b.Mods(ast.ModPublic), "g", nil, b.Block(b.Print(method, class))),
		),
		b.Fn(nil, "h", nil, b.Block(
			b.Let("c", b.FnExpr(nil, b.Block(b.Print(closure)))),
		)),
	)
	res := f.run(t, unit, Options{})
	f.codes(t)

	tests := []struct {
		node *ast.EngineConst
		want string
	}{
		{file, "src/app/main.phs"},
		{dir, filepath.FromSlash("src/app")},
		{fnConst, "m::f"},
		{method, "A.g"},
		{class, "A"},
		{closure, "h/{closure}"},
	}
	for _, tt := range tests {
		if got := res.Info.Value(tt.node); got.Kind() != value.KindString || got.Str() != tt.want {
			t.Fatalf("%s = %s, want %q", tt.node.Const, got, tt.want)
		}
	}
}

func TestEngineConstantOutOfContext(t *testing.T) {
	f := setup(t)
	b := f.b
	class := b.Engine(ast.EngineClass)
	method := b.Engine(ast.EngineMethod)
	res := f.run(t, b.Unit(b.Print(class, method)), Options{})
	f.codes(t, diag.RedEngineConst, diag.RedEngineConst)
	if !res.Info.Value(class).IsUndef() {
		t.Fatalf("__CLASS__ outside of a class must be undef")
	}
}

func TestRequire(t *testing.T) {
	f := setup(t).withFile("src/main.phs")
	b := f.b
	rel := b.Require(b.Str("lib/util"))
	abs := b.Require(b.Str("/vendor/x.php"))
	kept := b.Require(b.Bin(b.Str("lib/"), ast.OpConcat, b.Str("io.phs")))
	res := f.run(t, b.Unit(rel, abs, kept), Options{Root: "/proj"})
	f.codes(t, diag.ValRequireNotLiteral)

	want := []string{
		filepath.Join("src", "lib", "util.phs"),
		filepath.Join("/proj", "vendor", "x.php"),
		filepath.Join("src", "lib", "io.phs"),
	}
	if len(res.Info.Requires) != len(want) {
		t.Fatalf("requires = %v", res.Info.Requires)
	}
	for i, w := range want {
		if got := res.Info.Requires[i].Path; got != w {
			t.Fatalf("require %d = %q, want %q", i, got, w)
		}
	}
	if res.Info.Requires[0].Span != rel.Span() {
		t.Fatalf("require span = %v, want %v", res.Info.Requires[0].Span, rel.Span())
	}
}

func TestRequireNotConstant(t *testing.T) {
	f := setup(t)
	b := f.b
	res := f.run(t, b.Unit(
		b.Fn(nil, "g", nil, b.Block()),
		b.Require(b.Call(b.Name("g"))),
	), Options{})
	f.codes(t, diag.ValRequireNotLiteral, diag.ResRequireNotConst)
	if len(res.Info.Requires) != 0 {
		t.Fatalf("requires = %v", res.Info.Requires)
	}
}

func TestResolveWithoutScope(t *testing.T) {
	sess, _ := testkit.NewSession(session.Options{})
	tab := symbols.NewTable(sess, symbols.Hints{})
	b := testkit.NewBuilder(source.FileID(1))
	res := Resolve(tab, b.Unit(), Options{})
	if res.Info == nil || len(res.Info.Refs) != 0 {
		t.Fatalf("uncollected unit must resolve to empty info")
	}
}
