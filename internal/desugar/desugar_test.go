package desugar

import (
	"testing"

	"phs/internal/ast"
	"phs/internal/collect"
	"phs/internal/diag"
	"phs/internal/session"
	"phs/internal/symbols"
	"phs/internal/testkit"
)

func run(t *testing.T, unit *ast.Unit, opts Options) (Result, *diag.Bag) {
	t.Helper()
	sess, bag := testkit.NewSession(session.Options{})
	return Desugar(sess, unit, opts), bag
}

func TestBareBodiesBecomeBlocks(t *testing.T) {
	b := testkit.NewBuilder(1)
	call := b.Expr(b.Call(b.Name("f")))
	ifs := b.If(b.True(), call, []*ast.ElifClause{b.Elif(b.False(), b.Expr())}, b.Return(nil))
	while := b.While(b.True(), b.Expr())
	do := b.Do(b.Break(""), b.False())
	loop := b.For(nil, nil, nil, b.Continue(""))
	forIn := b.ForIn("", "v", b.Name("xs"), b.Block())
	res, _ := run(t, b.Unit(ifs, while, do, loop, forIn), Options{})

	tests := []struct {
		name string
		body ast.Node
		want int
	}{
		{"if", ifs.Stmt, 1},
		{"elif", ifs.Elifs[0].Stmt, 0},
		{"else", ifs.Else.Stmt, 1},
		{"while", while.Stmt, 0},
		{"do", do.Stmt, 1},
		{"for", loop.Stmt, 1},
		{"for-in", forIn.Stmt, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blk, ok := tt.body.(*ast.Block)
			if !ok {
				t.Fatalf("body is %T, want *ast.Block", tt.body)
			}
			if len(blk.Body) != tt.want {
				t.Fatalf("block has %d statements, want %d", len(blk.Body), tt.want)
			}
		})
	}
	if ifs.Stmt.(*ast.Block).Body[0] != call {
		t.Fatalf("wrapped statement must be kept")
	}
	if res.Blocks != 6 {
		t.Fatalf("Blocks = %d, want 6", res.Blocks)
	}
}

func TestExpressionBodies(t *testing.T) {
	b := testkit.NewBuilder(1)
	expr := b.Int(1)
	fn := b.Fn(nil, "f", nil, expr)
	abstract := b.Fn(nil, "g", nil, nil)
	lambda := b.FnExpr(nil, b.Name("x"))
	get := b.Getter(nil, "size", b.Int(2))
	set := b.Setter(nil, "size", testkit.Params(b.Param("v", nil)), b.Block())
	class := b.Class(nil, "A", nil, nil, get, set)
	res, _ := run(t, b.Unit(fn, abstract, b.Expr(lambda), class), Options{})

	for _, body := range []ast.Node{fn.Body, lambda.Body, get.Body} {
		blk, ok := body.(*ast.Block)
		if !ok || len(blk.Body) != 1 {
			t.Fatalf("expression body not wrapped: %T", body)
		}
		if _, ok := blk.Body[0].(*ast.ReturnStmt); !ok {
			t.Fatalf("wrapped body must return, got %T", blk.Body[0])
		}
	}
	if fn.Body.(*ast.Block).Body[0].(*ast.ReturnStmt).Expr != expr {
		t.Fatalf("return must carry the original expression")
	}
	if abstract.Body != nil {
		t.Fatalf("missing body must stay missing")
	}
	if res.Returns != 3 {
		t.Fatalf("Returns = %d, want 3", res.Returns)
	}
}

func TestNestedModifiersHoisted(t *testing.T) {
	b := testkit.NewBuilder(1)
	f := b.Fn(b.Mods(ast.ModStatic), "f", nil, b.Block())
	g := b.Fn(nil, "g", nil, b.Block())
	h := b.Fn(nil, "h", nil, b.Block())
	inner := b.Nested(b.Mods(ast.ModStatic, ast.ModFinal), g)
	outer := b.Nested(b.Mods(ast.ModPublic, ast.ModStatic), f, inner)
	class := b.Class(nil, "A", nil, nil, outer, h)
	res, bag := run(t, b.Unit(class), Options{})

	if len(class.Members) != 3 || class.Members[0] != f || class.Members[1] != g || class.Members[2] != h {
		t.Fatalf("members not hoisted in order: %v", class.Members)
	}
	if got := f.Mods.String(); got != "public static" {
		t.Fatalf("f mods = %q", got)
	}
	if got := g.Mods.String(); got != "public static final" {
		t.Fatalf("g mods = %q", got)
	}
	if len(h.Mods) != 0 {
		t.Fatalf("h outside the group must keep its modifiers")
	}
	if got := testkit.Codes(bag); len(got) != 2 || got[0] != diag.DsgDuplicateModifier || got[1] != diag.DsgDuplicateModifier {
		t.Fatalf("expected two duplicate modifier warnings, got %v", got)
	}
	if !testkit.HasNote(bag, diag.DsgDuplicateModifier, "previous modifier was here") {
		t.Fatalf("missing note on duplicate modifier")
	}
	if res.Hoisted != 2 {
		t.Fatalf("Hoisted = %d, want 2", res.Hoisted)
	}
	ast.Inspect(class, func(n ast.Node) bool {
		if _, ok := n.(*ast.NestedMods); ok {
			t.Fatalf("nested group survived")
		}
		return n != nil
	})
}

func TestThrowOperands(t *testing.T) {
	b := testkit.NewBuilder(1)
	tests := []struct {
		name    string
		expr    ast.Node
		wrapped bool
	}{
		{"name", b.Name("err"), false},
		{"new", b.New(b.Name("Error")), false},
		{"call", b.Call(b.Name("make")), false},
		{"string", b.Str("boom"), true},
		{"member", b.Member(b.This(), "err"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := b.Throw(tt.expr)
			run(t, b.Unit(stmt), Options{})
			call, ok := stmt.Expr.(*ast.CallExpr)
			if !tt.wrapped {
				if stmt.Expr != tt.expr {
					t.Fatalf("operand must be kept, got %T", stmt.Expr)
				}
				return
			}
			if !ok || len(call.Args) != 1 || call.Args[0] != tt.expr {
				t.Fatalf("operand not wrapped: %T", stmt.Expr)
			}
			if got := call.Callee.(*ast.Name).String(); got != "::phs::ex" {
				t.Fatalf("callee = %q", got)
			}
		})
	}
}

func TestConstructorThisParams(t *testing.T) {
	b := testkit.NewBuilder(1)
	first := b.ThisParam("a", nil)
	plain := b.Param("p", nil)
	second := b.ThisParam("b", b.Int(1))
	existing := b.Expr(b.Call(b.Name("init")))
	ctor := b.Ctor(nil, testkit.Params(first, plain, second), b.Block(existing))
	bodiless := b.Ctor(nil, testkit.Params(b.ThisParam("c", nil)), nil)
	unit := b.Unit(b.Class(nil, "A", nil, nil, ctor), b.Class(nil, "B", nil, nil, bodiless))

	sess, _ := testkit.NewSession(session.Options{})
	tab := symbols.NewTable(sess, symbols.Hints{})
	collect.Collect(tab, unit, collect.Options{File: 1})
	sym := tab.SymbolOf(first)
	res := Desugar(sess, unit, Options{Table: tab})

	if res.ThisParams != 3 {
		t.Fatalf("ThisParams = %d, want 3", res.ThisParams)
	}
	names := []string{"__this__a", "p", "__this__b"}
	for i, p := range ctor.Params {
		param, ok := p.(*ast.Param)
		if !ok || param.ID.Name != names[i] {
			t.Fatalf("param %d = %T, want %s", i, p, names[i])
		}
	}
	if ctor.Params[2].(*ast.Param).Init == nil {
		t.Fatalf("default value must be kept")
	}
	body := ctor.Body.(*ast.Block).Body
	if len(body) != 3 || body[2] != existing {
		t.Fatalf("assignments must precede the original body, got %d stmts", len(body))
	}
	for i, want := range []string{"a", "b"} {
		assign := body[i].(*ast.ExprStmt).Exprs[0].(*ast.AssignExpr)
		member := assign.Left.(*ast.MemberExpr)
		if _, ok := member.Object.(*ast.ThisExpr); !ok || member.Member.(*ast.Ident).Name != want {
			t.Fatalf("assignment %d targets %v", i, member.Member)
		}
		if got := assign.Right.(*ast.Name).String(); got != "__this__"+want {
			t.Fatalf("assignment %d reads %q", i, got)
		}
	}
	if tab.SymbolOf(ctor.Params[0]) != sym || tab.Symbol(sym).Decl != ctor.Params[0] {
		t.Fatalf("symbol must follow the rewritten parameter")
	}
	if blk, ok := bodiless.Body.(*ast.Block); !ok || len(blk.Body) != 1 {
		t.Fatalf("bodiless constructor must receive a block with the assignment")
	}
}

func TestSpansStayInsideUnit(t *testing.T) {
	b := testkit.NewBuilder(1)
	unit := b.Unit(
		b.If(b.True(), b.Expr(), nil, nil),
		b.Fn(nil, "f", nil, b.Int(1)),
		b.Throw(b.Str("x")),
		b.Class(nil, "A", nil, nil, b.Ctor(nil, testkit.Params(b.ThisParam("x", nil)), b.Block())),
	)
	run(t, unit, Options{})
	if err := testkit.CheckSpanInvariants(unit, nil); err != nil {
		t.Fatalf("span invariants: %v", err)
	}
}

func TestThisParamsAfterSuperCall(t *testing.T) {
	b := testkit.NewBuilder(1)
	super := b.Expr(b.Call(b.Super()))
	ctor := b.Ctor(nil, testkit.Params(b.ThisParam("a", nil)), b.Block(super))
	run(t, b.Unit(b.Class(nil, "A", b.Name("Base"), nil, ctor)), Options{})

	body := ctor.Body.(*ast.Block).Body
	if len(body) != 2 || body[0] != super {
		t.Fatalf("super-call must stay the first statement")
	}
}
