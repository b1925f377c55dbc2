package validate

import (
	"slices"
	"testing"

	"phs/internal/ast"
	"phs/internal/diag"
	"phs/internal/session"
	"phs/internal/testkit"
)

type tcase struct {
	name  string
	build func(b *testkit.Builder) *ast.Unit
	want  []diag.Code
}

func runCases(t *testing.T, cases []tcase) {
	t.Helper()
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			sess, bag := testkit.NewSession(session.Options{})
			Validate(sess, tt.build(testkit.NewBuilder(1)))
			if got := testkit.Codes(bag); !slices.Equal(got, tt.want) {
				t.Fatalf("codes = %v, want %v (%v)", got, tt.want, testkit.Messages(bag))
			}
		})
	}
}

func class(b *testkit.Builder, members ...ast.Node) *ast.Unit {
	return b.Unit(b.Class(nil, "A", nil, nil, members...))
}

func fnBody(b *testkit.Builder, body ...ast.Node) *ast.Unit {
	return b.Unit(b.Fn(nil, "f", nil, b.Block(body...)))
}

func TestModifiers(t *testing.T) {
	runCases(t, []tcase{
		{"static at unit", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(b.Fn(b.Mods(ast.ModStatic), "f", nil, b.Block()))
		}, []diag.Code{diag.ValIllegalModifier}},
		{"protected member", func(b *testkit.Builder) *ast.Unit {
			return class(b, b.Fn(b.Mods(ast.ModProtected), "f", nil, b.Block()))
		}, nil},
		{"protected at unit", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(b.Fn(b.Mods(ast.ModProtected), "f", nil, b.Block()))
		}, []diag.Code{diag.ValIllegalModifier}},
		{"inline variable", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(b.Var(b.Mods(ast.ModInline), b.Item("x", nil)))
		}, []diag.Code{diag.ValIllegalModifier}},
		{"extern member", func(b *testkit.Builder) *ast.Unit {
			return class(b, b.Fn(b.Mods(ast.ModPublic, ast.ModExtern), "f", nil, nil))
		}, []diag.Code{diag.ValIllegalModifier}},
		{"global member", func(b *testkit.Builder) *ast.Unit {
			return class(b, b.Var(b.Mods(ast.ModGlobal), b.Item("x", nil)))
		}, []diag.Code{diag.ValIllegalModifier}},
		{"static local", func(b *testkit.Builder) *ast.Unit {
			return fnBody(b, b.Var(b.Mods(ast.ModStatic), b.Item("x", nil)))
		}, nil},
		{"ambiguous access", func(b *testkit.Builder) *ast.Unit {
			return class(b, b.Fn(b.Mods(ast.ModPublic, ast.ModPrivate), "f", nil, b.Block()))
		}, []diag.Code{diag.ValAmbiguousModifier}},
		{"duplicate", func(b *testkit.Builder) *ast.Unit {
			return class(b, b.Fn(b.Mods(ast.ModStatic, ast.ModStatic), "f", nil, b.Block()))
		}, []diag.Code{diag.ValDuplicateModifier}},
		{"const class", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(b.Class(b.Mods(ast.ModConst), "A", nil, nil))
		}, []diag.Code{diag.ValUselessModifier}},
		{"const enum", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(b.Enum(b.Mods(ast.ModConst), b.Item("A", b.Int(1))))
		}, []diag.Code{diag.ValUselessModifier}},
	})
}

func TestDeclarationShapes(t *testing.T) {
	runCases(t, []tcase{
		{"extern class", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(b.Class(b.Mods(ast.ModExtern), "A", nil, nil,
				b.TraitUse(b.Name("T")),
				b.Let("x", nil),
				b.Fn(nil, "f", nil, b.Block()),
				b.Fn(b.Mods(ast.ModExtern), "g", nil, nil),
			))
		}, []diag.Code{diag.ValExternTraits, diag.ValExternMember, diag.ValExternBody, diag.ValUselessModifier}},
		{"iface members", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(b.Iface(nil, "I", nil,
				b.Fn(b.Mods(ast.ModPublic), "a", nil, b.Block()),
				b.Fn(b.Mods(ast.ModPublic, ast.ModStatic), "b", nil, nil),
				b.Fn(nil, "c", nil, nil),
				b.Let("x", nil),
				b.Enum(nil, b.Item("E", b.Int(1))),
			))
		}, []diag.Code{diag.ValIfaceMethodBody, diag.ValIfaceStaticMethod, diag.ValIfaceNonPublic, diag.ValIfaceVariable, diag.ValEnumInIface}},
		{"missing body", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(b.Fn(nil, "f", nil, nil), b.Fn(b.Mods(ast.ModExtern), "g", nil, nil))
		}, []diag.Code{diag.ValMissingBody}},
		{"extern body", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(b.Fn(b.Mods(ast.ModExtern), "f", nil, b.Block()))
		}, []diag.Code{diag.ValExternBody}},
		{"abstract methods", func(b *testkit.Builder) *ast.Unit {
			return class(b,
				b.Fn(b.Mods(ast.ModPublic, ast.ModStatic), "s", nil, nil),
				b.Fn(b.Mods(ast.ModPublic, ast.ModFinal), "f", nil, nil),
				b.Fn(nil, "p", nil, nil),
				b.Fn(b.Mods(ast.ModPublic), "ok", nil, nil),
			)
		}, []diag.Code{diag.ValStaticAbstract, diag.ValFinalAbstract, diag.ValPrivateAbstract}},
		{"ctor outside class", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(b.Ctor(nil, nil, b.Block()), b.Dtor(nil, b.Block()))
		}, []diag.Code{diag.ValIllegalCtor, diag.ValIllegalDtor}},
		{"static ctor", func(b *testkit.Builder) *ast.Unit {
			return class(b, b.Ctor(b.Mods(ast.ModStatic), nil, b.Block()), b.Dtor(b.Mods(ast.ModStatic), b.Block()))
		}, []diag.Code{diag.ValStaticCtor, diag.ValStaticDtor}},
		{"this-param in fn", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(b.Fn(nil, "f", testkit.Params(b.ThisParam("x", nil)), b.Block()))
		}, []diag.Code{diag.ValThisParamPlacement}},
		{"this-param in ctor", func(b *testkit.Builder) *ast.Unit {
			return class(b, b.Ctor(nil, testkit.Params(b.ThisParam("x", nil)), b.Block()))
		}, nil},
		{"require", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(b.Require(b.Name("path")), b.Require(b.Str("lib")))
		}, []diag.Code{diag.ValRequireNotLiteral}},
	})
}

func TestPlacement(t *testing.T) {
	runCases(t, []tcase{
		{"break outside", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(b.Break(""), b.Continue(""))
		}, []diag.Code{diag.ValBreakOutside, diag.ValContinueOutside}},
		{"break in loop", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(b.While(b.True(), b.Block(b.Break(""))), b.Switch(b.Int(1), b.Case(nil, b.Break(""))))
		}, nil},
		{"break across fn", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(b.While(b.True(), b.Block(b.Expr(b.FnExpr(nil, b.Block(b.Break("")))))))
		}, []diag.Code{diag.ValBreakOutside}},
		{"return and yield", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(b.Return(nil), b.Expr(b.Yield(nil, b.Int(1))))
		}, []diag.Code{diag.ValReturnOutside, diag.ValYieldOutside}},
		{"return in fn", func(b *testkit.Builder) *ast.Unit {
			return fnBody(b, b.If(b.True(), b.Block(b.Return(b.Int(1))), nil, nil), b.Expr(b.Yield(nil, b.Int(2))))
		}, nil},
		{"return in ctor", func(b *testkit.Builder) *ast.Unit {
			return class(b, b.Ctor(nil, nil, b.Block(b.Return(nil))))
		}, nil},
	})
}

func TestLabels(t *testing.T) {
	runCases(t, []tcase{
		{"forward goto", func(b *testkit.Builder) *ast.Unit {
			return fnBody(b, b.Goto("a"), b.Label("a", b.Expr()))
		}, nil},
		{"backward goto", func(b *testkit.Builder) *ast.Unit {
			return fnBody(b, b.Label("a", b.Expr()), b.Goto("a"))
		}, nil},
		{"undefined", func(b *testkit.Builder) *ast.Unit {
			return fnBody(b, b.Goto("z"))
		}, []diag.Code{diag.ValGotoUndefined}},
		{"undefined at unit", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(b.Goto("z"))
		}, []diag.Code{diag.ValGotoUndefined}},
		{"into loop", func(b *testkit.Builder) *ast.Unit {
			return fnBody(b, b.Goto("in"), b.While(b.True(), b.Block(b.Label("in", b.Expr()))))
		}, []diag.Code{diag.ValGotoUnreachable}},
		{"back into loop", func(b *testkit.Builder) *ast.Unit {
			return fnBody(b, b.While(b.True(), b.Block(b.Label("in", b.Expr()))), b.Goto("in"))
		}, []diag.Code{diag.ValGotoUnreachable}},
		{"out of loop", func(b *testkit.Builder) *ast.Unit {
			return fnBody(b, b.While(b.True(), b.Block(b.Goto("out"))), b.Label("out", b.Expr()))
		}, nil},
		{"labels are per function", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(b.Label("a", b.Expr()), b.Fn(nil, "f", nil, b.Block(b.Goto("a"))))
		}, []diag.Code{diag.ValGotoUndefined}},
		{"duplicate label", func(b *testkit.Builder) *ast.Unit {
			return fnBody(b, b.Label("a", b.Expr()), b.Label("a", b.Expr()))
		}, []diag.Code{diag.ValDuplicateLabel}},
		{"break undefined label", func(b *testkit.Builder) *ast.Unit {
			return fnBody(b, b.While(b.True(), b.Block(b.Break("x"))))
		}, []diag.Code{diag.ValBreakUndefinedLabel}},
		{"break label position", func(b *testkit.Builder) *ast.Unit {
			return fnBody(b,
				b.Label("l", b.While(b.True(), b.Block(b.Break("l")))),
				b.While(b.True(), b.Block(b.Continue("l"))),
			)
		}, []diag.Code{diag.ValBreakLabelPosition}},
	})
}

func TestExpressions(t *testing.T) {
	runCases(t, []tcase{
		{"super outside ctor", func(b *testkit.Builder) *ast.Unit {
			return class(b, b.Fn(nil, "f", nil, b.Block(b.Expr(b.Call(b.Super())))))
		}, []diag.Code{diag.ValSuperCallOutside}},
		{"super position", func(b *testkit.Builder) *ast.Unit {
			return class(b, b.Ctor(nil, nil, b.Block(b.Expr(b.Call(b.Name("g"))), b.Expr(b.Call(b.Super())))))
		}, []diag.Code{diag.ValSuperCallPosition}},
		{"this in super-call", func(b *testkit.Builder) *ast.Unit {
			return class(b, b.Ctor(nil, nil, b.Block(b.Expr(b.Call(b.Super(), b.This())), b.Expr(b.This()))))
		}, []diag.Code{diag.ValThisInSuperCall}},
		{"assign target", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(b.Expr(b.Assign(b.Int(1), ast.OpAssign, b.Int(2)), b.Assign(b.Member(b.This(), "x"), ast.OpAssign, b.Int(2))))
		}, []diag.Code{diag.ValInvalidAssignTarget}},
		{"dict in expression", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(b.Expr(b.Bin(b.Obj(), ast.OpAdd, b.Int(1))))
		}, []diag.Code{diag.ValDictInExpression}},
		{"dict in statement position", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(
				b.Let("x", b.Obj(b.Pair(b.Str("k"), b.Obj()))),
				b.Expr(b.Call(b.Name("f"), b.Obj())),
				b.Expr(b.Assign(b.Name("x"), ast.OpAssign, b.Arr(b.Obj()))),
			)
		}, nil},
		{"suspicious self", func(b *testkit.Builder) *ast.Unit {
			return b.Unit(b.Expr(b.Call(b.Self()), b.Offset(b.Self(), b.Int(0))))
		}, []diag.Code{diag.ValSuspiciousSelf, diag.ValSuspiciousSelf}},
	})
}
