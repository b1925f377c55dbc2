package testkit

import (
	"phs/internal/ast"
	"phs/internal/source"
)

// Builder constructs AST fragments for tests. Every node gets its own one
// byte token after its children, and its span covers the children, so
// spans are ordered and nested the way a parser would produce them.
type Builder struct {
	File source.FileID
	pos  uint32
}

func NewBuilder(file source.FileID) *Builder {
	return &Builder{File: file}
}

// Pos returns the offset of the next token.
func (b *Builder) Pos() uint32 { return b.pos }

func (b *Builder) next() source.Span {
	sp := source.Span{File: b.File, Start: b.pos, End: b.pos + 1}
	b.pos += 2
	return sp
}

type spanSetter interface{ SetSpan(source.Span) }

func fix[N ast.Node](b *Builder, n N) N {
	sp := b.next()
	if mods := ast.ModsOf(n); mods != nil {
		for _, m := range *mods {
			sp = sp.Cover(m.Span)
		}
	}
	for _, c := range ast.Children(n) {
		if c.Span() != (source.Span{}) {
			sp = sp.Cover(c.Span())
		}
	}
	any(n).(spanSetter).SetSpan(sp)
	return n
}

// Mods builds a modifier list.
func (b *Builder) Mods(kinds ...ast.ModKind) ast.Modifiers {
	out := make(ast.Modifiers, len(kinds))
	for i, k := range kinds {
		out[i] = ast.Modifier{Kind: k, Span: b.next()}
	}
	return out
}

func (b *Builder) Ident(name string) *ast.Ident {
	return fix(b, &ast.Ident{Name: name})
}

func (b *Builder) ident(name string) *ast.Ident {
	if name == "" {
		return nil
	}
	return b.Ident(name)
}

func (b *Builder) Name(parts ...string) *ast.Name {
	n := &ast.Name{}
	for _, p := range parts {
		n.Parts = append(n.Parts, b.Ident(p))
	}
	return fix(b, n)
}

// RootName builds `::a::b`.
func (b *Builder) RootName(parts ...string) *ast.Name {
	n := b.Name(parts...)
	n.Root = true
	return n
}

// SelfName builds `self::a`.
func (b *Builder) SelfName(parts ...string) *ast.Name {
	n := b.Name(parts...)
	n.Self = true
	return n
}

// declarations

func (b *Builder) Unit(body ...ast.Node) *ast.Unit {
	return fix(b, &ast.Unit{Body: body})
}

// Module builds `module name { body }`; a nil name is the unnamed form.
func (b *Builder) Module(name *ast.Name, body ...ast.Node) *ast.Module {
	return fix(b, &ast.Module{Name: name, Body: body})
}

func (b *Builder) Block(body ...ast.Node) *ast.Block {
	return fix(b, &ast.Block{Body: body})
}

func (b *Builder) Class(mods ast.Modifiers, id string, ext *ast.Name, impl []*ast.Name, members ...ast.Node) *ast.ClassDecl {
	return fix(b, &ast.ClassDecl{Mods: mods, ID: b.Ident(id), Ext: ext, Impl: impl, Members: members})
}

// ClassFwd builds the forward declaration `class id;`.
func (b *Builder) ClassFwd(mods ast.Modifiers, id string) *ast.ClassDecl {
	return fix(b, &ast.ClassDecl{Mods: mods, ID: b.Ident(id), Incomplete: true})
}

func (b *Builder) Trait(mods ast.Modifiers, id string, members ...ast.Node) *ast.TraitDecl {
	return fix(b, &ast.TraitDecl{Mods: mods, ID: b.Ident(id), Members: members})
}

func (b *Builder) TraitFwd(mods ast.Modifiers, id string) *ast.TraitDecl {
	return fix(b, &ast.TraitDecl{Mods: mods, ID: b.Ident(id), Incomplete: true})
}

func (b *Builder) Iface(mods ast.Modifiers, id string, exts []*ast.Name, members ...ast.Node) *ast.IfaceDecl {
	return fix(b, &ast.IfaceDecl{Mods: mods, ID: b.Ident(id), Exts: exts, Members: members})
}

func (b *Builder) Nested(mods ast.Modifiers, members ...ast.Node) *ast.NestedMods {
	return fix(b, &ast.NestedMods{Mods: mods, Members: members})
}

// Fn builds a function declaration; a nil body is `fn f();`.
func (b *Builder) Fn(mods ast.Modifiers, id string, params []ast.Node, body ast.Node) *ast.FnDecl {
	return fix(b, &ast.FnDecl{Mods: mods, ID: b.Ident(id), Params: params, Body: body})
}

func (b *Builder) Ctor(mods ast.Modifiers, params []ast.Node, body ast.Node) *ast.CtorDecl {
	return fix(b, &ast.CtorDecl{Mods: mods, Params: params, Body: body})
}

func (b *Builder) Dtor(mods ast.Modifiers, body ast.Node) *ast.DtorDecl {
	return fix(b, &ast.DtorDecl{Mods: mods, Body: body})
}

func (b *Builder) Getter(mods ast.Modifiers, id string, body ast.Node) *ast.GetterDecl {
	return fix(b, &ast.GetterDecl{Mods: mods, ID: b.Ident(id), Body: body})
}

func (b *Builder) Setter(mods ast.Modifiers, id string, params []ast.Node, body ast.Node) *ast.SetterDecl {
	return fix(b, &ast.SetterDecl{Mods: mods, ID: b.Ident(id), Params: params, Body: body})
}

func (b *Builder) Param(id string, init ast.Node) *ast.Param {
	return fix(b, &ast.Param{ID: b.Ident(id), Init: init})
}

func (b *Builder) ThisParam(id string, init ast.Node) *ast.ThisParam {
	return fix(b, &ast.ThisParam{ID: b.Ident(id), Init: init})
}

func (b *Builder) RestParam(id string) *ast.RestParam {
	return fix(b, &ast.RestParam{ID: b.Ident(id)})
}

// Params is a shorthand for a parameter list.
func Params(ps ...ast.Node) []ast.Node { return ps }

func (b *Builder) Var(mods ast.Modifiers, items ...*ast.VarItem) *ast.VarDecl {
	return fix(b, &ast.VarDecl{Mods: mods, Vars: items})
}

func (b *Builder) Item(id string, init ast.Node) *ast.VarItem {
	return fix(b, &ast.VarItem{ID: b.Ident(id), Init: init})
}

// Let is `let id = init;`.
func (b *Builder) Let(id string, init ast.Node) *ast.VarDecl {
	return b.Var(nil, b.Item(id, init))
}

func (b *Builder) Enum(mods ast.Modifiers, items ...*ast.VarItem) *ast.EnumDecl {
	return fix(b, &ast.EnumDecl{Mods: mods, Members: items})
}

func (b *Builder) Use(mods ast.Modifiers, item ast.Node) *ast.UseDecl {
	return fix(b, &ast.UseDecl{Mods: mods, Item: item})
}

func (b *Builder) UseAlias(name *ast.Name, alias string) *ast.UseAlias {
	return fix(b, &ast.UseAlias{Name: name, Alias: b.Ident(alias)})
}

// UseUnpack builds `name::{items}`; a nil name is the bare `{items}` form.
func (b *Builder) UseUnpack(name *ast.Name, items ...ast.Node) *ast.UseUnpack {
	return fix(b, &ast.UseUnpack{Name: name, Items: items})
}

func (b *Builder) Require(expr ast.Node) *ast.RequireDecl {
	return fix(b, &ast.RequireDecl{Expr: expr})
}

func (b *Builder) Label(id string, stmt ast.Node) *ast.LabelDecl {
	return fix(b, &ast.LabelDecl{ID: b.Ident(id), Stmt: stmt})
}

func (b *Builder) Alias(id string, orig *ast.Name) *ast.AliasDecl {
	return fix(b, &ast.AliasDecl{ID: b.Ident(id), Orig: orig})
}

func (b *Builder) TraitUse(name *ast.Name, items ...*ast.TraitUseItem) *ast.TraitUse {
	return fix(b, &ast.TraitUse{Name: name, Items: items})
}

// TraitItem builds `id as mods alias;` inside a trait use; alias may be empty.
func (b *Builder) TraitItem(id string, mods ast.Modifiers, alias string) *ast.TraitUseItem {
	return fix(b, &ast.TraitUseItem{ID: b.Ident(id), Mods: mods, Alias: b.ident(alias)})
}

// statements

func (b *Builder) Do(stmt, expr ast.Node) *ast.DoStmt {
	return fix(b, &ast.DoStmt{Stmt: stmt, Expr: expr})
}

func (b *Builder) If(test, stmt ast.Node, elifs []*ast.ElifClause, els ast.Node) *ast.IfStmt {
	n := &ast.IfStmt{Test: test, Stmt: stmt, Elifs: elifs}
	if els != nil {
		n.Else = fix(b, &ast.ElseClause{Stmt: els})
	}
	return fix(b, n)
}

func (b *Builder) Elif(test, stmt ast.Node) *ast.ElifClause {
	return fix(b, &ast.ElifClause{Test: test, Stmt: stmt})
}

func (b *Builder) For(init, test, each, stmt ast.Node) *ast.ForStmt {
	return fix(b, &ast.ForStmt{Init: init, Test: test, Each: each, Stmt: stmt})
}

// ForIn builds `for key, arg in expr`; key may be empty.
func (b *Builder) ForIn(key, arg string, expr, stmt ast.Node) *ast.ForInStmt {
	return fix(b, &ast.ForInStmt{Key: b.ident(key), Arg: b.Ident(arg), Expr: expr, Stmt: stmt})
}

func (b *Builder) While(test, stmt ast.Node) *ast.WhileStmt {
	return fix(b, &ast.WhileStmt{Test: test, Stmt: stmt})
}

func (b *Builder) Try(body *ast.Block, catches []*ast.CatchClause, finally *ast.Block) *ast.TryStmt {
	n := &ast.TryStmt{Body: body, Catches: catches}
	if finally != nil {
		n.Finally = fix(b, &ast.FinallyClause{Body: finally})
	}
	return fix(b, n)
}

func (b *Builder) Catch(name *ast.Name, id string, body *ast.Block) *ast.CatchClause {
	return fix(b, &ast.CatchClause{Name: name, ID: b.ident(id), Body: body})
}

func (b *Builder) Switch(test ast.Node, cases ...*ast.CaseClause) *ast.SwitchStmt {
	return fix(b, &ast.SwitchStmt{Test: test, Cases: cases})
}

// Case builds one case clause; a nil label expression is `default`.
func (b *Builder) Case(labels []ast.Node, body ...ast.Node) *ast.CaseClause {
	n := &ast.CaseClause{Body: body}
	for _, l := range labels {
		n.Labels = append(n.Labels, fix(b, &ast.CaseLabel{Expr: l}))
	}
	return fix(b, n)
}

func (b *Builder) Goto(id string) *ast.GotoStmt {
	return fix(b, &ast.GotoStmt{ID: b.Ident(id)})
}

func (b *Builder) Break(id string) *ast.BreakStmt {
	return fix(b, &ast.BreakStmt{ID: b.ident(id)})
}

func (b *Builder) Continue(id string) *ast.ContinueStmt {
	return fix(b, &ast.ContinueStmt{ID: b.ident(id)})
}

func (b *Builder) Return(expr ast.Node) *ast.ReturnStmt {
	return fix(b, &ast.ReturnStmt{Expr: expr})
}

func (b *Builder) Throw(expr ast.Node) *ast.ThrowStmt {
	return fix(b, &ast.ThrowStmt{Expr: expr})
}

func (b *Builder) Print(exprs ...ast.Node) *ast.PrintStmt {
	return fix(b, &ast.PrintStmt{Exprs: exprs})
}

func (b *Builder) Assert(expr, msg ast.Node) *ast.AssertStmt {
	return fix(b, &ast.AssertStmt{Expr: expr, Message: msg})
}

func (b *Builder) Expr(exprs ...ast.Node) *ast.ExprStmt {
	return fix(b, &ast.ExprStmt{Exprs: exprs})
}

func (b *Builder) Test(name string, block *ast.Block) *ast.TestStmt {
	return fix(b, &ast.TestStmt{Name: b.Str(name), Block: block})
}

func (b *Builder) Native(code string) *ast.NativeStmt {
	return fix(b, &ast.NativeStmt{Code: code})
}

// expressions

func (b *Builder) Bin(l ast.Node, op ast.Op, r ast.Node) *ast.BinExpr {
	return fix(b, &ast.BinExpr{Left: l, Op: op, Right: r})
}

func (b *Builder) Check(l ast.Node, op ast.Op, r ast.Node) *ast.CheckExpr {
	return fix(b, &ast.CheckExpr{Left: l, Op: op, Right: r})
}

func (b *Builder) Cast(expr, typ ast.Node) *ast.CastExpr {
	return fix(b, &ast.CastExpr{Expr: expr, Type: typ})
}

func (b *Builder) Update(prefix bool, expr ast.Node, op ast.Op) *ast.UpdateExpr {
	return fix(b, &ast.UpdateExpr{Prefix: prefix, Expr: expr, Op: op})
}

func (b *Builder) Assign(l ast.Node, op ast.Op, r ast.Node) *ast.AssignExpr {
	return fix(b, &ast.AssignExpr{Left: l, Op: op, Right: r})
}

// Member builds `obj.member`.
func (b *Builder) Member(obj ast.Node, member string) *ast.MemberExpr {
	return fix(b, &ast.MemberExpr{Object: obj, Member: b.Ident(member)})
}

func (b *Builder) Offset(obj, off ast.Node) *ast.OffsetExpr {
	return fix(b, &ast.OffsetExpr{Object: obj, Offset: off})
}

func (b *Builder) Cond(test, then, els ast.Node) *ast.CondExpr {
	return fix(b, &ast.CondExpr{Test: test, Then: then, Else: els})
}

func (b *Builder) Call(callee ast.Node, args ...ast.Node) *ast.CallExpr {
	return fix(b, &ast.CallExpr{Callee: callee, Args: args})
}

func (b *Builder) New(name ast.Node, args ...ast.Node) *ast.NewExpr {
	return fix(b, &ast.NewExpr{Name: name, Args: args})
}

func (b *Builder) Del(expr ast.Node) *ast.DelExpr {
	return fix(b, &ast.DelExpr{Expr: expr})
}

func (b *Builder) Tuple(seq ...ast.Node) *ast.TupleExpr {
	return fix(b, &ast.TupleExpr{Seq: seq})
}

func (b *Builder) Paren(expr ast.Node) *ast.ParenExpr {
	return fix(b, &ast.ParenExpr{Expr: expr})
}

func (b *Builder) FnExpr(params []ast.Node, body ast.Node) *ast.FnExpr {
	return fix(b, &ast.FnExpr{Params: params, Body: body})
}

func (b *Builder) Unary(op ast.Op, expr ast.Node) *ast.UnaryExpr {
	return fix(b, &ast.UnaryExpr{Op: op, Expr: expr})
}

func (b *Builder) Yield(key, val ast.Node) *ast.YieldExpr {
	return fix(b, &ast.YieldExpr{Key: key, Value: val})
}

// literals

func (b *Builder) Int(v int64) *ast.IntLit       { return fix(b, &ast.IntLit{Value: v}) }
func (b *Builder) Float(v float64) *ast.FloatLit { return fix(b, &ast.FloatLit{Value: v}) }
func (b *Builder) Str(v string) *ast.StrLit      { return fix(b, &ast.StrLit{Value: v}) }
func (b *Builder) KStr(v string) *ast.KStrLit    { return fix(b, &ast.KStrLit{Value: v}) }
func (b *Builder) Regexp(v string) *ast.RegexpLit {
	return fix(b, &ast.RegexpLit{Value: v})
}

// Interp builds an interpolated string from plain pieces and expressions.
func (b *Builder) Interp(constant bool, parts ...ast.Node) *ast.StrLit {
	return fix(b, &ast.StrLit{Parts: parts, Const: constant})
}

func (b *Builder) Arr(items ...ast.Node) *ast.ArrLit {
	return fix(b, &ast.ArrLit{Items: items})
}

func (b *Builder) Obj(pairs ...*ast.ObjPair) *ast.ObjLit {
	return fix(b, &ast.ObjLit{Pairs: pairs})
}

func (b *Builder) Pair(key, arg ast.Node) *ast.ObjPair {
	return fix(b, &ast.ObjPair{Key: key, Arg: arg})
}

func (b *Builder) Null() *ast.NullLit   { return fix(b, &ast.NullLit{}) }
func (b *Builder) True() *ast.TrueLit   { return fix(b, &ast.TrueLit{}) }
func (b *Builder) False() *ast.FalseLit { return fix(b, &ast.FalseLit{}) }
func (b *Builder) This() *ast.ThisExpr  { return fix(b, &ast.ThisExpr{}) }
func (b *Builder) Super() *ast.SuperExpr {
	return fix(b, &ast.SuperExpr{})
}
func (b *Builder) Self() *ast.SelfExpr { return fix(b, &ast.SelfExpr{}) }

func (b *Builder) Engine(k ast.EngineKind) *ast.EngineConst {
	return fix(b, &ast.EngineConst{Const: k})
}

func (b *Builder) Type(k ast.TypeKind) *ast.TypeID {
	return fix(b, &ast.TypeID{Type: k})
}
