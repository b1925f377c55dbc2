package desugar

import (
	"slices"

	"phs/internal/ast"
	"phs/internal/diag"
	"phs/internal/session"
	"phs/internal/symbols"
)

// Options configure a desugaring run.
type Options struct {
	// Table, when set, follows rewritten parameters: the symbol collected
	// for a this-parameter is rebound to the parameter replacing it.
	Table *symbols.Table
}

// Result counts the rewrites applied to a unit.
type Result struct {
	Blocks     int // bare statement bodies wrapped into blocks
	Returns    int // expression bodies turned into `{ return expr; }`
	Hoisted    int // declarations lifted out of nested modifier groups
	Throws     int // throw operands wrapped into the prelude call
	ThisParams int // constructor this-parameters expanded
}

// Desugar rewrites unit in place into the canonical shape later passes
// expect: every control-flow body is a block, every function body is a
// block, no NestedMods remain and constructor this-parameters are plain
// parameters with an explicit assignment.
func Desugar(sess *session.Session, unit *ast.Unit, opts Options) Result {
	var res Result
	if unit == nil {
		return res
	}
	d := &desugarer{sess: sess, table: opts.Table, result: &res}
	ast.Walk(d, unit)
	return res
}

type desugarer struct {
	sess   *session.Session
	table  *symbols.Table
	result *Result
}

func (d *desugarer) Visit(n ast.Node) ast.Visitor {
	switch n := n.(type) {
	case nil:
		return nil
	case *ast.Unit:
		n.Body = d.hoist(n.Body, nil)
	case *ast.Module:
		n.Body = d.hoist(n.Body, nil)
	case *ast.Block:
		n.Body = d.hoist(n.Body, nil)
	case *ast.ClassDecl:
		n.Members = d.hoist(n.Members, nil)
	case *ast.TraitDecl:
		n.Members = d.hoist(n.Members, nil)
	case *ast.IfaceDecl:
		n.Members = d.hoist(n.Members, nil)
	case *ast.NestedMods:
		panic("desugar: nested modifier group survived hoisting")
	case *ast.FnDecl:
		n.Body = d.returnBody(n.Body)
	case *ast.FnExpr:
		n.Body = d.returnBody(n.Body)
	case *ast.GetterDecl:
		n.Body = d.returnBody(n.Body)
	case *ast.SetterDecl:
		n.Body = d.returnBody(n.Body)
	case *ast.CtorDecl:
		d.thisParams(n)
	case *ast.DoStmt:
		n.Stmt = d.block(n, n.Stmt)
	case *ast.IfStmt:
		n.Stmt = d.block(n, n.Stmt)
	case *ast.ElifClause:
		n.Stmt = d.block(n, n.Stmt)
	case *ast.ElseClause:
		n.Stmt = d.block(n, n.Stmt)
	case *ast.ForStmt:
		n.Stmt = d.block(n, n.Stmt)
	case *ast.ForInStmt:
		n.Stmt = d.block(n, n.Stmt)
	case *ast.WhileStmt:
		n.Stmt = d.block(n, n.Stmt)
	case *ast.ThrowStmt:
		n.Expr = d.throwExpr(n.Expr)
	}
	return d
}

// block wraps a bare statement body. The empty statement becomes the
// empty block.
func (d *desugarer) block(owner, stmt ast.Node) ast.Node {
	if b, ok := stmt.(*ast.Block); ok {
		return b
	}
	d.result.Blocks++
	if ast.IsNil(stmt) {
		return &ast.Block{Base: ast.Base{Loc: owner.Span()}}
	}
	blk := &ast.Block{Base: ast.Base{Loc: stmt.Span()}}
	if es, ok := stmt.(*ast.ExprStmt); !ok || len(es.Exprs) > 0 {
		blk.Body = []ast.Node{stmt}
	}
	return blk
}

// returnBody turns the expression body of `fn f() = expr;` into a block
// returning expr. Missing bodies stay missing.
func (d *desugarer) returnBody(body ast.Node) ast.Node {
	if ast.IsNil(body) {
		return body
	}
	if _, ok := body.(*ast.Block); ok {
		return body
	}
	d.result.Returns++
	sp := body.Span()
	ret := &ast.ReturnStmt{Base: ast.Base{Loc: sp}, Expr: body}
	return &ast.Block{Base: ast.Base{Loc: sp}, Body: []ast.Node{ret}}
}

// throwExpr wraps operands the runtime cannot throw directly into
// `::phs::ex(expr)`.
func (d *desugarer) throwExpr(expr ast.Node) ast.Node {
	switch expr.(type) {
	case nil, *ast.Name, *ast.Ident, *ast.NewExpr, *ast.CallExpr:
		return expr
	}
	d.result.Throws++
	sp := expr.Span()
	callee := &ast.Name{
		Base: ast.Base{Loc: sp},
		Root: true,
		Parts: []*ast.Ident{
			{Base: ast.Base{Loc: sp}, Name: symbols.PreludeModule},
			{Base: ast.Base{Loc: sp}, Name: symbols.PreludeThrow},
		},
	}
	return &ast.CallExpr{Base: ast.Base{Loc: sp}, Callee: callee, Args: []ast.Node{expr}}
}

// hoist splices the members of nested modifier groups into list, prepending
// the group modifiers to every member. Outer modifiers come first, so a
// repeated one is reported at the inner site.
func (d *desugarer) hoist(list []ast.Node, outer ast.Modifiers) []ast.Node {
	if len(outer) == 0 && !hasGroups(list) {
		return list
	}
	out := make([]ast.Node, 0, len(list))
	for _, n := range list {
		if g, ok := n.(*ast.NestedMods); ok {
			out = append(out, d.hoist(g.Members, d.merge(outer, g.Mods))...)
			continue
		}
		if len(outer) > 0 {
			if ms := ast.ModsOf(n); ms != nil {
				*ms = d.merge(outer, *ms)
			}
			d.result.Hoisted++
		}
		out = append(out, n)
	}
	return out
}

func hasGroups(list []ast.Node) bool {
	for _, n := range list {
		if _, ok := n.(*ast.NestedMods); ok {
			return true
		}
	}
	return false
}

func (d *desugarer) merge(outer, inner ast.Modifiers) ast.Modifiers {
	merged, dups := ast.MergeMods(outer, inner)
	for _, m := range dups {
		b := diag.ReportWarning(d.sess.Reporter(), diag.DsgDuplicateModifier, m.Span, "duplicate modifier `"+m.Kind.String()+"`")
		if prev, ok := merged.Find(m.Kind); ok {
			b = b.WithNote(prev.Span, "previous modifier was here")
		}
		b.Emit()
	}
	return merged
}

// thisParams expands `new(this.x)` into `new(__this__x) { this.x = __this__x; }`.
// Parameters are processed back to front so the injected assignments keep
// the declared order. A leading super-call stays first.
func (d *desugarer) thisParams(n *ast.CtorDecl) {
	var idx []int
	for i, p := range n.Params {
		if _, ok := p.(*ast.ThisParam); ok {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return
	}
	body, ok := n.Body.(*ast.Block)
	if !ok {
		body = d.block(n, n.Body).(*ast.Block)
		n.Body = body
	}
	at := 0
	if len(body.Body) > 0 && superCall(body.Body[0]) {
		at = 1
	}
	for i := len(idx) - 1; i >= 0; i-- {
		tp := n.Params[idx[i]].(*ast.ThisParam)
		param := &ast.Param{
			Base: ast.Base{Loc: tp.Span()},
			Ref:  tp.Ref,
			Hint: tp.Hint,
			ID:   &ast.Ident{Base: ast.Base{Loc: tp.ID.Span()}, Name: symbols.ThisParamName(tp.ID.Name)},
			Init: tp.Init,
		}
		n.Params[idx[i]] = param
		d.rebind(tp, param)
		body.Body = slices.Insert(body.Body, at, thisAssign(tp, param.ID))
		d.result.ThisParams++
	}
}

func superCall(stmt ast.Node) bool {
	es, ok := stmt.(*ast.ExprStmt)
	if !ok || len(es.Exprs) == 0 {
		return false
	}
	call, ok := es.Exprs[0].(*ast.CallExpr)
	if !ok {
		return false
	}
	_, ok = call.Callee.(*ast.SuperExpr)
	return ok
}

func (d *desugarer) rebind(old, repl ast.Node) {
	if d.table == nil {
		return
	}
	id := d.table.SymbolOf(old)
	if !id.IsValid() {
		return
	}
	d.table.BindSymbol(repl, id)
	d.table.Symbol(id).Decl = repl
}

func thisAssign(tp *ast.ThisParam, tmp *ast.Ident) ast.Node {
	sp := tp.Span()
	var rhs ast.Node = &ast.Name{Base: ast.Base{Loc: tmp.Span()}, Parts: []*ast.Ident{tmp}}
	if tp.Ref {
		rhs = &ast.UnaryExpr{Base: ast.Base{Loc: sp}, Op: ast.OpRef, Expr: rhs}
	}
	member := &ast.MemberExpr{
		Base:   ast.Base{Loc: sp},
		Object: &ast.ThisExpr{Base: ast.Base{Loc: sp}},
		Member: &ast.Ident{Base: ast.Base{Loc: tp.ID.Span()}, Name: tp.ID.Name},
	}
	assign := &ast.AssignExpr{Base: ast.Base{Loc: sp}, Left: member, Op: ast.OpAssign, Right: rhs}
	return &ast.ExprStmt{Base: ast.Base{Loc: sp}, Exprs: []ast.Node{assign}}
}
