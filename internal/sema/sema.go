package sema

import (
	"fmt"

	"phs/internal/ast"
	"phs/internal/diag"
	"phs/internal/session"
	"phs/internal/source"
	"phs/internal/symbols"
	"phs/internal/value"
)

// Options configure resolution of one unit.
type Options struct {
	// Root anchors absolute require paths. Empty means the unit's directory.
	Root string
}

// Result stores what resolution produced besides the symbol values it
// writes into the table.
type Result struct {
	Info *Info
}

// Resolve binds the names, class references and type contexts of a
// collected and desugared unit and reduces what is known at compile time.
func Resolve(t *symbols.Table, unit *ast.Unit, opts Options) Result {
	res := Result{Info: newInfo()}
	if unit == nil {
		return res
	}
	scope := t.ScopeOf(unit)
	if !scope.IsValid() {
		return res
	}
	r := &resolver{
		t:         t,
		sess:      t.Session(),
		opts:      opts,
		info:      res.Info,
		unit:      scope,
		file:      t.Scope(scope).File,
		escaped:   make(map[symbols.SymbolID]struct{}),
		gotos:     make(map[symbols.ScopeID]struct{}),
		resolving: make(map[symbols.SymbolID]struct{}),
		assigned:  make(map[symbols.SymbolID]struct{}),
	}
	r.red = NewReducer(r.sess, r, res.Info.Values)
	r.run(unit)
	return res
}

type resolver struct {
	t    *symbols.Table
	sess *session.Session
	opts Options
	info *Info
	red  *Reducer

	unit  symbols.ScopeID
	file  source.FileID
	scope symbols.ScopeID
	// enclosing class or trait
	class symbols.SymbolID
	fn    *fnFrame

	branches []*symbols.Branch
	loops    int

	escaped   map[symbols.SymbolID]struct{}
	gotos     map[symbols.ScopeID]struct{}
	resolving map[symbols.SymbolID]struct{}
	// constants that already got their value
	assigned map[symbols.SymbolID]struct{}
}

// fnFrame is one function being resolved.
type fnFrame struct {
	decl  ast.Node
	sym   symbols.SymbolID
	scope symbols.ScopeID
	name  string
	prev  *fnFrame
}

func (r *resolver) run(unit *ast.Unit) {
	r.prescan(unit)
	r.enter(r.unit, func() { r.stmts(unit.Body) })
}

// enter runs body in scope. Types owned by a scope are resolved before
// anything else in it.
func (r *resolver) enter(scope symbols.ScopeID, body func()) {
	prev := r.scope
	r.scope = scope
	r.resolveTypes(scope)
	body()
	r.scope = prev
}

// within enters the scope n opened, if any.
func (r *resolver) within(n ast.Node, body func()) {
	if sc := r.t.ScopeOf(n); sc.IsValid() {
		r.enter(sc, body)
		return
	}
	body()
}

func (r *resolver) stmts(list []ast.Node) {
	for _, n := range list {
		r.stmt(n)
	}
}

func (r *resolver) stmt(n ast.Node) {
	if ast.IsNil(n) {
		return
	}
	switch n := n.(type) {
	case *ast.Module:
		r.within(n, func() { r.stmts(n.Body) })
	case *ast.Block:
		r.within(n, func() { r.stmts(n.Body) })
	case *ast.ClassDecl:
		r.typeBody(n, n.Members)
	case *ast.TraitDecl:
		r.typeBody(n, n.Members)
	case *ast.IfaceDecl:
		r.typeBody(n, n.Members)
	case *ast.FnDecl, *ast.CtorDecl, *ast.DtorDecl, *ast.GetterDecl, *ast.SetterDecl:
		r.classMember(n)
	case *ast.VarDecl:
		r.varDecl(n)
	case *ast.EnumDecl:
		r.enumDecl(n)
	case *ast.RequireDecl:
		r.require(n)
	case *ast.LabelDecl:
		r.stmt(n.Stmt)
	case *ast.AliasDecl:
		if id, ok := r.lookup(r.scope, n.Orig, symbols.NS0); ok {
			r.info.Refs[n.Orig] = id
		}
	case *ast.UseDecl, *ast.TraitUse, *ast.NativeStmt,
		*ast.GotoStmt, *ast.BreakStmt, *ast.ContinueStmt:
	case *ast.DoStmt:
		r.loop(func() {
			r.stmt(n.Stmt)
			r.eval(n.Expr)
		})
	case *ast.IfStmt:
		r.ifStmt(n)
	case *ast.ForStmt:
		r.within(n, func() {
			if _, ok := n.Init.(*ast.VarDecl); ok {
				r.stmt(n.Init)
			} else {
				r.eval(n.Init)
			}
			r.loop(func() {
				r.eval(n.Test)
				r.stmt(n.Stmt)
				r.eval(n.Each)
			})
		})
	case *ast.ForInStmt:
		r.within(n, func() {
			r.eval(n.Expr)
			r.loop(func() { r.stmt(n.Stmt) })
		})
	case *ast.WhileStmt:
		r.loop(func() {
			r.eval(n.Test)
			r.stmt(n.Stmt)
		})
	case *ast.TryStmt:
		r.tryStmt(n)
	case *ast.SwitchStmt:
		r.switchStmt(n)
	case *ast.ReturnStmt:
		r.eval(n.Expr)
	case *ast.ThrowStmt:
		r.eval(n.Expr)
	case *ast.PrintStmt:
		r.evalList(n.Exprs)
	case *ast.AssertStmt:
		r.eval(n.Expr)
		r.eval(n.Message)
	case *ast.ExprStmt:
		r.evalList(n.Exprs)
	case *ast.TestStmt:
		r.stmt(n.Block)
	default:
		// bodies that were not desugared into blocks
		r.eval(n)
	}
}

func (r *resolver) ifStmt(n *ast.IfStmt) {
	r.eval(n.Test)
	r.branch(func() { r.stmt(n.Stmt) })
	for _, elif := range n.Elifs {
		r.branch(func() {
			r.eval(elif.Test)
			r.stmt(elif.Stmt)
		})
	}
	if n.Else != nil {
		r.branch(func() { r.stmt(n.Else.Stmt) })
	}
}

func (r *resolver) tryStmt(n *ast.TryStmt) {
	r.branch(func() { r.stmt(n.Body) })
	for _, c := range n.Catches {
		r.branch(func() {
			r.within(c, func() {
				if c.Name != nil {
					r.hint(c.Name)
				}
				r.stmt(c.Body)
			})
		})
	}
	if n.Finally != nil {
		r.stmt(n.Finally.Body)
	}
}

// switchStmt gives every case its own branch inside one for the whole
// statement, so a case entered directly does not see what the cases above
// it wrote.
func (r *resolver) switchStmt(n *ast.SwitchStmt) {
	r.eval(n.Test)
	r.branch(func() {
		for _, c := range n.Cases {
			r.branch(func() {
				for _, l := range c.Labels {
					r.eval(l.Expr)
				}
				r.stmts(c.Body)
			})
		}
	})
}

// typeBody resolves the members of a class, trait or interface with the
// declaration as class context.
func (r *resolver) typeBody(n ast.Node, members []ast.Node) {
	sym := r.t.SymbolOf(n)
	scope := r.t.ScopeOf(n)
	if !sym.IsValid() || !scope.IsValid() {
		return
	}
	saved := r.class
	r.class = sym
	r.enter(scope, func() {
		for _, m := range members {
			r.classMember(m)
		}
	})
	r.class = saved
}

func (r *resolver) classMember(n ast.Node) {
	switch n := n.(type) {
	case *ast.FnDecl:
		r.fnBody(n, n.ID.Name, n.Params, n.Body)
	case *ast.CtorDecl:
		r.fnBody(n, "constructor", n.Params, n.Body)
	case *ast.DtorDecl:
		r.fnBody(n, "destructor", n.Params, n.Body)
	case *ast.GetterDecl:
		r.fnBody(n, n.ID.Name, n.Params, n.Body)
	case *ast.SetterDecl:
		r.fnBody(n, n.ID.Name, n.Params, n.Body)
	case *ast.NestedMods:
		for _, m := range n.Members {
			r.classMember(m)
		}
	case *ast.TraitUse:
		// copied while resolving the class
	default:
		r.stmt(n)
	}
}

// fnBody resolves a function in its own scope. Value tracking starts over:
// the function may run at any time.
func (r *resolver) fnBody(decl ast.Node, name string, params []ast.Node, body ast.Node) {
	frame := &fnFrame{
		decl:  decl,
		sym:   r.t.SymbolOf(decl),
		scope: r.t.ScopeOf(decl),
		name:  name,
		prev:  r.fn,
	}
	if !frame.scope.IsValid() {
		frame.scope = r.scope
	}
	branches, loops := r.branches, r.loops
	r.branches, r.loops = nil, 0
	r.fn = frame
	r.enter(frame.scope, func() {
		r.params(params)
		r.stmt(body)
	})
	r.fn = frame.prev
	r.branches, r.loops = branches, loops
}

func (r *resolver) params(params []ast.Node) {
	for _, p := range params {
		switch p := p.(type) {
		case *ast.Param:
			r.hint(p.Hint)
			r.eval(p.Init)
		case *ast.ThisParam:
			r.hint(p.Hint)
			r.eval(p.Init)
		case *ast.RestParam:
			r.hint(p.Hint)
		default:
			ast.Unexpected(p)
		}
	}
}

func (r *resolver) varDecl(n *ast.VarDecl) {
	for _, item := range n.Vars {
		v := value.MakeNull()
		if item.Init != nil {
			v = r.eval(item.Init)
		}
		id := r.t.SymbolOf(item)
		if !id.IsValid() {
			continue
		}
		sym := r.t.Symbol(id)
		sym.Reachable = true
		if item.Init != nil {
			r.assigned[id] = struct{}{}
		}
		if item.Ref {
			v = value.Undef()
		}
		r.declare(id, v)
	}
}

// declare gives a freshly declared variable its initial value. Member
// variables keep it on the symbol; static constants are read from there.
func (r *resolver) declare(id symbols.SymbolID, v value.Value) {
	sym := r.t.Symbol(id)
	if r.t.Scope(sym.Scope).Kind == symbols.ScopeMember {
		if sym.Flags.Has(symbols.FlagConst) && v.IsConst() {
			v = v.Freeze()
		}
		sym.Value = v
		return
	}
	r.write(id, v)
}

// enumDecl numbers members without an initializer after the previous
// integer member, starting at zero.
func (r *resolver) enumDecl(n *ast.EnumDecl) {
	next := int64(0)
	for _, item := range n.Members {
		var v value.Value
		if item.Init != nil {
			v = r.eval(item.Init)
			if !v.IsConst() {
				r.sess.Errorf(diag.ResEnumNotConst, item.Init.Span(),
					"enum value must reduce to a constant value")
			}
		} else {
			v = value.MakeInt(next)
		}
		if v.Kind() == value.KindInt {
			next = v.Int() + 1
		}
		id := r.t.SymbolOf(item)
		if !id.IsValid() {
			continue
		}
		sym := r.t.Symbol(id)
		sym.Reachable = true
		sym.Value = v.Freeze()
		r.assigned[id] = struct{}{}
	}
}

// eval resolves expression n and returns its reduced value.
func (r *resolver) eval(n ast.Node) value.Value {
	if ast.IsNil(n) {
		return value.Undef()
	}
	r.expr(n)
	return r.red.Reduce(n)
}

func (r *resolver) evalList(list []ast.Node) {
	for _, n := range list {
		r.eval(n)
	}
}

// describe renders a symbol for messages, e.g. class `Foo`.
func (r *resolver) describe(id symbols.SymbolID) string {
	sym := r.t.Symbol(id)
	return fmt.Sprintf("%s `%s`", sym.Kind, r.t.Name(sym.Name))
}
