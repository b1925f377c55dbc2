package sema

import (
	"phs/internal/ast"
	"phs/internal/symbols"
	"phs/internal/value"
)

// A variable's value is known only while the resolver can see every write
// to it: in straight-line code of the function that declares it. Writes
// in conditional code go to a Branch; whatever a branch changed is unknown
// once it closes.

// branch runs body on a fresh overlay of the current scope.
func (r *resolver) branch(body func()) {
	br := symbols.NewBranch(r.t, r.scope)
	r.branches = append(r.branches, br)
	body()
	r.branches = r.branches[:len(r.branches)-1]

	var changed []symbols.SymbolID
	if len(r.branches) == 0 {
		changed = br.Changed()
	} else {
		for _, id := range br.Touched() {
			a, o := br.Copy(id).Value, r.view(id, len(r.branches))
			if a.Kind() == o.Kind() && !a.IsConst() {
				continue
			}
			if !value.Equal(a, o) {
				changed = append(changed, id)
			}
		}
	}
	for _, id := range changed {
		sym := r.t.Symbol(id)
		r.sess.Debugf(sym.Span, "value of `%s` depends on a branch", r.t.Name(sym.Name))
		r.write(id, value.Undef())
	}
}

// loop runs body as a loop body; nothing written or read in it has a
// known value.
func (r *resolver) loop(body func()) {
	r.loops++
	body()
	r.loops--
}

// curFn is the scope of the function being resolved, the unit at top
// level.
func (r *resolver) curFn() symbols.ScopeID {
	if r.fn == nil {
		return r.unit
	}
	return r.fn.scope
}

// fnScopeOf returns the function scope enclosing scope, or its unit.
func (r *resolver) fnScopeOf(scope symbols.ScopeID) symbols.ScopeID {
	for cur := scope; cur.IsValid(); cur = r.t.Scope(cur).Prev {
		switch r.t.Scope(cur).Kind {
		case symbols.ScopeFn, symbols.ScopeUnit, symbols.ScopeGlobal:
			return cur
		}
	}
	return symbols.NoScopeID
}

// writable reports whether the resolver keeps values for sym at all.
func (r *resolver) writable(sym *symbols.Symbol) bool {
	if sym.Kind != symbols.SymbolVar || !sym.Scope.IsValid() {
		return false
	}
	if r.t.Scope(sym.Scope).Kind == symbols.ScopeMember {
		return false
	}
	return r.t.UnitOf(sym.Scope) == r.unit
}

// tracked reports whether the value of id is known at this point.
func (r *resolver) tracked(id symbols.SymbolID, sym *symbols.Symbol) bool {
	if !r.writable(sym) || sym.Flags.Has(symbols.FlagGlobal|symbols.FlagStatic) {
		return false
	}
	if _, ok := r.escaped[id]; ok {
		return false
	}
	if r.loops > 0 {
		return false
	}
	cur := r.curFn()
	if _, ok := r.gotos[cur]; ok {
		return false
	}
	return r.fnScopeOf(sym.Scope) == cur
}

// view returns the value of id as seen through the innermost depth
// branches.
func (r *resolver) view(id symbols.SymbolID, depth int) value.Value {
	for i := depth - 1; i >= 0; i-- {
		if cp := r.branches[i].Copy(id); cp != nil {
			return cp.Value
		}
	}
	return r.t.Symbol(id).Value
}

// read returns the value a name bound to id has here. Types read as
// symbol references so their static members can be folded.
func (r *resolver) read(id symbols.SymbolID) value.Value {
	sym := r.t.Symbol(id)
	switch sym.Kind {
	case symbols.SymbolClass, symbols.SymbolTrait, symbols.SymbolIface:
		return value.MakeSymbol(uint32(id))
	case symbols.SymbolVar:
	default:
		return value.Undef()
	}
	if !sym.Flags.Has(symbols.FlagConst) && !r.tracked(id, sym) {
		return value.Undef()
	}
	return r.view(id, len(r.branches))
}

// write stores v as the value of id in the innermost branch, or in the
// table outside of conditional code.
func (r *resolver) write(id symbols.SymbolID, v value.Value) {
	sym := r.t.Symbol(id)
	if !r.writable(sym) {
		return
	}
	if !r.tracked(id, sym) {
		v = value.Undef()
	}
	if sym.Flags.Has(symbols.FlagConst) && v.IsConst() {
		v = v.Freeze()
	}
	if n := len(r.branches); n > 0 {
		r.branches[n-1].Touch(id).Value = v
		return
	}
	sym.Value = v
}

// prescan finds variables written where the resolver cannot follow and
// the functions using goto, in one walk.
func (r *resolver) prescan(unit *ast.Unit) {
	w := ast.NewWalker(
		&escapeScan{r: r, scope: r.unit, fn: r.unit},
		&gotoScan{r: r, fn: r.unit},
	)
	for _, n := range unit.Body {
		w.Walk(n)
	}
}

// escapeScan marks variables that are aliased by reference, or written
// from a function other than their own.
type escapeScan struct {
	r     *resolver
	scope symbols.ScopeID
	fn    symbols.ScopeID
}

func (s *escapeScan) Visit(n ast.Node) ast.Visitor {
	if n == nil {
		return nil
	}
	next := s
	if sc := s.r.t.ScopeOf(n); sc.IsValid() {
		cp := *s
		cp.scope = sc
		if s.r.t.Scope(sc).Kind == symbols.ScopeFn {
			cp.fn = sc
		}
		next = &cp
	}
	switch n := n.(type) {
	case *ast.AssignExpr:
		s.written(n.Left)
	case *ast.UpdateExpr:
		s.written(n.Expr)
	case *ast.DelExpr:
		s.written(n.Expr)
	case *ast.UnaryExpr:
		switch n.Op {
		case ast.OpRef:
			s.escape(n.Expr)
		case ast.OpInc, ast.OpDec:
			s.written(n.Expr)
		}
	case *ast.VarItem:
		if n.Ref {
			s.escape(n.Init)
			if id := s.r.t.SymbolOf(n); id.IsValid() {
				s.r.escaped[id] = struct{}{}
			}
		}
	case *ast.ForInStmt:
		if n.ArgRef {
			next.escape(n.Expr)
		}
	case *ast.CallExpr:
		s.args(n)
	}
	return next
}

// written marks the base variable of a write target made from another
// function.
func (s *escapeScan) written(n ast.Node) {
	id := s.base(n)
	if !id.IsValid() {
		return
	}
	if s.r.fnScopeOf(s.r.t.Symbol(id).Scope) != s.fn {
		s.r.escaped[id] = struct{}{}
	}
}

func (s *escapeScan) escape(n ast.Node) {
	if id := s.base(n); id.IsValid() {
		s.r.escaped[id] = struct{}{}
	}
}

// args marks bare variables passed to a parameter that may be a reference.
// Only direct calls of known functions prove otherwise.
func (s *escapeScan) args(n *ast.CallExpr) {
	var params []ast.Node
	known := false
	if callee, ok := n.Callee.(*ast.Name); ok {
		res := s.r.t.LookupName(s.scope, callee, symbols.NS0)
		if res.Found() {
			switch decl := s.r.t.Symbol(res.Symbol).Decl.(type) {
			case *ast.FnDecl:
				params, known = decl.Params, true
			case *ast.FnExpr:
				params, known = decl.Params, true
			}
		}
	}
	for i, a := range n.Args {
		if _, ok := a.(*ast.Name); !ok {
			continue
		}
		if known && (i >= len(params) || !refParam(params[i])) {
			continue
		}
		s.escape(a)
	}
}

func refParam(p ast.Node) bool {
	switch p := p.(type) {
	case *ast.Param:
		return p.Ref
	case *ast.ThisParam:
		return p.Ref
	}
	return false
}

// base returns the variable at the root of an lvalue.
func (s *escapeScan) base(n ast.Node) symbols.SymbolID {
	for {
		switch t := n.(type) {
		case *ast.OffsetExpr:
			n = t.Object
			continue
		case *ast.MemberExpr:
			n = t.Object
			continue
		case *ast.ParenExpr:
			n = t.Expr
			continue
		case *ast.UnaryExpr:
			if t.Op == ast.OpRef {
				n = t.Expr
				continue
			}
		case *ast.Name:
			res := s.r.t.LookupName(s.scope, t, symbols.NS0)
			if res.Found() && s.r.t.Symbol(res.Symbol).Kind == symbols.SymbolVar {
				return res.Symbol
			}
		}
		return symbols.NoSymbolID
	}
}

// gotoScan records the functions (or the unit) containing a goto.
type gotoScan struct {
	r  *resolver
	fn symbols.ScopeID
}

func (g *gotoScan) Visit(n ast.Node) ast.Visitor {
	if n == nil {
		return nil
	}
	next := g
	if sc := g.r.t.ScopeOf(n); sc.IsValid() && g.r.t.Scope(sc).Kind == symbols.ScopeFn {
		next = &gotoScan{r: g.r, fn: sc}
	}
	if _, ok := n.(*ast.GotoStmt); ok {
		g.r.gotos[g.fn] = struct{}{}
	}
	return next
}
