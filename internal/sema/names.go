package sema

import (
	"fmt"

	"phs/internal/ast"
	"phs/internal/diag"
	"phs/internal/source"
	"phs/internal/symbols"
	"phs/internal/value"
)

// expr resolves the names below n. Values are left to the reducer, except
// for writes, which happen in evaluation order.
func (r *resolver) expr(n ast.Node) {
	if ast.IsNil(n) {
		return
	}
	switch n := n.(type) {
	case *ast.Name:
		r.name(n)
	case *ast.Ident, *ast.IntLit, *ast.FloatLit, *ast.KStrLit, *ast.RegexpLit,
		*ast.NullLit, *ast.TrueLit, *ast.FalseLit, *ast.TypeID:
	case *ast.StrLit:
		r.exprs(n.Parts)
	case *ast.ArrLit:
		r.exprs(n.Items)
	case *ast.ObjLit:
		for _, p := range n.Pairs {
			if _, ok := p.Key.(*ast.Ident); !ok {
				r.expr(p.Key)
			}
			r.expr(p.Arg)
		}
	case *ast.TupleExpr:
		r.exprs(n.Seq)
	case *ast.ParenExpr:
		r.expr(n.Expr)
	case *ast.BinExpr:
		r.expr(n.Left)
		if n.Op == ast.OpAnd || n.Op == ast.OpOr {
			r.branch(func() { r.expr(n.Right) })
		} else {
			r.expr(n.Right)
		}
	case *ast.CheckExpr:
		r.expr(n.Left)
		r.hint(n.Right)
	case *ast.CastExpr:
		r.expr(n.Expr)
		r.castType(n.Type)
	case *ast.UnaryExpr:
		if n.Op == ast.OpInc || n.Op == ast.OpDec {
			r.update(n.Expr, n.Op, n.Span())
			return
		}
		r.expr(n.Expr)
	case *ast.UpdateExpr:
		r.update(n.Expr, n.Op, n.Span())
	case *ast.AssignExpr:
		r.assign(n)
	case *ast.MemberExpr:
		r.memberExpr(n)
	case *ast.OffsetExpr:
		r.expr(n.Object)
		r.expr(n.Offset)
	case *ast.CondExpr:
		r.expr(n.Test)
		if !ast.IsNil(n.Then) {
			r.branch(func() { r.expr(n.Then) })
		}
		r.branch(func() { r.expr(n.Else) })
	case *ast.CallExpr:
		r.call(n)
	case *ast.NamedArg:
		r.eval(n.Expr)
	case *ast.RestArg:
		r.eval(n.Expr)
	case *ast.YieldExpr:
		r.eval(n.Key)
		r.eval(n.Value)
	case *ast.NewExpr:
		r.newExpr(n)
	case *ast.DelExpr:
		r.expr(n.Expr)
		r.poison(n.Expr)
	case *ast.FnExpr:
		name := "{closure}"
		if n.ID != nil {
			name = n.ID.Name
		}
		r.fnBody(n, name, n.Params, n.Body)
	case *ast.ThisExpr:
		if !r.class.IsValid() {
			r.sess.Errorf(diag.ResThisOutside, n.Span(), "`this` outside of class or trait")
		}
	case *ast.SuperExpr:
		if !r.class.IsValid() {
			r.sess.Errorf(diag.ResSuperOutside, n.Span(), "`super` outside of class or trait")
		}
	case *ast.SelfExpr:
		if !r.class.IsValid() {
			r.sess.Errorf(diag.ResSelfOutside, n.Span(), "`self` outside of class or trait")
		}
	case *ast.EngineConst:
		r.red.Reduce(n)
	default:
		ast.Unexpected(n)
	}
}

func (r *resolver) exprs(list []ast.Node) {
	for _, n := range list {
		r.expr(n)
	}
}

// name binds n and records the value it holds at this point.
func (r *resolver) name(n *ast.Name) {
	id, ok := r.lookup(r.scope, n, symbols.NSAny)
	if !ok {
		r.red.Set(n, value.Undef())
		return
	}
	r.info.Refs[n] = id
	r.red.Set(n, r.read(id))
}

// lookup resolves n from scope and reports why it could not.
func (r *resolver) lookup(from symbols.ScopeID, n *ast.Name, ns symbols.Namespace) (symbols.SymbolID, bool) {
	res := r.t.LookupName(from, n, ns)
	switch res.Status {
	case symbols.LookupNone:
		r.sess.Errorf(diag.ResUndefinedSymbol, n.Span(), "access to undefined symbol `%s`", n)
	case symbols.LookupPrivate:
		sym := r.t.Symbol(res.Symbol)
		diag.ReportError(r.sess.Reporter(), diag.ResPrivateAccess, n.Span(),
			fmt.Sprintf("access to private %s from invalid context", r.describe(res.Symbol))).
			WithNote(sym.Span, "declaration was here").
			Emit()
	case symbols.LookupError:
		r.sess.Errorf(diag.ResLookupBug, n.Span(), "[bug] error while looking up `%s`", n)
	case symbols.LookupFound:
		sym := r.t.Symbol(res.Symbol)
		if sym.Kind == symbols.SymbolVar && !sym.Reachable {
			diag.ReportError(r.sess.Reporter(), diag.ResUnreachableVar, n.Span(),
				fmt.Sprintf("access to undefined symbol `%s`", n)).
				WithNote(sym.Span, fmt.Sprintf("a variable with the name `%s` gets defined here but is not yet accessible", n)).
				Emit()
			return symbols.NoSymbolID, false
		}
		if sym.Flags.Has(symbols.FlagProtected) && !r.protectedOK(sym) {
			r.sess.Errorf(diag.ResPrivateAccess, n.Span(),
				"access to protected %s from invalid context", r.describe(res.Symbol))
			return symbols.NoSymbolID, false
		}
		return res.Symbol, true
	}
	return symbols.NoSymbolID, false
}

// protectedOK reports whether a protected member is visible from the
// current class or one of its subclasses.
func (r *resolver) protectedOK(sym *symbols.Symbol) bool {
	if sc := r.t.Scope(sym.Scope); sc == nil || sc.Kind != symbols.ScopeMember {
		return true
	}
	for cls, n := r.class, 0; cls.IsValid() && n < r.t.Symbols.Len(); n++ {
		c := r.t.Symbol(cls)
		if c.Members == sym.Scope {
			return true
		}
		cls = c.SuperSym
	}
	return false
}

func (r *resolver) assign(n *ast.AssignExpr) {
	r.expr(n.Left)
	r.eval(n.Right)
	id, ok := r.target(n.Left, n.Span(), n.Op != ast.OpAssign)
	if !ok {
		return
	}
	r.write(id, r.red.Reduce(n))
}

// update handles `x++` and friends. The operand is read first.
func (r *resolver) update(target ast.Node, op ast.Op, sp source.Span) {
	r.expr(target)
	id, ok := r.target(target, sp, true)
	if !ok {
		return
	}
	bop := ast.OpAdd
	if op == ast.OpDec {
		bop = ast.OpSub
	}
	r.write(id, r.red.Fold(bop, r.red.Reduce(target), value.MakeInt(1), sp))
}

// target checks the left side of a write and returns the variable written
// by name. Element and member writes only invalidate their base.
func (r *resolver) target(n ast.Node, sp source.Span, update bool) (symbols.SymbolID, bool) {
	switch t := n.(type) {
	case *ast.ParenExpr:
		return r.target(t.Expr, sp, update)
	case *ast.OffsetExpr, *ast.MemberExpr:
		r.poison(t)
		return symbols.NoSymbolID, false
	case *ast.TupleExpr:
		for _, it := range t.Seq {
			if id, ok := r.target(it, sp, update); ok {
				r.write(id, value.Undef())
			}
		}
		return symbols.NoSymbolID, false
	case *ast.Name:
		id := r.info.Refs[t]
		if !id.IsValid() {
			return symbols.NoSymbolID, false
		}
		sym := r.t.Symbol(id)
		if sym.Kind != symbols.SymbolVar {
			r.sess.Errorf(diag.ResInvalidAssign, sp, "cannot assign a value to %s", r.describe(id))
			return symbols.NoSymbolID, false
		}
		if sym.Flags.Has(symbols.FlagConst) {
			if _, done := r.assigned[id]; done {
				if update {
					r.sess.Errorf(diag.ResConstAssign, sp, "cannot update constant %s", r.describe(id))
				} else {
					r.sess.Errorf(diag.ResConstAssign, sp, "cannot re-assign to constant %s", r.describe(id))
				}
				return symbols.NoSymbolID, false
			}
			r.assigned[id] = struct{}{}
		}
		return id, true
	}
	return symbols.NoSymbolID, false
}

// poison forgets the value of the variable at the base of n.
func (r *resolver) poison(n ast.Node) {
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
		case *ast.Name:
			if id := r.info.Refs[t]; id.IsValid() && r.t.Symbol(id).Kind == symbols.SymbolVar {
				r.write(id, value.Undef())
			}
		}
		return
	}
}

func (r *resolver) call(n *ast.CallExpr) {
	r.expr(n.Callee)
	if _, ok := n.Callee.(*ast.SuperExpr); ok {
		r.superCall(n)
	}
	for _, a := range n.Args {
		r.eval(a)
	}
}

// superCall binds `super(...)` to the nearest constructor up the super
// chain.
func (r *resolver) superCall(n *ast.CallExpr) {
	if !r.class.IsValid() {
		return
	}
	cls := r.t.Symbol(r.class)
	if cls.Kind == symbols.SymbolTrait {
		return
	}
	if r.fn == nil {
		r.sess.Errorf(diag.ResSuperCtor, n.Span(), "super() can only be called directly in constructors")
		return
	}
	if _, ok := r.fn.decl.(*ast.CtorDecl); !ok {
		r.sess.Errorf(diag.ResSuperCtor, n.Span(), "super() can only be called directly in constructors")
		return
	}
	for sup, i := cls.SuperSym, 0; sup.IsValid() && i < r.t.Symbols.Len(); i++ {
		s := r.t.Symbol(sup)
		if s.Members.IsValid() {
			if ctor := r.t.Scope(s.Members).Ctor; ctor.IsValid() {
				c := r.t.Symbol(ctor)
				if c.Flags.Has(symbols.FlagPrivate) {
					diag.ReportError(r.sess.Reporter(), diag.ResSuperCtor, n.Span(),
						fmt.Sprintf("cannot forward constructor-call via super() to %s, because it was declared private", r.describe(sup))).
						WithNote(c.Span, "resolved parent-constructor is here").
						Emit()
					return
				}
				r.info.Refs[n.Callee] = ctor
				return
			}
		}
		sup = s.SuperSym
	}
	r.sess.Errorf(diag.ResSuperCtor, n.Span(),
		"cannot forward constructor-call via super(), because no parent-class has an own constructor")
}

func (r *resolver) memberExpr(n *ast.MemberExpr) {
	r.expr(n.Object)
	var name string
	if n.Computed {
		m := r.eval(n.Member)
		s, ok := value.ToStr(m)
		if !ok {
			// resolved at runtime
			return
		}
		name = s.Str()
	} else if id, ok := n.Member.(*ast.Ident); ok {
		name = id.Name
	} else {
		r.expr(n.Member)
		return
	}
	if r.class.IsValid() && r.t.Symbol(r.class).Kind == symbols.SymbolClass {
		switch n.Object.(type) {
		case *ast.SelfExpr:
			r.selfMember(n, name)
			return
		case *ast.ThisExpr:
			r.thisMember(n, name)
			return
		case *ast.SuperExpr:
			r.superMember(n, name)
			return
		}
	}
	obj, ok := n.Object.(*ast.Name)
	if !ok {
		return
	}
	oid := r.info.Refs[obj]
	if !oid.IsValid() {
		return
	}
	osym := r.t.Symbol(oid)
	switch osym.Kind {
	case symbols.SymbolTrait, symbols.SymbolIface:
		r.sess.Errorf(diag.ResDirectMember, n.Span(), "cannot access members of %s directly", r.describe(oid))
	case symbols.SymbolClass:
		if osym.Flags.Has(symbols.FlagIncomplete) || !osym.Members.IsValid() {
			return
		}
		r.resolveClass(oid)
		mid := r.t.LookupMember(oid, r.t.Intern(name), symbols.NS0)
		if !mid.IsValid() {
			r.sess.Errorf(diag.ResUndefinedSymbol, n.Span(), "access to undefined symbol `%s.%s`", obj, name)
			return
		}
		m := r.t.Symbol(mid)
		if m.Flags.Has(symbols.FlagPrivate) && !r.t.Within(r.scope, m.Scope) {
			diag.ReportError(r.sess.Reporter(), diag.ResPrivateAccess, n.Span(),
				fmt.Sprintf("access to private %s from invalid context", r.describe(mid))).
				WithNote(m.Span, "declaration was here").
				Emit()
			return
		}
		if m.Flags.Has(symbols.FlagProtected) && !r.protectedOK(m) {
			r.sess.Errorf(diag.ResPrivateAccess, n.Span(), "access to protected %s from invalid context", r.describe(mid))
			return
		}
		if !m.Flags.Has(symbols.FlagStatic) {
			r.sess.Errorf(diag.ResNonStatic, n.Span(), "access to non-static %s from invalid context", r.describe(mid))
			return
		}
		r.info.Refs[n] = mid
	}
}

func (r *resolver) selfMember(n *ast.MemberExpr, name string) {
	mid := r.t.LookupMember(r.class, r.t.Intern(name), symbols.NS0)
	if !mid.IsValid() {
		r.sess.Errorf(diag.ResUndefinedSymbol, n.Span(),
			"access to undefined static member `%s` of %s", name, r.describe(r.class))
		return
	}
	if !r.t.Symbol(mid).Flags.Has(symbols.FlagStatic) {
		r.sess.Errorf(diag.ResNonStatic, n.Span(),
			"access to non-static %s from class-context (self)", r.describe(mid))
		return
	}
	r.info.Refs[n] = mid
}

func (r *resolver) thisMember(n *ast.MemberExpr, name string) {
	mid := r.t.LookupMember(r.class, r.t.Intern(name), symbols.NS0)
	if !mid.IsValid() {
		// maybe dynamic
		return
	}
	if r.t.Symbol(mid).Flags.Has(symbols.FlagStatic) {
		r.sess.Errorf(diag.ResNonStatic, n.Span(),
			"access to static %s from object-context (this)", r.describe(mid))
		return
	}
	r.info.Refs[n] = mid
}

// superMember allows methods and static variables of the parent class.
func (r *resolver) superMember(n *ast.MemberExpr, name string) {
	cls := r.t.Symbol(r.class)
	if !cls.SuperSym.IsValid() {
		r.sess.Errorf(diag.ResSuperOutside, n.Span(),
			"cannot use `super` in %s without parent class", r.describe(r.class))
		return
	}
	mid := r.t.LookupMember(cls.SuperSym, r.t.Intern(name), symbols.NS0)
	if !mid.IsValid() {
		r.sess.Errorf(diag.ResUndefinedSymbol, n.Span(),
			"access to undefined member `%s` of %s from parent-context (super)", name, r.describe(cls.SuperSym))
		return
	}
	m := r.t.Symbol(mid)
	if m.Flags.Has(symbols.FlagPrivate) {
		r.sess.Errorf(diag.ResPrivateAccess, n.Span(),
			"access to private member `%s` of %s from parent-context (super)", name, r.describe(cls.SuperSym))
		return
	}
	if m.Kind != symbols.SymbolFn && !m.Flags.Has(symbols.FlagStatic) {
		r.sess.Errorf(diag.ResNonStatic, n.Span(),
			"cannot access non-static %s from parent-context (super)", r.describe(mid))
		return
	}
	r.info.Refs[n] = mid
}

// Name is the Env hook for names the resolver did not visit.
func (r *resolver) Name(n ast.Node) value.Value {
	if id := r.info.Refs[n]; id.IsValid() {
		return r.read(id)
	}
	return value.Undef()
}

// Member folds `Class.member` for static constants.
func (r *resolver) Member(class uint32, name string) value.Value {
	mid := r.t.LookupMember(symbols.SymbolID(class), r.t.Intern(name), symbols.NS0)
	if !mid.IsValid() {
		return value.Undef()
	}
	m := r.t.Symbol(mid)
	if m.Kind != symbols.SymbolVar || !m.Flags.Has(symbols.FlagConst) {
		return value.Undef()
	}
	return m.Value
}
