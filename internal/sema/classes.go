package sema

import (
	"fmt"

	"phs/internal/ast"
	"phs/internal/diag"
	"phs/internal/source"
	"phs/internal/symbols"
	"phs/internal/value"
)

// resolveTypes resolves the classes, traits and interfaces scope owns.
func (r *resolver) resolveTypes(scope symbols.ScopeID) {
	sc := r.t.Scope(scope)
	if sc == nil {
		return
	}
	owned := append([]symbols.SymbolID(nil), sc.Symbols...)
	for _, id := range owned {
		switch r.t.Symbol(id).Kind {
		case symbols.SymbolClass:
			r.resolveClass(id)
		case symbols.SymbolTrait:
			r.resolveTrait(id)
		case symbols.SymbolIface:
			r.resolveIface(id)
		}
	}
}

// begin marks id as being resolved. False when it is done or in progress.
func (r *resolver) begin(id symbols.SymbolID) bool {
	if r.t.Symbol(id).Resolved {
		return false
	}
	if _, busy := r.resolving[id]; busy {
		return false
	}
	r.resolving[id] = struct{}{}
	return true
}

func (r *resolver) finish(id symbols.SymbolID) {
	delete(r.resolving, id)
	r.t.Symbol(id).Resolved = true
}

func (r *resolver) resolveClass(id symbols.SymbolID) {
	if !r.begin(id) {
		return
	}
	r.resolveSuper(id)
	r.resolveIfaces(id)
	r.resolveTraits(id)

	sym := r.t.Symbol(id)
	if sym.Members.IsValid() && !sym.Flags.Has(symbols.FlagExtern) {
		for _, mid := range r.t.Iter(sym.Members) {
			m := r.t.Symbol(mid)
			if m.Kind == symbols.SymbolFn && m.Flags.Has(symbols.FlagAbstract) {
				sym.Flags |= symbols.FlagAbstract
				break
			}
		}
	}
	if sym.Flags.Has(symbols.FlagAbstract) && sym.Flags.Has(symbols.FlagFinal) {
		r.sess.Errorf(diag.ResAbstractFinal, sym.Span,
			"%s cannot be abstract and final at the same time", r.describe(id))
	}
	if sym.Members.IsValid() {
		for _, mid := range r.t.Iter(sym.Members) {
			if m := r.t.Symbol(mid); m.Kind == symbols.SymbolVar {
				m.Reachable = true
			}
		}
	}
	r.checkImpls(id)
	r.finish(id)
}

func (r *resolver) resolveTrait(id symbols.SymbolID) {
	if !r.begin(id) {
		return
	}
	r.resolveTraits(id)
	r.finish(id)
}

func (r *resolver) resolveIface(id symbols.SymbolID) {
	if !r.begin(id) {
		return
	}
	r.resolveIfaces(id)
	r.finish(id)
}

func (r *resolver) resolveSuper(id symbols.SymbolID) {
	sym := r.t.Symbol(id)
	if sym.Super == nil {
		return
	}
	name := sym.Super
	sid, ok := r.lookup(sym.Scope, name, symbols.NS1)
	if !ok {
		return
	}
	if r.t.Symbol(sid).Kind != symbols.SymbolClass {
		r.sess.Errorf(diag.ResNotAClass, name.Span(),
			"super-class `%s` does not resolve to a class-symbol", name)
		return
	}
	if _, busy := r.resolving[sid]; busy || sid == id {
		r.sess.Errorf(diag.ResCyclicInherit, name.Span(),
			"cyclic inheritance: %s extends itself through `%s`", r.describe(id), name)
		return
	}
	r.resolveClass(sid)
	r.info.Refs[name] = sid
	r.t.Symbol(id).SuperSym = sid
}

func (r *resolver) resolveIfaces(id symbols.SymbolID) {
	names := r.t.Symbol(id).Ifaces
	var found []symbols.SymbolID
	for _, name := range names {
		iid, ok := r.lookup(r.t.Symbol(id).Scope, name, symbols.NS1)
		if !ok {
			continue
		}
		if r.t.Symbol(iid).Kind != symbols.SymbolIface {
			r.sess.Errorf(diag.ResNotAnIface, name.Span(),
				"implementation `%s` does not resolve to an interface", name)
			continue
		}
		if _, busy := r.resolving[iid]; busy || iid == id {
			r.sess.Errorf(diag.ResCyclicInherit, name.Span(),
				"cyclic inheritance: %s extends itself through `%s`", r.describe(id), name)
			continue
		}
		r.resolveIface(iid)
		r.info.Refs[name] = iid
		found = append(found, iid)
	}
	r.t.Symbol(id).IfaceSyms = found
}

func (r *resolver) resolveTraits(id symbols.SymbolID) {
	uses := r.t.Symbol(id).Traits
	for i := range uses {
		use := &r.t.Symbol(id).Traits[i]
		tid, ok := r.lookup(r.t.Symbol(id).Scope, use.Trait, symbols.NS1)
		if !ok {
			continue
		}
		if r.t.Symbol(tid).Kind != symbols.SymbolTrait {
			diag.ReportError(r.sess.Reporter(), diag.ResNotATrait, use.Trait.Span(),
				fmt.Sprintf("trait-usage `%s` does not resolve to a trait-symbol", use.Trait)).
				WithNote(r.t.Symbol(tid).Span, fmt.Sprintf("usage instead resolved to %s", r.describe(tid))).
				Emit()
			continue
		}
		if tid == id {
			r.sess.Errorf(diag.ResCyclicInherit, use.Trait.Span(), "%s cannot use itself", r.describe(id))
			continue
		}
		r.resolveTrait(tid)
		r.info.Refs[use.Trait] = tid
		r.t.Symbol(id).Traits[i].Symbol = tid
		r.useTrait(id, tid, r.t.Symbol(id).Traits[i])
	}
}

// useTrait copies trait members into the member scope of owner. Members
// the owner declares itself win.
func (r *resolver) useTrait(owner, trait symbols.SymbolID, use symbols.TraitUsage) {
	members := r.t.Symbol(trait).Members
	if !members.IsValid() || !r.t.Symbol(owner).Members.IsValid() {
		return
	}
	if use.Orig != source.NoStringID {
		mid := r.t.Local(members, use.Orig, symbols.NS0)
		if !mid.IsValid() {
			r.sess.Errorf(diag.ResTraitNoMember, use.Span,
				"trait `%s` has no member called `%s`", r.t.Name(r.t.Symbol(trait).Name), r.t.Name(use.Orig))
			return
		}
		r.copyMember(owner, trait, mid, use.Dest, use.Flags)
		return
	}
	list := append([]symbols.SymbolID(nil), r.t.Scope(members).Symbols...)
	for _, mid := range list {
		r.copyMember(owner, trait, mid, r.t.Symbol(mid).Name, symbols.FlagNone)
	}
}

func (r *resolver) copyMember(owner, trait, mid symbols.SymbolID, dest source.StringID, flags symbols.SymbolFlags) {
	dst := r.t.Symbol(owner).Members
	src := r.t.Symbol(mid)
	if r.t.Local(dst, dest, src.Namespace()).IsValid() {
		return
	}
	dup := *src
	dup.Name = dest
	dup.Scope = symbols.NoScopeID
	if flags != symbols.FlagNone {
		dup.Flags = flags | (src.Flags & symbols.FlagAbstract)
	}
	if !dup.Origin.IsValid() {
		dup.Origin = trait
	}
	if _, ok := r.t.Add(dst, &dup); ok {
		r.sess.Debugf(dup.Span, "copied `%s` from %s", r.t.Name(dest), r.describe(trait))
	}
}

// checkImpls reports interface methods a concrete class lacks.
func (r *resolver) checkImpls(id symbols.SymbolID) {
	sym := r.t.Symbol(id)
	if sym.Flags.Has(symbols.FlagAbstract|symbols.FlagExtern) || !sym.Members.IsValid() {
		return
	}
	seen := make(map[symbols.SymbolID]struct{})
	var walk func(iface symbols.SymbolID)
	walk = func(iface symbols.SymbolID) {
		if _, ok := seen[iface]; ok {
			return
		}
		seen[iface] = struct{}{}
		isym := r.t.Symbol(iface)
		if isym.Members.IsValid() {
			for _, mid := range r.t.Iter(isym.Members) {
				m := r.t.Symbol(mid)
				if m.Kind != symbols.SymbolFn {
					continue
				}
				impl := r.t.LookupMember(id, m.Name, symbols.NS0)
				if impl.IsValid() && !r.t.Symbol(impl).Flags.Has(symbols.FlagAbstract) {
					continue
				}
				diag.ReportError(r.sess.Reporter(), diag.ResMissingImpl, r.t.Symbol(id).Span,
					fmt.Sprintf("%s must implement method `%s` of %s", r.describe(id), r.t.Name(m.Name), r.describe(iface))).
					WithNote(m.Span, "declared here").
					Emit()
			}
		}
		for _, ext := range isym.IfaceSyms {
			walk(ext)
		}
	}
	for _, iface := range sym.IfaceSyms {
		walk(iface)
	}
}

type typeCtx uint8

const (
	typeHint typeCtx = iota
	typeNew
	typeCast
)

// hint checks a parameter, catch or `is` type.
func (r *resolver) hint(n ast.Node) {
	r.typeRef(n, typeHint)
}

func (r *resolver) castType(n ast.Node) {
	r.typeRef(n, typeCast)
}

func (r *resolver) typeRef(n ast.Node, ctx typeCtx) (symbols.SymbolID, bool) {
	switch n := n.(type) {
	case nil, *ast.TypeID:
		return symbols.NoSymbolID, true
	case *ast.Name:
		id, ok := r.lookup(r.scope, n, symbols.NS1)
		if !ok {
			return symbols.NoSymbolID, false
		}
		r.info.Refs[n] = id
		return id, r.checkType(id, n, ctx)
	case *ast.SelfExpr:
		if !r.class.IsValid() {
			r.sess.Errorf(diag.ResSelfOutside, n.Span(), "cannot use `self` as type-name outside of class or trait")
			return symbols.NoSymbolID, false
		}
		if r.t.Symbol(r.class).Kind == symbols.SymbolTrait {
			return symbols.NoSymbolID, true
		}
		return r.class, r.checkType(r.class, n, ctx)
	}
	r.sess.Errorf(diag.ResInvalidType, n.Span(), "invalid type-name")
	return symbols.NoSymbolID, false
}

func (r *resolver) checkType(id symbols.SymbolID, at ast.Node, ctx typeCtx) bool {
	kind := r.t.Symbol(id).Kind
	if kind != symbols.SymbolClass && kind != symbols.SymbolIface {
		r.sess.Errorf(diag.ResInvalidType, at.Span(), "%s is not a valid type", r.describe(id))
		return false
	}
	if kind == symbols.SymbolClass {
		r.resolveClass(id)
	}
	sym := r.t.Symbol(id)
	switch ctx {
	case typeNew:
		if kind != symbols.SymbolClass {
			r.sess.Errorf(diag.ResInvalidNewType, at.Span(), "cannot use %s in new-expression", r.describe(id))
			return false
		}
		if sym.Flags.Has(symbols.FlagAbstract) {
			r.sess.Errorf(diag.ResInvalidNewType, at.Span(), "cannot use abstract %s in new-expression", r.describe(id))
			return false
		}
		if sym.Flags.Has(symbols.FlagIncomplete) && !sym.Flags.Has(symbols.FlagExtern) {
			r.sess.Errorf(diag.ResInvalidNewType, at.Span(), "access to incomplete %s", r.describe(id))
		}
	case typeCast:
		if kind != symbols.SymbolClass {
			r.sess.Errorf(diag.ResInvalidCastType, at.Span(), "cannot use %s in cast-expression", r.describe(id))
			return false
		}
		// extern classes without members are trusted
		if sym.Flags.Has(symbols.FlagExtern) && sym.Flags.Has(symbols.FlagIncomplete) {
			return true
		}
		var from symbols.SymbolID
		if sym.Members.IsValid() {
			from = r.t.Local(sym.Members, r.t.Intern("from"), symbols.NS0)
		}
		if !from.IsValid() || r.t.Symbol(from).Flags.Has(symbols.FlagPrivate|symbols.FlagProtected) {
			r.sess.Errorf(diag.ResInvalidCastType, at.Span(),
				"%s must have a public static `from` method to be used in cast-expressions", r.describe(id))
			return false
		}
		if f := r.t.Symbol(from); !f.Flags.Has(symbols.FlagStatic) {
			diag.ReportError(r.sess.Reporter(), diag.ResInvalidCastType, f.Span,
				fmt.Sprintf("%s method `from` must be declared static to be used in cast-expressions", r.describe(id))).
				WithNote(at.Span(), "used as cast-type here").
				Emit()
			return false
		}
	}
	return true
}

// newExpr checks the class of `new Name(...)`. A variable holding a class
// name is a runtime matter.
func (r *resolver) newExpr(n *ast.NewExpr) {
	switch name := n.Name.(type) {
	case *ast.Name:
		res := r.t.LookupName(r.scope, name, symbols.NS0)
		if res.Found() && r.t.Symbol(res.Symbol).Kind == symbols.SymbolVar {
			r.expr(name)
			break
		}
		if id, ok := r.typeRef(name, typeNew); ok && id.IsValid() {
			r.red.Set(n, value.MakeNew(uint32(id)))
		}
	case *ast.SelfExpr:
		r.typeRef(name, typeNew)
	default:
		r.expr(n.Name)
	}
	for _, a := range n.Args {
		r.eval(a)
	}
}
