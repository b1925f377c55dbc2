package sema

import (
	"slices"
	"strings"

	"phs/internal/ast"
	"phs/internal/diag"
	"phs/internal/symbols"
	"phs/internal/value"
)

// Engine reduces a magic constant in the current context. Inside a trait
// __CLASS__ and __METHOD__ stay undef without a warning: they bind to the
// class using the trait.
func (r *resolver) Engine(n *ast.EngineConst) value.Value {
	switch n.Const {
	case ast.EngineLine:
		file := n.Span().File
		if !r.sess.Files.Has(file) {
			return value.Undef()
		}
		start, _ := r.sess.Files.Resolve(n.Span())
		return value.MakeInt(int64(start.Line))
	case ast.EngineFile:
		if !r.sess.Files.Has(r.file) {
			return value.Undef()
		}
		return value.MakeString(r.sess.Files.Get(r.file).Path)
	case ast.EngineDir:
		if !r.sess.Files.Has(r.file) {
			return value.Undef()
		}
		return value.MakeString(r.sess.Files.Dir(r.file))
	case ast.EngineClass:
		if !r.class.IsValid() {
			return r.undefinedHere(n)
		}
		if r.t.Symbol(r.class).Kind == symbols.SymbolTrait {
			return value.Undef()
		}
		return value.MakeString(r.symPath(r.class))
	case ast.EngineMethod:
		if r.fn == nil || !r.class.IsValid() {
			return r.undefinedHere(n)
		}
		if r.t.Symbol(r.class).Kind == symbols.SymbolTrait {
			return value.Undef()
		}
		return value.MakeString(r.symPath(r.class) + "." + r.fnPath())
	case ast.EngineFn:
		if r.fn == nil {
			return r.undefinedHere(n)
		}
		path := r.fnPath()
		if !r.class.IsValid() {
			if mod := r.t.ModuleOf(r.scope); mod.IsValid() {
				path = r.t.PathString(r.t.ModulePath(mod)) + "::" + path
			}
		}
		return value.MakeString(path)
	}
	return value.Undef()
}

func (r *resolver) undefinedHere(n *ast.EngineConst) value.Value {
	r.sess.Warnf(diag.RedEngineConst, n.Span(), "`%s` is not defined here", n.Const)
	return value.Undef()
}

// symPath is the absolute name of a symbol: `a::b::Name`.
func (r *resolver) symPath(id symbols.SymbolID) string {
	sym := r.t.Symbol(id)
	name := r.t.Name(sym.Name)
	mod := r.t.ModuleOf(sym.Scope)
	if !mod.IsValid() {
		return name
	}
	return r.t.PathString(r.t.ModulePath(mod)) + "::" + name
}

// fnPath joins the names of the functions being resolved, outermost first.
func (r *resolver) fnPath() string {
	var names []string
	for f := r.fn; f != nil; f = f.prev {
		names = append(names, f.name)
	}
	slices.Reverse(names)
	return strings.Join(names, "/")
}
