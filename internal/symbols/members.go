package symbols

import (
	"fmt"

	"phs/internal/diag"
	"phs/internal/source"
)

// SetCtor records the constructor of a member scope. A second constructor
// is reported and ignored.
func (t *Table) SetCtor(members ScopeID, id SymbolID) bool {
	sc := t.Scopes.Get(members)
	if sc.Ctor.IsValid() {
		diag.ReportWarning(t.sess.Reporter(), diag.SymDuplicateCtor, t.Symbols.Get(id).Span, "duplicate constructor").
			WithNote(t.Symbols.Get(sc.Ctor).Span, "previous constructor was here").
			Emit()
		return false
	}
	sc.Ctor = id
	t.Symbols.Get(id).Scope = members
	return true
}

// SetDtor records the destructor of a member scope.
func (t *Table) SetDtor(members ScopeID, id SymbolID) bool {
	sc := t.Scopes.Get(members)
	if sc.Dtor.IsValid() {
		diag.ReportWarning(t.sess.Reporter(), diag.SymDuplicateDtor, t.Symbols.Get(id).Span, "duplicate destructor").
			WithNote(t.Symbols.Get(sc.Dtor).Span, "previous destructor was here").
			Emit()
		return false
	}
	sc.Dtor = id
	t.Symbols.Get(id).Scope = members
	return true
}

// AddGetter registers a getter; getters and setters have their own maps and
// never clash with ordinary members.
func (t *Table) AddGetter(members ScopeID, id SymbolID) bool {
	sc := t.Scopes.Get(members)
	if sc.Getters == nil {
		sc.Getters = make(map[source.StringID]SymbolID)
	}
	return t.addAccessor(sc.Getters, members, id, "getter")
}

// AddSetter registers a setter.
func (t *Table) AddSetter(members ScopeID, id SymbolID) bool {
	sc := t.Scopes.Get(members)
	if sc.Setters == nil {
		sc.Setters = make(map[source.StringID]SymbolID)
	}
	return t.addAccessor(sc.Setters, members, id, "setter")
}

func (t *Table) addAccessor(m map[source.StringID]SymbolID, members ScopeID, id SymbolID, what string) bool {
	sym := t.Symbols.Get(id)
	if prv, ok := m[sym.Name]; ok {
		diag.ReportError(t.sess.Reporter(), diag.SymDuplicateAccessor, sym.Span,
			fmt.Sprintf("duplicate %s `%s`", what, t.Name(sym.Name))).
			WithNote(t.Symbols.Get(prv).Span, fmt.Sprintf("previous %s was here", what)).
			Emit()
		return false
	}
	m[sym.Name] = id
	sym.Scope = members
	return true
}
