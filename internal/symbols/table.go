package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"phs/internal/ast"
	"phs/internal/diag"
	"phs/internal/session"
	"phs/internal/source"
)

// Hints provide optional capacity suggestions for the table arenas.
type Hints struct{ Scopes, Symbols, Usages uint }

// Table aggregates the arenas of one compilation session. The global scope
// is shared by every unit collected into it.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	Usages  *Usages
	Strings *source.Interner
	Global  ScopeID
	Units   []ScopeID

	sess    *session.Session
	scopeOf map[ast.Node]ScopeID
	symOf   map[ast.Node]SymbolID
}

// NewTable builds a table with the builtin prelude installed in its global
// scope.
func NewTable(sess *session.Session, h Hints) *Table {
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	symCap, err := safecast.Conv[uint32](h.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	useCap, err := safecast.Conv[uint32](h.Usages)
	if err != nil {
		panic(fmt.Errorf("usage capacity overflow: %w", err))
	}
	t := &Table{
		Scopes:  NewScopes(scopeCap),
		Symbols: NewSymbols(symCap),
		Usages:  NewUsages(useCap),
		Strings: sess.Strings,
		sess:    sess,
		scopeOf: make(map[ast.Node]ScopeID),
		symOf:   make(map[ast.Node]SymbolID),
	}
	t.Global = t.Scopes.New(ScopeGlobal, NoScopeID, source.Span{})
	t.installPrelude()
	return t
}

// Session returns the session diagnostics are reported to.
func (t *Table) Session() *session.Session { return t.sess }

// NewUnit creates the root scope of one compiled file below Global.
func (t *Table) NewUnit(file source.FileID, owner ast.Node) ScopeID {
	var sp source.Span
	if owner != nil {
		sp = owner.Span()
	}
	id := t.Scopes.New(ScopeUnit, t.Global, sp)
	sc := t.Scopes.Get(id)
	sc.File = file
	sc.Owner = owner
	t.Units = append(t.Units, id)
	if owner != nil {
		t.scopeOf[owner] = id
	}
	return id
}

// NewScope opens a lexical scope under prev and binds it to owner.
func (t *Table) NewScope(kind ScopeKind, prev ScopeID, owner ast.Node) ScopeID {
	var sp source.Span
	if owner != nil {
		sp = owner.Span()
	}
	id := t.Scopes.New(kind, prev, sp)
	t.Scopes.Get(id).Owner = owner
	if owner != nil {
		t.scopeOf[owner] = id
	}
	return id
}

// ScopeOf returns the scope a node opened during collection.
func (t *Table) ScopeOf(n ast.Node) ScopeID { return t.scopeOf[n] }

// BindScope records that n opened (or switched to) scope id.
func (t *Table) BindScope(n ast.Node, id ScopeID) { t.scopeOf[n] = id }

// SymbolOf returns the symbol a declaration node introduced.
func (t *Table) SymbolOf(n ast.Node) SymbolID { return t.symOf[n] }

// BindSymbol records the symbol declared by n.
func (t *Table) BindSymbol(n ast.Node, id SymbolID) { t.symOf[n] = id }

// Scope is a shorthand for Scopes.Get.
func (t *Table) Scope(id ScopeID) *Scope { return t.Scopes.Get(id) }

// Symbol is a shorthand for Symbols.Get.
func (t *Table) Symbol(id SymbolID) *Symbol { return t.Symbols.Get(id) }

// Usage is a shorthand for Usages.Get.
func (t *Table) Usage(id UsageID) *Usage { return t.Usages.Get(id) }

// Intern interns s in the session string table.
func (t *Table) Intern(s string) source.StringID { return t.Strings.Intern(s) }

// Name returns the text of an interned name.
func (t *Table) Name(id source.StringID) string { return t.Strings.MustLookup(id) }

// UnitOf walks up from id to the nearest unit scope; Global when id is
// not below any unit.
func (t *Table) UnitOf(id ScopeID) ScopeID {
	for cur := id; cur.IsValid(); cur = t.Scopes.Get(cur).Prev {
		if t.Scopes.Get(cur).Kind == ScopeUnit {
			return cur
		}
	}
	return t.Global
}

// RootOf returns the nearest root scope (module, unit or global).
func (t *Table) RootOf(id ScopeID) ScopeID {
	for cur := id; cur.IsValid(); cur = t.Scopes.Get(cur).Prev {
		if t.Scopes.Get(cur).Kind.IsRoot() {
			return cur
		}
	}
	return t.Global
}

// Within reports whether scope is anc or lexically nested in it.
func (t *Table) Within(scope, anc ScopeID) bool {
	for cur := scope; cur.IsValid(); cur = t.Scopes.Get(cur).Prev {
		if cur == anc {
			return true
		}
	}
	return false
}

// Local looks name up in scope only.
func (t *Table) Local(scope ScopeID, name source.StringID, ns Namespace) SymbolID {
	sc := t.Scopes.Get(scope)
	if sc == nil {
		return NoSymbolID
	}
	return sc.local(name, ns)
}

// Get looks name up in scope, then along Prev. A symbol found through Prev
// is recorded as captured by every scope the search passed.
func (t *Table) Get(scope ScopeID, name source.StringID, ns Namespace) SymbolID {
	var passed []ScopeID
	for cur := scope; cur.IsValid(); cur = t.Scopes.Get(cur).Prev {
		sc := t.Scopes.Get(cur)
		if id := sc.local(name, ns); id.IsValid() {
			for _, p := range passed {
				t.Scopes.Get(p).capture(id)
			}
			return id
		}
		passed = append(passed, cur)
	}
	return NoSymbolID
}

// addAction is the outcome of the conflict check.
type addAction uint8

const (
	addFail   addAction = iota
	addInsert           // bind as a new entry
	addMerge            // complete the incomplete symbol in place
	addKeep             // both incomplete: nothing to do
)

// check runs the conflict rules for binding sym into scope. Failures are
// reported; no state is changed.
func (t *Table) check(scope ScopeID, sym *Symbol) (addAction, SymbolID) {
	prvID := t.Get(scope, sym.Name, sym.Namespace())
	prv := t.Symbols.Get(prvID)
	if prv == nil {
		return addInsert, NoSymbolID
	}
	name := t.Name(sym.Name)
	if prv.Flags.Has(FlagIncomplete) {
		if sym.Kind != prv.Kind {
			diag.ReportError(t.sess.Reporter(), diag.SymRefinementKind, sym.Span, "refinement type mismatch").
				WithNote(prv.Span, "incomplete declaration was here").
				Emit()
			return addFail, prvID
		}
		if sym.Flags.Has(FlagIncomplete) {
			return addKeep, prvID
		}
		if sym.Flags != FlagNone && sym.Flags != prv.Flags&^FlagIncomplete {
			diag.ReportError(t.sess.Reporter(), diag.SymRefinementMods, sym.Span, "refinement modifier(s) mismatch").
				WithNote(prv.Span, "incomplete declaration was here").
				Emit()
			return addFail, prvID
		}
		return addMerge, prvID
	}
	if prv.Flags.Has(FlagFinal) {
		diag.ReportError(t.sess.Reporter(), diag.SymFinalOverride, sym.Span, fmt.Sprintf("override of final symbol `%s`", name)).
			WithNote(prv.Span, "previous symbol was here").
			Emit()
		return addFail, prvID
	}
	if prv.Scope == scope || t.Scopes.Get(scope).names[key{sym.Name, sym.Namespace()}] == prvID {
		diag.ReportError(t.sess.Reporter(), diag.SymRedefinition, sym.Span, fmt.Sprintf("redefinition of symbol `%s`", name)).
			WithNote(prv.Span, "previous symbol was here").
			Emit()
		return addFail, prvID
	}
	return addInsert, prvID
}

// Add binds sym into scope following the conflict rules: completing an
// incomplete declaration, protecting final symbols, rejecting same-scope
// redefinition, otherwise shadowing. On success it returns the ID the name
// is bound to; a completed forward declaration keeps its original ID.
func (t *Table) Add(scope ScopeID, sym *Symbol) (SymbolID, bool) {
	action, prvID := t.check(scope, sym)
	switch action {
	case addFail:
		return NoSymbolID, false
	case addKeep:
		t.sess.Debugf(sym.Span, "keeping incomplete symbol `%s`", t.Name(sym.Name))
		return prvID, true
	case addMerge:
		prv := t.Symbols.Get(prvID)
		merged := *sym
		merged.Flags = (sym.Flags | prv.Flags) &^ FlagIncomplete
		merged.Scope = prv.Scope
		*prv = merged
		t.sess.Debugf(sym.Span, "completing symbol `%s`", t.Name(sym.Name))
		return prvID, true
	}
	sym.Scope = scope
	id := t.Symbols.New(sym)
	t.bind(scope, id)
	t.sess.Debugf(sym.Span, "adding symbol `%s`", t.Name(sym.Name))
	return id, true
}

func (t *Table) bind(scope ScopeID, id SymbolID) {
	sc := t.Scopes.Get(scope)
	sym := t.Symbols.Get(id)
	sc.names[key{sym.Name, sym.Namespace()}] = id
	sc.Symbols = append(sc.Symbols, id)
}

// Link binds an existing symbol into scope without moving ownership. A
// different symbol already bound under the name wins and the clash is
// reported as a warning; linking the same symbol twice is a no-op.
func (t *Table) Link(scope ScopeID, id SymbolID) bool {
	sym := t.Symbols.Get(id)
	if sym == nil {
		return false
	}
	sc := t.Scopes.Get(scope)
	k := key{sym.Name, sym.Namespace()}
	if prv, ok := sc.names[k]; ok {
		if prv == id {
			return true
		}
		diag.ReportWarning(t.sess.Reporter(), diag.SymExportConflict, sym.Span,
			fmt.Sprintf("conflicting export of symbol `%s`", t.Name(sym.Name))).
			WithNote(t.Symbols.Get(prv).Span, "previous symbol was here").
			Emit()
		return false
	}
	sc.names[k] = id
	sc.Links = append(sc.Links, id)
	return true
}

// Put binds id into scope unconditionally, re-homing the symbol. The
// previous binding of the name, if any, is detached and returned.
func (t *Table) Put(scope ScopeID, id SymbolID) SymbolID {
	sym := t.Symbols.Get(id)
	if sym == nil {
		return NoSymbolID
	}
	if old := t.Scopes.Get(sym.Scope); old != nil && sym.Scope != scope {
		k := key{sym.Name, sym.Namespace()}
		if old.names[k] == id {
			delete(old.names, k)
		}
		old.Symbols = removeID(old.Symbols, id)
	}
	sc := t.Scopes.Get(scope)
	k := key{sym.Name, sym.Namespace()}
	prev := sc.names[k]
	if prev == id {
		sym.Scope = scope
		return NoSymbolID
	}
	if p := t.Symbols.Get(prev); p != nil {
		sc.Symbols = removeID(sc.Symbols, prev)
		sc.Links = removeID(sc.Links, prev)
		if p.Scope == scope {
			p.Scope = NoScopeID
		}
	}
	sym.Scope = scope
	t.bind(scope, id)
	return prev
}

// Delete unbinds name from scope and detaches the symbol it named.
func (t *Table) Delete(scope ScopeID, name source.StringID, ns Namespace) SymbolID {
	sc := t.Scopes.Get(scope)
	id := sc.local(name, ns)
	sym := t.Symbols.Get(id)
	if sym == nil {
		return NoSymbolID
	}
	delete(sc.names, key{name, sym.Namespace()})
	sc.Symbols = removeID(sc.Symbols, id)
	sc.Links = removeID(sc.Links, id)
	if sym.Scope == scope {
		sym.Scope = NoScopeID
	}
	return id
}

func removeID(list []SymbolID, id SymbolID) []SymbolID {
	for i, x := range list {
		if x == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// Iter returns the symbols bound in scope, owned first then linked.
func (t *Table) Iter(scope ScopeID) []SymbolID {
	sc := t.Scopes.Get(scope)
	out := make([]SymbolID, 0, len(sc.Symbols)+len(sc.Links))
	out = append(out, sc.Symbols...)
	return append(out, sc.Links...)
}
