package symbols

import (
	"fmt"

	"phs/internal/diag"
	"phs/internal/source"
	"phs/internal/value"
)

// Branch overlays a scope for the lifetime of one block. Declarations made
// through the branch and copies of parent symbols read through it stay in
// the branch; the parent is never written except to drop a placeholder the
// branch completed.
type Branch struct {
	t      *Table
	orig   ScopeID
	local  map[key]*Symbol
	origin map[key]SymbolID
	order  []key
}

// NewBranch opens an overlay over orig.
func NewBranch(t *Table, orig ScopeID) *Branch {
	return &Branch{
		t:      t,
		orig:   orig,
		local:  make(map[key]*Symbol),
		origin: make(map[key]SymbolID),
	}
}

// Orig returns the overlaid scope.
func (b *Branch) Orig() ScopeID { return b.orig }

// Add declares sym in the branch. The parent's conflict rules apply; a
// completed placeholder is removed from the parent and lives on here.
func (b *Branch) Add(sym *Symbol) bool {
	k := key{sym.Name, sym.Namespace()}
	if prv, ok := b.local[k]; ok && !b.origin[k].IsValid() {
		diag.ReportError(b.t.sess.Reporter(), diag.SymRedefinition, sym.Span,
			fmt.Sprintf("redefinition of symbol `%s`", b.t.Name(sym.Name))).
			WithNote(prv.Span, "previous symbol was here").
			Emit()
		return false
	}
	action, prvID := b.t.check(b.orig, sym)
	switch action {
	case addFail:
		return false
	case addKeep:
		return true
	case addMerge:
		prv := b.t.Symbols.Get(prvID)
		merged := *sym
		merged.Flags = (sym.Flags | prv.Flags) &^ FlagIncomplete
		merged.Scope = NoScopeID
		b.t.Delete(prv.Scope, prv.Name, prv.Namespace())
		b.store(k, &merged, NoSymbolID)
		return true
	}
	cp := *sym
	cp.Scope = NoScopeID
	b.store(k, &cp, NoSymbolID)
	b.t.sess.Debugf(sym.Span, "adding branch symbol `%s`", b.t.Name(sym.Name))
	return true
}

func (b *Branch) store(k key, sym *Symbol, origin SymbolID) {
	if _, ok := b.local[k]; !ok {
		b.order = append(b.order, k)
	}
	b.local[k] = sym
	b.origin[k] = origin
}

// Get returns the branch's view of name: a branch declaration, or a copy of
// the parent's symbol made on first touch. Nil when name is unbound.
func (b *Branch) Get(name source.StringID, ns Namespace) *Symbol {
	if sym := b.Local(name, ns); sym != nil {
		return sym
	}
	id := b.t.Get(b.orig, name, ns)
	if !id.IsValid() {
		return nil
	}
	return b.Touch(id)
}

// Local returns only what the branch holds itself.
func (b *Branch) Local(name source.StringID, ns Namespace) *Symbol {
	if ns == NSAny {
		if sym := b.local[key{name, NS0}]; sym != nil {
			return sym
		}
		return b.local[key{name, NS1}]
	}
	return b.local[key{name, ns}]
}

// Touch returns the branch copy of a parent symbol, copying it on first use.
func (b *Branch) Touch(id SymbolID) *Symbol {
	src := b.t.Symbols.Get(id)
	if src == nil {
		return nil
	}
	k := key{src.Name, src.Namespace()}
	if sym, ok := b.local[k]; ok && b.origin[k] == id {
		return sym
	}
	cp := *src
	b.store(k, &cp, id)
	return &cp
}

// Copy returns the branch copy of a parent symbol, nil while untouched.
func (b *Branch) Copy(id SymbolID) *Symbol {
	src := b.t.Symbols.Get(id)
	if src == nil {
		return nil
	}
	k := key{src.Name, src.Namespace()}
	if b.origin[k] != id {
		return nil
	}
	return b.local[k]
}

// Touched lists the parent symbols copied into the branch, in touch order.
func (b *Branch) Touched() []SymbolID {
	var out []SymbolID
	for _, k := range b.order {
		if id := b.origin[k]; id.IsValid() {
			out = append(out, id)
		}
	}
	return out
}

// Changed lists touched parent symbols whose branch copy holds a different
// value than the parent.
func (b *Branch) Changed() []SymbolID {
	var out []SymbolID
	for _, k := range b.order {
		id := b.origin[k]
		if !id.IsValid() {
			continue
		}
		a, o := b.local[k].Value, b.t.Symbols.Get(id).Value
		if a.Kind() == o.Kind() && !a.IsConst() {
			continue
		}
		if !value.Equal(a, o) {
			out = append(out, id)
		}
	}
	return out
}
