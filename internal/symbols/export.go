package symbols

import (
	"fmt"

	"phs/internal/diag"
	"phs/internal/source"
)

// Export publishes a collected unit to the global scope: public usages,
// the whole module tree (symbols are linked, ownership stays with the unit)
// and non-private top-level declarations other than variables.
func (t *Table) Export(unit ScopeID) {
	src := t.Scopes.Get(unit)
	for _, name := range src.UseOrder {
		t.exportUsage(t.Global, src.Usages[name])
	}
	for _, id := range src.Symbols {
		sym := t.Symbols.Get(id)
		if sym.Kind == SymbolVar || sym.Flags.Has(FlagPrivate) {
			continue
		}
		t.Link(t.Global, id)
	}

	type pair struct{ src, dst ScopeID }
	stack := []pair{{unit, t.Global}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, name := range t.Scopes.Get(top.src).ModOrder {
			mod := t.Scopes.Get(top.src).Modules[name]
			dup := t.Module(top.dst, name, t.Scopes.Get(mod).Span)
			t.sess.Debugf(t.Scopes.Get(mod).Span, "exporting module `%s`", t.PathString(t.ModulePath(mod)))
			for _, id := range t.Scopes.Get(mod).Symbols {
				t.Link(dup, id)
			}
			ms := t.Scopes.Get(mod)
			for _, un := range ms.UseOrder {
				t.exportUsage(dup, ms.Usages[un])
			}
			stack = append(stack, pair{mod, dup})
		}
	}
}

func (t *Table) exportUsage(dst ScopeID, id UsageID) {
	imp := t.Usages.Get(id)
	if imp == nil || !imp.Pub {
		return
	}
	sc := t.Scopes.Get(dst)
	if sc.Usages == nil {
		sc.Usages = make(map[source.StringID]UsageID)
	}
	if prv, ok := sc.Usages[imp.Item]; ok {
		if prv != id {
			diag.ReportWarning(t.sess.Reporter(), diag.SymExportConflict, imp.Span,
				fmt.Sprintf("public import `%s` conflicts with an exported import of the same name", t.Name(imp.Item))).
				WithNote(t.Usages.Get(prv).Span, "previous import was here").
				Emit()
		}
		return
	}
	sc.Usages[imp.Item] = id
	sc.UseOrder = append(sc.UseOrder, imp.Item)
	t.sess.Debugf(imp.Span, "exporting public import %s as %s", t.PathString(imp.Path), t.Name(imp.Item))
}
