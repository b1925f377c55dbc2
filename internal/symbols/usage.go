package symbols

import (
	"fmt"
	"strings"

	"phs/internal/ast"
	"phs/internal/diag"
	"phs/internal/source"
)

// Usage is one leaf import. Path is absolute and alias-free: it ends with
// Orig, the imported name, while Item is the local name (alias or Orig).
type Usage struct {
	Span source.Span
	Pub  bool
	// Self marks `use self::...`, relative to the declaring module.
	Self bool
	Item source.StringID
	Orig source.StringID
	Path []source.StringID
	// Scope is the root scope the usage was declared in.
	Scope  ScopeID
	Node   ast.Node
	Symbol SymbolID
}

// UsageGroup is the private lookup map of one `a::{...}` unpack group.
type UsageGroup map[source.StringID]UsageID

// NewUsage builds the usage for name (optionally aliased) below base. A base
// contributes its expanded path, so no alias survives construction.
func (t *Table) NewUsage(scope ScopeID, pub bool, name *ast.Name, base *Usage, alias *ast.Ident) *Usage {
	narr := t.internAll(name.Strings())
	if base != nil && base.Orig != base.Item && len(narr) > 0 {
		narr[0] = base.Orig
	}
	u := &Usage{
		Span:  name.Span(),
		Pub:   pub,
		Self:  name.Self,
		Scope: scope,
		Node:  name,
	}
	if base != nil {
		u.Self = u.Self || base.Self
	}
	if alias != nil {
		u.Span = alias.Span()
	}
	if len(narr) == 0 {
		return u
	}
	u.Orig = narr[len(narr)-1]
	narr = narr[:len(narr)-1]
	u.Item = u.Orig
	if alias != nil {
		u.Item = t.Intern(alias.Name)
	}
	if base != nil && len(base.Path) > 0 {
		u.Path = append(u.Path, base.Path[:len(base.Path)-1]...)
	}
	u.Path = append(u.Path, narr...)
	u.Path = append(u.Path, u.Orig)
	return u
}

// NewGroupBase builds the base usage of an unpack group; its path keeps the
// group name twice so leaves can pop one copy.
func (t *Table) NewGroupBase(scope ScopeID, pub bool, name *ast.Name, base *Usage) *Usage {
	u := t.NewUsage(scope, pub, name, base, nil)
	u.Path = append(u.Path, u.Orig)
	return u
}

// AddUsage registers u in the usage map of scope. A second import of the
// same local name is an error pointing at the first one.
func (t *Table) AddUsage(scope ScopeID, u *Usage) (UsageID, bool) {
	sc := t.Scopes.Get(scope)
	if sc.Usages == nil {
		sc.Usages = make(map[source.StringID]UsageID)
	}
	if prv, ok := sc.Usages[u.Item]; ok {
		diag.ReportError(t.sess.Reporter(), diag.SymDuplicateImport, u.Span,
			fmt.Sprintf("duplicate import of a symbol named `%s`", t.Name(u.Item))).
			WithNote(t.Usages.Get(prv).Span, "previous import was here").
			Emit()
		return NoUsageID, false
	}
	u.Scope = scope
	id := t.Usages.New(u)
	sc.Usages[u.Item] = id
	sc.UseOrder = append(sc.UseOrder, u.Item)
	t.sess.Debugf(u.Span, "adding import %s (%s)", t.Name(u.Item), t.PathString(u.Path))
	return id, true
}

// PathString renders interned segments as `a::b::c`.
func (t *Table) PathString(path []source.StringID) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = t.Name(p)
	}
	return strings.Join(parts, "::")
}

func (t *Table) internAll(names []string) []source.StringID {
	out := make([]source.StringID, len(names))
	for i, n := range names {
		out[i] = t.Intern(n)
	}
	return out
}
