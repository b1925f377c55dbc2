package symbols

import (
	"phs/internal/ast"
	"phs/internal/source"
)

// LookupStatus tells callers which branch of a lookup they are on.
type LookupStatus uint8

const (
	LookupNone    LookupStatus = iota // nothing matched
	LookupFound                       // Symbol is set
	LookupPrivate                     // Symbol exists but is private to its module
	LookupError                       // import cycle or broken chain
)

func (s LookupStatus) String() string {
	switch s {
	case LookupFound:
		return "found"
	case LookupPrivate:
		return "private"
	case LookupError:
		return "error"
	default:
		return "none"
	}
}

// LookupResult is the value every lookup returns; lookups never report.
type LookupResult struct {
	Status LookupStatus
	Symbol SymbolID
	// Usage is the import the result was reached through, if any.
	Usage UsageID
	Path  []source.StringID
}

func (r LookupResult) Found() bool { return r.Status == LookupFound }

// lookup carries per-query state: the asking scope and the set of usages
// already followed.
type lookup struct {
	t      *Table
	from   ScopeID
	ns     Namespace
	active map[UsageID]struct{}
}

// LookupName resolves an AST name from scope. `self::` names are qualified
// with the path of the nearest enclosing module.
func (t *Table) LookupName(from ScopeID, n *ast.Name, ns Namespace) LookupResult {
	path := t.internAll(n.Strings())
	root := n.Root
	if n.Self {
		root = true
		if mod := t.ModuleOf(from); mod.IsValid() {
			path = append(t.ModulePath(mod), path...)
		}
	}
	return t.LookupPath(from, root, path, ns)
}

// LookupPath resolves path from scope. A single name is first an ordinary
// symbol through the scope chain; otherwise the first segment is looked up
// as a module or an import in every enclosing root scope.
func (t *Table) LookupPath(from ScopeID, root bool, path []source.StringID, ns Namespace) LookupResult {
	l := &lookup{t: t, from: from, ns: ns}
	return l.path(root, path)
}

func (l *lookup) path(root bool, path []source.StringID) LookupResult {
	if len(path) == 0 {
		return LookupResult{}
	}
	t := l.t
	start := l.from
	if root {
		start = t.UnitOf(l.from)
	}
	if len(path) == 1 {
		if id := t.Get(start, path[0], l.ns); id.IsValid() {
			return LookupResult{Status: LookupFound, Symbol: id, Path: path}
		}
	}
	base := path[0]
	seen := make(map[ScopeID]struct{})
	for cur := start; cur.IsValid(); cur = t.Scopes.Get(cur).Prev {
		sc := t.Scopes.Get(cur)
		if !sc.Kind.IsRoot() {
			continue
		}
		if _, ok := seen[cur]; ok {
			break
		}
		seen[cur] = struct{}{}
		if len(path) > 1 {
			if mod, ok := sc.Modules[base]; ok {
				return l.module(mod, path)
			}
		}
		if use, ok := sc.Usages[base]; ok {
			return l.usage(use, path[1:])
		}
	}
	return LookupResult{}
}

// module resolves path[1:] inside mod, path[0] being mod itself.
func (l *lookup) module(mod ScopeID, path []source.StringID) LookupResult {
	t := l.t
	item := path[len(path)-1]
	for i := 1; i < len(path)-1; i++ {
		next := t.SubModule(mod, path[i])
		if next.IsValid() {
			mod = next
			continue
		}
		// not a sub-module, maybe a public import
		if use, ok := t.Scopes.Get(mod).Usages[path[i]]; ok && t.Usages.Get(use).Pub {
			return l.usage(use, path[i+1:])
		}
		return LookupResult{}
	}
	if res := l.member(mod, item, path); res.Status != LookupNone {
		return res
	}
	if use, ok := t.Scopes.Get(mod).Usages[item]; ok && t.Usages.Get(use).Pub {
		return l.usage(use, nil)
	}
	return LookupResult{}
}

// member fetches item bound directly in a module (or unit/global) scope.
func (l *lookup) member(scope ScopeID, item source.StringID, path []source.StringID) LookupResult {
	id := l.t.Local(scope, item, l.ns)
	if !id.IsValid() {
		return LookupResult{}
	}
	return l.result(id, path)
}

func (l *lookup) result(id SymbolID, path []source.StringID) LookupResult {
	res := LookupResult{Status: LookupFound, Symbol: id, Path: path}
	sym := l.t.Symbols.Get(id)
	if sym.Flags.Has(FlagPrivate) && sym.Scope.IsValid() && !l.t.Within(l.from, sym.Scope) {
		res.Status = LookupPrivate
	}
	return res
}

func (l *lookup) accepts(id SymbolID) bool {
	return l.ns == NSAny || l.t.Symbols.Get(id).Namespace() == l.ns
}

func (l *lookup) withUsage(res LookupResult, id UsageID) LookupResult {
	if res.Status != LookupNone && !res.Usage.IsValid() {
		res.Usage = id
	}
	return res
}

// usage resolves rest below the import use. The import's path is absolute:
// it is matched against the unit it was declared in and then the global
// scope. Following the same usage twice in one query is a cycle.
func (l *lookup) usage(id UsageID, rest []source.StringID) LookupResult {
	t := l.t
	imp := t.Usages.Get(id)
	if l.active == nil {
		l.active = make(map[UsageID]struct{})
	}
	if _, ok := l.active[id]; ok {
		return LookupResult{Status: LookupError, Usage: id}
	}
	l.active[id] = struct{}{}
	defer delete(l.active, id)

	if len(rest) == 0 && imp.Symbol.IsValid() && l.accepts(imp.Symbol) {
		return l.withUsage(l.result(imp.Symbol, imp.Path), id)
	}

	path := make([]source.StringID, 0, len(imp.Path)+len(rest))
	if imp.Self {
		path = append(path, t.ModulePath(t.ModuleOf(imp.Scope))...)
	}
	path = append(path, imp.Path...)
	path = append(path, rest...)
	item := path[len(path)-1]

	roots := []ScopeID{t.UnitOf(imp.Scope), t.Global}
	if roots[0] == t.Global {
		roots = roots[1:]
	}
next:
	for _, root := range roots {
		cur := root
		for i := 0; i < len(path)-1; i++ {
			if sub := t.SubModule(cur, path[i]); sub.IsValid() {
				cur = sub
				continue
			}
			if pid, ok := t.Scopes.Get(cur).Usages[path[i]]; ok && pid != id && t.Usages.Get(pid).Pub {
				return l.withUsage(l.usage(pid, path[i+1:]), id)
			}
			continue next
		}
		if res := l.member(cur, item, path); res.Status != LookupNone {
			if res.Status == LookupFound && len(rest) == 0 {
				imp.Symbol = res.Symbol
			}
			return l.withUsage(res, id)
		}
		if rid, ok := t.Scopes.Get(cur).Usages[item]; ok && rid != id && t.Usages.Get(rid).Pub {
			return l.withUsage(l.usage(rid, nil), id)
		}
	}
	return LookupResult{}
}

// LookupMember finds name in the member scope of a class-like symbol, then
// along its resolved super chain.
func (t *Table) LookupMember(owner SymbolID, name source.StringID, ns Namespace) SymbolID {
	seen := make(map[SymbolID]struct{})
	for cur := owner; cur.IsValid(); {
		if _, ok := seen[cur]; ok {
			return NoSymbolID
		}
		seen[cur] = struct{}{}
		sym := t.Symbols.Get(cur)
		if sym == nil {
			return NoSymbolID
		}
		if sym.Members.IsValid() {
			if id := t.Local(sym.Members, name, ns); id.IsValid() {
				return id
			}
		}
		cur = sym.SuperSym
	}
	return NoSymbolID
}
