package symbols

import (
	"slices"

	"phs/internal/source"
)

// Module returns the sub-module name of parent, creating it on first use.
func (t *Table) Module(parent ScopeID, name source.StringID, span source.Span) ScopeID {
	if id := t.SubModule(parent, name); id.IsValid() {
		return id
	}
	id := t.Scopes.New(ScopeModule, parent, span)
	t.Scopes.Get(id).Name = name
	p := t.Scopes.Get(parent)
	if p.Modules == nil {
		p.Modules = make(map[source.StringID]ScopeID)
	}
	p.Modules[name] = id
	p.ModOrder = append(p.ModOrder, name)
	t.sess.Debugf(span, "defining module `%s`", t.PathString(t.ModulePath(id)))
	return id
}

// SubModule returns the existing sub-module name of parent.
func (t *Table) SubModule(parent ScopeID, name source.StringID) ScopeID {
	p := t.Scopes.Get(parent)
	if p == nil || p.Modules == nil {
		return NoScopeID
	}
	return p.Modules[name]
}

// ModulePath returns the absolute path of a module; empty for unit and
// global scopes.
func (t *Table) ModulePath(mod ScopeID) []source.StringID {
	var path []source.StringID
	for cur := mod; cur.IsValid(); {
		sc := t.Scopes.Get(cur)
		if sc.Kind != ScopeModule {
			break
		}
		path = append(path, sc.Name)
		cur = sc.Prev
	}
	slices.Reverse(path)
	return path
}

// ModuleOf returns the nearest enclosing module of scope, if any.
func (t *Table) ModuleOf(scope ScopeID) ScopeID {
	for cur := scope; cur.IsValid(); cur = t.Scopes.Get(cur).Prev {
		switch t.Scopes.Get(cur).Kind {
		case ScopeModule:
			return cur
		case ScopeUnit, ScopeGlobal:
			return NoScopeID
		}
	}
	return NoScopeID
}

// Descend follows path from root through nested module maps.
func (t *Table) Descend(root ScopeID, path []source.StringID) ScopeID {
	cur := root
	for _, seg := range path {
		cur = t.SubModule(cur, seg)
		if !cur.IsValid() {
			return NoScopeID
		}
	}
	return cur
}
