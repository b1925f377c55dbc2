package symbols

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
)

// Validate walks internal arenas checking structural invariants. Returns nil if
// everything is consistent; otherwise aggregates all detected issues.
func (t *Table) Validate() error {
	var errs []error

	for idx := 1; idx < len(t.Scopes.data); idx++ {
		scopeID, err := toScopeID(idx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scope := &t.Scopes.data[idx]
		if scope.Kind == ScopeInvalid {
			errs = append(errs, fmt.Errorf("scope %d has invalid kind", scopeID))
		}
		if scope.Prev.IsValid() {
			if int(scope.Prev) >= len(t.Scopes.data) || scope.Prev == scopeID {
				errs = append(errs, fmt.Errorf("scope %d has invalid parent %d", scopeID, scope.Prev))
				continue
			}
			if !containsScope(t.Scopes.data[scope.Prev].Children, scopeID) {
				errs = append(errs, fmt.Errorf("scope %d parent %d missing backlink", scopeID, scope.Prev))
			}
		} else if scope.Kind != ScopeGlobal {
			errs = append(errs, fmt.Errorf("%s scope %d has no parent", scope.Kind, scopeID))
		}
		for _, child := range scope.Children {
			if int(child) >= len(t.Scopes.data) || child == scopeID {
				errs = append(errs, fmt.Errorf("scope %d has invalid child %d", scopeID, child))
				continue
			}
			if t.Scopes.data[child].Prev != scopeID {
				errs = append(errs, fmt.Errorf("scope %d child %d missing parent backlink", scopeID, child))
			}
		}
		for name, mod := range scope.Modules {
			ms := t.Scopes.Get(mod)
			switch {
			case ms == nil:
				errs = append(errs, fmt.Errorf("scope %d module map references missing scope %d", scopeID, mod))
			case ms.Kind != ScopeModule || ms.Name != name:
				errs = append(errs, fmt.Errorf("scope %d module entry %d is not module %d", scopeID, mod, name))
			case ms.Prev != scopeID:
				errs = append(errs, fmt.Errorf("module %d is mapped in scope %d but nested in %d", mod, scopeID, ms.Prev))
			}
		}

		// name index must cover owned and linked symbols exactly
		bound := make(map[SymbolID]struct{}, len(scope.Symbols)+len(scope.Links))
		for _, id := range scope.Symbols {
			bound[id] = struct{}{}
		}
		for _, id := range scope.Links {
			bound[id] = struct{}{}
		}
		covered := make(map[SymbolID]struct{}, len(bound))
		for k, id := range scope.names {
			if _, ok := bound[id]; !ok {
				errs = append(errs, fmt.Errorf("scope %d name index %d references unlisted symbol %d", scopeID, k.name, id))
				continue
			}
			sym := t.Symbols.Get(id)
			if sym == nil || sym.Name != k.name || sym.Namespace() != k.ns {
				errs = append(errs, fmt.Errorf("scope %d name index %d/%s mismatches symbol %d", scopeID, k.name, k.ns, id))
			}
			covered[id] = struct{}{}
		}
		for id := range bound {
			if _, ok := covered[id]; !ok {
				errs = append(errs, fmt.Errorf("scope %d symbol %d missing in name index", scopeID, id))
			}
		}
	}

	for idx := 1; idx < len(t.Symbols.data); idx++ {
		symbolID, err := toSymbolID(idx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		symbol := t.Symbols.data[idx]
		if symbol.Kind == SymbolInvalid {
			errs = append(errs, fmt.Errorf("symbol %d has invalid kind", symbolID))
		}
		if !symbol.Scope.IsValid() {
			// detached by Delete or moved into a branch
			continue
		}
		if int(symbol.Scope) >= len(t.Scopes.data) {
			errs = append(errs, fmt.Errorf("symbol %d has invalid scope %d", symbolID, symbol.Scope))
			continue
		}
		scope := &t.Scopes.data[symbol.Scope]
		if !containsSymbol(scope.Symbols, symbolID) && !scope.holdsAccessor(symbolID) {
			errs = append(errs, fmt.Errorf("symbol %d is missing from scope %d list", symbolID, symbol.Scope))
		}
		if symbol.Members.IsValid() && t.Scopes.Get(symbol.Members) == nil {
			errs = append(errs, fmt.Errorf("symbol %d has invalid member scope %d", symbolID, symbol.Members))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

func (s *Scope) holdsAccessor(id SymbolID) bool {
	if s.Ctor == id || s.Dtor == id {
		return true
	}
	for _, g := range s.Getters {
		if g == id {
			return true
		}
	}
	for _, g := range s.Setters {
		if g == id {
			return true
		}
	}
	return false
}

func containsScope(list []ScopeID, id ScopeID) bool {
	for _, x := range list {
		if x == id {
			return true
		}
	}
	return false
}

func containsSymbol(list []SymbolID, id SymbolID) bool {
	for _, x := range list {
		if x == id {
			return true
		}
	}
	return false
}

func toScopeID(idx int) (ScopeID, error) {
	value, err := safecast.Conv[uint32](idx)
	if err != nil {
		return NoScopeID, fmt.Errorf("scope index %d overflow: %w", idx, err)
	}
	return ScopeID(value), nil
}

func toSymbolID(idx int) (SymbolID, error) {
	value, err := safecast.Conv[uint32](idx)
	if err != nil {
		return NoSymbolID, fmt.Errorf("symbol index %d overflow: %w", idx, err)
	}
	return SymbolID(value), nil
}
