package symbols

import (
	"phs/internal/ast"
	"phs/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid ScopeKind = iota
	ScopeGlobal            // one per table, above every unit
	ScopeUnit              // root of one compiled file
	ScopeModule            // named module, owns sub-modules
	ScopeFn                // function-ish body and parameters
	ScopeBlock             // block, loop header
	ScopeMember            // class, trait or interface members
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeUnit:
		return "unit"
	case ScopeModule:
		return "module"
	case ScopeFn:
		return "fn"
	case ScopeBlock:
		return "block"
	case ScopeMember:
		return "member"
	default:
		return "invalid"
	}
}

// IsRoot reports whether scopes of this kind carry module and usage maps.
func (k ScopeKind) IsRoot() bool {
	return k == ScopeGlobal || k == ScopeUnit || k == ScopeModule
}

type key struct {
	name source.StringID
	ns   Namespace
}

// Scope models a lexical scope with a parent chain. Root scopes (global,
// unit, module) also own sub-modules and usages.
type Scope struct {
	Kind     ScopeKind
	Prev     ScopeID
	Span     source.Span
	Owner    ast.Node
	Children []ScopeID

	// Name is set for modules.
	Name source.StringID
	// File is set for units.
	File source.FileID

	names map[key]SymbolID
	// Symbols lists owned symbols in declaration order.
	Symbols []SymbolID
	// Links lists symbols bound here but owned elsewhere (exports).
	Links []SymbolID
	// Captured lists symbols found through Prev on behalf of this scope.
	Captured []SymbolID
	captured map[SymbolID]struct{}

	Modules  map[source.StringID]ScopeID
	ModOrder []source.StringID
	Usages   map[source.StringID]UsageID
	UseOrder []source.StringID

	// member scopes
	Ctor    SymbolID
	Dtor    SymbolID
	Getters map[source.StringID]SymbolID
	Setters map[source.StringID]SymbolID
}

func (s *Scope) capture(id SymbolID) {
	if s.captured == nil {
		s.captured = make(map[SymbolID]struct{})
	}
	if _, ok := s.captured[id]; ok {
		return
	}
	s.captured[id] = struct{}{}
	s.Captured = append(s.Captured, id)
}

func (s *Scope) local(name source.StringID, ns Namespace) SymbolID {
	if ns == NSAny {
		if id, ok := s.names[key{name, NS0}]; ok {
			return id
		}
		return s.names[key{name, NS1}]
	}
	return s.names[key{name, ns}]
}

// Len returns the number of bound names.
func (s *Scope) Len() int { return len(s.names) }
