package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"phs/internal/source"
)

// Scopes stores all allocated scopes in a compact slice-based arena.
type Scopes struct {
	data []Scope
}

// NewScopes creates an arena with optional capacity hint.
func NewScopes(capacity uint32) *Scopes {
	if capacity == 0 {
		capacity = 32
	}
	return &Scopes{
		data: make([]Scope, 1, capacity+1), // index 0 reserved for NoScopeID
	}
}

// New allocates a scope under prev and returns its ID.
func (s *Scopes) New(kind ScopeKind, prev ScopeID, span source.Span) ScopeID {
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("scopes arena overflow: %w", err))
	}
	id := ScopeID(value)
	s.data = append(s.data, Scope{
		Kind:  kind,
		Prev:  prev,
		Span:  span,
		names: make(map[key]SymbolID),
	})
	if prev.IsValid() {
		if p := s.Get(prev); p != nil {
			p.Children = append(p.Children, id)
		}
	}
	return id
}

// Get returns the scope pointer or nil if ID is invalid. The pointer is
// invalidated by the next New.
func (s *Scopes) Get(id ScopeID) *Scope {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// Len reports total number of scopes excluding the sentinel.
func (s *Scopes) Len() int { return len(s.data) - 1 }

// Symbols stores declared symbols in a compact arena.
type Symbols struct {
	data []Symbol
}

// NewSymbols creates a symbol arena with optional capacity hint.
func NewSymbols(capacity uint32) *Symbols {
	if capacity == 0 {
		capacity = 64
	}
	return &Symbols{
		data: make([]Symbol, 1, capacity+1), // index 0 reserved for NoSymbolID
	}
}

// New copies sym into the arena and returns its ID.
func (s *Symbols) New(sym *Symbol) SymbolID {
	if sym == nil {
		panic("symbols.New: nil symbol")
	}
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("symbols arena overflow: %w", err))
	}
	id := SymbolID(value)
	s.data = append(s.data, *sym)
	return id
}

// Get returns a symbol pointer or nil for invalid ID.
func (s *Symbols) Get(id SymbolID) *Symbol {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// Len reports number of stored symbols excluding sentinel.
func (s *Symbols) Len() int { return len(s.data) - 1 }

// Usages stores import records.
type Usages struct {
	data []Usage
}

func NewUsages(capacity uint32) *Usages {
	if capacity == 0 {
		capacity = 16
	}
	return &Usages{data: make([]Usage, 1, capacity+1)}
}

func (u *Usages) New(use *Usage) UsageID {
	value, err := safecast.Conv[uint32](len(u.data))
	if err != nil {
		panic(fmt.Errorf("usages arena overflow: %w", err))
	}
	u.data = append(u.data, *use)
	return UsageID(value)
}

func (u *Usages) Get(id UsageID) *Usage {
	if !id.IsValid() || int(id) >= len(u.data) {
		return nil
	}
	return &u.data[id]
}

func (u *Usages) Len() int { return len(u.data) - 1 }
