package symbols

// ScopeID identifies a scope in the table arena.
type ScopeID uint32

const (
	// NoScopeID marks the absence of a scope reference.
	NoScopeID ScopeID = 0
)

// IsValid reports whether the scope ID refers to an allocated scope.
func (id ScopeID) IsValid() bool { return id != NoScopeID }

// SymbolID identifies a symbol inside the table arena.
type SymbolID uint32

const (
	// NoSymbolID marks the absence of a symbol reference.
	NoSymbolID SymbolID = 0
)

// IsValid reports whether the symbol ID refers to an allocated symbol.
func (id SymbolID) IsValid() bool { return id != NoSymbolID }

// UsageID identifies an import record.
type UsageID uint32

const NoUsageID UsageID = 0

func (id UsageID) IsValid() bool { return id != NoUsageID }

// Namespace separates callables and variables from types, so a class and a
// function may share a name.
type Namespace uint8

const (
	// NS0 holds functions and variables.
	NS0 Namespace = iota
	// NS1 holds classes, traits and interfaces.
	NS1
	// NSAny searches NS0 then NS1.
	NSAny Namespace = 0xff
)

func (ns Namespace) String() string {
	switch ns {
	case NS0:
		return "ns0"
	case NS1:
		return "ns1"
	case NSAny:
		return "any"
	}
	return "invalid"
}
