package symbols

import (
	"strings"

	"phs/internal/ast"
	"phs/internal/source"
	"phs/internal/value"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolFn
	SymbolVar
	SymbolClass
	SymbolTrait
	SymbolIface
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFn:
		return "fn"
	case SymbolVar:
		return "var"
	case SymbolClass:
		return "class"
	case SymbolTrait:
		return "trait"
	case SymbolIface:
		return "iface"
	default:
		return "invalid"
	}
}

// Namespace returns the namespace symbols of this kind live in.
func (k SymbolKind) Namespace() Namespace {
	switch k {
	case SymbolClass, SymbolTrait, SymbolIface:
		return NS1
	default:
		return NS0
	}
}

// SymbolFlags mirror declaration modifiers plus derived state.
type SymbolFlags uint16

const (
	FlagConst SymbolFlags = 1 << iota
	FlagFinal
	FlagGlobal
	FlagStatic
	FlagPublic
	FlagPrivate
	FlagProtected
	FlagSealed
	FlagInline
	FlagExtern
	FlagAbstract
	FlagIncomplete
	FlagParam

	FlagNone SymbolFlags = 0
)

var flagLabels = [...]string{
	"const", "final", "global", "static", "public", "private", "protected",
	"sealed", "inline", "extern", "abstract", "incomplete", "param",
}

// Strings returns a slice of textual flag labels.
func (f SymbolFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 4)
	for i, l := range flagLabels {
		if f&(1<<i) != 0 {
			labels = append(labels, l)
		}
	}
	return labels
}

func (f SymbolFlags) String() string { return strings.Join(f.Strings(), " ") }

func (f SymbolFlags) Has(x SymbolFlags) bool { return f&x != 0 }

// FlagsFromMods converts declaration modifiers into symbol flags.
func FlagsFromMods(mods ast.Modifiers) SymbolFlags {
	var f SymbolFlags
	for _, m := range mods {
		switch m.Kind {
		case ast.ModConst:
			f |= FlagConst
		case ast.ModFinal:
			f |= FlagFinal
		case ast.ModGlobal:
			f |= FlagGlobal
		case ast.ModStatic:
			f |= FlagStatic
		case ast.ModPublic:
			f |= FlagPublic
		case ast.ModPrivate:
			f |= FlagPrivate
		case ast.ModProtected:
			f |= FlagProtected
		case ast.ModSealed:
			f |= FlagSealed
		case ast.ModInline:
			f |= FlagInline
		case ast.ModExtern:
			f |= FlagExtern
		}
	}
	return f
}

// TraitUsage records `use T;` (Orig empty: every member) or one item of
// `use T { x as y; }` inside a class or trait.
type TraitUsage struct {
	Trait *ast.Name
	Span  source.Span
	Orig  source.StringID
	Dest  source.StringID
	Flags SymbolFlags
	// Symbol is the trait once resolved.
	Symbol SymbolID
}

// Symbol describes a named declaration bound in exactly one scope.
type Symbol struct {
	Name  source.StringID
	Kind  SymbolKind
	Flags SymbolFlags
	Span  source.Span
	// Scope is the owning scope; NoScopeID once detached.
	Scope ScopeID
	Decl  ast.Node

	// variables
	Value     value.Value
	Reachable bool

	// functions
	Expr bool // declared by a function expression

	// members copied from a trait keep their source
	Origin SymbolID

	// classes, traits and interfaces
	Members   ScopeID
	Super     *ast.Name
	SuperSym  SymbolID
	Ifaces    []*ast.Name
	IfaceSyms []SymbolID
	Traits    []TraitUsage
	Resolved  bool
}

func (s *Symbol) Namespace() Namespace { return s.Kind.Namespace() }

// IsType reports whether s lives in the type namespace.
func (s *Symbol) IsType() bool { return s.Kind.Namespace() == NS1 }
