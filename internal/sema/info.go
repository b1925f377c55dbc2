package sema

import (
	"phs/internal/ast"
	"phs/internal/source"
	"phs/internal/symbols"
	"phs/internal/value"
)

// Info is what resolution learned about one unit.
type Info struct {
	// Values holds the reduced value of every expression the resolver
	// evaluated. Missing entries are undef.
	Values map[ast.Node]value.Value
	// Refs maps names (and member expressions resolved statically) to
	// their symbol.
	Refs map[ast.Node]symbols.SymbolID
	// Requires lists the units this one asks for, in source order.
	Requires []Require
}

// Require is one resolved `require` target.
type Require struct {
	Path string
	Span source.Span
}

func newInfo() *Info {
	return &Info{
		Values: make(map[ast.Node]value.Value),
		Refs:   make(map[ast.Node]symbols.SymbolID),
	}
}

// Value returns the reduced value of n, undef when n was never reduced.
func (i *Info) Value(n ast.Node) value.Value {
	if v, ok := i.Values[n]; ok {
		return v
	}
	return value.Undef()
}

// Ref returns the symbol n resolved to.
func (i *Info) Ref(n ast.Node) symbols.SymbolID {
	return i.Refs[n]
}
