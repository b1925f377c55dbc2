package ast

import (
	"reflect"

	"phs/internal/source"
)

// Node is implemented by every AST variant. The unexported method closes
// the set to this package.
type Node interface {
	Span() source.Span
	Kind() Kind
	node()
}

// Base carries the location every node has. Desugared nodes get the span
// of the construct they replace.
type Base struct {
	Loc source.Span
}

func (b *Base) Span() source.Span { return b.Loc }
func (b *Base) node()             {}

// SetSpan overwrites the location; used by Rebase and synthesized nodes.
func (b *Base) SetSpan(sp source.Span) { b.Loc = sp }

// Expr marks expression nodes. Nothing enforces it beyond documentation;
// fields typed Node may hold any expression.
type Expr = Node

// Stmt marks statement and declaration nodes.
type Stmt = Node

// IsNil reports whether n is a nil interface or a typed nil pointer, so
// optional fields like *Ident can be passed around as Node safely.
func IsNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
