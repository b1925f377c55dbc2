package ast

import (
	"strings"

	"phs/internal/source"
)

// ModKind is a declaration modifier keyword.
type ModKind uint8

const (
	ModInvalid ModKind = iota
	ModConst
	ModFinal
	ModGlobal
	ModStatic
	ModPublic
	ModPrivate
	ModProtected
	ModSealed
	ModInline
	ModExtern
)

var modNames = [...]string{
	ModInvalid:   "<invalid>",
	ModConst:     "const",
	ModFinal:     "final",
	ModGlobal:    "global",
	ModStatic:    "static",
	ModPublic:    "public",
	ModPrivate:   "private",
	ModProtected: "protected",
	ModSealed:    "sealed",
	ModInline:    "inline",
	ModExtern:    "extern",
}

func (m ModKind) String() string {
	if int(m) < len(modNames) {
		return modNames[m]
	}
	return "<invalid>"
}

// IsAccess reports whether m is one of public/private/protected.
func (m ModKind) IsAccess() bool {
	return m == ModPublic || m == ModPrivate || m == ModProtected
}

// ParseModKind maps a keyword back to its ModKind.
func ParseModKind(s string) (ModKind, bool) {
	for i, name := range modNames {
		if i > 0 && name == s {
			return ModKind(i), true
		}
	}
	return ModInvalid, false
}

type Modifier struct {
	Kind ModKind
	Span source.Span
}

// Modifiers is the modifier list attached to a declaration, in source order.
type Modifiers []Modifier

// Has reports whether k occurs in the list.
func (ms Modifiers) Has(k ModKind) bool {
	for _, m := range ms {
		if m.Kind == k {
			return true
		}
	}
	return false
}

// Find returns the first modifier of kind k.
func (ms Modifiers) Find(k ModKind) (Modifier, bool) {
	for _, m := range ms {
		if m.Kind == k {
			return m, true
		}
	}
	return Modifier{}, false
}

func (ms Modifiers) String() string {
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = m.Kind.String()
	}
	return strings.Join(parts, " ")
}

// MergeMods prepends the modifiers of an enclosing group to a member's own.
// Outer modifiers come first and win: a member modifier repeating a kind
// already present is dropped and returned in dups. Contradicting access
// modifiers are kept as they are.
func MergeMods(outer, inner Modifiers) (merged Modifiers, dups []Modifier) {
	merged = make(Modifiers, 0, len(outer)+len(inner))
	for _, list := range [...]Modifiers{outer, inner} {
		for _, m := range list {
			if merged.Has(m.Kind) {
				dups = append(dups, m)
				continue
			}
			merged = append(merged, m)
		}
	}
	return merged, dups
}
