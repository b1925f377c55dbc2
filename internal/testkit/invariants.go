package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"phs/internal/ast"
	"phs/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a unit:
// 1) the unit span is non-empty and, when sf is given, within its content
// 2) every node span is non-empty, in the unit's file and inside the unit
// 3) every modifier span is inside the unit
// Desugared nodes reuse spans of the construct they replace, so they must
// hold after every pass too.
func CheckSpanInvariants(unit *ast.Unit, sf *source.File) error {
	if unit == nil {
		return fmt.Errorf("nil unit")
	}
	root := unit.Span()
	if root.End <= root.Start {
		return fmt.Errorf("unit span is empty: %v", root)
	}
	if sf != nil {
		if root.File != sf.ID {
			return fmt.Errorf("unit span points to different file id: got=%d want=%d", root.File, sf.ID)
		}
		lenContent, err := safecast.Conv[uint32](len(sf.Content))
		if err != nil {
			return fmt.Errorf("len content overflow: %w", err)
		}
		if root.End > lenContent {
			return fmt.Errorf("unit span end beyond content: %d > %d", root.End, lenContent)
		}
	}

	var err error
	ast.Inspect(unit, func(n ast.Node) bool {
		if n == nil || err != nil {
			return false
		}
		sp := n.Span()
		switch {
		case sp.End <= sp.Start:
			err = fmt.Errorf("empty %s span: %v", n.Kind(), sp)
		case sp.File != root.File:
			err = fmt.Errorf("%s span file mismatch: got=%d want=%d", n.Kind(), sp.File, root.File)
		case !root.Contains(sp):
			err = fmt.Errorf("%s span %v is outside unit span %v", n.Kind(), sp, root)
		}
		if mods := ast.ModsOf(n); mods != nil && err == nil {
			for _, m := range *mods {
				if !root.Contains(m.Span) {
					err = fmt.Errorf("modifier %s span %v is outside unit span %v", m.Kind, m.Span, root)
					break
				}
			}
		}
		return err == nil
	})
	return err
}

// CountKinds tallies node kinds under n.
func CountKinds(n ast.Node) map[ast.Kind]int {
	out := make(map[ast.Kind]int)
	ast.Inspect(n, func(x ast.Node) bool {
		if x != nil {
			out[x.Kind()]++
		}
		return true
	})
	return out
}
