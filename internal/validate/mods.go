package validate

import (
	"phs/internal/ast"
	"phs/internal/diag"
)

// checkMods reports modifiers that are illegal at the current position,
// contradicting access modifiers and repeated ones. fn is set for function
// declarations, the only place inline and sealed make sense.
func (v *validator) checkMods(mods ast.Modifiers, fn bool) {
	var access *ast.Modifier
	seen := make(map[ast.ModKind]ast.Modifier, len(mods))
	for i := range mods {
		m := &mods[i]
		if m.Kind.IsAccess() && (m.Kind != ast.ModProtected || v.inMembers()) {
			switch {
			case access == nil:
				access = m
			case access.Kind != m.Kind:
				diag.ReportError(v.sess.Reporter(), diag.ValAmbiguousModifier, m.Span, "ambiguous modifier `"+m.Kind.String()+"`").
					WithNote(access.Span, "already seen modifier `"+access.Kind.String()+"` here").
					Emit()
			}
		}
		if !v.legal(m.Kind, fn) {
			v.errorf(diag.ValIllegalModifier, m.Span, "illegal modifier `%s`", m.Kind)
			v.sess.Debugf(m.Span, "context stack = %v", v.stack)
		}
		if prev, ok := seen[m.Kind]; ok {
			diag.ReportWarning(v.sess.Reporter(), diag.ValDuplicateModifier, m.Span, "duplicate modifier `"+m.Kind.String()+"`").
				WithNote(prev.Span, "previous modifier was here").
				Emit()
			continue
		}
		seen[m.Kind] = *m
	}
}

func (v *validator) legal(k ast.ModKind, fn bool) bool {
	switch k {
	case ast.ModStatic:
		return v.top().isFn() || v.inMembers()
	case ast.ModProtected:
		return v.inMembers()
	case ast.ModPublic, ast.ModPrivate:
		return v.top() == frameUnit || v.inMembers()
	case ast.ModExtern:
		return !v.inMembers()
	case ast.ModGlobal:
		return v.top() == frameUnit || v.top().isFn()
	case ast.ModInline, ast.ModSealed:
		return fn
	case ast.ModFinal, ast.ModConst:
		return true
	}
	panic("validate: unknown modifier " + k.String())
}

func (v *validator) uselessConst(mods ast.Modifiers, hint string) {
	m, ok := mods.Find(ast.ModConst)
	if !ok {
		return
	}
	b := diag.ReportInfo(v.sess.Reporter(), diag.ValUselessModifier, m.Span, "`const` modifier has no effect here")
	if hint != "" {
		b = b.WithNote(m.Span, hint)
	}
	b.Emit()
}

// private reports whether mods leave a member private; members without an
// access modifier are private.
func private(mods ast.Modifiers) bool {
	for _, m := range mods {
		switch m.Kind {
		case ast.ModPrivate:
			return true
		case ast.ModPublic, ast.ModProtected:
			return false
		}
	}
	return true
}
