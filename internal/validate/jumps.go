package validate

import (
	"phs/internal/ast"
	"phs/internal/diag"
	"phs/internal/source"
)

type label struct {
	name string
	span source.Span
	// break/continue may target the label only while its statement is
	// being validated
	breakable bool
	// cleared once the loop or switch holding the label is left
	reachable bool
}

type gotoRef struct {
	name     string
	span     source.Span
	resolved bool
}

// jumps is the label/goto state of one function. Loops and switches open
// a frame: labels inside are invisible to gotos outside, while unresolved
// gotos inside may still find a label declared later outside.
type jumps struct {
	labels map[string]*label
	frame  map[string]*label
	gotos  []*gotoRef
	outer  []loopFrame
}

type loopFrame struct {
	frame map[string]*label
	gotos []*gotoRef
}

func (j *jumps) reset() {
	*j = jumps{labels: make(map[string]*label), frame: make(map[string]*label)}
}

func (j *jumps) enterLoop() {
	j.outer = append(j.outer, loopFrame{frame: j.frame, gotos: j.gotos})
	j.frame = make(map[string]*label)
	j.gotos = nil
}

func (j *jumps) leaveLoop() {
	last := j.outer[len(j.outer)-1]
	j.outer = j.outer[:len(j.outer)-1]
	inner := j.gotos
	j.gotos = last.gotos
	for _, g := range inner {
		if !g.resolved {
			j.gotos = append(j.gotos, g)
		}
	}
	for _, l := range j.frame {
		l.reachable = false
	}
	j.frame = last.frame
}

func (v *validator) labelDecl(n *ast.LabelDecl) {
	name := n.ID.Name
	if prev, ok := v.jumps.labels[name]; ok {
		diag.ReportError(v.sess.Reporter(), diag.ValDuplicateLabel, n.ID.Span(), "there is already a label with name `"+name+"` in this scope").
			WithNote(prev.span, "previous label was here").
			Emit()
	}
	for _, g := range v.jumps.gotos {
		if g.name == name {
			g.resolved = true
		}
	}
	l := &label{name: name, span: n.ID.Span(), breakable: true, reachable: true}
	v.jumps.labels[name] = l
	v.jumps.frame[name] = l
	ast.Walk(v, n.Stmt)
	l.breakable = false
}

func (v *validator) gotoStmt(n *ast.GotoStmt) {
	name := n.ID.Name
	if l, ok := v.jumps.labels[name]; ok && l.reachable {
		return
	}
	v.jumps.gotos = append(v.jumps.gotos, &gotoRef{name: name, span: n.Span()})
}

// jump checks break and continue: they need an enclosing loop or switch in
// the same function, and a named target must be a label whose statement
// encloses them.
func (v *validator) jump(n ast.Node, id *ast.Ident, outside diag.Code, what string) {
	if !v.within(frameLoop) && !v.within(frameSwitch) {
		v.errorf(outside, n.Span(), "%s outside of loop/switch", what)
	}
	if id == nil {
		return
	}
	l, ok := v.jumps.labels[id.Name]
	switch {
	case !ok:
		v.errorf(diag.ValBreakUndefinedLabel, n.Span(), "can not break/continue undefined label `%s`", id.Name)
	case !l.breakable:
		diag.ReportError(v.sess.Reporter(), diag.ValBreakLabelPosition, n.Span(), "can not break/continue label `"+id.Name+"` from this position").
			WithNote(l.span, "label was defined here").
			Emit()
	}
}

// checkJumps reports the gotos of the finished function that never found
// their label.
func (v *validator) checkJumps() {
	for _, g := range v.jumps.gotos {
		if g.resolved {
			continue
		}
		l, ok := v.jumps.labels[g.name]
		if !ok {
			v.errorf(diag.ValGotoUndefined, g.span, "goto to undefined label `%s`", g.name)
			continue
		}
		b := diag.ReportError(v.sess.Reporter(), diag.ValGotoUnreachable, g.span, "goto to unreachable label `"+g.name+"`").
			WithNote(l.span, "label was defined here")
		if !v.loopHint {
			v.loopHint = true
			b = b.WithNote(g.span, "it is not possible to jump into a loop or switch statement")
		}
		b.Emit()
	}
}
