package validate

import (
	"phs/internal/ast"
	"phs/internal/diag"
	"phs/internal/session"
	"phs/internal/source"
)

// Validate runs the contextual checks over a desugared unit. It only
// reports; the tree is left untouched.
func Validate(sess *session.Session, unit *ast.Unit) {
	if unit == nil {
		return
	}
	v := &validator{
		sess:  sess,
		stack: []frame{frameUnit},
		dict:  make(map[ast.Node]bool),
	}
	v.jumps.reset()
	ast.WalkList(v, unit.Body)
	v.checkJumps()
}

// frame is one enclosing construct on the context stack.
type frame uint8

const (
	frameUnit frame = iota
	frameClass
	frameTrait
	frameIface
	frameFn
	frameCtor
	frameDtor
	frameLoop
	frameSwitch
)

var frameNames = [...]string{
	frameUnit:   "unit",
	frameClass:  "class",
	frameTrait:  "trait",
	frameIface:  "iface",
	frameFn:     "fn",
	frameCtor:   "ctor",
	frameDtor:   "dtor",
	frameLoop:   "loop",
	frameSwitch: "switch",
}

func (f frame) String() string { return frameNames[f] }

func (f frame) isFn() bool { return f == frameFn || f == frameCtor || f == frameDtor }

type validator struct {
	sess  *session.Session
	stack []frame
	jumps jumps
	saved []jumps
	// object literals (and the arrays holding them) in statement position
	dict map[ast.Node]bool
	// inside the arguments of a super-call
	super bool
	// the loop/switch hint is attached once per unit
	loopHint bool
}

func (v *validator) top() frame { return v.stack[len(v.stack)-1] }

// within reports whether a k frame encloses the current position without a
// function boundary in between.
func (v *validator) within(k frame) bool {
	for i := len(v.stack) - 1; i >= 0; i-- {
		f := v.stack[i]
		if f == k {
			return true
		}
		if f.isFn() {
			return false
		}
	}
	return false
}

// inFn reports whether some function encloses the current position.
func (v *validator) inFn() bool {
	for _, f := range v.stack {
		if f.isFn() {
			return true
		}
	}
	return false
}

// inMembers reports whether the position is a member list of a class,
// trait or interface.
func (v *validator) inMembers() bool {
	switch v.top() {
	case frameClass, frameTrait, frameIface:
		return true
	}
	return false
}

func (v *validator) enter(f frame) {
	v.stack = append(v.stack, f)
	switch {
	case f == frameLoop || f == frameSwitch:
		v.jumps.enterLoop()
	case f.isFn():
		v.saved = append(v.saved, v.jumps)
		v.jumps.reset()
	}
}

func (v *validator) leave(f frame) {
	last := v.top()
	if last != f {
		panic("validate: leaving " + f.String() + " inside " + last.String())
	}
	v.stack = v.stack[:len(v.stack)-1]
	switch {
	case f == frameLoop || f == frameSwitch:
		v.jumps.leaveLoop()
	case f.isFn():
		v.checkJumps()
		v.jumps = v.saved[len(v.saved)-1]
		v.saved = v.saved[:len(v.saved)-1]
	}
}

func (v *validator) errorf(code diag.Code, sp source.Span, format string, args ...any) {
	v.sess.Errorf(code, sp, format, args...)
}

func (v *validator) warnf(code diag.Code, sp source.Span, format string, args ...any) {
	v.sess.Warnf(code, sp, format, args...)
}

func (v *validator) Visit(n ast.Node) ast.Visitor {
	switch n := n.(type) {
	case nil:
		return nil
	case *ast.Module:
		return v
	case *ast.NestedMods:
		v.checkMods(n.Mods, false)
		return v
	case *ast.ClassDecl:
		v.typeDecl(n, frameClass, n.Mods, n.Members)
	case *ast.TraitDecl:
		v.typeDecl(n, frameTrait, n.Mods, n.Members)
	case *ast.IfaceDecl:
		v.typeDecl(n, frameIface, n.Mods, n.Members)
	case *ast.FnDecl:
		v.fnDecl(n)
	case *ast.CtorDecl:
		v.ctorDecl(n)
	case *ast.DtorDecl:
		v.dtorDecl(n)
	case *ast.GetterDecl:
		v.checkMods(n.Mods, true)
		v.fn(frameFn, n.Params, n.Body)
	case *ast.SetterDecl:
		v.checkMods(n.Mods, true)
		v.fn(frameFn, n.Params, n.Body)
	case *ast.FnExpr:
		v.fn(frameFn, n.Params, n.Body)
	case *ast.VarDecl:
		v.varDecl(n)
		return v
	case *ast.EnumDecl:
		v.enumDecl(n)
		return v
	case *ast.UseDecl:
		v.checkMods(n.Mods, false)
	case *ast.TraitUse:
	case *ast.RequireDecl:
		v.requireDecl(n)
		return v
	case *ast.LabelDecl:
		v.labelDecl(n)
	case *ast.GotoStmt:
		v.gotoStmt(n)
	case *ast.BreakStmt:
		v.jump(n, n.ID, diag.ValBreakOutside, "break")
	case *ast.ContinueStmt:
		v.jump(n, n.ID, diag.ValContinueOutside, "continue")
	case *ast.DoStmt:
		v.loop(n.Stmt)
		ast.Walk(v, n.Expr)
	case *ast.WhileStmt:
		ast.Walk(v, n.Test)
		v.loop(n.Stmt)
	case *ast.ForStmt:
		ast.Walk(v, n.Init)
		ast.Walk(v, n.Test)
		ast.Walk(v, n.Each)
		v.loop(n.Stmt)
	case *ast.ForInStmt:
		ast.Walk(v, n.Expr)
		v.loop(n.Stmt)
	case *ast.SwitchStmt:
		ast.Walk(v, n.Test)
		v.enter(frameSwitch)
		for _, c := range n.Cases {
			ast.Walk(v, c)
		}
		v.leave(frameSwitch)
	case *ast.ReturnStmt:
		if !v.inFn() {
			v.errorf(diag.ValReturnOutside, n.Span(), "return outside of function")
		}
		v.allowDict(n.Expr)
		return v
	case *ast.YieldExpr:
		if !v.inFn() {
			v.errorf(diag.ValYieldOutside, n.Span(), "yield outside of function")
		}
		v.allowDict(n.Value)
		return v
	default:
		return v.expr(n)
	}
	return nil
}

func (v *validator) loop(body ast.Node) {
	v.enter(frameLoop)
	ast.Walk(v, body)
	v.leave(frameLoop)
}
