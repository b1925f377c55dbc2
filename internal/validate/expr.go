package validate

import (
	"phs/internal/ast"
	"phs/internal/diag"
)

// allowDict marks n as a position where an object literal is fine: the
// direct operand of a statement, initializer, assignment or argument.
func (v *validator) allowDict(n ast.Node) {
	switch n.(type) {
	case *ast.ObjLit, *ast.ArrLit:
		v.dict[n] = true
	}
}

func (v *validator) expr(n ast.Node) ast.Visitor {
	switch n := n.(type) {
	case *ast.ExprStmt:
		for _, e := range n.Exprs {
			v.allowDict(e)
		}
	case *ast.AssignExpr:
		switch n.Left.(type) {
		case *ast.Name, *ast.Ident, *ast.MemberExpr, *ast.OffsetExpr:
		default:
			v.errorf(diag.ValInvalidAssignTarget, n.Left.Span(), "invalid assignment left-hand-side")
		}
		v.allowDict(n.Right)
	case *ast.MemberExpr:
		ast.Walk(v, n.Object)
		if n.Computed {
			ast.Walk(v, n.Member)
		}
		return nil
	case *ast.OffsetExpr:
		if _, ok := n.Object.(*ast.SelfExpr); ok {
			v.warnf(diag.ValSuspiciousSelf, n.Span(), "`self` used as offset-object might not do what you expect")
		}
	case *ast.CallExpr:
		v.call(n)
		return nil
	case *ast.NewExpr:
		for _, a := range n.Args {
			v.allowDict(argExpr(a))
		}
	case *ast.ThisExpr:
		if v.super {
			v.errorf(diag.ValThisInSuperCall, n.Span(), "access to `this` is not allowed inside a super-call")
		}
	case *ast.ObjLit:
		if !v.dict[n] {
			v.warnf(diag.ValDictInExpression, n.Span(), "dict-literals are currently not well supported inside expressions")
		}
		for _, p := range n.Pairs {
			v.allowDict(p.Arg)
		}
	case *ast.ArrLit:
		if v.dict[n] {
			for _, it := range n.Items {
				v.allowDict(it)
			}
		}
	}
	return v
}

func (v *validator) call(n *ast.CallExpr) {
	switch n.Callee.(type) {
	case *ast.SelfExpr:
		diag.ReportWarning(v.sess.Reporter(), diag.ValSuspiciousSelf, n.Span(), "`self` used as function might not do what you expect").
			WithNote(n.Span(), "did you mean `new self(...)`?").
			Emit()
	case *ast.SuperExpr:
		if !v.within(frameCtor) {
			v.errorf(diag.ValSuperCallOutside, n.Span(), "explicit super-call outside of constructor")
		}
		saved := v.super
		v.super = true
		defer func() { v.super = saved }()
	}
	ast.Walk(v, n.Callee)
	for _, a := range n.Args {
		v.allowDict(argExpr(a))
		ast.Walk(v, a)
	}
}

func argExpr(a ast.Node) ast.Node {
	switch a := a.(type) {
	case *ast.NamedArg:
		return a.Expr
	case *ast.RestArg:
		return a.Expr
	}
	return a
}
