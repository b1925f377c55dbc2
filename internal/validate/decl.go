package validate

import (
	"phs/internal/ast"
	"phs/internal/diag"
)

func (v *validator) typeDecl(n ast.Node, f frame, mods ast.Modifiers, members []ast.Node) {
	v.checkMods(mods, false)
	v.enter(f)
	v.uselessConst(mods, "")
	if mods.Has(ast.ModExtern) {
		v.checkExtern(f, members)
	} else {
		ast.WalkList(v, members)
	}
	v.leave(f)
}

// checkExtern enforces the shape of extern classes, traits and interfaces:
// no traits, only bodiless functions.
func (v *validator) checkExtern(f frame, members []ast.Node) {
	stack := [][]ast.Node{members}
	reportedTraits := false
	for len(stack) > 0 {
		list := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, m := range list {
			var body ast.Node
			var mods ast.Modifiers
			switch m := m.(type) {
			case *ast.NestedMods:
				stack = append(stack, m.Members)
				continue
			case *ast.TraitUse:
				if f != frameIface && !reportedTraits {
					reportedTraits = true
					v.errorf(diag.ValExternTraits, m.Span(), "extern class/trait must not have traits")
				}
				continue
			case *ast.FnDecl:
				body, mods = m.Body, m.Mods
			case *ast.CtorDecl:
				body, mods = m.Body, m.Mods
			case *ast.DtorDecl:
				body, mods = m.Body, m.Mods
			default:
				v.errorf(diag.ValExternMember, m.Span(), "invalid symbol in extern %s", f)
				continue
			}
			if em, ok := mods.Find(ast.ModExtern); ok {
				v.sess.Infof(diag.ValUselessModifier, em.Span, "`extern` modifier inside extern classes/traits/ifaces is optional")
			}
			if !ast.IsNil(body) {
				v.errorf(diag.ValExternBody, m.Span(), "extern function must not have a body")
			}
		}
	}
}

func (v *validator) fnDecl(n *ast.FnDecl) {
	v.checkMods(n.Mods, true)
	id := n.ID.Name
	sp := n.Span()
	bodiless := ast.IsNil(n.Body)
	top := v.top()
	member := v.inMembers()

	if top == frameIface {
		if !bodiless {
			v.errorf(diag.ValIfaceMethodBody, sp, "iface method `%s` must not have a body", id)
		}
		if n.Mods.Has(ast.ModStatic) {
			v.errorf(diag.ValIfaceStaticMethod, sp, "static members inside interfaces are currently not supported (`%s`)", id)
		}
		if private(n.Mods) || n.Mods.Has(ast.ModProtected) {
			v.errorf(diag.ValIfaceNonPublic, sp, "iface method `%s` must be declared public", id)
		}
	}
	if n.Mods.Has(ast.ModExtern) && !bodiless {
		v.errorf(diag.ValExternBody, sp, "extern function `%s` must not have a body", id)
	}
	if !member && !n.Mods.Has(ast.ModExtern) && bodiless {
		v.errorf(diag.ValMissingBody, sp, "non-extern function `%s` must have a body", id)
	}
	if bodiless && (top == frameClass || top == frameTrait) && n.Mods.Has(ast.ModStatic) {
		v.errorf(diag.ValStaticAbstract, sp, "static method `%s` can not be abstract", id)
	}
	if bodiless && member && n.Mods.Has(ast.ModFinal) {
		v.errorf(diag.ValFinalAbstract, sp, "final method `%s` can not be abstract", id)
	}
	if member {
		v.uselessConst(n.Mods, "")
	}
	if bodiless && top == frameClass && private(n.Mods) {
		v.errorf(diag.ValPrivateAbstract, sp, "abstract method can not be private")
	}
	v.fn(frameFn, n.Params, n.Body)
}

func (v *validator) ctorDecl(n *ast.CtorDecl) {
	if v.top() != frameClass {
		v.errorf(diag.ValIllegalCtor, n.Span(), "illegal constructor declaration")
	}
	v.checkMods(n.Mods, false)
	if m, ok := n.Mods.Find(ast.ModStatic); ok {
		v.errorf(diag.ValStaticCtor, m.Span, "constructor cannot be static")
	}
	if body, ok := n.Body.(*ast.Block); ok {
		v.checkSuperCall(body)
	}
	v.fn(frameCtor, n.Params, n.Body)
}

func (v *validator) dtorDecl(n *ast.DtorDecl) {
	if v.top() != frameClass {
		v.errorf(diag.ValIllegalDtor, n.Span(), "illegal destructor declaration")
	}
	v.checkMods(n.Mods, false)
	if m, ok := n.Mods.Find(ast.ModStatic); ok {
		v.errorf(diag.ValStaticDtor, m.Span, "destructor can not be static")
	}
	v.fn(frameDtor, n.Params, n.Body)
}

// fn validates parameters and body inside a fresh function frame.
func (v *validator) fn(f frame, params []ast.Node, body ast.Node) {
	v.enter(f)
	for _, p := range params {
		switch p := p.(type) {
		case *ast.ThisParam:
			if f != frameCtor {
				v.errorf(diag.ValThisParamPlacement, p.Span(), "this-parameter not allowed here")
			}
			ast.Walk(v, p.Init)
		case *ast.Param:
			v.checkMods(p.Mods, false)
			ast.Walk(v, p.Init)
		case *ast.RestParam:
		default:
			ast.Unexpected(p)
		}
	}
	ast.Walk(v, body)
	v.leave(f)
}

// checkSuperCall requires an explicit super-call to be the very first
// expression of a constructor body.
func (v *validator) checkSuperCall(body *ast.Block) {
	for si, stmt := range body.Body {
		es, ok := stmt.(*ast.ExprStmt)
		if !ok {
			continue
		}
		for ei, e := range es.Exprs {
			if isSuperCall(e) && (si != 0 || ei != 0) {
				v.errorf(diag.ValSuperCallPosition, e.Span(), "explicit super-call must be the very first statement in a constructor")
			}
		}
	}
}

func isSuperCall(n ast.Node) bool {
	call, ok := n.(*ast.CallExpr)
	if !ok {
		return false
	}
	_, ok = call.Callee.(*ast.SuperExpr)
	return ok
}

func (v *validator) varDecl(n *ast.VarDecl) {
	v.checkMods(n.Mods, false)
	if v.top() == frameIface {
		v.errorf(diag.ValIfaceVariable, n.Span(), "variables are not allowed inside of iface")
	}
	for _, item := range n.Vars {
		v.allowDict(item.Init)
	}
}

func (v *validator) enumDecl(n *ast.EnumDecl) {
	v.checkMods(n.Mods, false)
	v.uselessConst(n.Mods, "enum items are constant by default")
	if v.top() == frameIface {
		v.errorf(diag.ValEnumInIface, n.Span(), "enum is not allowed inside of iface")
	}
}

func (v *validator) requireDecl(n *ast.RequireDecl) {
	switch n.Expr.(type) {
	case *ast.StrLit, *ast.KStrLit:
		return
	}
	v.warnf(diag.ValRequireNotLiteral, n.Span(), "require path should be a constant string value")
}
