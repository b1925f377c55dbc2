package collect

import (
	"phs/internal/ast"
	"phs/internal/symbols"
)

func (c *collector) classDecl(n *ast.ClassDecl) {
	flags := c.flags(n.Mods)
	if n.Incomplete {
		flags |= symbols.FlagIncomplete
	}
	sym := c.newSymbol(n.ID, symbols.SymbolClass, flags, n)
	sym.Super = n.Ext
	sym.Ifaces = n.Impl
	sym.Traits = c.traits(n.Members)
	if !n.Incomplete {
		sym.Members = c.members(n, n.Members)
	}
	c.add(sym)
}

func (c *collector) traitDecl(n *ast.TraitDecl) {
	flags := c.flags(n.Mods)
	if n.Incomplete {
		flags |= symbols.FlagIncomplete
	}
	sym := c.newSymbol(n.ID, symbols.SymbolTrait, flags, n)
	sym.Traits = c.traits(n.Members)
	if !n.Incomplete {
		sym.Members = c.members(n, n.Members)
	}
	c.add(sym)
}

func (c *collector) ifaceDecl(n *ast.IfaceDecl) {
	flags := c.flags(n.Mods)
	if n.Incomplete {
		flags |= symbols.FlagIncomplete
	}
	sym := c.newSymbol(n.ID, symbols.SymbolIface, flags, n)
	sym.Ifaces = n.Exts
	if !n.Incomplete {
		sym.Members = c.members(n, n.Members)
	}
	c.add(sym)
}

// members collects a member list into a fresh member scope. Modifiers of
// groups around the declaration do not leak into its members.
func (c *collector) members(owner ast.Node, list []ast.Node) symbols.ScopeID {
	saved := c.mods
	c.mods = nil
	id := c.enter(symbols.ScopeMember, owner, func() { ast.WalkList(c, list) })
	c.mods = saved
	return id
}

func (c *collector) traits(members []ast.Node) []symbols.TraitUsage {
	var out []symbols.TraitUsage
	for _, m := range members {
		tu, ok := m.(*ast.TraitUse)
		if !ok {
			continue
		}
		if len(tu.Items) == 0 {
			out = append(out, symbols.TraitUsage{Trait: tu.Name, Span: tu.Span()})
			continue
		}
		for _, item := range tu.Items {
			orig := c.t.Intern(item.ID.Name)
			dest := orig
			if item.Alias != nil {
				dest = c.t.Intern(item.Alias.Name)
			}
			out = append(out, symbols.TraitUsage{
				Trait: tu.Name,
				Span:  item.Span(),
				Orig:  orig,
				Dest:  dest,
				Flags: symbols.FlagsFromMods(item.Mods),
			})
		}
	}
	return out
}

// inMembers reports whether the collector is directly inside a member list.
func (c *collector) inMembers() bool {
	return c.t.Scope(c.scope).Kind == symbols.ScopeMember
}

func (c *collector) fnDecl(n *ast.FnDecl) {
	flags := c.flags(n.Mods)
	if c.inMembers() && ast.IsNil(n.Body) && !flags.Has(symbols.FlagExtern) {
		flags |= symbols.FlagAbstract
	}
	c.add(c.newSymbol(n.ID, symbols.SymbolFn, flags, n))
	c.fn(n, n.Params, n.Body)
}

func (c *collector) fnExpr(n *ast.FnExpr) {
	saved := c.mods
	c.mods = nil
	defer func() { c.mods = saved }()
	c.enter(symbols.ScopeFn, n, func() {
		if n.ID != nil {
			sym := c.newSymbol(n.ID, symbols.SymbolFn, symbols.FlagNone, n)
			sym.Expr = true
			c.add(sym)
		}
		c.params(n.Params)
		ast.Walk(c, n.Body)
	})
}

func (c *collector) ctorDecl(n *ast.CtorDecl) {
	id := c.special("constructor", n.Mods, n)
	if c.inMembers() {
		c.t.SetCtor(c.scope, id)
	}
	c.fn(n, n.Params, n.Body)
}

func (c *collector) dtorDecl(n *ast.DtorDecl) {
	id := c.special("destructor", n.Mods, n)
	if c.inMembers() {
		c.t.SetDtor(c.scope, id)
	}
	c.fn(n, n.Params, n.Body)
}

// special allocates the symbol of a declaration that is not bound by name.
func (c *collector) special(name string, mods ast.Modifiers, decl ast.Node) symbols.SymbolID {
	sym := &symbols.Symbol{
		Name:  c.t.Intern(name),
		Kind:  symbols.SymbolFn,
		Flags: c.flags(mods),
		Span:  decl.Span(),
		Decl:  decl,
	}
	id := c.t.Symbols.New(sym)
	c.t.BindSymbol(decl, id)
	return id
}

func (c *collector) accessor(n ast.Node, ident *ast.Ident, mods ast.Modifiers, params []ast.Node, body ast.Node, register func(symbols.ScopeID, symbols.SymbolID) bool) {
	sym := c.newSymbol(ident, symbols.SymbolFn, c.flags(mods), n)
	id := c.t.Symbols.New(sym)
	c.t.BindSymbol(n, id)
	if c.inMembers() {
		register(c.scope, id)
	}
	c.fn(n, params, body)
}

// fn opens the function scope of a declaration and collects its
// parameters and body.
func (c *collector) fn(owner ast.Node, params []ast.Node, body ast.Node) {
	saved := c.mods
	c.mods = nil
	c.enter(symbols.ScopeFn, owner, func() {
		c.params(params)
		ast.Walk(c, body)
	})
	c.mods = saved
}

func (c *collector) params(params []ast.Node) {
	for _, p := range params {
		switch p := p.(type) {
		case *ast.Param:
			ast.Walk(c, p.Init)
			c.local(p.ID, p, symbols.FlagParam|symbols.FlagsFromMods(p.Mods))
		case *ast.ThisParam:
			ast.Walk(c, p.Init)
			this := &ast.Ident{Base: ast.Base{Loc: p.ID.Span()}, Name: symbols.ThisParamName(p.ID.Name)}
			c.local(this, p, symbols.FlagParam)
		case *ast.RestParam:
			c.local(p.ID, p, symbols.FlagParam)
		default:
			ast.Unexpected(p)
		}
	}
}
