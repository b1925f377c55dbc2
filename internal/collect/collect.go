package collect

import (
	"phs/internal/ast"
	"phs/internal/source"
	"phs/internal/symbols"
	"phs/internal/value"
)

// Options configure collection of one unit.
type Options struct {
	File source.FileID
	// NoExport keeps the unit out of the global scope.
	NoExport bool
}

// Collect registers every declaration of unit in t and returns the unit's
// root scope. Scopes are bound to the nodes that open them and symbols to
// their declaring nodes; see Table.ScopeOf and Table.SymbolOf.
func Collect(t *symbols.Table, unit *ast.Unit, opts Options) symbols.ScopeID {
	c := &collector{t: t}
	c.unit = t.NewUnit(opts.File, unit)
	c.scope = c.unit
	ast.WalkList(c, unit.Body)
	if !opts.NoExport {
		t.Export(c.unit)
	}
	return c.unit
}

type collector struct {
	t     *symbols.Table
	unit  symbols.ScopeID
	scope symbols.ScopeID
	// modifiers of the enclosing nested groups, merged
	mods ast.Modifiers
	// unpack groups of the use declaration being collected
	groups []symbols.UsageGroup
}

func (c *collector) Visit(n ast.Node) ast.Visitor {
	switch n := n.(type) {
	case nil:
		return nil
	case *ast.Module:
		c.module(n)
	case *ast.Block:
		c.enter(symbols.ScopeBlock, n, func() { ast.WalkList(c, n.Body) })
	case *ast.ClassDecl:
		c.classDecl(n)
	case *ast.TraitDecl:
		c.traitDecl(n)
	case *ast.IfaceDecl:
		c.ifaceDecl(n)
	case *ast.NestedMods:
		saved := c.mods
		c.mods, _ = ast.MergeMods(c.mods, n.Mods)
		ast.WalkList(c, n.Members)
		c.mods = saved
	case *ast.FnDecl:
		c.fnDecl(n)
	case *ast.CtorDecl:
		c.ctorDecl(n)
	case *ast.DtorDecl:
		c.dtorDecl(n)
	case *ast.GetterDecl:
		c.accessor(n, n.ID, n.Mods, n.Params, n.Body, c.t.AddGetter)
	case *ast.SetterDecl:
		c.accessor(n, n.ID, n.Mods, n.Params, n.Body, c.t.AddSetter)
	case *ast.FnExpr:
		c.fnExpr(n)
	case *ast.VarDecl:
		c.vars(n.Vars, c.flags(n.Mods))
	case *ast.EnumDecl:
		c.vars(n.Members, c.flags(n.Mods)|symbols.FlagConst)
	case *ast.UseDecl:
		c.use(nil, n.Item, n.Mods.Has(ast.ModPublic))
	case *ast.TraitUse:
		// recorded on the owning class
	case *ast.ForInStmt:
		c.forIn(n)
	case *ast.ForStmt:
		c.enter(symbols.ScopeBlock, n, func() {
			ast.Walk(c, n.Init)
			ast.Walk(c, n.Test)
			ast.Walk(c, n.Each)
			ast.Walk(c, n.Stmt)
		})
	case *ast.CatchClause:
		c.enter(symbols.ScopeBlock, n, func() {
			if n.ID != nil {
				c.local(n.ID, n, symbols.FlagNone)
			}
			ast.Walk(c, n.Body)
		})
	default:
		return c
	}
	return nil
}

// enter runs body with a fresh scope of kind bound to owner.
func (c *collector) enter(kind symbols.ScopeKind, owner ast.Node, body func()) symbols.ScopeID {
	prev := c.scope
	c.scope = c.t.NewScope(kind, prev, owner)
	body()
	id := c.scope
	c.scope = prev
	return id
}

// flags converts mods, combined with the enclosing nested groups.
func (c *collector) flags(mods ast.Modifiers) symbols.SymbolFlags {
	merged, _ := ast.MergeMods(c.mods, mods)
	return symbols.FlagsFromMods(merged)
}

func (c *collector) newSymbol(id *ast.Ident, kind symbols.SymbolKind, flags symbols.SymbolFlags, decl ast.Node) *symbols.Symbol {
	return &symbols.Symbol{
		Name:  c.t.Intern(id.Name),
		Kind:  kind,
		Flags: flags,
		Span:  id.Span(),
		Decl:  decl,
		Value: value.None(),
	}
}

func (c *collector) add(sym *symbols.Symbol) symbols.SymbolID {
	id, ok := c.t.Add(c.scope, sym)
	if !ok {
		return symbols.NoSymbolID
	}
	c.t.BindSymbol(sym.Decl, id)
	return id
}

// local declares a variable that is known as soon as its scope opens
// (parameters, loop and catch variables).
func (c *collector) local(id *ast.Ident, decl ast.Node, flags symbols.SymbolFlags) symbols.SymbolID {
	sym := c.newSymbol(id, symbols.SymbolVar, flags, decl)
	sym.Value = value.Undef()
	sym.Reachable = true
	return c.add(sym)
}

func (c *collector) vars(items []*ast.VarItem, flags symbols.SymbolFlags) {
	for _, item := range items {
		ast.Walk(c, item.Init)
		c.add(c.newSymbol(item.ID, symbols.SymbolVar, flags, item))
	}
}

func (c *collector) forIn(n *ast.ForInStmt) {
	c.enter(symbols.ScopeBlock, n, func() {
		if n.Key != nil {
			c.local(n.Key, n.Key, symbols.FlagNone)
		}
		c.local(n.Arg, n.Arg, symbols.FlagNone)
		ast.Walk(c, n.Expr)
		ast.Walk(c, n.Stmt)
	})
}

// module switches to the module named by n, creating missing segments.
// A root-anchored name starts at the unit, the unnamed form is the unit.
func (c *collector) module(n *ast.Module) {
	prev := c.scope
	target := c.unit
	if n.Name != nil {
		base := c.t.RootOf(c.scope)
		if n.Name.Root {
			base = c.unit
		}
		target = base
		for _, part := range n.Name.Parts {
			target = c.t.Module(target, c.t.Intern(part.Name), part.Span())
		}
	}
	c.t.BindScope(n, target)
	c.scope = target
	ast.WalkList(c, n.Body)
	c.scope = prev
}
