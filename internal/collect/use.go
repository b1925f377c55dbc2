package collect

import (
	"phs/internal/ast"
	"phs/internal/symbols"
)

// use collects one item of a use declaration below base.
func (c *collector) use(base *symbols.Usage, item ast.Node, pub bool) {
	root := c.t.RootOf(c.scope)
	switch n := item.(type) {
	case *ast.Name:
		base = c.useBase(n, base)
		c.addUse(root, c.t.NewUsage(root, pub, n, base, nil), n)
	case *ast.UseAlias:
		base = c.useBase(n.Name, base)
		c.addUse(root, c.t.NewUsage(root, pub, n.Name, base, n.Alias), n)
	case *ast.UseUnpack:
		if n.Name != nil {
			base = c.useBase(n.Name, base)
			base = c.t.NewGroupBase(root, pub, n.Name, base)
		}
		c.groups = append(c.groups, make(symbols.UsageGroup))
		for _, it := range n.Items {
			c.use(base, it, pub)
		}
		c.groups = c.groups[:len(c.groups)-1]
	default:
		ast.Unexpected(item)
	}
}

// useBase finds an earlier usage the first segment of a qualified name
// refers to: inside an unpack group only its siblings count, otherwise the
// usages of the collecting scope. Falls back to base.
func (c *collector) useBase(name *ast.Name, base *symbols.Usage) *symbols.Usage {
	if len(name.Parts) < 2 || name.Root || name.Self {
		return base
	}
	first := c.t.Intern(name.Parts[0].Name)
	if len(c.groups) > 0 {
		if id, ok := c.groups[len(c.groups)-1][first]; ok {
			return c.t.Usage(id)
		}
		return base
	}
	if id, ok := c.t.Scope(c.t.RootOf(c.scope)).Usages[first]; ok {
		return c.t.Usage(id)
	}
	return base
}

func (c *collector) addUse(root symbols.ScopeID, u *symbols.Usage, node ast.Node) {
	u.Node = node
	id, ok := c.t.AddUsage(root, u)
	if ok && len(c.groups) > 0 {
		c.groups[len(c.groups)-1][u.Item] = id
	}
}
