package symbols

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes the scope tree below root: one line per scope, its imports
// and its symbols, indented by depth.
func (t *Table) Dump(w io.Writer, root ScopeID) error {
	d := dumper{t: t, w: w}
	d.scope(root, 0)
	return d.err
}

type dumper struct {
	t   *Table
	w   io.Writer
	err error
}

func (d *dumper) printf(depth int, format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, "%s"+format+"\n", append([]any{strings.Repeat("  ", depth)}, args...)...)
}

func (d *dumper) scope(id ScopeID, depth int) {
	sc := d.t.Scopes.Get(id)
	if sc == nil {
		return
	}
	switch sc.Kind {
	case ScopeModule:
		d.printf(depth, "module %s", d.t.Name(sc.Name))
	default:
		d.printf(depth, "%s", sc.Kind)
	}
	for _, name := range sc.UseOrder {
		u := d.t.Usages.Get(sc.Usages[name])
		pub := ""
		if u.Pub {
			pub = "pub "
		}
		d.printf(depth+1, "%suse %s as %s", pub, d.t.PathString(u.Path), d.t.Name(u.Item))
	}
	for _, sid := range d.t.Iter(id) {
		d.symbol(sid, depth+1, sc.Links)
	}
	for _, child := range sc.Children {
		cs := d.t.Scopes.Get(child)
		if cs.Kind == ScopeMember {
			// printed under the owning symbol
			continue
		}
		d.scope(child, depth+1)
	}
}

func (d *dumper) symbol(id SymbolID, depth int, links []SymbolID) {
	sym := d.t.Symbols.Get(id)
	line := fmt.Sprintf("%s %s", sym.Kind, d.t.Name(sym.Name))
	if sym.Flags != FlagNone {
		line += " [" + sym.Flags.String() + "]"
	}
	if containsSymbol(links, id) {
		line += " (linked)"
	}
	if sym.Value.IsConst() {
		line += " = " + sym.Value.String()
	}
	d.printf(depth, "%s", line)
	if sym.Members.IsValid() && !containsSymbol(links, id) {
		d.scope(sym.Members, depth+1)
	}
}
