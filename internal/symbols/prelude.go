package symbols

import (
	"phs/internal/source"
	"phs/internal/value"
)

// Names of the builtin module and the wrapper `throw` operands are routed
// through.
const (
	PreludeModule = "phs"
	PreludeThrow  = "ex"
)

// ThisParamName is the name a constructor this-parameter `this.x` is
// declared under.
func ThisParamName(id string) string { return "__this__" + id }

type preludeEntry struct {
	Name  string
	Kind  SymbolKind
	Flags SymbolFlags
}

func builtinPreludeEntries() []preludeEntry {
	return []preludeEntry{
		{Name: PreludeThrow, Kind: SymbolFn, Flags: FlagExtern | FlagPublic},
	}
}

// installPrelude creates `::phs` in the global scope.
func (t *Table) installPrelude() {
	mod := t.Module(t.Global, t.Intern(PreludeModule), source.Span{})
	for _, e := range builtinPreludeEntries() {
		t.Add(mod, &Symbol{
			Name:      t.Intern(e.Name),
			Kind:      e.Kind,
			Flags:     e.Flags,
			Value:     value.None(),
			Reachable: true,
			Resolved:  true,
		})
	}
}
