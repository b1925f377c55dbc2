package ast

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented kind tree of n, one node per line.
func Fprint(w io.Writer, n Node) error {
	p := &printer{w: w}
	Walk(p, n)
	return p.err
}

type printer struct {
	w     io.Writer
	depth int
	err   error
}

func (p *printer) Visit(n Node) Visitor {
	if n == nil {
		p.depth--
		return nil
	}
	if p.err == nil {
		_, p.err = fmt.Fprintf(p.w, "%s%s%s\n", strings.Repeat("  ", p.depth), n.Kind(), label(n))
	}
	p.depth++
	return p
}

func label(n Node) string {
	switch n := n.(type) {
	case *Ident:
		return " " + n.Name
	case *Name:
		return " " + n.String()
	case *IntLit:
		return fmt.Sprintf(" %d", n.Value)
	case *FloatLit:
		return fmt.Sprintf(" %g", n.Value)
	case *StrLit:
		return fmt.Sprintf(" %q", n.Value)
	case *KStrLit:
		return fmt.Sprintf(" %q", n.Value)
	case *BinExpr:
		return " " + n.Op.String()
	case *AssignExpr:
		return " " + n.Op.String()
	case *UnaryExpr:
		return " " + n.Op.String()
	case *EngineConst:
		return " " + n.Const.String()
	case *TypeID:
		return " " + n.Type.String()
	}
	if ms := ModsOf(n); ms != nil && len(*ms) > 0 {
		return " [" + ms.String() + "]"
	}
	return ""
}
