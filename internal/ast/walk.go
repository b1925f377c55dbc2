package ast

import (
	"fmt"

	"phs/internal/source"
)

// Visitor is called for every node Walk reaches. If Visit returns a non-nil
// visitor w, Walk visits the children of n with w, followed by w.Visit(nil).
type Visitor interface {
	Visit(n Node) Visitor
}

// Walk traverses n depth-first in the structural order of Children.
func Walk(v Visitor, n Node) {
	if IsNil(n) {
		return
	}
	w := v.Visit(n)
	if w == nil {
		return
	}
	for _, c := range Children(n) {
		Walk(w, c)
	}
	w.Visit(nil)
}

// WalkList walks every node of list in order.
func WalkList(v Visitor, list []Node) {
	for _, n := range list {
		Walk(v, n)
	}
}

type inspector func(Node) bool

func (f inspector) Visit(n Node) Visitor {
	if f(n) {
		return f
	}
	return nil
}

// Inspect calls f for n and, while f returns true, for its children;
// f(nil) follows each visited subtree like in go/ast.
func Inspect(n Node, f func(Node) bool) {
	Walk(inspector(f), n)
}

// Walker runs several visitors over a single traversal. Per node visitors
// are dispatched in registration order; a visitor returning nil prunes the
// subtree for itself only.
type Walker struct {
	visitors []Visitor
}

func NewWalker(vs ...Visitor) *Walker {
	return &Walker{visitors: vs}
}

func (w *Walker) Add(v Visitor) {
	w.visitors = append(w.visitors, v)
}

func (w *Walker) Walk(n Node) {
	active := make([]Visitor, len(w.visitors))
	copy(active, w.visitors)
	w.walk(active, n)
}

func (w *Walker) walk(active []Visitor, n Node) {
	if IsNil(n) {
		return
	}
	next := make([]Visitor, len(active))
	descend := false
	for i, v := range active {
		if v == nil {
			continue
		}
		if next[i] = v.Visit(n); next[i] != nil {
			descend = true
		}
	}
	if !descend {
		return
	}
	for _, c := range Children(n) {
		w.walk(next, c)
	}
	for _, v := range next {
		if v != nil {
			v.Visit(nil)
		}
	}
}

// Unexpected aborts on a node kind a pass does not know. Reaching it means
// an earlier stage produced a malformed tree.
func Unexpected(n Node) {
	if n == nil {
		panic("ast: unexpected nil node")
	}
	panic(fmt.Sprintf("ast: unexpected node %T (%s) at %s", n, n.Kind(), n.Span()))
}

type children []Node

func (c *children) add(n Node) {
	if !IsNil(n) {
		*c = append(*c, n)
	}
}

func (c *children) list(ns []Node) {
	for _, n := range ns {
		c.add(n)
	}
}

func (c *children) ident(id *Ident) {
	if id != nil {
		*c = append(*c, id)
	}
}

func (c *children) name(n *Name) {
	if n != nil {
		*c = append(*c, n)
	}
}

// Children returns the direct children of n in fixed structural order,
// skipping absent optional fields.
func Children(n Node) []Node {
	var c children
	switch n := n.(type) {
	case *Unit:
		c.list(n.Body)
	case *Module:
		c.name(n.Name)
		c.list(n.Body)
	case *Block:
		c.list(n.Body)
	case *ClassDecl:
		c.ident(n.ID)
		c.name(n.Ext)
		for _, i := range n.Impl {
			c.name(i)
		}
		c.list(n.Members)
	case *TraitDecl:
		c.ident(n.ID)
		c.list(n.Members)
	case *IfaceDecl:
		c.ident(n.ID)
		for _, e := range n.Exts {
			c.name(e)
		}
		c.list(n.Members)
	case *NestedMods:
		c.list(n.Members)
	case *FnDecl:
		c.ident(n.ID)
		c.list(n.Params)
		c.add(n.Body)
	case *CtorDecl:
		c.list(n.Params)
		c.add(n.Body)
	case *DtorDecl:
		c.list(n.Params)
		c.add(n.Body)
	case *GetterDecl:
		c.ident(n.ID)
		c.list(n.Params)
		c.add(n.Body)
	case *SetterDecl:
		c.ident(n.ID)
		c.list(n.Params)
		c.add(n.Body)
	case *Param:
		c.add(n.Hint)
		c.ident(n.ID)
		c.add(n.Init)
	case *ThisParam:
		c.add(n.Hint)
		c.ident(n.ID)
		c.add(n.Init)
	case *RestParam:
		c.add(n.Hint)
		c.ident(n.ID)
	case *VarDecl:
		for _, v := range n.Vars {
			if v != nil {
				c = append(c, v)
			}
		}
	case *VarItem:
		c.ident(n.ID)
		c.add(n.Init)
	case *EnumDecl:
		for _, v := range n.Members {
			if v != nil {
				c = append(c, v)
			}
		}
	case *UseDecl:
		c.add(n.Item)
	case *UseAlias:
		c.name(n.Name)
		c.ident(n.Alias)
	case *UseUnpack:
		c.name(n.Name)
		c.list(n.Items)
	case *RequireDecl:
		c.add(n.Expr)
	case *LabelDecl:
		c.ident(n.ID)
		c.add(n.Stmt)
	case *AliasDecl:
		c.ident(n.ID)
		c.name(n.Orig)
	case *TraitUse:
		c.name(n.Name)
		for _, it := range n.Items {
			if it != nil {
				c = append(c, it)
			}
		}
	case *TraitUseItem:
		c.ident(n.ID)
		c.ident(n.Alias)
	case *DoStmt:
		c.add(n.Stmt)
		c.add(n.Expr)
	case *IfStmt:
		c.add(n.Test)
		c.add(n.Stmt)
		for _, e := range n.Elifs {
			if e != nil {
				c = append(c, e)
			}
		}
		if n.Else != nil {
			c = append(c, n.Else)
		}
	case *ElifClause:
		c.add(n.Test)
		c.add(n.Stmt)
	case *ElseClause:
		c.add(n.Stmt)
	case *ForStmt:
		c.add(n.Init)
		c.add(n.Test)
		c.add(n.Each)
		c.add(n.Stmt)
	case *ForInStmt:
		c.ident(n.Key)
		c.ident(n.Arg)
		c.add(n.Expr)
		c.add(n.Stmt)
	case *WhileStmt:
		c.add(n.Test)
		c.add(n.Stmt)
	case *TryStmt:
		if n.Body != nil {
			c = append(c, n.Body)
		}
		for _, k := range n.Catches {
			if k != nil {
				c = append(c, k)
			}
		}
		if n.Finally != nil {
			c = append(c, n.Finally)
		}
	case *CatchClause:
		c.name(n.Name)
		c.ident(n.ID)
		if n.Body != nil {
			c = append(c, n.Body)
		}
	case *FinallyClause:
		if n.Body != nil {
			c = append(c, n.Body)
		}
	case *SwitchStmt:
		c.add(n.Test)
		for _, k := range n.Cases {
			if k != nil {
				c = append(c, k)
			}
		}
	case *CaseClause:
		for _, l := range n.Labels {
			if l != nil {
				c = append(c, l)
			}
		}
		c.list(n.Body)
	case *CaseLabel:
		c.add(n.Expr)
	case *GotoStmt:
		c.ident(n.ID)
	case *BreakStmt:
		c.ident(n.ID)
	case *ContinueStmt:
		c.ident(n.ID)
	case *ReturnStmt:
		c.add(n.Expr)
	case *ThrowStmt:
		c.add(n.Expr)
	case *PrintStmt:
		c.list(n.Exprs)
	case *AssertStmt:
		c.add(n.Expr)
		c.add(n.Message)
	case *ExprStmt:
		c.list(n.Exprs)
	case *TestStmt:
		if n.Name != nil {
			c = append(c, n.Name)
		}
		if n.Block != nil {
			c = append(c, n.Block)
		}
	case *BinExpr:
		c.add(n.Left)
		c.add(n.Right)
	case *CheckExpr:
		c.add(n.Left)
		c.add(n.Right)
	case *CastExpr:
		c.add(n.Expr)
		c.add(n.Type)
	case *UpdateExpr:
		c.add(n.Expr)
	case *AssignExpr:
		c.add(n.Left)
		c.add(n.Right)
	case *MemberExpr:
		c.add(n.Object)
		c.add(n.Member)
	case *OffsetExpr:
		c.add(n.Object)
		c.add(n.Offset)
	case *CondExpr:
		c.add(n.Test)
		c.add(n.Then)
		c.add(n.Else)
	case *CallExpr:
		c.add(n.Callee)
		c.list(n.Args)
	case *NamedArg:
		c.ident(n.Name)
		c.add(n.Expr)
	case *RestArg:
		c.add(n.Expr)
	case *YieldExpr:
		c.add(n.Key)
		c.add(n.Value)
	case *UnaryExpr:
		c.add(n.Expr)
	case *NewExpr:
		c.add(n.Name)
		c.list(n.Args)
	case *DelExpr:
		c.add(n.Expr)
	case *TupleExpr:
		c.list(n.Seq)
	case *ParenExpr:
		c.add(n.Expr)
	case *FnExpr:
		c.ident(n.ID)
		c.list(n.Params)
		c.add(n.Body)
	case *StrLit:
		c.list(n.Parts)
	case *ArrLit:
		c.list(n.Items)
	case *ObjLit:
		for _, p := range n.Pairs {
			if p != nil {
				c = append(c, p)
			}
		}
	case *ObjPair:
		c.add(n.Key)
		c.add(n.Arg)
	case *Name:
		for _, p := range n.Parts {
			c.ident(p)
		}
	case *IntLit, *FloatLit, *KStrLit, *RegexpLit, *NullLit, *TrueLit,
		*FalseLit, *ThisExpr, *SuperExpr, *SelfExpr, *EngineConst, *TypeID,
		*Ident, *NativeStmt:
		// leaves
	default:
		Unexpected(n)
	}
	return c
}

// ModsOf returns the modifier list of a declaration, nil for nodes that
// carry none.
func ModsOf(n Node) *Modifiers {
	switch n := n.(type) {
	case *ClassDecl:
		return &n.Mods
	case *TraitDecl:
		return &n.Mods
	case *IfaceDecl:
		return &n.Mods
	case *NestedMods:
		return &n.Mods
	case *FnDecl:
		return &n.Mods
	case *CtorDecl:
		return &n.Mods
	case *DtorDecl:
		return &n.Mods
	case *GetterDecl:
		return &n.Mods
	case *SetterDecl:
		return &n.Mods
	case *Param:
		return &n.Mods
	case *VarDecl:
		return &n.Mods
	case *EnumDecl:
		return &n.Mods
	case *UseDecl:
		return &n.Mods
	case *TraitUseItem:
		return &n.Mods
	}
	return nil
}

type spanSetter interface {
	SetSpan(source.Span)
}

// Rebase stamps file onto every span under n, modifiers included. Decoded
// units carry the file id of the session that wrote them.
func Rebase(n Node, file source.FileID) {
	Inspect(n, func(x Node) bool {
		if x == nil {
			return false
		}
		if s, ok := x.(spanSetter); ok {
			s.SetSpan(x.Span().WithFile(file))
		}
		if ms := ModsOf(x); ms != nil {
			for i := range *ms {
				(*ms)[i].Span = (*ms)[i].Span.WithFile(file)
			}
		}
		return true
	})
}
