package astcodec

import (
	"fmt"
	"reflect"

	"phs/internal/ast"
	"phs/internal/source"
)

// layout is the wire shape of one node variant: its struct type and the
// indices of the fields written after the span, in declaration order.
type layout struct {
	typ    reflect.Type
	fields []int
}

var (
	nodeType = reflect.TypeOf((*ast.Node)(nil)).Elem()
	baseType = reflect.TypeOf(ast.Base{})
	spanType = reflect.TypeOf(source.Span{})
)

// prototypes has one value per node kind.
var prototypes = []ast.Node{
	&ast.Unit{}, &ast.Module{}, &ast.Block{},
	&ast.ClassDecl{}, &ast.TraitDecl{}, &ast.IfaceDecl{}, &ast.NestedMods{},
	&ast.FnDecl{}, &ast.CtorDecl{}, &ast.DtorDecl{}, &ast.GetterDecl{}, &ast.SetterDecl{},
	&ast.Param{}, &ast.ThisParam{}, &ast.RestParam{},
	&ast.VarDecl{}, &ast.VarItem{}, &ast.EnumDecl{},
	&ast.UseDecl{}, &ast.UseAlias{}, &ast.UseUnpack{},
	&ast.RequireDecl{}, &ast.LabelDecl{}, &ast.AliasDecl{},
	&ast.TraitUse{}, &ast.TraitUseItem{},

	&ast.DoStmt{}, &ast.IfStmt{}, &ast.ElifClause{}, &ast.ElseClause{},
	&ast.ForStmt{}, &ast.ForInStmt{}, &ast.WhileStmt{},
	&ast.TryStmt{}, &ast.CatchClause{}, &ast.FinallyClause{},
	&ast.SwitchStmt{}, &ast.CaseClause{}, &ast.CaseLabel{},
	&ast.GotoStmt{}, &ast.BreakStmt{}, &ast.ContinueStmt{},
	&ast.ReturnStmt{}, &ast.ThrowStmt{}, &ast.PrintStmt{}, &ast.AssertStmt{},
	&ast.ExprStmt{}, &ast.TestStmt{}, &ast.NativeStmt{},

	&ast.BinExpr{}, &ast.CheckExpr{}, &ast.CastExpr{}, &ast.UpdateExpr{}, &ast.AssignExpr{},
	&ast.MemberExpr{}, &ast.OffsetExpr{}, &ast.CondExpr{}, &ast.CallExpr{},
	&ast.NamedArg{}, &ast.RestArg{}, &ast.YieldExpr{}, &ast.UnaryExpr{},
	&ast.NewExpr{}, &ast.DelExpr{}, &ast.TupleExpr{}, &ast.ParenExpr{}, &ast.FnExpr{},

	&ast.IntLit{}, &ast.FloatLit{}, &ast.StrLit{}, &ast.KStrLit{}, &ast.RegexpLit{},
	&ast.ArrLit{}, &ast.ObjLit{}, &ast.ObjPair{},
	&ast.NullLit{}, &ast.TrueLit{}, &ast.FalseLit{},
	&ast.ThisExpr{}, &ast.SuperExpr{}, &ast.SelfExpr{},
	&ast.EngineConst{}, &ast.TypeID{}, &ast.Ident{}, &ast.Name{},
}

var layouts = buildLayouts()

func buildLayouts() map[ast.Kind]layout {
	out := make(map[ast.Kind]layout, len(prototypes))
	for _, n := range prototypes {
		t := reflect.TypeOf(n).Elem()
		l := layout{typ: t}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.Anonymous && f.Type == baseType {
				continue
			}
			if !f.IsExported() {
				panic(fmt.Sprintf("astcodec: %s.%s is unexported", t.Name(), f.Name))
			}
			l.fields = append(l.fields, i)
		}
		if _, dup := out[n.Kind()]; dup {
			panic(fmt.Sprintf("astcodec: kind %s registered twice", n.Kind()))
		}
		out[n.Kind()] = l
	}
	return out
}

// isNodeType reports whether values of t are written as nodes: the Node
// interface itself or a pointer to a node struct.
func isNodeType(t reflect.Type) bool {
	if t == nodeType {
		return true
	}
	return t.Kind() == reflect.Pointer && t.Implements(nodeType)
}
