package ast

type BinExpr struct {
	Base
	Left  Node
	Op    Op
	Right Node
}

// CheckExpr is `x is T` / `x !is T`.
type CheckExpr struct {
	Base
	Left  Node
	Op    Op
	Right Node
}

// CastExpr is `expr as T`; Type is a *TypeID or *Name.
type CastExpr struct {
	Base
	Expr Node
	Type Node
}

type UpdateExpr struct {
	Base
	Prefix bool
	Expr   Node
	Op     Op
}

type AssignExpr struct {
	Base
	Left  Node
	Op    Op
	Right Node
}

// MemberExpr is `obj.member`; Computed marks `obj.[expr]`.
type MemberExpr struct {
	Base
	Object   Node
	Member   Node
	Computed bool
}

type OffsetExpr struct {
	Base
	Object Node
	Offset Node
}

// CondExpr with a nil Then is the short `a ?: b`.
type CondExpr struct {
	Base
	Test Node
	Then Node
	Else Node
}

type CallExpr struct {
	Base
	Callee Node
	Args   []Node
}

type NamedArg struct {
	Base
	Name *Ident
	Expr Node
}

type RestArg struct {
	Base
	Expr Node
}

type YieldExpr struct {
	Base
	Key   Node
	Value Node
}

type UnaryExpr struct {
	Base
	Op   Op
	Expr Node
}

// NewExpr Name is a *Name, or any expression for `new (expr)`.
type NewExpr struct {
	Base
	Name Node
	Args []Node
}

type DelExpr struct {
	Base
	Expr Node
}

type TupleExpr struct {
	Base
	Seq []Node
}

type ParenExpr struct {
	Base
	Expr Node
}

type FnExpr struct {
	Base
	ID     *Ident
	Params []Node
	Body   Node
}

func (*BinExpr) Kind() Kind    { return KindBinExpr }
func (*CheckExpr) Kind() Kind  { return KindCheckExpr }
func (*CastExpr) Kind() Kind   { return KindCastExpr }
func (*UpdateExpr) Kind() Kind { return KindUpdateExpr }
func (*AssignExpr) Kind() Kind { return KindAssignExpr }
func (*MemberExpr) Kind() Kind { return KindMemberExpr }
func (*OffsetExpr) Kind() Kind { return KindOffsetExpr }
func (*CondExpr) Kind() Kind   { return KindCondExpr }
func (*CallExpr) Kind() Kind   { return KindCallExpr }
func (*NamedArg) Kind() Kind   { return KindNamedArg }
func (*RestArg) Kind() Kind    { return KindRestArg }
func (*YieldExpr) Kind() Kind  { return KindYieldExpr }
func (*UnaryExpr) Kind() Kind  { return KindUnaryExpr }
func (*NewExpr) Kind() Kind    { return KindNewExpr }
func (*DelExpr) Kind() Kind    { return KindDelExpr }
func (*TupleExpr) Kind() Kind  { return KindTupleExpr }
func (*ParenExpr) Kind() Kind  { return KindParenExpr }
func (*FnExpr) Kind() Kind     { return KindFnExpr }
