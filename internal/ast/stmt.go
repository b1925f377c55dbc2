package ast

type DoStmt struct {
	Base
	Stmt Node
	Expr Node
}

type IfStmt struct {
	Base
	Test  Node
	Stmt  Node
	Elifs []*ElifClause
	Else  *ElseClause
}

type ElifClause struct {
	Base
	Test Node
	Stmt Node
}

type ElseClause struct {
	Base
	Stmt Node
}

// ForStmt is the three-clause loop; Init may be a *VarDecl.
type ForStmt struct {
	Base
	Init Node
	Test Node
	Each Node
	Stmt Node
}

// ForInStmt is `for (k: v in expr)`; Key is nil for the one-variable form.
type ForInStmt struct {
	Base
	Key    *Ident
	Arg    *Ident
	ArgRef bool
	Expr   Node
	Stmt   Node
}

type WhileStmt struct {
	Base
	Test Node
	Stmt Node
}

type TryStmt struct {
	Base
	Body    *Block
	Catches []*CatchClause
	Finally *FinallyClause
}

// CatchClause Name is the caught class; ID the bound variable. Both are
// optional.
type CatchClause struct {
	Base
	Name *Name
	ID   *Ident
	Body *Block
}

type FinallyClause struct {
	Base
	Body *Block
}

type SwitchStmt struct {
	Base
	Test  Node
	Cases []*CaseClause
}

type CaseClause struct {
	Base
	Labels []*CaseLabel
	Body   []Node
}

// CaseLabel with a nil Expr is `default:`.
type CaseLabel struct {
	Base
	Expr Node
}

type GotoStmt struct {
	Base
	ID *Ident
}

type BreakStmt struct {
	Base
	ID *Ident
}

type ContinueStmt struct {
	Base
	ID *Ident
}

type ReturnStmt struct {
	Base
	Expr Node
}

type ThrowStmt struct {
	Base
	Expr Node
}

type PrintStmt struct {
	Base
	Exprs []Node
}

type AssertStmt struct {
	Base
	Expr    Node
	Message Node
}

// ExprStmt with no expressions is the empty statement `;`.
type ExprStmt struct {
	Base
	Exprs []Node
}

type TestStmt struct {
	Base
	Name  *StrLit
	Block *Block
}

// NativeStmt is an inline block of target code, passed through untouched.
type NativeStmt struct {
	Base
	Code string
}

func (*DoStmt) Kind() Kind        { return KindDoStmt }
func (*IfStmt) Kind() Kind        { return KindIfStmt }
func (*ElifClause) Kind() Kind    { return KindElifClause }
func (*ElseClause) Kind() Kind    { return KindElseClause }
func (*ForStmt) Kind() Kind       { return KindForStmt }
func (*ForInStmt) Kind() Kind     { return KindForInStmt }
func (*WhileStmt) Kind() Kind     { return KindWhileStmt }
func (*TryStmt) Kind() Kind       { return KindTryStmt }
func (*CatchClause) Kind() Kind   { return KindCatchClause }
func (*FinallyClause) Kind() Kind { return KindFinallyClause }
func (*SwitchStmt) Kind() Kind    { return KindSwitchStmt }
func (*CaseClause) Kind() Kind    { return KindCaseClause }
func (*CaseLabel) Kind() Kind     { return KindCaseLabel }
func (*GotoStmt) Kind() Kind      { return KindGotoStmt }
func (*BreakStmt) Kind() Kind     { return KindBreakStmt }
func (*ContinueStmt) Kind() Kind  { return KindContinueStmt }
func (*ReturnStmt) Kind() Kind    { return KindReturnStmt }
func (*ThrowStmt) Kind() Kind     { return KindThrowStmt }
func (*PrintStmt) Kind() Kind     { return KindPrintStmt }
func (*AssertStmt) Kind() Kind    { return KindAssertStmt }
func (*ExprStmt) Kind() Kind      { return KindExprStmt }
func (*TestStmt) Kind() Kind      { return KindTestStmt }
func (*NativeStmt) Kind() Kind    { return KindNativeStmt }
