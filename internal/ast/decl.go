package ast

// Unit is the root of one compiled source file.
type Unit struct {
	Base
	Body []Node
}

// Module is `module a::b { ... }`. Name is nil for the unnamed form which
// switches back to the global root.
type Module struct {
	Base
	Name *Name
	Body []Node
}

type Block struct {
	Base
	Body []Node
}

// ClassDecl is `class X : Super ~ Iface { ... }`; `class X;` leaves
// Incomplete set and Members empty.
type ClassDecl struct {
	Base
	Mods       Modifiers
	ID         *Ident
	Ext        *Name
	Impl       []*Name
	Members    []Node
	Incomplete bool
}

type TraitDecl struct {
	Base
	Mods       Modifiers
	ID         *Ident
	Members    []Node
	Incomplete bool
}

type IfaceDecl struct {
	Base
	Mods       Modifiers
	ID         *Ident
	Exts       []*Name
	Members    []Node
	Incomplete bool
}

// NestedMods groups members under shared modifiers: `public { ... }`.
type NestedMods struct {
	Base
	Mods    Modifiers
	Members []Node
}

// FnDecl body is nil for declarations without one; before desugaring it may
// also be a bare expression (`fn f() = expr;`).
type FnDecl struct {
	Base
	Mods   Modifiers
	ID     *Ident
	Params []Node
	Body   Node
}

type CtorDecl struct {
	Base
	Mods   Modifiers
	Params []Node
	Body   Node
}

type DtorDecl struct {
	Base
	Mods   Modifiers
	Params []Node
	Body   Node
}

type GetterDecl struct {
	Base
	Mods   Modifiers
	ID     *Ident
	Params []Node
	Body   Node
}

type SetterDecl struct {
	Base
	Mods   Modifiers
	ID     *Ident
	Params []Node
	Body   Node
}

// Hint is a type hint: *Name, *TypeID or nil.
type Param struct {
	Base
	Ref  bool
	Mods Modifiers
	Hint Node
	ID   *Ident
	Init Node
	Opt  bool
}

// ThisParam is the constructor shorthand `new(this.x)`.
type ThisParam struct {
	Base
	Ref  bool
	Hint Node
	ID   *Ident
	Init Node
}

type RestParam struct {
	Base
	Hint Node
	ID   *Ident
}

type VarDecl struct {
	Base
	Mods Modifiers
	Vars []*VarItem
}

type VarItem struct {
	Base
	ID   *Ident
	Init Node
	Ref  bool
}

type EnumDecl struct {
	Base
	Mods    Modifiers
	Members []*VarItem
}

// UseDecl holds one import tree: *Name, *UseAlias or *UseUnpack.
type UseDecl struct {
	Base
	Mods Modifiers
	Item Node
}

type UseAlias struct {
	Base
	Name  *Name
	Alias *Ident
}

// UseUnpack is `base::{a, b as c, d::{e}}`.
type UseUnpack struct {
	Base
	Name  *Name
	Items []Node
}

type RequireDecl struct {
	Base
	Expr Node
}

type LabelDecl struct {
	Base
	ID   *Ident
	Stmt Node
}

type AliasDecl struct {
	Base
	ID   *Ident
	Orig *Name
}

// TraitUse is `use Trait;` or `use Trait { item as alias; }` inside a class.
type TraitUse struct {
	Base
	Name  *Name
	Items []*TraitUseItem
}

type TraitUseItem struct {
	Base
	ID    *Ident
	Mods  Modifiers
	Alias *Ident
}

func (*Unit) Kind() Kind         { return KindUnit }
func (*Module) Kind() Kind       { return KindModule }
func (*Block) Kind() Kind        { return KindBlock }
func (*ClassDecl) Kind() Kind    { return KindClassDecl }
func (*TraitDecl) Kind() Kind    { return KindTraitDecl }
func (*IfaceDecl) Kind() Kind    { return KindIfaceDecl }
func (*NestedMods) Kind() Kind   { return KindNestedMods }
func (*FnDecl) Kind() Kind       { return KindFnDecl }
func (*CtorDecl) Kind() Kind     { return KindCtorDecl }
func (*DtorDecl) Kind() Kind     { return KindDtorDecl }
func (*GetterDecl) Kind() Kind   { return KindGetterDecl }
func (*SetterDecl) Kind() Kind   { return KindSetterDecl }
func (*Param) Kind() Kind        { return KindParam }
func (*ThisParam) Kind() Kind    { return KindThisParam }
func (*RestParam) Kind() Kind    { return KindRestParam }
func (*VarDecl) Kind() Kind      { return KindVarDecl }
func (*VarItem) Kind() Kind      { return KindVarItem }
func (*EnumDecl) Kind() Kind     { return KindEnumDecl }
func (*UseDecl) Kind() Kind      { return KindUseDecl }
func (*UseAlias) Kind() Kind     { return KindUseAlias }
func (*UseUnpack) Kind() Kind    { return KindUseUnpack }
func (*RequireDecl) Kind() Kind  { return KindRequireDecl }
func (*LabelDecl) Kind() Kind    { return KindLabelDecl }
func (*AliasDecl) Kind() Kind    { return KindAliasDecl }
func (*TraitUse) Kind() Kind     { return KindTraitUse }
func (*TraitUseItem) Kind() Kind { return KindTraitUseItem }
