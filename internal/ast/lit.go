package ast

import "strings"

type IntLit struct {
	Base
	Value int64
}

type FloatLit struct {
	Base
	Value float64
}

// StrLit is a string literal. Parts, when present, is the interpolation
// sequence: plain pieces are *StrLit without parts, everything else is an
// expression. Const marks `c"..."` where every substitution must fold.
type StrLit struct {
	Base
	Value string
	Parts []Node
	Const bool
}

// KStrLit is a raw (non-interpolated) string.
type KStrLit struct {
	Base
	Value string
}

type RegexpLit struct {
	Base
	Value string
}

type ArrLit struct {
	Base
	Items []Node
}

type ObjLit struct {
	Base
	Pairs []*ObjPair
}

type ObjPair struct {
	Base
	Key Node
	Arg Node
}

type NullLit struct{ Base }
type TrueLit struct{ Base }
type FalseLit struct{ Base }
type ThisExpr struct{ Base }
type SuperExpr struct{ Base }
type SelfExpr struct{ Base }

type EngineKind uint8

const (
	EngineInvalid EngineKind = iota
	EngineLine
	EngineFile
	EngineDir
	EngineClass
	EngineMethod
	EngineFn
)

var engineNames = [...]string{
	EngineInvalid: "<invalid>",
	EngineLine:    "__LINE__",
	EngineFile:    "__FILE__",
	EngineDir:     "__DIR__",
	EngineClass:   "__CLASS__",
	EngineMethod:  "__METHOD__",
	EngineFn:      "__FN__",
}

func (e EngineKind) String() string {
	if int(e) < len(engineNames) {
		return engineNames[e]
	}
	return "<invalid>"
}

type EngineConst struct {
	Base
	Const EngineKind
}

// TypeKind is a primitive type name usable in casts and hints.
type TypeKind uint8

const (
	TypeInvalid TypeKind = iota
	TypeInt
	TypeBool
	TypeFloat
	TypeString
	TypeRegexp
)

var typeNames = [...]string{
	TypeInvalid: "<invalid>",
	TypeInt:     "int",
	TypeBool:    "bool",
	TypeFloat:   "float",
	TypeString:  "string",
	TypeRegexp:  "regexp",
}

func (t TypeKind) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "<invalid>"
}

type TypeID struct {
	Base
	Type TypeKind
}

type Ident struct {
	Base
	Name string
}

// Name is a possibly qualified path `::a::b::c`. Parts[0] is the base.
// Self marks the `self::x` form.
type Name struct {
	Base
	Root  bool
	Self  bool
	Parts []*Ident
}

// Strings returns the path segments as plain strings.
func (n *Name) Strings() []string {
	out := make([]string, len(n.Parts))
	for i, p := range n.Parts {
		out[i] = p.Name
	}
	return out
}

// Last returns the final segment.
func (n *Name) Last() *Ident {
	if len(n.Parts) == 0 {
		return nil
	}
	return n.Parts[len(n.Parts)-1]
}

func (n *Name) String() string {
	s := strings.Join(n.Strings(), "::")
	switch {
	case n.Self:
		return "self::" + s
	case n.Root:
		return "::" + s
	}
	return s
}

func (*IntLit) Kind() Kind      { return KindIntLit }
func (*FloatLit) Kind() Kind    { return KindFloatLit }
func (*StrLit) Kind() Kind      { return KindStrLit }
func (*KStrLit) Kind() Kind     { return KindKStrLit }
func (*RegexpLit) Kind() Kind   { return KindRegexpLit }
func (*ArrLit) Kind() Kind      { return KindArrLit }
func (*ObjLit) Kind() Kind      { return KindObjLit }
func (*ObjPair) Kind() Kind     { return KindObjPair }
func (*NullLit) Kind() Kind     { return KindNullLit }
func (*TrueLit) Kind() Kind     { return KindTrueLit }
func (*FalseLit) Kind() Kind    { return KindFalseLit }
func (*ThisExpr) Kind() Kind    { return KindThisExpr }
func (*SuperExpr) Kind() Kind   { return KindSuperExpr }
func (*SelfExpr) Kind() Kind    { return KindSelfExpr }
func (*EngineConst) Kind() Kind { return KindEngineConst }
func (*TypeID) Kind() Kind      { return KindTypeID }
func (*Ident) Kind() Kind       { return KindIdent }
func (*Name) Kind() Kind        { return KindName }
