// Package value models compile-time constants produced by the reducer.
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	// KindNone is "not computed yet"; the zero Value is none.
	KindNone Kind = iota
	// KindUndef is "proven not constant".
	KindUndef
	KindInt
	KindFloat
	KindString
	KindBool
	KindList
	KindDict
	// KindNew is an instance produced by a new-expression.
	KindNew
	KindNull
	// KindSymbol refers to a declaration (function, class).
	KindSymbol
	KindTuple
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindUndef:
		return "undef"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	case KindNew:
		return "new"
	case KindNull:
		return "null"
	case KindSymbol:
		return "symbol"
	case KindTuple:
		return "tuple"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Entry is one dict slot; dicts keep insertion order.
type Entry struct {
	Key Value
	Val Value
}

// Value is passed by value. Composite payloads are shared and must not be
// mutated after construction.
type Value struct {
	kind   Kind
	frozen bool
	i      int64
	f      float64
	s      string
	b      bool
	items  []Value // list, tuple
	dict   []Entry
	sym    uint32 // symbol, new
}

var (
	undef = Value{kind: KindUndef, frozen: true}
	none  = Value{kind: KindNone, frozen: true}
)

// Undef returns the canonical frozen undef.
func Undef() Value { return undef }

// None returns the canonical frozen none.
func None() Value { return none }

func MakeInt(n int64) Value     { return Value{kind: KindInt, i: n} }
func MakeFloat(f float64) Value { return Value{kind: KindFloat, f: f} }
func MakeString(s string) Value { return Value{kind: KindString, s: s} }
func MakeBool(b bool) Value     { return Value{kind: KindBool, b: b} }
func MakeNull() Value           { return Value{kind: KindNull} }

// MakeList copies items.
func MakeList(items ...Value) Value {
	return Value{kind: KindList, items: append([]Value(nil), items...)}
}

// MakeTuple copies items.
func MakeTuple(items ...Value) Value {
	return Value{kind: KindTuple, items: append([]Value(nil), items...)}
}

// MakeDict copies entries; a later duplicate key replaces the earlier one.
func MakeDict(entries ...Entry) Value {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		replaced := false
		for i := range out {
			if Equal(out[i].Key, e.Key) {
				out[i].Val = e.Val
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, e)
		}
	}
	return Value{kind: KindDict, dict: out}
}

// MakeSymbol refers to the declaration with the given symbol id.
func MakeSymbol(id uint32) Value { return Value{kind: KindSymbol, sym: id} }

// MakeNew is an instance of the class with the given symbol id.
func MakeNew(class uint32) Value { return Value{kind: KindNew, sym: class} }

func (v Value) Kind() Kind { return v.kind }

// Frozen values are shared constants; the canonical undef/none always are.
func (v Value) Frozen() bool { return v.frozen }

// Freeze returns a frozen copy of v.
func (v Value) Freeze() Value {
	v.frozen = true
	return v
}

func (v Value) IsUndef() bool { return v.kind == KindUndef }
func (v Value) IsNone() bool  { return v.kind == KindNone }

// IsConst reports whether v holds an actual constant.
func (v Value) IsConst() bool { return v.kind != KindUndef && v.kind != KindNone }

func (v Value) Int() int64        { return v.i }
func (v Value) Float() float64    { return v.f }
func (v Value) Str() string       { return v.s }
func (v Value) Bool() bool        { return v.b }
func (v Value) Items() []Value    { return v.items }
func (v Value) Entries() []Entry  { return v.dict }
func (v Value) SymbolRef() uint32 { return v.sym }

// Len returns the element count of a list, tuple or dict.
func (v Value) Len() int {
	switch v.kind {
	case KindList, KindTuple:
		return len(v.items)
	case KindDict:
		return len(v.dict)
	case KindString:
		return len(v.s)
	}
	return 0
}

// Index returns element i of a list, tuple or string.
func (v Value) Index(i int64) (Value, bool) {
	switch v.kind {
	case KindList, KindTuple:
		if i < 0 || i >= int64(len(v.items)) {
			return Undef(), false
		}
		return v.items[i], true
	case KindString:
		if i < 0 || i >= int64(len(v.s)) {
			return Undef(), false
		}
		return MakeString(v.s[i : i+1]), true
	}
	return Undef(), false
}

// Equal is strict equality: kinds must match.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindInt:
		return a.i == b.i
	case KindFloat:
		return a.f == b.f
	case KindString:
		return a.s == b.s
	case KindBool:
		return a.b == b.b
	case KindList, KindTuple:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindDict:
		if len(a.dict) != len(b.dict) {
			return false
		}
		for i := range a.dict {
			if !Equal(a.dict[i].Key, b.dict[i].Key) || !Equal(a.dict[i].Val, b.dict[i].Val) {
				return false
			}
		}
		return true
	case KindSymbol, KindNew:
		return a.sym == b.sym
	case KindNull:
		return true
	}
	// undef and none are never equal to anything
	return false
}

func (v Value) String() string {
	switch v.kind {
	case KindNone, KindUndef, KindNull:
		return v.kind.String()
	case KindInt:
		return "int(" + strconv.FormatInt(v.i, 10) + ")"
	case KindFloat:
		return "float(" + formatFloat(v.f) + ")"
	case KindString:
		return "string(" + strconv.Quote(v.s) + ")"
	case KindBool:
		return "bool(" + strconv.FormatBool(v.b) + ")"
	case KindList, KindTuple:
		parts := make([]string, len(v.items))
		for i, it := range v.items {
			parts[i] = it.String()
		}
		return v.kind.String() + "[" + strings.Join(parts, ", ") + "]"
	case KindDict:
		parts := make([]string, len(v.dict))
		for i, e := range v.dict {
			parts[i] = e.Key.String() + ": " + e.Val.String()
		}
		return "dict{" + strings.Join(parts, ", ") + "}"
	case KindSymbol:
		return fmt.Sprintf("symbol#%d", v.sym)
	case KindNew:
		return fmt.Sprintf("new#%d", v.sym)
	}
	return fmt.Sprintf("<unknown:%d>", v.kind)
}
