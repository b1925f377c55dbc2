package sema

import (
	"math"
	"strings"

	"phs/internal/ast"
	"phs/internal/value"
)

// maxRange caps the size of a folded range literal.
const maxRange = 1 << 16

// arith folds an arithmetic operator. zero reports a division by zero, in
// which case the result is false like at runtime.
func arith(op ast.Op, l, r value.Value) (v value.Value, zero bool) {
	ln, lok := value.ToNum(l)
	rn, rok := value.ToNum(r)
	if !lok || !rok {
		return value.Undef(), false
	}
	float := ln.Kind() == value.KindFloat || rn.Kind() == value.KindFloat
	switch op {
	case ast.OpDiv:
		if num(rn) == 0 {
			return value.MakeBool(false), true
		}
		return value.MakeFloat(num(ln) / num(rn)), false
	case ast.OpMod:
		a, _ := value.ToInt(ln)
		b, _ := value.ToInt(rn)
		if b.Int() == 0 {
			return value.MakeBool(false), true
		}
		return value.MakeFloat(float64(a.Int() % b.Int())), false
	case ast.OpPow:
		if !float && rn.Int() >= 0 {
			if p, ok := ipow(ln.Int(), rn.Int()); ok {
				return value.MakeInt(p), false
			}
		}
		return value.MakeFloat(math.Pow(num(ln), num(rn))), false
	}
	if !float {
		if n, ok := iarith(op, ln.Int(), rn.Int()); ok {
			return value.MakeInt(n), false
		}
		// overflow promotes
	}
	a, b := num(ln), num(rn)
	switch op {
	case ast.OpAdd:
		return value.MakeFloat(a + b), false
	case ast.OpSub:
		return value.MakeFloat(a - b), false
	case ast.OpMul:
		return value.MakeFloat(a * b), false
	}
	return value.Undef(), false
}

func num(v value.Value) float64 {
	if v.Kind() == value.KindInt {
		return float64(v.Int())
	}
	return v.Float()
}

func iarith(op ast.Op, a, b int64) (int64, bool) {
	switch op {
	case ast.OpAdd:
		c := a + b
		if (b > 0 && c < a) || (b < 0 && c > a) {
			return 0, false
		}
		return c, true
	case ast.OpSub:
		c := a - b
		if (b > 0 && c > a) || (b < 0 && c < a) {
			return 0, false
		}
		return c, true
	case ast.OpMul:
		return imul(a, b)
	}
	return 0, false
}

func imul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	c := a * b
	if c/b != a {
		return 0, false
	}
	return c, true
}

// ipow computes base**exp for exp >= 0 by squaring.
func ipow(base, exp int64) (int64, bool) {
	result := int64(1)
	var ok bool
	for exp > 0 {
		if exp&1 == 1 {
			if result, ok = imul(result, base); !ok {
				return 0, false
			}
		}
		exp >>= 1
		if exp > 0 {
			if base, ok = imul(base, base); !ok {
				return 0, false
			}
		}
	}
	return result, true
}

func negate(v value.Value) value.Value {
	n, ok := value.ToNum(v)
	if !ok {
		return value.Undef()
	}
	if n.Kind() == value.KindFloat {
		return value.MakeFloat(-n.Float())
	}
	if n.Int() == math.MinInt64 {
		return value.MakeFloat(-float64(n.Int()))
	}
	return value.MakeInt(-n.Int())
}

func bitwise(op ast.Op, l, r value.Value) value.Value {
	li, lok := value.ToInt(l)
	ri, rok := value.ToInt(r)
	if !lok || !rok {
		return value.Undef()
	}
	a, b := li.Int(), ri.Int()
	switch op {
	case ast.OpBitAnd:
		return value.MakeInt(a & b)
	case ast.OpBitOr:
		return value.MakeInt(a | b)
	case ast.OpBitXor:
		return value.MakeInt(a ^ b)
	case ast.OpShl:
		if b < 0 {
			return value.Undef()
		}
		return value.MakeInt(a << uint64(b))
	case ast.OpShr:
		if b < 0 {
			return value.Undef()
		}
		return value.MakeInt(a >> uint64(b))
	}
	return value.Undef()
}

func relational(op ast.Op, l, r value.Value) value.Value {
	ln, lok := value.ToNum(l)
	rn, rok := value.ToNum(r)
	if !lok || !rok {
		return value.Undef()
	}
	var c int
	if ln.Kind() == value.KindInt && rn.Kind() == value.KindInt {
		c = cmpInt(ln.Int(), rn.Int())
	} else {
		a, b := num(ln), num(rn)
		if math.IsNaN(a) || math.IsNaN(b) {
			return value.MakeBool(false)
		}
		c = cmpFloat(a, b)
	}
	switch op {
	case ast.OpGt:
		return value.MakeBool(c > 0)
	case ast.OpLt:
		return value.MakeBool(c < 0)
	case ast.OpGte:
		return value.MakeBool(c >= 0)
	case ast.OpLte:
		return value.MakeBool(c <= 0)
	}
	return value.Undef()
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func boolean(op ast.Op, l, r value.Value) value.Value {
	lb, lok := value.ToBool(l)
	rb, rok := value.ToBool(r)
	if !lok || !rok {
		return value.Undef()
	}
	switch op {
	case ast.OpAnd:
		return value.MakeBool(lb.Bool() && rb.Bool())
	case ast.OpOr:
		return value.MakeBool(lb.Bool() || rb.Bool())
	case ast.OpXor:
		return value.MakeBool(lb.Bool() != rb.Bool())
	}
	return value.Undef()
}

func membership(op ast.Op, l, r value.Value) value.Value {
	var in bool
	switch r.Kind() {
	case value.KindList, value.KindTuple:
		for _, it := range r.Items() {
			if value.Equal(l, it) {
				in = true
				break
			}
		}
	case value.KindDict:
		_, in = dictGet(r, l)
	case value.KindString:
		if l.Kind() != value.KindString {
			return value.Undef()
		}
		in = strings.Contains(r.Str(), l.Str())
	default:
		return value.Undef()
	}
	if op == ast.OpNotIn {
		in = !in
	}
	return value.MakeBool(in)
}

// rangeOf folds `a .. b` into a list stepping by one towards b.
func rangeOf(l, r value.Value) value.Value {
	ln, lok := value.ToNum(l)
	rn, rok := value.ToNum(r)
	if !lok || !rok {
		return value.Undef()
	}
	if ln.Kind() == value.KindInt && rn.Kind() == value.KindInt {
		a, b := ln.Int(), rn.Int()
		span := b - a
		if a > b {
			span = a - b
		}
		if span < 0 || span >= maxRange {
			return value.Undef()
		}
		items := make([]value.Value, 0, span+1)
		for i := int64(0); i <= span; i++ {
			if a <= b {
				items = append(items, value.MakeInt(a+i))
			} else {
				items = append(items, value.MakeInt(a-i))
			}
		}
		return value.MakeList(items...)
	}
	a, b := num(ln), num(rn)
	if math.IsNaN(a) || math.IsNaN(b) || math.Abs(b-a) >= maxRange {
		return value.Undef()
	}
	step := 1.0
	if a > b {
		step = -1
	}
	var items []value.Value
	for x := a; (step > 0 && x <= b) || (step < 0 && x >= b); x += step {
		items = append(items, value.MakeFloat(x))
	}
	return value.MakeList(items...)
}
