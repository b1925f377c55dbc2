package sema

import (
	"fmt"
	"strings"

	"phs/internal/ast"
	"phs/internal/diag"
	"phs/internal/session"
	"phs/internal/source"
	"phs/internal/value"
)

// Env supplies what a reduction cannot read off the tree.
type Env interface {
	// Name returns the value a name holds where it is read.
	Name(n ast.Node) value.Value
	// Member returns the value of a static member of the class symbol.
	Member(class uint32, name string) value.Value
	// Engine returns the value of an engine constant at its position.
	Engine(n *ast.EngineConst) value.Value
}

// Reducer folds expressions into compile-time values. Anything that is not
// a constant reduces to undef; that is not an error. Results are memoized
// per node, so a node reports its diagnostics once.
type Reducer struct {
	sess   *session.Session
	env    Env
	values map[ast.Node]value.Value
}

// NewReducer returns a reducer recording into values. A nil env leaves
// names and engine constants unreduced.
func NewReducer(sess *session.Session, env Env, values map[ast.Node]value.Value) *Reducer {
	if values == nil {
		values = make(map[ast.Node]value.Value)
	}
	return &Reducer{sess: sess, env: env, values: values}
}

// Reduce folds n without any symbol context.
func Reduce(sess *session.Session, n ast.Node) value.Value {
	return NewReducer(sess, nil, nil).Reduce(n)
}

// Set records v as the value of n; a later Reduce(n) returns it.
func (r *Reducer) Set(n ast.Node, v value.Value) { r.values[n] = v }

// Lookup returns the value recorded for n.
func (r *Reducer) Lookup(n ast.Node) (value.Value, bool) {
	v, ok := r.values[n]
	return v, ok
}

// Reduce returns the value of expression n.
func (r *Reducer) Reduce(n ast.Node) value.Value {
	if ast.IsNil(n) {
		return value.Undef()
	}
	if v, ok := r.values[n]; ok {
		return v
	}
	v := r.reduce(n)
	r.values[n] = v
	return v
}

func (r *Reducer) reduce(n ast.Node) value.Value {
	switch n := n.(type) {
	case *ast.IntLit:
		return value.MakeInt(n.Value)
	case *ast.FloatLit:
		return value.MakeFloat(n.Value)
	case *ast.StrLit:
		return r.str(n)
	case *ast.KStrLit:
		return value.MakeString(n.Value)
	case *ast.NullLit:
		return value.MakeNull()
	case *ast.TrueLit:
		return value.MakeBool(true)
	case *ast.FalseLit:
		return value.MakeBool(false)
	case *ast.ParenExpr:
		return r.Reduce(n.Expr)
	case *ast.TupleExpr:
		items, ok := r.seq(n.Seq)
		if !ok {
			return value.Undef()
		}
		return value.MakeTuple(items...)
	case *ast.ArrLit:
		items, ok := r.seq(n.Items)
		if !ok {
			return value.Undef()
		}
		return value.MakeList(items...)
	case *ast.ObjLit:
		return r.dict(n)
	case *ast.BinExpr:
		return r.binary(n)
	case *ast.UnaryExpr:
		return r.unary(n)
	case *ast.CondExpr:
		return r.cond(n)
	case *ast.CastExpr:
		return r.cast(n)
	case *ast.CheckExpr:
		return r.check(n)
	case *ast.AssignExpr:
		if n.Op == ast.OpAssign {
			return r.Reduce(n.Right)
		}
		return r.Fold(n.Op.Binary(), r.Reduce(n.Left), r.Reduce(n.Right), n.Span())
	case *ast.OffsetExpr:
		return r.offset(n)
	case *ast.MemberExpr:
		return r.member(n)
	case *ast.Name, *ast.Ident:
		if r.env != nil {
			return r.env.Name(n)
		}
		return value.Undef()
	case *ast.EngineConst:
		if r.env != nil {
			return r.env.Engine(n)
		}
		return value.Undef()
	case *ast.DelExpr:
		return value.None()
	case *ast.CallExpr, *ast.NewExpr, *ast.YieldExpr, *ast.UpdateExpr,
		*ast.FnExpr, *ast.NamedArg, *ast.RestArg, *ast.RegexpLit,
		*ast.TypeID, *ast.ThisExpr, *ast.SuperExpr, *ast.SelfExpr:
		// runtime only
		return value.Undef()
	default:
		ast.Unexpected(n)
		return value.Undef()
	}
}

func (r *Reducer) seq(items []ast.Node) ([]value.Value, bool) {
	out := make([]value.Value, len(items))
	ok := true
	for i, it := range items {
		out[i] = r.Reduce(it)
		if !out[i].IsConst() {
			ok = false
		}
	}
	return out, ok
}

func (r *Reducer) binary(n *ast.BinExpr) value.Value {
	l := r.Reduce(n.Left)
	if n.Op == ast.OpAnd || n.Op == ast.OpOr {
		if lb, ok := value.ToBool(l); ok {
			if n.Op == ast.OpAnd && !lb.Bool() {
				return value.MakeBool(false)
			}
			if n.Op == ast.OpOr && lb.Bool() {
				return value.MakeBool(true)
			}
		}
	}
	return r.Fold(n.Op, l, r.Reduce(n.Right), n.Span())
}

// Fold applies the binary operator op to two reduced operands. sp is
// where a division by zero gets reported.
func (r *Reducer) Fold(op ast.Op, l, rv value.Value, sp source.Span) value.Value {
	if !l.IsConst() || !rv.IsConst() {
		return value.Undef()
	}
	switch op.Category() {
	case ast.OpCatArith:
		v, zero := arith(op, l, rv)
		if zero {
			r.sess.Warnf(diag.RedDivisionByZero, sp, "division by zero")
		}
		return v
	case ast.OpCatBitwise:
		return bitwise(op, l, rv)
	case ast.OpCatRelational:
		return relational(op, l, rv)
	case ast.OpCatEquality:
		// instances compare by identity at runtime
		if l.Kind() == value.KindNew || rv.Kind() == value.KindNew {
			return value.Undef()
		}
		eq := value.Equal(l, rv)
		if op == ast.OpNeq {
			eq = !eq
		}
		return value.MakeBool(eq)
	case ast.OpCatBoolean:
		return boolean(op, l, rv)
	case ast.OpCatConcat:
		ls, lok := value.ToStr(l)
		rs, rok := value.ToStr(rv)
		if !lok || !rok {
			return value.Undef()
		}
		return value.MakeString(ls.Str() + rs.Str())
	case ast.OpCatMembership:
		return membership(op, l, rv)
	case ast.OpCatRange:
		return rangeOf(l, rv)
	}
	return value.Undef()
}

func (r *Reducer) unary(n *ast.UnaryExpr) value.Value {
	v := r.Reduce(n.Expr)
	if !v.IsConst() {
		return value.Undef()
	}
	switch n.Op {
	case ast.OpNeg:
		return negate(v)
	case ast.OpPos:
		if num, ok := value.ToNum(v); ok {
			return num
		}
	case ast.OpBitNot:
		if i, ok := value.ToInt(v); ok {
			return value.MakeInt(^i.Int())
		}
	case ast.OpNot:
		if b, ok := value.ToBool(v); ok {
			return value.MakeBool(!b.Bool())
		}
	}
	return value.Undef()
}

// cond needs both arms constant even though only one is taken.
func (r *Reducer) cond(n *ast.CondExpr) value.Value {
	test := r.Reduce(n.Test)
	then := test
	if !ast.IsNil(n.Then) {
		then = r.Reduce(n.Then)
	}
	els := r.Reduce(n.Else)
	if !test.IsConst() || !then.IsConst() || !els.IsConst() {
		return value.Undef()
	}
	b, ok := value.ToBool(test)
	if !ok {
		return value.Undef()
	}
	if b.Bool() {
		return then
	}
	return els
}

func (r *Reducer) cast(n *ast.CastExpr) value.Value {
	v := r.Reduce(n.Expr)
	tid, ok := n.Type.(*ast.TypeID)
	if !ok || !v.IsConst() {
		return value.Undef()
	}
	var out value.Value
	switch tid.Type {
	case ast.TypeInt:
		out, ok = value.ToInt(v)
	case ast.TypeFloat:
		out, ok = value.ToFloat(v)
	case ast.TypeString:
		out, ok = value.ToStr(v)
	case ast.TypeBool:
		out, ok = value.ToBool(v)
	default:
		ok = false
	}
	if !ok {
		return value.Undef()
	}
	return out
}

func (r *Reducer) check(n *ast.CheckExpr) value.Value {
	v := r.Reduce(n.Left)
	tid, ok := n.Right.(*ast.TypeID)
	if !ok || !v.IsConst() {
		return value.Undef()
	}
	var is bool
	switch tid.Type {
	case ast.TypeInt:
		is = v.Kind() == value.KindInt
	case ast.TypeFloat:
		is = v.Kind() == value.KindFloat
	case ast.TypeString:
		is = v.Kind() == value.KindString
	case ast.TypeBool:
		is = v.Kind() == value.KindBool
	case ast.TypeRegexp:
		is = false
	default:
		return value.Undef()
	}
	if n.Op == ast.OpNotIs {
		is = !is
	}
	return value.MakeBool(is)
}

func (r *Reducer) offset(n *ast.OffsetExpr) value.Value {
	obj := r.Reduce(n.Object)
	off := r.Reduce(n.Offset)
	if !obj.IsConst() || !off.IsConst() {
		return value.Undef()
	}
	switch obj.Kind() {
	case value.KindList, value.KindTuple, value.KindString:
		idx, ok := value.ToInt(off)
		if !ok {
			r.badOffset(n.Offset, off, "expected an integer-ish value")
			return value.Undef()
		}
		v, ok := obj.Index(idx.Int())
		if !ok {
			r.sess.Warnf(diag.RedOffsetRange, n.Offset.Span(), "offset %d is out of range", idx.Int())
			return value.Undef()
		}
		return v
	case value.KindDict:
		key, ok := value.ToStr(off)
		if !ok {
			r.badOffset(n.Offset, off, "expected a string-ish value")
			return value.Undef()
		}
		v, ok := dictGet(obj, key)
		if !ok {
			r.sess.Warnf(diag.RedOffsetRange, n.Offset.Span(), "undefined offset %q", key.Str())
			return value.Undef()
		}
		return v
	}
	r.sess.Errorf(diag.RedIllegalOffset, n.Object.Span(), "illegal offset left-hand-side %s", obj)
	return value.Undef()
}

func (r *Reducer) badOffset(at ast.Node, v value.Value, want string) {
	diag.ReportError(r.sess.Reporter(), diag.RedOffsetType, at.Span(), "illegal offset type").
		WithNote(at.Span(), fmt.Sprintf("%s, value is %s", want, v)).
		Emit()
}

func (r *Reducer) member(n *ast.MemberExpr) value.Value {
	obj := r.Reduce(n.Object)
	var name string
	if n.Computed {
		m := r.Reduce(n.Member)
		if !m.IsConst() {
			return value.Undef()
		}
		s, ok := value.ToStr(m)
		if !ok {
			diag.ReportError(r.sess.Reporter(), diag.RedOffsetType, n.Member.Span(), "illegal member-subscript type").
				WithNote(n.Member.Span(), fmt.Sprintf("expected a string-ish value, value is %s", m)).
				Emit()
			return value.Undef()
		}
		name = s.Str()
	} else if id, ok := n.Member.(*ast.Ident); ok {
		name = id.Name
	} else {
		return value.Undef()
	}
	switch obj.Kind() {
	case value.KindDict:
		if v, ok := dictGet(obj, value.MakeString(name)); ok {
			return v
		}
	case value.KindSymbol:
		if r.env != nil {
			return r.env.Member(obj.SymbolRef(), name)
		}
	}
	return value.Undef()
}

func (r *Reducer) dict(n *ast.ObjLit) value.Value {
	entries := make([]value.Entry, 0, len(n.Pairs))
	ok := true
	for _, p := range n.Pairs {
		key := value.Undef()
		if id, isIdent := p.Key.(*ast.Ident); isIdent {
			key = value.MakeString(id.Name)
		} else if kv := r.Reduce(p.Key); kv.IsConst() {
			s, conv := value.ToStr(kv)
			if !conv {
				diag.ReportError(r.sess.Reporter(), diag.RedDictKey, p.Key.Span(), "illegal dictionary-key").
					WithNote(p.Key.Span(), fmt.Sprintf("expected a string-ish value, value is %s", kv)).
					Emit()
			}
			key = s
		}
		arg := r.Reduce(p.Arg)
		if !key.IsConst() || !arg.IsConst() {
			ok = false
			continue
		}
		entries = append(entries, value.Entry{Key: key, Val: arg})
	}
	if !ok {
		return value.Undef()
	}
	return value.MakeDict(entries...)
}

// str concatenates the pieces of an interpolated string. A `c"..."` string
// must reduce completely.
func (r *Reducer) str(n *ast.StrLit) value.Value {
	if len(n.Parts) == 0 {
		return value.MakeString(n.Value)
	}
	var sb strings.Builder
	for _, p := range n.Parts {
		if lit, ok := p.(*ast.StrLit); ok && len(lit.Parts) == 0 {
			sb.WriteString(lit.Value)
			continue
		}
		s, ok := value.ToStr(r.Reduce(p))
		if !ok {
			if n.Const {
				r.sess.Errorf(diag.RedSubstitution, p.Span(),
					"constant string-interpolation must be convertible to a string value")
			}
			return value.Undef()
		}
		sb.WriteString(s.Str())
	}
	return value.MakeString(sb.String())
}

func dictGet(d, key value.Value) (value.Value, bool) {
	for _, e := range d.Entries() {
		if value.Equal(e.Key, key) {
			return e.Val, true
		}
	}
	return value.Undef(), false
}
