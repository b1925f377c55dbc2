package ast

import "fmt"

// Op is an operator token kept on expression nodes.
type Op uint8

const (
	OpInvalid Op = iota

	// arithmetic
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow

	// bitwise
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr

	// relational
	OpGt
	OpLt
	OpGte
	OpLte
	OpEq
	OpNeq

	// boolean
	OpAnd
	OpOr
	OpXor

	OpConcat
	OpIn
	OpNotIn
	OpRange

	// check-expr
	OpIs
	OpNotIs

	// unary
	OpNeg
	OpPos
	OpNot
	OpBitNot
	OpRef
	OpInc
	OpDec

	// assignment
	OpAssign
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
	OpModAssign
	OpPowAssign
	OpConcatAssign
	OpBitAndAssign
	OpBitOrAssign
	OpBitXorAssign
	OpShlAssign
	OpShrAssign

	opCount
)

var opText = [...]string{
	OpInvalid:      "<invalid>",
	OpAdd:          "+",
	OpSub:          "-",
	OpMul:          "*",
	OpDiv:          "/",
	OpMod:          "%",
	OpPow:          "**",
	OpBitAnd:       "&",
	OpBitOr:        "|",
	OpBitXor:       "^",
	OpShl:          "<<",
	OpShr:          ">>",
	OpGt:           ">",
	OpLt:           "<",
	OpGte:          ">=",
	OpLte:          "<=",
	OpEq:           "==",
	OpNeq:          "!=",
	OpAnd:          "&&",
	OpOr:           "||",
	OpXor:          "^^",
	OpConcat:       "~",
	OpIn:           "in",
	OpNotIn:        "!in",
	OpRange:        "..",
	OpIs:           "is",
	OpNotIs:        "!is",
	OpNeg:          "-",
	OpPos:          "+",
	OpNot:          "!",
	OpBitNot:       "~",
	OpRef:          "&",
	OpInc:          "++",
	OpDec:          "--",
	OpAssign:       "=",
	OpAddAssign:    "+=",
	OpSubAssign:    "-=",
	OpMulAssign:    "*=",
	OpDivAssign:    "/=",
	OpModAssign:    "%=",
	OpPowAssign:    "**=",
	OpConcatAssign: "~=",
	OpBitAndAssign: "&=",
	OpBitOrAssign:  "|=",
	OpBitXorAssign: "^=",
	OpShlAssign:    "<<=",
	OpShrAssign:    ">>=",
}

func (op Op) String() string {
	if op < opCount {
		return opText[op]
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// Category groups binary operators the way the reducer folds them.
type OpCategory uint8

const (
	OpCatNone OpCategory = iota
	OpCatArith
	OpCatBitwise
	OpCatRelational
	OpCatEquality
	OpCatBoolean
	OpCatConcat
	OpCatMembership
	OpCatRange
)

func (op Op) Category() OpCategory {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod, OpPow:
		return OpCatArith
	case OpBitAnd, OpBitOr, OpBitXor, OpShl, OpShr:
		return OpCatBitwise
	case OpGt, OpLt, OpGte, OpLte:
		return OpCatRelational
	case OpEq, OpNeq:
		return OpCatEquality
	case OpAnd, OpOr, OpXor:
		return OpCatBoolean
	case OpConcat:
		return OpCatConcat
	case OpIn, OpNotIn:
		return OpCatMembership
	case OpRange:
		return OpCatRange
	default:
		return OpCatNone
	}
}

// IsAssign reports whether op is `=` or a compound assignment.
func (op Op) IsAssign() bool { return op >= OpAssign && op < opCount }

// Binary returns the operator a compound assignment applies, OpInvalid for
// plain `=`.
func (op Op) Binary() Op {
	switch op {
	case OpAddAssign:
		return OpAdd
	case OpSubAssign:
		return OpSub
	case OpMulAssign:
		return OpMul
	case OpDivAssign:
		return OpDiv
	case OpModAssign:
		return OpMod
	case OpPowAssign:
		return OpPow
	case OpConcatAssign:
		return OpConcat
	case OpBitAndAssign:
		return OpBitAnd
	case OpBitOrAssign:
		return OpBitOr
	case OpBitXorAssign:
		return OpBitXor
	case OpShlAssign:
		return OpShl
	case OpShrAssign:
		return OpShr
	default:
		return OpInvalid
	}
}
