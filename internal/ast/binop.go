package ast

import (
	"cmp"
	"fmt"

	"arbor/internal/types"
)

// BinOp is a binary operator.
type BinOp uint8

const (
	// Boolean logic
	OpAnd BinOp = iota
	OpOr

	// Equality
	OpEq
	OpNotEq

	// Order comparison
	OpLtInt
	OpLtEqInt
	OpLtFloat
	OpLtEqFloat
	OpGtEqInt
	OpGtInt
	OpGtEqFloat
	OpGtFloat

	// Maths
	OpAddInt
	OpAddFloat
	OpSubInt
	OpSubFloat
	OpMultInt
	OpMultFloat
	OpDivInt
	OpDivFloat
	OpRemainderInt

	// Strings
	OpConcatenate

	binOpCount
)

// PipePrecedence is the rank of `|>`, which sits between concatenation and
// arithmetic. Pipes are not binary expressions in this tree.
const PipePrecedence uint8 = 6

// BinOps lists every operator in declaration order.
func BinOps() []BinOp {
	ops := make([]BinOp, 0, binOpCount)
	for op := range binOpCount {
		ops = append(ops, op)
	}
	return ops
}

// Precedence ranks operators; lower binds looser. Keep in sync with
// GuardOp.Precedence.
func (op BinOp) Precedence() uint8 {
	switch op {
	case OpOr:
		return 1
	case OpAnd:
		return 2
	case OpEq, OpNotEq:
		return 3
	case OpLtInt, OpLtEqInt, OpLtFloat, OpLtEqFloat,
		OpGtEqInt, OpGtInt, OpGtEqFloat, OpGtFloat:
		return 4
	case OpConcatenate:
		return 5
	case OpAddInt, OpAddFloat, OpSubInt, OpSubFloat:
		return 7
	case OpMultInt, OpMultFloat, OpDivInt, OpDivFloat, OpRemainderInt:
		return 8
	}
	panic(fmt.Errorf("ast: unknown binary operator %d", uint8(op)))
}

// ComparePrecedence returns -1, 0 or +1 as a binds looser than, as tight as
// or tighter than b.
func ComparePrecedence(a, b BinOp) int {
	return cmp.Compare(a.Precedence(), b.Precedence())
}

// Token is the canonical surface syntax of the operator.
func (op BinOp) Token() string {
	switch op {
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	case OpLtInt:
		return "<"
	case OpLtEqInt:
		return "<="
	case OpLtFloat:
		return "<."
	case OpLtEqFloat:
		return "<=."
	case OpEq:
		return "=="
	case OpNotEq:
		return "!="
	case OpGtEqInt:
		return ">="
	case OpGtInt:
		return ">"
	case OpGtEqFloat:
		return ">=."
	case OpGtFloat:
		return ">."
	case OpAddInt:
		return "+"
	case OpAddFloat:
		return "+."
	case OpSubInt:
		return "-"
	case OpSubFloat:
		return "-."
	case OpMultInt:
		return "*"
	case OpMultFloat:
		return "*."
	case OpDivInt:
		return "/"
	case OpDivFloat:
		return "/."
	case OpRemainderInt:
		return "%"
	case OpConcatenate:
		return "<>"
	}
	return "?"
}

func (op BinOp) String() string {
	return op.Token()
}

// ParseBinOp maps a token back to its operator.
func ParseBinOp(token string) (BinOp, bool) {
	for op := range binOpCount {
		if op.Token() == token {
			return op, true
		}
	}
	return 0, false
}

// ResultType is the type every application of the operator has.
func (op BinOp) ResultType() *types.Type {
	switch op {
	case OpAnd, OpOr, OpEq, OpNotEq,
		OpLtInt, OpLtEqInt, OpLtFloat, OpLtEqFloat,
		OpGtEqInt, OpGtInt, OpGtEqFloat, OpGtFloat:
		return types.Bool()
	case OpAddInt, OpSubInt, OpMultInt, OpDivInt, OpRemainderInt:
		return types.Int()
	case OpAddFloat, OpSubFloat, OpMultFloat, OpDivFloat:
		return types.Float()
	case OpConcatenate:
		return types.String()
	}
	panic(fmt.Errorf("ast: unknown binary operator %d", uint8(op)))
}

// GuardOp is the operator of a binary clause guard.
type GuardOp uint8

const (
	GuardEquals GuardOp = iota
	GuardNotEquals
	GuardGtInt
	GuardGtEqInt
	GuardLtInt
	GuardLtEqInt
	GuardGtFloat
	GuardGtEqFloat
	GuardLtFloat
	GuardLtEqFloat
	GuardOr
	GuardAnd

	guardOpCount
)

// GuardOperandPrecedence is the rank of constants, variables and tuple
// indexing inside guards: they never need parentheses.
const GuardOperandPrecedence uint8 = 5

// GuardOps lists every guard operator in declaration order.
func GuardOps() []GuardOp {
	ops := make([]GuardOp, 0, guardOpCount)
	for op := range guardOpCount {
		ops = append(ops, op)
	}
	return ops
}

// Precedence ranks guard operators. Keep in sync with BinOp.Precedence.
func (op GuardOp) Precedence() uint8 {
	switch op {
	case GuardOr:
		return 1
	case GuardAnd:
		return 2
	case GuardEquals, GuardNotEquals:
		return 3
	case GuardGtInt, GuardGtEqInt, GuardLtInt, GuardLtEqInt,
		GuardGtFloat, GuardGtEqFloat, GuardLtFloat, GuardLtEqFloat:
		return 4
	}
	panic(fmt.Errorf("ast: unknown guard operator %d", uint8(op)))
}

// BinOp is the expression operator with the same surface syntax.
func (op GuardOp) BinOp() BinOp {
	switch op {
	case GuardEquals:
		return OpEq
	case GuardNotEquals:
		return OpNotEq
	case GuardGtInt:
		return OpGtInt
	case GuardGtEqInt:
		return OpGtEqInt
	case GuardLtInt:
		return OpLtInt
	case GuardLtEqInt:
		return OpLtEqInt
	case GuardGtFloat:
		return OpGtFloat
	case GuardGtEqFloat:
		return OpGtEqFloat
	case GuardLtFloat:
		return OpLtFloat
	case GuardLtEqFloat:
		return OpLtEqFloat
	case GuardOr:
		return OpOr
	case GuardAnd:
		return OpAnd
	}
	panic(fmt.Errorf("ast: unknown guard operator %d", uint8(op)))
}

func (op GuardOp) Token() string {
	return op.BinOp().Token()
}

func (op GuardOp) String() string {
	return op.Token()
}

// ParseGuardOp maps a token back to its guard operator.
func ParseGuardOp(token string) (GuardOp, bool) {
	for op := range guardOpCount {
		if op.Token() == token {
			return op, true
		}
	}
	return 0, false
}
