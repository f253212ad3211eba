package ast

import (
	"fmt"

	"arbor/internal/types"
)

// TypeOf returns the resolved type of an expression, pattern, constant,
// guard or statement. It panics on unresolved slots and on nodes that have
// no type.
func TypeOf(n Node) *types.Type {
	switch n := n.(type) {
	case Expr:
		return ExprType(n)
	case Pattern:
		return PatternType(n)
	case Constant:
		return ConstantType(n)
	case ClauseGuard:
		return GuardType(n)
	case Statement:
		return StatementType(n)
	}
	panic(fmt.Errorf("ast: %T has no type", n))
}

func ExprType(e Expr) *types.Type {
	switch e := e.(type) {
	case *IntExpr:
		return types.Int()
	case *FloatExpr:
		return types.Float()
	case *StringExpr:
		return types.String()
	case *VarExpr:
		return e.Constructor.Must().Type
	case *ModuleSelectExpr:
		return e.Constructor.Must().Type
	case *FnExpr:
		return e.Type.Must()
	case *ListExpr:
		return e.Type.Must()
	case *CallExpr:
		return e.Type.Must()
	case *BinOpExpr:
		return e.Op.ResultType()
	case *CaseExpr:
		return e.Type.Must()
	case *RecordAccessExpr:
		return e.Type.Must()
	case *TupleExpr:
		elems := make([]*types.Type, len(e.Elements))
		for i, el := range e.Elements {
			elems[i] = ExprType(el)
		}
		return types.Tuple(elems...)
	case *TupleIndexExpr:
		return e.Type.Must()
	case *TodoExpr:
		return e.Type.Must()
	case *PanicExpr:
		return e.Type.Must()
	case *BitStringExpr:
		return types.BitString()
	case *RecordUpdateExpr:
		return e.Type.Must()
	case *NegateBoolExpr:
		return types.Bool()
	case *NegateIntExpr:
		return types.Int()
	case *BlockExpr:
		if len(e.Statements) == 0 {
			return types.Nil()
		}
		return StatementType(e.Statements[len(e.Statements)-1])
	}
	panic(fmt.Errorf("ast: unknown expression %T", e))
}

// StatementType is the type of the value a statement evaluates to. Use
// statements are rewritten before inference finishes and have no type.
func StatementType(s Statement) *types.Type {
	switch s := s.(type) {
	case *ExprStatement:
		return ExprType(s.Expr)
	case *Assignment:
		return ExprType(s.Value)
	case *Use:
		panic(fmt.Errorf("ast: use statement at %s has no type", s.Loc))
	}
	panic(fmt.Errorf("ast: unknown statement %T", s))
}

func PatternType(p Pattern) *types.Type {
	switch p := p.(type) {
	case *IntPattern:
		return types.Int()
	case *FloatPattern:
		return types.Float()
	case *StringPattern, *ConcatenatePattern:
		return types.String()
	case *BitStringPattern:
		return types.BitString()
	case *VarPattern:
		return p.Type.Must()
	case *VarUsagePattern:
		return p.Type.Must()
	case *ListPattern:
		return p.Type.Must()
	case *ConstructorPattern:
		return p.Type.Must()
	case *DiscardPattern:
		return p.Type.Must()
	case *AssignPattern:
		return PatternType(p.Pattern)
	case *TuplePattern:
		elems := make([]*types.Type, len(p.Elems))
		for i, el := range p.Elems {
			elems[i] = PatternType(el)
		}
		return types.Tuple(elems...)
	}
	panic(fmt.Errorf("ast: unknown pattern %T", p))
}

func ConstantType(c Constant) *types.Type {
	switch c := c.(type) {
	case *IntConstant:
		return types.Int()
	case *FloatConstant:
		return types.Float()
	case *StringConstant:
		return types.String()
	case *BitStringConstant:
		return types.BitString()
	case *TupleConstant:
		elems := make([]*types.Type, len(c.Elements))
		for i, el := range c.Elements {
			elems[i] = ConstantType(el)
		}
		return types.Tuple(elems...)
	case *ListConstant:
		return c.Type.Must()
	case *RecordConstant:
		return c.Type.Must()
	case *VarConstant:
		return c.Type.Must()
	}
	panic(fmt.Errorf("ast: unknown constant %T", c))
}

// GuardType is Bool for every operator; operands carry their own types.
func GuardType(g ClauseGuard) *types.Type {
	switch g := g.(type) {
	case *BinaryGuard:
		return types.Bool()
	case *VarGuard:
		return g.Type.Must()
	case *TupleIndexGuard:
		return g.Type.Must()
	case *ConstantGuard:
		return ConstantType(g.Constant)
	}
	panic(fmt.Errorf("ast: unknown guard %T", g))
}
