package ast

import (
	"reflect"

	"arbor/internal/source"
)

// Children returns the direct children of n in source order. Absent
// optional children are skipped.
func Children(n Node) []Node {
	var c collector
	switch n := n.(type) {
	// Definitions
	case *Function:
		for _, arg := range n.Args {
			c.add(arg)
		}
		c.add(n.ReturnAnnotation)
		for _, s := range n.Body {
			c.add(s)
		}
	case *Arg:
		c.add(n.Annotation)
	case *ExternalFunction:
		for _, arg := range n.Args {
			c.add(arg)
		}
		c.add(n.Return)
	case *ExternalFnArg:
		c.add(n.Annotation)
	case *TypeAlias:
		c.add(n.Annotation)
	case *CustomType:
		for _, ctor := range n.Constructors {
			c.add(ctor)
		}
	case *RecordConstructor:
		for _, arg := range n.Args {
			c.add(arg)
		}
	case *RecordConstructorArg:
		c.add(n.Annotation)
	case *ModuleConstant:
		c.add(n.Annotation)
		c.add(n.Value)
	case *Import, *ExternalType:

	// Statements
	case *ExprStatement:
		c.add(n.Expr)
	case *Assignment:
		c.add(n.Pattern)
		c.add(n.Annotation)
		c.add(n.Value)
	case *Use:
		for _, a := range n.Assignments {
			c.add(a)
		}
		c.add(n.Call)
	case *UseAssignment:
		c.add(n.Pattern)
		c.add(n.Annotation)

	// Expressions
	case *FnExpr:
		for _, arg := range n.Args {
			c.add(arg)
		}
		c.add(n.ReturnAnnotation)
		for _, s := range n.Body {
			c.add(s)
		}
	case *ListExpr:
		for _, el := range n.Elements {
			c.add(el)
		}
		c.add(n.Tail)
	case *CallExpr:
		c.add(n.Fun)
		for _, arg := range n.Args {
			c.add(arg)
		}
	case *CallArg[Expr]:
		c.add(n.Value)
	case *BinOpExpr:
		c.add(n.Left)
		c.add(n.Right)
	case *CaseExpr:
		for _, s := range n.Subjects {
			c.add(s)
		}
		for _, cl := range n.Clauses {
			c.add(cl)
		}
	case *Clause:
		for _, mp := range n.Patterns() {
			for _, p := range mp {
				c.add(p)
			}
		}
		c.add(n.Guard)
		c.add(n.Then)
	case *RecordAccessExpr:
		c.add(n.Record)
	case *TupleExpr:
		for _, el := range n.Elements {
			c.add(el)
		}
	case *TupleIndexExpr:
		c.add(n.Tuple)
	case *TodoExpr:
		c.add(n.Message)
	case *PanicExpr:
		c.add(n.Message)
	case *BitStringExpr:
		for _, seg := range n.Segments {
			c.add(seg)
		}
	case *BitStringSegment[Expr]:
		c.add(n.Value)
		for _, opt := range n.Options {
			c.add(opt)
		}
	case *SegmentOption[Expr]:
		if v, ok := n.Value(); ok {
			c.add(v)
		}
	case *RecordUpdateExpr:
		c.add(n.Constructor)
		c.add(n.Spread)
		for _, arg := range n.Args {
			c.add(arg)
		}
	case *RecordUpdateArg:
		c.add(n.Value)
	case *NegateBoolExpr:
		c.add(n.Value)
	case *NegateIntExpr:
		c.add(n.Value)
	case *BlockExpr:
		for _, s := range n.Statements {
			c.add(s)
		}
	case *IntExpr, *FloatExpr, *StringExpr, *VarExpr, *ModuleSelectExpr:

	// Patterns
	case *AssignPattern:
		c.add(n.Pattern)
	case *ListPattern:
		for _, el := range n.Elements {
			c.add(el)
		}
		c.add(n.Tail)
	case *ConstructorPattern:
		for _, arg := range n.Args {
			c.add(arg)
		}
	case *CallArg[Pattern]:
		c.add(n.Value)
	case *TuplePattern:
		for _, el := range n.Elems {
			c.add(el)
		}
	case *BitStringPattern:
		for _, seg := range n.Segments {
			c.add(seg)
		}
	case *BitStringSegment[Pattern]:
		c.add(n.Value)
		for _, opt := range n.Options {
			c.add(opt)
		}
	case *SegmentOption[Pattern]:
		if v, ok := n.Value(); ok {
			c.add(v)
		}
	case *IntPattern, *FloatPattern, *StringPattern, *VarPattern,
		*VarUsagePattern, *DiscardPattern, *ConcatenatePattern:

	// Constants
	case *TupleConstant:
		for _, el := range n.Elements {
			c.add(el)
		}
	case *ListConstant:
		for _, el := range n.Elements {
			c.add(el)
		}
	case *RecordConstant:
		for _, arg := range n.Args {
			c.add(arg)
		}
	case *CallArg[Constant]:
		c.add(n.Value)
	case *BitStringConstant:
		for _, seg := range n.Segments {
			c.add(seg)
		}
	case *BitStringSegment[Constant]:
		c.add(n.Value)
		for _, opt := range n.Options {
			c.add(opt)
		}
	case *SegmentOption[Constant]:
		if v, ok := n.Value(); ok {
			c.add(v)
		}
	case *IntConstant, *FloatConstant, *StringConstant, *VarConstant:

	// Guards
	case *BinaryGuard:
		c.add(n.Left)
		c.add(n.Right)
	case *TupleIndexGuard:
		c.add(n.Tuple)
	case *ConstantGuard:
		c.add(n.Constant)
	case *VarGuard:

	// Type annotations
	case *ConstructorTypeAst:
		for _, a := range n.Args {
			c.add(a)
		}
	case *FnTypeAst:
		for _, a := range n.Args {
			c.add(a)
		}
		c.add(n.Return)
	case *TupleTypeAst:
		for _, el := range n.Elems {
			c.add(el)
		}
	case *VarTypeAst, *HoleTypeAst:
	}
	return c.nodes
}

type collector struct {
	nodes []Node
}

func (c *collector) add(n Node) {
	if isNil(n) {
		return
	}
	c.nodes = append(c.nodes, n)
}

func isNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Inspect walks the tree rooted at n in source order, calling fn before
// visiting the children of each node. Children are skipped when fn returns
// false.
func Inspect(n Node, fn func(Node) bool) {
	if isNil(n) || !fn(n) {
		return
	}
	for _, child := range Children(n) {
		Inspect(child, fn)
	}
}

// CountNodes counts n and all its descendants.
func CountNodes(n Node) int {
	count := 0
	Inspect(n, func(Node) bool {
		count++
		return true
	})
	return count
}

// Extent is the span every descendant of n lies in. It differs from
// Location only for functions, whose location is their head.
func Extent(n Node) source.Span {
	if f, ok := n.(*Function); ok {
		return f.Extent()
	}
	return n.Location()
}
