package format

import (
	"fmt"
	"strconv"

	"arbor/internal/ast"
)

// operandPrecedence ranks everything that is not a binary operator; it binds
// tighter than any operator.
const operandPrecedence uint8 = 100

// ExprPrecedence is the rank used to decide whether e needs braces when it
// appears as an operand.
func ExprPrecedence(e ast.Expr) uint8 {
	if b, ok := e.(*ast.BinOpExpr); ok {
		return b.Op.Precedence()
	}
	return operandPrecedence
}

// needsBraces reports whether a child of rank child under an operator of
// rank parent must be wrapped. Operators are left associative, so an equal
// rank on the right side is wrapped.
func needsBraces(child, parent uint8, right bool) bool {
	return child < parent || (right && child == parent)
}

func (p *printer) statement(s ast.Statement) {
	switch s := s.(type) {
	case *ast.ExprStatement:
		p.expr(s.Expr)
	case *ast.Assignment:
		p.w.WriteString(s.Kind.String() + " ")
		p.pattern(s.Pattern)
		p.annotation(s.Annotation)
		p.w.WriteString(" = ")
		p.expr(s.Value)
	case *ast.Use:
		p.w.WriteString("use")
		for i, a := range s.Assignments {
			if i > 0 {
				p.w.WriteString(",")
			}
			p.w.WriteString(" ")
			p.pattern(a.Pattern)
			p.annotation(a.Annotation)
		}
		p.w.WriteString(" <- ")
		p.expr(s.Call)
	default:
		panic(fmt.Errorf("format: unknown statement %T", s))
	}
}

func (p *printer) operand(e ast.Expr, parent uint8, right bool) {
	if needsBraces(ExprPrecedence(e), parent, right) {
		p.w.WriteString("{ ")
		p.expr(e)
		p.w.WriteString(" }")
		return
	}
	p.expr(e)
}

// atom prints e where only a simple operand may stand: before a call,
// field access or tuple index and after a unary operator.
func (p *printer) atom(e ast.Expr) {
	switch e.(type) {
	case *ast.BinOpExpr, *ast.NegateBoolExpr, *ast.NegateIntExpr:
		p.w.WriteString("{ ")
		p.expr(e)
		p.w.WriteString(" }")
	default:
		p.expr(e)
	}
}

func (p *printer) expr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.IntExpr:
		p.w.WriteString(e.Value)
	case *ast.FloatExpr:
		p.w.WriteString(e.Value)
	case *ast.StringExpr:
		p.w.WriteString(`"` + e.Value + `"`)
	case *ast.VarExpr:
		if e.Name == ast.CaptureVariable {
			p.w.WriteString("_")
			return
		}
		p.w.WriteString(e.Name)
	case *ast.FnExpr:
		p.fnExpr(e)
	case *ast.ListExpr:
		p.w.WriteString("[")
		for i, el := range e.Elements {
			p.comma(i)
			p.expr(el)
		}
		if e.Tail != nil {
			p.comma(len(e.Elements))
			p.w.WriteString("..")
			p.expr(e.Tail)
		}
		p.w.WriteString("]")
	case *ast.CallExpr:
		p.atom(e.Fun)
		p.w.WriteString("(")
		for i, arg := range e.Args {
			p.comma(i)
			if arg.Label != "" {
				p.w.WriteString(arg.Label + ": ")
			}
			p.expr(arg.Value)
		}
		p.w.WriteString(")")
	case *ast.BinOpExpr:
		prec := e.Op.Precedence()
		p.operand(e.Left, prec, false)
		p.w.WriteString(" " + e.Op.Token() + " ")
		p.operand(e.Right, prec, true)
	case *ast.CaseExpr:
		p.caseExpr(e)
	case *ast.RecordAccessExpr:
		p.atom(e.Record)
		p.w.WriteString("." + e.Label)
	case *ast.ModuleSelectExpr:
		p.w.WriteString(e.ModuleAlias + "." + e.Label)
	case *ast.TupleExpr:
		p.w.WriteString("#(")
		for i, el := range e.Elements {
			p.comma(i)
			p.expr(el)
		}
		p.w.WriteString(")")
	case *ast.TupleIndexExpr:
		p.atom(e.Tuple)
		p.w.WriteString("." + strconv.FormatUint(e.Index, 10))
	case *ast.TodoExpr:
		p.w.WriteString("todo")
		if e.Message != nil {
			p.w.WriteString(" as ")
			p.expr(e.Message)
		}
	case *ast.PanicExpr:
		p.w.WriteString("panic")
		if e.Message != nil {
			p.w.WriteString(" as ")
			p.expr(e.Message)
		}
	case *ast.BitStringExpr:
		segments(p, e.Segments, p.expr)
	case *ast.RecordUpdateExpr:
		p.atom(e.Constructor)
		p.w.WriteString("(..")
		p.expr(e.Spread)
		for _, arg := range e.Args {
			p.w.WriteString(", " + arg.Label + ": ")
			p.expr(arg.Value)
		}
		p.w.WriteString(")")
	case *ast.NegateBoolExpr:
		p.w.WriteString("!")
		p.atom(e.Value)
	case *ast.NegateIntExpr:
		p.w.WriteString("-")
		p.atom(e.Value)
	case *ast.BlockExpr:
		if len(e.Statements) == 1 && ast.IsExpression(e.Statements[0]) {
			p.w.WriteString("{ ")
			p.statement(e.Statements[0])
			p.w.WriteString(" }")
			return
		}
		p.body(e.Statements)
	default:
		panic(fmt.Errorf("format: unknown expression %T", e))
	}
}

func (p *printer) fnExpr(e *ast.FnExpr) {
	if e.IsCapture && len(e.Body) == 1 {
		p.statement(e.Body[0])
		return
	}
	p.w.WriteString("fn")
	p.fnHead(e.Args, e.ReturnAnnotation)
	p.w.Space()
	p.body(e.Body)
}

func (p *printer) caseExpr(e *ast.CaseExpr) {
	p.w.WriteString("case ")
	for i, s := range e.Subjects {
		p.comma(i)
		p.expr(s)
	}
	p.w.WriteString(" {")
	p.w.IndentPush()
	for _, c := range e.Clauses {
		p.w.Newline()
		p.clause(c)
	}
	p.w.IndentPop()
	p.w.Newline()
	p.w.WriteString("}")
}

func (p *printer) clause(c *ast.Clause) {
	for i, mp := range c.Patterns() {
		if i > 0 {
			p.w.WriteString(" | ")
		}
		for j, pat := range mp {
			p.comma(j)
			p.pattern(pat)
		}
	}
	if c.Guard != nil {
		p.w.WriteString(" if ")
		p.guard(c.Guard)
	}
	p.w.WriteString(" -> ")
	p.expr(c.Then)
}

func (p *printer) guard(g ast.ClauseGuard) {
	switch g := g.(type) {
	case *ast.BinaryGuard:
		prec := g.Op.Precedence()
		p.guardOperand(g.Left, prec, false)
		p.w.WriteString(" " + g.Op.Token() + " ")
		p.guardOperand(g.Right, prec, true)
	case *ast.VarGuard:
		p.w.WriteString(g.Name)
	case *ast.TupleIndexGuard:
		if _, ok := g.Tuple.(*ast.BinaryGuard); ok {
			p.w.WriteString("{ ")
			p.guard(g.Tuple)
			p.w.WriteString(" }")
		} else {
			p.guard(g.Tuple)
		}
		p.w.WriteString("." + strconv.FormatUint(g.Index, 10))
	case *ast.ConstantGuard:
		p.constant(g.Constant)
	default:
		panic(fmt.Errorf("format: unknown guard %T", g))
	}
}

func (p *printer) guardOperand(g ast.ClauseGuard, parent uint8, right bool) {
	if needsBraces(ast.GuardPrecedence(g), parent, right) {
		p.w.WriteString("{ ")
		p.guard(g)
		p.w.WriteString(" }")
		return
	}
	p.guard(g)
}
