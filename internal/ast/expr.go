package ast

import (
	"arbor/internal/source"
)

// TodoKind records why a `todo` was introduced.
type TodoKind uint8

const (
	TodoKeyword TodoKind = iota
	TodoEmptyFunction
	TodoIncompleteUse
)

// CallArg is an argument of a call, record pattern or record constant.
// Implicit is set when the front end supplied the argument itself, as the
// callback of a `use`.
type CallArg[V Node] struct {
	Label    string
	Loc      source.Span
	Value    V
	Implicit bool
}

func (a *CallArg[V]) Location() source.Span { return a.Loc }

// IsCaptureHole reports whether arg is the `_` of a function capture.
func IsCaptureHole(arg *CallArg[Expr]) bool {
	v, ok := arg.Value.(*VarExpr)
	return ok && v.Name == CaptureVariable
}

type IntExpr struct {
	Loc   source.Span
	Value string
}

type FloatExpr struct {
	Loc   source.Span
	Value string
}

type StringExpr struct {
	Loc   source.Span
	Value string
}

// VarExpr references a variable, function or constructor by name.
type VarExpr struct {
	Loc         source.Span
	Name        string
	Constructor ValueSlot
}

// FnExpr is an anonymous function or a function capture `f(_, 1)`.
type FnExpr struct {
	Loc              source.Span
	IsCapture        bool
	Args             []*Arg
	Body             []Statement
	ReturnAnnotation TypeAst
	Type             TypeSlot
}

// ListExpr is `[a, b, ..tail]`.
type ListExpr struct {
	Loc      source.Span
	Elements []Expr
	Tail     Expr
	Type     TypeSlot
}

type CallExpr struct {
	Loc  source.Span
	Fun  Expr
	Args []*CallArg[Expr]
	Type TypeSlot
}

// BinOpExpr applies a binary operator. Its type follows from the operator.
type BinOpExpr struct {
	Loc   source.Span
	Op    BinOp
	Left  Expr
	Right Expr
}

// CaseExpr matches subjects against clauses.
type CaseExpr struct {
	Loc      source.Span
	Subjects []Expr
	Clauses  []*Clause
	Type     TypeSlot
}

// RecordAccessExpr is `record.label`.
type RecordAccessExpr struct {
	Loc    source.Span
	Label  string
	Index  IndexSlot
	Record Expr
	Type   TypeSlot
}

// ModuleSelectExpr is `module.label`.
type ModuleSelectExpr struct {
	Loc         source.Span
	ModuleAlias string
	Label       string
	Constructor ValueSlot
}

type TupleExpr struct {
	Loc      source.Span
	Elements []Expr
}

// TupleIndexExpr is `tuple.0`.
type TupleIndexExpr struct {
	Loc   source.Span
	Index uint64
	Tuple Expr
	Type  TypeSlot
}

type TodoExpr struct {
	Loc     source.Span
	Kind    TodoKind
	Message Expr
	Type    TypeSlot
}

type PanicExpr struct {
	Loc     source.Span
	Message Expr
	Type    TypeSlot
}

type BitStringExpr struct {
	Loc      source.Span
	Segments []*BitStringSegment[Expr]
}

// RecordUpdateExpr is `Constructor(..spread, label: value)`.
type RecordUpdateExpr struct {
	Loc         source.Span
	Constructor Expr
	Spread      Expr
	Args        []*RecordUpdateArg
	Type        TypeSlot
}

type RecordUpdateArg struct {
	Label string
	Loc   source.Span
	Value Expr
	Index IndexSlot
}

func (a *RecordUpdateArg) Location() source.Span { return a.Loc }

// NegateBoolExpr is `!value`.
type NegateBoolExpr struct {
	Loc   source.Span
	Value Expr
}

// NegateIntExpr is `-value`.
type NegateIntExpr struct {
	Loc   source.Span
	Value Expr
}

// BlockExpr is `{ statements }`; its value is the last statement's.
type BlockExpr struct {
	Loc        source.Span
	Statements []Statement
}

func (e *IntExpr) Location() source.Span          { return e.Loc }
func (e *FloatExpr) Location() source.Span        { return e.Loc }
func (e *StringExpr) Location() source.Span       { return e.Loc }
func (e *VarExpr) Location() source.Span          { return e.Loc }
func (e *FnExpr) Location() source.Span           { return e.Loc }
func (e *ListExpr) Location() source.Span         { return e.Loc }
func (e *CallExpr) Location() source.Span         { return e.Loc }
func (e *BinOpExpr) Location() source.Span        { return e.Loc }
func (e *CaseExpr) Location() source.Span         { return e.Loc }
func (e *RecordAccessExpr) Location() source.Span { return e.Loc }
func (e *ModuleSelectExpr) Location() source.Span { return e.Loc }
func (e *TupleExpr) Location() source.Span        { return e.Loc }
func (e *TupleIndexExpr) Location() source.Span   { return e.Loc }
func (e *TodoExpr) Location() source.Span         { return e.Loc }
func (e *PanicExpr) Location() source.Span        { return e.Loc }
func (e *BitStringExpr) Location() source.Span    { return e.Loc }
func (e *RecordUpdateExpr) Location() source.Span { return e.Loc }
func (e *NegateBoolExpr) Location() source.Span   { return e.Loc }
func (e *NegateIntExpr) Location() source.Span    { return e.Loc }
func (e *BlockExpr) Location() source.Span        { return e.Loc }

func (*IntExpr) exprNode()          {}
func (*FloatExpr) exprNode()        {}
func (*StringExpr) exprNode()       {}
func (*VarExpr) exprNode()          {}
func (*FnExpr) exprNode()           {}
func (*ListExpr) exprNode()         {}
func (*CallExpr) exprNode()         {}
func (*BinOpExpr) exprNode()        {}
func (*CaseExpr) exprNode()         {}
func (*RecordAccessExpr) exprNode() {}
func (*ModuleSelectExpr) exprNode() {}
func (*TupleExpr) exprNode()        {}
func (*TupleIndexExpr) exprNode()   {}
func (*TodoExpr) exprNode()         {}
func (*PanicExpr) exprNode()        {}
func (*BitStringExpr) exprNode()    {}
func (*RecordUpdateExpr) exprNode() {}
func (*NegateBoolExpr) exprNode()   {}
func (*NegateIntExpr) exprNode()    {}
func (*BlockExpr) exprNode()        {}
