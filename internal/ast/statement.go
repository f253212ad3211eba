package ast

import (
	"arbor/internal/source"
)

// AssignmentKind distinguishes `let` from `let assert`.
type AssignmentKind uint8

const (
	AssignLet AssignmentKind = iota
	AssignAssert
)

func (k AssignmentKind) String() string {
	if k == AssignAssert {
		return "let assert"
	}
	return "let"
}

// PerformsExhaustivenessCheck is false for `let assert`, which may fail at
// runtime instead.
func (k AssignmentKind) PerformsExhaustivenessCheck() bool {
	return k == AssignLet
}

// ExprStatement is a bare expression whose value is not bound.
type ExprStatement struct {
	Expr Expr
}

func (s *ExprStatement) Location() source.Span { return s.Expr.Location() }

// Assignment binds the value of an expression with a pattern.
type Assignment struct {
	Loc        source.Span
	Value      Expr
	Pattern    Pattern
	Kind       AssignmentKind
	Annotation TypeAst
}

func (a *Assignment) Location() source.Span { return a.Loc }

// Use is the `use a, b <- f(x)` sugar. It only exists in unresolved trees;
// inference rewrites it into a call before the tree is resolved.
type Use struct {
	Loc         source.Span
	Assignments []*UseAssignment
	Call        Expr
}

func (u *Use) Location() source.Span { return u.Loc }

// UseAssignment is one pattern on the left of `<-`.
type UseAssignment struct {
	Loc        source.Span
	Pattern    Pattern
	Annotation TypeAst
}

func (a *UseAssignment) Location() source.Span { return a.Loc }

func (*ExprStatement) statementNode() {}
func (*Assignment) statementNode()    {}
func (*Use) statementNode()           {}

// IsExpression reports whether s is a bare expression.
func IsExpression(s Statement) bool {
	_, ok := s.(*ExprStatement)
	return ok
}

// StartOffset is the first byte of the statement.
func StartOffset(s Statement) uint32 {
	return s.Location().Start
}
