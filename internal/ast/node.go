// Package ast defines the syntax tree shared by every stage of the front end.
//
// One family of node shapes serves both phases. Parsed trees leave every
// phase slot (Slot) empty; inferred trees fill them. Resolve rebuilds an
// unresolved module into a resolved one without touching spans, and
// CheckPhase verifies which slots may be empty in which phase.
//
// Every child is owned by exactly one parent. References from a resolved
// node back to a definition (ValueConstructor, PatternConstructor) carry a
// module name and a span, never a pointer to another node.
package ast

import (
	"arbor/internal/source"
)

// Names the front end reserves for variables it introduces while desugaring.
const (
	TryVariable           = "_try"
	PipeVariable          = "_pipe"
	UseAssignmentVariable = "_use"
	AssertFailVariable    = "_assert_fail"
	AssertSubjectVariable = "_assert_subject"
	CaptureVariable       = "_capture"
)

// Node is implemented by every tree node.
type Node interface {
	Location() source.Span
}

// Definition is a top-level statement of a module.
type Definition interface {
	Node
	Documentation() (string, bool)
	// PutDoc attaches documentation after construction. Imports ignore it.
	PutDoc(doc string)
	definitionNode()
}

// Statement is a statement inside a function body or block.
type Statement interface {
	Node
	statementNode()
}

// Expr is an expression.
type Expr interface {
	Node
	exprNode()
}

// Pattern is a pattern in an assignment or case clause.
type Pattern interface {
	Node
	patternNode()
}

// Constant is a compile-time constant value.
type Constant interface {
	Node
	constantNode()
}

// ClauseGuard is the restricted boolean expression after `if` in a clause.
type ClauseGuard interface {
	Node
	guardNode()
}

// TypeAst is a type annotation as written in source.
type TypeAst interface {
	Node
	typeAstNode()
}
