package ast

import (
	"arbor/internal/source"
)

// Located is the result of a FindNode query.
type Located interface {
	Location() source.Span
	// DefinitionLocation is where the found node's value is defined, if it
	// traces back to a named definition.
	DefinitionLocation() (DefinitionLocation, bool)
	locatedNode()
}

type LocatedDefinition struct{ Definition Definition }
type LocatedStatement struct{ Statement Statement }
type LocatedExpr struct{ Expr Expr }
type LocatedPattern struct{ Pattern Pattern }
type LocatedArg struct{ Arg *Arg }

func (l LocatedDefinition) Location() source.Span { return l.Definition.Location() }
func (l LocatedStatement) Location() source.Span  { return l.Statement.Location() }
func (l LocatedExpr) Location() source.Span       { return l.Expr.Location() }
func (l LocatedPattern) Location() source.Span    { return l.Pattern.Location() }
func (l LocatedArg) Location() source.Span        { return l.Arg.Location() }

func (LocatedDefinition) locatedNode() {}
func (LocatedStatement) locatedNode()  {}
func (LocatedExpr) locatedNode()       {}
func (LocatedPattern) locatedNode()    {}
func (LocatedArg) locatedNode()        {}

// A definition is its own definition site.
func (l LocatedDefinition) DefinitionLocation() (DefinitionLocation, bool) {
	return DefinitionLocation{Span: l.Definition.Location()}, true
}

func (l LocatedStatement) DefinitionLocation() (DefinitionLocation, bool) {
	return StatementDefinitionLocation(l.Statement)
}

func (l LocatedExpr) DefinitionLocation() (DefinitionLocation, bool) {
	return ExprDefinitionLocation(l.Expr)
}

func (l LocatedPattern) DefinitionLocation() (DefinitionLocation, bool) {
	return PatternDefinitionLocation(l.Pattern)
}

func (l LocatedArg) DefinitionLocation() (DefinitionLocation, bool) {
	return DefinitionLocation{Span: l.Arg.Location()}, true
}

// ExprDefinitionLocation follows variable and module-select references to
// their definitions. Unresolved references have none.
func ExprDefinitionLocation(e Expr) (DefinitionLocation, bool) {
	switch e := e.(type) {
	case *VarExpr:
		if c, ok := e.Constructor.Get(); ok {
			return c.DefinitionLocation()
		}
	case *ModuleSelectExpr:
		if c, ok := e.Constructor.Get(); ok {
			return c.DefinitionLocation()
		}
	}
	return DefinitionLocation{}, false
}

// PatternDefinitionLocation is set only for constructor patterns whose
// constructor is known.
func PatternDefinitionLocation(p Pattern) (DefinitionLocation, bool) {
	cp, ok := p.(*ConstructorPattern)
	if !ok {
		return DefinitionLocation{}, false
	}
	c, known := cp.Constructor.Get()
	if !known {
		return DefinitionLocation{}, false
	}
	return c.DefinitionLocation()
}

// StatementDefinitionLocation delegates to the expression of a bare
// expression statement. Assignments and uses have none.
func StatementDefinitionLocation(s Statement) (DefinitionLocation, bool) {
	if es, ok := s.(*ExprStatement); ok {
		return ExprDefinitionLocation(es.Expr)
	}
	return DefinitionLocation{}, false
}

// findInDefinition searches a top-level definition. A function's span only
// covers its head, so its body and arguments are searched first.
func findInDefinition(def Definition, offset uint32) Located {
	if fn, ok := def.(*Function); ok {
		for _, s := range fn.Body {
			if found := findInStatement(s, offset); found != nil {
				return found
			}
		}
		for _, arg := range fn.Args {
			if arg.Loc.Contains(offset) {
				return LocatedArg{Arg: arg}
			}
		}
	}
	if def.Location().Contains(offset) {
		return LocatedDefinition{Definition: def}
	}
	return nil
}

func findInStatement(s Statement, offset uint32) Located {
	switch s := s.(type) {
	case *ExprStatement:
		return findInExpr(s.Expr, offset)
	case *Assignment:
		if !s.Loc.Contains(offset) {
			return nil
		}
		if found := findInPattern(s.Pattern, offset); found != nil {
			return found
		}
		if found := findInExpr(s.Value, offset); found != nil {
			return found
		}
		return LocatedStatement{Statement: s}
	}
	// Use never survives into a resolved tree and is never a match.
	return nil
}

func findInStatements(stmts []Statement, offset uint32) Located {
	for _, s := range stmts {
		if found := findInStatement(s, offset); found != nil {
			return found
		}
	}
	return nil
}

func findInExprs(exprs []Expr, offset uint32) Located {
	for _, e := range exprs {
		if found := findInExpr(e, offset); found != nil {
			return found
		}
	}
	return nil
}

func findInExpr(e Expr, offset uint32) Located {
	if e == nil || !e.Location().Contains(offset) {
		return nil
	}
	if found := findInExprChildren(e, offset); found != nil {
		return found
	}
	return LocatedExpr{Expr: e}
}

func findInExprChildren(e Expr, offset uint32) Located {
	switch e := e.(type) {
	case *FnExpr:
		for _, arg := range e.Args {
			if arg.Loc.Contains(offset) {
				return LocatedArg{Arg: arg}
			}
		}
		return findInStatements(e.Body, offset)
	case *ListExpr:
		if found := findInExprs(e.Elements, offset); found != nil {
			return found
		}
		return findInExpr(e.Tail, offset)
	case *CallExpr:
		if found := findInExpr(e.Fun, offset); found != nil {
			return found
		}
		for _, arg := range e.Args {
			if found := findInExpr(arg.Value, offset); found != nil {
				return found
			}
		}
	case *BinOpExpr:
		if found := findInExpr(e.Left, offset); found != nil {
			return found
		}
		return findInExpr(e.Right, offset)
	case *CaseExpr:
		if found := findInExprs(e.Subjects, offset); found != nil {
			return found
		}
		for _, c := range e.Clauses {
			if found := findInClause(c, offset); found != nil {
				return found
			}
		}
	case *RecordAccessExpr:
		return findInExpr(e.Record, offset)
	case *TupleExpr:
		return findInExprs(e.Elements, offset)
	case *TupleIndexExpr:
		return findInExpr(e.Tuple, offset)
	case *TodoExpr:
		return findInExpr(e.Message, offset)
	case *PanicExpr:
		return findInExpr(e.Message, offset)
	case *BitStringExpr:
		for _, seg := range e.Segments {
			if found := findInExpr(seg.Value, offset); found != nil {
				return found
			}
			for _, opt := range seg.Options {
				if v, ok := opt.Value(); ok {
					if found := findInExpr(v, offset); found != nil {
						return found
					}
				}
			}
		}
	case *RecordUpdateExpr:
		if found := findInExpr(e.Constructor, offset); found != nil {
			return found
		}
		if found := findInExpr(e.Spread, offset); found != nil {
			return found
		}
		for _, arg := range e.Args {
			if found := findInExpr(arg.Value, offset); found != nil {
				return found
			}
		}
	case *NegateBoolExpr:
		return findInExpr(e.Value, offset)
	case *NegateIntExpr:
		return findInExpr(e.Value, offset)
	case *BlockExpr:
		return findInStatements(e.Statements, offset)
	}
	return nil
}

func findInClause(c *Clause, offset uint32) Located {
	for _, mp := range c.Patterns() {
		for _, p := range mp {
			if found := findInPattern(p, offset); found != nil {
				return found
			}
		}
	}
	return findInExpr(c.Then, offset)
}

func findInPattern(p Pattern, offset uint32) Located {
	if p == nil || !p.Location().Contains(offset) {
		return nil
	}
	switch p := p.(type) {
	case *ConstructorPattern:
		for _, arg := range p.Args {
			if found := findInPattern(arg.Value, offset); found != nil {
				return found
			}
		}
	case *ListPattern:
		for _, el := range p.Elements {
			if found := findInPattern(el, offset); found != nil {
				return found
			}
		}
		if found := findInPattern(p.Tail, offset); found != nil {
			return found
		}
	case *TuplePattern:
		for _, el := range p.Elems {
			if found := findInPattern(el, offset); found != nil {
				return found
			}
		}
	}
	return LocatedPattern{Pattern: p}
}
