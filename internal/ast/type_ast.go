package ast

import "arbor/internal/source"

// ConstructorTypeAst is a named type, optionally qualified and applied:
// `Int`, `option.Option(a)`.
type ConstructorTypeAst struct {
	Loc    source.Span
	Module string
	Name   string
	Args   []TypeAst
}

// FnTypeAst is `fn(a, b) -> c`.
type FnTypeAst struct {
	Loc    source.Span
	Args   []TypeAst
	Return TypeAst
}

// VarTypeAst is a type variable such as `a`.
type VarTypeAst struct {
	Loc  source.Span
	Name string
}

// TupleTypeAst is `#(a, b)`.
type TupleTypeAst struct {
	Loc   source.Span
	Elems []TypeAst
}

// HoleTypeAst is a discarded type such as `_` or `_name`.
type HoleTypeAst struct {
	Loc  source.Span
	Name string
}

func (t *ConstructorTypeAst) Location() source.Span { return t.Loc }
func (t *FnTypeAst) Location() source.Span          { return t.Loc }
func (t *VarTypeAst) Location() source.Span         { return t.Loc }
func (t *TupleTypeAst) Location() source.Span       { return t.Loc }
func (t *HoleTypeAst) Location() source.Span        { return t.Loc }

func (*ConstructorTypeAst) typeAstNode() {}
func (*FnTypeAst) typeAstNode()          {}
func (*VarTypeAst) typeAstNode()         {}
func (*TupleTypeAst) typeAstNode()       {}
func (*HoleTypeAst) typeAstNode()        {}

// TypeAstEqual compares two annotations ignoring their spans.
func TypeAstEqual(a, b TypeAst) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case *ConstructorTypeAst:
		b, ok := b.(*ConstructorTypeAst)
		return ok && a.Module == b.Module && a.Name == b.Name && typeAstsEqual(a.Args, b.Args)
	case *FnTypeAst:
		b, ok := b.(*FnTypeAst)
		return ok && typeAstsEqual(a.Args, b.Args) && TypeAstEqual(a.Return, b.Return)
	case *VarTypeAst:
		b, ok := b.(*VarTypeAst)
		return ok && a.Name == b.Name
	case *TupleTypeAst:
		b, ok := b.(*TupleTypeAst)
		return ok && typeAstsEqual(a.Elems, b.Elems)
	case *HoleTypeAst:
		b, ok := b.(*HoleTypeAst)
		return ok && a.Name == b.Name
	}
	return false
}

func typeAstsEqual(a, b []TypeAst) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !TypeAstEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
