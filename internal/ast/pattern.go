package ast

import (
	"arbor/internal/source"
)

type IntPattern struct {
	Loc   source.Span
	Value string
}

type FloatPattern struct {
	Loc   source.Span
	Value string
}

type StringPattern struct {
	Loc   source.Span
	Value string
}

// VarPattern creates a variable: `let [this_is_a_var, .._] = x`.
type VarPattern struct {
	Loc  source.Span
	Name string
	Type TypeSlot
}

// VarUsagePattern references an existing variable inside a bit string
// pattern: `let <<y:size(somevar)>> = x`.
type VarUsagePattern struct {
	Loc  source.Span
	Name string
	Type TypeSlot
}

// AssignPattern names a sub-pattern with `as`: `#(1, [_, _] as the_list)`.
// Loc covers the ` as name` suffix; Location delegates to the wrapped
// pattern.
type AssignPattern struct {
	Loc     source.Span
	Name    string
	Pattern Pattern
}

// DiscardPattern matches anything without binding it. Name starts with `_`.
type DiscardPattern struct {
	Loc  source.Span
	Name string
	Type TypeSlot
}

// ListPattern is `[a, b, ..tail]`.
type ListPattern struct {
	Loc      source.Span
	Elements []Pattern
	Tail     Pattern
	Type     TypeSlot
}

// ConstructorPattern matches a record constructor. Its constructor may still
// be Unknown when the rest of the pattern is already resolved.
type ConstructorPattern struct {
	Loc         source.Span
	Name        string
	Args        []*CallArg[Pattern]
	Module      string
	Constructor Inferred[*PatternConstructor]
	WithSpread  bool
	Type        TypeSlot
}

type TuplePattern struct {
	Loc   source.Span
	Elems []Pattern
}

type BitStringPattern struct {
	Loc      source.Span
	Segments []*BitStringSegment[Pattern]
}

// AssignName is the right-hand side of a string prefix pattern.
type AssignName struct {
	Name    string
	Discard bool
}

// AssignedName returns the bound variable, if it is not a discard.
func (n AssignName) AssignedName() (string, bool) {
	if n.Discard {
		return "", false
	}
	return n.Name, true
}

// ArgNames converts the name into function argument binding form.
func (n AssignName) ArgNames() ArgNames {
	if n.Discard {
		return ArgNames{Kind: ArgDiscard, Name: n.Name}
	}
	return ArgNames{Kind: ArgNamed, Name: n.Name}
}

// ConcatenatePattern is `"prefix" <> rest`.
type ConcatenatePattern struct {
	Loc            source.Span
	LeftLocation   source.Span
	RightLocation  source.Span
	LeftSideString string
	RightSide      AssignName
}

func (p *IntPattern) Location() source.Span         { return p.Loc }
func (p *FloatPattern) Location() source.Span       { return p.Loc }
func (p *StringPattern) Location() source.Span      { return p.Loc }
func (p *VarPattern) Location() source.Span         { return p.Loc }
func (p *VarUsagePattern) Location() source.Span    { return p.Loc }
func (p *AssignPattern) Location() source.Span      { return p.Pattern.Location() }
func (p *DiscardPattern) Location() source.Span     { return p.Loc }
func (p *ListPattern) Location() source.Span        { return p.Loc }
func (p *ConstructorPattern) Location() source.Span { return p.Loc }
func (p *TuplePattern) Location() source.Span       { return p.Loc }
func (p *BitStringPattern) Location() source.Span   { return p.Loc }
func (p *ConcatenatePattern) Location() source.Span { return p.Loc }

func (*IntPattern) patternNode()         {}
func (*FloatPattern) patternNode()       {}
func (*StringPattern) patternNode()      {}
func (*VarPattern) patternNode()         {}
func (*VarUsagePattern) patternNode()    {}
func (*AssignPattern) patternNode()      {}
func (*DiscardPattern) patternNode()     {}
func (*ListPattern) patternNode()        {}
func (*ConstructorPattern) patternNode() {}
func (*TuplePattern) patternNode()       {}
func (*BitStringPattern) patternNode()   {}
func (*ConcatenatePattern) patternNode() {}

func IsDiscard(p Pattern) bool {
	_, ok := p.(*DiscardPattern)
	return ok
}

// PatternDocumentation returns the documentation of the constructor a
// pattern matches, once known.
func PatternDocumentation(p Pattern) (string, bool) {
	cp, ok := p.(*ConstructorPattern)
	if !ok {
		return "", false
	}
	c, known := cp.Constructor.Get()
	if !known || c == nil || c.Documentation == "" {
		return "", false
	}
	return c.Documentation, true
}
