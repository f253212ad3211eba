package ast

import (
	"arbor/internal/source"
)

// MultiPattern holds one pattern per case subject.
type MultiPattern []Pattern

// Clause is one branch of a case expression. Loc may be left zero by
// constructors that do not track it; Span derives it then.
type Clause struct {
	Loc          source.Span
	Pattern      MultiPattern
	Alternatives []MultiPattern
	Guard        ClauseGuard
	Then         Expr
}

// Span covers the clause from its first pattern to the end of its body.
func (c *Clause) Span() source.Span {
	if !c.Loc.Empty() {
		return c.Loc
	}
	end := c.Then.Location().End
	if len(c.Pattern) == 0 {
		return c.Then.Location()
	}
	return source.NewSpan(c.Pattern[0].Location().Start, end)
}

func (c *Clause) Location() source.Span { return c.Span() }

// Patterns yields the primary pattern followed by every alternative.
func (c *Clause) Patterns() []MultiPattern {
	out := make([]MultiPattern, 0, 1+len(c.Alternatives))
	out = append(out, c.Pattern)
	return append(out, c.Alternatives...)
}

// BinaryGuard combines or compares two guards.
type BinaryGuard struct {
	Loc   source.Span
	Op    GuardOp
	Left  ClauseGuard
	Right ClauseGuard
}

type VarGuard struct {
	Loc  source.Span
	Name string
	Type TypeSlot
}

// TupleIndexGuard is `tuple.0` inside a guard.
type TupleIndexGuard struct {
	Loc   source.Span
	Index uint64
	Tuple ClauseGuard
	Type  TypeSlot
}

// ConstantGuard embeds a constant; it has no span of its own.
type ConstantGuard struct {
	Constant Constant
}

func (g *BinaryGuard) Location() source.Span     { return g.Loc }
func (g *VarGuard) Location() source.Span        { return g.Loc }
func (g *TupleIndexGuard) Location() source.Span { return g.Loc }
func (g *ConstantGuard) Location() source.Span   { return g.Constant.Location() }

func (*BinaryGuard) guardNode()     {}
func (*VarGuard) guardNode()        {}
func (*TupleIndexGuard) guardNode() {}
func (*ConstantGuard) guardNode()   {}

// GuardPrecedence ranks a guard for parenthesisation; operands rank above
// every operator.
func GuardPrecedence(g ClauseGuard) uint8 {
	if b, ok := g.(*BinaryGuard); ok {
		return b.Op.Precedence()
	}
	return GuardOperandPrecedence
}
