package ast

import (
	"arbor/internal/source"
)

type IntConstant struct {
	Loc   source.Span
	Value string
}

type FloatConstant struct {
	Loc   source.Span
	Value string
}

type StringConstant struct {
	Loc   source.Span
	Value string
}

type TupleConstant struct {
	Loc      source.Span
	Elements []Constant
}

type ListConstant struct {
	Loc      source.Span
	Elements []Constant
	Type     TypeSlot
}

// RecordConstant is a constructor applied to constant arguments. Tag is the
// resolved runtime tag of the record.
type RecordConstant struct {
	Loc    source.Span
	Module string
	Name   string
	Args   []*CallArg[Constant]
	Tag    TagSlot
	Type   TypeSlot
}

type BitStringConstant struct {
	Loc      source.Span
	Segments []*BitStringSegment[Constant]
}

// VarConstant references another module constant.
type VarConstant struct {
	Loc         source.Span
	Module      string
	Name        string
	Constructor ValueSlot
	Type        TypeSlot
}

func (c *IntConstant) Location() source.Span       { return c.Loc }
func (c *FloatConstant) Location() source.Span     { return c.Loc }
func (c *StringConstant) Location() source.Span    { return c.Loc }
func (c *TupleConstant) Location() source.Span     { return c.Loc }
func (c *ListConstant) Location() source.Span      { return c.Loc }
func (c *RecordConstant) Location() source.Span    { return c.Loc }
func (c *BitStringConstant) Location() source.Span { return c.Loc }
func (c *VarConstant) Location() source.Span       { return c.Loc }

func (*IntConstant) constantNode()       {}
func (*FloatConstant) constantNode()     {}
func (*StringConstant) constantNode()    {}
func (*TupleConstant) constantNode()     {}
func (*ListConstant) constantNode()      {}
func (*RecordConstant) constantNode()    {}
func (*BitStringConstant) constantNode() {}
func (*VarConstant) constantNode()       {}

// IsSimple reports whether c is a literal that needs no further evaluation.
func IsSimple(c Constant) bool {
	switch c.(type) {
	case *IntConstant, *FloatConstant, *StringConstant:
		return true
	}
	return false
}
