package ast

import (
	"fmt"

	"arbor/internal/source"
)

// BitStringSegment is one field of a bit string expression, pattern or
// constant. Options keep their source order; the tree accepts any
// combination and leaves consistency checks to later stages.
type BitStringSegment[V Node] struct {
	Loc     source.Span
	Value   V
	Options []*SegmentOption[V]
	Type    TypeSlot
}

func (s *BitStringSegment[V]) Location() source.Span { return s.Loc }

// OptionKind enumerates the segment options.
type OptionKind uint8

const (
	OptBinary OptionKind = iota
	OptInt
	OptFloat
	OptBitString
	OptUTF8
	OptUTF16
	OptUTF32
	OptUTF8Codepoint
	OptUTF16Codepoint
	OptUTF32Codepoint
	OptSigned
	OptUnsigned
	OptBig
	OptLittle
	OptNative
	OptSize
	OptUnit

	optionKindCount
)

// OptionKinds lists every option kind in declaration order.
func OptionKinds() []OptionKind {
	kinds := make([]OptionKind, 0, optionKindCount)
	for k := range optionKindCount {
		kinds = append(kinds, k)
	}
	return kinds
}

// Label is the option name as written in source and diagnostics.
func (k OptionKind) Label() string {
	switch k {
	case OptBinary:
		return "binary"
	case OptInt:
		return "int"
	case OptFloat:
		return "float"
	case OptBitString:
		return "bit_string"
	case OptUTF8:
		return "utf8"
	case OptUTF16:
		return "utf16"
	case OptUTF32:
		return "utf32"
	case OptUTF8Codepoint:
		return "utf8_codepoint"
	case OptUTF16Codepoint:
		return "utf16_codepoint"
	case OptUTF32Codepoint:
		return "utf32_codepoint"
	case OptSigned:
		return "signed"
	case OptUnsigned:
		return "unsigned"
	case OptBig:
		return "big"
	case OptLittle:
		return "little"
	case OptNative:
		return "native"
	case OptSize:
		return "size"
	case OptUnit:
		return "unit"
	}
	return fmt.Sprintf("OptionKind(%d)", uint8(k))
}

func (k OptionKind) String() string {
	return k.Label()
}

// ParseOptionKind maps a label back to its kind.
func ParseOptionKind(label string) (OptionKind, bool) {
	for k := range optionKindCount {
		if k.Label() == label {
			return k, true
		}
	}
	return 0, false
}

// IsEndianness reports big, little and native.
func (k OptionKind) IsEndianness() bool {
	return k == OptBig || k == OptLittle || k == OptNative
}

// IsSignedness reports signed and unsigned.
func (k OptionKind) IsSignedness() bool {
	return k == OptSigned || k == OptUnsigned
}

// IsType reports the options that pick the segment's value type.
func (k OptionKind) IsType() bool {
	return k <= OptUTF32Codepoint
}

// SegmentOption is one option of a segment. Only size carries a value and
// only unit carries a multiplier.
type SegmentOption[V Node] struct {
	Kind OptionKind
	Loc  source.Span
	// ShortForm marks `x:8` as opposed to `x:size(8)`.
	ShortForm bool
	Unit      uint8

	value V
}

// NewOption builds a flag option. size and unit have dedicated constructors.
func NewOption[V Node](kind OptionKind, loc source.Span) *SegmentOption[V] {
	if kind == OptSize || kind == OptUnit {
		panic(fmt.Errorf("ast: %s option built without its value", kind.Label()))
	}
	if kind >= optionKindCount {
		panic(fmt.Errorf("ast: unknown segment option %d", uint8(kind)))
	}
	return &SegmentOption[V]{Kind: kind, Loc: loc}
}

// SizeOption builds `size(value)`, or `:value` when shortForm is set.
func SizeOption[V Node](loc source.Span, value V, shortForm bool) *SegmentOption[V] {
	return &SegmentOption[V]{Kind: OptSize, Loc: loc, value: value, ShortForm: shortForm}
}

// UnitOption builds `unit(value)`.
func UnitOption[V Node](loc source.Span, value uint8) *SegmentOption[V] {
	return &SegmentOption[V]{Kind: OptUnit, Loc: loc, Unit: value}
}

func (o *SegmentOption[V]) Location() source.Span { return o.Loc }

func (o *SegmentOption[V]) Label() string {
	return o.Kind.Label()
}

// Value returns the nested size value. It is only present on size options.
func (o *SegmentOption[V]) Value() (V, bool) {
	if o.Kind != OptSize {
		var zero V
		return zero, false
	}
	return o.value, true
}

// UnitValue returns the multiplier of a unit option.
func (o *SegmentOption[V]) UnitValue() (uint8, bool) {
	if o.Kind != OptUnit {
		return 0, false
	}
	return o.Unit, true
}

