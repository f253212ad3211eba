package ast

import (
	"arbor/internal/source"
	"arbor/internal/types"
)

// DefinitionLocation points at the definition a node refers to. An empty
// Module means the current module.
type DefinitionLocation struct {
	Module string
	Span   source.Span
}

// ValueVariant says what kind of definition a value reference resolved to.
type ValueVariant uint8

const (
	ValueLocalVariable ValueVariant = iota
	ValueModuleConstant
	ValueModuleFn
	ValueRecord
)

func (v ValueVariant) String() string {
	switch v {
	case ValueLocalVariable:
		return "local variable"
	case ValueModuleConstant:
		return "module constant"
	case ValueModuleFn:
		return "module function"
	case ValueRecord:
		return "record constructor"
	default:
		return "unknown"
	}
}

// ValueConstructor is what the inference engine resolves a variable or
// module-select reference to. The link back to the defining node is by
// module name and span only.
type ValueConstructor struct {
	Variant       ValueVariant
	Module        string
	Name          string
	Location      source.Span
	Documentation string
	Type          *types.Type
}

// DefinitionLocation returns where the referenced value is defined. Local
// variables are always in the current module.
func (c *ValueConstructor) DefinitionLocation() (DefinitionLocation, bool) {
	if c == nil {
		return DefinitionLocation{}, false
	}
	if c.Variant == ValueLocalVariable {
		return DefinitionLocation{Span: c.Location}, true
	}
	return DefinitionLocation{Module: c.Module, Span: c.Location}, true
}

// PatternConstructor is the resolved record constructor of a constructor
// pattern.
type PatternConstructor struct {
	Name          string
	Module        string
	Location      source.Span
	Documentation string
	FieldMap      map[string]uint64
}

func (c *PatternConstructor) DefinitionLocation() (DefinitionLocation, bool) {
	if c == nil {
		return DefinitionLocation{}, false
	}
	return DefinitionLocation{Module: c.Module, Span: c.Location}, true
}
