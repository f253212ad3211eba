package ast

import (
	"iter"

	"arbor/internal/source"
	"arbor/internal/target"
	"arbor/internal/types"
)

// UntypedModule is the parser's output: definitions grouped by the backend
// they are compiled for.
type UntypedModule struct {
	Name          string
	Documentation []string
	Groups        []*TargetGroup
}

// ModuleInfo is the module-level type information produced by inference.
type ModuleInfo struct {
	Name    string
	Package string
	Types   map[string]*types.Type
	Values  map[string]*ValueConstructor
}

// TypedModule is the output of inference for one backend.
type TypedModule struct {
	Name          string
	Documentation []string
	Info          *ModuleInfo
	Definitions   []Definition
}

// Dependency is an imported module path and the span of the import.
type Dependency struct {
	Module   string
	Location source.Span
}

// Definitions yields, in source order, the definitions compiled for t.
func (m *UntypedModule) Definitions(t target.Target) iter.Seq[Definition] {
	return func(yield func(Definition) bool) {
		for _, group := range m.Groups {
			if !group.IsFor(t) {
				continue
			}
			for _, def := range group.Definitions() {
				if !yield(def) {
					return
				}
			}
		}
	}
}

// TakeDefinitions moves the definitions compiled for t out of the module.
// Groups that apply are left empty; the others are untouched.
func (m *UntypedModule) TakeDefinitions(t target.Target) []Definition {
	var out []Definition
	for _, group := range m.Groups {
		if group.IsFor(t) {
			out = append(out, group.Take()...)
		}
	}
	return out
}

// Dependencies lists the modules imported by the definitions compiled for t,
// in source order.
func (m *UntypedModule) Dependencies(t target.Target) []Dependency {
	var deps []Dependency
	for def := range m.Definitions(t) {
		if imp, ok := def.(*Import); ok {
			deps = append(deps, Dependency{Module: imp.Module, Location: imp.Location()})
		}
	}
	return deps
}

// FindNode returns the innermost node whose span contains offset, or nil.
func (m *TypedModule) FindNode(offset uint32) Located {
	for _, def := range m.Definitions {
		if found := findInDefinition(def, offset); found != nil {
			return found
		}
	}
	return nil
}
