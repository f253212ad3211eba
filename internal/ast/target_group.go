package ast

import "arbor/internal/target"

// TargetGroup wraps definitions that are compiled either for every backend
// or only for one:
//
//	const x: Int = 1
//
//	if erlang {
//	  pub external fn display(a) -> Bool = "erlang" "display"
//	}
//
// Outside an `if` block the group applies to any target.
type TargetGroup struct {
	only        bool
	target      target.Target
	definitions []Definition
}

// AnyTarget groups definitions compiled for every backend.
func AnyTarget(defs ...Definition) *TargetGroup {
	return &TargetGroup{definitions: defs}
}

// OnlyTarget groups definitions compiled only for t.
func OnlyTarget(t target.Target, defs ...Definition) *TargetGroup {
	return &TargetGroup{only: true, target: t, definitions: defs}
}

// Target returns the backend the group is restricted to, if any.
func (g *TargetGroup) Target() (target.Target, bool) {
	return g.target, g.only
}

func (g *TargetGroup) IsFor(t target.Target) bool {
	return !g.only || g.target == t
}

// Definitions returns the grouped definitions. The slice is borrowed.
func (g *TargetGroup) Definitions() []Definition {
	return g.definitions
}

// Take transfers ownership of the definitions to the caller.
func (g *TargetGroup) Take() []Definition {
	defs := g.definitions
	g.definitions = nil
	return defs
}

func (g *TargetGroup) Len() int {
	return len(g.definitions)
}

func (g *TargetGroup) IsEmpty() bool {
	return g.Len() == 0
}
