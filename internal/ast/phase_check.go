package ast

import (
	"fmt"
	"strings"

	"arbor/internal/source"
)

// PhaseError reports the first slot whose state does not match the phase of
// the tree.
type PhaseError struct {
	Phase Phase
	Node  string
	Slot  string
	Span  source.Span
}

func (e *PhaseError) Error() string {
	want := "empty"
	if e.Phase == Resolved {
		want = "resolved"
	}
	return fmt.Sprintf("%s tree: %s.%s at %s is not %s", e.Phase, e.Node, e.Slot, e.Span, want)
}

// CheckPhase verifies that every slot under n is empty in an unresolved tree
// and filled in a resolved one. Use statements are rejected in resolved
// trees.
func CheckPhase(n Node, phase Phase) error {
	var err error
	Inspect(n, func(node Node) bool {
		if err != nil {
			return false
		}
		if u, ok := node.(*Use); ok && phase == Resolved {
			err = &PhaseError{Phase: phase, Node: nodeName(u), Slot: "statement", Span: u.Loc}
			return false
		}
		for _, s := range slotsOf(node) {
			if s.resolved != (phase == Resolved) {
				err = &PhaseError{Phase: phase, Node: nodeName(node), Slot: s.name, Span: node.Location()}
				return false
			}
		}
		return true
	})
	return err
}

// CheckModulePhase checks every definition of a resolved module.
func CheckModulePhase(m *TypedModule) error {
	for _, def := range m.Definitions {
		if err := CheckPhase(def, Resolved); err != nil {
			return fmt.Errorf("module %s: %w", m.Name, err)
		}
	}
	return nil
}

type slotState struct {
	name     string
	resolved bool
}

func slot[T any](name string, s Slot[T]) slotState {
	return slotState{name: name, resolved: s.IsResolved()}
}

func slotsOf(n Node) []slotState {
	switch n := n.(type) {
	case *Function:
		return []slotState{slot("ReturnType", n.ReturnType)}
	case *Arg:
		return []slotState{slot("Type", n.Type)}
	case *ExternalFunction:
		return []slotState{slot("ReturnType", n.ReturnType)}
	case *ExternalFnArg:
		return []slotState{slot("Type", n.Type)}
	case *TypeAlias:
		return []slotState{slot("Type", n.Type)}
	case *CustomType:
		return customTypeSlots(n)
	case *RecordConstructorArg:
		return []slotState{slot("Type", n.Type)}
	case *ModuleConstant:
		return []slotState{slot("Type", n.Type)}
	case *Import:
		return []slotState{slot("Package", n.Package)}

	case *VarExpr:
		return []slotState{slot("Constructor", n.Constructor)}
	case *ModuleSelectExpr:
		return []slotState{slot("Constructor", n.Constructor)}
	case *FnExpr:
		return []slotState{slot("Type", n.Type)}
	case *ListExpr:
		return []slotState{slot("Type", n.Type)}
	case *CallExpr:
		return []slotState{slot("Type", n.Type)}
	case *CaseExpr:
		return []slotState{slot("Type", n.Type)}
	case *RecordAccessExpr:
		return []slotState{slot("Index", n.Index), slot("Type", n.Type)}
	case *TupleIndexExpr:
		return []slotState{slot("Type", n.Type)}
	case *TodoExpr:
		return []slotState{slot("Type", n.Type)}
	case *PanicExpr:
		return []slotState{slot("Type", n.Type)}
	case *RecordUpdateExpr:
		return []slotState{slot("Type", n.Type)}
	case *RecordUpdateArg:
		return []slotState{slot("Index", n.Index)}
	case *BitStringSegment[Expr]:
		return []slotState{slot("Type", n.Type)}

	case *VarPattern:
		return []slotState{slot("Type", n.Type)}
	case *VarUsagePattern:
		return []slotState{slot("Type", n.Type)}
	case *DiscardPattern:
		return []slotState{slot("Type", n.Type)}
	case *ListPattern:
		return []slotState{slot("Type", n.Type)}
	case *ConstructorPattern:
		return []slotState{slot("Type", n.Type)}
	case *BitStringSegment[Pattern]:
		return []slotState{slot("Type", n.Type)}

	case *ListConstant:
		return []slotState{slot("Type", n.Type)}
	case *RecordConstant:
		return []slotState{slot("Tag", n.Tag), slot("Type", n.Type)}
	case *VarConstant:
		return []slotState{slot("Constructor", n.Constructor), slot("Type", n.Type)}
	case *BitStringSegment[Constant]:
		return []slotState{slot("Type", n.Type)}

	case *VarGuard:
		return []slotState{slot("Type", n.Type)}
	case *TupleIndexGuard:
		return []slotState{slot("Type", n.Type)}
	}
	return nil
}

// A resolved custom type has one filled slot per declared parameter; an
// unresolved one has no filled slot at all.
func customTypeSlots(c *CustomType) []slotState {
	filled := 0
	for _, p := range c.TypedParameters {
		if p.IsResolved() {
			filled++
		}
	}
	switch {
	case filled == 0 && len(c.Parameters) > 0:
		return []slotState{{name: "TypedParameters", resolved: false}}
	case filled == 0:
		return nil
	case filled == len(c.Parameters) && len(c.TypedParameters) == len(c.Parameters):
		return []slotState{{name: "TypedParameters", resolved: true}}
	}
	// Partly filled is wrong in either phase.
	return []slotState{{name: "TypedParameters", resolved: false}, {name: "TypedParameters", resolved: true}}
}

func nodeName(n Node) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast.")
}
