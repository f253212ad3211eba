package astcheck

import (
	"errors"

	"arbor/internal/ast"
	"arbor/internal/diag"
	"arbor/internal/target"
)

// CheckUntyped runs the span and segment checks over every definition of m
// compiled for t, collecting into bag under the module's name.
func CheckUntyped(m *ast.UntypedModule, t target.Target, bag *diag.Bag) {
	r := diag.NewDedupReporter(diag.BagReporter{Bag: bag, Module: m.Name})
	for def := range m.Definitions(t) {
		CheckSpans(def, r)
		CheckSegments(def, r)
	}
}

// CheckTyped runs the span and segment checks over m and additionally
// reports the first definition whose slots are not all resolved.
func CheckTyped(m *ast.TypedModule, bag *diag.Bag) {
	r := diag.NewDedupReporter(diag.BagReporter{Bag: bag, Module: m.Name})
	for _, def := range m.Definitions {
		CheckSpans(def, r)
		CheckSegments(def, r)
		if err := ast.CheckPhase(def, ast.Resolved); err != nil {
			reportPhase(r, err)
		}
	}
}

func reportPhase(r diag.Reporter, err error) {
	var pe *ast.PhaseError
	if !errors.As(err, &pe) {
		return
	}
	code := diag.AstPhaseMismatch
	if pe.Node == "Use" {
		code = diag.AstUseInResolvedTree
	}
	diag.ReportError(r, code, pe.Span, pe.Error()).Emit()
}
