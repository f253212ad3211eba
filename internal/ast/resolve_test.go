package ast

import (
	"context"
	"errors"
	"slices"
	"testing"

	"arbor/internal/source"
	"arbor/internal/target"
)

func collectSpans(n Node) []source.Span {
	var spans []source.Span
	Inspect(n, func(n Node) bool {
		spans = append(spans, n.Location())
		return true
	})
	return spans
}

func TestResolve_PreservesSpansAndShape(t *testing.T) {
	for _, tg := range target.All() {
		t.Run(tg.String(), func(t *testing.T) {
			m := richModule()
			before := slices.Collect(m.Definitions(tg))
			for _, def := range before {
				if err := CheckPhase(def, Unresolved); err != nil {
					t.Fatalf("input is not unresolved: %v", err)
				}
			}

			typed, err := Resolve(context.Background(), m, tg, stubResolver{})
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if len(typed.Definitions) != len(before) {
				t.Fatalf("got %d definitions, want %d", len(typed.Definitions), len(before))
			}
			for i, def := range typed.Definitions {
				if CountNodes(def) != CountNodes(before[i]) {
					t.Errorf("definition %d: %d nodes, want %d", i, CountNodes(def), CountNodes(before[i]))
				}
				if got, want := collectSpans(def), collectSpans(before[i]); !slices.Equal(got, want) {
					t.Errorf("definition %d spans changed:\n got %v\nwant %v", i, got, want)
				}
				if err := CheckPhase(def, Resolved); err != nil {
					t.Errorf("output is not resolved: %v", err)
				}
			}
			if err := CheckModulePhase(typed); err != nil {
				t.Errorf("CheckModulePhase: %v", err)
			}
			if typed.Info == nil || typed.Info.Name != "app/run" {
				t.Errorf("module info not attached: %+v", typed.Info)
			}
		})
	}
}

func TestResolve_ConsumesSelectedGroups(t *testing.T) {
	m := richModule()
	if _, err := Resolve(context.Background(), m, target.Erlang, stubResolver{}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if n := len(slices.Collect(m.Definitions(target.Erlang))); n != 0 {
		t.Errorf("%d erlang definitions left after resolution", n)
	}
	if n := len(slices.Collect(m.Definitions(target.JavaScript))); n != 1 {
		t.Errorf("%d javascript definitions left, want the untouched external function", n)
	}
}

func TestResolve_FillsSlots(t *testing.T) {
	typed, err := Resolve(context.Background(), richModule(), target.Erlang, stubResolver{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	g := GroupStatements(typed.Definitions)

	imp := g.Imports[0]
	if pkg, ok := imp.Package.Get(); !ok || pkg != "stdlib" {
		t.Errorf("import package = %q, %v", pkg, ok)
	}
	ct := g.CustomTypes[0]
	if len(ct.TypedParameters) != 1 || !ct.TypedParameters[0].IsResolved() {
		t.Errorf("typed parameters = %v", ct.TypedParameters)
	}
	rc := g.Constants[0].Value.(*RecordConstant)
	if tag, ok := rc.Tag.Get(); !ok || tag != "Box" {
		t.Errorf("record tag = %q, %v", tag, ok)
	}

	var ctor *ConstructorPattern
	Inspect(g.Functions[0], func(n Node) bool {
		if p, ok := n.(*ConstructorPattern); ok {
			ctor = p
		}
		return true
	})
	if ctor == nil || !ctor.Constructor.IsKnown() {
		t.Fatalf("constructor pattern not resolved: %+v", ctor)
	}
	if doc, ok := PatternDocumentation(ctor); ok {
		t.Errorf("unexpected documentation %q", doc)
	}
}

func TestResolve_RejectsUse(t *testing.T) {
	use := &Use{Loc: sp(10, 30), Call: varExpr(20, 30, "f")}
	m := &UntypedModule{Name: "m", Groups: []*TargetGroup{AnyTarget(&Function{
		Loc:  sp(0, 5),
		Body: []Statement{use},
	})}}
	_, err := Resolve(context.Background(), m, target.Erlang, stubResolver{})
	if !errors.Is(err, ErrUseStatement) {
		t.Fatalf("Resolve error = %v, want ErrUseStatement", err)
	}
}

func TestResolve_PropagatesResolverErrors(t *testing.T) {
	m := richModule()
	var target0 Node
	for def := range m.Definitions(target.Erlang) {
		if c, ok := def.(*ModuleConstant); ok {
			target0 = c.Value
		}
	}
	_, err := Resolve(context.Background(), m, target.Erlang, stubResolver{failOn: target0})
	if !errors.Is(err, errStub) {
		t.Fatalf("Resolve error = %v, want the resolver's error", err)
	}
}

func TestResolve_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Resolve(ctx, richModule(), target.Erlang, stubResolver{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Resolve error = %v, want context.Canceled", err)
	}
}

func TestCheckPhase_ReportsFirstViolation(t *testing.T) {
	fn := richFunction()
	err := CheckPhase(fn, Resolved)
	var pe *PhaseError
	if !errors.As(err, &pe) {
		t.Fatalf("CheckPhase = %v, want *PhaseError", err)
	}
	if pe.Node != "Function" || pe.Slot != "ReturnType" {
		t.Errorf("first violation = %s.%s", pe.Node, pe.Slot)
	}

	// A single filled slot makes an unresolved tree invalid.
	fn.Args[0].Type = Fill(stubType())
	err = CheckPhase(fn, Unresolved)
	if !errors.As(err, &pe) || pe.Node != "Arg" || pe.Span != sp(7, 8) {
		t.Errorf("CheckPhase(unresolved) = %v", err)
	}
}

func TestCheckPhase_CustomTypeParameters(t *testing.T) {
	ct := &CustomType{Name: "Pair", Parameters: []string{"a", "b"}}
	if err := CheckPhase(ct, Unresolved); err != nil {
		t.Errorf("unresolved custom type: %v", err)
	}
	ct.TypedParameters = []TypeSlot{Fill(stubType())}
	if CheckPhase(ct, Unresolved) == nil || CheckPhase(ct, Resolved) == nil {
		t.Errorf("partly resolved parameters accepted")
	}
	ct.TypedParameters = append(ct.TypedParameters, Fill(stubType()))
	if err := CheckPhase(ct, Resolved); err != nil {
		t.Errorf("resolved custom type: %v", err)
	}
}
