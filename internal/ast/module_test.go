package ast

import (
	"slices"
	"testing"

	"arbor/internal/target"
)

func filteringModule() *UntypedModule {
	imp := func(module string, start uint32) *Import {
		return &Import{Loc: sp(start, start+10), Module: module}
	}
	return &UntypedModule{
		Name: "main",
		Groups: []*TargetGroup{
			AnyTarget(imp("a", 0)),
			OnlyTarget(target.Erlang, imp("b", 20)),
			OnlyTarget(target.JavaScript, imp("c", 40)),
			AnyTarget(imp("d", 60)),
		},
	}
}

func TestUntypedModule_Dependencies(t *testing.T) {
	tests := []struct {
		target target.Target
		want   []string
	}{
		{target: target.Erlang, want: []string{"a", "b", "d"}},
		{target: target.JavaScript, want: []string{"a", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.target.String(), func(t *testing.T) {
			m := filteringModule()
			deps := m.Dependencies(tt.target)
			got := make([]string, len(deps))
			for i, d := range deps {
				got[i] = d.Module
			}
			if !slices.Equal(got, tt.want) {
				t.Fatalf("Dependencies(%s) = %v, want %v", tt.target, got, tt.want)
			}

			// Matches a manual filter over the groups, spans included.
			var manual []Dependency
			for _, g := range m.Groups {
				if !g.IsFor(tt.target) {
					continue
				}
				for _, def := range g.Definitions() {
					if imp, ok := def.(*Import); ok {
						manual = append(manual, Dependency{Module: imp.Module, Location: imp.Loc})
					}
				}
			}
			if !slices.Equal(deps, manual) {
				t.Errorf("Dependencies = %v, manual filter = %v", deps, manual)
			}
		})
	}
}

func TestUntypedModule_DefinitionsDeterministic(t *testing.T) {
	m := richModule()
	first := slices.Collect(m.Definitions(target.Erlang))
	second := slices.Collect(m.Definitions(target.Erlang))
	if !slices.Equal(first, second) {
		t.Fatal("iterating twice yielded different sequences")
	}
	for _, def := range first {
		if _, ok := def.(*ExternalFunction); ok {
			t.Errorf("JavaScript-only definition yielded for erlang")
		}
	}
}

func TestUntypedModule_DefinitionsStopsEarly(t *testing.T) {
	m := richModule()
	n := 0
	for range m.Definitions(target.Erlang) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Fatalf("visited %d definitions, want 2", n)
	}
}

func TestUntypedModule_TakeDefinitions(t *testing.T) {
	m := richModule()
	jsOnly := m.Groups[1]
	erlangOnly := m.Groups[2]

	taken := m.TakeDefinitions(target.JavaScript)
	if len(taken) != 6 {
		t.Fatalf("took %d definitions, want 6", len(taken))
	}
	if !m.Groups[0].IsEmpty() || !jsOnly.IsEmpty() {
		t.Errorf("taken groups still hold definitions")
	}
	if erlangOnly.Len() != 1 {
		t.Errorf("erlang-only group was consumed: len %d", erlangOnly.Len())
	}
}

func TestTargetGroup(t *testing.T) {
	everywhere := AnyTarget(&Function{Name: "f"})
	only := OnlyTarget(target.Erlang, &Function{Name: "g"}, &Function{Name: "h"})

	if _, ok := everywhere.Target(); ok {
		t.Errorf("AnyTarget reports a target")
	}
	if tg, ok := only.Target(); !ok || tg != target.Erlang {
		t.Errorf("Target() = %v, %v; want erlang, true", tg, ok)
	}
	for _, tg := range target.All() {
		if !everywhere.IsFor(tg) {
			t.Errorf("AnyTarget not for %s", tg)
		}
	}
	if only.IsFor(target.JavaScript) {
		t.Errorf("erlang group selected for javascript")
	}
	if only.Len() != 2 {
		t.Errorf("Len() = %d, want 2", only.Len())
	}
	defs := only.Take()
	if len(defs) != 2 || !only.IsEmpty() {
		t.Errorf("Take() = %d definitions, group empty = %v", len(defs), only.IsEmpty())
	}
}
