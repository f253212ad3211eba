package ast

import (
	"testing"

	"arbor/internal/types"
)

// lookupModule is a resolved module for
//
//	fn add(x, y) { let z = x + y  z }   const limit = 10
func lookupModule() (*TypedModule, map[string]Node) {
	x := &Arg{Names: ArgNames{Kind: ArgNamed, Name: "x"}, Loc: sp(7, 8), Type: Fill(types.Int())}
	y := &Arg{Names: ArgNames{Kind: ArgNamed, Name: "y"}, Loc: sp(10, 11), Type: Fill(types.Int())}
	zPat := &VarPattern{Loc: sp(19, 20), Name: "z", Type: Fill(types.Int())}
	xRef := &VarExpr{Loc: sp(23, 24), Name: "x", Constructor: Fill(&ValueConstructor{
		Variant: ValueLocalVariable, Name: "x", Location: sp(7, 8), Type: types.Int(),
	})}
	yRef := &VarExpr{Loc: sp(27, 28), Name: "y", Constructor: Fill(&ValueConstructor{
		Variant: ValueModuleFn, Module: "other", Name: "y", Location: sp(3, 9), Type: types.Int(),
	})}
	sum := &BinOpExpr{Loc: sp(23, 28), Op: OpAddInt, Left: xRef, Right: yRef}
	let := &Assignment{Loc: sp(15, 28), Pattern: zPat, Value: sum}
	zRef := &VarExpr{Loc: sp(30, 31), Name: "z", Constructor: Fill(&ValueConstructor{
		Variant: ValueLocalVariable, Location: sp(19, 20), Type: types.Int(),
	})}
	use := &Use{Loc: sp(40, 60), Call: varExpr(50, 60, "f")}
	fn := &Function{
		Loc:         sp(0, 12),
		EndPosition: 62,
		Name:        "add",
		Args:        []*Arg{x, y},
		Body:        []Statement{let, &ExprStatement{Expr: zRef}, use},
		ReturnType:  Fill(types.Int()),
	}
	limit := &ModuleConstant{Loc: sp(70, 86), Name: "limit", Value: &IntConstant{Loc: sp(84, 86), Value: "10"}, Type: Fill(types.Int())}

	m := &TypedModule{Name: "calc", Definitions: []Definition{fn, limit}}
	return m, map[string]Node{
		"fn": fn, "x": x, "y": y, "z pattern": zPat, "x ref": xRef, "y ref": yRef,
		"sum": sum, "let": let, "z ref": zRef, "limit": limit,
	}
}

func locatedNode(l Located) Node {
	switch l := l.(type) {
	case LocatedDefinition:
		return l.Definition
	case LocatedStatement:
		return l.Statement
	case LocatedExpr:
		return l.Expr
	case LocatedPattern:
		return l.Pattern
	case LocatedArg:
		return l.Arg
	}
	return nil
}

func TestTypedModule_FindNode(t *testing.T) {
	m, nodes := lookupModule()
	tests := []struct {
		name   string
		offset uint32
		want   string // key into nodes, "" for no match
	}{
		{name: "function head", offset: 2, want: "fn"},
		{name: "first argument", offset: 7, want: "x"},
		{name: "second argument", offset: 10, want: "y"},
		{name: "let keyword", offset: 16, want: "let"},
		{name: "bound pattern", offset: 19, want: "z pattern"},
		{name: "left operand", offset: 23, want: "x ref"},
		{name: "operator", offset: 25, want: "sum"},
		{name: "right operand", offset: 27, want: "y ref"},
		{name: "bare expression", offset: 30, want: "z ref"},
		{name: "gap in body", offset: 29},
		{name: "inside use", offset: 55},
		{name: "constant value", offset: 85, want: "limit"},
		{name: "past the end", offset: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.FindNode(tt.offset)
			if tt.want == "" {
				if got != nil {
					t.Fatalf("FindNode(%d) = %T, want nil", tt.offset, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("FindNode(%d) = nil, want %s", tt.offset, tt.want)
			}
			if n := locatedNode(got); n != nodes[tt.want] {
				t.Fatalf("FindNode(%d) = %T at %v, want %s", tt.offset, n, got.Location(), tt.want)
			}
			if !got.Location().Contains(tt.offset) {
				t.Errorf("match %v does not contain %d", got.Location(), tt.offset)
			}
		})
	}
}

func TestFindNode_IsDeepest(t *testing.T) {
	m, _ := lookupModule()
	for offset := range uint32(100) {
		got := m.FindNode(offset)
		if got == nil {
			continue
		}
		for _, child := range Children(locatedNode(got)) {
			// Constants are not lookup targets.
			if _, ok := child.(Constant); ok {
				continue
			}
			if Extent(child).Contains(offset) {
				t.Errorf("offset %d: %T at %v has child %T at %v that also contains it",
					offset, locatedNode(got), got.Location(), child, child.Location())
			}
		}
	}
}

func TestFindNode_CasePatterns(t *testing.T) {
	inner := &VarPattern{Loc: sp(12, 13), Name: "a", Type: Fill(types.Int())}
	ctor := &ConstructorPattern{
		Loc:  sp(10, 14),
		Name: "Some",
		Args: []*CallArg[Pattern]{{Loc: sp(12, 13), Value: inner}},
		Constructor: Known(&PatternConstructor{
			Name: "Some", Module: "gleam/option", Location: sp(100, 110),
		}),
		Type: Fill(types.Named("gleam", "gleam/option", "Option", types.Int())),
	}
	alt := &DiscardPattern{Loc: sp(20, 21), Name: "_", Type: Fill(types.Int())}
	then := intExpr(25, 26, "1")
	fn := &Function{
		Loc:         sp(0, 5),
		EndPosition: 30,
		Body: []Statement{&ExprStatement{Expr: &CaseExpr{
			Loc:      sp(6, 28),
			Subjects: []Expr{intExpr(6, 7, "0")},
			Clauses: []*Clause{{
				Pattern:      MultiPattern{ctor},
				Alternatives: []MultiPattern{{alt}},
				Then:         then,
			}},
			Type: Fill(types.Int()),
		}}},
	}
	m := &TypedModule{Definitions: []Definition{fn}}

	if got := m.FindNode(12); got == nil || locatedNode(got) != inner {
		t.Errorf("FindNode(12) = %v, want the argument pattern", got)
	}
	got := m.FindNode(10)
	if got == nil || locatedNode(got) != ctor {
		t.Fatalf("FindNode(10) = %v, want the constructor pattern", got)
	}
	loc, ok := got.DefinitionLocation()
	if !ok || loc.Module != "gleam/option" || loc.Span != sp(100, 110) {
		t.Errorf("DefinitionLocation() = %+v, %v", loc, ok)
	}
	if got := m.FindNode(20); got == nil || locatedNode(got) != alt {
		t.Errorf("FindNode(20) = %v, want the alternative pattern", got)
	}
	if got := m.FindNode(25); got == nil || locatedNode(got) != then {
		t.Errorf("FindNode(25) = %v, want the clause body", got)
	}
}

func TestLocated_DefinitionLocation(t *testing.T) {
	m, _ := lookupModule()
	tests := []struct {
		name       string
		offset     uint32
		wantOK     bool
		wantModule string
		wantSpan   uint32 // start of the definition span
	}{
		{name: "local variable", offset: 23, wantOK: true, wantSpan: 7},
		{name: "module function", offset: 27, wantOK: true, wantModule: "other", wantSpan: 3},
		{name: "binary operator", offset: 25},
		{name: "assignment", offset: 16},
		{name: "pattern", offset: 19},
		{name: "definition is its own site", offset: 2, wantOK: true},
		{name: "argument is its own site", offset: 10, wantOK: true, wantSpan: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.FindNode(tt.offset)
			if got == nil {
				t.Fatalf("FindNode(%d) = nil", tt.offset)
			}
			loc, ok := got.DefinitionLocation()
			if ok != tt.wantOK {
				t.Fatalf("DefinitionLocation() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if loc.Module != tt.wantModule || loc.Span.Start != tt.wantSpan {
				t.Errorf("DefinitionLocation() = %+v, want module %q at %d", loc, tt.wantModule, tt.wantSpan)
			}
		})
	}
}
