package ast

import (
	"errors"

	"arbor/internal/source"
	"arbor/internal/target"
	"arbor/internal/types"
)

func sp(start, end uint32) source.Span {
	return source.Span{Start: start, End: end}
}

func intExpr(start, end uint32, v string) *IntExpr {
	return &IntExpr{Loc: sp(start, end), Value: v}
}

func varExpr(start, end uint32, name string) *VarExpr {
	return &VarExpr{Loc: sp(start, end), Name: name}
}

// richFunction is an unresolved function exercising most node kinds:
//
//	fn run(x) {
//	  let #(a, _, [1, ..rest]) = #(1, [2.0, ..xs])
//	  case x {
//	    Ok(value) if value > 10 -> f(by: <<1:size(8)-big>>)
//	    _ -> todo
//	  }
//	  { -a.count  t.0 }
//	}
func richFunction() *Function {
	return &Function{
		Loc:         sp(0, 20),
		EndPosition: 200,
		Name:        "run",
		Args:        []*Arg{{Names: ArgNames{Kind: ArgNamed, Name: "x"}, Loc: sp(7, 8)}},
		Body: []Statement{
			&Assignment{
				Loc: sp(22, 60),
				Pattern: &TuplePattern{Loc: sp(26, 40), Elems: []Pattern{
					&VarPattern{Loc: sp(28, 29), Name: "a"},
					&DiscardPattern{Loc: sp(31, 32), Name: "_"},
					&ListPattern{
						Loc:      sp(34, 39),
						Elements: []Pattern{&IntPattern{Loc: sp(35, 36), Value: "1"}},
						Tail:     &VarPattern{Loc: sp(37, 39), Name: "rest"},
					},
				}},
				Value: &TupleExpr{Loc: sp(43, 60), Elements: []Expr{
					intExpr(44, 45, "1"),
					&ListExpr{
						Loc:      sp(47, 59),
						Elements: []Expr{&FloatExpr{Loc: sp(48, 51), Value: "2.0"}},
						Tail:     varExpr(54, 56, "xs"),
					},
				}},
			},
			&ExprStatement{Expr: &CaseExpr{
				Loc:      sp(62, 150),
				Subjects: []Expr{varExpr(67, 68, "x")},
				Clauses: []*Clause{
					{
						Loc: sp(71, 120),
						Pattern: MultiPattern{&ConstructorPattern{
							Loc:         sp(71, 80),
							Name:        "Ok",
							Args:        []*CallArg[Pattern]{{Loc: sp(74, 79), Value: &VarPattern{Loc: sp(74, 79), Name: "value"}}},
							Constructor: Unknown[*PatternConstructor](),
						}},
						Guard: &BinaryGuard{
							Loc:   sp(84, 100),
							Op:    GuardGtInt,
							Left:  &VarGuard{Loc: sp(84, 89), Name: "value"},
							Right: &ConstantGuard{Constant: &IntConstant{Loc: sp(92, 100), Value: "10"}},
						},
						Then: &CallExpr{
							Loc: sp(104, 120),
							Fun: varExpr(104, 105, "f"),
							Args: []*CallArg[Expr]{{
								Label: "by",
								Loc:   sp(106, 119),
								Value: &BitStringExpr{Loc: sp(110, 119), Segments: []*BitStringSegment[Expr]{{
									Loc:   sp(112, 118),
									Value: intExpr(112, 113, "1"),
									Options: []*SegmentOption[Expr]{
										SizeOption[Expr](sp(113, 115), intExpr(114, 115, "8"), true),
										NewOption[Expr](OptBig, sp(115, 118)),
									},
								}}},
							}},
						},
					},
					{
						Pattern: MultiPattern{&DiscardPattern{Loc: sp(122, 123), Name: "_"}},
						Then:    &TodoExpr{Loc: sp(127, 131), Kind: TodoKeyword},
					},
				},
			}},
			&ExprStatement{Expr: &BlockExpr{Loc: sp(152, 199), Statements: []Statement{
				&ExprStatement{Expr: &NegateIntExpr{Loc: sp(154, 162), Value: &RecordAccessExpr{
					Loc:    sp(155, 162),
					Label:  "count",
					Record: varExpr(155, 156, "a"),
				}}},
				&ExprStatement{Expr: &TupleIndexExpr{Loc: sp(164, 167), Index: 0, Tuple: varExpr(164, 165, "t")}},
			}}},
		},
	}
}

// richModule groups one definition of every kind, with an external function
// compiled for JavaScript only.
func richModule() *UntypedModule {
	return &UntypedModule{
		Name:          "app/run",
		Documentation: []string{" Runs things."},
		Groups: []*TargetGroup{
			AnyTarget(
				&Import{Loc: sp(300, 320), Module: "gleam/list", Unqualified: []UnqualifiedImport{{Loc: sp(312, 316), Name: "map", Layer: LayerValue}}},
				richFunction(),
				&CustomType{
					Loc:        sp(400, 460),
					Name:       "Box",
					Parameters: []string{"a"},
					Public:     true,
					Constructors: []*RecordConstructor{{
						Loc:  sp(420, 450),
						Name: "Box",
						Args: []*RecordConstructorArg{{
							Label:      "inner",
							Loc:        sp(424, 449),
							Annotation: &VarTypeAst{Loc: sp(431, 432), Name: "a"},
						}},
					}},
				},
				&ModuleConstant{
					Loc:  sp(500, 540),
					Name: "default",
					Value: &RecordConstant{
						Loc:  sp(517, 540),
						Name: "Box",
						Args: []*CallArg[Constant]{{Loc: sp(521, 539), Value: &ListConstant{
							Loc:      sp(521, 539),
							Elements: []Constant{&IntConstant{Loc: sp(522, 523), Value: "1"}, &VarConstant{Loc: sp(525, 538), Name: "other"}},
						}}},
					},
				},
				&TypeAlias{
					Loc:        sp(550, 580),
					Alias:      "Pair",
					Annotation: &TupleTypeAst{Loc: sp(562, 580), Elems: []TypeAst{&ConstructorTypeAst{Loc: sp(564, 567), Name: "Int"}}},
				},
			),
			OnlyTarget(target.JavaScript,
				&ExternalFunction{
					Loc:    sp(600, 660),
					Name:   "now",
					Return: &ConstructorTypeAst{Loc: sp(620, 623), Name: "Int"},
					Module: "./ffi.mjs",
					Fun:    "now",
				},
			),
			OnlyTarget(target.Erlang, &ExternalType{Loc: sp(700, 720), Name: "Ref"}),
		},
	}
}

// stubResolver fills every slot with a value derived from the node's span.
type stubResolver struct {
	failOn Node
}

func (r stubResolver) check(n Node) error {
	if r.failOn != nil && n == r.failOn {
		return errStub
	}
	return nil
}

var errStub = errors.New("stub failure")

func (r stubResolver) ModuleInfo(module string) (*ModuleInfo, error) {
	return &ModuleInfo{Name: module, Package: "app"}, nil
}

func (r stubResolver) Type(n Node) (*types.Type, error) {
	if err := r.check(n); err != nil {
		return nil, err
	}
	return types.Var(uint64(n.Location().Start)), nil
}

func (r stubResolver) Value(n Node) (*ValueConstructor, error) {
	if err := r.check(n); err != nil {
		return nil, err
	}
	return &ValueConstructor{Variant: ValueLocalVariable, Location: n.Location(), Type: types.Int()}, nil
}

func (r stubResolver) FieldIndex(n Node) (uint64, error) {
	return 0, r.check(n)
}

func (r stubResolver) RecordTag(c *RecordConstant) (string, error) {
	return c.Name, r.check(c)
}

func (r stubResolver) Package(imp *Import) (string, error) {
	return "stdlib", r.check(imp)
}

func (r stubResolver) PatternConstructor(p *ConstructorPattern) (Inferred[*PatternConstructor], error) {
	if err := r.check(p); err != nil {
		return Unknown[*PatternConstructor](), err
	}
	return Known(&PatternConstructor{Name: p.Name, Module: "gleam", Location: sp(1, 2)}), nil
}

func (r stubResolver) TypeParameters(c *CustomType) ([]*types.Type, error) {
	out := make([]*types.Type, len(c.Parameters))
	for i := range out {
		out[i] = types.Var(uint64(i))
	}
	return out, r.check(c)
}

func stubType() *types.Type {
	return types.Var(0)
}
