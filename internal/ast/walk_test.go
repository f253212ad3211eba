package ast

import (
	"testing"
)

func TestChildren_SourceOrder(t *testing.T) {
	left, right := intExpr(0, 1, "1"), intExpr(4, 5, "2")
	call := &CallExpr{
		Loc:  sp(0, 20),
		Fun:  varExpr(0, 3, "add"),
		Args: []*CallArg[Expr]{{Loc: sp(4, 10), Value: &BinOpExpr{Loc: sp(4, 10), Op: OpAddInt, Left: left, Right: right}}},
	}
	kids := Children(call)
	if len(kids) != 2 {
		t.Fatalf("got %d children, want 2", len(kids))
	}
	if _, ok := kids[0].(*VarExpr); !ok {
		t.Errorf("first child = %T, want the callee", kids[0])
	}
	if _, ok := kids[1].(*CallArg[Expr]); !ok {
		t.Errorf("second child = %T, want the argument", kids[1])
	}
}

func TestChildren_SkipsAbsent(t *testing.T) {
	list := &ListExpr{Loc: sp(0, 2)}
	if kids := Children(list); len(kids) != 0 {
		t.Errorf("empty list has %d children", len(kids))
	}
	todo := &TodoExpr{Loc: sp(0, 4)}
	if kids := Children(todo); len(kids) != 0 {
		t.Errorf("todo without message has %d children", len(kids))
	}
}

func TestCountNodes(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want int
	}{
		{"leaf", intExpr(0, 1, "1"), 1},
		{"tuple of two", &TupleExpr{Elements: []Expr{intExpr(1, 2, "1"), intExpr(3, 4, "2")}}, 3},
		// segment, value, size option, size value, flag option
		{"bit string", &BitStringConstant{Segments: []*BitStringSegment[Constant]{{
			Value: &IntConstant{Value: "1"},
			Options: []*SegmentOption[Constant]{
				SizeOption[Constant](sp(0, 1), &IntConstant{Value: "8"}, true),
				NewOption[Constant](OptUnsigned, sp(2, 3)),
			},
		}}}, 6},
		{"guard", &BinaryGuard{
			Op:    GuardAnd,
			Left:  &VarGuard{Name: "a"},
			Right: &ConstantGuard{Constant: &StringConstant{Value: "b"}},
		}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountNodes(tt.node); got != tt.want {
				t.Errorf("CountNodes = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInspect_Prunes(t *testing.T) {
	fn := richFunction()
	var sawCaseChild bool
	Inspect(fn, func(n Node) bool {
		if _, ok := n.(*Clause); ok {
			sawCaseChild = true
		}
		_, isCase := n.(*CaseExpr)
		return !isCase
	})
	if sawCaseChild {
		t.Errorf("Inspect descended into a pruned case expression")
	}
	if CountNodes(fn) < 40 {
		t.Errorf("rich function has only %d nodes", CountNodes(fn))
	}
}
