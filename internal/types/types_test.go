package types

import "testing"

func TestString(t *testing.T) {
	tests := []struct {
		typ  *Type
		want string
	}{
		{typ: Int(), want: "Int"},
		{typ: List(String()), want: "List(String)"},
		{typ: Tuple(Int(), Float()), want: "#(Int, Float)"},
		{typ: Fn([]*Type{Int(), Bool()}, Nil()), want: "fn(Int, Bool) -> Nil"},
		{typ: Named("app", "app/user", "User"), want: "app/user.User"},
		{typ: Result(Var(3), BitString()), want: "Result(t3, BitString)"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	if !Equal(Tuple(Int(), List(Float())), Tuple(Int(), List(Float()))) {
		t.Fatalf("structurally identical tuples must be equal")
	}
	if Equal(Tuple(Int()), Tuple(Float())) {
		t.Fatalf("tuples with different elements must differ")
	}
	if Equal(Named("a", "m", "T"), Named("b", "m", "T")) {
		t.Fatalf("types from different packages must differ")
	}
	if Equal(Int(), nil) {
		t.Fatalf("nil is never equal to a type")
	}
	if !Equal(Fn(nil, Int()), Fn(nil, Int())) {
		t.Fatalf("nullary fns with equal result must be equal")
	}
}

func TestElem(t *testing.T) {
	tup := Tuple(Int(), String())
	if got, ok := tup.Elem(1); !ok || got != String() {
		t.Fatalf("Elem(1) = %v, %v", got, ok)
	}
	if _, ok := tup.Elem(2); ok {
		t.Fatalf("Elem(2) must be out of range")
	}
	if _, ok := Int().Elem(0); ok {
		t.Fatalf("Elem on a non-tuple must fail")
	}
}

func TestBuiltinsAreShared(t *testing.T) {
	if Int() != Int() {
		t.Fatalf("built-in handles must be shared")
	}
	if !Bool().IsPrelude("Bool") || Named("x", "m", "Bool").IsPrelude("Bool") {
		t.Fatalf("IsPrelude mismatch")
	}
}
