package source

import (
	"testing"
)

func TestSpan_Contains(t *testing.T) {
	tests := []struct {
		name   string
		span   Span
		offset uint32
		want   bool
	}{
		{name: "start is inside", span: Span{Start: 10, End: 20}, offset: 10, want: true},
		{name: "middle is inside", span: Span{Start: 10, End: 20}, offset: 15, want: true},
		{name: "end is outside", span: Span{Start: 10, End: 20}, offset: 20, want: false},
		{name: "before start", span: Span{Start: 10, End: 20}, offset: 9, want: false},
		{name: "empty span contains nothing", span: Span{Start: 5, End: 5}, offset: 5, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.Contains(tt.offset); got != tt.want {
				t.Errorf("%v.Contains(%d) = %v, want %v", tt.span, tt.offset, got, tt.want)
			}
		})
	}
}

func TestSpan_ContainsSpan(t *testing.T) {
	outer := Span{Start: 10, End: 20}
	tests := []struct {
		name  string
		inner Span
		want  bool
	}{
		{name: "identical", inner: outer, want: true},
		{name: "strictly inside", inner: Span{Start: 12, End: 18}, want: true},
		{name: "touches end", inner: Span{Start: 15, End: 20}, want: true},
		{name: "overhangs end", inner: Span{Start: 15, End: 21}, want: false},
		{name: "overhangs start", inner: Span{Start: 9, End: 12}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outer.ContainsSpan(tt.inner); got != tt.want {
				t.Errorf("%v.ContainsSpan(%v) = %v, want %v", outer, tt.inner, got, tt.want)
			}
		})
	}
}

func TestSpan_Cover(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Span
		expected Span
	}{
		{name: "disjoint", a: Span{Start: 1, End: 3}, b: Span{Start: 7, End: 9}, expected: Span{Start: 1, End: 9}},
		{name: "nested", a: Span{Start: 1, End: 10}, b: Span{Start: 3, End: 4}, expected: Span{Start: 1, End: 10}},
		{name: "reversed order", a: Span{Start: 7, End: 9}, b: Span{Start: 1, End: 3}, expected: Span{Start: 1, End: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.expected {
				t.Errorf("Cover() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestSpan_LenAndEmpty(t *testing.T) {
	if got := (Span{Start: 4, End: 9}).Len(); got != 5 {
		t.Fatalf("Len() = %d, want 5", got)
	}
	if !(Span{Start: 4, End: 4}).Empty() {
		t.Fatalf("zero-length span must be empty")
	}
	if got := (Span{Start: 9, End: 4}).Len(); got != 0 {
		t.Fatalf("inverted span Len() = %d, want 0", got)
	}
}

func TestSpan_ShiftRight(t *testing.T) {
	got := Span{Start: 10, End: 20}.ShiftRight(5)
	if got != (Span{Start: 15, End: 25}) {
		t.Fatalf("ShiftRight() = %+v", got)
	}
}
