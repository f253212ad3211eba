package ast

import (
	"testing"
)

func TestSlot(t *testing.T) {
	var empty TagSlot
	if empty.IsResolved() {
		t.Fatalf("zero slot is resolved")
	}
	if _, ok := empty.Get(); ok {
		t.Errorf("Get on empty slot reports a value")
	}

	full := Fill("Ok")
	if v, ok := full.Get(); !ok || v != "Ok" {
		t.Errorf("Get() = %q, %v", v, ok)
	}
	if full.Must() != "Ok" {
		t.Errorf("Must() = %q", full.Must())
	}

	// A resolved zero value is still resolved.
	zero := Fill(uint64(0))
	if !zero.IsResolved() {
		t.Errorf("filled zero index is not resolved")
	}
}

func TestSlot_MustPanicsWhenEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Must on an empty slot did not panic")
		}
	}()
	var s TypeSlot
	s.Must()
}

func TestInferred(t *testing.T) {
	unknown := Unknown[*PatternConstructor]()
	if unknown.IsKnown() {
		t.Errorf("Unknown reports known")
	}
	ctor := &PatternConstructor{Name: "Some"}
	known := Known(ctor)
	if got, ok := known.Get(); !ok || got != ctor {
		t.Errorf("Get() = %v, %v", got, ok)
	}
	// Known(nil) is still a known state.
	if !Known[*PatternConstructor](nil).IsKnown() {
		t.Errorf("Known(nil) is not known")
	}
}

func TestPhase_String(t *testing.T) {
	if Unresolved.String() != "unresolved" || Resolved.String() != "resolved" {
		t.Errorf("unexpected names %q, %q", Unresolved, Resolved)
	}
}
