package ast

import (
	"fmt"

	"arbor/internal/types"
)

// Phase tells which pipeline stage a tree instance represents.
type Phase uint8

const (
	// Unresolved trees come straight from the parser: every slot is empty.
	Unresolved Phase = iota
	// Resolved trees come out of inference: every slot holds a value.
	Resolved
)

func (p Phase) String() string {
	switch p {
	case Unresolved:
		return "unresolved"
	case Resolved:
		return "resolved"
	default:
		return fmt.Sprintf("Phase(%d)", p)
	}
}

// Slot holds a phase-dependent value. It is empty in unresolved trees and
// filled in resolved ones; CheckPhase verifies that.
type Slot[T any] struct {
	value    T
	resolved bool
}

// Fill returns a resolved slot holding v.
func Fill[T any](v T) Slot[T] {
	return Slot[T]{value: v, resolved: true}
}

func (s Slot[T]) IsResolved() bool {
	return s.resolved
}

// Get returns the stored value and whether the slot is resolved.
func (s Slot[T]) Get() (T, bool) {
	return s.value, s.resolved
}

// Must returns the stored value and panics on an empty slot: reading a
// resolved value out of an unresolved tree is a caller bug.
func (s Slot[T]) Must() T {
	if !s.resolved {
		var zero T
		panic(fmt.Errorf("ast: read of unresolved %T slot", zero))
	}
	return s.value
}

type (
	// TypeSlot carries the inferred type of a node.
	TypeSlot = Slot[*types.Type]
	// TagSlot carries the resolved record tag of a record constant.
	TagSlot = Slot[string]
	// PackageSlot carries the package an import resolves to.
	PackageSlot = Slot[string]
	// ValueSlot carries the definition a variable reference resolves to.
	ValueSlot = Slot[*ValueConstructor]
	// IndexSlot carries a resolved record field index.
	IndexSlot = Slot[uint64]
)

// Inferred is the deferred-resolution state of a pattern constructor. Unknown
// is a legal state in both phases and is distinct from "resolution failed",
// which never reaches the tree.
type Inferred[T any] struct {
	value T
	known bool
}

// Known wraps a resolved value.
func Known[T any](v T) Inferred[T] {
	return Inferred[T]{value: v, known: true}
}

// Unknown is the not-yet-resolved state.
func Unknown[T any]() Inferred[T] {
	return Inferred[T]{}
}

func (i Inferred[T]) IsKnown() bool {
	return i.known
}

func (i Inferred[T]) Get() (T, bool) {
	return i.value, i.known
}
