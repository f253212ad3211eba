// Package types holds the immutable type handles stored in the resolved
// phase of the syntax tree. Handles are shared freely between nodes and
// must never be mutated after construction.
package types

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// Kind enumerates the structural kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNamed        // constructor application: Int, List(a), Result(a, b)
	KindFn
	KindTuple
	KindVar
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNamed:
		return "named"
	case KindFn:
		return "fn"
	case KindTuple:
		return "tuple"
	case KindVar:
		return "var"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// PreludeModule is the module that defines the built-in types.
const PreludeModule = "prelude"

// Type is a structural type descriptor.
type Type struct {
	Kind    Kind
	Package string  // KindNamed
	Module  string  // KindNamed
	Name    string  // KindNamed
	Args    []*Type // KindNamed arguments, KindFn parameters
	Result  *Type   // KindFn
	Elems   []*Type // KindTuple
	VarID   uint64  // KindVar
}

var (
	intType       = &Type{Kind: KindNamed, Module: PreludeModule, Name: "Int"}
	floatType     = &Type{Kind: KindNamed, Module: PreludeModule, Name: "Float"}
	stringType    = &Type{Kind: KindNamed, Module: PreludeModule, Name: "String"}
	bitStringType = &Type{Kind: KindNamed, Module: PreludeModule, Name: "BitString"}
	boolType      = &Type{Kind: KindNamed, Module: PreludeModule, Name: "Bool"}
	nilType       = &Type{Kind: KindNamed, Module: PreludeModule, Name: "Nil"}
	utfCodepoint  = &Type{Kind: KindNamed, Module: PreludeModule, Name: "UtfCodepoint"}
)

func Int() *Type          { return intType }
func Float() *Type        { return floatType }
func String() *Type       { return stringType }
func BitString() *Type    { return bitStringType }
func Bool() *Type         { return boolType }
func Nil() *Type          { return nilType }
func UtfCodepoint() *Type { return utfCodepoint }

// List returns List(elem).
func List(elem *Type) *Type {
	return &Type{Kind: KindNamed, Module: PreludeModule, Name: "List", Args: []*Type{elem}}
}

// Result returns Result(ok, err).
func Result(ok, err *Type) *Type {
	return &Type{Kind: KindNamed, Module: PreludeModule, Name: "Result", Args: []*Type{ok, err}}
}

// Named returns a user-defined constructor application.
func Named(pkg, module, name string, args ...*Type) *Type {
	return &Type{Kind: KindNamed, Package: pkg, Module: module, Name: name, Args: cloneTypes(args)}
}

// Tuple returns the structural tuple of elems.
func Tuple(elems ...*Type) *Type {
	return &Type{Kind: KindTuple, Elems: cloneTypes(elems)}
}

// Fn returns fn(args) -> result.
func Fn(args []*Type, result *Type) *Type {
	return &Type{Kind: KindFn, Args: cloneTypes(args), Result: result}
}

// Var returns an unbound type variable.
func Var(id uint64) *Type {
	return &Type{Kind: KindVar, VarID: id}
}

func cloneTypes(ts []*Type) []*Type {
	if len(ts) == 0 {
		return nil
	}
	return append([]*Type(nil), ts...)
}

// Elem returns the tuple element at index.
func (t *Type) Elem(index uint64) (*Type, bool) {
	if t == nil || t.Kind != KindTuple {
		return nil, false
	}
	i, err := safecast.Conv[int](index)
	if err != nil || i >= len(t.Elems) {
		return nil, false
	}
	return t.Elems[i], true
}

// IsPrelude reports whether t is the prelude type called name.
func (t *Type) IsPrelude(name string) bool {
	return t != nil && t.Kind == KindNamed && t.Module == PreludeModule && t.Name == name
}

// Equal compares two types structurally.
func Equal(a, b *Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNamed:
		return a.Package == b.Package && a.Module == b.Module && a.Name == b.Name && equalAll(a.Args, b.Args)
	case KindFn:
		return equalAll(a.Args, b.Args) && Equal(a.Result, b.Result)
	case KindTuple:
		return equalAll(a.Elems, b.Elems)
	case KindVar:
		return a.VarID == b.VarID
	default:
		return false
	}
}

func equalAll(a, b []*Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	var sb strings.Builder
	t.write(&sb)
	return sb.String()
}

func (t *Type) write(sb *strings.Builder) {
	switch t.Kind {
	case KindNamed:
		if t.Module != PreludeModule && t.Module != "" {
			sb.WriteString(t.Module)
			sb.WriteByte('.')
		}
		sb.WriteString(t.Name)
		if len(t.Args) > 0 {
			sb.WriteByte('(')
			writeList(sb, t.Args)
			sb.WriteByte(')')
		}
	case KindFn:
		sb.WriteString("fn(")
		writeList(sb, t.Args)
		sb.WriteString(") -> ")
		t.Result.write(sb)
	case KindTuple:
		sb.WriteString("#(")
		writeList(sb, t.Elems)
		sb.WriteByte(')')
	case KindVar:
		fmt.Fprintf(sb, "t%d", t.VarID)
	default:
		sb.WriteString("invalid")
	}
}

func writeList(sb *strings.Builder, ts []*Type) {
	for i, a := range ts {
		if i > 0 {
			sb.WriteString(", ")
		}
		if a == nil {
			sb.WriteString("<nil>")
			continue
		}
		a.write(sb)
	}
}
