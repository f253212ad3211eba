package ast

import (
	"fmt"
	"strings"

	"arbor/internal/source"
)

// Layer is the namespace an unqualified import lives in.
type Layer uint8

const (
	LayerValue Layer = iota
	LayerType
)

func (l Layer) String() string {
	if l == LayerType {
		return "type"
	}
	return "value"
}

// Import brings another module into scope:
//
//	import unix/cat
//	import animal/cat as kitty
//	import animal/cat.{Cat, type Kitten as Kit}
type Import struct {
	Loc         source.Span
	Module      string
	As          string
	Unqualified []UnqualifiedImport
	Package     PackageSlot
}

func (i *Import) Location() source.Span { return i.Loc }

// Documentation is never attached to imports.
func (i *Import) Documentation() (string, bool) { return "", false }

// PutDoc is a no-op: imports do not carry documentation.
func (i *Import) PutDoc(string) {}

// VariableName is the name the imported module is bound to: the alias, or
// the last segment of the module path.
func (i *Import) VariableName() string {
	if i.As != "" {
		return i.As
	}
	name := i.Module[strings.LastIndexByte(i.Module, '/')+1:]
	if name == "" {
		panic(fmt.Errorf("ast: import at %v has no module name segment in %q", i.Loc, i.Module))
	}
	return name
}

// UnqualifiedImport is a single name imported without its module prefix.
type UnqualifiedImport struct {
	Loc   source.Span
	Name  string
	As    string
	Layer Layer
}

func (u UnqualifiedImport) VariableName() string {
	if u.As != "" {
		return u.As
	}
	return u.Name
}

func (u UnqualifiedImport) IsValue() bool {
	return u.Layer == LayerValue
}
