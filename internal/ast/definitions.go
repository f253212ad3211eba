package ast

import (
	"arbor/internal/source"
)

// Function is a function definition:
//
//	pub fn bar() -> String { ... }
//	fn foo(x: Int) -> Int { ... }
//
// Location covers the head (up to the return annotation); EndPosition is the
// offset just past the closing brace of the body.
type Function struct {
	Loc              source.Span
	EndPosition      uint32
	Name             string
	Args             []*Arg
	Body             []Statement
	Public           bool
	ReturnAnnotation TypeAst
	ReturnType       TypeSlot
	Doc              string
}

// Extent covers the whole definition, head and body.
func (f *Function) Extent() source.Span {
	return source.Span{Start: f.Loc.Start, End: max(f.EndPosition, f.Loc.End)}
}

// ArgNamesKind distinguishes how a function argument binds its value.
type ArgNamesKind uint8

const (
	ArgDiscard ArgNamesKind = iota
	ArgLabelledDiscard
	ArgNamed
	ArgNamedLabelled
)

// ArgNames is the binding form of a function argument.
type ArgNames struct {
	Kind  ArgNamesKind
	Name  string
	Label string
}

// CallLabel returns the call-site label, if the argument has one.
func (n ArgNames) CallLabel() (string, bool) {
	switch n.Kind {
	case ArgLabelledDiscard, ArgNamedLabelled:
		return n.Label, true
	default:
		return "", false
	}
}

// VariableName returns the variable the argument binds, if any.
func (n ArgNames) VariableName() (string, bool) {
	switch n.Kind {
	case ArgNamed, ArgNamedLabelled:
		return n.Name, true
	default:
		return "", false
	}
}

// Arg is a function or anonymous-function parameter.
type Arg struct {
	Names      ArgNames
	Loc        source.Span
	Annotation TypeAst
	Type       TypeSlot
}

func (a *Arg) Location() source.Span { return a.Loc }

// ExternalFnArg is a parameter of an external function.
type ExternalFnArg struct {
	Loc        source.Span
	Label      string
	Annotation TypeAst
	Type       TypeSlot
}

func (a *ExternalFnArg) Location() source.Span { return a.Loc }

// ExternalFunction imports a function implemented in the target language:
//
//	pub external fn random_float() -> Float = "rand" "uniform"
type ExternalFunction struct {
	Loc        source.Span
	Public     bool
	Args       []*ExternalFnArg
	Name       string
	Return     TypeAst
	ReturnType TypeSlot
	Module     string
	Fun        string
	Doc        string
}

// TypeAlias gives a new name to an existing type:
//
//	pub type Headers = List(#(String, String))
type TypeAlias struct {
	Loc        source.Span
	Alias      string
	Parameters []string
	Annotation TypeAst
	Type       TypeSlot
	Public     bool
	Doc        string
}

// CustomType defines a type with one or more record constructors. Opaque
// types hide their constructors from other modules.
type CustomType struct {
	Loc             source.Span
	Name            string
	Parameters      []string
	Public          bool
	Constructors    []*RecordConstructor
	Doc             string
	Opaque          bool
	TypedParameters []TypeSlot
}

// RecordConstructor is one variant of a custom type.
type RecordConstructor struct {
	Loc  source.Span
	Name string
	Args []*RecordConstructorArg
	Doc  string
}

func (c *RecordConstructor) Location() source.Span { return c.Loc }
func (c *RecordConstructor) PutDoc(doc string)     { c.Doc = doc }

// RecordConstructorArg is a (possibly labelled) field of a record constructor.
type RecordConstructorArg struct {
	Label      string
	Annotation TypeAst
	Loc        source.Span
	Type       TypeSlot
	Doc        string
}

func (a *RecordConstructorArg) Location() source.Span { return a.Loc }
func (a *RecordConstructorArg) PutDoc(doc string)     { a.Doc = doc }

// ExternalType declares a type defined in the target language:
//
//	pub external type Queue(a)
type ExternalType struct {
	Loc    source.Span
	Public bool
	Name   string
	Args   []string
	Doc    string
}

// ModuleConstant is a named constant:
//
//	pub const start_year = 2101
type ModuleConstant struct {
	Loc        source.Span
	Public     bool
	Name       string
	Annotation TypeAst
	Value      Constant
	Type       TypeSlot
	Doc        string
}

func (f *Function) Location() source.Span         { return f.Loc }
func (f *ExternalFunction) Location() source.Span { return f.Loc }
func (a *TypeAlias) Location() source.Span        { return a.Loc }
func (c *CustomType) Location() source.Span       { return c.Loc }
func (t *ExternalType) Location() source.Span     { return t.Loc }
func (c *ModuleConstant) Location() source.Span   { return c.Loc }

func (f *Function) PutDoc(doc string)         { f.Doc = doc }
func (f *ExternalFunction) PutDoc(doc string) { f.Doc = doc }
func (a *TypeAlias) PutDoc(doc string)        { a.Doc = doc }
func (c *CustomType) PutDoc(doc string)       { c.Doc = doc }
func (t *ExternalType) PutDoc(doc string)     { t.Doc = doc }
func (c *ModuleConstant) PutDoc(doc string)   { c.Doc = doc }

func (f *Function) Documentation() (string, bool)         { return f.Doc, f.Doc != "" }
func (f *ExternalFunction) Documentation() (string, bool) { return f.Doc, f.Doc != "" }
func (a *TypeAlias) Documentation() (string, bool)        { return a.Doc, a.Doc != "" }
func (c *CustomType) Documentation() (string, bool)       { return c.Doc, c.Doc != "" }
func (t *ExternalType) Documentation() (string, bool)     { return t.Doc, t.Doc != "" }
func (c *ModuleConstant) Documentation() (string, bool)   { return c.Doc, c.Doc != "" }

func (*Function) definitionNode()         {}
func (*ExternalFunction) definitionNode() {}
func (*TypeAlias) definitionNode()        {}
func (*CustomType) definitionNode()       {}
func (*ExternalType) definitionNode()     {}
func (*ModuleConstant) definitionNode()   {}
func (*Import) definitionNode()           {}

// ModuleFunction is either kind of function definition.
type ModuleFunction interface {
	Definition
	FunctionName() string
}

func (f *Function) FunctionName() string         { return f.Name }
func (f *ExternalFunction) FunctionName() string { return f.Name }
