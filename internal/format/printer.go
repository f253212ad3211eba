package format

import (
	"fmt"
	"strings"

	"arbor/internal/ast"
)

type Options struct {
	IndentWidth int
	UseTabs     bool
	// KeepDoc prints documentation comments on definitions.
	KeepDoc bool
}

// DefaultOptions matches the language's own style: two-space indent and
// documentation kept.
func DefaultOptions() Options {
	return Options{IndentWidth: 2, KeepDoc: true}
}

func (o Options) withDefaults() Options {
	if o.IndentWidth == 0 {
		o.IndentWidth = 2
	}
	return o
}

type printer struct {
	w   *Writer
	opt Options
}

func newPrinter(opt Options) *printer {
	opt = opt.withDefaults()
	return &printer{w: NewWriter(opt), opt: opt}
}

// Expr renders an expression on default options.
func Expr(e ast.Expr) string {
	p := newPrinter(DefaultOptions())
	p.expr(e)
	return p.w.String()
}

// Pattern renders a pattern.
func Pattern(pat ast.Pattern) string {
	p := newPrinter(DefaultOptions())
	p.pattern(pat)
	return p.w.String()
}

// Constant renders a constant.
func Constant(c ast.Constant) string {
	p := newPrinter(DefaultOptions())
	p.constant(c)
	return p.w.String()
}

// Guard renders a clause guard.
func Guard(g ast.ClauseGuard) string {
	p := newPrinter(DefaultOptions())
	p.guard(g)
	return p.w.String()
}

// TypeAst renders a type annotation.
func TypeAst(t ast.TypeAst) string {
	p := newPrinter(DefaultOptions())
	p.typeAst(t)
	return p.w.String()
}

// Statement renders a statement.
func Statement(s ast.Statement) string {
	p := newPrinter(DefaultOptions())
	p.statement(s)
	return p.w.String()
}

// Definition renders one top-level definition.
func Definition(d ast.Definition, opt Options) string {
	p := newPrinter(opt)
	p.definition(d)
	return p.w.String()
}

// FormatUntyped renders a parsed module. Definitions restricted to one
// backend are prefixed with a target attribute.
func FormatUntyped(m *ast.UntypedModule, opt Options) []byte {
	p := newPrinter(opt)
	p.moduleDoc(m.Documentation)
	for _, group := range m.Groups {
		t, only := group.Target()
		for _, def := range group.Definitions() {
			p.w.BlankLine()
			if only {
				p.w.WriteString(fmt.Sprintf("@target(%s)", t))
				p.w.Newline()
			}
			p.definition(def)
		}
	}
	p.w.Newline()
	return p.w.Bytes()
}

// FormatTyped renders a resolved module.
func FormatTyped(m *ast.TypedModule, opt Options) []byte {
	p := newPrinter(opt)
	p.moduleDoc(m.Documentation)
	for _, def := range m.Definitions {
		p.w.BlankLine()
		p.definition(def)
	}
	p.w.Newline()
	return p.w.Bytes()
}

func (p *printer) moduleDoc(lines []string) {
	if !p.opt.KeepDoc {
		return
	}
	for _, line := range lines {
		p.w.WriteString("////" + line)
		p.w.Newline()
	}
}

func (p *printer) doc(d interface{ Documentation() (string, bool) }) {
	if !p.opt.KeepDoc {
		return
	}
	text, ok := d.Documentation()
	if !ok {
		return
	}
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		p.w.WriteString("///" + line)
		p.w.Newline()
	}
}

func (p *printer) pub(public bool) {
	if public {
		p.w.WriteString("pub ")
	}
}

func (p *printer) definition(d ast.Definition) {
	p.doc(d)
	switch d := d.(type) {
	case *ast.Function:
		p.pub(d.Public)
		p.w.WriteString("fn " + d.Name)
		p.fnHead(d.Args, d.ReturnAnnotation)
		p.w.Space()
		p.body(d.Body)
	case *ast.ExternalFunction:
		p.pub(d.Public)
		p.w.WriteString("external fn " + d.Name + "(")
		for i, arg := range d.Args {
			p.comma(i)
			if arg.Label != "" {
				p.w.WriteString(arg.Label + ": ")
			}
			p.typeAst(arg.Annotation)
		}
		p.w.WriteString(") -> ")
		p.typeAst(d.Return)
		p.w.WriteString(" =")
		p.w.Newline()
		p.w.IndentPush()
		p.w.WriteString(fmt.Sprintf("%q %q", d.Module, d.Fun))
		p.w.IndentPop()
	case *ast.TypeAlias:
		p.pub(d.Public)
		p.w.WriteString("type " + d.Alias)
		p.parameters(d.Parameters)
		p.w.WriteString(" = ")
		p.typeAst(d.Annotation)
	case *ast.CustomType:
		p.pub(d.Public)
		if d.Opaque {
			p.w.WriteString("opaque ")
		}
		p.w.WriteString("type " + d.Name)
		p.parameters(d.Parameters)
		p.w.WriteString(" {")
		p.w.IndentPush()
		for _, ctor := range d.Constructors {
			p.w.Newline()
			p.recordConstructor(ctor)
		}
		p.w.IndentPop()
		p.w.Newline()
		p.w.WriteString("}")
	case *ast.ExternalType:
		p.pub(d.Public)
		p.w.WriteString("external type " + d.Name)
		p.parameters(d.Args)
	case *ast.ModuleConstant:
		p.pub(d.Public)
		p.w.WriteString("const " + d.Name)
		p.annotation(d.Annotation)
		p.w.WriteString(" = ")
		p.constant(d.Value)
	case *ast.Import:
		p.importDef(d)
	default:
		panic(fmt.Errorf("format: unknown definition %T", d))
	}
}

func (p *printer) recordConstructor(c *ast.RecordConstructor) {
	p.doc(docOf(c.Doc))
	p.w.WriteString(c.Name)
	if len(c.Args) == 0 {
		return
	}
	p.w.WriteString("(")
	for i, arg := range c.Args {
		p.comma(i)
		if arg.Label != "" {
			p.w.WriteString(arg.Label + ": ")
		}
		p.typeAst(arg.Annotation)
	}
	p.w.WriteString(")")
}

type docOf string

func (d docOf) Documentation() (string, bool) { return string(d), d != "" }

func (p *printer) importDef(imp *ast.Import) {
	p.w.WriteString("import " + imp.Module)
	if len(imp.Unqualified) > 0 {
		p.w.WriteString(".{")
		for i, u := range imp.Unqualified {
			p.comma(i)
			if u.Layer == ast.LayerType {
				p.w.WriteString("type ")
			}
			p.w.WriteString(u.Name)
			if u.As != "" {
				p.w.WriteString(" as " + u.As)
			}
		}
		p.w.WriteString("}")
	}
	if imp.As != "" {
		p.w.WriteString(" as " + imp.As)
	}
}

func (p *printer) parameters(params []string) {
	if len(params) == 0 {
		return
	}
	p.w.WriteString("(" + strings.Join(params, ", ") + ")")
}

func (p *printer) fnHead(args []*ast.Arg, ret ast.TypeAst) {
	p.w.WriteString("(")
	for i, arg := range args {
		p.comma(i)
		p.arg(arg)
	}
	p.w.WriteString(")")
	if ret != nil {
		p.w.WriteString(" -> ")
		p.typeAst(ret)
	}
}

func (p *printer) arg(a *ast.Arg) {
	if label, ok := a.Names.CallLabel(); ok {
		p.w.WriteString(label + " ")
	}
	p.w.WriteString(a.Names.Name)
	p.annotation(a.Annotation)
}

func (p *printer) annotation(t ast.TypeAst) {
	if t == nil {
		return
	}
	p.w.WriteString(": ")
	p.typeAst(t)
}

// body prints `{ ... }` with one statement per line.
func (p *printer) body(stmts []ast.Statement) {
	if len(stmts) == 0 {
		p.w.WriteString("{}")
		return
	}
	p.w.WriteString("{")
	p.w.IndentPush()
	for _, s := range stmts {
		p.w.Newline()
		p.statement(s)
	}
	p.w.IndentPop()
	p.w.Newline()
	p.w.WriteString("}")
}

func (p *printer) comma(i int) {
	if i > 0 {
		p.w.WriteString(", ")
	}
}
