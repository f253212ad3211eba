package format

import (
	"fmt"
	"strconv"

	"arbor/internal/ast"
)

func (p *printer) pattern(pat ast.Pattern) {
	switch pat := pat.(type) {
	case *ast.IntPattern:
		p.w.WriteString(pat.Value)
	case *ast.FloatPattern:
		p.w.WriteString(pat.Value)
	case *ast.StringPattern:
		p.w.WriteString(`"` + pat.Value + `"`)
	case *ast.VarPattern:
		p.w.WriteString(pat.Name)
	case *ast.VarUsagePattern:
		p.w.WriteString(pat.Name)
	case *ast.AssignPattern:
		p.pattern(pat.Pattern)
		p.w.WriteString(" as " + pat.Name)
	case *ast.DiscardPattern:
		p.w.WriteString(pat.Name)
	case *ast.ListPattern:
		p.w.WriteString("[")
		for i, el := range pat.Elements {
			p.comma(i)
			p.pattern(el)
		}
		if pat.Tail != nil {
			p.comma(len(pat.Elements))
			p.w.WriteString("..")
			p.pattern(pat.Tail)
		}
		p.w.WriteString("]")
	case *ast.ConstructorPattern:
		if pat.Module != "" {
			p.w.WriteString(pat.Module + ".")
		}
		p.w.WriteString(pat.Name)
		if len(pat.Args) == 0 && !pat.WithSpread {
			return
		}
		p.w.WriteString("(")
		for i, arg := range pat.Args {
			p.comma(i)
			if arg.Label != "" {
				p.w.WriteString(arg.Label + ": ")
			}
			p.pattern(arg.Value)
		}
		if pat.WithSpread {
			p.comma(len(pat.Args))
			p.w.WriteString("..")
		}
		p.w.WriteString(")")
	case *ast.TuplePattern:
		p.w.WriteString("#(")
		for i, el := range pat.Elems {
			p.comma(i)
			p.pattern(el)
		}
		p.w.WriteString(")")
	case *ast.BitStringPattern:
		segments(p, pat.Segments, p.pattern)
	case *ast.ConcatenatePattern:
		p.w.WriteString(`"` + pat.LeftSideString + `" <> ` + pat.RightSide.Name)
	default:
		panic(fmt.Errorf("format: unknown pattern %T", pat))
	}
}

func (p *printer) constant(c ast.Constant) {
	switch c := c.(type) {
	case *ast.IntConstant:
		p.w.WriteString(c.Value)
	case *ast.FloatConstant:
		p.w.WriteString(c.Value)
	case *ast.StringConstant:
		p.w.WriteString(`"` + c.Value + `"`)
	case *ast.TupleConstant:
		p.w.WriteString("#(")
		for i, el := range c.Elements {
			p.comma(i)
			p.constant(el)
		}
		p.w.WriteString(")")
	case *ast.ListConstant:
		p.w.WriteString("[")
		for i, el := range c.Elements {
			p.comma(i)
			p.constant(el)
		}
		p.w.WriteString("]")
	case *ast.RecordConstant:
		if c.Module != "" {
			p.w.WriteString(c.Module + ".")
		}
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
			p.constant(arg.Value)
		}
		p.w.WriteString(")")
	case *ast.BitStringConstant:
		segments(p, c.Segments, p.constant)
	case *ast.VarConstant:
		if c.Module != "" {
			p.w.WriteString(c.Module + ".")
		}
		p.w.WriteString(c.Name)
	default:
		panic(fmt.Errorf("format: unknown constant %T", c))
	}
}

// segments prints `<<value:opt-opt, ...>>` for any segment value kind.
func segments[V ast.Node](p *printer, segs []*ast.BitStringSegment[V], value func(V)) {
	p.w.WriteString("<<")
	for i, seg := range segs {
		p.comma(i)
		value(seg.Value)
		if len(seg.Options) == 0 {
			continue
		}
		p.w.WriteString(":")
		for j, opt := range seg.Options {
			if j > 0 {
				p.w.WriteString("-")
			}
			segmentOption(p, opt, value)
		}
	}
	p.w.WriteString(">>")
}

func segmentOption[V ast.Node](p *printer, opt *ast.SegmentOption[V], value func(V)) {
	switch opt.Kind {
	case ast.OptSize:
		v, _ := opt.Value()
		if opt.ShortForm {
			value(v)
			return
		}
		p.w.WriteString("size(")
		value(v)
		p.w.WriteString(")")
	case ast.OptUnit:
		u, _ := opt.UnitValue()
		p.w.WriteString("unit(" + strconv.Itoa(int(u)) + ")")
	default:
		p.w.WriteString(opt.Label())
	}
}

// SegmentOptions renders the option list of one expression segment, as it
// appears after the colon.
func SegmentOptions(opts []*ast.SegmentOption[ast.Expr]) string {
	p := newPrinter(DefaultOptions())
	for i, opt := range opts {
		if i > 0 {
			p.w.WriteString("-")
		}
		segmentOption(p, opt, p.expr)
	}
	return p.w.String()
}

func (p *printer) typeAst(t ast.TypeAst) {
	switch t := t.(type) {
	case *ast.ConstructorTypeAst:
		if t.Module != "" {
			p.w.WriteString(t.Module + ".")
		}
		p.w.WriteString(t.Name)
		if len(t.Args) == 0 {
			return
		}
		p.w.WriteString("(")
		for i, arg := range t.Args {
			p.comma(i)
			p.typeAst(arg)
		}
		p.w.WriteString(")")
	case *ast.FnTypeAst:
		p.w.WriteString("fn(")
		for i, arg := range t.Args {
			p.comma(i)
			p.typeAst(arg)
		}
		p.w.WriteString(") -> ")
		p.typeAst(t.Return)
	case *ast.VarTypeAst:
		p.w.WriteString(t.Name)
	case *ast.TupleTypeAst:
		p.w.WriteString("#(")
		for i, el := range t.Elems {
			p.comma(i)
			p.typeAst(el)
		}
		p.w.WriteString(")")
	case *ast.HoleTypeAst:
		p.w.WriteString(t.Name)
	default:
		panic(fmt.Errorf("format: unknown type annotation %T", t))
	}
}
