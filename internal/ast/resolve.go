package ast

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"arbor/internal/target"
	"arbor/internal/trace"
	"arbor/internal/types"
)

// ErrUseStatement is returned when a `use` reaches Resolve. Inference must
// desugar every use into a call first.
var ErrUseStatement = errors.New("use statement in resolved tree")

// Resolver supplies the slot values inference computed. Every method
// receives the unresolved node whose slot is being filled.
type Resolver interface {
	ModuleInfo(module string) (*ModuleInfo, error)
	// Type fills the TypeSlot of n.
	Type(n Node) (*types.Type, error)
	// Value fills the ValueSlot of VarExpr, ModuleSelectExpr and VarConstant.
	Value(n Node) (*ValueConstructor, error)
	// FieldIndex fills the IndexSlot of RecordAccessExpr and RecordUpdateArg.
	FieldIndex(n Node) (uint64, error)
	RecordTag(c *RecordConstant) (string, error)
	Package(imp *Import) (string, error)
	PatternConstructor(p *ConstructorPattern) (Inferred[*PatternConstructor], error)
	TypeParameters(c *CustomType) ([]*types.Type, error)
}

// Resolve rebuilds the definitions of m compiled for t into a resolved
// module. The definitions are taken out of m. Spans are copied unchanged and
// every node maps to exactly one node of the same shape.
func Resolve(ctx context.Context, m *UntypedModule, t target.Target, r Resolver) (*TypedModule, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeModule, "resolve:"+m.Name, trace.CurrentSpan(ctx))
	defs := m.TakeDefinitions(t)
	span.WithExtra("target", t.String()).WithExtra("definitions", strconv.Itoa(len(defs)))

	info, err := r.ModuleInfo(m.Name)
	if err != nil {
		span.End("failed")
		return nil, fmt.Errorf("resolve %s: module info: %w", m.Name, err)
	}

	b := &rebuilder{r: r}
	out := make([]Definition, 0, len(defs))
	for _, def := range defs {
		if err := ctx.Err(); err != nil {
			span.End("cancelled")
			return nil, fmt.Errorf("resolve %s: %w", m.Name, err)
		}
		trace.Point(tracer, trace.ScopeNode, "definition", definitionName(def), span.ID())
		resolved := b.definition(def)
		if b.err != nil {
			span.End("failed")
			return nil, fmt.Errorf("resolve %s: %w", m.Name, b.err)
		}
		out = append(out, resolved)
	}
	span.End("")

	return &TypedModule{
		Name:          m.Name,
		Documentation: m.Documentation,
		Info:          info,
		Definitions:   out,
	}, nil
}

func definitionName(def Definition) string {
	switch d := def.(type) {
	case *Function:
		return "fn " + d.Name
	case *ExternalFunction:
		return "external fn " + d.Name
	case *TypeAlias:
		return "type " + d.Alias
	case *CustomType:
		return "type " + d.Name
	case *ExternalType:
		return "external type " + d.Name
	case *Import:
		return "import " + d.Module
	case *ModuleConstant:
		return "const " + d.Name
	}
	return fmt.Sprintf("%T", def)
}

// rebuilder keeps the first error and turns every later call into a no-op
// that still returns a well-formed node.
type rebuilder struct {
	r   Resolver
	err error
}

func (b *rebuilder) fail(n Node, err error) {
	if b.err == nil {
		b.err = fmt.Errorf("%s at %s: %w", nodeName(n), n.Location(), err)
	}
}

func (b *rebuilder) typ(n Node) TypeSlot {
	if b.err != nil {
		return TypeSlot{}
	}
	t, err := b.r.Type(n)
	if err != nil {
		b.fail(n, err)
		return TypeSlot{}
	}
	return Fill(t)
}

func (b *rebuilder) value(n Node) ValueSlot {
	if b.err != nil {
		return ValueSlot{}
	}
	v, err := b.r.Value(n)
	if err != nil {
		b.fail(n, err)
		return ValueSlot{}
	}
	return Fill(v)
}

func (b *rebuilder) index(n Node) IndexSlot {
	if b.err != nil {
		return IndexSlot{}
	}
	i, err := b.r.FieldIndex(n)
	if err != nil {
		b.fail(n, err)
		return IndexSlot{}
	}
	return Fill(i)
}

func mapSlice[T any](in []T, f func(T) T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = f(v)
	}
	return out
}

func rebuildArgs[V Node](args []*CallArg[V], f func(V) V) []*CallArg[V] {
	return mapSlice(args, func(a *CallArg[V]) *CallArg[V] {
		return &CallArg[V]{Label: a.Label, Loc: a.Loc, Value: f(a.Value), Implicit: a.Implicit}
	})
}

func rebuildSegments[V Node](b *rebuilder, segs []*BitStringSegment[V], f func(V) V) []*BitStringSegment[V] {
	return mapSlice(segs, func(s *BitStringSegment[V]) *BitStringSegment[V] {
		value := f(s.Value)
		opts := mapSlice(s.Options, func(o *SegmentOption[V]) *SegmentOption[V] {
			switch o.Kind {
			case OptSize:
				v, _ := o.Value()
				return SizeOption(o.Loc, f(v), o.ShortForm)
			case OptUnit:
				return UnitOption[V](o.Loc, o.Unit)
			}
			return NewOption[V](o.Kind, o.Loc)
		})
		return &BitStringSegment[V]{Loc: s.Loc, Value: value, Options: opts, Type: b.typ(s)}
	})
}

func (b *rebuilder) definition(def Definition) Definition {
	switch d := def.(type) {
	case *Function:
		return &Function{
			Loc:              d.Loc,
			EndPosition:      d.EndPosition,
			Name:             d.Name,
			Args:             mapSlice(d.Args, b.arg),
			Body:             mapSlice(d.Body, b.statement),
			Public:           d.Public,
			ReturnAnnotation: d.ReturnAnnotation,
			ReturnType:       b.typ(d),
			Doc:              d.Doc,
		}
	case *ExternalFunction:
		return &ExternalFunction{
			Loc:    d.Loc,
			Public: d.Public,
			Args: mapSlice(d.Args, func(a *ExternalFnArg) *ExternalFnArg {
				return &ExternalFnArg{Loc: a.Loc, Label: a.Label, Annotation: a.Annotation, Type: b.typ(a)}
			}),
			Name:       d.Name,
			Return:     d.Return,
			ReturnType: b.typ(d),
			Module:     d.Module,
			Fun:        d.Fun,
			Doc:        d.Doc,
		}
	case *TypeAlias:
		return &TypeAlias{
			Loc:        d.Loc,
			Alias:      d.Alias,
			Parameters: d.Parameters,
			Annotation: d.Annotation,
			Type:       b.typ(d),
			Public:     d.Public,
			Doc:        d.Doc,
		}
	case *CustomType:
		return b.customType(d)
	case *ExternalType:
		return &ExternalType{Loc: d.Loc, Public: d.Public, Name: d.Name, Args: d.Args, Doc: d.Doc}
	case *Import:
		var pkg PackageSlot
		if b.err == nil {
			p, err := b.r.Package(d)
			if err != nil {
				b.fail(d, err)
			} else {
				pkg = Fill(p)
			}
		}
		return &Import{
			Loc:         d.Loc,
			Module:      d.Module,
			As:          d.As,
			Unqualified: append([]UnqualifiedImport(nil), d.Unqualified...),
			Package:     pkg,
		}
	case *ModuleConstant:
		return &ModuleConstant{
			Loc:        d.Loc,
			Public:     d.Public,
			Name:       d.Name,
			Annotation: d.Annotation,
			Value:      b.constant(d.Value),
			Type:       b.typ(d),
			Doc:        d.Doc,
		}
	}
	panic(fmt.Errorf("ast: unexpected definition %T", def))
}

func (b *rebuilder) customType(c *CustomType) *CustomType {
	ctors := mapSlice(c.Constructors, func(rc *RecordConstructor) *RecordConstructor {
		return &RecordConstructor{
			Loc:  rc.Loc,
			Name: rc.Name,
			Args: mapSlice(rc.Args, func(a *RecordConstructorArg) *RecordConstructorArg {
				return &RecordConstructorArg{
					Label:      a.Label,
					Annotation: a.Annotation,
					Loc:        a.Loc,
					Type:       b.typ(a),
					Doc:        a.Doc,
				}
			}),
			Doc: rc.Doc,
		}
	})
	var params []TypeSlot
	if b.err == nil {
		ts, err := b.r.TypeParameters(c)
		switch {
		case err != nil:
			b.fail(c, err)
		case len(ts) != len(c.Parameters):
			b.fail(c, fmt.Errorf("%d typed parameters for %d declared", len(ts), len(c.Parameters)))
		default:
			params = make([]TypeSlot, len(ts))
			for i, t := range ts {
				params[i] = Fill(t)
			}
		}
	}
	return &CustomType{
		Loc:             c.Loc,
		Name:            c.Name,
		Parameters:      c.Parameters,
		Public:          c.Public,
		Constructors:    ctors,
		Doc:             c.Doc,
		Opaque:          c.Opaque,
		TypedParameters: params,
	}
}

func (b *rebuilder) arg(a *Arg) *Arg {
	return &Arg{Names: a.Names, Loc: a.Loc, Annotation: a.Annotation, Type: b.typ(a)}
}

func (b *rebuilder) statement(s Statement) Statement {
	switch s := s.(type) {
	case *ExprStatement:
		return &ExprStatement{Expr: b.expr(s.Expr)}
	case *Assignment:
		return &Assignment{
			Loc:        s.Loc,
			Pattern:    b.pattern(s.Pattern),
			Value:      b.expr(s.Value),
			Kind:       s.Kind,
			Annotation: s.Annotation,
		}
	case *Use:
		b.fail(s, ErrUseStatement)
		return s
	}
	panic(fmt.Errorf("ast: unexpected statement %T", s))
}

func (b *rebuilder) exprs(es []Expr) []Expr {
	return mapSlice(es, b.expr)
}

func (b *rebuilder) expr(e Expr) Expr {
	if e == nil {
		return nil
	}
	switch e := e.(type) {
	case *IntExpr:
		return &IntExpr{Loc: e.Loc, Value: e.Value}
	case *FloatExpr:
		return &FloatExpr{Loc: e.Loc, Value: e.Value}
	case *StringExpr:
		return &StringExpr{Loc: e.Loc, Value: e.Value}
	case *VarExpr:
		return &VarExpr{Loc: e.Loc, Name: e.Name, Constructor: b.value(e)}
	case *FnExpr:
		return &FnExpr{
			Loc:              e.Loc,
			IsCapture:        e.IsCapture,
			Args:             mapSlice(e.Args, b.arg),
			Body:             mapSlice(e.Body, b.statement),
			ReturnAnnotation: e.ReturnAnnotation,
			Type:             b.typ(e),
		}
	case *ListExpr:
		return &ListExpr{Loc: e.Loc, Elements: b.exprs(e.Elements), Tail: b.expr(e.Tail), Type: b.typ(e)}
	case *CallExpr:
		return &CallExpr{Loc: e.Loc, Fun: b.expr(e.Fun), Args: rebuildArgs(e.Args, b.expr), Type: b.typ(e)}
	case *BinOpExpr:
		return &BinOpExpr{Loc: e.Loc, Op: e.Op, Left: b.expr(e.Left), Right: b.expr(e.Right)}
	case *CaseExpr:
		return &CaseExpr{
			Loc:      e.Loc,
			Subjects: b.exprs(e.Subjects),
			Clauses:  mapSlice(e.Clauses, b.clause),
			Type:     b.typ(e),
		}
	case *RecordAccessExpr:
		return &RecordAccessExpr{
			Loc:    e.Loc,
			Label:  e.Label,
			Record: b.expr(e.Record),
			Index:  b.index(e),
			Type:   b.typ(e),
		}
	case *ModuleSelectExpr:
		return &ModuleSelectExpr{Loc: e.Loc, ModuleAlias: e.ModuleAlias, Label: e.Label, Constructor: b.value(e)}
	case *TupleExpr:
		return &TupleExpr{Loc: e.Loc, Elements: b.exprs(e.Elements)}
	case *TupleIndexExpr:
		return &TupleIndexExpr{Loc: e.Loc, Index: e.Index, Tuple: b.expr(e.Tuple), Type: b.typ(e)}
	case *TodoExpr:
		return &TodoExpr{Loc: e.Loc, Kind: e.Kind, Message: b.expr(e.Message), Type: b.typ(e)}
	case *PanicExpr:
		return &PanicExpr{Loc: e.Loc, Message: b.expr(e.Message), Type: b.typ(e)}
	case *BitStringExpr:
		return &BitStringExpr{Loc: e.Loc, Segments: rebuildSegments(b, e.Segments, b.expr)}
	case *RecordUpdateExpr:
		return &RecordUpdateExpr{
			Loc:         e.Loc,
			Constructor: b.expr(e.Constructor),
			Spread:      b.expr(e.Spread),
			Args: mapSlice(e.Args, func(a *RecordUpdateArg) *RecordUpdateArg {
				return &RecordUpdateArg{Label: a.Label, Loc: a.Loc, Value: b.expr(a.Value), Index: b.index(a)}
			}),
			Type: b.typ(e),
		}
	case *NegateBoolExpr:
		return &NegateBoolExpr{Loc: e.Loc, Value: b.expr(e.Value)}
	case *NegateIntExpr:
		return &NegateIntExpr{Loc: e.Loc, Value: b.expr(e.Value)}
	case *BlockExpr:
		return &BlockExpr{Loc: e.Loc, Statements: mapSlice(e.Statements, b.statement)}
	}
	panic(fmt.Errorf("ast: unexpected expression %T", e))
}

func (b *rebuilder) clause(c *Clause) *Clause {
	multi := func(mp MultiPattern) MultiPattern { return mapSlice(mp, b.pattern) }
	return &Clause{
		Loc:          c.Loc,
		Pattern:      multi(c.Pattern),
		Alternatives: mapSlice(c.Alternatives, multi),
		Guard:        b.guard(c.Guard),
		Then:         b.expr(c.Then),
	}
}

func (b *rebuilder) pattern(p Pattern) Pattern {
	if p == nil {
		return nil
	}
	switch p := p.(type) {
	case *IntPattern:
		return &IntPattern{Loc: p.Loc, Value: p.Value}
	case *FloatPattern:
		return &FloatPattern{Loc: p.Loc, Value: p.Value}
	case *StringPattern:
		return &StringPattern{Loc: p.Loc, Value: p.Value}
	case *VarPattern:
		return &VarPattern{Loc: p.Loc, Name: p.Name, Type: b.typ(p)}
	case *VarUsagePattern:
		return &VarUsagePattern{Loc: p.Loc, Name: p.Name, Type: b.typ(p)}
	case *AssignPattern:
		return &AssignPattern{Loc: p.Loc, Name: p.Name, Pattern: b.pattern(p.Pattern)}
	case *DiscardPattern:
		return &DiscardPattern{Loc: p.Loc, Name: p.Name, Type: b.typ(p)}
	case *ListPattern:
		return &ListPattern{
			Loc:      p.Loc,
			Elements: mapSlice(p.Elements, b.pattern),
			Tail:     b.pattern(p.Tail),
			Type:     b.typ(p),
		}
	case *ConstructorPattern:
		out := &ConstructorPattern{
			Loc:         p.Loc,
			Name:        p.Name,
			Args:        rebuildArgs(p.Args, b.pattern),
			Module:      p.Module,
			Constructor: p.Constructor,
			WithSpread:  p.WithSpread,
			Type:        b.typ(p),
		}
		if b.err == nil {
			ctor, err := b.r.PatternConstructor(p)
			if err != nil {
				b.fail(p, err)
			} else {
				out.Constructor = ctor
			}
		}
		return out
	case *TuplePattern:
		return &TuplePattern{Loc: p.Loc, Elems: mapSlice(p.Elems, b.pattern)}
	case *BitStringPattern:
		return &BitStringPattern{Loc: p.Loc, Segments: rebuildSegments(b, p.Segments, b.pattern)}
	case *ConcatenatePattern:
		return &ConcatenatePattern{
			Loc:            p.Loc,
			LeftLocation:   p.LeftLocation,
			RightLocation:  p.RightLocation,
			LeftSideString: p.LeftSideString,
			RightSide:      p.RightSide,
		}
	}
	panic(fmt.Errorf("ast: unexpected pattern %T", p))
}

func (b *rebuilder) constant(c Constant) Constant {
	if c == nil {
		return nil
	}
	switch c := c.(type) {
	case *IntConstant:
		return &IntConstant{Loc: c.Loc, Value: c.Value}
	case *FloatConstant:
		return &FloatConstant{Loc: c.Loc, Value: c.Value}
	case *StringConstant:
		return &StringConstant{Loc: c.Loc, Value: c.Value}
	case *TupleConstant:
		return &TupleConstant{Loc: c.Loc, Elements: mapSlice(c.Elements, b.constant)}
	case *ListConstant:
		return &ListConstant{Loc: c.Loc, Elements: mapSlice(c.Elements, b.constant), Type: b.typ(c)}
	case *RecordConstant:
		out := &RecordConstant{
			Loc:    c.Loc,
			Module: c.Module,
			Name:   c.Name,
			Args:   rebuildArgs(c.Args, b.constant),
			Type:   b.typ(c),
		}
		if b.err == nil {
			tag, err := b.r.RecordTag(c)
			if err != nil {
				b.fail(c, err)
			} else {
				out.Tag = Fill(tag)
			}
		}
		return out
	case *BitStringConstant:
		return &BitStringConstant{Loc: c.Loc, Segments: rebuildSegments(b, c.Segments, b.constant)}
	case *VarConstant:
		return &VarConstant{
			Loc:         c.Loc,
			Module:      c.Module,
			Name:        c.Name,
			Constructor: b.value(c),
			Type:        b.typ(c),
		}
	}
	panic(fmt.Errorf("ast: unexpected constant %T", c))
}

func (b *rebuilder) guard(g ClauseGuard) ClauseGuard {
	if g == nil {
		return nil
	}
	switch g := g.(type) {
	case *BinaryGuard:
		return &BinaryGuard{Loc: g.Loc, Op: g.Op, Left: b.guard(g.Left), Right: b.guard(g.Right)}
	case *VarGuard:
		return &VarGuard{Loc: g.Loc, Name: g.Name, Type: b.typ(g)}
	case *TupleIndexGuard:
		return &TupleIndexGuard{Loc: g.Loc, Index: g.Index, Tuple: b.guard(g.Tuple), Type: b.typ(g)}
	case *ConstantGuard:
		return &ConstantGuard{Constant: b.constant(g.Constant)}
	}
	panic(fmt.Errorf("ast: unexpected guard %T", g))
}

