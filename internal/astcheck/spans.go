package astcheck

import (
	"fmt"

	"arbor/internal/ast"
	"arbor/internal/diag"
	"arbor/internal/source"
)

// CheckSpans verifies span nesting under root:
// 1) no span ends before it starts
// 2) a function's end position is not before the end of its head
// 3) every non-empty child extent lies inside its parent's extent
//
// Empty child spans belong to synthesised nodes and are not checked for
// containment. Returns the number of problems reported.
func CheckSpans(root ast.Node, r diag.Reporter) int {
	c := spanChecker{r: r}
	c.visit(root)
	return c.found
}

type spanChecker struct {
	r     diag.Reporter
	found int
}

func (c *spanChecker) visit(n ast.Node) {
	ext := ast.Extent(n)
	if loc := n.Location(); loc.Start > loc.End {
		c.report(diag.AstSpanInverted, loc, fmt.Sprintf("%T", n), nil)
		return
	}
	if f, ok := n.(*ast.Function); ok && f.EndPosition < f.Loc.End {
		c.report(diag.AstFunctionEndBeforeHead, f.Loc,
			fmt.Sprintf("fn %s ends at %d", f.Name, f.EndPosition), nil)
	}
	for _, child := range ast.Children(n) {
		sp := ast.Extent(child)
		if !sp.Empty() && sp.Start <= sp.End && !ext.ContainsSpan(sp) {
			c.report(diag.AstSpanOutsideParent, sp, fmt.Sprintf("%T in %T", child, n),
				[]diag.Note{{Span: ext, Msg: "parent spans this range"}})
		}
		c.visit(child)
	}
}

func (c *spanChecker) report(code diag.Code, sp source.Span, msg string, notes []diag.Note) {
	c.found++
	if c.r != nil {
		c.r.Report(code, diag.SevError, sp, msg, notes)
	}
}
