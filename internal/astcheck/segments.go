package astcheck

import (
	"fmt"

	"arbor/internal/ast"
	"arbor/internal/diag"
)

// CheckSegments reports contradictory or repeated options on every bit
// string segment under root, whatever the segment's value kind. Returns the
// number of problems reported.
func CheckSegments(root ast.Node, r diag.Reporter) int {
	found := 0
	ast.Inspect(root, func(n ast.Node) bool {
		switch seg := n.(type) {
		case *ast.BitStringSegment[ast.Expr]:
			found += CheckSegmentOptions(seg, r)
		case *ast.BitStringSegment[ast.Pattern]:
			found += CheckSegmentOptions(seg, r)
		case *ast.BitStringSegment[ast.Constant]:
			found += CheckSegmentOptions(seg, r)
		}
		return true
	})
	return found
}

// CheckSegmentOptions checks a single segment. The first option of each
// category wins; every later one is reported against it.
func CheckSegmentOptions[V ast.Node](seg *ast.BitStringSegment[V], r diag.Reporter) int {
	var (
		typ, sign, endian *ast.SegmentOption[V]
		size, unit        *ast.SegmentOption[V]
		found             int
	)
	report := func(code diag.Code, opt, first *ast.SegmentOption[V]) {
		found++
		b := diag.ReportError(r, code, opt.Loc, fmt.Sprintf("%s after %s", opt.Label(), first.Label())).
			WithNote(first.Loc, "first declared here")
		b.Emit()
	}
	claim := func(slot **ast.SegmentOption[V], code diag.Code, opt *ast.SegmentOption[V]) {
		if *slot != nil {
			report(code, opt, *slot)
			return
		}
		*slot = opt
	}

	for _, opt := range seg.Options {
		switch {
		case opt.Kind.IsType():
			claim(&typ, diag.AstSegmentType, opt)
		case opt.Kind.IsSignedness():
			claim(&sign, diag.AstSegmentSignedness, opt)
		case opt.Kind.IsEndianness():
			claim(&endian, diag.AstSegmentEndianness, opt)
		case opt.Kind == ast.OptSize:
			claim(&size, diag.AstSegmentDuplicateSize, opt)
		case opt.Kind == ast.OptUnit:
			if u, _ := opt.UnitValue(); u == 0 {
				found++
				diag.ReportError(r, diag.AstSegmentZeroUnit, opt.Loc, opt.Label()).Emit()
			}
			claim(&unit, diag.AstSegmentDuplicateUnit, opt)
		}
	}
	if unit != nil && size == nil {
		found++
		diag.ReportError(r, diag.AstSegmentUnitWithoutSize, unit.Loc, unit.Label()).
			WithNote(seg.Loc, "segment has no size option").
			Emit()
	}
	return found
}
