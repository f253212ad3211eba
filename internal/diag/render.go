package diag

import (
	"fmt"
	"io"
	"strings"

	"arbor/internal/source"
)

// Format renders d as a single line, followed by one indented line per note:
//
//	ERROR AST1001 app/main:3:5: Child span lies outside its parent: detail
//
// When file is nil positions are printed as byte ranges.
func Format(d Diagnostic, file *source.File) string {
	var sb strings.Builder
	module := d.Module
	if module == "" {
		module = "<unknown>"
	}
	fmt.Fprintf(&sb, "%s %s %s:%s: %s", d.Severity, d.Code.ID(), module, position(d.Primary, file), d.Code.Title())
	if d.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(d.Message)
	}
	for _, n := range d.Notes {
		fmt.Fprintf(&sb, "\n  note %s: %s", position(n.Span, file), n.Msg)
	}
	return sb.String()
}

// Write renders every diagnostic in order. files maps module names to their
// sources; missing entries fall back to byte ranges.
func Write(w io.Writer, diags []Diagnostic, files map[string]*source.File) error {
	for _, d := range diags {
		if _, err := fmt.Fprintln(w, Format(d, files[d.Module])); err != nil {
			return err
		}
	}
	return nil
}

func position(sp source.Span, file *source.File) string {
	if file == nil {
		return sp.String()
	}
	lc := file.LineCol(sp.Start)
	return fmt.Sprintf("%d:%d", lc.Line, lc.Col)
}
