package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"arbor/internal/ast"
)

var opsCmd = &cobra.Command{
	Use:   "ops",
	Short: "Print the operator precedence table",
	Long:  "Print binary and guard operators grouped by precedence, tightest binding first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return renderOps(cmd.OutOrStdout())
	},
}

type opsRow struct {
	prec   uint8
	expr   []string
	guards []string
}

// opsTable groups operators by precedence, highest first. The pipe has no
// BinOp and gets its own row.
func opsTable() []opsRow {
	byPrec := map[uint8]*opsRow{}
	row := func(p uint8) *opsRow {
		if r, ok := byPrec[p]; ok {
			return r
		}
		r := &opsRow{prec: p}
		byPrec[p] = r
		return r
	}
	for _, op := range ast.BinOps() {
		r := row(op.Precedence())
		r.expr = append(r.expr, op.Token())
	}
	pipe := row(ast.PipePrecedence)
	pipe.expr = append(pipe.expr, "|>")
	for _, op := range ast.GuardOps() {
		r := row(op.Precedence())
		r.guards = append(r.guards, op.BinOp().Token())
	}

	out := make([]opsRow, 0, len(byPrec))
	for _, r := range byPrec {
		out = append(out, *r)
	}
	slices.SortFunc(out, func(a, b opsRow) int { return int(b.prec) - int(a.prec) })
	return out
}

func renderOps(w io.Writer) error {
	header := color.New(color.Bold, color.FgCyan)
	if _, err := fmt.Fprintf(w, "%s  %s  %s\n", header.Sprintf("%-4s", "PREC"), header.Sprintf("%-28s", "EXPRESSION"), header.Sprint("GUARD")); err != nil {
		return err
	}
	for _, r := range opsTable() {
		guards := strings.Join(r.guards, " ")
		if guards == "" {
			guards = "-"
		}
		if _, err := fmt.Fprintf(w, "%-4d  %-28s  %s\n", r.prec, strings.Join(r.expr, " "), guards); err != nil {
			return err
		}
	}
	return nil
}
