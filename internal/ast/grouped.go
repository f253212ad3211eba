package ast

import "fmt"

// GroupedStatements partitions top-level definitions by kind. Each bucket
// keeps the relative order of its definitions.
type GroupedStatements struct {
	Functions         []*Function
	ExternalFunctions []*ExternalFunction
	Constants         []*ModuleConstant
	CustomTypes       []*CustomType
	Imports           []*Import
	ExternalTypes     []*ExternalType
	TypeAliases       []*TypeAlias
}

// GroupStatements buckets defs. Every definition lands in exactly one
// bucket.
func GroupStatements(defs []Definition) GroupedStatements {
	var g GroupedStatements
	for _, def := range defs {
		switch d := def.(type) {
		case *Function:
			g.Functions = append(g.Functions, d)
		case *ExternalFunction:
			g.ExternalFunctions = append(g.ExternalFunctions, d)
		case *ModuleConstant:
			g.Constants = append(g.Constants, d)
		case *CustomType:
			g.CustomTypes = append(g.CustomTypes, d)
		case *Import:
			g.Imports = append(g.Imports, d)
		case *ExternalType:
			g.ExternalTypes = append(g.ExternalTypes, d)
		case *TypeAlias:
			g.TypeAliases = append(g.TypeAliases, d)
		default:
			panic(fmt.Errorf("ast: unexpected definition %T", def))
		}
	}
	return g
}

func (g *GroupedStatements) Len() int {
	return len(g.Functions) +
		len(g.ExternalFunctions) +
		len(g.Constants) +
		len(g.CustomTypes) +
		len(g.Imports) +
		len(g.ExternalTypes) +
		len(g.TypeAliases)
}

func (g *GroupedStatements) IsEmpty() bool {
	return g.Len() == 0
}
