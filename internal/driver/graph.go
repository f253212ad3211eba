package driver

import (
	"context"
	"strconv"

	"arbor/internal/diag"
	"arbor/internal/project"
	"arbor/internal/project/dag"
	"arbor/internal/trace"
)

// moduleGraph связывает результаты модулей с узлами dag.
type moduleGraph struct {
	idx    dag.ModuleIndex
	graph  dag.Graph
	slots  []dag.ModuleSlot
	topo   *dag.Topo
	owners []*ModuleResult // owners[id] - первый модуль с этим путём
}

func (g *moduleGraph) owner(id dag.ModuleID) *ModuleResult {
	return g.owners[int(id)]
}

func (p *Pipeline) buildGraph(ctx context.Context, res *Result) *moduleGraph {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "graph", trace.CurrentSpan(ctx))

	metas := make([]project.ModuleMeta, 0, len(res.Modules))
	nodes := make([]dag.ModuleNode, 0, len(res.Modules))
	for _, mr := range res.Modules {
		metas = append(metas, mr.Meta)
		nodes = append(nodes, dag.ModuleNode{
			Meta:     mr.Meta,
			Reporter: mr.reporter(),
			Broken:   mr.Bag.HasErrors(),
			FirstErr: firstError(mr.Bag),
		})
	}

	g := &moduleGraph{idx: dag.BuildIndex(metas)}
	g.graph, g.slots = dag.BuildGraph(g.idx, nodes)
	g.topo = dag.ToposortKahn(g.graph)
	dag.ReportCycles(g.idx, g.slots, g.topo)
	dag.ComputeModuleHashes(g.graph, g.slots, g.topo)

	res.byName = make(map[string]*ModuleResult, len(res.Modules))
	g.owners = make([]*ModuleResult, len(g.idx.IDToName))
	for _, mr := range res.Modules {
		if _, dup := res.byName[mr.Module]; dup {
			continue
		}
		res.byName[mr.Module] = mr
		if id, ok := g.idx.NameToID[mr.Module]; ok {
			g.owners[int(id)] = mr
			mr.Meta.ModuleHash = g.slots[int(id)].Meta.ModuleHash
		}
	}

	res.Order = g.idx.Names(g.topo.Order)
	for _, batch := range g.topo.Batches {
		res.Batches = append(res.Batches, g.idx.Names(batch))
	}
	res.Cyclic = g.topo.Cyclic

	span.WithExtra("batches", strconv.Itoa(len(g.topo.Batches)))
	if g.topo.Cyclic {
		span.End("cyclic")
	} else {
		span.End("")
	}
	return g
}

// reportBroken marks every module that has errors or was left unresolved
// and reports it at each import site.
func (g *moduleGraph) reportBroken(res *Result) {
	for id, mr := range g.owners {
		if mr == nil {
			continue
		}
		slot := &g.slots[id]
		slot.Broken = mr.Bag.HasErrors() || (res.resolved && mr.Typed == nil)
		slot.FirstErr = firstError(mr.Bag)
	}
	dag.ReportBrokenDeps(g.idx, g.slots)
}

func firstError(bag *diag.Bag) *diag.Diagnostic {
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError {
			return &d
		}
	}
	return nil
}
