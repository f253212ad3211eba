// Package driver runs modules through parse, dependency collection, graph
// ordering and phase rebuild. Parsing and inference are supplied by the
// caller; the driver schedules them and collects diagnostics.
package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"arbor/internal/ast"
	"arbor/internal/astcheck"
	"arbor/internal/depcache"
	"arbor/internal/diag"
	"arbor/internal/observ"
	"arbor/internal/project"
	"arbor/internal/source"
	"arbor/internal/target"
	"arbor/internal/trace"
)

// Parser turns module source into an unresolved tree.
type Parser interface {
	Parse(ctx context.Context, module string, file *source.File) (*ast.UntypedModule, error)
}

// Inferrer prepares the slot values for one module. deps holds the resolved
// modules m imports; it is complete when Infer is called.
type Inferrer interface {
	Infer(ctx context.Context, m *ast.UntypedModule, t target.Target, deps map[string]*ast.TypedModule) (ast.Resolver, error)
}

type Options struct {
	Target         target.Target
	Jobs           int             // 0 = GOMAXPROCS
	MaxDiagnostics int             // per module
	Cache          *depcache.Cache // nil disables the dependency cache
	Check          bool            // run astcheck before and after resolution
	Heartbeat      time.Duration
}

// Pipeline runs parse -> dependencies -> module graph -> resolve over a set
// of modules. Modules of one dependency batch are processed in parallel.
type Pipeline struct {
	parser   Parser
	inferrer Inferrer
	opts     Options
}

// New returns a pipeline. A nil inferrer stops every run after the module
// graph is built.
func New(p Parser, inf Inferrer, opts Options) *Pipeline {
	if opts.Target == 0 {
		opts.Target = target.Erlang
	}
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 100
	}
	return &Pipeline{parser: p, inferrer: inf, opts: opts}
}

// Run processes sources. Diagnostics are collected per module; the returned
// error is reserved for cancellation.
func (p *Pipeline) Run(ctx context.Context, sources []Source) (*Result, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "pipeline", trace.CurrentSpan(ctx))
	span.WithExtra("target", p.opts.Target.String()).WithExtra("modules", strconv.Itoa(len(sources)))
	ctx = trace.WithSpan(ctx, span)

	hb := trace.StartHeartbeat(tracer, p.opts.Heartbeat)
	defer hb.Stop()

	var m metrics
	timer := observ.NewTimer()
	res := &Result{Target: p.opts.Target, Modules: make([]*ModuleResult, len(sources))}

	stage := timer.Begin("parse")
	if err := p.parseAll(ctx, sources, res, &m); err != nil {
		span.End("cancelled")
		return nil, err
	}
	timer.End(stage, fmt.Sprintf("%d modules", len(sources)))

	stage = timer.Begin("graph")
	g := p.buildGraph(ctx, res)
	timer.End(stage, fmt.Sprintf("%d batches", len(g.topo.Batches)))

	res.resolved = p.inferrer != nil
	if res.resolved {
		stage = timer.Begin("resolve")
		if err := p.resolveAll(ctx, res, g, &m); err != nil {
			span.End("cancelled")
			return nil, err
		}
		timer.End(stage, "")
	}
	g.reportBroken(res)

	res.Stats = m.snapshot()
	res.Timings = timer.Report()
	trace.Point(tracer, trace.ScopeDriver, "stats", res.Stats.String(), span.ID())
	span.End("")
	return res, nil
}

func (p *Pipeline) parseAll(ctx context.Context, sources []Source, res *Result, m *metrics) error {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "parse", trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, span)

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(1, min(p.opts.Jobs, len(sources))))
	for i, src := range sources {
		eg.Go(func() error {
			// Проверка отмены
			if err := egctx.Err(); err != nil {
				return err
			}
			// индекс i уникален, мьютекс не нужен
			res.Modules[i] = p.parseOne(egctx, src, m)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		span.End("cancelled")
		return fmt.Errorf("parse: %w", err)
	}
	span.End("")
	return nil
}

func (p *Pipeline) parseOne(ctx context.Context, src Source, m *metrics) *ModuleResult {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeModule, "parse:"+src.Module, trace.CurrentSpan(ctx))

	mr := &ModuleResult{
		Module: src.Module,
		Path:   src.Path,
		File:   source.NewFile(src.Path, src.Content),
		Bag:    diag.NewBag(p.opts.MaxDiagnostics),
	}
	r := mr.reporter()
	mr.Meta = project.ModuleMeta{
		Path:        src.Module,
		File:        src.Path,
		Span:        source.NewSpan(0, mr.File.Size()),
		ContentHash: project.HashContent(src.Content),
	}

	if src.Err != nil {
		diag.ReportError(r, diag.IOLoadFileError, source.Span{}, "failed to load file: "+src.Err.Error()).Emit()
		m.parseErrors.Add(1)
		span.End("load failed")
		return mr
	}

	mod, err := p.parser.Parse(ctx, src.Module, mr.File)
	m.parsed.Add(1)
	if err != nil {
		diag.ReportError(r, diag.DrvParseFailed, source.Span{}, err.Error()).Emit()
		m.parseErrors.Add(1)
		span.End("failed")
		return mr
	}
	if mod.Name == "" {
		mod.Name = src.Module
	}
	mr.Untyped = mod

	deps, hit := p.dependencies(mr, r)
	switch {
	case p.opts.Cache == nil:
	case hit:
		m.cacheHits.Add(1)
	default:
		m.cacheMisses.Add(1)
	}
	mr.CacheHit = hit
	for _, d := range deps {
		mr.Meta.Imports = append(mr.Meta.Imports, project.ImportMeta{Path: d.Module, Span: d.Location})
	}

	if p.opts.Check {
		astcheck.CheckUntyped(mod, p.opts.Target, mr.Bag)
	}
	span.WithExtra("imports", strconv.Itoa(len(deps)))
	span.End("")
	return mr
}

// dependencies returns the imports of mr for the pipeline's backend, from
// the cache when the content was seen before.
func (p *Pipeline) dependencies(mr *ModuleResult, r diag.Reporter) ([]ast.Dependency, bool) {
	t := p.opts.Target
	if p.opts.Cache == nil {
		return mr.Untyped.Dependencies(t), false
	}
	key := depcache.Key(mr.Meta.ContentHash, t)
	entry, err := p.opts.Cache.Get(key)
	if err == nil {
		deps, convErr := entry.AstDependencies()
		if convErr == nil {
			return deps, true
		}
		err = convErr
	}
	if !errors.Is(err, depcache.ErrEntryNotFound) {
		diag.ReportWarning(r, diag.DrvCacheCorrupt, source.Span{}, err.Error()).Emit()
	}

	deps := mr.Untyped.Dependencies(t)
	if err := p.opts.Cache.Put(key, depcache.NewEntry(mr.Module, t, mr.Meta.ContentHash, deps)); err != nil {
		diag.ReportWarning(r, diag.DrvCacheCorrupt, source.Span{}, "cannot store dependencies: "+err.Error()).Emit()
	}
	return deps, false
}

func (p *Pipeline) resolveAll(ctx context.Context, res *Result, g *moduleGraph, m *metrics) error {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "resolve", trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, span)

	for _, batch := range g.topo.Batches {
		m.batches.Add(1)
		m.observeBatch(int64(len(batch)))

		eg, egctx := errgroup.WithContext(ctx)
		eg.SetLimit(max(1, min(p.opts.Jobs, len(batch))))
		for _, id := range batch {
			mr := g.owner(id)
			if mr == nil {
				continue
			}
			eg.Go(func() error {
				if err := egctx.Err(); err != nil {
					return err
				}
				return p.resolveOne(egctx, mr, res, m)
			})
		}
		// модули следующей волны читают Typed этой волны только после Wait
		if err := eg.Wait(); err != nil {
			span.End("cancelled")
			return fmt.Errorf("resolve: %w", err)
		}
	}
	span.End("")
	return nil
}

func (p *Pipeline) resolveOne(ctx context.Context, mr *ModuleResult, res *Result, m *metrics) error {
	if mr.Untyped == nil || mr.Bag.HasErrors() {
		m.skipped.Add(1)
		return nil
	}
	deps := make(map[string]*ast.TypedModule, len(mr.Meta.Imports))
	for _, imp := range mr.Meta.Imports {
		dep, ok := res.Module(imp.Path)
		if !ok || dep.Typed == nil {
			m.skipped.Add(1)
			return nil
		}
		deps[imp.Path] = dep.Typed
	}

	r := mr.reporter()
	resolver, err := p.inferrer.Infer(ctx, mr.Untyped, p.opts.Target, deps)
	if err == nil {
		mr.Typed, err = ast.Resolve(ctx, mr.Untyped, p.opts.Target, resolver)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			diag.ReportError(r, diag.DrvCancelled, source.Span{}, "resolution cancelled").Emit()
			return ctxErr
		}
		diag.ReportError(r, diag.DrvResolveFailed, source.Span{}, err.Error()).Emit()
		m.resolveErrors.Add(1)
		mr.Typed = nil
		return nil
	}
	m.resolved.Add(1)
	if p.opts.Check {
		astcheck.CheckTyped(mr.Typed, mr.Bag)
	}
	return nil
}
