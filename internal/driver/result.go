package driver

import (
	"fmt"
	"io"
	"os"

	"arbor/internal/ast"
	"arbor/internal/diag"
	"arbor/internal/observ"
	"arbor/internal/project"
	"arbor/internal/source"
	"arbor/internal/target"
)

// Source is one module's input. Err records a failed load; the module is
// then reported instead of parsed.
type Source struct {
	Module  string
	Path    string
	Content []byte
	Err     error
}

// LoadSources reads every discovered module file.
func LoadSources(files []project.ModuleFile) []Source {
	out := make([]Source, len(files))
	for i, f := range files {
		content, err := os.ReadFile(f.Path)
		out[i] = Source{Module: f.Module, Path: f.Path, Content: content, Err: err}
	}
	return out
}

// LoadDir discovers and reads the modules under dir. Files that do not name
// a valid module are returned in err together with the valid ones.
func LoadDir(dir string) ([]Source, error) {
	files, err := project.DiscoverModules(dir)
	if files == nil && err != nil {
		return nil, err
	}
	return LoadSources(files), err
}

type ModuleResult struct {
	Module   string
	Path     string
	File     *source.File
	Meta     project.ModuleMeta
	Untyped  *ast.UntypedModule // definitions are taken out once resolved
	Typed    *ast.TypedModule
	Bag      *diag.Bag
	CacheHit bool
}

func (mr *ModuleResult) reporter() diag.Reporter {
	return diag.NewDedupReporter(diag.BagReporter{Bag: mr.Bag, Module: mr.Module})
}

// Result holds per-module outcomes in input order.
type Result struct {
	Target  target.Target
	Modules []*ModuleResult
	Order   []string   // dependencies before importers
	Batches [][]string // modules of one batch do not import each other
	Cyclic  bool
	Stats   Stats
	Timings observ.Report

	byName   map[string]*ModuleResult
	resolved bool
}

// Module looks up the first module with the given path.
func (r *Result) Module(name string) (*ModuleResult, bool) {
	mr, ok := r.byName[name]
	return mr, ok
}

func (r *Result) HasErrors() bool {
	for _, mr := range r.Modules {
		if mr.Bag.HasErrors() {
			return true
		}
	}
	return false
}

// Diagnostics merges every module's diagnostics into one sorted,
// deduplicated bag.
func (r *Result) Diagnostics() *diag.Bag {
	total := 0
	for _, mr := range r.Modules {
		total += mr.Bag.Len()
	}
	out := diag.NewBag(total)
	for _, mr := range r.Modules {
		out.Merge(mr.Bag)
	}
	out.Sort()
	out.Dedup()
	return out
}

// Files maps module paths to their sources for rendering.
func (r *Result) Files() map[string]*source.File {
	out := make(map[string]*source.File, len(r.Modules))
	for _, mr := range r.Modules {
		if _, ok := out[mr.Module]; !ok {
			out[mr.Module] = mr.File
		}
	}
	return out
}

// WriteDiagnostics renders all diagnostics followed by a summary line.
func (r *Result) WriteDiagnostics(w io.Writer) error {
	bag := r.Diagnostics()
	if err := diag.Write(w, bag.Items(), r.Files()); err != nil {
		return err
	}
	errs, warns := 0, 0
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	_, err := fmt.Fprintf(w, "%d modules, %d errors, %d warnings\n", len(r.Modules), errs, warns)
	return err
}
