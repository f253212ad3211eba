package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"sort"
	"strings"
	"sync"
	"testing"

	"arbor/internal/ast"
	"arbor/internal/depcache"
	"arbor/internal/diag"
	"arbor/internal/source"
	"arbor/internal/target"
	"arbor/internal/types"
)

// lineParser understands one definition per line:
//
//	import a/b      import for every backend
//	js import a/b   import for JavaScript only
//	fn name         function
//	inverted        function whose span ends before it starts
//	!syntax         parse failure
type lineParser struct{}

func (lineParser) Parse(_ context.Context, module string, file *source.File) (*ast.UntypedModule, error) {
	m := &ast.UntypedModule{Name: module}
	var off uint32
	for _, line := range strings.SplitAfter(string(file.Content), "\n") {
		start := off
		off += uint32(len(line))
		text := strings.TrimSpace(line)
		sp := source.NewSpan(start, start+uint32(len(text)))
		switch {
		case text == "":
		case text == "!syntax":
			return nil, fmt.Errorf("%s:%d: unexpected token", module, start)
		case strings.HasPrefix(text, "js import "):
			imp := &ast.Import{Loc: sp, Module: strings.TrimPrefix(text, "js import ")}
			m.Groups = append(m.Groups, ast.OnlyTarget(target.JavaScript, imp))
		case strings.HasPrefix(text, "import "):
			m.Groups = append(m.Groups, ast.AnyTarget(&ast.Import{Loc: sp, Module: strings.TrimPrefix(text, "import ")}))
		case strings.HasPrefix(text, "fn "):
			fn := &ast.Function{Loc: sp, EndPosition: sp.End, Name: strings.TrimPrefix(text, "fn ")}
			m.Groups = append(m.Groups, ast.AnyTarget(fn))
		case text == "inverted":
			fn := &ast.Function{Loc: source.Span{Start: sp.End, End: sp.Start}, EndPosition: sp.End, Name: "inverted"}
			m.Groups = append(m.Groups, ast.AnyTarget(fn))
		default:
			return nil, fmt.Errorf("%s: unknown line %q", module, text)
		}
	}
	return m, nil
}

type recordingInferrer struct {
	mu     sync.Mutex
	order  []string
	deps   map[string][]string
	failOn map[string]bool
}

func (r *recordingInferrer) Infer(_ context.Context, m *ast.UntypedModule, _ target.Target, deps map[string]*ast.TypedModule) (ast.Resolver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, m.Name)
	if r.deps == nil {
		r.deps = make(map[string][]string)
	}
	names := make([]string, 0, len(deps))
	for name, dep := range deps {
		if dep == nil {
			return nil, fmt.Errorf("%s: nil dependency %s", m.Name, name)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	r.deps[m.Name] = names
	if r.failOn[m.Name] {
		return nil, errors.New("cannot infer " + m.Name)
	}
	return nilResolver{}, nil
}

type nilResolver struct{}

func (nilResolver) ModuleInfo(module string) (*ast.ModuleInfo, error) {
	return &ast.ModuleInfo{Name: module, Package: "app"}, nil
}
func (nilResolver) Type(ast.Node) (*types.Type, error) { return types.Nil(), nil }
func (nilResolver) Value(n ast.Node) (*ast.ValueConstructor, error) {
	return &ast.ValueConstructor{Variant: ast.ValueLocalVariable, Location: n.Location(), Type: types.Nil()}, nil
}
func (nilResolver) FieldIndex(ast.Node) (uint64, error)             { return 0, nil }
func (nilResolver) RecordTag(c *ast.RecordConstant) (string, error) { return c.Name, nil }
func (nilResolver) Package(*ast.Import) (string, error)             { return "app", nil }
func (nilResolver) PatternConstructor(*ast.ConstructorPattern) (ast.Inferred[*ast.PatternConstructor], error) {
	return ast.Unknown[*ast.PatternConstructor](), nil
}
func (nilResolver) TypeParameters(c *ast.CustomType) ([]*types.Type, error) {
	return make([]*types.Type, len(c.Parameters)), nil
}

func src(module, content string) Source {
	return Source{Module: module, Path: module + ".gleam", Content: []byte(content)}
}

func codesOf(mr *ModuleResult) []diag.Code {
	var out []diag.Code
	for _, d := range mr.Bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func mustModule(t *testing.T, res *Result, name string) *ModuleResult {
	t.Helper()
	mr, ok := res.Module(name)
	if !ok {
		t.Fatalf("module %q missing from result", name)
	}
	return mr
}

func TestRun_ResolvesInDependencyOrder(t *testing.T) {
	inf := &recordingInferrer{}
	p := New(lineParser{}, inf, Options{Jobs: 4})
	res, err := p.Run(context.Background(), []Source{
		src("app", "import app/util\nimport app/types\nfn main\n"),
		src("app/util", "import app/types\nfn helper\n"),
		src("app/types", "fn id\n"),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.HasErrors() {
		var buf bytes.Buffer
		_ = res.WriteDiagnostics(&buf)
		t.Fatalf("unexpected diagnostics:\n%s", buf.String())
	}

	wantOrder := []string{"app/types", "app/util", "app"}
	if !reflect.DeepEqual(res.Order, wantOrder) {
		t.Fatalf("order = %v, want %v", res.Order, wantOrder)
	}
	if !reflect.DeepEqual(inf.order, wantOrder) {
		t.Fatalf("infer order = %v, want %v", inf.order, wantOrder)
	}
	if got := inf.deps["app"]; !reflect.DeepEqual(got, []string{"app/types", "app/util"}) {
		t.Fatalf("deps of app = %v", got)
	}
	if len(res.Batches) != 3 || res.Cyclic {
		t.Fatalf("batches = %v cyclic=%v", res.Batches, res.Cyclic)
	}

	for _, name := range wantOrder {
		mr := mustModule(t, res, name)
		if mr.Typed == nil {
			t.Fatalf("%s not resolved", name)
		}
		if mr.Meta.ModuleHash.IsZero() {
			t.Fatalf("%s has no module hash", name)
		}
	}
	if res.Stats.Resolved != 3 || res.Stats.Parsed != 3 || res.Stats.BatchMax != 1 {
		t.Fatalf("stats = %s", res.Stats)
	}
	var stages []string
	for _, s := range res.Timings.Stages {
		stages = append(stages, s.Name)
	}
	if !reflect.DeepEqual(stages, []string{"parse", "graph", "resolve"}) {
		t.Fatalf("timed stages = %v", stages)
	}
}

func TestRun_IndependentModulesShareBatch(t *testing.T) {
	p := New(lineParser{}, &recordingInferrer{}, Options{Jobs: 2})
	res, err := p.Run(context.Background(), []Source{
		src("a", "fn a\n"),
		src("b", "fn b\n"),
		src("c", "import a\nimport b\n"),
	})
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"a", "b"}, {"c"}}
	if !reflect.DeepEqual(res.Batches, want) {
		t.Fatalf("batches = %v, want %v", res.Batches, want)
	}
	if res.Stats.BatchMax != 2 {
		t.Fatalf("batch max = %d", res.Stats.BatchMax)
	}
}

func TestRun_TargetFiltersImports(t *testing.T) {
	sources := []Source{
		src("app", "js import app/ffi\nfn main\n"),
		src("app/ffi", "fn now\n"),
	}
	tests := []struct {
		target target.Target
		want   []string
	}{
		{target.Erlang, nil},
		{target.JavaScript, []string{"app/ffi"}},
	}
	for _, tt := range tests {
		t.Run(tt.target.String(), func(t *testing.T) {
			inf := &recordingInferrer{}
			res, err := New(lineParser{}, inf, Options{Target: tt.target}).Run(context.Background(), sources)
			if err != nil {
				t.Fatal(err)
			}
			var got []string
			for _, imp := range mustModule(t, res, "app").Meta.Imports {
				got = append(got, imp.Path)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("imports = %v, want %v", got, tt.want)
			}
			if res.Target != tt.target {
				t.Fatalf("result target = %v", res.Target)
			}
		})
	}
}

func TestRun_ParseFailurePropagates(t *testing.T) {
	inf := &recordingInferrer{}
	res, err := New(lineParser{}, inf, Options{}).Run(context.Background(), []Source{
		src("a", "import b\nfn a\n"),
		src("b", "import c\nfn b\n"),
		src("c", "!syntax\n"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(inf.order) != 0 {
		t.Fatalf("nothing should be inferred, got %v", inf.order)
	}

	tests := []struct {
		module string
		want   []diag.Code
	}{
		{"a", []diag.Code{diag.ProjDependencyFailed}},
		{"b", []diag.Code{diag.ProjDependencyFailed}},
		{"c", []diag.Code{diag.DrvParseFailed}},
	}
	for _, tt := range tests {
		mr := mustModule(t, res, tt.module)
		if got := codesOf(mr); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: codes = %v, want %v", tt.module, got, tt.want)
		}
		if mr.Typed != nil {
			t.Errorf("%s should not be resolved", tt.module)
		}
	}

	d := mustModule(t, res, "b").Bag.Items()[0]
	if len(d.Notes) != 1 || !strings.Contains(d.Notes[0].Msg, "unexpected token") {
		t.Fatalf("expected note pointing at the parse error, got %+v", d.Notes)
	}
	if res.Stats.ParseErrors != 1 || res.Stats.Skipped != 3 {
		t.Fatalf("stats = %s", res.Stats)
	}
}

func TestRun_ResolveFailure(t *testing.T) {
	inf := &recordingInferrer{failOn: map[string]bool{"b": true}}
	res, err := New(lineParser{}, inf, Options{}).Run(context.Background(), []Source{
		src("a", "import b\n"),
		src("b", "fn b\n"),
		src("c", "fn c\n"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := codesOf(mustModule(t, res, "b")); !slices.Equal(got, []diag.Code{diag.DrvResolveFailed}) {
		t.Fatalf("b codes = %v", got)
	}
	if got := codesOf(mustModule(t, res, "a")); !slices.Equal(got, []diag.Code{diag.ProjDependencyFailed}) {
		t.Fatalf("a codes = %v", got)
	}
	if mustModule(t, res, "c").Typed == nil {
		t.Fatal("independent module c should resolve")
	}
	if res.Stats.ResolveErrors != 1 {
		t.Fatalf("stats = %s", res.Stats)
	}
}

func TestRun_GraphErrors(t *testing.T) {
	res, err := New(lineParser{}, &recordingInferrer{}, Options{}).Run(context.Background(), []Source{
		src("a", "import b\n"),
		src("b", "import a\n"),
		src("c", "import c\nimport missing\n"),
		src("d", "fn d\n"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Cyclic {
		t.Fatal("expected cycle")
	}
	for _, name := range []string{"a", "b"} {
		if got := codesOf(mustModule(t, res, name)); !slices.Contains(got, diag.ProjImportCycle) {
			t.Errorf("%s codes = %v, want import cycle", name, got)
		}
	}
	got := codesOf(mustModule(t, res, "c"))
	if !slices.Contains(got, diag.ProjSelfImport) || !slices.Contains(got, diag.ProjMissingModule) {
		t.Errorf("c codes = %v", got)
	}
	if mustModule(t, res, "d").Typed == nil {
		t.Error("d should still resolve")
	}
}

func TestRun_DuplicateModule(t *testing.T) {
	first := src("a", "fn a\n")
	second := Source{Module: "a", Path: "other/a.gleam", Content: []byte("fn b\n")}
	res, err := New(lineParser{}, nil, Options{}).Run(context.Background(), []Source{first, second})
	if err != nil {
		t.Fatal(err)
	}
	if got := codesOf(res.Modules[1]); !slices.Equal(got, []diag.Code{diag.ProjDuplicateModule}) {
		t.Fatalf("duplicate codes = %v", got)
	}
	if mr := mustModule(t, res, "a"); mr.Path != "a.gleam" {
		t.Fatalf("lookup should return the first module, got %s", mr.Path)
	}
}

func TestRun_WithoutInferrer(t *testing.T) {
	res, err := New(lineParser{}, nil, Options{}).Run(context.Background(), []Source{
		src("a", "import b\n"),
		src("b", "fn b\n"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.HasErrors() {
		t.Fatalf("unexpected errors: %v", res.Diagnostics().Items())
	}
	for _, mr := range res.Modules {
		if mr.Typed != nil || mr.Untyped == nil {
			t.Fatalf("%s: want parsed only", mr.Module)
		}
	}
	if !reflect.DeepEqual(res.Order, []string{"b", "a"}) {
		t.Fatalf("order = %v", res.Order)
	}
}

func TestRun_CheckReportsSpanErrors(t *testing.T) {
	res, err := New(lineParser{}, &recordingInferrer{}, Options{Check: true}).Run(context.Background(), []Source{
		src("a", "inverted\n"),
		src("b", "fn ok\n"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := codesOf(mustModule(t, res, "a")); !slices.Contains(got, diag.AstSpanInverted) {
		t.Fatalf("a codes = %v", got)
	}
	if mustModule(t, res, "a").Typed != nil {
		t.Fatal("module with errors should be skipped")
	}
	if b := mustModule(t, res, "b"); b.Typed == nil || b.Bag.Len() != 0 {
		t.Fatalf("b: typed=%v diags=%v", b.Typed != nil, b.Bag.Items())
	}
}

func TestRun_DependencyCache(t *testing.T) {
	cache, err := depcache.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	sources := []Source{
		src("a", "import b\nfn a\n"),
		src("b", "fn b\n"),
	}
	p := New(lineParser{}, &recordingInferrer{}, Options{Cache: cache})

	first, err := p.Run(context.Background(), sources)
	if err != nil {
		t.Fatal(err)
	}
	if first.Stats.CacheHits != 0 || first.Stats.CacheMisses != 2 {
		t.Fatalf("first run stats = %s", first.Stats)
	}

	second, err := p.Run(context.Background(), sources)
	if err != nil {
		t.Fatal(err)
	}
	if second.Stats.CacheHits != 2 {
		t.Fatalf("second run stats = %s", second.Stats)
	}
	a := mustModule(t, second, "a")
	if !a.CacheHit || len(a.Meta.Imports) != 1 || a.Meta.Imports[0].Path != "b" {
		t.Fatalf("cached imports = %+v", a.Meta.Imports)
	}
	if a.Meta.Imports[0].Span != source.NewSpan(0, 8) {
		t.Fatalf("cached import span = %v", a.Meta.Imports[0].Span)
	}
	if a.Meta.ModuleHash != mustModule(t, first, "a").Meta.ModuleHash {
		t.Fatal("module hash changed between identical runs")
	}
}

func TestRun_LoadError(t *testing.T) {
	res, err := New(lineParser{}, nil, Options{}).Run(context.Background(), []Source{
		{Module: "gone", Path: "gone.gleam", Err: os.ErrNotExist},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := codesOf(res.Modules[0]); !slices.Equal(got, []diag.Code{diag.IOLoadFileError}) {
		t.Fatalf("codes = %v", got)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(lineParser{}, &recordingInferrer{}, Options{}).Run(ctx, []Source{src("a", "fn a\n")})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoadDirAndWriteDiagnostics(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"app.gleam":      "import app/util\n",
		"app/util.gleam": "!syntax\n",
		"Bad.gleam":      "fn x\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	sources, err := LoadDir(dir)
	if err == nil || !strings.Contains(err.Error(), "Bad") {
		t.Fatalf("expected error naming the invalid file, got %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("sources = %d, want 2", len(sources))
	}

	res, err := New(lineParser{}, &recordingInferrer{}, Options{}).Run(context.Background(), sources)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := res.WriteDiagnostics(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"ERROR PRJ5104 app:1:1",
		"ERROR DRV2001 app/util:",
		"2 modules, 2 errors, 0 warnings",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
