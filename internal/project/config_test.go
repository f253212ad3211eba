package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"arbor/internal/target"
	"arbor/internal/trace"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("empty manifest = %+v, want defaults", cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[package]
name = "shop"

[build]
target = "javascript"
sources = "lib"
jobs = 4

[trace]
level = "Detail"
format = "ndjson"
mode = "both"
output = "trace.ndjson"
heartbeat = "250ms"

[cache]
dir = "/tmp/arbor-cache"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Package.Name != "shop" || cfg.Build.Target != target.JavaScript || cfg.Build.Sources != "lib" || cfg.Build.Jobs != 4 {
		t.Fatalf("build = %+v / %+v", cfg.Package, cfg.Build)
	}
	tr := cfg.Trace
	if tr.Level != trace.LevelDetail || tr.Format != trace.FormatNDJSON || tr.Mode != trace.ModeBoth {
		t.Fatalf("trace = %+v", tr)
	}
	if tr.Heartbeat.Duration != 250*time.Millisecond || tr.RingSize != 4096 {
		t.Fatalf("trace = %+v", tr)
	}
	if cfg.Cache.Dir != "/tmp/arbor-cache" {
		t.Fatalf("cache = %+v", cfg.Cache)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad toml", "[build", "failed to parse TOML"},
		{"unknown key", "[build]\noptimise = true", "unknown keys: build.optimise"},
		{"bad target", "[build]\ntarget = \"wasm\"", "wasm"},
		{"bad level", "[trace]\nlevel = \"loud\"", "invalid trace level"},
		{"bad duration", "[trace]\nheartbeat = \"soon\"", "invalid duration"},
		{"empty name", "[package]\nname = \" \"", "missing [package].name"},
		{"negative jobs", "[build]\njobs = -1", "jobs must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.content)
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("LoadConfig error = %v, want %q", err, tt.want)
			}
			if !strings.Contains(err.Error(), path) {
				t.Fatalf("error %q does not name the file", err)
			}
		})
	}
}

func TestLoadManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[cache]\ndir = \"out/cache\"\n[trace]\noutput = \"t.log\"\n")
	nested := filepath.Join(root, "src", "app")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := LoadManifest(nested)
	if err != nil || !ok {
		t.Fatalf("LoadManifest = %v, %v", ok, err)
	}
	wantRoot, _ := filepath.Abs(root)
	if m.Root != wantRoot {
		t.Fatalf("root = %q, want %q", m.Root, wantRoot)
	}
	if m.CacheDir() != filepath.Join(wantRoot, "out", "cache") {
		t.Fatalf("cache dir = %q", m.CacheDir())
	}
	if m.SourcesDir() != filepath.Join(wantRoot, "src") {
		t.Fatalf("sources dir = %q", m.SourcesDir())
	}
	if tc := m.TracerConfig(); tc.OutputPath != filepath.Join(wantRoot, "t.log") {
		t.Fatalf("trace output = %q", tc.OutputPath)
	}
}

func TestLoadManifestMissing(t *testing.T) {
	dir := t.TempDir()
	m, ok, err := LoadManifest(dir)
	if err != nil || ok {
		t.Fatalf("LoadManifest = %v, %v", ok, err)
	}
	if m.Config != DefaultConfig() || m.Path != "" {
		t.Fatalf("manifest = %+v", m)
	}
	if _, err := LoadManifestFile(filepath.Join(dir, "nope.toml")); err == nil {
		t.Fatal("missing explicit config accepted")
	}
}
