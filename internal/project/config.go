package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"arbor/internal/target"
	"arbor/internal/trace"
)

// Config is the decoded arbor.toml. Every section is optional; missing keys
// keep the values from DefaultConfig.
type Config struct {
	Package PackageConfig `toml:"package"`
	Build   BuildConfig   `toml:"build"`
	Trace   TraceConfig   `toml:"trace"`
	Cache   CacheConfig   `toml:"cache"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type BuildConfig struct {
	Target  target.Target `toml:"target"`
	Sources string        `toml:"sources"` // каталог с модулями, относительно корня
	Jobs    int           `toml:"jobs"`    // 0 = GOMAXPROCS
}

type TraceConfig struct {
	Level     trace.Level       `toml:"level"`
	Format    trace.Format      `toml:"format"`
	Mode      trace.StorageMode `toml:"mode"`
	Output    string            `toml:"output"`
	RingSize  int               `toml:"ring_size"`
	Heartbeat Duration          `toml:"heartbeat"`
}

type CacheConfig struct {
	Dir      string `toml:"dir"`
	Disabled bool   `toml:"disabled"`
}

// Duration reads Go duration strings such as "500ms" from TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig is used when no arbor.toml exists and for missing keys.
func DefaultConfig() Config {
	return Config{
		Build: BuildConfig{Target: target.Erlang, Sources: "src"},
		Trace: TraceConfig{Level: trace.LevelOff, Format: trace.FormatAuto, Mode: trace.ModeStream, RingSize: 4096},
		Cache: CacheConfig{Dir: filepath.Join("build", "cache")},
	}
}

// LoadConfig decodes path on top of DefaultConfig. Unknown keys are
// rejected so typos do not silently fall back to defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("package") && strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if cfg.Build.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [build].jobs must not be negative", path)
	}
	return cfg, nil
}

// Manifest is a located and loaded arbor.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// LoadManifest finds arbor.toml from startDir upwards and loads it. When no
// manifest exists ok is false and the returned manifest carries defaults
// rooted at startDir.
func LoadManifest(startDir string) (m *Manifest, ok bool, err error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		root, absErr := filepath.Abs(startDir)
		if absErr != nil {
			return nil, false, absErr
		}
		return &Manifest{Root: root, Config: DefaultConfig()}, false, nil
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// LoadManifestFile loads an explicit config path, as given by --config.
func LoadManifestFile(path string) (*Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
		return nil, err
	}
	cfg, err := LoadConfig(abs)
	if err != nil {
		return nil, err
	}
	return &Manifest{Path: abs, Root: filepath.Dir(abs), Config: cfg}, nil
}

// SourcesDir is the absolute modules directory.
func (m *Manifest) SourcesDir() string {
	return m.abs(m.Config.Build.Sources)
}

// CacheDir is the absolute dependency cache directory.
func (m *Manifest) CacheDir() string {
	return m.abs(m.Config.Cache.Dir)
}

func (m *Manifest) abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, filepath.FromSlash(p))
}

// TracerConfig converts the [trace] section for trace.New. Relative output
// paths are resolved against the project root.
func (m *Manifest) TracerConfig() trace.Config {
	t := m.Config.Trace
	out := t.Output
	if out != "" && out != "-" {
		out = m.abs(out)
	}
	return trace.Config{
		Level:      t.Level,
		Mode:       t.Mode,
		Format:     t.Format,
		OutputPath: out,
		RingSize:   t.RingSize,
		Heartbeat:  t.Heartbeat.Duration,
	}
}
