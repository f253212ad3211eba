// Package depcache stores the per-backend dependency list of each module on
// disk, keyed by the module's content digest and backend. A hit lets the
// driver skip re-reading imports of an unchanged module.
package depcache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"arbor/internal/ast"
	"arbor/internal/project"
	"arbor/internal/source"
	"arbor/internal/target"
)

// Current schema version - increment when Entry format changes
const schemaVersion uint16 = 1

const entryExt = ".mp"

var (
	// ErrEntryNotFound is returned by Get for missing and stale entries.
	ErrEntryNotFound = errors.New("depcache: entry not found")
)

// Dependency is an import as stored on disk. Offsets are kept signed so a
// damaged entry decodes and is rejected by AstDependencies instead of
// wrapping around.
type Dependency struct {
	Module string
	Start  int64
	End    int64
}

// Entry is one cached dependency list.
type Entry struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Module       string
	Target       target.Target
	ContentHash  project.Digest
	Dependencies []Dependency
	Created      time.Time
}

// NewEntry captures deps of module as compiled for t.
func NewEntry(module string, t target.Target, content project.Digest, deps []ast.Dependency) *Entry {
	e := &Entry{
		Schema:       schemaVersion,
		Module:       module,
		Target:       t,
		ContentHash:  content,
		Dependencies: make([]Dependency, len(deps)),
		Created:      time.Now().UTC(),
	}
	for i, d := range deps {
		e.Dependencies[i] = Dependency{Module: d.Module, Start: int64(d.Location.Start), End: int64(d.Location.End)}
	}
	return e
}

// AstDependencies converts the stored list back to tree dependencies.
func (e *Entry) AstDependencies() ([]ast.Dependency, error) {
	out := make([]ast.Dependency, len(e.Dependencies))
	for i, d := range e.Dependencies {
		start, err := safecast.Conv[uint32](d.Start)
		if err != nil {
			return nil, fmt.Errorf("depcache: %s import %q: start: %w", e.Module, d.Module, err)
		}
		end, err := safecast.Conv[uint32](d.End)
		if err != nil {
			return nil, fmt.Errorf("depcache: %s import %q: end: %w", e.Module, d.Module, err)
		}
		if start > end {
			return nil, fmt.Errorf("depcache: %s import %q: inverted span %d..%d", e.Module, d.Module, start, end)
		}
		out[i] = ast.Dependency{Module: d.Module, Location: source.Span{Start: start, End: end}}
	}
	return out, nil
}

// Key is the cache key of a module's content compiled for t.
func Key(content project.Digest, t target.Target) project.Digest {
	return project.Combine(content, project.HashContent([]byte(t.String())))
}

// Cache хранит записи по ключу на диске. Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Open uses dir as the cache root, creating it when missing.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Join(dir, "deps"), 0o755); err != nil {
		return nil, fmt.Errorf("depcache: %w", err)
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) Dir() string {
	return c.dir
}

func (c *Cache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "deps", key.String()+entryExt)
}

// Put serializes and writes an entry to the disk cache.
func (c *Cache) Put(key project.Digest, e *Entry) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return fmt.Errorf("depcache: %w", err)
	}
	defer func() {
		// после успешного Rename файла уже нет
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(e); err != nil {
		_ = f.Close()
		return fmt.Errorf("depcache: encode %s: %w", e.Module, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads the entry stored under key. Missing entries and entries written
// with another schema report ErrEntryNotFound.
func (c *Cache) Get(key project.Digest) (*Entry, error) {
	if c == nil {
		return nil, ErrEntryNotFound
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return readEntry(c.pathFor(key))
}

func readEntry(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("depcache: %w", err)
	}
	var e Entry
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("depcache: decode %s: %w", filepath.Base(path), err)
	}
	if e.Schema != schemaVersion {
		return nil, fmt.Errorf("%w: schema %d, want %d", ErrEntryNotFound, e.Schema, schemaVersion)
	}
	return &e, nil
}

// Listing is an entry together with its key.
type Listing struct {
	Key   project.Digest
	Entry *Entry
	Err   error // entry could not be decoded
}

// List returns every entry, sorted by module then backend. Corrupt entries
// are listed with Err set instead of failing the whole listing.
func (c *Cache) List() ([]Listing, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	files, err := os.ReadDir(filepath.Join(c.dir, "deps"))
	if err != nil {
		return nil, fmt.Errorf("depcache: %w", err)
	}
	var out []Listing
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || !strings.HasSuffix(name, entryExt) {
			continue
		}
		key, err := project.ParseDigest(strings.TrimSuffix(name, entryExt))
		if err != nil {
			continue
		}
		e, err := readEntry(filepath.Join(c.dir, "deps", name))
		out = append(out, Listing{Key: key, Entry: e, Err: err})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Entry, out[j].Entry
		switch {
		case a == nil || b == nil:
			return a != nil && b == nil
		case a.Module != b.Module:
			return a.Module < b.Module
		default:
			return a.Target < b.Target
		}
	})
	return out, nil
}

// Remove deletes the entry under key.
func (c *Cache) Remove(key project.Digest) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.Remove(c.pathFor(key)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrEntryNotFound
		}
		return fmt.Errorf("depcache: %w", err)
	}
	return nil
}

// Clean removes every entry and returns how many were deleted.
func (c *Cache) Clean() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dir := filepath.Join(c.dir, "deps")
	files, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("depcache: %w", err)
	}
	removed := 0
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(dir, f.Name())); err != nil {
			return removed, fmt.Errorf("depcache: %w", err)
		}
		if strings.HasSuffix(f.Name(), entryExt) {
			removed++
		}
	}
	return removed, nil
}
