package project

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"fortio.org/safecast"

	"arbor/internal/ast"
	"arbor/internal/source"
	"arbor/internal/target"
)

// SourceExt is the extension of module source files.
const SourceExt = ".gleam"

type ImportMeta struct {
	Path string
	Span source.Span
}

type ModuleMeta struct {
	Path        string       // нормализованный путь модуля: "a/b"
	File        string       // путь к исходному файлу на диске
	Span        source.Span  // span всего файла
	Imports     []ImportMeta // импорты для выбранного бэкенда, в порядке исходника
	ContentHash Digest       // хеш содержимого файла
	ModuleHash  Digest       // агрегированный хеш модуля с учётом зависимостей
}

// IsValidModuleIdent reports whether name is a valid module path segment:
// a lowercase ASCII letter followed by lowercase letters, digits and '_'.
func IsValidModuleIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case i > 0 && (r == '_' || (r >= '0' && r <= '9')):
		default:
			return false
		}
	}
	return true
}

// NormalizeModulePath приводит путь модуля (импорт/сам файл) к каноническому виду "a/b".
// Удаляет расширение .gleam, переводит слэши к '/', запрещает пустые и невалидные сегменты.
func NormalizeModulePath(path string) (string, error) {
	path = strings.TrimSuffix(path, SourceExt)
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.TrimLeft(path, "/")
	if path == "" {
		return "", errors.New("invalid module path")
	}
	segments := strings.Split(path, "/")
	for _, seg := range segments {
		if !IsValidModuleIdent(seg) {
			return "", fmt.Errorf("invalid module path %q: bad segment %q", path, seg)
		}
	}
	return strings.Join(segments, "/"), nil
}

// MetaFromModule describes m as compiled for t. The imports come from the
// module's dependencies for that backend.
func MetaFromModule(m *ast.UntypedModule, t target.Target, file string, content []byte) ModuleMeta {
	meta := ModuleMeta{
		Path:        m.Name,
		File:        file,
		ContentHash: HashContent(content),
	}
	if size, err := safecast.Conv[uint32](len(content)); err == nil {
		meta.Span = source.NewSpan(0, size)
	}
	for _, dep := range m.Dependencies(t) {
		meta.Imports = append(meta.Imports, ImportMeta{Path: dep.Module, Span: dep.Location})
	}
	return meta
}

// ModuleFile is a discovered source file and the module path it defines.
type ModuleFile struct {
	Module string
	Path   string
}

// DiscoverModules lists every module under dir, sorted by module path.
// Files whose relative path is not a valid module path are reported in the
// returned error after the walk completes.
func DiscoverModules(dir string) ([]ModuleFile, error) {
	var (
		files []ModuleFile
		bad   []error
	)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != SourceExt {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		name, err := NormalizeModulePath(filepath.ToSlash(rel))
		if err != nil {
			bad = append(bad, fmt.Errorf("%s: %w", path, err))
			return nil
		}
		files = append(files, ModuleFile{Module: name, Path: path})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover modules in %s: %w", dir, err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Module < files[j].Module })
	return files, errors.Join(bad...)
}
