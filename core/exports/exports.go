// Package exports follows re-export chains to the file that actually
// declares an exported name.
package exports

import (
	"sync"

	"uilens/core/logger"
	"uilens/core/models"
	"uilens/core/parser"
)

// FileProvider supplies parsed source files. A nil result means the
// file is missing or unparsable, which resolves as "no exports".
type FileProvider interface {
	SourceFile(path string) *parser.SourceFile
}

// ModuleResolver maps re-export source specifiers to files.
type ModuleResolver interface {
	Resolve(specifier, fromFile string) (string, bool)
}

// fileExports is one file's extracted export surface: a name-keyed map
// plus the sources of unnamed `export * from` statements, which have to
// be searched when a direct lookup misses.
type fileExports struct {
	byName    map[string]models.Export
	wildcards []string
}

// Resolver resolves exported names through re-export chains. Export
// maps are cached per file.
type Resolver struct {
	files   FileProvider
	modules ModuleResolver

	mu   sync.RWMutex
	maps map[string]*fileExports
}

func New(files FileProvider, modules ModuleResolver) *Resolver {
	return &Resolver{
		files:   files,
		modules: modules,
		maps:    make(map[string]*fileExports),
	}
}

// Resolve follows the re-export chain for exportedName starting at
// file. It returns nil when the name is not found, when a chain hop is
// unresolvable, or when a (file, name) pair repeats — a re-export cycle
// resolves as "not found" rather than looping. Pass nil for visited at
// the top call.
func (r *Resolver) Resolve(exportedName, file string, visited map[string]struct{}) *models.ExportBinding {
	if visited == nil {
		visited = make(map[string]struct{})
	}
	key := file + "\x00" + exportedName
	if _, seen := visited[key]; seen {
		logger.Debug("Exports: cycle at %s:%s, resolving as not found", file, exportedName)
		return nil
	}
	visited[key] = struct{}{}

	fe := r.exportsOf(file)

	exp, ok := fe.byName[exportedName]
	if !ok {
		for _, source := range fe.wildcards {
			resolved, found := r.modules.Resolve(source, file)
			if !found {
				continue
			}
			if binding := r.Resolve(exportedName, resolved, visited); binding != nil {
				return binding
			}
		}
		return nil
	}

	local := exp.LocalName
	if local == "" {
		local = exportedName
	}

	if exp.Source != "" {
		resolved, found := r.modules.Resolve(exp.Source, file)
		if !found {
			return nil
		}
		return r.Resolve(local, resolved, visited)
	}

	return &models.ExportBinding{
		Name:       exportedName,
		FilePath:   file,
		LocalName:  local,
		IsReexport: false,
	}
}

// ExportedNames returns the directly declared export names of a file,
// not including names only reachable through wildcard re-exports.
func (r *Resolver) ExportedNames(file string) []string {
	fe := r.exportsOf(file)
	names := make([]string, 0, len(fe.byName))
	for name := range fe.byName {
		names = append(names, name)
	}
	return names
}

func (r *Resolver) exportsOf(file string) *fileExports {
	r.mu.RLock()
	fe, ok := r.maps[file]
	r.mu.RUnlock()
	if ok {
		return fe
	}

	fe = &fileExports{byName: make(map[string]models.Export)}
	if sf := r.files.SourceFile(file); sf != nil {
		for _, exp := range sf.Exports {
			if exp.IsWildcard {
				if exp.Name == "" && exp.Source != "" {
					fe.wildcards = append(fe.wildcards, exp.Source)
				} else if exp.Name != "" {
					// export * as ns: the namespace object is declared
					// here, so the binding terminates at this file.
					ns := exp
					ns.Source = ""
					ns.LocalName = exp.Name
					fe.byName[exp.Name] = ns
				}
				continue
			}
			fe.byName[exp.Name] = exp
		}
	}

	r.mu.Lock()
	r.maps[file] = fe
	r.mu.Unlock()
	return fe
}

// InvalidateFile drops the cached export map for path. Idempotent.
func (r *Resolver) InvalidateFile(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.maps, path)
}

// Clear empties the export map cache.
func (r *Resolver) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.maps = make(map[string]*fileExports)
}

// Stats reports the cached files.
func (r *Resolver) Stats() models.CacheStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]string, 0, len(r.maps))
	for file := range r.maps {
		entries = append(entries, file)
	}
	return models.CacheStats{Size: len(r.maps), Entries: entries}
}
