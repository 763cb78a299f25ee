// Package graph computes the transitive closure of in-project files
// reachable from an entry file via import and re-export edges.
package graph

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"uilens/core/logger"
	"uilens/core/models"
	"uilens/core/parser"
)

// FileProvider supplies parsed source files. A nil result means the
// file is missing or unparsable, which contributes no edges.
type FileProvider interface {
	SourceFile(path string) *parser.SourceFile
}

// ModuleResolver maps import specifiers to files.
type ModuleResolver interface {
	Resolve(specifier, fromFile string) (string, bool)
}

// cachedGraph is one cache entry, validated against the entry file's
// modification time recorded at store.
type cachedGraph struct {
	graph   *models.DependencyGraph
	modTime time.Time
}

// Builder builds dependency closures with cycle safety and caches them
// per entry file.
type Builder struct {
	files   FileProvider
	modules ModuleResolver

	mu    sync.Mutex
	cache map[string]*cachedGraph
}

func New(files FileProvider, modules ModuleResolver) *Builder {
	return &Builder{
		files:   files,
		modules: modules,
		cache:   make(map[string]*cachedGraph),
	}
}

// Build returns the dependency closure of entryFile within projectRoot.
// A cached graph is returned as-is while the entry file's modification
// time is unchanged. A missing or unparsable entry file yields an empty
// closure, never an error.
func (b *Builder) Build(entryFile, projectRoot string) *models.DependencyGraph {
	entryFile = cleanPath(entryFile)
	projectRoot = cleanPath(projectRoot)

	modTime, hasStat := fileModTime(entryFile)

	b.mu.Lock()
	if entry, ok := b.cache[entryFile]; ok && hasStat && entry.modTime.Equal(modTime) {
		b.mu.Unlock()
		logger.Debug("Graph: cache hit for %s", entryFile)
		return entry.graph
	}
	b.mu.Unlock()

	graph := models.NewDependencyGraph(entryFile)
	visited := map[string]struct{}{entryFile: {}}
	b.walk(entryFile, projectRoot, visited, graph)

	if hasStat {
		b.mu.Lock()
		b.cache[entryFile] = &cachedGraph{graph: graph, modTime: modTime}
		b.mu.Unlock()
	}

	logger.Debug("Graph: built closure for %s with %d dependencies", entryFile, graph.Size())
	return graph
}

// walk is a depth-first traversal. The visited set guarantees
// termination on cycles: the first occurrence of a file fixes its place
// in the closure and later cyclic references to it are skipped, which
// also keeps the entry file out of its own dependency set.
func (b *Builder) walk(file, projectRoot string, visited map[string]struct{}, graph *models.DependencyGraph) {
	sf := b.files.SourceFile(file)
	if sf == nil {
		return
	}

	for _, specifier := range sf.Specifiers() {
		resolved, ok := b.modules.Resolve(specifier, file)
		if !ok {
			continue
		}
		resolved = cleanPath(resolved)
		if !withinRoot(resolved, projectRoot) {
			continue
		}
		if _, seen := visited[resolved]; seen {
			continue
		}
		visited[resolved] = struct{}{}
		graph.AllDependencies[resolved] = struct{}{}
		b.walk(resolved, projectRoot, visited, graph)
	}
}

// InvalidateFile drops the cached graph rooted at path and, because a
// change to any member invalidates the closures built over it, every
// cached graph whose dependency set contains path. Idempotent.
func (b *Builder) InvalidateFile(path string) {
	path = cleanPath(path)

	b.mu.Lock()
	defer b.mu.Unlock()

	for entry, cached := range b.cache {
		if entry == path || cached.graph.Contains(path) {
			delete(b.cache, entry)
			logger.Debug("Graph: invalidated cached graph for %s (changed: %s)", entry, path)
		}
	}
}

// Clear empties the graph cache.
func (b *Builder) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cache = make(map[string]*cachedGraph)
}

// Stats reports the entry files with cached graphs.
func (b *Builder) Stats() models.CacheStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := make([]string, 0, len(b.cache))
	for entry := range b.cache {
		entries = append(entries, entry)
	}
	return models.CacheStats{Size: len(b.cache), Entries: entries}
}

func withinRoot(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}

func fileModTime(path string) (time.Time, bool) {
	stat, err := os.Stat(path)
	if err != nil {
		return time.Time{}, false
	}
	return stat.ModTime(), true
}

func cleanPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
