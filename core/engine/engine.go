// Package engine wires the analysis components together behind one
// instance that owns every cache. Hosts construct an Engine per
// analysis session; nothing here is a process-wide singleton, so
// concurrent sessions do not leak state into each other.
package engine

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"uilens/core/category"
	"uilens/core/config"
	"uilens/core/coverage"
	"uilens/core/exports"
	"uilens/core/graph"
	"uilens/core/libusage"
	"uilens/core/logger"
	"uilens/core/models"
	"uilens/core/parser"
	"uilens/core/resolver"
)

// parsedEntry is one parse-cache slot, validated by size and
// modification time so an on-disk change forces a re-parse.
type parsedEntry struct {
	source  *parser.SourceFile
	modTime time.Time
	size    int64
}

// Engine is the analysis facade. All public methods are safe for
// concurrent use; each cache is guarded independently.
type Engine struct {
	root   string
	parser *parser.Parser

	parseMu sync.RWMutex
	parsed  map[string]*parsedEntry

	modules    *resolver.Resolver
	exports    *exports.Resolver
	graphs     *graph.Builder
	categories *category.Categorizer
	usage      *libusage.Analyzer
	aggregator *coverage.Aggregator
}

// New creates an engine for the project at root. A nil config gets
// defaults.
func New(root string, cfg *config.Config) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		root:   abs,
		parser: parser.New(),
		parsed: make(map[string]*parsedEntry),
	}

	e.modules = resolver.New(abs,
		resolver.WithExtensions(cfg.SourceExtensions),
		resolver.WithAliasPrefixes(cfg.AliasPrefixes),
	)
	e.exports = exports.New(e, e.modules)
	e.graphs = graph.New(e, e.modules)
	e.categories = category.New(e)
	e.usage = libusage.New(e, e.modules, e.exports, libusage.NewSignatureTable(cfg.Libraries))
	e.aggregator = coverage.New(e.graphs, e.categories)

	return e, nil
}

// Root returns the project root.
func (e *Engine) Root() string {
	return e.root
}

// SourceFile returns the parsed form of path, from cache when the file
// is unchanged on disk. Missing and unparsable files return nil; the
// callers treat that as "no imports, no exports".
func (e *Engine) SourceFile(path string) *parser.SourceFile {
	stat, err := os.Stat(path)
	if err != nil {
		e.parseMu.Lock()
		delete(e.parsed, path)
		e.parseMu.Unlock()
		return nil
	}

	e.parseMu.RLock()
	entry, ok := e.parsed[path]
	e.parseMu.RUnlock()
	if ok && entry.size == stat.Size() && entry.modTime.Equal(stat.ModTime()) {
		return entry.source
	}

	sf, err := e.parser.ParseFile(path)
	if err != nil {
		logger.Debug("Engine: parse failed for %s: %v", path, err)
		return nil
	}

	e.parseMu.Lock()
	e.parsed[path] = &parsedEntry{source: sf, modTime: stat.ModTime(), size: stat.Size()}
	e.parseMu.Unlock()
	return sf
}

// Resolve maps an import specifier from a file to an absolute path.
func (e *Engine) Resolve(specifier, fromFile string) (string, bool) {
	return e.modules.Resolve(specifier, fromFile)
}

// ResolveExport follows re-export chains for an exported name.
func (e *Engine) ResolveExport(exportedName, file string) *models.ExportBinding {
	return e.exports.Resolve(exportedName, file, nil)
}

// DependencyGraph returns the transitive in-project closure of entry.
func (e *Engine) DependencyGraph(entry string) *models.DependencyGraph {
	return e.graphs.Build(entry, e.root)
}

// Categorize returns the architectural role of a file.
func (e *Engine) Categorize(file string) models.CategoryResult {
	return e.categories.Categorize(file, e.root)
}

// AnalyzeLibraryUsage reports the UI libraries a component depends on.
func (e *Engine) AnalyzeLibraryUsage(contextFile, componentName, importSpecifier string) *models.LibraryUsageInfo {
	return e.usage.Analyze(contextFile, componentName, importSpecifier)
}

// StyleTokens returns the class tokens a component's markup carries.
func (e *Engine) StyleTokens(contextFile, componentName, importSpecifier string) []string {
	return e.usage.StyleTokens(contextFile, componentName, importSpecifier)
}

// AggregateCoverage combines raw statement coverage over entry's
// dependency closure.
func (e *Engine) AggregateCoverage(entry string, raw models.CoverageMap) *models.AggregatedCoverage {
	return e.aggregator.Aggregate(entry, e.root, raw)
}

// InvalidateFile drops every cached derivation of path: its parse, its
// export map, resolutions involving it, memoized component analyses,
// and — transitively — any cached dependency graph containing it.
// Idempotent and safe for paths that were never cached.
func (e *Engine) InvalidateFile(path string) {
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}

	e.parseMu.Lock()
	delete(e.parsed, path)
	e.parseMu.Unlock()

	e.modules.InvalidateFile(path)
	e.exports.InvalidateFile(path)
	e.graphs.InvalidateFile(path)
	e.usage.InvalidateFile(path)

	logger.Debug("Engine: invalidated %s", path)
}

// Clear empties every cache.
func (e *Engine) Clear() {
	e.parseMu.Lock()
	e.parsed = make(map[string]*parsedEntry)
	e.parseMu.Unlock()

	e.modules.Clear()
	e.exports.Clear()
	e.graphs.Clear()
	e.usage.Clear()

	logger.Debug("Engine: cleared all caches")
}

// Stats reports size and entries for each cache, keyed by cache name.
func (e *Engine) Stats() map[string]models.CacheStats {
	e.parseMu.RLock()
	parseEntries := make([]string, 0, len(e.parsed))
	for path := range e.parsed {
		parseEntries = append(parseEntries, path)
	}
	parseStats := models.CacheStats{Size: len(e.parsed), Entries: parseEntries}
	e.parseMu.RUnlock()

	return map[string]models.CacheStats{
		"parse":    parseStats,
		"resolve":  e.modules.Stats(),
		"exports":  e.exports.Stats(),
		"graphs":   e.graphs.Stats(),
		"libusage": e.usage.Stats(),
	}
}
