package resolver

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"uilens/core/config"
	"uilens/core/logger"
	"uilens/core/models"
)

// cacheSize bounds the resolved-path cache. Every (fromFile, specifier)
// pair in a traversal lands here, including negative results, so the
// cache is the one unbounded-growth risk in large projects.
const cacheSize = 8192

const nodeModulesDir = "node_modules"

// resolution is a cached resolver outcome. OK false means external or
// unresolvable; negative results are cached to avoid repeated
// filesystem probing for third-party packages.
type resolution struct {
	Path string
	OK   bool
}

// Resolver maps module specifiers to absolute on-disk paths. It tries,
// in order: a fast-path external check that never touches the
// filesystem, tsconfig-aware structured resolution, and manual
// alias-root/relative probing. First success wins; the tier order is a
// contract, not an optimization.
type Resolver struct {
	root       string
	extensions []string
	aliases    []string

	cache *lru.Cache[string, resolution]

	mu        sync.Mutex
	tsconfigs map[string]*tsconfig // keyed by directory, nil entry = no config
}

type Option func(*Resolver)

// WithExtensions overrides the source extension priority order.
func WithExtensions(exts []string) Option {
	return func(r *Resolver) {
		if len(exts) > 0 {
			r.extensions = exts
		}
	}
}

// WithAliasPrefixes adds alias prefixes beyond those found in tsconfig.
func WithAliasPrefixes(prefixes []string) Option {
	return func(r *Resolver) {
		r.aliases = append(r.aliases, prefixes...)
	}
}

// New creates a resolver rooted at projectRoot. The root tsconfig, if
// present, seeds the alias prefix list so aliased specifiers are not
// mistaken for external packages by the fast path.
func New(projectRoot string, opts ...Option) *Resolver {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		abs = projectRoot
	}

	cache, _ := lru.New[string, resolution](cacheSize)
	r := &Resolver{
		root:       abs,
		extensions: config.DefaultExtensions,
		aliases:    []string{"@/", "~/"},
		cache:      cache,
		tsconfigs:  make(map[string]*tsconfig),
	}
	for _, opt := range opts {
		opt(r)
	}

	if tc := r.tsconfigFor(abs); tc != nil {
		r.aliases = append(r.aliases, tc.aliasPrefixes()...)
	}
	return r
}

// Root returns the project root the resolver operates under.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve maps a specifier imported from fromFile to an absolute path.
// The second return is false for external or unresolvable specifiers.
// Resolve never returns a path under node_modules.
func (r *Resolver) Resolve(specifier, fromFile string) (string, bool) {
	if specifier == "" {
		return "", false
	}

	key := fromFile + "\x00" + specifier
	if cached, ok := r.cache.Get(key); ok {
		return cached.Path, cached.OK
	}

	path, ok := r.resolve(specifier, fromFile)
	if ok && underDirectory(path, nodeModulesDir) {
		logger.Debug("Resolver: %q from %s resolved into node_modules, treating as external", specifier, fromFile)
		path, ok = "", false
	}

	r.cache.Add(key, resolution{Path: path, OK: ok})
	return path, ok
}

func (r *Resolver) resolve(specifier, fromFile string) (string, bool) {
	// Tier 0: clearly-external bare packages never hit the filesystem.
	if r.isExternalBare(specifier) {
		return "", false
	}

	// Tier 1: structured resolution through tsconfig aliases.
	if path, ok := r.resolveStructured(specifier, fromFile); ok {
		return path, true
	}

	// Tier 2: manual probing fallback.
	return r.resolveManual(specifier, fromFile)
}

// isExternalBare reports whether the specifier denotes a third-party
// package: not relative, not absolute, and not under a known alias
// prefix.
func (r *Resolver) isExternalBare(specifier string) bool {
	if strings.HasPrefix(specifier, ".") || filepath.IsAbs(specifier) {
		return false
	}
	for _, alias := range r.aliases {
		if strings.HasPrefix(specifier, alias) {
			return false
		}
	}
	return true
}

// resolveStructured resolves relative specifiers against the importing
// file and aliased specifiers through the nearest tsconfig's paths and
// baseUrl, probing extensions and index files.
func (r *Resolver) resolveStructured(specifier, fromFile string) (string, bool) {
	if strings.HasPrefix(specifier, ".") {
		return r.probe(filepath.Join(filepath.Dir(fromFile), specifier))
	}
	if filepath.IsAbs(specifier) {
		return r.probe(specifier)
	}

	tc := r.tsconfigFor(filepath.Dir(fromFile))
	if tc == nil {
		return "", false
	}
	for _, candidate := range tc.expand(specifier) {
		if path, ok := r.probe(candidate); ok {
			return path, true
		}
	}
	return "", false
}

// resolveManual is the fallback when structured resolution fails: for
// aliased specifiers it locates the project root by walking upward for
// a manifest marker and probes from there (including the conventional
// src/ layout); for relative specifiers it re-probes against the
// importing file's directory.
func (r *Resolver) resolveManual(specifier, fromFile string) (string, bool) {
	if strings.HasPrefix(specifier, ".") {
		return r.probe(filepath.Join(filepath.Dir(fromFile), specifier))
	}

	for _, alias := range r.aliases {
		if !strings.HasPrefix(specifier, alias) {
			continue
		}
		rest := strings.TrimPrefix(specifier, alias)
		projRoot := findProjectRoot(filepath.Dir(fromFile), r.root)
		if projRoot == "" {
			projRoot = r.root
		}
		if path, ok := r.probe(filepath.Join(projRoot, rest)); ok {
			return path, true
		}
		if path, ok := r.probe(filepath.Join(projRoot, "src", rest)); ok {
			return path, true
		}
	}
	return "", false
}

// probe tries a base path as-is, with each recognized extension, and as
// a directory containing an index file, in that order.
func (r *Resolver) probe(base string) (string, bool) {
	if isFile(base) && r.hasSourceExtension(base) {
		return absolute(base), true
	}
	for _, ext := range r.extensions {
		if isFile(base + ext) {
			return absolute(base + ext), true
		}
	}
	for _, ext := range r.extensions {
		index := filepath.Join(base, "index"+ext)
		if isFile(index) {
			return absolute(index), true
		}
	}
	return "", false
}

func (r *Resolver) hasSourceExtension(path string) bool {
	for _, ext := range r.extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// InvalidateFile drops every cached resolution that involves path,
// either as the importing file or as the resolved target. Safe to call
// for paths with no cached entries.
func (r *Resolver) InvalidateFile(path string) {
	for _, key := range r.cache.Keys() {
		fromFile := key[:strings.IndexByte(key, 0)]
		entry, ok := r.cache.Peek(key)
		if !ok {
			continue
		}
		if fromFile == path || entry.Path == path {
			r.cache.Remove(key)
		}
	}

	if filepath.Base(path) == "tsconfig.json" {
		r.mu.Lock()
		delete(r.tsconfigs, filepath.Dir(path))
		r.mu.Unlock()
	}
}

// Clear empties the resolution and tsconfig caches.
func (r *Resolver) Clear() {
	r.cache.Purge()
	r.mu.Lock()
	r.tsconfigs = make(map[string]*tsconfig)
	r.mu.Unlock()
}

// Stats reports the cache size and the importing files with entries.
func (r *Resolver) Stats() models.CacheStats {
	seen := make(map[string]struct{})
	var entries []string
	for _, key := range r.cache.Keys() {
		fromFile := key[:strings.IndexByte(key, 0)]
		if _, ok := seen[fromFile]; ok {
			continue
		}
		seen[fromFile] = struct{}{}
		entries = append(entries, fromFile)
	}
	return models.CacheStats{Size: r.cache.Len(), Entries: entries}
}

// findProjectRoot walks upward from dir looking for a package manifest
// or tsconfig marker, stopping at limit.
func findProjectRoot(dir, limit string) string {
	for {
		if isFile(filepath.Join(dir, "package.json")) || isFile(filepath.Join(dir, "tsconfig.json")) {
			return dir
		}
		if dir == limit {
			return ""
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func underDirectory(path, dirName string) bool {
	sep := string(filepath.Separator)
	return strings.Contains(path, sep+dirName+sep)
}

func isFile(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && !stat.IsDir()
}

func absolute(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
