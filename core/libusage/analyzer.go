// Package libusage determines which third-party UI component libraries
// a component depends on, directly or through chains of locally-defined
// wrapper components.
package libusage

import (
	"strings"
	"sync"

	"uilens/core/logger"
	"uilens/core/models"
	"uilens/core/parser"
)

// FileProvider supplies parsed source files.
type FileProvider interface {
	SourceFile(path string) *parser.SourceFile
}

// ModuleResolver maps import specifiers to files.
type ModuleResolver interface {
	Resolve(specifier, fromFile string) (string, bool)
}

// ExportResolver follows re-export chains to the defining file.
type ExportResolver interface {
	Resolve(exportedName, file string, visited map[string]struct{}) *models.ExportBinding
}

// memoEntry pairs a memoized result with every file it was derived
// from, so invalidating any of those files drops the entry.
type memoEntry struct {
	info    *models.LibraryUsageInfo
	derived map[string]struct{}
}

// Analyzer walks component bodies to find library usage. Results for
// local components are memoized by (file, component).
type Analyzer struct {
	files   FileProvider
	modules ModuleResolver
	exports ExportResolver
	sigs    *SignatureTable

	mu   sync.Mutex
	memo map[string]*memoEntry
}

func New(files FileProvider, modules ModuleResolver, exports ExportResolver, sigs *SignatureTable) *Analyzer {
	return &Analyzer{
		files:   files,
		modules: modules,
		exports: exports,
		sigs:    sigs,
		memo:    make(map[string]*memoEntry),
	}
}

// Analyze reports the library usage of componentName as imported from
// importSpecifier inside contextFile. A specifier matching a known
// library signature short-circuits without touching the filesystem;
// otherwise the component is resolved and its body analyzed
// transitively.
func (a *Analyzer) Analyze(contextFile, componentName, importSpecifier string) *models.LibraryUsageInfo {
	if lib, ok := a.sigs.Match(importSpecifier); ok {
		info := models.NewLibraryUsageInfo()
		info.Library = lib
		return info
	}

	resolved, ok := a.modules.Resolve(importSpecifier, contextFile)
	if !ok {
		return models.NewLibraryUsageInfo()
	}

	return a.analyzeLocal(resolved, componentName, make(map[string]struct{}))
}

// analyzeLocal analyzes a locally-defined component. The visited set
// breaks cycles: a component reachable from itself contributes nothing
// on the second encounter.
func (a *Analyzer) analyzeLocal(file, component string, visited map[string]struct{}) *models.LibraryUsageInfo {
	info, _, _ := a.analyzeComponent(file, component, visited)
	return info
}

// analyzeComponent resolves and scans one local component. It returns
// the usage info, the set of files the result was derived from, and
// whether the walk ran to completion. Results truncated by the cycle
// guard are never memoized: a later top-level call has to recompute
// the full picture, not inherit the view from inside the cycle.
func (a *Analyzer) analyzeComponent(file, component string, visited map[string]struct{}) (*models.LibraryUsageInfo, map[string]struct{}, bool) {
	key := file + "\x00" + component
	if _, seen := visited[key]; seen {
		logger.Debug("LibUsage: cycle at %s:%s", file, component)
		info := models.NewLibraryUsageInfo()
		info.IsLocalComponent = true
		return info, nil, false
	}
	visited[key] = struct{}{}

	a.mu.Lock()
	if cached, ok := a.memo[key]; ok {
		a.mu.Unlock()
		return cached.info, cached.derived, true
	}
	a.mu.Unlock()

	info := models.NewLibraryUsageInfo()
	info.IsLocalComponent = true
	derived := map[string]struct{}{file: {}}
	complete := true

	defFile, localName := file, component
	chain := make(map[string]struct{})
	if binding := a.exports.Resolve(component, file, chain); binding != nil {
		defFile, localName = binding.FilePath, binding.LocalName
	}
	// Every hop of the re-export chain shaped the result, barrel files
	// included.
	for hop := range chain {
		derived[hop[:strings.IndexByte(hop, 0)]] = struct{}{}
	}
	derived[defFile] = struct{}{}

	sf := a.files.SourceFile(defFile)
	if sf != nil {
		if body := a.componentBody(sf, localName); body != nil {
			for _, tag := range body.Elements {
				if !a.inspectTag(sf, defFile, localName, tag, tag, info, visited, derived) {
					complete = false
				}
			}
			for _, member := range body.MemberElements {
				label := member.Root + "." + member.Member
				if !a.inspectTag(sf, defFile, localName, member.Root, label, info, visited, derived) {
					complete = false
				}
			}
		}
	}

	if complete {
		a.mu.Lock()
		a.memo[key] = &memoEntry{info: info, derived: derived}
		a.mu.Unlock()
	}
	return info, derived, complete
}

// componentBody finds the scanned body for a component name, falling
// back to the default export's local declaration.
func (a *Analyzer) componentBody(sf *parser.SourceFile, name string) *parser.ComponentBody {
	if body, ok := sf.Components[name]; ok {
		return body
	}
	if name == "default" {
		for _, exp := range sf.Exports {
			if exp.Kind == models.ExportDefault && exp.LocalName != "" {
				return sf.Components[exp.LocalName]
			}
		}
	}
	return nil
}

// inspectTag classifies one markup tag used by owner: a direct library
// hit when the tag's import matches a signature, a recursive analysis
// when it is another local component, and a same-file recursion when
// the tag is declared next to its user. Child derivation files are
// accumulated into derived; the return is false when the walk below
// this tag was cut by the cycle guard.
func (a *Analyzer) inspectTag(sf *parser.SourceFile, file, owner, tag, label string, info *models.LibraryUsageInfo, visited, derived map[string]struct{}) bool {
	imp, ok := sf.ImportFor(tag)
	if !ok {
		if _, declared := sf.Components[tag]; declared && tag != owner {
			child, childDerived, complete := a.analyzeComponent(file, tag, visited)
			a.mergeChild(child, owner, label, info)
			union(derived, childDerived)
			return complete
		}
		return true
	}

	if lib, matched := a.sigs.Match(imp.Specifier); matched {
		if info.Library == "" {
			info.Library = lib
		} else if lib != info.Library {
			info.AddInternal(lib)
		}
		info.EvidenceChain = append(info.EvidenceChain, models.Evidence{
			From:    owner,
			To:      label,
			Library: lib,
		})
		return true
	}

	resolved, resolvable := a.modules.Resolve(imp.Specifier, file)
	if !resolvable {
		return true
	}
	derived[resolved] = struct{}{}
	child, childDerived, complete := a.analyzeComponent(resolved, exportedNameFor(imp, tag), visited)
	a.mergeChild(child, owner, label, info)
	union(derived, childDerived)
	return complete
}

// mergeChild unions a nested component's findings into the caller's
// result, prefixing the child's evidence with the connecting hop.
func (a *Analyzer) mergeChild(child *models.LibraryUsageInfo, owner, label string, info *models.LibraryUsageInfo) {
	info.AddInternal(child.Library)
	for lib := range child.InternalLibraries {
		info.AddInternal(lib)
	}
	info.EvidenceChain = append(info.EvidenceChain, models.Evidence{
		From:    owner,
		To:      label,
		Library: child.Library,
	})
	for _, ev := range child.EvidenceChain {
		info.EvidenceChain = append(info.EvidenceChain, models.Evidence{
			From:    owner + " -> " + ev.From,
			To:      ev.To,
			Library: ev.Library,
		})
	}
}

// StyleTokens returns the style tokens collected from a component's
// class attributes and class-merge helper calls, for the
// style-consistency collaborators. Library decisions never read these.
func (a *Analyzer) StyleTokens(contextFile, componentName, importSpecifier string) []string {
	if _, external := a.sigs.Match(importSpecifier); external {
		return nil
	}
	file, ok := a.modules.Resolve(importSpecifier, contextFile)
	if !ok {
		return nil
	}

	defFile, localName := file, componentName
	if binding := a.exports.Resolve(componentName, file, nil); binding != nil {
		defFile, localName = binding.FilePath, binding.LocalName
	}
	sf := a.files.SourceFile(defFile)
	if sf == nil {
		return nil
	}
	if body := a.componentBody(sf, localName); body != nil {
		return body.StyleTokens
	}
	return nil
}

// exportedNameFor maps a local tag name back to the name the source
// module exports it under.
func exportedNameFor(imp models.Import, local string) string {
	if imp.Default == local {
		return "default"
	}
	for _, n := range imp.Names {
		if n.Local() == local {
			return n.Name
		}
	}
	return local
}

// InvalidateFile drops every memoized result derived from path: results
// keyed by it, results whose re-export chain passed through it, and
// results that embedded a child component defined in it.
func (a *Analyzer) InvalidateFile(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for key, entry := range a.memo {
		if _, ok := entry.derived[path]; ok {
			delete(a.memo, key)
		}
	}
}

// Clear empties the memo cache.
func (a *Analyzer) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.memo = make(map[string]*memoEntry)
}

func union(dst, src map[string]struct{}) {
	for k := range src {
		dst[k] = struct{}{}
	}
}

// Stats reports the memoized (file, component) pairs.
func (a *Analyzer) Stats() models.CacheStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	entries := make([]string, 0, len(a.memo))
	for key := range a.memo {
		entries = append(entries, strings.ReplaceAll(key, "\x00", ":"))
	}
	return models.CacheStats{Size: len(a.memo), Entries: entries}
}
