package models

import "sort"

// DependencyGraph is the transitive closure of in-project files
// reachable from Root via import and re-export edges. Root is never a
// member of AllDependencies, even when it is cyclically reachable from
// its own dependencies.
type DependencyGraph struct {
	Root            string              `json:"root"`
	AllDependencies map[string]struct{} `json:"all_dependencies"`
}

// NewDependencyGraph returns an empty graph rooted at root.
func NewDependencyGraph(root string) *DependencyGraph {
	return &DependencyGraph{
		Root:            root,
		AllDependencies: make(map[string]struct{}),
	}
}

// Contains reports whether path is part of the closure.
func (g *DependencyGraph) Contains(path string) bool {
	_, ok := g.AllDependencies[path]
	return ok
}

// Size returns the number of dependencies in the closure.
func (g *DependencyGraph) Size() int {
	return len(g.AllDependencies)
}

// Sorted returns the closure as a sorted slice for stable display.
func (g *DependencyGraph) Sorted() []string {
	deps := make([]string, 0, len(g.AllDependencies))
	for dep := range g.AllDependencies {
		deps = append(deps, dep)
	}
	sort.Strings(deps)
	return deps
}

// CacheStats describes one cache's current contents, for diagnostics.
type CacheStats struct {
	Size    int      `json:"size"`
	Entries []string `json:"entries"`
}
