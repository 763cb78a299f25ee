package models

import "sort"

// Evidence links a local component to a library dependency discovered
// through one of its nested components. Entries keep discovery order
// so diagnostics can show the chain that led to the hit.
type Evidence struct {
	From    string `json:"from"`    // component doing the importing
	To      string `json:"to"`      // component (or library) imported
	Library string `json:"library"` // library discovered through this hop, if any
}

// LibraryUsageInfo describes which third-party UI libraries a component
// depends on. Library is set when the component's own import specifier
// matches a known signature; InternalLibraries accumulates libraries
// reached through chains of locally-defined wrapper components.
type LibraryUsageInfo struct {
	Library           string              `json:"library,omitempty"`
	InternalLibraries map[string]struct{} `json:"internal_libraries"`
	EvidenceChain     []Evidence          `json:"evidence_chain"`
	IsLocalComponent  bool                `json:"is_local_component"`
}

// NewLibraryUsageInfo returns an empty usage record.
func NewLibraryUsageInfo() *LibraryUsageInfo {
	return &LibraryUsageInfo{
		InternalLibraries: make(map[string]struct{}),
		EvidenceChain:     []Evidence{},
	}
}

// AddInternal records a library found through a nested local component.
func (l *LibraryUsageInfo) AddInternal(library string) {
	if library == "" {
		return
	}
	l.InternalLibraries[library] = struct{}{}
}

// Libraries returns every library the component depends on, direct or
// transitive, sorted for stable display.
func (l *LibraryUsageInfo) Libraries() []string {
	set := make(map[string]struct{}, len(l.InternalLibraries)+1)
	if l.Library != "" {
		set[l.Library] = struct{}{}
	}
	for lib := range l.InternalLibraries {
		set[lib] = struct{}{}
	}
	libs := make([]string, 0, len(set))
	for lib := range set {
		libs = append(libs, lib)
	}
	sort.Strings(libs)
	return libs
}
