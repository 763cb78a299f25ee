package models

// ImportedName is a single name pulled in by a named import clause,
// e.g. `import { Button as Btn } from "./button"`.
type ImportedName struct {
	Name  string `json:"name"`
	Alias string `json:"alias,omitempty"`
}

// Local returns the name the import is bound to in the importing file.
func (n ImportedName) Local() string {
	if n.Alias != "" {
		return n.Alias
	}
	return n.Name
}

// Import represents one import edge out of a source file. Dynamic
// `import(...)` expressions and CommonJS `require(...)` calls are
// represented the same way with the corresponding flag set.
type Import struct {
	Specifier  string         `json:"specifier"`
	Names      []ImportedName `json:"names,omitempty"`
	Default    string         `json:"default,omitempty"`   // local name of the default import
	Namespace  string         `json:"namespace,omitempty"` // local name of `* as ns`
	IsTypeOnly bool           `json:"is_type_only,omitempty"`
	IsDynamic  bool           `json:"is_dynamic,omitempty"`
	IsRequire  bool           `json:"is_require,omitempty"`
	Line       int            `json:"line"`
}

// ExportKind classifies what kind of declaration an export binds to.
type ExportKind int

const (
	ExportFunction ExportKind = iota
	ExportClass
	ExportConst
	ExportEnum
	ExportType
	ExportInterface
	ExportDefault
	// ExportUnknown covers brace-list exports whose local declaration
	// shape is not visible from the export statement itself.
	ExportUnknown
)

func (k ExportKind) String() string {
	switch k {
	case ExportFunction:
		return "function"
	case ExportClass:
		return "class"
	case ExportConst:
		return "const"
	case ExportEnum:
		return "enum"
	case ExportType:
		return "type"
	case ExportInterface:
		return "interface"
	case ExportDefault:
		return "default"
	default:
		return "unknown"
	}
}

// Export represents one exported name of a source file. Re-exports
// carry the source specifier they forward from; `export * from "..."`
// is recorded with IsWildcard set and an empty name.
type Export struct {
	Name       string     `json:"name"`       // exported name, "default" for default exports
	LocalName  string     `json:"local_name"` // name inside the defining file
	Kind       ExportKind `json:"kind"`
	Source     string     `json:"source,omitempty"` // re-export source specifier
	IsWildcard bool       `json:"is_wildcard,omitempty"`
	Line       int        `json:"line"`
}

// ExportBinding is the terminal result of following a re-export chain:
// the file and local name that actually declare an exported name.
// IsReexport is false for a terminal binding.
type ExportBinding struct {
	Name       string `json:"name"`
	FilePath   string `json:"file_path"`
	LocalName  string `json:"local_name"`
	IsReexport bool   `json:"is_reexport"`
}
