// Package category classifies files into architectural roles that
// drive coverage weighting.
package category

import (
	"path/filepath"
	"regexp"
	"strings"

	"uilens/core/models"
	"uilens/core/parser"
)

// FileProvider supplies parsed source files. A nil result means the
// file is missing or unparsable.
type FileProvider interface {
	SourceFile(path string) *parser.SourceFile
}

// hookName matches the hook naming convention: a capitalized word
// immediately after the "use" prefix, e.g. useCartTotals.ts.
var hookName = regexp.MustCompile(`^use[A-Z]`)

// coreSuffixes are filename conventions that mark a file as core logic
// regardless of its export shape.
var coreSuffixes = []string{".service.", ".store.", ".api."}

// Categorizer assigns one of four roles to a file. Filename rules are
// checked first; only when none match is the file parsed and its export
// shape inspected.
type Categorizer struct {
	files FileProvider
}

func New(files FileProvider) *Categorizer {
	return &Categorizer{files: files}
}

// Categorize returns the file's role, weight, and the rule that fired.
// Rules are priority-ordered; the first match wins.
func (c *Categorizer) Categorize(file, projectRoot string) models.CategoryResult {
	base := filepath.Base(file)

	if strings.HasSuffix(base, ".d.ts") {
		return result(models.CategoryType, "declaration file")
	}
	if hookName.MatchString(strings.TrimSuffix(base, filepath.Ext(base))) {
		return result(models.CategoryCore, "hook naming convention")
	}
	for _, suffix := range coreSuffixes {
		if strings.Contains(base, suffix) {
			return result(models.CategoryCore, "filename convention "+strings.Trim(suffix, "."))
		}
	}

	sf := c.files.SourceFile(file)
	if sf == nil {
		return result(models.CategoryUtility, "not found")
	}
	return categorizeByShape(sf)
}

// categorizeByShape inspects a parsed file's markup and export kinds.
func categorizeByShape(sf *parser.SourceFile) models.CategoryResult {
	if sf.HasJSX {
		return result(models.CategoryCore, "contains UI markup")
	}

	if len(sf.Exports) == 0 {
		return result(models.CategoryUtility, "default")
	}

	typeOnly := true
	hasValue := false
	hasCallable := false
	for _, exp := range sf.Exports {
		switch exp.Kind {
		case models.ExportType, models.ExportInterface:
			// type-level export
		case models.ExportConst, models.ExportEnum:
			typeOnly = false
			hasValue = true
		case models.ExportFunction, models.ExportClass, models.ExportDefault, models.ExportUnknown:
			typeOnly = false
			hasCallable = true
		default:
			typeOnly = false
			hasCallable = true
		}
	}

	switch {
	case typeOnly:
		return result(models.CategoryType, "only type exports")
	case hasValue && !hasCallable:
		return result(models.CategoryConstant, "only constant exports")
	default:
		return result(models.CategoryUtility, "default")
	}
}

func result(cat models.FileCategory, reason string) models.CategoryResult {
	return models.CategoryResult{
		Category: cat,
		Weight:   cat.Weight(),
		Reason:   reason,
	}
}
