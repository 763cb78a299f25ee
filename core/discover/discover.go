// Package discover finds analyzable component source files in a
// project tree.
package discover

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"uilens/core/logger"
)

// skipDirs are directories that never hold first-party component
// sources.
var skipDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	"dist":         {},
	"build":        {},
	"out":          {},
	".next":        {},
	"coverage":     {},
	"__tests__":    {},
	"__mocks__":    {},
}

// skipFileParts mark test, story, and mock files, which are excluded
// from discovery the way the surrounding lint tool excludes them.
var skipFileParts = []string{".test.", ".spec.", ".stories.", ".story."}

var sourceExtensions = map[string]struct{}{
	".ts":  {},
	".tsx": {},
	".js":  {},
	".jsx": {},
}

// Files walks root and returns every source file worth analyzing,
// honoring the project's .gitignore on top of the built-in excludes.
// Paths are absolute and sorted.
func Files(root string) ([]string, error) {
	gi := loadGitignore(root)

	var results []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries degrade to "not discovered"
		}

		name := d.Name()

		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") || d.Type()&os.ModeSymlink != 0 {
			return nil
		}
		if _, ok := sourceExtensions[filepath.Ext(name)]; !ok {
			return nil
		}
		for _, part := range skipFileParts {
			if strings.Contains(name, part) {
				return nil
			}
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			return nil
		}
		results = append(results, abs)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(results)
	logger.Debug("Discover: found %d source files under %s", len(results), root)
	return results, nil
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		logger.Debug("Discover: failed to parse %s: %v", path, err)
		return nil
	}
	return gi
}
