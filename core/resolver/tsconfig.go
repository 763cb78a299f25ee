package resolver

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"uilens/core/logger"
)

// tsconfig is the subset of a tsconfig.json the resolver cares about:
// baseUrl and the paths alias table, anchored at the config's directory.
type tsconfig struct {
	dir     string
	baseURL string
	paths   map[string][]string
}

type tsconfigFile struct {
	CompilerOptions struct {
		BaseURL string              `json:"baseUrl"`
		Paths   map[string][]string `json:"paths"`
	} `json:"compilerOptions"`
}

// tsconfigFor finds the nearest tsconfig.json at or above dir, stopping
// at the project root. Lookups are cached per directory, including the
// "no config" outcome.
func (r *Resolver) tsconfigFor(dir string) *tsconfig {
	r.mu.Lock()
	defer r.mu.Unlock()

	var missing []string
	for current := dir; ; current = filepath.Dir(current) {
		if tc, ok := r.tsconfigs[current]; ok {
			for _, m := range missing {
				r.tsconfigs[m] = tc
			}
			return tc
		}

		path := filepath.Join(current, "tsconfig.json")
		if isFile(path) {
			tc, err := loadTSConfig(path)
			if err != nil {
				logger.Debug("Resolver: failed to load %s: %v", path, err)
				tc = nil
			}
			r.tsconfigs[current] = tc
			for _, m := range missing {
				r.tsconfigs[m] = tc
			}
			return tc
		}
		missing = append(missing, current)

		if current == r.root || filepath.Dir(current) == current {
			for _, m := range missing {
				r.tsconfigs[m] = nil
			}
			return nil
		}
	}
}

func loadTSConfig(path string) (*tsconfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var parsed tsconfigFile
	if err := json.Unmarshal(scrubJSONC(data), &parsed); err != nil {
		return nil, err
	}

	return &tsconfig{
		dir:     filepath.Dir(path),
		baseURL: parsed.CompilerOptions.BaseURL,
		paths:   parsed.CompilerOptions.Paths,
	}, nil
}

// aliasPrefixes returns the path-alias prefixes this config declares,
// e.g. "@/" for the pattern "@/*".
func (tc *tsconfig) aliasPrefixes() []string {
	var prefixes []string
	for pattern := range tc.paths {
		if prefix := strings.TrimSuffix(pattern, "*"); prefix != "" {
			prefixes = append(prefixes, prefix)
		}
	}
	return prefixes
}

// expand maps a specifier through the paths table and baseUrl to
// candidate filesystem locations.
func (tc *tsconfig) expand(specifier string) []string {
	var candidates []string

	base := tc.dir
	if tc.baseURL != "" {
		base = filepath.Join(tc.dir, tc.baseURL)
	}

	for pattern, targets := range tc.paths {
		star := strings.Index(pattern, "*")
		if star < 0 {
			if specifier != pattern {
				continue
			}
			for _, target := range targets {
				candidates = append(candidates, filepath.Join(base, target))
			}
			continue
		}

		prefix := pattern[:star]
		suffix := pattern[star+1:]
		if !strings.HasPrefix(specifier, prefix) || !strings.HasSuffix(specifier, suffix) {
			continue
		}
		matched := specifier[len(prefix) : len(specifier)-len(suffix)]
		for _, target := range targets {
			candidates = append(candidates, filepath.Join(base, strings.Replace(target, "*", matched, 1)))
		}
	}

	// baseUrl alone also roots bare specifiers.
	if tc.baseURL != "" {
		candidates = append(candidates, filepath.Join(base, specifier))
	}
	return candidates
}

// scrubJSONC strips // and /* */ comments and trailing commas so the
// JSONC tsconfig dialect parses with encoding/json. tsconfig files are
// the only JSONC input this tool reads, which does not justify a
// dedicated parser dependency.
func scrubJSONC(data []byte) []byte {
	out := make([]byte, 0, len(data))
	inString := false
	for i := 0; i < len(data); i++ {
		c := data[i]

		if inString {
			out = append(out, c)
			if c == '\\' && i+1 < len(data) {
				i++
				out = append(out, data[i])
			} else if c == '"' {
				inString = false
			}
			continue
		}

		switch {
		case c == '"':
			inString = true
			out = append(out, c)
		case c == '/' && i+1 < len(data) && data[i+1] == '/':
			for i < len(data) && data[i] != '\n' {
				i++
			}
			if i < len(data) {
				out = append(out, '\n')
			}
		case c == '/' && i+1 < len(data) && data[i+1] == '*':
			i += 2
			for i+1 < len(data) && !(data[i] == '*' && data[i+1] == '/') {
				i++
			}
			i++
		case c == ',':
			// Drop the comma if the next non-whitespace closes a scope.
			j := i + 1
			for j < len(data) && (data[j] == ' ' || data[j] == '\t' || data[j] == '\n' || data[j] == '\r') {
				j++
			}
			if j < len(data) && (data[j] == '}' || data[j] == ']') {
				continue
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}
	return out
}
