package coverage

import (
	"encoding/json"
	"fmt"
	"os"

	"uilens/core/models"
)

// LoadIstanbul reads an istanbul coverage-final.json file into a
// CoverageMap. Each entry carries a statement map and per-statement hit
// counts; everything else the format defines (functions, branches) is
// ignored here.
func LoadIstanbul(path string) (models.CoverageMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read coverage file %s: %w", path, err)
	}

	var raw map[string]*models.FileCoverage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse coverage file %s: %w", path, err)
	}

	coverage := make(models.CoverageMap, len(raw))
	for file, record := range raw {
		if record == nil {
			continue
		}
		if record.Path == "" {
			record.Path = file
		}
		coverage[file] = record
	}
	return coverage, nil
}
