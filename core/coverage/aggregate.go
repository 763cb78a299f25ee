// Package coverage combines per-file statement coverage across a
// dependency closure into a single weighted score.
package coverage

import (
	"math"
	"sort"
	"strings"

	"uilens/core/logger"
	"uilens/core/models"
)

// GraphBuilder supplies dependency closures.
type GraphBuilder interface {
	Build(entryFile, projectRoot string) *models.DependencyGraph
}

// Categorizer assigns coverage weights to files.
type Categorizer interface {
	Categorize(file, projectRoot string) models.CategoryResult
}

// Aggregator computes weighted aggregate coverage for an entry file and
// everything it transitively depends on.
type Aggregator struct {
	graphs     GraphBuilder
	categories Categorizer
}

func New(graphs GraphBuilder, categories Categorizer) *Aggregator {
	return &Aggregator{graphs: graphs, categories: categories}
}

// Aggregate builds the closure of entryFile, weighs each member by its
// category, and folds the raw statement counts into one score. Files
// without a coverage record contribute zero covered and zero total
// statements. Percentages are rounded to 2 decimal places.
func (a *Aggregator) Aggregate(entryFile, projectRoot string, raw models.CoverageMap) *models.AggregatedCoverage {
	graph := a.graphs.Build(entryFile, projectRoot)

	files := append([]string{graph.Root}, graph.Sorted()...)

	result := &models.AggregatedCoverage{
		FilesAnalyzed:  make([]models.FileCoverageReport, 0, len(files)),
		UncoveredFiles: []string{},
	}

	var weightedCovered, weightedTotal float64
	var lowest *models.FileCoverageReport

	for _, file := range files {
		cat := a.categories.Categorize(file, projectRoot)

		var total, covered int
		if record := findCoverage(raw, file); record != nil {
			total = record.TotalStatements()
			covered = record.CoveredStatements()
		} else {
			logger.Debug("Coverage: no record for %s", file)
		}

		percentage := 0.0
		if total > 0 {
			percentage = round2(float64(covered) / float64(total) * 100)
		}

		report := models.FileCoverageReport{
			Path:              file,
			Category:          cat.Category,
			Weight:            cat.Weight,
			TotalStatements:   total,
			CoveredStatements: covered,
			Percentage:        percentage,
		}
		result.FilesAnalyzed = append(result.FilesAnalyzed, report)

		if file == graph.Root {
			result.ComponentCoverage = percentage
		}

		if total > 0 && percentage == 0 {
			result.UncoveredFiles = append(result.UncoveredFiles, file)
		}

		if cat.Weight > 0 && total > 0 {
			weightedCovered += float64(covered) * cat.Weight
			weightedTotal += float64(total) * cat.Weight

			// Zero-coverage files belong to uncoveredFiles, not lowest.
			if percentage > 0 && (lowest == nil || percentage < lowest.Percentage) {
				copied := report
				lowest = &copied
			}
		}
	}

	if weightedTotal > 0 {
		result.AggregateCoverage = round2(weightedCovered / weightedTotal * 100)
	}
	result.LowestCoverageFile = lowest
	sort.Strings(result.UncoveredFiles)

	return result
}

// findCoverage locates the raw record for a file: exact path match
// first, then suffix matching against path variants, to tolerate
// coverage producers that normalize paths differently.
func findCoverage(raw models.CoverageMap, file string) *models.FileCoverage {
	if record, ok := raw[file]; ok {
		return record
	}

	variants := []string{
		file,
		strings.TrimPrefix(file, "/"),
		"/" + strings.TrimPrefix(file, "/"),
	}
	for recorded, record := range raw {
		for _, variant := range variants {
			if variant == "" {
				continue
			}
			if suffixAtBoundary(recorded, variant) || suffixAtBoundary(variant, recorded) {
				return record
			}
		}
	}
	return nil
}

// suffixAtBoundary reports whether suffix matches full at a path
// segment boundary, so a record keyed app.tsx never attaches to
// myapp.tsx.
func suffixAtBoundary(full, suffix string) bool {
	if !strings.HasSuffix(full, suffix) {
		return false
	}
	if len(full) == len(suffix) || suffix[0] == '/' || suffix[0] == '\\' {
		return true
	}
	switch full[len(full)-len(suffix)-1] {
	case '/', '\\':
		return true
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
