package models

// Position is a line/column pair in a source file. Lines are 1-based,
// columns 0-based, matching the istanbul coverage format.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// StatementLocation is the source range of one instrumented statement.
type StatementLocation struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// FileCoverage is the raw per-file statement coverage record as
// produced by an istanbul-style instrumenter: a statement map plus a
// hit count per statement id.
type FileCoverage struct {
	Path          string                       `json:"path"`
	StatementMap  map[string]StatementLocation `json:"statementMap"`
	StatementHits map[string]int               `json:"s"`
}

// TotalStatements returns the number of instrumented statements.
func (fc *FileCoverage) TotalStatements() int {
	return len(fc.StatementMap)
}

// CoveredStatements returns the number of statements with at least one hit.
func (fc *FileCoverage) CoveredStatements() int {
	covered := 0
	for id := range fc.StatementMap {
		if fc.StatementHits[id] > 0 {
			covered++
		}
	}
	return covered
}

// CoverageMap maps a file path (as the coverage producer wrote it) to
// that file's raw coverage record.
type CoverageMap map[string]*FileCoverage

// FileCoverageReport is one file's contribution to an aggregate.
type FileCoverageReport struct {
	Path              string       `json:"path"`
	Category          FileCategory `json:"category"`
	Weight            float64      `json:"weight"`
	TotalStatements   int          `json:"total_statements"`
	CoveredStatements int          `json:"covered_statements"`
	Percentage        float64      `json:"percentage"`
}

// AggregatedCoverage combines per-file statement coverage across an
// entry file and its dependency closure into a single weighted score.
type AggregatedCoverage struct {
	ComponentCoverage  float64              `json:"component_coverage"` // entry file alone, unweighted
	AggregateCoverage  float64              `json:"aggregate_coverage"` // weighted across the closure
	FilesAnalyzed      []FileCoverageReport `json:"files_analyzed"`
	UncoveredFiles     []string             `json:"uncovered_files"`
	LowestCoverageFile *FileCoverageReport  `json:"lowest_coverage_file,omitempty"`
}
