package models

// FileCategory is the architectural role assigned to a file. The role
// drives the weight its statements carry in aggregate coverage.
type FileCategory string

const (
	CategoryCore     FileCategory = "core"
	CategoryUtility  FileCategory = "utility"
	CategoryConstant FileCategory = "constant"
	CategoryType     FileCategory = "type"
)

// Weight returns the fixed coverage weight for the category.
func (c FileCategory) Weight() float64 {
	switch c {
	case CategoryCore:
		return 1.0
	case CategoryUtility:
		return 0.5
	case CategoryConstant:
		return 0.25
	case CategoryType:
		return 0.0
	default:
		return 0.5
	}
}

// CategoryResult is the categorizer's verdict for one file.
type CategoryResult struct {
	Category FileCategory `json:"category"`
	Weight   float64      `json:"weight"`
	Reason   string       `json:"reason"`
}
