package pagination

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rshade/footprint/internal/engine"
)

// Scenario sort fields.
const (
	FieldFootprint = "footprint"
	FieldDelta     = "delta"
	FieldPercent   = "percent"
	FieldQuestion  = "question"
)

// ScenarioSorter reorders a ranked scenario list for display.
type ScenarioSorter struct {
	validFields map[string]bool
}

// NewScenarioSorter returns a sorter accepting footprint, delta, percent and
// question.
func NewScenarioSorter() *ScenarioSorter {
	return &ScenarioSorter{validFields: map[string]bool{
		FieldFootprint: true,
		FieldDelta:     true,
		FieldPercent:   true,
		FieldQuestion:  true,
	}}
}

// IsValidField reports whether field can be sorted on.
func (s *ScenarioSorter) IsValidField(field string) bool {
	return s.validFields[field]
}

// ValidFields returns the sortable fields in alphabetical order.
func (s *ScenarioSorter) ValidFields() []string {
	fields := make([]string, 0, len(s.validFields))
	for f := range s.validFields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// SortExpr parses expr and sorts a copy of scenarios. An empty expr returns
// the input unchanged.
func (s *ScenarioSorter) SortExpr(scenarios []engine.Scenario, expr string) ([]engine.Scenario, error) {
	if expr == "" {
		return scenarios, nil
	}
	field, order, err := ParseSort(expr)
	if err != nil {
		return nil, err
	}
	if !s.IsValidField(field) {
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrInvalidSortField, field, strings.Join(s.ValidFields(), ", "))
	}
	return s.Sort(scenarios, field, order), nil
}

// Sort returns a stably sorted copy of scenarios. Undefined percentages sort
// after defined ones in either direction.
func (s *ScenarioSorter) Sort(scenarios []engine.Scenario, field, order string) []engine.Scenario {
	sorted := make([]engine.Scenario, len(scenarios))
	copy(sorted, scenarios)
	desc := order == SortOrderDesc

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if field == FieldPercent {
			pa, pb := a.DeltaPercent(), b.DeltaPercent()
			if pa.Defined != pb.Defined {
				return pa.Defined
			}
			return less(pa.Value, pb.Value, desc)
		}
		switch field {
		case FieldFootprint:
			return less(a.CandidateFootprint, b.CandidateFootprint, desc)
		case FieldDelta:
			return less(a.Delta(), b.Delta(), desc)
		case FieldQuestion:
			if desc {
				return a.QuestionID > b.QuestionID
			}
			return a.QuestionID < b.QuestionID
		default:
			return false
		}
	})
	return sorted
}

func less(a, b float64, desc bool) bool {
	if desc {
		return a > b
	}
	return a < b
}
