package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/rshade/footprint/internal/formula"
	"github.com/rshade/footprint/internal/questionnaire"
)

// MissingChoicePolicy decides what Resolve does with an answer whose choice
// key no longer exists on its question.
type MissingChoicePolicy string

const (
	// PolicyStrict fails resolution with ErrMissingChoice.
	PolicyStrict MissingChoicePolicy = "strict"
	// PolicyLenient skips the answer and logs a warning.
	PolicyLenient MissingChoicePolicy = "lenient"
)

// ParseMissingChoicePolicy parses a policy name; "" selects PolicyStrict.
func ParseMissingChoicePolicy(s string) (MissingChoicePolicy, error) {
	switch MissingChoicePolicy(s) {
	case "", PolicyStrict:
		return PolicyStrict, nil
	case PolicyLenient:
		return PolicyLenient, nil
	default:
		return "", fmt.Errorf("unknown missing-choice policy %q (want strict or lenient)", s)
	}
}

// Assignments is the resolved variable table: name to value. Values are the
// string form of a number, or a partially substituted expression when the
// bounded two-pass resolution could not finish.
type Assignments map[string]string

// Float evaluates the named assignment as a number.
func (a Assignments) Float(name string) (float64, bool) {
	v, ok := a[name]
	if !ok {
		return 0, false
	}
	f, err := formula.EvaluateNumber(v)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Contribution is one visible question's share of the footprint.
type Contribution struct {
	QuestionID string  `json:"question_id"`
	Formula    string  `json:"formula"`
	Value      float64 `json:"value"`
	// Err is set when the formula failed and contributed zero.
	Err error `json:"-"`
}

// MarshalJSON renders Err as a string.
func (c Contribution) MarshalJSON() ([]byte, error) {
	type alias Contribution
	out := struct {
		alias
		Error string `json:"error,omitempty"`
	}{alias: alias(c)}
	if c.Err != nil {
		out.Error = c.Err.Error()
	}
	return json.Marshal(out)
}

// Result is the output of one full recomputation for an answer set.
type Result struct {
	Assignments Assignments              `json:"assignments,omitempty"`
	Visible     []questionnaire.Question `json:"-"`
	VisibleIDs  []string                 `json:"visible_question_ids"`
	Footprint   float64                  `json:"footprint"`
	Unit        string                   `json:"unit"`
	Breakdown   []Contribution           `json:"breakdown"`
}

// Unanswered returns the ids of visible questions with no answer, in order.
func (r *Result) Unanswered(answers questionnaire.Answers) []string {
	var missing []string
	for _, q := range r.Visible {
		if _, ok := answers[q.ID]; !ok {
			missing = append(missing, q.ID)
		}
	}
	return missing
}

// Scenario is a single-choice substitution and its footprint effect.
type Scenario struct {
	QuestionID         string  `json:"question_id"`
	QuestionText       string  `json:"question_text,omitempty"`
	CurrentChoiceKey   string  `json:"current_choice_key"`
	CandidateChoiceKey string  `json:"candidate_choice_key"`
	CandidateText      string  `json:"candidate_text,omitempty"`
	CurrentFootprint   float64 `json:"current_footprint"`
	CandidateFootprint float64 `json:"candidate_footprint"`
}

// Delta is candidate minus current footprint; negative means a reduction.
func (s Scenario) Delta() float64 {
	return s.CandidateFootprint - s.CurrentFootprint
}

// DeltaPercent is Delta relative to the current footprint. It is undefined
// when the current footprint is zero.
func (s Scenario) DeltaPercent() Ratio {
	return NewRatio(s.Delta(), s.CurrentFootprint)
}

// MarshalJSON adds the derived delta fields.
func (s Scenario) MarshalJSON() ([]byte, error) {
	type alias Scenario
	return json.Marshal(struct {
		alias
		Delta        float64 `json:"delta"`
		DeltaPercent Ratio   `json:"delta_percent"`
	}{alias: alias(s), Delta: s.Delta(), DeltaPercent: s.DeltaPercent()})
}

// Ratio is a percentage that may be undefined. It never holds Inf or NaN.
type Ratio struct {
	Value   float64
	Defined bool
}

const percentMultiplier = 100

// NewRatio returns numerator/denominator*100, undefined for a zero
// denominator or any non-finite result.
func NewRatio(numerator, denominator float64) Ratio {
	if denominator == 0 {
		return Ratio{}
	}
	v := numerator / denominator * percentMultiplier
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return Ratio{}
	}
	return Ratio{Value: v, Defined: true}
}

// String formats the ratio as a one-decimal percentage or "n/a".
func (r Ratio) String() string {
	if !r.Defined {
		return "n/a"
	}
	return strconv.FormatFloat(r.Value, 'f', 1, 64) + "%"
}

// MarshalJSON renders an undefined ratio as null.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// Plan is a Result plus the ranked scenario list.
type Plan struct {
	Result    *Result    `json:"result"`
	Scenarios []Scenario `json:"scenarios"`
}
