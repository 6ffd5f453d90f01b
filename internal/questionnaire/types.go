// Package questionnaire defines the read-only inputs of the footprint engine:
// questions with their choices and display conditions, the named constants
// formulas may reference, and the answer set a session accumulates.
//
// Definitions are loaded once from YAML, JSON, HCL or TOML files and never
// mutated afterwards.
package questionnaire

import (
	"sort"
)

// Operator is a display-condition comparison operator.
type Operator string

// Supported operators. The strict forms are accepted for compatibility with
// existing questionnaires and collapse to their loose counterparts.
const (
	OpEqual          Operator = "=="
	OpStrictEqual    Operator = "==="
	OpNotEqual       Operator = "!="
	OpStrictNotEqual Operator = "!=="
	OpLess           Operator = "<"
	OpLessEqual      Operator = "<="
	OpGreater        Operator = ">"
	OpGreaterEqual   Operator = ">="
)

// Normalize returns the operator as understood by the formula grammar:
// three-character equality/inequality tokens are shortened to two.
func (o Operator) Normalize() Operator {
	switch o {
	case OpStrictEqual:
		return OpEqual
	case OpStrictNotEqual:
		return OpNotEqual
	default:
		return o
	}
}

// IsValid reports whether o is one of the supported operators.
func (o Operator) IsValid() bool {
	switch o {
	case OpEqual, OpStrictEqual, OpNotEqual, OpStrictNotEqual,
		OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
		return true
	}
	return false
}

// Condition gates a question's visibility on a variable comparison.
type Condition struct {
	VariableName string   `yaml:"variable_name" json:"variable_name" toml:"variable_name"`
	Operator     Operator `yaml:"operator" json:"operator" toml:"operator"`
	// Value is compared against the variable; it may reference variables.
	Value string `yaml:"value" json:"value" toml:"value"`
}

// Expression renders the condition as a formula-grammar comparison.
func (c Condition) Expression() string {
	return c.VariableName + " " + string(c.Operator.Normalize()) + " " + c.Value
}

// Choice is one selectable answer of a question.
type Choice struct {
	// Key is unique within its question and is what answers store.
	Key  string `yaml:"key" json:"key" toml:"key"`
	Text string `yaml:"text" json:"text" toml:"text"`
	// Value is a number or an expression over constants and variables,
	// bound to the question's VariableName when selected.
	Value string `yaml:"value" json:"value" toml:"value"`
	// RelatedValue is bound to the question's RelatedVariableName.
	RelatedValue string `yaml:"related_value,omitempty" json:"related_value,omitempty" toml:"related_value,omitempty"`
}

// Question is a single questionnaire entry.
type Question struct {
	ID                  string      `yaml:"id" json:"id" toml:"id"`
	Text                string      `yaml:"text" json:"text" toml:"text"`
	VariableName        string      `yaml:"variable_name" json:"variable_name" toml:"variable_name"`
	RelatedVariableName string      `yaml:"related_variable_name,omitempty" json:"related_variable_name,omitempty" toml:"related_variable_name,omitempty"`
	Formula             string      `yaml:"formula" json:"formula" toml:"formula"`
	DisplayCondition    []Condition `yaml:"display_condition,omitempty" json:"display_condition,omitempty" toml:"display_condition,omitempty"`
	Choices             []Choice    `yaml:"choices" json:"choices" toml:"choices"`
	SortKey             string      `yaml:"sort_key" json:"sort_key" toml:"sort_key"`
	Disabled            bool        `yaml:"disabled,omitempty" json:"disabled,omitempty" toml:"disabled,omitempty"`
}

// Choice returns the choice with the given key.
func (q *Question) Choice(key string) (Choice, bool) {
	for _, c := range q.Choices {
		if c.Key == key {
			return c, true
		}
	}
	return Choice{}, false
}

// Questionnaire is the ordered, read-only question collection.
type Questionnaire struct {
	SchemaVersion string     `yaml:"schema_version" json:"schema_version" toml:"schema_version"`
	Unit          string     `yaml:"unit,omitempty" json:"unit,omitempty" toml:"unit,omitempty"`
	Questions     []Question `yaml:"questions" json:"questions" toml:"questions"`

	index map[string]int
}

// New builds a Questionnaire. Questions are stably ordered by sort key; that
// order is the declaration order every consumer iterates in.
func New(schemaVersion, unit string, questions []Question) *Questionnaire {
	q := &Questionnaire{
		SchemaVersion: schemaVersion,
		Unit:          unit,
		Questions:     append([]Question(nil), questions...),
	}
	q.normalize()
	return q
}

func (q *Questionnaire) normalize() {
	sort.SliceStable(q.Questions, func(i, j int) bool {
		return q.Questions[i].SortKey < q.Questions[j].SortKey
	})
	q.index = make(map[string]int, len(q.Questions))
	for i, question := range q.Questions {
		if _, dup := q.index[question.ID]; !dup {
			q.index[question.ID] = i
		}
	}
}

// Question returns the question with the given id.
func (q *Questionnaire) Question(id string) (*Question, bool) {
	if q.index == nil {
		for i := range q.Questions {
			if q.Questions[i].ID == id {
				return &q.Questions[i], true
			}
		}
		return nil, false
	}
	i, ok := q.index[id]
	if !ok {
		return nil, false
	}
	return &q.Questions[i], true
}

// VariableNames returns every declared variable and related variable name.
func (q *Questionnaire) VariableNames() []string {
	names := make([]string, 0, len(q.Questions))
	for _, question := range q.Questions {
		if question.VariableName != "" {
			names = append(names, question.VariableName)
		}
		if question.RelatedVariableName != "" {
			names = append(names, question.RelatedVariableName)
		}
	}
	return names
}

// Answers maps question id to the chosen choice key.
type Answers map[string]string

// Clone returns an independent copy of a.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// With returns a copy of a with questionID forced to choiceKey.
func (a Answers) With(questionID, choiceKey string) Answers {
	out := a.Clone()
	out[questionID] = choiceKey
	return out
}

// QuestionIDs returns the answered question ids in sorted order.
func (a Answers) QuestionIDs() []string {
	ids := make([]string, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ChosenKeys returns the set of choice keys selected across all answers.
func (a Answers) ChosenKeys() map[string]bool {
	keys := make(map[string]bool, len(a))
	for _, v := range a {
		keys[v] = true
	}
	return keys
}
