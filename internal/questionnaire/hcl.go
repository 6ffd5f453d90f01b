package questionnaire

import (
	"fmt"
	"math"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// hclQuestionnaire mirrors Questionnaire in HCL block form:
//
//	schema_version = "1.0.0"
//	question "car" {
//	  variable_name = "CAR_KM"
//	  formula       = "CAR_KM * CAR_FACTOR"
//	  condition { ... }
//	  choice "none" { value = "0" }
//	}
type hclQuestionnaire struct {
	SchemaVersion string        `hcl:"schema_version,optional"`
	Unit          string        `hcl:"unit,optional"`
	Questions     []hclQuestion `hcl:"question,block"`
}

type hclQuestion struct {
	ID                  string         `hcl:"id,label"`
	Text                string         `hcl:"text,optional"`
	VariableName        string         `hcl:"variable_name"`
	RelatedVariableName string         `hcl:"related_variable_name,optional"`
	Formula             string         `hcl:"formula,optional"`
	SortKey             string         `hcl:"sort_key,optional"`
	Disabled            bool           `hcl:"disabled,optional"`
	Conditions          []hclCondition `hcl:"condition,block"`
	Choices             []hclChoice    `hcl:"choice,block"`
}

type hclCondition struct {
	VariableName string `hcl:"variable_name"`
	Operator     string `hcl:"operator"`
	Value        string `hcl:"value"`
}

type hclChoice struct {
	Key          string `hcl:"key,label"`
	Text         string `hcl:"text,optional"`
	Value        string `hcl:"value"`
	RelatedValue string `hcl:"related_value,optional"`
}

func decodeHCLQuestionnaire(path string, data []byte) (*Questionnaire, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %s", path, diags.Error())
	}

	var raw hclQuestionnaire
	if diags = gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %s", path, diags.Error())
	}

	questions := make([]Question, 0, len(raw.Questions))
	for _, hq := range raw.Questions {
		q := Question{
			ID:                  hq.ID,
			Text:                hq.Text,
			VariableName:        hq.VariableName,
			RelatedVariableName: hq.RelatedVariableName,
			Formula:             hq.Formula,
			SortKey:             hq.SortKey,
			Disabled:            hq.Disabled,
		}
		for _, hc := range hq.Conditions {
			q.DisplayCondition = append(q.DisplayCondition, Condition{
				VariableName: hc.VariableName,
				Operator:     Operator(hc.Operator),
				Value:        hc.Value,
			})
		}
		for _, ch := range hq.Choices {
			q.Choices = append(q.Choices, Choice(ch))
		}
		questions = append(questions, q)
	}
	return New(raw.SchemaVersion, raw.Unit, questions), nil
}

// decodeHCLConstants reads a flat attribute file (NAME = number) where each
// value may be any constant HCL expression that folds to a number.
func decodeHCLConstants(path string, data []byte) (map[string]float64, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %s", path, diags.Error())
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL constants %s: %s", path, diags.Error())
	}

	values := make(map[string]float64, len(attrs))
	for name, attr := range attrs {
		val, valDiags := attr.Expr.Value(&hcl.EvalContext{})
		if valDiags.HasErrors() {
			return nil, fmt.Errorf("constant %s in %s: %s", name, path, valDiags.Error())
		}
		if val.IsNull() || !val.IsKnown() || val.Type() != cty.Number {
			return nil, fmt.Errorf("constant %s in %s: expected number, got %s", name, path, val.Type().FriendlyName())
		}
		var f float64
		if err := gocty.FromCtyValue(val, &f); err != nil {
			return nil, fmt.Errorf("constant %s in %s: %w", name, path, err)
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("constant %s in %s: value is not finite", name, path)
		}
		values[name] = f
	}
	return values, nil
}
