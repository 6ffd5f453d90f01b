package questionnaire

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rshade/footprint/internal/formula"
)

// Severity grades a validation Issue.
type Severity string

// Issue severities. Warnings describe authoring constraints the engine
// tolerates at runtime; errors describe definitions it cannot use.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single validation finding.
type Issue struct {
	Severity   Severity `json:"severity"`
	QuestionID string   `json:"question_id,omitempty"`
	Message    string   `json:"message"`
}

func (i Issue) String() string {
	if i.QuestionID == "" {
		return fmt.Sprintf("%s: %s", i.Severity, i.Message)
	}
	return fmt.Sprintf("%s: question %q: %s", i.Severity, i.QuestionID, i.Message)
}

// Issues is a list of validation findings.
type Issues []Issue

// HasErrors reports whether any issue has SeverityError.
func (is Issues) HasErrors() bool {
	for _, i := range is {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Err returns ErrInvalidQuestionnaire wrapping the error-level messages, or nil.
func (is Issues) Err() error {
	var msgs []string
	for _, i := range is {
		if i.Severity == SeverityError {
			msgs = append(msgs, i.String())
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidQuestionnaire, strings.Join(msgs, "; "))
}

// Validate checks q against the authoring rules. Expressions are checked by
// binding every declared identifier to 1 and evaluating, so only syntax and
// undeclared references are reported, never data-dependent failures.
func Validate(q *Questionnaire, constants Constants) Issues {
	var issues Issues
	add := func(sev Severity, qid, format string, args ...interface{}) {
		issues = append(issues, Issue{Severity: sev, QuestionID: qid, Message: fmt.Sprintf(format, args...)})
	}

	probe := map[string]string{}
	for _, name := range constants.Names() {
		probe[name] = "1"
	}
	for _, name := range q.VariableNames() {
		probe[name] = "1"
	}

	seenIDs := map[string]bool{}
	boundBy := map[string]string{}

	bind := func(qid, name string) {
		if prev, ok := boundBy[name]; ok && prev != qid {
			add(SeverityWarning, qid, "variable %s is also bound by question %q; the later answer overwrites it", name, prev)
		}
		boundBy[name] = qid
		if _, ok := constants.Get(name); ok {
			add(SeverityWarning, qid, "variable %s shadows a constant of the same name", name)
		}
	}

	checkExpr := func(qid, what, expr string, wantBool bool) {
		if strings.TrimSpace(expr) == "" {
			add(SeverityError, qid, "%s is empty", what)
			return
		}
		v, err := formula.Evaluate(formula.Substitute(expr, probe))
		switch {
		case errors.Is(err, formula.ErrUnresolvedIdentifier):
			var unknown []string
			for _, name := range formula.Variables(expr) {
				if _, ok := probe[name]; !ok {
					unknown = append(unknown, name)
				}
			}
			if len(unknown) == 0 {
				add(SeverityWarning, qid, "%s %q references undeclared identifiers", what, expr)
				break
			}
			add(SeverityWarning, qid, "%s %q references undeclared identifiers: %s",
				what, expr, strings.Join(unknown, ", "))
		case errors.Is(err, formula.ErrNonFinite):
		case err != nil:
			add(SeverityError, qid, "%s %q: %v", what, expr, err)
		case wantBool && v.Kind() != formula.KindBool:
			add(SeverityError, qid, "%s %q does not compare values", what, expr)
		case !wantBool && v.Kind() != formula.KindNumber:
			add(SeverityError, qid, "%s %q yields a boolean, expected a number", what, expr)
		}
	}

	for _, question := range q.Questions {
		qid := question.ID
		if qid == "" {
			add(SeverityError, "", "question with empty id (variable %q)", question.VariableName)
		} else if seenIDs[qid] {
			add(SeverityError, qid, "duplicate question id")
		}
		seenIDs[qid] = true

		if !formula.IsVariableName(question.VariableName) {
			add(SeverityError, qid, "variable name %q must be upper-case letters, digits and underscores", question.VariableName)
		} else {
			bind(qid, question.VariableName)
		}
		if question.RelatedVariableName != "" {
			if !formula.IsVariableName(question.RelatedVariableName) {
				add(SeverityError, qid, "related variable name %q is not a valid identifier", question.RelatedVariableName)
			} else {
				bind(qid, question.RelatedVariableName)
			}
		}

		if question.Formula != "" {
			checkExpr(qid, "formula", question.Formula, false)
		}

		for _, cond := range question.DisplayCondition {
			if !cond.Operator.IsValid() {
				add(SeverityError, qid, "condition on %s uses unsupported operator %q", cond.VariableName, cond.Operator)
				continue
			}
			if _, ok := probe[cond.VariableName]; !ok {
				add(SeverityWarning, qid, "condition references undeclared variable %s", cond.VariableName)
				continue
			}
			checkExpr(qid, "condition", cond.Expression(), true)
		}

		if len(question.Choices) == 0 {
			add(SeverityWarning, qid, "question has no choices")
		}
		seenKeys := map[string]bool{}
		for _, choice := range question.Choices {
			if choice.Key == "" {
				add(SeverityError, qid, "choice with empty key")
			} else if seenKeys[choice.Key] {
				add(SeverityError, qid, "duplicate choice key %q", choice.Key)
			}
			seenKeys[choice.Key] = true
			checkExpr(qid, "choice "+choice.Key+" value", choice.Value, false)
			if choice.RelatedValue != "" && question.RelatedVariableName != "" {
				checkExpr(qid, "choice "+choice.Key+" related value", choice.RelatedValue, false)
			}
		}
	}
	return issues
}
