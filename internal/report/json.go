package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rshade/footprint/internal/cli/pagination"
	"github.com/rshade/footprint/internal/engine"
	"github.com/rshade/footprint/internal/greenops"
)

// ResultJSON is the JSON document for an estimate.
type ResultJSON struct {
	*engine.Result
	Equivalencies *greenops.Output `json:"equivalencies,omitempty"`
}

// PlanJSON is the JSON document for a plan.
type PlanJSON struct {
	Result     ResultJSON        `json:"result"`
	Scenarios  []engine.Scenario `json:"scenarios"`
	Pagination pagination.Meta   `json:"pagination"`
}

// RenderResultJSON writes r as one indented JSON document. Assignments are
// omitted unless ShowAssignments is set.
func RenderResultJSON(w io.Writer, r *engine.Result, opts Options) error {
	return EncodeJSON(w, resultJSON(r, opts))
}

// RenderPlanJSON writes the windowed plan as one indented JSON document.
func RenderPlanJSON(w io.Writer, view PlanView, opts Options) error {
	scenarios := view.Scenarios
	if scenarios == nil {
		scenarios = []engine.Scenario{}
	}
	return EncodeJSON(w, PlanJSON{
		Result:     resultJSON(view.Plan.Result, opts),
		Scenarios:  scenarios,
		Pagination: view.Meta,
	})
}

// RenderResultNDJSON writes one line per breakdown contribution.
func RenderResultNDJSON(w io.Writer, r *engine.Result) error {
	for _, c := range r.Breakdown {
		if err := writeLine(w, c); err != nil {
			return err
		}
	}
	return nil
}

// RenderPlanNDJSON writes one line per windowed scenario.
func RenderPlanNDJSON(w io.Writer, view PlanView) error {
	for _, s := range view.Scenarios {
		if err := writeLine(w, s); err != nil {
			return err
		}
	}
	return nil
}

func resultJSON(r *engine.Result, opts Options) ResultJSON {
	out := *r
	if !opts.ShowAssignments {
		out.Assignments = nil
	}
	return ResultJSON{Result: &out, Equivalencies: footprintEquivalencies(opts, r)}
}

// EncodeJSON writes v as one indented JSON document.
func EncodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func writeLine(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling line: %w", err)
	}
	if _, err = fmt.Fprintf(w, "%s\n", data); err != nil {
		return fmt.Errorf("writing NDJSON line: %w", err)
	}
	return nil
}
