// Package report renders engine results and plans as tables, JSON, NDJSON
// and Excel workbooks.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/rshade/footprint/internal/cli/pagination"
	"github.com/rshade/footprint/internal/engine"
	"github.com/rshade/footprint/internal/greenops"
)

// Format is an output format name.
type Format string

// Supported output formats.
const (
	FormatTable  Format = "table"
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
)

// ParseFormat validates a format name; "" selects FormatTable.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatNDJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want table, json or ndjson)", s)
	}
}

// Options tune rendering.
type Options struct {
	Format    Format
	Precision int
	// ShowAssignments adds the resolved variable table.
	ShowAssignments bool
	// Equivalencies adds greenops equivalencies when the unit is a CO2e mass.
	Equivalencies bool
}

// PlanView is a plan with its scenario list already sorted and windowed.
type PlanView struct {
	Plan      *engine.Plan
	Scenarios []engine.Scenario
	Meta      pagination.Meta
}

// NewPlanView wraps plan with all scenarios and no window.
func NewPlanView(plan *engine.Plan) PlanView {
	return PlanView{
		Plan:      plan,
		Scenarios: plan.Scenarios,
		Meta:      pagination.NewMeta(pagination.Params{}, len(plan.Scenarios)),
	}
}

// footprintEquivalencies returns nil when equivalencies are off, the unit is
// not a CO2e mass, or the total is too small to translate.
// offerEquivalencies reports whether equivalencies are requested and the
// questionnaire unit is a CO2e mass they can be derived from.
func offerEquivalencies(opts Options, unit string) bool {
	return opts.Equivalencies && greenops.IsRecognizedUnit(unit)
}

func footprintEquivalencies(opts Options, r *engine.Result) *greenops.Output {
	if !offerEquivalencies(opts, r.Unit) {
		return nil
	}
	out, err := greenops.Calculate(greenops.Amount{Value: r.Footprint, Unit: r.Unit})
	if err != nil || out.IsEmpty {
		return nil
	}
	return &out
}

func deltaEquivalencies(opts Options, s engine.Scenario, unit string) *greenops.Output {
	if !offerEquivalencies(opts, unit) {
		return nil
	}
	out, err := greenops.CalculateDelta(s.Delta(), unit)
	if err != nil || out.IsEmpty {
		return nil
	}
	return &out
}

// RenderResult writes r in opts.Format.
func RenderResult(w io.Writer, r *engine.Result, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		return RenderResultJSON(w, r, opts)
	case FormatNDJSON:
		return RenderResultNDJSON(w, r)
	default:
		return RenderResultTable(w, r, opts)
	}
}

// RenderPlan writes view in opts.Format.
func RenderPlan(w io.Writer, view PlanView, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		return RenderPlanJSON(w, view, opts)
	case FormatNDJSON:
		return RenderPlanNDJSON(w, view)
	default:
		return RenderPlanTable(w, view, opts)
	}
}
