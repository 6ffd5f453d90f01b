package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/rshade/footprint/internal/engine"
	"github.com/rshade/footprint/internal/greenops"
)

const (
	tabwriterPadding = 2
	colWidthFormula  = 40
	truncateMinLen   = 3
)

// RenderResultTable writes the footprint total and per-question breakdown.
func RenderResultTable(w io.Writer, r *engine.Result, opts Options) error {
	if err := writeTotal(w, r, opts); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)
	fmt.Fprintf(tw, "QUESTION\tFORMULA\tCONTRIBUTION\tNOTE\n")
	fmt.Fprintf(tw, "--------\t-------\t------------\t----\n")
	for _, c := range r.Breakdown {
		note := ""
		if c.Err != nil {
			note = "formula error, counted as 0"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			c.QuestionID, truncate(c.Formula, colWidthFormula), greenops.FormatFloat(c.Value, opts.Precision), note)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing breakdown: %w", err)
	}

	if opts.ShowAssignments {
		return writeAssignments(w, r.Assignments, opts)
	}
	return nil
}

// RenderPlanTable writes the baseline followed by the ranked scenarios.
func RenderPlanTable(w io.Writer, view PlanView, opts Options) error {
	result := view.Plan.Result
	if err := writeTotal(w, result, opts); err != nil {
		return err
	}

	if view.Meta.TotalItems == 0 {
		_, err := fmt.Fprintln(w, "No alternative choices to explore.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)
	fmt.Fprintf(tw, "RANK\tQUESTION\tCURRENT\tCANDIDATE\tFOOTPRINT\tDELTA\tDELTA%%\n")
	fmt.Fprintf(tw, "----\t--------\t-------\t---------\t---------\t-----\t------\n")
	for i, s := range view.Scenarios {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			view.Meta.Offset+i+1,
			s.QuestionID,
			s.CurrentChoiceKey,
			s.CandidateChoiceKey,
			greenops.FormatFloat(s.CandidateFootprint, opts.Precision),
			greenops.FormatSigned(s.Delta(), opts.Precision),
			s.DeltaPercent().String(),
		)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing scenarios: %w", err)
	}

	if len(view.Scenarios) > 0 {
		if eq := deltaEquivalencies(opts, view.Scenarios[0], result.Unit); eq != nil {
			fmt.Fprintf(w, "\nTop option: %s\n", eq.DisplayText)
		}
	}
	if view.Meta.HasNext {
		fmt.Fprintf(w, "\nShowing %d of %d scenarios (use --offset %d for more)\n",
			view.Meta.Returned, view.Meta.TotalItems, view.Meta.Offset+view.Meta.Returned)
	}
	return nil
}

func writeTotal(w io.Writer, r *engine.Result, opts Options) error {
	unit := r.Unit
	if unit != "" {
		unit = " " + unit
	}
	if _, err := fmt.Fprintf(w, "FOOTPRINT: %s%s\n", greenops.FormatFloat(r.Footprint, opts.Precision), unit); err != nil {
		return fmt.Errorf("writing total: %w", err)
	}
	if eq := footprintEquivalencies(opts, r); eq != nil {
		fmt.Fprintln(w, eq.DisplayText)
	}
	_, err := fmt.Fprintln(w)
	return err
}

// writeAssignments lists each variable with its substituted value and, when
// that value evaluates, the resulting number.
func writeAssignments(w io.Writer, a engine.Assignments, opts Options) error {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)
	fmt.Fprintf(tw, "VARIABLE\tVALUE\tNUMBER\n")
	fmt.Fprintf(tw, "--------\t-----\t------\n")
	for _, name := range names {
		number := "-"
		if f, ok := a.Float(name); ok {
			number = greenops.FormatFloat(f, opts.Precision)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, truncate(a[name], colWidthFormula), number)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing assignments: %w", err)
	}
	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= truncateMinLen {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
