package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/rshade/footprint/internal/engine"
)

// Workbook sheet names.
const (
	SheetSummary   = "Summary"
	SheetBreakdown = "Breakdown"
	SheetScenarios = "Scenarios"
)

// BuildWorkbook lays out a plan as a three-sheet workbook: the total, the
// per-question breakdown and every ranked scenario. Numbers are written as
// numbers; an undefined delta percent is written as the text "n/a".
func BuildWorkbook(plan *engine.Plan) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		_ = f.Close()
		return nil, err
	}
	for _, name := range []string{SheetBreakdown, SheetScenarios} {
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	result := plan.Result
	summary := [][]any{
		{"Metric", "Value"},
		{"Footprint", result.Footprint},
		{"Unit", result.Unit},
		{"Visible questions", len(result.VisibleIDs)},
		{"Scenarios", len(plan.Scenarios)},
	}
	breakdown := [][]any{{"Question", "Formula", "Contribution", "Error"}}
	for _, c := range result.Breakdown {
		errText := ""
		if c.Err != nil {
			errText = c.Err.Error()
		}
		breakdown = append(breakdown, []any{c.QuestionID, c.Formula, c.Value, errText})
	}
	scenarios := [][]any{{
		"Rank", "Question", "Current choice", "Candidate choice", "Candidate text",
		"Current footprint", "Candidate footprint", "Delta", "Delta %",
	}}
	for i, s := range plan.Scenarios {
		var pct any = "n/a"
		if r := s.DeltaPercent(); r.Defined {
			pct = r.Value
		}
		scenarios = append(scenarios, []any{
			i + 1, s.QuestionID, s.CurrentChoiceKey, s.CandidateChoiceKey, s.CandidateText,
			s.CurrentFootprint, s.CandidateFootprint, s.Delta(), pct,
		})
	}

	for sheet, rows := range map[string][][]any{
		SheetSummary:   summary,
		SheetBreakdown: breakdown,
		SheetScenarios: scenarios,
	} {
		if err = writeRows(f, sheet, rows); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("writing sheet %s: %w", sheet, err)
		}
		if err = f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return f, nil
}

// WriteWorkbook builds the plan workbook and writes it to w.
func WriteWorkbook(w io.Writer, plan *engine.Plan) error {
	f, err := BuildWorkbook(plan)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err = f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// SaveWorkbook builds the plan workbook and saves it at path.
func SaveWorkbook(path string, plan *engine.Plan) error {
	f, err := BuildWorkbook(plan)
	if err != nil {
		return err
	}
	defer f.Close()

	if err = f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err = f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
