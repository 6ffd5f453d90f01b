package greenops

import (
	"fmt"
	"math"
	"strings"
)

type factor struct {
	kind    EquivalencyType
	divisor float64
	label   string
	short   string
	// minKg hides the equivalency for smaller amounts.
	minKg float64
}

//nolint:gochecknoglobals // display order of equivalencies
var factors = []factor{
	{EquivalencyMilesDriven, EPAMilesDrivenFactor, "miles driven", "mi", 0},
	{EquivalencySmartphonesCharged, EPASmartphoneChargeFactor, "smartphones charged", "phones", 0},
	{EquivalencyHomeDays, EPAHomeDayFactor, "days of home electricity", "home-days", EPAHomeDayFactor},
	{EquivalencyTreeSeedlings, EPATreeSeedlingFactor, "tree seedlings grown for 10 years", "seedlings",
		TreeSeedlingThresholdKg},
}

// Calculate computes equivalencies for a footprint total.
//
// Amounts below MinEquivalencyThresholdKg give an empty Output with InputKg
// set and no error. Unknown units and negative totals return the
// normalization error with an empty Output.
func Calculate(amount Amount) (Output, error) {
	kg, err := NormalizeToKg(amount.Value, amount.Unit)
	if err != nil {
		return Output{IsEmpty: true}, err
	}
	if kg < MinEquivalencyThresholdKg {
		return Output{InputKg: kg, IsEmpty: true}, nil
	}

	results, err := equivalencies(kg)
	if err != nil {
		return Output{IsEmpty: true}, err
	}
	return Output{
		InputKg:     kg,
		Results:     results,
		DisplayText: "Equivalent to " + prose(results),
		CompactText: compact(results, ""),
	}, nil
}

// CalculateDelta computes equivalencies for the change a scenario makes.
// The sign of delta selects the wording: negative deltas are reductions.
func CalculateDelta(delta float64, unit string) (Output, error) {
	kg, err := NormalizeToKg(math.Abs(delta), unit)
	if err != nil {
		return Output{IsEmpty: true}, err
	}
	reduction := delta < 0
	if kg < MinEquivalencyThresholdKg {
		return Output{InputKg: kg, Reduction: reduction, IsEmpty: true}, nil
	}

	results, err := equivalencies(kg)
	if err != nil {
		return Output{IsEmpty: true}, err
	}
	verb := "Adds the equivalent of "
	sign := "+"
	if reduction {
		verb = "Saves the equivalent of "
		sign = "-"
	}
	return Output{
		InputKg:     kg,
		Reduction:   reduction,
		Results:     results,
		DisplayText: verb + prose(results),
		CompactText: compact(results, sign),
	}, nil
}

func equivalencies(kg float64) ([]Equivalency, error) {
	results := make([]Equivalency, 0, len(factors))
	for _, f := range factors {
		if kg < f.minKg {
			continue
		}
		v := kg / f.divisor
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, ErrCalculationOverflow
		}
		results = append(results, Equivalency{
			Type:           f.kind,
			Value:          v,
			FormattedValue: formatEquivalencyValue(v),
			Label:          f.label,
		})
	}
	return results, nil
}

// prose renders the first two results, which are always miles and phones.
func prose(results []Equivalency) string {
	return fmt.Sprintf("driving ~%s miles or charging ~%s smartphones",
		results[0].FormattedValue, results[1].FormattedValue)
}

func compact(results []Equivalency, sign string) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, sign+r.FormattedValue+" "+shortLabel(r.Type))
	}
	return "(≈ " + strings.Join(parts, ", ") + ")"
}

func shortLabel(t EquivalencyType) string {
	for _, f := range factors {
		if f.kind == t {
			return f.short
		}
	}
	return t.String()
}

// formatEquivalencyValue rounds to a whole number with separators, switching
// to abbreviated notation from a million up.
func formatEquivalencyValue(v float64) string {
	if v >= LargeNumberThreshold {
		return FormatLarge(v)
	}
	return FormatNumber(int64(math.Round(v)))
}
