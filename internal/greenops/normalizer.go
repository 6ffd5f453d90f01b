package greenops

import (
	"math"
	"strings"
)

// annualSuffixes are stripped before matching; footprints are per year.
var annualSuffixes = []string{"/yr", "/year", "/y", "peryear"} //nolint:gochecknoglobals // lookup table

// unitFactor returns the factor converting unit to kilograms. Matching ignores
// case, spaces, an optional "CO2e"/"CO2" qualifier and an annual suffix, so
// "kgCO2e", "kg CO2e/yr" and "KG" are all kilograms.
func unitFactor(unit string) (float64, bool) {
	u := strings.ToLower(strings.ReplaceAll(unit, " ", ""))
	for _, suffix := range annualSuffixes {
		u = strings.TrimSuffix(u, suffix)
	}
	u = strings.TrimSuffix(u, "co2e")
	u = strings.TrimSuffix(u, "co2")

	switch u {
	case "g":
		return GramsToKg, true
	case "kg":
		return KgToKg, true
	case "t", "tonne", "tonnes":
		return TonsToKg, true
	case "lb", "lbs":
		return PoundsToKg, true
	default:
		return 0, false
	}
}

// NormalizeToKg converts value in unit to kilograms. It returns
// ErrNegativeValue for negative input, ErrInvalidUnit for unknown units and
// ErrCalculationOverflow for non-finite input or results.
func NormalizeToKg(value float64, unit string) (float64, error) {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, ErrCalculationOverflow
	}
	if value < 0 {
		return 0, ErrNegativeValue
	}

	factor, ok := unitFactor(unit)
	if !ok {
		return 0, ErrInvalidUnit
	}

	result := value * factor
	if math.IsInf(result, 0) {
		return 0, ErrCalculationOverflow
	}
	return result, nil
}

// IsRecognizedUnit reports whether unit is a mass of CO2e NormalizeToKg
// understands.
func IsRecognizedUnit(unit string) bool {
	_, ok := unitFactor(unit)
	return ok
}
