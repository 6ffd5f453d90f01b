// Package greenops translates footprint figures into everyday equivalencies
// ("driving ~5,365 miles") using EPA conversion factors, for totals and for
// the change a scenario would make.
package greenops

import "fmt"

// EquivalencyType is a category of equivalency.
type EquivalencyType int

const (
	// EquivalencyMilesDriven is miles driven in an average passenger vehicle.
	EquivalencyMilesDriven EquivalencyType = iota
	// EquivalencySmartphonesCharged is full smartphone charges.
	EquivalencySmartphonesCharged
	// EquivalencyTreeSeedlings is seedlings grown for ten years.
	EquivalencyTreeSeedlings
	// EquivalencyHomeDays is days of average home electricity use.
	EquivalencyHomeDays
)

// String returns the type name.
func (e EquivalencyType) String() string {
	switch e {
	case EquivalencyMilesDriven:
		return "MilesDriven"
	case EquivalencySmartphonesCharged:
		return "SmartphonesCharged"
	case EquivalencyTreeSeedlings:
		return "TreeSeedlings"
	case EquivalencyHomeDays:
		return "HomeDays"
	default:
		return fmt.Sprintf("EquivalencyType(%d)", e)
	}
}

// MarshalText renders the type by name in JSON output.
func (e EquivalencyType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// Amount is a quantity of emissions in the questionnaire's unit.
type Amount struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Equivalency is one calculated equivalency.
type Equivalency struct {
	Type           EquivalencyType `json:"type"`
	Value          float64         `json:"value"`
	FormattedValue string          `json:"formatted_value"`
	Label          string          `json:"label"`
}

// Output holds the equivalencies for one amount.
type Output struct {
	// InputKg is the amount normalized to kilograms. For a delta it is the
	// magnitude of the change.
	InputKg float64 `json:"input_kg"`
	// Reduction is set for a delta that lowers the footprint.
	Reduction bool `json:"reduction,omitempty"`

	Results []Equivalency `json:"results"`

	// DisplayText is prose for the table report and the TUI, e.g.
	// "Equivalent to driving ~781 miles or charging ~18,248 smartphones".
	DisplayText string `json:"display_text"`
	// CompactText fits a table cell, e.g. "(≈ 781 mi, 18,248 phones)".
	CompactText string `json:"compact_text"`

	IsEmpty bool `json:"is_empty"`
}
