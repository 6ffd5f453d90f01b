package questionnaire

import (
	"sort"

	"github.com/rshade/footprint/internal/formula"
)

// Constants is the immutable constant store: name to numeric value.
type Constants struct {
	values map[string]float64
	names  []string
}

// NewConstants copies values into an immutable Constants.
func NewConstants(values map[string]float64) Constants {
	c := Constants{values: make(map[string]float64, len(values))}
	for k, v := range values {
		c.values[k] = v
		c.names = append(c.names, k)
	}
	sort.Strings(c.names)
	return c
}

// Get returns the value of the named constant.
func (c Constants) Get(name string) (float64, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Names returns the constant names in sorted order.
func (c Constants) Names() []string {
	return append([]string(nil), c.names...)
}

// Len returns the number of constants.
func (c Constants) Len() int { return len(c.values) }

// Table returns a fresh string-valued lookup table suitable for substitution.
func (c Constants) Table() map[string]string {
	table := make(map[string]string, len(c.values))
	for k, v := range c.values {
		table[k] = formula.FormatNumber(v)
	}
	return table
}
