package formula

import (
	"strconv"
)

// Kind discriminates the two result types of the grammar.
type Kind int

const (
	// KindNumber is a float64 result of arithmetic.
	KindNumber Kind = iota
	// KindBool is the result of a comparison.
	KindBool
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	if k == KindBool {
		return "bool"
	}
	return "number"
}

// Value is the result of evaluating an expression: a number or a boolean.
type Value struct {
	kind Kind
	num  float64
	b    bool
}

// Number wraps f as a Value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool wraps b as a Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind reports whether v is a number or a boolean.
func (v Value) Kind() Kind { return v.kind }

// Float returns the numeric value and whether v is a number.
func (v Value) Float() (float64, bool) { return v.num, v.kind == KindNumber }

// Truth returns the boolean value and whether v is a boolean.
func (v Value) Truth() (bool, bool) { return v.b, v.kind == KindBool }

func (v Value) String() string {
	if v.kind == KindBool {
		return strconv.FormatBool(v.b)
	}
	return FormatNumber(v.num)
}

// FormatNumber renders f the way substituted values are written back into
// expressions: shortest round-tripping decimal, never exponent notation.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
