package greenops

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer formats integers with English thousand separators.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// FormatNumber formats an integer with thousand separators: 18248 -> "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatFloat formats f with precision decimals and thousand separators:
// FormatFloat(1234.567, 2) -> "1,234.57". Negative values keep their sign.
func FormatFloat(f float64, precision int) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	if precision < 0 {
		precision = 0
	}
	multiplier := math.Pow(10, float64(precision))
	rounded := math.Round(math.Abs(f)*multiplier) / multiplier
	formatted := strconv.FormatFloat(rounded, 'f', precision, 64)
	intPart, frac, hasFrac := strings.Cut(formatted, ".")

	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		// Beyond int64: no separators.
		return strconv.FormatFloat(f, 'f', precision, 64)
	}
	out := FormatNumber(n)
	if hasFrac {
		out += "." + frac
	}
	if f < 0 && strings.Trim(formatted, "0.") != "" {
		out = "-" + out
	}
	return out
}

// FormatSigned is FormatFloat with an explicit "+" on positive values, for
// deltas.
func FormatSigned(f float64, precision int) string {
	s := FormatFloat(f, precision)
	if f > 0 && strings.Trim(s, "0.,") != "" {
		return "+" + s
	}
	return s
}

// FormatLarge abbreviates values from a million up ("~1.5 billion") and
// formats smaller values as separated integers.
func FormatLarge(n float64) string {
	if n >= BillionThreshold {
		return fmt.Sprintf("~%.1f billion", n/BillionThreshold)
	}
	if n >= LargeNumberThreshold {
		return fmt.Sprintf("~%.1f million", n/LargeNumberThreshold)
	}
	return FormatNumber(int64(math.Round(n)))
}
