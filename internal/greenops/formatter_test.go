package greenops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{n: 123, want: "123"},
		{n: 1234, want: "1,234"},
		{n: 18248, want: "18,248"},
		{n: 0, want: "0"},
		{n: -1234, want: "-1,234"},
		{n: 1234567890, want: "1,234,567,890"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumber(tt.n))
		})
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name      string
		f         float64
		precision int
		want      string
	}{
		{name: "round to integer", f: 18248.56, precision: 0, want: "18,249"},
		{name: "half rounds away from zero", f: 781.25, precision: 1, want: "781.3"},
		{name: "two decimals", f: 1234.567, precision: 2, want: "1,234.57"},
		{name: "negative", f: -1030.5, precision: 1, want: "-1,030.5"},
		{name: "negative rounds to zero", f: -0.001, precision: 2, want: "0.00"},
		{name: "negative precision", f: 12.6, precision: -1, want: "13"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFloat(tt.f, tt.precision))
		})
	}
}

func TestFormatSigned(t *testing.T) {
	assert.Equal(t, "+30.00", FormatSigned(30, 2))
	assert.Equal(t, "-1,000", FormatSigned(-1000, 0))
	assert.Equal(t, "0.00", FormatSigned(0, 2))
	assert.Equal(t, "0.0", FormatSigned(0.01, 1))
}

func TestFormatLarge(t *testing.T) {
	assert.Equal(t, "~1.5 billion", FormatLarge(1_500_000_000))
	assert.Equal(t, "~2.5 million", FormatLarge(2_500_000))
	assert.Equal(t, "999,999", FormatLarge(999_999.4))
}
