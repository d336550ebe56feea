package extractor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{"plain number", "1299", 1299},
		{"decimal", "1299.50", 1299.50},
		{"currency symbol", "$49.99", 49.99},
		{"rupee prefix", "Rs. 2,499", 2499},
		{"grouping commas", "1,234,567.89", 1234567.89},
		{"surrounding text", "Price: 89.99 only!", 89.99},
		{"multiple dots keep first", "1.234.56", 1.23456},
		{"three dots", "1.2.3.4", 1.234},
		{"empty string", "", 0},
		{"no digits", "out of stock", 0},
		{"only symbols", "$$$", 0},
		{"lone dot", ".", 0},
		{"unicode currency", "₹1,999", 1999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, NormalizePrice(tt.input), 1e-9)
		})
	}
}

func TestNormalizePriceNeverNegative(t *testing.T) {
	// The minus sign is stripped, so "-5" parses as 5. What matters is that
	// no input produces a negative result.
	for _, input := range []string{"-5", "--", "-0.5", "abc-1.5def"} {
		assert.GreaterOrEqual(t, NormalizePrice(input), 0.0, "input %q", input)
	}
}

func TestNormalizeValue(t *testing.T) {
	assert.Equal(t, 0.0, NormalizeValue(nil))
	assert.Equal(t, 42.5, NormalizeValue(42.5))
	assert.Equal(t, 0.0, NormalizeValue(-3.0))
	assert.Equal(t, 0.0, NormalizeValue(math.NaN()))
	assert.Equal(t, 0.0, NormalizeValue(math.Inf(1)))
	assert.Equal(t, 1299.0, NormalizeValue("Rs. 1,299"))
	assert.Equal(t, 15.0, NormalizeValue(15), "non-float numbers go through the string path")
	assert.Equal(t, 0.0, NormalizeValue(true), "stringified booleans have no digits")
}
