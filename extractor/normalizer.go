package extractor

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var nonNumericRe = regexp.MustCompile(`[^0-9.]`)

// NormalizePrice converts a raw price string into a float64. Currency
// symbols, grouping commas and any other non-numeric characters are
// stripped. A string with multiple decimal points keeps the first one and
// treats the rest as noise, so "1.234.56" becomes 1.23456. Every failure
// path returns 0 instead of an error: callers cannot tell a zero price from
// an unparseable one, and treat 0 uniformly as "retry with fallback".
func NormalizePrice(raw string) float64 {
	if raw == "" {
		return 0.0
	}

	clean := nonNumericRe.ReplaceAllString(raw, "")
	if clean == "" {
		return 0.0
	}

	if strings.Count(clean, ".") > 1 {
		parts := strings.Split(clean, ".")
		clean = parts[0] + "." + strings.Join(parts[1:], "")
	}

	price, err := strconv.ParseFloat(clean, 64)
	if err != nil || price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0.0
	}
	return price
}

// NormalizeValue normalizes the loosely typed price values found in embedded
// JSON, where the same field may arrive as a number, a string, or null.
func NormalizeValue(v interface{}) float64 {
	switch val := v.(type) {
	case nil:
		return 0.0
	case float64:
		if val < 0 || math.IsNaN(val) || math.IsInf(val, 0) {
			return 0.0
		}
		return val
	case json.Number:
		return NormalizePrice(val.String())
	case string:
		return NormalizePrice(val)
	default:
		return NormalizePrice(fmt.Sprintf("%v", val))
	}
}
