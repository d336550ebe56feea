package extractor

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// sweepPatterns is the fixed, ordered pattern list for the last-resort price
// sweep: explicit price attributes, price/value pairs inside embedded JSON,
// and Rs-prefixed amounts. Each pattern captures a clean numeric group, so
// matches only need their grouping commas removed before parsing.
var sweepPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)data-price="([0-9,]+(?:\.[0-9]{1,2})?)"`),
	regexp.MustCompile(`(?i)price"?\s*:\s*"?([0-9,]+(?:\.[0-9]{1,2})?)"?`),
	regexp.MustCompile(`(?i)value"?\s*:\s*"?([0-9,]+(?:\.[0-9]{1,2})?)"?`),
	regexp.MustCompile(`(?i)Rs\.\s*([0-9,]+(?:\.[0-9]{1,2})?)`),
	regexp.MustCompile(`(?i)Rs\s*([0-9,]+(?:\.[0-9]{1,2})?)`),
}

// FindCandidatePrices scans raw markup for anything price-shaped and returns
// every candidate that parses as a finite number. An empty result is valid
// and means no fallback price is available. The sweep never fails.
func FindCandidatePrices(markup string) []float64 {
	var found []float64
	for _, re := range sweepPatterns {
		for _, match := range re.FindAllStringSubmatch(markup, -1) {
			clean := strings.ReplaceAll(match[1], ",", "")
			price, err := strconv.ParseFloat(clean, 64)
			if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
				continue
			}
			found = append(found, price)
		}
	}
	return found
}

// SelectBestPrice picks the best guess from a candidate list: the median
// when there are more than two candidates, otherwise the smallest. Prices
// embedded as structured noise (shipping, installments, crossed-out list
// prices) skew high, so median/min keeps outliers from winning. The exact
// rule, including the integer-truncated middle index, is a compatibility
// contract: tracked prices change if it changes.
func SelectBestPrice(candidates []float64) float64 {
	if len(candidates) == 0 {
		return 0.0
	}

	sorted := append([]float64(nil), candidates...)
	sort.Float64s(sorted)

	if len(sorted) > 2 {
		return sorted[len(sorted)/2]
	}
	return sorted[0]
}
