package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindCandidatePrices(t *testing.T) {
	markup := `
		<div data-price="1,299.50"></div>
		<script>{"price": "450", "value": 999}</script>
		<span>Rs. 2,499</span>
		<span>Rs 80</span>
	`

	candidates := FindCandidatePrices(markup)

	assert.Contains(t, candidates, 1299.50)
	assert.Contains(t, candidates, 450.0)
	assert.Contains(t, candidates, 999.0)
	assert.Contains(t, candidates, 2499.0)
	assert.Contains(t, candidates, 80.0)
}

func TestFindCandidatePricesEmpty(t *testing.T) {
	assert.Empty(t, FindCandidatePrices("<html><body>no prices here</body></html>"))
	assert.Empty(t, FindCandidatePrices(""))
}

func TestSelectBestPrice(t *testing.T) {
	tests := []struct {
		name       string
		candidates []float64
		expected   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{250}, 250},
		{"two picks min", []float64{9999, 100}, 100},
		{"three picks median", []float64{500, 100, 9999}, 500},
		{"four picks upper middle", []float64{10, 20, 30, 40}, 30},
		{"five picks median", []float64{1, 2, 3, 4, 5}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SelectBestPrice(tt.candidates))
		})
	}
}

func TestSelectBestPriceDoesNotMutateInput(t *testing.T) {
	candidates := []float64{9999, 100, 500}
	SelectBestPrice(candidates)
	assert.Equal(t, []float64{9999, 100, 500}, candidates)
}
