package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate_EmptyLines(t *testing.T) {
	totals := Calculate(nil)

	assert.Zero(t, totals.SubtotalHT)
	assert.Zero(t, totals.VATAmount)
	assert.Zero(t, totals.TotalTTC)
	assert.Zero(t, totals.ItemCount)
	assert.Zero(t, totals.TotalQuantity)

	totals = Calculate([]Line{})
	assert.Zero(t, totals.TotalTTC)
}

func TestCalculate_SingleLine(t *testing.T) {
	// 10.00 HT / 12.00 TTC per unit, quantity 5
	totals := Calculate([]Line{
		{UnitPriceHT: 1000, UnitPriceTTC: 1200, Quantity: 5},
	})

	assert.Equal(t, int64(5000), totals.SubtotalHT)
	assert.Equal(t, int64(6000), totals.TotalTTC)
	assert.Equal(t, int64(1000), totals.VATAmount)
	assert.Equal(t, 1, totals.ItemCount)
	assert.Equal(t, 5, totals.TotalQuantity)
}

func TestCalculate_VATIsDifferenceOfTotals(t *testing.T) {
	// Per-unit TTC prices carry their own rounding; the VAT amount must be
	// TTC total minus HT total, not a sum of per-line VAT recomputations.
	lines := []Line{
		{UnitPriceHT: 333, UnitPriceTTC: 400, Quantity: 3},
		{UnitPriceHT: 167, UnitPriceTTC: 200, Quantity: 7},
	}

	totals := Calculate(lines)

	assert.Equal(t, int64(333*3+167*7), totals.SubtotalHT)
	assert.Equal(t, int64(400*3+200*7), totals.TotalTTC)
	assert.Equal(t, totals.TotalTTC-totals.SubtotalHT, totals.VATAmount)
}

func TestTTCFromHT(t *testing.T) {
	assert.Equal(t, int64(1200), TTCFromHT(1000, 0.20))
	assert.Equal(t, int64(1100), TTCFromHT(1000, 0.10))
	assert.Equal(t, int64(1000), TTCFromHT(1000, 0))
	// 3.33 at 20% is 3.996, rounds to 4.00
	assert.Equal(t, int64(400), TTCFromHT(333, 0.20))
}
