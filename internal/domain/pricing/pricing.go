// internal/domain/pricing/pricing.go
package pricing

import "math"

// Line is the minimal shape totals are computed from. Amounts are per-unit
// prices in cents; both the HT (pre-tax) and TTC (tax-included) unit prices
// are carried as stored at the time the line was added.
type Line struct {
	UnitPriceHT  int64
	UnitPriceTTC int64
	Quantity     int
}

// Totals represents calculated cart totals
type Totals struct {
	ItemCount     int   `json:"item_count"`     // Number of unique lines
	TotalQuantity int   `json:"total_quantity"` // Sum of all quantities
	SubtotalHT    int64 `json:"subtotal_ht"`    // Total before VAT
	VATAmount     int64 `json:"vat_amount"`
	TotalTTC      int64 `json:"total_ttc"` // Final total
}

// Calculate derives totals from a list of lines. The HT and TTC totals are
// each summed from the stored per-unit prices; VAT is their difference rather
// than a per-line recomputation, so rounding never drifts across lines.
// An empty list yields all-zero totals.
func Calculate(lines []Line) Totals {
	var totals Totals

	totals.ItemCount = len(lines)

	for _, line := range lines {
		totals.TotalQuantity += line.Quantity
		totals.SubtotalHT += line.UnitPriceHT * int64(line.Quantity)
		totals.TotalTTC += line.UnitPriceTTC * int64(line.Quantity)
	}

	totals.VATAmount = totals.TotalTTC - totals.SubtotalHT

	return totals
}

// TTCFromHT derives the tax-included unit price from an HT price and a VAT
// rate (e.g. 0.20), rounded to the nearest cent.
func TTCFromHT(priceHT int64, vatRate float64) int64 {
	return int64(math.Round(float64(priceHT) * (1 + vatRate)))
}
