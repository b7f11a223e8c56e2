package order

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrder_TotalsFromFrozenLines(t *testing.T) {
	ord := Order{
		Items: []Item{
			{UnitPriceHT: 1000, UnitPriceTTC: 1200, Quantity: 5},
			{UnitPriceHT: 2500, UnitPriceTTC: 3000, Quantity: 2},
		},
	}

	totals := ord.Totals()

	assert.Equal(t, int64(10000), totals.SubtotalHT)
	assert.Equal(t, int64(12000), totals.TotalTTC)
	assert.Equal(t, totals.TotalTTC-totals.SubtotalHT, totals.VATAmount)
	assert.Equal(t, 2, totals.ItemCount)
	assert.Equal(t, 7, totals.TotalQuantity)
}

func TestOrder_TotalsEmptyOrder(t *testing.T) {
	ord := Order{}
	totals := ord.Totals()
	assert.Zero(t, totals.SubtotalHT)
	assert.Zero(t, totals.TotalTTC)
	assert.Zero(t, totals.VATAmount)
}

func TestOrder_GenerateOrderNumber(t *testing.T) {
	ord := Order{ID: 42}
	want := fmt.Sprintf("ORD-%s-00042", time.Now().Format("20060102"))
	assert.Equal(t, want, ord.GenerateOrderNumber())
}

func TestOrder_CanBeCancelled(t *testing.T) {
	assert.True(t, (&Order{Status: StatusPending}).CanBeCancelled())
	assert.True(t, (&Order{Status: StatusProcessing}).CanBeCancelled())
	assert.False(t, (&Order{Status: StatusShipped}).CanBeCancelled())
	assert.False(t, (&Order{Status: StatusDelivered}).CanBeCancelled())
	assert.False(t, (&Order{Status: StatusCancelled}).CanBeCancelled())
}
