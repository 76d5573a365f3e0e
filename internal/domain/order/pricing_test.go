package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeTotals_TwoLineOrder(t *testing.T) {
	// Two lines priced 1000 and 500, quantities 2 and 1, no discount, 10% tax.
	lines := []Line{
		{UnitPrice: d("1000"), Quantity: 2},
		{UnitPrice: d("500"), Quantity: 1},
	}

	got := ComputeTotals(lines, decimal.Zero, d("10"))

	assert.True(t, d("2500.00").Equal(got.Subtotal), "subtotal: %s", got.Subtotal)
	assert.True(t, d("250.00").Equal(got.Tax), "tax: %s", got.Tax)
	assert.True(t, d("2750.00").Equal(got.Total), "total: %s", got.Total)
	assert.True(t, d("10").Equal(got.VatRate))
}

func TestComputeTotals_DiscountReducesTaxable(t *testing.T) {
	lines := []Line{{UnitPrice: d("100"), Quantity: 1}}

	got := ComputeTotals(lines, d("20"), d("5"))

	// tax = (100 - 20) * 5% = 4.00, total = 80 + 4 = 84.00
	assert.True(t, d("4.00").Equal(got.Tax))
	assert.True(t, d("84.00").Equal(got.Total))
	assert.True(t, d("20.00").Equal(got.Discount))
}

func TestComputeTotals_RoundsHalfAwayFromZero(t *testing.T) {
	// 3 * 3.33 = 9.99; tax at 7.5% = 0.74925 -> 0.75
	lines := []Line{{UnitPrice: d("3.33"), Quantity: 3}}

	got := ComputeTotals(lines, decimal.Zero, d("7.5"))

	assert.True(t, d("0.75").Equal(got.Tax), "tax: %s", got.Tax)
	assert.True(t, d("10.74").Equal(got.Total), "total: %s", got.Total)
}

func TestComputeTotals_SumsBeforeRounding(t *testing.T) {
	// Per-line values carry sub-cent precision; rounding happens on the sum.
	lines := []Line{
		{UnitPrice: d("0.333"), Quantity: 1},
		{UnitPrice: d("0.333"), Quantity: 1},
	}

	got := ComputeTotals(lines, decimal.Zero, decimal.Zero)

	assert.True(t, d("0.67").Equal(got.Subtotal), "subtotal: %s", got.Subtotal)
}

func TestComputeTotals_ZeroRate(t *testing.T) {
	lines := []Line{{UnitPrice: d("1500"), Quantity: 2}}

	got := ComputeTotals(lines, decimal.Zero, decimal.Zero)

	assert.True(t, got.Tax.IsZero())
	assert.True(t, d("3000.00").Equal(got.Total))
}

func TestComputeTotals_Deterministic(t *testing.T) {
	lines := []Line{
		{UnitPrice: d("12.49"), Quantity: 3},
		{UnitPrice: d("7.01"), Quantity: 2},
	}

	a := ComputeTotals(lines, d("5"), d("12.5"))
	b := ComputeTotals(lines, d("5"), d("12.5"))

	assert.True(t, a.Subtotal.Equal(b.Subtotal))
	assert.True(t, a.Tax.Equal(b.Tax))
	assert.True(t, a.Total.Equal(b.Total))
}
