package order

import "github.com/shopspring/decimal"

// Line is one priced order line for totals computation.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Totals is the monetary snapshot stored on an order.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	VatRate  decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals aggregates lines into the order's monetary snapshot using the
// branch's tax rate as captured at admission time.
//
// Lines are summed unrounded; tax and total round to 2 decimal places
// (half away from zero, matching currency display); subtotal and discount are
// rounded independently for storage.
func ComputeTotals(lines []Line, discount, vatRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(vatRate).Div(decimal.NewFromInt(100)).Round(2)
	total := taxable.Add(tax).Round(2)

	return Totals{
		Subtotal: subtotal.Round(2),
		Discount: discount.Round(2),
		Tax:      tax,
		VatRate:  vatRate,
		Total:    total,
	}
}
