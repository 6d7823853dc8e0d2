// Package checkout holds the pricing rules shared by the cart view and order
// placement.
package checkout

import "github.com/shopspring/decimal"

var (
	// FreeShippingThreshold is the subtotal that must be exceeded for free shipping.
	FreeShippingThreshold = decimal.NewFromInt(50)
	// FlatShipping is charged when the subtotal does not clear the threshold.
	FlatShipping = decimal.RequireFromString("9.99")
	// TaxRate is the flat sales tax applied to the subtotal.
	TaxRate = decimal.RequireFromString("0.08")
)

// Totals is the derived money breakdown for a subtotal.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeTotals derives shipping, tax, and total. A subtotal of exactly 50
// still pays shipping.
func ComputeTotals(subtotal decimal.Decimal) Totals {
	shipping := FlatShipping
	if subtotal.GreaterThan(FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(TaxRate).Round(2)
	return Totals{
		Subtotal: subtotal.Round(2),
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax).Round(2),
	}
}

// FreeShippingRemaining is how much more the shopper must spend before
// shipping is waived, or zero once it already is.
func (t Totals) FreeShippingRemaining() decimal.Decimal {
	if !t.Shipping.IsPositive() || t.Subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero
	}
	return FreeShippingThreshold.Sub(t.Subtotal)
}
