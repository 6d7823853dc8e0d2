package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeTotals(t *testing.T) {
	cases := []struct {
		name                          string
		subtotal                      string
		shipping, tax, total, remains string
	}{
		{name: "empty", subtotal: "0", shipping: "9.99", tax: "0", total: "9.99", remains: "50"},
		{name: "below threshold", subtotal: "40", shipping: "9.99", tax: "3.2", total: "53.19", remains: "10"},
		{name: "exactly fifty pays shipping", subtotal: "50", shipping: "9.99", tax: "4", total: "63.99", remains: "0"},
		{name: "above threshold", subtotal: "50.01", shipping: "0", tax: "4", total: "54.01", remains: "0"},
		{name: "tax rounds half up", subtotal: "10.0625", shipping: "9.99", tax: "0.81", total: "20.86", remains: "39.94"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeTotals(dec(tc.subtotal))
			if !got.Shipping.Equal(dec(tc.shipping)) {
				t.Fatalf("shipping = %s, want %s", got.Shipping, tc.shipping)
			}
			if !got.Tax.Equal(dec(tc.tax)) {
				t.Fatalf("tax = %s, want %s", got.Tax, tc.tax)
			}
			if !got.Total.Equal(dec(tc.total)) {
				t.Fatalf("total = %s, want %s", got.Total, tc.total)
			}
			if remaining := got.FreeShippingRemaining(); !remaining.Equal(dec(tc.remains)) {
				t.Fatalf("remaining = %s, want %s", remaining, tc.remains)
			}
		})
	}
}

func TestComputeTotalsScenarioFromCart(t *testing.T) {
	// 2 x 19.99 + 1 x 5.00
	subtotal := dec("19.99").Mul(decimal.NewFromInt(2)).Add(dec("5.00"))
	got := ComputeTotals(subtotal)
	if !got.Subtotal.Equal(dec("44.98")) || !got.Tax.Equal(dec("3.60")) || !got.Total.Equal(dec("58.57")) {
		t.Fatalf("unexpected totals %+v", got)
	}
}
