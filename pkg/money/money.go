package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TaxRate is the venue-wide consumption tax applied to every order (15%).
var TaxRate = decimal.New(15, -2)

// Totals holds the derived amounts for a cart or sale.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// LineSubtotal returns unit price times quantity.
func LineSubtotal(unitPrice decimal.Decimal, qty int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(qty)))
}

// ComputeTotals derives tax and total from a subtotal and discount.
// Tax is rounded to two decimal places; exact subtotals stay exact.
func ComputeTotals(subtotal, discount decimal.Decimal) Totals {
	tax := subtotal.Mul(TaxRate).Round(2)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: discount,
		Total:    subtotal.Add(tax).Sub(discount),
	}
}

// FormatCOP renders an amount the way the venue prints Colombian pesos:
// dollar sign, dot thousand separators, no decimal places.
func FormatCOP(amount decimal.Decimal) string {
	whole := amount.Round(0).IntPart()
	negative := whole < 0
	if negative {
		whole = -whole
	}

	digits := decimal.NewFromInt(whole).String()
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := "$" + strings.Join(groups, ".")
	if negative {
		out = "-" + out
	}
	return out
}
