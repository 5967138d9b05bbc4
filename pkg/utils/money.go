package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount for display, e.g. "NZD $12.34".
// Amounts are rounded to cents here only; calculations keep full precision.
func FormatMoney(currency string, amount decimal.Decimal) string {
	var b strings.Builder
	if amount.IsNegative() {
		b.WriteByte('-')
		amount = amount.Neg()
	}
	if currency != "" {
		b.WriteString(strings.ToUpper(currency))
		b.WriteByte(' ')
	}
	b.WriteByte('$')
	b.WriteString(amount.StringFixed(2))
	return b.String()
}
