package models

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var maxCents = decimal.NewFromInt(math.MaxInt64)

// FormatQuantity renders a coin quantity with four decimals, e.g. "0.5000".
func FormatQuantity(q decimal.Decimal) string {
	return q.StringFixed(4)
}

// FormatUSD renders an amount in dollars with cents, e.g. "$32,600.00".
// Amounts whose cents do not fit in an int64 are grouped by hand.
func FormatUSD(amount decimal.Decimal) string {
	cur := money.GetCurrency(money.USD)
	cents := amount.Shift(int32(cur.Fraction)).Round(0)
	if cents.Abs().GreaterThan(maxCents) {
		return formatLargeUSD(cents, cur)
	}
	return money.New(cents.IntPart(), money.USD).Display()
}

// formatLargeUSD applies the currency's template the way money.Formatter
// does, starting from the decimal digits instead of an int64.
func formatLargeUSD(cents decimal.Decimal, cur *money.Currency) string {
	sa := cents.Abs().String()
	if len(sa) <= cur.Fraction {
		sa = strings.Repeat("0", cur.Fraction-len(sa)+1) + sa
	}
	if cur.Thousand != "" {
		for i := len(sa) - cur.Fraction - 3; i > 0; i -= 3 {
			sa = sa[:i] + cur.Thousand + sa[i:]
		}
	}
	if cur.Fraction > 0 {
		sa = sa[:len(sa)-cur.Fraction] + cur.Decimal + sa[len(sa)-cur.Fraction:]
	}
	sa = strings.Replace(cur.Template, "1", sa, 1)
	sa = strings.Replace(sa, "$", cur.Grapheme, 1)
	if cents.IsNegative() {
		sa = "-" + sa
	}
	return sa
}
