// Package core defines the record types of the vault and the arithmetic that
// derives values from them.
//
// Amounts are float64 currency units, the shape they are persisted in. Sums,
// products and ratios go through shopspring/decimal so that adding many small
// amounts does not drift; the final value is converted back to float64.
// Operands that decimal cannot hold (NaN and the infinities) switch the
// helpers to plain float64 arithmetic, so aggregates never panic.
package core

import (
	"math"
	"strconv"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no currency is configured.
const DefaultCurrency = money.USD

// maxMoneyAmount is the largest magnitude go-money can hold as int64 cents.
const maxMoneyAmount = math.MaxInt64 / 100

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Sum adds the values exactly before converting back to float64.
func Sum(values ...float64) float64 {
	if !finite(values...) {
		var total float64
		for _, v := range values {
			total += v
		}
		return total
	}
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.InexactFloat64()
}

// Mean is the arithmetic mean of values, 0 when there are none.
func Mean(values ...float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if !finite(values...) {
		return Sum(values...) / float64(len(values))
	}
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.Div(decimal.NewFromInt(int64(len(values)))).InexactFloat64()
}

// Mul multiplies a by b.
func Mul(a, b float64) float64 {
	if !finite(a, b) {
		return a * b
	}
	return decimal.NewFromFloat(a).Mul(decimal.NewFromFloat(b)).InexactFloat64()
}

// Sub returns a - b.
func Sub(a, b float64) float64 {
	if !finite(a, b) {
		return a - b
	}
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).InexactFloat64()
}

// Percent returns part / whole * 100, or 0 when whole is not positive.
func Percent(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	if !finite(part, whole) {
		return part / whole * 100
	}
	p := decimal.NewFromFloat(part).
		Div(decimal.NewFromFloat(whole)).
		Mul(decimal.NewFromInt(100))
	return p.InexactFloat64()
}

// FormatMoney renders amount in the given ISO currency, e.g. "$1,234.50".
// Unknown currency codes, and amounts too large for go-money, fall back to
// the amount followed by the code.
func FormatMoney(amount float64, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	if !finite(amount) {
		return strconv.FormatFloat(amount, 'f', -1, 64) + " " + currency
	}
	if money.GetCurrency(currency) == nil || math.Abs(amount) >= maxMoneyAmount {
		return decimal.NewFromFloat(amount).StringFixed(2) + " " + currency
	}
	return money.NewFromFloat(amount, currency).Display()
}
