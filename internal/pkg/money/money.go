// internal/pkg/money/money.go
package money

import (
	"github.com/shopspring/decimal"
)

// Currency codes accepted by the shop. All monetary values are tracked in
// parallel for both currencies; CZK is the default.
const (
	CurrencyCZK = "CZK"
	CurrencyEUR = "EUR"

	DefaultCurrency = CurrencyCZK
)

const (
	// PriceScale is the display scale for persisted monetary values.
	PriceScale = 2
	// CalcScale is the scale used for intermediate arithmetic before a
	// result is rounded to PriceScale at a component boundary.
	CalcScale = 4
)

// Zero is the canonical zero amount.
var Zero = decimal.Zero

// IsSupportedCurrency reports whether code is one of the shop currencies.
func IsSupportedCurrency(code string) bool {
	return code == CurrencyCZK || code == CurrencyEUR
}

// RoundPrice rounds an amount to PriceScale, half-up.
func RoundPrice(d decimal.Decimal) decimal.Decimal {
	return d.Round(PriceScale)
}

// RoundCalc rounds an amount to CalcScale, half-up.
func RoundCalc(d decimal.Decimal) decimal.Decimal {
	return d.Round(CalcScale)
}

// FloorAtZero clamps negative amounts to exactly zero.
func FloorAtZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// TruncateToWholeUnits truncates an amount toward zero to whole currency
// units. Used for the persisted display total of an order.
func TruncateToWholeUnits(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(0)
}

// RoundDownToThousand rounds an amount down to the nearest thousand.
// Used when sizing deposits.
func RoundDownToThousand(d decimal.Decimal) decimal.Decimal {
	thousand := decimal.NewFromInt(1000)
	return d.Div(thousand).Floor().Mul(thousand)
}

// IsPositive reports whether the (possibly nil) amount is > 0.
func IsPositive(d *decimal.Decimal) bool {
	return d != nil && d.IsPositive()
}
