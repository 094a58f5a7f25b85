package converter

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthdash-backend/internal/domain"
)

// ToBase converts an amount expressed in currency to the base currency.
// Logic:
//   - currency == base: amount unchanged
//   - rate missing or not positive: amount unchanged (fail-open), ok = false
//   - otherwise: amount / rate
//
// No rounding is applied; rounding is a display concern.
func ToBase(amount decimal.Decimal, currency string, rates domain.RateTable) (decimal.Decimal, bool) {
	if domain.NormalizeCurrency(currency) == domain.BaseCurrency {
		return amount, true
	}

	rate, ok := rates.Rate(currency)
	if !ok || !rate.IsPositive() {
		return amount, false
	}

	return amount.Div(rate), true
}

// FromBase converts an amount expressed in the base currency to currency.
// Symmetric to ToBase: amount * rate, or amount unchanged when the rate is missing.
func FromBase(amount decimal.Decimal, currency string, rates domain.RateTable) (decimal.Decimal, bool) {
	if domain.NormalizeCurrency(currency) == domain.BaseCurrency {
		return amount, true
	}

	rate, ok := rates.Rate(currency)
	if !ok || !rate.IsPositive() {
		return amount, false
	}

	return amount.Mul(rate), true
}

// Convert converts between two arbitrary currencies through the base currency.
// ok is false if either leg had to fail open.
func Convert(amount decimal.Decimal, from, to string, rates domain.RateTable) (decimal.Decimal, bool) {
	base, okFrom := ToBase(amount, from, rates)
	out, okTo := FromBase(base, to, rates)
	return out, okFrom && okTo
}
