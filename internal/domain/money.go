package domain

import (
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// BaseCurrency is the reference currency every internal total is normalized to
const BaseCurrency = "EUR"

// RateSource tells where a rate table came from
type RateSource string

const (
	RateSourceProvider RateSource = "PROVIDER"
	RateSourceFallback RateSource = "FALLBACK"
)

// RateTable maps a currency code to the number of units of that currency
// worth 1 unit of the base currency (e.g. USD: 1.08 means 1 EUR = 1.08 USD).
// A RateTable is never mutated after construction, only replaced.
type RateTable struct {
	Base      string
	Source    RateSource
	FetchedAt time.Time
	rates     map[string]decimal.Decimal
}

// NewRateTable builds a rate table from a copy of the given rates.
// The base currency is always forced to exactly 1.
func NewRateTable(rates map[string]decimal.Decimal, source RateSource, fetchedAt time.Time) RateTable {
	copied := make(map[string]decimal.Decimal, len(rates)+1)
	for code, rate := range rates {
		copied[NormalizeCurrency(code)] = rate
	}
	copied[BaseCurrency] = decimal.NewFromInt(1)

	return RateTable{
		Base:      BaseCurrency,
		Source:    source,
		FetchedAt: fetchedAt,
		rates:     copied,
	}
}

// Rate returns the rate for a currency and whether it is known
func (t RateTable) Rate(currency string) (decimal.Decimal, bool) {
	code := NormalizeCurrency(currency)
	if code == BaseCurrency {
		return decimal.NewFromInt(1), true
	}
	rate, ok := t.rates[code]
	return rate, ok
}

// Rates returns a copy of the underlying mapping
func (t RateTable) Rates() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(t.rates))
	for code, rate := range t.rates {
		out[code] = rate
	}
	return out
}

// Len returns the number of currencies in the table, base included
func (t RateTable) Len() int {
	return len(t.rates)
}

// FallbackRates returns the static table used when no provider is reachable
func FallbackRates() RateTable {
	return NewRateTable(map[string]decimal.Decimal{
		"USD": decimal.RequireFromString("1.08"),
		"GBP": decimal.RequireFromString("0.86"),
		"CHF": decimal.RequireFromString("0.95"),
		"JPY": decimal.RequireFromString("162.50"),
		"CAD": decimal.RequireFromString("1.47"),
	}, RateSourceFallback, time.Time{})
}

// NormalizeCurrency upper-cases and trims a currency code
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsKnownCurrency reports whether code is an ISO 4217 currency
func IsKnownCurrency(code string) bool {
	return money.GetCurrency(NormalizeCurrency(code)) != nil
}

// FormatAmount renders an amount with the currency's symbol and fraction digits
func FormatAmount(amount decimal.Decimal, currency string) string {
	code := NormalizeCurrency(currency)
	cur := money.GetCurrency(code)
	if cur == nil {
		return amount.StringFixed(2) + " " + code
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, code).Display()
}
