// Package moneydisplay converts stored base-currency amounts into a tenant's
// configured display currency for presentation. It is pure: no I/O, no effect
// on stored balances, and it is never consulted on any write path.
package moneydisplay

import (
	"github.com/shopspring/decimal"
)

// zeroDecimalCurrencies are the ISO 4217 codes whose canonical minor unit is
// the whole unit (no decimal places).
var zeroDecimalCurrencies = map[string]struct{}{
	"BIF": {}, "CLP": {}, "DJF": {}, "GNF": {}, "ISK": {}, "JPY": {},
	"KMF": {}, "KRW": {}, "PYG": {}, "RWF": {}, "UGX": {}, "VND": {},
	"VUV": {}, "XAF": {}, "XOF": {}, "XPF": {},
}

// DecimalPlaces returns the canonical number of decimal places for a
// currency code: 0 for JPY-like currencies, 2 otherwise.
func DecimalPlaces(currency string) int32 {
	if _, ok := zeroDecimalCurrencies[currency]; ok {
		return 0
	}
	return 2
}

// ToDisplay converts a base-currency amount into the display currency using
// the tenant's configured rate, rounding half-even to the currency's
// canonical decimal places.
func ToDisplay(baseAmount decimal.Decimal, fxRate decimal.Decimal, displayCurrency string) decimal.Decimal {
	return baseAmount.Mul(fxRate).RoundBank(DecimalPlaces(displayCurrency))
}

// Format renders a display amount as a fixed-point string with the
// currency's canonical number of decimal places.
func Format(amount decimal.Decimal, currency string) string {
	return amount.StringFixedBank(DecimalPlaces(currency))
}
