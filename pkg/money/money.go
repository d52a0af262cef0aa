package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const currencySymbol = "£"

// FormatGBP renders an amount the way the storefront displays it: "£30.00".
func FormatGBP(amount decimal.Decimal) string {
	return currencySymbol + amount.StringFixed(2)
}

// Fixed2 renders an amount with two decimals and no symbol.
func Fixed2(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// Parse reads an amount, tolerating a leading pound sign.
func Parse(value string) (decimal.Decimal, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(value), currencySymbol)
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", value, err)
	}
	return d, nil
}

// MustParse is Parse for static tables; it panics on bad input.
func MustParse(value string) decimal.Decimal {
	d, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return d
}
