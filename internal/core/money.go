// Package core holds the transaction model and its value types.
//
// This file parses user-entered amounts into decimals.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts user input into a decimal amount.
//
// Both dot (12.34) and comma (12,34) separators are accepted, as are signs
// and thousands separators written as spaces. Empty, non-numeric and zero
// input is rejected with ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("458")    -> 458, nil
//	ParseAmount("12,5")   -> 12.5, nil
//	ParseAmount("-30")    -> -30, nil
//	ParseAmount("0.00")   -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, " ", "")
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsZero() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders an amount for display, dropping a zero fraction.
func FormatAmount(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return d.StringFixed(0)
	}
	return d.StringFixed(2)
}
