// Package core holds the budgeting domain: transactions, month keys and the
// monthly summary aggregation.
//
// This file contains amount parsing and formatting on top of shopspring/decimal.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AmountPlaces is the number of fractional digits amounts are rounded to.
const AmountPlaces = 2

// ParseAmount converts a signed decimal string to an amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and an optional
// leading sign. Extra fractional digits are rounded half away from zero.
//
// Examples:
//
//	ParseAmount("12.34")   -> 12.34
//	ParseAmount("-12,345") -> -12.35
//	ParseAmount("+7")      -> 7
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	body := strings.TrimPrefix(strings.TrimPrefix(s, "+"), "-")
	if body == "" || len(s)-len(body) > 1 {
		return decimal.Zero, ErrInvalidAmount
	}
	dots := 0
	digits := 0
	for _, r := range body {
		switch {
		case r == '.':
			dots++
		case r >= '0' && r <= '9':
			digits++
		default:
			return decimal.Zero, ErrInvalidAmount
		}
	}
	if dots > 1 || digits == 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.HasPrefix(body, ".") {
		s = strings.Replace(s, ".", "0.", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d.Round(AmountPlaces), nil
}

// FormatAmount renders an amount with exactly two fractional digits.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(AmountPlaces)
}
