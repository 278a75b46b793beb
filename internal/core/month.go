package core

import (
	"fmt"
	"time"
)

const (
	monthKeyLen    = 7
	monthKeyLayout = "2006-01"

	// MaxMonthRange bounds MonthRange so a single query cannot fan out unbounded.
	MaxMonthRange = 36
)

// MonthKey identifies a calendar year and month, e.g. "2025-09".
type MonthKey string

// MonthKeyOf returns the leading "YYYY-MM" of a date string.
//
// The extraction is lexical: "2025-13-99" yields "2025-13" without error.
// It takes the first seven Unicode code points, not bytes or UTF-16 units, so
// a character outside the BMP counts once. ASCII dates are unaffected.
// Strings shorter than seven characters are returned unchanged.
func MonthKeyOf(date string) MonthKey {
	n := 0
	for i := range date {
		if n == monthKeyLen {
			return MonthKey(date[:i])
		}
		n++
	}
	return MonthKey(date)
}

// ParseMonthKey validates s as a calendar month in "YYYY-MM" form.
func ParseMonthKey(s string) (MonthKey, error) {
	if _, err := time.Parse(monthKeyLayout, s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return MonthKey(s), nil
}

// MonthKeyFromTime returns the month key of t in t's location.
func MonthKeyFromTime(t time.Time) MonthKey {
	return MonthKey(t.Format(monthKeyLayout))
}

func (m MonthKey) String() string {
	return string(m)
}

// Valid reports whether m is a calendar-valid month key.
func (m MonthKey) Valid() bool {
	_, err := ParseMonthKey(string(m))
	return err == nil
}

// Next returns the following month. Invalid keys are returned unchanged.
func (m MonthKey) Next() MonthKey {
	return m.add(1)
}

// Prev returns the preceding month. Invalid keys are returned unchanged.
func (m MonthKey) Prev() MonthKey {
	return m.add(-1)
}

func (m MonthKey) add(months int) MonthKey {
	t, err := time.Parse(monthKeyLayout, string(m))
	if err != nil {
		return m
	}
	return MonthKeyFromTime(t.AddDate(0, months, 0))
}

// MonthRange returns every month from `from` to `to`, both included.
func MonthRange(from, to MonthKey) ([]MonthKey, error) {
	if !from.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMonth, from)
	}
	if !to.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMonth, to)
	}
	if to < from {
		return nil, fmt.Errorf("%w: range end %s before start %s", ErrInvalidMonth, to, from)
	}
	var out []MonthKey
	for m := from; m <= to; m = m.Next() {
		if len(out) == MaxMonthRange {
			return nil, fmt.Errorf("%w: range exceeds %d months", ErrInvalidMonth, MaxMonthRange)
		}
		out = append(out, m)
	}
	return out, nil
}
