package core

import (
	"errors"
	"testing"
	"time"
)

func TestMonthKeyOf(t *testing.T) {
	cases := []struct {
		in   string
		want MonthKey
	}{
		{"2025-09-17", "2025-09"},
		{"2025-09", "2025-09"},
		{"2025-13-99", "2025-13"},
		{"2025-09-17T10:00:00Z", "2025-09"},
		{"2025", "2025"},
		{"", ""},
		{"abcdefghij", "abcdefg"},
	}
	for _, tc := range cases {
		if got := MonthKeyOf(tc.in); got != tc.want {
			t.Fatalf("MonthKeyOf(%q)=%q want %q", tc.in, got, tc.want)
		}
	}
}

func TestMonthKeyOfCountsCharacters(t *testing.T) {
	if got := MonthKeyOf("2025-é9-01"); got != "2025-é9" {
		t.Fatalf("got %q", got)
	}
	if got := MonthKeyOf("2025-\U0001F4B09-01"); got != "2025-\U0001F4B09" {
		t.Fatalf("got %q", got)
	}
}

func TestParseMonthKey(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2025-09", true},
		{"1999-12", true},
		{"2025-13", false},
		{"2025-00", false},
		{"2025-9", false},
		{"2025-09-01", false},
		{"", false},
	}
	for _, tc := range cases {
		m, err := ParseMonthKey(tc.in)
		if tc.ok {
			if err != nil || string(m) != tc.in {
				t.Fatalf("%q expected ok, got %q %v", tc.in, m, err)
			}
		} else if !errors.Is(err, ErrInvalidMonth) {
			t.Fatalf("%q expected ErrInvalidMonth, got %v", tc.in, err)
		}
	}
}

func TestMonthKeyNextPrev(t *testing.T) {
	if got := MonthKey("2025-12").Next(); got != "2026-01" {
		t.Fatalf("next=%q", got)
	}
	if got := MonthKey("2025-01").Prev(); got != "2024-12" {
		t.Fatalf("prev=%q", got)
	}
	if got := MonthKey("bogus").Next(); got != "bogus" {
		t.Fatalf("invalid key should be unchanged, got %q", got)
	}
}

func TestMonthKeyFromTime(t *testing.T) {
	ts := time.Date(2025, time.September, 30, 23, 0, 0, 0, time.UTC)
	if got := MonthKeyFromTime(ts); got != "2025-09" {
		t.Fatalf("got %q", got)
	}
}

func TestMonthRange(t *testing.T) {
	got, err := MonthRange("2024-11", "2025-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []MonthKey{"2024-11", "2024-12", "2025-01", "2025-02"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}

	bad := [][2]MonthKey{
		{"2025-02", "2024-11"},
		{"2025-13", "2025-14"},
		{"2020-01", "2025-01"},
	}
	for _, b := range bad {
		if _, err := MonthRange(b[0], b[1]); !errors.Is(err, ErrInvalidMonth) {
			t.Fatalf("%v expected ErrInvalidMonth, got %v", b, err)
		}
	}
}
