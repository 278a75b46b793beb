package core

import (
	"maps"

	"github.com/shopspring/decimal"
)

// MonthlySummary is the income/expense breakdown of one calendar month.
//
// Expenses is a non-negative magnitude while ByCategory values keep the sign of
// the underlying amounts, so an expense category total is negative.
type MonthlySummary struct {
	Month      MonthKey                       `json:"month"`
	Income     decimal.Decimal                `json:"income"`
	Expenses   decimal.Decimal                `json:"expenses"`
	Net        decimal.Decimal                `json:"net"`
	ByCategory map[CategoryID]decimal.Decimal `json:"byCategory"`
}

// ComputeMonthlySummary aggregates the transactions dated in month.
//
// Transactions are matched by exact equality of MonthKeyOf(date) and month and
// are accumulated in input order. Uncategorized transactions count towards
// income and expenses but never create a ByCategory entry. The input is not
// modified and the returned map is freshly allocated on every call.
func ComputeMonthlySummary(transactions []Transaction, month MonthKey) MonthlySummary {
	income := decimal.Zero
	expenses := decimal.Zero
	byCategory := make(map[CategoryID]decimal.Decimal)

	for _, t := range transactions {
		if MonthKeyOf(t.Date) != month {
			continue
		}
		if t.Amount.Sign() >= 0 {
			income = income.Add(t.Amount)
		} else {
			expenses = expenses.Add(t.Amount.Abs())
		}
		if t.Categorized() {
			cat := *t.CategoryID
			if total, ok := byCategory[cat]; ok {
				byCategory[cat] = total.Add(t.Amount)
			} else {
				byCategory[cat] = t.Amount
			}
		}
	}

	return MonthlySummary{
		Month:      month,
		Income:     income,
		Expenses:   expenses,
		Net:        income.Sub(expenses),
		ByCategory: byCategory,
	}
}

// Clone returns a deep copy of the summary.
func (s MonthlySummary) Clone() MonthlySummary {
	s.ByCategory = maps.Clone(s.ByCategory)
	if s.ByCategory == nil {
		s.ByCategory = make(map[CategoryID]decimal.Decimal)
	}
	return s
}

// Equal reports whether two summaries hold the same figures.
// Amounts are compared numerically, so 1.50 equals 1.5.
func (s MonthlySummary) Equal(o MonthlySummary) bool {
	if s.Month != o.Month || !s.Income.Equal(o.Income) || !s.Expenses.Equal(o.Expenses) || !s.Net.Equal(o.Net) {
		return false
	}
	if len(s.ByCategory) != len(o.ByCategory) {
		return false
	}
	for k, v := range s.ByCategory {
		ov, ok := o.ByCategory[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
