package main

import (
	"github.com/shopspring/decimal"

	"budget/internal/core"
)

const sampleMonth core.MonthKey = "2025-09"

func sampleTransactions() []core.Transaction {
	return []core.Transaction{
		{ID: "1", AccountID: "acc1", CategoryID: core.CategoryRef("cat1"), Amount: decimal.NewFromInt(2000), Date: "2025-09-15", Description: "Salary"},
		{ID: "2", AccountID: "acc1", CategoryID: core.CategoryRef("cat2"), Amount: decimal.NewFromInt(-500), Date: "2025-09-16", Description: "Rent"},
		{ID: "3", AccountID: "acc1", CategoryID: core.CategoryRef("cat3"), Amount: decimal.NewFromInt(-50), Date: "2025-09-17", Description: "Groceries"},
	}
}
