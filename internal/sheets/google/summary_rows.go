package google

import (
	"slices"
	"time"

	"budget/internal/core"
)

// TotalLabel marks the totals row of an exported month.
const TotalLabel = "TOTAL"

// summaryRows lays out a summary as sheet rows: the totals row first, then
// one row per category in id order.
func summaryRows(s core.MonthlySummary, exportedAt time.Time) [][]any {
	rows := make([][]any, 0, len(s.ByCategory)+1)
	rows = append(rows, []any{
		string(s.Month),
		TotalLabel,
		core.FormatAmount(s.Income),
		core.FormatAmount(s.Expenses),
		core.FormatAmount(s.Net),
		exportedAt.UTC().Format(time.RFC3339),
	})

	cats := make([]core.CategoryID, 0, len(s.ByCategory))
	for id := range s.ByCategory {
		cats = append(cats, id)
	}
	slices.Sort(cats)
	for _, id := range cats {
		rows = append(rows, []any{string(s.Month), id, core.FormatAmount(s.ByCategory[id])})
	}
	return rows
}
