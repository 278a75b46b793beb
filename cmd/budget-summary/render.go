package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"budget/internal/core"
)

var titleStyle = lipgloss.NewStyle().Bold(true)

func renderJSON(out io.Writer, s core.MonthlySummary) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

func renderText(out io.Writer, s core.MonthlySummary) error {
	totals := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Income", "Expenses", "Net").
		Row(core.FormatAmount(s.Income), core.FormatAmount(s.Expenses), core.FormatAmount(s.Net))

	if _, err := fmt.Fprintf(out, "%s\n%s\n", titleStyle.Render("Summary "+string(s.Month)), totals.String()); err != nil {
		return err
	}
	if len(s.ByCategory) == 0 {
		_, err := fmt.Fprintln(out, "No categorized transactions.")
		return err
	}

	ids := make([]core.CategoryID, 0, len(s.ByCategory))
	for id := range s.ByCategory {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	cats := table.New().Border(lipgloss.NormalBorder()).Headers("Category", "Total")
	for _, id := range ids {
		cats.Row(id, core.FormatAmount(s.ByCategory[id]))
	}
	_, err := fmt.Fprintln(out, cats.String())
	return err
}
