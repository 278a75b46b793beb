package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"budget/internal/core"
	"budget/internal/storage"
)

// CLI is the flag set of budget-summary.
type CLI struct {
	Month  string `help:"Month to summarize (YYYY-MM). Defaults to the current month, or to the sample month without a source." placeholder:"YYYY-MM"`
	File   string `help:"Read transactions from a JSON or YAML file. Amounts are summed exactly as written." type:"existingfile" xor:"source"`
	DB     string `name:"db" help:"Read transactions from a SQLite database." type:"existingfile" xor:"source"`
	Format string `help:"Output format." enum:"text,json" default:"text"`

	now func() time.Time
}

func (c *CLI) run(ctx context.Context, out io.Writer) error {
	month, err := c.month()
	if err != nil {
		return err
	}

	txs, err := c.load(ctx, month)
	if err != nil {
		return err
	}

	summary := core.ComputeMonthlySummary(txs, month)
	switch c.Format {
	case "json":
		return renderJSON(out, summary)
	default:
		return renderText(out, summary)
	}
}

func (c *CLI) month() (core.MonthKey, error) {
	if c.Month != "" {
		return core.ParseMonthKey(c.Month)
	}
	if c.File == "" && c.DB == "" {
		return sampleMonth, nil
	}
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	return core.MonthKeyFromTime(now()), nil
}

func (c *CLI) load(ctx context.Context, month core.MonthKey) ([]core.Transaction, error) {
	switch {
	case c.File != "":
		return loadFile(c.File)
	case c.DB != "":
		repo, err := storage.NewSQLiteRepository(c.DB)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", c.DB, err)
		}
		defer repo.Close()
		return repo.ListTransactions(ctx, month)
	default:
		return sampleTransactions(), nil
	}
}
