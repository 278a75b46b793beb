// Command budget-summary prints the income/expense summary of one month.
package main

import (
	"context"
	"os"

	"github.com/alecthomas/kong"
)

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("budget-summary"),
		kong.Description("Print the monthly income, expense and per-category summary."),
		kong.UsageOnError(),
	)
	kctx.FatalIfErrorf(cli.run(context.Background(), os.Stdout))
}
