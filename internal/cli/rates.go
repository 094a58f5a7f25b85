package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/google/subcommands"
)

type ratesCmd struct {
	out  io.Writer
	live bool
}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "print the exchange rate table" }
func (*ratesCmd) Usage() string {
	return `wealthctl rates [-live]

  Prints units of each currency per 1 EUR.
`
}

func (c *ratesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.live, "live", false, "Fetch live ECB rates instead of the fallback table")
}

func (c *ratesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	table := newRateSource(c.live, newLogger()).Current(ctx)

	rates := table.Rates()
	codes := make([]string, 0, len(rates))
	for code := range rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	fmt.Fprintf(c.out, "source: %s\n", table.Source)
	if !table.FetchedAt.IsZero() {
		fmt.Fprintf(c.out, "fetched: %s\n", table.FetchedAt.Format("2006-01-02 15:04 MST"))
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', tabwriter.AlignRight)
	for _, code := range codes {
		fmt.Fprintf(w, "%s\t%s\t\n", code, rates[code].String())
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
