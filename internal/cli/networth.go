package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/simaogato/wealthdash-backend/internal/adapter/coingecko"
	"github.com/simaogato/wealthdash-backend/internal/adapter/repository/jsonfile"
	"github.com/simaogato/wealthdash-backend/internal/usecase/aggregator"
	"github.com/simaogato/wealthdash-backend/internal/usecase/dashboard"
	"github.com/simaogato/wealthdash-backend/internal/usecase/quotes"
)

type networthCmd struct {
	out         io.Writer
	file        string
	receivables bool
	live        bool
	quotesURL   string
}

func (*networthCmd) Name() string     { return "networth" }
func (*networthCmd) Synopsis() string { return "compute the net worth of a portfolio file" }
func (*networthCmd) Usage() string {
	return `wealthctl networth -f <portfolio.json> [-receivables] [-live] [-quotes <url>]

  Aggregates every record of the portfolio into EUR and prints totals,
  breakdowns, per-entity nets and the certainty split.
`
}

func (c *networthCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "portfolio.json", "Path to the portfolio file")
	f.BoolVar(&c.receivables, "receivables", false, "Include receivables in the net worth")
	f.BoolVar(&c.live, "live", false, "Use live ECB rates instead of the fallback table")
	f.StringVar(&c.quotesURL, "quotes", "", "CoinGecko simple/price URL used to revalue crypto holdings")
}

func (c *networthCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	portfolio, err := jsonfile.Open(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	logger := newLogger()
	svc := dashboard.NewDashboardService(
		portfolio.Records(),
		portfolio.Entities(),
		newRateSource(c.live, logger),
		nil,
		nil,
		logger,
	)
	if c.quotesURL != "" {
		svc.Quotes = quotes.NewQuoteService(coingecko.NewClient(c.quotesURL, logger), logger)
	}

	report, err := svc.GetNetWorth(ctx, portfolio.UserID, aggregator.Options{IncludeReceivables: c.receivables})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := renderReport(c.out, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
