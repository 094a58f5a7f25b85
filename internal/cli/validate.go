package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/simaogato/wealthdash-backend/internal/adapter/repository/jsonfile"
	"github.com/simaogato/wealthdash-backend/internal/usecase/certainty"
)

type validateCmd struct {
	out  io.Writer
	file string
}

func (*validateCmd) Name() string     { return "validate" }
func (*validateCmd) Synopsis() string { return "check every record and entity of a portfolio file" }
func (*validateCmd) Usage() string {
	return `wealthctl validate -f <portfolio.json>

  Reports records and entities that break domain rules, such as ownership
  splits that do not sum to 100 or unknown type tags.
`
}

func (c *validateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "portfolio.json", "Path to the portfolio file")
}

func (c *validateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	portfolio, err := jsonfile.Open(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	problems := 0
	entities, _ := portfolio.Entities().List(ctx, portfolio.UserID)
	for _, e := range entities {
		if err := e.Validate(); err != nil {
			fmt.Fprintf(c.out, "entity %s (%s): %v\n", e.ID, e.Name, err)
			problems++
		}
	}

	for _, r := range portfolio.All() {
		if err := r.Validate(); err != nil {
			fmt.Fprintf(c.out, "%s %s (%s): %v\n", r.Kind, r.ID, r.Name, err)
			problems++
		}
		if !certainty.IsKnownType(r.Type) {
			fmt.Fprintf(c.out, "%s %s (%s): unknown type %q\n", r.Kind, r.ID, r.Name, r.Type)
			problems++
		}
	}

	if problems > 0 {
		fmt.Fprintf(c.out, "%d problem(s) found\n", problems)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(c.out, "%d record(s), %d entit(ies): ok\n", len(portfolio.All()), len(entities))
	return subcommands.ExitSuccess
}
