// Package cli implements the wealthctl subcommands.
package cli

import (
	"context"
	"flag"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/wealthdash-backend/internal/adapter/ecb"
	"github.com/simaogato/wealthdash-backend/internal/domain"
	"github.com/simaogato/wealthdash-backend/internal/usecase/rates"
)

var ratesURL = flag.String("rates-url", ecb.DefaultURL, "ECB reference rates feed used with -live")

// Register adds every wealthctl subcommand to c; reports are written to out
func Register(c *subcommands.Commander, out io.Writer) {
	c.Register(&networthCmd{out: out}, "reports")
	c.Register(&ratesCmd{out: out}, "reports")
	c.Register(&validateCmd{out: out}, "portfolio")
}

// newLogger returns a stderr logger quiet enough for interactive use
func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

// rateSource is the live ECB feed with fallback, or the fallback table alone
type rateSource struct {
	live *rates.RateService
}

func newRateSource(live bool, logger logrus.FieldLogger) rateSource {
	if !live {
		return rateSource{}
	}
	return rateSource{live: rates.NewRateService(ecb.NewClient(*ratesURL, logger), rates.DefaultTTL, logger)}
}

func (s rateSource) Current(ctx context.Context) domain.RateTable {
	if s.live == nil {
		return domain.FallbackRates()
	}
	return s.live.Current(ctx)
}
