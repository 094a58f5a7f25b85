package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthdash-backend/internal/domain"
	"github.com/simaogato/wealthdash-backend/internal/usecase/aggregator"
	"github.com/simaogato/wealthdash-backend/internal/usecase/dashboard"
)

// renderReport prints a plain text net-worth report
func renderReport(out io.Writer, report *dashboard.Report) error {
	res := report.Result
	amount := func(v decimal.Decimal) string { return domain.FormatAmount(v, res.Currency) }

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "Net worth\t%s\t\n", amount(res.NetWorth))
	fmt.Fprintf(w, "  assets\t%s\t\n", amount(res.GrossAssets))
	fmt.Fprintf(w, "  collectibles\t%s\t\n", amount(res.GrossCollectibles))
	fmt.Fprintf(w, "  liabilities\t-%s\t\n", amount(res.GrossLiabilities))
	if res.IncludesReceivables {
		fmt.Fprintf(w, "  receivables\t%s\t\n", amount(res.GrossReceivables))
	} else {
		fmt.Fprintf(w, "  receivables (excluded)\t%s\t\n", amount(res.GrossReceivables))
	}
	fmt.Fprintf(w, "Confirmed net\t%s\t\n", amount(res.ConfirmedNet))
	fmt.Fprintf(w, "Projected net\t%s\t\n", amount(res.ProjectedNet))
	fmt.Fprintf(w, "Rates\t%s\t\n", report.Rates.Source)

	section(w, "Assets by type", res.Assets.ByType, amount)
	section(w, "Assets by country", res.Assets.ByCountry, amount)
	section(w, "Assets by currency", res.Assets.ByCurrency, amount)
	section(w, "Liabilities by type", res.Liabilities.ByType, amount)

	fmt.Fprintf(w, "\nEntities\t\t\n")
	for _, e := range res.Entities {
		name := e.Name
		if name == "" {
			name = e.Owner.String()
		}
		fmt.Fprintf(w, "  %s\t%s\t\n", name, amount(e.Net))
	}

	fmt.Fprintf(w, "\nCertainty\tassets\tliabilities\t\n")
	for _, tier := range domain.CertaintyTiers {
		fmt.Fprintf(w, "  %s\t%s%%\t%s%%\t\n", tier,
			res.CertaintyAssetPercent.Get(tier).StringFixed(1),
			res.CertaintyLiabilityPercent.Get(tier).StringFixed(1))
	}

	if len(res.Warnings) > 0 {
		fmt.Fprintf(w, "\nWarnings\t\t\n")
		for _, warn := range res.Warnings {
			fmt.Fprintf(w, "  %s\t%s\t%s\n", warn.Kind, warn.RecordID, warn.Detail)
		}
	}

	return w.Flush()
}

func section(w io.Writer, title string, buckets []aggregator.Bucket, amount func(decimal.Decimal) string) {
	if len(buckets) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\t\t\n", title)
	for _, b := range buckets {
		fmt.Fprintf(w, "  %s\t%s\t\n", b.Label, amount(b.Value))
	}
}
