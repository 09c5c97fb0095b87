package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/chm626/LehighEnergySymposium/internal/service"
)

// Fees prints fee statistics for one EDC from the itemised WattBuy feed.
func (a *App) Fees(ctx context.Context, opts FeesOptions) error {
	feeType, err := service.ParseFeeType(opts.FeeType)
	if err != nil {
		return err
	}

	repo, closeRepo, err := a.openRepository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	svc := a.newService(repo)
	result, err := svc.FeeAnalysis(ctx, opts.EDC, feeType)
	if err != nil {
		if a.reportUnavailable(err) {
			return nil
		}
		return err
	}

	if result.Overall.Records == 0 {
		fmt.Fprintln(os.Stdout, "no data for this selection: no fee-charging suppliers found")
		return nil
	}

	label := opts.EDC
	if label == "" {
		label = "all utilities"
	}
	fmt.Fprintf(os.Stdout, "%s summary for %s (USD)\n\n", feeType.Label(), label)

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Supplier\tAverage\tMedian\tMin\tMax\tRecords")
	fmt.Fprintf(writer, "(all)\t$%s\t$%s\t$%s\t$%s\t%d\n",
		formatDecimal(result.Overall.Mean, 2),
		formatDecimal(result.Overall.Median, 2),
		formatDecimal(result.Overall.Min, 2),
		formatDecimal(result.Overall.Max, 2),
		result.Overall.Records,
	)
	for _, supplier := range result.BySupplier {
		fmt.Fprintf(writer, "%s\t$%s\t$%s\t$%s\t$%s\t%d\n",
			supplier.EGS,
			formatDecimal(supplier.Mean, 2),
			formatDecimal(supplier.Median, 2),
			formatDecimal(supplier.Min, 2),
			formatDecimal(supplier.Max, 2),
			supplier.Records,
		)
	}
	writer.Flush()
	return nil
}
