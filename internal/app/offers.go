package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
)

// Offers prints the EGS-vs-PTC relative-rate analysis: monthly above/below
// shares, per-EDC counts, and the term-length breakdown.
func (a *App) Offers(ctx context.Context, opts OffersOptions) error {
	repo, closeRepo, err := a.openRepository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	svc := a.newService(repo)
	result, err := svc.RelativeOffers(ctx, opts.EDC, opts.Conform)
	if err != nil {
		if a.reportUnavailable(err) {
			return nil
		}
		return err
	}

	if len(result.Offers) == 0 {
		fmt.Fprintln(os.Stdout, "no data for this selection: no overlapping offers and PTC periods")
		return nil
	}

	label := result.EDC
	if result.Conformed {
		label += " (conformed)"
	}
	fmt.Fprintf(os.Stdout, "EGS offers vs PTC - %s (%d offers)\n\n", label, len(result.Offers))

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Month\tAbove PTC\tBelow PTC\tTotal\t% Above\t% Below")
	for _, share := range result.Monthly {
		fmt.Fprintf(writer, "%s\t%d\t%d\t%d\t%s%%\t%s%%\n",
			share.Bucket.Format("2006-01"),
			share.Above,
			share.Below,
			share.Total,
			formatDecimal(share.PctAbove, 2),
			formatDecimal(share.PctBelow, 2),
		)
	}
	writer.Flush()
	fmt.Fprintln(os.Stdout)

	writer = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Utility\tAbove PTC\tBelow PTC\tTotal\t% Above\t% Below")
	for _, share := range result.ByEDC {
		fmt.Fprintf(writer, "%s\t%d\t%d\t%d\t%s%%\t%s%%\n",
			share.EDC,
			share.Above,
			share.Below,
			share.Total,
			formatDecimal(share.PctAbove, 2),
			formatDecimal(share.PctBelow, 2),
		)
	}
	writer.Flush()
	fmt.Fprintln(os.Stdout)

	writer = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Term\tTotal\tAbove\tBelow\t% Above\tAvg Rel\tMedian Rel\tAvg EGS\tAvg PTC")
	for _, summary := range result.ByTerm {
		fmt.Fprintf(writer, "%s\t%d\t%d\t%d\t%s%%\t%s\t%s\t%s\t%s\n",
			summary.Category,
			summary.Total,
			summary.Above,
			summary.Below,
			formatDecimal(summary.PctAbove, 2),
			formatDecimal(summary.MeanRelative, 3),
			formatDecimal(summary.MedianRelative, 3),
			formatDecimal(summary.MeanOffer, 3),
			formatDecimal(summary.MeanBenchmark, 3),
		)
	}
	writer.Flush()
	return nil
}
