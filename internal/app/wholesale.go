package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// Wholesale prints monthly average LMP (¢/kWh) per PJM zone.
func (a *App) Wholesale(ctx context.Context, opts WholesaleOptions) error {
	repo, closeRepo, err := a.openRepository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	svc := a.newService(repo)
	result, err := svc.Wholesale(ctx, opts.Zones)
	if err != nil {
		if a.reportUnavailable(err) {
			return nil
		}
		return err
	}

	if len(result.Series) == 0 {
		fmt.Fprintln(os.Stdout, "no data for this selection")
		return nil
	}

	fmt.Fprintf(os.Stdout, "PJM monthly average LMP - zones: %s\n", strings.Join(result.Zones, ", "))
	fmt.Fprintf(os.Stdout, "Overall: mean %s, median %s, min %s, max %s ¢/kWh over %d zone-months\n\n",
		formatDecimal(result.Summary.Mean, 2),
		formatDecimal(result.Summary.Median, 2),
		formatDecimal(result.Summary.Min, 2),
		formatDecimal(result.Summary.Max, 2),
		result.Summary.Records,
	)

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Month\tZone\tAvg LMP (¢/kWh)")
	for _, point := range result.Series {
		fmt.Fprintf(writer, "%s\t%s\t%s\n",
			point.Bucket.Format("2006-01"),
			point.EDC,
			formatDecimal(point.Value, 2),
		)
	}
	writer.Flush()
	return nil
}
