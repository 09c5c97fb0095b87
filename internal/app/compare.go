package app

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chm626/LehighEnergySymposium/internal/market"
	"github.com/chm626/LehighEnergySymposium/internal/service"
)

// Compare prints aligned PTC / EGS / PJM monthly series for one EDC, or
// the all-EDC averages when no EDC is given.
func (a *App) Compare(ctx context.Context, opts CompareOptions) error {
	repo, closeRepo, err := a.openRepository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	svc := a.newService(repo)
	result, err := svc.Comparison(ctx, opts.EDC, opts.Conform)
	if err != nil {
		if a.reportUnavailable(err) {
			return nil
		}
		return err
	}

	if len(result.PTC) == 0 && len(result.EGS) == 0 && len(result.PJM) == 0 {
		fmt.Fprintln(os.Stdout, "no data for this selection")
		return nil
	}

	printSummaries(result)
	printAlignedSeries(result)

	if opts.CSVPath != "" || opts.PNGPath != "" {
		return a.writeComparison(result, opts.CSVPath, opts.PNGPath, a.Config.Export.MaxDataPoints)
	}
	return nil
}

func printSummaries(result service.ComparisonResult) {
	fmt.Fprintf(os.Stdout, "Price statistics for %s (¢/kWh)\n", result.EDC)

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Series\tMin\tMax\tMean\tMedian\tRecords")
	writeSummaryRow(writer, "PTC", result.PTCSummary)
	writeSummaryRow(writer, string(result.EGSLabel), result.EGSSummary)
	writeSummaryRow(writer, "PJM Average", result.PJMSummary)
	writer.Flush()
	fmt.Fprintln(os.Stdout)
}

func writeSummaryRow(writer *tabwriter.Writer, label string, summary market.Summary) {
	if summary.Records == 0 {
		fmt.Fprintf(writer, "%s\t-\t-\t-\t-\t0\n", label)
		return
	}
	fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%d\n",
		label,
		summary.Min.StringFixed(2),
		summary.Max.StringFixed(2),
		summary.Mean.StringFixed(2),
		summary.Median.StringFixed(2),
		summary.Records,
	)
}

func printAlignedSeries(result service.ComparisonResult) {
	type row struct {
		ptc *market.AggregatePoint
		egs *market.AggregatePoint
		pjm *market.AggregatePoint
	}
	rows := make(map[time.Time]*row)
	buckets := make([]time.Time, 0)
	assign := func(points []market.AggregatePoint, pick func(*row, *market.AggregatePoint)) {
		for i := range points {
			point := &points[i]
			r, ok := rows[point.Bucket]
			if !ok {
				r = &row{}
				rows[point.Bucket] = r
				buckets = append(buckets, point.Bucket)
			}
			pick(r, point)
		}
	}
	assign(result.PTC, func(r *row, p *market.AggregatePoint) { r.ptc = p })
	assign(result.EGS, func(r *row, p *market.AggregatePoint) { r.egs = p })
	assign(result.PJM, func(r *row, p *market.AggregatePoint) { r.pjm = p })

	sortTimes(buckets)

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "Month\tPTC\t%s\tPJM Average\n", result.EGSLabel)
	for _, bucket := range buckets {
		r := rows[bucket]
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n",
			bucket.Format("2006-01"),
			formatPoint(r.ptc),
			formatPoint(r.egs),
			formatPoint(r.pjm),
		)
	}
	writer.Flush()
}

func formatPoint(point *market.AggregatePoint) string {
	if point == nil {
		return "-"
	}
	return point.Value.StringFixed(2)
}

func formatDecimal(d decimal.Decimal, places int32) string {
	return d.StringFixed(places)
}

func sortTimes(times []time.Time) {
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
}
