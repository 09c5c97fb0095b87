package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/chm626/LehighEnergySymposium/internal/market"
	"github.com/chm626/LehighEnergySymposium/internal/service"
)

// Export renders a comparison run as CSV and/or a PNG line chart.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	opts.MaxPoints = a.Config.ResolveMaxPoints(opts.MaxPoints)

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

	result.PTC = clipWindow(result.PTC, opts.From, opts.To)
	result.EGS = clipWindow(result.EGS, opts.From, opts.To)
	result.PJM = clipWindow(result.PJM, opts.From, opts.To)

	total := len(result.PTC) + len(result.EGS) + len(result.PJM)
	if total == 0 {
		a.Logger.Info().Msg("no data points in export window")
		fmt.Fprintln(os.Stdout, "no data for this selection")
		return nil
	}

	a.Logger.Info().Int("points", total).Str("edc", result.EDC).Msg("exporting comparison series")
	return a.writeComparison(result, opts.CSVPath, opts.PNGPath, opts.MaxPoints)
}

func (a *App) writeComparison(result service.ComparisonResult, csvPath, pngPath string, maxPoints int) error {
	if csvPath != "" {
		if err := writeComparisonCSV(csvPath, result); err != nil {
			return err
		}
	}
	if pngPath != "" {
		if err := writeComparisonPNG(pngPath, result, maxPoints); err != nil {
			return err
		}
	}
	return nil
}

func clipWindow(points []market.AggregatePoint, from, to *time.Time) []market.AggregatePoint {
	out := make([]market.AggregatePoint, 0, len(points))
	for _, point := range points {
		if from != nil && point.Bucket.Before(*from) {
			continue
		}
		if to != nil && !point.Bucket.Before(*to) {
			continue
		}
		out = append(out, point)
	}
	return out
}

func writeComparisonCSV(path string, result service.ComparisonResult) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"month", "edc", "series", "rate_cents_per_kwh", "records_used"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, series := range [][]market.AggregatePoint{result.PTC, result.EGS, result.PJM} {
		for _, point := range series {
			record := []string{
				point.Bucket.Format("2006-01"),
				point.EDC,
				string(point.Source),
				point.Value.String(),
				fmt.Sprintf("%d", point.Records),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}

	return writer.Error()
}

func writeComparisonPNG(path string, result service.ComparisonResult, maxPoints int) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	series := make([]chart.Series, 0, 3)
	if ts, ok := timeSeries("PTC", downsamplePoints(result.PTC, maxPoints)); ok {
		series = append(series, ts)
	}
	if ts, ok := timeSeries(string(result.EGSLabel), downsamplePoints(result.EGS, maxPoints)); ok {
		series = append(series, ts)
	}
	if ts, ok := timeSeries("PJM Average", downsamplePoints(result.PJM, maxPoints)); ok {
		series = append(series, ts)
	}
	if len(series) == 0 {
		return errors.New("no series to render")
	}

	rateFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.2f")
	}
	graph := chart.Chart{
		Title:  fmt.Sprintf("PTC vs EGS vs PJM - %s", result.EDC),
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Rate (¢/kWh)",
			ValueFormatter: rateFormatter,
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func timeSeries(name string, points []market.AggregatePoint) (chart.TimeSeries, bool) {
	if len(points) == 0 {
		return chart.TimeSeries{}, false
	}
	x := make([]time.Time, len(points))
	y := make([]float64, len(points))
	for i, point := range points {
		x[i] = point.Bucket
		y[i] = point.Value.InexactFloat64()
	}
	return chart.TimeSeries{Name: name, XValues: x, YValues: y}, true
}

func downsamplePoints(points []market.AggregatePoint, max int) []market.AggregatePoint {
	if max <= 0 || len(points) <= max {
		return points
	}

	result := make([]market.AggregatePoint, 0, max)
	step := float64(len(points)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(points) {
			idx = len(points) - 1
		}
		result = append(result, points[idx])
	}
	return result
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
