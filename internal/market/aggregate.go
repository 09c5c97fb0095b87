package market

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Statistic selects the value computed per aggregate group.
type Statistic int

const (
	Mean Statistic = iota
	Median
	Count
)

// GroupBy selects the aggregation key.
type GroupBy int

const (
	// ByEDCAndBucket groups on (EDC, calendar bucket).
	ByEDCAndBucket GroupBy = iota
	// ByBucket groups on the calendar bucket alone, across entities.
	ByBucket
)

var two = decimal.NewFromInt(2)

// Aggregate folds observations into one point per group, ordered by bucket
// then EDC. Every point carries the count of raw rows behind it.
func Aggregate(observations []RateObservation, by GroupBy, stat Statistic, label Source) []AggregatePoint {
	groups := make(map[seriesKey][]decimal.Decimal)
	for _, obs := range observations {
		key := seriesKey{bucket: obs.Bucket}
		if by == ByEDCAndBucket {
			key.edc = obs.EDC
		}
		groups[key] = append(groups[key], obs.Rate)
	}

	points := make([]AggregatePoint, 0, len(groups))
	for key, rates := range groups {
		point := AggregatePoint{
			Bucket:  key.bucket,
			EDC:     key.edc,
			Source:  label,
			Records: len(rates),
		}
		if by == ByBucket {
			point.EDC = AllEDCs
		}
		switch stat {
		case Median:
			point.Value = median(rates)
		case Count:
			point.Value = decimal.NewFromInt(int64(len(rates)))
		default:
			point.Value = mean(rates)
		}
		points = append(points, point)
	}

	sort.Slice(points, func(i, j int) bool {
		if !points[i].Bucket.Equal(points[j].Bucket) {
			return points[i].Bucket.Before(points[j].Bucket)
		}
		return points[i].EDC < points[j].EDC
	})
	return points
}

// Describe computes descriptive statistics over a series. A nil or empty
// input yields a zero Summary with Records == 0.
func Describe(observations []RateObservation) Summary {
	if len(observations) == 0 {
		return Summary{}
	}

	rates := make([]decimal.Decimal, len(observations))
	for i, obs := range observations {
		rates[i] = obs.Rate
	}

	summary := Summary{
		Min:     rates[0],
		Max:     rates[0],
		Mean:    mean(rates),
		Median:  median(rates),
		Records: len(rates),
	}
	for _, rate := range rates[1:] {
		if rate.LessThan(summary.Min) {
			summary.Min = rate
		}
		if rate.GreaterThan(summary.Max) {
			summary.Max = rate
		}
	}
	return summary
}

func mean(rates []decimal.Decimal) decimal.Decimal {
	if len(rates) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(rates[0], rates[1:]...).Div(decimal.NewFromInt(int64(len(rates))))
}

// median is computed independently of mean; sorting happens on a copy so
// callers keep their input order.
func median(rates []decimal.Decimal) decimal.Decimal {
	if len(rates) == 0 {
		return decimal.Zero
	}
	sorted := make([]decimal.Decimal, len(rates))
	copy(sorted, rates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return sorted[mid-1].Add(sorted[mid]).Div(two)
}
