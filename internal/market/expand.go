package market

import "time"

// Granularity selects the calendar unit a benchmark period is expanded to.
type Granularity int

const (
	Monthly Granularity = iota
	Daily
)

// Expand converts a benchmark validity interval into one observation per
// covered calendar bucket, inclusive of both ends. Bucket keys are the
// first of the month (or the day itself for daily granularity), never the
// literal start or end day, so mid-month boundaries neither skip nor
// duplicate buckets. A period spanning no full month still emits its start
// bucket.
func Expand(period BenchmarkPeriod, granularity Granularity) []RateObservation {
	var (
		cursor time.Time
		last   time.Time
		step   func(time.Time) time.Time
	)

	switch granularity {
	case Daily:
		cursor = dayStart(period.Start)
		last = dayStart(period.End)
		step = func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }
	default:
		cursor = monthStart(period.Start)
		last = monthStart(period.End)
		step = func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }
	}

	var out []RateObservation
	for !cursor.After(last) {
		out = append(out, RateObservation{
			EDC:    period.EDC,
			Bucket: cursor,
			Rate:   period.Rate,
			Source: SourcePTC,
		})
		cursor = step(cursor)
	}
	return out
}

// ExpandAll expands every period, concatenating the results in input order.
func ExpandAll(periods []BenchmarkPeriod, granularity Granularity) []RateObservation {
	var out []RateObservation
	for _, period := range periods {
		out = append(out, Expand(period, granularity)...)
	}
	return out
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
