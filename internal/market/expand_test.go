package market

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExpandMonthly(t *testing.T) {
	period := BenchmarkPeriod{
		EDC:   "PPL Electric Utilities",
		Rate:  decimal.RequireFromString("9.5"),
		Start: date(2023, time.January, 1),
		End:   date(2023, time.June, 30),
	}

	observations := Expand(period, Monthly)
	require.Len(t, observations, 6)
	assert.Equal(t, date(2023, time.January, 1), observations[0].Bucket)
	assert.Equal(t, date(2023, time.June, 1), observations[5].Bucket)
	for _, obs := range observations {
		assert.Equal(t, "PPL Electric Utilities", obs.EDC)
		assert.True(t, obs.Rate.Equal(period.Rate))
		assert.Equal(t, SourcePTC, obs.Source)
	}
}

func TestExpandMidMonthBoundaries(t *testing.T) {
	// A period running from mid-January to mid-March still covers all three
	// monthly buckets.
	period := BenchmarkPeriod{
		EDC:   "Penelec",
		Rate:  decimal.RequireFromString("8.1"),
		Start: date(2022, time.January, 15),
		End:   date(2022, time.March, 10),
	}

	observations := Expand(period, Monthly)
	require.Len(t, observations, 3)
	assert.Equal(t, date(2022, time.January, 1), observations[0].Bucket)
	assert.Equal(t, date(2022, time.February, 1), observations[1].Bucket)
	assert.Equal(t, date(2022, time.March, 1), observations[2].Bucket)
}

func TestExpandZeroSpan(t *testing.T) {
	period := BenchmarkPeriod{
		EDC:   "PECO Energy",
		Rate:  decimal.RequireFromString("10"),
		Start: date(2023, time.May, 5),
		End:   date(2023, time.May, 5),
	}

	observations := Expand(period, Monthly)
	require.Len(t, observations, 1)
	assert.Equal(t, date(2023, time.May, 1), observations[0].Bucket)
}

func TestExpandDaily(t *testing.T) {
	period := BenchmarkPeriod{
		EDC:   "Duquesne Light",
		Rate:  decimal.RequireFromString("7.2"),
		Start: date(2023, time.February, 26),
		End:   date(2023, time.March, 2),
	}

	observations := Expand(period, Daily)
	require.Len(t, observations, 5)
	assert.Equal(t, date(2023, time.February, 26), observations[0].Bucket)
	assert.Equal(t, date(2023, time.March, 2), observations[4].Bucket)
}

func TestExpandAll(t *testing.T) {
	// Three quarterly periods expand into nine monthly rates.
	periods := []BenchmarkPeriod{
		{EDC: "PPL Electric Utilities", Rate: decimal.RequireFromString("9.0"), Start: date(2023, time.January, 1), End: date(2023, time.March, 31)},
		{EDC: "PPL Electric Utilities", Rate: decimal.RequireFromString("9.5"), Start: date(2023, time.April, 1), End: date(2023, time.June, 30)},
		{EDC: "PPL Electric Utilities", Rate: decimal.RequireFromString("8.8"), Start: date(2023, time.July, 1), End: date(2023, time.September, 30)},
	}

	observations := ExpandAll(periods, Monthly)
	require.Len(t, observations, 9)
	assert.Equal(t, date(2023, time.January, 1), observations[0].Bucket)
	assert.Equal(t, date(2023, time.September, 1), observations[8].Bucket)
	assert.True(t, observations[4].Rate.Equal(decimal.RequireFromString("9.5")))
}

func TestBenchmarkPeriodMonths(t *testing.T) {
	period := BenchmarkPeriod{Start: date(2022, time.November, 15), End: date(2023, time.February, 10)}
	assert.Equal(t, 4, period.Months())

	same := BenchmarkPeriod{Start: date(2023, time.May, 1), End: date(2023, time.May, 31)}
	assert.Equal(t, 1, same.Months())
}
