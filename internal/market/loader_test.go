package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSources struct {
	wholesale     []WholesaleRow
	wattbuy       []OfferRow
	ocap          []OfferRow
	benchmarks    []BenchmarkRow
	wholesaleErr  error
	wattbuyErr    error
	ocapErr       error
	benchmarkErr  error
	wholesaleHits int
	offerHits     int
	benchmarkHits int
}

func (f *fakeSources) WholesaleDaily(ctx context.Context, from time.Time) ([]WholesaleRow, error) {
	f.wholesaleHits++
	return f.wholesale, f.wholesaleErr
}

func (f *fakeSources) WattBuyOffers(ctx context.Context, from time.Time) ([]OfferRow, error) {
	f.offerHits++
	return f.wattbuy, f.wattbuyErr
}

func (f *fakeSources) OCAPOffers(ctx context.Context, from time.Time) ([]OfferRow, error) {
	return f.ocap, f.ocapErr
}

func (f *fakeSources) BenchmarkPeriods(ctx context.Context, from time.Time) ([]BenchmarkRow, error) {
	f.benchmarkHits++
	return f.benchmarks, f.benchmarkErr
}

func newTestLoaders(sources *fakeSources) *Loaders {
	return NewLoaders(sources, sources, sources, NewNormalizer(), DefaultBounds(), NewCache(), zerolog.Nop())
}

func strPtr(s string) *string { return &s }

func TestLoadWholesaleMonthlyMeanAndConversion(t *testing.T) {
	sources := &fakeSources{wholesale: []WholesaleRow{
		{Date: date(2023, time.March, 1), Zone: "PPL", USDPerMWh: "100"},
		{Date: date(2023, time.March, 15), Zone: "PPL", USDPerMWh: "120"},
		{Date: date(2023, time.March, 30), Zone: "PPL", USDPerMWh: "140"},
		{Date: date(2023, time.April, 2), Zone: "PPL", USDPerMWh: "90"},
		{Date: date(2023, time.March, 10), Zone: "PECO", USDPerMWh: "110"},
	}}
	loaders := newTestLoaders(sources)

	observations, err := loaders.LoadWholesale(context.Background(), date(2023, time.January, 1))
	require.NoError(t, err)
	require.Len(t, observations, 3)

	// Mean of 100, 120, 140 $/MWh is 120, i.e. 12 ¢/kWh.
	assert.Equal(t, "PECO", observations[0].Zone)
	assert.Equal(t, "PPL", observations[1].Zone)
	assert.True(t, observations[1].Rate.Equal(decimal.NewFromInt(12)), "got %s", observations[1].Rate)
	assert.Equal(t, date(2023, time.March, 1), observations[1].Bucket)
	assert.Equal(t, date(2023, time.April, 1), observations[2].Bucket)
	assert.True(t, observations[2].Rate.Equal(decimal.NewFromInt(9)))
	assert.Equal(t, SourcePJM, observations[1].Source)
}

func TestLoadWholesaleDropsMalformedAndOutOfBounds(t *testing.T) {
	sources := &fakeSources{wholesale: []WholesaleRow{
		{Date: date(2023, time.March, 1), Zone: "PPL", USDPerMWh: "not-a-number"},
		{Date: date(2023, time.March, 1), Zone: "PECO", USDPerMWh: "9000"}, // 900 ¢/kWh, past the cap
		{Date: date(2023, time.March, 1), Zone: "DUQ", USDPerMWh: "-50"},
		{Date: date(2023, time.March, 1), Zone: "APS", USDPerMWh: "80"},
	}}
	loaders := newTestLoaders(sources)

	observations, err := loaders.LoadWholesale(context.Background(), date(2023, time.January, 1))
	require.NoError(t, err)
	require.Len(t, observations, 1)
	assert.Equal(t, "APS", observations[0].Zone)
}

func TestLoadWholesaleUnavailable(t *testing.T) {
	sources := &fakeSources{wholesaleErr: errors.New("connection refused")}
	loaders := newTestLoaders(sources)

	_, err := loaders.LoadWholesale(context.Background(), date(2023, time.January, 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataUnavailable)

	var unavailErr *DataUnavailableError
	require.ErrorAs(t, err, &unavailErr)
	assert.Equal(t, SourcePJM, unavailErr.Source)
}

func TestLoadWholesaleMemoised(t *testing.T) {
	sources := &fakeSources{wholesale: []WholesaleRow{
		{Date: date(2023, time.March, 1), Zone: "PPL", USDPerMWh: "100"},
	}}
	loaders := newTestLoaders(sources)
	from := date(2023, time.January, 1)

	_, err := loaders.LoadWholesale(context.Background(), from)
	require.NoError(t, err)
	_, err = loaders.LoadWholesale(context.Background(), from)
	require.NoError(t, err)
	assert.Equal(t, 1, sources.wholesaleHits)

	// A different argument is a different cache entry.
	_, err = loaders.LoadWholesale(context.Background(), date(2024, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, sources.wholesaleHits)
}

func TestLoadOffersCombinesFeedsWithFeeShapes(t *testing.T) {
	sources := &fakeSources{
		wattbuy: []OfferRow{{
			Date: date(2023, time.March, 12), EDC: "Met-Ed", EGS: "Acme Energy",
			Rate: "9.5", Term: intPtr(12), RateType: "fixed",
			EnrollmentFee: strPtr("25"), MonthlyCharge: strPtr("0"),
		}},
		ocap: []OfferRow{{
			Date: date(2023, time.March, 3), EDC: "PECO Energy", EGS: "Bolt Power",
			Rate: "8.2", Term: intPtr(6), RateType: "variable",
			CancelFee: strPtr("100"),
		}},
	}
	loaders := newTestLoaders(sources)

	observations, err := loaders.LoadOffers(context.Background(), date(2023, time.January, 1))
	require.NoError(t, err)
	require.Len(t, observations, 2)

	var wattbuy, ocap RateObservation
	for _, obs := range observations {
		switch obs.Source {
		case SourceWattBuy:
			wattbuy = obs
		case SourceOCAP:
			ocap = obs
		}
	}

	assert.Equal(t, "Met Ed", wattbuy.EDC, "offer EDC should be normalised")
	assert.Equal(t, date(2023, time.March, 1), wattbuy.Bucket, "offer date should bucket to month start")
	fees, ok := wattbuy.Fees.(WattBuyFees)
	require.True(t, ok)
	require.NotNil(t, fees.Enrollment)
	assert.True(t, fees.Enrollment.Equal(decimal.NewFromInt(25)))
	require.NotNil(t, fees.Monthly)
	assert.True(t, fees.Monthly.IsZero())
	assert.Nil(t, fees.EarlyTermination, "absent fee stays unknown, not zero")

	ocapFees, ok := ocap.Fees.(OCAPFees)
	require.True(t, ok)
	require.NotNil(t, ocapFees.Cancel)
	assert.True(t, ocapFees.Cancel.Equal(decimal.NewFromInt(100)))
}

func TestLoadOffersDropsMalformedRows(t *testing.T) {
	sources := &fakeSources{
		wattbuy: []OfferRow{
			{Date: date(2023, time.March, 1), EDC: "PECO Energy", EGS: "A", Rate: "garbage"},
			{Date: date(2023, time.March, 1), EDC: "PECO Energy", EGS: "B", Rate: "9.5", EnrollmentFee: strPtr("not-a-fee")},
			{Date: date(2023, time.March, 1), EDC: "PECO Energy", EGS: "C", Rate: "0"},
			{Date: date(2023, time.March, 1), EDC: "PECO Energy", EGS: "D", Rate: "75"},
			{Date: date(2023, time.March, 1), EDC: "PECO Energy", EGS: "E", Rate: "9.5"},
		},
	}
	loaders := newTestLoaders(sources)

	observations, err := loaders.LoadOffers(context.Background(), date(2023, time.January, 1))
	require.NoError(t, err)
	require.Len(t, observations, 1)
	assert.Equal(t, "E", observations[0].EGS)
}

func TestLoadOffersUnavailablePerFeed(t *testing.T) {
	t.Run("wattbuy", func(t *testing.T) {
		sources := &fakeSources{wattbuyErr: errors.New("boom")}
		_, err := newTestLoaders(sources).LoadOffers(context.Background(), date(2023, time.January, 1))
		var unavailErr *DataUnavailableError
		require.ErrorAs(t, err, &unavailErr)
		assert.Equal(t, SourceWattBuy, unavailErr.Source)
	})

	t.Run("ocap", func(t *testing.T) {
		sources := &fakeSources{ocapErr: errors.New("boom")}
		_, err := newTestLoaders(sources).LoadOffers(context.Background(), date(2023, time.January, 1))
		var unavailErr *DataUnavailableError
		require.ErrorAs(t, err, &unavailErr)
		assert.Equal(t, SourceOCAP, unavailErr.Source)
	})
}

func TestLoadBenchmarksSwapCorrectsAndLabels(t *testing.T) {
	sources := &fakeSources{benchmarks: []BenchmarkRow{
		{EDC: "Met-Ed", ServiceType: "RS", Rate: "9.1", Start: date(2023, time.June, 30), End: date(2023, time.April, 1)},
		{EDC: "Met-Ed", ServiceType: "XYZ", Rate: "8.8", Start: date(2023, time.January, 1), End: date(2023, time.March, 31)},
	}}
	loaders := newTestLoaders(sources)

	periods, err := loaders.LoadBenchmarks(context.Background(), date(2023, time.January, 1))
	require.NoError(t, err)
	require.Len(t, periods, 2)

	// Sorted by EDC then start, so the swap-corrected row comes second.
	assert.Equal(t, "Met Ed", periods[0].EDC)
	assert.Equal(t, "XYZ", periods[0].ServiceType, "unmapped codes pass through")
	assert.Equal(t, "Residential Default", periods[1].ServiceType)
	assert.Equal(t, date(2023, time.April, 1), periods[1].Start)
	assert.Equal(t, date(2023, time.June, 30), periods[1].End)
	assert.True(t, periods[1].Start.Before(periods[1].End) || periods[1].Start.Equal(periods[1].End))
}

func TestLoadBenchmarksDropsMalformed(t *testing.T) {
	sources := &fakeSources{benchmarks: []BenchmarkRow{
		{EDC: "PECO Energy", ServiceType: "R", Rate: "abc", Start: date(2023, time.January, 1), End: date(2023, time.March, 31)},
		{EDC: "PECO Energy", ServiceType: "R", Rate: "120", Start: date(2023, time.January, 1), End: date(2023, time.March, 31)},
		{EDC: "PECO Energy", ServiceType: "R", Rate: "9.9", Start: date(2023, time.January, 1), End: date(2023, time.March, 31)},
	}}
	loaders := newTestLoaders(sources)

	periods, err := loaders.LoadBenchmarks(context.Background(), date(2023, time.January, 1))
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.True(t, periods[0].Rate.Equal(decimal.RequireFromString("9.9")))
}

func TestLoadBenchmarksUnavailable(t *testing.T) {
	sources := &fakeSources{benchmarkErr: errors.New("relation does not exist")}
	_, err := newTestLoaders(sources).LoadBenchmarks(context.Background(), date(2023, time.January, 1))
	var unavailErr *DataUnavailableError
	require.ErrorAs(t, err, &unavailErr)
	assert.Equal(t, SourcePTC, unavailErr.Source)
}
