package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chm626/LehighEnergySymposium/internal/market"
)

func comparisonSources() *stubSources {
	return &stubSources{
		benchmarks: []market.BenchmarkRow{
			{EDC: "PECO Energy", ServiceType: "R", Rate: "10", Start: date(2023, time.January, 1), End: date(2023, time.February, 28)},
			{EDC: "Penelec", ServiceType: "R", Rate: "8", Start: date(2023, time.January, 1), End: date(2023, time.February, 28)},
		},
		wattbuy: []market.OfferRow{
			{Date: date(2023, time.January, 10), EDC: "PECO Energy", EGS: "Acme Energy", Rate: "11", Term: intPtr(12), RateType: "fixed"},
			{Date: date(2023, time.January, 20), EDC: "PECO Energy", EGS: "Bolt Power", Rate: "9", Term: intPtr(6), RateType: "variable"},
		},
		ocap: []market.OfferRow{
			{Date: date(2023, time.January, 5), EDC: "Penelec", EGS: "Acme Energy", Rate: "7", Term: intPtr(12), RateType: "fixed"},
		},
		wholesale: []market.WholesaleRow{
			{Date: date(2023, time.January, 3), Zone: "PECO", USDPerMWh: "60"},
			{Date: date(2023, time.January, 4), Zone: "PECO", USDPerMWh: "80"},
			{Date: date(2023, time.January, 3), Zone: "PENELEC", USDPerMWh: "40"},
		},
	}
}

func TestComparisonSingleEDC(t *testing.T) {
	svc := newTestService(comparisonSources())

	result, err := svc.Comparison(context.Background(), "PECO Energy", false)
	require.NoError(t, err)

	assert.Equal(t, "PECO Energy", result.EDC)
	assert.Equal(t, "PECO", result.Zone)
	assert.Equal(t, market.SourceCombined, result.EGSLabel)

	require.Len(t, result.PTC, 2)
	assert.True(t, result.PTC[0].Value.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 1, result.PTC[0].Records)

	// January mean of the 11 and 9 ¢/kWh offers.
	require.Len(t, result.EGS, 1)
	assert.True(t, result.EGS[0].Value.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 2, result.EGS[0].Records)

	// January mean of 60 and 80 $/MWh is 70, i.e. 7 ¢/kWh, PECO zone only.
	require.Len(t, result.PJM, 1)
	assert.True(t, result.PJM[0].Value.Equal(decimal.NewFromInt(7)))
	assert.Equal(t, 1, result.PJM[0].Records)

	assert.Equal(t, 2, result.EGSSummary.Records)
}

func TestComparisonAllEDCs(t *testing.T) {
	svc := newTestService(comparisonSources())

	result, err := svc.Comparison(context.Background(), "", false)
	require.NoError(t, err)

	assert.Equal(t, market.AllEDCs, result.EDC)
	assert.Empty(t, result.Zone)

	// PTC averages PECO and Penelec per month.
	require.Len(t, result.PTC, 2)
	assert.Equal(t, market.AllEDCs, result.PTC[0].EDC)
	assert.True(t, result.PTC[0].Value.Equal(decimal.NewFromInt(9)))
	assert.Equal(t, 2, result.PTC[0].Records)

	// All three offers fold into one January point.
	require.Len(t, result.EGS, 1)
	assert.True(t, result.EGS[0].Value.Equal(decimal.NewFromInt(9)))
	assert.Equal(t, 3, result.EGS[0].Records)

	// Wholesale spans both zones.
	require.Len(t, result.PJM, 1)
	assert.Equal(t, 2, result.PJM[0].Records)
}

func TestComparisonConformed(t *testing.T) {
	svc := newTestService(comparisonSources())

	result, err := svc.Comparison(context.Background(), "PECO Energy", true)
	require.NoError(t, err)

	assert.Equal(t, market.SourceConformed, result.EGSLabel)

	// Only the 12-month fixed offer survives the filter.
	require.Len(t, result.EGS, 1)
	assert.True(t, result.EGS[0].Value.Equal(decimal.NewFromInt(11)))
	assert.Equal(t, 1, result.EGS[0].Records)
}

func TestComparisonUnknownEDCHasNoWholesale(t *testing.T) {
	svc := newTestService(comparisonSources())

	result, err := svc.Comparison(context.Background(), "Citizens Electric", false)
	require.NoError(t, err)
	assert.Empty(t, result.Zone)
	assert.Empty(t, result.PJM)
	assert.Empty(t, result.PTC)
}

func TestWholesaleByZone(t *testing.T) {
	svc := newTestService(comparisonSources())

	result, err := svc.Wholesale(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"PECO", "PENELEC"}, result.Zones)
	require.Len(t, result.Series, 2)
	for _, point := range result.Series {
		assert.Equal(t, 1, point.Records)
	}

	filtered, err := svc.Wholesale(context.Background(), []string{"PENELEC"})
	require.NoError(t, err)
	assert.Equal(t, []string{"PENELEC"}, filtered.Zones)
	require.Len(t, filtered.Series, 1)
	assert.True(t, filtered.Series[0].Value.Equal(decimal.NewFromInt(4)))
}
