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

func TestParseFeeType(t *testing.T) {
	for _, value := range []string{"enrollment", "monthly", "termination"} {
		feeType, err := ParseFeeType(value)
		require.NoError(t, err)
		assert.Equal(t, FeeType(value), feeType)
	}

	_, err := ParseFeeType("cancellation")
	assert.Error(t, err)
}

func TestFeeTypeLabel(t *testing.T) {
	assert.Equal(t, "Signup Fee", FeeEnrollment.Label())
	assert.Equal(t, "Monthly Fee", FeeMonthly.Label())
	assert.Equal(t, "Termination Fee", FeeEarlyTermination.Label())
}

func TestFeeAnalysis(t *testing.T) {
	sources := &stubSources{
		wattbuy: []market.OfferRow{
			// 2500 cents enrollment = $25.
			{Date: date(2023, time.January, 5), EDC: "PECO Energy", EGS: "Acme Energy", Rate: "9.5", EnrollmentFee: strPtr("2500"), MonthlyCharge: strPtr("0")},
			{Date: date(2023, time.February, 5), EDC: "PECO Energy", EGS: "Acme Energy", Rate: "9.5", EnrollmentFee: strPtr("3500"), MonthlyCharge: strPtr("0")},
			// Never charges anything; excluded from the analysis entirely.
			{Date: date(2023, time.January, 8), EDC: "PECO Energy", EGS: "Free Power", Rate: "8.9", EnrollmentFee: strPtr("0"), MonthlyCharge: strPtr("0"), EarlyTermFee: strPtr("0")},
			// Every fee column out of range; the row is an entry error.
			{Date: date(2023, time.January, 9), EDC: "PECO Energy", EGS: "Acme Energy", Rate: "9.5", EnrollmentFee: strPtr("99999999")},
			// Different EDC; filtered out for this query.
			{Date: date(2023, time.January, 10), EDC: "Penelec", EGS: "Acme Energy", Rate: "9.5", EnrollmentFee: strPtr("1000")},
		},
		ocap: []market.OfferRow{
			// OCAP rows carry no itemised fees and never enter the analysis.
			{Date: date(2023, time.January, 12), EDC: "PECO Energy", EGS: "Acme Energy", Rate: "9.0", CancelFee: strPtr("10000")},
		},
	}
	svc := newTestService(sources)

	result, err := svc.FeeAnalysis(context.Background(), "PECO Energy", FeeEnrollment)
	require.NoError(t, err)

	assert.Equal(t, FeeEnrollment, result.FeeType)
	assert.Equal(t, 2, result.Overall.Records)
	assert.True(t, result.Overall.Mean.Equal(decimal.NewFromInt(30)), "got %s", result.Overall.Mean)
	assert.True(t, result.Overall.Min.Equal(decimal.NewFromInt(25)))
	assert.True(t, result.Overall.Max.Equal(decimal.NewFromInt(35)))

	require.Len(t, result.BySupplier, 1)
	assert.Equal(t, "Acme Energy", result.BySupplier[0].EGS)

	require.Len(t, result.Monthly, 2)
	assert.Equal(t, date(2023, time.January, 1), result.Monthly[0].Bucket)
	assert.True(t, result.Monthly[0].Value.Equal(decimal.NewFromInt(25)))
}

func TestFeeAnalysisFloorsEarlyRows(t *testing.T) {
	sources := &stubSources{
		wattbuy: []market.OfferRow{
			{Date: date(2014, time.June, 1), EDC: "PECO Energy", EGS: "Acme Energy", Rate: "9.5", EnrollmentFee: strPtr("2500")},
			{Date: date(2015, time.June, 1), EDC: "PECO Energy", EGS: "Acme Energy", Rate: "9.5", EnrollmentFee: strPtr("2500")},
		},
	}
	svc := newTestService(sources)

	result, err := svc.FeeAnalysis(context.Background(), "PECO Energy", FeeEnrollment)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Overall.Records)
}

func TestFeeAnalysisSelectsColumn(t *testing.T) {
	sources := &stubSources{
		wattbuy: []market.OfferRow{
			{Date: date(2023, time.January, 5), EDC: "PECO Energy", EGS: "Acme Energy", Rate: "9.5", EnrollmentFee: strPtr("2500"), MonthlyCharge: strPtr("495"), EarlyTermFee: strPtr("15000")},
		},
	}
	svc := newTestService(sources)

	monthly, err := svc.FeeAnalysis(context.Background(), "PECO Energy", FeeMonthly)
	require.NoError(t, err)
	assert.True(t, monthly.Overall.Mean.Equal(decimal.RequireFromString("4.95")))

	termination, err := svc.FeeAnalysis(context.Background(), "PECO Energy", FeeEarlyTermination)
	require.NoError(t, err)
	assert.True(t, termination.Overall.Mean.Equal(decimal.NewFromInt(150)))
}
