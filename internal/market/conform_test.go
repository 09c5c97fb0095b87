package market

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func offer(source Source, term *int, rateType RateType, fees FeeSchedule) RateObservation {
	return RateObservation{
		EDC:        "PPL Electric Utilities",
		EGS:        "Acme Energy",
		Bucket:     time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC),
		Rate:       decimal.RequireFromString("9.9"),
		Source:     source,
		TermMonths: term,
		RateType:   rateType,
		Fees:       fees,
	}
}

func TestConformedKeepsBenchmarkShapedOffers(t *testing.T) {
	observations := []RateObservation{
		offer(SourceWattBuy, intPtr(12), "fixed", WattBuyFees{}),
		offer(SourceOCAP, intPtr(12), "Fixed Rate", OCAPFees{}),
	}

	conformed := Conformed(observations)
	assert.Len(t, conformed, 2)
}

func TestConformedRejectsTermAndRateType(t *testing.T) {
	cases := []struct {
		name string
		obs  RateObservation
	}{
		{"nil term", offer(SourceWattBuy, nil, "fixed", WattBuyFees{})},
		{"six month term", offer(SourceWattBuy, intPtr(6), "fixed", WattBuyFees{})},
		{"twenty four month term", offer(SourceWattBuy, intPtr(24), "fixed", WattBuyFees{})},
		{"variable rate", offer(SourceWattBuy, intPtr(12), "variable", WattBuyFees{})},
		{"unknown rate type", offer(SourceWattBuy, intPtr(12), RateTypeUnknown, WattBuyFees{})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Empty(t, Conformed([]RateObservation{tc.obs}))
		})
	}
}

func TestConformedFeeFieldsPerFeed(t *testing.T) {
	t.Run("wattbuy rejects any nonzero fee", func(t *testing.T) {
		for name, fees := range map[string]WattBuyFees{
			"enrollment":  {Enrollment: decPtr("25")},
			"monthly":     {Monthly: decPtr("4.95")},
			"termination": {EarlyTermination: decPtr("150")},
		} {
			obs := offer(SourceWattBuy, intPtr(12), "fixed", fees)
			assert.Empty(t, Conformed([]RateObservation{obs}), "%s fee should disqualify", name)
		}
	})

	t.Run("wattbuy accepts zero and unknown fees", func(t *testing.T) {
		obs := offer(SourceWattBuy, intPtr(12), "fixed", WattBuyFees{Enrollment: decPtr("0"), Monthly: nil, EarlyTermination: decPtr("0")})
		require.Len(t, Conformed([]RateObservation{obs}), 1)
	})

	t.Run("ocap gates on its single cancel fee", func(t *testing.T) {
		charged := offer(SourceOCAP, intPtr(12), "fixed", OCAPFees{Cancel: decPtr("100")})
		assert.Empty(t, Conformed([]RateObservation{charged}))

		free := offer(SourceOCAP, intPtr(12), "fixed", OCAPFees{Cancel: decPtr("0")})
		unknown := offer(SourceOCAP, intPtr(12), "fixed", OCAPFees{})
		assert.Len(t, Conformed([]RateObservation{free, unknown}), 2)
	})

	t.Run("rows without a fee shape never conform", func(t *testing.T) {
		obs := offer(SourcePJM, intPtr(12), "fixed", nil)
		assert.Empty(t, Conformed([]RateObservation{obs}))
	})
}

func TestConformedRateTypeCaseInsensitive(t *testing.T) {
	for _, rateType := range []RateType{"fixed", "Fixed", "FIXED", "Fixed Price"} {
		obs := offer(SourceWattBuy, intPtr(12), rateType, WattBuyFees{})
		assert.Len(t, Conformed([]RateObservation{obs}), 1, "rate type %q should conform", rateType)
	}
}
