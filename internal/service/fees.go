package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chm626/LehighEnergySymposium/internal/market"
)

// FeeType selects which WattBuy fee column the analysis covers.
type FeeType string

const (
	FeeEnrollment       FeeType = "enrollment"
	FeeMonthly          FeeType = "monthly"
	FeeEarlyTermination FeeType = "termination"
)

// ParseFeeType validates a fee-type flag value.
func ParseFeeType(value string) (FeeType, error) {
	switch FeeType(value) {
	case FeeEnrollment, FeeMonthly, FeeEarlyTermination:
		return FeeType(value), nil
	default:
		return "", fmt.Errorf("unknown fee type %q (want enrollment, monthly, or termination)", value)
	}
}

// Label returns the human-readable fee name used in tables and charts.
func (t FeeType) Label() string {
	switch t {
	case FeeEnrollment:
		return "Signup Fee"
	case FeeEarlyTermination:
		return "Termination Fee"
	default:
		return "Monthly Fee"
	}
}

// SupplierFees describes one supplier's fees of the selected type.
type SupplierFees struct {
	EGS     string
	Mean    decimal.Decimal
	Median  decimal.Decimal
	Min     decimal.Decimal
	Max     decimal.Decimal
	Records int
}

// FeePoint is one (month, supplier) average fee for the time series.
type FeePoint struct {
	Bucket time.Time
	EGS    string
	Value  decimal.Decimal
}

// FeesResult is the fee analysis for one EDC and fee type. All values are
// dollars.
type FeesResult struct {
	EDC        string
	FeeType    FeeType
	Overall    SupplierFees
	BySupplier []SupplierFees
	Monthly    []FeePoint
}

var centsPerDollar = decimal.NewFromInt(100)

// FeeAnalysis reports fee statistics for one EDC from the WattBuy feed,
// which is the only source that itemises fees. Fee values are converted
// from cents to dollars; rows where every fee column is invalid are
// dropped, as are suppliers that have never charged any fee.
func (s *Service) FeeAnalysis(ctx context.Context, edc string, feeType FeeType) (FeesResult, error) {
	feesFrom, err := s.data.FeesFrom()
	if err != nil {
		return FeesResult{}, err
	}

	offers, err := s.loaders.LoadOffers(ctx, s.from())
	if err != nil {
		return FeesResult{}, err
	}

	maxFee := decimal.NewFromFloat(s.data.MaxFee)

	type feeRow struct {
		bucket time.Time
		egs    string
		value  decimal.Decimal
	}
	var rows []feeRow
	charged := make(map[string]bool)

	for _, obs := range filterFromBucket(filterByEDC(offers, edc), feesFrom) {
		fees, ok := obs.Fees.(market.WattBuyFees)
		if !ok {
			continue
		}

		enrollment := toDollars(fees.Enrollment)
		monthly := toDollars(fees.Monthly)
		termination := toDollars(fees.EarlyTermination)

		// Drop only rows where every fee column is out of range; a single
		// bad column does not invalidate the rest of the row.
		if feeInvalid(enrollment, maxFee) && feeInvalid(monthly, maxFee) && feeInvalid(termination, maxFee) {
			continue
		}
		if feePositive(enrollment) || feePositive(monthly) || feePositive(termination) {
			charged[obs.EGS] = true
		}

		var selected *decimal.Decimal
		switch feeType {
		case FeeEnrollment:
			selected = enrollment
		case FeeEarlyTermination:
			selected = termination
		default:
			selected = monthly
		}
		if selected == nil {
			continue
		}
		rows = append(rows, feeRow{bucket: obs.Bucket, egs: obs.EGS, value: *selected})
	}

	result := FeesResult{EDC: edc, FeeType: feeType}

	var all []decimal.Decimal
	bySupplier := make(map[string][]decimal.Decimal)
	monthly := make(map[time.Time]map[string][]decimal.Decimal)
	for _, row := range rows {
		if !charged[row.egs] {
			continue
		}
		all = append(all, row.value)
		bySupplier[row.egs] = append(bySupplier[row.egs], row.value)
		if monthly[row.bucket] == nil {
			monthly[row.bucket] = make(map[string][]decimal.Decimal)
		}
		monthly[row.bucket][row.egs] = append(monthly[row.bucket][row.egs], row.value)
	}

	result.Overall = describeFees("", all)
	for egs, values := range bySupplier {
		result.BySupplier = append(result.BySupplier, describeFees(egs, values))
	}
	sort.Slice(result.BySupplier, func(i, j int) bool {
		return result.BySupplier[i].EGS < result.BySupplier[j].EGS
	})

	for bucket, suppliers := range monthly {
		for egs, values := range suppliers {
			result.Monthly = append(result.Monthly, FeePoint{
				Bucket: bucket,
				EGS:    egs,
				Value:  meanOf(values),
			})
		}
	}
	sort.Slice(result.Monthly, func(i, j int) bool {
		if !result.Monthly[i].Bucket.Equal(result.Monthly[j].Bucket) {
			return result.Monthly[i].Bucket.Before(result.Monthly[j].Bucket)
		}
		return result.Monthly[i].EGS < result.Monthly[j].EGS
	})

	return result, nil
}

func describeFees(egs string, values []decimal.Decimal) SupplierFees {
	if len(values) == 0 {
		return SupplierFees{EGS: egs}
	}
	fees := SupplierFees{
		EGS:     egs,
		Mean:    meanOf(values),
		Median:  medianOf(values),
		Min:     values[0],
		Max:     values[0],
		Records: len(values),
	}
	for _, value := range values[1:] {
		if value.LessThan(fees.Min) {
			fees.Min = value
		}
		if value.GreaterThan(fees.Max) {
			fees.Max = value
		}
	}
	return fees
}

func toDollars(fee *decimal.Decimal) *decimal.Decimal {
	if fee == nil {
		return nil
	}
	dollars := fee.Div(centsPerDollar)
	return &dollars
}

func feeInvalid(fee *decimal.Decimal, max decimal.Decimal) bool {
	if fee == nil {
		return true
	}
	return fee.IsNegative() || fee.GreaterThan(max)
}

func feePositive(fee *decimal.Decimal) bool {
	return fee != nil && fee.IsPositive()
}
