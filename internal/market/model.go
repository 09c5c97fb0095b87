package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// Source tags the provenance of an observation. Priority tie-breaking and
// UI disclosure both key off this value.
type Source string

const (
	SourceWattBuy   Source = "WattBuy"
	SourceOCAP      Source = "OCAP"
	SourcePTC       Source = "PTC"
	SourcePJM       Source = "PJM"
	SourceConformed Source = "Conformed EGS"
	SourceCombined  Source = "Combined Average"
)

// RateType classifies an offer's pricing structure.
type RateType string

const (
	RateTypeFixed    RateType = "fixed"
	RateTypeVariable RateType = "variable"
	RateTypeUnknown  RateType = "unknown"
)

// FeeSchedule is the per-feed fee shape attached to a retail offer. Each
// feed carries exactly its own fee fields; a nil pointer means the fee is
// unknown, a zero value means the fee is known to be zero. The two states
// are never conflated outside the conformance filter.
type FeeSchedule interface {
	feeSchedule()
}

// WattBuyFees is the fee shape of the WattBuy feed.
type WattBuyFees struct {
	Enrollment       *decimal.Decimal
	Monthly          *decimal.Decimal
	EarlyTermination *decimal.Decimal
}

func (WattBuyFees) feeSchedule() {}

// OCAPFees is the fee shape of the OCA plans feed, which consolidates
// everything into a single cancellation fee.
type OCAPFees struct {
	Cancel *decimal.Decimal
}

func (OCAPFees) feeSchedule() {}

// RateObservation is a single priced offer or price point, expressed in
// cents per kWh and bucketed to a calendar month (or day).
type RateObservation struct {
	EDC    string
	Zone   string
	EGS    string
	Bucket time.Time
	Rate   decimal.Decimal
	Source Source

	// Offer-only fields; zero-valued for wholesale and benchmark rows.
	TermMonths *int
	RateType   RateType
	Fees       FeeSchedule
}

// BenchmarkPeriod is a default-rate (PTC) validity interval. Start and End
// are inclusive; the loader guarantees Start <= End.
type BenchmarkPeriod struct {
	EDC         string
	ServiceType string
	Rate        decimal.Decimal
	Start       time.Time
	End         time.Time
}

// Months reports how many monthly buckets the period covers, inclusive.
func (p BenchmarkPeriod) Months() int {
	start := monthStart(p.Start)
	end := monthStart(p.End)
	return (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month()) + 1
}

// AggregatePoint is one row of an aggregate comparison series. Records
// carries the count of raw rows folded into the point so callers can
// disclose statistical weight.
type AggregatePoint struct {
	Bucket  time.Time
	EDC     string
	Value   decimal.Decimal
	Source  Source
	Records int
}

// AllEDCs labels points aggregated across every distribution company.
const AllEDCs = "ALL"

// Summary holds descriptive statistics for one series.
type Summary struct {
	Min     decimal.Decimal
	Max     decimal.Decimal
	Mean    decimal.Decimal
	Median  decimal.Decimal
	Records int
}

// RelativeOffer pairs a retail offer with the benchmark rate in force for
// its (EDC, month) bucket.
type RelativeOffer struct {
	RateObservation

	BenchmarkRate decimal.Decimal
	RelativeRate  decimal.Decimal
	Category      Category
}

// Category classifies an offer against its benchmark.
type Category string

const (
	CategoryAbove Category = "Above PTC"
	CategoryBelow Category = "Below PTC"
)

// Categorize applies the boundary rule: a zero relative rate counts as
// above the benchmark.
func Categorize(relative decimal.Decimal) Category {
	if relative.Sign() < 0 {
		return CategoryBelow
	}
	return CategoryAbove
}
