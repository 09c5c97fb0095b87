package market

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Raw rows mirror the store's result sets before any coercion. Numeric
// columns arrive as strings so a single bad value drops one row instead of
// aborting the whole scan.

// WholesaleRow is one (zone, day) price point in $/MWh.
type WholesaleRow struct {
	Date      time.Time
	Zone      string
	USDPerMWh string
}

// OfferRow is one retail offer from either feed. Fee columns the feed does
// not carry stay nil.
type OfferRow struct {
	Date     time.Time
	EDC      string
	EGS      string
	Rate     string
	Term     *int
	RateType string

	// WattBuy fee columns.
	EnrollmentFee *string
	MonthlyCharge *string
	EarlyTermFee  *string
	// OCAP fee column.
	CancelFee *string
}

// BenchmarkRow is one default-rate validity interval as stored.
type BenchmarkRow struct {
	EDC         string
	ServiceType string
	Rate        string
	Start       time.Time
	End         time.Time
}

// WholesaleSource provides daily wholesale prices.
type WholesaleSource interface {
	WholesaleDaily(ctx context.Context, from time.Time) ([]WholesaleRow, error)
}

// OfferSource provides the two retail offer feeds.
type OfferSource interface {
	WattBuyOffers(ctx context.Context, from time.Time) ([]OfferRow, error)
	OCAPOffers(ctx context.Context, from time.Time) ([]OfferRow, error)
}

// BenchmarkSource provides PTC validity intervals.
type BenchmarkSource interface {
	BenchmarkPeriods(ctx context.Context, from time.Time) ([]BenchmarkRow, error)
}

// serviceTypeLabels maps raw benchmark service-type codes to plan
// categories. Unmapped codes pass through unchanged.
var serviceTypeLabels = map[string]string{
	"R":   "Residential Default",
	"RS":  "Residential Default",
	"GS":  "General Service",
	"TOU": "Time of Use",
}

// usdPerMWhToCentsPerKWh converts $/MWh to ¢/kWh.
var usdPerMWhToCentsPerKWh = decimal.NewFromFloat(0.1)

// Bounds define the domain-validity window for rates. Rows outside it are
// dropped as entry errors, never clamped.
type Bounds struct {
	MaxCentsPerKWh decimal.Decimal
}

// DefaultBounds caps plausible Pennsylvania retail rates at 50¢/kWh.
func DefaultBounds() Bounds {
	return Bounds{MaxCentsPerKWh: decimal.NewFromInt(50)}
}

func (b Bounds) valid(rate decimal.Decimal) bool {
	return rate.IsPositive() && !rate.GreaterThan(b.MaxCentsPerKWh)
}

// Loaders pull raw rows for each source kind, coerce types, filter validity,
// and normalise entity names. Results are memoised in the injected cache;
// repeated calls with identical arguments never re-query the store.
type Loaders struct {
	wholesale  WholesaleSource
	offers     OfferSource
	benchmarks BenchmarkSource
	normalizer *Normalizer
	bounds     Bounds
	cache      *Cache
	logger     zerolog.Logger
}

// NewLoaders wires the three sources into a loader set.
func NewLoaders(wholesale WholesaleSource, offers OfferSource, benchmarks BenchmarkSource, normalizer *Normalizer, bounds Bounds, cache *Cache, logger zerolog.Logger) *Loaders {
	return &Loaders{
		wholesale:  wholesale,
		offers:     offers,
		benchmarks: benchmarks,
		normalizer: normalizer,
		bounds:     bounds,
		cache:      cache,
		logger:     logger.With().Str("component", "loaders").Logger(),
	}
}

// LoadWholesale returns one observation per (zone, month): the arithmetic
// mean of the zone's daily $/MWh prices converted to ¢/kWh. Months whose
// converted mean falls outside the validity bounds are dropped.
func (l *Loaders) LoadWholesale(ctx context.Context, from time.Time) ([]RateObservation, error) {
	const op = "wholesale"
	if cached, ok := l.cache.Get(op, from.Format(time.DateOnly)); ok {
		return cached.([]RateObservation), nil
	}

	rows, err := l.wholesale.WholesaleDaily(ctx, from)
	if err != nil {
		return nil, unavailable(SourcePJM, err)
	}

	type zoneMonth struct {
		zone   string
		bucket time.Time
	}
	daily := make(map[zoneMonth][]decimal.Decimal)
	for _, row := range rows {
		price, err := decimal.NewFromString(row.USDPerMWh)
		if err != nil {
			l.logger.Warn().Str("zone", row.Zone).Time("date", row.Date).Msg("dropping wholesale row with malformed price")
			continue
		}
		key := zoneMonth{zone: row.Zone, bucket: monthStart(row.Date)}
		daily[key] = append(daily[key], price)
	}

	observations := make([]RateObservation, 0, len(daily))
	for key, prices := range daily {
		rate := mean(prices).Mul(usdPerMWhToCentsPerKWh)
		if !l.bounds.valid(rate) {
			continue
		}
		observations = append(observations, RateObservation{
			Zone:   key.zone,
			Bucket: key.bucket,
			Rate:   rate,
			Source: SourcePJM,
		})
	}
	sortObservations(observations)

	l.cache.Set(op, observations, from.Format(time.DateOnly))
	return observations, nil
}

// LoadOffers returns both retail feeds combined, each row tagged with its
// source and carrying its own feed's fee shape. Fee values stay nullable:
// an absent fee is unknown, not zero.
func (l *Loaders) LoadOffers(ctx context.Context, from time.Time) ([]RateObservation, error) {
	const op = "offers"
	if cached, ok := l.cache.Get(op, from.Format(time.DateOnly)); ok {
		return cached.([]RateObservation), nil
	}

	wattbuy, err := l.offers.WattBuyOffers(ctx, from)
	if err != nil {
		return nil, unavailable(SourceWattBuy, err)
	}
	ocap, err := l.offers.OCAPOffers(ctx, from)
	if err != nil {
		return nil, unavailable(SourceOCAP, err)
	}

	observations := make([]RateObservation, 0, len(wattbuy)+len(ocap))
	for _, row := range wattbuy {
		obs, ok := l.coerceOffer(row, SourceWattBuy)
		if ok {
			observations = append(observations, obs)
		}
	}
	for _, row := range ocap {
		obs, ok := l.coerceOffer(row, SourceOCAP)
		if ok {
			observations = append(observations, obs)
		}
	}
	sortObservations(observations)

	l.cache.Set(op, observations, from.Format(time.DateOnly))
	return observations, nil
}

func (l *Loaders) coerceOffer(row OfferRow, source Source) (RateObservation, bool) {
	rate, err := decimal.NewFromString(row.Rate)
	if err != nil {
		l.logger.Warn().Str("edc", row.EDC).Str("egs", row.EGS).Time("date", row.Date).Str("source", string(source)).Msg("dropping offer row with malformed rate")
		return RateObservation{}, false
	}
	if !l.bounds.valid(rate) {
		return RateObservation{}, false
	}

	var fees FeeSchedule
	var feeErr bool
	if source == SourceWattBuy {
		schedule := WattBuyFees{}
		schedule.Enrollment, feeErr = l.coerceFee(row, row.EnrollmentFee, feeErr)
		schedule.Monthly, feeErr = l.coerceFee(row, row.MonthlyCharge, feeErr)
		schedule.EarlyTermination, feeErr = l.coerceFee(row, row.EarlyTermFee, feeErr)
		fees = schedule
	} else {
		schedule := OCAPFees{}
		schedule.Cancel, feeErr = l.coerceFee(row, row.CancelFee, feeErr)
		fees = schedule
	}
	if feeErr {
		return RateObservation{}, false
	}

	rateType := RateTypeUnknown
	if row.RateType != "" {
		rateType = RateType(row.RateType)
	}

	return RateObservation{
		EDC:        l.normalizer.Normalize(row.EDC),
		EGS:        row.EGS,
		Bucket:     monthStart(row.Date),
		Rate:       rate,
		Source:     source,
		TermMonths: row.Term,
		RateType:   rateType,
		Fees:       fees,
	}, true
}

func (l *Loaders) coerceFee(row OfferRow, raw *string, failed bool) (*decimal.Decimal, bool) {
	if raw == nil {
		return nil, failed
	}
	fee, err := decimal.NewFromString(*raw)
	if err != nil {
		l.logger.Warn().Str("edc", row.EDC).Str("egs", row.EGS).Time("date", row.Date).Msg("dropping offer row with malformed fee")
		return nil, true
	}
	return &fee, failed
}

// LoadBenchmarks returns PTC validity intervals with reversed date ranges
// corrected and service-type codes mapped to plan categories.
func (l *Loaders) LoadBenchmarks(ctx context.Context, from time.Time) ([]BenchmarkPeriod, error) {
	const op = "benchmarks"
	if cached, ok := l.cache.Get(op, from.Format(time.DateOnly)); ok {
		return cached.([]BenchmarkPeriod), nil
	}

	rows, err := l.benchmarks.BenchmarkPeriods(ctx, from)
	if err != nil {
		return nil, unavailable(SourcePTC, err)
	}

	periods := make([]BenchmarkPeriod, 0, len(rows))
	for _, row := range rows {
		rate, err := decimal.NewFromString(row.Rate)
		if err != nil {
			l.logger.Warn().Str("edc", row.EDC).Time("start", row.Start).Msg("dropping benchmark row with malformed rate")
			continue
		}
		if !l.bounds.valid(rate) {
			continue
		}

		start, end := row.Start, row.End
		if start.After(end) {
			l.logger.Debug().Str("edc", row.EDC).Time("start", start).Time("end", end).Msg("correcting reversed benchmark period")
			start, end = end, start
		}

		label := row.ServiceType
		if mapped, ok := serviceTypeLabels[label]; ok {
			label = mapped
		}

		periods = append(periods, BenchmarkPeriod{
			EDC:         l.normalizer.Normalize(row.EDC),
			ServiceType: label,
			Rate:        rate,
			Start:       start,
			End:         end,
		})
	}
	sort.Slice(periods, func(i, j int) bool {
		if periods[i].EDC != periods[j].EDC {
			return periods[i].EDC < periods[j].EDC
		}
		return periods[i].Start.Before(periods[j].Start)
	})

	l.cache.Set(op, periods, from.Format(time.DateOnly))
	return periods, nil
}

func sortObservations(observations []RateObservation) {
	sort.SliceStable(observations, func(i, j int) bool {
		if !observations[i].Bucket.Equal(observations[j].Bucket) {
			return observations[i].Bucket.Before(observations[j].Bucket)
		}
		if observations[i].EDC != observations[j].EDC {
			return observations[i].EDC < observations[j].EDC
		}
		return observations[i].Zone < observations[j].Zone
	})
}
