package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chm626/LehighEnergySymposium/internal/market"
)

// TermCategory buckets offer term lengths for the summary table.
type TermCategory string

const (
	Term12      TermCategory = "12"
	TermUnder12 TermCategory = "< 12"
	TermOver12  TermCategory = "> 12"
	TermUnknown TermCategory = "Unknown"
)

func termCategoryOf(term *int) TermCategory {
	switch {
	case term == nil:
		return TermUnknown
	case *term == 12:
		return Term12
	case *term < 12:
		return TermUnder12
	default:
		return TermOver12
	}
}

var termCategoryOrder = []TermCategory{Term12, TermUnder12, TermOver12, TermUnknown}

// MonthlyShare is the per-month split of offers above and below the
// benchmark.
type MonthlyShare struct {
	Bucket   time.Time
	Above    int
	Below    int
	Total    int
	PctAbove decimal.Decimal
	PctBelow decimal.Decimal
}

// EDCShare is the per-EDC split of offers above and below the benchmark.
type EDCShare struct {
	EDC      string
	Above    int
	Below    int
	Total    int
	PctAbove decimal.Decimal
	PctBelow decimal.Decimal
}

// TermSummary describes relative rates within one term-length category.
type TermSummary struct {
	Category       TermCategory
	Total          int
	Above          int
	Below          int
	PctAbove       decimal.Decimal
	PctBelow       decimal.Decimal
	MeanRelative   decimal.Decimal
	MedianRelative decimal.Decimal
	MeanOffer      decimal.Decimal
	MeanBenchmark  decimal.Decimal
}

// OffersResult is the full EGS-vs-PTC relative analysis.
type OffersResult struct {
	EDC       string
	Conformed bool
	Offers    []market.RelativeOffer
	Monthly   []MonthlyShare
	ByEDC     []EDCShare
	ByTerm    []TermSummary
}

// RelativeOffers inner-joins individual retail offers against the expanded
// benchmark series and classifies every offer above or below its PTC rate.
// Offers predating the comparison floor or lacking a benchmark counterpart
// are dropped, so an empty result means "no overlapping data", not an error.
func (s *Service) RelativeOffers(ctx context.Context, edc string, conform bool) (OffersResult, error) {
	result := OffersResult{EDC: edc, Conformed: conform}
	if edc == "" {
		result.EDC = market.AllEDCs
	}

	offersFrom, err := s.data.OffersFrom()
	if err != nil {
		return OffersResult{}, err
	}

	offers, err := s.loaders.LoadOffers(ctx, s.from())
	if err != nil {
		return OffersResult{}, err
	}
	offers = filterFromBucket(filterByEDC(offers, edc), offersFrom)
	if conform {
		offers = market.Conformed(offers)
	}

	benchmarks, err := s.monthlyBenchmarks(ctx)
	if err != nil {
		return OffersResult{}, err
	}

	result.Offers = market.JoinRelative(offers, benchmarks)
	result.Monthly = monthlyShares(result.Offers)
	result.ByEDC = edcShares(result.Offers)
	result.ByTerm = termSummaries(result.Offers)
	return result, nil
}

func monthlyShares(offers []market.RelativeOffer) []MonthlyShare {
	byBucket := make(map[time.Time]*MonthlyShare)
	for _, offer := range offers {
		share, ok := byBucket[offer.Bucket]
		if !ok {
			share = &MonthlyShare{Bucket: offer.Bucket}
			byBucket[offer.Bucket] = share
		}
		share.Total++
		if offer.Category == market.CategoryAbove {
			share.Above++
		} else {
			share.Below++
		}
	}

	out := make([]MonthlyShare, 0, len(byBucket))
	for _, share := range byBucket {
		share.PctAbove = percentage(share.Above, share.Total)
		share.PctBelow = percentage(share.Below, share.Total)
		out = append(out, *share)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Bucket.Before(out[j].Bucket) })
	return out
}

func edcShares(offers []market.RelativeOffer) []EDCShare {
	byEDC := make(map[string]*EDCShare)
	for _, offer := range offers {
		share, ok := byEDC[offer.EDC]
		if !ok {
			share = &EDCShare{EDC: offer.EDC}
			byEDC[offer.EDC] = share
		}
		share.Total++
		if offer.Category == market.CategoryAbove {
			share.Above++
		} else {
			share.Below++
		}
	}

	out := make([]EDCShare, 0, len(byEDC))
	for _, share := range byEDC {
		share.PctAbove = percentage(share.Above, share.Total)
		share.PctBelow = percentage(share.Below, share.Total)
		out = append(out, *share)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EDC < out[j].EDC })
	return out
}

func termSummaries(offers []market.RelativeOffer) []TermSummary {
	type group struct {
		relative   []decimal.Decimal
		offerRates []decimal.Decimal
		benchmarks []decimal.Decimal
		above      int
	}
	groups := make(map[TermCategory]*group)
	for _, offer := range offers {
		category := termCategoryOf(offer.TermMonths)
		g, ok := groups[category]
		if !ok {
			g = &group{}
			groups[category] = g
		}
		g.relative = append(g.relative, offer.RelativeRate)
		g.offerRates = append(g.offerRates, offer.Rate)
		g.benchmarks = append(g.benchmarks, offer.BenchmarkRate)
		if offer.Category == market.CategoryAbove {
			g.above++
		}
	}

	out := make([]TermSummary, 0, len(groups))
	for _, category := range termCategoryOrder {
		g, ok := groups[category]
		if !ok {
			continue
		}
		total := len(g.relative)
		out = append(out, TermSummary{
			Category:       category,
			Total:          total,
			Above:          g.above,
			Below:          total - g.above,
			PctAbove:       percentage(g.above, total),
			PctBelow:       percentage(total-g.above, total),
			MeanRelative:   meanOf(g.relative),
			MedianRelative: medianOf(g.relative),
			MeanOffer:      meanOf(g.offerRates),
			MeanBenchmark:  meanOf(g.benchmarks),
		})
	}
	return out
}

var hundred = decimal.NewFromInt(100)

func percentage(part, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).Mul(hundred).Div(decimal.NewFromInt(int64(total))).Round(2)
}

func meanOf(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(values[0], values[1:]...).Div(decimal.NewFromInt(int64(len(values))))
}

func medianOf(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2))
}
