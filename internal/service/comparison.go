package service

import (
	"context"
	"sort"

	"github.com/chm626/LehighEnergySymposium/internal/market"
)

// ComparisonResult holds the three aligned monthly series for one EDC, or
// averaged across all EDCs when EDC is market.AllEDCs.
type ComparisonResult struct {
	EDC      string
	Zone     string
	EGSLabel market.Source

	PTC []market.AggregatePoint
	EGS []market.AggregatePoint
	PJM []market.AggregatePoint

	PTCSummary market.Summary
	EGSSummary market.Summary
	PJMSummary market.Summary
}

// Comparison produces aligned PTC / EGS-average / PJM monthly series. With
// an empty edc the series average across every EDC (and every wholesale
// zone). conform restricts the retail side to benchmark-comparable offers.
func (s *Service) Comparison(ctx context.Context, edc string, conform bool) (ComparisonResult, error) {
	result := ComparisonResult{EDC: edc, EGSLabel: market.SourceCombined}
	if edc == "" {
		result.EDC = market.AllEDCs
	}
	if conform {
		result.EGSLabel = market.SourceConformed
	}

	groupBy := market.ByEDCAndBucket
	if edc == "" {
		groupBy = market.ByBucket
	}

	benchmarks, err := s.monthlyBenchmarks(ctx)
	if err != nil {
		return ComparisonResult{}, err
	}
	benchmarks = filterByEDC(benchmarks, edc)
	result.PTC = market.Aggregate(benchmarks, groupBy, market.Mean, market.SourcePTC)
	result.PTCSummary = market.Describe(benchmarks)

	offers, err := s.loaders.LoadOffers(ctx, s.from())
	if err != nil {
		return ComparisonResult{}, err
	}
	offers = filterByEDC(offers, edc)
	if conform {
		offers = market.Conformed(offers)
	}
	result.EGS = market.Aggregate(offers, groupBy, market.Mean, result.EGSLabel)
	result.EGSSummary = market.Describe(offers)

	wholesale, err := s.loaders.LoadWholesale(ctx, s.from())
	if err != nil {
		return ComparisonResult{}, err
	}
	if edc != "" {
		zone, ok := s.normalizer.ZoneFor(edc)
		if !ok {
			// Unknown EDCs are valid; they simply have no wholesale zone.
			s.logger.Debug().Str("edc", edc).Msg("no wholesale zone mapped for edc")
			wholesale = nil
		} else {
			result.Zone = zone
			wholesale = filterByZone(wholesale, zone)
		}
	}
	result.PJM = market.Aggregate(wholesale, market.ByBucket, market.Mean, market.SourcePJM)
	result.PJMSummary = market.Describe(wholesale)

	return result, nil
}

// WholesaleResult holds per-zone monthly LMP series.
type WholesaleResult struct {
	Zones   []string
	Series  []market.AggregatePoint
	Summary market.Summary
}

// Wholesale returns monthly average LMP (¢/kWh) per zone, optionally
// restricted to a zone subset.
func (s *Service) Wholesale(ctx context.Context, zones []string) (WholesaleResult, error) {
	observations, err := s.loaders.LoadWholesale(ctx, s.from())
	if err != nil {
		return WholesaleResult{}, err
	}

	if len(zones) > 0 {
		keep := make(map[string]bool, len(zones))
		for _, zone := range zones {
			keep[zone] = true
		}
		filtered := observations[:0:0]
		for _, obs := range observations {
			if keep[obs.Zone] {
				filtered = append(filtered, obs)
			}
		}
		observations = filtered
	}

	result := WholesaleResult{Summary: market.Describe(observations)}
	seen := make(map[string]bool)
	for _, obs := range observations {
		if !seen[obs.Zone] {
			seen[obs.Zone] = true
			result.Zones = append(result.Zones, obs.Zone)
		}
		result.Series = append(result.Series, market.AggregatePoint{
			Bucket:  obs.Bucket,
			EDC:     obs.Zone,
			Value:   obs.Rate,
			Source:  market.SourcePJM,
			Records: 1,
		})
	}
	sort.Strings(result.Zones)
	return result, nil
}
