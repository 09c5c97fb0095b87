package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/chm626/LehighEnergySymposium/internal/config"
	"github.com/chm626/LehighEnergySymposium/internal/market"
)

// benchmarkPriority ranks the sources that must resolve to exactly one row
// per (EDC, month). Retail offer sources are deliberately absent: their
// rows coexist and are never deduplicated against each other.
var benchmarkPriority = []market.Source{market.SourcePTC}

// Service composes the reconciliation engine into the analysis modules the
// CLI exposes. All computation is request-scoped; only loader results are
// memoised, inside the injected cache.
type Service struct {
	loaders    *market.Loaders
	normalizer *market.Normalizer
	data       config.DataConfig
	logger     zerolog.Logger
}

// New constructs the analytics service.
func New(loaders *market.Loaders, normalizer *market.Normalizer, data config.DataConfig, logger zerolog.Logger) *Service {
	return &Service{
		loaders:    loaders,
		normalizer: normalizer,
		data:       data,
		logger:     logger.With().Str("component", "service").Logger(),
	}
}

func (s *Service) from() time.Time {
	from, err := s.data.From()
	if err != nil {
		// Validated at config load; a parse failure here means the config
		// was mutated after validation.
		panic(err)
	}
	return from
}

// monthlyBenchmarks expands every benchmark period to monthly buckets and
// collapses duplicates so each (EDC, month) carries exactly one PTC rate.
func (s *Service) monthlyBenchmarks(ctx context.Context) ([]market.RateObservation, error) {
	periods, err := s.loaders.LoadBenchmarks(ctx, s.from())
	if err != nil {
		return nil, err
	}
	expanded := market.ExpandAll(periods, market.Monthly)
	return market.Merge(benchmarkPriority, expanded), nil
}

func filterByEDC(observations []market.RateObservation, edc string) []market.RateObservation {
	if edc == "" {
		return observations
	}
	out := make([]market.RateObservation, 0, len(observations))
	for _, obs := range observations {
		if obs.EDC == edc {
			out = append(out, obs)
		}
	}
	return out
}

func filterByZone(observations []market.RateObservation, zone string) []market.RateObservation {
	out := make([]market.RateObservation, 0, len(observations))
	for _, obs := range observations {
		if obs.Zone == zone {
			out = append(out, obs)
		}
	}
	return out
}

func filterFromBucket(observations []market.RateObservation, from time.Time) []market.RateObservation {
	out := make([]market.RateObservation, 0, len(observations))
	for _, obs := range observations {
		if !obs.Bucket.Before(from) {
			out = append(out, obs)
		}
	}
	return out
}
