package market

import (
	"sort"
	"time"
)

type seriesKey struct {
	edc    string
	bucket time.Time
}

// Merge combines observation series on (EDC, bucket). When more than one
// ranked source reports the same key, only the rows from the best-ranked
// source survive (lower index in priority wins). Rows from sources absent
// from priority are never deduplicated against anything; for them the merge
// degenerates to concatenation, which is how coexisting retail offers stay
// intact.
func Merge(priority []Source, series ...[]RateObservation) []RateObservation {
	rank := make(map[Source]int, len(priority))
	for i, source := range priority {
		rank[source] = i
	}

	best := make(map[seriesKey]int)
	for _, obs := range flatten(series) {
		r, ranked := rank[obs.Source]
		if !ranked {
			continue
		}
		key := seriesKey{edc: obs.EDC, bucket: obs.Bucket}
		if current, ok := best[key]; !ok || r < current {
			best[key] = r
		}
	}

	var out []RateObservation
	for _, obs := range flatten(series) {
		if r, ranked := rank[obs.Source]; ranked {
			key := seriesKey{edc: obs.EDC, bucket: obs.Bucket}
			if r != best[key] {
				continue
			}
			// Within the winning source, keep exactly one row per key.
			if containsKey(out, key, obs.Source) {
				continue
			}
		}
		out = append(out, obs)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Bucket.Equal(out[j].Bucket) {
			return out[i].Bucket.Before(out[j].Bucket)
		}
		return out[i].EDC < out[j].EDC
	})
	return out
}

func flatten(series [][]RateObservation) []RateObservation {
	var out []RateObservation
	for _, s := range series {
		out = append(out, s...)
	}
	return out
}

func containsKey(observations []RateObservation, key seriesKey, source Source) bool {
	for _, obs := range observations {
		if obs.Source == source && obs.EDC == key.edc && obs.Bucket.Equal(key.bucket) {
			return true
		}
	}
	return false
}

// JoinRelative inner-joins retail offers against expanded benchmark rates on
// (EDC, bucket) and computes each offer's rate relative to the benchmark.
// Offers without a benchmark counterpart are dropped, not null-filled; they
// contribute nothing to a relative-rate computation.
func JoinRelative(offers, benchmarks []RateObservation) []RelativeOffer {
	rates := make(map[seriesKey]RateObservation, len(benchmarks))
	for _, b := range benchmarks {
		rates[seriesKey{edc: b.EDC, bucket: b.Bucket}] = b
	}

	out := make([]RelativeOffer, 0, len(offers))
	for _, offer := range offers {
		benchmark, ok := rates[seriesKey{edc: offer.EDC, bucket: offer.Bucket}]
		if !ok {
			continue
		}
		relative := offer.Rate.Sub(benchmark.Rate)
		out = append(out, RelativeOffer{
			RateObservation: offer,
			BenchmarkRate:   benchmark.Rate,
			RelativeRate:    relative,
			Category:        Categorize(relative),
		})
	}
	return out
}
