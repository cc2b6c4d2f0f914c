package stats

import (
	"math"
	"sort"
)

// Aggregate holds descriptive statistics over one latency dimension.
// Count 0 means no samples; the remaining fields are zero (not NaN) so
// downstream comparisons stay total; callers check Count before trusting
// them.
type Aggregate struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
	P99    float64 `json:"p99"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Compute aggregates a sample set. Input order does not matter; the
// samples are copied and sorted internally. Callers filter out missing
// values before calling.
func Compute(samples []float64) Aggregate {
	n := len(samples)
	if n == 0 {
		return Aggregate{}
	}

	sorted := make([]float64, n)
	copy(sorted, samples)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}

	return Aggregate{
		Count:  n,
		Mean:   sum / float64(n),
		Median: median(sorted),
		P90:    Percentile(sorted, 0.90),
		P99:    Percentile(sorted, 0.99),
		Min:    sorted[0],
		Max:    sorted[n-1],
	}
}

// median averages the two middle values for even-length input.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Percentile returns the value at the given percentile (0.0-1.0) from a
// sorted slice using nearest-rank: index = ceil(p*n)-1, clamped. An
// existing sample is always selected, never an interpolation, which
// matters at the small sample counts barge-in runs produce.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
