package sensitivity

import (
	"math"
	"sort"

	"golang.org/x/exp/rand"
)

// DefaultResamples and DefaultCI are the outcome-mapping bootstrap defaults
// spec.md §4.I names: "default 100 resamples, 95% percentile CI".
const (
	DefaultResamples = 100
	DefaultCILevel   = 0.95
)

// BehavioralRule classifies a (column-normalized) output value as
// behavioral or not.
type BehavioralRule func(output float64) bool

// OutcomeCell is one (factor, slice) entry of the outcome map: the
// bootstrap mean of the behavioral indicator plus its percentile CI.
// Missing marks an empty cell (spec.md §4.I "Empty cells are missing").
type OutcomeCell struct {
	Mean, LowerCI, UpperCI float64
	Missing                bool
}

// OutcomeMap computes the behavioral outcome map over input matrix x (N x
// D, row-major) and output vector y (length N, already column-normalized
// by the caller), per spec.md §4.I "Outcome map". rng drives the balanced
// bootstrap resampling and should be supplied by the caller for
// reproducibility.
func OutcomeMap(x []float64, d, n int, y []float64, rule BehavioralRule, slices, resamples int, ciLevel float64, rng *rand.Rand) [][]OutcomeCell {
	if slices <= 0 {
		slices = DefaultSlices
	}
	if resamples <= 0 {
		resamples = DefaultResamples
	}
	if ciLevel <= 0 {
		ciLevel = DefaultCILevel
	}

	behavioral := make([]float64, n)
	anyBehavioral := false
	for i, v := range y {
		if rule(v) {
			behavioral[i] = 1
			anyBehavioral = true
		}
	}

	out := make([][]OutcomeCell, d)
	for factor := 0; factor < d; factor++ {
		out[factor] = make([]OutcomeCell, slices)
		if !anyBehavioral {
			for s := range out[factor] {
				out[factor][s] = OutcomeCell{Missing: true}
			}
			continue
		}

		col := extractColumn(x, factor, d, n)
		bounds := quantileBoundaries(col, slices)

		for s := 0; s < slices; s++ {
			idx := sliceIndices(col, bounds, s)
			if len(idx) == 0 {
				out[factor][s] = OutcomeCell{Missing: true}
				continue
			}
			sample := subset(behavioral, idx)
			out[factor][s] = bootstrapCell(sample, resamples, ciLevel, rng)
		}
	}
	return out
}

// bootstrapCell runs balanced bootstrap resampling over sample and returns
// the mean and percentile CI of the resample means.
func bootstrapCell(sample []float64, resamples int, ciLevel float64, rng *rand.Rand) OutcomeCell {
	n := len(sample)
	if n == 0 {
		return OutcomeCell{Missing: true}
	}

	pool := balancedPool(n, resamples, rng)
	means := make([]float64, resamples)
	for r := 0; r < resamples; r++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += sample[pool[r*n+i]]
		}
		means[r] = sum / float64(n)
	}

	mean := 0.0
	for _, v := range sample {
		mean += v
	}
	mean /= float64(n)

	sort.Float64s(means)
	alpha := 1 - ciLevel
	lowerIdx := percentileIndex(len(means), alpha/2)
	upperIdx := percentileIndex(len(means), 1-alpha/2)

	return OutcomeCell{
		Mean:    mean,
		LowerCI: means[lowerIdx],
		UpperCI: means[upperIdx],
	}
}

// balancedPool builds the index pool for a balanced bootstrap: each
// original index appears exactly `resamples` times across the full pool,
// shuffled, then sliced into `resamples` draws of size n each.
func balancedPool(n, resamples int, rng *rand.Rand) []int {
	total := n * resamples
	pool := make([]int, total)
	for i := 0; i < total; i++ {
		pool[i] = i % n
	}
	rng.Shuffle(total, func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool
}

func percentileIndex(n int, p float64) int {
	if n == 0 {
		return 0
	}
	idx := int(math.Round(p * float64(n-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return idx
}
