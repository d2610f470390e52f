package sensitivity

import "gonum.org/v1/gonum/floats"

// DefaultSlices is the PAWN/RSA slice count spec.md §4.I calls "S slice
// count (default 10)".
const DefaultSlices = 10

// FactorResult is one factor's six PAWN/RSA summary statistics: min, mean,
// median, max, std, cv, in that order (spec.md §4.I.4).
type FactorResult [6]float64

// PAWN computes the PAWN sensitivity index over input matrix x (N rows x D
// columns, row-major) and output vector y (length N), per spec.md §4.I's
// PAWN index steps 1-5.
func PAWN(x []float64, d, n int, y []float64, slices int) []FactorResult {
	if slices <= 0 {
		slices = DefaultSlices
	}
	results := make([]FactorResult, d)
	for factor := 0; factor < d; factor++ {
		col := extractColumn(x, factor, d, n)
		results[factor] = pawnFactor(col, y, slices)
	}
	return results
}

func extractColumn(x []float64, col, d, n int) []float64 {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = x[i*d+col]
	}
	return out
}

func pawnFactor(col, y []float64, slices int) FactorResult {
	bounds := quantileBoundaries(col, slices)
	stats := make([]float64, 0, slices)
	for s := 0; s < slices; s++ {
		idx := sliceIndices(col, bounds, s)
		if len(idx) == 0 {
			continue
		}
		ySlice := subset(y, idx)
		ks, _ := twoSampleKS(ySlice, y)
		stats = append(stats, ks)
	}
	return FactorResult(summary6(stats))
}

// TemporalPAWN applies PAWN to prefix-mean outcomes through each of T time
// steps (spec.md §4.I "Temporal PAWN"): outcomes is T x N, row-major,
// column-normalized per time slice. Returns a D x 6 x T tensor, row-major.
func TemporalPAWN(x []float64, d, n int, outcomes []float64, t, slices int) []float64 {
	if slices <= 0 {
		slices = DefaultSlices
	}
	out := make([]float64, d*6*t)
	prefixSum := make([]float64, n)

	for step := 0; step < t; step++ {
		rowStart := step * n
		floats.Add(prefixSum, outcomes[rowStart:rowStart+n])
		prefixMean := make([]float64, n)
		copy(prefixMean, prefixSum)
		floats.Scale(1/float64(step+1), prefixMean)

		results := PAWN(x, d, n, prefixMean, slices)
		normalizeColumnsMax(results)

		for factor := 0; factor < d; factor++ {
			for stat := 0; stat < 6; stat++ {
				out[(factor*6+stat)*t+step] = results[factor][stat]
			}
		}
	}
	return out
}

// normalizeColumnsMax max-scales each of the six summary columns across
// factors to aid comparison (spec.md §4.I "column-normalized (max-scaled)").
func normalizeColumnsMax(results []FactorResult) {
	var maxes [6]float64
	for _, r := range results {
		for i, v := range r {
			if v > maxes[i] {
				maxes[i] = v
			}
		}
	}
	for i := range results {
		for j, m := range maxes {
			if m > 0 {
				results[i][j] /= m
			}
		}
	}
}
