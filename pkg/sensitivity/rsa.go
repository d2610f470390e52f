package sensitivity

import "math"

// RSA computes regional sensitivity analysis over input matrix x (N x D,
// row-major) and output vector y (length N), using the k-sample
// Anderson-Darling statistic between each slice and its complement
// (spec.md §4.I "RSA"). Missing cells (fewer than 2 distinct pooled
// outputs, or a zero-length complement) are NaN; the caller's consumer is
// expected to treat NaN as "missing" per spec.md's failure-mode language.
// The S x D result is column-normalized (max-scaled per factor) before
// return.
func RSA(x []float64, d, n int, y []float64, slices int) []float64 {
	if slices <= 0 {
		slices = DefaultSlices
	}
	out := make([]float64, slices*d)

	for factor := 0; factor < d; factor++ {
		col := extractColumn(x, factor, d, n)
		bounds := quantileBoundaries(col, slices)

		colVals := make([]float64, slices)
		for s := 0; s < slices; s++ {
			inIdx := sliceIndices(col, bounds, s)
			outIdx := complement(n, inIdx)
			if len(outIdx) == 0 {
				colVals[s] = math.NaN()
				continue
			}
			inSample := subset(y, inIdx)
			outSample := subset(y, outIdx)
			if countDistinct(inSample, outSample) < 2 {
				colVals[s] = math.NaN()
				continue
			}
			colVals[s] = andersonDarlingKSample(inSample, outSample)
		}

		max := 0.0
		for _, v := range colVals {
			if !math.IsNaN(v) && v > max {
				max = v
			}
		}
		for s, v := range colVals {
			if math.IsNaN(v) {
				out[s*d+factor] = v
				continue
			}
			if max > 0 {
				v /= max
			}
			out[s*d+factor] = v
		}
	}
	return out
}

func complement(n int, idx []int) []int {
	mark := make([]bool, n)
	for _, i := range idx {
		mark[i] = true
	}
	var out []int
	for i := 0; i < n; i++ {
		if !mark[i] {
			out = append(out, i)
		}
	}
	return out
}

func countDistinct(a, b []float64) int {
	seen := make(map[float64]bool)
	for _, v := range a {
		seen[v] = true
	}
	for _, v := range b {
		seen[v] = true
	}
	return len(seen)
}

