// Package sensitivity implements the PAWN, RSA and outcome-mapping
// sensitivity analyses of spec.md §4.I. Grounded on the teacher's
// analysis/solution_analyzer.go (a standalone CLI that recomputes ranking
// sensitivity by perturbing weights), generalized into a proper package
// using gonum.org/v1/gonum/stat and gonum.org/v1/gonum/floats for the
// distributional primitives the teacher's tool lacked. The two-sample
// Kolmogorov-Smirnov statistic and the k-sample Anderson-Darling statistic
// have no stable counterpart anywhere in gonum or the rest of the example
// corpus, so both are hand-rolled here on top of gonum/stat's sorted-
// sample helpers; see DESIGN.md.
package sensitivity

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// quantileBoundaries returns the S+1 boundary values of x split into S
// equal-probability slices (spec.md §4.I.1: "quantile boundaries at 0,
// 1/S, 2/S, ..., 1").
func quantileBoundaries(x []float64, slices int) []float64 {
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	bounds := make([]float64, slices+1)
	for i := 0; i <= slices; i++ {
		p := float64(i) / float64(slices)
		bounds[i] = stat.Quantile(p, stat.Empirical, sorted, nil)
	}
	return bounds
}

// sliceIndices returns the indices of x whose value falls in slice s
// (0-based) of [0,slices), left-inclusive-right-inclusive for s == 0,
// left-exclusive-right-inclusive otherwise (spec.md §4.I.2).
func sliceIndices(x []float64, bounds []float64, s int) []int {
	lo, hi := bounds[s], bounds[s+1]
	var idx []int
	for i, v := range x {
		var in bool
		if s == 0 {
			in = v >= lo && v <= hi
		} else {
			in = v > lo && v <= hi
		}
		if in {
			idx = append(idx, i)
		}
	}
	return idx
}

func subset(y []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, k := range idx {
		out[i] = y[k]
	}
	return out
}

// ecdfAt evaluates the empirical CDF of sorted sample s at x.
func ecdfAt(sorted []float64, x float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	i := sort.SearchFloat64s(sorted, x)
	// SearchFloat64s finds the first index with sorted[i] >= x; we want the
	// count of values <= x.
	for i < n && sorted[i] == x {
		i++
	}
	return float64(i) / float64(n)
}

// twoSampleKS computes the unscaled KS statistic sup|F_a - F_b| between
// two samples (spec.md §4.I.3), and the sample-size-scaled statistic
// sqrt((n_a*n_b)/(n_a+n_b)) * D.
func twoSampleKS(a, b []float64) (d, scaled float64) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0
	}
	sortedA := append([]float64(nil), a...)
	sortedB := append([]float64(nil), b...)
	sort.Float64s(sortedA)
	sort.Float64s(sortedB)

	points := append(append([]float64(nil), sortedA...), sortedB...)
	sort.Float64s(points)

	for _, x := range points {
		diff := math.Abs(ecdfAt(sortedA, x) - ecdfAt(sortedB, x))
		if diff > d {
			d = diff
		}
	}
	na, nb := float64(len(a)), float64(len(b))
	scaled = math.Sqrt((na*nb)/(na+nb)) * d
	return d, scaled
}

// summary6 computes the six PAWN/RSA summary statistics over a slice of
// per-factor statistics (spec.md §4.I.4): min, mean, median, max, std, cv.
// Non-finite inputs are dropped before aggregation; an all-non-finite or
// empty input yields all-zero output (spec.md §4.I.5).
func summary6(values []float64) [6]float64 {
	var clean []float64
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return [6]float64{}
	}
	sorted := append([]float64(nil), clean...)
	sort.Float64s(sorted)

	min := sorted[0]
	max := sorted[len(sorted)-1]
	mean := stat.Mean(clean, nil)
	median := stat.Quantile(0.5, stat.Empirical, sorted, nil)
	std := stat.StdDev(clean, nil)
	cv := 0.0
	if mean != 0 {
		cv = std / mean
	}
	return finite6([6]float64{min, mean, median, max, std, cv})
}

func finite6(v [6]float64) [6]float64 {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			v[i] = 0
		}
	}
	return v
}

// andersonDarlingKSample computes the k-sample Anderson-Darling A2 akN
// statistic (without the small-sample correction) between two samples,
// spec.md §4.I RSA step. Samples with fewer than 2 distinct pooled values
// are not well-defined and the caller is expected to check that first.
func andersonDarlingKSample(a, b []float64) float64 {
	pooled := append(append([]float64(nil), a...), b...)
	sort.Float64s(pooled)
	distinct := distinctSorted(pooled)
	n := len(pooled)
	if n == 0 || len(distinct) < 2 {
		return 0
	}

	sortedA := append([]float64(nil), a...)
	sortedB := append([]float64(nil), b...)
	sort.Float64s(sortedA)
	sort.Float64s(sortedB)

	na := float64(len(a))
	nTotal := float64(n)

	var sum float64
	// Midpoint-of-distinct-values formulation, skipping the final boundary
	// where the denominator vanishes.
	for i := 0; i < len(distinct)-1; i++ {
		mj := countLE(pooled, distinct[i])
		fj := countLE(sortedA, distinct[i])
		term := (nTotal*float64(fj) - na*float64(mj)) * (nTotal*float64(fj) - na*float64(mj))
		denom := float64(mj) * (nTotal - float64(mj))
		if denom <= 0 {
			continue
		}
		sum += term / denom
	}
	return sum / (na * (nTotal - na))
}

func distinctSorted(sorted []float64) []float64 {
	var out []float64
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}

func countLE(sorted []float64, v float64) int {
	return sort.SearchFloat64s(sorted, math.Nextafter(v, math.Inf(1)))
}
