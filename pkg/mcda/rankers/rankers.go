// Package rankers implements the three guided ranking algorithms of
// spec.md §4.B (OrderSum, TOPSIS, VIKOR) plus the integer-keyed registry
// the scenario runner uses to dispatch on McdaAlgorithm, grounded on the
// teacher's "an interface with a single rank(...) capability. Registration
// is a table keyed by an integer id." design note and its
// objectives/balance.go Config+Default+weighted-sum style.
package rankers

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/opencoral/adria/pkg/apierrors"
	"github.com/opencoral/adria/pkg/mcda/framework"
)

// OrderSum ranks by the sum of weighted, normalized criteria: highest sum
// wins (spec.md §4.B.1).
type OrderSum struct{}

func (OrderSum) Name() string { return "order_sum" }

func (OrderSum) Rank(m *framework.DecisionMatrix) []framework.RankedSite {
	n := m.NumRows()
	scored := make([]framework.RankedSite, n)
	for i := 0; i < n; i++ {
		scored[i] = framework.RankedSite{
			LocationIndex: m.LocationIndex[i],
			Score:         floats.Sum(m.Values[i]),
		}
	}
	return finalize(scored, true)
}

// TOPSIS ranks by relative closeness to the positive ideal solution
// (spec.md §4.B.2): C* = d_neg / (d_pos + d_neg), highest wins.
type TOPSIS struct{}

func (TOPSIS) Name() string { return "topsis" }

func (TOPSIS) Rank(m *framework.DecisionMatrix) []framework.RankedSite {
	n, c := m.NumRows(), m.NumCols()
	if n == 0 || c == 0 {
		return nil
	}

	idealPos := make([]float64, c)
	idealNeg := make([]float64, c)
	for j := 0; j < c; j++ {
		idealPos[j] = m.Values[0][j]
		idealNeg[j] = m.Values[0][j]
		for i := 1; i < n; i++ {
			v := m.Values[i][j]
			if v > idealPos[j] {
				idealPos[j] = v
			}
			if v < idealNeg[j] {
				idealNeg[j] = v
			}
		}
	}

	scored := make([]framework.RankedSite, n)
	for i := 0; i < n; i++ {
		dPos := euclidean(m.Values[i], idealPos)
		dNeg := euclidean(m.Values[i], idealNeg)
		denom := dPos + dNeg
		score := 0.0
		if denom > 0 {
			score = dNeg / denom
		}
		scored[i] = framework.RankedSite{LocationIndex: m.LocationIndex[i], Score: score}
	}
	return finalize(scored, true)
}

func euclidean(a, b []float64) float64 {
	diff := make([]float64, len(a))
	floats.SubTo(diff, a, b)
	return floats.Norm(diff, 2)
}

// VIKOR ranks by the compromise measure Q (spec.md §4.B.3). v is the
// "majority of criteria" weight, spec.md's default of 0.5.
type VIKOR struct {
	V float64
}

func NewVIKOR() VIKOR { return VIKOR{V: 0.5} }

func (VIKOR) Name() string { return "vikor" }

// Rank follows spec.md §4.B.3's literal definition: F is the single global
// max over every element of the weighted, normalized decision matrix S;
// A[l,c] = F - S[l,c]; Sr_l = sum_c A[l,c]; R_l = max_c A[l,c]; Q_l blends
// the min-max normalized Sr and R with weight v; score_l = 1 - Q_l, so
// larger is better, same convention as OrderSum and TOPSIS.
func (r VIKOR) Rank(m *framework.DecisionMatrix) []framework.RankedSite {
	n, c := m.NumRows(), m.NumCols()
	if n == 0 || c == 0 {
		return nil
	}
	v := r.V
	if v == 0 {
		v = 0.5
	}

	f := m.Values[0][0]
	for i := 0; i < n; i++ {
		for j := 0; j < c; j++ {
			if m.Values[i][j] > f {
				f = m.Values[i][j]
			}
		}
	}

	sr := make([]float64, n)
	rr := make([]float64, n)
	for i := 0; i < n; i++ {
		var s, rMax float64
		for j := 0; j < c; j++ {
			a := f - m.Values[i][j]
			s += a
			if a > rMax {
				rMax = a
			}
		}
		sr[i] = s
		rr[i] = rMax
	}

	sMin, sMax := minMax(sr)
	rMin, rMax := minMax(rr)

	scored := make([]framework.RankedSite, n)
	for i := 0; i < n; i++ {
		var qS, qR float64
		if sMax > sMin {
			qS = (sr[i] - sMin) / (sMax - sMin)
		}
		if rMax > rMin {
			qR = (rr[i] - rMin) / (rMax - rMin)
		}
		q := v*qS + (1-v)*qR
		scored[i] = framework.RankedSite{LocationIndex: m.LocationIndex[i], Score: 1 - q}
	}
	return finalize(scored, true)
}

func minMax(v []float64) (min, max float64) {
	min, max = v[0], v[0]
	for _, x := range v[1:] {
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}
	return
}

// finalize sorts by score (descending if higherIsBetter, else ascending),
// breaking ties on LocationIndex for determinism (spec.md §8 "ties break
// on location index, ascending"), and assigns 1-based ranks.
func finalize(scored []framework.RankedSite, higherIsBetter bool) []framework.RankedSite {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score == scored[j].Score {
			return scored[i].LocationIndex < scored[j].LocationIndex
		}
		if higherIsBetter {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Score < scored[j].Score
	})
	for i := range scored {
		scored[i].Rank = i + 1
	}
	return scored
}

// Registry maps the wire-level McdaAlgorithm id to its Ranker, spec.md's
// "registration is a table keyed by an integer id" design note.
var registry = map[int]framework.Ranker{
	1: OrderSum{},
	2: TOPSIS{},
	3: NewVIKOR(),
}

// Lookup returns the Ranker for id, or an UnknownMcdaMethod error if id is
// not registered (spec.md §7): fatal for the scenario, which the runner
// flags as failed; the rest of the batch still runs.
func Lookup(id int) (framework.Ranker, error) {
	r, ok := registry[id]
	if !ok {
		return nil, apierrors.New(apierrors.UnknownMcdaMethod, "no ranker registered for mcda id %d", id)
	}
	return r, nil
}
