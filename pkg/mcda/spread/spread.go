// Package spread implements the spatial-spread filter of spec.md §4.C:
// given a ranked candidate list, greedily accept top-ranked sites subject
// to a minimum pairwise-distance constraint, replacing rejected sites from
// the remainder of the ranking, falling back to a best-effort selection
// when the constraint cannot be fully satisfied. Grounded on the teacher's
// constraints.CombineConstraints sequential-filter style.
package spread

import (
	"github.com/opencoral/adria/pkg/apierrors"
	"github.com/opencoral/adria/pkg/mcda/framework"
)

// Apply selects up to n sites from ranked (already sorted best-first),
// enforcing that every pair of selected sites is at least minDist apart in
// dist. If the ranked list is exhausted before n sites are accepted, the
// remaining slots are filled from the rejected sites in rank order,
// regardless of distance, and a DegenerateDistanceSort diagnostic is
// recorded once.
func Apply(
	ranked []framework.RankedSite,
	dist [][]float64,
	minDist float64,
	n int,
	diagnostics *apierrors.Diagnostics,
	year int,
) []framework.RankedSite {
	if n <= 0 || len(ranked) == 0 {
		return nil
	}
	if n >= len(ranked) {
		n = len(ranked)
	}

	selected := make([]framework.RankedSite, 0, n)
	rejected := make([]framework.RankedSite, 0)

	for _, cand := range ranked {
		if len(selected) == n {
			break
		}
		if farEnough(cand.LocationIndex, selected, dist, minDist) {
			selected = append(selected, cand)
		} else {
			rejected = append(rejected, cand)
		}
	}

	if len(selected) < n {
		if diagnostics != nil {
			diagnostics.Record(apierrors.DegenerateDistanceSort, year,
				"spread filter could not place %d of %d requested sites at min distance %.3f; falling back to best-effort fill",
				n-len(selected), n, minDist)
		}
		for _, cand := range rejected {
			if len(selected) == n {
				break
			}
			selected = append(selected, cand)
		}
	}

	return selected
}

func farEnough(candidate int, selected []framework.RankedSite, dist [][]float64, minDist float64) bool {
	for _, s := range selected {
		if dist[candidate][s.LocationIndex] < minDist {
			return false
		}
	}
	return true
}
