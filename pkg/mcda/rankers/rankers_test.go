package rankers

import (
	"math"
	"testing"

	"github.com/opencoral/adria/pkg/mcda/framework"
)

// TestTOPSISThreeByTwo matches spec.md §8's concrete end-to-end scenario:
// S before normalization = [[1,4],[2,5],[3,6]] with weights [0.5, 0.5].
// After L2-normalizing columns and applying equal weights, TOPSIS scores
// should be approximately [0.0, 0.5, 1.0], monotone in the inputs.
func TestTOPSISThreeByTwo(t *testing.T) {
	sqrt14 := math.Sqrt(14)
	sqrt77 := math.Sqrt(77)

	m := &framework.DecisionMatrix{
		Columns:       []string{"a", "b"},
		LocationIndex: []int{0, 1, 2},
		Values: [][]float64{
			{0.5 * 1 / sqrt14, 0.5 * 4 / sqrt77},
			{0.5 * 2 / sqrt14, 0.5 * 5 / sqrt77},
			{0.5 * 3 / sqrt14, 0.5 * 6 / sqrt77},
		},
		Weights: []float64{0.5, 0.5},
	}

	ranked := TOPSIS{}.Rank(m)
	if len(ranked) != 3 {
		t.Fatalf("got %d ranked sites, want 3", len(ranked))
	}

	byLoc := make(map[int]float64)
	for _, r := range ranked {
		byLoc[r.LocationIndex] = r.Score
	}

	if byLoc[0] >= byLoc[1] || byLoc[1] >= byLoc[2] {
		t.Fatalf("TOPSIS scores not monotone in inputs: %v", byLoc)
	}
	if math.Abs(byLoc[0]-0.0) > 0.05 {
		t.Errorf("location 0 score = %.4f, want near 0.0", byLoc[0])
	}
	if math.Abs(byLoc[2]-1.0) > 0.05 {
		t.Errorf("location 2 score = %.4f, want near 1.0", byLoc[2])
	}

	// Best score (location 2) must be rank 1.
	for _, r := range ranked {
		if r.LocationIndex == 2 && r.Rank != 1 {
			t.Errorf("location 2 rank = %d, want 1", r.Rank)
		}
	}
}

func TestOrderSumTieBreaksOnLocationIndex(t *testing.T) {
	m := &framework.DecisionMatrix{
		Columns:       []string{"a"},
		LocationIndex: []int{5, 2, 8},
		Values: [][]float64{
			{1.0},
			{1.0},
			{1.0},
		},
		Weights: []float64{1.0},
	}
	ranked := OrderSum{}.Rank(m)
	if ranked[0].LocationIndex != 2 {
		t.Fatalf("tied scores should break on ascending location index, got order %+v", ranked)
	}
	if ranked[0].Rank != 1 || ranked[1].Rank != 2 || ranked[2].Rank != 3 {
		t.Fatalf("ranks should be 1,2,3 in order, got %+v", ranked)
	}
}

func TestVIKORDegenerateColumn(t *testing.T) {
	// A column with zero spread (best == worst) must not divide by zero and
	// must not panic; its contribution to Q should be zero for every row.
	m := &framework.DecisionMatrix{
		Columns:       []string{"a", "b"},
		LocationIndex: []int{0, 1},
		Values: [][]float64{
			{1.0, 0.5},
			{1.0, 0.9},
		},
		Weights: []float64{0.5, 0.5},
	}
	ranked := NewVIKOR().Rank(m)
	if len(ranked) != 2 {
		t.Fatalf("got %d ranked sites, want 2", len(ranked))
	}
	for _, r := range ranked {
		if math.IsNaN(r.Score) || math.IsInf(r.Score, 0) {
			t.Fatalf("VIKOR score is not finite: %+v", r)
		}
	}
}

func TestLookupUnknownMethod(t *testing.T) {
	if _, err := Lookup(99); err == nil {
		t.Fatal("expected an error for an unregistered mcda id")
	}
}
