package spread

import (
	"testing"

	"github.com/opencoral/adria/pkg/apierrors"
	"github.com/opencoral/adria/pkg/mcda/framework"
)

// fiveSiteDistances is the spec.md §8 "5-site example" distance-sort
// fixture: a line of five equally spaced sites 10km apart.
func fiveSiteDistances() [][]float64 {
	n := 5
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			d := float64(i - j)
			if d < 0 {
				d = -d
			}
			dist[i][j] = d * 10
		}
	}
	return dist
}

func TestApplyRespectsMinDistanceWhenFeasible(t *testing.T) {
	ranked := []framework.RankedSite{
		{LocationIndex: 0, Score: 5, Rank: 1},
		{LocationIndex: 1, Score: 4, Rank: 2},
		{LocationIndex: 2, Score: 3, Rank: 3},
		{LocationIndex: 3, Score: 2, Rank: 4},
		{LocationIndex: 4, Score: 1, Rank: 5},
	}
	dist := fiveSiteDistances()

	selected := Apply(ranked, dist, 20, 2, nil, 1)
	if len(selected) != 2 {
		t.Fatalf("got %d selected sites, want 2", len(selected))
	}
	if dist[selected[0].LocationIndex][selected[1].LocationIndex] < 20 {
		t.Fatalf("selected pair violates min distance: %+v", selected)
	}
	// Best-ranked site must always be kept when feasible.
	if selected[0].LocationIndex != 0 {
		t.Errorf("expected top-ranked site 0 to be kept, got %+v", selected)
	}
}

func TestApplyFallsBackAndRecordsDiagnosticWhenInfeasible(t *testing.T) {
	ranked := []framework.RankedSite{
		{LocationIndex: 0, Score: 5, Rank: 1},
		{LocationIndex: 1, Score: 4, Rank: 2},
		{LocationIndex: 2, Score: 3, Rank: 3},
	}
	dist := fiveSiteDistances()
	diag := apierrors.NewDiagnostics()

	selected := Apply(ranked, dist, 1000, 3, diag, 1)
	if len(selected) != 3 {
		t.Fatalf("got %d selected sites, want 3 (best-effort fill)", len(selected))
	}
	if len(diag.Events()) != 1 || diag.Events()[0].Kind != apierrors.DegenerateDistanceSort {
		t.Fatalf("expected one DegenerateDistanceSort diagnostic, got %+v", diag.Events())
	}
}

func TestApplyDegenerateDiagnosticRecordedOncePerScenario(t *testing.T) {
	ranked := []framework.RankedSite{{LocationIndex: 0}, {LocationIndex: 1}}
	dist := fiveSiteDistances()
	diag := apierrors.NewDiagnostics()

	Apply(ranked, dist, 1000, 2, diag, 1)
	Apply(ranked, dist, 1000, 2, diag, 2)

	if len(diag.Events()) != 1 {
		t.Fatalf("DegenerateDistanceSort should be recorded once per scenario, got %d events", len(diag.Events()))
	}
}
