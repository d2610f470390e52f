package matrix

import (
	"math"
	"testing"

	"github.com/opencoral/adria/pkg/apierrors"
	"github.com/opencoral/adria/pkg/mcda/framework"
)

func TestBuildNormalizesColumnsToUnitL2Norm(t *testing.T) {
	rows := []framework.CandidateRow{
		{LocationIndex: 0, Values: map[string]float64{"wave": 1, "heat": 4, "in_connectivity": 0, "low_cover": 0, "seed_priority": 0}},
		{LocationIndex: 1, Values: map[string]float64{"wave": 2, "heat": 5, "in_connectivity": 0, "low_cover": 0, "seed_priority": 0}},
		{LocationIndex: 2, Values: map[string]float64{"wave": 3, "heat": 6, "in_connectivity": 0, "low_cover": 0, "seed_priority": 0}},
	}
	weights := map[string]float64{"wave": 1, "heat": 1, "in_connectivity": 0, "low_cover": 0, "seed_priority": 0}

	m, err := Build(rows, nil, framework.SeedIntent, weights, nil, 1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if m.NumRows() != 3 || m.NumCols() != 2 {
		t.Fatalf("got %dx%d matrix, want 3x2", m.NumRows(), m.NumCols())
	}

	for c := 0; c < m.NumCols(); c++ {
		sum := 0.0
		for r := 0; r < m.NumRows(); r++ {
			raw := m.Values[r][c] / m.Weights[c]
			sum += raw * raw
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("column %d sum-of-squares = %.9f, want 1", c, sum)
		}
	}

	wsum := 0.0
	for _, w := range m.Weights {
		wsum += w
	}
	if math.Abs(wsum-1) > 1e-9 {
		t.Errorf("weights sum to %.9f, want 1", wsum)
	}
}

func TestBuildEmptyCandidateSetRecordsDiagnostic(t *testing.T) {
	rows := []framework.CandidateRow{
		{LocationIndex: 0, Values: map[string]float64{"risk": 0.9}},
	}
	rules := []framework.ToleranceRule{{Criterion: "risk", Operator: framework.OpLessEqual, Threshold: 0.1}}
	diag := apierrors.NewDiagnostics()
	weights := map[string]float64{"wave": 1, "heat": 0, "in_connectivity": 0, "low_cover": 0, "seed_priority": 0}

	m, err := Build(rows, rules, framework.SeedIntent, weights, diag, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if m.NumRows() != 0 {
		t.Fatalf("expected zero rows after risk filter removed everything, got %d", m.NumRows())
	}
	if len(diag.Events()) != 1 || diag.Events()[0].Kind != apierrors.EmptyCandidateSet {
		t.Fatalf("expected one EmptyCandidateSet diagnostic, got %+v", diag.Events())
	}
}

func TestNormalizeZeroVarianceColumnIsLeftAtZero(t *testing.T) {
	values := [][]float64{{0}, {0}, {0}}
	diag := apierrors.NewDiagnostics()
	normalize(values, diag, 1)
	for _, row := range values {
		if row[0] != 0 {
			t.Errorf("expected zero column to remain zero, got %v", row)
		}
	}
	if len(diag.Events()) != 1 || diag.Events()[0].Kind != apierrors.NumericDegeneracy {
		t.Fatalf("expected one NumericDegeneracy diagnostic, got %+v", diag.Events())
	}
}
