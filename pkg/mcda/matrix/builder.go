// Package matrix implements the decision-matrix builder of spec.md §4.A:
// risk filtering, column projection by intent, L2 column normalization and
// L1 weight normalization. Grounded on the teacher's constraint-filtering
// style (pkg/framework/plugins/multiobjective/constraints) for the filter
// step and its objective-normalization style (objectives/balance) for the
// column scaling step.
package matrix

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/opencoral/adria/pkg/apierrors"
	"github.com/opencoral/adria/pkg/mcda/framework"
)

// Build runs the full §4.A pipeline and returns the weighted, normalized
// decision matrix plus the surviving location indices (embedded in the
// matrix itself via LocationIndex).
//
// diagnostics may be nil; when non-nil, an EmptyCandidateSet event is
// recorded there instead of returning an error, per spec.md §7's
// propagation policy ("site selection returns zero-filled prefs and logs
// the event; the scenario continues").
func Build(
	rows []framework.CandidateRow,
	rules []framework.ToleranceRule,
	intent framework.Intent,
	weights map[string]float64,
	diagnostics *apierrors.Diagnostics,
	year int,
) (*framework.DecisionMatrix, error) {
	survivors := riskFilter(rows, rules)
	if len(survivors) == 0 {
		if diagnostics != nil {
			diagnostics.Record(apierrors.EmptyCandidateSet, year,
				"risk filter removed all %d candidate rows for intent %q", len(rows), intent.Name)
		}
		return &framework.DecisionMatrix{}, nil
	}

	columns, colWeights := project(intent, weights)
	if len(columns) == 0 {
		if diagnostics != nil {
			diagnostics.Record(apierrors.EmptyCandidateSet, year,
				"intent %q has no nonzero-weight criteria", intent.Name)
		}
		return &framework.DecisionMatrix{}, nil
	}

	values := make([][]float64, len(survivors))
	for i, row := range survivors {
		values[i] = make([]float64, len(columns))
		for c, col := range columns {
			values[i][c] = row.Values[col]
		}
	}

	normalize(values, diagnostics, year)
	normalizedWeights := normalizeWeights(colWeights)

	locIdx := make([]int, len(survivors))
	for i, row := range survivors {
		locIdx[i] = row.LocationIndex
	}

	m := &framework.DecisionMatrix{
		Columns:       columns,
		LocationIndex: locIdx,
		Values:        values,
		Weights:       normalizedWeights,
	}
	applyWeights(m)
	return m, nil
}

// riskFilter drops rows where any rule fails (spec.md §4.A.1).
func riskFilter(rows []framework.CandidateRow, rules []framework.ToleranceRule) []framework.CandidateRow {
	var out []framework.CandidateRow
	for _, row := range rows {
		ok := true
		for _, rule := range rules {
			v, present := row.Values[rule.Criterion]
			if !present || !rule.Evaluate(v) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, row)
		}
	}
	return out
}

// project selects the intent's non-zero-weight columns, in the Domain's
// canonical criterion order (spec.md §4.A.2: "a criterion whose weight is
// zero never influences ranking").
func project(intent framework.Intent, weights map[string]float64) ([]string, []float64) {
	var columns []string
	var colWeights []float64
	for _, c := range intent.Criteria {
		w := weights[c]
		if w == 0 {
			continue
		}
		columns = append(columns, c)
		colWeights = append(colWeights, w)
	}
	return columns, colWeights
}

// normalize L2-normalizes each column in place: col /= sqrt(sum(col^2)).
// A zero-variance (here: all-zero) column is left at zero and recorded as
// NumericDegeneracy rather than divided by zero (spec.md §4.F "degenerate
// cases" / §7 NumericDegeneracy).
func normalize(values [][]float64, diagnostics *apierrors.Diagnostics, year int) {
	if len(values) == 0 {
		return
	}
	numCols := len(values[0])
	col := make([]float64, len(values))
	for c := 0; c < numCols; c++ {
		for i := range values {
			col[i] = values[i][c]
		}
		norm := floats.Norm(col, 2)
		if norm == 0 {
			if diagnostics != nil {
				diagnostics.Record(apierrors.NumericDegeneracy, year,
					"decision matrix column %d has zero L2 norm; left at zero", c)
			}
			continue
		}
		for i := range values {
			values[i][c] /= norm
		}
	}
}

// normalizeWeights L1-normalizes weights to sum to 1 (spec.md §3
// invariant "Normalized weights satisfy Σ w = 1").
func normalizeWeights(weights []float64) []float64 {
	out := make([]float64, len(weights))
	copy(out, weights)
	sum := floats.Sum(out)
	if sum == 0 {
		return out
	}
	floats.Scale(1/sum, out)
	return out
}

// applyWeights multiplies each column by its matching normalized weight
// (spec.md §4.A.4).
func applyWeights(m *framework.DecisionMatrix) {
	for i := range m.Values {
		for c := range m.Values[i] {
			m.Values[i][c] *= m.Weights[c]
		}
	}
}

// SortCandidatesByLocation is a small determinism helper: callers building
// CandidateRow slices from a map should sort by LocationIndex first so
// riskFilter's output order (and therefore every downstream ranking's tie
// break) is reproducible.
func SortCandidatesByLocation(rows []framework.CandidateRow) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].LocationIndex < rows[j].LocationIndex })
}
