// Package framework holds the types shared across the decision-matrix
// builder, rankers and spread filter, mirroring the teacher's own
// framework subpackage (NodeInfo/PodInfo shared across objectives and
// constraints): one small package of plain structs that every mcda
// subpackage depends on, so none of them depend on each other directly.
package framework

// Intent distinguishes seeding from shading site selection. Both share the
// same matrix-build/rank/spread pipeline, differing only in which weight
// subset and which ranking-log column they drive (spec.md design note
// "Intent-parameterized selection").
type Intent struct {
	Name        string   // "seed" or "shade"
	Criteria    []string // ordered criterion names this intent weights
	LogColumn   int      // 0 = seed_rank, 1 = shade_rank in the ranking log
}

var (
	SeedIntent = Intent{
		Name:      "seed",
		Criteria:  []string{"wave", "heat", "in_connectivity", "low_cover", "seed_priority"},
		LogColumn: 0,
	}
	ShadeIntent = Intent{
		Name:      "shade",
		Criteria:  []string{"wave", "heat", "out_connectivity", "high_cover", "shade_priority"},
		LogColumn: 1,
	}
)

// ToleranceOperator is one of the four comparison operators a risk-filter
// rule may use (spec.md §4.A.1).
type ToleranceOperator int

const (
	OpLess ToleranceOperator = iota
	OpLessEqual
	OpGreater
	OpGreaterEqual
)

// ToleranceRule is one risk-filter rule: keep rows where
// row[Criterion] Operator Threshold holds.
type ToleranceRule struct {
	Criterion string
	Operator  ToleranceOperator
	Threshold float64
}

// Evaluate reports whether value satisfies the rule.
func (r ToleranceRule) Evaluate(value float64) bool {
	switch r.Operator {
	case OpLess:
		return value < r.Threshold
	case OpLessEqual:
		return value <= r.Threshold
	case OpGreater:
		return value > r.Threshold
	case OpGreaterEqual:
		return value >= r.Threshold
	default:
		return false
	}
}

// CandidateRow is one candidate location's raw criterion values, keyed by
// criterion name, before projection/normalization/weighting.
type CandidateRow struct {
	LocationIndex int
	Values        map[string]float64
}

// DecisionMatrix is the dense, weighted, normalized matrix §4.A produces:
// one row per surviving location, one column per non-zero-weight criterion
// of the active Intent, in deterministic column order.
type DecisionMatrix struct {
	Columns        []string
	LocationIndex  []int // row i corresponds to location LocationIndex[i]
	Values         [][]float64 // Values[row][col]
	Weights        []float64   // L1-normalized, same order as Columns
}

// NumRows and NumCols are small conveniences used throughout mcda.
func (m *DecisionMatrix) NumRows() int { return len(m.LocationIndex) }
func (m *DecisionMatrix) NumCols() int { return len(m.Columns) }

// RankedSite is one entry of a ranker's output (spec.md §4.B): rank_index
// 1 is best.
type RankedSite struct {
	LocationIndex int
	Score         float64
	Rank          int
}

// Ranker produces an ordered ranking from a weighted, normalized decision
// matrix (spec.md design note: "an interface with a single rank(...)
// capability. Registration is a table keyed by an integer id.").
type Ranker interface {
	Name() string
	Rank(m *DecisionMatrix) []RankedSite
}
