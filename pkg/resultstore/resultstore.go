// Package resultstore defines the result-store callback interface of
// spec.md §6: for each scenario index the runner writes cover, seed/fog/
// shade logs and mean site ranks. Grounded on the teacher's client package
// (pkg/framework/plugins/multiobjective/client), which likewise exposes a
// narrow write-only interface between the core algorithm and its
// persistence layer rather than embedding storage concerns in the solver.
package resultstore

import v1alpha1 "github.com/opencoral/adria/pkg/api/v1alpha1"

// Store receives one ResultRecord per completed scenario. Implementations
// decide how (and whether) to persist it; the runner itself never
// retains more than one in-flight record per scenario.
type Store interface {
	Put(record v1alpha1.ResultRecord) error
}

// InMemory is a Store that appends every record it receives, keyed by
// ScenarioIndex; sufficient for tests and for driving sensitivity analysis
// directly off a completed batch without a real backing store.
type InMemory struct {
	records map[int]v1alpha1.ResultRecord
}

// NewInMemory returns an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{records: make(map[int]v1alpha1.ResultRecord)}
}

func (s *InMemory) Put(record v1alpha1.ResultRecord) error {
	s.records[record.ScenarioIndex] = record
	return nil
}

// Get returns the record for scenario index i, if any.
func (s *InMemory) Get(i int) (v1alpha1.ResultRecord, bool) {
	r, ok := s.records[i]
	return r, ok
}

// Len returns the number of stored records.
func (s *InMemory) Len() int { return len(s.records) }

// All returns every stored record, in scenario-index order.
func (s *InMemory) All() []v1alpha1.ResultRecord {
	out := make([]v1alpha1.ResultRecord, 0, len(s.records))
	for i := 0; i < len(s.records)+maxGap(s.records); i++ {
		if r, ok := s.records[i]; ok {
			out = append(out, r)
		}
	}
	return out
}

func maxGap(m map[int]v1alpha1.ResultRecord) int {
	max := 0
	for k := range m {
		if k > max {
			max = k
		}
	}
	return max
}
