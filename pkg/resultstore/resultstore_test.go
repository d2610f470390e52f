package resultstore

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	v1alpha1 "github.com/opencoral/adria/pkg/api/v1alpha1"
)

func TestInMemoryPutGetRoundTrips(t *testing.T) {
	s := NewInMemory()
	want := v1alpha1.ResultRecord{
		ScenarioIndex: 3,
		Cover:         []float64{0.1, 0.2, 0.3},
		SiteRanks:     []float64{1, 2},
	}
	if err := s.Put(want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok := s.Get(3)
	if !ok {
		t.Fatal("expected record at index 3 to be present")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round-tripped record differs (-want +got):\n%s", diff)
	}
}

func TestInMemoryAllOrdersByScenarioIndex(t *testing.T) {
	s := NewInMemory()
	_ = s.Put(v1alpha1.ResultRecord{ScenarioIndex: 2})
	_ = s.Put(v1alpha1.ResultRecord{ScenarioIndex: 0})
	_ = s.Put(v1alpha1.ResultRecord{ScenarioIndex: 1})

	got := s.All()
	want := []int{0, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i, r := range got {
		if r.ScenarioIndex != want[i] {
			t.Errorf("All()[%d].ScenarioIndex = %d, want %d", i, r.ScenarioIndex, want[i])
		}
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
}
