package batch

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	v1alpha1 "github.com/opencoral/adria/pkg/api/v1alpha1"
	"github.com/opencoral/adria/pkg/climateforcing"
	"github.com/opencoral/adria/pkg/config"
	"github.com/opencoral/adria/pkg/domain"
	"github.com/opencoral/adria/pkg/resultstore"
	"github.com/opencoral/adria/pkg/scenarioparams"
)

func testDomain(t *testing.T) *domain.Domain {
	t.Helper()
	in := v1alpha1.DomainInputs{
		Sites: []v1alpha1.SiteRecord{
			{SiteID: "a", K: 0.5, AreaM2: 200, DepthMed: 4, Lon: 0, Lat: 0},
			{SiteID: "b", K: 0.5, AreaM2: 200, DepthMed: 6, Lon: 0.1, Lat: 0.1},
		},
		Connectivity:         []float64{0.2, 0.1, 0.1, 0.2},
		HorizonYears:         3,
		SitesPerIntervention: 1,
	}
	dom, err := domain.New(in)
	if err != nil {
		t.Fatalf("domain.New: %v", err)
	}
	return dom
}

func TestRunSequentiallyWritesEveryRow(t *testing.T) {
	dom := testDomain(t)
	n := dom.N()
	tYears := dom.HorizonYears

	dhw, err := climateforcing.New(make([]float64, tYears*n*1), tYears, n, 1)
	if err != nil {
		t.Fatalf("dhw: %v", err)
	}
	wave, err := climateforcing.New(make([]float64, tYears*n*1), tYears, n, 1)
	if err != nil {
		t.Fatalf("wave: %v", err)
	}
	cover := make([]float64, 36*n)

	rows := []Row{
		{Index: 0, Params: scenarioparams.Params{McdaID: scenarioparams.AlgorithmCounterfactual}},
		{Index: 1, Params: scenarioparams.Params{McdaID: scenarioparams.AlgorithmCounterfactual}},
	}
	store := resultstore.NewInMemory()
	cfg := config.Config{Reps: 1, Threshold: 1e-6}

	Run(context.Background(), dom, dhw, wave, cover, rows, store, cfg)

	if store.Len() != len(rows) {
		t.Fatalf("store has %d records, want %d", store.Len(), len(rows))
	}
	for _, row := range rows {
		got, ok := store.Get(row.Index)
		if !ok {
			t.Fatalf("missing record for scenario index %d", row.Index)
		}
		if diff := cmp.Diff(row.Index, got.ScenarioIndex); diff != "" {
			t.Errorf("ScenarioIndex mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestRowsFromTablePreservesOrderAndFields(t *testing.T) {
	table := []v1alpha1.ScenarioParamsRow{
		{RCP: "4.5", McdaID: 1},
		{RCP: "8.5", McdaID: 2},
	}
	rows := RowsFromTable(table)

	want := []int{0, 1}
	got := make([]int, len(rows))
	for i, r := range rows {
		got[i] = r.Index
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("row indices differ (-want +got):\n%s", diff)
	}
	if rows[1].Params.McdaID != scenarioparams.AlgorithmTOPSIS {
		t.Errorf("rows[1].Params.McdaID = %v, want AlgorithmTOPSIS", rows[1].Params.McdaID)
	}
}
