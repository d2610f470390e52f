package selector

import (
	"testing"

	"golang.org/x/exp/rand"

	v1alpha1 "github.com/opencoral/adria/pkg/api/v1alpha1"
	"github.com/opencoral/adria/pkg/apierrors"
	"github.com/opencoral/adria/pkg/domain"
	"github.com/opencoral/adria/pkg/scenarioparams"
)

func testDomain(t *testing.T) *domain.Domain {
	t.Helper()
	in := v1alpha1.DomainInputs{
		Sites: []v1alpha1.SiteRecord{
			{SiteID: "a", K: 0.5, AreaM2: 100, DepthMed: 3, Lon: 0, Lat: 0},
			{SiteID: "b", K: 0.5, AreaM2: 100, DepthMed: 6, Lon: 0.1, Lat: 0.1},
			{SiteID: "c", K: 0.5, AreaM2: 100, DepthMed: 20, Lon: 0.2, Lat: 0.2},
			{SiteID: "d", K: 0.5, AreaM2: 100, DepthMed: 8, Lon: 0.3, Lat: 0.3},
		},
		Connectivity: []float64{
			0.2, 0.1, 0.1, 0.1,
			0.1, 0.2, 0.1, 0.1,
			0.1, 0.1, 0.2, 0.1,
			0.1, 0.1, 0.1, 0.2,
		},
		HorizonYears:         10,
		SitesPerIntervention: 1,
	}
	dom, err := domain.New(in)
	if err != nil {
		t.Fatalf("domain.New: %v", err)
	}
	return dom
}

func TestSelectIsDeterministicForGuidedAlgorithms(t *testing.T) {
	dom := testDomain(t)
	params := scenarioparams.Params{
		McdaID:             scenarioparams.AlgorithmTOPSIS,
		WeightWave:         0.2,
		WeightHeat:         0.2,
		WeightInConnectivity: 0.2,
		WeightLowCover:     0.2,
		WeightSeedPriority: 0.2,
		DeployedCoralRiskTol: 1.0,
		DepthMin:           0,
		DepthOffset:        30,
	}
	cover := make([]float64, 36*dom.N())
	dhw := []float64{1, 2, 3, 4}
	wave := []float64{0.1, 0.2, 0.1, 0.2}

	s1 := NewState(dom.N())
	rng1 := rand.New(rand.NewSource(1))
	Select(dom, params, 2, dhw, wave, cover, true, false, s1, rng1, apierrors.NewDiagnostics())

	s2 := NewState(dom.N())
	rng2 := rand.New(rand.NewSource(1))
	Select(dom, params, 2, dhw, wave, cover, true, false, s2, rng2, apierrors.NewDiagnostics())

	if len(s1.PrefSeedSites) != len(s2.PrefSeedSites) {
		t.Fatalf("length mismatch: %v vs %v", s1.PrefSeedSites, s2.PrefSeedSites)
	}
	for i := range s1.PrefSeedSites {
		if s1.PrefSeedSites[i] != s2.PrefSeedSites[i] {
			t.Errorf("non-deterministic selection at %d: %d != %d", i, s1.PrefSeedSites[i], s2.PrefSeedSites[i])
		}
	}
}

func TestCounterfactualNeverSelects(t *testing.T) {
	dom := testDomain(t)
	params := scenarioparams.Params{McdaID: scenarioparams.AlgorithmCounterfactual}
	cover := make([]float64, 36*dom.N())
	s := NewState(dom.N())
	rng := rand.New(rand.NewSource(1))

	Select(dom, params, 2, []float64{1, 1, 1, 1}, []float64{1, 1, 1, 1}, cover, true, true, s, rng, apierrors.NewDiagnostics())

	for _, l := range s.PrefSeedSites {
		if l != 0 {
			t.Fatalf("counterfactual algorithm should never select a site, got %v", s.PrefSeedSites)
		}
	}
	for _, v := range s.Log.SeedRank {
		if v != 0 {
			t.Fatal("counterfactual ranking log should stay all zero")
		}
	}
}

func TestDepthFilterRetainsAllWhenWindowEmpty(t *testing.T) {
	dom := testDomain(t)
	params := scenarioparams.Params{DepthMin: 1000, DepthOffset: 1}
	diag := apierrors.NewDiagnostics()
	kept := depthFilter(dom, params, diag, 1)
	if len(kept) != dom.N() {
		t.Fatalf("got %d candidates, want all %d sites when depth window is empty", len(kept), dom.N())
	}
	if len(diag.Events()) != 1 || diag.Events()[0].Kind != apierrors.DepthFilterEmpty {
		t.Fatalf("expected a DepthFilterEmpty diagnostic, got %+v", diag.Events())
	}
}

func TestRotationFilterExcludesPriorSites(t *testing.T) {
	candidates := []int{0, 1, 2, 3}
	out := rotationFilter(candidates, []int{1}, []int{2}, 2, apierrors.NewDiagnostics(), 1)
	want := map[int]bool{0: true, 3: true}
	if len(out) != 2 {
		t.Fatalf("got %v, want 2 surviving candidates", out)
	}
	for _, c := range out {
		if !want[c] {
			t.Errorf("unexpected surviving candidate %d", c)
		}
	}
}

func TestRotationFilterRecordsExhaustionDiagnostic(t *testing.T) {
	candidates := []int{0, 1}
	diag := apierrors.NewDiagnostics()
	out := rotationFilter(candidates, []int{0}, []int{1}, 2, diag, 1)
	if len(out) != 0 {
		t.Fatalf("got %v, want no surviving candidates", out)
	}
	if len(diag.Events()) != 1 || diag.Events()[0].Kind != apierrors.RotationPoolExhausted {
		t.Fatalf("expected a RotationPoolExhausted diagnostic, got %+v", diag.Events())
	}
}
