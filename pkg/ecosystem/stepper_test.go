package ecosystem

import (
	"testing"

	v1alpha1 "github.com/opencoral/adria/pkg/api/v1alpha1"
	"github.com/opencoral/adria/pkg/cache"
	"github.com/opencoral/adria/pkg/domain"
)

func testDomain(t *testing.T) *domain.Domain {
	t.Helper()
	in := v1alpha1.DomainInputs{
		Sites: []v1alpha1.SiteRecord{
			{SiteID: "a", K: 0.4, AreaM2: 500, DepthMed: 5, Lon: 0, Lat: 0},
			{SiteID: "b", K: 0.6, AreaM2: 800, DepthMed: 6, Lon: 0.05, Lat: 0.05},
		},
		Connectivity:         []float64{0.3, 0.1, 0.1, 0.3},
		HorizonYears:         5,
		SitesPerIntervention: 1,
	}
	dom, err := domain.New(in)
	if err != nil {
		t.Fatalf("domain.New: %v", err)
	}
	return dom
}

// TestStepRespectsCapacityAndNonNegativity checks spec.md §8's Capacity and
// Non-negativity invariants across several years of stepping with no
// intervention active.
func TestStepRespectsCapacityAndNonNegativity(t *testing.T) {
	dom := testDomain(t)
	n := dom.N()
	buf := cache.New(dom, domain.NumSpeciesGroups, domain.CoverBins)
	integrator := NewRK4Integrator(domain.CoverBins, 0.3)
	params := DefaultGompertzParams()

	yPrev := make([]float64, domain.CoverBins*n)
	for s := 0; s < domain.CoverBins; s++ {
		for l := 0; l < n; l++ {
			yPrev[s*n+l] = 0.01
		}
	}

	dhw := []float64{2.0, 1.0}
	wave := []float64{0.3, 0.2}
	iv := Intervention{}

	for year := 2; year <= dom.HorizonYears; year++ {
		yNext := make([]float64, domain.CoverBins*n)
		Step(dom, buf, integrator, params, yPrev, yNext, dhw, wave, iv)

		for l := 0; l < n; l++ {
			sum := 0.0
			for s := 0; s < domain.CoverBins; s++ {
				v := yNext[s*n+l]
				if v < 0 {
					t.Fatalf("year %d location %d bin %d: negative cover %f", year, l, s, v)
				}
				sum += v
			}
			if sum > dom.Locations[l].K+1e-9 {
				t.Fatalf("year %d location %d: cover sum %f exceeds capacity %f", year, l, sum, dom.Locations[l].K)
			}
		}
		yPrev = yNext
	}
}

func TestAdjustRescalesOverCapacityLocations(t *testing.T) {
	dom := testDomain(t)
	n := dom.N()
	y := make([]float64, domain.CoverBins*n)
	for s := 0; s < domain.CoverBins; s++ {
		y[s*n+0] = 1.0 // far above site 0's capacity of 0.4
	}
	Adjust(dom, y)

	sum := 0.0
	for s := 0; s < domain.CoverBins; s++ {
		sum += y[s*n+0]
	}
	if sum > dom.Locations[0].K+1e-9 {
		t.Fatalf("post-adjust cover sum %f exceeds capacity %f", sum, dom.Locations[0].K)
	}
}
