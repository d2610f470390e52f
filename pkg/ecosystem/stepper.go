package ecosystem

import (
	"math"

	"github.com/opencoral/adria/pkg/cache"
	"github.com/opencoral/adria/pkg/domain"
)

// GompertzParams are the global shape constants spec.md §4.F.1 and §4.F.5
// name but do not give numeric values for: larval-production attenuation
// (LPdhwcoeff, DHWmaxtot, LPDprm2) and the bleaching-survival kernel
// (gompertz_p1, gompertz_p2). Defaults below are plausible dimensionless
// values documented as an Open Question decision in DESIGN.md, since
// original_source/ carried no reference implementation to read the exact
// constants from.
type GompertzParams struct {
	LPDHWCoeff float64
	DHWMaxTot  float64
	LPDPrm2    float64

	GompertzP1 float64
	GompertzP2 float64

	PotentialSettlerCover float64
}

// DefaultGompertzParams returns the constants this engine ships with.
func DefaultGompertzParams() GompertzParams {
	return GompertzParams{
		LPDHWCoeff:            1.0,
		DHWMaxTot:             8.0,
		LPDPrm2:               3.0,
		GompertzP1:            1.0,
		GompertzP2:            0.4,
		PotentialSettlerCover: 1e-4,
	}
}

// gompertz is the standard two-parameter Gompertz sigmoid, increasing in x
// and bounded in (0,1) for p1,p2 > 0.
func gompertz(x, p1, p2 float64) float64 {
	return math.Exp(-p1 * math.Exp(-p2*x))
}

// Intervention is one year's seeding/shading decision, produced by
// pkg/mcda/selector.
type Intervention struct {
	SeedActive  bool
	SeedSites   []int
	SeedVolumeTabular, SeedVolumeCorymbose float64

	ShadeActive bool
	ShadeSites  []int
	SRM         float64

	FogActive bool
	Fogging   float64
}

// Step advances cover from yPrev (the previous year's 36 x N_loc state) to
// yNext, given this year's DHW and wave vectors (length N_loc) and the
// year's intervention decision, following spec.md §4.F steps 1-9. buf is
// the calling worker's reusable scratch bundle; integrator is the §4.F.8
// black-box growth model.
func Step(
	dom *domain.Domain,
	buf *cache.Buffers,
	integrator GrowthIntegrator,
	params GompertzParams,
	yPrev, yNext []float64,
	dhw, wave []float64,
	iv Intervention,
) {
	buf.ResetStep()
	n := dom.N()
	sp := dom.Species

	larvalProduction(dom, buf, params, yPrev, dhw)
	fecundityScope(dom, buf, sp, yPrev)
	recruitment(dom, buf, params)

	adjustedDHW := adjustDHW(n, dhw, iv, buf)

	bleachingSurvival(dom, buf, sp, adjustedDHW, params)
	combinedLoss(dom, buf, sp, yPrev, wave)

	applyRecruitsAndIntervention(dom, buf, sp, iv)

	grown := integrator.Integrate(buf.CovTmp, 1.0)
	copy(yNext, grown)

	Adjust(dom, yNext)
}

// larvalProduction computes LPs[g,l] (spec.md §4.F.1): a Gompertz-shaped
// attenuation of fecundity by accumulated heat stress, net of adaptation.
func larvalProduction(dom *domain.Domain, buf *cache.Buffers, params GompertzParams, yPrev, dhwPrev []float64) {
	n := dom.N()
	sp := dom.Species
	for g := 0; g < domain.NumSpeciesGroups; g++ {
		adapt := groupAverage(sp.NaturalAdaptation[:], g) + groupAverage(sp.AssistedAdaptation[:], g)
		for l := 0; l < n; l++ {
			stress := dhwPrev[l] - adapt
			if stress < 0 {
				stress = 0
			}
			excess := stress / params.DHWMaxTot
			buf.LPs[g*n+l] = params.LPDHWCoeff * gompertz(-excess, 1.0, params.LPDPrm2)
		}
	}
}

func groupAverage(v []float64, group int) float64 {
	sum := 0.0
	for s := 0; s < domain.SizeClassesPerGroup; s++ {
		sum += v[group*domain.SizeClassesPerGroup+s]
	}
	return sum / float64(domain.SizeClassesPerGroup)
}

// fecundityScope computes fec_scope[g,l] (spec.md §4.F.2).
func fecundityScope(dom *domain.Domain, buf *cache.Buffers, sp domain.SpeciesParams, yPrev []float64) {
	n := dom.N()
	for g := 0; g < domain.NumSpeciesGroups; g++ {
		for sc := 0; sc < domain.SizeClassesPerGroup; sc++ {
			s := domain.Bin(domain.SpeciesGroup(g), sc)
			for l := 0; l < n; l++ {
				contrib := sp.FecundityPerM2[s] * yPrev[s*n+l] * dom.Locations[l].AreaM2
				buf.FecAll[s*n+l] = contrib
				buf.FecScope[g*n+l] += contrib
			}
		}
	}
}

// recruitment computes recruits[g,l] (spec.md §4.F.3): produced larvae
// weighted by LP, then distributed to destination locations through the
// connectivity matrix.
func recruitment(dom *domain.Domain, buf *cache.Buffers, params GompertzParams) {
	n := dom.N()
	production := make([]float64, n)
	for g := 0; g < domain.NumSpeciesGroups; g++ {
		for l := 0; l < n; l++ {
			production[l] = buf.FecScope[g*n+l] * buf.LPs[g*n+l]
		}
		for dst := 0; dst < n; dst++ {
			sum := 0.0
			for src := 0; src < n; src++ {
				sum += production[src] * dom.Connectivity[src][dst]
			}
			area := dom.Locations[dst].AreaM2
			if area <= 0 {
				continue
			}
			buf.Recruits[g*n+dst] = params.PotentialSettlerCover * sum / area
		}
	}
}

// adjustDHW applies shading and fogging (spec.md §4.F.4) and returns the
// adjusted per-location DHW vector, recording the shade/fog traces into
// buf.ShadeLog / buf.FogLog.
func adjustDHW(n int, dhw []float64, iv Intervention, buf *cache.Buffers) []float64 {
	copy(buf.DHWStep, dhw)

	if iv.ShadeActive && iv.SRM > 0 {
		for l := 0; l < n; l++ {
			buf.DHWStep[l] -= iv.SRM
			if buf.DHWStep[l] < 0 {
				buf.DHWStep[l] = 0
			}
			buf.ShadeLog[l] = iv.SRM
		}
	}

	if iv.FogActive && iv.Fogging > 0 {
		fogSites := iv.SeedSites
		if len(fogSites) == 0 {
			fogSites = iv.ShadeSites
		}
		for _, l := range fogSites {
			if l < 0 || l >= n {
				continue
			}
			buf.DHWStep[l] *= 1 - iv.Fogging
			buf.FogLog[l] = iv.Fogging
		}
	}

	return buf.DHWStep
}

// bleachingSurvival computes Sbl[s,l] (spec.md §4.F.5): a Gompertz
// mortality kernel per bin, modulated by bleach resistance and adaptation,
// with survival taken as its complement.
func bleachingSurvival(dom *domain.Domain, buf *cache.Buffers, sp domain.SpeciesParams, adjustedDHW []float64, params GompertzParams) {
	n := dom.N()
	for s := 0; s < domain.CoverBins; s++ {
		resistance := sp.BleachResistance[s]
		adapt := sp.NaturalAdaptation[s] + sp.AssistedAdaptation[s]
		for l := 0; l < n; l++ {
			stress := adjustedDHW[l]*(1-resistance) - adapt
			if stress < 0 {
				stress = 0
			}
			mortality := gompertz(stress, params.GompertzP1, params.GompertzP2)
			buf.Sbl[s*n+l] = 1 - mortality
		}
	}
}

// combinedLoss computes cov_tmp[s,l] (spec.md §4.F.6).
func combinedLoss(dom *domain.Domain, buf *cache.Buffers, sp domain.SpeciesParams, yPrev, wave []float64) {
	n := dom.N()
	for s := 0; s < domain.CoverBins; s++ {
		waveMort := sp.WaveMortality90[s]
		for l := 0; l < n; l++ {
			waveSurv := 1 - clamp01(waveMort*wave[l])
			idx := s*n + l
			buf.PropLoss[idx] = yPrev[idx] * buf.Sbl[idx] * waveSurv
			buf.CovTmp[idx] = buf.PropLoss[idx]
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// applyRecruitsAndIntervention adds this year's recruitment to each
// group's smallest size class, then applies seeding (spec.md §4.F.7) on
// top of it into size-class 2 of the two enhanced taxa.
func applyRecruitsAndIntervention(dom *domain.Domain, buf *cache.Buffers, sp domain.SpeciesParams, iv Intervention) {
	n := dom.N()
	for g := 0; g < domain.NumSpeciesGroups; g++ {
		smallest := domain.Bin(domain.SpeciesGroup(g), 0)
		for l := 0; l < n; l++ {
			buf.CovTmp[smallest*n+l] += buf.Recruits[g*n+l]
		}
	}

	if !iv.SeedActive || len(iv.SeedSites) == 0 {
		return
	}

	nInt := len(iv.SeedSites)
	seedBinTabular := domain.Bin(domain.TabularAcropora, domain.EnhancedSizeClass)
	seedBinCorymbose := domain.Bin(domain.CorymboseAcropora, domain.EnhancedSizeClass)

	apply := func(bin int, volume float64, logRow int) {
		if volume <= 0 {
			return
		}
		perSite := volume / float64(nInt)
		for _, l := range iv.SeedSites {
			if l < 0 || l >= n {
				continue
			}
			loc := dom.Locations[l]
			if loc.AreaM2 <= 0 || loc.K <= 0 {
				continue
			}
			added := perSite * sp.ColonyAreaM2[bin] / (loc.AreaM2 * loc.K)
			buf.CovTmp[bin*n+l] += added
			buf.SeedLog[logRow*n+l] += added
		}
	}

	apply(seedBinTabular, iv.SeedVolumeTabular, 0)
	apply(seedBinCorymbose, iv.SeedVolumeCorymbose, 1)
}

// Adjust is the proportional-cover adjuster of spec.md §4.J: rescale every
// location whose summed cover exceeds carrying capacity so it does not.
func Adjust(dom *domain.Domain, y []float64) {
	n := dom.N()
	for l := 0; l < n; l++ {
		sum := 0.0
		for s := 0; s < domain.CoverBins; s++ {
			sum += y[s*n+l]
		}
		k := dom.Locations[l].K
		if sum > k && sum > 0 {
			scale := k / sum
			for s := 0; s < domain.CoverBins; s++ {
				y[s*n+l] *= scale
			}
		}
	}
}
