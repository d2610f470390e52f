// Package runner implements the scenario runner of spec.md §4.G: allocate
// reusable buffers once, step the ecosystem across replicates and years,
// apply the output epsilon threshold, and mean site ranks over replicates.
package runner

import (
	"golang.org/x/exp/rand"

	"github.com/opencoral/adria/pkg/apierrors"
	"github.com/opencoral/adria/pkg/cache"
	v1alpha1 "github.com/opencoral/adria/pkg/api/v1alpha1"
	"github.com/opencoral/adria/pkg/climateforcing"
	"github.com/opencoral/adria/pkg/config"
	"github.com/opencoral/adria/pkg/domain"
	"github.com/opencoral/adria/pkg/ecosystem"
	"github.com/opencoral/adria/pkg/intervention"
	"github.com/opencoral/adria/pkg/mcda/selector"
	"github.com/opencoral/adria/pkg/scenarioparams"
)

const coverBins = 36 // spec.md §3 "36 (species x size-class) bins"

// Run executes one scenario across cfg.Reps environmental replicates and
// returns its ResultRecord (spec.md §4.G, §6). initialCover is the 36 x
// N_loc starting state shared by every replicate. scenarioIndex is the
// record's identity in the result store.
func Run(
	dom *domain.Domain,
	params scenarioparams.Params,
	dhwForcing, waveForcing *climateforcing.Forcing,
	initialCover []float64,
	scenarioIndex int,
	cfg config.Config,
	integrator ecosystem.GrowthIntegrator,
) v1alpha1.ResultRecord {
	n := dom.N()
	t := dom.HorizonYears
	reps := cfg.Reps
	if reps <= 0 {
		reps = 1
	}
	if integrator == nil {
		integrator = ecosystem.NewRK4Integrator(coverBins, 0.3)
	}

	diagnostics := apierrors.NewDiagnostics()

	cover := make([]float64, t*coverBins*n*reps)
	seedLog := make([]float64, t*2*n*reps)
	fogLog := make([]float64, t*n*reps)
	shadeLog := make([]float64, t*n*reps)
	rankSum := make([]float64, t*n*2)

	schedule := intervention.NewSchedule(
		params.SeedStartYear, params.SeedYears, params.SeedFreq,
		params.ShadeStartYear, params.ShadeYears, params.ShadeFreq,
		t,
	)

	failed := false
	buf := cache.New(dom, domain.NumSpeciesGroups, coverBins)

	for r := 0; r < reps; r++ {
		rng := rand.New(rand.NewSource(params.Seed() + uint64(r)))
		state := selector.NewState(n)

		yPrev := make([]float64, coverBins*n)
		copy(yPrev, initialCover)
		writeCoverSlice(cover, yPrev, 0, t, coverBins, n, reps, r)

		for year := 2; year <= t; year++ {
			seedActive, shadeActive := schedule.Active(year)
			if params.McdaID == scenarioparams.AlgorithmCounterfactual {
				seedActive, shadeActive = false, false
			} else {
				seedActive = seedActive && params.SeedActive()
				shadeActive = shadeActive && params.ShadeActive()
			}

			dhw := dhwForcing.Slice(year-2, r)
			wave := waveForcing.Slice(year-2, r)

			if err := selector.Select(dom, params, year, dhw, wave, yPrev, seedActive, shadeActive, state, rng, diagnostics); err != nil {
				// Fatal per spec.md §7 (UnknownMcdaMethod): abort the
				// scenario and return what was accumulated so far, flagged.
				failed = true
				break
			}
			accumulateRanks(rankSum, state, year-1, n, t)

			iv := buildIntervention(params, state, seedActive, shadeActive)

			yNext := make([]float64, coverBins*n)
			ecosystem.Step(dom, buf, integrator, ecosystem.DefaultGompertzParams(), yPrev, yNext, dhw, wave, iv)

			writeCoverSlice(cover, yNext, year-1, t, coverBins, n, reps, r)
			writeAux(seedLog, buf.SeedLog, year-1, 2, n, reps, r)
			writeAux(fogLog, buf.FogLog, year-1, 1, n, reps, r)
			writeAux(shadeLog, buf.ShadeLog, year-1, 1, n, reps, r)

			yPrev = yNext
		}

		if failed {
			// Scenario-wide (McdaID is fixed for the whole run), so every
			// replicate would fail identically; stop early.
			break
		}
	}

	meanRanks := make([]float64, t*n*2)
	for i, v := range rankSum {
		meanRanks[i] = v / float64(reps)
	}

	quantize(cover, cfg.Threshold)
	quantize(seedLog, cfg.Threshold)
	quantize(fogLog, cfg.Threshold)
	quantize(shadeLog, cfg.Threshold)
	quantize(meanRanks, cfg.Threshold)

	return v1alpha1.ResultRecord{
		ScenarioIndex: scenarioIndex,
		Cover:         cover,
		SeedLog:       seedLog,
		FogLog:        fogLog,
		ShadeLog:      shadeLog,
		SiteRanks:     meanRanks,
		Failed:        failed,
		Diagnostics:   diagnostics.Strings(),
	}
}

func buildIntervention(params scenarioparams.Params, state *selector.State, seedActive, shadeActive bool) ecosystem.Intervention {
	return ecosystem.Intervention{
		SeedActive:          seedActive,
		SeedSites:           state.PrefSeedSites,
		SeedVolumeTabular:   params.SeedVolumeTabular,
		SeedVolumeCorymbose: params.SeedVolumeCorymbose,
		ShadeActive:         shadeActive && params.SRM > 0,
		ShadeSites:          state.PrefShadeSites,
		SRM:                 params.SRM,
		FogActive:           shadeActive && params.FoggingFraction > 0,
		Fogging:             params.FoggingFraction,
	}
}

// writeCoverSlice writes one year's 36 x N_loc state into the T x 36 x
// N_loc x R cover tensor at year index (0-based) and replicate r.
func writeCoverSlice(cover, y []float64, yearIdx, t, bins, n, reps, r int) {
	for s := 0; s < bins; s++ {
		for l := 0; l < n; l++ {
			idx := ((yearIdx*bins+s)*n + l) * reps + r
			cover[idx] = y[s*n+l]
		}
	}
}

// writeAux writes one year's (rows x N_loc) auxiliary log into a T x rows
// x N_loc x R tensor.
func writeAux(dst, src []float64, yearIdx, rows, n, reps, r int) {
	for row := 0; row < rows; row++ {
		for l := 0; l < n; l++ {
			idx := ((yearIdx*rows+row)*n + l) * reps + r
			dst[idx] = src[row*n+l]
		}
	}
}

// accumulateRanks folds this year's ranking log into the running sum that
// will be divided by reps to produce site_ranks (T x N_loc x 2).
func accumulateRanks(rankSum []float64, state *selector.State, yearIdx, n, t int) {
	for l := 0; l < n; l++ {
		base := (yearIdx*n + l) * 2
		rankSum[base] += state.Log.SeedRank[l]
		rankSum[base+1] += state.Log.ShadeRank[l]
	}
}

// quantize zeroes values below threshold in magnitude (spec.md §6 "Values
// below epsilon are quantized to 0").
func quantize(v []float64, threshold float64) {
	if threshold <= 0 {
		return
	}
	for i, x := range v {
		if x < threshold && x > -threshold {
			v[i] = 0
		}
	}
}
