// Package selector orchestrates the site-selection pipeline of spec.md
// §4.D: depth filter, rotation rule, per-intent criteria construction, and
// the §4.A/§4.B/§4.C pipeline for each active intent, updating the
// persistent ranking log. Grounded on the teacher's plugin-entrypoint
// style (multiobjective.go's per-cycle Score/Filter sequencing) adapted to
// this domain's per-year selection cycle.
package selector

import (
	"golang.org/x/exp/rand"

	"github.com/opencoral/adria/pkg/apierrors"
	"github.com/opencoral/adria/pkg/domain"
	"github.com/opencoral/adria/pkg/mcda/framework"
	"github.com/opencoral/adria/pkg/mcda/matrix"
	"github.com/opencoral/adria/pkg/mcda/rankers"
	"github.com/opencoral/adria/pkg/mcda/spread"
	"github.com/opencoral/adria/pkg/scenarioparams"
)

// RankingLog is the persistent per-location ranking history spec.md §4.D.5
// describes: "unchanged entries retain previous values. Sites not
// considered are logged as 0." Rank 0 therefore means "not considered
// this step", never "lowest rank" (spec.md §3 invariant).
type RankingLog struct {
	SeedRank  []float64
	ShadeRank []float64
}

// NewRankingLog returns a zero-valued log sized for n locations.
func NewRankingLog(n int) *RankingLog {
	return &RankingLog{SeedRank: make([]float64, n), ShadeRank: make([]float64, n)}
}

// State is the mutable per-scenario selection state threaded year to year.
type State struct {
	PrefSeedSites  []int
	PrefShadeSites []int
	Log            *RankingLog
}

// NewState returns empty selection state for nLoc locations: no preferred
// sites yet and an all-zero ranking log.
func NewState(nLoc int) *State {
	return &State{Log: NewRankingLog(nLoc)}
}

// Select runs one year's selection cycle and returns the updated state in
// place, mutating s.PrefSeedSites, s.PrefShadeSites and s.Log. rng drives
// the unguided (AlgorithmUnguided) random fallback and should be seeded
// once per scenario from scenarioparams.Params.Seed.
//
// A non-nil error is the fatal UnknownMcdaMethod case (spec.md §7: "fatal
// for the scenario; do not silently default"). Callers must abort the
// scenario rather than use the state Select mutated before failing.
func Select(
	dom *domain.Domain,
	params scenarioparams.Params,
	year int,
	dhw []float64,
	wave []float64,
	cover []float64,
	seedActive, shadeActive bool,
	s *State,
	rng *rand.Rand,
	diagnostics *apierrors.Diagnostics,
) error {
	nInt := dom.SitesPerIntervention

	if params.McdaID == scenarioparams.AlgorithmCounterfactual {
		s.PrefSeedSites = make([]int, nInt)
		s.PrefShadeSites = make([]int, nInt)
		zeroLog(s.Log.SeedRank)
		zeroLog(s.Log.ShadeRank)
		return nil
	}

	candidates := depthFilter(dom, params, diagnostics, year)
	candidates = rotationFilter(candidates, s.PrefSeedSites, s.PrefShadeSites, nInt, diagnostics, year)

	if params.McdaID == scenarioparams.AlgorithmUnguided {
		if seedActive {
			selected := randomSelect(candidates, nInt, rng)
			s.PrefSeedSites = selected
			updateLog(s.Log.SeedRank, rankFromOrder(selected))
		} else {
			s.PrefSeedSites = make([]int, nInt)
			zeroLog(s.Log.SeedRank)
		}
		if shadeActive {
			selected := randomSelect(candidates, nInt, rng)
			s.PrefShadeSites = selected
			updateLog(s.Log.ShadeRank, rankFromOrder(selected))
		} else {
			s.PrefShadeSites = make([]int, nInt)
			zeroLog(s.Log.ShadeRank)
		}
		return nil
	}

	rows := buildCriteriaRows(dom, dhw, wave, cover, candidates)

	if seedActive {
		ranked, err := runIntent(dom, params, rows, framework.SeedIntent, params.SeedWeights(), diagnostics, year)
		if err != nil {
			return err
		}
		selected := spread.Apply(ranked, dom.Distance, spreadMinDist(dom, params), nInt, diagnostics, year)
		s.PrefSeedSites = locationIndices(selected, nInt)
		updateLog(s.Log.SeedRank, ranked)
	} else {
		s.PrefSeedSites = make([]int, nInt)
		zeroLog(s.Log.SeedRank)
	}

	if shadeActive {
		ranked, err := runIntent(dom, params, rows, framework.ShadeIntent, params.ShadeWeights(), diagnostics, year)
		if err != nil {
			return err
		}
		selected := spread.Apply(ranked, dom.Distance, spreadMinDist(dom, params), nInt, diagnostics, year)
		s.PrefShadeSites = locationIndices(selected, nInt)
		updateLog(s.Log.ShadeRank, ranked)
	} else {
		s.PrefShadeSites = make([]int, nInt)
		zeroLog(s.Log.ShadeRank)
	}
	return nil
}

// randomSelect draws up to n distinct locations from candidates using rng,
// the AlgorithmUnguided fallback (spec.md §3 "alg_ind ... 0=unguided").
func randomSelect(candidates []int, n int, rng *rand.Rand) []int {
	pool := make([]int, len(candidates))
	copy(pool, candidates)
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	out := make([]int, n)
	for i := 0; i < n && i < len(pool); i++ {
		out[i] = pool[i]
	}
	return out
}

// rankFromOrder synthesizes RankedSite entries from an unguided selection
// order so updateLog can record ordinals the same way a guided ranking
// would.
func rankFromOrder(selected []int) []framework.RankedSite {
	out := make([]framework.RankedSite, 0, len(selected))
	for i, l := range selected {
		out = append(out, framework.RankedSite{LocationIndex: l, Rank: i + 1})
	}
	return out
}

func spreadMinDist(dom *domain.Domain, params scenarioparams.Params) float64 {
	if !params.SpreadEnabled {
		return 0
	}
	return dom.MedianPairwiseDistance * params.SpreadMinDistFrac
}

// runIntent builds the decision matrix for one intent and ranks it. The
// returned error is fatal (spec.md §7 UnknownMcdaMethod): an unregistered
// McdaID must abort the scenario, never silently fall back to another
// ranker.
func runIntent(
	dom *domain.Domain,
	params scenarioparams.Params,
	rows []framework.CandidateRow,
	intent framework.Intent,
	weights map[string]float64,
	diagnostics *apierrors.Diagnostics,
	year int,
) ([]framework.RankedSite, error) {
	r, err := rankers.Lookup(int(params.McdaID))
	if err != nil {
		return nil, err
	}
	rules := []framework.ToleranceRule{
		{Criterion: "risk", Operator: framework.OpLessEqual, Threshold: params.DeployedCoralRiskTol},
	}
	m, err := matrix.Build(rows, rules, intent, weights, diagnostics, year)
	if err != nil || m.NumRows() == 0 {
		return nil, nil
	}
	return r.Rank(m), nil
}

// depthFilter keeps locations whose median depth lies within
// [depth_min, depth_min+depth_offset], retaining all locations (with a
// DepthFilterEmpty diagnostic) if the window excludes every site
// (spec.md §4.D.1).
func depthFilter(dom *domain.Domain, params scenarioparams.Params, diagnostics *apierrors.Diagnostics, year int) []int {
	maxDepth := params.DepthMin + params.DepthOffset
	var kept []int
	for _, loc := range dom.Locations {
		if loc.DepthMed >= params.DepthMin && loc.DepthMed <= maxDepth {
			kept = append(kept, loc.Index)
		}
	}
	if len(kept) == 0 {
		if diagnostics != nil {
			diagnostics.Record(apierrors.DepthFilterEmpty, year,
				"depth window [%.2f,%.2f] excluded all %d locations; retaining all", params.DepthMin, maxDepth, dom.N())
		}
		kept = make([]int, dom.N())
		for i := range kept {
			kept[i] = i
		}
	}
	return kept
}

// rotationFilter removes the union of the current seeding/shading
// preference sites from the candidate pool, forcing exploration
// (spec.md §4.D.2). If that leaves fewer than nInt candidates, the pool is
// exhausted and a RotationPoolExhausted diagnostic is recorded (SPEC_FULL.md
// Open Question (i): "keep the zero-fill behavior but surface a warning").
func rotationFilter(candidates, prefSeed, prefShade []int, nInt int, diagnostics *apierrors.Diagnostics, year int) []int {
	exclude := make(map[int]bool, len(prefSeed)+len(prefShade))
	for _, i := range prefSeed {
		exclude[i] = true
	}
	for _, i := range prefShade {
		exclude[i] = true
	}
	var out []int
	for _, c := range candidates {
		if !exclude[c] {
			out = append(out, c)
		}
	}
	if len(out) < nInt && diagnostics != nil {
		diagnostics.Record(apierrors.RotationPoolExhausted, year,
			"rotation rule left %d candidates, fewer than n_int=%d", len(out), nInt)
	}
	return out
}

// buildCriteriaRows constructs one CandidateRow per surviving candidate
// from the Domain's static metrics plus this year's DHW/wave/cover
// (spec.md §4.D.3).
func buildCriteriaRows(dom *domain.Domain, dhw, wave, cover []float64, candidates []int) []framework.CandidateRow {
	speciesBins := len(cover) / dom.N()
	avgWaveMortality90 := avgOf(dom.Species.WaveMortality90[:])

	outConn := make([]float64, dom.N())
	for i := 0; i < dom.N(); i++ {
		sum := 0.0
		for j := 0; j < dom.N(); j++ {
			sum += dom.Connectivity[i][j]
		}
		outConn[i] = sum
	}

	rows := make([]framework.CandidateRow, len(candidates))
	for idx, loc := range candidates {
		covered := 0.0
		if dom.Locations[loc].K > 0 {
			for b := 0; b < speciesBins; b++ {
				covered += cover[b*dom.N()+loc]
			}
			covered /= dom.Locations[loc].K
		}
		highCover := clamp01(covered)
		lowCover := clamp01(1 - covered)
		risk := deployedCoralRisk(dom, cover, loc)

		rows[idx] = framework.CandidateRow{
			LocationIndex: loc,
			Values: map[string]float64{
				"risk":             risk,
				"heat":             dhw[loc],
				"wave":             avgWaveMortality90 * wave[loc],
				"in_connectivity":  dom.ConnectivityRank[loc],
				"out_connectivity": outConn[loc],
				"low_cover":        lowCover,
				"high_cover":       highCover,
				"seed_priority":    dom.ConnectivityRank[loc],
				"shade_priority":   outConn[loc],
			},
		}
	}
	return rows
}

// deployedCoralRisk estimates the "risk" criterion the DeployedCoralRiskTol
// tolerance rule filters on: the fraction of a candidate's carrying capacity
// already occupied by previously deployed (enhanced-size-class) coral, the
// two seeded taxa spec.md §4.F.7 names (Tabular and Corymbose Acropora).
// Concentrating further deployment where it is already high defeats the
// purpose of spreading risk across the reef.
func deployedCoralRisk(dom *domain.Domain, cover []float64, loc int) float64 {
	k := dom.Locations[loc].K
	if k <= 0 {
		return 0
	}
	n := dom.N()
	deployed := cover[domain.Bin(domain.TabularAcropora, domain.EnhancedSizeClass)*n+loc] +
		cover[domain.Bin(domain.CorymboseAcropora, domain.EnhancedSizeClass)*n+loc]
	return clamp01(deployed / k)
}

func avgOf(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
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

func locationIndices(ranked []framework.RankedSite, n int) []int {
	out := make([]int, n)
	for i := 0; i < n && i < len(ranked); i++ {
		out[i] = ranked[i].LocationIndex
	}
	return out
}

// updateLog writes the per-intent ordinal for every considered site and
// leaves uncontested entries at their previous value; sites absent from
// ranked are zeroed, the "not considered" sentinel (spec.md §4.D.5).
func updateLog(log []float64, ranked []framework.RankedSite) {
	considered := make(map[int]bool, len(ranked))
	for _, r := range ranked {
		log[r.LocationIndex] = float64(r.Rank)
		considered[r.LocationIndex] = true
	}
	for i := range log {
		if !considered[i] {
			log[i] = 0
		}
	}
}

func zeroLog(log []float64) {
	for i := range log {
		log[i] = 0
	}
}
