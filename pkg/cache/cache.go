// Package cache holds the per-worker scratch buffers spec.md §4.G and §5
// require: allocated once per scenario worker, reused across every
// replicate and time step of that worker's scenarios, never shared across
// goroutines. Grounded on the teacher's NSGA2Config worker-pool pattern
// (algorithms/nsga2.go), which likewise hands each goroutine its own
// scratch state rather than sharing a pool.
package cache

import "github.com/opencoral/adria/pkg/domain"

// Buffers is the scratch-buffer bundle named in spec.md §4.G: "LPs,
// fec_all, fec_scope, prop_loss, Sbl, dhw_step, cov_tmp, Ycover, sparse
// logs". All slices are sized once from the Domain and species bin count
// and reused in place across steps and replicates.
type Buffers struct {
	NLoc    int
	NGroups int
	NBins   int

	LPs      []float64 // N_groups x N_loc, larval production multiplier
	FecAll   []float64 // N_bins x N_loc, per-bin fecundity contribution
	FecScope []float64 // N_groups x N_loc, fecundity scope
	Recruits []float64 // N_groups x N_loc, recruitment addition

	DHWStep  []float64 // N_loc, this step's adjusted DHW
	PropLoss []float64 // N_bins x N_loc, combined bleach x wave survival
	Sbl      []float64 // N_bins x N_loc, bleaching survival fraction
	CovTmp   []float64 // N_bins x N_loc, post-mortality pre-growth cover

	Ycover []float64 // N_bins x N_loc, working cover state for the current step

	SeedLog  []float64 // 2 x N_loc, this step's seeding amounts by taxon
	FogLog   []float64 // N_loc, this step's fogging multiplier trace
	ShadeLog []float64 // N_loc, this step's SRM shading trace
}

// New allocates a zeroed Buffers bundle sized for dom and nBins species
// bins (spec.md's 36). Call once per worker; ResetStep between steps, not New.
func New(dom *domain.Domain, nGroups, nBins int) *Buffers {
	n := dom.N()
	return &Buffers{
		NLoc:     n,
		NGroups:  nGroups,
		NBins:    nBins,
		LPs:      make([]float64, nGroups*n),
		FecAll:   make([]float64, nBins*n),
		FecScope: make([]float64, nGroups*n),
		Recruits: make([]float64, nGroups*n),
		DHWStep:  make([]float64, n),
		PropLoss: make([]float64, nBins*n),
		Sbl:      make([]float64, nBins*n),
		CovTmp:   make([]float64, nBins*n),
		Ycover:   make([]float64, nBins*n),
		SeedLog:  make([]float64, 2*n),
		FogLog:   make([]float64, n),
		ShadeLog: make([]float64, n),
	}
}

// ResetStep zeroes the per-step scratch slices ahead of one time step's
// computation, leaving the capacity (and therefore the allocation) intact.
func (b *Buffers) ResetStep() {
	zero(b.LPs)
	zero(b.FecAll)
	zero(b.FecScope)
	zero(b.Recruits)
	zero(b.DHWStep)
	zero(b.PropLoss)
	zero(b.Sbl)
	zero(b.CovTmp)
	zero(b.SeedLog)
	zero(b.FogLog)
	zero(b.ShadeLog)
}

func zero(v []float64) {
	for i := range v {
		v[i] = 0
	}
}
