// Package ecosystem implements the per-year stepper of spec.md §4.F and
// the proportional-cover adjuster of §4.J.
package ecosystem

// GrowthIntegrator is the "external ODE integrator" spec.md §4.F.8 treats
// as a black box: given an initial per-bin cover state and a fixed time
// span, return the grown state. Implementations own whatever growth model
// (logistic, Richards, coupled-ODE) the deployment wants; the stepper only
// needs the fixed-span contract.
type GrowthIntegrator interface {
	Integrate(initial []float64, span float64) []float64
}

// RK4Integrator is the default GrowthIntegrator: fixed-step 4th-order
// Runge-Kutta logistic growth toward each bin's carrying capacity,
// Growth[s] * y * (1 - y/K[s]). No ODE solver appears anywhere in the
// example corpus (gonum ships no stable ODE package at this dependency
// set), so this integrator is hand-rolled rather than library-backed; see
// DESIGN.md.
type RK4Integrator struct {
	Growth []float64 // per-bin intrinsic growth rate
	K      []float64 // per-bin carrying capacity (colony-area normalized, typically 1)
	Steps  int        // RK4 substeps per Integrate call
}

// NewRK4Integrator builds an integrator for nBins bins with a uniform
// growth rate and per-bin capacity 1 (cover is already a fraction of site
// capacity by construction), taking 4 substeps per year.
func NewRK4Integrator(nBins int, growthRate float64) *RK4Integrator {
	growth := make([]float64, nBins)
	k := make([]float64, nBins)
	for i := range growth {
		growth[i] = growthRate
		k[i] = 1.0
	}
	return &RK4Integrator{Growth: growth, K: k, Steps: 4}
}

// Integrate accepts either one value per bin or a bins x N_loc state laid
// out bin-major (bin s occupies entries [s*N_loc, (s+1)*N_loc)), as the
// stepper passes it; every entry of a bin's row uses that bin's Growth and K.
func (r *RK4Integrator) Integrate(initial []float64, span float64) []float64 {
	n := len(initial)
	y := make([]float64, n)
	copy(y, initial)

	steps := r.Steps
	if steps < 1 {
		steps = 1
	}
	h := span / float64(steps)

	perBin := 1
	if len(r.K) > 0 && n > len(r.K) {
		perBin = n / len(r.K)
	}

	deriv := func(state []float64) []float64 {
		d := make([]float64, n)
		for i, v := range state {
			b := i / perBin
			k := r.K[b]
			if k <= 0 {
				d[i] = 0
				continue
			}
			d[i] = r.Growth[b] * v * (1 - v/k)
		}
		return d
	}

	scratch := make([]float64, n)
	for s := 0; s < steps; s++ {
		k1 := deriv(y)

		addScaled(scratch, y, k1, h/2)
		k2 := deriv(scratch)

		addScaled(scratch, y, k2, h/2)
		k3 := deriv(scratch)

		addScaled(scratch, y, k3, h)
		k4 := deriv(scratch)

		for i := range y {
			y[i] += (h / 6) * (k1[i] + 2*k2[i] + 2*k3[i] + k4[i])
			if y[i] < 0 {
				y[i] = 0
			}
		}
	}
	return y
}

func addScaled(dst, base, deriv []float64, h float64) {
	for i := range dst {
		dst[i] = base[i] + h*deriv[i]
	}
}
