// Package climateforcing wraps the DHW (degree-heating weeks) and wave
// stress arrays described in spec.md §3 "Climate forcing arrays": dense,
// read-only, shaped T x N_loc x R.
package climateforcing

import "github.com/opencoral/adria/pkg/apierrors"

// Forcing is one environmental array, T x N_loc x R, row-major.
type Forcing struct {
	data        []float64
	T, NLoc, R  int
}

// New validates shape and wraps data. data must already be T*NLoc*R long.
func New(data []float64, t, nLoc, r int) (*Forcing, error) {
	want := t * nLoc * r
	if len(data) != want {
		return nil, apierrors.New(apierrors.ShapeMismatch,
			"forcing array has %d entries, want %d (%d x %d x %d)", len(data), want, t, nLoc, r)
	}
	return &Forcing{data: data, T: t, NLoc: nLoc, R: r}, nil
}

// At returns the value for (year t, location l, replicate r). All three
// arguments are 0-based offsets: t=0 is the first year of the horizon.
func (f *Forcing) At(t, l, r int) float64 {
	return f.data[t*f.NLoc*f.R+l*f.R+r]
}

// Slice returns the N_loc-length vector for (year t, replicate r), the unit
// the ecosystem stepper consumes at each time step.
func (f *Forcing) Slice(t, r int) []float64 {
	out := make([]float64, f.NLoc)
	for l := 0; l < f.NLoc; l++ {
		out[l] = f.At(t, l, r)
	}
	return out
}

// Replicates returns R, the number of environmental replicates.
func (f *Forcing) Replicates() int { return f.R }

// Horizon returns T.
func (f *Forcing) Horizon() int { return f.T }
