// Package domain holds the static world a batch of scenarios runs over:
// the location vector, connectivity matrix, derived connectivity metrics,
// and the simulation constants shared by every scenario (spec.md §3
// "Domain"). A Domain is constructed once and is read-only for the
// lifetime of every scenario that references it, mirroring the teacher's
// treatment of *v1.Node inputs to the multi-objective plugin: built once
// per Balance() call, never mutated by downstream objectives.
package domain

import (
	"math"
	"sort"

	"github.com/opencoral/adria/pkg/apierrors"
	v1alpha1 "github.com/opencoral/adria/pkg/api/v1alpha1"
)

// Location is a single reef polygon, indexed 1..N_loc (Index is 0-based in
// memory; the spec's 1-based convention is a presentation detail left to
// callers).
type Location struct {
	SiteID   string
	UniqueID string
	AreaM2   float64
	DepthMed float64
	K        float64
	Lon      float64
	Lat      float64
	Index    int
}

// Domain is the static, read-only world. All matrices are dense and
// indexed by Location.Index.
type Domain struct {
	Locations []Location

	// Connectivity is N_loc x N_loc, row-stochastic (rows sum to <= 1).
	Connectivity [][]float64

	// Distance is the precomputed pairwise distance matrix, N_loc x N_loc,
	// symmetric, zero diagonal.
	Distance [][]float64

	// ConnectivityRank[l] is a per-location scalar summarizing inbound
	// connectivity strength, used as a seed-priority criterion (spec.md §4.D).
	ConnectivityRank []float64

	// StrongestPredecessor[l] is the index of the location contributing the
	// largest inflow to l through Connectivity ("strongest predecessor",
	// spec.md glossary).
	StrongestPredecessor []int

	HorizonYears         int
	SitesPerIntervention int

	MedianPairwiseDistance float64

	Species SpeciesParams
}

// New validates DomainInputs and builds a Domain. Any dimensionality or
// site-id mismatch is a fatal ShapeMismatch error (spec.md §7).
func New(in v1alpha1.DomainInputs) (*Domain, error) {
	n := len(in.Sites)
	if n == 0 {
		return nil, apierrors.New(apierrors.ShapeMismatch, "domain has zero sites")
	}
	if len(in.Connectivity) != n*n {
		return nil, apierrors.New(apierrors.ShapeMismatch,
			"connectivity matrix has %d entries, want %d for %d sites", len(in.Connectivity), n*n, n)
	}
	if in.HorizonYears <= 0 {
		return nil, apierrors.New(apierrors.ShapeMismatch, "horizon_years must be positive, got %d", in.HorizonYears)
	}
	if in.SitesPerIntervention <= 0 {
		return nil, apierrors.New(apierrors.ShapeMismatch, "sites_per_intervention must be positive, got %d", in.SitesPerIntervention)
	}

	locations := make([]Location, n)
	for i, s := range in.Sites {
		if s.K < 0 || s.K > 1 {
			return nil, apierrors.New(apierrors.ShapeMismatch, "site %s has k=%f outside [0,1]", s.SiteID, s.K)
		}
		locations[i] = Location{
			SiteID:   s.SiteID,
			UniqueID: s.UniqueID,
			AreaM2:   s.AreaM2,
			DepthMed: s.DepthMed,
			K:        s.K,
			Lon:      s.Lon,
			Lat:      s.Lat,
			Index:    i,
		}
	}

	conn := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := in.Connectivity[i*n : (i+1)*n]
		sum := 0.0
		for _, v := range row {
			sum += v
		}
		if sum > 1.0+1e-9 {
			return nil, apierrors.New(apierrors.ShapeMismatch,
				"connectivity row %d sums to %f, exceeds 1", i, sum)
		}
		rowCopy := make([]float64, n)
		copy(rowCopy, row)
		conn[i] = rowCopy
	}

	dist := pairwiseDistance(locations)
	connRank := connectivityRank(conn)
	predecessor := strongestPredecessor(conn)
	median := medianPairwise(dist)

	return &Domain{
		Locations:              locations,
		Connectivity:           conn,
		Distance:               dist,
		ConnectivityRank:       connRank,
		StrongestPredecessor:   predecessor,
		HorizonYears:           in.HorizonYears,
		SitesPerIntervention:   in.SitesPerIntervention,
		MedianPairwiseDistance: median,
		Species:                DefaultSpeciesParams(),
	}, nil
}

// N returns the number of locations.
func (d *Domain) N() int { return len(d.Locations) }

// haversineKm is the great-circle distance in kilometres between two
// lon/lat points, the usual reef-scale distance metric.
func haversineKm(lon1, lat1, lon2, lat2 float64) float64 {
	const earthRadiusKm = 6371.0
	rad := math.Pi / 180.0
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func pairwiseDistance(locs []Location) [][]float64 {
	n := len(locs)
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := haversineKm(locs[i].Lon, locs[i].Lat, locs[j].Lon, locs[j].Lat)
			dist[i][j] = d
			dist[j][i] = d
		}
	}
	return dist
}

func medianPairwise(dist [][]float64) float64 {
	n := len(dist)
	var vals []float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			vals = append(vals, dist[i][j])
		}
	}
	if len(vals) == 0 {
		return 0
	}
	sort.Float64s(vals)
	mid := len(vals) / 2
	if len(vals)%2 == 0 {
		return (vals[mid-1] + vals[mid]) / 2
	}
	return vals[mid]
}

// connectivityRank sums inbound transition probability per location, a
// cheap proxy for "in-connectivity strength" used as a seed-priority
// criterion by the site selector.
func connectivityRank(conn [][]float64) []float64 {
	n := len(conn)
	rank := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			rank[j] += conn[i][j]
		}
	}
	return rank
}

// strongestPredecessor finds, for each location, the source contributing
// the largest inflow (spec.md glossary "strongest predecessor").
func strongestPredecessor(conn [][]float64) []int {
	n := len(conn)
	pred := make([]int, n)
	for j := 0; j < n; j++ {
		best := -1
		bestVal := -1.0
		for i := 0; i < n; i++ {
			if conn[i][j] > bestVal {
				bestVal = conn[i][j]
				best = i
			}
		}
		pred[j] = best
	}
	return pred
}

// ValidateCover checks the dimensionality of an initial cover array against
// this Domain's site count (spec.md §6 "Initial coral cover": 36 x N_loc).
func (d *Domain) ValidateCover(cover []float64, speciesBins int) error {
	want := speciesBins * d.N()
	if len(cover) != want {
		return apierrors.New(apierrors.ShapeMismatch,
			"initial cover has %d entries, want %d (%d bins x %d sites)", len(cover), want, speciesBins, d.N())
	}
	return nil
}
