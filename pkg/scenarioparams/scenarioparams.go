// Package scenarioparams adapts the wire-level v1alpha1.ScenarioParamsRow
// into the typed value the rest of the engine consumes, and derives the
// deterministic per-scenario PRNG seed spec.md §5 requires for unguided
// site selection.
package scenarioparams

import (
	"math"
	"reflect"

	v1alpha1 "github.com/opencoral/adria/pkg/api/v1alpha1"
)

// McdaAlgorithm identifies which ranking algorithm (if any) drives guided
// site selection (spec.md §3 "Scenario parameters").
type McdaAlgorithm int

const (
	AlgorithmCounterfactual McdaAlgorithm = -1 // "cf": no intervention
	AlgorithmUnguided       McdaAlgorithm = 0
	AlgorithmOrderSum       McdaAlgorithm = 1
	AlgorithmTOPSIS         McdaAlgorithm = 2
	AlgorithmVIKOR          McdaAlgorithm = 3
)

// Params is the typed, validated form of one scenario row.
type Params struct {
	RCP    string
	McdaID McdaAlgorithm

	SeedVolumeTabular   float64
	SeedVolumeCorymbose float64
	FoggingFraction     float64
	SRM                 float64

	SeedStartYear, SeedYears, SeedFreq    int
	ShadeStartYear, ShadeYears, ShadeFreq int

	WeightWave            float64
	WeightHeat            float64
	WeightInConnectivity  float64
	WeightOutConnectivity float64
	WeightHighCover       float64
	WeightLowCover        float64
	WeightSeedPriority    float64
	WeightShadePriority   float64

	DeployedCoralRiskTol float64
	DepthMin             float64
	DepthOffset          float64

	SpreadEnabled     bool
	SpreadMinDistFrac float64
	SpreadTopN        int
}

// FromRow converts the wire row into Params.
func FromRow(row v1alpha1.ScenarioParamsRow) Params {
	return Params{
		RCP:                   row.RCP,
		McdaID:                McdaAlgorithm(row.McdaID),
		SeedVolumeTabular:     row.SeedVolumeTabular,
		SeedVolumeCorymbose:   row.SeedVolumeCorymbose,
		FoggingFraction:       row.FoggingFraction,
		SRM:                   row.SRM,
		SeedStartYear:         row.SeedStartYear,
		SeedYears:             row.SeedYears,
		SeedFreq:              row.SeedFreq,
		ShadeStartYear:        row.ShadeStartYear,
		ShadeYears:            row.ShadeYears,
		ShadeFreq:             row.ShadeFreq,
		WeightWave:            row.WeightWave,
		WeightHeat:            row.WeightHeat,
		WeightInConnectivity:  row.WeightInConnectivity,
		WeightOutConnectivity: row.WeightOutConnectivity,
		WeightHighCover:       row.WeightHighCover,
		WeightLowCover:        row.WeightLowCover,
		WeightSeedPriority:    row.WeightSeedPriority,
		WeightShadePriority:   row.WeightShadePriority,
		DeployedCoralRiskTol:  row.DeployedCoralRiskTol,
		DepthMin:              row.DepthMin,
		DepthOffset:           row.DepthOffset,
		SpreadEnabled:         row.SpreadEnabled,
		SpreadMinDistFrac:     row.SpreadMinDistFrac,
		SpreadTopN:            row.SpreadTopN,
	}
}

// SeedActive reports whether any enhanced-taxon seeding volume is nonzero.
func (p Params) SeedActive() bool {
	return p.SeedVolumeTabular > 0 || p.SeedVolumeCorymbose > 0
}

// ShadeActive reports whether either shading mechanism (SRM or fogging) is active.
func (p Params) ShadeActive() bool {
	return p.SRM > 0 || p.FoggingFraction > 0
}

// SeedWeights returns the seeding decision matrix's weights keyed by
// criterion name. The map itself is unordered; the deterministic column
// order comes from framework.SeedIntent.Criteria.
func (p Params) SeedWeights() map[string]float64 {
	return map[string]float64{
		"wave":            p.WeightWave,
		"heat":            p.WeightHeat,
		"in_connectivity": p.WeightInConnectivity,
		"low_cover":       p.WeightLowCover,
		"seed_priority":   p.WeightSeedPriority,
	}
}

// ShadeWeights returns the shading/fogging decision matrix's weights.
func (p Params) ShadeWeights() map[string]float64 {
	return map[string]float64{
		"wave":             p.WeightWave,
		"heat":             p.WeightHeat,
		"out_connectivity": p.WeightOutConnectivity,
		"high_cover":       p.WeightHighCover,
		"shade_priority":   p.WeightShadePriority,
	}
}

// Seed derives the deterministic PRNG seed spec.md §5 prescribes for
// unguided site selection: "sum-of-integer-cast of the first 24 fields" of
// the scenario parameter row. Params has 26 exported fields; the first 24
// in struct-declaration order (RCP through SpreadEnabled) are used: each
// numeric field is cast to its nearest integer, bools and strings to a
// stable ordinal, and the results are summed.
func (p Params) Seed() uint64 {
	v := reflect.ValueOf(p)
	var sum int64
	n := v.NumField()
	if n > 24 {
		n = 24
	}
	for i := 0; i < n; i++ {
		f := v.Field(i)
		switch f.Kind() {
		case reflect.Float64:
			sum += int64(math.Round(f.Float()))
		case reflect.Int:
			sum += int64(f.Int())
		case reflect.Bool:
			if f.Bool() {
				sum++
			}
		case reflect.String:
			for _, r := range f.String() {
				sum += int64(r)
			}
		}
	}
	if sum < 0 {
		sum = -sum
	}
	return uint64(sum)
}
