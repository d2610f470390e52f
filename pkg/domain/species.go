package domain

// SpeciesGroup indexes the taxon groups the ecosystem stepper sums
// size-classes within (spec.md §4.F "Fecundity scope"). The two enhanced
// taxa used by seeding are TabularAcropora and CorymboseAcropora.
type SpeciesGroup int

const (
	TabularAcropora SpeciesGroup = iota
	CorymboseAcropora
	SpeciesGroupBranching
	SpeciesGroupMassive
	numSpeciesGroups
)

// NumSpeciesGroups is the number of taxon groups the 36 (species x
// size-class) bins of spec.md §3 "Coral-cover state" are partitioned into.
const NumSpeciesGroups = int(numSpeciesGroups)

// SizeClassesPerGroup and CoverBins follow spec.md's "36 (species x
// size-class) bins": four taxon groups x nine size classes.
const (
	SizeClassesPerGroup = 9
	CoverBins           = NumSpeciesGroups * SizeClassesPerGroup
)

// EnhancedSizeClass is the size class seeding deposits into (spec.md
// §4.F.7: "size-class 2").
const EnhancedSizeClass = 2

// bin returns the flat index into a CoverBins-length row for (group, size class).
func bin(group SpeciesGroup, sizeClass int) int {
	return int(group)*SizeClassesPerGroup + sizeClass
}

// Bin is the exported form of bin, used outside the package to address
// Y[t, s, l] rows by (group, size class) instead of a raw bin index.
func Bin(group SpeciesGroup, sizeClass int) int { return bin(group, sizeClass) }

// SpeciesParams holds the per-bin biological parameters Domain carries:
// growth, mortality, bleaching sensitivity, colony area and fecundity, all
// indexed by the same flat bin index as the cover state (spec.md §3
// "Domain": "coral species parameter tables").
type SpeciesParams struct {
	// ColonyAreaM2[s] is the mean colony area for bin s, used to convert
	// seeding volumes into a cover fraction (spec.md §4.F.7).
	ColonyAreaM2 [CoverBins]float64

	// FecundityPerM2[s] is the per-m2 fecundity for bin s (spec.md §4.F.2
	// "Fecundity scope").
	FecundityPerM2 [CoverBins]float64

	// BleachResistance[s] shifts the Gompertz bleaching-survival kernel per
	// bin (spec.md §4.F.5).
	BleachResistance [CoverBins]float64

	// WaveMortality90[s] is the 90th-percentile wave-mortality rate per bin,
	// used both as a decision-matrix criterion and in the combined
	// proportional-loss step (spec.md §4.D.3, §4.F.6).
	WaveMortality90 [CoverBins]float64

	// NaturalAdaptation and AssistedAdaptation[s] parameterize the
	// Gompertz-shaped larval-production response (spec.md §4.F.1) and are
	// subtracted from DHW in the bleaching-survival kernel (spec.md §4.F.5).
	NaturalAdaptation  [CoverBins]float64
	AssistedAdaptation [CoverBins]float64
}

// DefaultSpeciesParams returns a plausible, deterministic parameter table.
// Real deployments load this from the species parameter tables spec.md §1
// treats as an external collaborator; this default lets the engine run
// standalone for tests and examples.
func DefaultSpeciesParams() SpeciesParams {
	var p SpeciesParams
	for s := 0; s < CoverBins; s++ {
		group := s / SizeClassesPerGroup
		sizeClass := s % SizeClassesPerGroup
		sizeScale := float64(sizeClass+1) / float64(SizeClassesPerGroup)

		p.ColonyAreaM2[s] = 0.01 + 0.5*sizeScale*sizeScale
		p.FecundityPerM2[s] = 5.0 + 45.0*sizeScale
		p.WaveMortality90[s] = 0.05 + 0.1*float64(group%2)
		p.NaturalAdaptation[s] = 0.0
		p.AssistedAdaptation[s] = 0.0

		switch SpeciesGroup(group) {
		case TabularAcropora, CorymboseAcropora:
			p.BleachResistance[s] = 0.2 // Acropora: least heat tolerant
		default:
			p.BleachResistance[s] = 0.6
		}
	}
	return p
}
