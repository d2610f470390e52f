// Package v1alpha1 holds the versioned wire shapes exchanged with the
// collaborators named in spec.md §6: geospatial/matrix loaders on the way
// in, and the result-store writer on the way out. Nothing in this package
// does I/O; it only fixes the field names and units callers must agree on.
package v1alpha1

// SiteRecord is one row of the site table a domain loader produces.
type SiteRecord struct {
	SiteID   string  `json:"site_id"`
	UniqueID string  `json:"unique_id"`
	AreaM2   float64 `json:"area"`
	DepthMed float64 `json:"depth_med"`
	K        float64 `json:"k"`
	Lon      float64 `json:"lon"`
	Lat      float64 `json:"lat"`
}

// DomainInputs is the full set of shapes pkg/domain.New consumes to build a
// Domain. Connectivity, DHW and Wave are flattened row-major; callers are
// responsible for the geospatial/matrix file parsing spec.md §1 excludes
// from the core.
type DomainInputs struct {
	Sites []SiteRecord `json:"sites"`

	// Connectivity is N_loc x N_loc, row-major, rows summing to <= 1.
	Connectivity []float64 `json:"connectivity"`

	// DHW and Wave are T x N_loc x R, row-major ([t*N_loc*R + l*R + r]).
	DHW  []float64 `json:"dhw"`
	Wave []float64 `json:"wave"`

	// InitialCover is 36 x N_loc, row-major, values in [0,1].
	InitialCover []float64 `json:"initial_cover"`

	HorizonYears       int `json:"horizon_years"`
	SitesPerIntervention int `json:"sites_per_intervention"`
}

// ScenarioParamsRow is the wire form of one row of the scenario parameter
// table described in spec.md §3 "Scenario parameters".
type ScenarioParamsRow struct {
	RCP    string `json:"rcp"`
	McdaID int    `json:"mcda_id"`

	SeedVolumeTabular  float64 `json:"seed_volume_tabular"`
	SeedVolumeCorymbose float64 `json:"seed_volume_corymbose"`
	FoggingFraction    float64 `json:"fogging_fraction"`
	SRM                float64 `json:"srm"`

	SeedStartYear int `json:"seed_start_year"`
	SeedYears     int `json:"seed_years"`
	SeedFreq      int `json:"seed_freq"`
	ShadeStartYear int `json:"shade_start_year"`
	ShadeYears     int `json:"shade_years"`
	ShadeFreq      int `json:"shade_freq"`

	WeightWave           float64 `json:"weight_wave"`
	WeightHeat           float64 `json:"weight_heat"`
	WeightInConnectivity float64 `json:"weight_in_connectivity"`
	WeightOutConnectivity float64 `json:"weight_out_connectivity"`
	WeightHighCover      float64 `json:"weight_high_cover"`
	WeightLowCover       float64 `json:"weight_low_cover"`
	WeightSeedPriority   float64 `json:"weight_seed_priority"`
	WeightShadePriority  float64 `json:"weight_shade_priority"`

	DeployedCoralRiskTol float64 `json:"deployed_coral_risk_tol"`
	DepthMin             float64 `json:"depth_min"`
	DepthOffset          float64 `json:"depth_offset"`

	SpreadEnabled  bool    `json:"spread_enabled"`
	SpreadMinDistFrac float64 `json:"spread_min_dist_frac"`
	SpreadTopN     int     `json:"spread_top_n"`
}

// ResultRecord is the shape the result-store callback in spec.md §6
// receives for one scenario index.
type ResultRecord struct {
	ScenarioIndex int `json:"scenario_index"`

	// Cover is T x 36 x N_loc x R, row-major.
	Cover []float64 `json:"cover"`
	// SeedLog is T x 2 x N_loc x R, row-major.
	SeedLog []float64 `json:"seed_log"`
	// FogLog and ShadeLog are T x N_loc x R, row-major, sparse (mostly 0).
	FogLog   []float64 `json:"fog_log"`
	ShadeLog []float64 `json:"shade_log"`
	// SiteRanks is T x N_loc x 2 (mean over R): seed_rank, shade_rank.
	SiteRanks []float64 `json:"site_ranks"`

	Failed       bool     `json:"failed"`
	Diagnostics  []string `json:"diagnostics,omitempty"`
}
