// Package config implements the two environment controls of spec.md §6:
// "reps" (positive integer number of environmental replicates) and
// "threshold" (float; output values below this magnitude are stored as
// 0). Grounded on the teacher's Config+DefaultConfig pairing
// (objectives/balance.BalanceConfig/DefaultBalanceConfig), generalized to
// read from the environment with pflag override, the way cobra-based CLIs
// in the corpus layer flags over env defaults.
package config

import (
	"os"
	"strconv"

	"github.com/spf13/pflag"
)

const (
	envReps      = "ADRIA_REPS"
	envThreshold = "ADRIA_THRESHOLD"

	defaultReps      = 50
	defaultThreshold = 1e-6
)

// Config holds the engine's two recognized environment controls.
type Config struct {
	Reps      int
	Threshold float64
}

// Default returns the engine's built-in defaults.
func Default() Config {
	return Config{Reps: defaultReps, Threshold: defaultThreshold}
}

// FromEnv returns Default overridden by ADRIA_REPS / ADRIA_THRESHOLD when
// present and parseable; malformed values are ignored in favor of the
// default, since config parsing is not in spec.md's error taxonomy.
func FromEnv() Config {
	cfg := Default()
	if v, ok := os.LookupEnv(envReps); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Reps = n
		}
	}
	if v, ok := os.LookupEnv(envThreshold); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Threshold = f
		}
	}
	return cfg
}

// BindFlags registers --reps and --threshold on fs, seeded from cfg, so a
// cobra command can layer explicit flags over the environment-derived
// defaults.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.IntVar(&c.Reps, "reps", c.Reps, "number of environmental replicates")
	fs.Float64Var(&c.Threshold, "threshold", c.Threshold, "output values below this magnitude are stored as 0")
}
