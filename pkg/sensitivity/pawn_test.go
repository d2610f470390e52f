package sensitivity

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"
)

// TestPAWNInsensitiveFactorHasLowIndex checks spec.md §8's "PAWN
// insensitivity" property: when y is independent of a factor, that
// factor's PAWN mean index should be small.
func TestPAWNInsensitiveFactorHasLowIndex(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	n := 2000
	d := 1
	x := make([]float64, n*d)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = rng.Float64()
		y[i] = rng.Float64() // independent of x
	}

	results := PAWN(x, d, n, y, DefaultSlices)
	if len(results) != 1 {
		t.Fatalf("got %d factor results, want 1", len(results))
	}
	mean := results[0][1]
	if mean > 0.25 {
		t.Errorf("PAWN mean index for an independent factor = %.4f, want a small value", mean)
	}
}

func TestPAWNSensitiveFactorHasHigherIndexThanNoise(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	n := 2000
	x := make([]float64, n*2)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		factor := rng.Float64()
		noise := rng.Float64()
		x[i*2] = factor
		x[i*2+1] = noise
		y[i] = factor*factor + 0.01*rng.Float64()
	}

	results := PAWN(x, 2, n, y, DefaultSlices)
	sensitive := results[0][1]
	insensitive := results[1][1]
	if sensitive <= insensitive {
		t.Errorf("expected the driving factor's PAWN index (%.4f) to exceed the noise factor's (%.4f)", sensitive, insensitive)
	}
}

func TestRSAMarksMissingForDegenerateSlices(t *testing.T) {
	n := 5
	x := []float64{1, 1, 1, 1, 1}
	y := []float64{1, 1, 1, 1, 1}
	out := RSA(x, 1, n, y, DefaultSlices)
	if len(out) != DefaultSlices {
		t.Fatalf("got %d entries, want %d", len(out), DefaultSlices)
	}
	for s, v := range out {
		if !math.IsNaN(v) {
			t.Errorf("slice %d = %v, want NaN (missing) for a constant output", s, v)
		}
	}
}

func TestOutcomeMapEmptyBehavioralSetReturnsMissing(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	n := 20
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
		y[i] = 0 // never behavioral
	}
	rule := func(v float64) bool { return v > 1 }
	out := OutcomeMap(x, 1, n, y, rule, DefaultSlices, DefaultResamples, DefaultCILevel, rng)
	for _, cell := range out[0] {
		if !cell.Missing {
			t.Fatalf("expected all cells missing when no output is behavioral, got %+v", cell)
		}
	}
}
