package services

import (
	"math"
	"testing"
)

func TestNormalizeWeightsWithinTolerance(t *testing.T) {
	// Sum 1.05 is inside the band; leave the weights alone.
	weights := []float64{0.55, 0.5}
	got, changed := NormalizeWeights(weights)
	if changed {
		t.Errorf("weights summing to 1.05 should not be renormalized, got %v", got)
	}
}

func TestNormalizeWeightsOutsideTolerance(t *testing.T) {
	weights := []float64{2, 1, 1}
	got, changed := NormalizeWeights(weights)
	if !changed {
		t.Fatal("weights summing to 4 must be renormalized")
	}

	sum := 0.0
	for _, w := range got {
		sum += w
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("renormalized sum = %v, want 1", sum)
	}
	if math.Abs(got[0]-0.5) > 1e-12 {
		t.Errorf("got[0] = %v, want 0.5", got[0])
	}
}

func TestNormalizeWeightsAllZero(t *testing.T) {
	weights := []float64{0, 0}
	if _, changed := NormalizeWeights(weights); changed {
		t.Error("all-zero weights cannot be renormalized and should be left alone")
	}
}

func TestNormalizeWeightsEmpty(t *testing.T) {
	if _, changed := NormalizeWeights(nil); changed {
		t.Error("empty weight set should be a no-op")
	}
}
