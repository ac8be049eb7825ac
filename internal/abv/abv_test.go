package abv

import (
	"math"
	"testing"
)

func TestEstimate_ReferenceValues(t *testing.T) {
	// 1.0 kg LME in 5.7 L at FG 1.010.
	r := Estimate(1.0, 5.7, 1.010)

	if got, want := r.GravityPoints, 1.0*309/5.7; math.Abs(got-want) > 1e-9 {
		t.Errorf("GravityPoints = %v, want %v", got, want)
	}
	if math.Abs(r.OriginalGravity-1.0542105263) > 1e-6 {
		t.Errorf("OriginalGravity = %v, want ~1.0542", r.OriginalGravity)
	}
	if math.Abs(r.ABV-5.8026) > 1e-3 {
		t.Errorf("ABV = %v, want ~5.80", r.ABV)
	}
}

func TestEstimate_NegativeClampedToZero(t *testing.T) {
	// FG above OG means fermentation hasn't started; ABV must clamp to 0.
	r := Estimate(0.1, 10, 1.050)
	if r.ABV != 0 {
		t.Errorf("ABV = %v, want 0", r.ABV)
	}
	if r.OriginalGravity == 0 {
		t.Error("OriginalGravity should still be computed")
	}
}

func TestEstimate_InvalidInput(t *testing.T) {
	cases := []struct {
		name         string
		lme, vol, fg float64
	}{
		{"zero volume", 1.0, 0, 1.010},
		{"negative volume", 1.0, -5, 1.010},
		{"nan lme", math.NaN(), 5.7, 1.010},
		{"inf fg", 1.0, 5.7, math.Inf(1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if r := Estimate(tc.lme, tc.vol, tc.fg); r != (Result{}) {
				t.Errorf("Estimate(%v, %v, %v) = %+v, want zero Result", tc.lme, tc.vol, tc.fg, r)
			}
		})
	}
}
