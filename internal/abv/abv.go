// Package abv estimates alcohol by volume for extract brews.
package abv

import "math"

// Result holds the computed gravities for an estimate.
type Result struct {
	GravityPoints   float64
	OriginalGravity float64
	ABV             float64
}

// Estimate computes original gravity and ABV from the liquid malt extract
// weight (kg), the brew volume (litres) and the measured final gravity.
// The 309 factor is gravity points contributed per kg of LME per litre; the
// 131.25 factor converts the gravity drop to percent alcohol. Invalid input
// (non-positive volume, non-finite values) yields a zero Result.
func Estimate(lmeKg, volumeL, finalGravity float64) Result {
	if volumeL <= 0 || !finite(lmeKg) || !finite(volumeL) || !finite(finalGravity) {
		return Result{}
	}

	gravityPoints := lmeKg * 309 / volumeL
	og := 1 + gravityPoints/1000
	abv := (og - finalGravity) * 131.25
	if abv < 0 {
		abv = 0
	}

	return Result{
		GravityPoints:   gravityPoints,
		OriginalGravity: og,
		ABV:             abv,
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
