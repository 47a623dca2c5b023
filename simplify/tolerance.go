package simplify

import (
	"math"

	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
)

// FindToleranceForTarget performs a geometric-midpoint (log-scale) bisection
// over [tol.ToleranceSearchMin, tol.ToleranceSearchMax] for the tolerance
// that simplifies geom to approximately targetVertices vertices. It exits
// early once the candidate result is within ToleranceSearchTargetFraction
// of the target, and never runs more than ToleranceSearchMaxIterations
// iterations.
func FindToleranceForTarget(geom engine.MultiPolygon, targetVertices int, tol engine.Tolerances, highQuality bool) float64 {
	if targetVertices <= 0 {
		return tol.ToleranceSearchMax
	}

	lo := math.Log(tol.ToleranceSearchMin)
	hi := math.Log(tol.ToleranceSearchMax)
	best := tol.ToleranceSearchMin

	for i := 0; i < tol.ToleranceSearchMaxIterations; i++ {
		mid := (lo + hi) / 2
		candidate := math.Exp(mid)
		simplified := Simplify(geom, candidate, highQuality)
		count := CountVertices(simplified)

		best = candidate

		if count == targetVertices {
			return candidate
		}

		fraction := math.Abs(float64(count)-float64(targetVertices)) / float64(targetVertices)
		if fraction <= tol.ToleranceSearchTargetFraction {
			return candidate
		}

		if count > targetVertices {
			// Too many vertices survived: tolerance needs to grow.
			lo = mid
		} else {
			// Too aggressive: tolerance needs to shrink.
			hi = mid
		}
	}

	return best
}
