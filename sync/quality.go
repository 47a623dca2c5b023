package sync

import (
	"math"

	"github.com/golang/geo/s2"

	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
)

const earthRadiusMeters = 6371000.0

func metresBetween(a, b engine.Position) float64 {
	la := s2.LatLngFromDegrees(a.Lat, a.Lon)
	lb := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return la.Distance(lb).Radians() * earthRadiusMeters
}

// interiorAngleDegrees returns the interior angle, in degrees, at vertex b
// formed by the segments b-a and b-c.
func interiorAngleDegrees(a, b, c engine.Position) float64 {
	v1x, v1y := a.Lon-b.Lon, a.Lat-b.Lat
	v2x, v2y := c.Lon-b.Lon, c.Lat-b.Lat
	mag1 := math.Hypot(v1x, v1y)
	mag2 := math.Hypot(v2x, v2y)
	if mag1 == 0 || mag2 == 0 {
		return 180
	}
	cosTheta := (v1x*v2x + v1y*v2y) / (mag1 * mag2)
	cosTheta = math.Max(-1, math.Min(1, cosTheta))
	return math.Acos(cosTheta) * 180 / math.Pi
}

// AssessConnectionQuality evaluates the interior angle and the distance to
// the unedited neighbour at both ends of the changed range [startIdx,
// endIdx] on ring, and reports the weaker of the two verdicts.
func AssessConnectionQuality(ring engine.Ring, startIdx, endIdx int, tol engine.Tolerances) engine.SnapQuality {
	n := engine.OpenVertexCount(ring)
	if n < 3 {
		return engine.SnapQualityPoor
	}
	open := ring[:n]
	start := engine.ModIndex(startIdx, n)
	end := engine.ModIndex(endIdx, n)

	if !assessEndpoint(open, n, start, -1, tol) {
		return engine.SnapQualityPoor
	}
	if !assessEndpoint(open, n, end, 1, tol) {
		return engine.SnapQualityPoor
	}
	return engine.SnapQualityGood
}

// assessEndpoint checks the angle at ring vertex idx and the distance from
// idx to its neighbour on the unedited side, dir steps away from the
// changed range (-1 for the start boundary, +1 for the end boundary).
func assessEndpoint(open engine.Ring, n, idx, dir int, tol engine.Tolerances) bool {
	prev := open[engine.ModIndex(idx-1, n)]
	cur := open[idx]
	next := open[engine.ModIndex(idx+1, n)]
	angle := interiorAngleDegrees(prev, cur, next)
	if angle < tol.ConnectionAngleMinDeg {
		return false
	}

	unedited := open[engine.ModIndex(idx+dir, n)]
	if metresBetween(unedited, cur) > tol.ConnectionDistanceMaxM {
		return false
	}
	return true
}
