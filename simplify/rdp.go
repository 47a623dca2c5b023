// Package simplify applies Ramer-Douglas-Peucker simplification to a
// patch's MultiPolygon at a user-chosen tolerance, plus the
// deviation/reduction statistics and tolerance-search helper the
// simplify-preview UI mode needs.
package simplify

import (
	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
)

// Simplify applies Ramer-Douglas-Peucker per ring with the given tolerance
// (in degrees). highQuality is accepted for API symmetry with the UI's
// slider-preview/final-apply distinction; the algorithm here is the same
// either way. Hosts expecting low-quality mode to be cheaper should instead
// pass a looser tolerance or decimate before calling this.
func Simplify(geom engine.MultiPolygon, toleranceDeg float64, highQuality bool) engine.MultiPolygon {
	out := make(engine.MultiPolygon, len(geom))
	for pi, poly := range geom {
		newPoly := make(engine.Polygon, len(poly))
		for ri, ring := range poly {
			newPoly[ri] = simplifyRing(ring, toleranceDeg)
		}
		out[pi] = newPoly
	}
	return out
}

// simplifyRing runs RDP on one ring, never reducing it below 3 open
// vertices: if RDP would, the original ring is returned unchanged.
func simplifyRing(ring engine.Ring, toleranceDeg float64) engine.Ring {
	n := engine.OpenVertexCount(ring)
	if n < 3 {
		return append(engine.Ring(nil), ring...)
	}
	open := engine.Open(ring)
	tolSq := toleranceDeg * toleranceDeg

	// RDP is defined over an open polyline; run it on the ring opened at
	// vertex 0 with the closing edge appended, then drop the duplicated
	// final vertex before re-closing on output.
	poly := append(append(engine.Ring(nil), open...), open[0])
	keep := make([]bool, len(poly))
	keep[0] = true
	keep[len(poly)-1] = true
	rdp(poly, 0, len(poly)-1, tolSq, keep)

	simplified := make(engine.Ring, 0, len(poly))
	for i, k := range keep {
		if k {
			simplified = append(simplified, poly[i])
		}
	}
	// Drop the duplicated closing vertex RDP was given to work with.
	if len(simplified) > 1 && simplified[0] == simplified[len(simplified)-1] {
		simplified = simplified[:len(simplified)-1]
	}
	if len(simplified) < 3 {
		return open
	}
	return simplified
}

func rdp(pts engine.Ring, start, end int, tolSq float64, keep []bool) {
	if end <= start+1 {
		return
	}
	maxDistSq := -1.0
	maxIdx := -1
	a, b := pts[start], pts[end]
	for i := start + 1; i < end; i++ {
		_, distSq := engine.ProjectToNearestPointOnSegment(pts[i], a, b)
		if distSq > maxDistSq {
			maxDistSq = distSq
			maxIdx = i
		}
	}
	if maxIdx == -1 || maxDistSq <= tolSq {
		return
	}
	keep[maxIdx] = true
	rdp(pts, start, maxIdx, tolSq, keep)
	rdp(pts, maxIdx, end, tolSq, keep)
}

// CountVertices returns the total open-vertex count across every ring of
// every polygon in geom.
func CountVertices(geom engine.MultiPolygon) int {
	total := 0
	for _, poly := range geom {
		for _, ring := range poly {
			total += engine.OpenVertexCount(ring)
		}
	}
	return total
}
