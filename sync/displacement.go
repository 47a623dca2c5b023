package sync

import (
	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
)

// DisplacementSync moves each neighbour vertex that lies within tolerance
// of the old edited ring by the vector from its nearest point on the old
// ring to the nearest point on the new ring. Vertices outside the old
// ring's padded bounding box, or whose nearest old-ring point is farther
// than tol.AdjacencySqDeg, are left untouched. A computed displacement
// whose squared magnitude exceeds DisplacementMaxSqDeg (clearly wrong) or
// falls below DisplacementMinSqDeg (no-op) is also skipped. Returns the
// resulting ring and the number of vertices actually moved; a caller
// seeing zero should fall back to ProjectionSync.
func DisplacementSync(neighbourRing, oldEditedRing, newEditedRing engine.Ring, tol engine.Tolerances) (engine.Ring, int) {
	out := append(engine.Ring(nil), neighbourRing...)
	oldOpen := engine.Open(oldEditedRing)
	newOpen := engine.Open(newEditedRing)
	nOld := len(oldOpen)
	nNew := len(newOpen)
	if len(out) == 0 || nOld == 0 || nNew == 0 {
		return out, 0
	}

	oldBox := engine.Bbox(oldOpen)
	pad := tol.BBoxPadDeg
	displaced := 0

	for i, v := range neighbourRing {
		if v.Lon < oldBox.MinLon-pad || v.Lon > oldBox.MaxLon+pad ||
			v.Lat < oldBox.MinLat-pad || v.Lat > oldBox.MaxLat+pad {
			continue
		}

		pOld, distSq, _ := engine.NearestPointOnRing(v.Lon, v.Lat, oldOpen, nOld)
		if distSq > tol.AdjacencySqDeg {
			continue
		}

		pNew, _, _ := engine.NearestPointOnRing(pOld.Lon, pOld.Lat, newOpen, nNew)
		dx := pNew.Lon - pOld.Lon
		dy := pNew.Lat - pOld.Lat
		magSq := dx*dx + dy*dy
		if magSq > tol.DisplacementMaxSqDeg || magSq < tol.DisplacementMinSqDeg {
			continue
		}

		out[i] = engine.Position{Lon: v.Lon + dx, Lat: v.Lat + dy}
		displaced++
	}

	return out, displaced
}
