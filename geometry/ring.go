package geometry

import "math"

// ModIndex returns i modulo n, always in [0, n), the cyclic index
// primitive every wrap-aware range in this package is built on.
func ModIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	m := i % n
	if m < 0 {
		m += n
	}
	return m
}

// OpenVertexCount strips a trailing closing vertex if the ring is closed and
// returns the resulting open length. It does not mutate ring.
func OpenVertexCount(ring Ring) int {
	n := len(ring)
	if n >= 2 && ring[0] == ring[n-1] {
		return n - 1
	}
	return n
}

// IsDegenerate reports whether a ring has fewer than 3 open vertices. Such
// rings are ignored by every algorithm rather than erroring.
func IsDegenerate(ring Ring) bool {
	return OpenVertexCount(ring) < 3
}

// Open returns the ring's vertices in open form (no repeated closing vertex).
func Open(ring Ring) Ring {
	n := OpenVertexCount(ring)
	return append(Ring(nil), ring[:n]...)
}

// EnsureClosed appends a copy of the first vertex if the ring is not already
// closed. A ring of length 0 or 1 is returned unchanged.
func EnsureClosed(ring Ring) Ring {
	n := len(ring)
	if n < 2 {
		return ring
	}
	if ring[0] == ring[n-1] {
		return ring
	}
	closed := make(Ring, n+1)
	copy(closed, ring)
	closed[n] = ring[0]
	return closed
}

// BBox is an axis-aligned bounding box in degrees.
type BBox struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

// Bbox computes the bounding box of a ring's vertices.
func Bbox(ring Ring) BBox {
	box := BBox{MinLon: math.Inf(1), MinLat: math.Inf(1), MaxLon: math.Inf(-1), MaxLat: math.Inf(-1)}
	for _, p := range ring {
		if p.Lon < box.MinLon {
			box.MinLon = p.Lon
		}
		if p.Lon > box.MaxLon {
			box.MaxLon = p.Lon
		}
		if p.Lat < box.MinLat {
			box.MinLat = p.Lat
		}
		if p.Lat > box.MaxLat {
			box.MaxLat = p.Lat
		}
	}
	return box
}

// BBoxesOverlap reports whether two boxes overlap once each is padded
// (Minkowski-grown) by padDeg on every side.
func BBoxesOverlap(a, b BBox, padDeg float64) bool {
	if a.MaxLon+padDeg < b.MinLon-padDeg || b.MaxLon+padDeg < a.MinLon-padDeg {
		return false
	}
	if a.MaxLat+padDeg < b.MinLat-padDeg || b.MaxLat+padDeg < a.MinLat-padDeg {
		return false
	}
	return true
}

// ProjectToNearestPointOnSegment clamps p's projection onto segment a-b to
// lie within the segment, returning the foot of the (possibly clamped)
// perpendicular and the squared distance from p to it.
func ProjectToNearestPointOnSegment(p, a, b Position) (Position, float64) {
	dx := b.Lon - a.Lon
	dy := b.Lat - a.Lat
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return a, sqDist(p, a)
	}
	t := ((p.Lon-a.Lon)*dx + (p.Lat-a.Lat)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	foot := Position{Lon: a.Lon + t*dx, Lat: a.Lat + t*dy}
	return foot, sqDist(p, foot)
}

func sqDist(a, b Position) float64 {
	dx := a.Lon - b.Lon
	dy := a.Lat - b.Lat
	return dx*dx + dy*dy
}

// PointToRingDistSq returns the squared distance (degree space) from (px,py)
// to the nearest edge of ring (using its first openCount vertices, wrapping
// the closing edge back to vertex 0), and the index of that edge's starting
// vertex.
func PointToRingDistSq(px, py float64, ring Ring, openCount int) (float64, int) {
	best := math.Inf(1)
	bestEdge := 0
	p := Position{Lon: px, Lat: py}
	for i := 0; i < openCount; i++ {
		a := ring[i]
		b := ring[ModIndex(i+1, openCount)]
		_, d := ProjectToNearestPointOnSegment(p, a, b)
		if d < best {
			best = d
			bestEdge = i
		}
	}
	return best, bestEdge
}

// NearestPointOnRing is PointToRingDistSq plus the foot of the perpendicular.
func NearestPointOnRing(px, py float64, ring Ring, openCount int) (Position, float64, int) {
	best := math.Inf(1)
	bestEdge := 0
	var bestFoot Position
	p := Position{Lon: px, Lat: py}
	for i := 0; i < openCount; i++ {
		a := ring[i]
		b := ring[ModIndex(i+1, openCount)]
		foot, d := ProjectToNearestPointOnSegment(p, a, b)
		if d < best {
			best = d
			bestEdge = i
			bestFoot = foot
		}
	}
	return bestFoot, best, bestEdge
}

// NearestVertexIndex returns the index (within the first openCount vertices)
// of the ring vertex nearest to (px, py).
func NearestVertexIndex(px, py float64, ring Ring, openCount int) int {
	best := math.Inf(1)
	bestIdx := 0
	p := Position{Lon: px, Lat: py}
	for i := 0; i < openCount; i++ {
		d := sqDist(p, ring[i])
		if d < best {
			best = d
			bestIdx = i
		}
	}
	return bestIdx
}

// ExtractSegmentFromRing returns ring[s..e] (inclusive) in open-vertex space.
// When e >= s this is a contiguous slice; otherwise the range wraps past the
// end of the ring and the result is ring[s..end] ++ ring[0..e]. Both the
// adjacency detector and the boundary synchroniser rely on this same
// wrap-aware extraction.
func ExtractSegmentFromRing(ring Ring, s, e int) Ring {
	n := OpenVertexCount(ring)
	if n == 0 {
		return nil
	}
	open := ring[:n]
	s = ModIndex(s, n)
	e = ModIndex(e, n)
	if e >= s {
		seg := make(Ring, e-s+1)
		copy(seg, open[s:e+1])
		return seg
	}
	seg := make(Ring, 0, (n-s)+(e+1))
	seg = append(seg, open[s:]...)
	seg = append(seg, open[:e+1]...)
	return seg
}

// SegmentLength returns the vertex count ExtractSegmentFromRing(r, s, e)
// would produce for a ring with open length n, without materialising it.
func SegmentLength(n, s, e int) int {
	s = ModIndex(s, n)
	e = ModIndex(e, n)
	if e >= s {
		return e - s + 1
	}
	return (n - s) + e + 1
}
