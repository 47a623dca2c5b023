package sync

import (
	"math"

	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
)

// ProjectionSync projects every neighbour-ring vertex in the cyclic range
// [startB, endB] onto the nearest edge of editedPolyline, an open polyline
// (not a ring: no wraparound edge). When reversed is true the polyline is
// walked in the opposite direction first, to match windings that disagree.
// Vertex count is preserved exactly; the result is re-closed.
func ProjectionSync(neighbourRing engine.Ring, startB, endB int, editedPolyline engine.Ring, reversed bool) engine.Ring {
	open := engine.Open(neighbourRing)
	n := len(open)
	if n == 0 {
		return engine.EnsureClosed(open)
	}
	if len(editedPolyline) < 2 {
		return engine.EnsureClosed(open)
	}

	polyline := editedPolyline
	if reversed {
		polyline = reversePositions(polyline)
	}

	out := append(engine.Ring(nil), open...)
	for _, i := range rangeIndices(startB, endB, n) {
		foot, _ := nearestPointOnPolyline(open[i], polyline)
		out[i] = foot
	}
	return engine.EnsureClosed(out)
}

func nearestPointOnPolyline(p engine.Position, polyline engine.Ring) (engine.Position, float64) {
	best := math.Inf(1)
	var bestFoot engine.Position
	for i := 0; i < len(polyline)-1; i++ {
		foot, d := engine.ProjectToNearestPointOnSegment(p, polyline[i], polyline[i+1])
		if d < best {
			best = d
			bestFoot = foot
		}
	}
	return bestFoot, best
}

func reversePositions(r engine.Ring) engine.Ring {
	out := make(engine.Ring, len(r))
	for i, p := range r {
		out[len(r)-1-i] = p
	}
	return out
}

// rangeIndices enumerates the cyclic index range [start, end] over a ring
// of length n, wrapping past the end when end < start.
func rangeIndices(start, end, n int) []int {
	if n == 0 {
		return nil
	}
	s := engine.ModIndex(start, n)
	e := engine.ModIndex(end, n)
	var out []int
	if e >= s {
		for i := s; i <= e; i++ {
			out = append(out, i)
		}
	} else {
		for i := s; i < n; i++ {
			out = append(out, i)
		}
		for i := 0; i <= e; i++ {
			out = append(out, i)
		}
	}
	return out
}
