package sync

import (
	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
)

// SpliceSync replaces ring[startB..endB] (cyclic, inclusive) with
// replacement (reversed first if reversed is true) and re-closes the
// result. This is the legacy exact-replace path: it destroys the
// neighbour's original vertex density over the replaced range, so
// GenerateBoundaryProposals never selects it by default. If the spliced
// result would have fewer than 3 open vertices, the input ring is returned
// unchanged rather than producing an invalid ring.
func SpliceSync(ring engine.Ring, startB, endB int, replacement engine.Ring, reversed bool) engine.Ring {
	open := engine.Open(ring)
	n := len(open)
	if n == 0 {
		return ring
	}

	repl := replacement
	if reversed {
		repl = reversePositions(replacement)
	}

	s := engine.ModIndex(startB, n)
	e := engine.ModIndex(endB, n)

	var out engine.Ring
	if e >= s {
		out = append(out, open[:s]...)
		out = append(out, repl...)
		out = append(out, open[e+1:]...)
	} else {
		middle := open[e+1 : s]
		out = append(out, repl...)
		out = append(out, middle...)
	}

	if engine.OpenVertexCount(out) < 3 {
		return engine.EnsureClosed(ring)
	}
	return engine.EnsureClosed(out)
}
