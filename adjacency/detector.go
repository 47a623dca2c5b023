// Package adjacency finds, for a pair of rings, the contiguous spans where
// one ring's boundary lies within tolerance of the other's. Matching is by
// geometric proximity rather than index or vertex-count equality, since
// simplification changes both and per-vertex equality cannot survive an
// edit.
package adjacency

import (
	"fmt"

	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
)

// Record describes one shared boundary segment between an edited ring A
// and a neighbour ring B.
type Record struct {
	NeighbourPatchID string
	NeighbourCode    string

	PolyA, RingA               int
	EditedStartIndex, EditedEndIndex int

	PolyB, RingB     int
	StartIndex       int
	EndIndex         int

	IsReversed         bool
	MatchedVertexCount int
}

// rawSegment is a contiguous run of marked B indices before they are mapped
// onto A.
type rawSegment struct {
	start, end int // inclusive, in B's open-vertex index space; may wrap
	count      int
	edgeIdxOnA []int // A edge index each member vertex of B projected onto, in walk order
}

// DetectSharedSegments finds every shared boundary segment between ringA
// (the edited ring, identified by polyA/ringA for the caller's bookkeeping)
// and ringB (a candidate neighbour ring). Degenerate rings (fewer than 3
// open vertices) are ignored.
func DetectSharedSegments(ringA engine.Ring, polyA, idxRingA int, ringB engine.Ring, polyB, idxRingB int, tol engine.Tolerances) []Record {
	if engine.IsDegenerate(ringA) || engine.IsDegenerate(ringB) {
		return nil
	}
	openA := engine.Open(ringA)
	openB := engine.Open(ringB)
	nA := len(openA)
	nB := len(openB)

	// Step 1: mark B vertices within tolerance of A's boundary.
	marked := make([]bool, nB)
	edgeOnA := make([]int, nB)
	for i, p := range openB {
		distSq, edge := engine.PointToRingDistSq(p.Lon, p.Lat, openA, nA)
		if distSq <= tol.AdjacencySqDeg {
			marked[i] = true
			edgeOnA[i] = edge
		}
	}

	raws := groupRawSegments(marked, edgeOnA, nB)
	raws = mergeWrapSegments(raws, nB)

	var records []Record
	for _, raw := range raws {
		if raw.count < tol.MinSharedVertices {
			continue
		}

		bStart := openB[raw.start]
		bEnd := openB[raw.end]
		startA := engine.NearestVertexIndex(bStart.Lon, bStart.Lat, openA, nA)
		endA := engine.NearestVertexIndex(bEnd.Lon, bEnd.Lat, openA, nA)
		if startA == endA {
			continue // degenerate adjacency: the matched span collapses to a single point on A
		}

		reversed := windingIsReversed(raw.edgeIdxOnA, nA)

		records = append(records, Record{
			PolyA:              polyA,
			RingA:              idxRingA,
			EditedStartIndex:   startA,
			EditedEndIndex:     endA,
			PolyB:              polyB,
			RingB:              idxRingB,
			StartIndex:         raw.start,
			EndIndex:           raw.end,
			IsReversed:         reversed,
			MatchedVertexCount: raw.count,
		})
	}
	return records
}

func groupRawSegments(marked []bool, edgeOnA []int, n int) []rawSegment {
	var raws []rawSegment
	i := 0
	for i < n {
		if !marked[i] {
			i++
			continue
		}
		start := i
		var edges []int
		for i < n && marked[i] {
			edges = append(edges, edgeOnA[i])
			i++
		}
		raws = append(raws, rawSegment{start: start, end: i - 1, count: len(edges), edgeIdxOnA: edges})
	}
	return raws
}

// mergeWrapSegments merges the first and last raw segments when the first
// starts at index 0 and the last ends at index n-1, since marked[0] and
// marked[n-1] being both true means the walk wrapped mid-run.
func mergeWrapSegments(raws []rawSegment, n int) []rawSegment {
	if len(raws) < 2 {
		return raws
	}
	first := raws[0]
	last := raws[len(raws)-1]
	if first.start == 0 && last.end == n-1 {
		merged := rawSegment{
			start:      last.start,
			end:        first.end,
			count:      first.count + last.count,
			edgeIdxOnA: append(append([]int(nil), last.edgeIdxOnA...), first.edgeIdxOnA...),
		}
		middle := raws[1 : len(raws)-1]
		out := make([]rawSegment, 0, len(middle)+1)
		out = append(out, merged)
		out = append(out, middle...)
		return out
	}
	return raws
}

// windingIsReversed samples up to 20 of the recorded A-edge indices along
// B's walk and reports whether they tend to decrease (mod A's open length)
// rather than increase, i.e. B traverses the shared boundary in the
// opposite winding direction to A.
func windingIsReversed(edgeIdxOnA []int, nA int) bool {
	if len(edgeIdxOnA) < 2 {
		return false
	}
	samples := edgeIdxOnA
	if len(samples) > 20 {
		stride := (len(samples) + 19) / 20
		if stride < 1 {
			stride = 1
		}
		var strided []int
		for i := 0; i < len(samples); i += stride {
			strided = append(strided, samples[i])
		}
		samples = strided
	}

	forward, backward := 0, 0
	for i := 1; i < len(samples); i++ {
		delta := engine.ModIndex(samples[i]-samples[i-1], nA)
		half := nA / 2
		if delta == 0 {
			continue
		}
		if delta <= half {
			forward++
		} else {
			backward++
		}
	}
	return backward > forward
}

// FindAdjacentPatches runs DetectSharedSegments between editedRing and
// every candidate ring in patches, skipping
// candidates whose padded bounding boxes do not overlap. At most one
// Record per neighbour patch survives: the one with the largest
// MatchedVertexCount.
//
// index, when non-nil, narrows the candidate set to rings near
// editedRing's bounding box instead of scanning every ring of every
// patch; pass nil to fall back to a full scan (cheaper for a one-off
// query than building an index that is never reused).
func FindAdjacentPatches(editedPatchID string, editedRing engine.Ring, editedPolyIdx, editedRingIdx int, patches engine.PatchSet, index *SpatialIndex, tol engine.Tolerances) []Record {
	if engine.IsDegenerate(editedRing) {
		return nil
	}
	editedOpen := engine.Open(editedRing)
	editedBox := engine.Bbox(editedOpen)

	best := make(map[string]Record)
	visit := func(id string, patch engine.Patch, pi, ri int, ring engine.Ring) {
		if engine.IsDegenerate(ring) {
			return
		}
		candidateBox := engine.Bbox(engine.Open(ring))
		if !engine.BBoxesOverlap(editedBox, candidateBox, tol.BBoxPadDeg) {
			return
		}
		records := DetectSharedSegments(editedOpen, editedPolyIdx, editedRingIdx, ring, pi, ri, tol)
		for _, r := range records {
			r.NeighbourPatchID = id
			r.NeighbourCode = patch.Code
			if existing, ok := best[id]; !ok || r.MatchedVertexCount > existing.MatchedVertexCount {
				best[id] = r
			}
		}
	}

	if index != nil {
		pad := tol.BBoxPadDeg
		queryBox := engine.BBox{
			MinLon: editedBox.MinLon - pad, MinLat: editedBox.MinLat - pad,
			MaxLon: editedBox.MaxLon + pad, MaxLat: editedBox.MaxLat + pad,
		}
		for _, ref := range index.Query(queryBox, editedPatchID) {
			patch, ok := patches[ref.patchID]
			if !ok || ref.polyIdx >= len(patch.Geometry) || ref.ringIdx >= len(patch.Geometry[ref.polyIdx]) {
				continue
			}
			visit(ref.patchID, patch, ref.polyIdx, ref.ringIdx, patch.Geometry[ref.polyIdx][ref.ringIdx])
		}
	} else {
		for id, patch := range patches {
			if id == editedPatchID {
				continue
			}
			for pi, poly := range patch.Geometry {
				for ri, ring := range poly {
					visit(id, patch, pi, ri, ring)
				}
			}
		}
	}

	out := make([]Record, 0, len(best))
	for _, r := range best {
		out = append(out, r)
	}
	return out
}

// String is a debug helper; not used by any algorithm.
func (r Record) String() string {
	return fmt.Sprintf("adjacency{neighbour=%s poly=%d ring=%d start=%d end=%d matched=%d reversed=%v}",
		r.NeighbourPatchID, r.PolyB, r.RingB, r.StartIndex, r.EndIndex, r.MatchedVertexCount, r.IsReversed)
}
