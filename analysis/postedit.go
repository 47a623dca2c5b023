package analysis

import (
	"github.com/twpayne/go-geos"

	"github.com/R3v3ill3/patch-boundary-engine/adjacency"
	"github.com/R3v3ill3/patch-boundary-engine/concurrency"
	"github.com/R3v3ill3/patch-boundary-engine/geosbridge"
	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
)

// AnalysePostEdit compares a patch's old and new geometry against the rest
// of the patch set: it classifies every touching neighbour as overlapping,
// aligned, bordering the gap, or a duplicate, and builds the gap polygon (if any) left behind
// by an inward edit. patches is the pre-edit patch set (the edited patch's
// entry, if present, still carries its old geometry; the edited patch
// itself is always skipped when scanning for neighbours and duplicates).
// preEditSimplifiedGeom is supplied only when the user hand-refined a
// simplified ring, to narrow the adjacency search to the section that was
// actually touched.
//
// Every geometry-library boundary operation is wrapped so a single failure
// degrades that one contribution rather than aborting the whole analysis.
func AnalysePostEdit(editedPatchID string, oldGeom, newGeom engine.MultiPolygon, patches engine.PatchSet, preEditSimplifiedGeom *engine.MultiPolygon, tol engine.Tolerances) PostEditAnalysis {
	if preEditSimplifiedGeom == nil && geometryUnchanged(oldGeom, newGeom) {
		// Nothing moved, so the edited sub-range every candidate would be
		// built from collapses to nothing: there is no boundary to
		// propose. Duplicates are unaffected by an edit that never
		// happened, so they are still reported.
		duplicateIDs := detectDuplicates(editedPatchID, oldGeom, patches, tol)
		duplicates := make([]NeighbourInfo, 0, len(duplicateIDs))
		for id := range duplicateIDs {
			if patch, ok := patches[id]; ok {
				duplicates = append(duplicates, NeighbourInfo{
					Record:      adjacency.Record{NeighbourPatchID: id, NeighbourCode: patch.Code},
					IsDuplicate: true,
				})
			}
		}
		return PostEditAnalysis{Duplicates: duplicates}
	}

	candidates := detectFromOldGeometry(editedPatchID, oldGeom, patches, tol)
	remapEditedIndices(candidates, oldGeom, newGeom)
	narrowToEditedRange(candidates, newGeom, preEditSimplifiedGeom, patches, tol)
	candidates = keepStrongestPerNeighbour(candidates)

	duplicateIDs := detectDuplicates(editedPatchID, oldGeom, patches, tol)

	neighbours := make([]NeighbourInfo, 0, len(candidates))
	duplicates := make([]NeighbourInfo, 0, len(duplicateIDs))
	for _, rec := range candidates {
		info := NeighbourInfo{Record: rec}
		if duplicateIDs[rec.NeighbourPatchID] {
			info.IsDuplicate = true
			duplicates = append(duplicates, info)
			continue
		}
		info.Relationship = classifyRelationship(rec, newGeom, patches, tol)
		neighbours = append(neighbours, info)
	}

	gapGeom, gapArea := buildGapGeometry(editedPatchID, oldGeom, newGeom, patches, tol)
	reclassifyGapNeighbours(neighbours, gapGeom, patches, tol)

	return PostEditAnalysis{
		Duplicates:  duplicates,
		Neighbours:  neighbours,
		GapGeometry: gapGeom,
		GapAreaSqm:  gapArea,
	}
}

// geometryUnchanged reports whether a and b describe the same rings in the
// same order, vertex-for-vertex, ignoring open/closed form.
func geometryUnchanged(a, b engine.MultiPolygon) bool {
	if len(a) != len(b) {
		return false
	}
	for pi := range a {
		if len(a[pi]) != len(b[pi]) {
			return false
		}
		for ri := range a[pi] {
			ringA := engine.Open(a[pi][ri])
			ringB := engine.Open(b[pi][ri])
			if len(ringA) != len(ringB) {
				return false
			}
			for i := range ringA {
				if ringA[i] != ringB[i] {
					return false
				}
			}
		}
	}
	return true
}

// detectFromOldGeometry runs FindAdjacentPatches over every ring of
// oldGeom: an unedited neighbour still aligns with the old ring even after
// the new ring has moved further away than the adjacency tolerance. A
// single spatial index is built once and reused across every ring of
// oldGeom rather than rebuilt per query.
func detectFromOldGeometry(editedPatchID string, oldGeom engine.MultiPolygon, patches engine.PatchSet, tol engine.Tolerances) []adjacency.Record {
	index := adjacency.NewSpatialIndex(patches, tol.BBoxPadDeg*10)
	best := make(map[string]adjacency.Record)
	for pi, poly := range oldGeom {
		for ri, ring := range poly {
			if engine.IsDegenerate(ring) {
				continue
			}
			for _, rec := range adjacency.FindAdjacentPatches(editedPatchID, ring, pi, ri, patches, index, tol) {
				if existing, ok := best[rec.NeighbourPatchID]; !ok || rec.MatchedVertexCount > existing.MatchedVertexCount {
					best[rec.NeighbourPatchID] = rec
				}
			}
		}
	}
	out := make([]adjacency.Record, 0, len(best))
	for _, r := range best {
		out = append(out, r)
	}
	return out
}

// remapEditedIndices moves each candidate's edited-ring indices from the
// old ring's vertex space onto the new ring's by nearest-vertex lookup.
// The neighbour-side indices are left untouched.
func remapEditedIndices(candidates []adjacency.Record, oldGeom, newGeom engine.MultiPolygon) {
	for i := range candidates {
		rec := &candidates[i]
		if rec.PolyA >= len(oldGeom) || rec.RingA >= len(oldGeom[rec.PolyA]) {
			continue
		}
		oldRing := engine.Open(oldGeom[rec.PolyA][rec.RingA])
		if rec.EditedStartIndex >= len(oldRing) || rec.EditedEndIndex >= len(oldRing) {
			continue
		}
		if rec.PolyA >= len(newGeom) || rec.RingA >= len(newGeom[rec.PolyA]) {
			continue // ring-count mismatch: caller keeps the old-space indices as a fallback
		}
		newRing := engine.Open(newGeom[rec.PolyA][rec.RingA])
		if len(newRing) == 0 {
			continue
		}
		startPos := oldRing[rec.EditedStartIndex]
		endPos := oldRing[rec.EditedEndIndex]
		rec.EditedStartIndex = engine.NearestVertexIndex(startPos.Lon, startPos.Lat, newRing, len(newRing))
		rec.EditedEndIndex = engine.NearestVertexIndex(endPos.Lon, endPos.Lat, newRing, len(newRing))
	}
}

// narrowedResult pairs a narrowed record with its position in the
// candidate slice, since BatchProcessor.Run returns results unordered.
type narrowedResult struct {
	idx int
	rec adjacency.Record
}

// narrowToEditedRange shrinks each candidate's edited range down to the
// section of newRing that actually changed relative to the pre-edit
// simplified geometry. It is a no-op unless preEditSimplifiedGeom is
// provided. On any failure it leaves the candidate untouched.
//
// Each candidate's narrowing is an independent pure computation over its
// own record, newGeom and preEdit (no shared mutable state, no geometry
// library handles), so the batch runs across a small worker pool rather
// than a plain loop, whatever the number of candidates.
func narrowToEditedRange(candidates []adjacency.Record, newGeom engine.MultiPolygon, preEditSimplifiedGeom *engine.MultiPolygon, patches engine.PatchSet, tol engine.Tolerances) {
	if preEditSimplifiedGeom == nil || len(candidates) == 0 {
		return
	}
	preEdit := *preEditSimplifiedGeom

	items := make([]interface{}, len(candidates))
	for i := range candidates {
		items[i] = i
	}

	pool := concurrency.NewBatchProcessor(4)
	results := pool.Run(items, func(job interface{}) interface{} {
		idx := job.(int)
		narrowed, ok := narrowOne(candidates[idx], newGeom, preEdit, patches, tol)
		if !ok {
			return nil
		}
		return narrowedResult{idx: idx, rec: narrowed}
	})

	for _, r := range results {
		nr := r.(narrowedResult)
		candidates[nr.idx] = nr.rec
	}
}

func narrowOne(rec adjacency.Record, newGeom, preEdit engine.MultiPolygon, patches engine.PatchSet, tol engine.Tolerances) (adjacency.Record, bool) {
	if rec.PolyA >= len(newGeom) || rec.RingA >= len(newGeom[rec.PolyA]) {
		return rec, false
	}
	if rec.PolyA >= len(preEdit) || rec.RingA >= len(preEdit[rec.PolyA]) {
		return rec, false
	}
	newRing := engine.Open(newGeom[rec.PolyA][rec.RingA])
	preRing := engine.Open(preEdit[rec.PolyA][rec.RingA])
	n := len(newRing)
	if n == 0 {
		return rec, false
	}

	changeStart, changeEnd, ok := changedRange(newRing, preRing, tol.NarrowChangeThresholdSqDeg)
	if !ok {
		return rec, false
	}

	padStart := engine.ModIndex(changeStart-tol.NarrowAnchorPad, n)
	padEnd := engine.ModIndex(changeEnd+tol.NarrowAnchorPad, n)

	narrowedStart, narrowedEnd, ok := intersectRanges(rec.EditedStartIndex, rec.EditedEndIndex, padStart, padEnd, n)
	if !ok {
		return rec, false
	}

	rec.EditedStartIndex = narrowedStart
	rec.EditedEndIndex = narrowedEnd

	// Recompute the neighbour indices by projecting the new ring's narrowed
	// endpoints onto the neighbour ring.
	if neighbour, ok := patches[rec.NeighbourPatchID]; ok && rec.PolyB < len(neighbour.Geometry) && rec.RingB < len(neighbour.Geometry[rec.PolyB]) {
		neighbourRing := engine.Open(neighbour.Geometry[rec.PolyB][rec.RingB])
		if len(neighbourRing) > 0 {
			startPos := newRing[narrowedStart]
			endPos := newRing[narrowedEnd]
			rec.StartIndex = engine.NearestVertexIndex(startPos.Lon, startPos.Lat, neighbourRing, len(neighbourRing))
			rec.EndIndex = engine.NearestVertexIndex(endPos.Lon, endPos.Lat, neighbourRing, len(neighbourRing))
		}
	}
	return rec, true
}

// changedRange finds the contiguous [start,end] range (in new-ring index
// space) where newRing differs from preRing by more than threshold (squared
// degrees), comparing index-by-index when vertex counts match and by
// nearest-point geometric distance otherwise.
func changedRange(newRing, preRing engine.Ring, thresholdSq float64) (start, end int, ok bool) {
	n := len(newRing)
	if n == 0 {
		return 0, 0, false
	}
	changed := make([]bool, n)
	any := false

	if len(preRing) == len(newRing) {
		for i := range newRing {
			dx := newRing[i].Lon - preRing[i].Lon
			dy := newRing[i].Lat - preRing[i].Lat
			if dx*dx+dy*dy > thresholdSq {
				changed[i] = true
				any = true
			}
		}
	} else if len(preRing) >= 3 {
		for i, p := range newRing {
			_, distSq, _ := engine.NearestPointOnRing(p.Lon, p.Lat, preRing, len(preRing))
			if distSq > thresholdSq {
				changed[i] = true
				any = true
			}
		}
	} else {
		return 0, 0, false
	}

	if !any {
		return 0, 0, false
	}

	// Find the first run of "changed" indices; if multiple disjoint runs
	// exist, span from the first changed index to the last.
	first, last := -1, -1
	for i, c := range changed {
		if c {
			if first == -1 {
				first = i
			}
			last = i
		}
	}
	if first == -1 {
		return 0, 0, false
	}
	return first, last, true
}

// intersectRanges intersects the cyclic range [aStart,aEnd] with
// [bStart,bEnd] over a ring of length n. Both ranges may wrap. Returns
// ok=false if the intersection is empty.
func intersectRanges(aStart, aEnd, bStart, bEnd, n int) (int, int, bool) {
	aMembers := rangeMembership(aStart, aEnd, n)
	bMembers := rangeMembership(bStart, bEnd, n)

	var first, last int = -1, -1
	for i := 0; i < n; i++ {
		if aMembers[i] && bMembers[i] {
			if first == -1 {
				first = i
			}
			last = i
		}
	}
	if first == -1 {
		return 0, 0, false
	}
	return first, last, true
}

func rangeMembership(start, end, n int) []bool {
	members := make([]bool, n)
	start = engine.ModIndex(start, n)
	end = engine.ModIndex(end, n)
	if end >= start {
		for i := start; i <= end; i++ {
			members[i] = true
		}
	} else {
		for i := start; i < n; i++ {
			members[i] = true
		}
		for i := 0; i <= end; i++ {
			members[i] = true
		}
	}
	return members
}

// keepStrongestPerNeighbour keeps at most one adjacency record per
// neighbour patch: the one with the largest matchedVertexCount.
func keepStrongestPerNeighbour(candidates []adjacency.Record) []adjacency.Record {
	best := make(map[string]adjacency.Record)
	for _, rec := range candidates {
		if existing, ok := best[rec.NeighbourPatchID]; !ok || rec.MatchedVertexCount > existing.MatchedVertexCount {
			best[rec.NeighbourPatchID] = rec
		}
	}
	out := make([]adjacency.Record, 0, len(best))
	for _, r := range best {
		out = append(out, r)
	}
	return out
}

// detectDuplicates flags a non-edited patch whose intersection with
// oldGeom exceeds duplicateAreaFraction of the smaller geometry's area. An
// area of 0 on either side is "not a duplicate", not an error.
func detectDuplicates(editedPatchID string, oldGeom engine.MultiPolygon, patches engine.PatchSet, tol engine.Tolerances) map[string]bool {
	dupes := make(map[string]bool)
	editedGeos, err := geosbridge.ToGeos(oldGeom)
	if err != nil || editedGeos == nil {
		return dupes
	}
	editedArea := geosbridge.AreaSqm(editedGeos)

	for id, patch := range patches {
		if id == editedPatchID {
			continue
		}
		otherGeos, err := geosbridge.ToGeos(patch.Geometry)
		if err != nil || otherGeos == nil {
			continue
		}
		otherArea := geosbridge.AreaSqm(otherGeos)
		if editedArea == 0 || otherArea == 0 {
			continue
		}
		interArea, err := geosbridge.IntersectionArea(editedGeos, otherGeos)
		if err != nil {
			continue
		}
		smaller := editedArea
		if otherArea < smaller {
			smaller = otherArea
		}
		if smaller <= 0 {
			continue
		}
		if interArea/smaller >= tol.DuplicateAreaFraction {
			dupes[id] = true
		}
	}
	return dupes
}

// classifyRelationship labels a surviving neighbour record as overlap or
// aligned, based on how much area the new geometry shares with it.
func classifyRelationship(rec adjacency.Record, newGeom engine.MultiPolygon, patches engine.PatchSet, tol engine.Tolerances) engine.Relationship {
	neighbour, ok := patches[rec.NeighbourPatchID]
	if !ok {
		return engine.RelationshipAligned
	}
	newGeos, err := geosbridge.ToGeos(newGeom)
	if err != nil || newGeos == nil {
		return engine.RelationshipAligned
	}
	neighbourGeos, err := geosbridge.ToGeos(neighbour.Geometry)
	if err != nil || neighbourGeos == nil {
		return engine.RelationshipAligned
	}
	area, err := geosbridge.IntersectionArea(newGeos, neighbourGeos)
	if err != nil {
		return engine.RelationshipAligned
	}
	if area > tol.OverlapMinAreaSqm {
		return engine.RelationshipOverlap
	}
	// Positive-but-small and zero both read as "aligned": the pair was
	// already identified as neighbours, so their boundaries are within τ
	// regardless of which side of zero the intersection area falls.
	return engine.RelationshipAligned
}

// reclassifyGapNeighbours relabels any neighbour still carrying its
// default "aligned" verdict as "gap" when its shared segment borders the
// gap polygon left behind by the edit. classifyRelationship alone cannot
// tell a boundary that genuinely still touches from one that the edit
// retracted away from, since both read as zero intersection area; the gap
// polygon itself is the only thing that knows which is which.
func reclassifyGapNeighbours(neighbours []NeighbourInfo, gapGeom *engine.MultiPolygon, patches engine.PatchSet, tol engine.Tolerances) {
	if gapGeom == nil {
		return
	}
	gap := *gapGeom
	for i := range neighbours {
		info := &neighbours[i]
		if info.Relationship != engine.RelationshipAligned {
			continue
		}
		neighbour, ok := patches[info.NeighbourPatchID]
		if !ok || info.PolyB >= len(neighbour.Geometry) || info.RingB >= len(neighbour.Geometry[info.PolyB]) {
			continue
		}
		neighbourRing := engine.Open(neighbour.Geometry[info.PolyB][info.RingB])
		segment := engine.ExtractSegmentFromRing(neighbourRing, info.StartIndex, info.EndIndex)
		if segmentBordersGap(segment, gap, tol) {
			info.Relationship = engine.RelationshipGap
		}
	}
}

// segmentBordersGap reports whether any vertex of segment lies within
// adjacency tolerance of a ring of gap.
func segmentBordersGap(segment engine.Ring, gap engine.MultiPolygon, tol engine.Tolerances) bool {
	for _, p := range segment {
		for _, poly := range gap {
			for _, ring := range poly {
				open := engine.Open(ring)
				if len(open) == 0 {
					continue
				}
				distSq, _ := engine.PointToRingDistSq(p.Lon, p.Lat, open, len(open))
				if distSq <= tol.AdjacencySqDeg {
					return true
				}
			}
		}
	}
	return false
}

// buildGapGeometry subtracts the new geometry and every other occupied
// patch from the old geometry, keeping only the leftover pieces that clear
// the minimum gap area and do not overlap an occupied patch.
func buildGapGeometry(editedPatchID string, oldGeom, newGeom engine.MultiPolygon, patches engine.PatchSet, tol engine.Tolerances) (*engine.MultiPolygon, float64) {
	oldGeos, err := geosbridge.ToGeos(oldGeom)
	if err != nil || oldGeos == nil {
		return nil, 0
	}
	newGeos, err := geosbridge.ToGeos(newGeom)
	if err != nil {
		newGeos = nil
	}

	gap, err := geosbridge.Difference(oldGeos, newGeos)
	if err != nil || gap == nil {
		return nil, 0
	}

	occupied := make([]*geos.Geom, 0, len(patches))
	for id, patch := range patches {
		if id == editedPatchID {
			continue
		}
		g, err := geosbridge.ToGeos(patch.Geometry)
		if err == nil && g != nil {
			occupied = append(occupied, g)
		}
	}

	for _, occ := range occupied {
		next, err := geosbridge.Difference(gap, occ)
		if err != nil {
			continue
		}
		gap = next
		if gap == nil {
			return nil, 0
		}
	}

	components := geosbridge.SplitComponents(gap)
	var kept []*geos.Geom
	totalArea := 0.0
	for _, comp := range components {
		area := geosbridge.AreaSqm(comp)
		if area < tol.GapMinAreaSqm {
			continue
		}
		overlapsOccupied := false
		for _, occ := range occupied {
			interArea, err := geosbridge.IntersectionArea(comp, occ)
			if err == nil && interArea >= tol.GapMinAreaSqm {
				overlapsOccupied = true
				break
			}
		}
		if overlapsOccupied {
			continue
		}
		kept = append(kept, comp)
		totalArea += area
	}

	if len(kept) == 0 || totalArea < tol.GapMinAreaSqm {
		return nil, 0
	}

	merged := geosbridge.Union(kept)
	mp, err := geosbridge.FromGeos(merged)
	if err != nil || len(mp) == 0 {
		return nil, 0
	}
	return &mp, totalArea
}
