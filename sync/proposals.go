package sync

import (
	"github.com/R3v3ill3/patch-boundary-engine/analysis"
	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
)

// GenerateBoundaryProposals builds one BoundaryProposal per non-duplicate
// neighbour in an analysis result. oldEditedGeom, when provided, enables
// displacement sync; proposals fall back to projection whenever
// displacement moves zero vertices or oldEditedGeom is absent.
func GenerateBoundaryProposals(result analysis.PostEditAnalysis, editedGeom engine.MultiPolygon, patches engine.PatchSet, oldEditedGeom *engine.MultiPolygon, tol engine.Tolerances) []BoundaryProposal {
	proposals := make([]BoundaryProposal, 0, len(result.Neighbours))
	for _, info := range result.Neighbours {
		proposal, ok := buildProposal(info, editedGeom, patches, oldEditedGeom, tol)
		if ok {
			proposals = append(proposals, proposal)
		}
	}
	return proposals
}

func buildProposal(info analysis.NeighbourInfo, editedGeom engine.MultiPolygon, patches engine.PatchSet, oldEditedGeom *engine.MultiPolygon, tol engine.Tolerances) (BoundaryProposal, bool) {
	rec := info.Record
	neighbour, ok := patches[rec.NeighbourPatchID]
	if !ok {
		return BoundaryProposal{}, false
	}
	if rec.PolyB >= len(neighbour.Geometry) || rec.RingB >= len(neighbour.Geometry[rec.PolyB]) {
		return BoundaryProposal{}, false
	}
	if rec.PolyA >= len(editedGeom) || rec.RingA >= len(editedGeom[rec.PolyA]) {
		return BoundaryProposal{}, false
	}

	neighbourRing := engine.Open(neighbour.Geometry[rec.PolyB][rec.RingB])
	editedRing := engine.Open(editedGeom[rec.PolyA][rec.RingA])
	if len(neighbourRing) == 0 || len(editedRing) == 0 {
		return BoundaryProposal{}, false
	}

	originalSegment := engine.ExtractSegmentFromRing(neighbourRing, rec.StartIndex, rec.EndIndex)

	var proposedRing engine.Ring
	usedDisplacement := false
	if oldEditedGeom != nil {
		old := *oldEditedGeom
		if rec.PolyA < len(old) && rec.RingA < len(old[rec.PolyA]) {
			oldEditedRing := engine.Open(old[rec.PolyA][rec.RingA])
			if len(oldEditedRing) > 0 {
				displaced, count := DisplacementSync(neighbourRing, oldEditedRing, editedRing, tol)
				if count > 0 {
					proposedRing = displaced
					usedDisplacement = true
				}
			}
		}
	}
	if !usedDisplacement {
		replacement := engine.ExtractSegmentFromRing(editedRing, rec.EditedStartIndex, rec.EditedEndIndex)
		proposedRing = ProjectionSync(neighbourRing, rec.StartIndex, rec.EndIndex, replacement, rec.IsReversed)
	}

	proposedOpen := engine.Open(proposedRing)
	proposedSegment := engine.ExtractSegmentFromRing(proposedOpen, rec.StartIndex, rec.EndIndex)
	changedSegment := changedVertices(originalSegment, proposedSegment, tol.DisplacementMinSqDeg)

	quality := AssessConnectionQuality(proposedOpen, rec.StartIndex, rec.EndIndex, tol)

	n := len(proposedOpen)
	startIdx := engine.ModIndex(rec.StartIndex, n)
	endIdx := engine.ModIndex(rec.EndIndex, n)

	proposedGeometry := engine.CloneMultiPolygon(neighbour.Geometry)
	proposedGeometry[rec.PolyB][rec.RingB] = engine.EnsureClosed(proposedOpen)

	return BoundaryProposal{
		NeighbourPatchID: rec.NeighbourPatchID,
		NeighbourCode:    rec.NeighbourCode,
		Relationship:     info.Relationship,
		Adjacency:        rec,

		OriginalGeometry: neighbour.Geometry,
		ProposedGeometry: proposedGeometry,

		OriginalSegment: originalSegment,
		ProposedSegment: proposedSegment,
		ChangedSegment:  changedSegment,

		ConnectionPoints: ConnectionPoints{
			Start: proposedOpen[startIdx],
			End:   proposedOpen[endIdx],
		},
		SnapQuality: quality,
	}, true
}

// changedVertices returns the subset of proposed whose position differs
// from the corresponding original vertex by more than thresholdSq (squared
// degrees). When the two segments have different lengths every proposed
// vertex is reported changed, since there is no positional correspondence.
func changedVertices(original, proposed engine.Ring, thresholdSq float64) engine.Ring {
	if len(original) != len(proposed) {
		return append(engine.Ring(nil), proposed...)
	}
	var out engine.Ring
	for i, p := range proposed {
		dx := p.Lon - original[i].Lon
		dy := p.Lat - original[i].Lat
		if dx*dx+dy*dy > thresholdSq {
			out = append(out, p)
		}
	}
	return out
}
