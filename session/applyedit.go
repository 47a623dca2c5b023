package session

import (
	"fmt"

	"github.com/R3v3ill3/patch-boundary-engine/analysis"
	"github.com/R3v3ill3/patch-boundary-engine/export"
	engineSync "github.com/R3v3ill3/patch-boundary-engine/sync"

	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
)

// ApplyEditResult is everything left for the host to present after
// ApplyEdit has auto-resolved what it safely can.
type ApplyEditResult struct {
	Analysis           analysis.PostEditAnalysis
	AppliedProposals   []engineSync.BoundaryProposal
	PendingProposals   []engineSync.BoundaryProposal
}

// ApplyEdit runs the full apply-edit orchestration for patch id: it stages
// the new geometry, analyses its effect on the rest of the working set,
// and for every patch id present in linkedNeighbourIDs either applies a
// good-quality boundary proposal automatically or stashes it for manual
// review. preEditSimplifiedGeom is forwarded to the analyser unchanged;
// pass nil unless the edit came from a hand-refined simplification.
func (s *EditSession) ApplyEdit(id string, newGeom engine.MultiPolygon, preEditSimplifiedGeom *engine.MultiPolygon, linkedNeighbourIDs map[string]bool) (ApplyEditResult, error) {
	oldGeom, ok := s.geometryOf(id)
	if !ok {
		return ApplyEditResult{}, fmt.Errorf("session: apply edit: unknown patch id %q", id)
	}
	preEditPatches := s.WorkingPatchSet()

	if err := s.UpdateGeometry(id, newGeom); err != nil {
		return ApplyEditResult{}, err
	}
	s.ExitEditMode()

	result := analysis.AnalysePostEdit(id, oldGeom, newGeom, preEditPatches, preEditSimplifiedGeom, s.tolerances)

	var applied, pending []engineSync.BoundaryProposal
	if len(linkedNeighbourIDs) > 0 {
		oldCopy := oldGeom
		proposals := engineSync.GenerateBoundaryProposals(result, newGeom, preEditPatches, &oldCopy, s.tolerances)
		alignedIdx := make(map[string]bool, len(proposals))
		for _, proposal := range proposals {
			if !linkedNeighbourIDs[proposal.NeighbourPatchID] {
				continue
			}
			if proposal.SnapQuality == engine.SnapQualityGood {
				if err := s.UpdateGeometry(proposal.NeighbourPatchID, proposal.ProposedGeometry); err == nil {
					applied = append(applied, proposal)
					alignedIdx[proposal.NeighbourPatchID] = true
					continue
				}
			}
			pending = append(pending, proposal)
		}
		for i := range result.Neighbours {
			if alignedIdx[result.Neighbours[i].NeighbourPatchID] {
				result.Neighbours[i].Relationship = engine.RelationshipAligned
			}
		}
	}

	return ApplyEditResult{
		Analysis:         result,
		AppliedProposals: applied,
		PendingProposals: pending,
	}, nil
}

// ApplyToDuplicates overwrites each named duplicate's geometry with
// newGeom verbatim, the resolution for a confirmed duplicate once the
// user consents to it replacing the patches it overlaps.
func (s *EditSession) ApplyToDuplicates(newGeom engine.MultiPolygon, ids []string) error {
	for _, id := range ids {
		if err := s.UpdateGeometry(id, newGeom); err != nil {
			return err
		}
	}
	return nil
}

// ExportShapefileZip renders the current working patch set as a shapefile
// zip.
func (s *EditSession) ExportShapefileZip() ([]byte, error) {
	return export.ShapefileZip(s.WorkingPatchSlice())
}

// geometryOf returns id's geometry as it stands in the working set right
// now (original-with-modifications, or a staged new patch).
func (s *EditSession) geometryOf(id string) (engine.MultiPolygon, bool) {
	working := s.WorkingPatchSet()
	patch, ok := working[id]
	if !ok {
		return nil, false
	}
	return patch.Geometry, true
}
