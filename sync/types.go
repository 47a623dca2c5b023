// Package sync produces a synchronised neighbour boundary ring that
// matches an edited patch's new geometry, by displacement, projection or
// (as a legacy, non-default option) exact splice.
package sync

import (
	"github.com/R3v3ill3/patch-boundary-engine/adjacency"
	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
)

// ConnectionPoints are the two ring positions where a proposed segment
// meets the neighbour's unedited boundary.
type ConnectionPoints struct {
	Start engine.Position
	End   engine.Position
}

// BoundaryProposal is a candidate synchronised neighbour geometry, ready
// for a host to apply or stash for manual review.
type BoundaryProposal struct {
	NeighbourPatchID string
	NeighbourCode    string
	Relationship     engine.Relationship
	Adjacency        adjacency.Record

	OriginalGeometry engine.MultiPolygon
	ProposedGeometry engine.MultiPolygon

	OriginalSegment engine.Ring
	ProposedSegment engine.Ring
	ChangedSegment  engine.Ring

	ConnectionPoints ConnectionPoints
	SnapQuality      engine.SnapQuality
}
