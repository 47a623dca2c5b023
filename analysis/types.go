// Package analysis is the post-edit analyser: given a patch's old and new
// geometry, it classifies how every touching neighbour is affected and
// builds the gap polygon left behind by an inward edit.
package analysis

import (
	"github.com/R3v3ill3/patch-boundary-engine/adjacency"
	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
)

// NeighbourInfo is an adjacency record plus its post-edit classification.
type NeighbourInfo struct {
	adjacency.Record
	Relationship engine.Relationship
	IsDuplicate  bool
}

// PostEditAnalysis is the result of analysing one patch edit against the
// rest of the patch set.
type PostEditAnalysis struct {
	Duplicates   []NeighbourInfo
	Neighbours   []NeighbourInfo
	GapGeometry  *engine.MultiPolygon // nil when no gap clears the area threshold
	GapAreaSqm   float64
}
