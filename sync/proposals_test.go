package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R3v3ill3/patch-boundary-engine/adjacency"
	"github.com/R3v3ill3/patch-boundary-engine/analysis"
	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
)

func TestGenerateBoundaryProposalsFallsBackToProjection(t *testing.T) {
	editedRing := engine.Ring{
		{Lon: 0, Lat: 0}, {Lon: 2, Lat: 0}, {Lon: 2, Lat: 0.5}, {Lon: 2, Lat: 1}, {Lon: 0, Lat: 1},
	}
	neighbourRing := engine.Ring{
		{Lon: 2, Lat: 1}, {Lon: 2, Lat: 0.5}, {Lon: 2, Lat: 0}, {Lon: 3, Lat: 0}, {Lon: 3, Lat: 1},
	}
	editedGeom := engine.MultiPolygon{{editedRing}}
	patches := engine.PatchSet{
		"nbr": {ID: "nbr", Code: "NBR", Geometry: engine.MultiPolygon{{neighbourRing}}},
	}
	tol := engine.DefaultTolerances()

	rec := adjacency.Record{
		NeighbourPatchID: "nbr",
		NeighbourCode:    "NBR",
		PolyA:            0, RingA: 0,
		EditedStartIndex: 3, EditedEndIndex: 1,
		PolyB: 0, RingB: 0,
		StartIndex: 0, EndIndex: 2,
	}
	result := analysis.PostEditAnalysis{
		Neighbours: []analysis.NeighbourInfo{{Record: rec, Relationship: engine.RelationshipAligned}},
	}

	proposals := GenerateBoundaryProposals(result, editedGeom, patches, nil, tol)
	require.Len(t, proposals, 1)
	assert.Equal(t, "nbr", proposals[0].NeighbourPatchID)
	assert.NotEmpty(t, proposals[0].ProposedSegment)
}

func TestGenerateBoundaryProposalsSkipsUnknownNeighbour(t *testing.T) {
	result := analysis.PostEditAnalysis{
		Neighbours: []analysis.NeighbourInfo{
			{Record: adjacency.Record{NeighbourPatchID: "ghost"}},
		},
	}
	proposals := GenerateBoundaryProposals(result, engine.MultiPolygon{}, engine.PatchSet{}, nil, engine.DefaultTolerances())
	assert.Empty(t, proposals)
}
