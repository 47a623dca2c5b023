package adjacency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
)

func tol() engine.Tolerances {
	return engine.DefaultTolerances()
}

// two squares sharing the edge x=1, 0<=y<=1.
func editedSquare() engine.Ring {
	return engine.Ring{
		{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 1, Lat: 0.5}, {Lon: 1, Lat: 1}, {Lon: 0, Lat: 1},
	}
}

func neighbourSquare() engine.Ring {
	return engine.Ring{
		{Lon: 1, Lat: 1}, {Lon: 1, Lat: 0.5}, {Lon: 1, Lat: 0}, {Lon: 2, Lat: 0}, {Lon: 2, Lat: 1},
	}
}

func TestDetectSharedSegmentsFindsCommonEdge(t *testing.T) {
	records := DetectSharedSegments(editedSquare(), 0, 0, neighbourSquare(), 0, 0, tol())
	require.Len(t, records, 1)
	assert.GreaterOrEqual(t, records[0].MatchedVertexCount, 3)
}

func TestDetectSharedSegmentsNoOverlapWhenFar(t *testing.T) {
	far := engine.Ring{
		{Lon: 10, Lat: 10}, {Lon: 11, Lat: 10}, {Lon: 11, Lat: 11}, {Lon: 10, Lat: 11},
	}
	records := DetectSharedSegments(editedSquare(), 0, 0, far, 0, 0, tol())
	assert.Empty(t, records)
}

func TestFindAdjacentPatchesKeepsStrongestPerNeighbour(t *testing.T) {
	patches := engine.PatchSet{
		"n1": {ID: "n1", Code: "N1", Geometry: engine.MultiPolygon{{neighbourSquare()}}},
	}
	records := FindAdjacentPatches("edited", editedSquare(), 0, 0, patches, nil, tol())
	require.Len(t, records, 1)
	assert.Equal(t, "n1", records[0].NeighbourPatchID)
}

func TestFindAdjacentPatchesWithSpatialIndex(t *testing.T) {
	patches := engine.PatchSet{
		"edited": {ID: "edited", Geometry: engine.MultiPolygon{{editedSquare()}}},
		"n1":     {ID: "n1", Code: "N1", Geometry: engine.MultiPolygon{{neighbourSquare()}}},
	}
	index := NewSpatialIndex(patches, 1)
	records := FindAdjacentPatches("edited", editedSquare(), 0, 0, patches, index, tol())
	require.Len(t, records, 1)
	assert.Equal(t, "n1", records[0].NeighbourPatchID)
}
