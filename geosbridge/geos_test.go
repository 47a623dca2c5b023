package geosbridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geos"

	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
)

func unitSquare(offsetX, offsetY float64) engine.MultiPolygon {
	ring := engine.Ring{
		{Lon: offsetX, Lat: offsetY},
		{Lon: offsetX + 1, Lat: offsetY},
		{Lon: offsetX + 1, Lat: offsetY + 1},
		{Lon: offsetX, Lat: offsetY + 1},
	}
	return engine.MultiPolygon{{ring}}
}

func TestToGeosAndFromGeosRoundTrip(t *testing.T) {
	mp := unitSquare(0, 0)
	g, err := ToGeos(mp)
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.InDelta(t, 1.0, AreaSqm(g), 1e-9)

	back, err := FromGeos(g)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, engine.Area(back[0]), 1e-9)
}

func TestIntersectionAreaOverlappingSquares(t *testing.T) {
	a, err := ToGeos(unitSquare(0, 0))
	require.NoError(t, err)
	b, err := ToGeos(unitSquare(0.5, 0))
	require.NoError(t, err)

	area, err := IntersectionArea(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, area, 1e-9)
}

func TestIntersectionAreaNilIsZero(t *testing.T) {
	area, err := IntersectionArea(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, area)
}

func TestDifferenceCarvesOverlap(t *testing.T) {
	a, err := ToGeos(unitSquare(0, 0))
	require.NoError(t, err)
	b, err := ToGeos(unitSquare(0.5, 0))
	require.NoError(t, err)

	d, err := Difference(a, b)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.InDelta(t, 0.5, AreaSqm(d), 1e-9)
}

func TestDifferenceNilSubtrahendReturnsMinuend(t *testing.T) {
	a, err := ToGeos(unitSquare(0, 0))
	require.NoError(t, err)
	d, err := Difference(a, nil)
	require.NoError(t, err)
	assert.Equal(t, a, d)
}

func TestUnionMergesDisjointSquares(t *testing.T) {
	a, err := ToGeos(unitSquare(0, 0))
	require.NoError(t, err)
	b, err := ToGeos(unitSquare(5, 5))
	require.NoError(t, err)

	merged := Union([]*geos.Geom{a, b})
	require.NotNil(t, merged)
	assert.InDelta(t, 2.0, merged.Area(), 1e-9)
}

func TestSplitComponentsOnDisjointUnion(t *testing.T) {
	a, err := ToGeos(unitSquare(0, 0))
	require.NoError(t, err)
	b, err := ToGeos(unitSquare(5, 5))
	require.NoError(t, err)
	merged := Union([]*geos.Geom{a, b})

	comps := SplitComponents(merged)
	assert.Len(t, comps, 2)
}

func TestCheckPatchValidityFlagsSelfIntersection(t *testing.T) {
	bowtie := engine.Ring{
		{Lon: 0, Lat: 0}, {Lon: 1, Lat: 1}, {Lon: 1, Lat: 0}, {Lon: 0, Lat: 1},
	}
	patches := []engine.Patch{
		{ID: "bad", Geometry: engine.MultiPolygon{{bowtie}}},
		{ID: "good", Geometry: unitSquare(10, 10)},
	}
	issues := CheckPatchValidity(patches)
	require.Len(t, issues, 1)
	assert.Equal(t, "bad", issues[0].PatchID)
}
