package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAreaUnitSquare(t *testing.T) {
	poly := Polygon{square()}
	assert.InDelta(t, 1.0, Area(poly), 1e-9)
}

func TestAreaSubtractsHoles(t *testing.T) {
	outer := Ring{
		{Lon: 0, Lat: 0}, {Lon: 10, Lat: 0}, {Lon: 10, Lat: 10}, {Lon: 0, Lat: 10},
	}
	hole := Ring{
		{Lon: 1, Lat: 1}, {Lon: 2, Lat: 1}, {Lon: 2, Lat: 2}, {Lon: 1, Lat: 2},
	}
	poly := Polygon{outer, hole}
	assert.InDelta(t, 99.0, Area(poly), 1e-9)
}

func TestEnsureClosedMultiPolygonAndClone(t *testing.T) {
	mp := MultiPolygon{{square()}}
	closed := EnsureClosedMultiPolygon(mp)
	assert.Len(t, closed[0][0], 5)

	clone := CloneMultiPolygon(mp)
	clone[0][0][0] = Position{Lon: 99, Lat: 99}
	assert.NotEqual(t, clone[0][0][0], mp[0][0][0])
}
