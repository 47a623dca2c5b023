package simplify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
)

func TestComputeStatsIdentical(t *testing.T) {
	ring := engine.Ring{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 1, Lat: 1}, {Lon: 0, Lat: 1}}
	mp := engine.MultiPolygon{{ring}}
	stats := ComputeStats(mp, mp, true)
	assert.Equal(t, stats.OriginalVertexCount, stats.SimplifiedVertexCount)
	assert.InDelta(t, 0, stats.ReductionPercent, 1e-9)
	assert.InDelta(t, 0, stats.MaxDeviationMeters, 1e-6)
	assert.InDelta(t, 0, stats.AreaChangePercent, 1e-9)
}

func TestComputeStatsSkipsDeviationWhenNotRequested(t *testing.T) {
	ring := engine.Ring{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 1, Lat: 1}, {Lon: 0, Lat: 1}}
	mp := engine.MultiPolygon{{ring}}
	simplified := Simplify(mp, 0.5, false)
	stats := ComputeStats(mp, simplified, false)
	assert.Equal(t, 0.0, stats.MaxDeviationMeters)
}
