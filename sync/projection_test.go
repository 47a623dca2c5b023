package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
)

func TestProjectionSyncSnapsRangeOntoPolyline(t *testing.T) {
	neighbour := engine.Ring{
		{Lon: 2, Lat: 0}, {Lon: 2.2, Lat: 0.5}, {Lon: 2, Lat: 1}, {Lon: 3, Lat: 1}, {Lon: 3, Lat: 0},
	}
	polyline := engine.Ring{{Lon: 1.9, Lat: -0.5}, {Lon: 1.9, Lat: 1.5}}

	out := ProjectionSync(neighbour, 0, 2, polyline, false)
	require.Len(t, out, 6) // re-closed
	assert.InDelta(t, 1.9, out[0].Lon, 1e-9)
	assert.InDelta(t, 1.9, out[1].Lon, 1e-9)
	assert.InDelta(t, 1.9, out[2].Lon, 1e-9)
	// index 3 (outside the projected range) is untouched.
	assert.InDelta(t, 3, out[3].Lon, 1e-9)
}

func TestProjectionSyncShortPolylineIsNoop(t *testing.T) {
	neighbour := engine.Ring{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 1, Lat: 1}}
	out := ProjectionSync(neighbour, 0, 1, engine.Ring{{Lon: 5, Lat: 5}}, false)
	assert.Equal(t, engine.EnsureClosed(neighbour), out)
}
