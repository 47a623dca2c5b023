package adjacency

import (
	"fmt"
	"math"

	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
)

// ringRef identifies one ring within a patch set, plus its cached
// bounding box.
type ringRef struct {
	patchID          string
	polyIdx, ringIdx int
	bbox             engine.BBox
}

// SpatialIndex is a uniform grid over patch ring bounding boxes. It cuts
// FindAdjacentPatches down from a scan of every ring in every patch to the
// handful of rings whose bounding box actually falls near the edited ring,
// the same cell-bucketing strategy a uniform-grid spatial index anywhere
// else in this codebase uses, adapted from *geos.Geom bounds to the
// engine's own BBox.
type SpatialIndex struct {
	cellSize float64
	grid     map[string][]ringRef
}

// NewSpatialIndex builds a grid over every non-degenerate ring in patches.
// cellSize is in degrees; a few times the adjacency tolerance's bounding
// box pad keeps most patches within a small, constant number of cells.
func NewSpatialIndex(patches engine.PatchSet, cellSize float64) *SpatialIndex {
	if cellSize <= 0 {
		cellSize = 0.01
	}
	idx := &SpatialIndex{cellSize: cellSize, grid: make(map[string][]ringRef)}
	for id, patch := range patches {
		for pi, poly := range patch.Geometry {
			for ri, ring := range poly {
				if engine.IsDegenerate(ring) {
					continue
				}
				idx.add(ringRef{
					patchID: id,
					polyIdx: pi,
					ringIdx: ri,
					bbox:    engine.Bbox(engine.Open(ring)),
				})
			}
		}
	}
	return idx
}

func (si *SpatialIndex) add(ref ringRef) {
	minX, minY, maxX, maxY := si.cellRange(ref.bbox)
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			key := cellKey(x, y)
			si.grid[key] = append(si.grid[key], ref)
		}
	}
}

func (si *SpatialIndex) cellRange(box engine.BBox) (minX, minY, maxX, maxY int) {
	return int(math.Floor(box.MinLon / si.cellSize)),
		int(math.Floor(box.MinLat / si.cellSize)),
		int(math.Floor(box.MaxLon / si.cellSize)),
		int(math.Floor(box.MaxLat / si.cellSize))
}

// Query returns every indexed ring reference whose cell range overlaps
// box, deduplicated, excluding excludePatchID.
func (si *SpatialIndex) Query(box engine.BBox, excludePatchID string) []ringRef {
	minX, minY, maxX, maxY := si.cellRange(box)
	seen := make(map[string]bool)
	var out []ringRef
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for _, ref := range si.grid[cellKey(x, y)] {
				if ref.patchID == excludePatchID {
					continue
				}
				dedupKey := fmt.Sprintf("%s|%d|%d", ref.patchID, ref.polyIdx, ref.ringIdx)
				if seen[dedupKey] {
					continue
				}
				seen[dedupKey] = true
				out = append(out, ref)
			}
		}
	}
	return out
}

func cellKey(x, y int) string {
	return fmt.Sprintf("%d,%d", x, y)
}
