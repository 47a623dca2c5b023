// Package geojsonio is the GeoJSON import/export adapter: it wraps
// MultiPolygon features around the engine's types and preserves code/name
// metadata. It is built on github.com/twpayne/go-geom, a pure-Go geometry
// library, rather than on a hand-rolled []float64 nesting of its own.
package geojsonio

import (
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
)

// PatchFeatureProperties is the GeoJSON Feature "properties" shape this
// adapter reads and writes to preserve patch metadata across the boundary.
type PatchFeatureProperties struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
}

// ToGeomMultiPolygon converts the engine's MultiPolygon into a go-geom
// MultiPolygon with an XY layout, closing every ring on the way out.
func ToGeomMultiPolygon(mp engine.MultiPolygon) (*geom.MultiPolygon, error) {
	closed := engine.EnsureClosedMultiPolygon(mp)
	coords := make([][][]geom.Coord, 0, len(closed))
	for _, poly := range closed {
		polyCoords := make([][]geom.Coord, 0, len(poly))
		for _, ring := range poly {
			ringCoords := make([]geom.Coord, 0, len(ring))
			for _, p := range ring {
				ringCoords = append(ringCoords, geom.Coord{p.Lon, p.Lat})
			}
			polyCoords = append(polyCoords, ringCoords)
		}
		coords = append(coords, polyCoords)
	}
	g := geom.NewMultiPolygon(geom.XY)
	if err := g.SetCoords(coords); err != nil {
		return nil, fmt.Errorf("geojsonio: building multipolygon: %w", err)
	}
	return g, nil
}

// FromGeomMultiPolygon converts a go-geom MultiPolygon back into the
// engine's open-ring MultiPolygon representation.
func FromGeomMultiPolygon(g *geom.MultiPolygon) engine.MultiPolygon {
	out := make(engine.MultiPolygon, g.NumPolygons())
	for pi := 0; pi < g.NumPolygons(); pi++ {
		poly := g.Polygon(pi)
		rings := make(engine.Polygon, poly.NumLinearRings())
		for ri := 0; ri < poly.NumLinearRings(); ri++ {
			lr := poly.LinearRing(ri)
			n := lr.NumCoords()
			ring := make(engine.Ring, n)
			for ci := 0; ci < n; ci++ {
				c := lr.Coord(ci)
				ring[ci] = engine.Position{Lon: c[0], Lat: c[1]}
			}
			rings[ri] = engine.Open(ring)
		}
		out[pi] = rings
	}
	return out
}

// Feature is one patch rendered as a GeoJSON Feature.
type Feature struct {
	Patch engine.Patch
}

// MarshalPatches encodes a set of patches as a GeoJSON FeatureCollection,
// one Feature per patch, preserving id/code/name as properties.
func MarshalPatches(patches []engine.Patch) ([]byte, error) {
	fc := &geojson.FeatureCollection{}
	for _, p := range patches {
		g, err := ToGeomMultiPolygon(p.Geometry)
		if err != nil {
			return nil, fmt.Errorf("geojsonio: patch %s: %w", p.ID, err)
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: g,
			Properties: map[string]interface{}{
				"id":   p.ID,
				"code": p.Code,
				"name": p.Name,
			},
		})
	}
	return fc.MarshalJSON()
}

// UnmarshalPatches decodes a GeoJSON FeatureCollection into patches,
// reading id/code/name back out of each Feature's properties.
func UnmarshalPatches(data []byte) ([]engine.Patch, error) {
	fc := &geojson.FeatureCollection{}
	if err := fc.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("geojsonio: decoding feature collection: %w", err)
	}
	patches := make([]engine.Patch, 0, len(fc.Features))
	for i, f := range fc.Features {
		mp, err := asMultiPolygon(f.Geometry)
		if err != nil {
			return nil, fmt.Errorf("geojsonio: feature %d: %w", i, err)
		}
		id, _ := f.Properties["id"].(string)
		code, _ := f.Properties["code"].(string)
		name, _ := f.Properties["name"].(string)
		patches = append(patches, engine.Patch{
			ID:       id,
			Code:     code,
			Name:     name,
			Geometry: FromGeomMultiPolygon(mp),
		})
	}
	return patches, nil
}

func asMultiPolygon(g geom.T) (*geom.MultiPolygon, error) {
	switch v := g.(type) {
	case *geom.MultiPolygon:
		return v, nil
	case *geom.Polygon:
		mp := geom.NewMultiPolygon(geom.XY)
		if err := mp.Push(v); err != nil {
			return nil, err
		}
		return mp, nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %T, expected Polygon or MultiPolygon", g)
	}
}
