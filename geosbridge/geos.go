// Package geosbridge wires the engine's MultiPolygon type to
// github.com/twpayne/go-geos for the boolean operations (intersection,
// difference, union, area, validity repair) the post-edit analyser needs.
// The conversion path is the engine's own WKT encoder (geometry.WKT) in,
// geos's GeoJSON output decoded by geojsonio out.
package geosbridge

import (
	"fmt"

	"github.com/twpayne/go-geos"

	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
	"github.com/R3v3ill3/patch-boundary-engine/geojsonio"
)

// ToGeos converts an engine MultiPolygon into a *geos.Geom, repairing it
// with MakeValidWithParams whenever the input is not already valid.
func ToGeos(mp engine.MultiPolygon) (*geos.Geom, error) {
	wkt := engine.WKT(mp)
	g, err := geos.NewGeomFromWKT(wkt)
	if err != nil {
		return nil, fmt.Errorf("geosbridge: parsing WKT: %w", err)
	}
	if !g.IsValid() {
		g = g.MakeValidWithParams(geos.MakeValidLinework, geos.MakeValidDiscardCollapsed)
	}
	return g, nil
}

// FromGeos converts a *geos.Geom back into an engine MultiPolygon via its
// GeoJSON representation, reusing geojsonio's decoder so there is exactly
// one place that understands GeoJSON-to-engine-geometry.
func FromGeos(g *geos.Geom) (engine.MultiPolygon, error) {
	if g == nil || g.IsEmpty() {
		return engine.MultiPolygon{}, nil
	}
	raw := []byte(g.ToGeoJSON(-1))
	feature := []byte(`{"type":"FeatureCollection","features":[{"type":"Feature","geometry":` + string(raw) + `,"properties":{}}]}`)
	patches, err := geojsonio.UnmarshalPatches(feature)
	if err != nil {
		return nil, fmt.Errorf("geosbridge: decoding geos result: %w", err)
	}
	if len(patches) == 0 {
		return engine.MultiPolygon{}, nil
	}
	return patches[0].Geometry, nil
}

// AreaSqm returns the geometry's area in whatever unit the coordinates are
// in; for degree-space input this is deg², so callers that need an honest
// square-metre figure should keep coordinates in a locally flat projection
// or accept the small-angle approximation this engine already makes. geos
// reports this directly, which is why the analyser uses this bridge for
// area rather than geometry.MultiPolygonArea's shoelace estimate.
func AreaSqm(g *geos.Geom) float64 {
	if g == nil {
		return 0
	}
	return g.Area()
}

// IntersectionArea returns the area of a ∩ b, or 0 if either is nil/empty or
// the operation fails; a failing geometry op is caught and contributes
// nothing rather than aborting the caller.
func IntersectionArea(a, b *geos.Geom) (area float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("geosbridge: intersection panicked: %v", r)
		}
	}()
	if a == nil || b == nil {
		return 0, nil
	}
	inter := a.Intersection(b)
	if inter == nil || inter.IsEmpty() {
		return 0, nil
	}
	return inter.Area(), nil
}

// Difference returns a \ b as a *geos.Geom. It returns nil when a is nil or
// the difference is empty, a itself when b is nil, and a nil geometry with
// an error when the operation panics.
func Difference(a, b *geos.Geom) (g *geos.Geom, err error) {
	defer func() {
		if r := recover(); r != nil {
			g, err = nil, fmt.Errorf("geosbridge: difference panicked: %v", r)
		}
	}()
	if a == nil {
		return nil, nil
	}
	if b == nil {
		return a, nil
	}
	d := a.Difference(b)
	if d == nil || d.IsEmpty() {
		return nil, nil
	}
	return d, nil
}

// Union merges a list of geometries using a cascaded divide-and-conquer
// strategy without destroying its inputs. Nil and empty inputs are skipped;
// when only one input remains it is returned as is.
func Union(geoms []*geos.Geom) *geos.Geom {
	live := make([]*geos.Geom, 0, len(geoms))
	for _, g := range geoms {
		if g != nil && !g.IsEmpty() {
			live = append(live, g)
		}
	}
	if len(live) == 0 {
		return nil
	}
	return cascadedUnion(live)
}

func cascadedUnion(geoms []*geos.Geom) *geos.Geom {
	if len(geoms) == 1 {
		return geoms[0]
	}
	mid := len(geoms) / 2
	left := cascadedUnion(geoms[:mid])
	right := cascadedUnion(geoms[mid:])
	return left.Union(right)
}

// SplitComponents decomposes a (possibly multi-part) geometry into its
// individual polygon components, for the gap-polygon cleanup pass that
// drops components failing the area or occupied-overlap checks.
func SplitComponents(g *geos.Geom) []*geos.Geom {
	if g == nil || g.IsEmpty() {
		return nil
	}
	n := g.NumGeometries()
	if n <= 1 {
		return []*geos.Geom{g}
	}
	out := make([]*geos.Geom, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.Geometry(i))
	}
	return out
}
