// Package export renders a working patch set as a Shapefile zip for
// exchange with desktop GIS tools.
package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonas-p/go-shp"

	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
)

const baseName = "patches"

// ShapefileZip writes patches to a .shp/.shx/.dbf set and returns them
// packed in a zip archive, with id/code/name as the DBF attribute columns.
func ShapefileZip(patches []engine.Patch) ([]byte, error) {
	if len(patches) == 0 {
		return nil, fmt.Errorf("export: no patches to write")
	}

	tempDir, err := os.MkdirTemp("", "patch-shapefile-")
	if err != nil {
		return nil, fmt.Errorf("export: creating temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	shpPath := filepath.Join(tempDir, baseName+".shp")
	if err := writeShapefile(shpPath, patches); err != nil {
		return nil, fmt.Errorf("export: writing shapefile: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, ext := range []string{".shp", ".shx", ".dbf"} {
		path := strings.TrimSuffix(shpPath, ".shp") + ext
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("export: reading %s component: %w", ext, err)
		}
		f, err := zw.Create(baseName + ext)
		if err != nil {
			return nil, fmt.Errorf("export: creating %s in zip: %w", ext, err)
		}
		if _, err := f.Write(data); err != nil {
			return nil, fmt.Errorf("export: writing %s to zip: %w", ext, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("export: closing zip writer: %w", err)
	}
	return buf.Bytes(), nil
}

func writeShapefile(path string, patches []engine.Patch) error {
	writer, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		return fmt.Errorf("creating shapefile: %w", err)
	}
	defer writer.Close()

	fields := []shp.Field{
		shp.StringField("id", 50),
		shp.StringField("code", 50),
		shp.StringField("name", 100),
	}
	writer.SetFields(fields)

	sorted := append([]engine.Patch(nil), patches...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for i, patch := range sorted {
		writer.Write(multiPolygonToShape(patch.Geometry))
		writer.WriteAttribute(i, 0, patch.ID)
		writer.WriteAttribute(i, 1, patch.Code)
		writer.WriteAttribute(i, 2, patch.Name)
	}
	return nil
}

// multiPolygonToShape flattens every ring of every polygon in mp into one
// shp.Polygon, recording one Part offset per ring so holes and multiple
// polygon components both come through as separate parts of a single
// shapefile record.
func multiPolygonToShape(mp engine.MultiPolygon) *shp.Polygon {
	polygon := &shp.Polygon{}
	closed := engine.EnsureClosedMultiPolygon(mp)
	for _, poly := range closed {
		for _, ring := range poly {
			partIndex := int32(len(polygon.Points))
			for _, p := range ring {
				polygon.Points = append(polygon.Points, shp.Point{X: p.Lon, Y: p.Lat})
			}
			polygon.Parts = append(polygon.Parts, partIndex)
		}
	}
	return polygon
}
