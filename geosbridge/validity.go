package geosbridge

import (
	"github.com/twpayne/go-geos"

	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
)

func rawGeomFromWKT(wkt string) (*geos.Geom, error) {
	return geos.NewGeomFromWKT(wkt)
}

// ValidityIssue flags one patch whose geometry was not valid as ingested,
// before the repair ToGeos always applies.
type ValidityIssue struct {
	PatchID string `json:"patchId"`
	Reason  string `json:"reason"`
}

// CheckPatchValidity reports, for each patch, why its as-ingested geometry
// was invalid. A patch is skipped from the result once it parses and
// validates cleanly. Never blocks ingestion: an invalid patch is still
// loaded (ToGeos repairs it on demand whenever a boolean op needs it), this
// is purely informational for the host.
func CheckPatchValidity(patches []engine.Patch) []ValidityIssue {
	var issues []ValidityIssue
	for _, p := range patches {
		wkt := engine.WKT(p.Geometry)
		g, err := rawGeomFromWKT(wkt)
		if err != nil {
			issues = append(issues, ValidityIssue{PatchID: p.ID, Reason: err.Error()})
			continue
		}
		if !g.IsValid() {
			issues = append(issues, ValidityIssue{PatchID: p.ID, Reason: g.IsValidReason()})
		}
	}
	return issues
}
