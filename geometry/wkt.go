package geometry

import (
	"strconv"
	"strings"
)

// WKT encodes a MultiPolygon as MULTIPOLYGON(((lon lat, …)…)…) with a '.'
// decimal separator and no trailing whitespace, the fixed format this
// engine's persistence boundary requires. Rings are emitted closed.
//
// This is hand-formatted rather than routed through a general-purpose WKT
// marshaller: the persistence boundary's format is a fixed contract (no
// space after the geometry tag, no trailing whitespace, plain decimal
// notation), and getting that byte-for-byte from a marshaller tuned for
// human-readable WKT risks silent drift. It mirrors a habit of hand-walking
// coordinates into a target format rather than trusting a generic encoder's
// formatting choices.
func WKT(mp MultiPolygon) string {
	var b strings.Builder
	b.WriteString("MULTIPOLYGON(")
	for i, poly := range mp {
		if i > 0 {
			b.WriteByte(',')
		}
		writePolygonWKT(&b, poly)
	}
	b.WriteByte(')')
	return b.String()
}

func writePolygonWKT(b *strings.Builder, poly Polygon) {
	b.WriteByte('(')
	for i, ring := range poly {
		if i > 0 {
			b.WriteByte(',')
		}
		writeRingWKT(b, ring)
	}
	b.WriteByte(')')
}

func writeRingWKT(b *strings.Builder, ring Ring) {
	closed := EnsureClosed(ring)
	b.WriteByte('(')
	for i, p := range closed {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(formatCoord(p.Lon))
		b.WriteByte(' ')
		b.WriteString(formatCoord(p.Lat))
	}
	b.WriteByte(')')
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
