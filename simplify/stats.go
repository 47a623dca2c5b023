package simplify

import (
	"github.com/golang/geo/s2"

	engine "github.com/R3v3ill3/patch-boundary-engine/geometry"
)

// earthRadiusMeters is the mean-radius constant s2-based distance
// calculations commonly use; it is only ever used here to turn a short
// s2.LatLng angular distance into metres for the deviation metric, never
// to reproject stored geometry.
const earthRadiusMeters = 6371000.0

// Stats is the simplify-preview summary returned alongside a candidate
// tolerance.
type Stats struct {
	OriginalVertexCount   int
	SimplifiedVertexCount int
	ReductionPercent      float64
	MaxDeviationMeters    float64
	AreaChangePercent     float64
}

// ComputeStats compares an original and simplified MultiPolygon. When
// includeDeviation is false, MaxDeviationMeters is left at 0 to skip the
// sampling pass entirely, trading exactness for speed on the interactive
// slider-preview path.
func ComputeStats(original, simplified engine.MultiPolygon, includeDeviation bool) Stats {
	origCount := CountVertices(original)
	simpCount := CountVertices(simplified)

	reduction := 0.0
	if origCount > 0 {
		reduction = (1 - float64(simpCount)/float64(origCount)) * 100
	}

	origArea := engine.MultiPolygonArea(original)
	simpArea := engine.MultiPolygonArea(simplified)
	areaChange := 0.0
	if origArea > 0 {
		areaChange = (simpArea - origArea) / origArea * 100
	}

	stats := Stats{
		OriginalVertexCount:   origCount,
		SimplifiedVertexCount: simpCount,
		ReductionPercent:      reduction,
		AreaChangePercent:     areaChange,
	}

	if includeDeviation {
		stats.MaxDeviationMeters = maxDeviationMeters(original, simplified, engine.DefaultTolerances().DeviationSampleCap)
	}

	return stats
}

// maxDeviationMeters samples at most sampleCap original vertices and takes
// the maximum distance, in metres, from each sampled vertex to the nearest
// edge of the corresponding simplified ring. The metric distance is
// computed with s2.LatLng.Distance, a short geodesic that degrades to the
// flat-earth approximation this engine already assumes at the scales it
// operates over.
func maxDeviationMeters(original, simplified engine.MultiPolygon, sampleCap int) float64 {
	maxDev := 0.0
	for pi, poly := range original {
		if pi >= len(simplified) {
			continue
		}
		for ri, ring := range poly {
			if ri >= len(simplified[pi]) {
				continue
			}
			simpRing := simplified[pi][ri]
			simpOpen := engine.Open(simpRing)
			simpCount := len(simpOpen)
			if simpCount < 1 {
				continue
			}

			origOpen := engine.Open(ring)
			samples := origOpen
			if len(samples) > sampleCap {
				stride := (len(samples) + sampleCap - 1) / sampleCap
				if stride < 1 {
					stride = 1
				}
				strided := make(engine.Ring, 0, sampleCap)
				for i := 0; i < len(samples); i += stride {
					strided = append(strided, samples[i])
				}
				samples = strided
			}

			for _, p := range samples {
				foot, _, _ := engine.NearestPointOnRing(p.Lon, p.Lat, simpOpen, simpCount)
				d := metresBetween(p, foot)
				if d > maxDev {
					maxDev = d
				}
			}
		}
	}
	return maxDev
}

func metresBetween(a, b engine.Position) float64 {
	la := s2.LatLngFromDegrees(a.Lat, a.Lon)
	lb := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return la.Distance(lb).Radians() * earthRadiusMeters
}
