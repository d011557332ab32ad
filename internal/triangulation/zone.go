package triangulation

import (
	"github.com/sater-ops/df-agent/pkg/geodesy"
)

// SearchZone is the bounded polygon of plausible transmitter locations
// given the angular uncertainty of every contributing bearing.
type SearchZone struct {
	// Ring is a simple polygon in consistent counter-clockwise order. The
	// first point is not repeated. Empty when fewer than two stations
	// contribute.
	Ring     []geodesy.Point `json:"ring"`
	AreaKm2  float64         `json:"area_km2"`
	Centroid geodesy.Point   `json:"centroid"`

	// RadiusKm is the distance from the centroid to the farthest ring
	// vertex, a convenience for drawing a search circle on a map.
	RadiusKm float64 `json:"radius_km"`
}

// IsEmpty reports whether the zone has no polygon.
func (z SearchZone) IsEmpty() bool {
	return len(z.Ring) == 0
}

// Estimator derives search zones from bearing lines and a fix.
type Estimator struct {
	// DefaultHalfAngleDeg is the error-cone half-angle applied to lines
	// that do not carry their own uncertainty. Operational tuning value;
	// 5 degrees unless configured otherwise.
	DefaultHalfAngleDeg float64

	// crossingToleranceKm bounds the closest-approach separation under
	// which two boundary rays are taken to cross.
	crossingToleranceKm float64
}

// NewEstimator returns an estimator with the given default cone half-angle
// in degrees. Non-positive values fall back to 5 degrees.
func NewEstimator(defaultHalfAngleDeg float64) *Estimator {
	if defaultHalfAngleDeg <= 0 {
		defaultHalfAngleDeg = 5
	}
	return &Estimator{
		DefaultHalfAngleDeg: defaultHalfAngleDeg,
		crossingToleranceKm: 1.0,
	}
}

// Estimate builds the search zone for the given bearing lines. For every
// line it constructs two boundary rays offset by the line's error-cone
// half-angle, collects the crossings of boundary rays belonging to
// different stations, and returns the convex hull of those crossings.
// Fewer than two lines yield an empty zone.
func (e *Estimator) Estimate(lines []BearingLine, fix Fix) SearchZone {
	if len(lines) < 2 {
		return SearchZone{}
	}

	normalized := normalizeLines(lines)

	boundaries := make([][2]BearingLine, len(normalized))
	for i, l := range normalized {
		half := l.UncertaintyDeg
		if half <= 0 {
			half = e.DefaultHalfAngleDeg
		}
		boundaries[i] = [2]BearingLine{
			NewBearingLine(l.Callsign, l.Origin, l.AzimuthDeg-half, 0, l.LengthKm),
			NewBearingLine(l.Callsign, l.Origin, l.AzimuthDeg+half, 0, l.LengthKm),
		}
	}

	var crossings []geodesy.Point
	for i := 0; i < len(boundaries); i++ {
		for j := i + 1; j < len(boundaries); j++ {
			for _, a := range boundaries[i] {
				for _, b := range boundaries[j] {
					approach := a.ClosestApproach(b)
					if approach.SeparationKm <= e.crossingToleranceKm {
						crossings = append(crossings, approach.Midpoint)
					}
				}
			}
		}
	}

	hull := geodesy.ConvexHull(crossings)
	if len(hull) < 3 {
		// Parallel or diverging cones leave nothing to bound. Never
		// return a degenerate single-point or two-point polygon.
		return SearchZone{}
	}

	centroid := geodesy.Centroid(hull)

	var radius float64
	for _, p := range hull {
		if d := geodesy.Distance(centroid, p); d > radius {
			radius = d
		}
	}

	return SearchZone{
		Ring:     hull,
		AreaKm2:  geodesy.PolygonArea(hull),
		Centroid: centroid,
		RadiusKm: radius,
	}
}
