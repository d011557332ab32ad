// Package triangulation turns a set of station bearing readings into a
// transmitter fix and a bounded search zone.
package triangulation

import (
	"math"

	"github.com/sater-ops/df-agent/pkg/geodesy"
)

// DefaultRayLengthKm caps bearing rays at a large but finite length so the
// closest-approach arithmetic stays well conditioned.
const DefaultRayLengthKm = 1000.0

// BearingLine is the great-circle ray from a station's position along its
// reported azimuth, capped at LengthKm.
type BearingLine struct {
	Callsign       string
	Origin         geodesy.Point
	AzimuthDeg     float64
	UncertaintyDeg float64 // error-cone half-angle; 0 means use the estimator default
	LengthKm       float64
	Far            geodesy.Point
}

// NewBearingLine builds a bearing line for a station. A non-positive
// lengthKm falls back to DefaultRayLengthKm.
func NewBearingLine(callsign string, origin geodesy.Point, azimuthDeg, uncertaintyDeg, lengthKm float64) BearingLine {
	if lengthKm <= 0 {
		lengthKm = DefaultRayLengthKm
	}
	azimuthDeg = geodesy.NormalizeBearing(azimuthDeg)
	return BearingLine{
		Callsign:       callsign,
		Origin:         origin,
		AzimuthDeg:     azimuthDeg,
		UncertaintyDeg: uncertaintyDeg,
		LengthKm:       lengthKm,
		Far:            geodesy.Destination(origin, azimuthDeg, lengthKm),
	}
}

// Approach is the result of a closest-approach query between two bearing
// rays that, due to measurement noise, generally do not intersect exactly.
type Approach struct {
	PointA       geodesy.Point // nearest point on the first ray
	PointB       geodesy.Point // nearest point on the second ray
	Midpoint     geodesy.Point
	SeparationKm float64
}

// ClosestApproach returns the nearest points on the two rays and their
// separation. Both ray parameters are clamped to [0, LengthKm], so the
// result never lies behind a station.
func (l BearingLine) ClosestApproach(other BearingLine) Approach {
	mid := geodesy.Point{
		Lat: (l.Origin.Lat + other.Origin.Lat) / 2,
		Lon: (l.Origin.Lon + other.Origin.Lon) / 2,
	}
	plane := geodesy.NewPlane(mid)

	r1 := l.onPlane(plane)
	r2 := other.onPlane(plane)

	s, t := closestRayParams(r1, r2)

	ax, ay := r1.at(s)
	bx, by := r2.at(t)

	pa := plane.FromXY(ax, ay)
	pb := plane.FromXY(bx, by)

	return Approach{
		PointA:       pa,
		PointB:       pb,
		Midpoint:     plane.FromXY((ax+bx)/2, (ay+by)/2),
		SeparationKm: math.Hypot(ax-bx, ay-by),
	}
}

// AngleBetweenBearings returns the angular separation of two azimuths,
// folded into [0, 180] degrees. Small values mean near-parallel bearings
// and a poorly conditioned intersection.
func AngleBetweenBearings(a, b float64) float64 {
	diff := math.Abs(geodesy.NormalizeBearing(a) - geodesy.NormalizeBearing(b))
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}

// ray is a bearing line projected onto a local plane: origin plus a unit
// direction, with a finite length.
type ray struct {
	ox, oy float64
	dx, dy float64
	length float64
}

func (l BearingLine) onPlane(plane geodesy.Plane) ray {
	ox, oy := plane.ToXY(l.Origin)
	az := l.AzimuthDeg * math.Pi / 180
	return ray{
		ox: ox, oy: oy,
		dx: math.Sin(az), dy: math.Cos(az),
		length: l.LengthKm,
	}
}

func (r ray) at(t float64) (x, y float64) {
	return r.ox + t*r.dx, r.oy + t*r.dy
}

// distanceTo returns the distance from (x, y) to the nearest point on the
// ray segment.
func (r ray) distanceTo(x, y float64) float64 {
	t := (x-r.ox)*r.dx + (y-r.oy)*r.dy
	t = clamp(t, 0, r.length)
	px, py := r.at(t)
	return math.Hypot(x-px, y-py)
}

// closestRayParams solves the closest-approach parameters for two ray
// segments with unit directions, clamped to their lengths.
func closestRayParams(r1, r2 ray) (s, t float64) {
	rx := r1.ox - r2.ox
	ry := r1.oy - r2.oy

	b := r1.dx*r2.dx + r1.dy*r2.dy // cos of the angle between directions
	c := r1.dx*rx + r1.dy*ry
	f := r2.dx*rx + r2.dy*ry

	denom := 1 - b*b
	if denom > 1e-12 {
		s = clamp((b*f-c)/denom, 0, r1.length)
	}

	t = b*s + f
	if t < 0 {
		t = 0
		s = clamp(-c, 0, r1.length)
	} else if t > r2.length {
		t = r2.length
		s = clamp(b*r2.length-c, 0, r1.length)
	}

	return s, t
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
