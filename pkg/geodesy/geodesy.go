package geodesy

import "math"

// EarthRadiusKm is the mean Earth radius used by all spherical calculations.
const EarthRadiusKm = 6371.0

// Point is a geographic position in WGS84 decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func toDegrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// NormalizeBearing wraps a bearing in degrees into the [0, 360) range.
func NormalizeBearing(deg float64) float64 {
	deg = math.Mod(deg, 360.0)
	if deg < 0 {
		deg += 360.0
	}
	return deg
}

// Destination returns the point reached by travelling distKm kilometres from
// origin along the great circle with the given initial azimuth in degrees.
func Destination(origin Point, azimuthDeg, distKm float64) Point {
	lat1 := toRadians(origin.Lat)
	lon1 := toRadians(origin.Lon)
	brng := toRadians(azimuthDeg)
	d := distKm / EarthRadiusKm

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(d) +
		math.Cos(lat1)*math.Sin(d)*math.Cos(brng))
	lon2 := lon1 + math.Atan2(math.Sin(brng)*math.Sin(d)*math.Cos(lat1),
		math.Cos(d)-math.Sin(lat1)*math.Sin(lat2))

	// Keep longitude in [-180, 180].
	lon2 = math.Mod(lon2+3*math.Pi, 2*math.Pi) - math.Pi

	return Point{Lat: toDegrees(lat2), Lon: toDegrees(lon2)}
}

// Distance returns the great-circle distance between a and b in kilometres.
func Distance(a, b Point) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// InitialBearing returns the initial great-circle bearing from a to b in
// degrees clockwise from true north, in the [0, 360) range.
func InitialBearing(a, b Point) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) -
		math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	return NormalizeBearing(toDegrees(math.Atan2(y, x)))
}

// PolygonArea returns the spherical area in square kilometres of the polygon
// described by ring. The ring does not need to repeat its first point. Rings
// with fewer than 3 distinct points yield 0.
//
// Uses the spherical excess formula from Chamberlain & Duquette, "Some
// Algorithms for Polygons on a Sphere" (JPL). Accurate for search-zone scale
// polygons; orientation of the ring does not affect the result.
func PolygonArea(ring []Point) float64 {
	if len(ring) < 3 {
		return 0
	}

	total := 0.0
	for i := range ring {
		p1 := ring[i]
		p2 := ring[(i+1)%len(ring)]
		total += toRadians(p2.Lon-p1.Lon) *
			(2 + math.Sin(toRadians(p1.Lat)) + math.Sin(toRadians(p2.Lat)))
	}

	area := total * EarthRadiusKm * EarthRadiusKm / 2
	return math.Abs(area)
}
