package geodesy

import "math"

// kmPerDegree is the length of one degree of latitude on the mean sphere.
const kmPerDegree = EarthRadiusKm * math.Pi / 180.0

// Plane is a local equirectangular projection centred on a reference point.
// It maps geographic coordinates to a flat east/north plane in kilometres,
// which is accurate enough at search-operation scale (tens of kilometres)
// where bearing measurement error dominates projection error.
type Plane struct {
	origin Point
	cosLat float64
}

// NewPlane creates a projection plane centred on origin.
func NewPlane(origin Point) Plane {
	return Plane{
		origin: origin,
		cosLat: math.Cos(toRadians(origin.Lat)),
	}
}

// ToXY projects a geographic point onto the plane. X points east and Y
// points north, both in kilometres from the plane origin.
func (p Plane) ToXY(pt Point) (x, y float64) {
	x = (pt.Lon - p.origin.Lon) * kmPerDegree * p.cosLat
	y = (pt.Lat - p.origin.Lat) * kmPerDegree
	return x, y
}

// FromXY converts plane coordinates back to a geographic point.
func (p Plane) FromXY(x, y float64) Point {
	lat := p.origin.Lat + y/kmPerDegree
	lon := p.origin.Lon
	if p.cosLat != 0 {
		lon += x / (kmPerDegree * p.cosLat)
	}
	return Point{Lat: lat, Lon: lon}
}
