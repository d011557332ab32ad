package geodesy

import "sort"

// ConvexHull returns the convex hull of the given points as a simple ring in
// counter-clockwise order. The first point is not repeated at the end.
// Fewer than 3 distinct input points yield the distinct points themselves.
//
// Andrew's monotone chain, run on a local equirectangular plane centred on
// the mean of the input points.
func ConvexHull(points []Point) []Point {
	distinct := dedupe(points)
	if len(distinct) < 3 {
		return distinct
	}

	plane := NewPlane(meanPoint(distinct))

	type planar struct {
		x, y float64
		geo  Point
	}
	pts := make([]planar, len(distinct))
	for i, p := range distinct {
		x, y := plane.ToXY(p)
		pts[i] = planar{x: x, y: y, geo: p}
	}

	sort.Slice(pts, func(i, j int) bool {
		if pts[i].x != pts[j].x {
			return pts[i].x < pts[j].x
		}
		return pts[i].y < pts[j].y
	})

	cross := func(o, a, b planar) float64 {
		return (a.x-o.x)*(b.y-o.y) - (a.y-o.y)*(b.x-o.x)
	}

	var hull []planar
	// Lower hull.
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	// Upper hull.
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	// Last point repeats the first.
	hull = hull[:len(hull)-1]

	ring := make([]Point, len(hull))
	for i, p := range hull {
		ring[i] = p.geo
	}
	return ring
}

// Centroid returns the area centroid of a simple ring. Degenerate rings
// (fewer than 3 points or near-zero area) fall back to the vertex mean.
func Centroid(ring []Point) Point {
	if len(ring) == 0 {
		return Point{}
	}
	if len(ring) < 3 {
		return meanPoint(ring)
	}

	plane := NewPlane(meanPoint(ring))

	var areaSum, cxSum, cySum float64
	for i := range ring {
		x1, y1 := plane.ToXY(ring[i])
		x2, y2 := plane.ToXY(ring[(i+1)%len(ring)])
		f := x1*y2 - x2*y1
		areaSum += f
		cxSum += (x1 + x2) * f
		cySum += (y1 + y2) * f
	}

	if areaSum == 0 {
		return meanPoint(ring)
	}
	return plane.FromXY(cxSum/(3*areaSum), cySum/(3*areaSum))
}

func meanPoint(points []Point) Point {
	var lat, lon float64
	for _, p := range points {
		lat += p.Lat
		lon += p.Lon
	}
	n := float64(len(points))
	return Point{Lat: lat / n, Lon: lon / n}
}

func dedupe(points []Point) []Point {
	seen := make(map[Point]struct{}, len(points))
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
