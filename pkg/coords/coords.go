// Package coords converts decimal-degree positions into the display formats
// used on search-and-rescue paperwork: degrees/minutes/seconds, UTM and MGRS.
package coords

import (
	"fmt"
	"math"
)

// DMS is a sexagesimal representation of a latitude or longitude.
type DMS struct {
	Degrees   int
	Minutes   int
	Seconds   float64
	Direction string
}

// LatitudeDMS converts a decimal-degree latitude to DMS.
func LatitudeDMS(lat float64) DMS {
	return toDMS(lat, "N", "S")
}

// LongitudeDMS converts a decimal-degree longitude to DMS.
func LongitudeDMS(lon float64) DMS {
	return toDMS(lon, "E", "W")
}

func toDMS(dd float64, positive, negative string) DMS {
	direction := positive
	if dd < 0 {
		direction = negative
	}
	dd = math.Abs(dd)

	deg := int(dd)
	minutes := int((dd - float64(deg)) * 60)
	seconds := (dd - float64(deg) - float64(minutes)/60) * 3600

	return DMS{
		Degrees:   deg,
		Minutes:   minutes,
		Seconds:   math.Round(seconds*100) / 100,
		Direction: direction,
	}
}

// String formats the DMS value the way it appears on mission reports,
// e.g. 48°51'29.9"N.
func (d DMS) String() string {
	return fmt.Sprintf("%d°%d'%.1f\"%s", d.Degrees, d.Minutes, d.Seconds, d.Direction)
}

// UTM is a position in Universal Transverse Mercator coordinates.
type UTM struct {
	Zone     int
	Band     string
	Easting  float64
	Northing float64
}

// String formats the UTM position, e.g. "31U 448251 5411932".
func (u UTM) String() string {
	return fmt.Sprintf("%d%s %.0f %.0f", u.Zone, u.Band, u.Easting, u.Northing)
}

// ToUTM converts a WGS84 latitude/longitude to UTM using the standard
// Transverse Mercator series expansion, including the Norway and Svalbard
// zone exceptions.
func ToUTM(lat, lon float64) UTM {
	zone := int((lon+180)/6) + 1

	// Zone exceptions around Norway and Svalbard.
	switch {
	case lat >= 56 && lat < 64 && lon >= 3 && lon < 12:
		zone = 32
	case lat >= 72 && lat < 84:
		switch {
		case lon >= 0 && lon < 9:
			zone = 31
		case lon >= 9 && lon < 21:
			zone = 33
		case lon >= 21 && lon < 33:
			zone = 35
		case lon >= 33 && lon < 42:
			zone = 37
		}
	}

	const bands = "CDEFGHJKLMNPQRSTUVWXX"
	band := "Z"
	if lat >= -80 && lat <= 84 {
		band = string(bands[int((lat+80)/8)])
	}

	const (
		a  = 6378137.0         // WGS84 semi-major axis
		f  = 1 / 298.257223563 // WGS84 flattening
		k0 = 0.9996            // UTM scale factor
	)

	e := math.Sqrt(f * (2 - f))
	e2 := e * e
	ep2 := e2 / (1 - e2)

	lon0 := radians(float64((zone-1)*6 - 180 + 3))
	latRad := radians(lat)
	lonRad := radians(lon)

	sinLat := math.Sin(latRad)
	cosLat := math.Cos(latRad)
	tanLat := math.Tan(latRad)

	n := a / math.Sqrt(1-e2*sinLat*sinLat)
	t := tanLat * tanLat
	c := ep2 * cosLat * cosLat
	aa := (lonRad - lon0) * cosLat

	m := a * ((1-e2/4-3*e2*e2/64-5*e2*e2*e2/256)*latRad -
		(3*e2/8+3*e2*e2/32+45*e2*e2*e2/1024)*math.Sin(2*latRad) +
		(15*e2*e2/256+45*e2*e2*e2/1024)*math.Sin(4*latRad) -
		(35*e2*e2*e2/3072)*math.Sin(6*latRad))

	easting := k0*n*(aa+(1-t+c)*aa*aa*aa/6+
		(5-18*t+t*t+72*c-58*ep2)*math.Pow(aa, 5)/120) + 500000

	northing := k0 * (m + n*tanLat*(aa*aa/2+
		(5-t+9*c+4*c*c)*math.Pow(aa, 4)/24+
		(61-58*t+t*t+600*c-330*ep2)*math.Pow(aa, 6)/720))

	if lat < 0 {
		northing += 10000000
	}

	return UTM{Zone: zone, Band: band, Easting: easting, Northing: northing}
}

// ToMGRS converts a WGS84 latitude/longitude to a Military Grid Reference
// System string with 1-metre precision.
func ToMGRS(lat, lon float64) string {
	utm := ToUTM(lat, lon)

	set := utm.Zone % 6
	if set == 0 {
		set = 6
	}

	colLetters := [6]string{"ABCDEFGH", "JKLMNPQR", "STUVWXYZ", "ABCDEFGH", "JKLMNPQR", "STUVWXYZ"}
	colIdx := int(utm.Easting/100000) - 1
	if colIdx < 0 {
		colIdx = 0
	}
	if colIdx > 7 {
		colIdx = 7
	}
	col := colLetters[set-1][colIdx]

	const rowLetters = "ABCDEFGHJKLMNPQRSTUV"
	row := rowLetters[int(utm.Northing/100000)%20]

	e100k := int(math.Mod(utm.Easting, 100000))
	n100k := int(math.Mod(utm.Northing, 100000))

	return fmt.Sprintf("%d%s %c%c %05d %05d", utm.Zone, utm.Band, col, row, e100k, n100k)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
