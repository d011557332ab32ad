package coords

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestLatitudeDMS tests the report formatting of latitudes.
func TestLatitudeDMS(t *testing.T) {
	assert.Equal(t, "48°51'29.9\"N", LatitudeDMS(48.858306).String())
	assert.Equal(t, "33°52'4.0\"S", LatitudeDMS(-33.867778).String())
	assert.Equal(t, "0°0'0.0\"N", LatitudeDMS(0).String())
}

// TestLongitudeDMS tests the report formatting of longitudes.
func TestLongitudeDMS(t *testing.T) {
	assert.Equal(t, "2°17'40.2\"E", LongitudeDMS(2.294500).String())
	assert.Equal(t, "151°12'27.0\"E", LongitudeDMS(151.2075).String())
	assert.Equal(t, "2°30'0.0\"W", LongitudeDMS(-2.5).String())
}

// TestToUTM_CentralMeridianEquator tests the degenerate point where easting
// and northing are exactly known.
func TestToUTM_CentralMeridianEquator(t *testing.T) {
	utm := ToUTM(0, 3)
	assert.Equal(t, 31, utm.Zone)
	assert.Equal(t, "N", utm.Band)
	assert.InDelta(t, 500000.0, utm.Easting, 0.01)
	assert.InDelta(t, 0.0, utm.Northing, 0.01)
}

// TestToUTM_EastingScale tests that a small longitude offset maps to the
// expected ground distance.
func TestToUTM_EastingScale(t *testing.T) {
	lat := 48.8566
	a := ToUTM(lat, 2.35)
	b := ToUTM(lat, 2.36)

	// 0.01 degrees of longitude at this latitude is about 733 m.
	want := 111320.0 * math.Cos(lat*math.Pi/180) * 0.01
	assert.InDelta(t, want, b.Easting-a.Easting, 5)
}

// TestToUTM_SouthernHemisphere tests the false northing offset.
func TestToUTM_SouthernHemisphere(t *testing.T) {
	utm := ToUTM(-33.8678, 151.2073)
	assert.Equal(t, 56, utm.Zone)
	assert.Equal(t, "H", utm.Band)
	assert.Greater(t, utm.Northing, 6000000.0)
	assert.Less(t, utm.Northing, 10000000.0)
}

// TestToUTM_NorwayException tests the widened zone 32V.
func TestToUTM_NorwayException(t *testing.T) {
	utm := ToUTM(60.39, 5.32) // Bergen, zone 31 by the plain formula
	assert.Equal(t, 32, utm.Zone)
	assert.Equal(t, "V", utm.Band)
}

// TestToMGRS_Format tests the grid reference structure.
func TestToMGRS_Format(t *testing.T) {
	mgrs := ToMGRS(48.8566, 2.3522)

	assert.True(t, strings.HasPrefix(mgrs, "31U "))
	parts := strings.Split(mgrs, " ")
	assert.Len(t, parts, 4)
	assert.Len(t, parts[1], 2)
	assert.Len(t, parts[2], 5)
	assert.Len(t, parts[3], 5)
}
