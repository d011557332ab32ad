package triangulation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sater-ops/df-agent/pkg/geodesy"
)

// TestEstimate_TwoCrossingCones tests the bounded quad around a clean
// two-station crossing.
func TestEstimate_TwoCrossingCones(t *testing.T) {
	e := NewEstimator(5)
	s := NewSolver(0)

	lines := []BearingLine{
		NewBearingLine("a", geodesy.Point{Lat: 0, Lon: 0}, 90, 0, 0),
		NewBearingLine("b", geodesy.Point{Lat: 0.5, Lon: 0.5}, 180, 0, 0),
	}
	fix := s.Solve(lines)

	zone := e.Estimate(lines, fix)

	assert.False(t, zone.IsEmpty())
	assert.GreaterOrEqual(t, len(zone.Ring), 3)
	assert.Greater(t, zone.AreaKm2, 0.0)
	assert.Greater(t, zone.RadiusKm, 0.0)

	// The crossing lies inside the zone's enclosing circle.
	assert.Less(t, geodesy.Distance(zone.Centroid, fix.Position), zone.RadiusKm)

	// Every ring vertex stays within the enclosing radius.
	for _, p := range zone.Ring {
		assert.LessOrEqual(t, geodesy.Distance(zone.Centroid, p), zone.RadiusKm+1e-9)
	}
}

// TestEstimate_StationUncertaintyWidensZone tests that a wider error cone
// grows the polygon.
func TestEstimate_StationUncertaintyWidensZone(t *testing.T) {
	e := NewEstimator(5)
	s := NewSolver(0)

	narrow := []BearingLine{
		NewBearingLine("a", geodesy.Point{Lat: 0, Lon: 0}, 90, 2, 0),
		NewBearingLine("b", geodesy.Point{Lat: 0.5, Lon: 0.5}, 180, 2, 0),
	}
	wide := []BearingLine{
		NewBearingLine("a", geodesy.Point{Lat: 0, Lon: 0}, 90, 8, 0),
		NewBearingLine("b", geodesy.Point{Lat: 0.5, Lon: 0.5}, 180, 8, 0),
	}

	narrowZone := e.Estimate(narrow, s.Solve(narrow))
	wideZone := e.Estimate(wide, s.Solve(wide))

	assert.False(t, narrowZone.IsEmpty())
	assert.False(t, wideZone.IsEmpty())
	assert.Greater(t, wideZone.AreaKm2, narrowZone.AreaKm2)
}

// TestEstimate_ParallelBearings tests that parallel cones leave nothing to
// bound.
func TestEstimate_ParallelBearings(t *testing.T) {
	e := NewEstimator(5)
	s := NewSolver(0)

	lines := []BearingLine{
		NewBearingLine("a", geodesy.Point{Lat: 0, Lon: 0}, 0, 0, 0),
		NewBearingLine("b", geodesy.Point{Lat: 0, Lon: 0.5}, 0, 0, 0),
	}

	zone := e.Estimate(lines, s.Solve(lines))
	assert.True(t, zone.IsEmpty())
	assert.Equal(t, 0.0, zone.AreaKm2)
}

// TestEstimate_SingleLine tests that one bearing cannot bound a zone.
func TestEstimate_SingleLine(t *testing.T) {
	e := NewEstimator(5)

	lines := []BearingLine{
		NewBearingLine("a", geodesy.Point{Lat: 0, Lon: 0}, 90, 0, 0),
	}

	zone := e.Estimate(lines, Fix{Quality: QualityInsufficient})
	assert.True(t, zone.IsEmpty())
}

// TestEstimate_OrderIndependent tests that line order does not change the
// zone area.
func TestEstimate_OrderIndependent(t *testing.T) {
	e := NewEstimator(5)
	s := NewSolver(0)

	a := NewBearingLine("a", geodesy.Point{Lat: 0, Lon: 0}, 45, 0, 0)
	b := NewBearingLine("b", geodesy.Point{Lat: 0, Lon: 1}, 315, 0, 0)

	z1 := e.Estimate([]BearingLine{a, b}, s.Solve([]BearingLine{a, b}))
	z2 := e.Estimate([]BearingLine{b, a}, s.Solve([]BearingLine{b, a}))

	assert.InDelta(t, z1.AreaKm2, z2.AreaKm2, 1e-9)
	assert.InDelta(t, z1.Centroid.Lat, z2.Centroid.Lat, 1e-9)
	assert.InDelta(t, z1.Centroid.Lon, z2.Centroid.Lon, 1e-9)
}
