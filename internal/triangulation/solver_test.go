package triangulation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sater-ops/df-agent/pkg/geodesy"
)

// linesTowards builds one bearing line per station aimed at the target.
func linesTowards(target geodesy.Point, stations map[string]geodesy.Point) []BearingLine {
	var lines []BearingLine
	for callsign, origin := range stations {
		lines = append(lines, NewBearingLine(callsign, origin, geodesy.InitialBearing(origin, target), 0, 0))
	}
	return lines
}

// TestSolve_Insufficient tests that fewer than two bearings produce no fix.
func TestSolve_Insufficient(t *testing.T) {
	s := NewSolver(0)

	fix := s.Solve(nil)
	assert.Equal(t, QualityInsufficient, fix.Quality)
	assert.False(t, fix.HasPosition())

	fix = s.Solve([]BearingLine{
		NewBearingLine("a", geodesy.Point{Lat: 0, Lon: 0}, 90, 0, 0),
	})
	assert.Equal(t, QualityInsufficient, fix.Quality)
	assert.Equal(t, 1, fix.Stations)
}

// TestSolve_TwoPerpendicularBearings tests the clean two-station crossing.
func TestSolve_TwoPerpendicularBearings(t *testing.T) {
	s := NewSolver(0.5)

	target := geodesy.Point{Lat: 0, Lon: 0.5}
	lines := []BearingLine{
		NewBearingLine("a", geodesy.Point{Lat: 0, Lon: 0}, 90, 0, 0),
		NewBearingLine("b", geodesy.Point{Lat: 0.5, Lon: 0.5}, 180, 0, 0),
	}

	fix := s.Solve(lines)

	assert.Equal(t, QualityExact, fix.Quality)
	assert.Equal(t, 2, fix.Stations)
	assert.Less(t, geodesy.Distance(fix.Position, target), 1.0)
	assert.Less(t, fix.SeparationKm, 0.5)
	assert.InDelta(t, 90.0, fix.MinBearingAngleDeg, 0.1)
}

// TestSolve_OrderIndependent tests that station insertion order does not
// move the fix.
func TestSolve_OrderIndependent(t *testing.T) {
	s := NewSolver(0)

	a := NewBearingLine("a", geodesy.Point{Lat: 0, Lon: 0}, 45, 0, 0)
	b := NewBearingLine("b", geodesy.Point{Lat: 0, Lon: 1}, 315, 0, 0)
	c := NewBearingLine("c", geodesy.Point{Lat: 1, Lon: 0.5}, 180, 0, 0)

	perms := [][]BearingLine{
		{a, b, c},
		{c, a, b},
		{b, c, a},
		{c, b, a},
	}

	first := s.Solve(perms[0])
	for _, perm := range perms[1:] {
		fix := s.Solve(perm)
		assert.InDelta(t, first.Position.Lat, fix.Position.Lat, 1e-9)
		assert.InDelta(t, first.Position.Lon, fix.Position.Lon, 1e-9)
		assert.Equal(t, first.Quality, fix.Quality)
		assert.InDelta(t, first.MaxResidualKm, fix.MaxResidualKm, 1e-9)
	}
}

// TestSolve_LeastSquaresConsistentStations tests that three consistent
// bearings converge on the common target.
func TestSolve_LeastSquaresConsistentStations(t *testing.T) {
	s := NewSolver(0)

	target := geodesy.Point{Lat: 0.5, Lon: 0.5}
	lines := linesTowards(target, map[string]geodesy.Point{
		"a": {Lat: 0, Lon: 0},
		"b": {Lat: 0, Lon: 1},
		"c": {Lat: 1, Lon: 0.5},
	})

	fix := s.Solve(lines)

	assert.Equal(t, QualityLeastSquares, fix.Quality)
	assert.Equal(t, 3, fix.Stations)
	assert.Less(t, geodesy.Distance(fix.Position, target), 1.0)
	assert.Less(t, fix.MaxResidualKm, 1.0)
}

// TestSolve_LeastSquaresKeepsOutlier tests that an inconsistent station is
// kept and surfaces through the residual.
func TestSolve_LeastSquaresKeepsOutlier(t *testing.T) {
	s := NewSolver(0)

	target := geodesy.Point{Lat: 0.5, Lon: 0.5}
	lines := linesTowards(target, map[string]geodesy.Point{
		"a": {Lat: 0, Lon: 0},
		"b": {Lat: 0, Lon: 1},
		"c": {Lat: 1, Lon: 0.5},
	})
	// A fourth station looking the wrong way.
	lines = append(lines, NewBearingLine("d", geodesy.Point{Lat: 1, Lon: 0}, 10, 0, 0))

	fix := s.Solve(lines)

	assert.Equal(t, 4, fix.Stations)
	assert.Greater(t, fix.MaxResidualKm, 5.0)
}

// TestSolve_NearParallelAngle tests that the minimum pairwise angle reports
// poorly conditioned geometry.
func TestSolve_NearParallelAngle(t *testing.T) {
	s := NewSolver(0)

	lines := []BearingLine{
		NewBearingLine("a", geodesy.Point{Lat: 0, Lon: 0}, 90, 0, 0),
		NewBearingLine("b", geodesy.Point{Lat: 0.1, Lon: 0}, 92, 0, 0),
	}

	fix := s.Solve(lines)
	assert.InDelta(t, 2.0, fix.MinBearingAngleDeg, 0.01)
}
