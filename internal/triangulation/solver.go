package triangulation

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/optimize"

	"github.com/sater-ops/df-agent/pkg/geodesy"
)

// Quality grades a fix by how it was obtained.
type Quality string

const (
	// QualityExact marks a fix computed from exactly two bearings.
	QualityExact Quality = "exact"
	// QualityLeastSquares marks a fix minimizing residuals over three or
	// more bearings.
	QualityLeastSquares Quality = "least-squares"
	// QualityInsufficient marks the absence of a fix: fewer than two
	// stations reported a bearing.
	QualityInsufficient Quality = "insufficient-data"
)

// Fix is the engine's best estimate of the transmitter position, together
// with the residual information a caller needs to judge confidence.
type Fix struct {
	Position geodesy.Point `json:"position"`
	Quality  Quality       `json:"quality"`
	Stations int           `json:"stations"`

	// MaxResidualKm is the largest perpendicular distance from the fix to
	// any contributing bearing line. Large values point at an inconsistent
	// station.
	MaxResidualKm float64 `json:"max_residual_km"`

	// SeparationKm is the closest-approach separation of the two rays when
	// exactly two bearings contribute.
	SeparationKm float64 `json:"separation_km"`

	// MinBearingAngleDeg is the smallest pairwise angular separation
	// between contributing azimuths. Values below the configured warning
	// threshold mean a numerically unstable, near-parallel geometry.
	MinBearingAngleDeg float64 `json:"min_bearing_angle_deg"`
}

// HasPosition reports whether the fix carries a usable position.
func (f Fix) HasPosition() bool {
	return f.Quality != QualityInsufficient
}

// Solver computes transmitter fixes from bearing lines. The zero value is
// not usable; construct with NewSolver.
type Solver struct {
	// ExactToleranceKm is the closest-approach separation under which a
	// two-bearing crossing is considered a clean intersection. Wider
	// separations still produce a fix; the separation is reported so the
	// caller can flag it.
	ExactToleranceKm float64
}

// NewSolver returns a solver with the given exact-intersection tolerance in
// kilometres. Non-positive values fall back to 0.5 km.
func NewSolver(exactToleranceKm float64) *Solver {
	if exactToleranceKm <= 0 {
		exactToleranceKm = 0.5
	}
	return &Solver{ExactToleranceKm: exactToleranceKm}
}

// Solve computes a fix from the given bearing lines. The input is
// normalized internally, so the result does not depend on the order in
// which stations were added. Stations are never discarded; outliers surface
// through MaxResidualKm.
func (s *Solver) Solve(lines []BearingLine) Fix {
	normalized := normalizeLines(lines)

	switch len(normalized) {
	case 0, 1:
		return Fix{Quality: QualityInsufficient, Stations: len(normalized)}
	case 2:
		return s.solvePair(normalized)
	default:
		return s.solveLeastSquares(normalized)
	}
}

func (s *Solver) solvePair(lines []BearingLine) Fix {
	approach := lines[0].ClosestApproach(lines[1])

	return Fix{
		Position:           approach.Midpoint,
		Quality:            QualityExact,
		Stations:           2,
		MaxResidualKm:      approach.SeparationKm / 2,
		SeparationKm:       approach.SeparationKm,
		MinBearingAngleDeg: AngleBetweenBearings(lines[0].AzimuthDeg, lines[1].AzimuthDeg),
	}
}

func (s *Solver) solveLeastSquares(lines []BearingLine) Fix {
	seed := pairwiseSeed(lines)
	plane := geodesy.NewPlane(seed)

	rays := make([]ray, len(lines))
	for i, l := range lines {
		rays[i] = l.onPlane(plane)
	}

	// Minimize the sum of squared perpendicular distances from the
	// candidate point to every bearing ray. Equal weight per station;
	// signal-confidence weighting is a possible future refinement, not a
	// hidden default.
	objective := func(x []float64) float64 {
		var sum float64
		for _, r := range rays {
			d := r.distanceTo(x[0], x[1])
			sum += d * d
		}
		return sum
	}

	sx, sy := plane.ToXY(seed)
	best := []float64{sx, sy}

	problem := optimize.Problem{Func: objective}
	result, err := optimize.Minimize(problem, best, nil, &optimize.NelderMead{})
	if err == nil && result != nil && !math.IsNaN(result.X[0]) && !math.IsNaN(result.X[1]) {
		best = result.X
	}

	fixPos := plane.FromXY(best[0], best[1])

	var maxResidual float64
	for _, r := range rays {
		if d := r.distanceTo(best[0], best[1]); d > maxResidual {
			maxResidual = d
		}
	}

	minAngle := 180.0
	for i := 0; i < len(lines); i++ {
		for j := i + 1; j < len(lines); j++ {
			if a := AngleBetweenBearings(lines[i].AzimuthDeg, lines[j].AzimuthDeg); a < minAngle {
				minAngle = a
			}
		}
	}

	return Fix{
		Position:           fixPos,
		Quality:            QualityLeastSquares,
		Stations:           len(lines),
		MaxResidualKm:      maxResidual,
		MinBearingAngleDeg: minAngle,
	}
}

// pairwiseSeed averages the closest-approach midpoints of every line pair,
// giving the iterative refinement a starting point near the true crossing
// region.
func pairwiseSeed(lines []BearingLine) geodesy.Point {
	var lat, lon float64
	var n int
	for i := 0; i < len(lines); i++ {
		for j := i + 1; j < len(lines); j++ {
			mid := lines[i].ClosestApproach(lines[j]).Midpoint
			lat += mid.Lat
			lon += mid.Lon
			n++
		}
	}
	if n == 0 {
		return lines[0].Origin
	}
	return geodesy.Point{Lat: lat / float64(n), Lon: lon / float64(n)}
}

// normalizeLines copies and sorts the input so insertion order never
// affects the solution.
func normalizeLines(lines []BearingLine) []BearingLine {
	out := make([]BearingLine, len(lines))
	copy(out, lines)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Callsign != out[j].Callsign {
			return out[i].Callsign < out[j].Callsign
		}
		if out[i].Origin.Lat != out[j].Origin.Lat {
			return out[i].Origin.Lat < out[j].Origin.Lat
		}
		if out[i].Origin.Lon != out[j].Origin.Lon {
			return out[i].Origin.Lon < out[j].Origin.Lon
		}
		return out[i].AzimuthDeg < out[j].AzimuthDeg
	})
	return out
}
