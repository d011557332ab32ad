package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/sater-ops/df-agent/pkg/geodesy"
)

// DefaultUncertaintyDeg is the error-cone half-angle assumed for a station
// that does not report its own bearing uncertainty.
const DefaultUncertaintyDeg = 5.0

// Station is one field team's direction-finding post: a position and,
// once the team hears the beacon, a bearing reading.
type Station struct {
	Callsign string        `json:"callsign"`
	Position geodesy.Point `json:"position"`

	// AzimuthDeg is the reported bearing in degrees clockwise from true
	// north. Only meaningful when AzimuthSet is true; a station without a
	// bearing is inert and contributes no line to the solver.
	AzimuthDeg float64 `json:"azimuth_deg"`
	AzimuthSet bool    `json:"azimuth_set"`

	// UncertaintyDeg is the station's own error-cone half-angle. Zero
	// means the engine default applies.
	UncertaintyDeg float64 `json:"uncertainty_deg"`

	Signal    string    `json:"signal,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Color     string    `json:"color,omitempty"`
	ReadingID string    `json:"reading_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Key returns the registry key for a callsign. Callsigns are unique
// case-insensitively.
func Key(callsign string) string {
	return strings.ToUpper(strings.TrimSpace(callsign))
}

// Validate checks the station's ranges. It returns an error wrapping
// ErrInvalidStation when a field is out of range.
func (s Station) Validate() error {
	if Key(s.Callsign) == "" {
		return fmt.Errorf("%w: empty callsign", ErrInvalidStation)
	}
	if s.Position.Lat < -90 || s.Position.Lat > 90 {
		return fmt.Errorf("%w: latitude %.6f out of range [-90, 90]", ErrInvalidStation, s.Position.Lat)
	}
	if s.Position.Lon < -180 || s.Position.Lon > 180 {
		return fmt.Errorf("%w: longitude %.6f out of range [-180, 180]", ErrInvalidStation, s.Position.Lon)
	}
	if s.AzimuthSet && (s.AzimuthDeg < 0 || s.AzimuthDeg >= 360) {
		return fmt.Errorf("%w: azimuth %.2f out of range [0, 360)", ErrInvalidStation, s.AzimuthDeg)
	}
	if s.UncertaintyDeg < 0 || s.UncertaintyDeg >= 90 {
		return fmt.Errorf("%w: uncertainty %.2f out of range [0, 90)", ErrInvalidStation, s.UncertaintyDeg)
	}
	return nil
}
