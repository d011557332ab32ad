package models

import "time"

// SignalLevels are the S-meter readings a field team may attach to a
// bearing report, weakest to strongest.
var SignalLevels = []string{
	"S0", "S1", "S2", "S3", "S4", "S5", "S6", "S7", "S8", "S9",
	"S9+10", "S9+20", "S9+30",
}

var signalLevelSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(SignalLevels))
	for _, s := range SignalLevels {
		set[s] = struct{}{}
	}
	return set
}()

// IsValidSignal reports whether level is a known S-meter reading.
func IsValidSignal(level string) bool {
	_, ok := signalLevelSet[level]
	return ok
}

// BearingReport is the MQTT payload a field team publishes when it takes a
// bearing on the distress signal.
type BearingReport struct {
	MissionID string    `json:"mission_id"`
	Callsign  string    `json:"callsign"`
	Timestamp time.Time `json:"timestamp"`

	// Station position. When HasPosition is false the agent falls back to
	// the station's preset position, letting teams with known posts report
	// just the bearing.
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	HasPosition bool    `json:"has_position"`

	// Bearing in degrees clockwise from true north. HasAzimuth false means
	// the team is on station but has not heard the beacon yet.
	AzimuthDeg float64 `json:"azimuth_deg"`
	HasAzimuth bool    `json:"has_azimuth"`

	// UncertaintyDeg is the team's own error-cone half-angle; 0 applies
	// the engine default.
	UncertaintyDeg float64 `json:"uncertainty_deg,omitempty"`

	Signal string `json:"signal,omitempty"`
	Notes  string `json:"notes,omitempty"`

	// Remove withdraws the station from the mission instead of updating it.
	Remove bool `json:"remove,omitempty"`
}
