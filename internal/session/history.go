package session

import "time"

// AzimuthRecord is one entry of the mission's bearing log: every accepted
// reading is appended here so the operator can review and export the raw
// observations afterwards.
type AzimuthRecord struct {
	ID             string    `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	Callsign       string    `json:"callsign"`
	AzimuthDeg     float64   `json:"azimuth_deg"`
	UncertaintyDeg float64   `json:"uncertainty_deg"`
	Lat            float64   `json:"lat"`
	Lon            float64   `json:"lon"`
	Signal         string    `json:"signal,omitempty"`
}
