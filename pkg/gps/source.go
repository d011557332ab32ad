// Package gps provides the operator's own position, read from a GPS
// receiver on a serial port.
package gps

// Position is a GPS reading in WGS84 decimal degrees.
type Position struct {
	Latitude  float64
	Longitude float64
	HDOP      float64 // horizontal dilution of precision, quality proxy
}

// Source is a provider of the operator's current position.
type Source interface {
	GetPosition() (Position, error)
	Close() error
}
