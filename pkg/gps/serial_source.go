package gps

import (
	"bufio"
	"errors"
	"strings"

	"github.com/adrianmo/go-nmea"
	"github.com/tarm/serial"
)

// SerialSource reads NMEA sentences from a GPS receiver connected via a
// serial port. Each GetPosition call opens the port, waits for the next
// GGA sentence and closes the port again.
type SerialSource struct {
	port     string
	baudRate int
}

// NewSerialSource creates a source for the given serial port and baud rate.
func NewSerialSource(port string, baudRate int) *SerialSource {
	return &SerialSource{
		port:     port,
		baudRate: baudRate,
	}
}

// GetPosition reads GPS data from the device and returns the current
// position from the first GGA sentence seen.
func (s *SerialSource) GetPosition() (Position, error) {
	c := &serial.Config{Name: s.port, Baud: s.baudRate}
	p, err := serial.OpenPort(c)
	if err != nil {
		return Position{}, err
	}
	defer p.Close()

	scanner := bufio.NewScanner(p)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "$GPGGA") && !strings.HasPrefix(line, "$GNGGA") {
			continue
		}

		sentence, err := nmea.Parse(line)
		if err != nil {
			return Position{}, err
		}

		if gga, ok := sentence.(nmea.GGA); ok {
			return Position{
				Latitude:  gga.Latitude,
				Longitude: gga.Longitude,
				HDOP:      float64(gga.HDOP),
			}, nil
		}
	}

	if err := scanner.Err(); err != nil {
		return Position{}, err
	}

	return Position{}, errors.New("no valid GPS data found")
}

// Close is a no-op; the port is opened and closed per read.
func (s *SerialSource) Close() error {
	return nil
}
