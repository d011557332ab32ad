package session

import "errors"

// Engine errors. All are recoverable: a failed call leaves the session
// exactly as it was.
var (
	// ErrInvalidStation means a coordinate or azimuth was out of range.
	ErrInvalidStation = errors.New("invalid station")

	// ErrNotFound means the referenced callsign is not in the registry.
	ErrNotFound = errors.New("station not found")

	// ErrNoFixAvailable means a computed beacon was requested while fewer
	// than two stations carry a bearing.
	ErrNoFixAvailable = errors.New("no computed fix available")
)
