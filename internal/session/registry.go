package session

import (
	"fmt"
	"sort"
)

// Registry owns the mutable set of stations for one mission, keyed by
// case-insensitive callsign. It is not safe for concurrent use on its own;
// MissionSession serializes access.
type Registry struct {
	stations map[string]Station
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{stations: make(map[string]Station)}
}

// Upsert validates the station and inserts it, replacing any existing
// station with the same callsign. On validation failure the registry is
// unchanged.
func (r *Registry) Upsert(st Station) error {
	if err := st.Validate(); err != nil {
		return err
	}
	r.stations[Key(st.Callsign)] = st
	return nil
}

// Get returns the station for a callsign.
func (r *Registry) Get(callsign string) (Station, bool) {
	st, ok := r.stations[Key(callsign)]
	return st, ok
}

// UpdateAzimuth replaces the bearing of an existing station. The azimuth is
// validated before anything changes.
func (r *Registry) UpdateAzimuth(callsign string, azimuthDeg float64) error {
	key := Key(callsign)
	st, ok := r.stations[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, callsign)
	}

	st.AzimuthDeg = azimuthDeg
	st.AzimuthSet = true
	if err := st.Validate(); err != nil {
		return err
	}

	r.stations[key] = st
	return nil
}

// Remove deletes a station. Removing an unknown callsign fails with
// ErrNotFound and has no effect.
func (r *Registry) Remove(callsign string) error {
	key := Key(callsign)
	if _, ok := r.stations[key]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, callsign)
	}
	delete(r.stations, key)
	return nil
}

// Len returns the number of registered stations, with or without bearings.
func (r *Registry) Len() int {
	return len(r.stations)
}

// Stations returns all stations sorted by callsign key.
func (r *Registry) Stations() []Station {
	out := make([]Station, 0, len(r.stations))
	for _, st := range r.stations {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		return Key(out[i].Callsign) < Key(out[j].Callsign)
	})
	return out
}

// Clear removes every station, e.g. when a mission is reset.
func (r *Registry) Clear() {
	r.stations = make(map[string]Station)
}
