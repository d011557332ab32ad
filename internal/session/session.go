// Package session owns mission state for the direction-finding engine: the
// station registry, the beacon, and the recompute cascade that keeps fix
// and search zone consistent with the current readings.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sater-ops/df-agent/internal/triangulation"
	"github.com/sater-ops/df-agent/pkg/geodesy"
)

// Config holds the engine tuning parameters. Zero values fall back to the
// operational defaults.
type Config struct {
	// RayLengthKm caps every bearing ray. Default 1000 km.
	RayLengthKm float64

	// ConeHalfAngleDeg is the default error-cone half-angle for stations
	// that do not report their own uncertainty. Default 5 degrees.
	ConeHalfAngleDeg float64

	// ExactSeparationKm is the two-bearing closest-approach tolerance.
	// Default 0.5 km.
	ExactSeparationKm float64

	// ParallelWarnDeg is the angular separation below which a bearing pair
	// is flagged as near-parallel. Default 5 degrees.
	ParallelWarnDeg float64
}

func (c Config) withDefaults() Config {
	if c.RayLengthKm <= 0 {
		c.RayLengthKm = triangulation.DefaultRayLengthKm
	}
	if c.ConeHalfAngleDeg <= 0 {
		c.ConeHalfAngleDeg = 5
	}
	if c.ExactSeparationKm <= 0 {
		c.ExactSeparationKm = 0.5
	}
	if c.ParallelWarnDeg <= 0 {
		c.ParallelWarnDeg = 5
	}
	return c
}

// MissionSession is the unit of mission lifecycle: one station registry,
// one beacon, and the derived fix and search zone. Every mutation runs the
// full recompute cascade before returning, so callers always observe a
// consistent triple. All methods are safe for concurrent use; mutations are
// serialized internally.
type MissionSession struct {
	mu sync.Mutex

	id        string
	createdAt time.Time
	cfg       Config

	registry  *Registry
	beacon    Beacon
	solver    *triangulation.Solver
	estimator *triangulation.Estimator

	fix     triangulation.Fix
	zone    triangulation.SearchZone
	history []AzimuthRecord

	notify func(missionID string)
	logger zerolog.Logger
}

// New creates an empty mission session. An empty id gets a generated UUID.
func New(id string, cfg Config, logger zerolog.Logger) *MissionSession {
	if id == "" {
		id = uuid.NewString()
	}
	cfg = cfg.withDefaults()

	m := &MissionSession{
		id:        id,
		createdAt: time.Now(),
		cfg:       cfg,
		registry:  NewRegistry(),
		beacon:    Beacon{Mode: BeaconComputed},
		solver:    triangulation.NewSolver(cfg.ExactSeparationKm),
		estimator: triangulation.NewEstimator(cfg.ConeHalfAngleDeg),
		fix:       triangulation.Fix{Quality: triangulation.QualityInsufficient},
		logger:    logger.With().Str("mission_id", id).Logger(),
	}
	return m
}

// ID returns the mission identifier.
func (m *MissionSession) ID() string {
	return m.id
}

// CreatedAt returns the session creation time.
func (m *MissionSession) CreatedAt() time.Time {
	return m.createdAt
}

// setNotify installs the change callback used by the session manager. The
// callback must not block.
func (m *MissionSession) setNotify(fn func(missionID string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notify = fn
}

// AddStation validates and inserts a station reading, replacing any
// existing station with the same callsign, then recomputes fix and zone.
// A reading that carries a bearing is appended to the mission log.
func (m *MissionSession) AddStation(st Station) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if st.Timestamp.IsZero() {
		st.Timestamp = time.Now()
	}
	if st.ReadingID == "" {
		st.ReadingID = uuid.NewString()[:8]
	}

	if err := m.registry.Upsert(st); err != nil {
		return err
	}

	if st.AzimuthSet {
		m.appendHistory(st)
	}

	m.recompute()
	return nil
}

// UpdateAzimuth replaces the bearing of an existing station and recomputes.
func (m *MissionSession) UpdateAzimuth(callsign string, azimuthDeg float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.registry.UpdateAzimuth(callsign, azimuthDeg); err != nil {
		return err
	}

	if st, ok := m.registry.Get(callsign); ok {
		st.Timestamp = time.Now()
		st.ReadingID = uuid.NewString()[:8]
		m.registry.stations[Key(callsign)] = st
		m.appendHistory(st)
	}

	m.recompute()
	return nil
}

// SetStationPosition moves an existing station, or registers a new inert
// station (no bearing yet) at the given position. Used by the operator GPS
// feed.
func (m *MissionSession) SetStationPosition(callsign string, lat, lon float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.registry.Get(callsign)
	if !ok {
		st = Station{Callsign: callsign}
	}
	st.Position = geodesy.Point{Lat: lat, Lon: lon}
	st.Timestamp = time.Now()

	if err := m.registry.Upsert(st); err != nil {
		return err
	}

	m.recompute()
	return nil
}

// RemoveStation deletes a station and recomputes. Removing an unknown
// callsign fails with ErrNotFound and changes nothing.
func (m *MissionSession) RemoveStation(callsign string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.registry.Remove(callsign); err != nil {
		return err
	}

	m.recompute()
	return nil
}

// SetManualBeacon places the beacon by hand. Always allowed; the manual
// position survives any number of recomputes until UseComputedBeacon or
// ClearBeacon.
func (m *MissionSession) SetManualBeacon(lat, lon float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.beacon = Beacon{
		Mode:     BeaconManual,
		Position: geodesy.Point{Lat: lat, Lon: lon},
		Placed:   true,
	}
	m.notifyChange()
}

// UseComputedBeacon switches the beacon to track the solver output. Fails
// with ErrNoFixAvailable, retaining the prior beacon state, when the solver
// currently reports insufficient data.
func (m *MissionSession) UseComputedBeacon() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.fix.HasPosition() {
		return ErrNoFixAvailable
	}

	m.beacon = Beacon{
		Mode:     BeaconComputed,
		Position: m.fix.Position,
		Placed:   true,
	}
	m.notifyChange()
	return nil
}

// ClearBeacon drops any manual override and returns the beacon to
// computed-tracking mode. The beacon is unplaced until a fix exists.
func (m *MissionSession) ClearBeacon() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.beacon = Beacon{Mode: BeaconComputed}
	if m.fix.HasPosition() {
		m.beacon.Position = m.fix.Position
		m.beacon.Placed = true
	}
	m.notifyChange()
}

// CurrentFix returns the latest solver output.
func (m *MissionSession) CurrentFix() triangulation.Fix {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fix
}

// CurrentSearchZone returns the latest search zone.
func (m *MissionSession) CurrentSearchZone() triangulation.SearchZone {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.zone
}

// CurrentBeacon returns the active beacon state.
func (m *MissionSession) CurrentBeacon() Beacon {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.beacon
}

// NearParallelWarning reports whether the current fix geometry is poorly
// conditioned: the smallest pairwise bearing separation is below the
// configured warning threshold.
func (m *MissionSession) NearParallelWarning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fix.HasPosition() && m.fix.MinBearingAngleDeg < m.cfg.ParallelWarnDeg
}

// Station returns the station registered under a callsign.
func (m *MissionSession) Station(callsign string) (Station, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registry.Get(callsign)
}

// Stations returns the registered stations sorted by callsign.
func (m *MissionSession) Stations() []Station {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registry.Stations()
}

// StationCount returns the number of registered stations.
func (m *MissionSession) StationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registry.Len()
}

// History returns a copy of the mission's bearing log.
func (m *MissionSession) History() []AzimuthRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]AzimuthRecord, len(m.history))
	copy(out, m.history)
	return out
}

// Reset clears stations, log and beacon for a new mission.
func (m *MissionSession) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.registry.Clear()
	m.history = nil
	m.beacon = Beacon{Mode: BeaconComputed}
	m.recompute()
}

// recompute rebuilds bearing lines, fix, search zone and a tracked beacon.
// Must be called with the session lock held.
func (m *MissionSession) recompute() {
	var lines []triangulation.BearingLine
	for _, st := range m.registry.Stations() {
		if !st.AzimuthSet {
			continue
		}
		lines = append(lines, triangulation.NewBearingLine(
			Key(st.Callsign), st.Position, st.AzimuthDeg, st.UncertaintyDeg, m.cfg.RayLengthKm))
	}

	m.fix = m.solver.Solve(lines)
	m.zone = m.estimator.Estimate(lines, m.fix)

	if m.beacon.Mode == BeaconComputed && m.fix.HasPosition() {
		m.beacon.Position = m.fix.Position
		m.beacon.Placed = true
	}

	m.logger.Debug().
		Str("quality", string(m.fix.Quality)).
		Int("stations", m.fix.Stations).
		Float64("zone_area_km2", m.zone.AreaKm2).
		Msg("Recomputed fix and search zone")

	m.notifyChange()
}

func (m *MissionSession) appendHistory(st Station) {
	m.history = append(m.history, AzimuthRecord{
		ID:             st.ReadingID,
		Timestamp:      st.Timestamp,
		Callsign:       st.Callsign,
		AzimuthDeg:     st.AzimuthDeg,
		UncertaintyDeg: st.UncertaintyDeg,
		Lat:            st.Position.Lat,
		Lon:            st.Position.Lon,
		Signal:         st.Signal,
	})
}

func (m *MissionSession) notifyChange() {
	if m.notify != nil {
		m.notify(m.id)
	}
}
