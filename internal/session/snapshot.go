package session

import (
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/sater-ops/df-agent/internal/triangulation"
	"github.com/sater-ops/df-agent/pkg/coords"
	"github.com/sater-ops/df-agent/pkg/geodesy"
)

// SnapshotSchemaVersion is stamped on every exported snapshot.
const SnapshotSchemaVersion = "2.0.0"

// snapshotSchemaConstraint is the range of schema versions RestoreSnapshot
// accepts.
const snapshotSchemaConstraint = "^2.0"

// BeaconSnapshot is the beacon state with the display formats export
// collaborators print verbatim.
type BeaconSnapshot struct {
	Mode     BeaconMode    `json:"mode"`
	Placed   bool          `json:"placed"`
	Position geodesy.Point `json:"position"`
	LatDMS   string        `json:"lat_dms,omitempty"`
	LonDMS   string        `json:"lon_dms,omitempty"`
	MGRS     string        `json:"mgrs,omitempty"`

	// Locality is an optional reverse-geocoded place name near the beacon,
	// filled in by the snapshot publisher when geocoding is configured.
	Locality string `json:"locality,omitempty"`
}

// Snapshot is the complete exportable state of a mission. Every field is
// carried at full double precision so KML/JSON/PDF writers can serialize it
// without re-deriving any geometry.
type Snapshot struct {
	SchemaVersion string    `json:"schema_version"`
	MissionID     string    `json:"mission_id"`
	GeneratedAt   time.Time `json:"generated_at"`

	Stations   []Station                `json:"stations"`
	Fix        triangulation.Fix        `json:"fix"`
	SearchZone triangulation.SearchZone `json:"search_zone"`
	Beacon     BeaconSnapshot           `json:"beacon"`
	History    []AzimuthRecord          `json:"history,omitempty"`

	// NearParallel flags a poorly conditioned bearing geometry so the UI
	// can warn without re-deriving angles.
	NearParallel bool `json:"near_parallel"`
}

// Snapshot exports the current mission state.
func (m *MissionSession) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	beacon := BeaconSnapshot{
		Mode:     m.beacon.Mode,
		Placed:   m.beacon.Placed,
		Position: m.beacon.Position,
	}
	if m.beacon.Placed {
		beacon.LatDMS = coords.LatitudeDMS(m.beacon.Position.Lat).String()
		beacon.LonDMS = coords.LongitudeDMS(m.beacon.Position.Lon).String()
		beacon.MGRS = coords.ToMGRS(m.beacon.Position.Lat, m.beacon.Position.Lon)
	}

	history := make([]AzimuthRecord, len(m.history))
	copy(history, m.history)

	return Snapshot{
		SchemaVersion: SnapshotSchemaVersion,
		MissionID:     m.id,
		GeneratedAt:   time.Now(),
		Stations:      m.registry.Stations(),
		Fix:           m.fix,
		SearchZone:    m.zone,
		Beacon:        beacon,
		History:       history,
		NearParallel:  m.fix.HasPosition() && m.fix.MinBearingAngleDeg < m.cfg.ParallelWarnDeg,
	}
}

// RestoreSnapshot replaces the session contents with a previously exported
// snapshot, after checking its schema version for compatibility. Derived
// state is recomputed from the restored stations, not trusted from the
// snapshot.
func (m *MissionSession) RestoreSnapshot(snap Snapshot) error {
	version, err := semver.NewVersion(snap.SchemaVersion)
	if err != nil {
		return fmt.Errorf("invalid snapshot schema version %q: %w", snap.SchemaVersion, err)
	}
	constraint, err := semver.NewConstraint(snapshotSchemaConstraint)
	if err != nil {
		return err
	}
	if !constraint.Check(version) {
		return fmt.Errorf("snapshot schema %s incompatible with %s", snap.SchemaVersion, snapshotSchemaConstraint)
	}

	for _, st := range snap.Stations {
		if err := st.Validate(); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.registry.Clear()
	for _, st := range snap.Stations {
		// Already validated above; Upsert cannot fail here.
		if err := m.registry.Upsert(st); err != nil {
			return err
		}
	}

	m.history = make([]AzimuthRecord, len(snap.History))
	copy(m.history, snap.History)

	if snap.Beacon.Mode == BeaconManual && snap.Beacon.Placed {
		m.beacon = Beacon{Mode: BeaconManual, Position: snap.Beacon.Position, Placed: true}
	} else {
		m.beacon = Beacon{Mode: BeaconComputed}
	}

	m.recompute()
	return nil
}
