package session

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/sater-ops/df-agent/internal/triangulation"
)

// TestSnapshot_CarriesFullState tests that the export carries everything an
// export writer needs.
func TestSnapshot_CarriesFullState(t *testing.T) {
	m := newTestSession(t)

	assert.NoError(t, m.AddStation(bearingStation("alpha", 0, 0, 90)))
	assert.NoError(t, m.AddStation(bearingStation("bravo", 0.5, 0.5, 180)))

	snap := m.Snapshot()

	assert.Equal(t, SnapshotSchemaVersion, snap.SchemaVersion)
	assert.Equal(t, "test-mission", snap.MissionID)
	assert.False(t, snap.GeneratedAt.IsZero())
	assert.Len(t, snap.Stations, 2)
	assert.Equal(t, triangulation.QualityExact, snap.Fix.Quality)
	assert.False(t, snap.SearchZone.IsEmpty())
	assert.Len(t, snap.History, 2)

	// A placed beacon carries its display formats.
	assert.True(t, snap.Beacon.Placed)
	assert.NotEmpty(t, snap.Beacon.LatDMS)
	assert.NotEmpty(t, snap.Beacon.LonDMS)
	assert.NotEmpty(t, snap.Beacon.MGRS)
}

// TestSnapshot_UnplacedBeaconOmitsFormats tests that no display formats are
// derived for an unplaced beacon.
func TestSnapshot_UnplacedBeaconOmitsFormats(t *testing.T) {
	m := newTestSession(t)

	snap := m.Snapshot()
	assert.False(t, snap.Beacon.Placed)
	assert.Empty(t, snap.Beacon.LatDMS)
	assert.Empty(t, snap.Beacon.MGRS)
}

// TestRestoreSnapshot_RoundTrip tests that a session restored from its own
// export reproduces the derived state.
func TestRestoreSnapshot_RoundTrip(t *testing.T) {
	src := newTestSession(t)
	assert.NoError(t, src.AddStation(bearingStation("alpha", 0, 0, 90)))
	assert.NoError(t, src.AddStation(bearingStation("bravo", 0.5, 0.5, 180)))
	src.SetManualBeacon(10, 20)

	// Through JSON, as an export file would travel.
	payload, err := json.Marshal(src.Snapshot())
	assert.NoError(t, err)

	var snap Snapshot
	assert.NoError(t, json.Unmarshal(payload, &snap))

	dst := New("restored", Config{}, zerolog.Nop())
	assert.NoError(t, dst.RestoreSnapshot(snap))

	assert.Equal(t, 2, dst.StationCount())
	assert.Len(t, dst.History(), 2)

	srcFix := src.CurrentFix()
	dstFix := dst.CurrentFix()
	assert.Equal(t, srcFix.Quality, dstFix.Quality)
	assert.InDelta(t, srcFix.Position.Lat, dstFix.Position.Lat, 1e-9)
	assert.InDelta(t, srcFix.Position.Lon, dstFix.Position.Lon, 1e-9)

	beacon := dst.CurrentBeacon()
	assert.Equal(t, BeaconManual, beacon.Mode)
	assert.Equal(t, 10.0, beacon.Position.Lat)
}

// TestRestoreSnapshot_RejectsIncompatibleSchema tests the schema version
// gate.
func TestRestoreSnapshot_RejectsIncompatibleSchema(t *testing.T) {
	m := newTestSession(t)

	err := m.RestoreSnapshot(Snapshot{SchemaVersion: "1.4.0"})
	assert.Error(t, err)

	err = m.RestoreSnapshot(Snapshot{SchemaVersion: "3.0.0"})
	assert.Error(t, err)

	err = m.RestoreSnapshot(Snapshot{SchemaVersion: "not-a-version"})
	assert.Error(t, err)

	// A compatible minor bump restores fine.
	err = m.RestoreSnapshot(Snapshot{SchemaVersion: "2.1.0"})
	assert.NoError(t, err)
}

// TestRestoreSnapshot_ValidatesStations tests that a corrupted export cannot
// poison the registry.
func TestRestoreSnapshot_ValidatesStations(t *testing.T) {
	m := newTestSession(t)
	assert.NoError(t, m.AddStation(bearingStation("alpha", 0, 0, 90)))

	err := m.RestoreSnapshot(Snapshot{
		SchemaVersion: SnapshotSchemaVersion,
		Stations:      []Station{bearingStation("bad", 95, 0, 90)},
	})
	assert.ErrorIs(t, err, ErrInvalidStation)

	// The session kept its previous contents.
	assert.Equal(t, 1, m.StationCount())
}
