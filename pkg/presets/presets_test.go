package presets

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sater-ops/df-agent/pkg/file"
)

// TestStore_MissingFile tests that a store over a non-existent file loads
// empty.
func TestStore_MissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "presets.json"), file.NewFileService())

	assert.NoError(t, s.Load())
	_, ok := s.Lookup("alpha")
	assert.False(t, ok)
}

// TestStore_SaveLoadRoundTrip tests persistence through the JSON file.
func TestStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	fileOps := file.NewFileService()

	s := NewStore(path, fileOps)
	s.Put(Preset{Name: "Alpha post", Callsign: "alpha", Lat: 48.85, Lon: 2.35, Color: "#ff0000"})
	s.Put(Preset{Name: "Bravo post", Callsign: "BRAVO", Lat: 48.9, Lon: 2.4, DefaultUncertainty: 3})
	assert.NoError(t, s.Save())

	reloaded := NewStore(path, fileOps)
	assert.NoError(t, reloaded.Load())

	p, ok := reloaded.Lookup("ALPHA")
	assert.True(t, ok)
	assert.Equal(t, "Alpha post", p.Name)
	assert.Equal(t, 48.85, p.Lat)

	p, ok = reloaded.Lookup("bravo")
	assert.True(t, ok)
	assert.Equal(t, 3.0, p.DefaultUncertainty)
}

// TestStore_LookupCaseInsensitive tests callsign normalization.
func TestStore_LookupCaseInsensitive(t *testing.T) {
	s := NewStore("unused.json", file.NewFileService())
	s.Put(Preset{Callsign: "Alpha", Lat: 1, Lon: 2})

	for _, key := range []string{"alpha", "ALPHA", " alpha "} {
		p, ok := s.Lookup(key)
		assert.True(t, ok, key)
		assert.Equal(t, 1.0, p.Lat)
	}
}

// TestStore_PutReplaces tests that a preset overwrites its predecessor.
func TestStore_PutReplaces(t *testing.T) {
	s := NewStore("unused.json", file.NewFileService())
	s.Put(Preset{Callsign: "alpha", Lat: 1})
	s.Put(Preset{Callsign: "ALPHA", Lat: 2})

	p, ok := s.Lookup("alpha")
	assert.True(t, ok)
	assert.Equal(t, 2.0, p.Lat)
}
