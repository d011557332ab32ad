// Package presets stores the usual positions of known direction-finding
// stations, so a field team at its habitual post can report a bearing
// without re-sending coordinates.
package presets

import (
	"strings"
	"sync"

	"github.com/sater-ops/df-agent/pkg/file"
)

// Preset is a known station post.
type Preset struct {
	Name               string  `json:"name"`
	Callsign           string  `json:"callsign"`
	Lat                float64 `json:"lat"`
	Lon                float64 `json:"lon"`
	Color              string  `json:"color,omitempty"`
	DefaultUncertainty float64 `json:"default_uncertainty,omitempty"`
}

// Store holds station presets loaded from a JSON file.
type Store struct {
	mu       sync.RWMutex
	filePath string
	fileOps  file.FileOperations
	presets  map[string]Preset // keyed by upper-case callsign
}

// NewStore creates a preset store backed by the given file. The file does
// not need to exist yet.
func NewStore(filePath string, fileOps file.FileOperations) *Store {
	return &Store{
		filePath: filePath,
		fileOps:  fileOps,
		presets:  make(map[string]Preset),
	}
}

// Load reads the preset file. A missing file leaves the store empty
// without error.
func (s *Store) Load() error {
	exists, err := s.fileOps.IsFileExists(s.filePath)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	var list []Preset
	if err := s.fileOps.ReadJsonFile(s.filePath, &list); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.presets = make(map[string]Preset, len(list))
	for _, p := range list {
		s.presets[strings.ToUpper(p.Callsign)] = p
	}
	return nil
}

// Lookup returns the preset for a callsign, case-insensitively.
func (s *Store) Lookup(callsign string) (Preset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.presets[strings.ToUpper(strings.TrimSpace(callsign))]
	return p, ok
}

// Put adds or replaces a preset in memory.
func (s *Store) Put(p Preset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presets[strings.ToUpper(p.Callsign)] = p
}

// Save writes the presets back to the file.
func (s *Store) Save() error {
	s.mu.RLock()
	list := make([]Preset, 0, len(s.presets))
	for _, p := range s.presets {
		list = append(list, p)
	}
	s.mu.RUnlock()

	return s.fileOps.WriteJsonFile(s.filePath, list)
}
